package ui

import (
	"testing"
	"time"

	"github.com/cuems/aedkeeper/internal/aed"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"anything", 0, ""},
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"Student Union", 8, "Stude..."},
		{"Café Étoile", 6, "Caf..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestFormatAgo(t *testing.T) {
	time.Local = time.UTC
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"now", now.Add(-10 * time.Second), "11:59:50 (now)"},
		{"minutes", now.Add(-5 * time.Minute), "11:55:00 (5m ago)"},
		{"hours", now.Add(-3 * time.Hour), "09:00:00 (3h ago)"},
		{"days", now.Add(-48 * time.Hour), "2025-06-13"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatAgo(tc.at, now); got != tc.want {
				t.Fatalf("formatAgo = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(time.Time{}); got != "-" {
		t.Fatalf("formatDate(zero) = %q, want -", got)
	}
	if got := formatDate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)); got != "2025-01-15" {
		t.Fatalf("formatDate = %q, want 2025-01-15", got)
	}
}

func TestLocationLine(t *testing.T) {
	rec := aed.Record{BuildingName: "Student Union", BuildingCode: "SU", Floor: "2"}
	if got := locationLine(rec); got != "Student Union (SU), floor 2" {
		t.Fatalf("locationLine = %q", got)
	}
	if got := locationLine(aed.Record{BuildingName: "Library"}); got != "Library" {
		t.Fatalf("locationLine without code or floor = %q, want Library", got)
	}
}

func TestNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []aed.LogEntry{
		{LogID: 1, SubmissionTimestamp: base},
		{LogID: 2, SubmissionTimestamp: base.Add(48 * time.Hour)},
		{LogID: 3, SubmissionTimestamp: base.Add(24 * time.Hour)},
	}
	out := newestFirst(in)
	if out[0].LogID != 2 || out[1].LogID != 3 || out[2].LogID != 1 {
		t.Fatalf("newestFirst order = %d,%d,%d, want 2,3,1", out[0].LogID, out[1].LogID, out[2].LogID)
	}
	if in[0].LogID != 1 {
		t.Fatalf("newestFirst must not reorder its input")
	}
}
