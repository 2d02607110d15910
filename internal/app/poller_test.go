package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/datalayer"
	"github.com/cuems/aedkeeper/internal/logging"
	"github.com/cuems/aedkeeper/internal/pending"
	"github.com/cuems/aedkeeper/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeSource struct {
	status   datalayer.SyncStatus
	overview datalayer.Overview
	err      error
	syncs    int
}

func (f *fakeSource) Overview(context.Context) (datalayer.Overview, error) {
	return f.overview, f.err
}

func (f *fakeSource) GetSyncStatus() datalayer.SyncStatus { return f.status }

func (f *fakeSource) Sync(context.Context) (pending.Report, error) {
	f.syncs++
	f.status.PendingChanges = 0
	return pending.Report{Attempted: 1, Applied: 1}, nil
}

func TestRefresh_StoresOverview(t *testing.T) {
	src := &fakeSource{overview: datalayer.Overview{
		Inventory: []aed.Record{{ID: 1, Title: "CU-AED-001"}},
		Stats:     datalayer.Stats{Total: 1, Operational: 1},
		Sync:      datalayer.SyncStatus{IsOnline: true},
	}}
	var store state.Store

	if err := refresh(context.Background(), &store, src, logging.Nop()); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}
	snap := store.Snapshot()
	if !snap.HasData || snap.Stats.Total != 1 || len(snap.Inventory) != 1 {
		t.Fatalf("snapshot = %#v, want one AED", snap.Data)
	}
	if src.syncs != 0 {
		t.Fatalf("Sync called %d times with nothing pending", src.syncs)
	}
}

func TestRefresh_AutoSyncsPendingWhenOnline(t *testing.T) {
	tests := []struct {
		name      string
		status    datalayer.SyncStatus
		wantSyncs int
	}{
		{"online with pending", datalayer.SyncStatus{IsOnline: true, PendingChanges: 2}, 1},
		{"offline with pending", datalayer.SyncStatus{IsOnline: false, PendingChanges: 2}, 0},
		{"online and clean", datalayer.SyncStatus{IsOnline: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{status: tt.status}
			var store state.Store
			if err := refresh(context.Background(), &store, src, logging.Nop()); err != nil {
				t.Fatalf("refresh() error = %v", err)
			}
			if src.syncs != tt.wantSyncs {
				t.Fatalf("Sync called %d times, want %d", src.syncs, tt.wantSyncs)
			}
		})
	}
}

func TestRefresh_ErrorKeepsDataAndCountsFailures(t *testing.T) {
	src := &fakeSource{overview: datalayer.Overview{Stats: datalayer.Stats{Total: 4}}}
	var store state.Store
	if err := refresh(context.Background(), &store, src, logging.Nop()); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}

	src.err = errors.New("local store unreadable")
	for i := 0; i < 2; i++ {
		if err := refresh(context.Background(), &store, src, logging.Nop()); err == nil {
			t.Fatal("refresh() error = nil, want failure")
		}
	}

	snap := store.Snapshot()
	if snap.Stats.Total != 4 {
		t.Fatalf("Stats.Total = %d, want previous value 4", snap.Stats.Total)
	}
	if !snap.IsStale() {
		t.Fatalf("IsStale() = false after %d failures", snap.ConsecutiveFailures)
	}
	if got := calculateBackoff(snap.ConsecutiveFailures, defaultPollInterval); got != 20*time.Second {
		t.Fatalf("next delay = %v, want 20s", got)
	}
}
