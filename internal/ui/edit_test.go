package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/cuems/aedkeeper/internal/aed"
)

func typeInto(t *testing.T, m Modal, steps ...string) Modal {
	t.Helper()
	for _, k := range steps {
		var closed bool
		m, _, closed = m.Update(keyPress(k), DefaultKeyMap())
		if closed {
			t.Fatalf("form closed early on %q", k)
		}
	}
	return m
}

func TestAedForm_NewRequiresFields(t *testing.T) {
	f := newAedForm(aed.Record{}, true)

	modal, cmd, closed := f.Update(keyPress("enter"), DefaultKeyMap())
	if closed || cmd != nil {
		t.Fatalf("an empty form must stay open")
	}
	form := modal.(*aedForm)
	joined := strings.Join(form.errors, "\n")
	for _, want := range []string{"Title is required", "Serial number is required"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("errors = %#v, want %q", form.errors, want)
		}
	}
}

func TestAedForm_NewSubmitsRecord(t *testing.T) {
	m := typeInto(t, newAedForm(aed.Record{}, true),
		"CU-AED-050", "tab",
		"Engineering Center", "tab",
		"EC", "tab",
		"2", "tab",
		"By the elevators", "tab",
		"40.0068", "tab",
		"-105.2628", "tab",
		"right", "tab",
		"ZOLL", "tab",
		"AED Plus", "tab",
		"SN-50", "tab",
		"2025-01-10",
	)

	_, cmd, closed := m.Update(keyPress("enter"), DefaultKeyMap())
	if !closed || cmd == nil {
		t.Fatalf("a complete form should close with a submit command, errors %#v", m.(*aedForm).errors)
	}
	msg, ok := cmd().(aedSubmitMsg)
	if !ok {
		t.Fatalf("command produced %T, want aedSubmitMsg", cmd())
	}
	rec := msg.record
	if !msg.isNew || rec.Title != "CU-AED-050" || rec.Floor != "2" || rec.SerialNumber != "SN-50" {
		t.Fatalf("submitted %#v", msg)
	}
	if rec.Latitude != 40.0068 || rec.Longitude != -105.2628 || !rec.PubliclyAccessible {
		t.Fatalf("location = %v,%v public %v", rec.Latitude, rec.Longitude, rec.PubliclyAccessible)
	}
	installed := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !rec.BatteryInstallDate.Equal(installed) {
		t.Fatalf("battery installed = %v, want %v", rec.BatteryInstallDate, installed)
	}
	if rec.BatteryLifespanMonths != aed.DefaultLifespanMonths || rec.PadsType != aed.DefaultPadsType {
		t.Fatalf("defaults not applied: %d months, pads %q", rec.BatteryLifespanMonths, rec.PadsType)
	}
	want := installed.AddDate(0, aed.DefaultLifespanMonths, 0)
	if !rec.CalculatedBatteryExpiryDate.Equal(want) {
		t.Fatalf("battery expiry = %v, want %v", rec.CalculatedBatteryExpiryDate, want)
	}
}

func TestAedForm_BadNumberIsReported(t *testing.T) {
	f := newAedForm(aed.Record{}, true)
	f.setFocus(aedLatitude)
	m := typeInto(t, f, "north")

	_, cmd, closed := m.Update(keyPress("enter"), DefaultKeyMap())
	if closed || cmd != nil {
		t.Fatalf("an unparsable latitude must keep the form open")
	}
	form := m.(*aedForm)
	if len(form.errors) != 1 || !strings.Contains(form.errors[0], "Latitude") {
		t.Fatalf("errors = %#v, want the latitude message", form.errors)
	}
}

func TestAedForm_EditKeepsTitle(t *testing.T) {
	rec := aed.Record{
		ID:                          4,
		Title:                       "CU-AED-004",
		BuildingName:                "Student Union",
		Floor:                       "1",
		SpecificLocationDescription: "Food court",
		Latitude:                    40.0069,
		Longitude:                   -105.2716,
		Manufacturer:                "Philips",
		Model:                       "HeartStart",
		SerialNumber:                "P-4",
		BatteryLifespanMonths:       48,
		PadsLifespanMonths:          24,
	}
	f := newAedForm(rec, false)
	if f.focus != aedBuilding {
		t.Fatalf("focus = %d, want the building field", f.focus)
	}
	if got := f.inputs[aedLatitude].Value(); got != "40.0069" {
		t.Fatalf("latitude field = %q", got)
	}
	f.move(-1)
	if f.focus != aedNotes {
		t.Fatalf("focus after shift+tab = %d, want notes (title skipped)", f.focus)
	}

	f.inputs[aedFloor].SetValue("4")
	_, cmd, closed := f.Update(keyPress("enter"), DefaultKeyMap())
	if !closed || cmd == nil {
		t.Fatalf("edit should submit, errors %#v", f.errors)
	}
	msg := cmd().(aedSubmitMsg)
	if msg.isNew || msg.record.Title != "CU-AED-004" || msg.record.Floor != "4" || msg.record.PadsLifespanMonths != 24 {
		t.Fatalf("submitted %#v", msg)
	}
}

func TestAedForm_SpaceTypesInTextFields(t *testing.T) {
	f := newAedForm(aed.Record{}, true)
	f.setFocus(aedBuilding)
	typeInto(t, f, "Norlin", " ", "Library")
	if got := f.inputs[aedBuilding].Value(); got != "Norlin Library" {
		t.Fatalf("building = %q", got)
	}
	if f.public {
		t.Fatalf("space in a text field must not toggle the public flag")
	}
}
