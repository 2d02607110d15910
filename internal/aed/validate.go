package aed

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError reports an operation against a title that does not exist.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("aed %q not found", e.Title)
}

// ValidationError collects per-field problems with a record or check.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

const maxLifespanMonths = 120

// Validate checks the fields an inspector must supply for an AED.
func Validate(r Record) error {
	verr := &ValidationError{}

	required := []struct {
		field, value, msg string
	}{
		{"Title", r.Title, "Title is required"},
		{"BuildingName", r.BuildingName, "Building name is required"},
		{"Floor", r.Floor, "Floor is required"},
		{"SpecificLocationDescription", r.SpecificLocationDescription, "Specific location is required"},
		{"Manufacturer", r.Manufacturer, "Manufacturer is required"},
		{"Model", r.Model, "Model is required"},
		{"SerialNumber", r.SerialNumber, "Serial number is required"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			verr.add(f.field, f.msg)
		}
	}

	if r.Latitude < -90 || r.Latitude > 90 {
		verr.add("Latitude", "Valid latitude (-90 to 90) is required")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		verr.add("Longitude", "Valid longitude (-180 to 180) is required")
	}
	if r.BatteryLifespanMonths < 1 || r.BatteryLifespanMonths > maxLifespanMonths {
		verr.add("BatteryLifespanMonths", "Battery lifespan must be 1-120 months")
	}
	if r.PadsLifespanMonths < 1 || r.PadsLifespanMonths > maxLifespanMonths {
		verr.add("PadsLifespanMonths", "Pads lifespan must be 1-120 months")
	}

	return verr.orNil()
}

// ValidateCheck checks a monthly inspection submission.
func ValidateCheck(checkedBy, status, notes string) error {
	verr := &ValidationError{}
	if strings.TrimSpace(checkedBy) == "" {
		verr.add("checkedBy", "Checked by field is required")
	}
	if strings.TrimSpace(notes) == "" {
		verr.add("checkNotes", "Check notes are required")
	}
	known := false
	for _, s := range CheckStatuses() {
		if s == status {
			known = true
			break
		}
	}
	if !known {
		verr.add("checkStatus", fmt.Sprintf("unknown check status %q", status))
	}
	return verr.orNil()
}

// Matches reports whether r matches a free-text search query.
func Matches(r Record, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{r.Title, r.BuildingName, r.BuildingCode, r.SpecificLocationDescription} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
