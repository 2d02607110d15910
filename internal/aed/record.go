package aed

import (
	"time"
)

// Record is a single AED in the campus inventory. Field names follow the
// SharePoint list the inventory was exported from.
type Record struct {
	ID    int    `json:"id"`
	Title string `json:"Title"`

	BuildingName                string  `json:"BuildingName"`
	BuildingCode                string  `json:"BuildingCode"`
	Floor                       string  `json:"Floor"`
	SpecificLocationDescription string  `json:"SpecificLocationDescription"`
	Latitude                    float64 `json:"Latitude"`
	Longitude                   float64 `json:"Longitude"`
	PubliclyAccessible          bool    `json:"PubliclyAccessible"`
	PhotoOfLocation             string  `json:"PhotoOfLocation,omitempty"`

	Manufacturer string `json:"Manufacturer"`
	Model        string `json:"Model"`
	SerialNumber string `json:"SerialNumber"`

	BatteryInstallDate          time.Time `json:"BatteryInstallDate"`
	BatteryLifespanMonths       int       `json:"BatteryLifespanMonths"`
	CalculatedBatteryExpiryDate time.Time `json:"CalculatedBatteryExpiryDate"`

	PadsInstallDate          time.Time `json:"PadsInstallDate"`
	PadsLifespanMonths       int       `json:"PadsLifespanMonths"`
	PadsType                 string    `json:"PadsType"`
	CalculatedPadsExpiryDate time.Time `json:"CalculatedPadsExpiryDate"`

	LastMonthlyCheckDate   time.Time `json:"LastMonthlyCheckDate"`
	LastMonthlyCheckBy     string    `json:"LastMonthlyCheckBy"`
	LastMonthlyCheckStatus string    `json:"LastMonthlyCheckStatus"`
	LastMonthlyCheckNotes  string    `json:"LastMonthlyCheckNotes"`

	Notes    string    `json:"Notes"`
	Created  time.Time `json:"Created"`
	Modified time.Time `json:"Modified"`

	// Derived on every read; never written to storage.
	CalculatedStatus Status `json:"-"`
	NeedsService     bool   `json:"-"`
}

// LogEntry is one row of the AED submission log.
type LogEntry struct {
	LogID               int       `json:"logId"`
	Title               string    `json:"Title"`
	AedLinkTitle        string    `json:"AedLinkTitle"`
	SubmissionTimestamp time.Time `json:"SubmissionTimestamp"`
	SubmittedBy         string    `json:"SubmittedBy"`
	SubmissionType      string    `json:"SubmissionType"`
	SummaryOfAction     string    `json:"SummaryOfAction"`
	AppVersion          string    `json:"AppVersion"`
	Created             time.Time `json:"Created"`
	Modified            time.Time `json:"Modified"`
}

const (
	// AppVersion is stamped on every log entry this client creates.
	AppVersion = "1.0"

	// SubmissionMonthlyCheck is the submission type of a monthly inspection.
	SubmissionMonthlyCheck = "Monthly Check"

	DefaultLifespanMonths = 24
	DefaultPadsType       = "Adult"
)

// Check results offered to inspectors.
const (
	CheckPass      = "Pass"
	CheckPassMinor = "Pass - Minor Issues"
	CheckFail      = "Fail - Needs Attention"
)

// CheckStatuses lists the check results in display order.
func CheckStatuses() []string {
	return []string{CheckPass, CheckPassMinor, CheckFail}
}

// NormalizeExpiry recomputes the calculated expiry dates from install dates
// and lifespans. A record without an install date keeps the expiry it has.
func (r *Record) NormalizeExpiry() {
	if !r.BatteryInstallDate.IsZero() && r.BatteryLifespanMonths > 0 {
		r.CalculatedBatteryExpiryDate = r.BatteryInstallDate.AddDate(0, r.BatteryLifespanMonths, 0)
	}
	if !r.PadsInstallDate.IsZero() && r.PadsLifespanMonths > 0 {
		r.CalculatedPadsExpiryDate = r.PadsInstallDate.AddDate(0, r.PadsLifespanMonths, 0)
	}
}

// ApplyDefaults fills the form defaults used when an AED is first entered.
func (r *Record) ApplyDefaults() {
	if r.BatteryLifespanMonths == 0 {
		r.BatteryLifespanMonths = DefaultLifespanMonths
	}
	if r.PadsLifespanMonths == 0 {
		r.PadsLifespanMonths = DefaultLifespanMonths
	}
	if r.PadsType == "" {
		r.PadsType = DefaultPadsType
	}
}

// MaxID returns the highest record id, or 0 for an empty slice.
func MaxID(records []Record) int {
	highest := 0
	for _, r := range records {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest
}

// MaxLogID returns the highest log id, or 0 for an empty slice.
func MaxLogID(entries []LogEntry) int {
	highest := 0
	for _, e := range entries {
		if e.LogID > highest {
			highest = e.LogID
		}
	}
	return highest
}

// IndexByTitle returns the position of the record with the given title, or -1.
func IndexByTitle(records []Record, title string) int {
	for i := range records {
		if records[i].Title == title {
			return i
		}
	}
	return -1
}

// CloneRecords returns an independent copy of records.
func CloneRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}

// CloneLogs returns an independent copy of entries.
func CloneLogs(entries []LogEntry) []LogEntry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]LogEntry, len(entries))
	copy(dup, entries)
	return dup
}

// LogsForTitle filters entries to those linked to title.
func LogsForTitle(entries []LogEntry, title string) []LogEntry {
	var out []LogEntry
	for _, e := range entries {
		if e.AedLinkTitle == title {
			out = append(out, e)
		}
	}
	return out
}
