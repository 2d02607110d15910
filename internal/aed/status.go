package aed

import (
	"strings"
	"time"
)

// Status is the derived operational classification of an AED.
type Status string

const (
	StatusOperational     Status = "Operational"
	StatusBatteryService  Status = "Needs: Battery Service"
	StatusPadsReplacement Status = "Needs: Pads Replacement"
	StatusAttention       Status = "Needs: Attention"
	StatusBatteryAndPads  Status = "Needs: Battery & Pads"
	StatusMultipleIssues  Status = "Needs: Multiple Issues"
)

// Issue labels, in the order Issues reports them.
const (
	IssueBatteryExpired = "Battery Expired"
	IssuePadsExpired    = "Pads Expired"
	IssueFailedCheck    = "Failed Check"
)

// Derived holds the read-time status fields.
type Derived struct {
	Status       Status
	NeedsService bool
}

type conditions struct {
	batteryExpired bool
	padsExpired    bool
	failedCheck    bool
}

func evaluate(now time.Time, r Record) conditions {
	return conditions{
		batteryExpired: now.After(r.CalculatedBatteryExpiryDate),
		padsExpired:    now.After(r.CalculatedPadsExpiryDate),
		failedCheck:    strings.Contains(r.LastMonthlyCheckStatus, "Fail"),
	}
}

func (c conditions) count() int {
	n := 0
	for _, hit := range []bool{c.batteryExpired, c.padsExpired, c.failedCheck} {
		if hit {
			n++
		}
	}
	return n
}

// DeriveStatus classifies r as of now. It only reads the expiry dates and the
// last check status, so it is safe to call on every read.
func DeriveStatus(now time.Time, r Record) Derived {
	c := evaluate(now, r)

	var status Status
	switch c.count() {
	case 0:
		status = StatusOperational
	case 1:
		switch {
		case c.batteryExpired:
			status = StatusBatteryService
		case c.padsExpired:
			status = StatusPadsReplacement
		default:
			status = StatusAttention
		}
	default:
		if c.batteryExpired && c.padsExpired {
			status = StatusBatteryAndPads
		} else {
			status = StatusMultipleIssues
		}
	}

	return Derived{Status: status, NeedsService: status != StatusOperational}
}

// Enrich returns a copy of r with CalculatedStatus and NeedsService set as of now.
func Enrich(now time.Time, r Record) Record {
	d := DeriveStatus(now, r)
	r.CalculatedStatus = d.Status
	r.NeedsService = d.NeedsService
	return r
}

// EnrichAll enriches every record into a new slice.
func EnrichAll(now time.Time, records []Record) []Record {
	if len(records) == 0 {
		return []Record{}
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Enrich(now, r)
	}
	return out
}

// ServiceDue filters records down to those needing service as of now.
func ServiceDue(now time.Time, records []Record) []Record {
	out := []Record{}
	for _, r := range records {
		enriched := Enrich(now, r)
		if enriched.NeedsService {
			out = append(out, enriched)
		}
	}
	return out
}
