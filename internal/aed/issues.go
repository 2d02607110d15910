package aed

import (
	"math"
	"sort"
	"time"
)

// Issues lists the active service issues for r.
func Issues(now time.Time, r Record) []string {
	c := evaluate(now, r)
	var issues []string
	if c.batteryExpired {
		issues = append(issues, IssueBatteryExpired)
	}
	if c.padsExpired {
		issues = append(issues, IssuePadsExpired)
	}
	if c.failedCheck {
		issues = append(issues, IssueFailedCheck)
	}
	return issues
}

// IsUrgent reports whether r has more than one active issue.
func IsUrgent(now time.Time, r Record) bool {
	return evaluate(now, r).count() > 1
}

// DaysSinceExpiry returns whole days elapsed since expiry, rounded up.
func DaysSinceExpiry(now, expiry time.Time) int {
	return int(math.Ceil(now.Sub(expiry).Hours() / 24))
}

// EarliestExpiry returns the sooner of the battery and pads expiry dates.
func EarliestExpiry(r Record) time.Time {
	if r.CalculatedPadsExpiryDate.Before(r.CalculatedBatteryExpiryDate) {
		return r.CalculatedPadsExpiryDate
	}
	return r.CalculatedBatteryExpiryDate
}

// SortByUrgency orders records with the most issues first, then by earliest
// expiry. The input slice is sorted in place.
func SortByUrgency(now time.Time, records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ci := evaluate(now, records[i]).count()
		cj := evaluate(now, records[j]).count()
		if ci != cj {
			return ci > cj
		}
		return EarliestExpiry(records[i]).Before(EarliestExpiry(records[j]))
	})
}
