package aed

import "time"

// Merge overlays the fields set in patch onto existing and returns the
// result. A zero value in patch means "leave unchanged". Identity (id,
// Created, Modified) always comes from existing.
//
// PubliclyAccessible has no unset state, so it is taken from patch only when
// patch carries the location block, that is when BuildingName is set.
func Merge(existing, patch Record) Record {
	out := existing

	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	num := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	months := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	date := func(dst *time.Time, v time.Time) {
		if !v.IsZero() {
			*dst = v
		}
	}

	str(&out.BuildingName, patch.BuildingName)
	str(&out.BuildingCode, patch.BuildingCode)
	str(&out.Floor, patch.Floor)
	str(&out.SpecificLocationDescription, patch.SpecificLocationDescription)
	num(&out.Latitude, patch.Latitude)
	num(&out.Longitude, patch.Longitude)
	if patch.BuildingName != "" {
		out.PubliclyAccessible = patch.PubliclyAccessible
	}
	str(&out.PhotoOfLocation, patch.PhotoOfLocation)

	str(&out.Manufacturer, patch.Manufacturer)
	str(&out.Model, patch.Model)
	str(&out.SerialNumber, patch.SerialNumber)

	date(&out.BatteryInstallDate, patch.BatteryInstallDate)
	months(&out.BatteryLifespanMonths, patch.BatteryLifespanMonths)
	date(&out.CalculatedBatteryExpiryDate, patch.CalculatedBatteryExpiryDate)

	date(&out.PadsInstallDate, patch.PadsInstallDate)
	months(&out.PadsLifespanMonths, patch.PadsLifespanMonths)
	str(&out.PadsType, patch.PadsType)
	date(&out.CalculatedPadsExpiryDate, patch.CalculatedPadsExpiryDate)

	date(&out.LastMonthlyCheckDate, patch.LastMonthlyCheckDate)
	str(&out.LastMonthlyCheckBy, patch.LastMonthlyCheckBy)
	str(&out.LastMonthlyCheckStatus, patch.LastMonthlyCheckStatus)
	str(&out.LastMonthlyCheckNotes, patch.LastMonthlyCheckNotes)

	str(&out.Notes, patch.Notes)

	out.CalculatedStatus = ""
	out.NeedsService = false
	return out
}
