package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops labels.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width for the table plus detail split.
	LayoutSplitWidth = 120
)

// Display limits.
const (
	// ActivityLineLimit is how many lines of the app log the activity view reads.
	ActivityLineLimit = 400

	// DetailLogLimit is how many submissions the detail pane lists per AED.
	DetailLogLimit = 5
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ActionTimeout bounds a single user action such as a sync or a check.
	ActionTimeout = 30 * time.Second

	// StatusTTL is how long a transient status message stays in the header.
	StatusTTL = 8 * time.Second
)

// dateLayout is how dates are shown across the UI.
const dateLayout = "2006-01-02"
