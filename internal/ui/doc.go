// Package ui provides the terminal user interface for aedkeeper.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds every piece of view state and
// is updated only through messages: key presses, window resizes, the polling
// tick, and the results of commands that talk to the data layer. All I/O
// runs inside tea.Cmd functions so Update and View stay pure.
//
// The model never reaches into the data layer's internals. It reads the
// latest state.Snapshot on every tick and drives the core through two small
// interfaces: Backend (force sync, search, monthly checks, adding and
// editing AEDs) and Network (the simulated connectivity switch).
//
// # Package Structure
//
//   - app.go: Model, Options, message and command plumbing, Run
//   - keys.go: key bindings built on bubbles/key
//   - tables.go: inventory and service tables (bubbles/table)
//   - views.go: view rendering, the detail pane and titled boxes
//   - logs.go: submission log and activity viewports (bubbles/viewport)
//   - check.go: the monthly check form, a Modal
//   - edit.go: the add/edit AED form, a Modal
//   - header.go: status header and command bar
//   - help.go: help overlay
//   - theme.go, style_helpers.go, layout.go: colors, lipgloss helpers, sizes
//
// # Views
//
//   - Inventory: every AED with status and expiry dates, filterable by search
//   - Service: AEDs needing service, most urgent first, with their issues
//   - Submission Log: every log entry, newest first
//   - Activity: the tail of aedkeeper's own log file
//
// On terminals at least LayoutSplitWidth columns wide the inventory and
// service views show the selected AED's details beside the table.
//
// # Offline Behavior
//
// The header always shows whether the device is online and how many changes
// are waiting in the pending queue. A check or AED saved while offline is
// stored locally and the status line says it was queued. Toggling back online
// refreshes immediately, which replays the queue.
//
// # Key Bindings
//
//   - 1-4, tab, shift+tab: switch views
//   - j/k, g/G: move the selection
//   - c: log a monthly check for the selected AED
//   - a: add an AED; E: edit the selected AED
//   - /: search the inventory; esc clears the search
//   - o: toggle online/offline
//   - S: sync now
//   - T: cycle theme (saved to preferences)
//   - h/?: help
//   - e, ctrl+c: quit
package ui
