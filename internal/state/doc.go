// Package state holds the latest data the aedkeeper UI renders.
//
// # Overview
//
// The background poller and the UI run on separate goroutines. The poller
// asks the data layer for an overview (inventory, service list, submission
// log, dashboard counters, sync status) and stores it here; the UI takes a
// snapshot on every tick and renders from that copy.
//
//	Producer (poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ svc.Sync()       │           │                  │
//	│ svc.Overview()   │           │                  │
//	│       ↓          │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│       ↓          │  (mutex)  │       ↓          │
//	│  wait interval   │           │   render view    │
//	└──────────────────┘           └──────────────────┘
//
// # Core Types
//
// Data is one complete refresh. Snapshot embeds it and adds bookkeeping:
// whether any data has arrived, when the last update happened, the last
// refresh error and how many refreshes have failed in a row.
//
// # Update Semantics
//
//	// Success: replace the data, clear the error
//	store.Update(&data, nil)
//
//	// Failure: keep the previous data, record the error
//	store.Update(nil, err)
//
// A failed refresh never blanks the screen. The UI keeps showing the last
// good inventory and flags it STALE once IsStale reports two or more
// consecutive failures. SetSync swaps only the sync status, for changes
// such as a connectivity toggle that do not need a full reload.
//
// # Copying
//
// Update and Snapshot deep-copy records, log entries, service issues and the
// last-sync timestamp, so neither side can mutate what the other sees. An
// inventory is at most a few hundred records, which makes the copy cheap.
//
// The zero Store is ready to use.
package state
