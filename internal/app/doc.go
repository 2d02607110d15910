// Package app is the composition root of aedkeeper.
//
// # Overview
//
// Run loads configuration, builds every collaborator, and hands control to
// the terminal UI. Nothing below this package knows about any other package
// it does not import directly; all wiring happens here.
//
// # Startup Sequence
//
//  1. Load ~/.config/aedkeeper/config.toml (defaults when missing)
//  2. Open the JSON log file through logging.New
//  3. Load user preferences (theme, default inspector)
//  4. Open the file-backed local store under <data_dir>/store
//  5. Export or import a store archive and exit, when asked to
//  6. Seed and open the in-process remote repository
//  7. Build the latency-simulating remote client, the connectivity switch,
//     the pending queue, and the datalayer.Service
//  8. InitializeOfflineData: replay queued work and refresh the baseline
//  9. Populate state.Store, start the poller, run the UI (blocks)
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()               Read config
//	       ├─────> localstore.New()            Local blobs
//	       ├─────> remote.NewClient()          Simulated remote store
//	       ├─────> datalayer.New()             Boundary API
//	       ├─────> InitializeOfflineData()     First sync
//	       ├─────> StartPoller()               Background refresh
//	       └─────> ui.Run()                    Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> Sync()      when online + pending  │
//	│  ├─> Overview()  inventory, logs, stats │
//	│  └─> store.Update()                     │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller waits sync_interval_seconds (default 5) between refreshes. When
// the device is online and the pending queue is not empty it drains the queue
// first, so work captured offline reaches the remote store without the
// operator pressing sync. A failed refresh keeps the previous snapshot and
// doubles the delay per consecutive failure, capped at 30 seconds.
//
// # Error Handling
//
// Fatal errors (returned from Run): unreadable config, log file or local
// store directory, a malformed seed file, archive export or import failure.
//
// Recoverable errors (logged): unreadable preferences, a failed first sync,
// auto-sync and refresh failures.
package app
