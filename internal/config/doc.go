// Package config loads the aedkeeper configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/aedkeeper/config.toml
//  3. If the config file doesn't exist, use Default()
//  4. If the file exists but fields are missing or blank, use defaults for them
//
// # Default Values
//
//   - Data directory: ~/.local/share/aedkeeper
//   - Log file: <data_dir>/aedkeeper.log
//   - Local store: <data_dir>/store
//   - Log level: info
//   - Latency scale: 1.0 (the simulated remote store's full delays)
//   - Sync interval: 5 seconds
//   - Seed file: none (the embedded campus seed is used)
//
// # TOML Format
//
//	data_dir = "~/.local/share/aedkeeper"
//	log_file = "~/.local/share/aedkeeper/aedkeeper.log"
//	log_level = "info"
//	latency_scale = 1.0
//	start_offline = false
//	sync_interval_seconds = 5
//	seed_file = ""
//
// Every field is optional. Tilde expansion is performed on data_dir, log_file
// and seed_file. A latency_scale of 0 disables the simulated delay; negative
// values are rejected.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors, and negative numeric settings. A missing config file is not
// an error.
package config
