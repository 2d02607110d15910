// Package datalayer is the boundary between the presentation layer and the
// inventory core.
//
// Every call first consults the network monitor. Online, reads and writes go
// to the remote store and writes are mirrored into the local snapshot so the
// next offline read sees them. Offline, reads are served from the local
// snapshot when the caller allows it, and writes are applied to the snapshot
// and appended to the pending queue. Sync drains that queue through the
// remote store in enqueue order and then replaces the local snapshot with the
// remote collections.
//
// Status fields are derived on every read and never persisted.
package datalayer
