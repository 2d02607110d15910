// Package logtail reads the tail of aedkeeper's own log file and renders it
// for the activity pane of the TUI.
//
// # Reading
//
// Read returns the last maxLines lines of a file using a ring buffer of size
// maxLines, so memory stays bounded no matter how large the file grows. A
// maxLines of zero or less returns the whole file. A missing file is not an
// error; the log may simply not exist yet.
//
//	lines, err := logtail.Read("~/.local/share/aedkeeper/aedkeeper.log", 400)
//
// # Rendering
//
// The logging package writes zerolog JSON. Parse decodes a line with
// fastjson, pulling out the time, level, component, message and error keys
// and keeping every other key in file order. Format turns that into one
// readable line:
//
//	2025-06-15 08:00:00 INFO [datalayer] – offline data initialized replayed=2
//
// Tail combines the two. Lines that are not JSON (a panic trace, say) pass
// through unchanged.
package logtail
