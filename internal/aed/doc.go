// Package aed holds the inventory domain model and the status engine.
//
// Records carry persisted attributes only. The operational status of a device
// is derived at read time from its battery and pads expiry dates and the result
// of its last monthly check:
//
//	no issues                   → Operational
//	battery expired only        → Needs: Battery Service
//	pads expired only           → Needs: Pads Replacement
//	failed check only           → Needs: Attention
//	battery and pads expired    → Needs: Battery & Pads
//	any other two or more       → Needs: Multiple Issues
//
// Callers must re-derive after every mutation; Enrich never caches anything on
// the stored copy, and the derived fields are excluded from JSON.
package aed
