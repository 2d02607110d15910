package localstore

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

const archiveVersion = 1

type archive struct {
	Version  int                     `json:"version"`
	Exported time.Time               `json:"exported"`
	Blobs    map[Key]json.RawMessage `json:"blobs"`
}

// Export writes every stored blob to w as a zstd-compressed JSON document.
// Keys that were never written are omitted.
func (a *Adapter) Export(w io.Writer, now time.Time) error {
	doc := archive{Version: archiveVersion, Exported: now.UTC(), Blobs: make(map[Key]json.RawMessage)}
	for _, key := range Keys() {
		raw, res := Load[json.RawMessage](a, key, nil)
		if res.Degraded() {
			return res.Err
		}
		if res.Missing {
			continue
		}
		doc.Blobs[key] = raw
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(doc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}

// Import replaces stored blobs with the contents of an archive produced by
// Export. Keys absent from the archive are left untouched.
func (a *Adapter) Import(r io.Reader) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("create zstd reader: %w", err)
	}
	defer dec.Close()

	var doc archive
	if err := json.NewDecoder(dec).Decode(&doc); err != nil {
		return fmt.Errorf("decode archive: %w", err)
	}
	if doc.Version != archiveVersion {
		return fmt.Errorf("unsupported archive version %d", doc.Version)
	}

	known := make(map[Key]bool)
	for _, key := range Keys() {
		known[key] = true
	}
	for key, raw := range doc.Blobs {
		if !known[key] {
			return fmt.Errorf("archive contains unknown key %q", key)
		}
		if res := a.Store(key, raw); res.Degraded() {
			return res.Err
		}
	}
	return nil
}
