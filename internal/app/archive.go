package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cuems/aedkeeper/internal/localstore"
)

// exportArchive writes the local store to path, replacing any existing file.
func exportArchive(local *localstore.Adapter, path string, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := local.Export(file, now); err != nil {
		_ = file.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// importArchive restores the local store from an archive written by
// exportArchive.
func importArchive(local *localstore.Adapter, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	if err := local.Import(file); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}
