package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotExist is returned by a Backend when a key has never been written.
var ErrNotExist = errors.New("key does not exist")

// Backend is raw key/value byte storage.
type Backend interface {
	Read(key Key) ([]byte, error)
	Write(key Key, data []byte) error
	Delete(key Key) error
}

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend prepares dir for use, creating it when missing.
func NewFileBackend(dir string) (*FileBackend, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: trimmed}, nil
}

// Dir returns the directory holding the blobs.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(key Key) string {
	return filepath.Join(b.dir, string(key)+".json")
}

func (b *FileBackend) Read(key Key) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the blob atomically via a temp file and rename.
func (b *FileBackend) Write(key Key, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, "."+string(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path(key)); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(key Key) error {
	err := os.Remove(b.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryBackend keeps blobs in a map. The zero value is ready to use.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[Key][]byte
}

func (b *MemoryBackend) Read(key Key) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(key Key, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.blobs == nil {
		b.blobs = make(map[Key][]byte)
	}
	b.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Delete(key Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, key)
	return nil
}
