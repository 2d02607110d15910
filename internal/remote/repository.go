package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cuems/aedkeeper/internal/aed"
)

// ErrClosed is returned by a repository used outside Open/Close.
var ErrClosed = errors.New("repository is closed")

// DuplicateError reports an insert whose title is already taken.
// SerialNumber is the serial of the record holding the title.
type DuplicateError struct {
	Title        string
	SerialNumber string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("aed %q already exists", e.Title)
}

// Repository is the system of record for the inventory and submission log.
// Implementations assign ids and timestamps; they never derive status.
type Repository interface {
	ListAEDs(ctx context.Context) ([]aed.Record, error)
	FindAED(ctx context.Context, title string) (aed.Record, bool, error)
	InsertAED(ctx context.Context, rec aed.Record) (aed.Record, error)
	ModifyAED(ctx context.Context, title string, fn func(existing aed.Record) (aed.Record, error)) (aed.Record, error)
	ListLogs(ctx context.Context) ([]aed.LogEntry, error)
	InsertLog(ctx context.Context, entry aed.LogEntry) (aed.LogEntry, error)
}

// Seed is the initial content of a repository.
type Seed struct {
	Inventory []aed.Record
	Logs      []aed.LogEntry
}

// MemoryRepository keeps both collections in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	open      bool
	inventory []aed.Record
	logs      []aed.LogEntry
	now       func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns a closed repository. A nil now uses time.Now.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{now: now}
}

// Open loads seed and makes the repository usable.
func (r *MemoryRepository) Open(seed Seed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		return fmt.Errorf("repository already open")
	}
	r.inventory = aed.CloneRecords(seed.Inventory)
	r.logs = aed.CloneLogs(seed.Logs)
	r.open = true
	return nil
}

// Close drops both collections.
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inventory = nil
	r.logs = nil
	r.open = false
	return nil
}

func (r *MemoryRepository) ListAEDs(_ context.Context) ([]aed.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.open {
		return nil, ErrClosed
	}
	return aed.CloneRecords(r.inventory), nil
}

func (r *MemoryRepository) FindAED(_ context.Context, title string) (aed.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.open {
		return aed.Record{}, false, ErrClosed
	}
	idx := aed.IndexByTitle(r.inventory, title)
	if idx < 0 {
		return aed.Record{}, false, nil
	}
	return r.inventory[idx], true, nil
}

// InsertAED assigns the next id (max+1, starting at 1) under the write lock.
func (r *MemoryRepository) InsertAED(_ context.Context, rec aed.Record) (aed.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return aed.Record{}, ErrClosed
	}
	if idx := aed.IndexByTitle(r.inventory, rec.Title); idx >= 0 {
		return aed.Record{}, &DuplicateError{Title: rec.Title, SerialNumber: r.inventory[idx].SerialNumber}
	}

	now := r.now().UTC()
	rec.ID = aed.MaxID(r.inventory) + 1
	rec.Created = now
	rec.Modified = now
	rec.CalculatedStatus = ""
	rec.NeedsService = false
	r.inventory = append(r.inventory, rec)
	return rec, nil
}

// ModifyAED looks up title and stores what fn returns for it, keeping the
// id and creation time. An unknown title yields *aed.NotFoundError before fn
// runs; an error from fn leaves the collection unchanged.
func (r *MemoryRepository) ModifyAED(_ context.Context, title string, fn func(existing aed.Record) (aed.Record, error)) (aed.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return aed.Record{}, ErrClosed
	}
	idx := aed.IndexByTitle(r.inventory, title)
	if idx < 0 {
		return aed.Record{}, &aed.NotFoundError{Title: title}
	}

	existing := r.inventory[idx]
	rec, err := fn(existing)
	if err != nil {
		return aed.Record{}, err
	}
	rec.ID = existing.ID
	rec.Title = existing.Title
	rec.Created = existing.Created
	rec.Modified = r.now().UTC()
	rec.CalculatedStatus = ""
	rec.NeedsService = false
	r.inventory[idx] = rec
	return rec, nil
}

func (r *MemoryRepository) ListLogs(_ context.Context) ([]aed.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.open {
		return nil, ErrClosed
	}
	return aed.CloneLogs(r.logs), nil
}

// InsertLog assigns the next logId (max+1, starting at 1).
func (r *MemoryRepository) InsertLog(_ context.Context, entry aed.LogEntry) (aed.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return aed.LogEntry{}, ErrClosed
	}
	now := r.now().UTC()
	entry.LogID = aed.MaxLogID(r.logs) + 1
	entry.Created = now
	entry.Modified = now
	entry.AppVersion = aed.AppVersion
	r.logs = append(r.logs, entry)
	return entry, nil
}
