package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/datalayer"
)

// Data is one complete refresh of everything the UI shows.
type Data struct {
	Inventory []aed.Record
	Service   []datalayer.ServiceItem
	Logs      []aed.LogEntry
	Stats     datalayer.Stats
	Sync      datalayer.SyncStatus
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Data
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsStale returns true when refreshes have failed several times in a row.
func (s Snapshot) IsStale() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored data. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(data *Data, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if data != nil {
		s.snapshot.Data = cloneData(*data)
		s.snapshot.HasData = true
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetSync replaces only the sync status, for changes that do not need a full
// refresh such as a connectivity toggle.
func (s *Store) SetSync(status datalayer.SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Sync = cloneSync(status)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Data = cloneData(s.snapshot.Data)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneData(d Data) Data {
	return Data{
		Inventory: aed.CloneRecords(d.Inventory),
		Service:   cloneService(d.Service),
		Logs:      aed.CloneLogs(d.Logs),
		Stats:     d.Stats,
		Sync:      cloneSync(d.Sync),
	}
}

func cloneService(items []datalayer.ServiceItem) []datalayer.ServiceItem {
	if len(items) == 0 {
		return nil
	}
	dup := make([]datalayer.ServiceItem, len(items))
	for i, item := range items {
		dup[i] = item
		dup[i].Issues = append([]string(nil), item.Issues...)
	}
	return dup
}

func cloneSync(s datalayer.SyncStatus) datalayer.SyncStatus {
	if s.LastSync != nil {
		ts := *s.LastSync
		s.LastSync = &ts
	}
	return s
}
