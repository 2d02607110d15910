// Package localstore is the device-local persistence layer: four JSON blobs
// under fixed keys, read and written whole.
//
// Failures never escape as Go errors on the data path. A failed Load hands
// back the caller's default and a failed Store is a no-op; both are logged and
// described by the returned Result so callers that care can surface them.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Key names one persisted blob.
type Key string

const (
	KeyInventory Key = "aed_inventory"
	KeyLogs      Key = "aed_submission_log"
	KeyPending   Key = "pending_operations"
	KeyLastSync  Key = "last_sync"
)

// Keys lists every blob the adapter manages.
func Keys() []Key {
	return []Key{KeyInventory, KeyLogs, KeyPending, KeyLastSync}
}

// PersistenceError describes a failed read or write.
type PersistenceError struct {
	Op  string
	Key Key
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Result is the outcome of one adapter call.
type Result struct {
	Key     Key
	Missing bool // nothing stored yet; the default was returned
	Err     *PersistenceError
}

// OK reports a clean read or write.
func (r Result) OK() bool { return r.Err == nil && !r.Missing }

// Degraded reports that the call failed and fell back to a default or no-op.
func (r Result) Degraded() bool { return r.Err != nil }

// Adapter serializes access to a Backend.
type Adapter struct {
	mu      sync.Mutex
	backend Backend
	log     zerolog.Logger
}

// New wraps backend.
func New(backend Backend, logger zerolog.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		log:     logger.With().Str("component", "localstore").Logger(),
	}
}

// with holds the backend for the duration of fn and logs how the call ended.
func (a *Adapter) with(op string, key Key, fn func(Backend) error) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	res := Result{Key: key}
	defer func() {
		var event *zerolog.Event
		switch {
		case res.Err != nil:
			event = a.log.Error().Err(res.Err.Err)
		case res.Missing:
			event = a.log.Debug().Bool("missing", true)
		default:
			event = a.log.Debug()
		}
		event.Str("op", op).
			Str("key", string(key)).
			Dur("took", time.Since(start)).
			Msg("storage call finished")
	}()

	if err := fn(a.backend); err != nil {
		if errors.Is(err, ErrNotExist) {
			res.Missing = true
			return res
		}
		res.Err = &PersistenceError{Op: op, Key: key, Err: err}
	}
	return res
}

// Store serializes value as JSON under key.
func (a *Adapter) Store(key Key, value any) Result {
	return a.with("store", key, func(b Backend) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		return b.Write(key, data)
	})
}

// Remove deletes key.
func (a *Adapter) Remove(key Key) Result {
	return a.with("remove", key, func(b Backend) error {
		return b.Delete(key)
	})
}

// Load decodes the blob under key, returning def when it is missing or unreadable.
func Load[T any](a *Adapter, key Key, def T) (T, Result) {
	var out T
	res := a.with("load", key, func(b Backend) error {
		data, err := b.Read(key)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		return nil
	})
	if !res.OK() {
		return def, res
	}
	return out, res
}

// Update loads the blob under key, applies fn, and stores the result in one
// critical section so concurrent read-modify-write cycles cannot interleave.
func Update[T any](a *Adapter, key Key, def T, fn func(T) (T, error)) (T, Result, error) {
	var (
		out    T
		fnErr  error
		stored bool
	)
	res := a.with("update", key, func(b Backend) error {
		current := def
		data, err := b.Read(key)
		switch {
		case err == nil:
			var decoded T
			if err := json.Unmarshal(data, &decoded); err != nil {
				return fmt.Errorf("unmarshal: %w", err)
			}
			current = decoded
		case errors.Is(err, ErrNotExist):
		default:
			return err
		}

		next, err := fn(current)
		if err != nil {
			fnErr = err
			return nil
		}
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		if err := b.Write(key, encoded); err != nil {
			return err
		}
		out = next
		stored = true
		return nil
	})
	if fnErr != nil {
		return out, res, fnErr
	}
	if !stored {
		return def, res, nil
	}
	return out, res, nil
}
