// Package pending holds mutations made while the device was offline until
// they can be replayed against the remote store.
package pending

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuems/aedkeeper/internal/localstore"
)

// OpType tags what a queued operation does.
type OpType string

const (
	OpAddAED    OpType = "ADD_AED"
	OpUpdateAED OpType = "UPDATE_AED"
	OpAddLog    OpType = "ADD_LOG"
)

// Operation is one queued mutation.
type Operation struct {
	ID        string          `json:"id"`
	Type      OpType          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the payload into dst.
func (op Operation) Decode(dst any) error {
	if err := json.Unmarshal(op.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload %s: %w", op.Type, op.ID, err)
	}
	return nil
}

// SyncItemError wraps the failure of a single replayed operation.
type SyncItemError struct {
	Op  Operation
	Err error
}

func (e *SyncItemError) Error() string {
	return fmt.Sprintf("replay %s %s: %v", e.Op.Type, e.Op.ID, e.Err)
}

func (e *SyncItemError) Unwrap() error { return e.Err }

// Report summarizes one drain.
type Report struct {
	Attempted int
	Applied   int
	Failed    []*SyncItemError
}

// OK reports whether every drained operation replayed cleanly.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// ApplyFunc replays one operation.
type ApplyFunc func(ctx context.Context, op Operation) error

// Queue is a durable FIFO persisted under localstore.KeyPending.
type Queue struct {
	store   *localstore.Adapter
	log     zerolog.Logger
	now     func() time.Time
	drainMu sync.Mutex
}

// NewQueue returns a queue backed by store. A nil now uses time.Now.
func NewQueue(store *localstore.Adapter, logger zerolog.Logger, now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	return &Queue{
		store: store,
		log:   logger.With().Str("component", "pending").Logger(),
		now:   now,
	}
}

// Enqueue appends a new operation carrying payload and persists the queue.
func (q *Queue) Enqueue(opType OpType, payload any) (Operation, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Operation{}, fmt.Errorf("marshal %s payload: %w", opType, err)
	}
	op := Operation{
		ID:        uuid.NewString(),
		Type:      opType,
		Payload:   raw,
		Timestamp: q.now().UTC(),
	}

	_, res, _ := localstore.Update(q.store, localstore.KeyPending, []Operation{}, func(ops []Operation) ([]Operation, error) {
		return append(ops, op), nil
	})
	if res.Degraded() {
		// The mutation is still applied locally; it just will not survive a restart.
		q.log.Warn().Str("op_id", op.ID).Str("type", string(op.Type)).Msg("pending operation not persisted")
	}

	q.log.Info().Str("op_id", op.ID).Str("type", string(op.Type)).Msg("queued offline operation")
	return op, nil
}

// Items returns the queued operations in enqueue order.
func (q *Queue) Items() []Operation {
	ops, _ := localstore.Load(q.store, localstore.KeyPending, []Operation{})
	return ops
}

// Len returns the number of queued operations.
func (q *Queue) Len() int {
	return len(q.Items())
}

// DrainAndReplay applies every queued operation in FIFO order. A failing
// operation is logged and recorded in the report and the loop moves on. Once
// the loop finishes, every drained operation is removed from the queue,
// failed ones included; operations enqueued during the drain are kept.
func (q *Queue) DrainAndReplay(ctx context.Context, apply ApplyFunc) Report {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	ops := q.Items()
	report := Report{Attempted: len(ops)}
	if len(ops) == 0 {
		return report
	}

	drained := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		drained[op.ID] = struct{}{}
		if err := apply(ctx, op); err != nil {
			itemErr := &SyncItemError{Op: op, Err: err}
			report.Failed = append(report.Failed, itemErr)
			q.log.Error().
				Err(err).
				Str("op_id", op.ID).
				Str("type", string(op.Type)).
				Time("queued_at", op.Timestamp).
				Msg("failed to replay pending operation")
			continue
		}
		report.Applied++
	}

	_, res, _ := localstore.Update(q.store, localstore.KeyPending, []Operation{}, func(current []Operation) ([]Operation, error) {
		remaining := []Operation{}
		for _, op := range current {
			if _, done := drained[op.ID]; !done {
				remaining = append(remaining, op)
			}
		}
		return remaining, nil
	})
	if res.Degraded() {
		q.log.Warn().Msg("could not clear drained operations; they will replay again")
	}

	q.log.Info().
		Int("attempted", report.Attempted).
		Int("applied", report.Applied).
		Int("failed", len(report.Failed)).
		Msg("pending queue drained")
	return report
}
