// Package netstate tracks whether the remote store is reachable.
package netstate

import (
	"sync/atomic"
	"time"
)

// Monitor reports connectivity.
type Monitor interface {
	Online() bool
}

// Switch is a manually driven Monitor standing in for the device radio.
type Switch struct {
	offline   atomic.Bool
	changedAt atomic.Int64
}

// NewSwitch returns a Switch in the given starting state.
func NewSwitch(online bool) *Switch {
	s := &Switch{}
	s.offline.Store(!online)
	s.changedAt.Store(time.Now().UnixNano())
	return s
}

// Online implements Monitor.
func (s *Switch) Online() bool {
	return !s.offline.Load()
}

// SetOnline changes the connectivity state.
func (s *Switch) SetOnline(online bool) {
	if s.offline.Swap(!online) != !online {
		s.changedAt.Store(time.Now().UnixNano())
	}
}

// Toggle flips the state and returns the new value of Online.
func (s *Switch) Toggle() bool {
	for {
		old := s.offline.Load()
		if s.offline.CompareAndSwap(old, !old) {
			s.changedAt.Store(time.Now().UnixNano())
			return old
		}
	}
}

// ChangedAt reports when the state last flipped.
func (s *Switch) ChangedAt() time.Time {
	return time.Unix(0, s.changedAt.Load())
}
