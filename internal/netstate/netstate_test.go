package netstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwitch(t *testing.T) {
	s := NewSwitch(true)
	assert.True(t, s.Online())

	before := s.ChangedAt()
	s.SetOnline(true)
	assert.Equal(t, before, s.ChangedAt(), "no-op change keeps timestamp")

	s.SetOnline(false)
	assert.False(t, s.Online())

	assert.True(t, s.Toggle())
	assert.True(t, s.Online())
	assert.False(t, s.Toggle())
	assert.False(t, s.Online())
}

func TestSwitch_SatisfiesMonitor(t *testing.T) {
	var m Monitor = NewSwitch(false)
	assert.False(t, m.Online())
}
