package localstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuems/aedkeeper/internal/logging"
)

var errDiskFull = errors.New("disk full")

type failingBackend struct {
	MemoryBackend
	failReads  bool
	failWrites bool
}

func (b *failingBackend) Read(key Key) ([]byte, error) {
	if b.failReads {
		return nil, errDiskFull
	}
	return b.MemoryBackend.Read(key)
}

func (b *failingBackend) Write(key Key, data []byte) error {
	if b.failWrites {
		return errDiskFull
	}
	return b.MemoryBackend.Write(key, data)
}

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAdapter_StoreAndLoad(t *testing.T) {
	a := New(&MemoryBackend{}, logging.Nop())

	res := a.Store(KeyInventory, []item{{"a", 1}, {"b", 2}})
	require.True(t, res.OK())

	got, res := Load(a, KeyInventory, []item(nil))
	require.True(t, res.OK())
	assert.Equal(t, []item{{"a", 1}, {"b", 2}}, got)
}

func TestAdapter_LoadMissingReturnsDefault(t *testing.T) {
	a := New(&MemoryBackend{}, logging.Nop())

	got, res := Load(a, KeyLogs, []item{{"default", 0}})
	assert.True(t, res.Missing)
	assert.False(t, res.Degraded())
	assert.Equal(t, []item{{"default", 0}}, got)
}

func TestAdapter_ReadFailureDegradesToDefault(t *testing.T) {
	backend := &failingBackend{failReads: true}
	a := New(backend, logging.Nop())

	got, res := Load(a, KeyPending, 7)
	assert.Equal(t, 7, got)
	require.True(t, res.Degraded())
	assert.ErrorIs(t, res.Err, errDiskFull)
	assert.Equal(t, "load", res.Err.Op)
	assert.Equal(t, KeyPending, res.Err.Key)
}

func TestAdapter_CorruptBlobDegradesToDefault(t *testing.T) {
	backend := &MemoryBackend{}
	require.NoError(t, backend.Write(KeyInventory, []byte("{not json")))
	a := New(backend, logging.Nop())

	got, res := Load(a, KeyInventory, []item{})
	assert.Empty(t, got)
	assert.True(t, res.Degraded())
}

func TestAdapter_WriteFailureIsNoOp(t *testing.T) {
	backend := &failingBackend{}
	a := New(backend, logging.Nop())
	require.True(t, a.Store(KeyLastSync, "2025-06-01T00:00:00Z").OK())

	backend.failWrites = true
	res := a.Store(KeyLastSync, "2025-07-01T00:00:00Z")
	require.True(t, res.Degraded())

	backend.failWrites = false
	got, _ := Load(a, KeyLastSync, "")
	assert.Equal(t, "2025-06-01T00:00:00Z", got)
}

func TestUpdate(t *testing.T) {
	a := New(&MemoryBackend{}, logging.Nop())

	got, res, err := Update(a, KeyInventory, []item{}, func(items []item) ([]item, error) {
		return append(items, item{"first", 1}), nil
	})
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Len(t, got, 1)

	_, _, err = Update(a, KeyInventory, []item{}, func(items []item) ([]item, error) {
		return nil, errDiskFull
	})
	require.ErrorIs(t, err, errDiskFull)

	stored, _ := Load(a, KeyInventory, []item{})
	assert.Equal(t, []item{{"first", 1}}, stored)
}

func TestFileBackend_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)

	a := New(backend, logging.Nop())
	require.True(t, a.Store(KeyLogs, []item{{"log", 3}}).OK())

	_, err = os.Stat(filepath.Join(dir, "aed_submission_log.json"))
	require.NoError(t, err)

	got, res := Load(a, KeyLogs, []item(nil))
	require.True(t, res.OK())
	assert.Equal(t, []item{{"log", 3}}, got)

	require.True(t, a.Remove(KeyLogs).OK())
	_, res = Load(a, KeyLogs, []item(nil))
	assert.True(t, res.Missing)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must not be left behind")
}

func TestNewFileBackend_RejectsEmptyDir(t *testing.T) {
	_, err := NewFileBackend("  ")
	require.Error(t, err)
}

func TestArchive_RoundTrip(t *testing.T) {
	src := New(&MemoryBackend{}, logging.Nop())
	require.True(t, src.Store(KeyInventory, []item{{"aed", 1}}).OK())
	require.True(t, src.Store(KeyLastSync, "2025-06-01T00:00:00Z").OK())

	var buf bytes.Buffer
	require.NoError(t, src.Export(&buf, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, buf.Bytes()[:4], "archive should start with the zstd frame magic")

	dst := New(&MemoryBackend{}, logging.Nop())
	require.NoError(t, dst.Import(&buf))

	inv, res := Load(dst, KeyInventory, []item(nil))
	require.True(t, res.OK())
	assert.Equal(t, []item{{"aed", 1}}, inv)

	last, _ := Load(dst, KeyLastSync, "")
	assert.Equal(t, "2025-06-01T00:00:00Z", last)

	_, res = Load(dst, KeyPending, []item(nil))
	assert.True(t, res.Missing)
}

func TestArchive_RejectsGarbage(t *testing.T) {
	a := New(&MemoryBackend{}, logging.Nop())
	require.Error(t, a.Import(bytes.NewBufferString("plain text")))
}
