package persist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/shapesim/internal/storage"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "saves.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreLatestWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "default", 7, []byte{1, 2, 3}))
	require.NoError(t, s.Save(ctx, "default", 7, []byte{4, 5}))
	require.NoError(t, s.Save(ctx, "other", 7, []byte{9}))

	blob, err := s.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, blob)

	history, err := s.History(ctx, "default", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Size)
	assert.Equal(t, int32(7), history[0].Version)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestSQLiteStorePrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := byte(0); i < 4; i++ {
		require.NoError(t, s.Save(ctx, "default", 7, []byte{i}))
	}
	require.NoError(t, s.Save(ctx, "other", 7, []byte{9}))

	n, err := s.Prune(ctx, "default", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	history, err := s.History(ctx, "default", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	blob, err := s.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, blob, "newest save survives")

	history, err = s.History(ctx, "other", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSQLiteStoreMissingSlot(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "nothing")
	assert.ErrorIs(t, err, storage.ErrSlotNotFound)
}

func TestSQLiteStoreDetectsCorruption(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "default", 7, []byte{1, 2, 3}))

	_, err := s.conn.Exec(`UPDATE save_slots SET blob = ? WHERE slot = ?`, []byte{1, 2, 4}, "default")
	require.NoError(t, err)

	_, err = s.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestChecksum(t *testing.T) {
	sum := checksum([]byte("shapes"))
	assert.Len(t, sum, 32)
	assert.NoError(t, verify("s", []byte("shapes"), sum))
	assert.ErrorIs(t, verify("s", []byte("shape"), sum), ErrChecksumMismatch)
}

var (
	_ storage.Store       = (*SQLiteStore)(nil)
	_ storage.Store       = (*SlotRepo)(nil)
	_ storage.SlotHistory = (*SQLiteStore)(nil)
	_ storage.SlotHistory = (*SlotRepo)(nil)
)
