package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFileStoreSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "saves"), zaptest.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	blob := NewWriter(7).Bytes()
	require.NoError(t, s.Save(ctx, "slot1", 7, blob))

	got, err := s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	require.NoError(t, s.Save(ctx, "slot1", 7, []byte{1, 2, 3, 4}))
	got, err = s.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	_, err = os.Stat(filepath.Join(dir, "saves", "slot1.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestFileStoreMissingSlot(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = s.Load(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestFileStoreRejectsPaths(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)

	for _, slot := range []string{"", ".", "..", "../x", `a\b`} {
		assert.Error(t, s.Save(context.Background(), slot, 7, nil), slot)
	}
}
