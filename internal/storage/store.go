package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrSlotNotFound is returned by Load when nothing was saved under a slot.
var ErrSlotNotFound = errors.New("storage: save slot not found")

// Store persists opaque save blobs under a slot name. The blob already
// carries its version sentinel; version is passed separately so backends can
// index it.
type Store interface {
	Save(ctx context.Context, slot string, version int32, blob []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
}

// SlotInfo describes one stored save without its blob.
type SlotInfo struct {
	ID        string `db:"id"`
	Slot      string `db:"slot"`
	Version   int32  `db:"version"`
	Size      int    `db:"size"`
	CreatedAt int64  `db:"created_at"` // unix milliseconds
}

// SlotHistory is implemented by stores that keep every save of a slot
// instead of overwriting it.
type SlotHistory interface {
	History(ctx context.Context, slot string, limit int) ([]SlotInfo, error)
	Prune(ctx context.Context, slot string, keep int) (int64, error)
}

// FileStore keeps one file per slot in a directory.
type FileStore struct {
	dir string
	log *zap.Logger
}

func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) path(slot string) (string, error) {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(s.dir, slot), nil
}

// Save writes the blob to a temp file and renames it over the slot, so a
// crash never leaves a half-written save behind.
func (s *FileStore) Save(_ context.Context, slot string, version int32, blob []byte) error {
	p, err := s.path(slot)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("replace %s: %w", p, err)
	}
	s.log.Debug("save written", zap.String("path", p), zap.Int32("version", version), zap.Int("bytes", len(blob)))
	return nil
}

func (s *FileStore) Load(_ context.Context, slot string) ([]byte, error) {
	p, err := s.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}
