package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/l1jgo/shapesim/internal/storage"
)

// SQLiteStore keeps save blobs in a single SQLite file with the same row
// layout as the PostgreSQL save_slots table.
type SQLiteStore struct {
	conn *sqlx.DB
	log  *zap.Logger
}

// OpenSQLite opens or creates the database file at path.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{conn: conn, log: log}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL,
		version INTEGER NOT NULL,
		blob BLOB NOT NULL,
		checksum BLOB NOT NULL,
		size INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_save_slots_slot_created ON save_slots(slot, created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type slotRow struct {
	Blob     []byte `db:"blob"`
	Checksum []byte `db:"checksum"`
}

func (s *SQLiteStore) Save(ctx context.Context, slot string, version int32, blob []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO save_slots (id, slot, version, blob, checksum, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), slot, version, blob, checksum(blob), len(blob), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert save %s: %w", slot, err)
	}
	s.log.Debug("save stored", zap.String("slot", slot), zap.Int("bytes", len(blob)))
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var row slotRow
	err := s.conn.GetContext(ctx, &row,
		`SELECT blob, checksum FROM save_slots
		 WHERE slot = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("select save %s: %w", slot, err)
	}
	if err := verify(slot, row.Blob, row.Checksum); err != nil {
		return nil, err
	}
	return row.Blob, nil
}

// History lists the newest saves of a slot, newest first.
func (s *SQLiteStore) History(ctx context.Context, slot string, limit int) ([]storage.SlotInfo, error) {
	var out []storage.SlotInfo
	err := s.conn.SelectContext(ctx, &out,
		`SELECT id, slot, version, size, created_at / 1000000 AS created_at FROM save_slots
		 WHERE slot = ? ORDER BY save_slots.created_at DESC, save_slots.rowid DESC LIMIT ?`, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("select history %s: %w", slot, err)
	}
	return out, nil
}

// Prune deletes all but the newest keep saves of a slot.
func (s *SQLiteStore) Prune(ctx context.Context, slot string, keep int) (int64, error) {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM save_slots WHERE slot = ? AND rowid NOT IN (
		     SELECT rowid FROM save_slots WHERE slot = ?
		     ORDER BY created_at DESC, rowid DESC LIMIT ?)`,
		slot, slot, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", slot, err)
	}
	if n > 0 {
		s.log.Debug("saves pruned", zap.String("slot", slot), zap.Int64("rows", n))
	}
	return n, nil
}
