package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/storage"
)

// SlotRepo stores save blobs in PostgreSQL. Every save is a new row; Load
// returns the newest row of a slot.
type SlotRepo struct {
	db *DB
}

func NewSlotRepo(db *DB) *SlotRepo {
	return &SlotRepo{db: db}
}

func (r *SlotRepo) Save(ctx context.Context, slot string, version int32, blob []byte) error {
	id := uuid.New()
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO save_slots (id, slot, version, blob, checksum, size)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id.String(), slot, version, blob, checksum(blob), len(blob),
	)
	if err != nil {
		return fmt.Errorf("insert save %s: %w", slot, err)
	}
	r.db.log.Debug("save stored", zap.String("slot", slot), zap.String("id", id.String()), zap.Int("bytes", len(blob)))
	return nil
}

func (r *SlotRepo) Load(ctx context.Context, slot string) ([]byte, error) {
	var blob, sum []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT blob, checksum FROM save_slots
		 WHERE slot = $1 ORDER BY created_at DESC LIMIT 1`, slot,
	).Scan(&blob, &sum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("select save %s: %w", slot, err)
	}
	if err := verify(slot, blob, sum); err != nil {
		return nil, err
	}
	return blob, nil
}

// History lists the newest saves of a slot, newest first.
func (r *SlotRepo) History(ctx context.Context, slot string, limit int) ([]storage.SlotInfo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id::text, slot, version, size, created_at FROM save_slots
		 WHERE slot = $1 ORDER BY created_at DESC LIMIT $2`, slot, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select history %s: %w", slot, err)
	}
	defer rows.Close()

	var out []storage.SlotInfo
	for rows.Next() {
		var info storage.SlotInfo
		var created time.Time
		if err := rows.Scan(&info.ID, &info.Slot, &info.Version, &info.Size, &created); err != nil {
			return nil, err
		}
		info.CreatedAt = created.UnixMilli()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep saves of a slot.
func (r *SlotRepo) Prune(ctx context.Context, slot string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM save_slots WHERE slot = $1 AND id NOT IN (
		     SELECT id FROM save_slots WHERE slot = $1 ORDER BY created_at DESC LIMIT $2)`,
		slot, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", slot, err)
	}
	return tag.RowsAffected(), nil
}
