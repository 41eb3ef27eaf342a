package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/shapesim/internal/core/system"
	"github.com/l1jgo/shapesim/internal/game"
	"github.com/l1jgo/shapesim/internal/storage"
)

// PersistenceSystem periodically saves the game to the autosave slot.
// Registered after CleanupSystem so a snapshot never holds deferred kills.
type PersistenceSystem struct {
	game      *game.Game
	store     storage.Store
	slot      string
	log       *zap.Logger
	tickCount int
	interval  int // autosave every N ticks
}

func NewPersistenceSystem(g *game.Game, store storage.Store, slot string, intervalTicks int, log *zap.Logger) *PersistenceSystem {
	return &PersistenceSystem{
		game:     g,
		store:    store,
		slot:     slot,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	// nothing to snapshot mid-load
	if s.game.Loading() || s.game.Level() == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.game.Save(ctx, s.store, s.slot); err != nil {
		s.log.Error("autosave failed", zap.String("slot", s.slot), zap.Error(err))
	}
}
