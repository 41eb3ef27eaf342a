package system

import (
	"time"

	coresys "github.com/l1jgo/shapesim/internal/core/system"
	"github.com/l1jgo/shapesim/internal/game"
)

// CleanupSystem applies the kills and dying marks deferred during the update
// pass at tick end. Phase 4 (Cleanup).
type CleanupSystem struct {
	game *game.Game
}

func NewCleanupSystem(g *game.Game) *CleanupSystem {
	return &CleanupSystem{game: g}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.game.Cleanup()
}
