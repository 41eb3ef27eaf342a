package system

import (
	"time"

	coresys "github.com/l1jgo/shapesim/internal/core/system"
	"github.com/l1jgo/shapesim/internal/game"
)

// UpdateSystem runs every shape's behaviors and the level objects.
// Phase 2 (Update).
type UpdateSystem struct {
	game *game.Game
}

func NewUpdateSystem(g *game.Game) *UpdateSystem {
	return &UpdateSystem{game: g}
}

func (s *UpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *UpdateSystem) Update(dt time.Duration) {
	s.game.Update(dt)
}

// SpawnSystem applies creation and destruction speeds and the population
// limit. Phase 3 (PostUpdate).
type SpawnSystem struct {
	game *game.Game
}

func NewSpawnSystem(g *game.Game) *SpawnSystem {
	return &SpawnSystem{game: g}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpawnSystem) Update(dt time.Duration) {
	s.game.PostUpdate(dt)
}
