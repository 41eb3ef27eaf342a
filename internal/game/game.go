// Package game drives the simulation: it owns the population, the loaded
// level, the random state, and the multi-tick load sequence, and it encodes
// and decodes the save blob.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/event"
	"github.com/l1jgo/shapesim/internal/level"
	"github.com/l1jgo/shapesim/internal/world"
)

var (
	// ErrUnsupportedVersion is returned for saves newer than CurrentVersion,
	// and for attempts to write any version other than CurrentVersion.
	ErrUnsupportedVersion = errors.New("game: unsupported save version")

	// ErrLoadInProgress is returned when a level switch or load is requested
	// while another one is still running.
	ErrLoadInProgress = errors.New("game: level load in progress")

	ErrNoLevel = errors.New("game: no level loaded")
)

// CurrentVersion is the save schema version this build writes.
const CurrentVersion int32 = 7

// Options are the game rules taken from configuration.
type Options struct {
	LevelCount      int
	DestroyDuration float32 // seconds; <= 0 kills immediately
	ReseedOnLoad    bool
	Seed            uint64 // 0 seeds from the clock
	SaveVersion     int32  // 0 means CurrentVersion
}

// Game is the simulation driver. All methods run on the simulation goroutine.
type Game struct {
	opts   Options
	log    *zap.Logger
	bus    *event.Bus
	loader level.Loader

	factories []*world.Factory
	reg       *world.Registry

	// main seeds every new game; src is the per-game generator whose state
	// is saved.
	main *rand.Rand
	src  *rand.PCG
	ctx  world.Context

	CreationSpeed       float32
	DestructionSpeed    float32
	creationProgress    float32
	destructionProgress float32

	level      *level.Level
	levelIndex int // 0 while no level is loaded
	seq        *loadSequence
}

// New creates a game with an empty population and no level. Factories are
// indexed by their position, which is the factory id written to saves.
func New(opts Options, factories []*world.Factory, loader level.Loader, bus *event.Bus, log *zap.Logger) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewPCG(0, 0)
	g := &Game{
		opts:      opts,
		log:       log,
		bus:       bus,
		loader:    loader,
		factories: factories,
		reg:       world.NewRegistry(world.NewBehaviorPools(), log),
		main:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		src:       src,
	}
	g.ctx = world.Context{Rand: rand.New(src), Pop: g.reg}
	return g
}

func (g *Game) Registry() *world.Registry { return g.reg }

// Level returns the loaded level, or nil while none is loaded.
func (g *Game) Level() *level.Level { return g.level }

func (g *Game) LevelIndex() int { return g.levelIndex }

// Context returns the per-tick context handed to behaviors and zones.
func (g *Game) Context() *world.Context { return &g.ctx }

// Loading reports whether a load sequence holds the simulation.
func (g *Game) Loading() bool { return g.seq != nil }

// Progress returns the creation and destruction accumulators.
func (g *Game) Progress() (creation, destruction float32) {
	return g.creationProgress, g.destructionProgress
}

// BeginNewGame reseeds the game generator from the main one, zeroes the
// speeds, and recycles every shape.
func (g *Game) BeginNewGame() {
	seed := g.main.Uint64()
	g.src.Seed(seed, seed^0x9e3779b97f4a7c15)
	g.CreationSpeed = 0
	g.DestructionSpeed = 0
	g.reg.Clear()
	event.Emit(g.bus, event.NewGame{Seed: seed})
}

// LoadLevel starts loading a level without touching the population.
func (g *Game) LoadLevel(index int) error {
	if g.seq != nil {
		return ErrLoadInProgress
	}
	if index < 1 || index > g.opts.LevelCount {
		return fmt.Errorf("level %d outside [1,%d]", index, g.opts.LevelCount)
	}
	g.seq = newSequence(index, nil)
	return nil
}

// SwitchLevel begins a new game on another level.
func (g *Game) SwitchLevel(index int) error {
	if g.seq != nil {
		return ErrLoadInProgress
	}
	if index < 1 || index > g.opts.LevelCount {
		return fmt.Errorf("level %d outside [1,%d]", index, g.opts.LevelCount)
	}
	g.BeginNewGame()
	return g.LoadLevel(index)
}

// Restart begins a new game on the current level.
func (g *Game) Restart() error {
	index := g.levelIndex
	if index == 0 {
		index = 1
	}
	return g.SwitchLevel(index)
}

// SpawnShapes spawns one shape from the level's spawn zone.
func (g *Game) SpawnShapes() error {
	if g.level == nil {
		return ErrNoLevel
	}
	return g.level.SpawnShapes(&g.ctx)
}

// DestroyShape kills a random active shape, or starts it dying when a
// destroy duration is configured.
func (g *Game) DestroyShape() {
	s := g.reg.RandomActive(g.ctx.Rand)
	if s == nil {
		return
	}
	if g.opts.DestroyDuration <= 0 {
		g.reg.Kill(s)
		return
	}
	world.Attach[*world.Dying](g.reg.Behaviors(), s).Initialize(&g.ctx, s, g.opts.DestroyDuration)
}

// Update runs every shape and level object once. Kills and dying marks
// raised meanwhile wait for Cleanup.
func (g *Game) Update(dt time.Duration) {
	if g.seq != nil || g.level == nil {
		return
	}
	g.ctx.DT = float32(dt.Seconds())
	g.reg.BeginUpdate()
	g.reg.UpdateShapes(&g.ctx)
	err := g.level.GameUpdate(&g.ctx)
	g.reg.EndUpdate()
	if err != nil {
		g.log.Error("level update", zap.Error(err))
	}
}

// PostUpdate applies the creation and destruction speeds and enforces the
// level's population limit.
func (g *Game) PostUpdate(dt time.Duration) {
	if g.seq != nil || g.level == nil {
		return
	}
	g.ctx.DT = float32(dt.Seconds())

	g.creationProgress += g.ctx.DT * g.CreationSpeed
	for g.creationProgress >= 1 {
		g.creationProgress--
		if err := g.SpawnShapes(); err != nil {
			g.log.Error("spawn shapes", zap.Error(err))
			break
		}
	}

	g.destructionProgress += g.ctx.DT * g.DestructionSpeed
	for g.destructionProgress >= 1 {
		g.destructionProgress--
		g.DestroyShape()
	}

	limit := g.level.PopulationLimit
	if limit <= 0 {
		return
	}
	culled := 0
	for g.reg.ActiveCount() > limit {
		g.DestroyShape()
		culled++
	}
	if culled > 0 {
		event.Emit(g.bus, event.ShapesCulled{Count: culled, Limit: limit})
	}
}

// Cleanup applies the kills and dying marks deferred during Update.
func (g *Game) Cleanup() {
	g.reg.Flush()
}
