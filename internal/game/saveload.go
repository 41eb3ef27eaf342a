package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/event"
	"github.com/l1jgo/shapesim/internal/storage"
	"github.com/l1jgo/shapesim/internal/world"
)

// Encode writes the population, random state, speeds, level index, level
// data, and every shape, in that order. Only CurrentVersion can be written.
func (g *Game) Encode(version int32) ([]byte, error) {
	if version != CurrentVersion {
		return nil, fmt.Errorf("%w: cannot write version %d", ErrUnsupportedVersion, version)
	}
	if g.seq != nil {
		return nil, ErrLoadInProgress
	}
	if g.level == nil {
		return nil, ErrNoLevel
	}
	state, err := g.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal random state: %w", err)
	}

	w := storage.NewWriter(version)
	w.WriteInt(int32(g.reg.Count()))
	if err := w.WriteRandomState(storage.RandomState{PCG: state}); err != nil {
		return nil, fmt.Errorf("write random state: %w", err)
	}
	w.WriteFloat(g.CreationSpeed)
	w.WriteFloat(g.creationProgress)
	w.WriteFloat(g.DestructionSpeed)
	w.WriteFloat(g.destructionProgress)
	w.WriteInt(int32(g.levelIndex))
	g.level.Save(w)

	g.reg.Each(func(s *world.Shape) {
		w.WriteInt(int32(s.OriginFactory().ID()))
		w.WriteInt(s.ShapeID())
		w.WriteInt(s.MaterialID())
		s.Save(w)
	})
	return w.Bytes(), nil
}

// header is the part of a save read before the level is loaded. It is
// parsed in full before anything is applied to the running game.
type header struct {
	version int32
	count   int
	level   int

	// version 3 and later
	random              *rand.PCG
	creationSpeed       float32
	creationProgress    float32
	destructionSpeed    float32
	destructionProgress float32
}

// Load validates the blob's version and header, resets the game, and starts
// the load sequence that restores the level and population over the next
// ticks. A future version or a bad header leaves the running game untouched.
func (g *Game) Load(blob []byte) error {
	r := storage.NewReader(blob)
	if err := r.Err(); err != nil {
		return fmt.Errorf("read save: %w", err)
	}
	if v := r.Version(); v > CurrentVersion {
		g.log.Error("unsupported future save version", zap.Int32("version", v))
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	if g.seq != nil {
		return ErrLoadInProgress
	}

	h, err := g.readHeader(r)
	if err != nil {
		g.log.Error("save header rejected", zap.Int32("version", h.version), zap.Error(err))
		event.Emit(g.bus, event.LoadFailed{Version: h.version, Err: err})
		return err
	}
	g.BeginNewGame()
	g.applyHeader(h)
	g.log.Info("loading save",
		zap.Int32("version", h.version),
		zap.Int("shapes", h.count),
		zap.Int("level", h.level),
		zap.String("size", humanize.Bytes(uint64(len(blob)))),
	)
	g.seq = newSequence(h.level, &pendingLoad{r: r, header: h})
	return nil
}

func (g *Game) readHeader(r *storage.Reader) (header, error) {
	h := header{version: r.Version(), level: 1}
	if h.version <= 0 {
		h.count = int(-h.version)
	} else {
		h.count = int(r.ReadInt())
	}

	if h.version >= 3 {
		state := r.ReadRandomState()
		if r.Err() == nil && !g.opts.ReseedOnLoad {
			h.random = &rand.PCG{}
			if err := h.random.UnmarshalBinary(state.PCG); err != nil {
				return h, fmt.Errorf("restore random state: %w", err)
			}
		}
		h.creationSpeed = r.ReadFloat()
		h.creationProgress = r.ReadFloat()
		h.destructionSpeed = r.ReadFloat()
		h.destructionProgress = r.ReadFloat()
	}
	if h.version >= 2 {
		h.level = int(r.ReadInt())
	}

	if err := r.Err(); err != nil {
		return h, fmt.Errorf("read save header: %w", err)
	}
	if h.count < 0 {
		return h, fmt.Errorf("negative shape count %d", h.count)
	}
	if h.level < 1 || h.level > g.opts.LevelCount {
		return h, fmt.Errorf("saved level %d outside [1,%d]", h.level, g.opts.LevelCount)
	}
	return h, nil
}

// applyHeader runs after BeginNewGame, so saves older than version 3 keep
// the fresh seed and zero speeds.
func (g *Game) applyHeader(h header) {
	if h.version < 3 {
		return
	}
	if h.random != nil {
		*g.src = *h.random
	}
	g.CreationSpeed = h.creationSpeed
	g.creationProgress = h.creationProgress
	g.DestructionSpeed = h.destructionSpeed
	g.destructionProgress = h.destructionProgress
}

// applyEntities reads the level data and every shape record, then resolves
// shape references. It runs once the saved level is loaded.
func (g *Game) applyEntities(p *pendingLoad) error {
	r, v := p.r, p.header.version
	if v >= 3 {
		if err := g.level.Load(r); err != nil {
			return fmt.Errorf("level data: %w", err)
		}
	}

	pools := g.reg.Behaviors()
	for i := 0; i < p.header.count; i++ {
		factoryID := 0
		if v >= 5 {
			factoryID = int(r.ReadInt())
		}
		var shapeID, materialID int32
		if v > 0 {
			shapeID = r.ReadInt()
			materialID = r.ReadInt()
		}
		if err := r.Err(); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if factoryID < 0 || factoryID >= len(g.factories) {
			return fmt.Errorf("shape %d: unknown factory %d", i, factoryID)
		}
		s, err := g.reg.Spawn(g.factories[factoryID], shapeID, materialID)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if err := s.Load(r, pools); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}

	if err := g.reg.ResolveAll(); err != nil {
		return err
	}
	g.restoreDying()
	if n := r.Remaining(); n > 0 {
		g.log.Warn("trailing bytes after save data", zap.Int("bytes", n))
	}
	return nil
}

// restoreDying rebuilds the dying partition from the decoded Dying
// behaviors. Saves list dying shapes first, so the order is unchanged.
func (g *Game) restoreDying() {
	for i := 0; i < g.reg.Count(); i++ {
		s := g.reg.Get(i)
		for _, b := range s.Behaviors() {
			if b.Kind() == world.KindDying {
				g.reg.MarkAsDying(s)
				break
			}
		}
	}
}

// Save encodes the game at the configured version and stores it under slot.
func (g *Game) Save(ctx context.Context, store storage.Store, slot string) error {
	start := time.Now()
	version := g.opts.SaveVersion
	if version == 0 {
		version = CurrentVersion
	}
	blob, err := g.Encode(version)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, slot, version, blob); err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	g.log.Info("game saved",
		zap.String("slot", slot),
		zap.Int("shapes", g.reg.Count()),
		zap.String("size", humanize.Bytes(uint64(len(blob)))),
		zap.Duration("took", time.Since(start)),
	)
	event.Emit(g.bus, event.GameSaved{Version: version, Shapes: g.reg.Count(), Bytes: len(blob)})
	return nil
}

// LoadFrom reads slot from store and starts loading it.
func (g *Game) LoadFrom(ctx context.Context, store storage.Store, slot string) error {
	blob, err := store.Load(ctx, slot)
	if err != nil {
		return fmt.Errorf("load slot %s: %w", slot, err)
	}
	return g.Load(blob)
}
