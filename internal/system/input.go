package system

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	coresys "github.com/l1jgo/shapesim/internal/core/system"
	"github.com/l1jgo/shapesim/internal/game"
	"github.com/l1jgo/shapesim/internal/storage"
)

// storeTimeout bounds a single save or load round trip to the store.
const storeTimeout = 5 * time.Second

// historyLimit caps the rows printed by the history command.
const historyLimit = 10

// InputSystem drains console commands and advances a running load sequence.
// Phase 0 (Input). It is the only system that keeps running while a load
// sequence holds the simulation.
type InputSystem struct {
	game       *game.Game
	stats      *game.Stats
	store      storage.Store
	slot       string
	commands   <-chan Command
	maxPerTick int
	quit       func()
	log        *zap.Logger
}

func NewInputSystem(
	g *game.Game,
	stats *game.Stats,
	store storage.Store,
	slot string,
	commands <-chan Command,
	maxPerTick int,
	quit func(),
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		game:       g,
		stats:      stats,
		store:      store,
		slot:       slot,
		commands:   commands,
		maxPerTick: maxPerTick,
		quit:       quit,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case cmd := <-s.commands:
			s.execute(cmd)
		default:
			goto done
		}
	}
done:
	s.game.AdvanceLoad()
}

func (s *InputSystem) execute(cmd Command) {
	g := s.game
	if g.Loading() {
		switch cmd.Kind {
		case CmdStatus, CmdHistory, CmdQuit:
		default:
			s.log.Warn("level load in progress, command ignored", zap.String("state", g.LoadState().String()))
			return
		}
	}

	var err error
	switch cmd.Kind {
	case CmdCreate:
		err = g.SpawnShapes()
	case CmdDestroy:
		g.DestroyShape()
	case CmdNewGame:
		err = g.Restart()
	case CmdLevel:
		err = g.SwitchLevel(cmd.Level)
	case CmdSpeed:
		g.CreationSpeed = cmd.Creation
		g.DestructionSpeed = cmd.Destruction
	case CmdSave:
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		err = g.Save(ctx, s.store, s.slot)
		cancel()
	case CmdLoad:
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		err = g.LoadFrom(ctx, s.store, s.slot)
		cancel()
	case CmdStatus:
		s.status()
	case CmdHistory:
		err = s.history()
	case CmdPrune:
		err = s.prune(cmd.Keep)
	case CmdQuit:
		s.quit()
	}
	if err != nil {
		s.log.Error("command failed", zap.Int("command", int(cmd.Kind)), zap.Error(err))
	}
}

func (s *InputSystem) status() {
	g := s.game
	reg := g.Registry()
	creation, destruction := g.Progress()
	name := ""
	if lvl := g.Level(); lvl != nil {
		name = lvl.Name
	}
	s.log.Info("status",
		zap.Int("level", g.LevelIndex()),
		zap.String("level_name", name),
		zap.String("load_state", g.LoadState().String()),
		zap.Int("shapes", reg.Count()),
		zap.Int("dying", reg.DyingCount()),
		zap.Float32("creation_speed", g.CreationSpeed),
		zap.Float32("creation_progress", creation),
		zap.Float32("destruction_speed", g.DestructionSpeed),
		zap.Float32("destruction_progress", destruction),
		zap.Int("saves", s.stats.Saves),
		zap.String("last_save", humanize.Bytes(uint64(s.stats.SavedBytes))),
		zap.Int("loads", s.stats.Loads),
		zap.Int("load_failures", s.stats.Failures),
		zap.Int("culled", s.stats.Culled),
	)
}

func (s *InputSystem) slotHistory() (storage.SlotHistory, bool) {
	h, ok := s.store.(storage.SlotHistory)
	if !ok {
		s.log.Warn("save store keeps no history", zap.String("slot", s.slot))
	}
	return h, ok
}

func (s *InputSystem) history() error {
	h, ok := s.slotHistory()
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	saves, err := h.History(ctx, s.slot, historyLimit)
	if err != nil {
		return err
	}
	s.log.Info("save history", zap.String("slot", s.slot), zap.Int("saves", len(saves)))
	for _, info := range saves {
		s.log.Info("saved",
			zap.String("id", info.ID),
			zap.Int32("version", info.Version),
			zap.String("size", humanize.Bytes(uint64(info.Size))),
			zap.String("when", humanize.Time(time.UnixMilli(info.CreatedAt))),
		)
	}
	return nil
}

func (s *InputSystem) prune(keep int) error {
	h, ok := s.slotHistory()
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	n, err := h.Prune(ctx, s.slot, keep)
	if err != nil {
		return err
	}
	s.log.Info("saves pruned", zap.String("slot", s.slot), zap.Int("kept", keep), zap.Int64("removed", n))
	return nil
}
