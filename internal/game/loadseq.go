package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/event"
	"github.com/l1jgo/shapesim/internal/level"
	"github.com/l1jgo/shapesim/internal/storage"
)

// LoadState is the step a load sequence is in.
type LoadState int

const (
	StateIdle LoadState = iota
	StateUnloadingPreviousLevel
	StateLoadingLevel
	StateApplyingEntities
	StateDone
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUnloadingPreviousLevel:
		return "unloading-previous-level"
	case StateLoadingLevel:
		return "loading-level"
	case StateApplyingEntities:
		return "applying-entities"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// pendingLoad is a decoded save header waiting for its level.
type pendingLoad struct {
	r      *storage.Reader
	header header
}

// loadSequence switches levels across ticks. The level loader works off the
// simulation goroutine; the sequence polls its channels once per tick and
// the simulation stays paused until it is done.
type loadSequence struct {
	state   LoadState
	target  int
	unload  <-chan error
	load    <-chan level.Result
	pending *pendingLoad // nil for a plain level switch
	started time.Time
}

func newSequence(target int, pending *pendingLoad) *loadSequence {
	return &loadSequence{
		state:   StateIdle,
		target:  target,
		pending: pending,
		started: time.Now(),
	}
}

// LoadState returns the step of the running load sequence, or StateIdle.
func (g *Game) LoadState() LoadState {
	if g.seq == nil {
		return StateIdle
	}
	return g.seq.state
}

// AdvanceLoad moves the load sequence forward by at most one step. It never
// blocks on the level loader.
func (g *Game) AdvanceLoad() {
	seq := g.seq
	if seq == nil {
		return
	}

	switch seq.state {
	case StateIdle:
		if g.levelIndex > 0 {
			seq.unload = g.loader.Unload(g.levelIndex)
			seq.state = StateUnloadingPreviousLevel
			return
		}
		seq.load = g.loader.Load(seq.target)
		seq.state = StateLoadingLevel

	case StateUnloadingPreviousLevel:
		select {
		case err := <-seq.unload:
			if err != nil {
				g.log.Warn("unload previous level", zap.Int("level", g.levelIndex), zap.Error(err))
			}
			g.level = nil
			g.levelIndex = 0
			seq.load = g.loader.Load(seq.target)
			seq.state = StateLoadingLevel
		default:
		}

	case StateLoadingLevel:
		select {
		case res := <-seq.load:
			if res.Err != nil {
				g.failLoad(seq, res.Err)
				return
			}
			g.level = res.Level
			g.levelIndex = seq.target
			event.Emit(g.bus, event.LevelLoaded{Index: seq.target, Name: res.Level.Name})
			if seq.pending == nil {
				g.finishLoad(seq)
				return
			}
			seq.state = StateApplyingEntities
		default:
		}

	case StateApplyingEntities:
		if err := g.applyEntities(seq.pending); err != nil {
			g.failLoad(seq, err)
			return
		}
		g.finishLoad(seq)
	}
}

func (g *Game) finishLoad(seq *loadSequence) {
	seq.state = StateDone
	g.seq = nil
	if seq.pending == nil {
		return
	}
	took := time.Since(seq.started)
	g.log.Info("save loaded",
		zap.Int32("version", seq.pending.header.version),
		zap.Int("shapes", g.reg.Count()),
		zap.Duration("took", took),
	)
	event.Emit(g.bus, event.GameLoaded{
		Version: seq.pending.header.version,
		Shapes:  g.reg.Count(),
		Took:    took,
	})
}

// failLoad aborts the sequence. Shapes restored so far are recycled so a
// half-decoded population never runs.
func (g *Game) failLoad(seq *loadSequence, err error) {
	seq.state = StateDone
	g.seq = nil
	g.reg.Clear()
	var version int32
	if seq.pending != nil {
		version = seq.pending.header.version
	}
	g.log.Error("load aborted",
		zap.Int("level", seq.target),
		zap.Int32("version", version),
		zap.Error(err),
	)
	event.Emit(g.bus, event.LoadFailed{Version: version, Err: err})
}
