package game

import (
	"time"

	"github.com/l1jgo/shapesim/internal/core/event"
)

// Stats counts what happened to the game, fed from the event bus.
type Stats struct {
	NewGames   int
	Levels     int
	Saves      int
	Loads      int
	Failures   int
	Culled     int
	LastLoad   time.Duration
	LastError  error
	SavedBytes int
}

// Subscribe registers the counters on the bus. Events arrive one tick after
// they were emitted.
func (s *Stats) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(event.NewGame) { s.NewGames++ })
	event.Subscribe(bus, func(event.LevelLoaded) { s.Levels++ })
	event.Subscribe(bus, func(e event.GameSaved) {
		s.Saves++
		s.SavedBytes = e.Bytes
	})
	event.Subscribe(bus, func(e event.GameLoaded) {
		s.Loads++
		s.LastLoad = e.Took
	})
	event.Subscribe(bus, func(e event.LoadFailed) {
		s.Failures++
		s.LastError = e.Err
	})
	event.Subscribe(bus, func(e event.ShapesCulled) { s.Culled += e.Count })
}
