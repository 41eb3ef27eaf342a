package event

import "time"

// NewGame is emitted after the population was cleared and the generator reseeded.
type NewGame struct {
	Seed uint64
}

// LevelLoaded is emitted when the load sequence switched to a new level.
type LevelLoaded struct {
	Index int
	Name  string
}

// GameSaved is emitted after a snapshot was encoded.
type GameSaved struct {
	Version int32
	Shapes  int
	Bytes   int
}

// GameLoaded is emitted once a snapshot was fully applied.
type GameLoaded struct {
	Version int32
	Shapes  int
	Took    time.Duration
}

// LoadFailed is emitted when a load sequence was aborted.
type LoadFailed struct {
	Version int32
	Err     error
}

// ShapesCulled is emitted when the population cap removed shapes this tick.
type ShapesCulled struct {
	Count int
	Limit int
}
