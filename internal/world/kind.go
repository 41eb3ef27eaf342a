package world

import (
	"errors"
	"fmt"
)

// ErrUnknownBehavior is returned when a save names a behavior tag outside
// the known kinds.
var ErrUnknownBehavior = errors.New("world: unknown behavior kind")

// BehaviorKind tags each behavior variant. The values are written to saves
// and must never be renumbered.
type BehaviorKind int32

const (
	KindMovement BehaviorKind = iota
	KindRotation
	KindOscillation
	KindSatellite
	KindGrowing
	KindDying
	KindLifecycle

	kindCount
)

func (k BehaviorKind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k BehaviorKind) String() string {
	switch k {
	case KindMovement:
		return "Movement"
	case KindRotation:
		return "Rotation"
	case KindOscillation:
		return "Oscillation"
	case KindSatellite:
		return "Satellite"
	case KindGrowing:
		return "Growing"
	case KindDying:
		return "Dying"
	case KindLifecycle:
		return "Lifecycle"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(k))
	}
}

// newBehavior constructs a default instance of kind.
func newBehavior(k BehaviorKind) Behavior {
	switch k {
	case KindMovement:
		return &Movement{}
	case KindRotation:
		return &Rotation{}
	case KindOscillation:
		return &Oscillation{}
	case KindSatellite:
		return &Satellite{focal: NoRef()}
	case KindGrowing:
		return &Growing{}
	case KindDying:
		return &Dying{}
	case KindLifecycle:
		return &Lifecycle{}
	}
	panic(fmt.Sprintf("world: no constructor for behavior %s", k))
}
