package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: advance load sequence, drain commands
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: shape behaviors and level objects
	PhasePostUpdate              // 3: creation, destruction, population cap
	PhaseCleanup                 // 4: apply deferred kills and dying marks
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
