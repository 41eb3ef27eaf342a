package world

import "github.com/l1jgo/shapesim/internal/storage"

// Behavior is one unit of per-tick logic attached to a shape. The set of
// implementations is closed: the unexported methods keep other packages from
// adding kinds the save format cannot name.
type Behavior interface {
	Kind() BehaviorKind

	// update advances the behavior by ctx.DT and reports whether it stays
	// attached.
	update(ctx *Context, s *Shape) bool
	save(w *storage.Writer)
	load(r *storage.Reader)
	resolve(reg *Registry) error
	// reset clears transient state before the instance goes back to its pool.
	reset()
}

// Attach takes a behavior of type B from the pools and appends it to the
// shape's behavior list.
//
//	rot := world.Attach[*world.Rotation](ctx.Behaviors(), shape)
func Attach[B Behavior](pools *BehaviorPools, s *Shape) B {
	var zero B
	b := pools.Get(zero.Kind()).(B)
	s.behaviors = append(s.behaviors, b)
	return b
}
