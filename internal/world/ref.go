package world

import (
	"errors"
	"fmt"

	"github.com/l1jgo/shapesim/internal/core/ecs"
	"github.com/l1jgo/shapesim/internal/storage"
)

// ErrUnresolvedRef is returned when a decoded reference names a save index
// that does not exist in the reconstructed population.
var ErrUnresolvedRef = errors.New("world: reference to missing save index")

// ShapeRef is a weak reference to a shape. It captures the shape's slot id,
// whose generation bumps whenever the shape is recycled, so a reference to a
// recycled or reused slot reports invalid without anyone visiting it.
//
// A freshly decoded reference carries only a save index; Resolve binds it once
// the whole population has been reconstructed.
type ShapeRef struct {
	shape   *Shape
	id      ecs.EntityID
	pending int32 // save index awaiting Resolve, -1 when none
}

// NoRef returns the absent reference.
func NoRef() ShapeRef {
	return ShapeRef{pending: -1}
}

// RefTo captures a reference to the shape's current incarnation.
func RefTo(s *Shape) ShapeRef {
	return ShapeRef{shape: s, id: s.id, pending: -1}
}

// IsValid reports whether the referenced shape is still the incarnation that
// was captured.
func (r ShapeRef) IsValid() bool {
	return r.shape != nil && r.shape.arena.Alive(r.id)
}

// Shape returns the referenced shape. Callers check IsValid first.
func (r ShapeRef) Shape() *Shape {
	return r.shape
}

// Pending returns the unresolved save index, or -1.
func (r ShapeRef) Pending() int32 {
	return r.pending
}

// Resolve binds a decoded save index to the shape now at that registry
// position. References that are bound already, or that were saved invalid,
// are left alone.
func (r *ShapeRef) Resolve(reg *Registry) error {
	if r.shape != nil || r.pending < 0 {
		return nil
	}
	idx := int(r.pending)
	if idx >= reg.Count() {
		return fmt.Errorf("%w: index %d, population %d", ErrUnresolvedRef, idx, reg.Count())
	}
	s := reg.Get(idx)
	r.shape = s
	r.id = s.id
	r.pending = -1
	return nil
}

func (r ShapeRef) save(w *storage.Writer) {
	if r.IsValid() {
		w.WriteInt(int32(r.shape.SaveIndex))
		return
	}
	w.WriteInt(-1)
}

func readRef(rd *storage.Reader) ShapeRef {
	return ShapeRef{pending: rd.ReadInt()}
}
