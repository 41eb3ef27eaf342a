package world

import (
	"math"

	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
)

// Movement integrates position by a constant velocity. It never finishes.
type Movement struct {
	Velocity geom.Vec3
}

func (*Movement) Kind() BehaviorKind { return KindMovement }

func (b *Movement) update(ctx *Context, s *Shape) bool {
	s.Transform.Position = s.Transform.Position.Add(b.Velocity.Scale(ctx.DT))
	return true
}

func (b *Movement) save(w *storage.Writer) { w.WriteVec3(b.Velocity) }
func (b *Movement) load(r *storage.Reader) { b.Velocity = r.ReadVec3() }
func (b *Movement) resolve(*Registry) error { return nil }
func (b *Movement) reset() { b.Velocity = geom.Zero }

// Rotation spins the shape by an angular velocity in degrees per second,
// around its own axes. It never finishes.
type Rotation struct {
	AngularVelocity geom.Vec3
}

func (*Rotation) Kind() BehaviorKind { return KindRotation }

func (b *Rotation) update(ctx *Context, s *Shape) bool {
	s.Transform.Rotate(b.AngularVelocity.Scale(ctx.DT))
	return true
}

func (b *Rotation) save(w *storage.Writer) { w.WriteVec3(b.AngularVelocity) }
func (b *Rotation) load(r *storage.Reader) { b.AngularVelocity = r.ReadVec3() }
func (b *Rotation) resolve(*Registry) error { return nil }
func (b *Rotation) reset() { b.AngularVelocity = geom.Zero }

// Oscillation moves the shape along Offset following a sine wave. Only the
// change since the previous sample is applied, so it composes with Movement.
type Oscillation struct {
	Offset    geom.Vec3
	Frequency float32

	previous float32
}

func (*Oscillation) Kind() BehaviorKind { return KindOscillation }

func (b *Oscillation) update(_ *Context, s *Shape) bool {
	osc := float32(math.Sin(2 * math.Pi * float64(b.Frequency) * float64(s.age)))
	s.Transform.Position = s.Transform.Position.Add(b.Offset.Scale(osc - b.previous))
	b.previous = osc
	return true
}

func (b *Oscillation) save(w *storage.Writer) {
	w.WriteVec3(b.Offset)
	w.WriteFloat(b.Frequency)
	w.WriteFloat(b.previous)
}

func (b *Oscillation) load(r *storage.Reader) {
	b.Offset = r.ReadVec3()
	b.Frequency = r.ReadFloat()
	b.previous = r.ReadFloat()
}

func (b *Oscillation) resolve(*Registry) error { return nil }

func (b *Oscillation) reset() {
	b.previous = 0
}
