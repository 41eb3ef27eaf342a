package world

import (
	"math"

	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
)

// Satellite keeps a shape on an elliptical orbit around a focal shape. When
// the focal shape goes away the satellite keeps drifting with its last
// velocity.
type Satellite struct {
	focal     ShapeRef
	frequency float32
	cosOffset geom.Vec3
	sinOffset geom.Vec3
	previous  geom.Vec3
}

func (*Satellite) Kind() BehaviorKind { return KindSatellite }

// Initialize picks a random orbit plane, attaches a Rotation so the satellite
// spins with its orbit, and places it on the orbit.
func (b *Satellite) Initialize(ctx *Context, s, focal *Shape, radius, frequency float32) {
	b.focal = RefTo(focal)
	b.frequency = frequency

	axis := geom.OnUnitSphere(ctx.Rand)
	for {
		b.cosOffset = axis.Cross(geom.OnUnitSphere(ctx.Rand)).Normalized()
		if b.cosOffset.SqrMagnitude() >= 0.1 {
			break
		}
	}
	b.sinOffset = b.cosOffset.Cross(axis)
	b.cosOffset = b.cosOffset.Scale(radius)
	b.sinOffset = b.sinOffset.Scale(radius)

	rot := Attach[*Rotation](ctx.Behaviors(), s)
	rot.AngularVelocity = s.Transform.InverseTransformDirection(axis).Scale(-360 * frequency)

	b.update(ctx, s)
	b.previous = s.Transform.Position
}

// Focal returns the reference to the shape being orbited.
func (b *Satellite) Focal() ShapeRef {
	return b.focal
}

func (b *Satellite) update(ctx *Context, s *Shape) bool {
	if b.focal.IsValid() {
		t := 2 * math.Pi * float64(b.frequency) * float64(s.age)
		b.previous = s.Transform.Position
		s.Transform.Position = b.focal.Shape().Transform.Position.
			Add(b.cosOffset.Scale(float32(math.Cos(t)))).
			Add(b.sinOffset.Scale(float32(math.Sin(t))))
		return true
	}

	var velocity geom.Vec3
	if ctx.DT > 0 {
		velocity = s.Transform.Position.Sub(b.previous).Scale(1 / ctx.DT)
	}
	Attach[*Movement](ctx.Behaviors(), s).Velocity = velocity
	return false
}

func (b *Satellite) save(w *storage.Writer) {
	b.focal.save(w)
	w.WriteFloat(b.frequency)
	w.WriteVec3(b.cosOffset)
	w.WriteVec3(b.sinOffset)
	w.WriteVec3(b.previous)
}

func (b *Satellite) load(r *storage.Reader) {
	b.focal = readRef(r)
	b.frequency = r.ReadFloat()
	b.cosOffset = r.ReadVec3()
	b.sinOffset = r.ReadVec3()
	b.previous = r.ReadVec3()
}

func (b *Satellite) resolve(reg *Registry) error {
	return b.focal.Resolve(reg)
}

func (b *Satellite) reset() {
	b.focal = NoRef()
}
