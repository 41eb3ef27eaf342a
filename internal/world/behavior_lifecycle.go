package world

import (
	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
)

// Growing scales the shape from zero up to its original scale over Duration,
// measured against the shape's age.
type Growing struct {
	originalScale geom.Vec3
	duration      float32
}

func (*Growing) Kind() BehaviorKind { return KindGrowing }

// Initialize remembers the current scale as the target and collapses the
// shape to zero.
func (b *Growing) Initialize(s *Shape, duration float32) {
	b.originalScale = s.Transform.Scale
	b.duration = duration
	s.Transform.Scale = geom.Zero
}

func (b *Growing) update(_ *Context, s *Shape) bool {
	if s.age < b.duration {
		f := geom.SmoothStep01(s.age / b.duration)
		s.Transform.Scale = b.originalScale.Scale(f)
		return true
	}
	s.Transform.Scale = b.originalScale
	return false
}

func (b *Growing) save(w *storage.Writer) {
	w.WriteVec3(b.originalScale)
	w.WriteFloat(b.duration)
}

func (b *Growing) load(r *storage.Reader) {
	b.originalScale = r.ReadVec3()
	b.duration = r.ReadFloat()
}

func (b *Growing) resolve(*Registry) error { return nil }
func (b *Growing) reset() {}

// Dying shrinks the shape to zero over Duration, then kills it.
type Dying struct {
	originalScale geom.Vec3
	duration      float32
	dyingAge      float32
}

func (*Dying) Kind() BehaviorKind { return KindDying }

// Initialize starts the countdown from the shape's current age and marks the
// shape as dying.
func (b *Dying) Initialize(ctx *Context, s *Shape, duration float32) {
	b.originalScale = s.Transform.Scale
	b.duration = duration
	b.dyingAge = s.age
	s.MarkAsDying(ctx)
}

func (b *Dying) update(ctx *Context, s *Shape) bool {
	elapsed := s.age - b.dyingAge
	if elapsed < b.duration {
		f := geom.SmoothStep01(1 - elapsed/b.duration)
		s.Transform.Scale = b.originalScale.Scale(f)
		return true
	}
	s.Die(ctx)
	return true
}

func (b *Dying) save(w *storage.Writer) {
	w.WriteVec3(b.originalScale)
	w.WriteFloat(b.duration)
	w.WriteFloat(b.dyingAge)
}

func (b *Dying) load(r *storage.Reader) {
	b.originalScale = r.ReadVec3()
	b.duration = r.ReadFloat()
	b.dyingAge = r.ReadFloat()
}

func (b *Dying) resolve(*Registry) error { return nil }
func (b *Dying) reset() {}

// Lifecycle runs a shape through growing, an adult hold, and dying, by
// comparing its age against precomputed thresholds.
type Lifecycle struct {
	adultDuration float32
	dyingDuration float32
	dyingAge      float32
}

func (*Lifecycle) Kind() BehaviorKind { return KindLifecycle }

// Initialize attaches a Growing behavior when growing takes any time.
func (b *Lifecycle) Initialize(pools *BehaviorPools, s *Shape, growing, adult, dying float32) {
	b.adultDuration = adult
	b.dyingDuration = dying
	b.dyingAge = growing + adult
	if growing > 0 {
		Attach[*Growing](pools, s).Initialize(s, growing)
	}
}

func (b *Lifecycle) update(ctx *Context, s *Shape) bool {
	if s.age < b.dyingAge {
		return true
	}
	if b.dyingDuration <= 0 {
		s.Die(ctx)
		return true
	}
	if !s.IsMarkedAsDying(ctx) {
		Attach[*Dying](ctx.Behaviors(), s).Initialize(ctx, s, b.dyingDuration+b.dyingAge-s.age)
	}
	return false
}

func (b *Lifecycle) save(w *storage.Writer) {
	w.WriteFloat(b.adultDuration)
	w.WriteFloat(b.dyingDuration)
	w.WriteFloat(b.dyingAge)
}

func (b *Lifecycle) load(r *storage.Reader) {
	b.adultDuration = r.ReadFloat()
	b.dyingDuration = r.ReadFloat()
	b.dyingAge = r.ReadFloat()
}

func (b *Lifecycle) resolve(*Registry) error { return nil }
func (b *Lifecycle) reset() {}
