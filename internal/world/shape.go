package world

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/ecs"
	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
)

const unsetID = math.MinInt32

// Shape is one simulated object. Shapes are constructed by a Factory, live in
// a slot of the shared arena, and are pooled instead of freed; the slot
// generation doubles as the shape's instance id.
type Shape struct {
	Transform geom.Transform

	// SaveIndex is the shape's position in the Registry. Only the Registry
	// writes it.
	SaveIndex int

	id         ecs.EntityID
	arena      *ecs.EntityPool
	factory    *Factory
	shapeID    int32
	materialID int32
	age        float32
	colors     []geom.Color
	behaviors  []Behavior
	active     bool
	log        *zap.Logger
}

func newShape(arena *ecs.EntityPool, colorSlots int, log *zap.Logger) *Shape {
	if colorSlots < 1 {
		colorSlots = 1
	}
	s := &Shape{
		Transform: geom.NewTransform(),
		id:        arena.Create(),
		arena:     arena,
		shapeID:   unsetID,
		colors:    make([]geom.Color, colorSlots),
		behaviors: make([]Behavior, 0, 4),
		log:       log,
	}
	for i := range s.colors {
		s.colors[i] = geom.White
	}
	return s
}

// ID returns the shape's current slot id.
func (s *Shape) ID() ecs.EntityID { return s.id }

// InstanceID counts how many times the shape's slot has been recycled.
func (s *Shape) InstanceID() int32 { return int32(s.id.Generation()) }

// Age is the time since the shape was spawned, in seconds.
func (s *Shape) Age() float32 { return s.age }

func (s *Shape) Active() bool { return s.active }

func (s *Shape) ShapeID() int32 { return s.shapeID }

// SetShapeID assigns the prefab id once. Later calls are logged and ignored.
func (s *Shape) SetShapeID(id int32) {
	if s.shapeID == unsetID && id != unsetID {
		s.shapeID = id
		return
	}
	s.log.Error("not allowed to change shape id",
		zap.Int32("shape_id", s.shapeID),
		zap.Int32("requested", id),
	)
}

func (s *Shape) OriginFactory() *Factory { return s.factory }

// SetOriginFactory assigns the owning factory once. Later calls are logged
// and ignored.
func (s *Shape) SetOriginFactory(f *Factory) {
	if s.factory == nil && f != nil {
		s.factory = f
		return
	}
	s.log.Error("not allowed to change origin factory",
		zap.String("factory", s.factory.Name()),
	)
}

func (s *Shape) MaterialID() int32 { return s.materialID }

func (s *Shape) SetMaterial(id int32) {
	s.materialID = id
}

func (s *Shape) ColorCount() int { return len(s.colors) }

func (s *Shape) Color(i int) geom.Color { return s.colors[i] }

// Colors returns a copy of every surface color.
func (s *Shape) Colors() []geom.Color {
	out := make([]geom.Color, len(s.colors))
	copy(out, s.colors)
	return out
}

// SetColor paints every surface.
func (s *Shape) SetColor(c geom.Color) {
	for i := range s.colors {
		s.colors[i] = c
	}
}

func (s *Shape) SetColorAt(c geom.Color, i int) {
	s.colors[i] = c
}

// Behaviors returns the attached behaviors in update order. The slice is
// owned by the shape.
func (s *Shape) Behaviors() []Behavior { return s.behaviors }

// IsMarkedAsDying reports whether the shape sits in the dying partition.
func (s *Shape) IsMarkedAsDying(ctx *Context) bool {
	return ctx.Pop.IsMarkedAsDying(s)
}

// Die asks the registry to kill the shape.
func (s *Shape) Die(ctx *Context) {
	ctx.Pop.Kill(s)
}

// MarkAsDying asks the registry to move the shape into the dying partition.
func (s *Shape) MarkAsDying(ctx *Context) {
	ctx.Pop.MarkAsDying(s)
}

// GameUpdate ages the shape and runs every behavior once. Finished behaviors
// are released and removed in place; the loop revisits the index so the
// behavior that shifted down is not skipped.
func (s *Shape) GameUpdate(ctx *Context) {
	s.age += ctx.DT
	for i := 0; i < len(s.behaviors); i++ {
		b := s.behaviors[i]
		if b.update(ctx, s) {
			continue
		}
		ctx.Behaviors().Put(b)
		s.behaviors = slices.Delete(s.behaviors, i, i+1)
		i--
	}
}

// Recycle bumps the instance id, releases every behavior, and hands the
// shape back to its factory.
func (s *Shape) Recycle(pools *BehaviorPools) {
	s.age = 0
	s.id = s.arena.Renew(s.id)
	for i, b := range s.behaviors {
		pools.Put(b)
		s.behaviors[i] = nil
	}
	s.behaviors = s.behaviors[:0]
	if s.factory == nil {
		s.active = false
		s.log.Error("recycled shape without origin factory", zap.Int32("shape_id", s.shapeID))
		return
	}
	s.factory.Reclaim(s)
}

// ResolveShapeInstances binds every decoded reference held by the shape's
// behaviors.
func (s *Shape) ResolveShapeInstances(reg *Registry) error {
	for _, b := range s.behaviors {
		if err := b.resolve(reg); err != nil {
			return fmt.Errorf("shape %d %s: %w", s.SaveIndex, b.Kind(), err)
		}
	}
	return nil
}

// Save writes the transform, colors, age, and tagged behavior list.
func (s *Shape) Save(w *storage.Writer) {
	w.WriteVec3(s.Transform.Position)
	w.WriteQuat(s.Transform.Rotation)
	w.WriteVec3(s.Transform.Scale)

	w.WriteInt(int32(len(s.colors)))
	for _, c := range s.colors {
		w.WriteColor(c)
	}

	w.WriteFloat(s.age)
	w.WriteInt(int32(len(s.behaviors)))
	for _, b := range s.behaviors {
		w.WriteInt(int32(b.Kind()))
		b.save(w)
	}
}

// Load reads a record written by any known schema version.
func (s *Shape) Load(r *storage.Reader, pools *BehaviorPools) error {
	v := r.Version()
	s.Transform.Position = r.ReadVec3()
	s.Transform.Rotation = r.ReadQuat()
	s.Transform.Scale = r.ReadVec3()

	switch {
	case v >= 5:
		s.loadColors(r)
	case v > 0:
		s.SetColor(r.ReadColor())
	default:
		s.SetColor(geom.White)
	}

	switch {
	case v >= 6:
		s.age = r.ReadFloat()
		count := int(r.ReadInt())
		for i := 0; i < count && r.Err() == nil; i++ {
			kind := BehaviorKind(r.ReadInt())
			if r.Err() != nil {
				break
			}
			if !kind.Valid() {
				return fmt.Errorf("%w: tag %d", ErrUnknownBehavior, int32(kind))
			}
			b := pools.Get(kind)
			s.behaviors = append(s.behaviors, b)
			b.load(r)
		}
	case v >= 4:
		Attach[*Rotation](pools, s).AngularVelocity = r.ReadVec3()
		Attach[*Movement](pools, s).Velocity = r.ReadVec3()
	}
	return r.Err()
}

// loadColors reads a count-prefixed color list. Extra stored colors are read
// and dropped; missing slots are painted white.
func (s *Shape) loadColors(r *storage.Reader) {
	count := int(r.ReadInt())
	if count < 0 {
		r.Fail(fmt.Errorf("negative color count %d", count))
		return
	}
	i := 0
	for ; i < count && i < len(s.colors); i++ {
		s.colors[i] = r.ReadColor()
	}
	for ; i < count && r.Err() == nil; i++ {
		r.ReadColor()
	}
	for j := count; j < len(s.colors); j++ {
		s.colors[j] = geom.White
	}
}
