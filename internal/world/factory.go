package world

import (
	"fmt"
	"math/rand/v2"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/ecs"
)

// Prefab describes one shape kind a factory can build.
type Prefab struct {
	Name       string
	ColorSlots int
}

// Factory builds shapes from its prefabs and materials. A recycling factory
// keeps reclaimed shapes in per-prefab pools; otherwise reclaimed shapes are
// dropped and their arena slot freed.
type Factory struct {
	id        int
	name      string
	prefabs   []Prefab
	materials []string
	recycle   bool
	arena     *ecs.EntityPool
	pools     *intmap.Map[int32, []*Shape]
	log       *zap.Logger
}

func NewFactory(name string, prefabs []Prefab, materials []string, recycle bool, arena *ecs.EntityPool, log *zap.Logger) *Factory {
	return &Factory{
		id:        unsetID,
		name:      name,
		prefabs:   prefabs,
		materials: materials,
		recycle:   recycle,
		arena:     arena,
		log:       log.With(zap.String("factory", name)),
	}
}

// Name is safe to call on a nil factory.
func (f *Factory) Name() string {
	if f == nil {
		return "<nil>"
	}
	return f.name
}

// ID returns the index the factory is saved under.
func (f *Factory) ID() int { return f.id }

// SetID assigns the save index once. Later calls are logged and ignored.
func (f *Factory) SetID(id int) {
	if f.id == unsetID && id != unsetID {
		f.id = id
		return
	}
	f.log.Error("not allowed to change factory id", zap.Int("factory_id", f.id), zap.Int("requested", id))
}

func (f *Factory) PrefabCount() int   { return len(f.prefabs) }
func (f *Factory) MaterialCount() int { return len(f.materials) }
func (f *Factory) Recycles() bool     { return f.recycle }

// Pooled returns the number of inactive shapes waiting in the pool of a prefab.
func (f *Factory) Pooled(shapeID int32) int {
	if f.pools == nil {
		return 0
	}
	pool, _ := f.pools.Get(shapeID)
	return len(pool)
}

func (f *Factory) createPools() {
	f.pools = intmap.New[int32, []*Shape](len(f.prefabs))
	for i := range f.prefabs {
		f.pools.Put(int32(i), nil)
	}
}

// Get returns an active shape of the given prefab and material, reusing a
// pooled one when possible.
func (f *Factory) Get(shapeID, materialID int32) (*Shape, error) {
	if shapeID < 0 || int(shapeID) >= len(f.prefabs) {
		return nil, fmt.Errorf("factory %s: shape id %d out of range [0,%d)", f.name, shapeID, len(f.prefabs))
	}
	if materialID < 0 || int(materialID) >= len(f.materials) {
		return nil, fmt.Errorf("factory %s: material id %d out of range [0,%d)", f.name, materialID, len(f.materials))
	}

	var s *Shape
	if f.recycle {
		if f.pools == nil {
			f.createPools()
		}
		pool, _ := f.pools.Get(shapeID)
		if last := len(pool) - 1; last >= 0 {
			s = pool[last]
			pool[last] = nil
			f.pools.Put(shapeID, pool[:last])
		}
	}
	if s == nil {
		s = f.build(shapeID)
	}
	s.active = true
	s.SetMaterial(materialID)
	return s, nil
}

// GetRandom picks a prefab and material uniformly.
func (f *Factory) GetRandom(rng *rand.Rand) (*Shape, error) {
	return f.Get(int32(rng.IntN(len(f.prefabs))), int32(rng.IntN(len(f.materials))))
}

func (f *Factory) build(shapeID int32) *Shape {
	s := newShape(f.arena, f.prefabs[shapeID].ColorSlots, f.log)
	s.SetOriginFactory(f)
	s.SetShapeID(shapeID)
	return s
}

// Reclaim takes back a shape that was recycled. Shapes from another factory
// are logged and left alone.
func (f *Factory) Reclaim(s *Shape) {
	if s.factory != f {
		f.log.Error("tried to reclaim shape with wrong factory",
			zap.String("origin", s.factory.Name()),
			zap.Int32("shape_id", s.shapeID),
		)
		return
	}
	s.active = false
	s.SaveIndex = -1
	if !f.recycle {
		f.arena.Destroy(s.id)
		return
	}
	if f.pools == nil {
		f.createPools()
	}
	pool, _ := f.pools.Get(s.shapeID)
	f.pools.Put(s.shapeID, append(pool, s))
}

// Prewarm fills the pool of a prefab with n inactive shapes, the way a
// snapshot of an earlier session would.
func (f *Factory) Prewarm(shapeID int32, n int) error {
	if !f.recycle {
		return fmt.Errorf("factory %s does not recycle", f.name)
	}
	if shapeID < 0 || int(shapeID) >= len(f.prefabs) {
		return fmt.Errorf("factory %s: shape id %d out of range", f.name, shapeID)
	}
	if f.pools == nil {
		f.createPools()
	}
	pool, _ := f.pools.Get(shapeID)
	for i := 0; i < n; i++ {
		pool = append(pool, f.build(shapeID))
	}
	f.pools.Put(shapeID, pool)
	return nil
}
