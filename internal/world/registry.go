package world

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/l1jgo/shapesim/internal/core/ecs"
)

// Registry is the authoritative, ordered list of live shapes.
//
// Shapes at index < DyingCount are exactly the ones marked as dying; the rest
// are active. Every shape's SaveIndex equals its position. Removal and marking
// are single swaps, so both partitions are maintained in O(1).
//
// While an update pass is running, Kill and MarkAsDying are queued and applied
// by Flush, FIFO, skipping requests whose shape was recycled in between.
type Registry struct {
	shapes     []*Shape
	dyingCount int
	inUpdate   bool
	killQueue  *ecs.Deferred[ShapeRef]
	dyingQueue *ecs.Deferred[ShapeRef]
	behaviors  *BehaviorPools
	log        *zap.Logger
}

func NewRegistry(behaviors *BehaviorPools, log *zap.Logger) *Registry {
	return &Registry{
		shapes:     make([]*Shape, 0, 256),
		killQueue:  ecs.NewDeferred[ShapeRef](64),
		dyingQueue: ecs.NewDeferred[ShapeRef](64),
		behaviors:  behaviors,
		log:        log,
	}
}

func (r *Registry) Behaviors() *BehaviorPools { return r.behaviors }

func (r *Registry) Count() int       { return len(r.shapes) }
func (r *Registry) DyingCount() int  { return r.dyingCount }
func (r *Registry) ActiveCount() int { return len(r.shapes) - r.dyingCount }

// Get returns the shape at a registry position.
func (r *Registry) Get(i int) *Shape { return r.shapes[i] }

// Each visits shapes in registry order. fn must not add or remove shapes.
func (r *Registry) Each(fn func(*Shape)) {
	for _, s := range r.shapes {
		fn(s)
	}
}

// Add appends a shape as the newest active entry.
func (r *Registry) Add(s *Shape) {
	s.SaveIndex = len(r.shapes)
	r.shapes = append(r.shapes, s)
}

// Spawn gets a shape from the factory and adds it.
func (r *Registry) Spawn(f *Factory, shapeID, materialID int32) (*Shape, error) {
	s, err := f.Get(shapeID, materialID)
	if err != nil {
		return nil, err
	}
	r.Add(s)
	return s, nil
}

// SpawnRandom gets a random prefab and material from the factory and adds it.
func (r *Registry) SpawnRandom(f *Factory, rng *rand.Rand) (*Shape, error) {
	s, err := f.GetRandom(rng)
	if err != nil {
		return nil, err
	}
	r.Add(s)
	return s, nil
}

// RandomActive picks a uniformly random shape outside the dying partition,
// or nil when there is none.
func (r *Registry) RandomActive(rng *rand.Rand) *Shape {
	if r.ActiveCount() <= 0 {
		return nil
	}
	return r.shapes[r.dyingCount+rng.IntN(r.ActiveCount())]
}

// BeginUpdate starts deferring structural requests.
func (r *Registry) BeginUpdate() { r.inUpdate = true }

// EndUpdate stops deferring. Queued requests wait for Flush.
func (r *Registry) EndUpdate() { r.inUpdate = false }

// UpdateShapes runs every shape once, in registry order. Shapes appended
// during the pass are updated in the same pass.
func (r *Registry) UpdateShapes(ctx *Context) {
	for i := 0; i < len(r.shapes); i++ {
		r.shapes[i].GameUpdate(ctx)
	}
}

// Pending returns the number of queued kill and dying requests.
func (r *Registry) Pending() int {
	return r.killQueue.Len() + r.dyingQueue.Len()
}

// Flush applies queued kills, then queued dying marks, each in request order.
// Requests against shapes recycled since they were queued are dropped.
func (r *Registry) Flush() {
	r.killQueue.Flush(func(ref ShapeRef) {
		if ref.IsValid() {
			r.killImmediately(ref.Shape())
		}
	})
	r.dyingQueue.Flush(func(ref ShapeRef) {
		if ref.IsValid() {
			r.markAsDyingImmediately(ref.Shape())
		}
	})
}

// Kill recycles the shape and removes it, or queues the request during an
// update pass.
func (r *Registry) Kill(s *Shape) {
	if r.inUpdate {
		r.killQueue.Push(RefTo(s))
		return
	}
	r.killImmediately(s)
}

func (r *Registry) owns(s *Shape) bool {
	i := s.SaveIndex
	return i >= 0 && i < len(r.shapes) && r.shapes[i] == s
}

func (r *Registry) killImmediately(s *Shape) {
	if !r.owns(s) {
		r.log.Error("kill of shape not in registry",
			zap.Int("save_index", s.SaveIndex),
			zap.Int32("instance_id", s.InstanceID()),
		)
		return
	}
	index := s.SaveIndex
	s.Recycle(r.behaviors)

	if index < r.dyingCount {
		r.dyingCount--
		if index < r.dyingCount {
			r.move(r.dyingCount, index)
			index = r.dyingCount
		}
	}

	last := len(r.shapes) - 1
	if index < last {
		r.move(last, index)
	}
	r.shapes[last] = nil
	r.shapes = r.shapes[:last]
}

// move places the shape at from into slot to.
func (r *Registry) move(from, to int) {
	s := r.shapes[from]
	s.SaveIndex = to
	r.shapes[to] = s
}

// IsMarkedAsDying reports whether the shape is in the dying partition.
func (r *Registry) IsMarkedAsDying(s *Shape) bool {
	return s.SaveIndex < r.dyingCount
}

// MarkAsDying moves the shape into the dying partition, or queues the
// request during an update pass. Marking twice is a no-op.
func (r *Registry) MarkAsDying(s *Shape) {
	if r.inUpdate {
		r.dyingQueue.Push(RefTo(s))
		return
	}
	r.markAsDyingImmediately(s)
}

func (r *Registry) markAsDyingImmediately(s *Shape) {
	if !r.owns(s) {
		r.log.Error("dying mark for shape not in registry", zap.Int("save_index", s.SaveIndex))
		return
	}
	index := s.SaveIndex
	if index < r.dyingCount {
		return
	}
	r.move(r.dyingCount, index)
	s.SaveIndex = r.dyingCount
	r.shapes[r.dyingCount] = s
	r.dyingCount++
}

// ResolveAll binds every decoded reference after a load. The first failure
// aborts the pass.
func (r *Registry) ResolveAll() error {
	for _, s := range r.shapes {
		if err := s.ResolveShapeInstances(r); err != nil {
			return fmt.Errorf("resolve references: %w", err)
		}
	}
	return nil
}

// Clear recycles every shape and drops queued requests.
func (r *Registry) Clear() {
	for i, s := range r.shapes {
		s.Recycle(r.behaviors)
		r.shapes[i] = nil
	}
	r.shapes = r.shapes[:0]
	r.dyingCount = 0
	r.killQueue.Reset()
	r.dyingQueue.Reset()
}
