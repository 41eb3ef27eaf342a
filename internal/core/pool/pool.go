// Package pool provides a free-list recycler for values that are expensive to
// churn through the allocator.
package pool

// Pool hands out recycled values before constructing new ones. It grows
// without bound under sustained demand and never shrinks.
type Pool[T any] struct {
	free  []T
	newFn func() T
	reset func(T)
}

// New creates a pool. reset may be nil; when set it runs on every Put.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		free:  make([]T, 0, 16),
		newFn: newFn,
		reset: reset,
	}
}

// Get pops the most recently recycled value, or constructs a new one.
func (p *Pool[T]) Get() T {
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		return v
	}
	return p.newFn()
}

// Put resets v and returns it to the free list.
func (p *Pool[T]) Put(v T) {
	if p.reset != nil {
		p.reset(v)
	}
	p.free = append(p.free, v)
}

// Len returns the number of values waiting for reuse.
func (p *Pool[T]) Len() int {
	return len(p.free)
}
