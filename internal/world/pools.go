package world

import "github.com/l1jgo/shapesim/internal/core/pool"

// BehaviorPools keeps one free list per behavior kind.
type BehaviorPools struct {
	pools [kindCount]*pool.Pool[Behavior]
}

func NewBehaviorPools() *BehaviorPools {
	p := &BehaviorPools{}
	for k := BehaviorKind(0); k < kindCount; k++ {
		kind := k
		p.pools[k] = pool.New(
			func() Behavior { return newBehavior(kind) },
			func(b Behavior) { b.reset() },
		)
	}
	return p
}

// Get returns a recycled instance of kind, or a fresh default one.
func (p *BehaviorPools) Get(kind BehaviorKind) Behavior {
	return p.pools[kind].Get()
}

// Put resets b and returns it to the pool of its kind.
func (p *BehaviorPools) Put(b Behavior) {
	p.pools[b.Kind()].Put(b)
}

// Free returns the number of pooled instances of kind.
func (p *BehaviorPools) Free(kind BehaviorKind) int {
	return p.pools[kind].Len()
}
