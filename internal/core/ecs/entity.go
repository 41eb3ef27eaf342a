package ecs

// EntityID encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. The generation increments every time the slot is recycled
// or destroyed, which invalidates every id captured before that point.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// EntityPool is the slot arena: generational indices plus a free list of
// destroyed slots. It never shrinks.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

// Create hands out a destroyed slot if one is free, otherwise a new one.
func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Generation returns the live generation of a slot, or false when the slot
// was never allocated.
func (p *EntityPool) Generation(index uint32) (uint32, bool) {
	if index >= p.nextIndex {
		return 0, false
	}
	return p.generations[index], true
}

// Renew bumps the generation of a live slot without releasing it. Pooled
// objects keep their slot across reuse; stale ids stop matching.
func (p *EntityPool) Renew(id EntityID) EntityID {
	if !p.Alive(id) {
		return id
	}
	idx := id.Index()
	p.generations[idx]++
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already destroyed (stale reference)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

// Len returns the number of slots ever allocated.
func (p *EntityPool) Len() int {
	return int(p.nextIndex)
}

// Free returns the number of destroyed slots waiting for reuse.
func (p *EntityPool) Free() int {
	return len(p.freeList)
}
