package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPoolCreateDestroyReuse(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Create()
	assert.Equal(t, uint32(0), a.Index())
	assert.Equal(t, uint32(1), b.Index())
	assert.True(t, p.Alive(a))

	p.Destroy(a)
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Free())

	c := p.Create()
	assert.Equal(t, a.Index(), c.Index(), "destroyed slot is reused")
	assert.Equal(t, a.Generation()+1, c.Generation())
	assert.False(t, p.Alive(a))
	assert.True(t, p.Alive(c))
	assert.Equal(t, 2, p.Len())
}

func TestEntityPoolDestroyStaleIsNoop(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	p.Destroy(a)
	p.Destroy(a)
	assert.Equal(t, 1, p.Free())

	p.Destroy(NewEntityID(99, 0))
	assert.Equal(t, 1, p.Free())
}

func TestEntityPoolRenew(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Renew(a)

	assert.Equal(t, a.Index(), b.Index())
	assert.False(t, p.Alive(a))
	assert.True(t, p.Alive(b))
	assert.Zero(t, p.Free(), "renew keeps the slot")

	gen, ok := p.Generation(a.Index())
	require.True(t, ok)
	assert.Equal(t, b.Generation(), gen)

	assert.Equal(t, a, p.Renew(a), "stale ids are returned unchanged")

	_, ok = p.Generation(5)
	assert.False(t, ok)
}
