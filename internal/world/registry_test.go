package world

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/shapesim/internal/core/ecs"
)

type fixture struct {
	arena   *ecs.EntityPool
	pools   *BehaviorPools
	reg     *Registry
	factory *Factory
	ctx     *Context
}

func newFixture(t *testing.T, recycle bool) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	arena := ecs.NewEntityPool()
	pools := NewBehaviorPools()
	reg := NewRegistry(pools, log)
	f := NewFactory("test",
		[]Prefab{{Name: "cube", ColorSlots: 1}, {Name: "composite", ColorSlots: 3}},
		[]string{"standard", "shiny"},
		recycle, arena, log)
	f.SetID(0)
	return &fixture{
		arena:   arena,
		pools:   pools,
		reg:     reg,
		factory: f,
		ctx:     &Context{DT: 0.1, Rand: rand.New(rand.NewPCG(1, 2)), Pop: reg},
	}
}

func (fx *fixture) spawn(t *testing.T, n int) []*Shape {
	t.Helper()
	out := make([]*Shape, n)
	for i := range out {
		s, err := fx.reg.Spawn(fx.factory, 0, 0)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func assertConsistent(t *testing.T, reg *Registry) {
	t.Helper()
	require.LessOrEqual(t, reg.DyingCount(), reg.Count())
	for i := 0; i < reg.Count(); i++ {
		s := reg.Get(i)
		require.Equal(t, i, s.SaveIndex, "save index at %d", i)
		require.Equal(t, i < reg.DyingCount(), reg.IsMarkedAsDying(s), "dying flag at %d", i)
		require.True(t, s.Active())
	}
}

func TestRegistryKillSwapsLast(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 5)

	fx.reg.Kill(s[1])

	assert.Equal(t, 4, fx.reg.Count())
	assert.Same(t, s[4], fx.reg.Get(1))
	assert.False(t, s[1].Active())
	assert.Equal(t, -1, s[1].SaveIndex)
	assertConsistent(t, fx.reg)
}

func TestRegistryKillLast(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 3)

	fx.reg.Kill(s[2])

	assert.Equal(t, []*Shape{s[0], s[1]}, []*Shape{fx.reg.Get(0), fx.reg.Get(1)})
	assertConsistent(t, fx.reg)
}

func TestRegistryMarkAsDying(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 5)

	fx.reg.MarkAsDying(s[3])
	assert.Equal(t, 1, fx.reg.DyingCount())
	assert.Same(t, s[3], fx.reg.Get(0))
	assert.Same(t, s[0], fx.reg.Get(3))

	fx.reg.MarkAsDying(s[3])
	assert.Equal(t, 1, fx.reg.DyingCount(), "marking twice is a no-op")
	assertConsistent(t, fx.reg)
}

func TestRegistryKillDyingKeepsPartition(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 5) // A B C D E
	a, b, c, d, e := s[0], s[1], s[2], s[3], s[4]

	fx.reg.MarkAsDying(c) // C B A D E
	fx.reg.MarkAsDying(e) // C E A D B
	require.Equal(t, 2, fx.reg.DyingCount())

	fx.reg.Kill(c)

	require.Equal(t, 4, fx.reg.Count())
	assert.Equal(t, 1, fx.reg.DyingCount())
	got := []*Shape{fx.reg.Get(0), fx.reg.Get(1), fx.reg.Get(2), fx.reg.Get(3)}
	assert.Equal(t, []*Shape{e, b, a, d}, got)
	assertConsistent(t, fx.reg)
}

func TestRegistryDefersDuringUpdate(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 4)

	fx.reg.BeginUpdate()
	fx.reg.Kill(s[0])
	fx.reg.Kill(s[0])
	fx.reg.MarkAsDying(s[2])
	fx.reg.MarkAsDying(s[0])
	fx.reg.EndUpdate()

	assert.Equal(t, 4, fx.reg.Count(), "nothing applied before flush")
	assert.Equal(t, 0, fx.reg.DyingCount())
	assert.Equal(t, 4, fx.reg.Pending())

	fx.reg.Flush()

	assert.Equal(t, 3, fx.reg.Count(), "second kill of the same incarnation is dropped")
	assert.Equal(t, 1, fx.reg.DyingCount(), "mark of a killed shape is dropped")
	assert.Same(t, s[2], fx.reg.Get(0))
	assert.Zero(t, fx.reg.Pending())
	assertConsistent(t, fx.reg)
}

func TestRegistryRandomOperationsKeepInvariants(t *testing.T) {
	fx := newFixture(t, true)
	rng := rand.New(rand.NewPCG(7, 11))
	live := map[*Shape]bool{}
	dying := map[*Shape]bool{}

	for step := 0; step < 2000; step++ {
		switch op := rng.IntN(10); {
		case op < 4 || fx.reg.Count() == 0:
			sh, err := fx.reg.SpawnRandom(fx.factory, rng)
			require.NoError(t, err)
			live[sh] = true
		case op < 7:
			sh := fx.reg.Get(rng.IntN(fx.reg.Count()))
			fx.reg.Kill(sh)
			delete(live, sh)
			delete(dying, sh)
		default:
			sh := fx.reg.Get(rng.IntN(fx.reg.Count()))
			fx.reg.MarkAsDying(sh)
			dying[sh] = true
		}

		require.Equal(t, len(live), fx.reg.Count())
		require.Equal(t, len(dying), fx.reg.DyingCount())
		assertConsistent(t, fx.reg)
	}
}

func TestRegistryRandomActiveSkipsDying(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 3)
	fx.reg.MarkAsDying(s[0])
	fx.reg.MarkAsDying(s[1])

	for i := 0; i < 20; i++ {
		assert.Same(t, s[2], fx.reg.RandomActive(fx.ctx.Rand))
	}
	fx.reg.MarkAsDying(s[2])
	assert.Nil(t, fx.reg.RandomActive(fx.ctx.Rand))
}

func TestRegistryClearRecyclesEverything(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 3)
	fx.reg.MarkAsDying(s[1])
	fx.reg.BeginUpdate()
	fx.reg.Kill(s[0])
	fx.reg.EndUpdate()

	fx.reg.Clear()

	assert.Zero(t, fx.reg.Count())
	assert.Zero(t, fx.reg.DyingCount())
	assert.Zero(t, fx.reg.Pending())
	assert.Equal(t, 3, fx.factory.Pooled(0))
}

func TestRefInvalidAfterRecycle(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 1)[0]
	ref := RefTo(s)
	require.True(t, ref.IsValid())

	fx.reg.Kill(s)
	assert.False(t, ref.IsValid())

	again, err := fx.reg.Spawn(fx.factory, 0, 1)
	require.NoError(t, err)
	assert.Same(t, s, again, "pooled shape is reused")
	assert.False(t, ref.IsValid(), "reuse does not revive old references")
	assert.True(t, RefTo(again).IsValid())
	assert.NotEqual(t, ref.id, again.ID())
}

func TestRefInvalidAfterDestroy(t *testing.T) {
	fx := newFixture(t, false)
	s := fx.spawn(t, 2)
	ref := RefTo(s[0])

	fx.reg.Kill(s[0])

	assert.False(t, ref.IsValid())
	assert.Equal(t, 1, fx.arena.Free())
	assert.Zero(t, fx.factory.Pooled(0))
}

func TestRefResolve(t *testing.T) {
	fx := newFixture(t, true)
	s := fx.spawn(t, 3)

	ref := ShapeRef{pending: 2}
	require.NoError(t, ref.Resolve(fx.reg))
	assert.True(t, ref.IsValid())
	assert.Same(t, s[2], ref.Shape())
	assert.Equal(t, int32(-1), ref.Pending())

	missing := ShapeRef{pending: 5}
	assert.ErrorIs(t, missing.Resolve(fx.reg), ErrUnresolvedRef)

	none := NoRef()
	require.NoError(t, none.Resolve(fx.reg))
	assert.False(t, none.IsValid())
}
