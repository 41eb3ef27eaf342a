package level

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/shapesim/internal/core/ecs"
	"github.com/l1jgo/shapesim/internal/data"
	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
	"github.com/l1jgo/shapesim/internal/world"
)

type env struct {
	factory *world.Factory
	reg     *world.Registry
	ctx     *world.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zaptest.NewLogger(t)
	f := world.NewFactory("shapes",
		[]world.Prefab{{Name: "cube", ColorSlots: 1}, {Name: "composite", ColorSlots: 3}},
		[]string{"standard"}, true, ecs.NewEntityPool(), log)
	f.SetID(0)
	reg := world.NewRegistry(world.NewBehaviorPools(), log)
	return &env{
		factory: f,
		reg:     reg,
		ctx:     &world.Context{DT: 0.02, Rand: rand.New(rand.NewPCG(5, 6)), Pop: reg},
	}
}

func kinds(s *world.Shape) []world.BehaviorKind {
	var out []world.BehaviorKind
	for _, b := range s.Behaviors() {
		out = append(out, b.Kind())
	}
	return out
}

func fixed(v float32) FloatRange { return FloatRange{v, v} }

func TestSpawnShapesFullConfig(t *testing.T) {
	e := newEnv(t)
	z := &SphereZone{spawner: spawner{
		name:      "main",
		Transform: geom.NewTransform(),
		Config: SpawnConfig{
			Factories:            []*world.Factory{e.factory},
			Speed:                fixed(2),
			AngularSpeed:         fixed(90),
			Scale:                fixed(1.5),
			Color:                ColorRangeHSV{Value: fixed(1), Alpha: fixed(1)},
			OscillationAmplitude: fixed(1),
			OscillationFrequency: fixed(0.5),
			Satellite: SatelliteConfig{
				Amount:            IntRange{2, 2},
				RelativeScale:     fixed(0.5),
				OrbitRadius:       fixed(3),
				OrbitFrequency:    fixed(1),
				UniformLifecycles: true,
			},
			Lifecycle: LifecycleConfig{Growing: fixed(1), Adult: fixed(2), Dying: fixed(1)},
		},
	}}

	require.NoError(t, z.SpawnShapes(e.ctx))
	require.Equal(t, 3, e.reg.Count())

	focal := e.reg.Get(0)
	assert.LessOrEqual(t, focal.Transform.Position.Magnitude(), float32(1.0001))
	assert.Equal(t, []world.BehaviorKind{
		world.KindRotation, world.KindMovement, world.KindOscillation,
		world.KindLifecycle, world.KindGrowing,
	}, kinds(focal))
	assert.Equal(t, geom.Zero, focal.Transform.Scale, "growing starts from zero")

	for i := 1; i < 3; i++ {
		sat := e.reg.Get(i)
		assert.Equal(t, []world.BehaviorKind{
			world.KindSatellite, world.KindRotation, world.KindLifecycle, world.KindGrowing,
		}, kinds(sat))
		orbit := sat.Behaviors()[0].(*world.Satellite)
		assert.Same(t, focal, orbit.Focal().Shape())
	}
}

func TestSetupLifecycleVariants(t *testing.T) {
	cases := []struct {
		name string
		d    geom.Vec3
		want []world.BehaviorKind
	}{
		{"none", geom.Vec3{}, nil},
		{"grow only", geom.Vec3{X: 1}, []world.BehaviorKind{world.KindGrowing}},
		{"grow and die", geom.Vec3{X: 1, Z: 1}, []world.BehaviorKind{world.KindLifecycle, world.KindGrowing}},
		{"adult only", geom.Vec3{Y: 1}, []world.BehaviorKind{world.KindLifecycle}},
		{"die only", geom.Vec3{Z: 1}, []world.BehaviorKind{world.KindDying}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			s, err := e.reg.Spawn(e.factory, 0, 0)
			require.NoError(t, err)
			z := &spawner{}
			z.setupLifecycle(e.ctx, s, tc.d)
			assert.Equal(t, tc.want, kinds(s))
		})
	}
}

func TestDyingOnlyMarksImmediately(t *testing.T) {
	e := newEnv(t)
	s, err := e.reg.Spawn(e.factory, 0, 0)
	require.NoError(t, err)
	(&spawner{}).setupLifecycle(e.ctx, s, geom.Vec3{Z: 1})
	assert.Equal(t, 1, e.reg.DyingCount())
}

func TestUniformColor(t *testing.T) {
	e := newEnv(t)
	z := &CubeZone{spawner: spawner{
		Transform: geom.NewTransform(),
		Config: SpawnConfig{
			Factories:    []*world.Factory{e.factory},
			Scale:        fixed(1),
			Color:        ColorRangeHSV{Hue: FloatRange{0, 1}, Saturation: fixed(1), Value: fixed(1), Alpha: fixed(1)},
			UniformColor: true,
		},
	}}
	for i := 0; i < 10; i++ {
		require.NoError(t, z.SpawnShapes(e.ctx))
	}
	e.reg.Each(func(s *world.Shape) {
		for _, c := range s.Colors() {
			assert.Equal(t, s.Color(0), c)
		}
	})
}

func TestCubeSurfacePoints(t *testing.T) {
	z := &CubeZone{spawner: spawner{Transform: geom.NewTransform()}, SurfaceOnly: true}
	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 50; i++ {
		p, err := z.SpawnPoint(rng)
		require.NoError(t, err)
		onFace := abs(p.X) == 0.5 || abs(p.Y) == 0.5 || abs(p.Z) == 0.5
		assert.True(t, onFace, "%+v", p)
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestZoneGameUpdateAccumulates(t *testing.T) {
	e := newEnv(t)
	z := &SphereZone{spawner: spawner{
		Transform: geom.NewTransform(),
		Speed:     2,
		Config:    SpawnConfig{Factories: []*world.Factory{e.factory}, Scale: fixed(1)},
	}}
	e.ctx.DT = 1.25
	require.NoError(t, z.GameUpdate(e.ctx))
	assert.Equal(t, 2, e.reg.Count())
	assert.InDelta(t, 0.5, z.Progress(), 1e-6)
}

func TestZoneWithoutFactories(t *testing.T) {
	e := newEnv(t)
	z := &SphereZone{spawner: spawner{name: "empty", Transform: geom.NewTransform()}}
	assert.Error(t, z.SpawnShapes(e.ctx))
}

func compositeOf(n int, sequential bool) *CompositeZone {
	children := make([]Zone, n)
	for i := range children {
		c := &SphereZone{spawner: spawner{Transform: geom.NewTransform()}, SurfaceOnly: true}
		c.Transform.Position = geom.Vec3{X: float32(10 * i)}
		c.Transform.Scale = geom.Zero
		children[i] = c
	}
	return &CompositeZone{spawner: spawner{Transform: geom.NewTransform()}, Children: children, Sequential: sequential}
}

func TestCompositeSequential(t *testing.T) {
	z := compositeOf(3, true)
	rng := rand.New(rand.NewPCG(1, 2))
	var xs []float32
	for i := 0; i < 4; i++ {
		p, err := z.SpawnPoint(rng)
		require.NoError(t, err)
		xs = append(xs, p.X)
	}
	assert.Equal(t, []float32{0, 10, 20, 0}, xs)
	assert.Equal(t, 1, z.Next())
}

func TestCompositeSaveLoad(t *testing.T) {
	src := compositeOf(3, true)
	src.progress = 0.25
	src.next = 2

	w := storage.NewWriter(7)
	src.Save(w)

	dst := compositeOf(3, true)
	require.NoError(t, dst.Load(storage.NewReader(w.Bytes())))
	assert.Equal(t, float32(0.25), dst.Progress())
	assert.Equal(t, 2, dst.Next())
}

func TestCompositeLoadVersion6(t *testing.T) {
	w := storage.NewWriter(6)
	w.WriteFloat(0.75)
	w.WriteInt(123) // belongs to whatever follows

	z := compositeOf(3, true)
	z.next = 2
	r := storage.NewReader(w.Bytes())
	require.NoError(t, z.Load(r))
	assert.Equal(t, float32(0.75), z.Progress())
	assert.Zero(t, z.Next(), "sequencing index keeps its default")
	assert.Equal(t, int32(123), r.ReadInt())
}

func TestCompositeLoadIndexOutOfRange(t *testing.T) {
	w := storage.NewWriter(7)
	w.WriteFloat(0)
	w.WriteInt(5)
	assert.Error(t, compositeOf(2, true).Load(storage.NewReader(w.Bytes())))
}

func TestLevelSaveLoad(t *testing.T) {
	a := compositeOf(2, true)
	a.name = "a"
	a.next = 1
	b := &SphereZone{spawner: spawner{name: "b", progress: 0.5}}
	src := New(1, "one", 10, a, []Object{a, b})

	w := storage.NewWriter(7)
	src.Save(w)

	a2 := compositeOf(2, true)
	b2 := &SphereZone{spawner: spawner{name: "b"}}
	dst := New(1, "one", 10, a2, []Object{a2, b2})
	require.NoError(t, dst.Load(storage.NewReader(w.Bytes())))
	assert.Equal(t, 1, a2.Next())
	assert.Equal(t, float32(0.5), b2.Progress())

	short := New(1, "one", 10, a2, []Object{a2})
	assert.Error(t, short.Load(storage.NewReader(w.Bytes())), "more saved objects than present")
}

type fakeScripts struct{ p geom.Vec3 }

func (f fakeScripts) SpawnPoint(string, *rand.Rand) (geom.Vec3, error) { return f.p, nil }

func TestScriptedZone(t *testing.T) {
	z := &ScriptedZone{
		spawner: spawner{Transform: geom.NewTransform()},
		Script:  "ring",
		scripts: fakeScripts{p: geom.Vec3{X: 1}},
	}
	z.Transform.Position = geom.Vec3{Y: 2}
	p, err := z.SpawnPoint(rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, geom.Vec3{X: 1, Y: 2}, p)
}

const levelYAML = `
name: Test
population_limit: 5
spawn_zone: main
objects:
  - name: main
    kind: sphere
    config:
      factories: [shapes]
  - name: ring
    kind: scripted
    script: ring
`

func TestFileLoader(t *testing.T) {
	e := newEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level_1.yaml"), []byte(levelYAML), 0o644))

	b := &Builder{Factories: map[string]*world.Factory{"shapes": e.factory}, Scripts: fakeScripts{}}
	l := NewFileLoader(dir, b, zaptest.NewLogger(t))

	res := <-l.Load(1)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Level.Index)
	assert.Equal(t, 5, res.Level.PopulationLimit)
	assert.Len(t, res.Level.Objects(), 2)
	assert.Equal(t, "main", res.Level.SpawnZone().Name())

	require.NoError(t, res.Level.SpawnShapes(e.ctx))
	assert.Equal(t, 1, e.reg.Count())

	assert.NoError(t, <-l.Unload(1))
	assert.Error(t, <-l.Unload(1))

	res = <-l.Load(2)
	assert.Error(t, res.Err)
}

func TestBuilderUnknownFactory(t *testing.T) {
	def := &data.LevelDef{
		SpawnZone: "main",
		Objects:   []data.ZoneDef{{Name: "main", Kind: "sphere", Config: data.SpawnConfigDef{Factories: []string{"nope"}}}},
	}
	_, err := (&Builder{}).Build(1, def)
	assert.Error(t, err)
}
