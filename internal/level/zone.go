package level

import (
	"fmt"
	"math/rand/v2"

	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
	"github.com/l1jgo/shapesim/internal/world"
)

// Object is anything a level updates and persists alongside the shapes.
type Object interface {
	Name() string
	GameUpdate(ctx *world.Context) error
	Save(w *storage.Writer)
	Load(r *storage.Reader) error
}

// Zone is a level object that spawns configured shapes.
type Zone interface {
	Object
	SpawnPoint(rng *rand.Rand) (geom.Vec3, error)
	SpawnShapes(ctx *world.Context) error
}

// spawner is the state every zone kind shares: placement, automatic spawn
// rate, and the shape configuration.
type spawner struct {
	name      string
	Transform geom.Transform
	Speed     float32 // automatic spawns per second
	Config    SpawnConfig

	progress float32
}

func (z *spawner) Name() string { return z.name }

// Progress returns the fractional spawn accumulated toward the next shape.
func (z *spawner) Progress() float32 { return z.progress }

// advance accumulates spawn progress and spawns one shape per whole unit.
func (z *spawner) advance(ctx *world.Context, spawn func(*world.Context) error) error {
	z.progress += ctx.DT * z.Speed
	for z.progress >= 1 {
		z.progress--
		if err := spawn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (z *spawner) Save(w *storage.Writer) {
	w.WriteFloat(z.progress)
}

func (z *spawner) Load(r *storage.Reader) error {
	z.progress = r.ReadFloat()
	return r.Err()
}

// spawn builds one shape at a point, with its behaviors and satellites.
func (z *spawner) spawn(ctx *world.Context, point func(*rand.Rand) (geom.Vec3, error)) error {
	cfg := &z.Config
	if len(cfg.Factories) == 0 {
		return fmt.Errorf("zone %s: no factories configured", z.name)
	}
	pos, err := point(ctx.Rand)
	if err != nil {
		return fmt.Errorf("zone %s: %w", z.name, err)
	}

	s, err := ctx.Pop.SpawnRandom(cfg.Factories[ctx.Rand.IntN(len(cfg.Factories))], ctx.Rand)
	if err != nil {
		return err
	}
	s.Transform.Position = pos
	s.Transform.Rotation = geom.RandomRotation(ctx.Rand)
	s.Transform.Scale = geom.One.Scale(cfg.Scale.Random(ctx.Rand))
	z.setupColor(ctx, s)

	if angular := cfg.AngularSpeed.Random(ctx.Rand); angular != 0 {
		world.Attach[*world.Rotation](ctx.Behaviors(), s).AngularVelocity =
			geom.OnUnitSphere(ctx.Rand).Scale(angular)
	}
	if speed := cfg.Speed.Random(ctx.Rand); speed != 0 {
		world.Attach[*world.Movement](ctx.Behaviors(), s).Velocity =
			z.direction(ctx, cfg.MovementDirection, s).Scale(speed)
	}
	z.setupOscillation(ctx, s)

	durations := cfg.Lifecycle.Durations(ctx.Rand)
	satellites := cfg.Satellite.Amount.Random(ctx.Rand)
	for i := 0; i < satellites; i++ {
		d := durations
		if !cfg.Satellite.UniformLifecycles {
			d = cfg.Lifecycle.Durations(ctx.Rand)
		}
		if err := z.spawnSatellite(ctx, s, d); err != nil {
			return err
		}
	}
	z.setupLifecycle(ctx, s, durations)
	return nil
}

func (z *spawner) spawnSatellite(ctx *world.Context, focal *world.Shape, durations geom.Vec3) error {
	cfg := &z.Config
	s, err := ctx.Pop.SpawnRandom(cfg.Factories[ctx.Rand.IntN(len(cfg.Factories))], ctx.Rand)
	if err != nil {
		return err
	}
	s.Transform.Rotation = geom.RandomRotation(ctx.Rand)
	s.Transform.Scale = focal.Transform.Scale.Scale(cfg.Satellite.RelativeScale.Random(ctx.Rand))
	z.setupColor(ctx, s)

	world.Attach[*world.Satellite](ctx.Behaviors(), s).Initialize(ctx, s, focal,
		cfg.Satellite.OrbitRadius.Random(ctx.Rand),
		cfg.Satellite.OrbitFrequency.Random(ctx.Rand))

	z.setupLifecycle(ctx, s, durations)
	return nil
}

func (z *spawner) setupColor(ctx *world.Context, s *world.Shape) {
	if z.Config.UniformColor {
		s.SetColor(z.Config.Color.Random(ctx.Rand))
		return
	}
	for i := 0; i < s.ColorCount(); i++ {
		s.SetColorAt(z.Config.Color.Random(ctx.Rand), i)
	}
}

func (z *spawner) setupOscillation(ctx *world.Context, s *world.Shape) {
	amplitude := z.Config.OscillationAmplitude.Random(ctx.Rand)
	frequency := z.Config.OscillationFrequency.Random(ctx.Rand)
	if amplitude == 0 || frequency == 0 {
		return
	}
	osc := world.Attach[*world.Oscillation](ctx.Behaviors(), s)
	osc.Offset = z.direction(ctx, z.Config.OscillationDirection, s).Scale(amplitude)
	osc.Frequency = frequency
}

// setupLifecycle attaches the cheapest behavior that covers the sampled
// growing (X), adult (Y), and dying (Z) durations.
func (z *spawner) setupLifecycle(ctx *world.Context, s *world.Shape, d geom.Vec3) {
	pools := ctx.Behaviors()
	switch {
	case d.X > 0 && (d.Y > 0 || d.Z > 0):
		world.Attach[*world.Lifecycle](pools, s).Initialize(pools, s, d.X, d.Y, d.Z)
	case d.X > 0:
		world.Attach[*world.Growing](pools, s).Initialize(s, d.X)
	case d.Y > 0:
		world.Attach[*world.Lifecycle](pools, s).Initialize(pools, s, d.X, d.Y, d.Z)
	case d.Z > 0:
		world.Attach[*world.Dying](pools, s).Initialize(ctx, s, d.Z)
	}
}

func (z *spawner) direction(ctx *world.Context, dir Direction, s *world.Shape) geom.Vec3 {
	switch dir {
	case Upward:
		return z.Transform.Up()
	case Outward:
		return s.Transform.Position.Sub(z.Transform.Position).Normalized()
	case RandomDirection:
		return geom.OnUnitSphere(ctx.Rand)
	default:
		return z.Transform.Forward()
	}
}
