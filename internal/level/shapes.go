package level

import (
	"math/rand/v2"

	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/world"
)

// SphereZone spawns inside, or on the surface of, a unit sphere placed by
// its transform.
type SphereZone struct {
	spawner
	SurfaceOnly bool
}

func (z *SphereZone) SpawnPoint(rng *rand.Rand) (geom.Vec3, error) {
	var p geom.Vec3
	if z.SurfaceOnly {
		p = geom.OnUnitSphere(rng)
	} else {
		p = geom.InsideUnitSphere(rng)
	}
	return z.Transform.TransformPoint(p), nil
}

func (z *SphereZone) SpawnShapes(ctx *world.Context) error {
	return z.spawn(ctx, z.SpawnPoint)
}

func (z *SphereZone) GameUpdate(ctx *world.Context) error {
	return z.advance(ctx, z.SpawnShapes)
}

// CubeZone spawns inside, or on the surface of, a unit cube placed by its
// transform.
type CubeZone struct {
	spawner
	SurfaceOnly bool
}

func (z *CubeZone) SpawnPoint(rng *rand.Rand) (geom.Vec3, error) {
	p := geom.Vec3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5}
	if z.SurfaceOnly {
		side := float32(0.5)
		if rng.IntN(2) == 0 {
			side = -0.5
		}
		switch rng.IntN(3) {
		case 0:
			p.X = side
		case 1:
			p.Y = side
		default:
			p.Z = side
		}
	}
	return z.Transform.TransformPoint(p), nil
}

func (z *CubeZone) SpawnShapes(ctx *world.Context) error {
	return z.spawn(ctx, z.SpawnPoint)
}

func (z *CubeZone) GameUpdate(ctx *world.Context) error {
	return z.advance(ctx, z.SpawnShapes)
}
