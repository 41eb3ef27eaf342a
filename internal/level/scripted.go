package level

import (
	"math/rand/v2"

	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/world"
)

// PointScripts evaluates named spawn-point functions.
type PointScripts interface {
	SpawnPoint(fn string, rng *rand.Rand) (geom.Vec3, error)
}

// ScriptedZone asks a script for a local spawn point and places it with the
// zone's transform.
type ScriptedZone struct {
	spawner
	Script  string
	scripts PointScripts
}

func (z *ScriptedZone) SpawnPoint(rng *rand.Rand) (geom.Vec3, error) {
	p, err := z.scripts.SpawnPoint(z.Script, rng)
	if err != nil {
		return geom.Zero, err
	}
	return z.Transform.TransformPoint(p), nil
}

func (z *ScriptedZone) SpawnShapes(ctx *world.Context) error {
	return z.spawn(ctx, z.SpawnPoint)
}

func (z *ScriptedZone) GameUpdate(ctx *world.Context) error {
	return z.advance(ctx, z.SpawnShapes)
}
