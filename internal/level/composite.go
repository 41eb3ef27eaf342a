package level

import (
	"fmt"
	"math/rand/v2"

	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/storage"
	"github.com/l1jgo/shapesim/internal/world"
)

// CompositeZone delegates to child zones, in turn or at random. With
// OverrideConfig it spawns with its own configuration at a child's point;
// otherwise the chosen child spawns with its own configuration.
type CompositeZone struct {
	spawner
	Children       []Zone
	Sequential     bool
	OverrideConfig bool

	next int
}

// Next returns the child the next sequential spawn uses.
func (z *CompositeZone) Next() int { return z.next }

func (z *CompositeZone) pick(rng *rand.Rand) Zone {
	if !z.Sequential {
		return z.Children[rng.IntN(len(z.Children))]
	}
	i := z.next
	z.next++
	if z.next >= len(z.Children) {
		z.next = 0
	}
	return z.Children[i]
}

func (z *CompositeZone) SpawnPoint(rng *rand.Rand) (geom.Vec3, error) {
	if len(z.Children) == 0 {
		return geom.Zero, fmt.Errorf("composite zone %s has no children", z.name)
	}
	return z.pick(rng).SpawnPoint(rng)
}

func (z *CompositeZone) SpawnShapes(ctx *world.Context) error {
	if z.OverrideConfig {
		return z.spawn(ctx, z.SpawnPoint)
	}
	if len(z.Children) == 0 {
		return fmt.Errorf("composite zone %s has no children", z.name)
	}
	return z.pick(ctx.Rand).SpawnShapes(ctx)
}

func (z *CompositeZone) GameUpdate(ctx *world.Context) error {
	return z.advance(ctx, z.SpawnShapes)
}

func (z *CompositeZone) Save(w *storage.Writer) {
	z.spawner.Save(w)
	w.WriteInt(int32(z.next))
}

// Load reads the spawn progress and, from version 7, the sequencing index.
// Older saves leave the index at zero.
func (z *CompositeZone) Load(r *storage.Reader) error {
	if err := z.spawner.Load(r); err != nil {
		return err
	}
	z.next = 0
	if r.Version() < 7 {
		return nil
	}
	next := int(r.ReadInt())
	if err := r.Err(); err != nil {
		return err
	}
	if next < 0 || next >= len(z.Children) {
		return fmt.Errorf("composite zone %s: sequence index %d out of range [0,%d)", z.name, next, len(z.Children))
	}
	z.next = next
	return nil
}
