package level

import (
	"fmt"

	"github.com/l1jgo/shapesim/internal/data"
	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/world"
)

// Builder turns level definitions into levels bound to the running
// factories and scripts.
type Builder struct {
	Factories map[string]*world.Factory
	Scripts   PointScripts
}

func (b *Builder) Build(index int, def *data.LevelDef) (*Level, error) {
	objects := make([]Object, 0, len(def.Objects))
	var spawnZone Zone
	for i := range def.Objects {
		z, err := b.zone(&def.Objects[i])
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", index, err)
		}
		objects = append(objects, z)
		if z.Name() == def.SpawnZone {
			spawnZone = z
		}
	}
	if spawnZone == nil {
		return nil, fmt.Errorf("level %d: spawn zone %q not found", index, def.SpawnZone)
	}
	return New(index, def.Name, def.PopulationLimit, spawnZone, objects), nil
}

func (b *Builder) zone(d *data.ZoneDef) (Zone, error) {
	cfg, err := newSpawnConfig(d.Config, b.Factories)
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", d.Name, err)
	}
	base := spawner{
		name:      d.Name,
		Transform: geom.NewTransform(),
		Speed:     d.SpawnSpeed,
		Config:    cfg,
	}
	base.Transform.Position = vec3(d.Position)
	base.Transform.Rotation = geom.Euler(vec3(d.Rotation))
	if d.Scale != nil {
		base.Transform.Scale = vec3(*d.Scale)
	}

	switch d.Kind {
	case "sphere":
		return &SphereZone{spawner: base, SurfaceOnly: d.SurfaceOnly}, nil
	case "cube":
		return &CubeZone{spawner: base, SurfaceOnly: d.SurfaceOnly}, nil
	case "scripted":
		if b.Scripts == nil {
			return nil, fmt.Errorf("zone %s: no script engine for %s", d.Name, d.Script)
		}
		return &ScriptedZone{spawner: base, Script: d.Script, scripts: b.Scripts}, nil
	case "composite":
		children := make([]Zone, 0, len(d.Children))
		for i := range d.Children {
			c, err := b.zone(&d.Children[i])
			if err != nil {
				return nil, fmt.Errorf("zone %s: %w", d.Name, err)
			}
			children = append(children, c)
		}
		return &CompositeZone{
			spawner:        base,
			Children:       children,
			Sequential:     d.Sequential,
			OverrideConfig: d.OverrideConfig,
		}, nil
	}
	return nil, fmt.Errorf("zone %s: unknown kind %q", d.Name, d.Kind)
}
