package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Vec3Def is a YAML vector, written in flow style as {x: 0, y: 1, z: 0}.
type Vec3Def struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// RangeDef is an inclusive float range. A single value is written as equal
// min and max.
type RangeDef struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

type IntRangeDef struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ColorRangeDef samples colors in HSV space.
type ColorRangeDef struct {
	Hue        RangeDef `yaml:"hue"`
	Saturation RangeDef `yaml:"saturation"`
	Value      RangeDef `yaml:"value"`
	Alpha      RangeDef `yaml:"alpha"`
}

type SatelliteDef struct {
	Amount            IntRangeDef `yaml:"amount"`
	RelativeScale     RangeDef    `yaml:"relative_scale"`
	OrbitRadius       RangeDef    `yaml:"orbit_radius"`
	OrbitFrequency    RangeDef    `yaml:"orbit_frequency"`
	UniformLifecycles bool        `yaml:"uniform_lifecycles"`
}

type LifecycleDef struct {
	Growing RangeDef `yaml:"growing"`
	Adult   RangeDef `yaml:"adult"`
	Dying   RangeDef `yaml:"dying"`
}

// SpawnConfigDef describes how a zone configures the shapes it spawns.
// Directions are forward, upward, outward, or random.
type SpawnConfigDef struct {
	Factories            []string      `yaml:"factories"`
	MovementDirection    string        `yaml:"movement_direction"`
	Speed                RangeDef      `yaml:"speed"`
	AngularSpeed         RangeDef      `yaml:"angular_speed"`
	Scale                RangeDef      `yaml:"scale"`
	Color                ColorRangeDef `yaml:"color"`
	UniformColor         bool          `yaml:"uniform_color"`
	OscillationDirection string        `yaml:"oscillation_direction"`
	OscillationAmplitude RangeDef      `yaml:"oscillation_amplitude"`
	OscillationFrequency RangeDef      `yaml:"oscillation_frequency"`
	Satellite            SatelliteDef  `yaml:"satellite"`
	Lifecycle            LifecycleDef  `yaml:"lifecycle"`
}

// ZoneDef is a spawn zone. Kind is sphere, cube, composite, or scripted.
type ZoneDef struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"`
	Position    Vec3Def        `yaml:"position"`
	Rotation    Vec3Def        `yaml:"rotation"` // euler degrees
	Scale       *Vec3Def       `yaml:"scale"`    // nil means {1,1,1}
	SpawnSpeed  float32        `yaml:"spawn_speed"`
	SurfaceOnly bool           `yaml:"surface_only"`
	Config      SpawnConfigDef `yaml:"config"`

	// composite
	Sequential     bool      `yaml:"sequential"`
	OverrideConfig bool      `yaml:"override_config"`
	Children       []ZoneDef `yaml:"children"`

	// scripted
	Script string `yaml:"script"` // lua function name
}

// LevelDef is one level file. Objects are saved in file order; SpawnZone names
// the object that handles manual spawns.
type LevelDef struct {
	Name            string    `yaml:"name"`
	PopulationLimit int       `yaml:"population_limit"`
	SpawnZone       string    `yaml:"spawn_zone"`
	Objects         []ZoneDef `yaml:"objects"`
}

// LevelPath returns the file a level index is read from.
func LevelPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("level_%d.yaml", index))
}

// LoadLevelDef loads and validates a level file.
func LoadLevelDef(path string) (*LevelDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var def LevelDef
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}
	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return &def, nil
}

func (d *LevelDef) validate() error {
	if d.PopulationLimit < 0 {
		return fmt.Errorf("negative population limit %d", d.PopulationLimit)
	}
	found := false
	for i := range d.Objects {
		if err := d.Objects[i].validate(); err != nil {
			return err
		}
		if d.Objects[i].Name == d.SpawnZone {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("spawn zone %q is not one of the level objects", d.SpawnZone)
	}
	return nil
}

func (z *ZoneDef) validate() error {
	switch z.Kind {
	case "sphere", "cube":
	case "scripted":
		if z.Script == "" {
			return fmt.Errorf("zone %q: scripted zone without script", z.Name)
		}
	case "composite":
		if len(z.Children) == 0 {
			return fmt.Errorf("zone %q: composite zone without children", z.Name)
		}
		for i := range z.Children {
			if err := z.Children[i].validate(); err != nil {
				return fmt.Errorf("zone %q: %w", z.Name, err)
			}
		}
	default:
		return fmt.Errorf("zone %q: unknown kind %q", z.Name, z.Kind)
	}
	switch z.Config.MovementDirection {
	case "", "forward", "upward", "outward", "random":
	default:
		return fmt.Errorf("zone %q: unknown movement direction %q", z.Name, z.Config.MovementDirection)
	}
	switch z.Config.OscillationDirection {
	case "", "forward", "upward", "outward", "random":
	default:
		return fmt.Errorf("zone %q: unknown oscillation direction %q", z.Name, z.Config.OscillationDirection)
	}
	return nil
}
