package level

import (
	"fmt"
	"math/rand/v2"

	"github.com/l1jgo/shapesim/internal/data"
	"github.com/l1jgo/shapesim/internal/geom"
	"github.com/l1jgo/shapesim/internal/world"
)

// FloatRange is an inclusive range sampled uniformly.
type FloatRange struct {
	Min, Max float32
}

func (r FloatRange) Random(rng *rand.Rand) float32 {
	return geom.RangeFloat(rng, r.Min, r.Max)
}

// IntRange is sampled uniformly with both bounds included.
type IntRange struct {
	Min, Max int
}

func (r IntRange) Random(rng *rand.Rand) int {
	return geom.RangeInt(rng, r.Min, r.Max+1)
}

// ColorRangeHSV samples colors in HSV space, with alpha sampled separately.
type ColorRangeHSV struct {
	Hue, Saturation, Value, Alpha FloatRange
}

func (r ColorRangeHSV) Random(rng *rand.Rand) geom.Color {
	c := geom.HSVToRGB(r.Hue.Random(rng), r.Saturation.Random(rng), r.Value.Random(rng))
	c.A = r.Alpha.Random(rng)
	return c
}

// Direction selects the vector a movement or oscillation follows.
type Direction int

const (
	Forward Direction = iota
	Upward
	Outward
	RandomDirection
)

func parseDirection(s string) (Direction, error) {
	switch s {
	case "", "forward":
		return Forward, nil
	case "upward":
		return Upward, nil
	case "outward":
		return Outward, nil
	case "random":
		return RandomDirection, nil
	}
	return Forward, fmt.Errorf("unknown direction %q", s)
}

type SatelliteConfig struct {
	Amount            IntRange
	RelativeScale     FloatRange
	OrbitRadius       FloatRange
	OrbitFrequency    FloatRange
	UniformLifecycles bool
}

type LifecycleConfig struct {
	Growing, Adult, Dying FloatRange
}

// Durations samples growing, adult, and dying durations.
func (c LifecycleConfig) Durations(rng *rand.Rand) geom.Vec3 {
	return geom.Vec3{X: c.Growing.Random(rng), Y: c.Adult.Random(rng), Z: c.Dying.Random(rng)}
}

// SpawnConfig is everything a zone samples to configure a new shape.
type SpawnConfig struct {
	Factories            []*world.Factory
	MovementDirection    Direction
	Speed                FloatRange
	AngularSpeed         FloatRange
	Scale                FloatRange
	Color                ColorRangeHSV
	UniformColor         bool
	OscillationDirection Direction
	OscillationAmplitude FloatRange
	OscillationFrequency FloatRange
	Satellite            SatelliteConfig
	Lifecycle            LifecycleConfig
}

func floatRange(d data.RangeDef) FloatRange {
	return FloatRange{Min: d.Min, Max: d.Max}
}

func vec3(d data.Vec3Def) geom.Vec3 {
	return geom.Vec3{X: d.X, Y: d.Y, Z: d.Z}
}

// newSpawnConfig resolves factory names and directions of a definition.
// Unset scale and color ranges default to 1 and opaque white.
func newSpawnConfig(d data.SpawnConfigDef, factories map[string]*world.Factory) (SpawnConfig, error) {
	cfg := SpawnConfig{
		Speed:                floatRange(d.Speed),
		AngularSpeed:         floatRange(d.AngularSpeed),
		Scale:                floatRange(d.Scale),
		UniformColor:         d.UniformColor,
		OscillationAmplitude: floatRange(d.OscillationAmplitude),
		OscillationFrequency: floatRange(d.OscillationFrequency),
		Color: ColorRangeHSV{
			Hue:        floatRange(d.Color.Hue),
			Saturation: floatRange(d.Color.Saturation),
			Value:      floatRange(d.Color.Value),
			Alpha:      floatRange(d.Color.Alpha),
		},
		Satellite: SatelliteConfig{
			Amount:            IntRange{Min: d.Satellite.Amount.Min, Max: d.Satellite.Amount.Max},
			RelativeScale:     floatRange(d.Satellite.RelativeScale),
			OrbitRadius:       floatRange(d.Satellite.OrbitRadius),
			OrbitFrequency:    floatRange(d.Satellite.OrbitFrequency),
			UniformLifecycles: d.Satellite.UniformLifecycles,
		},
		Lifecycle: LifecycleConfig{
			Growing: floatRange(d.Lifecycle.Growing),
			Adult:   floatRange(d.Lifecycle.Adult),
			Dying:   floatRange(d.Lifecycle.Dying),
		},
	}
	if cfg.Scale == (FloatRange{}) {
		cfg.Scale = FloatRange{1, 1}
	}
	if cfg.Color.Value == (FloatRange{}) {
		cfg.Color.Value = FloatRange{1, 1}
	}
	if cfg.Color.Alpha == (FloatRange{}) {
		cfg.Color.Alpha = FloatRange{1, 1}
	}

	var err error
	if cfg.MovementDirection, err = parseDirection(d.MovementDirection); err != nil {
		return cfg, err
	}
	if cfg.OscillationDirection, err = parseDirection(d.OscillationDirection); err != nil {
		return cfg, err
	}

	for _, name := range d.Factories {
		f, ok := factories[name]
		if !ok {
			return cfg, fmt.Errorf("unknown factory %q", name)
		}
		cfg.Factories = append(cfg.Factories, f)
	}
	return cfg, nil
}
