package geom

import "math"

// Color is a linear RGBA color with float32 channels.
type Color struct {
	R, G, B, A float32
}

var White = Color{1, 1, 1, 1}

// HSVToRGB converts hue, saturation, and value in [0,1] to an opaque color.
func HSVToRGB(h, s, v float32) Color {
	if s <= 0 {
		return Color{v, v, v, 1}
	}
	h = h - float32(math.Floor(float64(h)))
	h6 := h * 6
	sector := int(h6)
	f := h6 - float32(sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch sector % 6 {
	case 0:
		return Color{v, t, p, 1}
	case 1:
		return Color{q, v, p, 1}
	case 2:
		return Color{p, v, t, 1}
	case 3:
		return Color{p, q, v, 1}
	case 4:
		return Color{t, p, v, 1}
	default:
		return Color{v, p, q, 1}
	}
}
