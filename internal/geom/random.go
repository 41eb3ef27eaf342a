package geom

import (
	"math"
	"math/rand/v2"
)

// SmoothStep01 eases s in [0,1] with the cubic Hermite curve 3s²-2s³.
func SmoothStep01(s float32) float32 {
	return (3 - 2*s) * s * s
}

// RangeFloat returns a uniform value in [lo, hi].
func RangeFloat(rng *rand.Rand, lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float32()*(hi-lo)
}

// RangeInt returns a uniform value in [lo, hi).
func RangeInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}

// OnUnitSphere returns a uniformly distributed unit vector.
func OnUnitSphere(rng *rand.Rand) Vec3 {
	z := 2*rng.Float64() - 1
	theta := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return Vec3{float32(r * math.Cos(theta)), float32(r * math.Sin(theta)), float32(z)}
}

// InsideUnitSphere returns a uniformly distributed point in the unit ball.
func InsideUnitSphere(rng *rand.Rand) Vec3 {
	r := float32(math.Cbrt(rng.Float64()))
	return OnUnitSphere(rng).Scale(r)
}

// RandomRotation returns a uniformly distributed rotation.
func RandomRotation(rng *rand.Rand) Quat {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	return Quat{
		X: float32(a * math.Sin(2*math.Pi*u2)),
		Y: float32(a * math.Cos(2*math.Pi*u2)),
		Z: float32(b * math.Sin(2*math.Pi*u3)),
		W: float32(b * math.Cos(2*math.Pi*u3)),
	}
}
