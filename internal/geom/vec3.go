// Package geom holds the float32 vector, rotation, and color math shared by
// shapes, behaviors, and spawn zones. The arithmetic is mgl32's; the named
// field types exist because the save codec and YAML tables address X, Y, Z.
package geom

import "github.com/go-gl/mathgl/mgl32"

// Vec3 is a float32 3D vector, the precision the save format stores.
type Vec3 struct {
	X, Y, Z float32
}

var (
	Zero    = Vec3{}
	One     = Vec3{1, 1, 1}
	Up      = Vec3{0, 1, 0}
	Forward = Vec3{0, 0, 1}
	right   = Vec3{1, 0, 0}
)

func (a Vec3) gl() mgl32.Vec3 {
	return mgl32.Vec3{a.X, a.Y, a.Z}
}

func fromGL(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return fromGL(a.gl().Add(b.gl()))
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return fromGL(a.gl().Sub(b.gl()))
}

func (a Vec3) Scale(s float32) Vec3 {
	return fromGL(a.gl().Mul(s))
}

// Mul multiplies component-wise.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func (a Vec3) Dot(b Vec3) float32 {
	return a.gl().Dot(b.gl())
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return fromGL(a.gl().Cross(b.gl()))
}

func (a Vec3) SqrMagnitude() float32 {
	return a.gl().LenSqr()
}

func (a Vec3) Magnitude() float32 {
	return a.gl().Len()
}

// Normalized returns the unit vector along a, or Zero for vectors too short
// to normalize. mgl32 divides by the length unchecked.
func (a Vec3) Normalized() Vec3 {
	if a.Magnitude() < 1e-5 {
		return Zero
	}
	return fromGL(a.gl().Normalize())
}

// ApproxEqual reports whether every component differs by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}

func abs(f float32) float32 {
	return mgl32.Abs(f)
}
