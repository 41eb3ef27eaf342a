package geom

import "github.com/go-gl/mathgl/mgl32"

// Quat is a unit rotation quaternion.
type Quat struct {
	X, Y, Z, W float32
}

var Identity = Quat{0, 0, 0, 1}

func (q Quat) gl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func quatFromGL(q mgl32.Quat) Quat {
	return Quat{q.V[0], q.V[1], q.V[2], q.W}
}

// Euler builds a rotation from angles in degrees, applied around Z, then X,
// then Y. Composed from single-axis rotations so the order is explicit
// rather than left to AnglesToQuat's axis naming.
func Euler(e Vec3) Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(e.X), right.gl())
	qy := mgl32.QuatRotate(mgl32.DegToRad(e.Y), Up.gl())
	qz := mgl32.QuatRotate(mgl32.DegToRad(e.Z), Forward.gl())
	return quatFromGL(qy.Mul(qx).Mul(qz))
}

// Mul composes rotations: the result applies b first, then q.
func (q Quat) Mul(b Quat) Quat {
	return quatFromGL(q.gl().Mul(b.gl()))
}

// Inverse returns the conjugate, which inverts a unit quaternion.
func (q Quat) Inverse() Quat {
	return quatFromGL(q.gl().Conjugate())
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return fromGL(q.gl().Rotate(v.gl()))
}

func (q Quat) Normalized() Quat {
	if q.gl().Len() < 1e-6 {
		return Identity
	}
	return quatFromGL(q.gl().Normalize())
}

// ApproxEqual compares rotations, treating q and -q as the same rotation.
func (q Quat) ApproxEqual(b Quat, eps float32) bool {
	return abs(abs(q.gl().Dot(b.gl()))-1) <= eps
}
