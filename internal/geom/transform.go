package geom

// Transform is the local position, rotation, and scale of a shape or zone.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

func NewTransform() Transform {
	return Transform{Rotation: Identity, Scale: One}
}

// Rotate turns the transform by euler angles in degrees, in its own space.
func (t *Transform) Rotate(eulers Vec3) {
	t.Rotation = t.Rotation.Mul(Euler(eulers)).Normalized()
}

// InverseTransformDirection maps a world direction into local space. Scale
// does not affect the result.
func (t *Transform) InverseTransformDirection(dir Vec3) Vec3 {
	return t.Rotation.Inverse().Rotate(dir)
}

// TransformPoint maps a local point into the parent space.
func (t *Transform) TransformPoint(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Position)
}

func (t *Transform) Up() Vec3 {
	return t.Rotation.Rotate(Up)
}

func (t *Transform) Forward() Vec3 {
	return t.Rotation.Rotate(Forward)
}
