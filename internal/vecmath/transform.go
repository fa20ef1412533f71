package vecmath

// Transform is a location, rotation and scale.
type Transform struct {
	Location Vec3
	Rotation Quat
	Scale    Vec3
}

// IdentityTransform has no translation, no rotation and unit scale.
var IdentityTransform = Transform{Rotation: Identity, Scale: One}

// NewTransform builds a transform with unit scale.
func NewTransform(location Vec3, rotation Rotator) Transform {
	return Transform{Location: location, Rotation: rotation.Quat(), Scale: One}
}

// At returns an unrotated, unit-scale transform at location.
func At(location Vec3) Transform {
	return Transform{Location: location, Rotation: Identity, Scale: One}
}

// normalized fills zero-valued fields so a literal Transform{} behaves as
// identity.
func (t Transform) normalized() Transform {
	if t.Rotation == (Quat{}) {
		t.Rotation = Identity
	}
	if t.Scale == Zero {
		t.Scale = One
	}
	return t
}

// Compose returns the transform that applies t first and parent second,
// i.e. t expressed relative to parent.
func (t Transform) Compose(parent Transform) Transform {
	t = t.normalized()
	parent = parent.normalized()
	return Transform{
		Location: parent.Rotation.RotateVector(parent.Scale.Mul(t.Location)).Add(parent.Location),
		Rotation: parent.Rotation.Mul(t.Rotation).Normalized(),
		Scale:    t.Scale.Mul(parent.Scale),
	}
}

// TransformPosition maps a local point into world space.
func (t Transform) TransformPosition(local Vec3) Vec3 {
	t = t.normalized()
	return t.Rotation.RotateVector(t.Scale.Mul(local)).Add(t.Location)
}

// Forward returns the rotated +X axis.
func (t Transform) Forward() Vec3 {
	return t.normalized().Rotation.Forward()
}

// WithLocation returns a copy of t moved to location.
func (t Transform) WithLocation(location Vec3) Transform {
	t = t.normalized()
	t.Location = location
	return t
}

// WithScale returns a copy of t with the given scale.
func (t Transform) WithScale(scale Vec3) Transform {
	t = t.normalized()
	t.Scale = scale
	return t
}

// WithRotation returns a copy of t with the given rotation.
func (t Transform) WithRotation(rotation Quat) Transform {
	t = t.normalized()
	t.Rotation = rotation
	return t
}

// Normalized exposes the identity-filled form of t.
func (t Transform) Normalized() Transform {
	return t.normalized()
}
