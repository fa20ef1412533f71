package vecmath

import "math"

// Rotator is an orientation in degrees. Positive yaw turns +X towards +Y,
// positive pitch raises the nose towards +Z.
type Rotator struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

// YawRotator builds a rotator with only a yaw component.
func YawRotator(yaw float64) Rotator {
	return Rotator{Yaw: yaw}
}

// Quat converts the rotator to a unit quaternion.
func (r Rotator) Quat() Quat {
	const halfDegToRad = math.Pi / 360
	sp, cp := math.Sincos(r.Pitch * halfDegToRad)
	sy, cy := math.Sincos(r.Yaw * halfDegToRad)
	sr, cr := math.Sincos(r.Roll * halfDegToRad)
	return Quat{
		X: cr*sp*sy - sr*cp*cy,
		Y: -cr*sp*cy - sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// Identity is the no-op rotation.
var Identity = Quat{W: 1}

// Mul composes rotations: the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Inverse returns the conjugate; q must be normalised.
func (q Quat) Inverse() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Normalized rescales q to unit length. A degenerate quaternion becomes
// Identity.
func (q Quat) Normalized() Quat {
	size := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if size < SmallNumber {
		return Identity
	}
	inv := 1 / size
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// RotateVector applies the rotation to v.
func (q Quat) RotateVector(v Vec3) Vec3 {
	axis := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := axis.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(axis.Cross(t))
}

// UnrotateVector applies the inverse rotation to v.
func (q Quat) UnrotateVector(v Vec3) Vec3 {
	return q.Inverse().RotateVector(v)
}

func (q Quat) Forward() Vec3 { return q.RotateVector(Forward) }

func (q Quat) Right() Vec3 { return q.RotateVector(Right) }

func (q Quat) Up() Vec3 { return q.RotateVector(Up) }

// Yaw returns the heading of the forward vector in degrees.
func (q Quat) Yaw() float64 {
	f := q.Forward()
	return math.Atan2(f.Y, f.X) * 180 / math.Pi
}
