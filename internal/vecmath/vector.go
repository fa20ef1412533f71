package vecmath

import (
	"math"

	"github.com/jakecoffman/cp"
)

// SmallNumber is the tolerance used for safe normalisation.
const SmallNumber = 1e-8

// Vec3 is a 3D vector in a Z-up, X-forward, Y-right frame.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

var (
	Zero    = Vec3{}
	One     = Vec3{X: 1, Y: 1, Z: 1}
	Forward = Vec3{X: 1}
	Right   = Vec3{Y: 1}
	Up      = Vec3{Z: 1}
)

// Splat returns a vector with every component set to v.
func Splat(v float64) Vec3 {
	return Vec3{X: v, Y: v, Z: v}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Mul multiplies componentwise.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Size() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) SizeSquared() float64 {
	return v.Dot(v)
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec3) float64 {
	return a.Sub(b).Size()
}

// ComponentMax returns the componentwise maximum of v and o.
func (v Vec3) ComponentMax(o Vec3) Vec3 {
	return Vec3{X: math.Max(v.X, o.X), Y: math.Max(v.Y, o.Y), Z: math.Max(v.Z, o.Z)}
}

// SafeNormal returns the unit vector, or Zero when v is too short to
// normalise.
func (v Vec3) SafeNormal() Vec3 {
	size := v.Size()
	if size < SmallNumber {
		return Zero
	}
	return v.Scale(1 / size)
}

// Planar projects v onto the horizontal plane.
func (v Vec3) Planar() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// FromPlanar lifts a planar vector back to 3D at height z.
func FromPlanar(p cp.Vector, z float64) Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: z}
}

// Size2D returns the length of the horizontal component.
func (v Vec3) Size2D() float64 {
	return v.Planar().Length()
}

// SafeNormal2D normalises the horizontal component and drops Z.
func (v Vec3) SafeNormal2D() Vec3 {
	planar := v.Planar()
	if planar.LengthSq() < SmallNumber*SmallNumber {
		return Zero
	}
	return FromPlanar(planar.Normalize(), 0)
}

// RotateAngleAxis rotates v by degrees around the given unit axis.
func (v Vec3) RotateAngleAxis(degrees float64, axis Vec3) Vec3 {
	rad := degrees * math.Pi / 180
	s, c := math.Sincos(rad)
	axis = axis.SafeNormal()
	// Rodrigues' rotation formula.
	term1 := v.Scale(c)
	term2 := axis.Cross(v).Scale(s)
	term3 := axis.Scale(axis.Dot(v) * (1 - c))
	return term1.Add(term2).Add(term3)
}

// Rotation returns the orientation whose forward vector points along v.
// Roll is always zero.
func (v Vec3) Rotation() Rotator {
	yaw := math.Atan2(v.Y, v.X) * 180 / math.Pi
	pitch := math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y)) * 180 / math.Pi
	return Rotator{Pitch: pitch, Yaw: yaw}
}

// OrientationQuat returns Rotation() as a quaternion.
func (v Vec3) OrientationQuat() Quat {
	return v.Rotation().Quat()
}

// AngleBetween returns the angle in degrees between two vectors, in the
// [0, 180] range. Degenerate inputs yield 0.
func AngleBetween(a, b Vec3) float64 {
	a = a.SafeNormal()
	b = b.SafeNormal()
	if a == Zero || b == Zero {
		return 0
	}
	dot := a.Dot(b)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot) * 180 / math.Pi
}

// NearlyEqual reports whether every component differs by at most tolerance.
func NearlyEqual(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}
