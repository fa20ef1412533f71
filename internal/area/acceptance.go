package area

import (
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Accepts reports whether an actor at target with the given capsule radius
// counts as inside region once the world overlap has matched it.
func Accepts(region Region, target vecmath.Vec3, radius float64) bool {
	switch region.Shape {
	case world.ShapeSector:
		return acceptsSector(region, target, radius)
	case world.ShapeRing:
		return acceptsRing(region, target, radius)
	default:
		return true
	}
}

// acceptsSector tests the direction to the actor, and the direction to the
// capsule edge nearest the sector axis, against the half angle. Either one
// qualifying is enough.
func acceptsSector(region Region, target vecmath.Vec3, radius float64) bool {
	look := target.Sub(region.Transform.Location)
	half := region.SectorAngle / 2

	if vecmath.AngleBetween(region.Direction, look.SafeNormal2D()) <= half {
		return true
	}

	right := look.OrientationQuat().Right()
	padding := right.Scale(-radius)
	if region.Direction.Cross(look).Z < 0 {
		padding = right.Scale(radius)
	}
	corrected := look.Add(padding)
	return vecmath.AngleBetween(region.Direction, corrected.SafeNormal2D()) <= half
}

// acceptsRing rejects actors entirely inside the inner disc.
func acceptsRing(region Region, target vecmath.Vec3, radius float64) bool {
	look := target.Sub(region.Transform.Location)
	return look.Size2D()+radius >= region.Extent.X-region.RingWidth
}
