package combat

import (
	"fmt"

	"skillhit/internal/vecmath"
)

// HitDirection is the side of the target a hit came from.
type HitDirection int

const (
	HitFront HitDirection = iota
	HitBack
	HitLeft
	HitRight
)

func (d HitDirection) String() string {
	switch d {
	case HitFront:
		return "front"
	case HitBack:
		return "back"
	case HitLeft:
		return "left"
	case HitRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ClassifyDirection buckets the planar angle between the target's facing
// and the direction towards the source into 90 degree quadrants.
func ClassifyDirection(from, targetLocation, targetForward vecmath.Vec3) HitDirection {
	toSource := from.Sub(targetLocation).SafeNormal2D()
	facing := targetForward.SafeNormal2D()
	if toSource == vecmath.Zero || facing == vecmath.Zero {
		return HitFront
	}
	angle := vecmath.AngleBetween(facing, toSource)
	switch {
	case angle <= 45:
		return HitFront
	case angle >= 135:
		return HitBack
	case facing.Cross(toSource).Z > 0:
		return HitRight
	default:
		return HitLeft
	}
}
