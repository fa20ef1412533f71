package projectile

import (
	"skillhit/internal/random"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// LaunchDirection picks the unit direction a projectile flies in and, when
// it aimed at a bone, the bone it picked. The caster's forward vector is the
// default; AimAtBone specs with a usable target aim at one of TargetBones
// picked uniformly from rng. YawOffset is applied last.
func LaunchDirection(spec Spec, actors world.Actors, rng *random.Stream) (vecmath.Vec3, string) {
	if !world.Usable(actors, spec.Caster) {
		return vecmath.Zero, ""
	}
	direction, _ := actors.Forward(spec.Caster)

	bone := ""
	if spec.AimAtBone && len(spec.TargetBones) > 0 && world.Usable(actors, spec.Target) {
		candidate := spec.TargetBones[rng.Index(len(spec.TargetBones))]
		if candidate != "" {
			if transform, ok := actors.BoneTransform(spec.Target, candidate); ok {
				direction = transform.Location.Sub(spec.Origin.Location)
				bone = candidate
			}
		}
	}

	if spec.YawOffset != 0 {
		direction = direction.RotateAngleAxis(spec.YawOffset, vecmath.Up)
	}
	return direction.SafeNormal(), bone
}

// NearestBone returns the bone among candidates closest to point.
func NearestBone(actors world.Actors, target world.ActorID, candidates []string, point vecmath.Vec3) (string, vecmath.Transform, bool) {
	if !world.Usable(actors, target) {
		return "", vecmath.Transform{}, false
	}
	var (
		best     string
		bestTM   vecmath.Transform
		bestDist float64
		found    bool
	)
	for _, bone := range candidates {
		if bone == "" {
			continue
		}
		transform, ok := actors.BoneTransform(target, bone)
		if !ok {
			continue
		}
		dist := vecmath.Dist(transform.Location, point)
		if !found || dist < bestDist {
			best, bestTM, bestDist, found = bone, transform, dist, true
		}
	}
	return best, bestTM, found
}
