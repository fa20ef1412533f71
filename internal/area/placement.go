package area

import (
	"skillhit/internal/random"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Placement is the random perturbation applied to a multi-area spawn.
type Placement struct {
	Offset     vecmath.Vec3
	DecalDelay float64
	Randomized bool
}

// RandomizePlacement draws the origin offset and decal delay for spec. The
// stream is seeded with floor(spec.Timestamp) so every client that spawns
// the same area at the same timestamp picks the same point. Specs that ask
// for a single, non-forced area keep their origin and decal delay.
func RandomizePlacement(spec Spec) Placement {
	if !spec.randomized() {
		return Placement{DecalDelay: spec.DecalDelay}
	}
	stream := random.NewStreamFromTimestamp(spec.Timestamp)
	x, y := stream.PointInUnitDisc()
	return Placement{
		Offset:     vecmath.Vec3{X: x, Y: y}.Scale(spec.MaxSpawnRadius),
		DecalDelay: stream.Range(0, spec.DecalDelay),
		Randomized: true,
	}
}

// Calculate captures spec into the form an area runs with: the random
// placement applied, the origin snapped to the caster's feet with unit
// scale, and relative phases composed into absolute thresholds.
func Calculate(spec Spec, casterLocation vecmath.Vec3, casterCapsule world.Capsule) Spec {
	placement := RandomizePlacement(spec)

	origin := spec.Origin.Normalized()
	location := origin.Location.Add(placement.Offset)
	location.Z = casterLocation.Z - casterCapsule.HalfHeight
	origin = origin.WithLocation(location).WithScale(vecmath.One)

	calculated := spec
	calculated.Origin = origin
	calculated.DecalDelay = max(0, placement.DecalDelay)
	calculated.Particles = append([]ParticleEntry(nil), spec.Particles...)
	calculated.Sounds = append([]SoundEntry(nil), spec.Sounds...)

	if spec.RelativePhases {
		if calculated.DecalLifetime > 0 {
			calculated.DecalLifetime += calculated.DecalDelay
		}
		calculated.CollisionDelay += calculated.DecalLifetime
		calculated.AreaLifetime += calculated.CollisionDelay
	}
	return calculated
}
