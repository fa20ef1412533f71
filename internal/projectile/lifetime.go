package projectile

import "math"

// DefaultLifespan is used by UseLifetime specs that leave InitialLifespan
// unset.
const DefaultLifespan = 5.0

// Lifetime returns how long a projectile lives after Fire. The time to
// cover the travel distance wins when positive; otherwise UseLifetime specs
// fall back to their fixed lifespan. Both include the fire delay. A result
// <= 0 means the projectile cannot fly.
func Lifetime(spec Spec) float64 {
	byDistance := 0.0
	if spec.Speed > 0 {
		byDistance = spec.travelDistance()/spec.Speed + spec.FireDelay
	}
	if byDistance > 0 && !math.IsInf(byDistance, 0) {
		return byDistance
	}
	if !spec.UseLifetime {
		return 0
	}
	lifespan := spec.InitialLifespan
	if lifespan <= 0 {
		lifespan = DefaultLifespan
	}
	return lifespan + spec.FireDelay
}
