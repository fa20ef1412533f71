// Package projectile sweeps fired projectiles through the world. Each
// Projectile owns its flight: it waits out the fire delay, launches its
// mover, and on authoritative contexts sweeps the travelled segment every
// tick, dispatching hits until a target it cannot pierce stops it.
package projectile

import (
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Spec is the fully resolved description of one projectile.
type Spec struct {
	Skill  string
	Caster world.ActorID
	// Target is only used to aim at one of its bones.
	Target world.ActorID

	// Origin is the spawn transform.
	Origin       vecmath.Transform
	Speed        float64
	GravityScale float64

	// Shape is sphere, box or capsule. Capsules use Extent.X as the half
	// height along the travel direction and Extent.Y as the radius.
	Shape             world.ShapeType
	CollisionExtent   vecmath.Vec3
	CollisionRelative vecmath.Transform
	MaxDistance       float64

	FireDelay       float64
	UseLifetime     bool
	InitialLifespan float64

	PierceCharacters bool
	PierceObjects    bool

	TargetBones []string
	AimAtBone   bool
	// YawOffset rotates the launch direction around +Z, in degrees.
	YawOffset   float64
	DamageIndex int

	Presentation Presentation
}

// Presentation lists the attachments that travel with the projectile and
// the effect left on a character it stops on.
type Presentation struct {
	Trail  string
	Light  string
	Sounds []string

	HitEffect string
	// DestroyTrailOnHit removes the trail at once instead of letting it
	// fade with DisableEmittersOnHit turned off.
	DestroyTrailOnHit    bool
	DisableEmittersOnHit []string
}

// travelDistance is how far the collision centre may travel before its
// leading edge reaches MaxDistance.
func (s Spec) travelDistance() float64 {
	return s.MaxDistance - s.CollisionExtent.X
}
