package projectile

import "skillhit/internal/vecmath"

// DefaultGravityZ is world gravity in units per second squared.
const DefaultGravityZ = -980.0

// Mover integrates a projectile's position once it is launched.
type Mover interface {
	Launch(origin, velocity vecmath.Vec3, gravityScale float64)
	Step(dt float64)
	Location() vecmath.Vec3
	Velocity() vecmath.Vec3
}

// Ballistic is a Mover under constant gravity.
type Ballistic struct {
	GravityZ float64

	location     vecmath.Vec3
	velocity     vecmath.Vec3
	gravityScale float64
	launched     bool
}

// NewBallistic returns a mover using DefaultGravityZ.
func NewBallistic() *Ballistic {
	return &Ballistic{GravityZ: DefaultGravityZ}
}

func (b *Ballistic) Launch(origin, velocity vecmath.Vec3, gravityScale float64) {
	b.location = origin
	b.velocity = velocity
	b.gravityScale = gravityScale
	b.launched = true
}

// Step advances by dt using semi-implicit Euler. Steps before Launch and
// invalid deltas are ignored.
func (b *Ballistic) Step(dt float64) {
	if !b.launched || !(dt > 0) {
		return
	}
	b.velocity.Z += b.GravityZ * b.gravityScale * dt
	b.location = b.location.Add(b.velocity.Scale(dt))
}

func (b *Ballistic) Location() vecmath.Vec3 {
	return b.location
}

func (b *Ballistic) Velocity() vecmath.Vec3 {
	return b.velocity
}
