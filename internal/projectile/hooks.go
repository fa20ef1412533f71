package projectile

import "skillhit/internal/combat"

// Hit is delivered to the HitHandler for every hit the combat policy
// allows.
type Hit struct {
	combat.HitEvent
	Character bool
	// Terminal is set on the hit that stops the projectile.
	Terminal bool
}

// HitHandler receives projectile hits synchronously during Tick.
type HitHandler interface {
	OnProjectileHit(hit Hit)
}

// HitHandlerFunc adapts a function to HitHandler.
type HitHandlerFunc func(Hit)

func (f HitHandlerFunc) OnProjectileHit(hit Hit) {
	if f != nil {
		f(hit)
	}
}
