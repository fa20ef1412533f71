package combat

import (
	"context"

	"skillhit/logging"
)

const (
	// EventAreaEnter is emitted when an area region accepts an actor.
	EventAreaEnter logging.EventType = "combat.area_enter"
	// EventAreaExit is emitted when a remembered actor leaves a region.
	EventAreaExit logging.EventType = "combat.area_exit"
	// EventProjectileHit is emitted for every hit a projectile dispatches.
	EventProjectileHit logging.EventType = "combat.projectile_hit"
	// EventProjectileBlocked is emitted when a hit stops the projectile.
	EventProjectileBlocked logging.EventType = "combat.projectile_blocked"
	// EventHitApplied is emitted when the combat resolver applies a hit.
	EventHitApplied logging.EventType = "combat.hit_applied"
)

// AreaContactPayload describes one region contact.
type AreaContactPayload struct {
	Skill     string  `json:"skill,omitempty"`
	Region    int     `json:"region"`
	Shape     string  `json:"shape"`
	Component string  `json:"component,omitempty"`
	Dot       bool    `json:"dot,omitempty"`
	Elapsed   float64 `json:"elapsed"`
}

// ProjectileHitPayload describes one dispatched projectile hit.
type ProjectileHitPayload struct {
	Skill       string     `json:"skill,omitempty"`
	Direction   string     `json:"direction,omitempty"`
	Force       string     `json:"force,omitempty"`
	Bone        string     `json:"bone,omitempty"`
	ImpactPoint [3]float64 `json:"impactPoint"`
	DamageIndex int        `json:"damageIndex"`
	Allowed     bool       `json:"allowed"`
}

// ProjectileBlockedPayload records why a projectile stopped.
type ProjectileBlockedPayload struct {
	Skill     string `json:"skill,omitempty"`
	Character bool   `json:"character"`
	HitCount  int    `json:"hitCount"`
}

// HitAppliedPayload describes a hit the resolver applied.
type HitAppliedPayload struct {
	Skill       string     `json:"skill,omitempty"`
	Direction   string     `json:"direction"`
	Force       string     `json:"force"`
	Bone        string     `json:"bone,omitempty"`
	ImpactPoint [3]float64 `json:"impactPoint"`
	DamageIndex int        `json:"damageIndex"`
}

// AreaEnter publishes a region contact.
func AreaEnter(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload AreaContactPayload, extra map[string]any) {
	publish(ctx, pub, EventAreaEnter, tick, actor, target, payload, extra)
}

// AreaExit publishes a region departure.
func AreaExit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload AreaContactPayload, extra map[string]any) {
	publish(ctx, pub, EventAreaExit, tick, actor, target, payload, extra)
}

// ProjectileHit publishes a projectile hit on a single target.
func ProjectileHit(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload ProjectileHitPayload, extra map[string]any) {
	publish(ctx, pub, EventProjectileHit, tick, actor, target, payload, extra)
}

// ProjectileBlocked publishes the hit that ended a projectile's flight.
func ProjectileBlocked(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload ProjectileBlockedPayload, extra map[string]any) {
	publish(ctx, pub, EventProjectileBlocked, tick, actor, target, payload, extra)
}

// HitApplied publishes an applied hit.
func HitApplied(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload HitAppliedPayload, extra map[string]any) {
	publish(ctx, pub, EventHitApplied, tick, actor, target, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor, target logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
