// Package combat holds the combat-resolution seam the hit engines call into:
// attack policy, hit classification, force lookup and hit application.
package combat

import (
	"fmt"
	"sync"

	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// HitForce grades how hard a hit lands.
type HitForce int

const (
	HitForceNone HitForce = iota
	HitForceLight
	HitForceNormal
	HitForceHeavy
	HitForceKnockdown
)

var forceNames = map[HitForce]string{
	HitForceNone:      "none",
	HitForceLight:     "light",
	HitForceNormal:    "normal",
	HitForceHeavy:     "heavy",
	HitForceKnockdown: "knockdown",
}

func (f HitForce) String() string {
	if name, ok := forceNames[f]; ok {
		return name
	}
	return fmt.Sprintf("force(%d)", int(f))
}

// ParseHitForce resolves an authored force name.
func ParseHitForce(name string) (HitForce, error) {
	for force, candidate := range forceNames {
		if candidate == name {
			return force, nil
		}
	}
	return HitForceNone, fmt.Errorf("unknown hit force %q", name)
}

// HitEvent is a resolved projectile hit on a character.
type HitEvent struct {
	Attacker     world.ActorID
	Target       world.ActorID
	Skill        string
	Direction    HitDirection
	Force        HitForce
	BoneName     string
	ImpactPoint  vecmath.Vec3
	ImpactNormal vecmath.Vec3
	DamageIndex  int
}

// Resolver is the combat-resolution service.
type Resolver interface {
	CanAttack(attacker, target world.ActorID) bool
	ClassifyHitDirection(from vecmath.Vec3, target world.ActorID) HitDirection
	HitForce(attacker world.ActorID, skill string, damageIndex int) HitForce
	ApplyHit(event HitEvent)
}

// PierceGranter is optionally implemented by a Resolver to let a caster's
// current state grant character pierce to a projectile.
type PierceGranter interface {
	GrantsPierce(caster world.ActorID, skill string) bool
}

// TeamPolicyConfig configures a TeamPolicy.
type TeamPolicyConfig struct {
	Actors world.Actors
	// Teams maps actors to team names. Actors without a team can be
	// attacked by anyone.
	Teams map[world.ActorID]string
	// Forces maps a skill to the force for each damage index. Indexes past
	// the end reuse the last entry.
	Forces map[string][]HitForce
	// PierceSkills lists skills whose projectiles always pierce characters.
	PierceSkills map[string]bool
	// OnHit observes every applied hit.
	OnHit func(HitEvent)
}

// TeamPolicy is a Resolver that forbids attacks between teammates and keeps
// every applied hit.
type TeamPolicy struct {
	actors       world.Actors
	teams        map[world.ActorID]string
	forces       map[string][]HitForce
	pierceSkills map[string]bool
	onHit        func(HitEvent)

	mu   sync.Mutex
	hits []HitEvent
}

var (
	_ Resolver      = (*TeamPolicy)(nil)
	_ PierceGranter = (*TeamPolicy)(nil)
)

func NewTeamPolicy(cfg TeamPolicyConfig) *TeamPolicy {
	policy := &TeamPolicy{
		actors:       cfg.Actors,
		teams:        make(map[world.ActorID]string, len(cfg.Teams)),
		forces:       make(map[string][]HitForce, len(cfg.Forces)),
		pierceSkills: make(map[string]bool, len(cfg.PierceSkills)),
		onHit:        cfg.OnHit,
	}
	for id, team := range cfg.Teams {
		policy.teams[id] = team
	}
	for skill, forces := range cfg.Forces {
		policy.forces[skill] = append([]HitForce(nil), forces...)
	}
	for skill, pierce := range cfg.PierceSkills {
		policy.pierceSkills[skill] = pierce
	}
	return policy
}

func (p *TeamPolicy) CanAttack(attacker, target world.ActorID) bool {
	if attacker == target || target == world.NoActor {
		return false
	}
	if p.actors != nil && p.actors.IsCharacter(target) && !p.actors.Alive(target) {
		return false
	}
	team, ok := p.teams[target]
	if !ok || team == "" {
		return true
	}
	return p.teams[attacker] != team
}

func (p *TeamPolicy) ClassifyHitDirection(from vecmath.Vec3, target world.ActorID) HitDirection {
	if p.actors == nil {
		return HitFront
	}
	location, ok := p.actors.Location(target)
	if !ok {
		return HitFront
	}
	forward, ok := p.actors.Forward(target)
	if !ok {
		return HitFront
	}
	return ClassifyDirection(from, location, forward)
}

func (p *TeamPolicy) HitForce(_ world.ActorID, skill string, damageIndex int) HitForce {
	forces := p.forces[skill]
	if len(forces) == 0 {
		return HitForceNormal
	}
	if damageIndex < 0 {
		damageIndex = 0
	}
	if damageIndex >= len(forces) {
		damageIndex = len(forces) - 1
	}
	return forces[damageIndex]
}

func (p *TeamPolicy) ApplyHit(event HitEvent) {
	p.mu.Lock()
	p.hits = append(p.hits, event)
	p.mu.Unlock()
	if p.onHit != nil {
		p.onHit(event)
	}
}

func (p *TeamPolicy) GrantsPierce(_ world.ActorID, skill string) bool {
	return p.pierceSkills[skill]
}

// Hits returns a copy of every applied hit in application order.
func (p *TeamPolicy) Hits() []HitEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]HitEvent(nil), p.hits...)
}
