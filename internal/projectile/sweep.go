package projectile

import (
	"context"

	"skillhit/internal/combat"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
	loggingcombat "skillhit/logging/combat"
)

// sweepShape is the query primitive for the spec's shape. Capsules lie
// along the travel direction, so the rotation is pitched by 90 degrees.
func sweepShape(spec Spec, rotation vecmath.Quat) (world.CollisionShape, vecmath.Quat) {
	extent := spec.CollisionExtent
	switch spec.Shape {
	case world.ShapeBox:
		return world.BoxShape(extent), rotation
	case world.ShapeCapsule:
		return world.CapsuleShape(extent.Y, extent.X), rotation.Mul(vecmath.Rotator{Pitch: 90}.Quat())
	default:
		return world.SphereShape(extent.X), rotation
	}
}

// sweep tests the segment travelled since the previous tick. Hits are
// handled in query order until one lands on a target the projectile cannot
// pierce.
func (p *Projectile) sweep() {
	if p.state == StateArmed {
		p.state = StateFlying
	}
	if vecmath.Dist(p.current.Location, p.start.Location) > p.spec.travelDistance() {
		p.current = p.end
	}

	shape, rotation := sweepShape(p.spec, p.deps.Mover.Velocity().SafeNormal2D().OrientationQuat())
	ignore := make([]world.ActorID, 0, len(p.hits)+2)
	ignore = append(ignore, p.spec.Caster)
	if p.deps.ID != "" {
		ignore = append(ignore, world.ActorID(p.deps.ID))
	}
	ignore = append(ignore, p.hits...)

	results := p.deps.Geometry.Sweep(world.SweepQuery{
		Start:    p.previous.Location,
		End:      p.current.Location,
		Rotation: rotation,
		Channel:  world.ChannelProjectile,
		Shape:    shape,
		Ignore:   ignore,
	})

	for _, result := range results {
		if !result.Blocking || result.Actor == p.spec.Caster || p.HasHit(result.Actor) {
			continue
		}
		if !world.Usable(p.deps.Actors, result.Actor) {
			continue
		}

		character := p.deps.Actors.IsCharacter(result.Actor)
		stops := (character && !p.pierce) || (!character && !p.spec.PierceObjects)
		allowed := p.deps.Resolver == nil || p.deps.Resolver.CanAttack(p.spec.Caster, result.Actor)

		p.recordHit(result.Actor)
		p.dispatch(result, character, allowed, stops)

		if stops {
			if allowed && character {
				p.spawnHitEffect(result)
			}
			loggingcombat.ProjectileBlocked(context.Background(), p.events, p.ctx.Tick(), p.actorRef(p.spec.Caster), p.actorRef(result.Actor), loggingcombat.ProjectileBlockedPayload{
				Skill:     p.spec.Skill,
				Character: character,
				HitCount:  len(p.hits),
			}, nil)
			p.terminate(ReasonBlocked)
			return
		}
	}
}

func (p *Projectile) recordHit(id world.ActorID) {
	if p.HasHit(id) {
		return
	}
	p.hitIndex[id] = struct{}{}
	p.hits = append(p.hits, id)
}

// dispatch reports a hit. Disallowed hits are only published; allowed ones
// reach the hit handler, and the combat resolver for characters.
func (p *Projectile) dispatch(result world.HitResult, character, allowed, terminal bool) {
	event := combat.HitEvent{
		Attacker:     p.spec.Caster,
		Target:       result.Actor,
		Skill:        p.spec.Skill,
		Direction:    combat.HitFront,
		Force:        combat.HitForceNormal,
		BoneName:     result.BoneName,
		ImpactPoint:  result.ImpactPoint,
		ImpactNormal: result.ImpactNormal,
		DamageIndex:  p.spec.DamageIndex,
	}
	if p.deps.Resolver != nil {
		event.Direction = p.deps.Resolver.ClassifyHitDirection(p.start.Location, result.Actor)
		event.Force = p.deps.Resolver.HitForce(p.spec.Caster, p.spec.Skill, p.spec.DamageIndex)
	}

	loggingcombat.ProjectileHit(context.Background(), p.events, p.ctx.Tick(), p.actorRef(p.spec.Caster), p.actorRef(result.Actor), loggingcombat.ProjectileHitPayload{
		Skill:       p.spec.Skill,
		Direction:   event.Direction.String(),
		Force:       event.Force.String(),
		Bone:        event.BoneName,
		ImpactPoint: [3]float64{event.ImpactPoint.X, event.ImpactPoint.Y, event.ImpactPoint.Z},
		DamageIndex: event.DamageIndex,
		Allowed:     allowed,
	}, nil)
	if !allowed {
		return
	}

	p.ctx.Count("projectile_hits_total", 1)
	if character && p.deps.Resolver != nil {
		p.deps.Resolver.ApplyHit(event)
	}
	if p.deps.Hits != nil {
		p.deps.Hits.OnProjectileHit(Hit{HitEvent: event, Character: character, Terminal: terminal})
	}
}
