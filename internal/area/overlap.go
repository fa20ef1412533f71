package area

import (
	"context"

	"skillhit/internal/world"
	"skillhit/logging/combat"
	"skillhit/logging/lifecycle"
)

// evaluate runs one overlap pass over the regions and drops the one-shot
// regions it finished with.
func (a *Area) evaluate(dt float64) {
	a.scanRegions(dt)

	kept := a.regions[:0]
	for _, region := range a.regions {
		if region.Enabled {
			kept = append(kept, region)
		}
	}
	clear(a.regions[len(kept):])
	a.regions = kept
}

// scanRegions walks the regions in order. The first region still waiting
// on its pattern delay absorbs dt and ends the scan. In dot mode the
// regions share one accepted set per pass and an actor accepted twice ends
// the pass on the spot.
func (a *Area) scanRegions(dt float64) {
	dot := a.spec.Dot()
	var seen map[world.ActorID]struct{}
	if dot {
		seen = make(map[world.ActorID]struct{})
	}

	for i := range a.regions {
		region := &a.regions[i]
		if !region.Enabled {
			continue
		}
		if region.PatternDelay > 0 {
			region.PatternDelay -= dt
			return
		}
		a.debugRegion(region)

		results := a.deps.Geometry.Overlap(world.OverlapQuery{
			Location: region.Transform.Location,
			Rotation: region.Direction.OrientationQuat(),
			Channel:  world.ChannelArea,
			Shape:    queryShape(*region),
			Ignore:   []world.ActorID{a.spec.Caster},
		})

		var accepted actorSet
		for _, result := range results {
			if result.Actor == a.spec.Caster || !world.Usable(a.deps.Actors, result.Actor) {
				continue
			}
			location, ok := a.deps.Actors.Location(result.Actor)
			if !ok {
				continue
			}
			if !Accepts(*region, location, world.CapsuleRadius(a.deps.Actors, result.Actor)) {
				continue
			}

			if dot {
				if _, repeated := seen[result.Actor]; repeated {
					return
				}
				seen[result.Actor] = struct{}{}
				a.accumulateDwell(region, result, dt)
			} else if !region.overlapped.has(result.Actor) && !accepted.has(result.Actor) {
				a.enter(region, result.Actor, result.Component, dt)
			}
			accepted.add(result.Actor, result.Component)
			region.overlapped.add(result.Actor, result.Component)
		}

		for _, id := range region.overlapped.ids() {
			if accepted.has(id) {
				continue
			}
			component := region.overlapped.component(id)
			region.overlapped.remove(id)
			if world.Usable(a.deps.Actors, id) {
				a.exit(region, id, component, dt)
			}
		}

		if !dot {
			region.Enabled = false
		}
	}
}

// accumulateDwell fires an enter each time the actor's dwell crosses the
// section time. A first contact starts at the threshold so it fires at once.
func (a *Area) accumulateDwell(region *Region, result world.OverlapResult, dt float64) {
	dwell, ok := a.dwell[result.Actor]
	if !ok {
		dwell = a.spec.SectionTime
	}
	dwell += dt
	if dwell >= a.spec.SectionTime {
		a.enter(region, result.Actor, result.Component, dt)
		dwell = 0
	}
	a.dwell[result.Actor] = dwell
}

func (a *Area) contact(region *Region, actor world.ActorID, component string, dt float64) Contact {
	return Contact{
		Skill:     a.spec.Skill,
		Caster:    a.spec.Caster,
		Actor:     actor,
		Component: component,
		Region:    region.Index,
		Elapsed:   a.clock.Elapsed(),
		DeltaTime: dt,
		Dot:       a.spec.Dot(),
	}
}

func (a *Area) payload(region *Region, component string) combat.AreaContactPayload {
	return combat.AreaContactPayload{
		Skill:     a.spec.Skill,
		Region:    region.Index,
		Shape:     region.Shape.String(),
		Component: component,
		Dot:       a.spec.Dot(),
		Elapsed:   a.clock.Elapsed(),
	}
}

func (a *Area) enter(region *Region, actor world.ActorID, component string, dt float64) {
	a.ctx.Count("area_enter_total", 1)
	combat.AreaEnter(context.Background(), a.events, a.ctx.Tick(), a.actorRef(a.spec.Caster), a.actorRef(actor), a.payload(region, component), nil)
	if a.deps.Hooks != nil {
		a.deps.Hooks.OnAreaEnter(a.contact(region, actor, component, dt))
	}
}

func (a *Area) exit(region *Region, actor world.ActorID, component string, dt float64) {
	a.ctx.Count("area_exit_total", 1)
	combat.AreaExit(context.Background(), a.events, a.ctx.Tick(), a.actorRef(a.spec.Caster), a.actorRef(actor), a.payload(region, component), nil)
	if a.deps.Hooks != nil {
		a.deps.Hooks.OnAreaExit(a.contact(region, actor, component, dt))
	}
}

// debugRegion publishes a region's geometry the first time it is evaluated.
func (a *Area) debugRegion(region *Region) {
	if !a.ctx.Debug || region.debugged {
		return
	}
	region.debugged = true
	lifecycle.RegionDebug(context.Background(), a.events, a.ctx.Tick(), a.actorRef(a.spec.Caster), lifecycle.RegionDebugPayload{
		Index:       region.Index,
		Shape:       region.Shape.String(),
		Location:    vec3Array(region.Transform.Location),
		Extent:      vec3Array(region.Extent),
		Direction:   vec3Array(region.Direction),
		SectorAngle: region.SectorAngle,
		RingWidth:   region.RingWidth,
	}, nil)
}
