package area

import (
	"context"

	"skillhit/internal/effects"
	"skillhit/internal/sim"
	"skillhit/internal/timing"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
	"skillhit/logging"
	"skillhit/logging/lifecycle"
)

// State is the area lifecycle.
type State int

const (
	StateSpawned State = iota
	StateActive
	StateEnding
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	default:
		return "spawned"
	}
}

// Deps are the collaborators an area talks to. Spawner, Audio and Hooks are
// optional.
type Deps struct {
	// ID names the instance in published events.
	ID       string
	Actors   world.Actors
	Geometry world.Geometry
	Spawner  effects.Spawner
	Audio    effects.Audio
	Hooks    Hooks
}

// Area is one running area-of-effect instance. It is not safe for
// concurrent use; a Runner ticks it from a single goroutine.
type Area struct {
	ctx    sim.Context
	deps   Deps
	events logging.Publisher

	spec     Spec
	regions  []Region
	dwell    map[world.ActorID]float64
	clock    timing.Clock
	state    State
	active   bool
	rejected bool
	tornDown bool

	decal     effects.Decal
	particles []effects.Particle
	sounds    []*areaSound
}

type areaSound struct {
	sound  effects.Sound
	delay  timing.Countdown
	played bool
}

// New builds an idle area. Call Init to start it.
func New(ctx sim.Context, deps Deps) *Area {
	events := ctx.Events()
	if deps.ID != "" {
		events = logging.WithInstance(events, deps.ID)
	}
	return &Area{
		ctx:    ctx,
		deps:   deps,
		events: events,
		dwell:  make(map[world.ActorID]float64),
	}
}

// Init captures spec, generates the region pattern and spawns the area's
// presentation. It returns false and leaves the area finished when the
// caster is unusable, no geometry service is wired or the shape is unknown.
// Init may only be called once.
func (a *Area) Init(spec Spec) bool {
	if a == nil || a.state != StateSpawned || a.rejected {
		return false
	}
	if !a.accepts(spec) {
		a.rejected = true
		a.state = StateEnded
		a.ctx.Count("area_rejected_total", 1)
		a.ctx.Log().Printf("area %s: rejected spec for caster %q", a.deps.ID, spec.Caster)
		return false
	}

	location, _ := a.deps.Actors.Location(spec.Caster)
	capsule, _ := a.deps.Actors.Capsule(spec.Caster)
	a.spec = Calculate(spec, location, capsule)
	a.regions = GenerateRegions(a.spec, a.spec.Origin)

	a.spawnDecal()
	a.spawnParticles()
	a.spawnSounds()

	a.active = true
	a.state = StateActive
	a.ctx.Count("area_spawned_total", 1)

	lifecycle.AreaSpawned(context.Background(), a.events, a.ctx.Tick(), a.actorRef(a.spec.Caster), lifecycle.AreaSpawnedPayload{
		Skill:          a.spec.Skill,
		Shape:          a.spec.Shape.String(),
		Regions:        len(a.regions),
		Origin:         vec3Array(a.spec.Origin.Location),
		CollisionDelay: a.spec.CollisionDelay,
		AreaLifetime:   a.spec.AreaLifetime,
		DecalLifetime:  a.spec.DecalLifetime,
		Dot:            a.spec.Dot(),
	}, nil)
	return true
}

func (a *Area) accepts(spec Spec) bool {
	if a.deps.Geometry == nil || spec.Shape == world.ShapeUnknown {
		return false
	}
	return world.Usable(a.deps.Actors, spec.Caster)
}

// SetActive pauses or resumes the area. Paused areas skip Tick entirely.
func (a *Area) SetActive(active bool) {
	if a == nil || a.state != StateActive {
		return
	}
	a.active = active
}

// Tick advances the area by dt seconds.
func (a *Area) Tick(dt float64) {
	if a == nil || !a.active || a.tornDown {
		return
	}
	if !world.UsableAlive(a.deps.Actors, a.spec.Caster) {
		a.state = StateEnding
		return
	}

	a.clock.Advance(dt)
	a.updateDecal()
	a.prunePresentation(dt)

	if a.ctx.Authority && a.clock.Within(a.spec.CollisionDelay, a.spec.AreaLifetime) {
		a.evaluate(dt)
	}
	if a.clock.Past(a.spec.AreaLifetime) {
		a.state = StateEnding
	}
}

// IsFinished reports whether the area can be torn down: its particles have
// all completed and either the caster is gone or the area outlived its
// lifetime.
func (a *Area) IsFinished() bool {
	if a == nil || a.rejected || a.tornDown {
		return true
	}
	if a.state == StateSpawned {
		return false
	}
	for _, particle := range a.particles {
		if !particle.Completed() {
			return false
		}
	}
	return !world.UsableAlive(a.deps.Actors, a.spec.Caster) || a.clock.Past(a.spec.AreaLifetime)
}

// OnEnd stops the area's sounds once the caster has moved on from the
// action that spawned it.
func (a *Area) OnEnd() {
	if a == nil || !world.Usable(a.deps.Actors, a.spec.Caster) {
		return
	}
	if state, ok := a.deps.Actors.(world.ActionState); ok && a.spec.ActionName != "" {
		if state.IsPlayingAction(a.spec.Caster, a.spec.ActionName) {
			return
		}
	}
	a.releaseSounds()
}

// Teardown releases the decal, particles and sounds. It is safe to call
// more than once.
func (a *Area) Teardown() {
	if a == nil || a.tornDown {
		return
	}
	a.tornDown = true
	a.active = false

	if a.decal != nil {
		a.decal.Destroy()
		a.decal = nil
	}
	for _, particle := range a.particles {
		particle.Destroy()
	}
	a.particles = nil
	a.releaseSounds()

	reason := "expired"
	switch {
	case a.rejected:
		reason = "rejected"
	case !world.UsableAlive(a.deps.Actors, a.spec.Caster):
		reason = "caster_lost"
	case !a.clock.Past(a.spec.AreaLifetime):
		reason = "cancelled"
	}
	previous := a.state
	a.state = StateEnded
	if previous == StateSpawned || a.rejected {
		return
	}
	lifecycle.AreaEnded(context.Background(), a.events, a.ctx.Tick(), a.actorRef(a.spec.Caster), lifecycle.AreaEndedPayload{
		Skill:   a.spec.Skill,
		Elapsed: a.clock.Elapsed(),
		Reason:  reason,
	}, nil)
}

// State returns the current lifecycle state.
func (a *Area) State() State {
	if a == nil {
		return StateEnded
	}
	return a.state
}

// Spec returns the calculated spec the area runs with.
func (a *Area) Spec() Spec {
	return a.spec
}

// Regions returns the regions still being evaluated.
func (a *Area) Regions() []Region {
	out := make([]Region, len(a.regions))
	copy(out, a.regions)
	return out
}

// Elapsed returns the area clock.
func (a *Area) Elapsed() float64 {
	return a.clock.Elapsed()
}

// Dwell returns the dot accumulator for id.
func (a *Area) Dwell(id world.ActorID) (float64, bool) {
	value, ok := a.dwell[id]
	return value, ok
}

func (a *Area) actorRef(id world.ActorID) logging.EntityRef {
	if world.Usable(a.deps.Actors, id) && a.deps.Actors.IsCharacter(id) {
		return logging.Character(string(id))
	}
	return logging.Object(string(id))
}

func vec3Array(v vecmath.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
