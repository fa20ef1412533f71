package projectile

import (
	"context"

	"skillhit/internal/combat"
	"skillhit/internal/effects"
	"skillhit/internal/sim"
	"skillhit/internal/timing"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
	"skillhit/logging"
	"skillhit/logging/lifecycle"
)

// State is the projectile lifecycle.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateFlying
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateFlying:
		return "flying"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

// Termination reasons reported in lifecycle events.
const (
	ReasonRejected   = "rejected"
	ReasonExpired    = "expired"
	ReasonBlocked    = "blocked"
	ReasonCancelled  = "cancelled"
	ReasonCasterLost = "caster_lost"
	ReasonTornDown   = "torn_down"
)

// Deps are the collaborators a projectile talks to. Resolver, Spawner and
// Hits are optional; a nil Resolver allows every hit.
type Deps struct {
	// ID names the instance in events and is excluded from sweeps.
	ID       string
	Actors   world.Actors
	Geometry world.Geometry
	Mover    Mover
	Resolver combat.Resolver
	Spawner  effects.Spawner
	Hits     HitHandler
	// Viewer is the locally viewed character, if any.
	Viewer world.ActorID
}

// Projectile is one fired projectile. It is not safe for concurrent use.
type Projectile struct {
	ctx    sim.Context
	deps   Deps
	events logging.Publisher

	spec      Spec
	state     State
	active    bool
	fired     bool
	tornDown  bool
	reason    string
	clock     timing.Clock
	lifetime  float64
	direction vecmath.Vec3
	velocity  vecmath.Vec3
	aimBone   string
	pierce    bool

	start    vecmath.Transform
	end      vecmath.Transform
	previous vecmath.Transform
	current  vecmath.Transform

	hits     []world.ActorID
	hitIndex map[world.ActorID]struct{}

	attachments []attachment
}

type attachment struct {
	kind  effects.AttachmentKind
	value effects.Attachment
}

// New builds an idle projectile. Call Fire to launch it.
func New(ctx sim.Context, deps Deps) *Projectile {
	events := ctx.Events()
	if deps.ID != "" {
		events = logging.WithInstance(events, deps.ID)
	}
	return &Projectile{
		ctx:      ctx,
		deps:     deps,
		events:   events,
		hitIndex: make(map[world.ActorID]struct{}),
	}
}

// Fire captures spec and computes the flight. It returns false and leaves
// the projectile terminated when the caster is unusable, no mover or
// geometry is wired, or the computed lifetime is not positive. Fire may
// only be called once.
func (p *Projectile) Fire(spec Spec) bool {
	if p == nil || p.fired {
		return false
	}
	p.fired = true

	lifetime := Lifetime(spec)
	if !world.Usable(p.deps.Actors, spec.Caster) || p.deps.Mover == nil || p.deps.Geometry == nil || lifetime <= 0 {
		p.state = StateTerminated
		p.reason = ReasonRejected
		p.ctx.Count("projectile_rejected_total", 1)
		p.ctx.Log().Printf("projectile %s: rejected spec for caster %q (lifetime %.3f)", p.deps.ID, spec.Caster, lifetime)
		return false
	}

	p.spec = spec
	p.spec.TargetBones = append([]string(nil), spec.TargetBones...)
	p.lifetime = lifetime
	p.direction, p.aimBone = LaunchDirection(spec, p.deps.Actors, p.ctx.Rand)
	p.velocity = p.direction.Scale(spec.Speed)
	p.pierce = spec.PierceCharacters || p.grantsPierce()

	p.start = p.collisionTransform(spec.Origin.Location)
	p.end = p.start.WithLocation(p.start.Location.Add(p.direction.Scale(spec.travelDistance())))
	p.previous = p.start
	p.current = p.start

	p.spawnAttachments()
	p.active = true
	p.ctx.Count("projectile_fired_total", 1)

	lifecycle.ProjectileFired(context.Background(), p.events, p.ctx.Tick(), p.actorRef(spec.Caster), lifecycle.ProjectileFiredPayload{
		Skill:     spec.Skill,
		Direction: [3]float64{p.direction.X, p.direction.Y, p.direction.Z},
		Speed:     spec.Speed,
		Lifetime:  lifetime,
		Pierce:    p.pierce,
		AimBone:   p.aimBone,
	}, nil)
	return true
}

func (p *Projectile) grantsPierce() bool {
	granter, ok := p.deps.Resolver.(combat.PierceGranter)
	return ok && granter.GrantsPierce(p.spec.Caster, p.spec.Skill)
}

// Tick advances the projectile by dt seconds. The fire delay and lifetime
// are compared against the clock before dt is added.
func (p *Projectile) Tick(dt float64) {
	if p == nil || !p.fired || p.tornDown || p.state == StateTerminated {
		return
	}
	if !p.active {
		p.terminate(ReasonCancelled)
		return
	}
	if !world.Usable(p.deps.Actors, p.spec.Caster) {
		p.terminate(ReasonCasterLost)
		return
	}
	if p.clock.Reached(p.lifetime) {
		p.terminate(ReasonExpired)
		return
	}

	if p.clock.Reached(p.spec.FireDelay) {
		if p.state == StateIdle {
			if !p.arm() {
				return
			}
		} else {
			p.deps.Mover.Step(dt)
			p.current = p.collisionTransform(p.deps.Mover.Location())
		}
		if p.ctx.Authority {
			p.sweep()
		}
		p.previous = p.current
	}

	p.clock.Advance(dt)
}

// arm launches the mover and shows the attachments. A skill the caster is
// no longer playing cancels the projectile instead.
func (p *Projectile) arm() bool {
	if p.spec.Skill != "" {
		if state, ok := p.deps.Actors.(world.ActionState); ok && !state.IsPlayingSkill(p.spec.Caster, p.spec.Skill) {
			p.terminate(ReasonCancelled)
			return false
		}
	}
	for _, a := range p.attachments {
		a.value.Activate()
	}
	p.deps.Mover.Launch(p.spec.Origin.Location, p.velocity, p.spec.GravityScale)
	p.previous = p.start
	p.current = p.start
	p.state = StateArmed
	return true
}

// Cancel stops the projectile on its next tick.
func (p *Projectile) Cancel() {
	if p == nil {
		return
	}
	p.active = false
}

// IsFinished reports whether the projectile has terminated.
func (p *Projectile) IsFinished() bool {
	return p == nil || p.state == StateTerminated
}

// Teardown releases the attachments. It is safe to call more than once.
func (p *Projectile) Teardown() {
	if p == nil || p.tornDown {
		return
	}
	if p.state != StateTerminated {
		p.terminate(ReasonTornDown)
	}
	p.releaseAttachments()
	p.tornDown = true
}

func (p *Projectile) terminate(reason string) {
	p.active = false
	p.state = StateTerminated
	p.reason = reason
	p.ctx.Count("projectile_terminated_total", 1)
	lifecycle.ProjectileTerminated(context.Background(), p.events, p.ctx.Tick(), p.actorRef(p.spec.Caster), lifecycle.ProjectileTerminatedPayload{
		Skill:   p.spec.Skill,
		Elapsed: p.clock.Elapsed(),
		Hits:    len(p.hits),
		Reason:  reason,
	}, nil)
}

// collisionTransform places the collision shape at a mover location,
// oriented along the travel direction.
func (p *Projectile) collisionTransform(location vecmath.Vec3) vecmath.Transform {
	travel := vecmath.Transform{
		Location: location,
		Rotation: p.direction.OrientationQuat(),
		Scale:    vecmath.One,
	}
	return p.spec.CollisionRelative.Compose(travel)
}

// State returns the lifecycle state.
func (p *Projectile) State() State {
	return p.state
}

// Reason returns why the projectile terminated.
func (p *Projectile) Reason() string {
	return p.reason
}

// Hits returns every actor the projectile has hit, in hit order.
func (p *Projectile) Hits() []world.ActorID {
	return append([]world.ActorID(nil), p.hits...)
}

// HasHit reports whether id is in the hit set.
func (p *Projectile) HasHit(id world.ActorID) bool {
	_, ok := p.hitIndex[id]
	return ok
}

func (p *Projectile) Lifetime() float64 {
	return p.lifetime
}

func (p *Projectile) Direction() vecmath.Vec3 {
	return p.direction
}

func (p *Projectile) Velocity() vecmath.Vec3 {
	return p.velocity
}

func (p *Projectile) Elapsed() float64 {
	return p.clock.Elapsed()
}

// Location returns the collision centre used by the last sweep.
func (p *Projectile) Location() vecmath.Vec3 {
	return p.previous.Location
}

// PiercesCharacters reports the effective character pierce flag.
func (p *Projectile) PiercesCharacters() bool {
	return p.pierce
}

func (p *Projectile) actorRef(id world.ActorID) logging.EntityRef {
	if world.Usable(p.deps.Actors, id) && p.deps.Actors.IsCharacter(id) {
		return logging.Character(string(id))
	}
	return logging.Object(string(id))
}
