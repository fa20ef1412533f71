package projectile

import (
	"math"
	"testing"

	"skillhit/internal/combat"
	"skillhit/internal/effects"
	"skillhit/internal/random"
	"skillhit/internal/sim"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
	"skillhit/internal/world/cpworld"
	loggingcombat "skillhit/logging/combat"
	"skillhit/logging/lifecycle"
	"skillhit/logging/sinks"
)

var testBones = map[string]vecmath.Vec3{
	"head":  {Z: 80},
	"chest": {Z: 40},
	"foot":  {Z: -80},
}

func pawn(id string, x, y float64) cpworld.ActorSpec {
	return cpworld.ActorSpec{
		ID:         world.ActorID(id),
		Location:   vecmath.Vec3{X: x, Y: y},
		Radius:     30,
		HalfHeight: 90,
		Character:  true,
		Bones:      testBones,
	}
}

func prop(id string, x, y float64) cpworld.ActorSpec {
	return cpworld.ActorSpec{
		ID:         world.ActorID(id),
		Location:   vecmath.Vec3{X: x, Y: y},
		Radius:     30,
		HalfHeight: 50,
		Component:  "mesh",
	}
}

type recordingGeometry struct {
	world.Geometry
	sweeps []world.SweepQuery
}

func (g *recordingGeometry) Sweep(query world.SweepQuery) []world.HitResult {
	g.sweeps = append(g.sweeps, query)
	return g.Geometry.Sweep(query)
}

// stickyGeometry reports the same hits on every sweep, ignore list or not.
type stickyGeometry struct {
	hits []world.HitResult
}

func (g stickyGeometry) Overlap(world.OverlapQuery) []world.OverlapResult { return nil }

func (g stickyGeometry) Sweep(world.SweepQuery) []world.HitResult {
	return append([]world.HitResult(nil), g.hits...)
}

// jumpMover teleports a fixed distance along X each step.
type jumpMover struct {
	Ballistic
	jump float64
}

func (m *jumpMover) Step(float64) {
	m.location.X += m.jump
}

type harness struct {
	t        *testing.T
	world    *cpworld.World
	geometry *recordingGeometry
	fx       *effects.Recorder
	events   *sinks.MemorySink
	policy   *combat.TeamPolicy
	hits     []Hit
}

func newHarness(t *testing.T, actors ...cpworld.ActorSpec) *harness {
	t.Helper()
	w := cpworld.New()
	for _, spec := range append([]cpworld.ActorSpec{pawn("caster", 0, 0)}, actors...) {
		if err := w.AddActor(spec); err != nil {
			t.Fatalf("add actor %s: %v", spec.ID, err)
		}
	}
	return &harness{
		t:        t,
		world:    w,
		geometry: &recordingGeometry{Geometry: w},
		fx:       effects.NewRecorder(effects.RecorderConfig{}),
		events:   sinks.NewMemorySink(),
		policy:   combat.NewTeamPolicy(combat.TeamPolicyConfig{Actors: w}),
	}
}

func (h *harness) context() sim.Context {
	return sim.Context{Authority: true, Visual: true, Publisher: h.events, Frame: &sim.Frame{}}
}

func (h *harness) deps() Deps {
	return Deps{
		ID:       "projectile-1",
		Actors:   h.world,
		Geometry: h.geometry,
		Mover:    &Ballistic{},
		Resolver: h.policy,
		Spawner:  h.fx,
		Hits:     HitHandlerFunc(func(hit Hit) { h.hits = append(h.hits, hit) }),
	}
}

func (h *harness) fire(ctx sim.Context, deps Deps, spec Spec) *Projectile {
	h.t.Helper()
	p := New(ctx, deps)
	if !p.Fire(spec) {
		h.t.Fatalf("expected the projectile to fire")
	}
	return p
}

func tickN(p *Projectile, dt float64, n int) {
	for i := 0; i < n; i++ {
		p.Tick(dt)
	}
}

func arrowSpec() Spec {
	return Spec{
		Caster:          "caster",
		Origin:          vecmath.IdentityTransform,
		Speed:           1000,
		Shape:           world.ShapeSphere,
		CollisionExtent: vecmath.Vec3{X: 10},
		MaxDistance:     2010,
	}
}

func TestLifetime(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want float64
	}{
		{"distance", Spec{Speed: 1000, MaxDistance: 2010, CollisionExtent: vecmath.Vec3{X: 10}}, 2},
		{"distance plus delay", Spec{Speed: 500, MaxDistance: 1000, FireDelay: 0.5}, 2.5},
		{"fallback lifespan", Spec{Speed: 1000, MaxDistance: 10, CollisionExtent: vecmath.Vec3{X: 10}, UseLifetime: true, InitialLifespan: 3}, 3},
		{"delay alone beats the lifespan", Spec{Speed: 1000, UseLifetime: true, InitialLifespan: 3, FireDelay: 0.5}, 0.5},
		{"default lifespan", Spec{Speed: 1000, UseLifetime: true}, DefaultLifespan},
		{"zero speed falls back", Spec{MaxDistance: 1000, UseLifetime: true, InitialLifespan: 1}, 1},
		{"nothing to fly on", Spec{Speed: 1000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lifetime(tt.spec); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFireRejectsInvalidSpecs(t *testing.T) {
	h := newHarness(t)
	noMover := h.deps()
	noMover.Mover = nil
	noGeometry := h.deps()
	noGeometry.Geometry = nil

	tests := []struct {
		name string
		deps Deps
		spec Spec
	}{
		{"unknown caster", h.deps(), Spec{Caster: "ghost", Speed: 1000, MaxDistance: 1000}},
		{"no mover", noMover, arrowSpec()},
		{"no geometry", noGeometry, arrowSpec()},
		{"no lifetime", h.deps(), Spec{Caster: "caster", Speed: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(h.context(), tt.deps)
			if p.Fire(tt.spec) {
				t.Fatalf("expected Fire to reject the spec")
			}
			if !p.IsFinished() || p.Reason() != ReasonRejected {
				t.Fatalf("expected a rejected projectile to be finished, reason=%q", p.Reason())
			}
			p.Tick(0.1)
			if p.Elapsed() != 0 {
				t.Fatalf("expected ticks to be ignored")
			}
		})
	}
	if got := len(h.fx.Attachments()); got != 0 {
		t.Fatalf("expected no attachments for rejected specs, got %d", got)
	}
}

func TestNonPiercingProjectileStopsOnFirstCharacter(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0), pawn("b", 600, 0))
	p := h.fire(h.context(), h.deps(), arrowSpec())

	tickN(p, 0.1, 10)

	if !p.IsFinished() || p.Reason() != ReasonBlocked {
		t.Fatalf("expected the projectile blocked, state=%s reason=%q", p.State(), p.Reason())
	}
	if hits := p.Hits(); len(hits) != 1 || hits[0] != "a" {
		t.Fatalf("expected only a to be hit, got %v", hits)
	}
	if len(h.hits) != 1 || !h.hits[0].Terminal || !h.hits[0].Character {
		t.Fatalf("expected one terminal character hit, got %+v", h.hits)
	}
	if applied := h.policy.Hits(); len(applied) != 1 || applied[0].Target != "a" {
		t.Fatalf("expected the resolver to apply one hit on a, got %+v", applied)
	}
	if got := len(h.events.OfType(loggingcombat.EventProjectileBlocked)); got != 1 {
		t.Fatalf("expected one blocked event, got %d", got)
	}
	if got := len(h.events.OfType(lifecycle.EventProjectileTerminated)); got != 1 {
		t.Fatalf("expected one terminated event, got %d", got)
	}
}

func TestPiercingProjectileKeepsFlying(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0), pawn("b", 600, 0))
	spec := arrowSpec()
	spec.PierceCharacters = true
	p := h.fire(h.context(), h.deps(), spec)

	tickN(p, 0.1, 10)

	if p.IsFinished() {
		t.Fatalf("expected a piercing projectile to stay active, reason=%q", p.Reason())
	}
	if p.State() != StateFlying {
		t.Fatalf("expected flying, got %s", p.State())
	}
	if hits := p.Hits(); len(hits) != 2 || hits[0] != "a" || hits[1] != "b" {
		t.Fatalf("expected a then b, got %v", hits)
	}
	for _, hit := range h.hits {
		if hit.Terminal {
			t.Fatalf("expected no terminal hits, got %+v", hit)
		}
	}
}

func TestHitSetOnlyGrows(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0))
	spec := arrowSpec()
	spec.PierceCharacters = true
	p := h.fire(h.context(), h.deps(), spec)

	tickN(p, 0.1, 4)
	if !p.HasHit("a") {
		t.Fatalf("expected a to be hit by now")
	}
	hitAt := len(h.geometry.sweeps)
	tickN(p, 0.1, 5)

	for _, query := range h.geometry.sweeps[hitAt:] {
		if !world.Ignores(query.Ignore, "a") {
			t.Fatalf("expected every later sweep to ignore a, got %v", query.Ignore)
		}
		if !world.Ignores(query.Ignore, "caster") || !world.Ignores(query.Ignore, "projectile-1") {
			t.Fatalf("expected the caster and projectile to be ignored, got %v", query.Ignore)
		}
	}
	if len(h.hits) != 1 {
		t.Fatalf("expected a single dispatch, got %d", len(h.hits))
	}
}

func TestHitSetFiltersGeometryThatIgnoresExclusions(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0))
	deps := h.deps()
	deps.Geometry = stickyGeometry{hits: []world.HitResult{
		{Actor: "caster", Blocking: true},
		{Actor: "a", Blocking: true},
		{Actor: "ghost", Blocking: true},
		{Actor: "a", Blocking: false},
	}}
	spec := arrowSpec()
	spec.PierceCharacters = true
	p := h.fire(h.context(), deps, spec)

	tickN(p, 0.1, 5)

	if hits := p.Hits(); len(hits) != 1 || hits[0] != "a" {
		t.Fatalf("expected only a, once, got %v", hits)
	}
	if len(h.hits) != 1 {
		t.Fatalf("expected a single dispatch, got %d", len(h.hits))
	}
}

func TestObjectPierceFlag(t *testing.T) {
	for _, pierce := range []bool{false, true} {
		h := newHarness(t, prop("crate", 300, 0), pawn("b", 600, 0))
		spec := arrowSpec()
		spec.PierceObjects = pierce
		p := h.fire(h.context(), h.deps(), spec)

		tickN(p, 0.1, 10)

		hits := p.Hits()
		if pierce {
			if len(hits) != 2 || hits[0] != "crate" || hits[1] != "b" {
				t.Fatalf("pierce objects: expected crate then b, got %v", hits)
			}
			continue
		}
		if len(hits) != 1 || hits[0] != "crate" || p.Reason() != ReasonBlocked {
			t.Fatalf("solid objects: expected the crate to stop it, got %v (%q)", hits, p.Reason())
		}
		if len(h.policy.Hits()) != 0 {
			t.Fatalf("expected object hits to skip the resolver")
		}
		if len(h.hits) != 1 || h.hits[0].Character {
			t.Fatalf("expected one object hit dispatched, got %+v", h.hits)
		}
	}
}

func TestDisallowedHitStillCountsAndStops(t *testing.T) {
	h := newHarness(t, pawn("ally", 300, 0), pawn("b", 600, 0))
	h.policy = combat.NewTeamPolicy(combat.TeamPolicyConfig{
		Actors: h.world,
		Teams:  map[world.ActorID]string{"caster": "red", "ally": "red"},
	})
	spec := arrowSpec()
	spec.TargetBones = []string{"head"}
	spec.Presentation.HitEffect = "spark"
	p := h.fire(h.context(), h.deps(), spec)

	tickN(p, 0.1, 10)

	if hits := p.Hits(); len(hits) != 1 || hits[0] != "ally" {
		t.Fatalf("expected the ally to be counted, got %v", hits)
	}
	if p.Reason() != ReasonBlocked {
		t.Fatalf("expected the ally to stop the projectile, got %q", p.Reason())
	}
	if len(h.hits) != 0 || len(h.policy.Hits()) != 0 {
		t.Fatalf("expected no dispatch for a disallowed hit")
	}
	if len(h.fx.HitEffects()) != 0 {
		t.Fatalf("expected no hit effect for a disallowed hit")
	}
	events := h.events.OfType(loggingcombat.EventProjectileHit)
	if len(events) != 1 || events[0].Payload.(loggingcombat.ProjectileHitPayload).Allowed {
		t.Fatalf("expected one disallowed hit event, got %+v", events)
	}
}

func TestResolverGrantsPierce(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0), pawn("b", 600, 0))
	h.policy = combat.NewTeamPolicy(combat.TeamPolicyConfig{
		Actors:       h.world,
		PierceSkills: map[string]bool{"volley": true},
		Forces:       map[string][]combat.HitForce{"volley": {combat.HitForceLight, combat.HitForceHeavy}},
	})
	h.world.SetPlayingSkill("caster", "volley", true)
	spec := arrowSpec()
	spec.Skill = "volley"
	spec.DamageIndex = 1
	p := h.fire(h.context(), h.deps(), spec)
	if !p.PiercesCharacters() {
		t.Fatalf("expected the resolver to grant pierce")
	}

	tickN(p, 0.1, 10)

	if len(p.Hits()) != 2 {
		t.Fatalf("expected both targets hit, got %v", p.Hits())
	}
	for _, hit := range h.hits {
		if hit.Force != combat.HitForceHeavy || hit.DamageIndex != 1 || hit.Skill != "volley" {
			t.Fatalf("unexpected hit %+v", hit.HitEvent)
		}
	}
}

func TestHitDirectionUsesLaunchPoint(t *testing.T) {
	target := pawn("a", 300, 0)
	target.Yaw = 0
	h := newHarness(t, target)
	p := h.fire(h.context(), h.deps(), arrowSpec())

	tickN(p, 0.1, 5)

	if len(h.hits) != 1 || h.hits[0].Direction != combat.HitBack {
		t.Fatalf("expected a hit from behind on a target facing away, got %+v", h.hits)
	}
}

func TestHitEffectAnchorsToNearestBone(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0))
	spec := arrowSpec()
	spec.TargetBones = []string{"head", "chest"}
	spec.Presentation = Presentation{
		Trail:                "trail",
		Light:                "glow",
		HitEffect:            "spark",
		DisableEmittersOnHit: []string{"sparks"},
	}
	deps := h.deps()
	deps.Viewer = "a"
	p := h.fire(h.context(), deps, spec)

	tickN(p, 0.1, 5)

	effectsSpawned := h.fx.HitEffects()
	if len(effectsSpawned) != 1 {
		t.Fatalf("expected one hit effect, got %d", len(effectsSpawned))
	}
	spawned := effectsSpawned[0].HitEffect
	if spawned.Bone != "chest" || spawned.Target != "a" || !spawned.LocalPlayer {
		t.Fatalf("unexpected hit effect %+v", spawned)
	}
	if !vecmath.NearlyEqual(spawned.Transform.Location, vecmath.Vec3{X: 300, Z: 40}, 1e-6) {
		t.Fatalf("expected the effect at the chest bone, got %+v", spawned.Transform.Location)
	}
	if !vecmath.NearlyEqual(spawned.Transform.Rotation.Forward(), vecmath.Right, 1e-6) {
		t.Fatalf("expected the effect turned 90 degrees from travel, got %+v", spawned.Transform.Rotation.Forward())
	}
	for _, a := range h.fx.Attachments() {
		faded, emitters := a.Faded()
		if !faded {
			t.Fatalf("expected %s to fade on hit", a.Spec.Template)
		}
		if a.Spec.Kind == effects.AttachParticle && (len(emitters) != 1 || emitters[0] != "sparks") {
			t.Fatalf("expected the trail to disable its hit emitters, got %v", emitters)
		}
	}
}

func TestHitEffectSkippedWhenPiercingOrNonVisual(t *testing.T) {
	spec := arrowSpec()
	spec.TargetBones = []string{"head"}
	spec.Presentation.HitEffect = "spark"

	h := newHarness(t, pawn("a", 300, 0))
	pierce := spec
	pierce.PierceCharacters = true
	tickN(h.fire(h.context(), h.deps(), pierce), 0.1, 5)
	if len(h.fx.HitEffects()) != 0 {
		t.Fatalf("expected no hit effect while piercing")
	}

	h = newHarness(t, pawn("a", 300, 0))
	ctx := h.context()
	ctx.Visual = false
	p := h.fire(ctx, h.deps(), spec)
	tickN(p, 0.1, 5)
	if len(h.fx.HitEffects()) != 0 || len(h.fx.Attachments()) != 0 {
		t.Fatalf("expected no presentation in a non-visual context")
	}
	if p.Reason() != ReasonBlocked {
		t.Fatalf("expected the hit to still stop the projectile, got %q", p.Reason())
	}
}

func TestFireDelayHoldsUntilArmed(t *testing.T) {
	h := newHarness(t)
	spec := arrowSpec()
	spec.FireDelay = 0.25
	spec.Presentation.Trail = "trail"
	p := h.fire(h.context(), h.deps(), spec)
	trail := h.fx.Attachments()[0]

	tickN(p, 0.1, 3)
	if p.State() != StateIdle || trail.Active() {
		t.Fatalf("expected the projectile idle and hidden during the delay, state=%s", p.State())
	}
	if len(h.geometry.sweeps) != 0 {
		t.Fatalf("expected no sweeps during the delay")
	}
	tickN(p, 0.1, 1)
	if p.State() != StateFlying || !trail.Active() {
		t.Fatalf("expected the projectile armed after the delay, state=%s", p.State())
	}
}

func TestArmingCancelledWhenSkillStopped(t *testing.T) {
	h := newHarness(t)
	spec := arrowSpec()
	spec.Skill = "snipe"
	spec.FireDelay = 0.1

	h.world.SetPlayingSkill("caster", "snipe", true)
	p := h.fire(h.context(), h.deps(), spec)
	p.Tick(0.1)
	h.world.SetPlayingSkill("caster", "snipe", false)
	p.Tick(0.1)

	if !p.IsFinished() || p.Reason() != ReasonCancelled {
		t.Fatalf("expected cancellation at arm time, got %q", p.Reason())
	}
	if len(h.geometry.sweeps) != 0 {
		t.Fatalf("expected no sweeps after cancellation")
	}
}

func TestNonAuthorityNeverSweeps(t *testing.T) {
	h := newHarness(t, pawn("a", 300, 0))
	ctx := h.context()
	ctx.Authority = false
	p := h.fire(ctx, h.deps(), arrowSpec())

	tickN(p, 0.1, 10)

	if len(h.geometry.sweeps) != 0 || len(p.Hits()) != 0 {
		t.Fatalf("expected no sweeps without authority")
	}
	if p.State() != StateArmed {
		t.Fatalf("expected the projectile to stay armed, got %s", p.State())
	}
}

func TestLifetimeExpiry(t *testing.T) {
	h := newHarness(t)
	spec := arrowSpec()
	spec.MaxDistance = 310
	p := h.fire(h.context(), h.deps(), spec)

	tickN(p, 0.1, 3)
	if p.IsFinished() {
		t.Fatalf("expected the projectile alive before its lifetime")
	}
	tickN(p, 0.1, 2)
	if !p.IsFinished() || p.Reason() != ReasonExpired {
		t.Fatalf("expected expiry, got %q", p.Reason())
	}
}

func TestSweepClampsToTravelEnd(t *testing.T) {
	h := newHarness(t)
	deps := h.deps()
	deps.Mover = &jumpMover{jump: 1000}
	spec := arrowSpec()
	spec.MaxDistance = 250
	p := h.fire(h.context(), deps, spec)

	p.Tick(0.01)
	p.Tick(0.01)

	if len(h.geometry.sweeps) != 2 {
		t.Fatalf("expected two sweeps, got %d", len(h.geometry.sweeps))
	}
	last := h.geometry.sweeps[1]
	if !vecmath.NearlyEqual(last.End, vecmath.Vec3{X: 240}, 1e-9) {
		t.Fatalf("expected the sweep clamped to x=240, got %+v", last.End)
	}
	if !vecmath.NearlyEqual(p.Location(), vecmath.Vec3{X: 240}, 1e-9) {
		t.Fatalf("expected the previous transform to record the clamp, got %+v", p.Location())
	}
}

func TestSweepShapes(t *testing.T) {
	extent := vecmath.Vec3{X: 40, Y: 10, Z: 5}
	shape, _ := sweepShape(Spec{Shape: world.ShapeSphere, CollisionExtent: extent}, vecmath.Identity)
	if shape != world.SphereShape(40) {
		t.Fatalf("unexpected sphere %+v", shape)
	}
	shape, _ = sweepShape(Spec{Shape: world.ShapeBox, CollisionExtent: extent}, vecmath.Identity)
	if shape != world.BoxShape(extent) {
		t.Fatalf("unexpected box %+v", shape)
	}
	shape, rotation := sweepShape(Spec{Shape: world.ShapeCapsule, CollisionExtent: extent}, vecmath.Identity)
	if shape != world.CapsuleShape(10, 40) {
		t.Fatalf("unexpected capsule %+v", shape)
	}
	if !vecmath.NearlyEqual(rotation.Up(), vecmath.Vec3{X: -1}, 1e-9) && !vecmath.NearlyEqual(rotation.Up(), vecmath.Forward, 1e-9) {
		t.Fatalf("expected the capsule axis along travel, got %+v", rotation.Up())
	}
}

func TestCasterRemovalTerminates(t *testing.T) {
	h := newHarness(t)
	p := h.fire(h.context(), h.deps(), arrowSpec())
	p.Tick(0.1)
	h.world.RemoveActor("caster")
	p.Tick(0.1)
	if !p.IsFinished() || p.Reason() != ReasonCasterLost {
		t.Fatalf("expected caster loss to terminate, got %q", p.Reason())
	}
}

func TestCancelTerminatesOnNextTick(t *testing.T) {
	h := newHarness(t)
	p := h.fire(h.context(), h.deps(), arrowSpec())
	p.Cancel()
	if p.IsFinished() {
		t.Fatalf("expected cancel to take effect on the next tick")
	}
	p.Tick(0.1)
	if !p.IsFinished() || p.Reason() != ReasonCancelled {
		t.Fatalf("expected cancellation, got %q", p.Reason())
	}
}

func TestTeardownReleasesAttachmentsOnce(t *testing.T) {
	h := newHarness(t)
	spec := arrowSpec()
	spec.Presentation = Presentation{Trail: "trail", Light: "glow", Sounds: []string{"whoosh"}, DestroyTrailOnHit: true}
	p := h.fire(h.context(), h.deps(), spec)
	p.Tick(0.1)

	p.Teardown()
	p.Teardown()

	attachments := h.fx.Attachments()
	if len(attachments) != 3 {
		t.Fatalf("expected three attachments, got %d", len(attachments))
	}
	for _, a := range attachments {
		faded, _ := a.Faded()
		switch a.Spec.Kind {
		case effects.AttachParticle:
			if !a.Destroyed() {
				t.Fatalf("expected the trail destroyed")
			}
		default:
			if !faded {
				t.Fatalf("expected attachment kind %d to fade", a.Spec.Kind)
			}
		}
	}
	terminated := h.events.OfType(lifecycle.EventProjectileTerminated)
	if len(terminated) != 1 || terminated[0].Payload.(lifecycle.ProjectileTerminatedPayload).Reason != ReasonTornDown {
		t.Fatalf("expected one torn_down event, got %+v", terminated)
	}
}

func TestLaunchDirection(t *testing.T) {
	w := cpworld.New()
	caster := pawn("caster", 0, 0)
	caster.Yaw = 90
	for _, spec := range []cpworld.ActorSpec{caster, pawn("target", 500, 0)} {
		if err := w.AddActor(spec); err != nil {
			t.Fatalf("add actor: %v", err)
		}
	}

	dir, bone := LaunchDirection(Spec{Caster: "caster"}, w, nil)
	if bone != "" || !vecmath.NearlyEqual(dir, vecmath.Right, 1e-9) {
		t.Fatalf("expected the caster's forward, got %+v (%q)", dir, bone)
	}

	aimed := Spec{Caster: "caster", Target: "target", AimAtBone: true, TargetBones: []string{"head"}}
	dir, bone = LaunchDirection(aimed, w, nil)
	want := vecmath.Vec3{X: 500, Z: 80}.SafeNormal()
	if bone != "head" || !vecmath.NearlyEqual(dir, want, 1e-9) {
		t.Fatalf("expected aim at the head, got %+v (%q)", dir, bone)
	}

	aimed.YawOffset = 90
	dir, _ = LaunchDirection(aimed, w, nil)
	if math.Abs(dir.X) > 1e-9 || dir.Y <= 0 || math.Abs(dir.Size()-1) > 1e-9 {
		t.Fatalf("expected the yaw offset to turn the aim toward +Y, got %+v", dir)
	}

	aimed.YawOffset = 0
	aimed.Target = "ghost"
	if dir, bone = LaunchDirection(aimed, w, nil); bone != "" || !vecmath.NearlyEqual(dir, vecmath.Right, 1e-9) {
		t.Fatalf("expected a missing target to fall back to forward, got %+v (%q)", dir, bone)
	}
}

func TestLaunchDirectionPicksCandidateBones(t *testing.T) {
	w := cpworld.New()
	for _, spec := range []cpworld.ActorSpec{pawn("caster", 0, 0), pawn("target", 500, 0)} {
		if err := w.AddActor(spec); err != nil {
			t.Fatalf("add actor: %v", err)
		}
	}
	spec := Spec{Caster: "caster", Target: "target", AimAtBone: true, TargetBones: []string{"head", "chest", "foot"}}
	rng := random.NewStream(7)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		_, bone := LaunchDirection(spec, w, rng)
		if _, ok := testBones[bone]; !ok {
			t.Fatalf("unexpected bone %q", bone)
		}
		seen[bone] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected every candidate to be picked eventually, got %v", seen)
	}
}

func TestNearestBone(t *testing.T) {
	w := cpworld.New()
	if err := w.AddActor(pawn("target", 500, 0)); err != nil {
		t.Fatalf("add actor: %v", err)
	}
	bone, transform, ok := NearestBone(w, "target", []string{"head", "chest", "foot", "missing"}, vecmath.Vec3{X: 500, Z: 30})
	if !ok || bone != "chest" {
		t.Fatalf("expected chest, got %q (%v)", bone, ok)
	}
	if !vecmath.NearlyEqual(transform.Location, vecmath.Vec3{X: 500, Z: 40}, 1e-9) {
		t.Fatalf("unexpected chest transform %+v", transform.Location)
	}
	if _, _, ok := NearestBone(w, "target", []string{"missing"}, vecmath.Zero); ok {
		t.Fatalf("expected no bone when none resolve")
	}
}

func TestBallisticMover(t *testing.T) {
	m := NewBallistic()
	m.Step(0.1)
	if m.Location() != vecmath.Zero {
		t.Fatalf("expected steps before launch to be ignored")
	}
	m.Launch(vecmath.Zero, vecmath.Vec3{X: 1000}, 1)
	m.Step(0.1)
	if !vecmath.NearlyEqual(m.Velocity(), vecmath.Vec3{X: 1000, Z: -98}, 1e-9) {
		t.Fatalf("unexpected velocity %+v", m.Velocity())
	}
	if !vecmath.NearlyEqual(m.Location(), vecmath.Vec3{X: 100, Z: -9.8}, 1e-9) {
		t.Fatalf("unexpected location %+v", m.Location())
	}
	m.Step(-1)
	if !vecmath.NearlyEqual(m.Location(), vecmath.Vec3{X: 100, Z: -9.8}, 1e-9) {
		t.Fatalf("expected negative steps to be ignored")
	}
}
