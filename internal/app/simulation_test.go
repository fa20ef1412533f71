package app

import (
	"strings"
	"testing"

	"skillhit/internal/catalog"
	"skillhit/internal/sim"
	"skillhit/internal/telemetry"
	"skillhit/internal/vecmath"
	"skillhit/logging/sinks"
)

const testCatalog = `
areas:
  - id: burst
    shape: sphere
    base_unit: 200
    phases:
      lifetime: 1
  - id: scatter
    shape: sphere
    base_unit: 50
    phases:
      lifetime: 0.5
    random:
      count: 3
      max_radius: 100
projectiles:
  - id: bolt
    shape: sphere
    extent: {x: 10}
    speed: 1000
    max_distance: 1010
    forces: [heavy]
  - id: slow_bolt
    shape: sphere
    extent: {x: 10}
    speed: 1000
    max_distance: 1010
    fire_delay: 0.5
`

const testScenario = `
name: skirmish
frames: 60
actors:
  - {id: hero, location: {x: 0, y: 0, z: 90}, character: true, team: blue}
  - {id: rat, location: {x: 150, y: 0, z: 90}, character: true, team: red}
  - {id: squire, location: {x: -150, y: 0, z: 90}, character: true, team: blue}
`

type fixture struct {
	sim     *Simulation
	events  *sinks.MemorySink
	metrics *telemetry.Counters
}

func newFixture(t *testing.T, scenarioTail string) fixture {
	t.Helper()
	skills, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	scenario, err := catalog.ParseScenario([]byte(testScenario + scenarioTail))
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	events := sinks.NewMemorySink()
	metrics := telemetry.NewCounters()
	s, err := NewSimulation(SimulationConfig{
		Catalog:  skills,
		Scenario: scenario,
		Context:  sim.Context{Authority: true, Visual: true, Publisher: events, Metrics: metrics},
		TickRate: 30,
	})
	if err != nil {
		t.Fatalf("simulation: %v", err)
	}
	return fixture{sim: s, events: events, metrics: metrics}
}

func (f fixture) run(frames int) {
	dt := 1.0 / 30
	for tick := 1; tick <= frames; tick++ {
		f.sim.BeforeStep(uint64(tick), dt)
		f.sim.Runner().Step(dt)
	}
}

func TestAreaCastHitsEnemiesOnly(t *testing.T) {
	f := newFixture(t, "casts:\n  - {tick: 1, caster: hero, skill: burst}\n")
	f.run(60)

	stats := f.sim.Stats()
	if stats.AreaEnters != 2 {
		t.Fatalf("expected the rat and the squire to enter, got %d", stats.AreaEnters)
	}
	if stats.AppliedHits != 1 {
		t.Fatalf("expected only the rat to be hit, got %d", stats.AppliedHits)
	}
	hits := f.sim.Policy().Hits()
	if len(hits) != 1 || hits[0].Target != "rat" || hits[0].Skill != "burst" {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if !f.sim.Done() {
		t.Fatalf("expected the area to have finished after a second, active=%d", f.sim.Runner().Active())
	}
	if got := f.metrics.Snapshot()["area_spawned_total"]; got != 1 {
		t.Fatalf("expected one spawned area, got %d", got)
	}
}

func TestProjectileCastAppliesForce(t *testing.T) {
	f := newFixture(t, "casts:\n  - {tick: 1, caster: hero, skill: bolt}\n")
	f.run(30)

	stats := f.sim.Stats()
	if stats.ProjectileHits != 1 || stats.AppliedHits != 1 {
		t.Fatalf("expected one projectile hit, got %+v", stats)
	}
	hits := f.sim.Policy().Hits()
	if len(hits) != 1 || hits[0].Target != "rat" || hits[0].Force.String() != "heavy" {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if f.sim.Runner().Active() != 0 {
		t.Fatalf("expected the blocked projectile to be reaped")
	}
}

func TestStoppingSkillCancelsPendingProjectile(t *testing.T) {
	f := newFixture(t, "casts:\n  - {tick: 1, caster: hero, skill: slow_bolt}\nactions:\n  - {tick: 5, actor: hero, stop: [slow_bolt]}\n")
	f.run(30)

	if stats := f.sim.Stats(); stats.ProjectileHits != 0 {
		t.Fatalf("expected no hits after cancellation, got %+v", stats)
	}
	if got := f.metrics.Snapshot()["projectile_terminated_total"]; got != 1 {
		t.Fatalf("expected one termination, got %d", got)
	}
}

func TestScatteredAreaSpawnsEveryCopy(t *testing.T) {
	f := newFixture(t, "casts:\n  - {tick: 1, caster: hero, skill: scatter, timestamp: 7}\n")
	f.run(1)

	if got := f.sim.Runner().Spawned(); got != 3 {
		t.Fatalf("expected three areas, got %d", got)
	}
}

func TestCastFromRemovedCasterIsRejected(t *testing.T) {
	f := newFixture(t, "casts:\n  - {tick: 3, caster: hero, skill: burst}\nactions:\n  - {tick: 2, actor: hero, remove: true}\n")
	f.run(5)

	stats := f.sim.Stats()
	if stats.Casts != 1 || stats.RejectedSpawns != 1 || f.sim.Runner().Spawned() != 0 {
		t.Fatalf("expected the cast to be rejected, got %+v", stats)
	}
}

func TestMoveActionRepositionsActor(t *testing.T) {
	f := newFixture(t, "actions:\n  - {tick: 1, actor: rat, move_to: {x: 500, y: 0, z: 90}, yaw: 180}\n")
	f.run(1)

	location, ok := f.sim.World().Location("rat")
	if !ok || location.X != 500 {
		t.Fatalf("expected the rat at x=500, got %+v", location)
	}
	forward, _ := f.sim.World().Forward("rat")
	if forward.X > -0.99 {
		t.Fatalf("expected the rat to face -X, got %+v", forward)
	}
}

func TestSetCatalog(t *testing.T) {
	f := newFixture(t, "casts:\n  - {tick: 1, caster: hero, skill: bolt}\n")

	missing, err := catalog.Parse([]byte("areas:\n  - id: burst\n    shape: sphere\n    phases: {lifetime: 1}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := f.sim.SetCatalog(missing); err == nil || !strings.Contains(err.Error(), "bolt") {
		t.Fatalf("expected a catalog without bolt to be refused, got %v", err)
	}

	replacement, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := f.sim.SetCatalog(replacement); err != nil {
		t.Fatalf("set catalog: %v", err)
	}
	if got := f.sim.Stats().CatalogReloads; got != 1 {
		t.Fatalf("expected one reload, got %d", got)
	}
}

func TestNewSimulationChecksSkills(t *testing.T) {
	skills, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	scenario, err := catalog.ParseScenario([]byte(testScenario + "casts:\n  - {tick: 1, caster: hero, skill: meteor}\n"))
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	if _, err := NewSimulation(SimulationConfig{Catalog: skills, Scenario: scenario}); err == nil {
		t.Fatalf("expected an unknown skill to fail")
	}
}

func TestSubmittedCastRunsOnNextStep(t *testing.T) {
	f := newFixture(t, "")
	if !f.sim.Submit(catalog.CastDocument{Caster: "hero", Skill: "bolt"}) {
		t.Fatalf("expected the submit to be staged")
	}
	if f.sim.Done() {
		t.Fatalf("expected a staged cast to keep the run alive")
	}
	f.run(30)

	stats := f.sim.Stats()
	if stats.Casts != 1 || stats.ProjectileHits != 1 {
		t.Fatalf("expected the submitted bolt to hit, got %+v", stats)
	}
	if !f.sim.Done() {
		t.Fatalf("expected the run to be spent")
	}
}

func TestCastWithoutMatchingSpecIsRejected(t *testing.T) {
	f := newFixture(t, "")
	origin, ok := f.sim.World().Location("hero")
	if !ok {
		t.Fatalf("expected the hero in the world")
	}
	transform := vecmath.NewTransform(origin, vecmath.YawRotator(0))

	// burst is an area, so there is no projectile spec for it, and the reverse for bolt.
	f.sim.castProjectile(catalog.CastDocument{Caster: "hero", Skill: "burst"}, "hero", transform, 1)
	f.sim.castArea(catalog.CastDocument{Caster: "hero", Skill: "bolt"}, "hero", transform, 1)

	if got := f.sim.Stats().RejectedSpawns; got != 2 {
		t.Fatalf("expected both casts to be rejected, got %d", got)
	}
	if got := f.sim.Runner().Spawned(); got != 0 {
		t.Fatalf("expected nothing to spawn, got %d", got)
	}
}
