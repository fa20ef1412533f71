package app

import (
	"fmt"

	"skillhit/internal/area"
	"skillhit/internal/catalog"
	"skillhit/internal/combat"
	"skillhit/internal/effects"
	"skillhit/internal/projectile"
	"skillhit/internal/sim"
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
	"skillhit/internal/world/cpworld"
)

const (
	defaultActorRadius     = 30.0
	defaultActorHalfHeight = 90.0
	submittedCastCapacity  = 64
)

// SimulationConfig wires a scenario run.
type SimulationConfig struct {
	Catalog  *catalog.Catalog
	Scenario *catalog.Scenario
	Context  sim.Context
	TickRate int
	Effects  effects.RecorderConfig
	// Viewer is the character whose hit effects count as local.
	Viewer world.ActorID
}

// Stats counts what a run produced.
type Stats struct {
	Casts          int
	UnknownCasts   int
	AreaEnters     int
	AreaExits      int
	ProjectileHits int
	AppliedHits    int
	CatalogReloads int
	RejectedSpawns int
}

// Simulation plays a scenario against a cpworld. Apart from Submit it is
// driven from the loop goroutine only.
type Simulation struct {
	catalog  *catalog.Catalog
	scenario *catalog.Scenario
	world    *cpworld.World
	policy   *combat.TeamPolicy
	teams    map[world.ActorID]string
	effects  *effects.Recorder
	runner   *sim.Runner
	tickRate int
	viewer   world.ActorID
	// submitted holds casts staged from other goroutines.
	submitted *sim.CommandBuffer[catalog.CastDocument]

	nextCast   int
	nextAction int
	serial     int
	stats      Stats
}

var (
	_ area.Hooks            = (*Simulation)(nil)
	_ projectile.HitHandler = (*Simulation)(nil)
)

func NewSimulation(cfg SimulationConfig) (*Simulation, error) {
	if cfg.Catalog == nil || cfg.Scenario == nil {
		return nil, fmt.Errorf("simulation needs a catalog and a scenario")
	}
	if err := cfg.Scenario.CheckSkills(cfg.Catalog); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario.Name, err)
	}
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 30
	}

	w := cpworld.New()
	teams := make(map[world.ActorID]string)
	for _, doc := range cfg.Scenario.Actors {
		spec := cpworld.ActorSpec{
			ID:         world.ActorID(doc.ID),
			Location:   doc.Location,
			Yaw:        doc.Yaw,
			Radius:     doc.Radius,
			HalfHeight: doc.HalfHeight,
			Character:  doc.Character,
			Component:  doc.Component,
			Bones:      doc.Bones,
		}
		if spec.Radius <= 0 {
			spec.Radius = defaultActorRadius
		}
		if spec.HalfHeight <= 0 {
			spec.HalfHeight = defaultActorHalfHeight
		}
		if err := w.AddActor(spec); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", cfg.Scenario.Name, err)
		}
		if doc.Team != "" {
			teams[spec.ID] = doc.Team
		}
	}

	s := &Simulation{
		catalog:  cfg.Catalog,
		scenario: cfg.Scenario,
		world:    w,
		teams:    teams,
		effects:  effects.NewRecorder(cfg.Effects),
		runner:   sim.NewRunner(cfg.Context),
		tickRate: tickRate,
		viewer:   cfg.Viewer,

		submitted: sim.NewCommandBuffer[catalog.CastDocument](submittedCastCapacity, cfg.Context.Metrics),
	}
	s.policy = s.buildPolicy()
	return s, nil
}

func (s *Simulation) buildPolicy() *combat.TeamPolicy {
	pierce := make(map[string]bool, len(s.scenario.PierceSkills))
	for _, skill := range s.scenario.PierceSkills {
		pierce[skill] = true
	}
	ctx := s.runner.Context()
	publish := combat.NewHitTelemetryRecorder(combat.HitTelemetryRecorderConfig{
		Publisher:   ctx.Events(),
		CurrentTick: ctx.Tick,
	})
	return combat.NewTeamPolicy(combat.TeamPolicyConfig{
		Actors:       s.world,
		Teams:        s.teams,
		Forces:       s.catalog.Forces(),
		PierceSkills: pierce,
		OnHit: func(event combat.HitEvent) {
			s.stats.AppliedHits++
			if publish != nil {
				publish(event)
			}
		},
	})
}

// SetCatalog swaps the catalog used for later casts. Running instances keep
// the spec they started with.
func (s *Simulation) SetCatalog(c *catalog.Catalog) error {
	if c == nil {
		return fmt.Errorf("nil catalog")
	}
	if err := s.scenario.CheckSkills(c); err != nil {
		return err
	}
	s.catalog = c
	s.policy = s.buildPolicy()
	s.stats.CatalogReloads++
	return nil
}

// Submit stages a cast for the next step. It is safe to call from any
// goroutine and returns false when the staging buffer is full. The cast's
// Tick is ignored.
func (s *Simulation) Submit(doc catalog.CastDocument) bool {
	return s.submitted.Push(doc)
}

// BeforeStep applies every action and cast scheduled up to tick, then runs
// the recorded effects forward.
func (s *Simulation) BeforeStep(tick uint64, dt float64) {
	for s.nextAction < len(s.scenario.Actions) && s.scenario.Actions[s.nextAction].Tick <= tick {
		s.apply(s.scenario.Actions[s.nextAction])
		s.nextAction++
	}
	for s.nextCast < len(s.scenario.Casts) && s.scenario.Casts[s.nextCast].Tick <= tick {
		s.cast(s.scenario.Casts[s.nextCast], tick)
		s.nextCast++
	}
	for _, doc := range s.submitted.Drain() {
		s.cast(doc, tick)
	}
	s.effects.Advance(dt)
}

func (s *Simulation) apply(action catalog.ActionDocument) {
	id := world.ActorID(action.Actor)
	if action.Remove {
		s.world.RemoveActor(id)
		return
	}
	if action.MoveTo != nil || action.Yaw != nil {
		location, _ := s.world.Location(id)
		yaw := s.yaw(id)
		if action.MoveTo != nil {
			location = *action.MoveTo
		}
		if action.Yaw != nil {
			yaw = *action.Yaw
		}
		s.world.MoveActor(id, location, yaw)
	}
	for _, skill := range action.Stop {
		s.world.SetPlayingSkill(id, skill, false)
	}
	if action.Kill {
		s.world.Kill(id)
	}
}

func (s *Simulation) yaw(id world.ActorID) float64 {
	forward, ok := s.world.Forward(id)
	if !ok {
		return 0
	}
	return forward.Rotation().Yaw
}

func (s *Simulation) cast(doc catalog.CastDocument, tick uint64) {
	s.stats.Casts++
	caster := world.ActorID(doc.Caster)
	location, ok := s.world.Location(caster)
	if !ok {
		s.stats.RejectedSpawns++
		s.runner.Context().Log().Printf("cast %s at tick %d: caster %s is gone", doc.Skill, tick, caster)
		return
	}
	if doc.Origin != nil {
		location = *doc.Origin
	}
	yaw := s.yaw(caster)
	if doc.Yaw != nil {
		yaw = *doc.Yaw
	}
	origin := vecmath.NewTransform(location, vecmath.YawRotator(yaw))
	s.world.SetPlayingSkill(caster, doc.Skill, true)

	switch s.catalog.Kind(doc.Skill) {
	case catalog.KindArea:
		s.castArea(doc, caster, origin, tick)
	case catalog.KindProjectile:
		s.castProjectile(doc, caster, origin, tick)
	default:
		s.stats.UnknownCasts++
		s.runner.Context().Log().Printf("cast at tick %d: unknown skill %q", tick, doc.Skill)
	}
}

func (s *Simulation) castArea(doc catalog.CastDocument, caster world.ActorID, origin vecmath.Transform, tick uint64) {
	timestamp := float64(tick) / float64(s.tickRate)
	if doc.Timestamp != nil {
		timestamp = *doc.Timestamp
	}
	template, ok := s.catalog.AreaSpec(doc.Skill, catalog.AreaCast{})
	if !ok {
		s.rejectMissingSpec(doc.Skill, tick)
		return
	}
	if template.ActionName != "" {
		s.world.SetPlayingAction(caster, template.ActionName, true)
	}
	// Scattered copies seed from successive whole seconds.
	for i := 0; i < max(template.AreaCount, 1); i++ {
		spec, ok := s.catalog.AreaSpec(doc.Skill, catalog.AreaCast{
			Caster:    caster,
			Origin:    origin,
			Timestamp: timestamp + float64(i),
		})
		if !ok {
			s.rejectMissingSpec(doc.Skill, tick)
			return
		}
		instance := area.New(s.runner.Context(), area.Deps{
			ID:       s.instanceID(doc.Skill),
			Actors:   s.world,
			Geometry: s.world,
			Spawner:  s.effects,
			Audio:    s.effects,
			Hooks:    s,
		})
		if !instance.Init(spec) {
			s.stats.RejectedSpawns++
			continue
		}
		s.runner.Add(instance)
	}
}

func (s *Simulation) castProjectile(doc catalog.CastDocument, caster world.ActorID, origin vecmath.Transform, tick uint64) {
	spec, ok := s.catalog.ProjectileSpec(doc.Skill, catalog.ProjectileCast{
		Caster: caster,
		Target: world.ActorID(doc.Target),
		Origin: origin,
	})
	if !ok {
		s.rejectMissingSpec(doc.Skill, tick)
		return
	}
	instance := projectile.New(s.runner.Context(), projectile.Deps{
		ID:       s.instanceID(doc.Skill),
		Actors:   s.world,
		Geometry: s.world,
		Mover:    projectile.NewBallistic(),
		Resolver: s.policy,
		Spawner:  s.effects,
		Hits:     s,
		Viewer:   s.viewer,
	})
	if !instance.Fire(spec) {
		s.stats.RejectedSpawns++
		return
	}
	s.runner.Add(instance)
}

// rejectMissingSpec counts a cast whose skill kind has no matching spec.
func (s *Simulation) rejectMissingSpec(skill string, tick uint64) {
	s.stats.RejectedSpawns++
	s.runner.Context().Log().Printf("cast %s at tick %d: no spec for its kind", skill, tick)
}

func (s *Simulation) instanceID(skill string) string {
	s.serial++
	return fmt.Sprintf("%s-%d", skill, s.serial)
}

// OnAreaEnter applies a hit for every allowed character contact.
func (s *Simulation) OnAreaEnter(contact area.Contact) {
	s.stats.AreaEnters++
	if !s.world.IsCharacter(contact.Actor) || !s.policy.CanAttack(contact.Caster, contact.Actor) {
		return
	}
	from, _ := s.world.Location(contact.Caster)
	s.policy.ApplyHit(combat.HitEvent{
		Attacker:  contact.Caster,
		Target:    contact.Actor,
		Skill:     contact.Skill,
		Direction: s.policy.ClassifyHitDirection(from, contact.Actor),
		Force:     s.policy.HitForce(contact.Caster, contact.Skill, 0),
	})
}

func (s *Simulation) OnAreaExit(area.Contact) {
	s.stats.AreaExits++
}

func (s *Simulation) OnProjectileHit(projectile.Hit) {
	s.stats.ProjectileHits++
}

// Done reports whether every cast has been issued and every instance has
// finished.
func (s *Simulation) Done() bool {
	return s.nextCast >= len(s.scenario.Casts) && s.submitted.Len() == 0 && s.runner.Active() == 0
}

func (s *Simulation) Runner() *sim.Runner {
	return s.runner
}

func (s *Simulation) World() *cpworld.World {
	return s.world
}

func (s *Simulation) Effects() *effects.Recorder {
	return s.effects
}

func (s *Simulation) Policy() *combat.TeamPolicy {
	return s.policy
}

func (s *Simulation) Stats() Stats {
	return s.stats
}

// Close tears down every running instance.
func (s *Simulation) Close() {
	s.runner.Close()
}
