package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"skillhit/internal/vecmath"
)

// Scenario is a scripted run: the actors on the field, and what happens to
// them on which frame.
type Scenario struct {
	Name   string `yaml:"name" json:"name" jsonschema:"minLength=1,required"`
	Frames uint64 `yaml:"frames,omitempty" json:"frames,omitempty" jsonschema:"description=Frames to run when the runtime does not override it"`

	Actors []ActorDocument `yaml:"actors" json:"actors" jsonschema:"required"`
	// PierceSkills lists skills whose projectiles the scenario's combat
	// policy lets through characters.
	PierceSkills []string         `yaml:"pierce_skills,omitempty" json:"pierce_skills,omitempty"`
	Casts        []CastDocument   `yaml:"casts,omitempty" json:"casts,omitempty"`
	Actions      []ActionDocument `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// ActorDocument places one actor.
type ActorDocument struct {
	ID         string                  `yaml:"id" json:"id" jsonschema:"minLength=1,required"`
	Location   vecmath.Vec3            `yaml:"location" json:"location"`
	Yaw        float64                 `yaml:"yaw,omitempty" json:"yaw,omitempty"`
	Radius     float64                 `yaml:"radius,omitempty" json:"radius,omitempty" jsonschema:"minimum=0"`
	HalfHeight float64                 `yaml:"half_height,omitempty" json:"half_height,omitempty" jsonschema:"minimum=0"`
	Character  bool                    `yaml:"character,omitempty" json:"character,omitempty"`
	Component  string                  `yaml:"component,omitempty" json:"component,omitempty"`
	Team       string                  `yaml:"team,omitempty" json:"team,omitempty"`
	Bones      map[string]vecmath.Vec3 `yaml:"bones,omitempty" json:"bones,omitempty" jsonschema:"description=Bone offsets in the actor's local frame"`
}

// CastDocument fires a skill on a frame. The origin defaults to the
// caster's location and facing.
type CastDocument struct {
	Tick      uint64        `yaml:"tick" json:"tick"`
	Caster    string        `yaml:"caster" json:"caster" jsonschema:"minLength=1,required"`
	Skill     string        `yaml:"skill" json:"skill" jsonschema:"minLength=1,required"`
	Target    string        `yaml:"target,omitempty" json:"target,omitempty"`
	Origin    *vecmath.Vec3 `yaml:"origin,omitempty" json:"origin,omitempty"`
	Yaw       *float64      `yaml:"yaw,omitempty" json:"yaw,omitempty"`
	Timestamp *float64      `yaml:"timestamp,omitempty" json:"timestamp,omitempty" jsonschema:"description=Seed time for area scatter. Defaults to the cast time in seconds"`
}

// ActionDocument changes an actor on a frame.
type ActionDocument struct {
	Tick   uint64        `yaml:"tick" json:"tick"`
	Actor  string        `yaml:"actor" json:"actor" jsonschema:"minLength=1,required"`
	MoveTo *vecmath.Vec3 `yaml:"move_to,omitempty" json:"move_to,omitempty"`
	Yaw    *float64      `yaml:"yaw,omitempty" json:"yaw,omitempty"`
	Kill   bool          `yaml:"kill,omitempty" json:"kill,omitempty"`
	Remove bool          `yaml:"remove,omitempty" json:"remove,omitempty"`
	// Stop ends skills the actor is playing, cancelling projectiles that
	// have not launched yet.
	Stop []string `yaml:"stop,omitempty" json:"stop,omitempty"`
}

// LoadScenario reads and validates the scenario at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. Casts and actions are
// sorted by tick, keeping authored order within a tick.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := decodeStrict(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(scenario.Casts, func(i, j int) bool {
		return scenario.Casts[i].Tick < scenario.Casts[j].Tick
	})
	sort.SliceStable(scenario.Actions, func(i, j int) bool {
		return scenario.Actions[i].Tick < scenario.Actions[j].Tick
	})
	return &scenario, nil
}

// Validate checks actor references. Skill references are checked against a
// catalog at cast time, since the catalog may be reloaded.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario needs a name")
	}
	actors := make(map[string]struct{}, len(s.Actors))
	var errs []error
	for i, actor := range s.Actors {
		if actor.ID == "" {
			errs = append(errs, fmt.Errorf("actors[%d]: missing id", i))
			continue
		}
		if _, dup := actors[actor.ID]; dup {
			errs = append(errs, fmt.Errorf("actors[%d]: duplicate id %q", i, actor.ID))
		}
		if !nonNegative(actor.Radius, actor.HalfHeight) {
			errs = append(errs, fmt.Errorf("actors[%d]: radius and half_height must be non-negative", i))
		}
		actors[actor.ID] = struct{}{}
	}
	known := func(id string) bool {
		_, ok := actors[id]
		return ok
	}
	for i, cast := range s.Casts {
		if !known(cast.Caster) {
			errs = append(errs, fmt.Errorf("casts[%d]: unknown caster %q", i, cast.Caster))
		}
		if cast.Target != "" && !known(cast.Target) {
			errs = append(errs, fmt.Errorf("casts[%d]: unknown target %q", i, cast.Target))
		}
		if cast.Skill == "" {
			errs = append(errs, fmt.Errorf("casts[%d]: missing skill", i))
		}
	}
	for i, action := range s.Actions {
		if !known(action.Actor) {
			errs = append(errs, fmt.Errorf("actions[%d]: unknown actor %q", i, action.Actor))
		}
	}
	return errors.Join(errs...)
}

// CheckSkills reports casts whose skill the catalog does not define.
func (s *Scenario) CheckSkills(c *Catalog) error {
	var errs []error
	for i, cast := range s.Casts {
		if c.Kind(cast.Skill) == KindUnknown {
			errs = append(errs, fmt.Errorf("casts[%d]: unknown skill %q", i, cast.Skill))
		}
	}
	return errors.Join(errs...)
}
