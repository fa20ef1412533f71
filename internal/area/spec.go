// Package area evaluates timed area-of-effect skills. A Spec is expanded
// into an ordered pattern of regions once at Init; each Tick advances the
// area timeline, manages its decal, particles and sounds, and on
// authoritative contexts reports which actors each region touches.
package area

import (
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Spec is the fully resolved description of one area instance. Phase fields
// (DecalLifetime, CollisionDelay, AreaLifetime) are absolute thresholds on
// the area clock unless RelativePhases is set.
type Spec struct {
	Skill  string
	Caster world.ActorID

	Origin            vecmath.Transform
	CollisionRelative vecmath.Transform
	Shape             world.ShapeType

	PatternCount       int
	PatternOffset      float64
	ReversePattern     bool
	PatternDelayOffset float64
	SectorAngle        float64
	RingWidth          float64
	BaseUnit           float64

	DecalMaterial string
	DecalLifetime float64
	DecalDelay    float64
	DecalRelative vecmath.Transform
	DecalAngle    float64

	CollisionDelay float64
	AreaLifetime   float64
	// SectionTime > 0 selects dot mode: contacts repeat every SectionTime
	// seconds while an actor stays inside.
	SectionTime float64

	AreaCount       int
	ForceRandomArea bool
	MaxSpawnRadius  float64
	Timestamp       float64

	Particles             []ParticleEntry
	Sounds                []SoundEntry
	SyncSoundWithParticle bool
	// ActionName is the caster action that keeps the area's sounds alive
	// past OnEnd.
	ActionName string

	// RelativePhases composes each phase onto the previous one: the decal
	// lifetime starts after the decal delay, collision after the decal and
	// the area lifetime after collision starts.
	RelativePhases bool
}

// ParticleEntry spawns a particle system relative to the area origin.
type ParticleEntry struct {
	Template          string
	NeverCullTemplate string
	Relative          vecmath.Transform
	Delay             float64
	SortPriority      int
}

// SoundEntry spawns one positional cue.
type SoundEntry struct {
	Cue string
}

// Dot reports whether the spec uses repeating dwell contacts.
func (s Spec) Dot() bool {
	return s.SectionTime > 0
}

// regionCount is the number of regions a spec asks for.
func (s Spec) regionCount() int {
	return max(s.PatternCount, 1)
}

func (s Spec) randomized() bool {
	return s.AreaCount > 1 || s.ForceRandomArea
}
