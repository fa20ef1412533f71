// Package catalog loads designer-authored skill definitions and scenarios
// from YAML. Documents carry yaml, json and jsonschema tags so the schema
// generator reflects the same contract the loader enforces.
package catalog

import (
	"skillhit/internal/vecmath"
)

// File is the on-disk layout of a skill catalog.
type File struct {
	Areas       []AreaDocument       `yaml:"areas,omitempty" json:"areas,omitempty" jsonschema:"title=Area skills,description=Timed area-of-effect skills"`
	Projectiles []ProjectileDocument `yaml:"projectiles,omitempty" json:"projectiles,omitempty" jsonschema:"title=Projectile skills,description=Swept projectile skills"`
}

// TransformDocument is an authored transform. A missing scale is unit
// scale.
type TransformDocument struct {
	Location vecmath.Vec3  `yaml:"location,omitempty" json:"location,omitempty"`
	Pitch    float64       `yaml:"pitch,omitempty" json:"pitch,omitempty"`
	Yaw      float64       `yaml:"yaw,omitempty" json:"yaw,omitempty"`
	Roll     float64       `yaml:"roll,omitempty" json:"roll,omitempty"`
	Scale    *vecmath.Vec3 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Transform resolves the document into a transform.
func (d TransformDocument) Transform() vecmath.Transform {
	rotation := vecmath.Rotator{Pitch: d.Pitch, Yaw: d.Yaw, Roll: d.Roll}
	transform := vecmath.NewTransform(d.Location, rotation)
	if d.Scale != nil {
		transform.Scale = *d.Scale
	}
	return transform
}

// AreaDocument is one area skill. Phase times are relative: the decal
// lifetime counts from the decal delay, collision from the end of the decal
// and the area lifetime from the start of collision.
type AreaDocument struct {
	ID        string            `yaml:"id" json:"id" jsonschema:"title=Skill ID,pattern=^[a-z0-9_-]+$,minLength=1,required"`
	Shape     string            `yaml:"shape" json:"shape" jsonschema:"title=Shape,enum=sphere,enum=box,enum=capsule,enum=sector,enum=ring,required"`
	BaseUnit  float64           `yaml:"base_unit" json:"base_unit" jsonschema:"title=Base unit,description=Size of one pattern step in world units,minimum=0"`
	Collision TransformDocument `yaml:"collision,omitempty" json:"collision,omitempty" jsonschema:"description=Collision transform relative to the area origin"`
	Action    string            `yaml:"action,omitempty" json:"action,omitempty" jsonschema:"description=Caster action that keeps sounds alive after the area ends"`

	Pattern   PatternDocument    `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Decal     DecalDocument      `yaml:"decal,omitempty" json:"decal,omitempty"`
	Phases    PhaseDocument      `yaml:"phases" json:"phases" jsonschema:"required"`
	Random    RandomDocument     `yaml:"random,omitempty" json:"random,omitempty"`
	Particles []ParticleDocument `yaml:"particles,omitempty" json:"particles,omitempty"`
	Sounds    []string           `yaml:"sounds,omitempty" json:"sounds,omitempty" jsonschema:"description=One sound cue per pattern region"`
	// SyncSoundWithParticle starts each sound with the particle at the same
	// index.
	SyncSoundWithParticle bool `yaml:"sync_sound_with_particle,omitempty" json:"sync_sound_with_particle,omitempty"`
}

// PatternDocument describes the region pattern.
type PatternDocument struct {
	Count       int     `yaml:"count,omitempty" json:"count,omitempty" jsonschema:"minimum=0"`
	Offset      float64 `yaml:"offset,omitempty" json:"offset,omitempty" jsonschema:"description=Growth per region in base units. Sectors rotate by offset plus sector angle"`
	Reverse     bool    `yaml:"reverse,omitempty" json:"reverse,omitempty"`
	DelayOffset float64 `yaml:"delay_offset,omitempty" json:"delay_offset,omitempty" jsonschema:"description=Seconds between successive regions,minimum=0"`
	SectorAngle float64 `yaml:"sector_angle,omitempty" json:"sector_angle,omitempty" jsonschema:"minimum=0,maximum=360"`
	RingWidth   float64 `yaml:"ring_width,omitempty" json:"ring_width,omitempty" jsonschema:"minimum=0"`
}

// DecalDocument describes the ground decal.
type DecalDocument struct {
	Material string            `yaml:"material,omitempty" json:"material,omitempty"`
	Lifetime float64           `yaml:"lifetime,omitempty" json:"lifetime,omitempty"`
	Delay    float64           `yaml:"delay,omitempty" json:"delay,omitempty" jsonschema:"minimum=0"`
	Angle    float64           `yaml:"angle,omitempty" json:"angle,omitempty"`
	Relative TransformDocument `yaml:"relative,omitempty" json:"relative,omitempty"`
}

// PhaseDocument holds the relative collision timeline.
type PhaseDocument struct {
	CollisionDelay float64 `yaml:"collision_delay,omitempty" json:"collision_delay,omitempty" jsonschema:"minimum=0"`
	Lifetime       float64 `yaml:"lifetime" json:"lifetime" jsonschema:"minimum=0,required"`
	// SectionTime selects repeating contacts when positive.
	SectionTime float64 `yaml:"section_time,omitempty" json:"section_time,omitempty" jsonschema:"minimum=0"`
}

// RandomDocument scatters multi-area spawns around the origin.
type RandomDocument struct {
	Count     int     `yaml:"count,omitempty" json:"count,omitempty" jsonschema:"minimum=0"`
	Force     bool    `yaml:"force,omitempty" json:"force,omitempty"`
	MaxRadius float64 `yaml:"max_radius,omitempty" json:"max_radius,omitempty" jsonschema:"minimum=0"`
}

// ParticleDocument is one particle system spawned with the area.
type ParticleDocument struct {
	Template     string            `yaml:"template" json:"template" jsonschema:"minLength=1,required"`
	NeverCull    string            `yaml:"never_cull,omitempty" json:"never_cull,omitempty"`
	Relative     TransformDocument `yaml:"relative,omitempty" json:"relative,omitempty"`
	Delay        float64           `yaml:"delay,omitempty" json:"delay,omitempty" jsonschema:"minimum=0"`
	SortPriority int               `yaml:"sort_priority,omitempty" json:"sort_priority,omitempty"`
}

// ProjectileDocument is one projectile skill.
type ProjectileDocument struct {
	ID          string            `yaml:"id" json:"id" jsonschema:"title=Skill ID,pattern=^[a-z0-9_-]+$,minLength=1,required"`
	Shape       string            `yaml:"shape" json:"shape" jsonschema:"title=Shape,enum=sphere,enum=box,enum=capsule,required"`
	Extent      vecmath.Vec3      `yaml:"extent" json:"extent" jsonschema:"description=Collision half extent. Capsules use x as half height and y as radius"`
	Collision   TransformDocument `yaml:"collision,omitempty" json:"collision,omitempty"`
	Speed       float64           `yaml:"speed" json:"speed" jsonschema:"minimum=0,required"`
	Gravity     float64           `yaml:"gravity_scale,omitempty" json:"gravity_scale,omitempty"`
	MaxDistance float64           `yaml:"max_distance,omitempty" json:"max_distance,omitempty" jsonschema:"minimum=0"`
	FireDelay   float64           `yaml:"fire_delay,omitempty" json:"fire_delay,omitempty" jsonschema:"minimum=0"`
	Lifespan    *float64          `yaml:"lifespan,omitempty" json:"lifespan,omitempty" jsonschema:"description=Fallback lifetime when max_distance cannot bound the flight"`

	PierceCharacters bool `yaml:"pierce_characters,omitempty" json:"pierce_characters,omitempty"`
	PierceObjects    bool `yaml:"pierce_objects,omitempty" json:"pierce_objects,omitempty"`

	TargetBones []string `yaml:"target_bones,omitempty" json:"target_bones,omitempty"`
	AimAtBone   bool     `yaml:"aim_at_bone,omitempty" json:"aim_at_bone,omitempty"`
	YawOffset   float64  `yaml:"yaw_offset,omitempty" json:"yaw_offset,omitempty"`
	DamageIndex int      `yaml:"damage_index,omitempty" json:"damage_index,omitempty" jsonschema:"minimum=0"`
	// Forces grades hits per damage index.
	Forces []string `yaml:"forces,omitempty" json:"forces,omitempty" jsonschema:"enum=none,enum=light,enum=normal,enum=heavy,enum=knockdown"`

	Presentation PresentationDocument `yaml:"presentation,omitempty" json:"presentation,omitempty"`
}

// PresentationDocument lists projectile attachments and the hit effect.
type PresentationDocument struct {
	Trail             string   `yaml:"trail,omitempty" json:"trail,omitempty"`
	Light             string   `yaml:"light,omitempty" json:"light,omitempty"`
	Sounds            []string `yaml:"sounds,omitempty" json:"sounds,omitempty"`
	HitEffect         string   `yaml:"hit_effect,omitempty" json:"hit_effect,omitempty"`
	DestroyTrailOnHit bool     `yaml:"destroy_trail_on_hit,omitempty" json:"destroy_trail_on_hit,omitempty"`
	DisableEmitters   []string `yaml:"disable_emitters_on_hit,omitempty" json:"disable_emitters_on_hit,omitempty"`
}
