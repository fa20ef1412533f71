// Package effects is the presentation seam: decals, particles, sounds and
// projectile attachments. The hit engines only create, reveal and release
// these; how they look or sound lives behind the interfaces.
package effects

import (
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Decal is a ground projection. It is created hidden.
type Decal interface {
	Show()
	Visible() bool
	Destroy()
}

// Particle is a one-shot particle system.
type Particle interface {
	Completed() bool
	Destroy()
}

// Sound is a positional cue. It is created stopped.
type Sound interface {
	Play()
	Playing() bool
	Stop()
	// Valid reports whether the underlying voice still exists.
	Valid() bool
	Destroy()
}

// Attachment is presentation bound to a projectile: a trail, a light or a
// looping sound.
type Attachment interface {
	Activate()
	Active() bool
	// FadeOut deactivates the attachment, disabling the named emitters
	// first, and lets it expire on its own.
	FadeOut(disableEmitters []string)
	Destroy()
}

type DecalSpec struct {
	Material  string
	Transform vecmath.Transform
	Extent    vecmath.Vec3
	Lifetime  float64
}

type ParticleSpec struct {
	Template     string
	Transform    vecmath.Transform
	Delay        float64
	SortPriority int
	NeverCull    bool
}

type SoundSpec struct {
	Cue      string
	Location vecmath.Vec3
}

// AttachmentKind is the flavour of projectile presentation.
type AttachmentKind int

const (
	AttachParticle AttachmentKind = iota
	AttachLight
	AttachAudio
)

func (k AttachmentKind) String() string {
	switch k {
	case AttachLight:
		return "light"
	case AttachAudio:
		return "audio"
	default:
		return "particle"
	}
}

type AttachmentSpec struct {
	Kind     AttachmentKind
	Template string
	Owner    string
}

// HitEffectSpec anchors an impact effect to a target bone.
type HitEffectSpec struct {
	Template string
	Target   world.ActorID
	Bone     string
	// Transform is the bone transform with the effect's world rotation.
	Transform vecmath.Transform
	// LocalPlayer marks effects spawned on the viewing player's character.
	LocalPlayer bool
}

// Spawner creates visual collaborators. A nil return means nothing was
// spawned.
type Spawner interface {
	SpawnDecal(spec DecalSpec) Decal
	SpawnParticle(spec ParticleSpec) Particle
	SpawnAttachment(spec AttachmentSpec) Attachment
	SpawnHitEffect(spec HitEffectSpec) Particle
}

// Audio creates sounds.
type Audio interface {
	SpawnSound(spec SoundSpec) Sound
}
