// Package world defines the collaborator surface the hit-detection engines
// consume: non-owning actor handles, an actor accessor and a read-only
// geometry query service.
package world

import (
	"skillhit/internal/vecmath"
)

// ActorID is a non-owning handle to an actor. Holding one says nothing about
// the actor's lifetime; check Actors.Valid before every use.
type ActorID string

// NoActor is the empty handle.
const NoActor ActorID = ""

// Capsule describes an actor's upright collision capsule. HalfHeight
// includes the hemispherical caps.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

// Actors exposes actor state to the engines.
type Actors interface {
	// Valid reports whether the handle still resolves to a live object.
	Valid(id ActorID) bool
	// Alive reports whether the actor exists and has not died.
	Alive(id ActorID) bool
	Location(id ActorID) (vecmath.Vec3, bool)
	Forward(id ActorID) (vecmath.Vec3, bool)
	Capsule(id ActorID) (Capsule, bool)
	// IsCharacter separates pawns from props and other world objects.
	IsCharacter(id ActorID) bool
	BoneTransform(id ActorID, bone string) (vecmath.Transform, bool)
}

// ActionState is optionally implemented by an Actors value to report which
// action or skill an actor is currently performing.
type ActionState interface {
	IsPlayingAction(id ActorID, action string) bool
	IsPlayingSkill(id ActorID, skill string) bool
}

// Usable reports whether id is non-empty and still valid.
func Usable(actors Actors, id ActorID) bool {
	return id != NoActor && actors != nil && actors.Valid(id)
}

// UsableAlive reports whether id is valid and not dead.
func UsableAlive(actors Actors, id ActorID) bool {
	return Usable(actors, id) && actors.Alive(id)
}

// CapsuleRadius returns the actor's capsule radius for characters and zero
// for anything else, matching how shape acceptance pads characters only.
func CapsuleRadius(actors Actors, id ActorID) float64 {
	if !Usable(actors, id) || !actors.IsCharacter(id) {
		return 0
	}
	capsule, ok := actors.Capsule(id)
	if !ok {
		return 0
	}
	return capsule.Radius
}
