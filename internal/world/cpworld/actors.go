package cpworld

import (
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

var (
	_ world.Actors      = (*World)(nil)
	_ world.ActionState = (*World)(nil)
	_ world.Geometry    = (*World)(nil)
)

func (w *World) Valid(id world.ActorID) bool {
	_, _, ok := w.lookup(id)
	return ok
}

func (w *World) Alive(id world.ActorID) bool {
	_, alive, ok := w.lookup(id)
	return ok && alive
}

func (w *World) Location(id world.ActorID) (vecmath.Vec3, bool) {
	spec, _, ok := w.lookup(id)
	return spec.Location, ok
}

func (w *World) Forward(id world.ActorID) (vecmath.Vec3, bool) {
	spec, _, ok := w.lookup(id)
	if !ok {
		return vecmath.Zero, false
	}
	return vecmath.YawRotator(spec.Yaw).Quat().Forward(), true
}

func (w *World) Capsule(id world.ActorID) (world.Capsule, bool) {
	spec, _, ok := w.lookup(id)
	if !ok {
		return world.Capsule{}, false
	}
	return world.Capsule{Radius: spec.Radius, HalfHeight: spec.HalfHeight}, true
}

func (w *World) IsCharacter(id world.ActorID) bool {
	spec, _, ok := w.lookup(id)
	return ok && spec.Character
}

// BoneTransform maps the bone's local offset through the actor's transform.
func (w *World) BoneTransform(id world.ActorID, bone string) (vecmath.Transform, bool) {
	spec, _, ok := w.lookup(id)
	if !ok || bone == "" {
		return vecmath.Transform{}, false
	}
	offset, ok := spec.Bones[bone]
	if !ok {
		return vecmath.Transform{}, false
	}
	actorTM := vecmath.NewTransform(spec.Location, vecmath.YawRotator(spec.Yaw))
	return vecmath.At(offset).Compose(actorTM), true
}

func (w *World) IsPlayingAction(id world.ActorID, action string) bool {
	playing := false
	w.withEntry(id, func(entry *actorEntry) {
		playing = entry.actions[action]
	})
	return playing
}

func (w *World) IsPlayingSkill(id world.ActorID, skill string) bool {
	playing := false
	w.withEntry(id, func(entry *actorEntry) {
		playing = entry.skills[skill]
	})
	return playing
}
