// Package cpworld is a reference world for the hit-detection engines. Actors
// are upright capsules; their planar footprint lives in a Chipmunk space that
// serves as the broadphase, and the vertical test is done on top.
package cpworld

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jakecoffman/cp"

	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// DefaultComponent names the collision component reported for actors that do
// not configure one.
const DefaultComponent = "capsule"

// ActorSpec describes an actor to place in the world.
type ActorSpec struct {
	ID         world.ActorID
	Location   vecmath.Vec3
	Yaw        float64
	Radius     float64
	HalfHeight float64
	Character  bool
	Component  string
	// Bones maps bone names to offsets in the actor's local frame.
	Bones map[string]vecmath.Vec3
}

type actorEntry struct {
	spec    ActorSpec
	order   int
	alive   bool
	body    *cp.Body
	shape   *cp.Shape
	actions map[string]bool
	skills  map[string]bool
}

// World owns the Chipmunk space and the actor table. Queries lock the space
// because Chipmunk marks it locked while iterating.
type World struct {
	mu           sync.Mutex
	space        *cp.Space
	actors       map[world.ActorID]*actorEntry
	shapeToActor map[*cp.Shape]world.ActorID
	nextOrder    int
}

// New creates an empty world.
func New() *World {
	return &World{
		space:        cp.NewSpace(),
		actors:       make(map[world.ActorID]*actorEntry),
		shapeToActor: make(map[*cp.Shape]world.ActorID),
	}
}

// AddActor places a new actor. IDs must be unique and radii positive.
func (w *World) AddActor(spec ActorSpec) error {
	if w == nil {
		return fmt.Errorf("cpworld: nil world")
	}
	if spec.ID == world.NoActor {
		return fmt.Errorf("cpworld: actor id is required")
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("cpworld: actor %s radius must be positive", spec.ID)
	}
	if spec.HalfHeight < spec.Radius {
		spec.HalfHeight = spec.Radius
	}
	if spec.Component == "" {
		spec.Component = DefaultComponent
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.actors[spec.ID]; exists {
		return fmt.Errorf("cpworld: actor %s already exists", spec.ID)
	}

	body := cp.NewKinematicBody()
	body.SetPosition(spec.Location.Planar())
	w.space.AddBody(body)
	shape := cp.NewCircle(body, spec.Radius, cp.Vector{})
	w.space.AddShape(shape)

	entry := &actorEntry{
		spec:    spec,
		order:   w.nextOrder,
		alive:   true,
		body:    body,
		shape:   shape,
		actions: make(map[string]bool),
		skills:  make(map[string]bool),
	}
	w.nextOrder++
	w.actors[spec.ID] = entry
	w.shapeToActor[shape] = spec.ID
	return nil
}

// RemoveActor deletes an actor; its handle becomes invalid.
func (w *World) RemoveActor(id world.ActorID) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.actors[id]
	if !ok {
		return
	}
	delete(w.shapeToActor, entry.shape)
	w.space.RemoveShape(entry.shape)
	w.space.RemoveBody(entry.body)
	delete(w.actors, id)
}

// MoveActor teleports an actor and updates its heading.
func (w *World) MoveActor(id world.ActorID, location vecmath.Vec3, yaw float64) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.actors[id]
	if !ok {
		return
	}
	entry.spec.Location = location
	entry.spec.Yaw = yaw
	entry.body.SetPosition(location.Planar())
	// Re-adding the shape refreshes its bounding box in the spatial index.
	w.space.RemoveShape(entry.shape)
	w.space.AddShape(entry.shape)
}

// Kill marks an actor dead. Its handle stays valid.
func (w *World) Kill(id world.ActorID) {
	w.withEntry(id, func(entry *actorEntry) {
		entry.alive = false
	})
}

// SetPlayingAction toggles whether the actor is performing an action.
func (w *World) SetPlayingAction(id world.ActorID, action string, playing bool) {
	w.withEntry(id, func(entry *actorEntry) {
		if playing {
			entry.actions[action] = true
		} else {
			delete(entry.actions, action)
		}
	})
}

// SetPlayingSkill toggles whether the actor is casting a skill.
func (w *World) SetPlayingSkill(id world.ActorID, skill string, playing bool) {
	w.withEntry(id, func(entry *actorEntry) {
		if playing {
			entry.skills[skill] = true
		} else {
			delete(entry.skills, skill)
		}
	})
}

// ActorIDs returns every actor handle in insertion order.
func (w *World) ActorIDs() []world.ActorID {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	entries := w.sortedEntriesLocked(nil)
	ids := make([]world.ActorID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.spec.ID)
	}
	return ids
}

func (w *World) withEntry(id world.ActorID, fn func(*actorEntry)) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if entry, ok := w.actors[id]; ok {
		fn(entry)
	}
}

func (w *World) lookup(id world.ActorID) (ActorSpec, bool, bool) {
	if w == nil {
		return ActorSpec{}, false, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.actors[id]
	if !ok {
		return ActorSpec{}, false, false
	}
	return entry.spec, entry.alive, true
}

// sortedEntriesLocked returns entries for ids (or all entries when ids is
// nil) ordered by insertion so query results are deterministic.
func (w *World) sortedEntriesLocked(ids map[world.ActorID]struct{}) []*actorEntry {
	entries := make([]*actorEntry, 0, len(w.actors))
	for id, entry := range w.actors {
		if ids != nil {
			if _, ok := ids[id]; !ok {
				continue
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].order < entries[j].order
	})
	return entries
}
