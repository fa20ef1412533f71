package world

import "skillhit/internal/vecmath"

// OverlapQuery asks for every actor intersecting a shape placed at Location
// with the given rotation.
type OverlapQuery struct {
	Location vecmath.Vec3
	Rotation vecmath.Quat
	Channel  Channel
	Shape    CollisionShape
	Ignore   []ActorID
}

// OverlapResult is one actor matched by an overlap query.
type OverlapResult struct {
	Actor     ActorID
	Component string
}

// SweepQuery moves a shape from Start to End and reports what it touches.
type SweepQuery struct {
	Start    vecmath.Vec3
	End      vecmath.Vec3
	Rotation vecmath.Quat
	Channel  Channel
	Shape    CollisionShape
	Ignore   []ActorID
}

// HitResult is one contact found by a sweep. Results are ordered by Time,
// the fraction of the segment travelled at first contact.
type HitResult struct {
	Actor        ActorID
	Component    string
	BoneName     string
	Blocking     bool
	ImpactPoint  vecmath.Vec3
	ImpactNormal vecmath.Vec3
	Time         float64
}

// Geometry is the read-only world query service. Implementations must be
// safe to call from several instances within the same frame.
type Geometry interface {
	Overlap(query OverlapQuery) []OverlapResult
	Sweep(query SweepQuery) []HitResult
}

// Ignores reports whether id appears in the ignore list.
func Ignores(list []ActorID, id ActorID) bool {
	for _, candidate := range list {
		if candidate == id {
			return true
		}
	}
	return false
}
