package cpworld

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"

	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

const projectionIterations = 6

// Overlap returns every actor whose capsule intersects the query shape,
// ordered by insertion.
func (w *World) Overlap(query world.OverlapQuery) []world.OverlapResult {
	if w == nil {
		return nil
	}
	rotation := query.Rotation.Normalized()
	reach := planarReach(query.Shape)
	if reach <= 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	candidates := make(map[world.ActorID]struct{})
	bb := cp.NewBBForCircle(query.Location.Planar(), reach)
	w.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if id, ok := w.shapeToActor[shape]; ok && !world.Ignores(query.Ignore, id) {
			candidates[id] = struct{}{}
		}
	}, nil)
	if len(candidates) == 0 {
		return nil
	}

	results := make([]world.OverlapResult, 0, len(candidates))
	for _, entry := range w.sortedEntriesLocked(candidates) {
		if !shapeTouchesActor(query.Shape, query.Location, rotation, entry.spec) {
			continue
		}
		results = append(results, world.OverlapResult{Actor: entry.spec.ID, Component: entry.spec.Component})
	}
	return results
}

// Sweep traces the query shape from Start to End. The shape is reduced to
// its support radius across the direction of travel and its vertical half
// extent; hits are ordered by time of first contact.
func (w *World) Sweep(query world.SweepQuery) []world.HitResult {
	if w == nil {
		return nil
	}
	rotation := query.Rotation.Normalized()
	delta := query.End.Sub(query.Start)
	planarDir := delta.SafeNormal2D()
	lateral := vecmath.Vec3{X: -planarDir.Y, Y: planarDir.X}
	if planarDir == vecmath.Zero {
		lateral = vecmath.Right
	}
	radius := supportExtent(query.Shape, rotation, lateral)
	vertical := supportExtent(query.Shape, rotation, vecmath.Up)

	w.mu.Lock()
	defer w.mu.Unlock()

	best := make(map[world.ActorID]world.HitResult)
	record := func(hit world.HitResult) {
		if current, ok := best[hit.Actor]; ok && current.Time <= hit.Time {
			return
		}
		best[hit.Actor] = hit
	}

	start := query.Start.Planar()
	w.space.BBQuery(cp.NewBBForCircle(start, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		entry := w.entryForShapeLocked(shape, query.Ignore)
		if entry == nil {
			return
		}
		center := entry.spec.Location.Planar()
		if center.Distance(start) > radius+entry.spec.Radius {
			return
		}
		if !verticalOverlap(query.Start.Z, vertical, entry.spec) {
			return
		}
		normal := start.Sub(center)
		if normal.LengthSq() > 0 {
			normal = normal.Normalize()
		}
		point := center.Add(normal.Mult(entry.spec.Radius))
		record(world.HitResult{
			Actor:        entry.spec.ID,
			Component:    entry.spec.Component,
			Blocking:     true,
			ImpactPoint:  vecmath.FromPlanar(point, clampZ(query.Start.Z, entry.spec)),
			ImpactNormal: vecmath.FromPlanar(normal, 0),
			Time:         0,
		})
	}, nil)

	end := query.End.Planar()
	if start.Distance(end) > vecmath.SmallNumber {
		w.space.SegmentQuery(start, end, radius, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, _ interface{}) {
			entry := w.entryForShapeLocked(shape, query.Ignore)
			if entry == nil {
				return
			}
			z := query.Start.Z + delta.Z*alpha
			if !verticalOverlap(z, vertical, entry.spec) {
				return
			}
			record(world.HitResult{
				Actor:        entry.spec.ID,
				Component:    entry.spec.Component,
				Blocking:     true,
				ImpactPoint:  vecmath.FromPlanar(point, clampZ(z, entry.spec)),
				ImpactNormal: vecmath.FromPlanar(normal, 0),
				Time:         alpha,
			})
		}, nil)
	}

	if len(best) == 0 {
		return nil
	}
	hits := make([]world.HitResult, 0, len(best))
	for _, entry := range w.sortedEntriesLocked(nil) {
		if hit, ok := best[entry.spec.ID]; ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Time < hits[j].Time
	})
	return hits
}

func (w *World) entryForShapeLocked(shape *cp.Shape, ignore []world.ActorID) *actorEntry {
	id, ok := w.shapeToActor[shape]
	if !ok || world.Ignores(ignore, id) {
		return nil
	}
	return w.actors[id]
}

// planarReach bounds the query shape's footprint for the broadphase.
func planarReach(shape world.CollisionShape) float64 {
	switch shape.Kind {
	case world.QueryBox:
		return shape.HalfExtent.Size()
	case world.QueryCapsule:
		return math.Max(shape.Radius, shape.HalfHeight)
	default:
		return shape.Radius
	}
}

// supportExtent is the shape's half extent along a world direction.
func supportExtent(shape world.CollisionShape, rotation vecmath.Quat, dir vecmath.Vec3) float64 {
	switch shape.Kind {
	case world.QueryBox:
		e := shape.HalfExtent
		return math.Abs(rotation.Forward().Dot(dir))*e.X +
			math.Abs(rotation.Right().Dot(dir))*e.Y +
			math.Abs(rotation.Up().Dot(dir))*e.Z
	case world.QueryCapsule:
		segment := math.Max(0, shape.HalfHeight-shape.Radius)
		return math.Abs(rotation.Up().Dot(dir))*segment + shape.Radius
	default:
		return shape.Radius
	}
}

// shapeTouchesActor runs the exact test between the query shape and the
// actor's upright capsule.
func shapeTouchesActor(shape world.CollisionShape, location vecmath.Vec3, rotation vecmath.Quat, actor ActorSpec) bool {
	a0, a1 := actorSegment(actor)
	switch shape.Kind {
	case world.QueryBox:
		return segmentBoxDistance(a0, a1, location, rotation, shape.HalfExtent) <= actor.Radius
	case world.QueryCapsule:
		axis := rotation.Up().Scale(math.Max(0, shape.HalfHeight-shape.Radius))
		q0, q1 := location.Sub(axis), location.Add(axis)
		return segmentSegmentDistance(a0, a1, q0, q1) <= actor.Radius+shape.Radius
	default:
		return segmentSegmentDistance(a0, a1, location, location) <= actor.Radius+shape.Radius
	}
}

func actorSegment(actor ActorSpec) (vecmath.Vec3, vecmath.Vec3) {
	half := math.Max(0, actor.HalfHeight-actor.Radius)
	offset := vecmath.Vec3{Z: half}
	return actor.Location.Sub(offset), actor.Location.Add(offset)
}

func verticalOverlap(z, halfExtent float64, actor ActorSpec) bool {
	return math.Abs(z-actor.Location.Z) <= halfExtent+actor.HalfHeight
}

func clampZ(z float64, actor ActorSpec) float64 {
	lo := actor.Location.Z - actor.HalfHeight
	hi := actor.Location.Z + actor.HalfHeight
	return math.Max(lo, math.Min(hi, z))
}

func closestOnSegment(a, b, p vecmath.Vec3) vecmath.Vec3 {
	ab := b.Sub(a)
	lengthSq := ab.SizeSquared()
	if lengthSq <= vecmath.SmallNumber {
		return a
	}
	t := p.Sub(a).Dot(ab) / lengthSq
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t))
}

func segmentSegmentDistance(p0, p1, q0, q1 vecmath.Vec3) float64 {
	d1 := p1.Sub(p0)
	d2 := q1.Sub(q0)
	r := p0.Sub(q0)
	a := d1.SizeSquared()
	e := d2.SizeSquared()
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= vecmath.SmallNumber && e <= vecmath.SmallNumber:
		return vecmath.Dist(p0, q0)
	case a <= vecmath.SmallNumber:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= vecmath.SmallNumber {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > vecmath.SmallNumber {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return vecmath.Dist(p0.Add(d1.Scale(s)), q0.Add(d2.Scale(t)))
}

// segmentBoxDistance alternates projections between the segment and the
// oriented box; both sets are convex so the gap converges quickly.
func segmentBoxDistance(a, b, center vecmath.Vec3, rotation vecmath.Quat, extent vecmath.Vec3) float64 {
	la := rotation.UnrotateVector(a.Sub(center))
	lb := rotation.UnrotateVector(b.Sub(center))
	onSegment := la.Add(lb).Scale(0.5)
	var inBox vecmath.Vec3
	for i := 0; i < projectionIterations; i++ {
		inBox = clampToBox(onSegment, extent)
		onSegment = closestOnSegment(la, lb, inBox)
	}
	inBox = clampToBox(onSegment, extent)
	return vecmath.Dist(onSegment, inBox)
}

func clampToBox(p, extent vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{
		X: math.Max(-extent.X, math.Min(extent.X, p.X)),
		Y: math.Max(-extent.Y, math.Min(extent.Y, p.Y)),
		Z: math.Max(-extent.Z, math.Min(extent.Z, p.Z)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
