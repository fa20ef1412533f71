package area

import (
	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

// Region is one overlap volume of an area pattern.
type Region struct {
	Index     int
	Shape     world.ShapeType
	Transform vecmath.Transform
	// Extent is componentwise non-negative. Spheres, sectors and rings use
	// Extent.X as their radius.
	Extent      vecmath.Vec3
	Direction   vecmath.Vec3
	RingWidth   float64
	SectorAngle float64
	// PatternDelay is the remaining stagger before the region is evaluated.
	PatternDelay float64
	// Enabled is cleared once a one-shot region has been evaluated.
	Enabled bool

	overlapped actorSet
	debugged   bool
}

// Overlapped returns the actors the region currently remembers, in the
// order they entered.
func (r *Region) Overlapped() []world.ActorID {
	return r.overlapped.ids()
}

// GenerateRegions expands spec into its pattern around origin. The result
// holds max(PatternCount, 1) regions unless a ring index collapses, in which
// case generation stops at that index.
func GenerateRegions(spec Spec, origin vecmath.Transform) []Region {
	transform := spec.CollisionRelative.Compose(origin)
	forward := transform.Forward()
	base := vecmath.Splat(spec.BaseUnit).Mul(transform.Scale)

	count := spec.regionCount()
	regions := make([]Region, 0, count)
	for index := 0; index < count; index++ {
		k := float64(index)
		if spec.ReversePattern {
			k = -k
		}

		region := Region{
			Index:       index,
			Shape:       spec.Shape,
			Transform:   transform,
			Extent:      base,
			Direction:   forward,
			RingWidth:   spec.RingWidth,
			SectorAngle: spec.SectorAngle,
			Enabled:     true,
		}
		if index > 0 {
			region.PatternDelay = spec.PatternDelayOffset
		}

		switch spec.Shape {
		case world.ShapeSector:
			region.Direction = forward.RotateAngleAxis((spec.PatternOffset+spec.SectorAngle)*k, vecmath.Up)
		case world.ShapeRing:
			region.Extent = base.Add(vecmath.Splat((spec.PatternOffset + spec.RingWidth) * k)).ComponentMax(vecmath.Zero)
			if region.Extent.Size2D() <= 0 || region.Extent.X-spec.RingWidth <= 0 {
				return regions
			}
		default:
			// Boxes, spheres and capsules all grow on every axis.
			region.Extent = base.Add(vecmath.Splat(spec.PatternOffset * k)).ComponentMax(vecmath.Zero)
		}
		regions = append(regions, region)
	}
	return regions
}

// queryShape is the primitive the world is asked to overlap for a region.
func queryShape(region Region) world.CollisionShape {
	switch region.Shape {
	case world.ShapeBox:
		return world.BoxShape(region.Extent)
	case world.ShapeCapsule:
		return world.CapsuleShape(max(region.Extent.X, region.Extent.Y), region.Extent.Z)
	default:
		return world.SphereShape(region.Extent.X)
	}
}

// actorSet is an insertion-ordered set of actors with the component each
// was first seen on.
type actorSet struct {
	order      []world.ActorID
	components map[world.ActorID]string
}

func (s *actorSet) has(id world.ActorID) bool {
	_, ok := s.components[id]
	return ok
}

func (s *actorSet) add(id world.ActorID, component string) {
	if s.has(id) {
		return
	}
	if s.components == nil {
		s.components = make(map[world.ActorID]string)
	}
	s.components[id] = component
	s.order = append(s.order, id)
}

func (s *actorSet) component(id world.ActorID) string {
	return s.components[id]
}

func (s *actorSet) remove(id world.ActorID) {
	if !s.has(id) {
		return
	}
	delete(s.components, id)
	kept := s.order[:0]
	for _, candidate := range s.order {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	s.order = kept
}

func (s *actorSet) ids() []world.ActorID {
	if len(s.order) == 0 {
		return nil
	}
	out := make([]world.ActorID, len(s.order))
	copy(out, s.order)
	return out
}
