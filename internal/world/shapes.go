package world

import (
	"fmt"
	"strings"

	"skillhit/internal/vecmath"
)

// ShapeType enumerates the authored shapes for areas and projectiles.
type ShapeType int

const (
	ShapeUnknown ShapeType = iota
	ShapeSphere
	ShapeBox
	ShapeCapsule
	ShapeSector
	ShapeRing
)

var shapeNames = map[ShapeType]string{
	ShapeUnknown: "unknown",
	ShapeSphere:  "sphere",
	ShapeBox:     "box",
	ShapeCapsule: "capsule",
	ShapeSector:  "sector",
	ShapeRing:    "ring",
}

func (s ShapeType) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShapeType resolves an authored shape name.
func ParseShapeType(name string) (ShapeType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for shape, candidate := range shapeNames {
		if candidate == normalized && shape != ShapeUnknown {
			return shape, nil
		}
	}
	return ShapeUnknown, fmt.Errorf("unknown shape %q", name)
}

// Channel selects which collision responses a query considers.
type Channel int

const (
	ChannelArea Channel = iota + 1
	ChannelProjectile
)

// QueryShapeKind is the primitive used by a geometry query.
type QueryShapeKind int

const (
	QuerySphere QueryShapeKind = iota + 1
	QueryBox
	QueryCapsule
)

// CollisionShape is a query primitive. Box uses HalfExtent, sphere uses
// Radius, capsule uses Radius and HalfHeight along its local Z axis.
type CollisionShape struct {
	Kind       QueryShapeKind
	Radius     float64
	HalfHeight float64
	HalfExtent vecmath.Vec3
}

func SphereShape(radius float64) CollisionShape {
	return CollisionShape{Kind: QuerySphere, Radius: radius}
}

func BoxShape(halfExtent vecmath.Vec3) CollisionShape {
	return CollisionShape{Kind: QueryBox, HalfExtent: halfExtent}
}

func CapsuleShape(radius, halfHeight float64) CollisionShape {
	return CollisionShape{Kind: QueryCapsule, Radius: radius, HalfHeight: halfHeight}
}
