package area

import (
	"testing"

	"skillhit/internal/vecmath"
	"skillhit/internal/world"
)

func sectorRegion(angle float64) Region {
	return Region{
		Shape:       world.ShapeSector,
		Transform:   vecmath.IdentityTransform,
		Direction:   vecmath.Forward,
		SectorAngle: angle,
		Extent:      vecmath.Splat(500),
	}
}

func TestSectorRejectsActorAtRightAngle(t *testing.T) {
	region := sectorRegion(90)
	if Accepts(region, vecmath.Vec3{Y: 100}, 0) {
		t.Fatalf("expected actor at +Y to fall outside a 90 degree sector")
	}
	if Accepts(region, vecmath.Vec3{Y: 100}, 30) {
		t.Fatalf("expected a 30 unit capsule at +Y to stay outside")
	}
}

func TestSectorAcceptsEitherVariant(t *testing.T) {
	region := sectorRegion(90)
	for _, target := range []vecmath.Vec3{{X: 100, Y: 50}, {X: 100, Y: -50}, {X: 100}} {
		for _, radius := range []float64{0, 30, 500} {
			if !Accepts(region, target, radius) {
				t.Fatalf("expected %+v radius %v inside the sector", target, radius)
			}
		}
	}

	// Centre at ~50 degrees, capsule edge inside the half angle.
	target := vecmath.Vec3{X: 50, Y: 60}
	if Accepts(region, target, 0) {
		t.Fatalf("expected the bare centre to be rejected")
	}
	if !Accepts(region, target, 30) {
		t.Fatalf("expected the capsule correction to accept the actor")
	}
	mirrored := vecmath.Vec3{X: 50, Y: -60}
	if !Accepts(region, mirrored, 30) {
		t.Fatalf("expected the correction to work on the left side too")
	}
}

func TestSectorIgnoresHeight(t *testing.T) {
	region := sectorRegion(60)
	if !Accepts(region, vecmath.Vec3{X: 100, Z: 400}, 0) {
		t.Fatalf("expected sector acceptance to be planar")
	}
}

func TestRingRejectsInnerDisc(t *testing.T) {
	region := Region{
		Shape:     world.ShapeRing,
		Transform: vecmath.IdentityTransform,
		Extent:    vecmath.Splat(300),
		RingWidth: 100,
	}
	tests := []struct {
		name   string
		target vecmath.Vec3
		radius float64
		want   bool
	}{
		{"inside inner disc", vecmath.Vec3{X: 150}, 30, false},
		{"capsule reaches ring", vecmath.Vec3{X: 150}, 60, true},
		{"on the ring", vecmath.Vec3{Y: 250}, 0, true},
		{"exactly on inner edge", vecmath.Vec3{X: 200}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accepts(region, tt.target, tt.radius); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOtherShapesAcceptOverlap(t *testing.T) {
	for _, shape := range []world.ShapeType{world.ShapeSphere, world.ShapeBox, world.ShapeCapsule} {
		if !Accepts(Region{Shape: shape}, vecmath.Vec3{X: -1000}, 0) {
			t.Fatalf("%s: expected geometry overlap to be acceptance", shape)
		}
	}
}
