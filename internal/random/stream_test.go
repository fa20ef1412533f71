package random

import (
	"math"
	"testing"
)

func TestTimestampStreamsAreDeterministic(t *testing.T) {
	a := NewStreamFromTimestamp(42.9)
	b := NewStreamFromTimestamp(42.1)
	for i := 0; i < 8; i++ {
		ax, ay := a.PointInUnitDisc()
		bx, by := b.PointInUnitDisc()
		if ax != bx || ay != by {
			t.Fatalf("expected identical draws for the same floored timestamp at %d: (%.6f,%.6f) vs (%.6f,%.6f)", i, ax, ay, bx, by)
		}
	}
}

func TestPointInUnitDiscStaysInsideRadius(t *testing.T) {
	const maxRadius = 350.0
	for seed := int64(0); seed < 200; seed++ {
		stream := NewStream(seed)
		x, y := stream.PointInUnitDisc()
		distance := math.Hypot(x*maxRadius, y*maxRadius)
		if distance > maxRadius+1e-9 {
			t.Fatalf("seed %d produced offset %.6f beyond radius %.1f", seed, distance, maxRadius)
		}
	}
}

func TestRangeAndIndexBounds(t *testing.T) {
	stream := NewLabeledStream("seed", "bounds")
	for i := 0; i < 100; i++ {
		v := stream.Range(0, 0.75)
		if v < 0 || v > 0.75 {
			t.Fatalf("range draw %.6f outside [0, 0.75]", v)
		}
		idx := stream.Index(3)
		if idx < 0 || idx >= 3 {
			t.Fatalf("index draw %d outside [0, 3)", idx)
		}
	}
	if got := stream.Range(2, 1); got != 2 {
		t.Fatalf("expected inverted range to collapse to min, got %.3f", got)
	}
	if got := stream.Index(0); got != -1 {
		t.Fatalf("expected empty index draw to return -1, got %d", got)
	}
}

func TestSeedValueNeverZero(t *testing.T) {
	if SeedValue("", "") == 0 {
		t.Fatalf("expected non-zero seed")
	}
	if SeedValue("a", "b") == SeedValue("a", "c") {
		t.Fatalf("expected labels to produce distinct seeds")
	}
}
