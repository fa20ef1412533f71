package random

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Stream is a deterministic random source owned by a single instance.
type Stream struct {
	rng *rand.Rand
}

// NewStream seeds a stream with seed.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// NewStreamFromTimestamp seeds a stream with floor(timestamp), so every
// instance spawned at the same timestamp draws the same sequence.
func NewStreamFromTimestamp(timestamp float64) *Stream {
	if math.IsNaN(timestamp) || math.IsInf(timestamp, 0) {
		timestamp = 0
	}
	return NewStream(int64(math.Floor(timestamp)))
}

// SeedValue derives a stable seed from a root seed and a label.
func SeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewLabeledStream seeds a stream from a root seed and label pair.
func NewLabeledStream(rootSeed, label string) *Stream {
	return NewStream(SeedValue(rootSeed, label))
}

// Float returns a value in [0, 1). A nil stream always yields 0.5.
func (s *Stream) Float() float64 {
	if s == nil || s.rng == nil {
		return 0.5
	}
	return s.rng.Float64()
}

// Range returns a value uniformly distributed in [min, max].
func (s *Stream) Range(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.Float()*(max-min)
}

// Index returns a value uniformly distributed in [0, n). n <= 0 yields -1.
func (s *Stream) Index(n int) int {
	if n <= 0 {
		return -1
	}
	if s == nil || s.rng == nil {
		return 0
	}
	return s.rng.Intn(n)
}

// PointInUnitDisc samples x and y uniformly in [-1, 1] and rejects until the
// point lies inside the unit circle, which keeps the result uniform over the
// disc.
func (s *Stream) PointInUnitDisc() (float64, float64) {
	for {
		x := s.Float()*2 - 1
		y := s.Float()*2 - 1
		if x*x+y*y <= 1 {
			return x, y
		}
	}
}

// DefaultSeed is used when no root seed is configured.
const DefaultSeed = "skillhit"
