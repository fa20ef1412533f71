// Package sim hosts hit-detection instances. A Context carries the
// execution flags and shared services an instance reads; a Runner ticks many
// instances per frame and reaps the finished ones.
package sim

import (
	"skillhit/internal/random"
	"skillhit/internal/telemetry"
	"skillhit/logging"
)

// Frame is the frame counter shared by every instance of a Runner.
type Frame struct {
	Tick uint64
}

// Context is the per-instance execution context.
type Context struct {
	// Authority enables overlap and sweep evaluation.
	Authority bool
	// Visual enables decals, particles, sounds and hit effects.
	Visual bool
	// Debug publishes region geometry events.
	Debug bool

	Publisher logging.Publisher
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Frame     *Frame
	// Rand drives gameplay randomness such as bone selection.
	Rand *random.Stream
}

// Tick returns the current frame, or zero without a frame counter.
func (c Context) Tick() uint64 {
	if c.Frame == nil {
		return 0
	}
	return c.Frame.Tick
}

// Events returns the publisher, never nil.
func (c Context) Events() logging.Publisher {
	if c.Publisher == nil {
		return logging.NopPublisher()
	}
	return c.Publisher
}

// Log returns the diagnostics logger, never nil.
func (c Context) Log() telemetry.Logger {
	if c.Logger == nil {
		return telemetry.Discard
	}
	return c.Logger
}

// Count bumps a metrics counter when metrics are configured.
func (c Context) Count(key string, delta uint64) {
	if c.Metrics == nil {
		return
	}
	c.Metrics.Add(key, delta)
}

// WithPublisher returns a copy of c publishing through pub.
func (c Context) WithPublisher(pub logging.Publisher) Context {
	c.Publisher = pub
	return c
}
