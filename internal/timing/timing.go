// Package timing provides the elapsed-time bookkeeping shared by the area and
// projectile engines. Nothing here blocks: time only moves when a caller
// advances it with a frame delta.
package timing

import "math"

// Clock accumulates frame deltas into an elapsed time.
type Clock struct {
	elapsed float64
}

// Advance adds dt seconds. Negative and non-finite deltas are ignored.
func (c *Clock) Advance(dt float64) {
	if c == nil || !validDelta(dt) {
		return
	}
	c.elapsed += dt
}

// Elapsed returns the accumulated seconds.
func (c *Clock) Elapsed() float64 {
	if c == nil {
		return 0
	}
	return c.elapsed
}

// Reached reports whether elapsed >= threshold.
func (c *Clock) Reached(threshold float64) bool {
	return c.Elapsed() >= threshold
}

// Past reports whether elapsed > threshold.
func (c *Clock) Past(threshold float64) bool {
	return c.Elapsed() > threshold
}

// Within reports whether lo <= elapsed <= hi.
func (c *Clock) Within(lo, hi float64) bool {
	elapsed := c.Elapsed()
	return lo <= elapsed && elapsed <= hi
}

// Countdown tracks a remaining delay that is consumed frame by frame.
type Countdown struct {
	Remaining float64
}

// NewCountdown starts a countdown of delay seconds.
func NewCountdown(delay float64) Countdown {
	return Countdown{Remaining: delay}
}

// Pending reports whether any delay remains.
func (c *Countdown) Pending() bool {
	return c != nil && c.Remaining > 0
}

// Consume subtracts dt from the remaining delay. The remaining value may go
// negative; Pending treats that as elapsed.
func (c *Countdown) Consume(dt float64) {
	if c == nil || !validDelta(dt) {
		return
	}
	c.Remaining -= dt
}

func validDelta(dt float64) bool {
	return dt >= 0 && !math.IsInf(dt, 0) && !math.IsNaN(dt)
}
