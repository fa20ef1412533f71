package sim

import (
	"context"
	"time"

	"skillhit/logging"
)

// LoopConfig tunes the fixed-timestep loop.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	// MaxFrames stops the loop after this many frames; zero runs until the
	// context ends.
	MaxFrames uint64
}

// LoopStepResult reports one frame of the loop.
type LoopStepResult struct {
	StepResult
	Now          time.Time
	Duration     time.Duration
	Budget       time.Duration
	ClampedDelta bool
	MaxDelta     float64
}

// LoopHooks observe the loop.
type LoopHooks struct {
	// BeforeStep runs before the runner is stepped, for spawning and
	// moving actors.
	BeforeStep func(tick uint64, dt float64)
	AfterStep  func(result LoopStepResult)
}

// Loop drives a Runner either in wall-clock time or as fast as possible with
// a fixed delta.
type Loop struct {
	runner *Runner
	config LoopConfig
	hooks  LoopHooks
	clock  logging.Clock
}

func NewLoop(runner *Runner, cfg LoopConfig, hooks LoopHooks, clock logging.Clock) *Loop {
	if runner == nil {
		return nil
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if clock == nil {
		clock = logging.SystemClock{}
	}
	return &Loop{runner: runner, config: cfg, hooks: hooks, clock: clock}
}

func (l *Loop) fixedDelta() float64 {
	return 1.0 / float64(l.config.TickRate)
}

// RunFixed steps the runner frames times with the fixed delta and no
// sleeping. It stops early when the context ends.
func (l *Loop) RunFixed(ctx context.Context, frames uint64) uint64 {
	if l == nil {
		return 0
	}
	dt := l.fixedDelta()
	budget := time.Second / time.Duration(l.config.TickRate)
	var ran uint64
	for ran < frames {
		if ctx.Err() != nil {
			return ran
		}
		l.step(dt, budget, false, dt)
		ran++
	}
	return ran
}

// Run drives the loop on a ticker until the context ends or MaxFrames is
// reached. Long frames are caught up with a clamped delta.
func (l *Loop) Run(ctx context.Context) uint64 {
	if l == nil {
		return 0
	}
	budgetSeconds := l.fixedDelta()
	budget := time.Second / time.Duration(l.config.TickRate)
	maxDt := budgetSeconds
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budgetSeconds * float64(l.config.CatchupMaxTicks)
	}

	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	last := l.clock.Now()
	var ran uint64
	for {
		select {
		case <-ctx.Done():
			return ran
		case <-ticker.C:
			now := l.clock.Now()
			dt := now.Sub(last).Seconds()
			clamped := false
			if dt <= 0 {
				dt = budgetSeconds
			} else if dt > maxDt {
				dt = maxDt
				clamped = true
			}
			last = now
			l.step(dt, budget, clamped, maxDt)
			ran++
			if l.config.MaxFrames > 0 && ran >= l.config.MaxFrames {
				return ran
			}
		}
	}
}

func (l *Loop) step(dt float64, budget time.Duration, clamped bool, maxDt float64) {
	if l.hooks.BeforeStep != nil {
		l.hooks.BeforeStep(l.runner.ctx.Frame.Tick+1, dt)
	}
	start := l.clock.Now()
	step := l.runner.Step(dt)
	result := LoopStepResult{
		StepResult:   step,
		Now:          start,
		Duration:     l.clock.Now().Sub(start),
		Budget:       budget,
		ClampedDelta: clamped,
		MaxDelta:     maxDt,
	}
	if l.hooks.AfterStep != nil {
		l.hooks.AfterStep(result)
	}
}
