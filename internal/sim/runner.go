package sim

const (
	metricInstancesReaped = "sim_instances_reaped_total"
	metricInstancesActive = "sim_instances_active"
)

// Instance is one area or projectile driven by the runner.
type Instance interface {
	Tick(dt float64)
	IsFinished() bool
	Teardown()
}

// StepResult summarises one runner frame.
type StepResult struct {
	Tick   uint64
	Delta  float64
	Ticked int
	Reaped int
	Active int
}

// Runner ticks its instances in insertion order. Finished instances are torn
// down and compacted out without disturbing the order of the rest.
type Runner struct {
	ctx       Context
	instances []Instance
	spawned   int
}

// NewRunner builds a runner. A missing frame counter is created so every
// instance sharing the context sees the same tick.
func NewRunner(ctx Context) *Runner {
	if ctx.Frame == nil {
		ctx.Frame = &Frame{}
	}
	return &Runner{ctx: ctx}
}

// Context returns the context instances should be built with.
func (r *Runner) Context() Context {
	if r == nil {
		return Context{}
	}
	return r.ctx
}

// Add hands an instance to the runner.
func (r *Runner) Add(instance Instance) {
	if r == nil || instance == nil {
		return
	}
	r.instances = append(r.instances, instance)
	r.spawned++
}

// Step advances the frame counter and every live instance by dt.
func (r *Runner) Step(dt float64) StepResult {
	if r == nil {
		return StepResult{}
	}
	r.ctx.Frame.Tick++
	result := StepResult{Tick: r.ctx.Frame.Tick, Delta: dt}

	kept := r.instances[:0]
	for _, instance := range r.instances {
		if !instance.IsFinished() {
			instance.Tick(dt)
			result.Ticked++
		}
		if instance.IsFinished() {
			instance.Teardown()
			result.Reaped++
			continue
		}
		kept = append(kept, instance)
	}
	for i := len(kept); i < len(r.instances); i++ {
		r.instances[i] = nil
	}
	r.instances = kept
	result.Active = len(kept)

	r.ctx.Count(metricInstancesReaped, uint64(result.Reaped))
	if r.ctx.Metrics != nil {
		r.ctx.Metrics.Store(metricInstancesActive, uint64(result.Active))
	}
	return result
}

// Active reports how many instances are still running.
func (r *Runner) Active() int {
	if r == nil {
		return 0
	}
	return len(r.instances)
}

// Spawned reports how many instances were ever added.
func (r *Runner) Spawned() int {
	if r == nil {
		return 0
	}
	return r.spawned
}

// Close tears down every remaining instance.
func (r *Runner) Close() {
	if r == nil {
		return
	}
	for i, instance := range r.instances {
		instance.Teardown()
		r.instances[i] = nil
	}
	r.instances = r.instances[:0]
}
