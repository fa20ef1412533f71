package sim

import (
	"context"
	"testing"

	"skillhit/internal/telemetry"
)

type fakeInstance struct {
	name      string
	life      int
	ticks     int
	teardowns int
	order     *[]string
}

func (f *fakeInstance) Tick(float64) {
	f.ticks++
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
}

func (f *fakeInstance) IsFinished() bool { return f.ticks >= f.life }

func (f *fakeInstance) Teardown() { f.teardowns++ }

func TestRunnerReapsFinishedInstancesInOrder(t *testing.T) {
	var order []string
	counters := telemetry.NewCounters()
	runner := NewRunner(Context{Metrics: counters})
	a := &fakeInstance{name: "a", life: 1, order: &order}
	b := &fakeInstance{name: "b", life: 3, order: &order}
	c := &fakeInstance{name: "c", life: 2, order: &order}
	runner.Add(a)
	runner.Add(b)
	runner.Add(c)

	first := runner.Step(0.1)
	if first.Tick != 1 || first.Ticked != 3 || first.Reaped != 1 || first.Active != 2 {
		t.Fatalf("unexpected first step %+v", first)
	}
	if a.teardowns != 1 {
		t.Fatalf("expected finished instance to be torn down once, got %d", a.teardowns)
	}

	order = order[:0]
	second := runner.Step(0.1)
	if len(order) != 2 || order[0] != "b" || order[1] != "c" {
		t.Fatalf("expected survivors to keep their order, got %v", order)
	}
	if second.Reaped != 1 || runner.Active() != 1 {
		t.Fatalf("unexpected second step %+v", second)
	}
	if got := counters.Snapshot()[metricInstancesReaped]; got != 2 {
		t.Fatalf("expected two reaped instances, got %d", got)
	}

	runner.Close()
	if b.teardowns != 1 || runner.Active() != 0 {
		t.Fatalf("expected close to tear down the remaining instance")
	}
	if runner.Spawned() != 3 {
		t.Fatalf("expected spawned count to survive reaping, got %d", runner.Spawned())
	}
}

func TestRunnerReapsInertInstancesWithoutTicking(t *testing.T) {
	runner := NewRunner(Context{})
	inert := &fakeInstance{life: 0}
	runner.Add(inert)
	result := runner.Step(0.1)
	if inert.ticks != 0 || inert.teardowns != 1 || result.Reaped != 1 {
		t.Fatalf("expected inert instance to be reaped untouched, got ticks=%d teardowns=%d", inert.ticks, inert.teardowns)
	}
}

func TestContextDefaults(t *testing.T) {
	var ctx Context
	if ctx.Tick() != 0 || ctx.Events() == nil || ctx.Log() == nil {
		t.Fatalf("expected safe defaults")
	}
	ctx.Count("ignored", 1)
	shared := NewRunner(ctx).Context()
	if shared.Frame == nil {
		t.Fatalf("expected runner to provide a frame counter")
	}
}

func TestLoopRunFixedCallsHooks(t *testing.T) {
	runner := NewRunner(Context{})
	instance := &fakeInstance{life: 100}
	runner.Add(instance)

	var before []uint64
	var after []LoopStepResult
	loop := NewLoop(runner, LoopConfig{TickRate: 20}, LoopHooks{
		BeforeStep: func(tick uint64, dt float64) { before = append(before, tick) },
		AfterStep:  func(result LoopStepResult) { after = append(after, result) },
	}, nil)

	ran := loop.RunFixed(context.Background(), 5)
	if ran != 5 || instance.ticks != 5 {
		t.Fatalf("expected five frames, ran=%d ticks=%d", ran, instance.ticks)
	}
	if len(before) != 5 || before[0] != 1 || before[4] != 5 {
		t.Fatalf("unexpected before ticks %v", before)
	}
	if len(after) != 5 || after[4].Tick != 5 || after[0].Delta != 0.05 {
		t.Fatalf("unexpected after results %+v", after)
	}
}

func TestLoopRunFixedStopsOnCancel(t *testing.T) {
	runner := NewRunner(Context{})
	loop := NewLoop(runner, LoopConfig{}, LoopHooks{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ran := loop.RunFixed(ctx, 10); ran != 0 {
		t.Fatalf("expected cancelled loop to run no frames, got %d", ran)
	}
}
