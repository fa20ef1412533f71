package simulation

import (
	"context"

	"skillhit/logging"
)

const (
	// EventFrameOverrun is emitted when a loop step exceeds its frame budget.
	EventFrameOverrun logging.EventType = "simulation.frame_overrun"
	// EventScenarioFinished is emitted once a scenario run completes.
	EventScenarioFinished logging.EventType = "simulation.scenario_finished"
)

// FrameOverrunPayload captures timing details for a frame budget breach.
type FrameOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
	Streak         uint64  `json:"streak"`
	Active         int     `json:"active"`
	ClampedDelta   bool    `json:"clampedDelta,omitempty"`
}

// FrameOverrun publishes a warning when a step exceeds the configured frame budget.
func FrameOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload FrameOverrunPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventFrameOverrun,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// ScenarioFinishedPayload summarises a scenario run.
type ScenarioFinishedPayload struct {
	Scenario  string            `json:"scenario"`
	Frames    uint64            `json:"frames"`
	Simulated float64           `json:"simulatedSeconds"`
	Spawned   int               `json:"spawned"`
	Active    int               `json:"active"`
	Counters  map[string]uint64 `json:"counters,omitempty"`
}

// ScenarioFinished publishes the end-of-run summary.
func ScenarioFinished(ctx context.Context, pub logging.Publisher, tick uint64, payload ScenarioFinishedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventScenarioFinished,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
