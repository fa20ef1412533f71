package combat

import (
	"context"

	"skillhit/logging"
	loggingcombat "skillhit/logging/combat"
)

// HitTelemetryRecorderConfig captures the dependencies required to publish
// hit telemetry from the TeamPolicy hook.
type HitTelemetryRecorderConfig struct {
	Publisher    logging.Publisher
	LookupEntity func(id string) logging.EntityRef
	CurrentTick  func() uint64
}

// NewHitTelemetryRecorder constructs an OnHit hook that publishes each
// applied hit as a combat event.
func NewHitTelemetryRecorder(cfg HitTelemetryRecorderConfig) func(HitEvent) {
	if cfg.Publisher == nil {
		return nil
	}

	lookup := cfg.LookupEntity
	if lookup == nil {
		lookup = logging.Character
	}

	tick := cfg.CurrentTick
	if tick == nil {
		tick = func() uint64 { return 0 }
	}

	return func(event HitEvent) {
		attacker := logging.EntityRef{}
		if event.Attacker != "" {
			attacker = lookup(string(event.Attacker))
		}
		target := logging.EntityRef{}
		if event.Target != "" {
			target = lookup(string(event.Target))
		}

		payload := loggingcombat.HitAppliedPayload{
			Skill:       event.Skill,
			Direction:   event.Direction.String(),
			Force:       event.Force.String(),
			Bone:        event.BoneName,
			ImpactPoint: [3]float64{event.ImpactPoint.X, event.ImpactPoint.Y, event.ImpactPoint.Z},
			DamageIndex: event.DamageIndex,
		}

		loggingcombat.HitApplied(
			context.Background(),
			cfg.Publisher,
			tick(),
			attacker,
			target,
			payload,
			nil,
		)
	}
}
