package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"skillhit/internal/catalog"
	"skillhit/internal/config"
	"skillhit/internal/effects"
	"skillhit/internal/random"
	"skillhit/internal/sim"
	"skillhit/internal/telemetry"
	"skillhit/logging"
	loggingsim "skillhit/logging/simulation"
)

type Config struct {
	Runtime config.Runtime
	Logger  telemetry.Logger
	// Stdout receives the console sink. Defaults to os.Stdout.
	Stdout io.Writer
	Clock  logging.Clock
	// Sinks are added to the ones the runtime config enables.
	Sinks []logging.NamedSink
}

// Run plays the configured scenario to completion, or until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	rt := cfg.Runtime

	logConfig, err := rt.Logging()
	if err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	built, err := buildSinks(logConfig, stdout, fallbackLogger)
	if err != nil {
		return fmt.Errorf("failed to construct log sinks: %w", err)
	}

	router, err := logging.NewRouter(logConfig, cfg.Clock, fallbackLogger, append(built.named, cfg.Sinks...))
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(context.Background()); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
		stats := router.Stats()
		for _, sink := range stats.Sinks {
			if sink.Dropped > 0 || sink.Failures > 0 {
				telemetryLogger.Printf("log sink %s: %d written, %d dropped, %d failures", sink.Name, sink.Written, sink.Dropped, sink.Failures)
			}
		}
		if stats.DroppedTotal > 0 {
			telemetryLogger.Printf("logging router dropped %d of %d events", stats.DroppedTotal, stats.EventsTotal)
		}
	}()

	if built.feed != nil {
		mux := http.NewServeMux()
		mux.Handle(logConfig.WebSocket.Path, built.feed)
		srv := &http.Server{Addr: logConfig.WebSocket.ListenAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				telemetryLogger.Printf("event feed server failed: %v", err)
			}
		}()
		telemetryLogger.Printf("event feed listening on %s%s", srv.Addr, logConfig.WebSocket.Path)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	skills, err := catalog.Load(rt.CatalogPath)
	if err != nil {
		return err
	}
	scenario, err := catalog.LoadScenario(rt.ScenarioPath)
	if err != nil {
		return err
	}

	counters := telemetry.NewCounters()
	simulation, err := NewSimulation(SimulationConfig{
		Catalog:  skills,
		Scenario: scenario,
		Context: sim.Context{
			Authority: rt.Authority,
			Visual:    rt.Visual,
			Debug:     rt.Debug,
			Publisher: logging.WithFields(router, map[string]any{"scenario": scenario.Name}),
			Logger:    telemetry.Prefixed(telemetryLogger, "[hitsim] "),
			Metrics:   counters,
			Rand:      random.NewStream(rt.Seed),
		},
		TickRate: rt.TickRate,
		Effects: effects.RecorderConfig{
			ParticleDuration: rt.ParticleSeconds,
			SoundDuration:    rt.SoundSeconds,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build simulation: %w", err)
	}
	defer simulation.Close()

	var watcher *catalog.Watcher
	if rt.Watch {
		watcher, err = catalog.NewWatcher(rt.CatalogPath)
		if err != nil {
			return err
		}
		defer watcher.Close()
		telemetryLogger.Printf("watching %s for changes", rt.CatalogPath)
	}

	frames := rt.Frames
	if frames == 0 {
		frames = scenario.Frames
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var overrunStreak uint64
	loop := sim.NewLoop(simulation.Runner(), sim.LoopConfig{
		TickRate:        rt.TickRate,
		CatchupMaxTicks: rt.CatchupMaxTicks,
		MaxFrames:       frames,
	}, sim.LoopHooks{
		BeforeStep: func(tick uint64, dt float64) {
			reloadCatalog(watcher, simulation, telemetryLogger)
			simulation.BeforeStep(tick, dt)
		},
		AfterStep: func(result sim.LoopStepResult) {
			if result.Budget > 0 && result.Duration > result.Budget {
				overrunStreak++
				loggingsim.FrameOverrun(runCtx, router, result.Tick, loggingsim.FrameOverrunPayload{
					DurationMillis: result.Duration.Milliseconds(),
					BudgetMillis:   result.Budget.Milliseconds(),
					Ratio:          float64(result.Duration) / float64(result.Budget),
					Streak:         overrunStreak,
					Active:         result.Active,
					ClampedDelta:   result.ClampedDelta,
				}, nil)
			} else {
				overrunStreak = 0
			}
			// Without a frame limit the run ends once the scenario is spent.
			if frames == 0 && simulation.Done() {
				cancel()
			}
		},
	}, cfg.Clock)

	var ran uint64
	if rt.Realtime {
		ran = loop.Run(runCtx)
	} else {
		limit := frames
		if limit == 0 {
			limit = math.MaxUint64
		}
		ran = loop.RunFixed(runCtx, limit)
	}

	stats := simulation.Stats()
	runner := simulation.Runner()
	loggingsim.ScenarioFinished(context.Background(), router, runner.Context().Tick(), loggingsim.ScenarioFinishedPayload{
		Scenario:  scenario.Name,
		Frames:    ran,
		Simulated: float64(runner.Context().Tick()) * rt.Delta(),
		Spawned:   runner.Spawned(),
		Active:    runner.Active(),
		Counters:  counters.Snapshot(),
	}, map[string]any{
		"casts":          stats.Casts,
		"areaEnters":     stats.AreaEnters,
		"projectileHits": stats.ProjectileHits,
		"appliedHits":    stats.AppliedHits,
	})
	telemetryLogger.Printf("scenario %s finished after %d frames: %d casts, %d area enters, %d projectile hits",
		scenario.Name, ran, stats.Casts, stats.AreaEnters, stats.ProjectileHits)
	return nil
}

// reloadCatalog drains pending watcher events. A catalog that fails to load
// or no longer covers the scenario is logged and the current one kept.
func reloadCatalog(watcher *catalog.Watcher, simulation *Simulation, logger telemetry.Logger) {
	if watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			next, err := catalog.Load(path)
			if err != nil {
				logger.Printf("catalog reload skipped: %v", err)
				continue
			}
			if err := simulation.SetCatalog(next); err != nil {
				logger.Printf("catalog reload skipped: %s: %v", path, err)
				continue
			}
			logger.Printf("catalog reloaded from %s (%d skills)", path, len(next.IDs()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Printf("catalog watcher error: %v", err)
		default:
			return
		}
	}
}
