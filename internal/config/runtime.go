// Package config reads the hitsim runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"skillhit/logging"
)

// Runtime is the hitsim process configuration.
type Runtime struct {
	TickRate        int    `env:"HITSIM_TICK_RATE" envDefault:"30"`
	CatchupMaxTicks int    `env:"HITSIM_CATCHUP_MAX_TICKS" envDefault:"4"`
	Frames          uint64 `env:"HITSIM_FRAMES"`
	// Realtime paces frames on the wall clock instead of running them
	// back to back.
	Realtime bool `env:"HITSIM_REALTIME"`

	Authority bool  `env:"HITSIM_AUTHORITY" envDefault:"true"`
	Visual    bool  `env:"HITSIM_VISUAL" envDefault:"true"`
	Debug     bool  `env:"HITSIM_DEBUG"`
	Seed      int64 `env:"HITSIM_SEED" envDefault:"1"`

	CatalogPath  string `env:"HITSIM_CATALOG" envDefault:"config/skills.yaml"`
	ScenarioPath string `env:"HITSIM_SCENARIO" envDefault:"config/scenario.yaml"`
	Watch        bool   `env:"HITSIM_WATCH"`

	ParticleSeconds float64 `env:"HITSIM_PARTICLE_SECONDS" envDefault:"1"`
	SoundSeconds    float64 `env:"HITSIM_SOUND_SECONDS" envDefault:"1"`

	Log Log
}

// Log configures the event router and its sinks.
type Log struct {
	Sinks          []string      `env:"HITSIM_LOG_SINKS" envSeparator:"," envDefault:"console"`
	MinSeverity    string        `env:"HITSIM_LOG_MIN_SEVERITY" envDefault:"info"`
	BufferSize     int           `env:"HITSIM_LOG_BUFFER" envDefault:"512"`
	Compact        bool          `env:"HITSIM_LOG_COMPACT"`
	JSONPath       string        `env:"HITSIM_LOG_JSON_PATH" envDefault:"hitsim-events.jsonl"`
	JSONFlush      time.Duration `env:"HITSIM_LOG_JSON_FLUSH" envDefault:"2s"`
	WebSocketAddr  string        `env:"HITSIM_LOG_WS_ADDR"`
	WebSocketPath  string        `env:"HITSIM_LOG_WS_PATH" envDefault:"/events"`
	DropWarnPeriod time.Duration `env:"HITSIM_LOG_DROP_WARN" envDefault:"5s"`
}

// Load parses the process environment.
func Load() (Runtime, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Runtime, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Runtime, error) {
	var cfg Runtime
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Runtime{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Runtime{}, err
	}
	return cfg, nil
}

// Validate rejects settings the runner cannot honour.
func (r Runtime) Validate() error {
	var errs []error
	if r.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("HITSIM_TICK_RATE must be positive, got %d", r.TickRate))
	}
	if r.CatchupMaxTicks < 0 {
		errs = append(errs, fmt.Errorf("HITSIM_CATCHUP_MAX_TICKS must not be negative, got %d", r.CatchupMaxTicks))
	}
	if strings.TrimSpace(r.CatalogPath) == "" {
		errs = append(errs, errors.New("HITSIM_CATALOG is required"))
	}
	if strings.TrimSpace(r.ScenarioPath) == "" {
		errs = append(errs, errors.New("HITSIM_SCENARIO is required"))
	}
	if _, err := r.Logging(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Logging converts the log settings into a router config.
func (r Runtime) Logging() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	severity, err := logging.ParseSeverity(r.Log.MinSeverity)
	if err != nil {
		return cfg, fmt.Errorf("HITSIM_LOG_MIN_SEVERITY: %w", err)
	}
	cfg.MinimumSeverity = severity
	cfg.EnabledSinks = cfg.EnabledSinks[:0]
	for _, name := range r.Log.Sinks {
		if name = strings.TrimSpace(name); name != "" {
			cfg.EnabledSinks = append(cfg.EnabledSinks, name)
		}
	}
	if r.Log.BufferSize > 0 {
		cfg.BufferSize = r.Log.BufferSize
	}
	if r.Log.DropWarnPeriod > 0 {
		cfg.DropWarnInterval = r.Log.DropWarnPeriod
	}
	cfg.Console.Compact = r.Log.Compact
	cfg.JSON.FilePath = r.Log.JSONPath
	if r.Log.JSONFlush > 0 {
		cfg.JSON.FlushInterval = r.Log.JSONFlush
	}
	cfg.WebSocket.ListenAddr = r.Log.WebSocketAddr
	if r.Log.WebSocketPath != "" {
		cfg.WebSocket.Path = r.Log.WebSocketPath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Delta is the fixed frame delta in seconds.
func (r Runtime) Delta() float64 {
	if r.TickRate <= 0 {
		return 0
	}
	return 1 / float64(r.TickRate)
}
