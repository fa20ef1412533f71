package logging_test

import (
	"context"
	"testing"
	"time"

	"skillhit/logging"
	"skillhit/logging/sinks"
)

func newRouter(t *testing.T, cfg logging.Config, named ...logging.NamedSink) *logging.Router {
	t.Helper()
	router, err := logging.NewDiscardRouter(cfg, named...)
	if err != nil {
		t.Fatalf("failed to construct router: %v", err)
	}
	return router
}

func TestRouterDeliversToSinksAndStampsTime(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"run": "alpha"}
	router := newRouter(t, cfg, logging.NamedSink{Name: logging.SinkMemory, Sink: memory})

	router.Publish(context.Background(), logging.Event{Type: "test.event", Tick: 7, Severity: logging.SeverityInfo})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !memory.WaitFor(ctx, 1) {
		t.Fatalf("timed out waiting for event")
	}
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("failed to close router: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Time.IsZero() {
		t.Fatalf("expected router to stamp the event time")
	}
	if events[0].Extra["run"] != "alpha" {
		t.Fatalf("expected router fields to be merged, got %+v", events[0].Extra)
	}
	stats := router.Stats()
	if stats.EventsTotal != 1 || len(stats.Sinks) != 1 || stats.Sinks[0].Written != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if router.Sink(logging.SinkMemory) != memory {
		t.Fatalf("expected sink lookup by name")
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	memory := sinks.NewMemorySink()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router := newRouter(t, cfg, logging.NamedSink{Name: "memory", Sink: memory})

	router.Publish(context.Background(), logging.Event{Type: "test.debug", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "test.warn", Severity: logging.SeverityWarn})
	router.Publish(context.Background(), logging.Event{Severity: logging.SeverityError})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("failed to close router: %v", err)
	}
	events := memory.Events()
	if len(events) != 1 || events[0].Type != "test.warn" {
		t.Fatalf("expected only the warn event, got %+v", events)
	}
}

func TestRouterIgnoresPublishAfterClose(t *testing.T) {
	memory := sinks.NewMemorySink()
	router := newRouter(t, logging.DefaultConfig(), logging.NamedSink{Name: "memory", Sink: memory})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("failed to close router: %v", err)
	}
	router.Publish(context.Background(), logging.Event{Type: "test.late", Severity: logging.SeverityError})
	if got := len(memory.Events()); got != 0 {
		t.Fatalf("expected no events after close, got %d", got)
	}
}

func TestWithFieldsAndInstanceDoNotOverwrite(t *testing.T) {
	memory := sinks.NewMemorySink()
	pub := logging.WithInstance(logging.WithFields(memory, map[string]any{"a": 1, "b": 2}), "area-1")

	pub.Publish(context.Background(), logging.Event{Type: "x", Extra: map[string]any{"a": "kept"}})
	pub.Publish(context.Background(), logging.Event{Type: "y", InstanceID: "explicit"})

	events := memory.Events()
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d", len(events))
	}
	if events[0].Extra["a"] != "kept" || events[0].Extra["b"] != 2 {
		t.Fatalf("unexpected extra %+v", events[0].Extra)
	}
	if events[0].InstanceID != "area-1" || events[1].InstanceID != "explicit" {
		t.Fatalf("unexpected instance ids %q %q", events[0].InstanceID, events[1].InstanceID)
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]logging.Severity{
		"debug":   logging.SeverityDebug,
		" INFO ":  logging.SeverityInfo,
		"warning": logging.SeverityWarn,
		"error":   logging.SeverityError,
	}
	for name, want := range cases {
		got, err := logging.ParseSeverity(name)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := logging.ParseSeverity("loud"); err == nil {
		t.Fatalf("expected unknown severity to fail")
	}
	if logging.SeverityWarn.String() != "warn" || logging.Severity(9).String() != "unknown" {
		t.Fatalf("unexpected severity names")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := logging.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate: %v", err)
	}
	cfg.EnabledSinks = []string{"carrier-pigeon"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown sink to fail")
	}
	cfg.EnabledSinks = []string{logging.SinkWebSocket}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected websocket sink without address to fail")
	}
}
