package telemetry

import (
	"bytes"
	"log"
	"testing"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		logger := WrapLogger(nil)
		logger.Printf("ignored %d", 42)
	})

	t.Run("forwards to logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := log.New(&buf, "", 0)
		logger := WrapLogger(base)
		logger.Printf("hello %s", "world")
		if got := buf.String(); got != "hello world\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
		provider, ok := logger.(interface{ StandardLogger() *log.Logger })
		if !ok || provider.StandardLogger() != base {
			t.Fatalf("expected wrapped logger to expose the standard logger")
		}
	})

	t.Run("prefixed", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Prefixed(WrapLogger(log.New(&buf, "", 0)), "[area] ")
		logger.Printf("tick %d", 3)
		if got := buf.String(); got != "[area] tick 3\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
	})
}

func TestCounters(t *testing.T) {
	counters := NewCounters()

	counters.Add("hits", 2)
	counters.Store("hits", 5)
	counters.Add("hits", 3)
	counters.Add("areas", 1)

	snapshot := counters.Snapshot()
	if got := snapshot["hits"]; got != 8 {
		t.Fatalf("unexpected metric value: %d", got)
	}
	keys := counters.Keys()
	if len(keys) != 2 || keys[0] != "areas" || keys[1] != "hits" {
		t.Fatalf("unexpected keys %v", keys)
	}

	// Ensure nil counters do not panic.
	var nilCounters *Counters
	nilCounters.Add("ignored", 1)
	nilCounters.Store("ignored", 1)
	if nilCounters.Snapshot() != nil {
		t.Fatalf("expected nil snapshot")
	}
}
