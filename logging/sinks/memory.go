package sinks

import (
	"context"
	"sync"

	"skillhit/logging"
)

// MemorySink keeps every event it receives. Tests use it to assert on the
// event stream.
type MemorySink struct {
	mu     sync.RWMutex
	events []logging.Event
	notify chan struct{}
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make([]logging.Event, 0), notify: make(chan struct{}, 1)}
}

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	s.events = append(s.events, event.Clone())
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
	return nil
}

// Publish lets the sink stand in for a Publisher without a router.
func (s *MemorySink) Publish(_ context.Context, event logging.Event) {
	_ = s.Write(event)
}

func (s *MemorySink) Events() []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]logging.Event, len(s.events))
	copy(copied, s.events)
	return copied
}

// OfType returns the recorded events with the given type, in order.
func (s *MemorySink) OfType(eventType logging.EventType) []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []logging.Event
	for _, event := range s.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// WaitFor blocks until at least n events were recorded or ctx ends.
func (s *MemorySink) WaitFor(ctx context.Context, n int) bool {
	for {
		s.mu.RLock()
		count := len(s.events)
		s.mu.RUnlock()
		if count >= n {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-s.notify:
		}
	}
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}
