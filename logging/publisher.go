package logging

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

var severityNames = [...]string{"debug", "info", "warn", "error"}

func (s Severity) String() string {
	if s < SeverityDebug || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// ParseSeverity resolves a configured severity name.
func ParseSeverity(name string) (Severity, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range severityNames {
		if candidate == normalized {
			return Severity(i), nil
		}
	}
	if normalized == "warning" {
		return SeverityWarn, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", name)
}

type EntityKind string

const (
	EntityKindUnknown    EntityKind = "unknown"
	EntityKindCharacter  EntityKind = "character"
	EntityKindObject     EntityKind = "object"
	EntityKindArea       EntityKind = "area"
	EntityKindProjectile EntityKind = "projectile"
	EntityKindWorld      EntityKind = "world"
)

type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
	// InstanceID names the area or projectile instance that emitted the event.
	InstanceID string `json:"instanceId,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// Character builds a reference to a pawn.
func Character(id string) EntityRef {
	return EntityRef{ID: id, Kind: EntityKindCharacter}
}

// Object builds a reference to a non-character actor.
func Object(id string) EntityRef {
	return EntityRef{ID: id, Kind: EntityKindObject}
}

const (
	CategoryCombat    = "combat"
	CategoryLifecycle = "lifecycle"
	CategoryDebug     = "debug"
	CategorySystem    = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	p.next.Publish(ctx, mergeFields(event, p.fields))
}

// mergeFields copies fields into the event's Extra without overwriting keys
// the event already carries.
func mergeFields(event Event, fields map[string]any) Event {
	if len(fields) == 0 {
		return event
	}
	event = cloneEvent(event)
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	return event
}

func cloneEvent(event Event) Event {
	cloned := event
	if len(event.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), event.Targets...)
	}
	if event.Extra != nil {
		copied := make(map[string]any, len(event.Extra))
		for k, v := range event.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}

// Clone returns a copy whose Targets and Extra can be mutated freely.
func (e Event) Clone() Event {
	return cloneEvent(e)
}

func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldPublisher{next: p, fields: copied}
}

// WithInstance stamps every event with the emitting instance ID.
func WithInstance(p Publisher, instanceID string) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if instanceID == "" {
		return p
	}
	return PublisherFunc(func(ctx context.Context, event Event) {
		if event.InstanceID == "" {
			event.InstanceID = instanceID
		}
		p.Publish(ctx, event)
	})
}

func (e Event) WithExtra(key string, value any) Event {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}
