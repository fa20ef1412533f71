package lifecycle

import (
	"context"

	"skillhit/logging"
)

const (
	// EventAreaSpawned is emitted when an area instance accepts its spec.
	EventAreaSpawned logging.EventType = "lifecycle.area_spawned"
	// EventAreaEnded is emitted when an area instance is torn down.
	EventAreaEnded logging.EventType = "lifecycle.area_ended"
	// EventProjectileFired is emitted when a projectile accepts its spec.
	EventProjectileFired logging.EventType = "lifecycle.projectile_fired"
	// EventProjectileTerminated is emitted when a projectile stops.
	EventProjectileTerminated logging.EventType = "lifecycle.projectile_terminated"
	// EventRegionDebug carries region geometry for debug overlays.
	EventRegionDebug logging.EventType = "lifecycle.region_debug"
)

// AreaSpawnedPayload summarises the calculated area timeline.
type AreaSpawnedPayload struct {
	Skill          string     `json:"skill,omitempty"`
	Shape          string     `json:"shape"`
	Regions        int        `json:"regions"`
	Origin         [3]float64 `json:"origin"`
	CollisionDelay float64    `json:"collisionDelay"`
	AreaLifetime   float64    `json:"areaLifetime"`
	DecalLifetime  float64    `json:"decalLifetime"`
	Dot            bool       `json:"dot,omitempty"`
}

// AreaEndedPayload records how long the area lived.
type AreaEndedPayload struct {
	Skill   string  `json:"skill,omitempty"`
	Elapsed float64 `json:"elapsed"`
	Reason  string  `json:"reason"`
}

// ProjectileFiredPayload captures the computed flight.
type ProjectileFiredPayload struct {
	Skill     string     `json:"skill,omitempty"`
	Direction [3]float64 `json:"direction"`
	Speed     float64    `json:"speed"`
	Lifetime  float64    `json:"lifetime"`
	Pierce    bool       `json:"pierce,omitempty"`
	AimBone   string     `json:"aimBone,omitempty"`
}

// ProjectileTerminatedPayload records why a projectile stopped.
type ProjectileTerminatedPayload struct {
	Skill   string  `json:"skill,omitempty"`
	Elapsed float64 `json:"elapsed"`
	Hits    int     `json:"hits"`
	Reason  string  `json:"reason"`
}

// RegionDebugPayload describes one generated region.
type RegionDebugPayload struct {
	Index       int        `json:"index"`
	Shape       string     `json:"shape"`
	Location    [3]float64 `json:"location"`
	Extent      [3]float64 `json:"extent"`
	Direction   [3]float64 `json:"direction"`
	SectorAngle float64    `json:"sectorAngle,omitempty"`
	RingWidth   float64    `json:"ringWidth,omitempty"`
}

// AreaSpawned publishes an area spawn event.
func AreaSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AreaSpawnedPayload, extra map[string]any) {
	publish(ctx, pub, EventAreaSpawned, logging.SeverityInfo, logging.CategoryLifecycle, tick, actor, payload, extra)
}

// AreaEnded publishes an area teardown event.
func AreaEnded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AreaEndedPayload, extra map[string]any) {
	publish(ctx, pub, EventAreaEnded, logging.SeverityInfo, logging.CategoryLifecycle, tick, actor, payload, extra)
}

// ProjectileFired publishes a projectile fire event.
func ProjectileFired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ProjectileFiredPayload, extra map[string]any) {
	publish(ctx, pub, EventProjectileFired, logging.SeverityInfo, logging.CategoryLifecycle, tick, actor, payload, extra)
}

// ProjectileTerminated publishes a projectile termination event.
func ProjectileTerminated(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ProjectileTerminatedPayload, extra map[string]any) {
	publish(ctx, pub, EventProjectileTerminated, logging.SeverityInfo, logging.CategoryLifecycle, tick, actor, payload, extra)
}

// RegionDebug publishes region geometry at debug severity.
func RegionDebug(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RegionDebugPayload, extra map[string]any) {
	publish(ctx, pub, EventRegionDebug, logging.SeverityDebug, logging.CategoryDebug, tick, actor, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, category string, tick uint64, actor logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: category,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
