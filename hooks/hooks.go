// Package hooks defines the typed callback events the simulation
// engine delivers to the instrumentation core, and a small manager
// that dispatches them to registered listeners.
package hooks

import (
	"context"
	"errors"
	"sync"

	"github.com/INLOpen/scintbase/core"
)

// EventType defines the type of a hook event.
type EventType string

const (
	// Event Lifecycle
	EventBeginEvent EventType = "BeginEvent"
	EventEndEvent   EventType = "EndEvent"

	// Tracking Lifecycle
	EventTrackBegin EventType = "TrackBegin"

	// Stepping Lifecycle
	EventStepSecondaries EventType = "StepSecondaries"

	// Detection
	EventBoundaryHit EventType = "BoundaryHit"
)

// HookEvent is the interface that all event objects must implement.
type HookEvent interface {
	// Type returns the type of the event.
	Type() EventType
	// Payload returns the data associated with the event.
	Payload() interface{}
}

// BaseEvent provides a base implementation for HookEvent.
type BaseEvent struct {
	eventType EventType
	payload   interface{}
}

func (e *BaseEvent) Type() EventType      { return e.eventType }
func (e *BaseEvent) Payload() interface{} { return e.payload }

// PrimarySnapshot carries the event-level primary metadata captured at
// event begin from the source description.
type PrimarySnapshot struct {
	Species  string
	Position core.Vec3
	Energy   float64
}

// BeginEventPayload contains the data for a BeginEvent event. Primary
// is nil when the event carries no primary vertex.
type BeginEventPayload struct {
	EventID int64
	Primary *PrimarySnapshot
}

// EndEventPayload contains the data for an EndEvent event.
type EndEventPayload struct {
	EventID int64
}

// TrackBeginPayload describes one object handed to tracking.
// The engine guarantees parents are tracked before their children.
type TrackBeginPayload struct {
	// Handle links this track back to the step-secondary report that
	// spawned it; core.NoSpawnHandle when it was never reported.
	Handle core.SpawnHandle

	TrackID      int
	ParentID     int // 0 for primaries
	ParticleName string
	Vertex       core.Vec3
	VertexEnergy float64
}

// SecondarySpawn describes one secondary created during a processed
// step, reported before the secondary is ever tracked.
type SecondarySpawn struct {
	Handle       core.SpawnHandle
	ParticleName string
	Position     core.Vec3
}

// StepSecondariesPayload contains the data for a StepSecondaries
// event.
type StepSecondariesPayload struct {
	// Deposit is the energy deposited in the scoring volume during the
	// step.
	Deposit float64
	// Secondaries lists the objects spawned at step end.
	Secondaries []SecondarySpawn
}

// BoundaryHitPayload contains the pre-crossing optical state of a
// track entering the detector boundary. Accepted is set by the
// listener so the engine adapter can terminate accepted quanta.
type BoundaryHitPayload struct {
	TrackID      int
	ParentID     int
	ParticleName string
	Vertex       core.Vec3

	Position     core.Vec3
	Direction    core.Vec3
	Polarization core.Vec3
	TotalEnergy  float64

	Accepted *bool
}

// NewBeginEventEvent creates a new event for the start of a simulated
// event.
func NewBeginEventEvent(payload BeginEventPayload) HookEvent {
	return &BaseEvent{eventType: EventBeginEvent, payload: payload}
}

// NewEndEventEvent creates a new event for the end of a simulated
// event.
func NewEndEventEvent(payload EndEventPayload) HookEvent {
	return &BaseEvent{eventType: EventEndEvent, payload: payload}
}

// NewTrackBeginEvent creates a new event for a track entering
// tracking.
func NewTrackBeginEvent(payload TrackBeginPayload) HookEvent {
	return &BaseEvent{eventType: EventTrackBegin, payload: payload}
}

// NewStepSecondariesEvent creates a new event for secondaries spawned
// in a processed step.
func NewStepSecondariesEvent(payload StepSecondariesPayload) HookEvent {
	return &BaseEvent{eventType: EventStepSecondaries, payload: payload}
}

// NewBoundaryHitEvent creates a new event for a detector-boundary
// crossing. The payload is shared by pointer so listeners can set
// Accepted for the caller.
func NewBoundaryHitEvent(payload *BoundaryHitPayload) HookEvent {
	return &BaseEvent{eventType: EventBoundaryHit, payload: payload}
}

// HookListener handles one dispatched event.
type HookListener interface {
	OnEvent(ctx context.Context, event HookEvent) error
}

// HookListenerFunc adapts a function to the HookListener interface.
type HookListenerFunc func(ctx context.Context, event HookEvent) error

func (f HookListenerFunc) OnEvent(ctx context.Context, event HookEvent) error {
	return f(ctx, event)
}

// HookManager defines the interface for managing and triggering hooks.
//
// Dispatch is strictly synchronous and in registration order: the
// engine's callback ordering (parents tracked before children, stashes
// before consumption) is a correctness contract for ancestry
// resolution, so listeners must observe events in delivery order.
type HookManager interface {
	// Register adds a listener for a specific event type.
	Register(eventType EventType, listener HookListener)
	// Trigger fires all registered listeners for a given event.
	Trigger(ctx context.Context, event HookEvent) error
}

type hookManager struct {
	mu        sync.RWMutex
	listeners map[EventType][]HookListener
}

// NewHookManager creates a new synchronous hook manager.
func NewHookManager() HookManager {
	return &hookManager{
		listeners: make(map[EventType][]HookListener),
	}
}

func (m *hookManager) Register(eventType EventType, listener HookListener) {
	if listener == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[eventType] = append(m.listeners[eventType], listener)
}

func (m *hookManager) Trigger(ctx context.Context, event HookEvent) error {
	m.mu.RLock()
	listeners := m.listeners[event.Type()]
	m.mu.RUnlock()

	var errs []error
	for _, l := range listeners {
		if err := l.OnEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
