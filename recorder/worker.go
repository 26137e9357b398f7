// Package recorder assembles the instrumentation core: per-worker
// aggregators and tracking collaborators wired to a hook manager, a
// shared persistence sink, and a replay pipeline that drives scripted
// events through the same callback surface a live engine would use.
package recorder

import (
	"context"
	"log/slog"

	"github.com/INLOpen/scintbase/event"
	"github.com/INLOpen/scintbase/hooks"
	"github.com/INLOpen/scintbase/tracking"
)

// Worker owns one event-processing lane: its private aggregator, the
// tracking collaborators over it, and a synchronous hook manager
// through which every engine callback is dispatched. One simulation
// event is fully owned by one worker at a time.
type Worker struct {
	id     int
	agg    *event.Aggregator
	sink   *event.Sink
	hooks  hooks.HookManager
	logger *slog.Logger
}

// NewWorker creates a worker over the shared sink and registers its
// listeners. Registration order matches the engine's delivery
// contract: stashes happen before the tracks that consume them, and
// tracks before the hits that query them.
func NewWorker(id int, sink *event.Sink, logger *slog.Logger, metrics *event.Metrics) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("worker", id)

	agg := event.NewAggregator(logger, metrics)
	resolver := tracking.NewResolver(agg, logger)
	steps := tracking.NewStepWatcher(agg)
	boundary := tracking.NewBoundarySensor(agg, logger)

	w := &Worker{
		id:     id,
		agg:    agg,
		sink:   sink,
		hooks:  hooks.NewHookManager(),
		logger: logger,
	}

	w.hooks.Register(hooks.EventBeginEvent, hooks.HookListenerFunc(func(_ context.Context, e hooks.HookEvent) error {
		p := e.Payload().(hooks.BeginEventPayload)
		agg.BeginEvent(p.EventID, p.Primary)
		return nil
	}))
	w.hooks.Register(hooks.EventTrackBegin, hooks.HookListenerFunc(func(_ context.Context, e hooks.HookEvent) error {
		resolver.OnTrackBegin(e.Payload().(hooks.TrackBeginPayload))
		return nil
	}))
	w.hooks.Register(hooks.EventStepSecondaries, hooks.HookListenerFunc(func(_ context.Context, e hooks.HookEvent) error {
		steps.OnStepSecondaries(e.Payload().(hooks.StepSecondariesPayload))
		return nil
	}))
	w.hooks.Register(hooks.EventBoundaryHit, hooks.HookListenerFunc(func(_ context.Context, e hooks.HookEvent) error {
		boundary.OnBoundaryHit(e.Payload().(*hooks.BoundaryHitPayload))
		return nil
	}))
	w.hooks.Register(hooks.EventEndEvent, hooks.HookListenerFunc(func(ctx context.Context, e hooks.HookEvent) error {
		sink.Write(ctx, agg.EndEvent())
		return nil
	}))

	return w
}

// Hooks exposes the worker's hook manager so additional listeners
// (diagnostics, custom scoring) can be registered before replay.
func (w *Worker) Hooks() hooks.HookManager { return w.hooks }

// Aggregator exposes the worker's per-event state for inspection.
func (w *Worker) Aggregator() *event.Aggregator { return w.agg }

// OnEventBegin is the engine callback fired when a simulated event
// starts.
func (w *Worker) OnEventBegin(ctx context.Context, eventID int64, primary *hooks.PrimarySnapshot) error {
	return w.hooks.Trigger(ctx, hooks.NewBeginEventEvent(hooks.BeginEventPayload{
		EventID: eventID,
		Primary: primary,
	}))
}

// OnEventEnd is the engine callback fired when a simulated event
// finishes; it triggers row synthesis and persistence.
func (w *Worker) OnEventEnd(ctx context.Context) error {
	return w.hooks.Trigger(ctx, hooks.NewEndEventEvent(hooks.EndEventPayload{
		EventID: w.agg.EventID(),
	}))
}

// OnTrackBegin is the engine callback fired once per tracked object,
// parents before children.
func (w *Worker) OnTrackBegin(ctx context.Context, p hooks.TrackBeginPayload) error {
	return w.hooks.Trigger(ctx, hooks.NewTrackBeginEvent(p))
}

// OnStepSecondaries is the engine callback fired for each processed
// step that deposited energy or spawned secondaries.
func (w *Worker) OnStepSecondaries(ctx context.Context, p hooks.StepSecondariesPayload) error {
	return w.hooks.Trigger(ctx, hooks.NewStepSecondariesEvent(p))
}

// OnBoundaryHit is the engine callback fired when a tracked object
// reaches the detector boundary. On return, p.Accepted tells the
// engine whether to terminate the track.
func (w *Worker) OnBoundaryHit(ctx context.Context, p *hooks.BoundaryHitPayload) error {
	return w.hooks.Trigger(ctx, hooks.NewBoundaryHitEvent(p))
}
