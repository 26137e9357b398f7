package recorder

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/INLOpen/scintbase/event"
)

// Pipeline distributes scripted events across parallel workers over
// one shared sink. Each event is replayed start to finish by a single
// worker; only the sink's writes are serialized across workers.
type Pipeline struct {
	workers []*Worker
	sink    *event.Sink
	logger  *slog.Logger
}

// NewPipeline creates a pipeline with n workers (minimum 1) over the
// shared sink.
func NewPipeline(n int, sink *event.Sink, logger *slog.Logger, metrics *event.Metrics) *Pipeline {
	if n < 1 {
		n = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{sink: sink, logger: logger}
	for i := 0; i < n; i++ {
		p.workers = append(p.workers, NewWorker(i, sink, logger, metrics))
	}
	return p
}

// Replay drives the scripted events through the workers. Events are
// fanned out over a channel, so workers pick up the next event as soon
// as they finish one; within a worker, each event's callbacks run in
// script order.
func (p *Pipeline) Replay(ctx context.Context, events []ScriptedEvent) error {
	feed := make(chan ScriptedEvent)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(feed)
		for _, ev := range events {
			select {
			case feed <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for _, w := range p.workers {
		w := w
		g.Go(func() error {
			for ev := range feed {
				if err := w.Replay(ctx, ev); err != nil {
					return fmt.Errorf("worker %d: event %d: %w", w.id, ev.EventID, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Close flushes and closes the shared sink.
func (p *Pipeline) Close() error {
	return p.sink.Close()
}

// Replay runs one scripted event through the worker's full callback
// surface in script order.
func (w *Worker) Replay(ctx context.Context, ev ScriptedEvent) error {
	if err := w.OnEventBegin(ctx, ev.EventID, ev.Primary.snapshot()); err != nil {
		return err
	}
	for _, action := range ev.Actions {
		var err error
		switch {
		case action.Track != nil:
			err = w.OnTrackBegin(ctx, action.Track.payload())
		case action.Step != nil:
			err = w.OnStepSecondaries(ctx, action.Step.payload())
		case action.Hit != nil:
			err = w.OnBoundaryHit(ctx, action.Hit.payload())
		}
		if err != nil {
			return err
		}
	}
	return w.OnEventEnd(ctx)
}
