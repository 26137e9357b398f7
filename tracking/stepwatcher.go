package tracking

import (
	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/event"
	"github.com/INLOpen/scintbase/hooks"
)

// StepWatcher consumes per-step reports from the engine: deposited
// energy and the secondaries spawned at step end. Spawn positions for
// optical photons are stashed so the resolver can recover the true
// creation point when the photon is subsequently tracked.
type StepWatcher struct {
	agg *event.Aggregator
}

// NewStepWatcher creates a step watcher over a worker's aggregator.
func NewStepWatcher(agg *event.Aggregator) *StepWatcher {
	return &StepWatcher{agg: agg}
}

// OnStepSecondaries accumulates the step's energy deposit and stashes
// the creation positions of newly spawned optical photons.
func (w *StepWatcher) OnStepSecondaries(p hooks.StepSecondariesPayload) {
	if p.Deposit > 0 {
		w.agg.AddDeposit(p.Deposit)
	}
	for _, spawn := range p.Secondaries {
		if spawn.ParticleName != core.OpticalPhotonName {
			continue
		}
		w.agg.StashPendingOrigin(spawn.Handle, spawn.Position)
	}
}
