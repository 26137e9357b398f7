package event

import (
	"log/slog"

	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/hooks"
)

// progressLogInterval controls the "processed N events" progress line.
const progressLogInterval = 1000

// Aggregator owns all per-event caches: track records, photon
// creation contexts, pending origins, and the hit list. One Aggregator
// belongs to exactly one worker and is never shared, so none of its
// state is locked; cross-worker serialization happens in the Sink.
//
// Its lifecycle is a two-transition state machine: BeginEvent clears
// everything and snapshots the primary, EndEvent synthesizes the
// output rows. Any number of record/stash/consume calls may happen in
// between.
type Aggregator struct {
	logger  *slog.Logger
	metrics *Metrics

	eventID    int64
	primary    hooks.PrimarySnapshot
	hasPrimary bool

	tracks   map[int]TrackRecord
	contexts map[int]PhotonContext
	pending  map[core.SpawnHandle]core.Vec3
	hits     []HitRecord
	deposit  float64

	eventsSeen uint64
}

// NewAggregator creates an empty per-worker aggregator.
func NewAggregator(logger *slog.Logger, metrics *Metrics) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics(false, "")
	}
	return &Aggregator{
		logger:   logger.With("component", "Aggregator"),
		metrics:  metrics,
		tracks:   make(map[int]TrackRecord),
		contexts: make(map[int]PhotonContext),
		pending:  make(map[core.SpawnHandle]core.Vec3),
	}
}

// BeginEvent resets every per-event cache and snapshots the primary
// metadata from the event's source description. Stale pending origins
// from a previous event are dropped here; object handles are only
// valid within their own event.
func (a *Aggregator) BeginEvent(eventID int64, primary *hooks.PrimarySnapshot) {
	if n := len(a.pending); n > 0 {
		a.metrics.PendingOriginsDroppedTotal.Add(int64(n))
	}

	a.eventID = eventID
	a.tracks = make(map[int]TrackRecord)
	a.contexts = make(map[int]PhotonContext)
	a.pending = make(map[core.SpawnHandle]core.Vec3)
	a.hits = a.hits[:0]
	a.deposit = 0

	if primary != nil {
		a.primary = *primary
		a.primary.Species = core.SpeciesLabel(primary.Species)
		a.hasPrimary = true
	} else {
		a.primary = hooks.PrimarySnapshot{Species: core.UnknownSpecies, Energy: UnknownEnergy}
		a.hasPrimary = false
	}
}

// EventID returns the identifier snapshotted at the last BeginEvent.
func (a *Aggregator) EventID() int64 { return a.eventID }

// Primary returns the event-level primary snapshot and whether the
// current event actually carried one.
func (a *Aggregator) Primary() (hooks.PrimarySnapshot, bool) {
	return a.primary, a.hasPrimary
}

// RecordTrackInfo stores the resolved record for a track. Records are
// written once per track and never updated.
func (a *Aggregator) RecordTrackInfo(trackID int, rec TrackRecord) {
	a.tracks[trackID] = rec
	a.metrics.TracksResolvedTotal.Add(1)
}

// FindTrackInfo returns the cached record for a track, if any.
func (a *Aggregator) FindTrackInfo(trackID int) (TrackRecord, bool) {
	rec, ok := a.tracks[trackID]
	return rec, ok
}

// RecordPhotonContext stores the creation context for an optical
// photon. A second write for the same track id overwrites the first;
// the engine is not expected to re-enter tracking for one id, but the
// behavior is defined.
func (a *Aggregator) RecordPhotonContext(trackID int, ctx PhotonContext) {
	a.contexts[trackID] = ctx
	a.metrics.PhotonContextsTotal.Add(1)
}

// FindPhotonContext returns the cached creation context for a photon,
// if any.
func (a *Aggregator) FindPhotonContext(trackID int) (PhotonContext, bool) {
	ctx, ok := a.contexts[trackID]
	return ctx, ok
}

// StashPendingOrigin records the creation position reported for an
// about-to-be-tracked secondary. At most one entry exists per handle;
// a repeated stash overwrites.
func (a *Aggregator) StashPendingOrigin(handle core.SpawnHandle, pos core.Vec3) {
	if handle == core.NoSpawnHandle {
		return
	}
	a.pending[handle] = pos
	a.metrics.PendingOriginsStashedTotal.Add(1)
}

// ConsumePendingOrigin returns and erases the stashed position for a
// handle. Each stash is consumable exactly once.
func (a *Aggregator) ConsumePendingOrigin(handle core.SpawnHandle) (core.Vec3, bool) {
	pos, ok := a.pending[handle]
	if !ok {
		return core.Vec3{}, false
	}
	delete(a.pending, handle)
	a.metrics.PendingOriginsConsumedTotal.Add(1)
	return pos, true
}

// RecordHit appends one accepted boundary crossing to the event's hit
// list. No deduplication happens here; the boundary detector kills
// each photon immediately after reporting it.
func (a *Aggregator) RecordHit(hit HitRecord) {
	a.hits = append(a.hits, hit)
	a.metrics.HitsRecordedTotal.Add(1)
}

// Hits returns the hits recorded so far in the current event.
func (a *Aggregator) Hits() []HitRecord { return a.hits }

// AddDeposit accumulates energy deposited in the scoring volume
// during the current event.
func (a *Aggregator) AddDeposit(edep float64) {
	a.deposit += edep
}

// Deposit returns the energy deposited so far in the current event.
func (a *Aggregator) Deposit() float64 { return a.deposit }

// EndEvent finishes the current event: it synthesizes the two output
// row shapes from the recorded hits and emits a progress line every
// progressLogInterval events. Persisting the returned rows is the
// caller's job.
func (a *Aggregator) EndEvent() EventRows {
	rows := a.buildRows()

	if a.deposit > 0 {
		a.logger.Debug("event deposit collected",
			"event_id", a.eventID, "edep_mev", a.deposit/core.MeV)
	}

	a.eventsSeen++
	a.metrics.EventsProcessedTotal.Add(1)
	if a.eventsSeen%progressLogInterval == 0 {
		a.logger.Info("processed events",
			"count", a.eventsSeen,
			"event_id", a.eventID,
			"hits", len(a.hits))
	}
	return rows
}
