// Package tracking implements the per-track half of the
// instrumentation: ancestry resolution when a track enters tracking,
// pending-origin stashing at step time, and hit assembly at the
// detector boundary.
package tracking

import (
	"log/slog"

	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/event"
	"github.com/INLOpen/scintbase/hooks"
)

// Resolver builds the per-track ancestry records. It relies on the
// engine's guarantee that every parent is tracked before any of its
// children, so the parent's record is already cached when a child
// resolves.
type Resolver struct {
	agg    *event.Aggregator
	logger *slog.Logger
}

// NewResolver creates a resolver over a worker's aggregator.
func NewResolver(agg *event.Aggregator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{agg: agg, logger: logger.With("component", "Resolver")}
}

// OnTrackBegin resolves and caches the track's record. For optical
// photons it additionally builds the creation context used later by
// the boundary sensor.
func (r *Resolver) OnTrackBegin(p hooks.TrackBeginPayload) {
	rec := event.TrackRecord{
		Species:      core.SpeciesLabel(p.ParticleName),
		Vertex:       p.Vertex,
		VertexEnergy: p.VertexEnergy,
		PrimaryID:    p.TrackID,
	}
	if p.ParentID != 0 {
		if parent, ok := r.agg.FindTrackInfo(p.ParentID); ok {
			rec.PrimaryID = parent.PrimaryID
		} else {
			// Parents are tracked before children, so a missing parent
			// record is a broken ordering upstream, not a normal path.
			rec.PrimaryID = event.UnresolvedTrackID
			r.logger.Warn("parent record absent while resolving track ancestry",
				"track_id", p.TrackID, "parent_id", p.ParentID, "particle", p.ParticleName)
		}
	}
	r.agg.RecordTrackInfo(p.TrackID, rec)

	if p.ParticleName == core.OpticalPhotonName {
		r.buildPhotonContext(p, rec)
	}
}

// buildPhotonContext composes the photon's ancestry record: root
// primary, immediate parent, and true creation point. The stashed
// step-time origin wins over the track's generic vertex; the parent's
// cached record, when present, overrides the photon's own resolution
// and supplies the secondary snapshot fields.
func (r *Resolver) buildPhotonContext(p hooks.TrackBeginPayload, rec event.TrackRecord) {
	ctx := event.PhotonContext{
		PrimaryID:        rec.PrimaryID,
		SecondaryID:      p.ParentID,
		Creation:         p.Vertex,
		SecondarySpecies: core.UnknownSpecies,
		SecondaryEnergy:  event.UnknownEnergy,
	}

	if pos, ok := r.agg.ConsumePendingOrigin(p.Handle); ok {
		ctx.Creation = pos
	}

	if parent, ok := r.agg.FindTrackInfo(p.ParentID); ok {
		ctx.PrimaryID = parent.PrimaryID
		ctx.SecondarySpecies = parent.Species
		ctx.SecondaryOrigin = parent.Vertex
		ctx.SecondaryEnergy = parent.VertexEnergy
	}

	r.agg.RecordPhotonContext(p.TrackID, ctx)
}
