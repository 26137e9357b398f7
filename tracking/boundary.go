package tracking

import (
	"log/slog"

	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/event"
	"github.com/INLOpen/scintbase/hooks"
)

// BoundarySensor turns detector-boundary crossings into hit records.
// Only optical photons are accepted; accepted photons are flagged back
// to the engine adapter so it can terminate them, which keeps each
// photon to at most one recorded hit.
type BoundarySensor struct {
	agg    *event.Aggregator
	logger *slog.Logger
}

// NewBoundarySensor creates a boundary sensor over a worker's
// aggregator.
func NewBoundarySensor(agg *event.Aggregator, logger *slog.Logger) *BoundarySensor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BoundarySensor{agg: agg, logger: logger.With("component", "BoundarySensor")}
}

// OnBoundaryHit assembles and records a hit for an optical photon
// crossing into the detector. Missing ancestry degrades to sentinel
// fields; the hit itself is always recorded.
func (b *BoundarySensor) OnBoundaryHit(p *hooks.BoundaryHitPayload) {
	if p.ParticleName != core.OpticalPhotonName {
		if p.Accepted != nil {
			*p.Accepted = false
		}
		return
	}

	hit := event.HitRecord{
		PhotonID:    p.TrackID,
		PrimaryID:   event.UnresolvedTrackID,
		SecondaryID: p.ParentID,

		SecondarySpecies: core.UnknownSpecies,
		SecondaryEnergy:  event.UnknownEnergy,

		Creation: p.Vertex,

		Position:     p.Position,
		Direction:    p.Direction,
		Polarization: p.Polarization,
		TotalEnergy:  p.TotalEnergy,
	}

	primary, _ := b.agg.Primary()
	hit.PrimarySpecies = primary.Species
	hit.PrimaryX = primary.Position.X
	hit.PrimaryY = primary.Position.Y

	if ctx, ok := b.agg.FindPhotonContext(p.TrackID); ok {
		hit.PrimaryID = ctx.PrimaryID
		hit.SecondaryID = ctx.SecondaryID
		hit.SecondarySpecies = ctx.SecondarySpecies
		hit.SecondaryOrigin = ctx.SecondaryOrigin
		hit.SecondaryEnergy = ctx.SecondaryEnergy
		hit.Creation = ctx.Creation
	} else if rec, ok := b.agg.FindTrackInfo(p.TrackID); ok {
		// Degraded fallback: the photon was tracked but its context was
		// never built. Root resolution and vertex still apply.
		hit.PrimaryID = rec.PrimaryID
		hit.Creation = rec.Vertex
		b.logger.Warn("photon hit without creation context",
			"track_id", p.TrackID, "parent_id", p.ParentID)
	} else {
		b.logger.Warn("photon hit with no cached ancestry at all",
			"track_id", p.TrackID, "parent_id", p.ParentID)
	}

	if p.TotalEnergy > 0 {
		hit.Wavelength = core.HPlanckCLight / p.TotalEnergy
	}

	b.agg.RecordHit(hit)
	if p.Accepted != nil {
		*p.Accepted = true
	}
}
