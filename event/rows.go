package event

import (
	"github.com/INLOpen/scintbase/colstore"
	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/csvtable"
)

// EventRows holds the output row shapes synthesized for one event.
type EventRows struct {
	EventID int64

	Flat []csvtable.HitRow

	Primaries   []colstore.PrimaryRow
	Secondaries []colstore.SecondaryRow
	Photons     []colstore.PhotonRow
}

// buildRows transforms the event's hit list into the flat table rows
// and the three normalized row-sets.
//
// Flat rows map one-to-one onto hits. Primary and secondary rows are
// deduplicated by identifier, keeping the first occurrence in hit
// order; unresolved (negative) identifiers never produce a normalized
// row. Photon rows map one-to-one onto hits as well; each photon is
// recorded at most once upstream.
func (a *Aggregator) buildRows() EventRows {
	rows := EventRows{EventID: a.eventID}
	if n := len(a.hits); n > 0 {
		rows.Flat = make([]csvtable.HitRow, 0, n)
		rows.Photons = make([]colstore.PhotonRow, 0, n)
	}

	seenPrimaries := make(map[int]bool)
	seenSecondaries := make(map[int]bool)

	for i := range a.hits {
		hit := &a.hits[i]

		rows.Flat = append(rows.Flat, csvtable.HitRow{
			EventID:     a.eventID,
			PrimaryID:   int32(hit.PrimaryID),
			SecondaryID: int32(hit.SecondaryID),
			PhotonID:    int32(hit.PhotonID),

			PrimarySpecies: hit.PrimarySpecies,
			PrimaryXmm:     hit.PrimaryX / core.Millimeter,
			PrimaryYmm:     hit.PrimaryY / core.Millimeter,

			SecondarySpecies:        hit.SecondarySpecies,
			SecondaryOriginXmm:      hit.SecondaryOrigin.X / core.Millimeter,
			SecondaryOriginYmm:      hit.SecondaryOrigin.Y / core.Millimeter,
			SecondaryOriginZmm:      hit.SecondaryOrigin.Z / core.Millimeter,
			SecondaryOriginEnergMeV: hit.SecondaryEnergy / core.MeV,

			ScintOriginXmm: hit.Creation.X / core.Millimeter,
			ScintOriginYmm: hit.Creation.Y / core.Millimeter,
			ScintOriginZmm: hit.Creation.Z / core.Millimeter,

			HitXmm: hit.Position.X / core.Millimeter,
			HitYmm: hit.Position.Y / core.Millimeter,
		})

		if hit.PrimaryID >= 0 && !seenPrimaries[hit.PrimaryID] {
			seenPrimaries[hit.PrimaryID] = true
			// The tracked vertex energy wins over the event-level
			// snapshot when the primary was actually tracked.
			energy := a.primary.Energy
			if rec, ok := a.tracks[hit.PrimaryID]; ok {
				energy = rec.VertexEnergy
			}
			rows.Primaries = append(rows.Primaries, a.primaryRow(hit.PrimaryID, energy))
		}

		if hit.SecondaryID >= 0 && !seenSecondaries[hit.SecondaryID] {
			seenSecondaries[hit.SecondaryID] = true
			rows.Secondaries = append(rows.Secondaries, colstore.SecondaryRow{
				GunCallID:                a.eventID,
				PrimaryTrackID:           int32(hit.PrimaryID),
				SecondaryTrackID:         int32(hit.SecondaryID),
				SecondarySpecies:         hit.SecondarySpecies,
				SecondaryOriginXmm:       hit.SecondaryOrigin.X / core.Millimeter,
				SecondaryOriginYmm:       hit.SecondaryOrigin.Y / core.Millimeter,
				SecondaryOriginZmm:       hit.SecondaryOrigin.Z / core.Millimeter,
				SecondaryOriginEnergyMeV: hit.SecondaryEnergy / core.MeV,
			})
		}

		rows.Photons = append(rows.Photons, colstore.PhotonRow{
			GunCallID:        a.eventID,
			PrimaryTrackID:   int32(hit.PrimaryID),
			SecondaryTrackID: int32(hit.SecondaryID),
			PhotonTrackID:    int32(hit.PhotonID),

			PhotonOriginXmm: hit.Creation.X / core.Millimeter,
			PhotonOriginYmm: hit.Creation.Y / core.Millimeter,
			PhotonOriginZmm: hit.Creation.Z / core.Millimeter,

			HitXmm: hit.Position.X / core.Millimeter,
			HitYmm: hit.Position.Y / core.Millimeter,

			HitDirX: hit.Direction.X,
			HitDirY: hit.Direction.Y,
			HitDirZ: hit.Direction.Z,

			HitPolX: hit.Polarization.X,
			HitPolY: hit.Polarization.Y,
			HitPolZ: hit.Polarization.Z,

			HitEnergyEV:     hit.TotalEnergy / core.EV,
			HitWavelengthNm: hit.Wavelength / core.Nanometer,
		})
	}

	// Every event contributes at least one primary row, detections or
	// not, so downstream joins always find the event's source state.
	// The fallback row carries the snapshot energy as-is.
	if len(rows.Primaries) == 0 {
		rows.Primaries = append(rows.Primaries, a.primaryRow(1, a.primary.Energy))
	}
	return rows
}

// primaryRow builds one normalized primary row from the event-level
// snapshot and the given energy.
func (a *Aggregator) primaryRow(primaryID int, energy float64) colstore.PrimaryRow {
	return colstore.PrimaryRow{
		GunCallID:        a.eventID,
		PrimaryTrackID:   int32(primaryID),
		PrimarySpecies:   a.primary.Species,
		PrimaryXmm:       a.primary.Position.X / core.Millimeter,
		PrimaryYmm:       a.primary.Position.Y / core.Millimeter,
		PrimaryEnergyMeV: energy / core.MeV,
	}
}
