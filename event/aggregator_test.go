package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/hooks"
)

func neutronSnapshot() *hooks.PrimarySnapshot {
	return &hooks.PrimarySnapshot{
		Species:  "neutron",
		Position: core.Vec3{X: 1.5, Y: -2.5},
		Energy:   2.45 * core.MeV,
	}
}

func photonHit(primaryID, secondaryID, photonID int) HitRecord {
	return HitRecord{
		PhotonID:    photonID,
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,

		PrimarySpecies: "n",
		PrimaryX:       1.5,
		PrimaryY:       -2.5,

		SecondarySpecies: "electron",
		SecondaryOrigin:  core.Vec3{X: 0.1, Y: 0.2, Z: 0.3},
		SecondaryEnergy:  0.5 * core.MeV,

		Creation: core.Vec3{X: 1, Y: 2, Z: 3},

		Position:     core.Vec3{X: 10, Y: -4, Z: 25},
		Direction:    core.Vec3{Z: 1},
		Polarization: core.Vec3{X: 1},
		TotalEnergy:  3.1 * core.EV,
		Wavelength:   core.HPlanckCLight / (3.1 * core.EV),
	}
}

func TestBeginEventResetsState(t *testing.T) {
	a := NewAggregator(nil, nil)

	a.BeginEvent(1, neutronSnapshot())
	a.RecordTrackInfo(1, TrackRecord{Species: "n", PrimaryID: 1})
	a.RecordPhotonContext(2, PhotonContext{PrimaryID: 1, SecondaryID: 1})
	a.StashPendingOrigin(7, core.Vec3{X: 1})
	a.RecordHit(photonHit(1, 1, 2))
	a.AddDeposit(0.25)

	a.BeginEvent(2, nil)

	_, ok := a.FindTrackInfo(1)
	assert.False(t, ok)
	_, ok = a.FindPhotonContext(2)
	assert.False(t, ok)
	_, ok = a.ConsumePendingOrigin(7)
	assert.False(t, ok)
	assert.Empty(t, a.Hits())
	assert.Zero(t, a.Deposit())
	assert.Equal(t, int64(2), a.EventID())
}

func TestBeginEventNormalizesPrimarySpecies(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(1, neutronSnapshot())

	primary, ok := a.Primary()
	require.True(t, ok)
	assert.Equal(t, "n", primary.Species)
	assert.Equal(t, 2.45, primary.Energy)
}

func TestBeginEventWithoutPrimary(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(1, nil)

	primary, ok := a.Primary()
	assert.False(t, ok)
	assert.Equal(t, core.UnknownSpecies, primary.Species)
	assert.Equal(t, UnknownEnergy, primary.Energy)
}

func TestPendingOriginConsumedExactlyOnce(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(1, nil)

	want := core.Vec3{X: 1, Y: 2, Z: 3}
	a.StashPendingOrigin(42, want)

	got, ok := a.ConsumePendingOrigin(42)
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = a.ConsumePendingOrigin(42)
	assert.False(t, ok)
}

func TestPendingOriginOverwrite(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(1, nil)

	a.StashPendingOrigin(42, core.Vec3{X: 1})
	a.StashPendingOrigin(42, core.Vec3{X: 9})

	got, ok := a.ConsumePendingOrigin(42)
	require.True(t, ok)
	assert.Equal(t, 9.0, got.X)
}

func TestPendingOriginIgnoresZeroHandle(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(1, nil)

	a.StashPendingOrigin(core.NoSpawnHandle, core.Vec3{X: 1})
	_, ok := a.ConsumePendingOrigin(core.NoSpawnHandle)
	assert.False(t, ok)
}

func TestEndEventRowSynthesis(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(5, neutronSnapshot())
	a.RecordTrackInfo(1, TrackRecord{Species: "n", VertexEnergy: 2.4, PrimaryID: 1})

	// Two photons from the same primary and secondary, one from a
	// second secondary.
	a.RecordHit(photonHit(1, 10, 100))
	a.RecordHit(photonHit(1, 10, 101))
	a.RecordHit(photonHit(1, 11, 102))

	rows := a.EndEvent()

	require.Len(t, rows.Flat, 3)
	assert.Equal(t, int64(5), rows.Flat[0].EventID)
	assert.Equal(t, int32(100), rows.Flat[0].PhotonID)
	assert.Equal(t, "n", rows.Flat[0].PrimarySpecies)
	assert.Equal(t, "electron", rows.Flat[0].SecondarySpecies)
	assert.Equal(t, 1.0, rows.Flat[0].ScintOriginXmm)
	assert.Equal(t, 10.0, rows.Flat[0].HitXmm)

	require.Len(t, rows.Primaries, 1)
	assert.Equal(t, int32(1), rows.Primaries[0].PrimaryTrackID)
	assert.Equal(t, "n", rows.Primaries[0].PrimarySpecies)
	// The tracked vertex energy wins over the event-level snapshot.
	assert.Equal(t, 2.4, rows.Primaries[0].PrimaryEnergyMeV)

	require.Len(t, rows.Secondaries, 2)
	assert.Equal(t, int32(10), rows.Secondaries[0].SecondaryTrackID)
	assert.Equal(t, int32(11), rows.Secondaries[1].SecondaryTrackID)

	require.Len(t, rows.Photons, 3)
	assert.Equal(t, int32(100), rows.Photons[0].PhotonTrackID)
	assert.InDelta(t, 3.1, rows.Photons[0].HitEnergyEV, 1e-9)
	assert.InDelta(t, 399.95, rows.Photons[0].HitWavelengthNm, 0.01)
}

func TestEndEventUnresolvedPrimarySkipsDedupRow(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(3, neutronSnapshot())

	hit := photonHit(UnresolvedTrackID, 10, 100)
	a.RecordHit(hit)
	rows := a.EndEvent()

	// The unresolved id never becomes a primary row; the fallback row
	// takes its place so the event still contributes one.
	require.Len(t, rows.Primaries, 1)
	assert.Equal(t, int32(1), rows.Primaries[0].PrimaryTrackID)
	require.Len(t, rows.Photons, 1)
	assert.Equal(t, int32(UnresolvedTrackID), rows.Photons[0].PrimaryTrackID)
}

func TestEndEventNegativeSecondarySkipsDedupRow(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(7, neutronSnapshot())

	a.RecordHit(photonHit(1, UnresolvedTrackID, 5))
	rows := a.EndEvent()

	// An unresolved secondary id stays out of the normalized secondary
	// rows; the flat and photon rows still carry the sentinel.
	assert.Empty(t, rows.Secondaries)
	require.Len(t, rows.Flat, 1)
	assert.Equal(t, int32(UnresolvedTrackID), rows.Flat[0].SecondaryID)
	require.Len(t, rows.Photons, 1)
	assert.Equal(t, int32(UnresolvedTrackID), rows.Photons[0].SecondaryTrackID)
}

func TestEndEventFallbackPrimaryUsesSnapshotEnergy(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(9, neutronSnapshot())
	// Track 1 was resolved this event, but without any hits the
	// fallback row still reports the event-level snapshot energy.
	a.RecordTrackInfo(1, TrackRecord{Species: "n", VertexEnergy: 1.7, PrimaryID: 1})

	rows := a.EndEvent()

	require.Len(t, rows.Primaries, 1)
	assert.Equal(t, int32(1), rows.Primaries[0].PrimaryTrackID)
	assert.Equal(t, 2.45, rows.Primaries[0].PrimaryEnergyMeV)
}

func TestEndEventZeroHitsFallbackPrimary(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(9, neutronSnapshot())

	rows := a.EndEvent()

	assert.Empty(t, rows.Flat)
	assert.Empty(t, rows.Secondaries)
	assert.Empty(t, rows.Photons)
	require.Len(t, rows.Primaries, 1)
	assert.Equal(t, int32(1), rows.Primaries[0].PrimaryTrackID)
	assert.Equal(t, "n", rows.Primaries[0].PrimarySpecies)
	assert.Equal(t, 1.5, rows.Primaries[0].PrimaryXmm)
	assert.Equal(t, 2.45, rows.Primaries[0].PrimaryEnergyMeV)
}

func TestPhotonContextOverwriteKeepsLatest(t *testing.T) {
	a := NewAggregator(nil, nil)
	a.BeginEvent(1, nil)

	a.RecordPhotonContext(2, PhotonContext{PrimaryID: 1, Creation: core.Vec3{X: 1}})
	a.RecordPhotonContext(2, PhotonContext{PrimaryID: 1, Creation: core.Vec3{X: 7}})

	ctx, ok := a.FindPhotonContext(2)
	require.True(t, ok)
	assert.Equal(t, 7.0, ctx.Creation.X)
}
