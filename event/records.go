// Package event owns all per-event instrumentation state: the track
// ancestry caches, the pending-origin handoff table, the recorded
// detector hits, and the end-of-event transformation of those hits
// into the two persisted row shapes.
package event

import "github.com/INLOpen/scintbase/core"

// UnresolvedTrackID marks an identifier that could not be resolved
// from the ancestry caches. It is part of the output contract and is
// written to rows as-is.
const UnresolvedTrackID = -1

// UnknownEnergy marks an energy that was never observed. Like
// UnresolvedTrackID it flows through to the output rows unchanged.
const UnknownEnergy = -1.0

// TrackRecord caches the per-track state resolved when a track enters
// tracking. Records are immutable once stored and live until the next
// event reset.
type TrackRecord struct {
	Species      string
	Vertex       core.Vec3
	VertexEnergy float64
	// PrimaryID is the resolved root-primary identifier: the track's
	// own id for parentless tracks, the parent's resolved id otherwise,
	// or UnresolvedTrackID when the parent record is absent.
	PrimaryID int
}

// PhotonContext is the richer ancestry record built for each optical
// photon the first time it is tracked: the resolved root primary, the
// immediate parent, and the photon's true creation point.
type PhotonContext struct {
	PrimaryID   int
	SecondaryID int
	// Creation is the photon's creation position, preferring the
	// stashed step-time report over the track's generic vertex.
	Creation core.Vec3

	SecondarySpecies string
	SecondaryOrigin  core.Vec3
	SecondaryEnergy  float64
}

// HitRecord captures one accepted detector-boundary crossing. The
// per-event list of HitRecords is the sole input to end-of-event row
// synthesis.
type HitRecord struct {
	PhotonID    int
	PrimaryID   int
	SecondaryID int

	PrimarySpecies string
	PrimaryX       float64
	PrimaryY       float64

	SecondarySpecies string
	SecondaryOrigin  core.Vec3
	SecondaryEnergy  float64

	Creation core.Vec3

	Position     core.Vec3
	Direction    core.Vec3
	Polarization core.Vec3
	TotalEnergy  float64
	Wavelength   float64
}
