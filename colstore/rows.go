package colstore

import (
	"encoding/binary"
	"math"
)

// PrimaryRow is one deduplicated primary-particle row. One row exists
// per distinct primary per event; an event with no resolved primaries
// still contributes one fallback row.
type PrimaryRow struct {
	GunCallID        int64
	PrimaryTrackID   int32
	PrimarySpecies   string
	PrimaryXmm       float64
	PrimaryYmm       float64
	PrimaryEnergyMeV float64
}

// SecondaryRow is one deduplicated secondary (photon parent) row.
type SecondaryRow struct {
	GunCallID                int64
	PrimaryTrackID           int32
	SecondaryTrackID         int32
	SecondarySpecies         string
	SecondaryOriginXmm       float64
	SecondaryOriginYmm       float64
	SecondaryOriginZmm       float64
	SecondaryOriginEnergyMeV float64
}

// PhotonRow is one row per detected optical photon hit, carrying the
// full boundary-crossing optical state.
type PhotonRow struct {
	GunCallID        int64
	PrimaryTrackID   int32
	SecondaryTrackID int32
	PhotonTrackID    int32

	PhotonOriginXmm float64
	PhotonOriginYmm float64
	PhotonOriginZmm float64

	HitXmm float64
	HitYmm float64

	HitDirX float64
	HitDirY float64
	HitDirZ float64

	HitPolX float64
	HitPolY float64
	HitPolZ float64

	HitEnergyEV     float64
	HitWavelengthNm float64
}

// fieldEncoder writes the value of one named field into a zeroed,
// exactly-sized destination slice. Fields named by the stored schema
// but unknown to the row type stay zero, which is how files created by
// an older layout keep their frozen schema.
type fieldEncoder interface {
	encodeField(dst []byte, f Field)
}

func putInt64(dst []byte, v int64) {
	binary.LittleEndian.PutUint64(dst, uint64(v))
}

func putInt32(dst []byte, v int32) {
	binary.LittleEndian.PutUint32(dst, uint32(v))
}

func putFloat64(dst []byte, v float64) {
	binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
}

// putLabel copies a label into a fixed-width NUL-padded buffer,
// truncating so the final byte always remains NUL.
func putLabel(dst []byte, s string) {
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, s[:n])
}

func (r PrimaryRow) encodeField(dst []byte, f Field) {
	switch f.Name {
	case "gun_call_id":
		putInt64(dst, r.GunCallID)
	case "primary_track_id":
		putInt32(dst, r.PrimaryTrackID)
	case "primary_species":
		putLabel(dst, r.PrimarySpecies)
	case "primary_x_mm":
		putFloat64(dst, r.PrimaryXmm)
	case "primary_y_mm":
		putFloat64(dst, r.PrimaryYmm)
	case "primary_energy_MeV":
		putFloat64(dst, r.PrimaryEnergyMeV)
	}
}

func (r SecondaryRow) encodeField(dst []byte, f Field) {
	switch f.Name {
	case "gun_call_id":
		putInt64(dst, r.GunCallID)
	case "primary_track_id":
		putInt32(dst, r.PrimaryTrackID)
	case "secondary_track_id":
		putInt32(dst, r.SecondaryTrackID)
	case "secondary_species":
		putLabel(dst, r.SecondarySpecies)
	case "secondary_origin_x_mm":
		putFloat64(dst, r.SecondaryOriginXmm)
	case "secondary_origin_y_mm":
		putFloat64(dst, r.SecondaryOriginYmm)
	case "secondary_origin_z_mm":
		putFloat64(dst, r.SecondaryOriginZmm)
	case "secondary_origin_energy_MeV":
		putFloat64(dst, r.SecondaryOriginEnergyMeV)
	}
}

func (r PhotonRow) encodeField(dst []byte, f Field) {
	switch f.Name {
	case "gun_call_id":
		putInt64(dst, r.GunCallID)
	case "primary_track_id":
		putInt32(dst, r.PrimaryTrackID)
	case "secondary_track_id":
		putInt32(dst, r.SecondaryTrackID)
	case "photon_track_id":
		putInt32(dst, r.PhotonTrackID)
	case "photon_origin_x_mm":
		putFloat64(dst, r.PhotonOriginXmm)
	case "photon_origin_y_mm":
		putFloat64(dst, r.PhotonOriginYmm)
	case "photon_origin_z_mm":
		putFloat64(dst, r.PhotonOriginZmm)
	case "hit_x_mm":
		putFloat64(dst, r.HitXmm)
	case "hit_y_mm":
		putFloat64(dst, r.HitYmm)
	case "hit_dir_x":
		putFloat64(dst, r.HitDirX)
	case "hit_dir_y":
		putFloat64(dst, r.HitDirY)
	case "hit_dir_z":
		putFloat64(dst, r.HitDirZ)
	case "hit_pol_x":
		putFloat64(dst, r.HitPolX)
	case "hit_pol_y":
		putFloat64(dst, r.HitPolY)
	case "hit_pol_z":
		putFloat64(dst, r.HitPolZ)
	case "hit_energy_eV":
		putFloat64(dst, r.HitEnergyEV)
	case "hit_wavelength_nm":
		putFloat64(dst, r.HitWavelengthNm)
	}
}

// encodeRows serializes a contiguous row block against the stored
// schema. The block is fixed-stride: unknown stored fields are left
// zeroed (see fieldEncoder).
func encodeRows[T fieldEncoder](s *Schema, rows []T) []byte {
	stride := s.Stride()
	block := make([]byte, stride*len(rows))
	off := 0
	for _, row := range rows {
		for _, f := range s.Fields {
			w := f.Kind.width(f.Size)
			row.encodeField(block[off:off+w], f)
			off += w
		}
	}
	return block
}
