package colstore

import (
	"encoding/binary"
	"fmt"

	"github.com/INLOpen/scintbase/core"
)

// FieldKind identifies the on-disk encoding of one row field.
type FieldKind uint8

const (
	KindInt64   FieldKind = 1
	KindInt32   FieldKind = 2
	KindFloat64 FieldKind = 3
	// KindBytes is a fixed-width NUL-padded byte field; Field.Size
	// carries the width. Values longer than Size-1 are truncated so a
	// terminating NUL always remains.
	KindBytes FieldKind = 4
)

// width returns the encoded width of the kind; size is only consulted
// for KindBytes.
func (k FieldKind) width(size uint16) int {
	switch k {
	case KindInt64, KindFloat64:
		return 8
	case KindInt32:
		return 4
	case KindBytes:
		return int(size)
	default:
		return 0
	}
}

// Field is one column of a row-set layout.
type Field struct {
	Name string
	Kind FieldKind
	Size uint16
}

// Schema is the declared compound row layout of one row-set. It is
// written to the file at creation time and frozen for the file's
// lifetime; reopening an existing store adopts the stored schema
// verbatim.
type Schema struct {
	Name    string
	Version uint8
	Fields  []Field
}

// Stride returns the fixed byte width of one encoded row.
func (s *Schema) Stride() int {
	n := 0
	for _, f := range s.Fields {
		n += f.Kind.width(f.Size)
	}
	return n
}

// schemaVersion is the current layout version of the canonical row
// sets. It is persisted per row-set so downstream readers can detect
// which layout a given file carries.
const schemaVersion uint8 = 1

func speciesField(name string) Field {
	return Field{Name: name, Kind: KindBytes, Size: core.SpeciesLabelSize}
}

// PrimarySchema returns the canonical layout of the primaries row-set.
func PrimarySchema() Schema {
	return Schema{
		Name:    core.PrimariesRowSet,
		Version: schemaVersion,
		Fields: []Field{
			{Name: "gun_call_id", Kind: KindInt64},
			{Name: "primary_track_id", Kind: KindInt32},
			speciesField("primary_species"),
			{Name: "primary_x_mm", Kind: KindFloat64},
			{Name: "primary_y_mm", Kind: KindFloat64},
			{Name: "primary_energy_MeV", Kind: KindFloat64},
		},
	}
}

// SecondarySchema returns the canonical layout of the secondaries
// row-set.
func SecondarySchema() Schema {
	return Schema{
		Name:    core.SecondariesRowSet,
		Version: schemaVersion,
		Fields: []Field{
			{Name: "gun_call_id", Kind: KindInt64},
			{Name: "primary_track_id", Kind: KindInt32},
			{Name: "secondary_track_id", Kind: KindInt32},
			speciesField("secondary_species"),
			{Name: "secondary_origin_x_mm", Kind: KindFloat64},
			{Name: "secondary_origin_y_mm", Kind: KindFloat64},
			{Name: "secondary_origin_z_mm", Kind: KindFloat64},
			{Name: "secondary_origin_energy_MeV", Kind: KindFloat64},
		},
	}
}

// PhotonSchema returns the canonical layout of the photons row-set.
func PhotonSchema() Schema {
	return Schema{
		Name:    core.PhotonsRowSet,
		Version: schemaVersion,
		Fields: []Field{
			{Name: "gun_call_id", Kind: KindInt64},
			{Name: "primary_track_id", Kind: KindInt32},
			{Name: "secondary_track_id", Kind: KindInt32},
			{Name: "photon_track_id", Kind: KindInt32},
			{Name: "photon_origin_x_mm", Kind: KindFloat64},
			{Name: "photon_origin_y_mm", Kind: KindFloat64},
			{Name: "photon_origin_z_mm", Kind: KindFloat64},
			{Name: "hit_x_mm", Kind: KindFloat64},
			{Name: "hit_y_mm", Kind: KindFloat64},
			{Name: "hit_dir_x", Kind: KindFloat64},
			{Name: "hit_dir_y", Kind: KindFloat64},
			{Name: "hit_dir_z", Kind: KindFloat64},
			{Name: "hit_pol_x", Kind: KindFloat64},
			{Name: "hit_pol_y", Kind: KindFloat64},
			{Name: "hit_pol_z", Kind: KindFloat64},
			{Name: "hit_energy_eV", Kind: KindFloat64},
			{Name: "hit_wavelength_nm", Kind: KindFloat64},
		},
	}
}

// canonicalSchemas returns the three row-set layouts in creation
// order. Chunk records reference row-sets by this index.
func canonicalSchemas() []Schema {
	return []Schema{PrimarySchema(), SecondarySchema(), PhotonSchema()}
}

// encodeSchema serializes a schema record body.
func encodeSchema(s *Schema) []byte {
	buf := make([]byte, 0, 64)
	buf = appendString16(buf, s.Name)
	buf = append(buf, s.Version)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s.Fields)))
	for _, f := range s.Fields {
		buf = appendString16(buf, f.Name)
		buf = append(buf, byte(f.Kind))
		buf = binary.LittleEndian.AppendUint16(buf, f.Size)
	}
	return buf
}

// decodeSchema parses a schema record body.
func decodeSchema(body []byte) (Schema, error) {
	var s Schema
	var err error
	s.Name, body, err = readString16(body)
	if err != nil {
		return s, fmt.Errorf("schema name: %w", err)
	}
	if len(body) < 3 {
		return s, fmt.Errorf("schema record truncated")
	}
	s.Version = body[0]
	count := binary.LittleEndian.Uint16(body[1:3])
	body = body[3:]
	s.Fields = make([]Field, 0, count)
	for i := 0; i < int(count); i++ {
		var f Field
		f.Name, body, err = readString16(body)
		if err != nil {
			return s, fmt.Errorf("schema field %d: %w", i, err)
		}
		if len(body) < 3 {
			return s, fmt.Errorf("schema field %d truncated", i)
		}
		f.Kind = FieldKind(body[0])
		f.Size = binary.LittleEndian.Uint16(body[1:3])
		body = body[3:]
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

func appendString16(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

func readString16(body []byte) (string, []byte, error) {
	if len(body) < 2 {
		return "", nil, fmt.Errorf("truncated string length")
	}
	n := int(binary.LittleEndian.Uint16(body))
	body = body[2:]
	if len(body) < n {
		return "", nil, fmt.Errorf("truncated string payload")
	}
	return string(body[:n]), body[n:], nil
}
