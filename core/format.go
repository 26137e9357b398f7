package core

// This file centralizes constants related to file formats, magic
// numbers, and other protocol-level identifiers used by the
// persistence writers.

// --- Magic Numbers ---
const (
	// ColumnStoreMagicNumber identifies a columnar-store file.
	ColumnStoreMagicNumber uint32 = 0x434F4C53 // "COLS"
)

// --- Protocol & Format Versions ---
const (
	// FormatVersion is the current version of the columnar-store file
	// layout (header + record framing). Row-set schemas carry their own
	// version tag in addition to this one.
	FormatVersion uint8 = 1
)

// --- File Extensions ---
const (
	// CSVFileSuffix is the extension of the flat-table output.
	CSVFileSuffix = ".csv"
	// ColumnStoreFileSuffix is the extension of the columnar-store
	// output.
	ColumnStoreFileSuffix = ".cols"
)

// --- Row-Set Names ---
const (
	PrimariesRowSet   = "primaries"
	SecondariesRowSet = "secondaries"
	PhotonsRowSet     = "photons"
)

// SpeciesLabelSize is the fixed width of species-label fields in
// columnar-store rows, including the terminating NUL. Labels longer
// than SpeciesLabelSize-1 bytes are truncated on write.
const SpeciesLabelSize = 16

// DefaultOutputBase is the base output path used when no base filename
// has been configured.
const DefaultOutputBase = "data/photon_sensor_hits"
