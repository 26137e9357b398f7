package core

import "strings"

// Engine-native particle names with special meaning to this subsystem.
const (
	// OpticalPhotonName is the engine name of the detectable secondary
	// quantum species. Only tracks of this species receive creation
	// contexts and boundary-hit records.
	OpticalPhotonName = "opticalphoton"

	// UnknownSpecies is the label used when a species cannot be
	// resolved (missing ancestry, absent primary vertex).
	UnknownSpecies = "unknown"
)

// SpeciesLabel converts an engine-native particle name into the
// compact canonical label used in output tables.
//
// Common species map to short stable labels; names carrying an isotope
// or excited-state suffix (e.g. "Li7[0.0]") are truncated at the
// opening bracket; everything else passes through unchanged. There is
// no failure mode.
func SpeciesLabel(particleName string) string {
	switch particleName {
	case "neutron":
		return "n"
	case "gamma":
		return "g"
	case "alpha":
		return "a"
	case "proton":
		return "p"
	case "e-":
		return "electron"
	case "e+":
		return "positron"
	}

	if i := strings.IndexByte(particleName, '['); i >= 0 {
		return particleName[:i]
	}
	return particleName
}
