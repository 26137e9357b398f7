package core

// Internal units follow the upstream transport engine: lengths are
// expressed in millimeters and energies in MeV. Output rows convert by
// dividing with these constants, which keeps every conversion site
// explicit even where the factor is 1.
const (
	Millimeter = 1.0
	Centimeter = 10.0 * Millimeter
	Nanometer  = 1e-6 * Millimeter

	MeV = 1.0
	EV  = 1e-6 * MeV
)

// HPlanckCLight is h*c in internal units (MeV*mm), used to derive a
// photon wavelength from its total energy: lambda = h*c/E.
// 1239.84193 eV*nm in SI-flavored units.
const HPlanckCLight = 1239.84193 * EV * Nanometer
