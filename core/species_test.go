package core

import (
	"math"
	"testing"
)

func TestSpeciesLabel(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "neutron", in: "neutron", want: "n"},
		{name: "gamma", in: "gamma", want: "g"},
		{name: "alpha", in: "alpha", want: "a"},
		{name: "proton", in: "proton", want: "p"},
		{name: "electron", in: "e-", want: "electron"},
		{name: "positron", in: "e+", want: "positron"},
		{name: "isotope suffix truncated", in: "Li7[0.0]", want: "Li7"},
		{name: "excited state truncated", in: "B11[2124.693]", want: "B11"},
		{name: "passthrough", in: "opticalphoton", want: "opticalphoton"},
		{name: "empty passthrough", in: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SpeciesLabel(tc.in); got != tc.want {
				t.Errorf("SpeciesLabel(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestWavelengthConstant(t *testing.T) {
	// A 3.1 eV optical photon is ~400 nm.
	lambda := HPlanckCLight / (3.1 * EV)
	if got := lambda / Nanometer; math.Abs(got-399.95) > 0.05 {
		t.Errorf("wavelength of 3.1 eV photon = %v nm, want ~400 nm", got)
	}
}
