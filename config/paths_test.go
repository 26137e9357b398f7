package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRunName(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "run1", want: "run1"},
		{name: "trimmed", in: "  run1  ", want: "run1"},
		{name: "double quotes stripped", in: `"run1"`, want: "run1"},
		{name: "single quotes stripped", in: "'run1'", want: "run1"},
		{name: "spaces replaced", in: "a b", want: "a_b"},
		{name: "separators replaced", in: "a/b\\c", want: "a_b_c"},
		{name: "quoted with spaces", in: `" a b "`, want: "_a_b_"},
		{name: "empty", in: "", want: ""},
		{name: "tab and newline", in: "a\tb\nc", want: "a_b_c"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeRunName(tc.in))
		})
	}
}

func TestStripKnownOutputExtension(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "hits.csv", want: "hits"},
		{in: "hits.CSV", want: "hits"},
		{in: "hits.cols", want: "hits"},
		{in: "hits.CoLs", want: "hits"},
		{in: "hits", want: "hits"},
		{in: "hits.txt", want: "hits.txt"},
		{in: "dir/hits.csv", want: "dir/hits"},
		{in: "archive.csv.cols", want: "archive.csv"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, StripKnownOutputExtension(tc.in), "input %q", tc.in)
	}
}

func TestComposePath(t *testing.T) {
	anchor := "/anchor"
	testCases := []struct {
		name    string
		base    string
		dir     string
		runName string
		want    string
	}{
		{
			name: "defaults resolve against anchor",
			base: "data/hits",
			want: "/anchor/data/hits.csv",
		},
		{
			name:    "run name only",
			base:    "data/hits",
			runName: "run_a",
			want:    "/anchor/run_a/hits.csv",
		},
		{
			name: "directory override only",
			base: "data/hits",
			dir:  "/out",
			want: "/out/hits.csv",
		},
		{
			name:    "override and run name",
			base:    "data/hits",
			dir:     "/out",
			runName: "run_a",
			want:    "/out/run_a/hits.csv",
		},
		{
			name: "empty base falls back to default",
			want: "/anchor/data/photon_sensor_hits.csv",
		},
		{
			name: "absolute base kept",
			base: "/abs/hits",
			want: "/abs/hits.csv",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComposePath(tc.base, tc.dir, tc.runName, anchor, ".csv")
			assert.Equal(t, filepath.FromSlash(tc.want), got)
		})
	}
}

func TestComposePath_RoundTripLeaf(t *testing.T) {
	// Composing with empty override and run name, then stripping the
	// appended extension, reproduces the original base leaf name.
	base := "data/photon_hits"
	got := ComposePath(base, "", "", "/anchor", ".cols")
	assert.True(t, strings.HasSuffix(got, ".cols"))
	stripped := StripKnownOutputExtension(got)
	assert.Equal(t, filepath.Base(base), filepath.Base(stripped))
}
