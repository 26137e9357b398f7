package config

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/INLOpen/scintbase/core"
)

// NormalizeRunName turns a user-provided run name into a single
// directory-safe path segment:
//   - leading/trailing whitespace trimmed,
//   - one layer of matching single or double quotes removed,
//   - path separators and embedded whitespace replaced with '_'.
func NormalizeRunName(value string) string {
	normalized := unquote(strings.TrimSpace(value))

	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, normalized)
}

// unquote removes one layer of matching single or double quotes.
func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '\'' || first == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// StripKnownOutputExtension removes a recognized output extension
// (.csv or .cols, case-insensitive) from a base file name/path. This
// lets callers pass either a bare base name or a full file name while
// one canonical base path is kept internally, and makes repeated
// base-name updates idempotent.
func StripKnownOutputExtension(value string) string {
	ext := strings.ToLower(filepath.Ext(value))
	if ext != core.CSVFileSuffix && ext != core.ColumnStoreFileSuffix {
		return value
	}
	return strings.TrimSuffix(value, value[len(value)-len(ext):])
}

// ComposePath builds a concrete output file path for one format
// extension from the routing inputs.
//
// Rules:
//   - no directory override, no run name: base resolved against the
//     anchor root, plus extension;
//   - run name only: <anchor>/<runName>/<leaf(base)><ext>;
//   - directory override only: <dir>/<leaf(base)><ext>;
//   - both: <dir>/<runName>/<leaf(base)><ext>.
//
// runName must already be normalized (see NormalizeRunName). Directory
// creation is the persistence layer's job, not this function's.
func ComposePath(base, dirOverride, runName, anchorDir, ext string) string {
	safeBase := base
	if safeBase == "" {
		safeBase = core.DefaultOutputBase
	}

	if dirOverride == "" && runName == "" {
		if filepath.IsAbs(safeBase) {
			return safeBase + ext
		}
		return filepath.Join(anchorDir, safeBase) + ext
	}

	leaf := filepath.Base(safeBase)
	if leaf == "." || leaf == string(filepath.Separator) {
		leaf = filepath.Base(core.DefaultOutputBase)
	}

	switch {
	case dirOverride == "":
		return filepath.Join(anchorDir, runName, leaf) + ext
	case runName == "":
		return filepath.Join(dirOverride, leaf) + ext
	default:
		return filepath.Join(dirOverride, runName, leaf) + ext
	}
}
