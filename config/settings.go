package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/INLOpen/scintbase/core"
)

// Format selects which persistence writers run at end of event.
type Format int

const (
	FormatCSV Format = iota
	FormatColumnStore
	FormatBoth
)

// WritesCSV reports whether the flat table is written in this mode.
func (f Format) WritesCSV() bool {
	return f == FormatCSV || f == FormatBoth
}

// WritesColumnStore reports whether the columnar store is written in
// this mode.
func (f Format) WritesColumnStore() bool {
	return f == FormatColumnStore || f == FormatBoth
}

// String returns the canonical configuration token for the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatColumnStore:
		return "cols"
	case FormatBoth:
		return "both"
	}
	return "csv"
}

// ParseFormat converts a configuration token into a Format. It is pure
// parsing and mutates nothing.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(value) {
	case "csv":
		return FormatCSV, nil
	case "cols", "colstore":
		return FormatColumnStore, nil
	case "both":
		return FormatBoth, nil
	}
	return FormatCSV, fmt.Errorf("unknown output format %q", value)
}

// Settings is the runtime-mutable output-routing surface. It is shared
// between the enclosing application's command layer and the
// event-processing workers, so every accessor is mutex-guarded.
type Settings struct {
	mu        sync.Mutex
	format    Format
	baseName  string
	directory string
	runName   string
	anchorDir string
}

// NewSettings builds Settings from an OutputConfig. An invalid format
// token is rejected rather than silently defaulted.
func NewSettings(cfg OutputConfig) (*Settings, error) {
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	anchor := cfg.AnchorDir
	if anchor == "" {
		anchor = "."
	}

	s := &Settings{
		format:    format,
		baseName:  StripKnownOutputExtension(cfg.BaseName),
		directory: cfg.Directory,
		runName:   NormalizeRunName(cfg.RunName),
		anchorDir: anchor,
	}
	return s, nil
}

// Format returns the active output format.
func (s *Settings) Format() Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// SetFormat parses and applies an output-format token. An unknown
// token is rejected and the prior configuration is retained unchanged.
func (s *Settings) SetFormat(value string) error {
	format, err := ParseFormat(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = format
	return nil
}

// BaseName returns the stored extensionless base name.
func (s *Settings) BaseName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseName
}

// SetBaseName stores a new base output name. A recognized output
// extension is stripped first, so repeated calls with the same value
// are idempotent. Empty values are ignored to prevent accidental
// erasure.
func (s *Settings) SetBaseName(value string) {
	if value == "" {
		return
	}
	normalized := StripKnownOutputExtension(value)
	if normalized == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseName = normalized
}

// RunName returns the normalized run name ("" when unset).
func (s *Settings) RunName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runName
}

// SetRunName normalizes and stores a run name. An empty value clears
// run-name routing back to the anchor-rooted default path.
func (s *Settings) SetRunName(value string) {
	normalized := NormalizeRunName(value)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runName = normalized
}

// Directory returns the output-directory override ("" when unset).
func (s *Settings) Directory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directory
}

// SetDirectory stores an output-directory override. An empty value
// clears the override.
func (s *Settings) SetDirectory(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory = value
}

// CSVPath returns the concrete flat-table destination path.
func (s *Settings) CSVPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComposePath(s.baseName, s.directory, s.runName, s.anchorDir, core.CSVFileSuffix)
}

// StorePath returns the concrete columnar-store destination path.
func (s *Settings) StorePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComposePath(s.baseName, s.directory, s.runName, s.anchorDir, core.ColumnStoreFileSuffix)
}
