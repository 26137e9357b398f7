package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputConfig holds the output-routing configuration consumed by
// Settings. Values arrive already validated from the enclosing
// application (macro/UI parsing is out of scope here).
type OutputConfig struct {
	// Format selects which writers run: "csv", "cols" (alias
	// "colstore"), or "both".
	Format string `yaml:"format"`
	// BaseName is the base output filename; a recognized extension is
	// stripped.
	BaseName string `yaml:"base_name"`
	// Directory overrides the anchor-rooted destination when set.
	Directory string `yaml:"directory"`
	// RunName, when set, routes outputs into a per-run subdirectory.
	RunName string `yaml:"run_name"`
	// AnchorDir is the fixed root that relative base names resolve
	// against. It is never the process working directory at write time.
	AnchorDir string `yaml:"anchor_dir"`
}

// StoreConfig holds columnar-store writer configurations.
type StoreConfig struct {
	Compression string `yaml:"compression"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Output string `yaml:"output"` // "stdout", "file", "none"
	File   string `yaml:"file"`   // log file path when output is "file"
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // e.g. "localhost:4317"
	Protocol string `yaml:"protocol"` // "grpc" or "http"
}

// ReplayConfig holds settings for the replay pipeline.
type ReplayConfig struct {
	Workers int `yaml:"workers"`
}

// Config is the top-level configuration struct.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Replay  ReplayConfig  `yaml:"replay"`
}

// Load reads configuration from an io.Reader.
// This is the core logic, separated for testability.
func Load(r io.Reader) (*Config, error) {
	// Set default values
	cfg := &Config{
		Output: OutputConfig{
			Format:    "csv",
			BaseName:  "",
			AnchorDir: ".",
		},
		Store: StoreConfig{
			Compression: "snappy",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Protocol: "grpc",
		},
		Replay: ReplayConfig{
			Workers: 1,
		},
	}

	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}

// LoadFile reads configuration from a YAML file path. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
