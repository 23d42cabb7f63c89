// internal/config/config.go
//
// This package handles configuration and the .wayfinder directory structure.
// Every project that uses Wayfinder gets a .wayfinder/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// WayfinderDir is the name of the directory we create in each project
	WayfinderDir = ".wayfinder"

	settingsFile = "config.yaml"
	registryFile = "agents.yaml"
	metricsFile  = "metrics.db"
	logbookFile  = "wayfinder.log"
)

const defaultSettingsYAML = `# wayfinder project configuration
version: 1

# Component weights for composite scoring. Must sum to 1.0.
# These are tunable configuration, not derived values; recalibrate
# against recorded outcomes if routing quality drifts.
scoring:
  pattern_weight: 0.35
  success_weight: 0.25
  efficiency_weight: 0.15
  context_weight: 0.15
  recency_weight: 0.10

metrics:
  # How many recent outcomes to keep per agent for recency scoring.
  recent_capacity: 10

output:
  # human | json | id
  default_format: human
`

// ScoringSettings holds the published composite-score weights.
type ScoringSettings struct {
	PatternWeight    float64 `yaml:"pattern_weight"`
	SuccessWeight    float64 `yaml:"success_weight"`
	EfficiencyWeight float64 `yaml:"efficiency_weight"`
	ContextWeight    float64 `yaml:"context_weight"`
	RecencyWeight    float64 `yaml:"recency_weight"`
}

// Sum returns the total of all five weights.
func (s ScoringSettings) Sum() float64 {
	return s.PatternWeight + s.SuccessWeight + s.EfficiencyWeight + s.ContextWeight + s.RecencyWeight
}

// MetricsSettings configures the performance store.
type MetricsSettings struct {
	RecentCapacity int `yaml:"recent_capacity"`
}

// OutputSettings captures rendering preferences.
type OutputSettings struct {
	DefaultFormat string `yaml:"default_format"`
}

// Settings models .wayfinder/config.yaml.
type Settings struct {
	Version int             `yaml:"version"`
	Scoring ScoringSettings `yaml:"scoring"`
	Metrics MetricsSettings `yaml:"metrics"`
	Output  OutputSettings  `yaml:"output"`
}

// Config holds the runtime configuration for Wayfinder.
type Config struct {
	// ProjectDir is the directory where the user ran `wayfinder` from
	ProjectDir string

	// WayfinderProjectDir is ProjectDir/.wayfinder
	WayfinderProjectDir string

	Settings Settings
}

// InitWayfinderDir creates the .wayfinder directory structure in the given
// project directory and seeds the default settings file if missing.
//
// Structure created:
// .wayfinder/
// ├── config.yaml   <- Scoring weights and store settings
// ├── agents.yaml   <- Agent registry (seeded by `wayfinder init`)
// ├── logs/         <- Logbook output
// └── state/        <- Metrics database
func InitWayfinderDir(projectDir string) error {
	wayfinderDir := filepath.Join(projectDir, WayfinderDir)

	dirs := []string{
		filepath.Join(wayfinderDir, "logs"),
		filepath.Join(wayfinderDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureSettings(filepath.Join(wayfinderDir, settingsFile))
}

// NewConfig creates a Config populated from the project's settings file.
// Missing settings fall back to defaults so `wayfinder route` works in a
// project that never ran `wayfinder init`.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		WayfinderProjectDir: filepath.Join(projectDir, WayfinderDir),
		Settings:            DefaultSettings(),
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultSettings returns the built-in settings document.
func DefaultSettings() Settings {
	var s Settings
	// The embedded default document is the source of truth for defaults;
	// a parse failure here is a programming error.
	if err := yaml.Unmarshal([]byte(defaultSettingsYAML), &s); err != nil {
		panic(fmt.Sprintf("config: default settings are invalid: %v", err))
	}
	return s
}

// Validate rejects settings that would make scoring meaningless.
func (s Settings) Validate() error {
	const tolerance = 1e-6
	if diff := s.Scoring.Sum() - 1.0; diff > tolerance || diff < -tolerance {
		return fmt.Errorf("config: scoring weights must sum to 1.0, got %.4f", s.Scoring.Sum())
	}
	if s.Metrics.RecentCapacity <= 0 {
		return fmt.Errorf("config: metrics.recent_capacity must be positive, got %d", s.Metrics.RecentCapacity)
	}
	switch s.Output.DefaultFormat {
	case "human", "json", "id":
	default:
		return fmt.Errorf("config: unknown output format %q", s.Output.DefaultFormat)
	}
	return nil
}

// RegistryPath returns the on-disk location of the agent registry file.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.WayfinderProjectDir, registryFile)
}

// MetricsDBPath returns the SQLite database backing the metrics store.
func (c *Config) MetricsDBPath() string {
	return filepath.Join(c.WayfinderProjectDir, "state", metricsFile)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.WayfinderProjectDir, "logs")
}

// LogbookPath returns the logbook file location.
func (c *Config) LogbookPath() string {
	return filepath.Join(c.LogsDir(), logbookFile)
}

// SettingsPath returns the on-disk location for the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.WayfinderProjectDir, settingsFile)
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", c.SettingsPath(), err)
	}
	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.SettingsPath(), err)
	}
	c.Settings = mergeSettings(c.Settings, loaded)
	return nil
}

// mergeSettings overlays loaded values onto defaults so partially written
// config files keep sane behavior.
func mergeSettings(base, loaded Settings) Settings {
	if loaded.Version != 0 {
		base.Version = loaded.Version
	}
	if loaded.Scoring.Sum() > 0 {
		base.Scoring = loaded.Scoring
	}
	if loaded.Metrics.RecentCapacity > 0 {
		base.Metrics = loaded.Metrics
	}
	if loaded.Output.DefaultFormat != "" {
		base.Output = loaded.Output
	}
	return base
}

func ensureSettings(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultSettingsYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default settings: %w", err)
	}
	return nil
}
