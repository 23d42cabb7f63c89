package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kingrea/wayfinder/internal/config"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := config.DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if s.Scoring.PatternWeight != 0.35 || s.Scoring.RecencyWeight != 0.10 {
		t.Fatalf("unexpected reference weights: %+v", s.Scoring)
	}
	if s.Metrics.RecentCapacity != 10 {
		t.Fatalf("unexpected ring capacity: %d", s.Metrics.RecentCapacity)
	}
}

func TestInitCreatesStructure(t *testing.T) {
	dir := t.TempDir()
	if err := config.InitWayfinderDir(dir); err != nil {
		t.Fatalf("InitWayfinderDir: %v", err)
	}
	for _, sub := range []string{"logs", "state"} {
		if _, err := os.Stat(filepath.Join(dir, config.WayfinderDir, sub)); err != nil {
			t.Fatalf("missing %s: %v", sub, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, config.WayfinderDir, "config.yaml")); err != nil {
		t.Fatalf("missing config.yaml: %v", err)
	}

	// Re-running must not clobber an existing settings file.
	custom := []byte("version: 2\n")
	path := filepath.Join(dir, config.WayfinderDir, "config.yaml")
	if err := os.WriteFile(path, custom, 0o644); err != nil {
		t.Fatalf("write custom settings: %v", err)
	}
	if err := config.InitWayfinderDir(dir); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if string(data) != string(custom) {
		t.Fatalf("init overwrote existing settings")
	}
}

func TestNewConfigWithoutProjectFileUsesDefaults(t *testing.T) {
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Settings.Output.DefaultFormat != "human" {
		t.Fatalf("unexpected default format: %q", cfg.Settings.Output.DefaultFormat)
	}
	if cfg.MetricsDBPath() != filepath.Join(cfg.WayfinderProjectDir, "state", "metrics.db") {
		t.Fatalf("unexpected metrics path: %s", cfg.MetricsDBPath())
	}
}

func TestNewConfigMergesPartialSettings(t *testing.T) {
	dir := t.TempDir()
	if err := config.InitWayfinderDir(dir); err != nil {
		t.Fatalf("InitWayfinderDir: %v", err)
	}
	partial := `version: 1
metrics:
  recent_capacity: 25
`
	if err := os.WriteFile(filepath.Join(dir, config.WayfinderDir, "config.yaml"), []byte(partial), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Settings.Metrics.RecentCapacity != 25 {
		t.Fatalf("capacity = %d, want 25", cfg.Settings.Metrics.RecentCapacity)
	}
	// Untouched sections keep their defaults.
	if cfg.Settings.Scoring.PatternWeight != 0.35 {
		t.Fatalf("scoring defaults lost: %+v", cfg.Settings.Scoring)
	}
}

func TestNewConfigRejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	if err := config.InitWayfinderDir(dir); err != nil {
		t.Fatalf("InitWayfinderDir: %v", err)
	}
	bad := `version: 1
scoring:
  pattern_weight: 0.9
  success_weight: 0.9
  efficiency_weight: 0.1
  context_weight: 0.1
  recency_weight: 0.1
`
	if err := os.WriteFile(filepath.Join(dir, config.WayfinderDir, "config.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if _, err := config.NewConfig(dir); err == nil {
		t.Fatalf("expected weight validation error")
	}
}
