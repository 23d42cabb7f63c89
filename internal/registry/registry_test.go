package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kingrea/wayfinder/internal/registry"
)

func TestDefaultRegistryParses(t *testing.T) {
	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if reg.Len() < 3 {
		t.Fatalf("expected a useful default roster, got %d profiles", reg.Len())
	}
	if _, ok := reg.Get("backend"); !ok {
		t.Fatalf("default roster is missing the backend profile")
	}
	if _, ok := reg.Get("general"); !ok {
		t.Fatalf("default roster is missing the general fallback profile")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	reg, err := registry.Load(filepath.Join(t.TempDir(), "agents.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.Len() == 0 {
		t.Fatalf("expected default roster for missing file")
	}
}

func TestLoadProjectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	doc := `agents:
  - id: solo
    name: Solo
    patterns: [everything]
    baseline_success_rate: 0.9
    baseline_cost: 1.0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write agents.yaml: %v", err)
	}
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 profile, got %d", reg.Len())
	}
	profile, ok := reg.Get("solo")
	if !ok {
		t.Fatalf("expected solo profile")
	}
	if profile.BaselineSuccessRate != 0.9 {
		t.Fatalf("unexpected baseline: %v", profile.BaselineSuccessRate)
	}
}

func TestEmptyRegistryIsConfigurationError(t *testing.T) {
	if _, err := registry.Parse([]byte("agents: []\n")); !errors.Is(err, registry.ErrNoAgents) {
		t.Fatalf("expected ErrNoAgents, got %v", err)
	}
	if _, err := registry.New(nil); !errors.Is(err, registry.ErrNoAgents) {
		t.Fatalf("expected ErrNoAgents from New, got %v", err)
	}
}

func TestDuplicateIDsRejected(t *testing.T) {
	profiles := []registry.AgentProfile{
		{ID: "dup", BaselineSuccessRate: 0.8, BaselineCost: 1},
		{ID: "dup", BaselineSuccessRate: 0.8, BaselineCost: 1},
	}
	if _, err := registry.New(profiles); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestProfileValidation(t *testing.T) {
	cases := []struct {
		name    string
		profile registry.AgentProfile
	}{
		{"missing id", registry.AgentProfile{BaselineSuccessRate: 0.5, BaselineCost: 1}},
		{"bad success rate", registry.AgentProfile{ID: "x", BaselineSuccessRate: 1.5, BaselineCost: 1}},
		{"bad cost", registry.AgentProfile{ID: "x", BaselineSuccessRate: 0.5, BaselineCost: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.profile.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDeclarationOrderPreserved(t *testing.T) {
	profiles := []registry.AgentProfile{
		{ID: "zeta", BaselineSuccessRate: 0.8, BaselineCost: 1},
		{ID: "alpha", BaselineSuccessRate: 0.8, BaselineCost: 1},
	}
	reg, err := registry.New(profiles)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	all := reg.All()
	if all[0].ID != "zeta" || all[1].ID != "alpha" {
		t.Fatalf("declaration order not preserved: %+v", all)
	}
	if reg.Index("zeta") != 0 || reg.Index("alpha") != 1 {
		t.Fatalf("unexpected indices: %d %d", reg.Index("zeta"), reg.Index("alpha"))
	}
	if reg.Index("ghost") != reg.Len() {
		t.Fatalf("unknown ids should sort last")
	}
}
