// Package registry defines the fixed roster of agent profiles that the
// selector routes tasks to. Profiles are declared in .wayfinder/agents.yaml
// (or fall back to the embedded default roster) and are read-only at runtime:
// adding an agent means adding a registry entry, never a new code branch.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoAgents is returned when the registry is missing or declares no
// profiles. No recommendation is possible without a roster.
var ErrNoAgents = errors.New("registry: no agent profiles configured")

// AgentProfile describes one routing target. Profiles are immutable once
// loaded; performance data lives in the metrics store, not here.
type AgentProfile struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Patterns    []string `yaml:"patterns"`
	Tags        []string `yaml:"tags,omitempty"`

	// BaselineSuccessRate seeds success scoring before any outcomes exist.
	BaselineSuccessRate float64 `yaml:"baseline_success_rate"`

	// BaselineCost anchors efficiency scoring; observed average costs are
	// compared against it.
	BaselineCost float64 `yaml:"baseline_cost"`

	// Affinities lists tool/editor identifiers this agent integrates with.
	Affinities []string `yaml:"affinities,omitempty"`
}

// Validate checks a single profile for usable values.
func (p AgentProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("registry: profile is missing an id")
	}
	if p.BaselineSuccessRate < 0 || p.BaselineSuccessRate > 1 {
		return fmt.Errorf("registry: %s: baseline_success_rate %.2f outside [0,1]", p.ID, p.BaselineSuccessRate)
	}
	if p.BaselineCost <= 0 {
		return fmt.Errorf("registry: %s: baseline_cost must be positive, got %.2f", p.ID, p.BaselineCost)
	}
	return nil
}

// Registry holds the ordered set of agent profiles. Declaration order is
// preserved because it is the final ranking tie-break.
type Registry struct {
	profiles []AgentProfile
	byID     map[string]int
}

// New builds a registry from profiles, validating ids and uniqueness.
func New(profiles []AgentProfile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, ErrNoAgents
	}
	reg := &Registry{
		profiles: make([]AgentProfile, 0, len(profiles)),
		byID:     make(map[string]int, len(profiles)),
	}
	for _, profile := range profiles {
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		id := strings.TrimSpace(profile.ID)
		if _, exists := reg.byID[id]; exists {
			return nil, fmt.Errorf("registry: duplicate agent id %q", id)
		}
		profile.ID = id
		reg.byID[id] = len(reg.profiles)
		reg.profiles = append(reg.profiles, profile)
	}
	return reg, nil
}

// Load reads the registry from a YAML file. A missing file falls back to the
// embedded default roster; an empty or unparseable file is an error.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default()
		}
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a registry from raw YAML.
func Parse(data []byte) (*Registry, error) {
	var doc struct {
		Agents []AgentProfile `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registry: parse agents file: %w", err)
	}
	if len(doc.Agents) == 0 {
		return nil, ErrNoAgents
	}
	return New(doc.Agents)
}

// Default returns the embedded default roster.
func Default() (*Registry, error) {
	return Parse([]byte(DefaultRegistryYAML))
}

// Get returns the profile with the given id.
func (r *Registry) Get(id string) (AgentProfile, bool) {
	idx, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return AgentProfile{}, false
	}
	return r.profiles[idx], true
}

// All returns profiles in declaration order. The slice is a copy; callers
// cannot mutate the registry through it.
func (r *Registry) All() []AgentProfile {
	out := make([]AgentProfile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Len reports the number of profiles.
func (r *Registry) Len() int {
	return len(r.profiles)
}

// Index returns the declaration position of an agent id, used as the final
// ranking tie-break. Unknown ids sort last.
func (r *Registry) Index(id string) int {
	if idx, ok := r.byID[strings.TrimSpace(id)]; ok {
		return idx
	}
	return len(r.profiles)
}
