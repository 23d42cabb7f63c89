// Package selector implements the composite scoring engine: it ranks every
// registry profile against a task context using five weighted component
// scores and returns a deterministic recommendation with reasoning.
package selector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kingrea/wayfinder/internal/analyzer"
	"github.com/kingrea/wayfinder/internal/metrics"
	"github.com/kingrea/wayfinder/internal/registry"
)

// ErrUnknownAgent is returned when a caller names an agent id that is not
// in the registry. Explicit, never silently ignored.
var ErrUnknownAgent = errors.New("selector: unknown agent id")

// ForcedReasoning is the fixed reasoning string for manual overrides.
const ForcedReasoning = "manually specified"

// Request is one routing request.
type Request struct {
	// Task is the free-text description. Required.
	Task string

	// PathHint optionally points the analyzer at a file or directory.
	PathHint string

	// ForceAgent bypasses scoring entirely when set to a registry id.
	ForceAgent string
}

// Candidate is one ranked agent with its score breakdown.
type Candidate struct {
	Profile    registry.AgentProfile
	Scores     ScoreBreakdown
	Confidence float64
	Reasoning  string
}

// Selection is the outcome of a routing request.
type Selection struct {
	Agent      registry.AgentProfile
	Scores     ScoreBreakdown
	Confidence float64
	Reasoning  string
	Forced     bool

	// Alternatives holds the remaining candidates in rank order.
	Alternatives []Candidate

	Context analyzer.TaskContext

	// Warnings carries non-fatal degradations, e.g. an unreadable metrics
	// store. The selection itself is still valid.
	Warnings []string
}

// Selector wires the registry, analyzer, and metrics store together. The
// store is injected, never reached through ambient globals, so tests can
// substitute an in-memory fake.
type Selector struct {
	registry *registry.Registry
	store    metrics.Store
	analyzer *analyzer.Analyzer
	weights  Weights
	now      func() time.Time
}

// Option customizes a Selector.
type Option func(*Selector)

// WithWeights overrides the component weights.
func WithWeights(w Weights) Option {
	return func(s *Selector) { s.weights = w }
}

// WithAnalyzer overrides the context analyzer.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(s *Selector) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithClock overrides the timestamp source for recorded outcomes.
func WithClock(clock func() time.Time) Option {
	return func(s *Selector) {
		if clock != nil {
			s.now = clock
		}
	}
}

// New builds a selector over a registry and metrics store.
func New(reg *registry.Registry, store metrics.Store, opts ...Option) (*Selector, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, registry.ErrNoAgents
	}
	if store == nil {
		return nil, fmt.Errorf("selector: metrics store is required")
	}
	s := &Selector{
		registry: reg,
		store:    store,
		analyzer: analyzer.New(),
		weights:  DefaultWeights(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Select analyzes the task and returns the ranked recommendation. Given
// identical registry state, metrics, and input, the result is identical:
// ranking ties break by baseline success rate, then declaration order.
func (s *Selector) Select(req Request) (Selection, error) {
	ctx, err := s.analyzer.Analyze(req.Task, req.PathHint)
	if err != nil {
		return Selection{}, err
	}

	if req.ForceAgent != "" {
		profile, ok := s.registry.Get(req.ForceAgent)
		if !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownAgent, req.ForceAgent)
		}
		return Selection{
			Agent:      profile,
			Confidence: 100,
			Reasoning:  ForcedReasoning,
			Forced:     true,
			Context:    ctx,
		}, nil
	}

	var warnings []string
	storeDegraded := false
	candidates := make([]Candidate, 0, s.registry.Len())
	for _, profile := range s.registry.All() {
		record, recorded, loadErr := s.store.Load(profile.ID)
		if loadErr != nil {
			// The store being unreadable is a warning, not a failure:
			// scoring falls back to seeded baselines.
			if !storeDegraded {
				warnings = append(warnings, fmt.Sprintf("metrics store unavailable, using baselines: %v", loadErr))
				storeDegraded = true
			}
			record, recorded = metrics.Record{AgentID: profile.ID}, false
		}
		breakdown := scoreProfile(profile, ctx, record, recorded, s.weights)
		candidates = append(candidates, Candidate{
			Profile:    profile,
			Scores:     breakdown,
			Confidence: confidence(breakdown.Composite),
			Reasoning:  joinReasons(reasonsFor(breakdown)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Scores.Composite != candidates[j].Scores.Composite {
			return candidates[i].Scores.Composite > candidates[j].Scores.Composite
		}
		if candidates[i].Profile.BaselineSuccessRate != candidates[j].Profile.BaselineSuccessRate {
			return candidates[i].Profile.BaselineSuccessRate > candidates[j].Profile.BaselineSuccessRate
		}
		return s.registry.Index(candidates[i].Profile.ID) < s.registry.Index(candidates[j].Profile.ID)
	})

	top := candidates[0]
	return Selection{
		Agent:        top.Profile,
		Scores:       top.Scores,
		Confidence:   top.Confidence,
		Reasoning:    top.Reasoning,
		Alternatives: candidates[1:],
		Context:      ctx,
		Warnings:     warnings,
	}, nil
}

// RecordOutcome closes the feedback loop after a routed task completes.
// The agent must exist in the registry; the outcome is persisted through
// the store (non-fatal on failure, the error is returned for the caller to
// surface as a warning).
func (s *Selector) RecordOutcome(agentID, task string, success bool, cost float64) (metrics.Record, error) {
	if _, ok := s.registry.Get(agentID); !ok {
		return metrics.Record{}, fmt.Errorf("%w: %q", ErrUnknownAgent, agentID)
	}
	return s.store.RecordOutcome(agentID, metrics.Outcome{
		Timestamp: s.now(),
		Task:      task,
		Success:   success,
		Cost:      cost,
	})
}

// confidence maps a composite score to 0-100 with one decimal.
func confidence(composite float64) float64 {
	return math.Round(composite*1000) / 10
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
