package selector

import (
	"math"
	"testing"
	"time"

	"github.com/kingrea/wayfinder/internal/analyzer"
	"github.com/kingrea/wayfinder/internal/metrics"
	"github.com/kingrea/wayfinder/internal/registry"
)

func TestPatternScore(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
		task     string
		want     float64
	}{
		{"no patterns", nil, "fix the build", 0},
		{"no matches", []string{"frontend", "css"}, "fix the backend build", 0},
		{"partial", []string{"backend", "css"}, "fix the backend build", 0.5},
		{"all", []string{"backend", "build"}, "fix the backend build", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := patternScore(tc.patterns, tc.task)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("patternScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSuccessScoreUsesBaselineUntilRecorded(t *testing.T) {
	profile := registry.AgentProfile{ID: "a", BaselineSuccessRate: 0.85, BaselineCost: 1}
	if got := successScore(profile, metrics.Record{}, false); got != 0.85 {
		t.Fatalf("cold start success = %v, want baseline 0.85", got)
	}
	record := metrics.Record{TotalInvocations: 4, SuccessfulOutcomes: 2}
	if got := successScore(profile, record, true); got != 0.5 {
		t.Fatalf("observed success = %v, want 0.5", got)
	}
}

func TestEfficiencyScoreClamps(t *testing.T) {
	profile := registry.AgentProfile{ID: "a", BaselineSuccessRate: 0.8, BaselineCost: 1.0}
	cases := []struct {
		name string
		avg  float64
		want float64
	}{
		{"cold start", 0, 1.0},
		{"cheaper than baseline", 0.5, 1.0},
		{"matching baseline", 1.0, 1.0},
		{"twice the baseline", 2.0, 0.5},
		{"wildly expensive", 100, 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := metrics.Record{AvgCost: tc.avg}
			recorded := tc.avg > 0
			if recorded {
				record.TotalInvocations = 1
			}
			got := efficiencyScore(profile, record, recorded)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("efficiencyScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContextScoreBonuses(t *testing.T) {
	profile := registry.AgentProfile{
		ID:                  "backend",
		Patterns:            []string{"backend", "api"},
		Tags:                []string{"go", "sql"},
		Affinities:          []string{"vscode"},
		BaselineSuccessRate: 0.8, BaselineCost: 1,
	}
	ctx := analyzer.TaskContext{Technologies: []string{"go", "sql", "rust"}, Tool: "vscode"}
	got := contextScore(profile, ctx)
	want := 2*techIndicatorBonus + toolAffinityBonus
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("contextScore = %v, want %v", got, want)
	}
}

func TestContextScoreCapped(t *testing.T) {
	profile := registry.AgentProfile{
		ID:                  "poly",
		Tags:                []string{"a", "b", "c", "d", "e", "f"},
		BaselineSuccessRate: 0.8, BaselineCost: 1,
	}
	ctx := analyzer.TaskContext{Technologies: []string{"a", "b", "c", "d", "e", "f"}}
	if got := contextScore(profile, ctx); got != 1.0 {
		t.Fatalf("contextScore = %v, want capped 1.0", got)
	}
}

func TestRecencyScoreNeutralOnEmptyBuffer(t *testing.T) {
	if got := recencyScore(nil, "fix the build"); got != neutralRecency {
		t.Fatalf("recencyScore = %v, want %v", got, neutralRecency)
	}
}

func TestRecencyScoreSimilarityBonus(t *testing.T) {
	now := time.Now()
	recent := []metrics.Outcome{
		{Timestamp: now, Task: "fix compilation errors in backend service", Success: true, Cost: 1},
		{Timestamp: now, Task: "deploy frontend assets", Success: false, Cost: 1},
	}
	base := recencyScore([]metrics.Outcome{
		{Timestamp: now, Task: "unrelated chore", Success: true, Cost: 1},
		{Timestamp: now, Task: "another chore entirely", Success: false, Cost: 1},
	}, "fix compilation errors in backend service")
	boosted := recencyScore(recent, "fix compilation errors in backend service")
	if boosted <= base {
		t.Fatalf("similar successful history should boost recency: %v <= %v", boosted, base)
	}
}

func TestRecencyScoreIgnoresShortWords(t *testing.T) {
	recent := []metrics.Outcome{
		{Task: "do it in a b c", Success: true, Cost: 1},
	}
	// Only words of 4+ runes count toward overlap; nothing here qualifies.
	got := recencyScore(recent, "do it on x y z")
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("recencyScore = %v, want bare success ratio 1.0", got)
	}
}

func TestRecencyScoreCapped(t *testing.T) {
	task := "fix compilation errors in backend service"
	var recent []metrics.Outcome
	for i := 0; i < 8; i++ {
		recent = append(recent, metrics.Outcome{Task: task, Success: true, Cost: 1})
	}
	if got := recencyScore(recent, task); got != 1.0 {
		t.Fatalf("recencyScore = %v, want capped 1.0", got)
	}
}

func TestReasonsFallBackToGenericPhrase(t *testing.T) {
	reasons := reasonsFor(ScoreBreakdown{Pattern: 0.1, Success: 0.2, Efficiency: 0.3, Context: 0.1, Recency: 0.5})
	if len(reasons) != 1 || reasons[0] != "best available composite score" {
		t.Fatalf("unexpected fallback reasons: %v", reasons)
	}
}

func TestReasonsNameCrossedThresholds(t *testing.T) {
	reasons := reasonsFor(ScoreBreakdown{Pattern: 0.7, Success: 0.9, Efficiency: 0.95, Context: 0.5, Recency: 0.8})
	if len(reasons) != 5 {
		t.Fatalf("expected all five reasons, got %v", reasons)
	}
	if reasons[0] != "strong capability match" {
		t.Fatalf("unexpected first reason: %q", reasons[0])
	}
}

func TestScoreProfileCompositeWithinBounds(t *testing.T) {
	profile := registry.AgentProfile{
		ID: "a", Patterns: []string{"fix", "build"},
		Tags: []string{"go"}, Affinities: []string{"vscode"},
		BaselineSuccessRate: 1.0, BaselineCost: 1,
	}
	ctx := analyzer.TaskContext{
		Normalized:   "fix build",
		Technologies: []string{"go"},
		Tool:         "vscode",
	}
	record := metrics.Record{TotalInvocations: 3, SuccessfulOutcomes: 3, AvgCost: 0.2,
		Recent: []metrics.Outcome{{Task: "fix build quickly", Success: true, Cost: 0.2}}}
	breakdown := scoreProfile(profile, ctx, record, true, DefaultWeights())
	if breakdown.Composite < 0 || breakdown.Composite > 1 {
		t.Fatalf("composite out of bounds: %v", breakdown.Composite)
	}
	for name, v := range map[string]float64{
		"pattern": breakdown.Pattern, "success": breakdown.Success,
		"efficiency": breakdown.Efficiency, "context": breakdown.Context,
		"recency": breakdown.Recency,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("%s component out of bounds: %v", name, v)
		}
	}
}
