package selector

import (
	"strings"

	"github.com/kingrea/wayfinder/internal/analyzer"
	"github.com/kingrea/wayfinder/internal/config"
	"github.com/kingrea/wayfinder/internal/metrics"
	"github.com/kingrea/wayfinder/internal/registry"
)

// Published scoring constants. The weights live in config; the bonuses and
// clamps below are fixed.
const (
	// Context bonuses, capped at 1.0 total.
	techIndicatorBonus = 0.2
	toolAffinityBonus  = 0.1

	// Efficiency clamp bounds.
	efficiencyFloor   = 0.1
	efficiencyCeiling = 1.0

	// Recency scoring.
	neutralRecency     = 0.5
	similarityBonus    = 0.1
	similarityBonusCap = 0.3
	overlapThreshold   = 0.3
	minOverlapWordLen  = 4
)

// Reasoning thresholds on component scores.
const (
	strongPatternThreshold = 0.6
	highSuccessThreshold   = 0.8
	costEfficientThreshold = 0.9
	stackAlignedThreshold  = 0.4
	recentSuccessThreshold = 0.7
)

// Weights are the published component weights of the composite score. They
// must sum to 1.0.
type Weights struct {
	Pattern    float64
	Success    float64
	Efficiency float64
	Context    float64
	Recency    float64
}

// DefaultWeights returns the reference weighting (0.35/0.25/0.15/0.15/0.10).
func DefaultWeights() Weights {
	return WeightsFromSettings(config.DefaultSettings().Scoring)
}

// WeightsFromSettings converts configured scoring settings.
func WeightsFromSettings(s config.ScoringSettings) Weights {
	return Weights{
		Pattern:    s.PatternWeight,
		Success:    s.SuccessWeight,
		Efficiency: s.EfficiencyWeight,
		Context:    s.ContextWeight,
		Recency:    s.RecencyWeight,
	}
}

// ScoreBreakdown carries the five component scores and their weighted
// combination for one agent. Every field lies in [0,1].
type ScoreBreakdown struct {
	Pattern    float64 `json:"pattern"`
	Success    float64 `json:"success"`
	Efficiency float64 `json:"efficiency"`
	Context    float64 `json:"context"`
	Recency    float64 `json:"recency"`
	Composite  float64 `json:"composite"`
}

// scoreProfile computes the full breakdown for one profile.
func scoreProfile(profile registry.AgentProfile, ctx analyzer.TaskContext, record metrics.Record, recorded bool, weights Weights) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		Pattern:    patternScore(profile.Patterns, ctx.Normalized),
		Success:    successScore(profile, record, recorded),
		Efficiency: efficiencyScore(profile, record, recorded),
		Context:    contextScore(profile, ctx),
		Recency:    recencyScore(record.Recent, ctx.Normalized),
	}
	breakdown.Composite = clamp01(weights.Pattern*breakdown.Pattern +
		weights.Success*breakdown.Success +
		weights.Efficiency*breakdown.Efficiency +
		weights.Context*breakdown.Context +
		weights.Recency*breakdown.Recency)
	return breakdown
}

// patternScore is the fraction of declared patterns found in the normalized
// task text. Profiles with no patterns score 0.
func patternScore(patterns []string, normalized string) float64 {
	if len(patterns) == 0 {
		return 0
	}
	matched := 0
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(pattern)) {
			matched++
		}
	}
	return float64(matched) / float64(len(patterns))
}

// successScore is the observed success rate, or the profile baseline before
// any outcome has been recorded.
func successScore(profile registry.AgentProfile, record metrics.Record, recorded bool) float64 {
	if !recorded || record.TotalInvocations == 0 {
		return clamp01(profile.BaselineSuccessRate)
	}
	return clamp01(record.SuccessRate())
}

// efficiencyScore rewards agents whose observed average cost undercuts
// their baseline. Clamped on both ends so a single expensive or free task
// cannot dominate the composite.
func efficiencyScore(profile registry.AgentProfile, record metrics.Record, recorded bool) float64 {
	observed := profile.BaselineCost
	if recorded && record.TotalInvocations > 0 && record.AvgCost > 0 {
		observed = record.AvgCost
	}
	if observed <= 0 {
		return efficiencyCeiling
	}
	return clamp(profile.BaselineCost/observed, efficiencyFloor, efficiencyCeiling)
}

// contextScore sums fixed bonuses for every detected technology the profile
// declares (in its patterns or tags) plus a smaller bonus when the detected
// tool matches an affinity. Capped at 1.0.
func contextScore(profile registry.AgentProfile, ctx analyzer.TaskContext) float64 {
	declared := make(map[string]bool, len(profile.Patterns)+len(profile.Tags))
	for _, pattern := range profile.Patterns {
		declared[strings.ToLower(pattern)] = true
	}
	for _, tag := range profile.Tags {
		declared[strings.ToLower(tag)] = true
	}

	score := 0.0
	for _, tech := range ctx.Technologies {
		if declared[strings.ToLower(tech)] {
			score += techIndicatorBonus
		}
	}
	if ctx.Tool != "" {
		for _, affinity := range profile.Affinities {
			if strings.EqualFold(affinity, ctx.Tool) {
				score += toolAffinityBonus
				break
			}
		}
	}
	return clamp01(score)
}

// recencyScore reflects the agent's recent ring buffer: the success ratio
// within it plus a capped bonus for successful entries whose task text
// overlaps the current description. An empty buffer is neutral.
func recencyScore(recent []metrics.Outcome, normalized string) float64 {
	if len(recent) == 0 {
		return neutralRecency
	}
	successes := 0
	bonus := 0.0
	currentWords := significantWords(normalized)
	for _, outcome := range recent {
		if !outcome.Success {
			continue
		}
		successes++
		if bonus < similarityBonusCap && wordOverlap(currentWords, significantWords(strings.ToLower(outcome.Task))) >= overlapThreshold {
			bonus += similarityBonus
		}
	}
	if bonus > similarityBonusCap {
		bonus = similarityBonusCap
	}
	ratio := float64(successes) / float64(len(recent))
	return clamp01(ratio + bonus)
}

// significantWords returns the unique words of text that meet the minimum
// length for overlap comparison.
func significantWords(text string) map[string]bool {
	words := map[string]bool{}
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?()[]{}\"'")
		if len(word) >= minOverlapWordLen {
			words[word] = true
		}
	}
	return words
}

// wordOverlap is the fraction of the current task's significant words that
// also appear in the candidate text.
func wordOverlap(current, candidate map[string]bool) float64 {
	if len(current) == 0 {
		return 0
	}
	shared := 0
	for word := range current {
		if candidate[word] {
			shared++
		}
	}
	return float64(shared) / float64(len(current))
}

// reasonsFor assembles human-readable justifications keyed to the named
// thresholds. Falls back to a generic phrase when nothing crosses one.
func reasonsFor(breakdown ScoreBreakdown) []string {
	var reasons []string
	if breakdown.Pattern >= strongPatternThreshold {
		reasons = append(reasons, "strong capability match")
	}
	if breakdown.Success >= highSuccessThreshold {
		reasons = append(reasons, "high historical success rate")
	}
	if breakdown.Efficiency >= costEfficientThreshold {
		reasons = append(reasons, "consistently cost efficient")
	}
	if breakdown.Context >= stackAlignedThreshold {
		reasons = append(reasons, "matches the detected project stack")
	}
	if breakdown.Recency >= recentSuccessThreshold {
		reasons = append(reasons, "similar recent tasks succeeded")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "best available composite score")
	}
	return reasons
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
