// Package metrics owns the durable per-agent performance record: invocation
// counters, an incrementally maintained average cost, and a fixed-capacity
// ring of recent outcomes used for recency scoring.
//
// The backing store is the single source of truth; in-memory Records are
// transient copies valid for one request or update cycle. Concurrent
// updates from separate processes are last-writer-wins at the granularity
// of a single agent record.
package metrics

import (
	"time"
)

// Outcome is one recorded task completion for an agent.
type Outcome struct {
	Timestamp time.Time `json:"timestamp"`
	Task      string    `json:"task"`
	Success   bool      `json:"success"`
	Cost      float64   `json:"cost"`
}

// Record is the mutable performance history of one agent. Records are
// created lazily on the first recorded outcome and never deleted.
type Record struct {
	AgentID            string    `json:"agent_id"`
	TotalInvocations   int       `json:"total_invocations"`
	SuccessfulOutcomes int       `json:"successful_outcomes"`
	AvgCost            float64   `json:"avg_cost"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Recent holds the newest outcomes, oldest first, at most the store's
	// configured capacity.
	Recent []Outcome `json:"recent"`
}

// SuccessRate derives the observed success ratio. Returns 0 when nothing
// has been recorded; callers substitute the profile baseline in that case.
func (r Record) SuccessRate() float64 {
	if r.TotalInvocations == 0 {
		return 0
	}
	return float64(r.SuccessfulOutcomes) / float64(r.TotalInvocations)
}

// apply folds one outcome into the record: counters, incremental mean
// (avg' = avg + (cost-avg)/n), and the FIFO ring bounded by capacity.
func (r *Record) apply(outcome Outcome, capacity int) {
	r.TotalInvocations++
	if outcome.Success {
		r.SuccessfulOutcomes++
	}
	r.AvgCost += (outcome.Cost - r.AvgCost) / float64(r.TotalInvocations)
	r.UpdatedAt = outcome.Timestamp

	r.Recent = append(r.Recent, outcome)
	if capacity > 0 && len(r.Recent) > capacity {
		r.Recent = r.Recent[len(r.Recent)-capacity:]
	}
}

// Store is the persistence boundary for performance records. Implementations
// must make each RecordOutcome atomic at single-record granularity; they are
// not required to serialize concurrent writers (last-writer-wins).
type Store interface {
	// Load returns the current record for an agent. The boolean is false
	// when no outcome has ever been recorded for it.
	Load(agentID string) (Record, bool, error)

	// RecordOutcome folds an outcome into the agent's record and persists
	// the result, returning the updated record.
	RecordOutcome(agentID string, outcome Outcome) (Record, error)

	// All returns every stored record keyed by agent id.
	All() (map[string]Record, error)

	Close() error
}
