package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and by selections that
// must keep working after the durable store failed to open. Contents are
// lost when the process exits.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	records  map[string]Record
	now      func() time.Time

	// FailWrites makes RecordOutcome return an error, for exercising the
	// persistence-warning path.
	FailWrites bool
}

// NewMemoryStore builds an empty store with the given ring capacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 10
	}
	return &MemoryStore{
		capacity: capacity,
		records:  map[string]Record{},
		now:      time.Now,
	}
}

// Load returns a copy of the stored record.
func (m *MemoryStore) Load(agentID string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[agentID]
	if !ok {
		return Record{AgentID: agentID}, false, nil
	}
	return cloneRecord(record), true, nil
}

// RecordOutcome folds the outcome into the stored record.
func (m *MemoryStore) RecordOutcome(agentID string, outcome Outcome) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return Record{}, fmt.Errorf("metrics: memory store writes disabled")
	}
	if outcome.Timestamp.IsZero() {
		outcome.Timestamp = m.now()
	}
	record, ok := m.records[agentID]
	if !ok {
		record = Record{AgentID: agentID}
	}
	record.apply(outcome, m.capacity)
	m.records[agentID] = record
	return cloneRecord(record), nil
}

// All returns copies of every stored record.
func (m *MemoryStore) All() (map[string]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Record, len(m.records))
	for id, record := range m.records {
		out[id] = cloneRecord(record)
	}
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// AgentIDs returns the ids with recorded history, sorted.
func (m *MemoryStore) AgentIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cloneRecord(r Record) Record {
	out := r
	out.Recent = make([]Outcome, len(r.Recent))
	copy(out.Recent, r.Recent)
	return out
}
