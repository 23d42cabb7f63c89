package metrics

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS agent_metrics (
	agent_id            TEXT PRIMARY KEY,
	total_invocations   INTEGER NOT NULL,
	successful_outcomes INTEGER NOT NULL,
	avg_cost            REAL NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recent_outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id    TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	task        TEXT NOT NULL,
	success     INTEGER NOT NULL,
	cost        REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recent_outcomes_agent ON recent_outcomes(agent_id, id);
`

// SQLiteStore persists performance records in a SQLite database under
// .wayfinder/state. Each RecordOutcome runs in one transaction, which gives
// the single-record atomicity the design requires; two concurrent processes
// updating the same agent remain last-writer-wins.
type SQLiteStore struct {
	db       *sql.DB
	capacity int
	now      func() time.Time
}

// SQLiteOption customizes a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithClock overrides the timestamp source for outcomes recorded without one.
func WithClock(clock func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// OpenSQLite opens (creating if needed) the metrics database at path.
// capacity bounds the per-agent recent-outcome ring.
func OpenSQLite(path string, capacity int, opts ...SQLiteOption) (*SQLiteStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("metrics: ring capacity must be positive, got %d", capacity)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("metrics: ensure state dir: %w", err)
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("metrics: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("metrics: initialize schema: %w", err)
	}
	store := &SQLiteStore{db: db, capacity: capacity, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the record and its recent outcomes for one agent.
func (s *SQLiteStore) Load(agentID string) (Record, bool, error) {
	record := Record{AgentID: agentID}
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT total_invocations, successful_outcomes, avg_cost, updated_at
		 FROM agent_metrics WHERE agent_id = ?`, agentID,
	).Scan(&record.TotalInvocations, &record.SuccessfulOutcomes, &record.AvgCost, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return record, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("metrics: load %s: %w", agentID, err)
	}
	record.UpdatedAt = parseTime(updatedAt)

	recent, err := s.loadRecent(agentID)
	if err != nil {
		return Record{}, false, err
	}
	record.Recent = recent
	return record, true, nil
}

func (s *SQLiteStore) loadRecent(agentID string) ([]Outcome, error) {
	rows, err := s.db.Query(
		`SELECT recorded_at, task, success, cost FROM (
			SELECT id, recorded_at, task, success, cost
			FROM recent_outcomes WHERE agent_id = ?
			ORDER BY id DESC LIMIT ?
		 ) ORDER BY id ASC`, agentID, s.capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: load outcomes for %s: %w", agentID, err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			outcome    Outcome
			recordedAt string
			success    int
		)
		if err := rows.Scan(&recordedAt, &outcome.Task, &success, &outcome.Cost); err != nil {
			return nil, fmt.Errorf("metrics: scan outcome for %s: %w", agentID, err)
		}
		outcome.Timestamp = parseTime(recordedAt)
		outcome.Success = success != 0
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// RecordOutcome folds the outcome into the agent's record inside one
// transaction and trims the ring down to capacity.
func (s *SQLiteStore) RecordOutcome(agentID string, outcome Outcome) (Record, error) {
	if outcome.Timestamp.IsZero() {
		outcome.Timestamp = s.now()
	}

	record, _, err := s.Load(agentID)
	if err != nil {
		return Record{}, err
	}
	record.apply(outcome, s.capacity)

	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("metrics: begin update for %s: %w", agentID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO agent_metrics (agent_id, total_invocations, successful_outcomes, avg_cost, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(agent_id) DO UPDATE SET
			total_invocations = excluded.total_invocations,
			successful_outcomes = excluded.successful_outcomes,
			avg_cost = excluded.avg_cost,
			updated_at = excluded.updated_at`,
		agentID, record.TotalInvocations, record.SuccessfulOutcomes,
		record.AvgCost, formatTime(record.UpdatedAt),
	); err != nil {
		return Record{}, fmt.Errorf("metrics: upsert %s: %w", agentID, err)
	}

	success := 0
	if outcome.Success {
		success = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO recent_outcomes (agent_id, recorded_at, task, success, cost)
		 VALUES (?, ?, ?, ?, ?)`,
		agentID, formatTime(outcome.Timestamp), outcome.Task, success, outcome.Cost,
	); err != nil {
		return Record{}, fmt.Errorf("metrics: append outcome for %s: %w", agentID, err)
	}

	// FIFO eviction: keep only the newest capacity rows per agent.
	if _, err := tx.Exec(
		`DELETE FROM recent_outcomes WHERE agent_id = ? AND id NOT IN (
			SELECT id FROM recent_outcomes WHERE agent_id = ?
			ORDER BY id DESC LIMIT ?
		 )`, agentID, agentID, s.capacity,
	); err != nil {
		return Record{}, fmt.Errorf("metrics: trim outcomes for %s: %w", agentID, err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("metrics: commit update for %s: %w", agentID, err)
	}
	return record, nil
}

// All returns every stored record.
func (s *SQLiteStore) All() (map[string]Record, error) {
	rows, err := s.db.Query(`SELECT agent_id FROM agent_metrics ORDER BY agent_id`)
	if err != nil {
		return nil, fmt.Errorf("metrics: list agents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("metrics: scan agent id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make(map[string]Record, len(ids))
	for _, id := range ids {
		record, found, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		if found {
			records[id] = record
		}
	}
	return records, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
