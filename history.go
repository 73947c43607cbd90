package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one processed dataset as stored in the history database
type RunRecord struct {
	ID                int64     `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Dataset           string    `json:"dataset"`
	CountryColumn     string    `json:"country_column"`
	ValueColumn       string    `json:"value_column"`
	YearColumn        string    `json:"year_column,omitempty"`
	Method            string    `json:"method"`
	TotalRows         int       `json:"total_rows"`
	ResolvedRows      int       `json:"resolved_rows"`
	Countries         int       `json:"countries"`
	DroppedUnresolved int       `json:"dropped_unresolved"`
	DroppedNonNumeric int       `json:"dropped_non_numeric"`
	DroppedBadYear    int       `json:"dropped_bad_year"`
}

// HistoryStore persists processing runs to a SQLite database so past
// uploads stay visible across restarts
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (creating if needed) the history database
func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at          TEXT NOT NULL,
		dataset             TEXT NOT NULL,
		country_column      TEXT NOT NULL,
		value_column        TEXT NOT NULL,
		year_column         TEXT NOT NULL DEFAULT '',
		method              TEXT NOT NULL,
		total_rows          INTEGER NOT NULL,
		resolved_rows       INTEGER NOT NULL,
		countries           INTEGER NOT NULL,
		dropped_unresolved  INTEGER NOT NULL,
		dropped_non_numeric INTEGER NOT NULL,
		dropped_bad_year    INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS unresolved (
		run_id   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		original TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_unresolved_run ON unresolved(run_id);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// Close closes the underlying database
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// RecordRun stores a completed processing result and its unresolved
// strings, returning the new run id
func (h *HistoryStore) RecordRun(result *Result) (int64, error) {
	tx, err := h.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (
			created_at, dataset, country_column, value_column, year_column,
			method, total_rows, resolved_rows, countries,
			dropped_unresolved, dropped_non_numeric, dropped_bad_year
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		result.Dataset,
		result.Options.CountryColumn,
		result.Options.ValueColumn,
		result.Options.YearColumn,
		string(result.Options.Method),
		result.TotalRows,
		len(result.Rows),
		len(result.Aggregates),
		result.DroppedUnresolved,
		result.DroppedNonNumeric,
		result.DroppedBadYear,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, original := range result.Unresolved {
		if _, err := tx.Exec(`INSERT INTO unresolved (run_id, original) VALUES (?, ?)`, runID, original); err != nil {
			return 0, fmt.Errorf("failed to insert unresolved entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit history transaction: %w", err)
	}

	return runID, nil
}

// RecentRuns returns the most recent runs, newest first
func (h *HistoryStore) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(`
		SELECT id, created_at, dataset, country_column, value_column,
		       year_column, method, total_rows, resolved_rows, countries,
		       dropped_unresolved, dropped_non_numeric, dropped_bad_year
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdAt string
		if err := rows.Scan(
			&rec.ID, &createdAt, &rec.Dataset, &rec.CountryColumn,
			&rec.ValueColumn, &rec.YearColumn, &rec.Method, &rec.TotalRows,
			&rec.ResolvedRows, &rec.Countries, &rec.DroppedUnresolved,
			&rec.DroppedNonNumeric, &rec.DroppedBadYear,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// UnresolvedFor returns the unresolved original strings for a run
func (h *HistoryStore) UnresolvedFor(runID int64) ([]string, error) {
	rows, err := h.db.Query(`SELECT original FROM unresolved WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved entries: %w", err)
	}
	defer rows.Close()

	var originals []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan unresolved entry: %w", err)
		}
		originals = append(originals, s)
	}

	return originals, rows.Err()
}
