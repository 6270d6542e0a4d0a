// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runstore persists per-strategy run results in a SQLite database so
// the comparison table survives across invocations.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tunebench/pkg/types"
)

const dbFile = "runs.db"

// Store manages the run-results SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the results database at resultsDir/runs.db, creating
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	dbPath := filepath.Join(cfg.ResultsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		strategy TEXT PRIMARY KEY,
		best_trial_id TEXT NOT NULL,
		best_params TEXT NOT NULL,
		best_metrics TEXT NOT NULL,
		test_metrics TEXT NOT NULL,
		model_path TEXT,
		started TEXT NOT NULL,
		elapsed_seconds REAL NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Put upserts one strategy's run result. A rerun of the same strategy
// replaces the previous row.
func (s *Store) Put(ctx context.Context, r types.RunResult) error {
	params, err := json.Marshal(r.BestParams)
	if err != nil {
		return fmt.Errorf("marshaling best params: %w", err)
	}
	best, err := json.Marshal(r.BestMetrics)
	if err != nil {
		return fmt.Errorf("marshaling best metrics: %w", err)
	}
	test, err := json.Marshal(r.TestMetrics)
	if err != nil {
		return fmt.Errorf("marshaling test metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (strategy, best_trial_id, best_params, best_metrics, test_metrics, model_path, started, elapsed_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(strategy) DO UPDATE SET
			best_trial_id=excluded.best_trial_id, best_params=excluded.best_params,
			best_metrics=excluded.best_metrics, test_metrics=excluded.test_metrics,
			model_path=excluded.model_path, started=excluded.started,
			elapsed_seconds=excluded.elapsed_seconds`,
		r.Strategy, r.BestTrialID, string(params), string(best), string(test),
		r.ModelPath, r.Started.UTC().Format(time.RFC3339Nano), r.Elapsed.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("upserting run for %s: %w", r.Strategy, err)
	}
	return nil
}

// List returns all stored run results ordered by start time.
func (s *Store) List(ctx context.Context) ([]types.RunResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy, best_trial_id, best_params, best_metrics, test_metrics, model_path, started, elapsed_seconds
		 FROM runs ORDER BY started`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var results []types.RunResult
	for rows.Next() {
		var r types.RunResult
		var params, best, test, started string
		var elapsedSeconds float64
		if err := rows.Scan(&r.Strategy, &r.BestTrialID, &params, &best, &test,
			&r.ModelPath, &started, &elapsedSeconds); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		if err := json.Unmarshal([]byte(params), &r.BestParams); err != nil {
			return nil, fmt.Errorf("parsing best params for %s: %w", r.Strategy, err)
		}
		if err := json.Unmarshal([]byte(best), &r.BestMetrics); err != nil {
			return nil, fmt.Errorf("parsing best metrics for %s: %w", r.Strategy, err)
		}
		if err := json.Unmarshal([]byte(test), &r.TestMetrics); err != nil {
			return nil, fmt.Errorf("parsing test metrics for %s: %w", r.Strategy, err)
		}

		r.Started, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing start time for %s: %w", r.Strategy, err)
		}
		r.Elapsed = time.Duration(elapsedSeconds * float64(time.Second))
		results = append(results, r)
	}
	return results, rows.Err()
}
