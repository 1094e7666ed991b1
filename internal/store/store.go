// Package store archives completed benchmark runs in SQLite. It is an
// archive only: runs can be saved and listed, nothing compares them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/justinsiek/yardstick-engine/internal/engine"
)

const defaultListLimit = 50

// Store persists run summaries.
type Store struct {
	db *sql.DB
}

// RunRecord is one archived run.
type RunRecord struct {
	ID          string
	SpecID      string
	SpecVersion string
	StartedAt   time.Time
	GeneratedAt time.Time
	Systems     int
}

// SystemRecord is one system's summary within an archived run.
type SystemRecord struct {
	RunID      string
	System     string
	Aggregates map[string]*float64
	ErrorCount int
	Cases      int
}

// Open opens (and if needed initializes) a run archive at path. Use
// ":memory:" for an ephemeral archive.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty db path")
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec_id TEXT NOT NULL,
			spec_version TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			generated_at INTEGER NOT NULL,
			systems INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS system_reports (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			system TEXT NOT NULL,
			aggregates TEXT NOT NULL,
			error_count INTEGER NOT NULL,
			cases INTEGER NOT NULL,
			PRIMARY KEY (run_id, system)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_spec ON runs(spec_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_generated ON runs(generated_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun archives a benchmark result and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, res *engine.BenchmarkResult) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("store: nil store")
	}
	if res == nil {
		return "", errors.New("store: nil result")
	}

	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, spec_id, spec_version, started_at, generated_at, systems)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, res.SpecID, res.SpecVersion, res.StartedAt.UTC().UnixMilli(), res.GeneratedAt.UTC().UnixMilli(), len(res.Systems))
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	for _, rep := range res.Systems {
		aggs, err := json.Marshal(rep.Aggregates)
		if err != nil {
			return "", fmt.Errorf("store: encode aggregates for %q: %w", rep.System, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO system_reports (run_id, system, aggregates, error_count, cases)
			VALUES (?, ?, ?, ?, ?)
		`, id, rep.System, string(aggs), rep.ErrorCount, len(rep.Cases))
		if err != nil {
			return "", fmt.Errorf("store: insert system report %q: %w", rep.System, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, spec_version, started_at, generated_at, systems
		FROM runs
		ORDER BY generated_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, generated int64
		if err := rows.Scan(&rec.ID, &rec.SpecID, &rec.SpecVersion, &started, &generated, &rec.Systems); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		rec.StartedAt = time.UnixMilli(started).UTC()
		rec.GeneratedAt = time.UnixMilli(generated).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetSystemReports returns the per-system summaries of one run.
func (s *Store) GetSystemReports(ctx context.Context, runID string) ([]SystemRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, system, aggregates, error_count, cases
		FROM system_reports
		WHERE run_id = ?
		ORDER BY system
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get system reports: %w", err)
	}
	defer rows.Close()

	var out []SystemRecord
	for rows.Next() {
		var rec SystemRecord
		var aggs string
		if err := rows.Scan(&rec.RunID, &rec.System, &aggs, &rec.ErrorCount, &rec.Cases); err != nil {
			return nil, fmt.Errorf("store: scan system report: %w", err)
		}
		if err := json.Unmarshal([]byte(aggs), &rec.Aggregates); err != nil {
			return nil, fmt.Errorf("store: decode aggregates: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
