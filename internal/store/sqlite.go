package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/gridiron-analytics/trackprep/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	status        TEXT NOT NULL DEFAULT 'running',
	started_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at   DATETIME,
	tracking_rows INTEGER NOT NULL DEFAULT 0,
	route_rows    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_stages (
	id           TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL REFERENCES runs(id),
	name         TEXT NOT NULL,
	rows_in      INTEGER NOT NULL DEFAULT 0,
	rows_out     INTEGER NOT NULL DEFAULT 0,
	rows_dropped INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	recorded_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_run_stages_run_id ON run_stages(run_id);
`

// Migrate creates the manifest tables.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new run in running state.
func (s *SQLiteStore) CreateRun(ctx context.Context) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.NewString(),
		Status:    model.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		run.ID, string(run.Status), run.StartedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

// CompleteRun marks a run finished with its final status and output row
// counts.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, trackingRows, routeRows int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, tracking_rows = ?, route_rows = ? WHERE id = ?`,
		string(status), time.Now().UTC(), trackingRows, routeRows, runID)
	return eris.Wrap(err, "sqlite: complete run")
}

// RecordStage appends one stage's row counts to a run's manifest.
func (s *SQLiteStore) RecordStage(ctx context.Context, runID string, stats model.StageStats) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_stages (id, run_id, name, rows_in, rows_out, rows_dropped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), runID, stats.Name, stats.RowsIn, stats.RowsOut, stats.Dropped,
		stats.Duration.Milliseconds())
	return eris.Wrap(err, "sqlite: record stage")
}

// GetRun fetches a single run by id.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, started_at, finished_at, tracking_rows, route_rows
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: run %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, started_at, finished_at, tracking_rows, route_rows
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs")
}

// ListStages returns a run's stage manifest in recorded order.
func (s *SQLiteStore) ListStages(ctx context.Context, runID string) ([]model.StageStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, rows_in, rows_out, rows_dropped, duration_ms
		 FROM run_stages WHERE run_id = ? ORDER BY recorded_at, name`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list stages")
	}
	defer rows.Close()

	var stages []model.StageStats
	for rows.Next() {
		var s model.StageStats
		var durationMS int64
		if err := rows.Scan(&s.Name, &s.RowsIn, &s.RowsOut, &s.Dropped, &durationMS); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stage")
		}
		s.Duration = time.Duration(durationMS) * time.Millisecond
		stages = append(stages, s)
	}
	return stages, eris.Wrap(rows.Err(), "sqlite: list stages")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (*model.Run, error) {
	var run model.Run
	var status string
	var finished sql.NullTime
	if err := r.Scan(&run.ID, &status, &run.StartedAt, &finished, &run.TrackingRows, &run.RouteRows); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
