// Package ledger records ingestion runs in a local SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Run is one Obtain call for one artifact.
type Run struct {
	ID        string
	Artifact  string
	Path      string
	Source    string // "cache" or "fetch"; empty when the run failed
	Forced    bool
	Rows      int
	ErrorKind string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Ledger stores runs.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path and migrates it.
func Open(ctx context.Context, path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "ledger: exec %s", pragma)
		}
	}

	l := &Ledger{db: db}
	if err := l.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	artifact    TEXT NOT NULL,
	path        TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	forced      INTEGER NOT NULL DEFAULT 0,
	rows        INTEGER NOT NULL DEFAULT 0,
	error_kind  TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_artifact ON runs(artifact);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (l *Ledger) migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "ledger: migrate")
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts a run, assigning an ID and start time when missing.
func (l *Ledger) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, artifact, path, source, forced, rows, error_kind, error, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Artifact, run.Path, run.Source, run.Forced, run.Rows,
		run.ErrorKind, run.Error, run.StartedAt, run.Duration.Milliseconds(),
	)
	if err != nil {
		return Run{}, eris.Wrap(err, "ledger: insert run")
	}
	return run, nil
}

// List returns the newest runs first, optionally filtered by artifact name.
// A limit of zero or less returns every run.
func (l *Ledger) List(ctx context.Context, artifact string, limit int) ([]Run, error) {
	query := `SELECT id, artifact, path, source, forced, rows, error_kind, error, started_at, duration_ms FROM runs`
	var args []any
	if artifact != "" {
		query += ` WHERE artifact = ?`
		args = append(args, artifact)
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.Artifact, &r.Path, &r.Source, &r.Forced, &r.Rows,
			&r.ErrorKind, &r.Error, &r.StartedAt, &ms); err != nil {
			return nil, eris.Wrap(err, "ledger: scan run")
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "ledger: iterate runs")
}
