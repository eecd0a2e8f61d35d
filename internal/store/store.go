// Package store records fixture runs in a SQLite database so results can be
// compared across engine changes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register the "sqlite" driver

	"github.com/funvibe/jresolve/internal/diagnostics"
)

// Driver is the database/sql driver name registered by modernc.org/sqlite.
const Driver = "sqlite"

// ErrNoRun is returned when a run ID is not in the database.
var ErrNoRun = errors.New("store: no such run")

const initStmt = `PRAGMA journal_mode = WAL;
PRAGMA foreign_keys = ON;
CREATE TABLE IF NOT EXISTS runs (
	id      TEXT PRIMARY KEY,
	started INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS fixtures (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	fixture TEXT NOT NULL,
	calls   INTEGER NOT NULL,
	UNIQUE(run_id, fixture)
);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	fixture  TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	file     TEXT NOT NULL,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	severity TEXT NOT NULL,
	code     TEXT NOT NULL,
	message  TEXT NOT NULL
)`

// DB is a report database.
type DB struct {
	db *sql.DB
}

// Run describes one recorded invocation.
type Run struct {
	ID      uuid.UUID
	Started time.Time
}

// Report is what one fixture produced in a run.
type Report struct {
	Fixture     string
	Calls       int // resolved call sites
	Diagnostics []*diagnostics.DiagnosticError
}

// Outcome is a stored diagnostic.
type Outcome struct {
	Fixture  string
	File     string
	Line     int
	Column   int
	Severity string
	Code     string
	Message  string
}

// Format renders the outcome like DiagnosticError.Format.
func (o Outcome) Format() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s] %s", o.File, o.Line, o.Column, o.Severity, o.Code, o.Message)
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open(Driver, path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, initStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// BeginRun registers a new run and returns it.
func (d *DB) BeginRun(ctx context.Context) (Run, error) {
	run := Run{ID: uuid.New(), Started: time.Now().UTC()}
	if _, err := d.db.ExecContext(ctx, "INSERT INTO runs (id, started) VALUES (?, ?)",
		run.ID.String(), run.Started.UnixNano()); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// Record stores the report of one fixture in run. Recording the same
// fixture twice replaces the earlier report.
func (d *DB) Record(ctx context.Context, run uuid.UUID, rep Report) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", run.String()).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRun
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM diagnostics WHERE run_id = ? AND fixture = ?", run.String(), rep.Fixture); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO fixtures (run_id, fixture, calls) VALUES (?, ?, ?)",
		run.String(), rep.Fixture, rep.Calls); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO diagnostics
		(run_id, fixture, seq, file, line, col, severity, code, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, diag := range rep.Diagnostics {
		file := diag.File
		if file == "" {
			file = diag.Token.File
		}
		if _, err := stmt.ExecContext(ctx, run.String(), rep.Fixture, i, file,
			diag.Token.Line, diag.Token.Column, diag.Severity.String(), string(diag.Code), diag.Message); err != nil {
			return fmt.Errorf("inserting diagnostic: %w", err)
		}
	}
	return tx.Commit()
}

// Runs lists the recorded runs, oldest first.
func (d *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT id, started FROM runs ORDER BY started, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var id string
		var started int64
		if err := rows.Scan(&id, &started); err != nil {
			return nil, err
		}
		uid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("run %q: %w", id, err)
		}
		runs = append(runs, Run{ID: uid, Started: time.Unix(0, started).UTC()})
	}
	return runs, rows.Err()
}

// Calls returns the resolved call count per fixture of run.
func (d *DB) Calls(ctx context.Context, run uuid.UUID) (map[string]int, error) {
	if err := d.checkRun(ctx, run); err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, "SELECT fixture, calls FROM fixtures WHERE run_id = ?", run.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var fixture string
		var calls int
		if err := rows.Scan(&fixture, &calls); err != nil {
			return nil, err
		}
		out[fixture] = calls
	}
	return out, rows.Err()
}

// Outcomes returns the diagnostics of run ordered by fixture and the order
// they were recorded in.
func (d *DB) Outcomes(ctx context.Context, run uuid.UUID) ([]Outcome, error) {
	if err := d.checkRun(ctx, run); err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, `SELECT fixture, file, line, col, severity, code, message
		FROM diagnostics WHERE run_id = ? ORDER BY fixture, seq`, run.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.Fixture, &o.File, &o.Line, &o.Column, &o.Severity, &o.Code, &o.Message); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (d *DB) checkRun(ctx context.Context, run uuid.UUID) error {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE id = ?", run.String()).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRun
	}
	return nil
}
