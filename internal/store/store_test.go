package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/token"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndRead(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	run, err := db.BeginRun(ctx)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	tok := token.Token{File: "a.yaml", Line: 4, Column: 9}
	rep := Report{
		Fixture: "a",
		Calls:   3,
		Diagnostics: []*diagnostics.DiagnosticError{
			diagnostics.NewError(diagnostics.ErrM002, tok, "The method foo() is ambiguous for the type EE"),
			diagnostics.NewError(diagnostics.ErrW001, tok, "Type safety"),
		},
	}
	if err := db.Record(ctx, run.ID, rep); err != nil {
		t.Fatalf("Record: %v", err)
	}
	// Recording again replaces the fixture's report.
	if err := db.Record(ctx, run.ID, rep); err != nil {
		t.Fatalf("Record again: %v", err)
	}

	got, err := db.Outcomes(ctx, run.ID)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	want := []Outcome{
		{Fixture: "a", File: "a.yaml", Line: 4, Column: 9, Severity: "ERROR", Code: "M002", Message: "The method foo() is ambiguous for the type EE"},
		{Fixture: "a", File: "a.yaml", Line: 4, Column: 9, Severity: "WARNING", Code: "W001", Message: "Type safety"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}
	if got, want := got[0].Format(), rep.Diagnostics[0].Format(); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}

	calls, err := db.Calls(ctx, run.ID)
	if err != nil {
		t.Fatalf("Calls: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"a": 3}, calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}

	runs, err := db.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID || !runs[0].Started.Equal(run.Started) {
		t.Errorf("Runs = %v, want [%v]", runs, run)
	}
}

func TestUnknownRun(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	missing := uuid.New()
	if err := db.Record(ctx, missing, Report{Fixture: "x"}); !errors.Is(err, ErrNoRun) {
		t.Errorf("Record: got %v, want ErrNoRun", err)
	}
	if _, err := db.Outcomes(ctx, missing); !errors.Is(err, ErrNoRun) {
		t.Errorf("Outcomes: got %v, want ErrNoRun", err)
	}
	if _, err := db.Calls(ctx, missing); !errors.Is(err, ErrNoRun) {
		t.Errorf("Calls: got %v, want ErrNoRun", err)
	}
}
