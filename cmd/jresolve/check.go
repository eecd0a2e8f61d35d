package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/funvibe/jresolve/internal/pipeline"
	"github.com/funvibe/jresolve/internal/store"
)

type checkCmd struct {
	info

	asJSON      bool
	dbPath      string
	parallelism int
	optionsPath string
}

func (c *checkCmd) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.asJSON, "json", false, "print diagnostics as JSON lines")
	fs.StringVar(&c.dbPath, "db", "", "record the run in this SQLite database")
	fs.IntVar(&c.parallelism, "j", 0, "fixtures checked at once (0 means the options file's parallelism, else one per CPU)")
	fs.StringVar(&c.optionsPath, "options", "", "YAML options file fixtures start from")
}

func (c *checkCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() == 0 {
		return c.fail("no fixtures given")
	}
	opts, err := baseOptions(c.optionsPath)
	if err != nil {
		return c.fail("%v", err)
	}
	results, err := runFixtures(ctx, fs.Args(), opts, c.parallelism)
	if err != nil {
		return c.fail("%v", err)
	}

	if c.dbPath != "" {
		if err := record(ctx, c.dbPath, results); err != nil {
			return c.fail("recording run: %v", err)
		}
	}

	if c.asJSON {
		err = writeJSON(os.Stdout, results)
	} else {
		err = writeText(os.Stdout, results, useColor(os.Stdout))
	}
	if err != nil {
		return c.fail("%v", err)
	}
	for _, pc := range results {
		if pc.HasErrors() {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func writeText(w io.Writer, results []*pipeline.PipelineContext, color bool) error {
	for _, pc := range results {
		for _, d := range pc.Diagnostics() {
			if _, err := fmt.Fprintln(w, formatDiagnostic(d, color)); err != nil {
				return err
			}
		}
	}
	return nil
}

type jsonDiagnostic struct {
	Fixture  string `json:"fixture"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

func writeJSON(w io.Writer, results []*pipeline.PipelineContext) error {
	enc := json.NewEncoder(w)
	for _, pc := range results {
		for _, d := range pc.Diagnostics() {
			file := d.File
			if file == "" {
				file = d.Token.File
			}
			err := enc.Encode(jsonDiagnostic{
				Fixture:  pc.Name,
				File:     file,
				Line:     d.Token.Line,
				Column:   d.Token.Column,
				Severity: d.Severity.String(),
				Code:     string(d.Code),
				Message:  d.Message,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// record stores results as a new run and reports its ID on stderr.
func record(ctx context.Context, path string, results []*pipeline.PipelineContext) error {
	db, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.BeginRun(ctx)
	if err != nil {
		return err
	}
	for _, pc := range results {
		rep := store.Report{
			Fixture:     pc.FilePath,
			Calls:       resolvedCalls(pc),
			Diagnostics: pc.Diagnostics(),
		}
		if err := db.Record(ctx, run.ID, rep); err != nil {
			return fmt.Errorf("%s: %w", pc.FilePath, err)
		}
	}
	fmt.Fprintf(os.Stderr, "recorded run %s (%d fixtures)\n", run.ID, len(results))
	return nil
}
