package main

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/jresolve/internal/analyzer"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/modules"
	"github.com/funvibe/jresolve/internal/pipeline"
)

// runFixtures checks every fixture named by paths, starting each from
// opts. Fixtures are loaded and checked with at most parallelism in
// flight (opts.Parallelism when parallelism is not positive); the result
// keeps the order of modules.Expand. A fixture that fails to load yields a
// context holding its F001 diagnostic.
func runFixtures(ctx context.Context, paths []string, opts config.Options, parallelism int) ([]*pipeline.PipelineContext, error) {
	if parallelism <= 0 {
		parallelism = opts.Parallelism
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	loader := modules.NewLoaderWith(opts)
	loaded, err := loader.LoadAll(ctx, paths, parallelism)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(
		&modules.FixtureProcessor{Loader: loader},
		&analyzer.CatalogProcessor{},
		&analyzer.ResolveProcessor{},
	)

	out := make([]*pipeline.PipelineContext, len(loaded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, ld := range loaded {
		i, ld := i, ld
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pc := pipeline.NewPipelineContext(ld.Path)
			pc.Options = opts
			out[i] = p.Run(pc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// baseOptions reads the options file at path, or returns the defaults
// when path is empty.
func baseOptions(path string) (config.Options, error) {
	if path == "" {
		return config.DefaultOptions(), nil
	}
	return config.LoadOptions(path)
}

// resolvedCalls counts the call sites resolved in pc.
func resolvedCalls(pc *pipeline.PipelineContext) int {
	n := 0
	for _, r := range pc.Results {
		if res, ok := r.(*analyzer.Results); ok {
			n += len(res.Calls)
		}
	}
	return n
}

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorReset  = "\033[0m"
)

// useColor reports whether w is a terminal.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatDiagnostic renders d for the terminal.
func formatDiagnostic(d *diagnostics.DiagnosticError, color bool) string {
	s := d.Format()
	if !color {
		return s
	}
	if d.Severity == diagnostics.SeverityWarning {
		return colorYellow + s + colorReset
	}
	return colorRed + s + colorReset
}
