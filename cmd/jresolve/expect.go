package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/funvibe/jresolve/internal/modules"
	"github.com/funvibe/jresolve/internal/pipeline"
)

type expectCmd struct {
	info

	parallelism int
	optionsPath string
}

func (c *expectCmd) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.parallelism, "j", 0, "fixtures checked at once (0 means the options file's parallelism, else one per CPU)")
	fs.StringVar(&c.optionsPath, "options", "", "YAML options file fixtures start from")
}

func (c *expectCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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
	color := useColor(os.Stdout)
	failed := 0
	for _, pc := range results {
		if !compare(os.Stdout, pc, color) {
			failed++
		}
	}
	fmt.Fprintf(os.Stdout, "%d fixtures, %d failed\n", len(results), failed)
	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// produced renders the diagnostics of pc the way expect blocks list them.
func produced(pc *pipeline.PipelineContext) []string {
	var out []string
	for _, d := range pc.Diagnostics() {
		out = append(out, modules.ExpectLine(d))
	}
	return out
}

// compare writes the outcome of one fixture and reports whether its
// diagnostics match the expect block. Fixtures without one always pass.
func compare(w io.Writer, pc *pipeline.PipelineContext, color bool) bool {
	if pc.Expect == nil {
		fmt.Fprintf(w, "SKIP %s (no expect block)\n", pc.FilePath)
		return true
	}
	diff := lineDiff(pc.Expect, produced(pc))
	if diff == "" {
		fmt.Fprintf(w, "PASS %s\n", pc.FilePath)
		return true
	}
	fmt.Fprintf(w, "FAIL %s\n", pc.FilePath)
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		if color {
			switch line[0] {
			case '-':
				line = colorRed + strings.TrimSuffix(line, "\n") + colorReset + "\n"
			case '+':
				line = colorGreen + strings.TrimSuffix(line, "\n") + colorReset + "\n"
			}
		}
		io.WriteString(w, line)
	}
	return false
}

// lineDiff returns a line diff of want against got with "-" marking
// missing lines and "+" unexpected ones, or "" when they are equal.
func lineDiff(want, got []string) string {
	a := joinLines(want)
	b := joinLines(got)
	if a == b {
		return ""
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				sb.WriteString(prefix + line)
			}
		}
	}
	return sb.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
