package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/funvibe/jresolve/internal/modules"
	"github.com/funvibe/jresolve/internal/prettyprinter"
)

type printCmd struct {
	info
}

func (c *printCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() == 0 {
		return c.fail("no fixtures given")
	}
	loaded, err := modules.NewLoader().LoadAll(ctx, fs.Args(), 0)
	if err != nil {
		return c.fail("%v", err)
	}
	status := subcommands.ExitSuccess
	for _, ld := range loaded {
		if ld.Err != nil {
			status = c.fail("%v", ld.Err)
			continue
		}
		if err := printFixture(os.Stdout, ld.Fixture); err != nil {
			return c.fail("%v", err)
		}
	}
	return status
}

// printFixture writes the units of f as Java source, each headed by a
// comment naming the fixture and unit.
func printFixture(w io.Writer, f *modules.Fixture) error {
	for _, u := range f.Units {
		if _, err := fmt.Fprintf(w, "// %s: %s (package %s)\n%s", f.Path, u.File, u.Package, prettyprinter.Unit(u)); err != nil {
			return err
		}
	}
	return nil
}
