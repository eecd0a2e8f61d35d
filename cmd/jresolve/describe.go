package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/jresolve/internal/analyzer"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/parser"
	"github.com/funvibe/jresolve/internal/pipeline"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

type describeCmd struct {
	info

	typeExpr string
}

func (c *describeCmd) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.typeExpr, "type", "", "type expression to describe, e.g. Function<String, ? extends Number>")
}

func (c *describeCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.typeExpr == "" || fs.NArg() != 1 {
		return c.fail("usage: %s", c.usage)
	}
	results, err := runFixtures(ctx, fs.Args(), config.DefaultOptions(), 1)
	if err != nil {
		return c.fail("%v", err)
	}
	pc := results[0]
	if pc.Catalog == nil {
		for _, d := range pc.Diagnostics() {
			fmt.Fprintln(os.Stderr, d.Format())
		}
		return c.fail("%s declares no types", pc.FilePath)
	}
	if err := describe(os.Stdout, pc, c.typeExpr); err != nil {
		return c.fail("%v", err)
	}
	return subcommands.ExitSuccess
}

type descriptorView struct {
	Type       string   `yaml:"type"`
	Method     string   `yaml:"method"`
	Declared   string   `yaml:"declared"`
	TypeParams string   `yaml:"type_params,omitempty"`
	Params     []string `yaml:"params"`
	Return     string   `yaml:"return"`
	Throws     []string `yaml:"throws,omitempty"`
}

type membersView struct {
	Type          string   `yaml:"type"`
	NotFunctional string   `yaml:"not_functional"`
	Members       []string `yaml:"members"`
}

// describe writes the functional descriptor of typeExpr as YAML, or the
// member table when the type is not a functional interface.
func describe(w io.Writer, pc *pipeline.PipelineContext, typeExpr string) error {
	t, err := parser.ParseType(typeExpr, nil)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", typeExpr, err)
	}
	cat := pc.Catalog
	rec, ok := cat.RecordOf(t)
	if !ok {
		return fmt.Errorf("%s is not a class or interface type", typeExpr)
	}

	var view interface{}
	d, err := analyzer.NewResolver(cat, pc.Logger).Describe(t)
	if err == nil {
		dv := descriptorView{
			Type:       prettyprinter.Type(d.Interface),
			Method:     d.Signature(),
			Declared:   prettyprinter.Qualified(cat, d.Method),
			Return:     prettyprinter.Type(d.Return),
		}
		if len(d.TypeParams) > 0 {
			dv.TypeParams = prettyprinter.TypeParams(d.TypeParams)
		}
		for _, p := range d.Params {
			dv.Params = append(dv.Params, prettyprinter.Type(p))
		}
		for _, e := range d.Throws {
			dv.Throws = append(dv.Throws, prettyprinter.Type(e))
		}
		view = dv
	} else {
		var rerr *analyzer.ResolutionError
		if !errors.As(err, &rerr) {
			return err
		}
		view = membersView{
			Type:          cat.DisplayName(rec.ID),
			NotFunctional: rerr.Message,
			Members:       memberTable(cat, t),
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return enc.Close()
}

// memberTable lists the member methods of t with their declaring types.
func memberTable(cat *symbols.Catalog, t typesystem.Type) []string {
	var out []string
	for _, m := range cat.Members(t) {
		out = append(out, prettyprinter.Qualified(cat, m))
	}
	return out
}
