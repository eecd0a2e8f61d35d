package modules

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/pipeline"
	"github.com/funvibe/jresolve/internal/token"
)

// FixtureProcessor fills the context from the fixture at ctx.FilePath.
type FixtureProcessor struct {
	Loader *Loader
}

func (fp *FixtureProcessor) String() string { return "fixture" }

func (fp *FixtureProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	loader := fp.Loader
	if loader == nil {
		loader = NewLoader()
	}
	f, err := loader.Load(ctx.FilePath)
	if err != nil {
		if ctx.Name == "" {
			ctx.Name = strings.TrimSuffix(filepath.Base(ctx.FilePath), filepath.Ext(ctx.FilePath))
		}
		ctx.Errors = append(ctx.Errors,
			diagnostics.NewError(diagnostics.ErrF001, token.Token{File: ctx.FilePath}, err.Error()))
		return ctx
	}
	Apply(ctx, f)
	return ctx
}

// Apply copies a loaded fixture into ctx.
func Apply(ctx *pipeline.PipelineContext, f *Fixture) {
	ctx.FilePath = f.Path
	ctx.Name = f.Name
	ctx.Options = f.Options
	ctx.Units = f.Units
	ctx.Expect = f.Expect
	ctx.Errors = append(ctx.Errors, f.Errors...)
}
