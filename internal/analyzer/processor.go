package analyzer

import (
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/pipeline"
	"github.com/funvibe/jresolve/internal/token"
)

// CatalogProcessor declares the fixture units and freezes the catalog.
// Catalog diagnostics (clashes, hierarchy and forward reference errors)
// are appended to the context.
type CatalogProcessor struct{}

func (cp *CatalogProcessor) String() string { return "catalog" }

func (cp *CatalogProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Units) == 0 {
		return ctx
	}
	cat, err := BuildCatalog(ctx.Options, ctx.Units...)
	if err != nil {
		ctx.Errors = append(ctx.Errors,
			diagnostics.NewError(diagnostics.ErrC005, token.Token{File: ctx.FilePath}, err.Error()))
		return ctx
	}
	ctx.Catalog = cat
	ctx.Errors = append(ctx.Errors, cat.Diagnostics()...)
	return ctx
}

// ResolveProcessor checks every unit against the catalog built by
// CatalogProcessor and stores one *Results per unit.
type ResolveProcessor struct{}

func (rp *ResolveProcessor) String() string { return "resolve" }

func (rp *ResolveProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Catalog == nil {
		return ctx
	}
	r := NewResolver(ctx.Catalog, ctx.Logger)
	for _, unit := range ctx.Units {
		sink := diagnostics.NewCollector()
		res := r.CheckUnit(unit, sink)
		ctx.Results = append(ctx.Results, res)
		ctx.Errors = append(ctx.Errors, sink.Errors()...)
	}
	return ctx
}
