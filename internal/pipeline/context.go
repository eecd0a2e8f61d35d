package pipeline

import (
	"log/slog"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/symbols"
)

// Processor is one stage of a pipeline. A stage reads what earlier stages
// left in the context and adds its own results. Stages report problems by
// appending to ctx.Errors and keep going.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one fixture through the stages.
type PipelineContext struct {
	FilePath string
	Name     string
	Logger   *slog.Logger
	Options  config.Options

	Units  []*ast.CompilationUnit
	Expect []string

	Catalog *symbols.Catalog
	Results []interface{} // *analyzer.Results, one per unit

	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext creates a context for the fixture at path.
func NewPipelineContext(path string) *PipelineContext {
	return &PipelineContext{
		FilePath: path,
		Logger:   slog.Default(),
		Options:  config.DefaultOptions(),
	}
}

// Diagnostics returns the deduplicated errors ordered by position.
func (ctx *PipelineContext) Diagnostics() []*diagnostics.DiagnosticError {
	c := diagnostics.NewCollector()
	c.AddAll(ctx.Errors)
	return c.Errors()
}

// HasErrors reports whether an error-severity diagnostic was recorded.
func (ctx *PipelineContext) HasErrors() bool {
	for _, err := range ctx.Errors {
		if err.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}
