package pipeline

import (
	"fmt"
	"time"
)

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		start := time.Now()
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages
		// (catalog clashes and resolution errors are both wanted).
		if ctx.Logger != nil {
			ctx.Logger.Debug("stage done",
				"stage", stageName(processor),
				"file", ctx.FilePath,
				"errors", len(ctx.Errors),
				"duration", time.Since(start))
		}
	}
	return ctx
}

func stageName(p Processor) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", p)
}
