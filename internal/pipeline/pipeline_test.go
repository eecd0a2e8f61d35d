package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/jresolve/internal/analyzer"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/modules"
	"github.com/funvibe/jresolve/internal/pipeline"
	"github.com/google/go-cmp/cmp"
)

const ambiguousFixture = `types:
  - class CC
  - header: class DD<T>
    members:
      - void foo() {}
  - header: class EE extends DD<CC>
    members:
      - <U> void foo() {}
      - void run() { foo(); }
expect:
  - 'ERROR [C002] Name clash: The method foo() of type EE has the same erasure as foo() of type DD<T> but does not override it'
  - ERROR [M002] The method foo() is ambiguous for the type EE
`

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(
		&modules.FixtureProcessor{Loader: modules.NewLoader()},
		&analyzer.CatalogProcessor{},
		&analyzer.ResolveProcessor{},
	)
}

func TestRunFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ambiguous.yaml")
	if err := os.WriteFile(path, []byte(ambiguousFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := newPipeline().Run(pipeline.NewPipelineContext(path))

	if ctx.Catalog == nil {
		t.Fatal("catalog was not built")
	}
	if len(ctx.Results) != len(ctx.Units) {
		t.Errorf("%d results for %d units", len(ctx.Results), len(ctx.Units))
	}
	var got []string
	for _, d := range ctx.Diagnostics() {
		got = append(got, modules.ExpectLine(d))
	}
	if diff := cmp.Diff(ctx.Expect, got); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if !ctx.HasErrors() {
		t.Error("HasErrors = false")
	}
}

func TestRunMissingFixture(t *testing.T) {
	ctx := newPipeline().Run(pipeline.NewPipelineContext(filepath.Join(t.TempDir(), "nope.yaml")))
	if ctx.Catalog != nil {
		t.Error("catalog built for a missing fixture")
	}
	diags := ctx.Diagnostics()
	if len(diags) != 1 || diags[0].Code != diagnostics.ErrF001 {
		t.Errorf("got %v, want one F001", diags)
	}
}
