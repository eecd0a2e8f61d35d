package modules

import (
	"strings"
	"testing"

	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/google/go-cmp/cmp"
)

const sampleFixture = `name: sample
options:
  report_unchecked: true
files:
  - name: A.java
    source: |
      class A {
        void m() {}
      }
types:
  - header: class B extends A
    members:
      - void n() { m(); }
  - interface I
expect:
  - ERROR [M003] The method x() is undefined for the type B
`

func TestParseFixture(t *testing.T) {
	f, err := ParseFixture([]byte(sampleFixture), "cases/sample.yaml")
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if f.Name != "sample" || f.Package != config.DefaultPackage {
		t.Errorf("name %q package %q", f.Name, f.Package)
	}
	if !f.Options.ReportUnchecked || f.Options.Compliance != 8 {
		t.Errorf("options not decoded: %+v", f.Options)
	}
	if diff := cmp.Diff([]string{"ERROR [M003] The method x() is undefined for the type B"}, f.Expect); diff != "" {
		t.Errorf("expect (-want +got):\n%s", diff)
	}
	if len(f.Errors) != 0 {
		t.Fatalf("unexpected syntax errors: %v", f.Errors)
	}
	if len(f.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(f.Units))
	}

	file := f.Units[0]
	if file.File != "A.java" || file.Package != config.DefaultPackage {
		t.Errorf("file unit %q in package %q", file.File, file.Package)
	}
	if len(file.Types) != 1 || file.Types[0].Name != "A" {
		t.Fatalf("file unit types: %v", file.Types)
	}
	a := file.Types[0]
	if a.Token.File != "cases/sample.yaml" || a.Token.Line != 7 {
		t.Errorf("A declared at %s, want cases/sample.yaml:7", a.Token)
	}
	if len(a.Methods) != 1 || a.Methods[0].Token.Line != 8 {
		t.Errorf("A.m not found on line 8: %v", a.Methods)
	}

	var names []string
	for _, td := range f.Units[1].Types {
		names = append(names, td.Name)
	}
	if diff := cmp.Diff([]string{"B", "I"}, names); diff != "" {
		t.Fatalf("synthesized types (-want +got):\n%s", diff)
	}
	b := f.Units[1].Types[0]
	if b.Token.Line != 11 || b.Token.Column != 19 {
		t.Errorf("B declared at %d:%d, want 11:19", b.Token.Line, b.Token.Column)
	}
	if len(b.Methods) != 1 || b.Methods[0].Name != "n" || b.Methods[0].Token.Line != 13 {
		t.Errorf("B.n not found on line 13: %v", b.Methods)
	}
	if b.Super == nil || b.Super.String() != "A" {
		t.Errorf("B extends %v, want A", b.Super)
	}
	if got := f.Units[1].Types[1].Token.Line; got != 14 {
		t.Errorf("I declared on line %d, want 14", got)
	}
}

func TestParseFixtureDefaults(t *testing.T) {
	f, err := ParseFixture(nil, "dir/empty.yml")
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if f.Name != "empty" || f.HasExpectations() || len(f.Units) != 0 {
		t.Errorf("unexpected fixture %+v", f)
	}
	if diff := cmp.Diff(config.DefaultOptions(), f.Options); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}

	f, err = ParseFixture([]byte("package: q\nexpect: []\nfiles:\n  - source: class Q {}\n"), "q.yaml")
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if !f.HasExpectations() || len(f.Expect) != 0 {
		t.Errorf("empty expect block lost: %#v", f.Expect)
	}
	if f.Units[0].Package != "q" || f.Units[0].File != "q.yaml" {
		t.Errorf("unit %q in package %q", f.Units[0].File, f.Units[0].Package)
	}
}

func TestParseFixtureSyntaxError(t *testing.T) {
	f, err := ParseFixture([]byte("files:\n  - source: class C { int }\n"), "bad.yaml")
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	if len(f.Errors) == 0 {
		t.Fatal("expected a syntax error")
	}
	got := f.Errors[0]
	if got.Code != diagnostics.ErrP001 || got.Token.File != "bad.yaml" || got.Token.Line != 2 {
		t.Errorf("got %s", got.Format())
	}
}

func TestParseFixtureRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not a mapping", "- a\n- b\n", "must be a mapping"},
		{"unknown key", "name: x\nbogus: 1\n", `unknown key "bogus"`},
		{"files not a list", "files: x\n", "files must be a list"},
		{"file without source", "files:\n  - name: A.java\n", "file entry without source"},
		{"unknown file key", "files:\n  - src: x\n", `unknown file key "src"`},
		{"type without header", "types:\n  - members: []\n", "type entry without header"},
		{"members not a list", "types:\n  - header: class A\n    members: x\n", "members must be a list"},
		{"bad options", "options:\n  compliance: 7\n", "compliance 7 is not supported"},
		{"bad expect", "expect:\n  a: b\n", "expect"},
		{"bad yaml", "name: [\n", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.data), "f.yaml")
			if err == nil {
				t.Fatalf("expected an error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestExpectLine(t *testing.T) {
	d := diagnostics.NewError(diagnostics.ErrW001, token.Token{Line: 3, Column: 1}, "Type safety: unchecked")
	if got, want := ExpectLine(d), "WARNING [W001] Type safety: unchecked"; got != want {
		t.Errorf("ExpectLine = %q, want %q", got, want)
	}
}
