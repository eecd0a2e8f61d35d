package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/modules"
	"github.com/funvibe/jresolve/internal/pipeline"
	"github.com/funvibe/jresolve/internal/token"
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
  - ERROR [M002] The method foo() is ambiguous for the type EE
`

const functionalFixture = `types:
  - "interface Cmp<T> { int compare(T a, T b); boolean equals(Object o); }"
  - "interface Two { void a(); void b(); }"
`

func runOne(t *testing.T, content string) *pipeline.PipelineContext {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	results, err := runFixtures(context.Background(), []string{path}, config.DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("runFixtures: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	return results[0]
}

func TestRunFixturesKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a_good.yaml": "types:\n  - header: class A\n    members:\n      - void m(int a) {}\n      - void m(int b) {}\n",
		"b_bad.yaml":  "name: bad\nbogus_key: 1\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	opts := config.DefaultOptions()
	opts.Parallelism = 2
	results, err := runFixtures(context.Background(), []string{dir}, opts, 0)
	if err != nil {
		t.Fatalf("runFixtures: %v", err)
	}
	got := make(map[string][]string)
	for _, pc := range results {
		got[pc.Name] = produced(pc)
	}
	bad := filepath.Join(dir, "b_bad.yaml")
	want := map[string][]string{
		"a_good": {"ERROR [C001] Duplicate method m(int) in type A"},
		"b_bad":  {"ERROR [F001] " + bad + `:2: unknown key "bogus_key"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics per fixture (-want +got):\n%s", diff)
	}
}

func TestBaseOptions(t *testing.T) {
	opts, err := baseOptions("")
	if err != nil || opts != config.DefaultOptions() {
		t.Errorf("baseOptions(\"\") = %+v, %v; want defaults", opts, err)
	}
	path := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(path, []byte("parallelism: 3\nreport_unchecked: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err = baseOptions(path)
	if err != nil {
		t.Fatalf("baseOptions: %v", err)
	}
	if opts.Parallelism != 3 || !opts.ReportUnchecked {
		t.Errorf("baseOptions(%s) = %+v", path, opts)
	}
	if _, err := baseOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing options file")
	}
}

func TestLineDiff(t *testing.T) {
	if got := lineDiff([]string{"a", "b"}, []string{"a", "b"}); got != "" {
		t.Errorf("equal input gave diff %q", got)
	}
	if got := lineDiff(nil, nil); got != "" {
		t.Errorf("empty input gave diff %q", got)
	}
	got := lineDiff([]string{"a", "b"}, []string{"a", "c"})
	want := "  a\n- b\n+ c\n"
	if got != want {
		t.Errorf("lineDiff = %q, want %q", got, want)
	}
}

func TestFormatDiagnostic(t *testing.T) {
	d := diagnostics.NewError(diagnostics.ErrM003, token.Token{File: "f.yaml", Line: 2, Column: 5}, "The method x() is undefined for the type A")
	plain := "f.yaml:2:5: ERROR [M003] The method x() is undefined for the type A"
	if got := formatDiagnostic(d, false); got != plain {
		t.Errorf("plain = %q, want %q", got, plain)
	}
	if got := formatDiagnostic(d, true); got != colorRed+plain+colorReset {
		t.Errorf("colored = %q", got)
	}
	w := diagnostics.NewError(diagnostics.ErrW001, token.Token{Line: 1, Column: 1}, "unchecked")
	if got := formatDiagnostic(w, true); !strings.HasPrefix(got, colorYellow) {
		t.Errorf("warning not yellow: %q", got)
	}
	var buf bytes.Buffer
	if useColor(&buf) {
		t.Error("a buffer is not a terminal")
	}
}

func TestCompare(t *testing.T) {
	pc := runOne(t, ambiguousFixture)
	var buf bytes.Buffer
	if compare(&buf, pc, false) {
		t.Fatal("fixture without the name clash line passed")
	}
	out := buf.String()
	if !strings.HasPrefix(out, "FAIL ") {
		t.Errorf("output %q does not start with FAIL", out)
	}
	if !strings.Contains(out, "+ ERROR [C002] Name clash") {
		t.Errorf("output %q does not show the unexpected clash", out)
	}
	if !strings.Contains(out, "  ERROR [M002] The method foo() is ambiguous for the type EE") {
		t.Errorf("output %q does not keep the matching line", out)
	}

	pc.Expect = produced(pc)
	buf.Reset()
	if !compare(&buf, pc, false) || !strings.HasPrefix(buf.String(), "PASS ") {
		t.Errorf("matching expectations failed: %q", buf.String())
	}

	pc.Expect = nil
	buf.Reset()
	if !compare(&buf, pc, false) || !strings.HasPrefix(buf.String(), "SKIP ") {
		t.Errorf("fixture without expectations: %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	pc := runOne(t, ambiguousFixture)
	var buf bytes.Buffer
	if err := writeJSON(&buf, []*pipeline.PipelineContext{pc}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	var codes []string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var d jsonDiagnostic
		if err := dec.Decode(&d); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if d.File != pc.FilePath || d.Line == 0 {
			t.Errorf("diagnostic without position: %+v", d)
		}
		codes = append(codes, d.Code)
	}
	if diff := cmp.Diff([]string{"C002", "M002"}, codes); diff != "" {
		t.Errorf("codes (-want +got):\n%s", diff)
	}
	if got := resolvedCalls(pc); got != 0 {
		t.Errorf("resolvedCalls = %d, want 0", got)
	}
}

func TestDescribe(t *testing.T) {
	pc := runOne(t, functionalFixture)

	var buf bytes.Buffer
	if err := describe(&buf, pc, "Cmp<String>"); err != nil {
		t.Fatalf("describe Cmp<String>: %v", err)
	}
	for _, want := range []string{"compare(String, String)", "return: int"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("descriptor output %q lacks %q", buf.String(), want)
		}
	}

	buf.Reset()
	if err := describe(&buf, pc, "Two"); err != nil {
		t.Fatalf("describe Two: %v", err)
	}
	for _, want := range []string{"not_functional:", "Two.a()", "Two.b()"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("member output %q lacks %q", buf.String(), want)
		}
	}

	if err := describe(&buf, pc, "int"); err == nil {
		t.Error("describing a primitive succeeded")
	}
	if err := describe(&buf, pc, "Cmp<"); err == nil {
		t.Error("describing a malformed type succeeded")
	}
}

func TestPrintFixture(t *testing.T) {
	f, err := modules.ParseFixture([]byte(functionalFixture), "f.yaml")
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	var buf bytes.Buffer
	if err := printFixture(&buf, f); err != nil {
		t.Fatalf("printFixture: %v", err)
	}
	want := `// f.yaml: f.yaml (package p)
interface Cmp<T> {
    int compare(T a, T b);
    boolean equals(Object o);
}

interface Two {
    void a();
    void b();
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("printFixture (-want +got):\n%s", diff)
	}
}
