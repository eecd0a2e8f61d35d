package modules

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/jresolve/internal/config"
)

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadAllDirectory(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"b.yaml":    "name: second\n",
		"a.yml":     "name: first\n",
		"notes.txt": "not a fixture",
	})
	l := NewLoader()
	got, err := l.LoadAll(context.Background(), []string{dir}, 2)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var names []string
	for _, ld := range got {
		if ld.Err != nil {
			t.Fatalf("%s: %v", ld.Path, ld.Err)
		}
		names = append(names, ld.Fixture.Name)
	}
	if diff := cmp.Diff([]string{"first", "second"}, names); diff != "" {
		t.Errorf("fixtures (-want +got):\n%s", diff)
	}

	again, err := l.Load(filepath.Join(dir, "a.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again != got[0].Fixture {
		t.Error("Load did not return the cached fixture")
	}
}

func TestExpand(t *testing.T) {
	dir := writeFixtures(t, map[string]string{"x.yaml": "", "y.yaml": ""})
	x := filepath.Join(dir, "x.yaml")
	got, err := Expand([]string{x, dir})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if diff := cmp.Diff([]string{x, filepath.Join(dir, "y.yaml")}, got); diff != "" {
		t.Errorf("Expand (-want +got):\n%s", diff)
	}

	if _, err := Expand([]string{t.TempDir()}); err == nil {
		t.Error("expected an error for a directory without fixtures")
	}
	if _, err := Expand([]string{filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadAllReportsEachFailure(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"a_good.yaml": "name: good\n",
		"b_bad.yaml":  "name: bad\nbogus_key: 1\n",
		"c_good.yaml": "name: also good\n",
	})
	l := NewLoader()
	got, err := l.LoadAll(context.Background(), []string{dir}, 0)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var outcome []string
	for _, ld := range got {
		if ld.Err != nil {
			outcome = append(outcome, filepath.Base(ld.Path)+": "+strings.TrimPrefix(ld.Err.Error(), dir+string(filepath.Separator)))
			continue
		}
		outcome = append(outcome, filepath.Base(ld.Path)+": "+ld.Fixture.Name)
	}
	want := []string{
		"a_good.yaml: good",
		`b_bad.yaml: b_bad.yaml:2: unknown key "bogus_key"`,
		"c_good.yaml: also good",
	}
	if diff := cmp.Diff(want, outcome); diff != "" {
		t.Errorf("LoadAll outcomes (-want +got):\n%s", diff)
	}

	if _, err := l.Load(filepath.Join(dir, "b_bad.yaml")); err == nil {
		t.Error("Load of the bad fixture succeeded after LoadAll")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader().LoadAll(ctx, []string{filepath.Join(dir, "a_good.yaml")}, 1); err == nil {
		t.Error("expected a cancelled context to stop the load")
	}
}

func TestLoaderOptions(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"plain.yaml":    "name: plain\n",
		"override.yaml": "options:\n  report_unchecked: false\n",
	})
	base := config.DefaultOptions().WithReportUnchecked(true)
	base.Parallelism = 1
	l := NewLoaderWith(base)
	got, err := l.LoadAll(context.Background(), []string{dir}, 0)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	unchecked := make(map[string]bool)
	for _, ld := range got {
		if ld.Err != nil {
			t.Fatalf("%s: %v", ld.Path, ld.Err)
		}
		unchecked[filepath.Base(ld.Path)] = ld.Fixture.Options.ReportUnchecked
	}
	want := map[string]bool{"override.yaml": false, "plain.yaml": true}
	if diff := cmp.Diff(want, unchecked); diff != "" {
		t.Errorf("report_unchecked per fixture (-want +got):\n%s", diff)
	}
}
