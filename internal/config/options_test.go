package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestParseOptionsDefaults(t *testing.T) {
	got, err := ParseOptions([]byte("{}"), "opts.yaml")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if diff := cmp.Diff(DefaultOptions(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOptionsOverrides(t *testing.T) {
	input := `
compliance: 11
report_unchecked: true
speculative_lambdas: false
parallelism: 4
`
	got, err := ParseOptions([]byte(input), "opts.yaml")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	want := DefaultOptions()
	want.Compliance = 11
	want.ReportUnchecked = true
	want.SpeculativeLambdas = false
	want.Parallelism = 4
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOptionsValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"old compliance", "compliance: 7", "not supported"},
		{"negative parallelism", "parallelism: -1", "must not be negative"},
		{"bad yaml", "compliance: [", "parsing opts.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions([]byte(tt.input), "opts.yaml")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestWithHelpersCopy(t *testing.T) {
	base := DefaultOptions()
	changed := base.WithCompliance(17).WithReportUnchecked(true)
	if base.Compliance != 8 || base.ReportUnchecked {
		t.Errorf("base options were mutated: %+v", base)
	}
	if changed.Compliance != 17 || !changed.ReportUnchecked {
		t.Errorf("unexpected copy: %+v", changed)
	}
}

func TestDecodeOptionsKeepsBase(t *testing.T) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("report_unchecked: true\n"), &doc); err != nil {
		t.Fatal(err)
	}
	base := DefaultOptions().WithCompliance(11)
	base.Parallelism = 3
	got, err := DecodeOptions(base, doc.Content[0], "f.yaml")
	if err != nil {
		t.Fatalf("DecodeOptions: %v", err)
	}
	want := base.WithReportUnchecked(true)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	if got, err := DecodeOptions(base, nil, "f.yaml"); err != nil || got != base {
		t.Errorf("DecodeOptions(nil) = %+v, %v; want the base options", got, err)
	}
}
