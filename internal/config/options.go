package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls catalog construction and resolution. It is a value type:
// every component receives its own copy, nothing mutates it after startup.
type Options struct {
	// Compliance is the source level (8 and above). Below
	// PrivateInterfaceMethodsLevel private interface methods are rejected.
	// It never changes candidate selection.
	Compliance int `yaml:"compliance"`

	// ReportUnchecked emits W001 warnings when a selected method needed an
	// unchecked conversion for one of its arguments.
	ReportUnchecked bool `yaml:"report_unchecked"`

	// ReportMissingImplementation reports concrete classes that leave an
	// inherited abstract method unimplemented.
	ReportMissingImplementation bool `yaml:"report_missing_implementation"`

	// SpeculativeLambdas makes any error found while provisionally checking
	// a lambda body exclude the candidate. When false only shape errors
	// (arity, explicit parameter types, void/value compatibility) do.
	SpeculativeLambdas bool `yaml:"speculative_lambdas"`

	// Parallelism bounds how many fixture units are checked at once.
	// Zero means one per CPU.
	Parallelism int `yaml:"parallelism"`
}

// DefaultOptions returns the options used when a fixture declares none.
func DefaultOptions() Options {
	return Options{
		Compliance:                  8,
		ReportUnchecked:             false,
		ReportMissingImplementation: true,
		SpeculativeLambdas:          true,
	}
}

// WithCompliance returns a copy of o using the given source level.
func (o Options) WithCompliance(level int) Options {
	o.Compliance = level
	return o
}

// WithReportUnchecked returns a copy of o with unchecked warnings toggled.
func (o Options) WithReportUnchecked(on bool) Options {
	o.ReportUnchecked = on
	return o
}

// rawOptions mirrors Options with pointer fields so omitted keys keep
// their defaults.
type rawOptions struct {
	Compliance                  *int  `yaml:"compliance"`
	ReportUnchecked             *bool `yaml:"report_unchecked"`
	ReportMissingImplementation *bool `yaml:"report_missing_implementation"`
	SpeculativeLambdas          *bool `yaml:"speculative_lambdas"`
	Parallelism                 *int  `yaml:"parallelism"`
}

// LoadOptions reads an options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options %s: %w", path, err)
	}
	return ParseOptions(data, path)
}

// ParseOptions parses YAML options on top of DefaultOptions.
// The path argument is used only for error messages.
func ParseOptions(data []byte, path string) (Options, error) {
	var raw rawOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Options{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw.apply(DefaultOptions(), path)
}

// DecodeOptions decodes an already parsed options node on top of base.
func DecodeOptions(base Options, node *yaml.Node, path string) (Options, error) {
	if node == nil {
		return base, nil
	}
	var raw rawOptions
	if err := node.Decode(&raw); err != nil {
		return Options{}, fmt.Errorf("%s:%d: options: %w", path, node.Line, err)
	}
	return raw.apply(base, path)
}

func (r rawOptions) apply(o Options, path string) (Options, error) {
	if r.Compliance != nil {
		o.Compliance = *r.Compliance
	}
	if r.ReportUnchecked != nil {
		o.ReportUnchecked = *r.ReportUnchecked
	}
	if r.ReportMissingImplementation != nil {
		o.ReportMissingImplementation = *r.ReportMissingImplementation
	}
	if r.SpeculativeLambdas != nil {
		o.SpeculativeLambdas = *r.SpeculativeLambdas
	}
	if r.Parallelism != nil {
		o.Parallelism = *r.Parallelism
	}
	if err := o.validate(path); err != nil {
		return Options{}, err
	}
	return o, nil
}

// validate checks the options for semantic errors.
func (o Options) validate(path string) error {
	if o.Compliance < 8 {
		return fmt.Errorf("%s: compliance %d is not supported (lambdas need 8 or above)", path, o.Compliance)
	}
	if o.Parallelism < 0 {
		return fmt.Errorf("%s: parallelism must not be negative", path)
	}
	return nil
}
