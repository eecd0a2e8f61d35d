package modules

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/parser"
)

// Fixture is one test case: the options to check with, the compilation
// units it declares and the diagnostics it expects.
//
// A fixture file looks like
//
//	package: p
//	options:
//	  report_unchecked: true
//	files:
//	  - name: A.java
//	    source: |
//	      class A { void m() {} }
//	types:
//	  - header: class B extends A
//	    members:
//	      - void n() { m(); }
//	expect:
//	  - ERROR [M002] The method foo() is ambiguous for the type B
//
// Positions of parsed snippets point back into the fixture file. Columns
// inside block scalars count from the block's indentation.
type Fixture struct {
	Name    string
	Path    string
	Package string
	Options config.Options
	Units   []*ast.CompilationUnit
	Expect  []string

	// Errors holds the syntax errors of the embedded sources.
	Errors []*diagnostics.DiagnosticError
}

// HasExpectations reports whether the fixture declares an expect block.
func (f *Fixture) HasExpectations() bool {
	return f.Expect != nil
}

// ExpectLine renders a diagnostic the way expect blocks list it.
func ExpectLine(d *diagnostics.DiagnosticError) string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}

// ParseFixture decodes fixture data. path names the fixture in positions
// and error messages.
func ParseFixture(data []byte, path string) (*Fixture, error) {
	return parseFixture(data, path, config.DefaultOptions())
}

// parseFixture decodes fixture data whose options block applies on top
// of base.
func parseFixture(data []byte, path string, base config.Options) (*Fixture, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f := &Fixture{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		Package: config.DefaultPackage,
		Options: base,
	}
	if doc.Kind == 0 {
		return f, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: a fixture must be a mapping", path)
	}
	root := doc.Content[0]

	var files, types *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var err error
		switch key.Value {
		case "name":
			f.Name = value.Value
		case "package":
			f.Package = value.Value
		case "options":
			f.Options, err = config.DecodeOptions(base, value, path)
		case "files":
			files = value
		case "types":
			types = value
		case "expect":
			f.Expect, err = decodeStrings(value, path, "expect")
		default:
			err = fmt.Errorf("%s:%d: unknown key %q", path, key.Line, key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	// Sources are parsed after the whole mapping is read so that the
	// package applies regardless of key order.
	if files != nil {
		if err := f.decodeFiles(files); err != nil {
			return nil, err
		}
	}
	if types != nil {
		if err := f.decodeTypes(types); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decodeStrings(node *yaml.Node, path, what string) ([]string, error) {
	out := []string{}
	if err := node.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s:%d: %s: %w", path, node.Line, what, err)
	}
	return out, nil
}

// origin locates the content of a scalar node in the fixture file.
func (f *Fixture) origin(n *yaml.Node) parser.Origin {
	if n.Style == yaml.LiteralStyle || n.Style == yaml.FoldedStyle {
		return parser.Origin{File: f.Path, Line: n.Line + 1, Column: 1}
	}
	col := n.Column
	if n.Style == yaml.DoubleQuotedStyle || n.Style == yaml.SingleQuotedStyle {
		col++
	}
	return parser.Origin{File: f.Path, Line: n.Line, Column: col}
}

func (f *Fixture) decodeFiles(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("%s:%d: files must be a list", f.Path, node.Line)
	}
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("%s:%d: a file entry must be a mapping", f.Path, item.Line)
		}
		var name string
		var source *yaml.Node
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, value := item.Content[i], item.Content[i+1]
			switch key.Value {
			case "name":
				name = value.Value
			case "source":
				source = value
			default:
				return fmt.Errorf("%s:%d: unknown file key %q", f.Path, key.Line, key.Value)
			}
		}
		if source == nil {
			return fmt.Errorf("%s:%d: file entry without source", f.Path, item.Line)
		}
		unit, errs := parser.ParseUnit(source.Value, f.origin(source), f.Package)
		if name != "" {
			unit.File = name
		}
		f.Units = append(f.Units, unit)
		f.Errors = append(f.Errors, errs...)
	}
	return nil
}

type typeEntry struct {
	header  *yaml.Node
	members []*yaml.Node
}

func (f *Fixture) decodeTypes(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("%s:%d: types must be a list", f.Path, node.Line)
	}
	unit := &ast.CompilationUnit{File: f.Path, Package: f.Package}
	for _, item := range node.Content {
		entry, err := f.typeEntry(item)
		if err != nil {
			return err
		}
		decls, errs := parser.ParseHeader(entry.header.Value, f.origin(entry.header))
		f.Errors = append(f.Errors, errs...)
		if len(decls) == 0 {
			continue
		}
		td := decls[0]
		for _, m := range entry.members {
			nested, errs := parser.ParseMembers(m.Value, f.origin(m), td)
			f.Errors = append(f.Errors, errs...)
			decls = append(decls, nested...)
		}
		unit.Types = append(unit.Types, decls...)
	}
	f.Units = append(f.Units, unit)
	return nil
}

func (f *Fixture) typeEntry(item *yaml.Node) (*typeEntry, error) {
	entry := &typeEntry{}
	switch item.Kind {
	case yaml.ScalarNode:
		entry.header = item
		return entry, nil
	case yaml.MappingNode:
	default:
		return nil, fmt.Errorf("%s:%d: a type entry must be a header or a mapping", f.Path, item.Line)
	}
	for i := 0; i+1 < len(item.Content); i += 2 {
		key, value := item.Content[i], item.Content[i+1]
		switch key.Value {
		case "header":
			entry.header = value
		case "members":
			if value.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("%s:%d: members must be a list", f.Path, value.Line)
			}
			entry.members = value.Content
		default:
			return nil, fmt.Errorf("%s:%d: unknown type key %q", f.Path, key.Line, key.Value)
		}
	}
	if entry.header == nil {
		return nil, fmt.Errorf("%s:%d: type entry without header", f.Path, item.Line)
	}
	return entry, nil
}
