// symbols/catalog.go - Declaration catalog entry point
//
// The catalog is split into focused files:
// - catalog.go: TypeRecord, Catalog and declaration of types
// - catalog_prelude.go: the shared java.lang/java.util prelude
// - catalog_members.go: MethodSignature, FieldSymbol and member views
// - catalog_freeze.go: hierarchy resolution and member table construction
// - catalog_lookup.go: member lookup by receiver type
// - catalog_subtype.go: supertype views, subtyping, least upper bound
// - catalog_signatures.go: subsignature and return-type-substitutability

package symbols

import (
	"errors"
	"fmt"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// ErrFrozen is returned by mutators called after Freeze.
var ErrFrozen = errors.New("catalog is frozen")

// TypeID indexes the catalog's arena of type records.
type TypeID int

// NoType is the TypeID of nothing.
const NoType TypeID = -1

// TypeRecord is one class or interface of the catalog.
type TypeRecord struct {
	ID         TypeID
	Name       string
	Kind       ast.TypeKind
	Modifiers  ast.Modifiers
	Package    string
	Outer      string
	TypeParams []typesystem.TVar
	Super      typesystem.Type   // direct superclass, nil for Object and interfaces
	Interfaces []typesystem.Type // direct superinterfaces
	Decl       *ast.TypeDecl
	Prelude    bool

	Fields       []*FieldSymbol
	Methods      []*MethodSignature // declared methods, constructors excluded
	Constructors []*MethodSignature

	// Computed by Freeze.
	all     []*MethodSignature            // declared + every inherited view
	visible map[string][]*MethodSignature // by name, overridden members removed
	names   []string                      // member names in first-seen order
	erasure map[string][]TypeID
	ready   bool
}

// IsInterface reports whether the record declares an interface.
func (r *TypeRecord) IsInterface() bool { return r.Kind == ast.InterfaceKind }

// IsAbstract reports whether the type cannot be instantiated.
func (r *TypeRecord) IsAbstract() bool {
	return r.IsInterface() || r.Modifiers.Has(ast.ModAbstract)
}

// IsGeneric reports whether the type declares type parameters.
func (r *TypeRecord) IsGeneric() bool { return len(r.TypeParams) > 0 }

// SelfType is the type of "this" inside the declaration.
func (r *TypeRecord) SelfType() typesystem.Type {
	if !r.IsGeneric() {
		return typesystem.TCon{Name: r.Name}
	}
	args := make([]typesystem.Type, len(r.TypeParams))
	for i, tp := range r.TypeParams {
		args[i] = tp
	}
	return typesystem.TApp{Constructor: typesystem.TCon{Name: r.Name}, Args: args}
}

// ClashDetector checks a type's complete member set once its member table is
// built. It is how the analyzer plugs erasure clash detection into Freeze.
type ClashDetector interface {
	CheckType(c *Catalog, id TypeID) []*diagnostics.DiagnosticError
}

// Catalog is the declaration catalog of one program. It is populated with
// Declare, made read-only with Freeze and may then be shared by any number
// of goroutines.
type Catalog struct {
	opts    config.Options
	types   []*TypeRecord
	byName  map[string]TypeID
	frozen  bool
	diags   []*diagnostics.DiagnosticError
	clashes ClashDetector
}

// NewCatalog creates a catalog seeded with the prelude types.
func NewCatalog(opts config.Options) *Catalog {
	c := newEmptyCatalog(opts)
	prelude := GetPrelude()
	for _, r := range prelude.types {
		c.types = append(c.types, r)
		c.byName[r.Name] = r.ID
	}
	return c
}

func newEmptyCatalog(opts config.Options) *Catalog {
	return &Catalog{
		opts:   opts,
		byName: make(map[string]TypeID),
	}
}

// Options returns the options the catalog was built with.
func (c *Catalog) Options() config.Options { return c.opts }

// SetClashDetector installs the per-type check run by Freeze.
func (c *Catalog) SetClashDetector(d ClashDetector) error {
	if c.frozen {
		return ErrFrozen
	}
	c.clashes = d
	return nil
}

// Frozen reports whether Freeze has completed.
func (c *Catalog) Frozen() bool { return c.frozen }

// Diagnostics returns the problems found while building the catalog.
func (c *Catalog) Diagnostics() []*diagnostics.DiagnosticError { return c.diags }

func (c *Catalog) report(err *diagnostics.DiagnosticError) {
	c.diags = append(c.diags, err)
}

// DeclareUnit declares every type of unit.
func (c *Catalog) DeclareUnit(unit *ast.CompilationUnit) error {
	for _, td := range unit.Types {
		if _, err := c.Declare(td, unit.Package); err != nil {
			return err
		}
	}
	return nil
}

// Declare adds a type declaration. A second declaration of the same name is
// reported and ignored.
func (c *Catalog) Declare(td *ast.TypeDecl, pkg string) (TypeID, error) {
	if c.frozen {
		return NoType, ErrFrozen
	}
	if id, ok := c.byName[td.Name]; ok {
		if existing := c.types[id]; existing.Prelude {
			c.report(diagnostics.Errorf(diagnostics.ErrC005, td.Token,
				"The type %s collides with a predefined type", td.Name))
		} else {
			c.report(diagnostics.Errorf(diagnostics.ErrC005, td.Token,
				"The type %s is already defined", td.Name))
		}
		return id, nil
	}

	r := &TypeRecord{
		ID:         TypeID(len(c.types)),
		Name:       td.Name,
		Kind:       td.Kind,
		Modifiers:  td.Modifiers,
		Package:    pkg,
		Outer:      td.Outer,
		TypeParams: td.TypeParams,
		Super:      td.Super,
		Interfaces: td.Interfaces,
		Decl:       td,
	}
	if r.IsInterface() {
		r.Modifiers |= ast.ModAbstract
	}

	for _, fd := range td.Fields {
		mods := fd.Modifiers
		if r.IsInterface() {
			mods |= ast.ModPublic | ast.ModStatic | ast.ModFinal
		}
		r.Fields = append(r.Fields, &FieldSymbol{
			Name:      fd.Name,
			Owner:     r.ID,
			Type:      fd.Type,
			Modifiers: mods,
			Index:     fd.Index,
			Decl:      fd,
		})
	}

	for _, md := range td.Methods {
		m := newDeclaredMethod(r, md)
		if md.IsConstructor {
			r.Constructors = append(r.Constructors, m)
		} else {
			r.Methods = append(r.Methods, m)
		}
	}
	if !r.IsInterface() && len(r.Constructors) == 0 {
		r.Constructors = append(r.Constructors, defaultConstructor(r))
	}

	c.types = append(c.types, r)
	c.byName[r.Name] = r.ID
	return r.ID, nil
}

// Record returns the record with the given ID.
func (c *Catalog) Record(id TypeID) *TypeRecord {
	if id < 0 || int(id) >= len(c.types) {
		return nil
	}
	return c.types[id]
}

// Resolve returns the record declaring the named type.
func (c *Catalog) Resolve(name string) (*TypeRecord, bool) {
	id, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.types[id], true
}

// RecordOf returns the record of a class or interface type.
func (c *Catalog) RecordOf(t typesystem.Type) (*TypeRecord, bool) {
	switch typ := t.(type) {
	case typesystem.TCon:
		return c.Resolve(typ.Name)
	case typesystem.TApp:
		return c.Resolve(typ.Constructor.Name)
	}
	return nil, false
}

// Types returns the records declared by the program, prelude excluded, in
// declaration order.
func (c *Catalog) Types() []*TypeRecord {
	var out []*TypeRecord
	for _, r := range c.types {
		if !r.Prelude {
			out = append(out, r)
		}
	}
	return out
}

// Outermost returns the name of the top-level type enclosing r.
func (c *Catalog) Outermost(r *TypeRecord) string {
	seen := 0
	for r.Outer != "" && seen < len(c.types) {
		outer, ok := c.Resolve(r.Outer)
		if !ok {
			return r.Outer
		}
		r = outer
		seen++
	}
	return r.Name
}

// CheckTypeRef verifies that every class named by t exists and is applied to
// the right number of type arguments.
func (c *Catalog) CheckTypeRef(t typesystem.Type) error {
	switch typ := t.(type) {
	case typesystem.TCon:
		if _, ok := c.Resolve(typ.Name); !ok {
			return typesystem.NewUnknownTypeError(typ.Name)
		}
	case typesystem.TApp:
		r, ok := c.Resolve(typ.Constructor.Name)
		if !ok {
			return typesystem.NewUnknownTypeError(typ.Constructor.Name)
		}
		if len(r.TypeParams) != len(typ.Args) {
			return &typesystem.ArityError{Type: displayName(r), Expected: len(r.TypeParams), Got: len(typ.Args)}
		}
		for _, arg := range typ.Args {
			if err := c.CheckTypeRef(arg); err != nil {
				return err
			}
		}
	case typesystem.TArray:
		return c.CheckTypeRef(typ.Elem)
	case typesystem.TWildcard:
		if typ.Bound != nil {
			return c.CheckTypeRef(typ.Bound)
		}
	case typesystem.TIntersection:
		for _, it := range typ.Types {
			if err := c.CheckTypeRef(it); err != nil {
				return err
			}
		}
	}
	return nil
}

// displayName renders a record the way diagnostics name a generic type:
// "List<E>".
func displayName(r *TypeRecord) string {
	return r.SelfType().String()
}

// DisplayName renders the record's type with its own type parameters.
func (c *Catalog) DisplayName(id TypeID) string {
	r := c.Record(id)
	if r == nil {
		return fmt.Sprintf("<type %d>", id)
	}
	return displayName(r)
}
