package symbols

import (
	"strings"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Source tells whether a member view is the declaration itself or a view of
// it through a supertype.
type Source int

const (
	Declared Source = iota
	Inherited
)

func (s Source) String() string {
	if s == Inherited {
		return "inherited"
	}
	return "declared"
}

// MethodSignature is a method or constructor as seen from some type.
// Declared signatures are immutable once the catalog is frozen; views are
// fresh copies with a substitution applied.
type MethodSignature struct {
	Name       string
	Owner      TypeID // declaring type
	TypeParams []typesystem.TVar
	Params     []typesystem.Type
	ParamNames []string
	Variadic   bool
	Return     typesystem.Type // void for constructors
	Throws     []typesystem.Type
	Modifiers  ast.Modifiers
	Source     Source
	Decl       *MethodSignature // the declared signature this one derives from
	Via        TypeID           // direct supertype an inherited view came through
	Raw        bool             // seen through a raw type
	Index      int              // declaration index among the owner's methods
	Pos        token.Token
	Node       *ast.MethodDecl
}

func newDeclaredMethod(r *TypeRecord, md *ast.MethodDecl) *MethodSignature {
	mods := md.Modifiers
	if r.IsInterface() && !md.IsConstructor {
		if !mods.Has(ast.ModPrivate) {
			mods |= ast.ModPublic
		}
		if md.Body == nil && !mods.Has(ast.ModDefault) && !mods.Has(ast.ModStatic) && !mods.Has(ast.ModPrivate) {
			mods |= ast.ModAbstract
		}
	}
	m := &MethodSignature{
		Name:       md.Name,
		Owner:      r.ID,
		TypeParams: md.TypeParams,
		Params:     md.ParamTypes(),
		Variadic:   md.Variadic,
		Return:     md.Return,
		Throws:     md.Throws,
		Modifiers:  mods,
		Source:     Declared,
		Via:        NoType,
		Index:      md.Index,
		Pos:        md.Token,
		Node:       md,
	}
	for _, p := range md.Params {
		m.ParamNames = append(m.ParamNames, p.Name)
	}
	if md.IsConstructor {
		m.Name = config.ConstructorName
		m.Return = typesystem.Void
	}
	if m.Return == nil {
		m.Return = typesystem.Void
	}
	m.Decl = m
	return m
}

func defaultConstructor(r *TypeRecord) *MethodSignature {
	var mods ast.Modifiers
	switch {
	case r.Modifiers.Has(ast.ModPublic):
		mods = ast.ModPublic
	case r.Modifiers.Has(ast.ModProtected):
		mods = ast.ModProtected
	case r.Modifiers.Has(ast.ModPrivate):
		mods = ast.ModPrivate
	}
	var pos token.Token
	if r.Decl != nil {
		pos = r.Decl.Token
	}
	m := &MethodSignature{
		Name:      config.ConstructorName,
		Owner:     r.ID,
		Return:    typesystem.Void,
		Modifiers: mods,
		Source:    Declared,
		Via:       NoType,
		Index:     -1,
		Pos:       pos,
	}
	m.Decl = m
	return m
}

// IsConstructor reports whether m is a constructor.
func (m *MethodSignature) IsConstructor() bool { return m.Name == config.ConstructorName }

// IsAbstract reports whether m has no implementation.
func (m *MethodSignature) IsAbstract() bool { return m.Modifiers.Has(ast.ModAbstract) }

// IsStatic reports whether m is a static method.
func (m *MethodSignature) IsStatic() bool { return m.Modifiers.Has(ast.ModStatic) }

// IsDefault reports whether m is a default interface method.
func (m *MethodSignature) IsDefault() bool { return m.Modifiers.Has(ast.ModDefault) }

// IsGeneric reports whether m declares its own type parameters.
func (m *MethodSignature) IsGeneric() bool { return len(m.TypeParams) > 0 }

// Arity returns the number of formal parameters.
func (m *MethodSignature) Arity() int { return len(m.Params) }

// VarargElem returns the component type of a variable-arity parameter.
func (m *MethodSignature) VarargElem() typesystem.Type {
	if !m.Variadic || len(m.Params) == 0 {
		return nil
	}
	if arr, ok := m.Params[len(m.Params)-1].(typesystem.TArray); ok {
		return arr.Elem
	}
	return nil
}

// ErasedKey returns the erased signature "name(P1,P2)".
func (m *MethodSignature) ErasedKey() string {
	return typesystem.ErasedKey(m.Name, m.Params)
}

// Subst applies s to the parameter, return and thrown types of m. Type
// parameters of m keep their identity; their bounds are substituted.
func (m *MethodSignature) Subst(s typesystem.Subst) *MethodSignature {
	if len(s) == 0 {
		return m
	}
	v := *m
	v.Params = typesystem.ApplyAll(m.Params, s)
	v.Return = m.Return.Apply(s)
	v.Throws = typesystem.ApplyAll(m.Throws, s)
	if len(m.TypeParams) > 0 {
		v.TypeParams = make([]typesystem.TVar, len(m.TypeParams))
		for i, tp := range m.TypeParams {
			v.TypeParams[i] = typesystem.TVar{
				Name:   tp.Name,
				Owner:  tp.Owner,
				Bounds: typesystem.ApplyAll(tp.Bounds, s),
			}
		}
	}
	return &v
}

// Erased returns m seen through a raw type: every type erased and no type
// parameters.
func (m *MethodSignature) Erased() *MethodSignature {
	v := *m
	v.TypeParams = nil
	v.Params = typesystem.EraseAll(m.Params)
	v.Return = typesystem.Erase(m.Return)
	v.Throws = typesystem.EraseAll(m.Throws)
	v.Raw = true
	return &v
}

// inheritedVia returns a view of m as a member inherited through the direct
// supertype via.
func (m *MethodSignature) inheritedVia(via TypeID, s typesystem.Subst, raw bool) *MethodSignature {
	var v *MethodSignature
	if raw {
		v = m.Erased()
	} else {
		v = m.Subst(s)
		if v == m {
			cp := *m
			v = &cp
		}
	}
	v.Source = Inherited
	v.Via = via
	return v
}

// Signature renders "name(P1, P2)" with the parameter types as seen by this
// view; constructors render with the owner name.
func (m *MethodSignature) Signature(ownerName string) string {
	var sb strings.Builder
	if m.IsConstructor() {
		sb.WriteString(ownerName)
	} else {
		sb.WriteString(m.Name)
	}
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m.Variadic && i == len(m.Params)-1 {
			if arr, ok := p.(typesystem.TArray); ok {
				sb.WriteString(arr.Elem.String())
				sb.WriteString("...")
				continue
			}
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// FieldSymbol is a field as seen from some type.
type FieldSymbol struct {
	Name      string
	Owner     TypeID
	Type      typesystem.Type
	Modifiers ast.Modifiers
	Index     int
	Decl      *ast.FieldDecl
}

// IsStatic reports whether the field is static.
func (f *FieldSymbol) IsStatic() bool { return f.Modifiers.Has(ast.ModStatic) }

func (f *FieldSymbol) subst(s typesystem.Subst, raw bool) *FieldSymbol {
	v := *f
	if raw {
		v.Type = typesystem.Erase(f.Type)
	} else {
		v.Type = f.Type.Apply(s)
	}
	return &v
}
