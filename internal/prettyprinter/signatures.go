package prettyprinter

import (
	"strings"

	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// --- Signature Printer (types and methods the way diagnostics name them) ---

// Type renders t for a diagnostic. The null type prints as "null", a
// missing type as "void".
func Type(t typesystem.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

// Types renders a comma separated type list.
func Types(ts []typesystem.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = Type(t)
	}
	return strings.Join(parts, ", ")
}

// ownerName returns the simple name of m's declaring type.
func ownerName(c *symbols.Catalog, m *symbols.MethodSignature) string {
	if r := c.Record(m.Owner); r != nil {
		return r.Name
	}
	return "?"
}

// Method renders "foo(int, String)" with the parameter types of the view m;
// constructors render with their class name.
func Method(c *symbols.Catalog, m *symbols.MethodSignature) string {
	return m.Signature(ownerName(c, m))
}

// Qualified renders "A.foo(int)".
func Qualified(c *symbols.Catalog, m *symbols.MethodSignature) string {
	owner := ownerName(c, m)
	if m.IsConstructor() {
		return m.Signature(owner)
	}
	return owner + "." + m.Signature(owner)
}

// Declared renders the declaration m was derived from together with its
// declaring type, "m(E1) of type I1<E1>".
func Declared(c *symbols.Catalog, m *symbols.MethodSignature) string {
	decl := m.Decl
	if decl == nil {
		decl = m
	}
	return decl.Signature(ownerName(c, m)) + " of type " + c.DisplayName(m.Owner)
}

// Generic renders a method with its type parameters, "<T>foo(T)".
func Generic(c *symbols.Catalog, m *symbols.MethodSignature) string {
	if len(m.TypeParams) == 0 {
		return Method(c, m)
	}
	return TypeParams(m.TypeParams) + Method(c, m)
}

// TypeParams renders "<T extends Number, U>".
func TypeParams(tps []typesystem.TVar) string {
	var sb strings.Builder
	sb.WriteByte('<')
	for i, tp := range tps {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tp.Name)
		bounds := tp.Bounds
		if len(bounds) == 1 && typesystem.Equal(bounds[0], typesystem.ObjectType) {
			bounds = nil
		}
		for j, b := range bounds {
			if j == 0 {
				sb.WriteString(" extends ")
			} else {
				sb.WriteString(" & ")
			}
			sb.WriteString(b.String())
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

// Arguments renders an argument list "(int, String)".
func Arguments(args []string) string {
	return "(" + strings.Join(args, ", ") + ")"
}
