package symbols

import (
	"github.com/funvibe/jresolve/internal/typesystem"
)

// renaming maps m2's type parameters onto m1's so that the two signatures
// can be compared position by position.
func renaming(m1, m2 *MethodSignature) typesystem.Subst {
	s := typesystem.Subst{}
	for i, tp := range m2.TypeParams {
		if i < len(m1.TypeParams) {
			s[tp.Key()] = m1.TypeParams[i]
		}
	}
	return s
}

// SameSignature reports whether m1 and m2 have the same name, the same type
// parameters (up to renaming, with equal bounds) and the same parameter types.
func SameSignature(m1, m2 *MethodSignature) bool {
	if m1.Name != m2.Name || len(m1.Params) != len(m2.Params) || len(m1.TypeParams) != len(m2.TypeParams) {
		return false
	}
	s := renaming(m1, m2)
	for i, tp := range m1.TypeParams {
		if !boundsEqual(tp.Bounds, typesystem.ApplyAll(m2.TypeParams[i].Bounds, s)) {
			return false
		}
	}
	return typesystem.EqualAll(m1.Params, typesystem.ApplyAll(m2.Params, s))
}

func boundsEqual(a, b []typesystem.Type) bool {
	a, b = withoutObjectBound(a), withoutObjectBound(b)
	return typesystem.EqualAll(a, b)
}

func withoutObjectBound(ts []typesystem.Type) []typesystem.Type {
	if len(ts) == 1 && typesystem.Equal(ts[0], objectType) {
		return nil
	}
	return ts
}

// IsSubsignature reports whether m1 is a subsignature of m2: either the two
// have the same signature, or m1 is not generic and its parameter types are
// the erasures of m2's.
func IsSubsignature(m1, m2 *MethodSignature) bool {
	if m1.Name != m2.Name || len(m1.Params) != len(m2.Params) {
		return false
	}
	if SameSignature(m1, m2) {
		return true
	}
	return len(m1.TypeParams) == 0 && typesystem.EqualAll(m1.Params, typesystem.EraseAll(m2.Params))
}

// OverrideEquivalent reports whether either method is a subsignature of the
// other.
func OverrideEquivalent(m1, m2 *MethodSignature) bool {
	return IsSubsignature(m1, m2) || IsSubsignature(m2, m1)
}

// ReturnSubstitutable reports whether a method with signature d may
// override (or be chosen over) one with signature m as far as return types
// go.
func (c *Catalog) ReturnSubstitutable(d, m *MethodSignature) bool {
	r1 := d.Return
	r2 := m.Return.Apply(renaming(d, m))
	if typesystem.IsVoid(r1) || typesystem.IsVoid(r2) {
		return typesystem.IsVoid(r1) && typesystem.IsVoid(r2)
	}
	if typesystem.IsPrimitive(r1) || typesystem.IsPrimitive(r2) {
		return typesystem.Equal(r1, r2)
	}
	if c.IsSubtype(r1, r2) {
		return true
	}
	// Unchecked: a raw return overriding a parameterized one, or a
	// non-generic method returning the erasure of a generic one's type.
	if c.IsUncheckedSubtype(r1, r2) {
		return true
	}
	return len(d.TypeParams) == 0 && len(m.TypeParams) > 0 && typesystem.Equal(r1, typesystem.Erase(r2))
}

// Overrides reports whether m1, declared in the type sub, overrides m2
// declared in one of sub's supertypes. m2 must be seen from sub.
func (c *Catalog) Overrides(m1, m2 *MethodSignature) bool {
	if m1.IsStatic() || m2.IsStatic() || m1.IsConstructor() || m2.IsConstructor() {
		return false
	}
	if m1.Owner == m2.Owner {
		return false
	}
	return IsSubsignature(m1, m2)
}
