package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

const publicModifier = ast.ModPublic

// accessible reports whether a member of owner with the given modifiers may
// be used from the type being checked. Without an enclosing type nothing is
// restricted.
func (c *checker) accessible(owner symbols.TypeID, mods ast.Modifiers) bool {
	return memberAccessible(c.cat, c.self, owner, mods)
}

func memberAccessible(cat *symbols.Catalog, from *symbols.TypeRecord, owner symbols.TypeID, mods ast.Modifiers) bool {
	if from == nil || mods.Has(ast.ModPublic) {
		return true
	}
	or := cat.Record(owner)
	if or == nil {
		return true
	}
	switch {
	case mods.Has(ast.ModPrivate):
		return cat.Outermost(from) == cat.Outermost(or)
	case mods.Has(ast.ModProtected):
		if from.Package == or.Package {
			return true
		}
		for r := from; r != nil; {
			if _, ok := cat.SupertypeView(typesystem.TCon{Name: r.Name}, or.Name); ok {
				return true
			}
			if r.Outer == "" {
				break
			}
			r, _ = cat.Resolve(r.Outer)
		}
		return false
	default:
		return from.Package == or.Package
	}
}

// typeAccessible reports whether the type r may be named from the type
// being checked.
func (c *checker) typeAccessible(r *symbols.TypeRecord) bool {
	if r.Outer == "" && !r.Modifiers.Has(ast.ModPrivate) && !r.Modifiers.Has(ast.ModProtected) {
		return r.Modifiers.Has(ast.ModPublic) || c.self == nil || c.self.Package == r.Package
	}
	return memberAccessible(c.cat, c.self, r.ID, r.Modifiers)
}
