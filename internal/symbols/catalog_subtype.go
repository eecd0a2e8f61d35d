package symbols

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/typesystem"
)

var (
	objectType       = typesystem.TCon{Name: config.ObjectTypeName}
	cloneableType    = typesystem.TCon{Name: config.CloneableTypeName}
	serializableType = typesystem.TCon{Name: config.SerializableTypeName}
)

// DirectSupertypes returns the direct supertypes of a class, interface,
// type variable or intersection type, with the type's arguments substituted.
// A raw type has erased supertypes.
func (c *Catalog) DirectSupertypes(t typesystem.Type) []typesystem.Type {
	switch typ := t.(type) {
	case typesystem.TCon, typesystem.TApp:
		r, ok := c.RecordOf(t)
		if !ok || r.Name == config.ObjectTypeName {
			return nil
		}
		var supers []typesystem.Type
		if r.Super != nil {
			supers = append(supers, r.Super)
		}
		supers = append(supers, r.Interfaces...)
		if r.Super == nil && (!r.IsInterface() || len(r.Interfaces) == 0) {
			supers = append(supers, objectType)
		}
		if app, ok := t.(typesystem.TApp); ok {
			return typesystem.ApplyAll(supers, typesystem.NewSubst(r.TypeParams, app.Args))
		}
		if r.IsGeneric() {
			return typesystem.EraseAll(supers)
		}
		return supers
	case typesystem.TVar:
		if len(typ.Bounds) == 0 {
			return []typesystem.Type{objectType}
		}
		return typ.Bounds
	case typesystem.TIntersection:
		return typ.Types
	case typesystem.TArray:
		return []typesystem.Type{objectType, cloneableType, serializableType}
	}
	return nil
}

// SupertypeView returns the parameterization of the class or interface
// named name that t inherits from, searching t's supertypes breadth first.
func (c *Catalog) SupertypeView(t typesystem.Type, name string) (typesystem.Type, bool) {
	queue := []typesystem.Type{t}
	seen := stringset.New()
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		switch typ := cur.(type) {
		case typesystem.TCon:
			if typ.Name == name {
				return typ, true
			}
		case typesystem.TApp:
			if typ.Constructor.Name == name {
				return typ, true
			}
		}
		key := cur.String()
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		queue = append(queue, c.DirectSupertypes(cur)...)
	}
	return nil, false
}

// Supertypes returns t followed by every proper supertype, each class or
// interface once, in breadth-first order.
func (c *Catalog) Supertypes(t typesystem.Type) []typesystem.Type {
	var out []typesystem.Type
	queue := []typesystem.Type{t}
	seen := stringset.New()
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		name := classNameOf(cur)
		if name == "" {
			name = cur.String()
		}
		if seen.Contains(name) {
			continue
		}
		seen.Add(name)
		out = append(out, cur)
		queue = append(queue, c.DirectSupertypes(cur)...)
	}
	return out
}

func classNameOf(t typesystem.Type) string {
	switch typ := t.(type) {
	case typesystem.TCon:
		return typ.Name
	case typesystem.TApp:
		return typ.Constructor.Name
	}
	return ""
}

// IsSubtype reports whether s <: t. The null type is a subtype of every
// reference type, and the poison type is compatible with everything.
func (c *Catalog) IsSubtype(s, t typesystem.Type) bool {
	return c.isSubtype(s, t, 0)
}

const maxSubtypeDepth = 64

func (c *Catalog) isSubtype(s, t typesystem.Type, depth int) bool {
	if s == nil || t == nil {
		return false
	}
	if depth > maxSubtypeDepth {
		return false
	}
	if typesystem.IsError(s) || typesystem.IsError(t) {
		return true
	}
	if typesystem.Equal(s, t) {
		return true
	}
	if _, ok := s.(typesystem.TNull); ok {
		return typesystem.IsReference(t)
	}

	sp, sPrim := s.(typesystem.Primitive)
	tp, tPrim := t.(typesystem.Primitive)
	if sPrim || tPrim {
		return sPrim && tPrim && !typesystem.IsVoid(s) && !typesystem.IsVoid(t) && typesystem.PrimitiveWidens(sp, tp)
	}

	switch target := t.(type) {
	case typesystem.TIntersection:
		for _, it := range target.Types {
			if !c.isSubtype(s, it, depth+1) {
				return false
			}
		}
		return true
	case typesystem.TVar:
		if target.Lower != nil && c.isSubtype(s, target.Lower, depth+1) {
			return true
		}
		// Only a type variable (or intersection) can reach another one
		// through its bounds.
		switch sv := s.(type) {
		case typesystem.TVar:
			for _, b := range sv.Bounds {
				if c.isSubtype(b, t, depth+1) {
					return true
				}
			}
		case typesystem.TIntersection:
			for _, it := range sv.Types {
				if c.isSubtype(it, t, depth+1) {
					return true
				}
			}
		}
		return false
	case typesystem.TWildcard:
		return false
	}

	switch sv := s.(type) {
	case typesystem.TVar:
		if len(sv.Bounds) == 0 {
			return c.isSubtype(objectType, t, depth+1)
		}
		for _, b := range sv.Bounds {
			if c.isSubtype(b, t, depth+1) {
				return true
			}
		}
		return false
	case typesystem.TIntersection:
		for _, it := range sv.Types {
			if c.isSubtype(it, t, depth+1) {
				return true
			}
		}
		return false
	case typesystem.TArray:
		if ta, ok := t.(typesystem.TArray); ok {
			if typesystem.IsPrimitive(sv.Elem) || typesystem.IsPrimitive(ta.Elem) {
				return typesystem.Equal(sv.Elem, ta.Elem)
			}
			return c.isSubtype(sv.Elem, ta.Elem, depth+1)
		}
		name := classNameOf(t)
		return name == config.ObjectTypeName || name == config.CloneableTypeName || name == config.SerializableTypeName
	case typesystem.TCon, typesystem.TApp:
		name := classNameOf(t)
		if name == "" {
			return false
		}
		view, ok := c.SupertypeView(s, name)
		if !ok {
			return false
		}
		tApp, ok := t.(typesystem.TApp)
		if !ok {
			return true
		}
		vApp, ok := view.(typesystem.TApp)
		if !ok {
			// Raw to parameterized needs unchecked conversion.
			return false
		}
		if len(vApp.Args) != len(tApp.Args) {
			return false
		}
		for i := range tApp.Args {
			if !c.contains(tApp.Args[i], vApp.Args[i], depth+1) {
				return false
			}
		}
		return true
	}
	return false
}

// Contains reports whether type argument outer contains inner.
func (c *Catalog) Contains(outer, inner typesystem.Type) bool {
	return c.contains(outer, inner, 0)
}

func (c *Catalog) contains(outer, inner typesystem.Type, depth int) bool {
	w, ok := outer.(typesystem.TWildcard)
	if !ok {
		return typesystem.Equal(outer, inner)
	}
	iw, innerIsWildcard := inner.(typesystem.TWildcard)
	switch w.Kind {
	case typesystem.Unbounded:
		return true
	case typesystem.Extends:
		if innerIsWildcard {
			switch iw.Kind {
			case typesystem.Extends:
				return c.isSubtype(iw.Bound, w.Bound, depth+1)
			default:
				return typesystem.Equal(w.Bound, objectType)
			}
		}
		return c.isSubtype(inner, w.Bound, depth+1)
	case typesystem.Super:
		if innerIsWildcard {
			if iw.Kind == typesystem.Super {
				return c.isSubtype(w.Bound, iw.Bound, depth+1)
			}
			return false
		}
		return c.isSubtype(w.Bound, inner, depth+1)
	}
	return false
}

// IsUncheckedSubtype reports whether s converts to t by widening to a raw
// supertype followed by unchecked conversion: s's supertype view of t's class
// is raw while t is parameterized.
func (c *Catalog) IsUncheckedSubtype(s, t typesystem.Type) bool {
	tApp, ok := t.(typesystem.TApp)
	if !ok {
		return false
	}
	switch s.(type) {
	case typesystem.TCon, typesystem.TApp, typesystem.TVar, typesystem.TIntersection:
	default:
		return false
	}
	view, ok := c.SupertypeView(s, tApp.Constructor.Name)
	if !ok {
		return false
	}
	_, raw := view.(typesystem.TCon)
	return raw
}

// IsChecked reports whether t is a checked exception type.
func (c *Catalog) IsChecked(t typesystem.Type) bool {
	if typesystem.IsError(t) {
		return false
	}
	if c.IsSubtype(t, typesystem.TCon{Name: config.RuntimeExceptionTypeName}) ||
		c.IsSubtype(t, typesystem.TCon{Name: config.ErrorTypeName}) {
		return false
	}
	return c.IsSubtype(t, typesystem.TCon{Name: config.ThrowableTypeName})
}

// LeastUpperBound approximates lub(ts): the most specific common supertype.
// When several unrelated candidates remain the result is their intersection.
func (c *Catalog) LeastUpperBound(ts []typesystem.Type) typesystem.Type {
	var refs []typesystem.Type
	for _, t := range ts {
		if _, ok := t.(typesystem.TNull); ok {
			continue
		}
		refs = append(refs, typesystem.BoxIfPrimitive(t))
	}
	switch len(refs) {
	case 0:
		return typesystem.TNull{}
	case 1:
		return refs[0]
	}
	for _, cand := range refs {
		all := true
		for _, t := range refs {
			if !c.IsSubtype(t, cand) {
				all = false
				break
			}
		}
		if all {
			return cand
		}
	}

	// Erased candidates: classes every type inherits from.
	common := c.Supertypes(refs[0])
	for _, t := range refs[1:] {
		var kept []typesystem.Type
		for _, st := range common {
			name := classNameOf(st)
			if name == "" {
				continue
			}
			if _, ok := c.SupertypeView(t, name); ok {
				kept = append(kept, st)
			}
		}
		common = kept
	}

	// Minimal candidates only.
	var minimal []typesystem.Type
	for _, cand := range common {
		dominated := false
		for _, other := range common {
			if classNameOf(other) == classNameOf(cand) {
				continue
			}
			if _, ok := c.SupertypeView(other, classNameOf(cand)); ok {
				dominated = true
				break
			}
		}
		if !dominated {
			minimal = append(minimal, c.lubParameterization(cand, refs))
		}
	}
	switch len(minimal) {
	case 0:
		return objectType
	case 1:
		return minimal[0]
	}
	return typesystem.TIntersection{Types: minimal}
}

// lubParameterization picks the arguments of a common generic supertype:
// the shared view when all types agree, a wildcard otherwise.
func (c *Catalog) lubParameterization(cand typesystem.Type, refs []typesystem.Type) typesystem.Type {
	name := classNameOf(cand)
	var first typesystem.Type
	for i, t := range refs {
		view, _ := c.SupertypeView(t, name)
		if i == 0 {
			first = view
			continue
		}
		if !typesystem.Equal(first, view) {
			if app, ok := first.(typesystem.TApp); ok {
				args := make([]typesystem.Type, len(app.Args))
				for j := range args {
					args[j] = typesystem.TWildcard{Kind: typesystem.Unbounded}
				}
				return typesystem.TApp{Constructor: app.Constructor, Args: args}
			}
			return typesystem.TCon{Name: name}
		}
	}
	return first
}
