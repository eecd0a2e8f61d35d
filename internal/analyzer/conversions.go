package analyzer

import (
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// compatibleTypes reports whether a value of type s converts to t in an
// invocation context: strict allows widening and unchecked conversion,
// loose also allows boxing and unboxing. unchecked is set when the
// conversion went through a raw type.
func compatibleTypes(cat *symbols.Catalog, s, t typesystem.Type, loose bool) (ok, unchecked bool) {
	if s == nil || t == nil {
		return false, false
	}
	if typesystem.IsError(s) || typesystem.IsError(t) || typesystem.Equal(s, t) {
		return true, false
	}
	if typesystem.IsVoid(s) || typesystem.IsVoid(t) {
		return false, false
	}
	if _, null := s.(typesystem.TNull); null {
		return typesystem.IsReference(t), false
	}
	sp, sPrim := s.(typesystem.Primitive)
	tp, tPrim := t.(typesystem.Primitive)
	switch {
	case sPrim && tPrim:
		return typesystem.PrimitiveWidens(sp, tp), false
	case sPrim:
		if !loose {
			return false, false
		}
		boxed, _ := typesystem.Box(sp)
		return cat.IsSubtype(boxed, t), false
	case tPrim:
		if !loose {
			return false, false
		}
		unboxed, ok := unboxed(cat, s)
		return ok && typesystem.PrimitiveWidens(unboxed, tp), false
	}
	if cat.IsSubtype(s, t) {
		return true, false
	}
	if cat.IsUncheckedSubtype(s, t) {
		return true, true
	}
	return false, false
}

// unboxed returns the primitive a reference type unboxes to. Type
// variables unbox through their bounds.
func unboxed(cat *symbols.Catalog, t typesystem.Type) (typesystem.Primitive, bool) {
	if p, ok := typesystem.Unbox(t); ok {
		return p, true
	}
	if tv, ok := t.(typesystem.TVar); ok {
		for _, b := range tv.Bounds {
			if p, ok := unboxed(cat, b); ok {
				return p, true
			}
		}
	}
	return typesystem.Primitive{}, false
}

// assignable reports whether an expression of type s may be assigned to t.
// constant is set for int literals, which narrow to byte, short and char.
func assignable(cat *symbols.Catalog, s, t typesystem.Type, constant bool) (ok, unchecked bool) {
	if ok, unchecked := compatibleTypes(cat, s, t, true); ok {
		return true, unchecked
	}
	if constant && typesystem.Equal(s, typesystem.Int) {
		target := t
		if p, ok := typesystem.Unbox(t); ok {
			target = p
		}
		switch target {
		case typesystem.Byte, typesystem.Short, typesystem.Char:
			return true, false
		}
	}
	return false, false
}

// castable is a permissive cast legality check: primitives convert among
// numeric types, references convert when either side is a subtype of the
// other or one of them is an interface or type variable.
func castable(cat *symbols.Catalog, s, t typesystem.Type) bool {
	if ok, _ := compatibleTypes(cat, s, t, true); ok {
		return true
	}
	sp, sPrim := s.(typesystem.Primitive)
	tp, tPrim := t.(typesystem.Primitive)
	if sPrim && tPrim {
		return isNumeric(sp) && isNumeric(tp)
	}
	if sPrim || tPrim {
		return false
	}
	if cat.IsSubtype(t, s) || cat.IsSubtype(typesystem.Erase(t), typesystem.Erase(s)) {
		return true
	}
	for _, x := range []typesystem.Type{s, t} {
		switch x.(type) {
		case typesystem.TVar, typesystem.TIntersection:
			return true
		}
		if r, ok := cat.RecordOf(x); ok && r.IsInterface() {
			return true
		}
	}
	return false
}

func isNumeric(p typesystem.Primitive) bool {
	return p != typesystem.Boolean && p != typesystem.Void
}

// numericType unboxes t when it denotes a number.
func numericType(cat *symbols.Catalog, t typesystem.Type) (typesystem.Primitive, bool) {
	if p, ok := t.(typesystem.Primitive); ok {
		return p, isNumeric(p)
	}
	if p, ok := unboxed(cat, t); ok {
		return p, isNumeric(p)
	}
	return typesystem.Primitive{}, false
}

// binaryPromotion returns the type of an arithmetic operation on a and b.
func binaryPromotion(a, b typesystem.Primitive) typesystem.Primitive {
	for _, p := range []typesystem.Primitive{typesystem.Double, typesystem.Float, typesystem.Long} {
		if a == p || b == p {
			return p
		}
	}
	return typesystem.Int
}

func isStringType(t typesystem.Type) bool {
	c, ok := t.(typesystem.TCon)
	return ok && c.Name == config.StringTypeName
}

func isBooleanType(t typesystem.Type) bool {
	if typesystem.Equal(t, typesystem.Boolean) {
		return true
	}
	p, ok := typesystem.Unbox(t)
	return ok && p == typesystem.Boolean
}
