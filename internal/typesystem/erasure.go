package typesystem

import (
	"strings"

	"github.com/funvibe/jresolve/internal/config"
)

// ObjectType is the erasure of an unbounded type variable.
var ObjectType = TCon{Name: config.ObjectTypeName}

// Erase returns the erasure of t: type arguments are dropped, a type
// variable becomes the erasure of its leftmost bound (Object when it has
// none) and array element types are erased. Erase is pure and idempotent.
func Erase(t Type) Type {
	return erase(t, make(map[string]bool))
}

func erase(t Type, visited map[string]bool) Type {
	switch typ := t.(type) {
	case TApp:
		return typ.Constructor
	case TArray:
		return TArray{Elem: erase(typ.Elem, visited)}
	case TVar:
		if len(typ.Bounds) == 0 || visited[typ.Key()] {
			return ObjectType
		}
		visited[typ.Key()] = true
		return erase(typ.Bounds[0], visited)
	case TWildcard:
		if typ.Kind == Extends && typ.Bound != nil {
			return erase(typ.Bound, visited)
		}
		return ObjectType
	case TIntersection:
		if len(typ.Types) == 0 {
			return ObjectType
		}
		return erase(typ.Types[0], visited)
	default:
		return t
	}
}

// EraseAll erases every type of ts.
func EraseAll(ts []Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Erase(t)
	}
	return out
}

// ErasedKey renders the erased signature of a method, e.g. "foo(List,Object)".
// Two methods share an erased signature iff their keys are equal.
func ErasedKey(name string, params []Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Erase(p).String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// IsRaw reports whether t is a bare class reference. Whether the class is
// generic is only known to the catalog.
func IsRaw(t Type) bool {
	_, ok := t.(TCon)
	return ok
}
