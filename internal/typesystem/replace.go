package typesystem

// ReplaceTCon replaces all occurrences of TCon with the given name with the replacement type.
// The fixture reader uses it to turn names that turn out to be type
// variables into TVar references once the declaring scope is known.
// Type variables already present are left alone.
func ReplaceTCon(t Type, name string, replacement Type) Type {
	if t == nil {
		return nil
	}
	switch typ := t.(type) {
	case TCon:
		if typ.Name == name {
			return replacement
		}
		return typ
	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ReplaceTCon(arg, name, replacement)
		}
		return TApp{Constructor: typ.Constructor, Args: newArgs}
	case TArray:
		return TArray{Elem: ReplaceTCon(typ.Elem, name, replacement)}
	case TWildcard:
		if typ.Bound == nil {
			return typ
		}
		return TWildcard{Kind: typ.Kind, Bound: ReplaceTCon(typ.Bound, name, replacement)}
	case TIntersection:
		newTypes := make([]Type, len(typ.Types))
		for i, it := range typ.Types {
			newTypes[i] = ReplaceTCon(it, name, replacement)
		}
		return TIntersection{Types: newTypes}
	default:
		return t
	}
}

// Mentions reports whether any type variable with one of the given keys
// occurs in t.
func Mentions(t Type, keys map[string]bool) bool {
	for _, v := range t.FreeTypeVariables() {
		if keys[v.Key()] {
			return true
		}
	}
	return false
}

// KeySet returns the keys of vars.
func KeySet(vars []TVar) map[string]bool {
	keys := make(map[string]bool, len(vars))
	for _, v := range vars {
		keys[v.Key()] = true
	}
	return keys
}
