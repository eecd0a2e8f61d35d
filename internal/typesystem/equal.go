package typesystem

// Equal reports whether a and b denote the same type.
// Type variables are equal when they have the same owner and name.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Name == y.Name
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name
	case TApp:
		y, ok := b.(TApp)
		return ok && x.Constructor.Name == y.Constructor.Name && EqualAll(x.Args, y.Args)
	case TArray:
		y, ok := b.(TArray)
		return ok && Equal(x.Elem, y.Elem)
	case TVar:
		y, ok := b.(TVar)
		return ok && x.Key() == y.Key()
	case TWildcard:
		y, ok := b.(TWildcard)
		if !ok || x.Kind != y.Kind {
			return false
		}
		if x.Kind == Unbounded {
			return true
		}
		return Equal(x.Bound, y.Bound)
	case TIntersection:
		y, ok := b.(TIntersection)
		return ok && EqualAll(x.Types, y.Types)
	case TNull:
		_, ok := b.(TNull)
		return ok
	case TError:
		_, ok := b.(TError)
		return ok
	}
	return false
}

// EqualAll compares two type lists element-wise.
func EqualAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IndexOf returns the position of t in ts, or -1.
func IndexOf(ts []Type, t Type) int {
	for i, x := range ts {
		if Equal(x, t) {
			return i
		}
	}
	return -1
}
