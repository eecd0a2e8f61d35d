package typesystem

import "fmt"

// CaptureOwner is the owner of every capture variable.
const CaptureOwner = "capture"

// Capturer hands out capture variables. Numbering restarts with every
// Capturer so that the same input always yields the same names.
type Capturer struct {
	next int
}

// Capture applies capture conversion to a parameterized type. params are the
// generic class's declared type parameters; their bounds may mention each
// other. Types without wildcard arguments are returned unchanged.
func (c *Capturer) Capture(t TApp, params []TVar) TApp {
	hasWildcard := false
	for _, arg := range t.Args {
		if _, ok := arg.(TWildcard); ok {
			hasWildcard = true
			break
		}
	}
	if !hasWildcard || len(params) != len(t.Args) {
		return t
	}

	args := make([]Type, len(t.Args))
	captures := make([]int, 0, len(t.Args))
	for i, arg := range t.Args {
		w, ok := arg.(TWildcard)
		if !ok {
			args[i] = arg
			continue
		}
		c.next++
		args[i] = TVar{Name: fmt.Sprintf("capture#%d-of %s", c.next, w), Owner: CaptureOwner}
		captures = append(captures, i)
	}

	// Declared bounds are expressed in terms of the class parameters, which
	// now stand for the captured arguments.
	subst := NewSubst(params, args)
	for _, i := range captures {
		w := t.Args[i].(TWildcard)
		cv := args[i].(TVar)
		declared := ApplyAll(params[i].Bounds, subst)
		switch w.Kind {
		case Extends:
			cv.Bounds = append([]Type{w.Bound}, withoutObject(declared)...)
		case Super:
			cv.Bounds = declared
			cv.Lower = w.Bound
		default:
			cv.Bounds = declared
		}
		args[i] = cv
	}
	return TApp{Constructor: t.Constructor, Args: args}
}

func withoutObject(ts []Type) []Type {
	var out []Type
	for _, t := range ts {
		if c, ok := t.(TCon); ok && c.Name == ObjectType.Name {
			continue
		}
		out = append(out, t)
	}
	return out
}

// HasWildcard reports whether t is a parameterized type with a wildcard
// argument at top level.
func HasWildcard(t Type) bool {
	app, ok := t.(TApp)
	if !ok {
		return false
	}
	for _, arg := range app.Args {
		if _, ok := arg.(TWildcard); ok {
			return true
		}
	}
	return false
}
