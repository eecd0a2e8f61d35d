package analyzer

import (
	"fmt"

	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// --- Inference of method type arguments ---
//
// Inference variables are fresh copies of a generic method's type
// parameters. Argument/formal constraints are reduced to bounds on those
// variables (equal, lower, upper) which are then resolved: an equality bound
// wins, then the least upper bound of the lower bounds, then the greatest
// lower bound of the upper and declared bounds.

const inferOwnerPrefix = "infer#"

type varBounds struct {
	v     typesystem.TVar
	eq    []typesystem.Type
	lower []typesystem.Type
	upper []typesystem.Type
}

type boundSet struct {
	vars  map[string]*varBounds
	order []string
}

func newBoundSet() *boundSet {
	return &boundSet{vars: make(map[string]*varBounds)}
}

func (b *boundSet) add(v typesystem.TVar) {
	if _, ok := b.vars[v.Key()]; ok {
		return
	}
	b.vars[v.Key()] = &varBounds{v: v}
	b.order = append(b.order, v.Key())
}

func (b *boundSet) clone() *boundSet {
	out := newBoundSet()
	out.merge(b)
	return out
}

// merge copies the variables and bounds of o into b.
func (b *boundSet) merge(o *boundSet) {
	if o == nil {
		return
	}
	for _, key := range o.order {
		src := o.vars[key]
		b.add(src.v)
		dst := b.vars[key]
		dst.eq = append(dst.eq, src.eq...)
		dst.lower = append(dst.lower, src.lower...)
		dst.upper = append(dst.upper, src.upper...)
	}
}

func (b *boundSet) keys() map[string]bool {
	keys := make(map[string]bool, len(b.order))
	for _, k := range b.order {
		keys[k] = true
	}
	return keys
}

// freshen returns fresh inference variables standing for params and the
// renaming from params to them. Bounds are carried over, renamed.
func freshen(params []typesystem.TVar, counter *int) ([]typesystem.TVar, typesystem.Subst) {
	rename := typesystem.Subst{}
	plain := make([]typesystem.TVar, len(params))
	for i, tp := range params {
		*counter++
		plain[i] = typesystem.TVar{Name: tp.Name, Owner: fmt.Sprintf("%s%d", inferOwnerPrefix, *counter)}
		rename[tp.Key()] = plain[i]
	}
	fresh := make([]typesystem.TVar, len(params))
	for i, tp := range params {
		fresh[i] = plain[i]
		fresh[i].Bounds = typesystem.ApplyAll(tp.Bounds, rename)
		rename[tp.Key()] = fresh[i]
	}
	return fresh, rename
}

// inference reduces constraints over one bound set.
type inference struct {
	cat       *symbols.Catalog
	b         *boundSet
	loose     bool
	unchecked bool
	capt      typesystem.Capturer
}

func newInference(cat *symbols.Catalog, b *boundSet, loose bool) *inference {
	return &inference{cat: cat, b: b, loose: loose}
}

func (in *inference) variable(t typesystem.Type) (*varBounds, bool) {
	tv, ok := t.(typesystem.TVar)
	if !ok {
		return nil, false
	}
	vb, ok := in.b.vars[tv.Key()]
	return vb, ok
}

func (in *inference) mentions(t typesystem.Type) bool {
	return t != nil && typesystem.Mentions(t, in.b.keys())
}

// compatible reduces "s is compatible with t in an invocation context".
func (in *inference) compatible(s, t typesystem.Type) bool {
	if typesystem.IsError(s) || typesystem.IsError(t) {
		return true
	}
	if !in.mentions(s) && !in.mentions(t) {
		ok, unchecked := compatibleTypes(in.cat, s, t, in.loose)
		if unchecked {
			in.unchecked = true
		}
		return ok
	}
	if typesystem.IsPrimitive(s) {
		if !in.loose {
			return false
		}
		s = typesystem.BoxIfPrimitive(s)
	}
	if typesystem.IsPrimitive(t) {
		if vb, ok := in.variable(s); ok {
			boxed := typesystem.BoxIfPrimitive(t)
			vb.upper = append(vb.upper, boxed)
			return in.loose
		}
		return false
	}
	return in.subtype(s, t)
}

// subtype reduces s <: t.
func (in *inference) subtype(s, t typesystem.Type) bool {
	if typesystem.IsError(s) || typesystem.IsError(t) {
		return true
	}
	if _, ok := s.(typesystem.TNull); ok {
		return typesystem.IsReference(t) || in.mentions(t)
	}
	sv, sIsVar := in.variable(s)
	tv, tIsVar := in.variable(t)
	switch {
	case sIsVar && tIsVar:
		if sv == tv {
			return true
		}
		sv.upper = append(sv.upper, t)
		tv.lower = append(tv.lower, s)
		return true
	case tIsVar:
		tv.lower = append(tv.lower, s)
		return true
	case sIsVar:
		sv.upper = append(sv.upper, t)
		return true
	}
	if !in.mentions(s) && !in.mentions(t) {
		if in.cat.IsSubtype(s, t) {
			return true
		}
		if in.cat.IsUncheckedSubtype(s, t) {
			in.unchecked = true
			return true
		}
		return false
	}

	switch target := t.(type) {
	case typesystem.TArray:
		sa, ok := s.(typesystem.TArray)
		if !ok {
			return false
		}
		if typesystem.IsPrimitive(sa.Elem) || typesystem.IsPrimitive(target.Elem) {
			return typesystem.Equal(sa.Elem, target.Elem)
		}
		return in.subtype(sa.Elem, target.Elem)
	case typesystem.TIntersection:
		for _, it := range target.Types {
			if !in.subtype(s, it) {
				return false
			}
		}
		return true
	case typesystem.TApp:
		if app, ok := s.(typesystem.TApp); ok && typesystem.HasWildcard(app) {
			if r, ok := in.cat.RecordOf(app); ok {
				s = in.capt.Capture(app, r.TypeParams)
			}
		}
		view, ok := in.cat.SupertypeView(s, target.Constructor.Name)
		if !ok {
			return false
		}
		va, ok := view.(typesystem.TApp)
		if !ok {
			in.unchecked = true
			return true
		}
		if len(va.Args) != len(target.Args) {
			return false
		}
		for i := range target.Args {
			if !in.contains(target.Args[i], va.Args[i]) {
				return false
			}
		}
		return true
	case typesystem.TVar:
		// A non-inference variable: only its lower bound admits anything.
		if target.Lower != nil {
			return in.subtype(s, target.Lower)
		}
		return false
	}
	return false
}

// contains reduces "type argument outer contains inner".
func (in *inference) contains(outer, inner typesystem.Type) bool {
	w, ok := outer.(typesystem.TWildcard)
	if !ok {
		if _, innerWild := inner.(typesystem.TWildcard); innerWild {
			return false
		}
		return in.equal(inner, outer)
	}
	iw, innerWild := inner.(typesystem.TWildcard)
	switch w.Kind {
	case typesystem.Extends:
		if innerWild {
			if iw.Kind == typesystem.Extends {
				return in.subtype(iw.Bound, w.Bound)
			}
			return in.subtype(typesystem.ObjectType, w.Bound)
		}
		return in.subtype(inner, w.Bound)
	case typesystem.Super:
		if innerWild {
			if iw.Kind == typesystem.Super {
				return in.subtype(w.Bound, iw.Bound)
			}
			return false
		}
		return in.subtype(w.Bound, inner)
	}
	return true
}

// equal reduces s = t.
func (in *inference) equal(s, t typesystem.Type) bool {
	if typesystem.IsError(s) || typesystem.IsError(t) {
		return true
	}
	sv, sIsVar := in.variable(s)
	tv, tIsVar := in.variable(t)
	switch {
	case sIsVar && tIsVar:
		if sv != tv {
			sv.eq = append(sv.eq, t)
			tv.eq = append(tv.eq, s)
		}
		return true
	case sIsVar:
		sv.eq = append(sv.eq, t)
		return true
	case tIsVar:
		tv.eq = append(tv.eq, s)
		return true
	}
	switch x := s.(type) {
	case typesystem.TApp:
		y, ok := t.(typesystem.TApp)
		if !ok || x.Constructor.Name != y.Constructor.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !in.equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case typesystem.TArray:
		y, ok := t.(typesystem.TArray)
		return ok && in.equal(x.Elem, y.Elem)
	case typesystem.TWildcard:
		y, ok := t.(typesystem.TWildcard)
		if !ok || x.Kind != y.Kind {
			return false
		}
		if x.Kind == typesystem.Unbounded {
			return true
		}
		return in.equal(x.Bound, y.Bound)
	}
	return typesystem.Equal(s, t)
}

// resolve instantiates every variable of the bound set and verifies the
// instantiation against all bounds. The result maps variable keys to types.
func (in *inference) resolve() (typesystem.Subst, bool) {
	s := typesystem.Subst{}
	pending := append([]string(nil), in.b.order...)
	for len(pending) > 0 {
		progress := false
		var rest []string
		for _, key := range pending {
			vb := in.b.vars[key]
			if in.blocked(vb, s) {
				rest = append(rest, key)
				continue
			}
			s[key] = in.instantiate(vb, s)
			progress = true
		}
		if !progress {
			key := rest[0]
			s[key] = in.instantiate(in.b.vars[key], s)
			rest = rest[1:]
		}
		pending = rest
	}
	return s, in.verify(s)
}

// blocked reports whether an equality or lower bound of vb still mentions
// an unresolved variable other than vb itself.
func (in *inference) blocked(vb *varBounds, s typesystem.Subst) bool {
	check := func(ts []typesystem.Type) bool {
		for _, t := range ts {
			for _, fv := range t.Apply(s).FreeTypeVariables() {
				if fv.Key() == vb.v.Key() {
					continue
				}
				if _, ok := in.b.vars[fv.Key()]; ok {
					if _, done := s[fv.Key()]; !done {
						return true
					}
				}
			}
		}
		return false
	}
	return check(vb.eq) || check(vb.lower)
}

func (in *inference) proper(t typesystem.Type, s typesystem.Subst) (typesystem.Type, bool) {
	t = t.Apply(s)
	return t, !in.mentions(t)
}

func (in *inference) instantiate(vb *varBounds, s typesystem.Subst) typesystem.Type {
	for _, eq := range vb.eq {
		if t, ok := in.proper(eq, s); ok {
			return t
		}
	}
	var lowers []typesystem.Type
	for _, l := range vb.lower {
		if t, ok := in.proper(l, s); ok {
			lowers = append(lowers, t)
		}
	}
	if len(lowers) > 0 {
		if lub := in.cat.LeastUpperBound(lowers); !isNullType(lub) {
			return lub
		}
	}
	var uppers []typesystem.Type
	for _, u := range vb.upper {
		if t, ok := in.proper(u, s); ok {
			uppers = append(uppers, t)
		}
	}
	self := map[string]bool{vb.v.Key(): true}
	for _, b := range vb.v.Bounds {
		t, ok := in.proper(b, s)
		if !ok {
			continue
		}
		if typesystem.Mentions(t, self) {
			t = typesystem.Erase(t)
		}
		uppers = append(uppers, t)
	}
	return in.glb(uppers)
}

// glb picks the upper bound that is a subtype of all others, or intersects
// them.
func (in *inference) glb(ts []typesystem.Type) typesystem.Type {
	var kept []typesystem.Type
	for _, t := range ts {
		if typesystem.Equal(t, typesystem.ObjectType) || typesystem.IndexOf(kept, t) >= 0 {
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return typesystem.ObjectType
	case 1:
		return kept[0]
	}
	for _, cand := range kept {
		all := true
		for _, t := range kept {
			if !in.cat.IsSubtype(cand, t) {
				all = false
				break
			}
		}
		if all {
			return cand
		}
	}
	return typesystem.TIntersection{Types: kept}
}

func (in *inference) verify(s typesystem.Subst) bool {
	for _, key := range in.b.order {
		vb := in.b.vars[key]
		inst := s[key]
		for _, eq := range vb.eq {
			if e := eq.Apply(s); !typesystem.Equal(inst, e) && !typesystem.IsError(e) {
				return false
			}
		}
		for _, l := range vb.lower {
			if !in.fits(l.Apply(s), inst) {
				return false
			}
		}
		for _, u := range vb.upper {
			if !in.fits(inst, u.Apply(s)) {
				return false
			}
		}
		for _, b := range vb.v.Bounds {
			if !in.fits(inst, b.Apply(s)) {
				return false
			}
		}
	}
	return true
}

func (in *inference) fits(sub, super typesystem.Type) bool {
	if in.cat.IsSubtype(sub, super) {
		return true
	}
	if in.cat.IsUncheckedSubtype(sub, super) {
		in.unchecked = true
		return true
	}
	return false
}

func isNullType(t typesystem.Type) bool {
	_, ok := t.(typesystem.TNull)
	return ok
}
