package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// mostSpecific picks the most specific of the applicable candidates. Among
// several maximally specific candidates a single concrete one wins when all
// are override-equivalent, and among abstract ones the one whose return
// type is substitutable for all others.
func (c *checker) mostSpecific(site *CallSite, recv typesystem.Type, apps []*applicable) (*applicable, *ResolutionError) {
	if len(apps) == 1 {
		return apps[0], nil
	}
	var maximal []*applicable
	for i, a := range apps {
		dominated := false
		for j, b := range apps {
			if i == j {
				continue
			}
			if c.moreSpecific(site, b, a) && !c.moreSpecific(site, a, b) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = appendDistinct(maximal, a)
		}
	}
	if len(maximal) == 1 {
		return maximal[0], nil
	}

	if allOverrideEquivalent(maximal) {
		var concrete []*applicable
		for _, a := range maximal {
			if !a.m.IsAbstract() {
				concrete = append(concrete, a)
			}
		}
		if len(concrete) == 1 {
			return concrete[0], nil
		}
		if len(concrete) == 0 {
			for _, a := range maximal {
				all := true
				for _, b := range maximal {
					if a != b && !c.cat.ReturnSubstitutable(a.m, b.m) {
						all = false
						break
					}
				}
				if all {
					return a, nil
				}
			}
		}
	}

	methods := make([]*symbols.MethodSignature, len(maximal))
	for i, a := range maximal {
		methods[i] = a.m
	}
	first := maximal[0].m
	name := prettyprinter.Method(c.cat, first)
	if first.IsConstructor() {
		return nil, newError(Ambiguous, site.Pos, "The constructor %s is ambiguous", name).withMethods(methods...)
	}
	return nil, newError(Ambiguous, site.Pos, "The method %s is ambiguous for the type %s",
		name, prettyprinter.Type(recv)).withMethods(methods...)
}

// appendDistinct adds a unless a candidate derived from the same
// declaration is already present.
func appendDistinct(list []*applicable, a *applicable) []*applicable {
	for _, b := range list {
		if b.m.Decl == a.m.Decl {
			return list
		}
	}
	return append(list, a)
}

func allOverrideEquivalent(apps []*applicable) bool {
	for i := range apps {
		for j := i + 1; j < len(apps); j++ {
			if !symbols.OverrideEquivalent(apps[i].m, apps[j].m) {
				return false
			}
		}
	}
	return true
}

// moreSpecific reports whether a1's method is more specific than a2's for
// the arguments of site.
func (c *checker) moreSpecific(site *CallSite, a1, a2 *applicable) bool {
	m1, m2 := a1.m, a2.m
	k := len(site.Args)
	count := k
	if a1.phase == Varargs && len(m2.Params) == k+1 {
		count = k + 1
	}

	if m2.IsGeneric() {
		fresh, rename := c.freshVars(m2.TypeParams)
		b := newBoundSet()
		for _, v := range fresh {
			b.add(v)
		}
		in := newInference(c.cat, b, false)
		for i := 0; i < count; i++ {
			s, t := formalAt(m1, i, a1.phase), formalAt(m2, i, a2.phase)
			if s == nil || t == nil {
				return false
			}
			t = t.Apply(rename)
			if i < k && site.Args[i].IsPoly() && !in.mentions(t) {
				if !c.moreSpecificArg(site.Args[i].Expr, s, t) {
					return false
				}
				continue
			}
			if !in.subtype(s, t) {
				return false
			}
		}
		_, ok := in.resolve()
		return ok
	}

	for i := 0; i < count; i++ {
		s, t := formalAt(m1, i, a1.phase), formalAt(m2, i, a2.phase)
		if s == nil || t == nil {
			return false
		}
		var e ast.Expression
		if i < k {
			e = site.Args[i].Expr
		}
		if !c.moreSpecificArg(e, s, t) {
			return false
		}
	}
	return true
}

// moreSpecificArg reports whether formal s is more specific than t for the
// argument e: by subtyping or, for explicitly typed lambdas and exact
// method references, by comparing the two function types.
func (c *checker) moreSpecificArg(e ast.Expression, s, t typesystem.Type) bool {
	if c.cat.IsSubtype(s, t) {
		return true
	}
	if e == nil || !ast.IsPolyCandidate(e) || c.cat.IsSubtype(t, s) {
		return false
	}
	switch ex := e.(type) {
	case *ast.ConditionalExpression:
		for _, branch := range []ast.Expression{ex.Then, ex.Else} {
			if ast.IsPolyCandidate(branch) && !c.moreSpecificArg(branch, s, t) {
				return false
			}
		}
		return true
	case *ast.Lambda:
		if !ex.Explicit && len(ex.Params) > 0 {
			return false
		}
	case *ast.MethodReference:
		if !c.isExactMethodRef(ex) {
			return false
		}
	}

	ds, err := c.r.describe(s, e.GetToken())
	if err != nil {
		return false
	}
	dt, err := c.r.describe(t, e.GetToken())
	if err != nil {
		return false
	}
	if len(ds.TypeParams) > 0 || len(dt.TypeParams) > 0 || !typesystem.EqualAll(ds.Params, dt.Params) {
		return false
	}
	rs, rt := ds.Return, dt.Return
	switch {
	case typesystem.IsVoid(rt):
		return true
	case typesystem.IsVoid(rs):
		return false
	case c.cat.IsSubtype(rs, rt):
		return true
	}
	sPrim, tPrim := typesystem.IsPrimitive(rs), typesystem.IsPrimitive(rt)
	if sPrim == tPrim {
		return false
	}
	allPrim, allRef := c.resultKinds(e, ds.Params)
	if sPrim {
		return allPrim
	}
	return allRef
}

// resultKinds reports whether every result of e, typed with params, is of
// primitive type, and whether every one is of reference type.
func (c *checker) resultKinds(e ast.Expression, params []typesystem.Type) (allPrim, allRef bool) {
	var results []typesystem.Type
	switch ex := e.(type) {
	case *ast.Lambda:
		results = c.lambdaReturns(ex, params)
	case *ast.MethodReference:
		f := c.fork()
		rm, ret, err := f.resolveMethodRef(ex, params, nil)
		if err != nil || rm == nil {
			return false, false
		}
		results = []typesystem.Type{ret}
	}
	if len(results) == 0 {
		return false, false
	}
	allPrim, allRef = true, true
	for _, r := range results {
		if typesystem.IsPrimitive(r) {
			allRef = false
		} else {
			allPrim = false
		}
	}
	return allPrim, allRef
}
