package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// applicable is a candidate found applicable in some phase.
type applicable struct {
	m       *symbols.MethodSignature
	phase   Phase
	formals []typesystem.Type // one formal per argument, varargs expanded

	// rename maps m's type parameters to inference variables; nil unless
	// the type arguments were inferred.
	rename    typesystem.Subst
	bounds    *boundSet
	subst     typesystem.Subst
	unchecked bool
}

func (ap *applicable) inferred() bool { return ap.rename != nil }

// instantiate expresses a type of m's signature with s applied.
func (ap *applicable) instantiate(t typesystem.Type, s typesystem.Subst) typesystem.Type {
	if t == nil {
		return nil
	}
	if ap.rename != nil {
		t = t.Apply(ap.rename)
	}
	if len(s) == 0 {
		return t
	}
	return t.Apply(s)
}

func (ap *applicable) result(s typesystem.Subst) *ResolvedMethod {
	m := ap.m
	rm := &ResolvedMethod{Signature: m, Phase: ap.phase, Unchecked: ap.unchecked}
	if m.IsGeneric() {
		rm.Subst = typesystem.Subst{}
		for _, tp := range m.TypeParams {
			rm.Subst[tp.Key()] = ap.instantiate(tp, s)
		}
	}
	for _, p := range m.Params {
		rm.Params = append(rm.Params, ap.instantiate(p, s))
	}
	rm.Return = ap.instantiate(m.Return, s)
	for _, t := range m.Throws {
		rm.Throws = append(rm.Throws, ap.instantiate(t, s))
	}
	if ap.unchecked && m.IsGeneric() {
		rm.Return = typesystem.Erase(rm.Return)
		rm.Throws = typesystem.EraseAll(rm.Throws)
	}
	return rm
}

// formalTypes returns the formal parameter type for each of k arguments.
func formalTypes(m *symbols.MethodSignature, k int, phase Phase) []typesystem.Type {
	if phase != Varargs || !m.Variadic {
		return m.Params
	}
	out := make([]typesystem.Type, k)
	n := len(m.Params)
	copy(out, m.Params[:n-1])
	elem := m.VarargElem()
	for i := n - 1; i < k; i++ {
		out[i] = elem
	}
	return out
}

func formalAt(m *symbols.MethodSignature, i int, phase Phase) typesystem.Type {
	n := len(m.Params)
	if phase == Varargs && m.Variadic && i >= n-1 {
		return m.VarargElem()
	}
	if i < n {
		return m.Params[i]
	}
	return nil
}

// tryCandidate tests m for applicability in phase. A nil result means m is
// not applicable; a result with ok unset means every standalone argument
// fits and only a poly argument failed.
func (c *checker) tryCandidate(m *symbols.MethodSignature, site *CallSite, phase Phase) (ap *applicable, ok bool) {
	k, n := len(site.Args), len(m.Params)
	if phase == Varargs {
		if !m.Variadic || k < n-1 {
			return nil, false
		}
	} else if k != n {
		return nil, false
	}
	formals := formalTypes(m, k, phase)
	methodVars := typesystem.KeySet(m.TypeParams)
	for i, a := range site.Args {
		if a.IsPoly() && !c.potentiallyCompatible(a.Expr, formals[i], methodVars) {
			return nil, false
		}
	}

	ap = &applicable{m: m, phase: phase, formals: formals}
	b := newBoundSet()
	for _, a := range site.Args {
		b.merge(a.open)
	}
	targets := formals
	switch {
	case m.IsGeneric() && len(site.TypeArgs) > 0:
		if len(site.TypeArgs) != len(m.TypeParams) {
			return nil, false
		}
		ap.subst = typesystem.NewSubst(m.TypeParams, site.TypeArgs)
		for i, tp := range m.TypeParams {
			for _, bound := range tp.Bounds {
				if !c.cat.IsSubtype(site.TypeArgs[i], bound.Apply(ap.subst)) {
					return nil, false
				}
			}
		}
		targets = typesystem.ApplyAll(formals, ap.subst)
	case m.IsGeneric():
		fresh, rename := c.freshVars(m.TypeParams)
		for _, v := range fresh {
			b.add(v)
		}
		ap.rename = rename
		targets = typesystem.ApplyAll(formals, rename)
	}

	in := newInference(c.cat, b, phase != Strict)
	for i, a := range site.Args {
		if a.IsPoly() {
			continue
		}
		if !in.compatible(a.Type, targets[i]) {
			return nil, false
		}
	}
	if len(b.order) > 0 {
		c.reduceExplicitLambdas(in, site.Args, targets)
		s, ok := in.resolve()
		if !ok {
			return nil, false
		}
		if c.reducePolyReturns(in, site.Args, targets, s) {
			if s, ok = in.resolve(); !ok {
				return nil, false
			}
		}
		if ap.subst == nil {
			ap.subst = s
		} else {
			for key, t := range s {
				ap.subst[key] = t
			}
		}
	}
	ap.bounds = b
	ap.unchecked = in.unchecked

	for i, a := range site.Args {
		if !a.IsPoly() {
			continue
		}
		out := c.checkPoly(a.Expr, ap.instantiate(formals[i], ap.subst))
		if out.excludes(c.r.opts.SpeculativeLambdas) {
			return ap, false
		}
	}
	return ap, true
}

// reduceExplicitLambdas adds the declared parameter types of explicitly
// typed lambda arguments as equality constraints.
func (c *checker) reduceExplicitLambdas(in *inference, args []Argument, targets []typesystem.Type) {
	for i, a := range args {
		l, ok := a.Expr.(*ast.Lambda)
		if !ok || !a.IsPoly() || !l.Explicit || !in.mentions(targets[i]) {
			continue
		}
		desc, err := c.r.describe(targets[i], l.Token)
		if err != nil || len(desc.Params) != len(l.Params) {
			continue
		}
		for j, p := range l.Params {
			in.equal(p.Type, desc.Params[j])
		}
	}
}

// reducePolyReturns constrains the return type of each poly argument's
// function type by the types its body returns, typed with the parameter
// types instantiated by s. It reports whether any constraint was added.
func (c *checker) reducePolyReturns(in *inference, args []Argument, targets []typesystem.Type, s typesystem.Subst) bool {
	added := false
	for i, a := range args {
		if a.IsPoly() && in.mentions(targets[i]) && c.reducePolyReturn(in, a.Expr, targets[i], s) {
			added = true
		}
	}
	return added
}

func (c *checker) reducePolyReturn(in *inference, e ast.Expression, target typesystem.Type, s typesystem.Subst) bool {
	if ce, ok := e.(*ast.ConditionalExpression); ok {
		added := false
		for _, branch := range []ast.Expression{ce.Then, ce.Else} {
			if ast.IsPolyCandidate(branch) && c.reducePolyReturn(in, branch, target, s) {
				added = true
			}
		}
		return added
	}
	desc, err := c.r.describe(target, e.GetToken())
	if err != nil || typesystem.IsVoid(desc.Return) || !in.mentions(desc.Return) {
		return false
	}
	params := typesystem.ApplyAll(desc.Params, s)
	var returns []typesystem.Type
	switch ex := e.(type) {
	case *ast.Lambda:
		returns = c.lambdaReturns(ex, params)
	case *ast.MethodReference:
		f := c.fork()
		if rm, ret, err := f.resolveMethodRef(ex, params, nil); err == nil && rm != nil {
			returns = append(returns, ret)
		}
	}
	loose := in.loose
	in.loose = true
	defer func() { in.loose = loose }()
	added := false
	for _, rt := range returns {
		if rt == nil || typesystem.IsVoid(rt) || typesystem.IsError(rt) {
			continue
		}
		in.compatible(rt, desc.Return)
		added = true
	}
	return added
}

// applicableIn runs the phases over cands and returns the candidates of
// the first phase that has any. When none is applicable it returns the
// candidates that failed on a poly argument only.
func (c *checker) applicableIn(site *CallSite, cands []*symbols.MethodSignature) (apps, polyFailed []*applicable) {
	seen := make(map[*symbols.MethodSignature]bool)
	for _, phase := range phases {
		for _, m := range cands {
			ap, ok := c.tryCandidate(m, site, phase)
			if ok {
				apps = append(apps, ap)
				continue
			}
			if ap != nil && !seen[m] {
				seen[m] = true
				polyFailed = append(polyFailed, ap)
			}
		}
		if len(apps) > 0 {
			return apps, nil
		}
	}
	return nil, polyFailed
}

// candidates returns the member methods the site may invoke and the type
// they were found in.
func (c *checker) candidates(site *CallSite) ([]*symbols.MethodSignature, typesystem.Type, *ResolutionError) {
	if site.candidates != nil {
		return site.candidates, site.Receiver, nil
	}
	if site.IsConstructor() {
		return c.cat.Constructors(site.Receiver), site.Receiver, nil
	}
	if site.Receiver != nil {
		ms := c.cat.Lookup(site.Receiver, site.Name)
		if len(ms) == 0 {
			return nil, site.Receiver, c.undefined(site, site.Receiver)
		}
		return ms, site.Receiver, nil
	}
	for _, r := range c.enclosing() {
		t := r.SelfType()
		if ms := c.cat.Lookup(t, site.Name); len(ms) > 0 {
			return ms, t, nil
		}
	}
	return nil, c.selfType(), c.undefined(site, c.selfType())
}

// resolveCall selects the method a call site invokes. With leaveOpen a
// generic result whose return type mentions inferred type arguments is
// returned uninstantiated together with its bound set, so that an
// enclosing call can refine it.
func (c *checker) resolveCall(site *CallSite, leaveOpen bool) (*ResolvedMethod, *boundSet, *ResolutionError) {
	cands, recv, err := c.candidates(site)
	if err != nil {
		return nil, nil, err
	}
	var visible, hidden []*symbols.MethodSignature
	for _, m := range cands {
		if c.accessible(m.Owner, m.Modifiers) {
			visible = append(visible, m)
		} else {
			hidden = append(hidden, m)
		}
	}

	apps, polyFailed := c.applicableIn(site, visible)
	if len(apps) == 0 {
		if len(hidden) > 0 {
			if hApps, _ := c.applicableIn(site, hidden); len(hApps) > 0 {
				return nil, nil, c.notVisible(site, hApps[0].m)
			}
		}
		if len(polyFailed) != 1 {
			return nil, nil, c.notApplicable(site, recv, visible)
		}
		apps = polyFailed
	}

	best, err := c.mostSpecific(site, recv, apps)
	if err != nil {
		return nil, nil, err
	}
	m := best.m
	if site.StaticOnly && !m.IsStatic() && !site.IsConstructor() {
		return nil, nil, newError(TypeMismatch, site.Pos,
			"Cannot make a static reference to the non-static method %s from the type %s",
			prettyprinter.Method(c.cat, m), c.ownerName(m)).withMethods(m)
	}
	if site.Super && m.IsAbstract() {
		err := newError(Undefined, site.Pos,
			"Cannot directly invoke the abstract method %s for the type %s",
			prettyprinter.Method(c.cat, m), c.ownerName(m)).withMethods(m)
		err.abstractSuper = true
		return nil, nil, err
	}

	s := best.subst
	var open *boundSet
	if best.inferred() {
		ret := m.Return.Apply(best.rename)
		in := newInference(c.cat, best.bounds.clone(), true)
		switch {
		case leaveOpen && in.mentions(ret) && !best.unchecked:
			open = best.bounds
		case site.Target != nil && !typesystem.IsVoid(site.Target) && in.mentions(ret):
			if in.compatible(ret, site.Target) {
				if refined, ok := in.resolve(); ok {
					s = refined
					best.unchecked = best.unchecked || in.unchecked
				}
			}
		}
	}

	var rm *ResolvedMethod
	if open != nil {
		rm = best.result(nil)
	} else {
		rm = best.result(s)
		c.finishPending(s)
	}
	c.commitArgs(site, best, s)
	return rm, open, nil
}

// commitArgs checks the poly arguments against the instantiated formals of
// the selected method, keeping their findings, and records the argument
// types.
func (c *checker) commitArgs(site *CallSite, ap *applicable, s typesystem.Subst) {
	for i, a := range site.Args {
		formal := ap.instantiate(ap.formals[i], s)
		if a.IsPoly() {
			c.commit(c.checkPoly(a.Expr, formal))
			continue
		}
		t := a.Type
		if len(s) > 0 {
			t = t.Apply(s)
		}
		if a.Expr == nil {
			continue
		}
		c.results.Types[a.Expr] = t
		if _, unchecked := compatibleTypes(c.cat, t, formal, true); unchecked {
			c.uncheckedWarning(a.Expr.GetToken(), t, formal)
		}
	}
}

func (c *checker) uncheckedWarning(pos token.Token, from, to typesystem.Type) {
	c.warn(pos, "Type safety: The expression of type "+prettyprinter.Type(from)+
		" needs unchecked conversion to conform to "+prettyprinter.Type(to))
}

func (c *checker) ownerName(m *symbols.MethodSignature) string {
	if r := c.cat.Record(m.Owner); r != nil {
		return r.Name
	}
	return "?"
}

// renderArgs renders the argument list "(int, String)" of a site.
func (c *checker) renderArgs(site *CallSite) string {
	parts := make([]string, len(site.Args))
	for i, a := range site.Args {
		parts[i] = c.argText(a)
	}
	return prettyprinter.Arguments(parts)
}

func (c *checker) argText(a Argument) string {
	if a.Type != nil {
		t := a.Type
		if a.open != nil {
			s, _ := newInference(c.cat, a.open.clone(), true).resolve()
			t = t.Apply(s)
		}
		return prettyprinter.Type(t)
	}
	switch ex := a.Expr.(type) {
	case *ast.Lambda:
		return ex.Text
	case *ast.MethodReference:
		return ex.Text
	}
	return prettyprinter.Type(typesystem.ObjectType)
}

func (c *checker) siteName(site *CallSite, recv typesystem.Type) string {
	if site.IsConstructor() {
		if r, ok := c.cat.RecordOf(recv); ok {
			return r.Name
		}
		return prettyprinter.Type(recv)
	}
	return site.Name
}

func (c *checker) undefined(site *CallSite, recv typesystem.Type) *ResolutionError {
	if site.IsConstructor() {
		return newError(Undefined, site.Pos, "The constructor %s%s is undefined",
			c.siteName(site, recv), c.renderArgs(site))
	}
	return newError(Undefined, site.Pos, "The method %s%s is undefined for the type %s",
		site.Name, c.renderArgs(site), prettyprinter.Type(recv)).withTypes(recv)
}

func (c *checker) notApplicable(site *CallSite, recv typesystem.Type, cands []*symbols.MethodSignature) *ResolutionError {
	if len(cands) == 0 {
		return c.undefined(site, recv)
	}
	if len(cands) > 1 || site.IsConstructor() {
		err := c.undefined(site, recv).withMethods(cands...)
		err.Kind = NotApplicable
		return err
	}
	m := cands[0]
	return newError(NotApplicable, site.Pos, "The method %s in the type %s is not applicable for the arguments %s",
		prettyprinter.Method(c.cat, m), prettyprinter.Type(recv), c.renderArgs(site)).withMethods(m)
}

func (c *checker) notVisible(site *CallSite, m *symbols.MethodSignature) *ResolutionError {
	if m.IsConstructor() {
		return newError(VisibilityError, site.Pos, "The constructor %s is not visible",
			prettyprinter.Method(c.cat, m)).withMethods(m)
	}
	return newError(VisibilityError, site.Pos, "The method %s from the type %s is not visible",
		prettyprinter.Method(c.cat, m), c.ownerName(m)).withMethods(m)
}

// diamondConstructors returns r's constructors as generic methods over the
// class type parameters returning the class type, which is how "new C<>()"
// infers its type arguments.
func diamondConstructors(r *symbols.TypeRecord) []*symbols.MethodSignature {
	out := make([]*symbols.MethodSignature, 0, len(r.Constructors))
	for _, ctor := range r.Constructors {
		v := *ctor
		v.TypeParams = append(append([]typesystem.TVar(nil), r.TypeParams...), ctor.TypeParams...)
		v.Return = r.SelfType()
		out = append(out, &v)
	}
	return out
}

