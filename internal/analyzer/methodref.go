package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// refQualifier is what stands before "::".
type refQualifier struct {
	typ   typesystem.Type
	named bool // a type name rather than an expression
	super bool
}

// methodRefQualifier classifies the qualifier of mr. An identifier is a
// variable when one is in scope and a type name otherwise. Problems are
// reported on c.
func (c *checker) methodRefQualifier(mr *ast.MethodReference) (refQualifier, bool) {
	switch {
	case mr.Super:
		if c.static {
			c.report(newError(UnresolvedName, mr.Token, "Cannot use super in a static context"))
			return refQualifier{}, false
		}
		return refQualifier{typ: c.superType(), super: true}, true
	case mr.Type != nil:
		if err := c.cat.CheckTypeRef(mr.Type); err != nil {
			c.report(newError(UnresolvedName, mr.Token, "%s", err))
			return refQualifier{}, false
		}
		return refQualifier{typ: mr.Type, named: true}, true
	}
	if id, ok := mr.Receiver.(*ast.Identifier); ok {
		if _, _, found := c.variable(id.Value); !found {
			if r, found := c.resolveType(id.Value); found {
				return refQualifier{typ: typesystem.TCon{Name: r.Name}, named: true}, true
			}
			c.report(newError(UnresolvedName, id.Token, "%s cannot be resolved", id.Value))
			return refQualifier{}, false
		}
	}
	t := c.expr(mr.Receiver, nil)
	if typesystem.IsError(t) {
		return refQualifier{}, false
	}
	if typesystem.IsPrimitive(t) || typesystem.IsVoid(t) {
		c.report(newError(TypeMismatch, mr.Token, "Cannot invoke %s() on the primitive type %s", mr.Name, t))
		return refQualifier{}, false
	}
	return refQualifier{typ: t}, true
}

// staticView is the type searched for static members of a named type: a
// generic class is seen through its own type parameters rather than raw.
func (c *checker) staticView(t typesystem.Type) typesystem.Type {
	if tc, ok := t.(typesystem.TCon); ok {
		if r, found := c.cat.Resolve(tc.Name); found && r.IsGeneric() {
			return r.SelfType()
		}
	}
	return t
}

// unboundReceiver returns the receiver type of "Type::m" when the first
// descriptor parameter p1 supplies the receiver. A raw generic qualifier
// takes its parameterization from p1.
func (c *checker) unboundReceiver(t, p1 typesystem.Type) (typesystem.Type, bool) {
	if p1 == nil || typesystem.IsPrimitive(p1) || typesystem.IsError(p1) {
		return nil, false
	}
	if tc, ok := t.(typesystem.TCon); ok {
		if r, found := c.cat.Resolve(tc.Name); found && r.IsGeneric() {
			return c.cat.SupertypeView(p1, tc.Name)
		}
	}
	if c.cat.IsSubtype(p1, t) || c.cat.IsUncheckedSubtype(p1, t) {
		return t, true
	}
	return nil, false
}

func typeArguments(ts []typesystem.Type) []Argument {
	out := make([]Argument, len(ts))
	for i, t := range ts {
		out[i] = Argument{Type: t}
	}
	return out
}

// checkMethodRef checks a method reference against target: the referenced
// method is resolved with the descriptor's parameter types, its return type
// must be assignable to the descriptor's and its checked exceptions must be
// declared by the descriptor.
func (c *checker) checkMethodRef(mr *ast.MethodReference, target typesystem.Type) *CheckOutcome {
	out := &CheckOutcome{}
	desc, err := c.r.describe(target, mr.Token)
	if err != nil {
		out.shape(err)
		return out
	}
	out.Descriptor = desc
	f := c.fork()
	out.fork = f
	rm, ret, rerr := f.resolveMethodRef(mr, desc.Params, desc.Return)
	if rerr != nil {
		out.shape(rerr)
	}
	if rm == nil {
		out.Errors = append(out.Errors, f.errs...)
		return out
	}
	out.Method = rm

	if !typesystem.IsVoid(desc.Return) {
		if typesystem.IsVoid(ret) {
			out.shape(newError(InvalidMethodReference, mr.Token,
				"The type of %s from the type %s is void, this is incompatible with the descriptor's return type: %s",
				c.refName(rm), c.refOwner(rm, ret), desc.Return))
		} else if ok, unchecked := assignable(c.cat, ret, desc.Return, false); !ok {
			out.shape(newError(InvalidMethodReference, mr.Token,
				"The type of %s from the type %s is %s, this is incompatible with the descriptor's return type: %s",
				c.refName(rm), c.refOwner(rm, ret), ret, desc.Return))
		} else if unchecked {
			f.uncheckedWarning(mr.Token, ret, desc.Return)
		}
	}
	f.pushBoundary(desc.Throws)
	for _, t := range rm.Throws {
		f.throws(t, mr.Token)
	}
	f.popHandler()

	out.Errors = append(out.Errors, f.errs...)
	f.results.Refs[mr] = rm
	f.results.Lambdas[mr] = desc
	return out
}

// resolveMethodRef finds the compile-time declaration of mr for a function
// type with the given parameter types. ret, when known, is the function
// type's return type and guides inference. A nil method without an error
// means the qualifier itself was reported on c.
func (c *checker) resolveMethodRef(mr *ast.MethodReference, params []typesystem.Type, ret typesystem.Type) (*ResolvedMethod, typesystem.Type, *ResolutionError) {
	q, ok := c.methodRefQualifier(mr)
	if !ok {
		return nil, typesystem.TError{}, nil
	}
	if ret != nil && typesystem.IsVoid(ret) {
		ret = nil
	}
	if mr.IsConstructor() {
		return c.resolveConstructorRef(mr, q, params, ret)
	}

	site := func(recv typesystem.Type, args []typesystem.Type) *CallSite {
		return &CallSite{
			Receiver: recv,
			Name:     mr.Name,
			Args:     typeArguments(args),
			TypeArgs: mr.TypeArgs,
			Super:    q.super,
			Target:   ret,
			From:     c.self,
			Pos:      mr.Token,
		}
	}

	if !q.named {
		rm, _, err := c.resolveCall(site(q.typ, params), false)
		if err != nil {
			return nil, nil, c.refFailure(mr, q.typ, params, err)
		}
		if rm.Signature.IsStatic() {
			return nil, nil, newError(InvalidMethodReference, mr.Token,
				"The method %s from the type %s should be accessed in a static way",
				c.refName(rm), c.ownerName(rm.Signature)).withMethods(rm.Signature)
		}
		return rm, rm.Return, nil
	}

	r1, _, e1 := c.resolveCall(site(c.staticView(q.typ), params), false)
	var r2 *ResolvedMethod
	var e2 *ResolutionError
	tried := false
	if len(params) > 0 {
		if recv, ok := c.unboundReceiver(q.typ, params[0]); ok {
			tried = true
			r2, _, e2 = c.resolveCall(site(recv, params[1:]), false)
		}
	}
	ok1 := e1 == nil && r1.Signature.IsStatic()
	ok2 := tried && e2 == nil && !r2.Signature.IsStatic()
	switch {
	case ok1 && ok2:
		return nil, nil, newError(Ambiguous, mr.Token,
			"Ambiguous method reference: both %s and %s from the type %s are eligible",
			c.refName(r1), c.refName(r2), prettyprinter.Type(q.typ)).withMethods(r1.Signature, r2.Signature)
	case ok1:
		return r1, r1.Return, nil
	case ok2:
		return r2, r2.Return, nil
	case e1 == nil:
		return nil, nil, newError(InvalidMethodReference, mr.Token,
			"Cannot make a static reference to the non-static method %s from the type %s",
			c.refName(r1), c.ownerName(r1.Signature)).withMethods(r1.Signature)
	case tried && e2 == nil:
		return nil, nil, newError(InvalidMethodReference, mr.Token,
			"The method %s from the type %s should be accessed in a static way",
			c.refName(r2), c.ownerName(r2.Signature)).withMethods(r2.Signature)
	}
	return nil, nil, c.refFailure(mr, q.typ, params, e1)
}

func (c *checker) resolveConstructorRef(mr *ast.MethodReference, q refQualifier, params []typesystem.Type, ret typesystem.Type) (*ResolvedMethod, typesystem.Type, *ResolutionError) {
	if arr, ok := q.typ.(typesystem.TArray); ok {
		if len(params) != 1 {
			return nil, nil, c.refUndefined(mr, q.typ, params)
		}
		if ok, _ := compatibleTypes(c.cat, params[0], typesystem.Int, true); !ok {
			return nil, nil, c.refUndefined(mr, q.typ, params)
		}
		sig := &symbols.MethodSignature{
			Name:      config.ConstructorName,
			Owner:     symbols.NoType,
			Params:    []typesystem.Type{typesystem.Int},
			Return:    arr,
			Modifiers: ast.ModPublic,
			Via:       symbols.NoType,
		}
		sig.Decl = sig
		return &ResolvedMethod{Signature: sig, Params: sig.Params, Return: arr, Phase: Strict}, arr, nil
	}
	r, ok := c.cat.RecordOf(q.typ)
	if !ok {
		return nil, nil, c.refUndefined(mr, q.typ, params)
	}
	if r.IsAbstract() {
		return nil, nil, newError(InvalidMethodReference, mr.Token, "Cannot instantiate the type %s", r.Name)
	}
	site := &CallSite{
		Receiver: q.typ,
		Name:     config.ConstructorName,
		Args:     typeArguments(params),
		TypeArgs: mr.TypeArgs,
		Target:   ret,
		From:     c.self,
		Pos:      mr.Token,
	}
	_, raw := q.typ.(typesystem.TCon)
	diamond := raw && r.IsGeneric()
	if diamond {
		site.candidates = diamondConstructors(r)
	}
	rm, _, err := c.resolveCall(site, false)
	if err != nil {
		return nil, nil, c.refFailure(mr, q.typ, params, err)
	}
	if diamond {
		return rm, rm.Return, nil
	}
	return rm, q.typ, nil
}

// refFailure turns a failed resolution into a method reference error.
// Ambiguity, visibility and abstract super targets keep their own messages.
func (c *checker) refFailure(mr *ast.MethodReference, t typesystem.Type, params []typesystem.Type, err *ResolutionError) *ResolutionError {
	if err != nil && err.abstractSuper {
		err.Kind = InvalidMethodReference
		err.Pos = mr.Token
		return err
	}
	if err != nil && (err.Kind == Ambiguous || err.Kind == VisibilityError || err.Kind == TypeMismatch) {
		err.Pos = mr.Token
		return err
	}
	return c.refUndefined(mr, t, params)
}

func (c *checker) refUndefined(mr *ast.MethodReference, t typesystem.Type, params []typesystem.Type) *ResolutionError {
	name := mr.Name
	if mr.IsConstructor() {
		if r, ok := c.cat.RecordOf(t); ok {
			name = r.Name
		} else {
			name = prettyprinter.Type(t)
		}
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = prettyprinter.Type(p)
	}
	return newError(InvalidMethodReference, mr.Token, "The type %s does not define %s%s that is applicable here",
		prettyprinter.Type(t), name, prettyprinter.Arguments(parts)).withTypes(t)
}

// refName renders the referenced method with its instantiated parameters.
func (c *checker) refName(rm *ResolvedMethod) string {
	v := *rm.Signature
	v.Params = rm.Params
	return prettyprinter.Method(c.cat, &v)
}

func (c *checker) refOwner(rm *ResolvedMethod, ret typesystem.Type) string {
	if c.cat.Record(rm.Signature.Owner) == nil {
		return prettyprinter.Type(ret)
	}
	return c.ownerName(rm.Signature)
}

func arityFits(m *symbols.MethodSignature, n int) bool {
	return len(m.Params) == n || (m.Variadic && n >= len(m.Params)-1)
}

// methodRefArityMatches is the potential compatibility test of a method
// reference with a function type of n parameters.
func (c *checker) methodRefArityMatches(mr *ast.MethodReference, n int) bool {
	f := c.fork()
	q, ok := f.methodRefQualifier(mr)
	if !ok {
		return true
	}
	if mr.IsConstructor() {
		if _, arr := q.typ.(typesystem.TArray); arr {
			return n == 1
		}
		for _, m := range c.cat.Constructors(q.typ) {
			if arityFits(m, n) {
				return true
			}
		}
		return false
	}
	recv := q.typ
	if q.named {
		recv = c.staticView(q.typ)
	}
	for _, m := range c.cat.Lookup(recv, mr.Name) {
		if arityFits(m, n) || (q.named && !m.IsStatic() && n > 0 && arityFits(m, n-1)) {
			return true
		}
	}
	return false
}

// isExactMethodRef reports whether mr denotes exactly one method that is
// neither variable-arity nor generic, so its function type is known before
// any target is.
func (c *checker) isExactMethodRef(mr *ast.MethodReference) bool {
	f := c.fork()
	q, ok := f.methodRefQualifier(mr)
	if !ok {
		return false
	}
	_, raw := q.typ.(typesystem.TCon)
	generic := false
	if r, found := c.cat.RecordOf(q.typ); found {
		generic = r.IsGeneric()
	}
	var ms []*symbols.MethodSignature
	if mr.IsConstructor() {
		if _, arr := q.typ.(typesystem.TArray); arr {
			return true
		}
		if raw && generic {
			return false
		}
		ms = c.cat.Constructors(q.typ)
	} else {
		if q.named && raw && generic {
			return false
		}
		ms = c.cat.Lookup(q.typ, mr.Name)
	}
	if len(ms) != 1 || ms[0].Variadic {
		return false
	}
	return !ms[0].IsGeneric() || len(mr.TypeArgs) > 0
}
