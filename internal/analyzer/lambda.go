package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// CheckOutcome is the result of checking a lambda, method reference or
// poly conditional against one target type. Shape is set when the
// expression cannot be compatible with the target's function type at all
// (wrong arity, void/value mismatch, incompatible returns); other errors
// come from the body.
type CheckOutcome struct {
	Errors     []*ResolutionError
	Shape      bool
	Descriptor *FunctionalDescriptor
	Method     *ResolvedMethod // the referenced method of a method reference
	Returns    []typesystem.Type

	fork *checker
}

// OK reports whether the expression checked cleanly.
func (o *CheckOutcome) OK() bool { return !o.Shape && len(o.Errors) == 0 }

// excludes reports whether the outcome rules a candidate out. Body errors
// only do so when speculative lambda checking is on.
func (o *CheckOutcome) excludes(speculative bool) bool {
	return o.Shape || (speculative && len(o.Errors) > 0)
}

func (o *CheckOutcome) shape(err *ResolutionError) {
	o.Shape = true
	o.Errors = append(o.Errors, err)
}

// checkPoly checks a poly expression against target in a speculative copy
// of c. Outcomes are cached per expression and target.
func (c *checker) checkPoly(e ast.Expression, target typesystem.Type) *CheckOutcome {
	key := outcomeKey{expr: e, target: prettyprinter.Type(target)}
	if out, ok := c.shared.outcomes[key]; ok {
		return out
	}
	var out *CheckOutcome
	switch ex := e.(type) {
	case *ast.Lambda:
		out = c.checkLambda(ex, target)
	case *ast.MethodReference:
		out = c.checkMethodRef(ex, target)
	case *ast.ConditionalExpression:
		out = c.checkConditional(ex, target)
	default:
		f := c.fork()
		out = &CheckOutcome{fork: f}
		t := f.expr(e, target)
		if ok, _ := assignable(c.cat, t, target, isIntConstant(e)); !ok {
			out.shape(mismatch(e.GetToken(), t, target))
		}
		out.Errors = append(out.Errors, f.errs...)
	}
	c.shared.outcomes[key] = out
	return out
}

// commit adopts the findings of a checked poly expression.
func (c *checker) commit(out *CheckOutcome) {
	if out == nil {
		return
	}
	if out.fork == nil {
		c.errs = append(c.errs, out.Errors...)
		return
	}
	f := out.fork
	c.errs = append(c.errs, out.Errors...)
	c.warns = append(c.warns, f.warns...)
	c.results.merge(f.results)
	c.pending = append(c.pending, f.pending...)
}

func (c *checker) checkLambda(l *ast.Lambda, target typesystem.Type) *CheckOutcome {
	out := &CheckOutcome{}
	desc, err := c.r.describe(target, l.Token)
	if err != nil {
		out.shape(err)
		return out
	}
	out.Descriptor = desc
	if len(desc.TypeParams) > 0 {
		out.shape(newError(LambdaShapeMismatch, l.Token,
			"Illegal lambda expression: Method %s of type %s is generic", desc.Signature(), desc.Interface))
		return out
	}
	if len(l.Params) != len(desc.Params) {
		out.shape(newError(LambdaShapeMismatch, l.Token,
			"Lambda expression's signature does not match the signature of the functional interface method %s", desc.Signature()))
		return out
	}
	for i, p := range l.Params {
		if p.Type != nil && !typesystem.Equal(p.Type, desc.Params[i]) {
			out.shape(newError(LambdaShapeMismatch, p.Token,
				"Lambda expression's parameter %s is expected to be of type %s", p.Name, desc.Params[i]))
			return out
		}
	}

	f := c.fork()
	out.fork = f
	f.body = &body{ret: desc.Return, lambda: true}
	for i, p := range l.Params {
		f.scope.define(p.Name, desc.Params[i])
	}
	f.pushBoundary(desc.Throws)
	if e := l.ExpressionBody(); e != nil {
		f.lambdaExpressionBody(l, e, desc, out)
	} else if b, ok := l.Body.(*ast.Block); ok {
		f.block(b)
		if !typesystem.IsVoid(desc.Return) && ast.CanCompleteNormally(b) {
			f.body.shape = true
			f.report(newError(LambdaShapeMismatch, l.Token,
				"This method must return a result of type %s", desc.Return))
		}
		out.Returns = f.body.returns
	}
	f.popHandler()
	if f.body.shape {
		out.Shape = true
	}
	out.Errors = append(out.Errors, f.errs...)
	f.results.Lambdas[l] = desc
	return out
}

func (c *checker) lambdaExpressionBody(l *ast.Lambda, e ast.Expression, desc *FunctionalDescriptor, out *CheckOutcome) {
	if typesystem.IsVoid(desc.Return) {
		if !ast.IsStatementExpression(e) {
			c.body.shape = true
			c.report(newError(LambdaShapeMismatch, e.GetToken(), "Void methods cannot return a value"))
			return
		}
		c.expr(e, nil)
		return
	}
	var t typesystem.Type
	if ast.IsPolyCandidate(e) {
		o := c.checkPoly(e, desc.Return)
		c.commit(o)
		if o.Shape {
			c.body.shape = true
		}
		t = desc.Return
	} else {
		t = c.expr(e, desc.Return)
	}
	out.Returns = []typesystem.Type{t}
	if typesystem.IsVoid(t) {
		c.body.shape = true
		c.report(mismatch(e.GetToken(), t, desc.Return))
		return
	}
	ok, unchecked := assignable(c.cat, t, desc.Return, isIntConstant(e))
	if !ok {
		c.body.shape = true
		c.report(mismatch(e.GetToken(), t, desc.Return))
	} else if unchecked {
		c.uncheckedWarning(e.GetToken(), t, desc.Return)
	}
}

// lambdaReturns types the returned expressions of l with its parameters
// bound to params, without a target. Poly returns are skipped.
func (c *checker) lambdaReturns(l *ast.Lambda, params []typesystem.Type) []typesystem.Type {
	if len(l.Params) != len(params) {
		return nil
	}
	f := c.fork()
	f.body = &body{lambda: true}
	for i, p := range l.Params {
		t := params[i]
		if p.Type != nil {
			t = p.Type
		}
		f.scope.define(p.Name, t)
	}
	f.pushBoundary(nil)
	defer f.popHandler()
	if e := l.ExpressionBody(); e != nil {
		if ast.IsPolyCandidate(e) {
			return nil
		}
		t := f.expr(e, nil)
		if typesystem.IsVoid(t) {
			return nil
		}
		return []typesystem.Type{t}
	}
	if b, ok := l.Body.(*ast.Block); ok {
		f.block(b)
	}
	return f.body.returns
}

// lambdaShape classifies a lambda body structurally: an expression body is
// value-compatible and, when it is a statement expression, void-compatible;
// a block is void-compatible without value returns and value-compatible
// when every path returns a value.
func lambdaShape(l *ast.Lambda) (voidOK, valueOK bool) {
	if e := l.ExpressionBody(); e != nil {
		return ast.IsStatementExpression(e), true
	}
	b, ok := l.Body.(*ast.Block)
	if !ok {
		return false, false
	}
	hasValue, hasBare := false, false
	ast.Inspect(b, func(n ast.Node) bool {
		switch st := n.(type) {
		case *ast.Lambda:
			return false
		case *ast.ReturnStatement:
			if st.Value != nil {
				hasValue = true
			} else {
				hasBare = true
			}
		}
		return true
	})
	voidOK = !hasValue
	valueOK = !hasBare && !ast.CanCompleteNormally(b)
	return voidOK, valueOK
}

// potentiallyCompatible is the cheap pre-inference test of a poly argument
// against a formal parameter type of m.
func (c *checker) potentiallyCompatible(e ast.Expression, formal typesystem.Type, methodVars map[string]bool) bool {
	if tv, ok := formal.(typesystem.TVar); ok && methodVars[tv.Key()] {
		return true
	}
	switch ex := e.(type) {
	case *ast.Lambda:
		desc, err := c.r.describe(formal, ex.Token)
		if err != nil || len(desc.Params) != len(ex.Params) {
			return false
		}
		voidOK, valueOK := lambdaShape(ex)
		if typesystem.IsVoid(desc.Return) {
			return voidOK
		}
		return valueOK
	case *ast.MethodReference:
		desc, err := c.r.describe(formal, ex.Token)
		if err != nil {
			return false
		}
		return c.methodRefArityMatches(ex, len(desc.Params))
	case *ast.ConditionalExpression:
		for _, branch := range []ast.Expression{ex.Then, ex.Else} {
			if ast.IsPolyCandidate(branch) && !c.potentiallyCompatible(branch, formal, methodVars) {
				return false
			}
		}
	}
	return true
}

// checkConditional checks a conditional with a poly branch against target.
func (c *checker) checkConditional(ce *ast.ConditionalExpression, target typesystem.Type) *CheckOutcome {
	f := c.fork()
	out := &CheckOutcome{fork: f}
	cond := f.expr(ce.Condition, typesystem.Boolean)
	if !isBooleanType(cond) && !typesystem.IsError(cond) {
		f.report(mismatch(ce.Condition.GetToken(), cond, typesystem.Boolean))
	}
	for _, branch := range []ast.Expression{ce.Then, ce.Else} {
		if ast.IsPolyCandidate(branch) {
			o := f.checkPoly(branch, target)
			if o.Shape {
				out.Shape = true
			}
			f.commit(o)
			continue
		}
		t := f.expr(branch, target)
		if ok, _ := assignable(c.cat, t, target, isIntConstant(branch)); !ok {
			out.shape(mismatch(branch.GetToken(), t, target))
		}
	}
	out.Errors = append(out.Errors, f.errs...)
	f.errs = nil
	return out
}

func mismatch(pos token.Token, from, to typesystem.Type) *ResolutionError {
	return newError(TypeMismatch, pos, "Type mismatch: cannot convert from %s to %s",
		prettyprinter.Type(from), prettyprinter.Type(to)).withTypes(from, to)
}

// isIntConstant reports whether e is an int literal, which assignment
// narrows to byte, short and char.
func isIntConstant(e ast.Expression) bool {
	l, ok := e.(*ast.Literal)
	return ok && typesystem.Equal(l.Type, typesystem.Int)
}
