package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

var stringType = typesystem.TCon{Name: config.StringTypeName}

// expr types e. target is the type of the assignment or invocation context
// e appears in, or nil for a standalone expression.
func (c *checker) expr(e ast.Expression, target typesystem.Type) typesystem.Type {
	t, open := c.typeOf(e, target, false)
	t = c.close(t, open, target)
	c.results.Types[e] = t
	return t
}

// argument types e as an argument of an enclosing call. Poly expressions
// are left untyped and a generic call keeps its inferred type arguments
// open.
func (c *checker) argument(e ast.Expression) Argument {
	if ast.IsPolyCandidate(e) {
		return Argument{Expr: e}
	}
	t, open := c.typeOf(e, nil, true)
	return Argument{Expr: e, Type: t, open: open}
}

// closeArgs settles the arguments of a call that failed to resolve.
func (c *checker) closeArgs(args []Argument) {
	for _, a := range args {
		if a.IsPoly() {
			continue
		}
		c.results.Types[a.Expr] = c.close(a.Type, a.open, nil)
	}
}

func (c *checker) typeOf(e ast.Expression, target typesystem.Type, leaveOpen bool) (typesystem.Type, *boundSet) {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex.Type, nil
	case *ast.NullLiteral:
		return typesystem.TNull{}, nil
	case *ast.Identifier:
		return c.identifier(ex), nil
	case *ast.ThisExpression:
		if c.static {
			c.report(newError(UnresolvedName, ex.Token, "Cannot use this in a static context"))
			return typesystem.TError{}, nil
		}
		return c.selfType(), nil
	case *ast.FieldAccess:
		return c.fieldAccess(ex), nil
	case *ast.MethodCall:
		return c.methodCall(ex, target, leaveOpen)
	case *ast.NewExpression:
		return c.newExpression(ex, target, leaveOpen)
	case *ast.NewArrayExpression:
		return c.newArray(ex), nil
	case *ast.Lambda, *ast.MethodReference:
		return c.polyExpression(e, target), nil
	case *ast.ConditionalExpression:
		return c.conditional(ex, target), nil
	case *ast.CastExpression:
		return c.cast(ex), nil
	case *ast.InfixExpression:
		return c.infix(ex), nil
	case *ast.PrefixExpression:
		return c.prefix(ex), nil
	case *ast.AssignExpression:
		return c.assign(ex), nil
	}
	return typesystem.TError{}, nil
}

// polyExpression checks a lambda, method reference or poly conditional
// against target and commits the outcome.
func (c *checker) polyExpression(e ast.Expression, target typesystem.Type) typesystem.Type {
	if target == nil || typesystem.IsVoid(target) {
		c.report(newError(NotFunctionalInterface, e.GetToken(), notFunctionalMessage))
		return typesystem.TError{}
	}
	if typesystem.IsError(target) {
		return typesystem.TError{}
	}
	out := c.checkPoly(e, target)
	c.commit(out)
	if out.Shape {
		return typesystem.TError{}
	}
	return target
}

// assignTo checks e in an assignment context of type t.
func (c *checker) assignTo(e ast.Expression, t typesystem.Type) {
	if typesystem.IsError(t) {
		if !ast.IsPolyCandidate(e) {
			c.expr(e, nil)
		}
		return
	}
	v := c.expr(e, t)
	if typesystem.IsError(v) || ast.IsPolyCandidate(e) {
		return
	}
	ok, unchecked := assignable(c.cat, v, t, isIntConstant(e))
	switch {
	case !ok:
		c.report(mismatch(e.GetToken(), v, t))
	case unchecked:
		c.uncheckedWarning(e.GetToken(), v, t)
	}
}

// variable finds a local variable or a field visible by simple name.
func (c *checker) variable(name string) (typesystem.Type, *symbols.FieldSymbol, bool) {
	if t, ok := c.scope.lookup(name); ok {
		return t, nil, true
	}
	for _, r := range c.enclosing() {
		if f, ok := c.cat.LookupField(r.SelfType(), name); ok {
			return f.Type, f, true
		}
	}
	return nil, nil, false
}

func (c *checker) identifier(id *ast.Identifier) typesystem.Type {
	t, f, ok := c.variable(id.Value)
	if !ok {
		c.report(newError(UnresolvedName, id.Token, "%s cannot be resolved to a variable", id.Value))
		return typesystem.TError{}
	}
	if f == nil {
		return t
	}
	if !c.fieldAccessible(f, id.Token) {
		return typesystem.TError{}
	}
	if c.static && !f.IsStatic() && c.self != nil && f.Owner == c.self.ID {
		c.report(newError(UnresolvedName, id.Token, "Cannot make a static reference to the non-static field %s", f.Name))
		return typesystem.TError{}
	}
	c.checkForward(f, id.Token)
	return t
}

func (c *checker) fieldAccessible(f *symbols.FieldSymbol, pos token.Token) bool {
	if c.accessible(f.Owner, f.Modifiers) {
		return true
	}
	c.report(newError(VisibilityError, pos, "The field %s.%s is not visible", c.cat.Record(f.Owner).Name, f.Name))
	return false
}

// qualifier types the receiver of a field access or method call. A simple
// name that is not a variable may name a type, in which case isType is set
// and only static members may be used.
func (c *checker) qualifier(e ast.Expression) (t typesystem.Type, isType, ok bool) {
	if id, isID := e.(*ast.Identifier); isID {
		if _, _, found := c.variable(id.Value); !found {
			r, found := c.resolveType(id.Value)
			if !found {
				c.report(newError(UnresolvedName, id.Token, "%s cannot be resolved", id.Value))
				return typesystem.TError{}, false, false
			}
			if !c.typeAccessible(r) {
				c.report(newError(VisibilityError, id.Token, "The type %s is not visible", r.Name))
				return typesystem.TError{}, false, false
			}
			return typesystem.TCon{Name: r.Name}, true, true
		}
	}
	t = c.expr(e, nil)
	return t, false, !typesystem.IsError(t)
}

func (c *checker) fieldAccess(fa *ast.FieldAccess) typesystem.Type {
	recv, isType, ok := c.qualifier(fa.Receiver)
	if !ok {
		return typesystem.TError{}
	}
	if _, arr := recv.(typesystem.TArray); arr && !isType && fa.Name == "length" {
		return typesystem.Int
	}
	if typesystem.IsPrimitive(recv) || typesystem.IsVoid(recv) {
		c.report(newError(UnresolvedName, fa.Token, "The primitive type %s of %s does not have a field %s",
			recv, fa.Receiver.TokenLiteral(), fa.Name))
		return typesystem.TError{}
	}
	f, found := c.cat.LookupField(recv, fa.Name)
	if !found {
		c.report(newError(UnresolvedName, fa.Token, "%s cannot be resolved or is not a field", fa.Name))
		return typesystem.TError{}
	}
	if !c.fieldAccessible(f, fa.Token) {
		return typesystem.TError{}
	}
	if isType && !f.IsStatic() {
		c.report(newError(UnresolvedName, fa.Token, "Cannot make a static reference to the non-static field %s", f.Name))
		return typesystem.TError{}
	}
	return f.Type
}

// superType is the type "super" refers to.
func (c *checker) superType() typesystem.Type {
	if c.self == nil || c.self.Super == nil {
		return typesystem.ObjectType
	}
	return c.self.Super
}

func (c *checker) methodCall(mc *ast.MethodCall, target typesystem.Type, leaveOpen bool) (typesystem.Type, *boundSet) {
	site := &CallSite{
		Name:     mc.Name,
		TypeArgs: mc.TypeArgs,
		Target:   target,
		From:     c.self,
		Pos:      mc.Token,
	}
	switch {
	case mc.Super:
		if c.static {
			c.report(newError(UnresolvedName, mc.Token, "Cannot use super in a static context"))
			return typesystem.TError{}, nil
		}
		site.Receiver = c.superType()
		site.Super = true
	case mc.Receiver != nil:
		recv, isType, ok := c.qualifier(mc.Receiver)
		if !ok {
			c.closeArgs(c.arguments(mc.Args))
			return typesystem.TError{}, nil
		}
		if typesystem.IsPrimitive(recv) || typesystem.IsVoid(recv) {
			site.Args = c.arguments(mc.Args)
			c.closeArgs(site.Args)
			c.report(newError(Undefined, mc.Token, "Cannot invoke %s%s on the primitive type %s",
				mc.Name, c.renderArgs(site), recv))
			return typesystem.TError{}, nil
		}
		site.Receiver = recv
		if isType {
			site.Receiver = c.staticView(recv)
			site.StaticOnly = true
		}
	default:
		site.StaticOnly = c.static
	}
	site.Args = c.arguments(mc.Args)

	rm, open, err := c.resolveCall(site, leaveOpen)
	if err != nil {
		c.report(err)
		c.closeArgs(site.Args)
		return typesystem.TError{}, nil
	}
	c.results.Calls[mc] = rm
	for _, t := range rm.Throws {
		c.throws(t, mc.Token)
	}
	if open != nil {
		c.pending = append(c.pending, rm)
	}
	return rm.Return, open
}

func (c *checker) arguments(args []ast.Expression) []Argument {
	out := make([]Argument, len(args))
	for i, a := range args {
		out[i] = c.argument(a)
	}
	return out
}

func (c *checker) newExpression(ne *ast.NewExpression, target typesystem.Type, leaveOpen bool) (typesystem.Type, *boundSet) {
	fail := func(err *ResolutionError) (typesystem.Type, *boundSet) {
		c.report(err)
		c.closeArgs(c.arguments(ne.Args))
		return typesystem.TError{}, nil
	}
	if err := c.cat.CheckTypeRef(ne.Type); err != nil {
		return fail(newError(UnresolvedName, ne.Token, "%s", err))
	}
	r, ok := c.cat.RecordOf(ne.Type)
	if !ok {
		return fail(newError(UnresolvedName, ne.Token, "%s cannot be resolved to a type", prettyprinter.Type(ne.Type)))
	}
	if !c.typeAccessible(r) {
		return fail(newError(VisibilityError, ne.Token, "The type %s is not visible", r.Name))
	}
	if r.IsAbstract() {
		return fail(newError(TypeMismatch, ne.Token, "Cannot instantiate the type %s", r.Name))
	}

	site := &CallSite{
		Receiver: ne.Type,
		Name:     config.ConstructorName,
		Target:   target,
		From:     c.self,
		Pos:      ne.Token,
	}
	if ne.Diamond {
		site.Receiver = typesystem.TCon{Name: r.Name}
		site.candidates = diamondConstructors(r)
	} else {
		leaveOpen = false
	}
	site.Args = c.arguments(ne.Args)

	rm, open, err := c.resolveCall(site, leaveOpen)
	if err != nil {
		c.report(err)
		c.closeArgs(site.Args)
		return typesystem.TError{}, nil
	}
	c.results.Calls[ne] = rm
	for _, t := range rm.Throws {
		c.throws(t, ne.Token)
	}
	if !ne.Diamond {
		return ne.Type, nil
	}
	if open != nil {
		c.pending = append(c.pending, rm)
	}
	return rm.Return, open
}

func (c *checker) newArray(na *ast.NewArrayExpression) typesystem.Type {
	if err := c.cat.CheckTypeRef(na.Type); err != nil {
		c.report(newError(UnresolvedName, na.Token, "%s", err))
		c.expr(na.Size, typesystem.Int)
		return typesystem.TError{}
	}
	size := c.expr(na.Size, typesystem.Int)
	if typesystem.IsError(size) {
		return na.Type
	}
	if p, ok := numericType(c.cat, size); !ok || !typesystem.PrimitiveWidens(p, typesystem.Int) {
		c.report(mismatch(na.Size.GetToken(), size, typesystem.Int))
	}
	return na.Type
}

// conditional types "a ? b : c". A conditional with a poly branch is a poly
// expression; a reference conditional with a target takes the target type
// when both branches fit it.
func (c *checker) conditional(ce *ast.ConditionalExpression, target typesystem.Type) typesystem.Type {
	if ast.IsPolyCandidate(ce) {
		return c.polyExpression(ce, target)
	}
	cond := c.expr(ce.Condition, typesystem.Boolean)
	if !typesystem.IsError(cond) && !isBooleanType(cond) {
		c.report(mismatch(ce.Condition.GetToken(), cond, typesystem.Boolean))
	}
	a := c.expr(ce.Then, target)
	b := c.expr(ce.Else, target)
	return c.conditionalType(a, b, target)
}

func (c *checker) conditionalType(a, b, target typesystem.Type) typesystem.Type {
	switch {
	case typesystem.IsError(a) || typesystem.IsError(b):
		return typesystem.TError{}
	case typesystem.Equal(a, b):
		return a
	case isBooleanType(a) && isBooleanType(b):
		return typesystem.Boolean
	}
	pa, numA := numericType(c.cat, a)
	pb, numB := numericType(c.cat, b)
	if numA && numB && (typesystem.IsPrimitive(a) || typesystem.IsPrimitive(b)) {
		return binaryPromotion(pa, pb)
	}
	if isNullType(a) {
		return typesystem.BoxIfPrimitive(b)
	}
	if isNullType(b) {
		return typesystem.BoxIfPrimitive(a)
	}
	if target != nil && !typesystem.IsPrimitive(target) {
		okA, _ := assignable(c.cat, a, target, false)
		okB, _ := assignable(c.cat, b, target, false)
		if okA && okB {
			return target
		}
	}
	return c.cat.LeastUpperBound([]typesystem.Type{typesystem.BoxIfPrimitive(a), typesystem.BoxIfPrimitive(b)})
}

func (c *checker) cast(ce *ast.CastExpression) typesystem.Type {
	if err := c.cat.CheckTypeRef(ce.Type); err != nil {
		c.report(newError(UnresolvedName, ce.Token, "%s", err))
		if !ast.IsPolyCandidate(ce.Expr) {
			c.expr(ce.Expr, nil)
		}
		return typesystem.TError{}
	}
	if ast.IsPolyCandidate(ce.Expr) {
		c.expr(ce.Expr, ce.Type)
		return ce.Type
	}
	t := c.expr(ce.Expr, nil)
	if !typesystem.IsError(t) && !castable(c.cat, t, ce.Type) {
		c.report(newError(TypeMismatch, ce.Token, "Cannot cast from %s to %s",
			prettyprinter.Type(t), prettyprinter.Type(ce.Type)).withTypes(t, ce.Type))
	}
	return ce.Type
}

func (c *checker) operatorUndefined(ie *ast.InfixExpression, l, r typesystem.Type) typesystem.Type {
	c.report(newError(TypeMismatch, ie.Token, "The operator %s is undefined for the argument type(s) %s, %s",
		ie.Operator, prettyprinter.Type(l), prettyprinter.Type(r)).withTypes(l, r))
	return typesystem.TError{}
}

func (c *checker) infix(ie *ast.InfixExpression) typesystem.Type {
	l := c.expr(ie.Left, nil)
	r := c.expr(ie.Right, nil)
	if typesystem.IsError(l) || typesystem.IsError(r) {
		return typesystem.TError{}
	}
	switch ie.Operator {
	case "&&", "||":
		if !isBooleanType(l) || !isBooleanType(r) {
			return c.operatorUndefined(ie, l, r)
		}
		return typesystem.Boolean
	case "==", "!=":
		_, numL := numericType(c.cat, l)
		_, numR := numericType(c.cat, r)
		switch {
		case numL && numR && (typesystem.IsPrimitive(l) || typesystem.IsPrimitive(r)):
		case isBooleanType(l) && isBooleanType(r):
		case typesystem.IsReference(l) && typesystem.IsReference(r) && (castable(c.cat, l, r) || castable(c.cat, r, l)):
		default:
			c.report(newError(TypeMismatch, ie.Token, "Incompatible operand types %s and %s",
				prettyprinter.Type(l), prettyprinter.Type(r)).withTypes(l, r))
			return typesystem.TError{}
		}
		return typesystem.Boolean
	case "<", ">", "<=", ">=":
		_, numL := numericType(c.cat, l)
		_, numR := numericType(c.cat, r)
		if !numL || !numR {
			return c.operatorUndefined(ie, l, r)
		}
		return typesystem.Boolean
	case "+":
		if isStringType(l) || isStringType(r) {
			if typesystem.IsVoid(l) || typesystem.IsVoid(r) {
				return c.operatorUndefined(ie, l, r)
			}
			return stringType
		}
	}
	pl, numL := numericType(c.cat, l)
	pr, numR := numericType(c.cat, r)
	if !numL || !numR {
		return c.operatorUndefined(ie, l, r)
	}
	return binaryPromotion(pl, pr)
}

func (c *checker) prefix(pe *ast.PrefixExpression) typesystem.Type {
	t := c.expr(pe.Right, nil)
	if typesystem.IsError(t) {
		return t
	}
	switch pe.Operator {
	case "!":
		if isBooleanType(t) {
			return typesystem.Boolean
		}
	case "-":
		if p, ok := numericType(c.cat, t); ok {
			return binaryPromotion(p, typesystem.Int)
		}
	}
	c.report(newError(TypeMismatch, pe.Token, "The operator %s is undefined for the argument type(s) %s",
		pe.Operator, prettyprinter.Type(t)).withTypes(t))
	return typesystem.TError{}
}

func (c *checker) assign(ae *ast.AssignExpression) typesystem.Type {
	var lt typesystem.Type
	switch target := ae.Target.(type) {
	case *ast.Identifier:
		// Assigning a field by simple name is not a forward reference.
		field := c.field
		c.field = nil
		lt = c.expr(target, nil)
		c.field = field
	case *ast.FieldAccess:
		lt = c.expr(target, nil)
	default:
		c.report(newError(TypeMismatch, ae.Token, "The left-hand side of an assignment must be a variable"))
		lt = typesystem.TError{}
	}
	c.assignTo(ae.Value, lt)
	return lt
}
