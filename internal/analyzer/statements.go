package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/typesystem"
)

var (
	throwableType = typesystem.TCon{Name: config.ThrowableTypeName}
	exceptionType = typesystem.TCon{Name: config.ExceptionTypeName}
)

func (c *checker) block(b *ast.Block) {
	saved := c.scope
	c.scope = newScope(saved)
	for _, st := range b.Statements {
		c.statement(st)
	}
	c.scope = saved
}

// scoped checks a statement that is not a block in a scope of its own.
func (c *checker) scoped(s ast.Statement) {
	saved := c.scope
	c.scope = newScope(saved)
	c.statement(s)
	c.scope = saved
}

func (c *checker) statement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.Block:
		c.block(st)
	case *ast.ExpressionStatement:
		c.expr(st.Expression, nil)
	case *ast.LocalVarStatement:
		c.localVar(st)
	case *ast.ReturnStatement:
		c.returnStatement(st)
	case *ast.ThrowStatement:
		c.throwStatement(st)
	case *ast.IfStatement:
		cond := c.expr(st.Condition, typesystem.Boolean)
		if !typesystem.IsError(cond) && !isBooleanType(cond) {
			c.report(mismatch(st.Condition.GetToken(), cond, typesystem.Boolean))
		}
		c.scoped(st.Then)
		if st.Else != nil {
			c.scoped(st.Else)
		}
	case *ast.TryStatement:
		c.tryStatement(st)
	}
}

func (c *checker) localVar(st *ast.LocalVarStatement) {
	t := st.Type
	if err := c.cat.CheckTypeRef(t); err != nil {
		c.report(newError(UnresolvedName, st.Token, "%s", err))
		t = typesystem.TError{}
	}
	if st.Init != nil {
		c.assignTo(st.Init, t)
	}
	c.scope.define(st.Name, t)
}

// returnStatement checks a return against the enclosing body. A lambda
// body typed without a target only collects the returned types.
func (c *checker) returnStatement(st *ast.ReturnStatement) {
	b := c.body
	if b == nil {
		if st.Value != nil && !ast.IsPolyCandidate(st.Value) {
			c.expr(st.Value, nil)
		}
		return
	}
	if b.ret == nil {
		if st.Value != nil && !ast.IsPolyCandidate(st.Value) {
			if t := c.expr(st.Value, nil); !typesystem.IsError(t) {
				b.returns = append(b.returns, t)
				b.returnExprs = append(b.returnExprs, st.Value)
			}
		}
		return
	}

	kind := TypeMismatch
	if b.lambda {
		kind = LambdaShapeMismatch
	}
	if st.Value == nil {
		if !typesystem.IsVoid(b.ret) {
			b.shape = b.lambda
			c.report(newError(kind, st.Token, "This method must return a result of type %s", prettyprinter.Type(b.ret)))
		}
		return
	}
	if typesystem.IsVoid(b.ret) {
		b.shape = b.lambda
		c.report(newError(kind, st.Value.GetToken(), "Void methods cannot return a value"))
		return
	}

	t := c.expr(st.Value, b.ret)
	if ast.IsPolyCandidate(st.Value) {
		if typesystem.IsError(t) && b.lambda {
			b.shape = true
		}
		return
	}
	b.returns = append(b.returns, t)
	b.returnExprs = append(b.returnExprs, st.Value)
	if typesystem.IsError(t) {
		return
	}
	ok, unchecked := assignable(c.cat, t, b.ret, isIntConstant(st.Value))
	switch {
	case !ok:
		b.shape = b.shape || b.lambda
		c.report(mismatch(st.Value.GetToken(), t, b.ret))
	case unchecked:
		c.uncheckedWarning(st.Value.GetToken(), t, b.ret)
	}
}

func (c *checker) throwStatement(st *ast.ThrowStatement) {
	t := c.expr(st.Value, nil)
	if typesystem.IsError(t) || isNullType(t) {
		return
	}
	if !c.cat.IsSubtype(t, throwableType) {
		c.report(newError(TypeMismatch, st.Value.GetToken(),
			"No exception of type %s can be thrown; an exception type must be a subclass of Throwable",
			prettyprinter.Type(t)).withTypes(t))
		return
	}
	c.throws(t, st.Token)
}

func (c *checker) tryStatement(st *ast.TryStatement) {
	h := &handler{}
	valid := make([][]typesystem.Type, len(st.Catches))
	for i, cc := range st.Catches {
		for _, t := range cc.Types {
			if err := c.cat.CheckTypeRef(t); err != nil {
				c.report(newError(UnresolvedName, cc.Token, "%s", err))
				continue
			}
			if !c.cat.IsSubtype(t, throwableType) {
				c.report(newError(TypeMismatch, cc.Token,
					"No exception of type %s can be thrown; an exception type must be a subclass of Throwable",
					prettyprinter.Type(t)).withTypes(t))
				continue
			}
			h.catches = append(h.catches, t)
			valid[i] = append(valid[i], t)
		}
	}
	c.handlers = append(c.handlers, h)
	c.block(st.Body)
	c.popHandler()

	for i, cc := range st.Catches {
		for _, t := range valid[i] {
			if !c.catchReachable(t, h.thrown) {
				c.report(newError(UnhandledException, cc.Token,
					"Unreachable catch block for %s. This exception is never thrown from the body of corresponding try statement",
					prettyprinter.Type(t)).withTypes(t))
			}
		}
		param := typesystem.Type(typesystem.TError{})
		switch len(valid[i]) {
		case 0:
		case 1:
			param = valid[i][0]
		default:
			param = c.cat.LeastUpperBound(valid[i])
		}
		saved := c.scope
		c.scope = newScope(saved)
		c.scope.define(cc.Name, param)
		c.block(cc.Body)
		c.scope = saved
	}
	if st.Finally != nil {
		c.block(st.Finally)
	}
}

// catchReachable reports whether a catch clause for t can catch anything
// the try body throws. Unchecked exceptions, Exception and Throwable may
// always be caught.
func (c *checker) catchReachable(t typesystem.Type, thrown []typesystem.Type) bool {
	if !c.cat.IsChecked(t) || typesystem.Equal(t, exceptionType) || typesystem.Equal(t, throwableType) {
		return true
	}
	for _, x := range thrown {
		if c.cat.IsSubtype(x, t) || c.cat.IsSubtype(t, x) {
			return true
		}
	}
	return false
}
