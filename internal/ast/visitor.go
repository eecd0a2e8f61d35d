package ast

// Visitor is implemented by AST walkers.
type Visitor interface {
	VisitCompilationUnit(*CompilationUnit)
	VisitTypeDecl(*TypeDecl)
	VisitFieldDecl(*FieldDecl)
	VisitMethodDecl(*MethodDecl)

	VisitBlock(*Block)
	VisitReturnStatement(*ReturnStatement)
	VisitThrowStatement(*ThrowStatement)
	VisitExpressionStatement(*ExpressionStatement)
	VisitLocalVarStatement(*LocalVarStatement)
	VisitIfStatement(*IfStatement)
	VisitTryStatement(*TryStatement)

	VisitLiteral(*Literal)
	VisitNullLiteral(*NullLiteral)
	VisitIdentifier(*Identifier)
	VisitThisExpression(*ThisExpression)
	VisitFieldAccess(*FieldAccess)
	VisitMethodCall(*MethodCall)
	VisitNewExpression(*NewExpression)
	VisitNewArrayExpression(*NewArrayExpression)
	VisitLambda(*Lambda)
	VisitMethodReference(*MethodReference)
	VisitConditionalExpression(*ConditionalExpression)
	VisitCastExpression(*CastExpression)
	VisitInfixExpression(*InfixExpression)
	VisitPrefixExpression(*PrefixExpression)
	VisitAssignExpression(*AssignExpression)
}

// Inspect traverses the tree rooted at node in depth-first order, calling
// fn for every node. Children are skipped when fn returns false.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil {
		return
	}
	node.Accept(&inspector{fn: fn})
}

type inspector struct {
	fn func(Node) bool
}

func (in *inspector) walk(n Node) {
	if n == nil {
		return
	}
	n.Accept(in)
}

func (in *inspector) walkExpr(e Expression) {
	if e != nil {
		e.Accept(in)
	}
}

func (in *inspector) walkStmt(s Statement) {
	if s != nil {
		s.Accept(in)
	}
}

func (in *inspector) VisitCompilationUnit(n *CompilationUnit) {
	if !in.fn(n) {
		return
	}
	for _, td := range n.Types {
		in.walk(td)
	}
}

func (in *inspector) VisitTypeDecl(n *TypeDecl) {
	if !in.fn(n) {
		return
	}
	for _, f := range n.Fields {
		in.walk(f)
	}
	for _, m := range n.Methods {
		in.walk(m)
	}
}

func (in *inspector) VisitFieldDecl(n *FieldDecl) {
	if in.fn(n) {
		in.walkExpr(n.Init)
	}
}

func (in *inspector) VisitMethodDecl(n *MethodDecl) {
	if in.fn(n) && n.Body != nil {
		in.walk(n.Body)
	}
}

func (in *inspector) VisitBlock(n *Block) {
	if !in.fn(n) {
		return
	}
	for _, s := range n.Statements {
		in.walkStmt(s)
	}
}

func (in *inspector) VisitReturnStatement(n *ReturnStatement) {
	if in.fn(n) {
		in.walkExpr(n.Value)
	}
}

func (in *inspector) VisitThrowStatement(n *ThrowStatement) {
	if in.fn(n) {
		in.walkExpr(n.Value)
	}
}

func (in *inspector) VisitExpressionStatement(n *ExpressionStatement) {
	if in.fn(n) {
		in.walkExpr(n.Expression)
	}
}

func (in *inspector) VisitLocalVarStatement(n *LocalVarStatement) {
	if in.fn(n) {
		in.walkExpr(n.Init)
	}
}

func (in *inspector) VisitIfStatement(n *IfStatement) {
	if !in.fn(n) {
		return
	}
	in.walkExpr(n.Condition)
	in.walkStmt(n.Then)
	in.walkStmt(n.Else)
}

func (in *inspector) VisitTryStatement(n *TryStatement) {
	if !in.fn(n) {
		return
	}
	in.walk(n.Body)
	for _, c := range n.Catches {
		in.walk(c.Body)
	}
	if n.Finally != nil {
		in.walk(n.Finally)
	}
}

func (in *inspector) VisitLiteral(n *Literal)               { in.fn(n) }
func (in *inspector) VisitNullLiteral(n *NullLiteral)       { in.fn(n) }
func (in *inspector) VisitIdentifier(n *Identifier)         { in.fn(n) }
func (in *inspector) VisitThisExpression(n *ThisExpression) { in.fn(n) }

func (in *inspector) VisitFieldAccess(n *FieldAccess) {
	if in.fn(n) {
		in.walkExpr(n.Receiver)
	}
}

func (in *inspector) VisitMethodCall(n *MethodCall) {
	if !in.fn(n) {
		return
	}
	in.walkExpr(n.Receiver)
	for _, a := range n.Args {
		in.walkExpr(a)
	}
}

func (in *inspector) VisitNewExpression(n *NewExpression) {
	if !in.fn(n) {
		return
	}
	for _, a := range n.Args {
		in.walkExpr(a)
	}
}

func (in *inspector) VisitNewArrayExpression(n *NewArrayExpression) {
	if in.fn(n) {
		in.walkExpr(n.Size)
	}
}

func (in *inspector) VisitLambda(n *Lambda) {
	if in.fn(n) {
		in.walk(n.Body)
	}
}

func (in *inspector) VisitMethodReference(n *MethodReference) {
	if in.fn(n) {
		in.walkExpr(n.Receiver)
	}
}

func (in *inspector) VisitConditionalExpression(n *ConditionalExpression) {
	if !in.fn(n) {
		return
	}
	in.walkExpr(n.Condition)
	in.walkExpr(n.Then)
	in.walkExpr(n.Else)
}

func (in *inspector) VisitCastExpression(n *CastExpression) {
	if in.fn(n) {
		in.walkExpr(n.Expr)
	}
}

func (in *inspector) VisitInfixExpression(n *InfixExpression) {
	if in.fn(n) {
		in.walkExpr(n.Left)
		in.walkExpr(n.Right)
	}
}

func (in *inspector) VisitPrefixExpression(n *PrefixExpression) {
	if in.fn(n) {
		in.walkExpr(n.Right)
	}
}

func (in *inspector) VisitAssignExpression(n *AssignExpression) {
	if in.fn(n) {
		in.walkExpr(n.Target)
		in.walkExpr(n.Value)
	}
}
