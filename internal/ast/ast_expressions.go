package ast

import (
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Literal is a primitive or String literal. Type is the literal's type.
type Literal struct {
	Token token.Token
	Type  typesystem.Type
	Value interface{}
}

func (l *Literal) Accept(v Visitor)      { v.VisitLiteral(l) }
func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token { return l.Token }

// NullLiteral is the null literal.
type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) Accept(v Visitor)      { v.VisitNullLiteral(n) }
func (n *NullLiteral) expressionNode()       {}
func (n *NullLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NullLiteral) GetToken() token.Token { return n.Token }

// Identifier is a simple name: a local, a parameter, a field or, as a
// qualifier, a type.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// ThisExpression is "this".
type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) Accept(v Visitor)      { v.VisitThisExpression(te) }
func (te *ThisExpression) expressionNode()       {}
func (te *ThisExpression) TokenLiteral() string  { return te.Token.Lexeme }
func (te *ThisExpression) GetToken() token.Token { return te.Token }

// FieldAccess is "receiver.name". The receiver may name a type.
type FieldAccess struct {
	Token    token.Token // the name token
	Receiver Expression
	Name     string
}

func (fa *FieldAccess) Accept(v Visitor)      { v.VisitFieldAccess(fa) }
func (fa *FieldAccess) expressionNode()       {}
func (fa *FieldAccess) TokenLiteral() string  { return fa.Token.Lexeme }
func (fa *FieldAccess) GetToken() token.Token { return fa.Token }

// MethodCall is "name(args)", "receiver.name(args)", "super.name(args)" or
// any of them with explicit type arguments ("this.<String>name()").
type MethodCall struct {
	Token    token.Token // the method name token
	Receiver Expression  // nil for unqualified and super calls
	Super    bool
	TypeArgs []typesystem.Type
	Name     string
	Args     []Expression
}

func (mc *MethodCall) Accept(v Visitor)      { v.VisitMethodCall(mc) }
func (mc *MethodCall) expressionNode()       {}
func (mc *MethodCall) TokenLiteral() string  { return mc.Token.Lexeme }
func (mc *MethodCall) GetToken() token.Token { return mc.Token }

// NewExpression is "new T(args)". Diamond is set for "new T<>(args)".
type NewExpression struct {
	Token   token.Token // the 'new' token
	Type    typesystem.Type
	Diamond bool
	Args    []Expression
}

func (ne *NewExpression) Accept(v Visitor)      { v.VisitNewExpression(ne) }
func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }

// NewArrayExpression is "new T[size]".
type NewArrayExpression struct {
	Token token.Token
	Type  typesystem.TArray
	Size  Expression
}

func (na *NewArrayExpression) Accept(v Visitor)      { v.VisitNewArrayExpression(na) }
func (na *NewArrayExpression) expressionNode()       {}
func (na *NewArrayExpression) TokenLiteral() string  { return na.Token.Lexeme }
func (na *NewArrayExpression) GetToken() token.Token { return na.Token }

// Lambda is a lambda expression. Body is an Expression or a *Block.
// Text is the source text, used when the lambda is printed as an argument.
type Lambda struct {
	Token    token.Token // the '->' token
	Params   []*Param
	Explicit bool // every parameter has a declared type
	Body     Node
	Text     string
}

func (le *Lambda) Accept(v Visitor)      { v.VisitLambda(le) }
func (le *Lambda) expressionNode()       {}
func (le *Lambda) TokenLiteral() string  { return le.Token.Lexeme }
func (le *Lambda) GetToken() token.Token { return le.Token }

// ExpressionBody returns the body expression, or nil for block bodies.
func (le *Lambda) ExpressionBody() Expression {
	if e, ok := le.Body.(Expression); ok {
		return e
	}
	return nil
}

// MethodReference is "expr::name", "Type::name", "super::name",
// "Type::new" or "Type[]::new". Exactly one of Receiver, Type or Super
// describes the qualifier; a qualifier that may be either an expression or a
// type is left in Receiver as an Identifier.
type MethodReference struct {
	Token    token.Token // the '::' token
	Receiver Expression
	Type     typesystem.Type
	Super    bool
	TypeArgs []typesystem.Type
	Name     string // "new" for constructor references
	Text     string
}

func (mr *MethodReference) Accept(v Visitor)      { v.VisitMethodReference(mr) }
func (mr *MethodReference) expressionNode()       {}
func (mr *MethodReference) TokenLiteral() string  { return mr.Token.Lexeme }
func (mr *MethodReference) GetToken() token.Token { return mr.Token }

// IsConstructor reports whether the reference is "::new".
func (mr *MethodReference) IsConstructor() bool { return mr.Name == "new" }

// ConditionalExpression is "cond ? then : else".
type ConditionalExpression struct {
	Token     token.Token // the '?' token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (ce *ConditionalExpression) Accept(v Visitor)      { v.VisitConditionalExpression(ce) }
func (ce *ConditionalExpression) expressionNode()       {}
func (ce *ConditionalExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ConditionalExpression) GetToken() token.Token { return ce.Token }

// CastExpression is "(Type) expr".
type CastExpression struct {
	Token token.Token // the '(' token
	Type  typesystem.Type
	Expr  Expression
}

func (ce *CastExpression) Accept(v Visitor)      { v.VisitCastExpression(ce) }
func (ce *CastExpression) expressionNode()       {}
func (ce *CastExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CastExpression) GetToken() token.Token { return ce.Token }

// InfixExpression is a binary operator application.
type InfixExpression struct {
	Token    token.Token // the operator token
	Operator string
	Left     Expression
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)      { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// PrefixExpression is "!x" or "-x".
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)      { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// AssignExpression is "target = value".
type AssignExpression struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
}

func (ae *AssignExpression) Accept(v Visitor)      { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

// IsStatementExpression reports whether e may stand alone as a statement,
// which is also what makes an expression lambda body void-compatible.
func IsStatementExpression(e Expression) bool {
	switch e.(type) {
	case *MethodCall, *NewExpression, *AssignExpression:
		return true
	}
	return false
}

// IsPolyCandidate reports whether e's type may depend on its target.
// Method calls are decided later, once the callee is known to be generic.
func IsPolyCandidate(e Expression) bool {
	switch ex := e.(type) {
	case *Lambda, *MethodReference:
		return true
	case *ConditionalExpression:
		return IsPolyCandidate(ex.Then) || IsPolyCandidate(ex.Else)
	}
	return false
}
