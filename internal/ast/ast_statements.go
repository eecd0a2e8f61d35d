package ast

import (
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Block represents a list of statements within curly braces.
type Block struct {
	Token       token.Token // {
	Statements  []Statement
	RBraceToken token.Token // }
}

func (b *Block) Accept(v Visitor)      { v.VisitBlock(b) }
func (b *Block) statementNode()        {}
func (b *Block) TokenLiteral() string  { return b.Token.Lexeme }
func (b *Block) GetToken() token.Token { return b.Token }

// ReturnStatement represents "return;" or "return value;".
type ReturnStatement struct {
	Token token.Token // the 'return' token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// ThrowStatement represents "throw value;".
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (ts *ThrowStatement) Accept(v Visitor)      { v.VisitThrowStatement(ts) }
func (ts *ThrowStatement) statementNode()        {}
func (ts *ThrowStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *ThrowStatement) GetToken() token.Token { return ts.Token }

// ExpressionStatement is a statement that consists of a single expression.
type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

// LocalVarStatement declares a local variable: "Type name = init;".
type LocalVarStatement struct {
	Token token.Token // the variable name token
	Name  string
	Type  typesystem.Type
	Init  Expression // may be nil
}

func (lv *LocalVarStatement) Accept(v Visitor)      { v.VisitLocalVarStatement(lv) }
func (lv *LocalVarStatement) statementNode()        {}
func (lv *LocalVarStatement) TokenLiteral() string  { return lv.Token.Lexeme }
func (lv *LocalVarStatement) GetToken() token.Token { return lv.Token }

// IfStatement represents "if (cond) then else alt".
type IfStatement struct {
	Token     token.Token
	Condition Expression
	Then      Statement
	Else      Statement // may be nil
}

func (is *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// CatchClause is one "catch (A | B name) { ... }" clause.
type CatchClause struct {
	Token token.Token
	Types []typesystem.Type
	Name  string
	Body  *Block
}

// TryStatement represents try/catch/finally.
type TryStatement struct {
	Token   token.Token
	Body    *Block
	Catches []*CatchClause
	Finally *Block // may be nil
}

func (ts *TryStatement) Accept(v Visitor)      { v.VisitTryStatement(ts) }
func (ts *TryStatement) statementNode()        {}
func (ts *TryStatement) TokenLiteral() string  { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token { return ts.Token }

// CanCompleteNormally is a conservative reachability check: a statement
// cannot complete normally when every path through it ends in return or throw.
func CanCompleteNormally(s Statement) bool {
	switch st := s.(type) {
	case nil:
		return true
	case *ReturnStatement, *ThrowStatement:
		return false
	case *Block:
		for _, inner := range st.Statements {
			if !CanCompleteNormally(inner) {
				return false
			}
		}
		return true
	case *IfStatement:
		if st.Else == nil {
			return true
		}
		return CanCompleteNormally(st.Then) || CanCompleteNormally(st.Else)
	case *TryStatement:
		if st.Finally != nil && !CanCompleteNormally(st.Finally) {
			return false
		}
		if CanCompleteNormally(st.Body) {
			return true
		}
		for _, c := range st.Catches {
			if CanCompleteNormally(c.Body) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
