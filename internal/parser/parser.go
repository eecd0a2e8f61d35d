package parser

import (
	"fmt"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/lexer"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 200

const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	TERNARY     // ?:
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // ==
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // . and ::
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGN,
	token.QUESTION: TERNARY,
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.DOT:      CALL,
	token.DCOLON:   CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Scope maps type variable names visible at a point to their variables.
type Scope map[string]typesystem.TVar

// Origin locates a snippet inside the file it was taken from.
type Origin struct {
	File   string
	Line   int
	Column int
}

// Parser reads declarations, statements and expressions of the supported
// Java subset. Type names that denote type variables in scope are bound to
// those variables; every other name is left as a class reference.
type Parser struct {
	toks  []token.Token
	pos   int
	input string

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
	scopes []Scope
	depth  int

	// speculating suppresses error reporting while the parser tries an
	// alternative it may back out of.
	speculating int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		toks:  l.Tokenize(),
		input: l.Input(),
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:     p.parseIdentifier,
		token.INT:       p.parseLiteral,
		token.LONG:      p.parseLiteral,
		token.FLOAT:     p.parseLiteral,
		token.DOUBLE:    p.parseLiteral,
		token.CHAR:      p.parseLiteral,
		token.STRING:    p.parseLiteral,
		token.TRUE:      p.parseLiteral,
		token.FALSE:     p.parseLiteral,
		token.NULL:      p.parseNull,
		token.THIS:      p.parseThis,
		token.SUPER:     p.parseSuper,
		token.NEW:       p.parseNew,
		token.LPAREN:    p.parseParenthesized,
		token.BANG:      p.parsePrefixExpression,
		token.MINUS:     p.parsePrefixExpression,
		token.PRIMITIVE: p.parsePrimitiveReference,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.GTE:      p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.QUESTION: p.parseConditional,
		token.ASSIGN:   p.parseAssign,
		token.DOT:      p.parseMemberAccess,
		token.DCOLON:   p.parseMethodReference,
	}

	p.setPos(0)
	return p
}

// NewFromSource creates a parser over src located at origin.
func NewFromSource(src string, origin Origin) *Parser {
	l := lexer.New(src)
	l.SetOrigin(origin.File, origin.Line, origin.Column)
	return New(l)
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

// PushScope makes the type variables of s visible to type references.
func (p *Parser) PushScope(s Scope) {
	p.scopes = append(p.scopes, s)
}

// PopScope removes the innermost scope.
func (p *Parser) PopScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) lookupTypeVar(name string) (typesystem.TVar, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if tv, ok := p.scopes[i][name]; ok {
			return tv, true
		}
	}
	return typesystem.TVar{}, false
}

func (p *Parser) setPos(pos int) {
	if pos >= len(p.toks) {
		pos = len(p.toks) - 1
	}
	p.pos = pos
	p.curToken = p.toks[pos]
	if pos+1 < len(p.toks) {
		p.peekToken = p.toks[pos+1]
	} else {
		p.peekToken = p.toks[len(p.toks)-1]
	}
}

func (p *Parser) nextToken() {
	p.setPos(p.pos + 1)
}

// peekAt returns the token n positions after the current one.
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekError(t token.TokenType) {
	p.syntaxError(p.peekToken, fmt.Sprintf("%s expected", expectedText(t)))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.syntaxError(tok, "delete this token")
}

func (p *Parser) syntaxError(tok token.Token, detail string) {
	if p.speculating > 0 {
		return
	}
	lexeme := tok.Lexeme
	if tok.Type == token.EOF {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, tok,
			fmt.Sprintf("Syntax error, insert \"%s\" to complete the snippet", detail)))
		return
	}
	if tok.Type == token.ILLEGAL {
		if msg, ok := tok.Literal.(string); ok && len(msg) > 1 {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, tok, msg))
			return
		}
	}
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, tok,
		fmt.Sprintf("Syntax error on token \"%s\", %s", lexeme, detail)))
}

func expectedText(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "Identifier"
	case token.SEMICOLON, token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.GT, token.COMMA:
		return string(t)
	}
	return string(t)
}

// failed reports whether errors were recorded since mark.
func (p *Parser) failed(mark int) bool {
	return len(p.errors) > mark
}

// text returns the source between two tokens, inclusive.
func (p *Parser) text(from, to token.Token) string {
	if from.Offset > to.End || to.End > len(p.input) {
		return from.Lexeme
	}
	return p.input[from.Offset:to.End]
}

// ParseUnit parses a sequence of type declarations.
func ParseUnit(src string, origin Origin, pkg string) (*ast.CompilationUnit, []*diagnostics.DiagnosticError) {
	p := NewFromSource(src, origin)
	unit := &ast.CompilationUnit{File: origin.File, Package: pkg}
	for !p.curTokenIs(token.EOF) {
		decls := p.parseTypeDecl("")
		if decls == nil {
			break
		}
		unit.Types = append(unit.Types, decls...)
		p.nextToken()
	}
	return unit, p.errors
}

// ParseHeader parses a type header such as
// "abstract class AA<T> extends Base<T> implements I<T>" and, when present,
// the member block that follows it. Member types declared in the block are
// returned after the header's own declaration.
func ParseHeader(src string, origin Origin) ([]*ast.TypeDecl, []*diagnostics.DiagnosticError) {
	p := NewFromSource(src, origin)
	decls := p.parseTypeDecl("")
	if decls != nil && !p.peekTokenIs(token.EOF) {
		p.syntaxError(p.peekToken, "delete this token")
	}
	return decls, p.errors
}

// ParseMembers parses field and method declarations of td and appends them.
// Member types declared in src are returned.
func ParseMembers(src string, origin Origin, td *ast.TypeDecl) ([]*ast.TypeDecl, []*diagnostics.DiagnosticError) {
	p := NewFromSource(src, origin)
	p.PushScope(scopeOf(td.TypeParams))
	var nested []*ast.TypeDecl
	for !p.curTokenIs(token.EOF) {
		inner, ok := p.parseMember(td)
		if !ok {
			break
		}
		nested = append(nested, inner...)
		p.nextToken()
	}
	p.PopScope()
	return nested, p.errors
}

// ParseType parses a single type expression with the given type variables
// in scope.
func ParseType(src string, scope Scope) (typesystem.Type, error) {
	p := NewFromSource(src, Origin{})
	p.PushScope(scope)
	t, ok := p.parseType()
	if ok && !p.peekTokenIs(token.EOF) {
		p.syntaxError(p.peekToken, "delete this token")
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return t, nil
}

// ParseExpression parses a single expression.
func ParseExpression(src string, scope Scope) (ast.Expression, error) {
	p := NewFromSource(src, Origin{})
	p.PushScope(scope)
	e := p.parseExpression(LOWEST)
	if e != nil && !p.peekTokenIs(token.EOF) {
		p.syntaxError(p.peekToken, "delete this token")
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return e, nil
}

func scopeOf(params []typesystem.TVar) Scope {
	s := make(Scope, len(params))
	for _, tp := range params {
		s[tp.Name] = tp
	}
	return s
}
