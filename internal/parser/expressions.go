package parser

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001,
			p.curToken,
			"expression too complex: recursion depth limit exceeded",
		))
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseLiteral() ast.Expression {
	lit := &ast.Literal{Token: p.curToken, Value: p.curToken.Literal}
	switch p.curToken.Type {
	case token.INT:
		lit.Type = typesystem.Int
	case token.LONG:
		lit.Type = typesystem.Long
	case token.FLOAT:
		lit.Type = typesystem.Float
	case token.DOUBLE:
		lit.Type = typesystem.Double
	case token.CHAR:
		lit.Type = typesystem.Char
	case token.TRUE:
		lit.Type, lit.Value = typesystem.Boolean, true
	case token.FALSE:
		lit.Type, lit.Value = typesystem.Boolean, false
	default:
		lit.Type = typesystem.TCon{Name: "String"}
	}
	return lit
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

// parseIdentifier handles simple names and everything that starts with one:
// "x -> ..." lambdas, unqualified calls and type-qualified method
// references such as "List<String>::size" or "String[]::new".
func (p *Parser) parseIdentifier() ast.Expression {
	if p.peekTokenIs(token.ARROW) {
		return p.parseLambda()
	}
	if p.peekTokenIs(token.LPAREN) {
		call := &ast.MethodCall{Token: p.curToken, Name: p.curToken.Lexeme}
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		call.Args = args
		return call
	}
	if p.peekTokenIs(token.LT) || (p.peekTokenIs(token.LBRACKET) && p.peekAt(2).Type == token.RBRACKET) {
		start := p.curToken
		save := p.pos
		if t, ok := p.tryParseType(); ok && p.peekTokenIs(token.DCOLON) {
			p.nextToken()
			return p.finishMethodReference(&ast.MethodReference{Token: p.curToken, Type: t}, start)
		}
		p.setPos(save)
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

// parsePrimitiveReference handles "int[]::new".
func (p *Parser) parsePrimitiveReference() ast.Expression {
	start := p.curToken
	t, ok := p.parseType()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.DCOLON) {
		return nil
	}
	return p.finishMethodReference(&ast.MethodReference{Token: p.curToken, Type: t}, start)
}

func (p *Parser) parseSuper() ast.Expression {
	start := p.curToken
	switch p.peekToken.Type {
	case token.DOT:
		p.nextToken()
		var typeArgs []typesystem.Type
		if p.peekTokenIs(token.LT) {
			p.nextToken()
			args, ok := p.parseTypeArgs()
			if !ok {
				return nil
			}
			typeArgs = args
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		call := &ast.MethodCall{Token: p.curToken, Super: true, TypeArgs: typeArgs, Name: p.curToken.Lexeme}
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		call.Args = args
		return call
	case token.DCOLON:
		p.nextToken()
		return p.finishMethodReference(&ast.MethodReference{Token: p.curToken, Super: true}, start)
	default:
		p.syntaxError(start, ". or :: expected after super")
		return nil
	}
}

func (p *Parser) parseNew() ast.Expression {
	newTok := p.curToken
	p.nextToken()

	if p.curTokenIs(token.PRIMITIVE) || (p.curTokenIs(token.IDENT) && p.isArrayCreation()) {
		elem, ok := p.parseTypeNoDims()
		if !ok {
			return nil
		}
		if !p.expectPeek(token.LBRACKET) {
			return nil
		}
		p.nextToken()
		size := p.parseExpression(LOWEST)
		if size == nil || !p.expectPeek(token.RBRACKET) {
			return nil
		}
		arr := p.parseDims(typesystem.TArray{Elem: elem}).(typesystem.TArray)
		return &ast.NewArrayExpression{Token: newTok, Type: arr, Size: size}
	}

	if !p.curTokenIs(token.IDENT) {
		p.syntaxError(p.curToken, "Type expected")
		return nil
	}
	expr := &ast.NewExpression{Token: newTok}
	if p.peekTokenIs(token.LT) && p.peekAt(2).Type == token.GT {
		expr.Type = typesystem.TCon{Name: p.parseQualifiedName()}
		expr.Diamond = true
		p.nextToken()
		p.nextToken()
	} else {
		t, ok := p.parseTypeNoDims()
		if !ok {
			return nil
		}
		expr.Type = t
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	expr.Args = args
	return expr
}

// isArrayCreation looks past a class type for '[' followed by a size.
func (p *Parser) isArrayCreation() bool {
	save := p.pos
	defer p.setPos(save)
	p.speculating++
	defer func() { p.speculating-- }()
	if _, ok := p.parseTypeNoDims(); !ok {
		return false
	}
	return p.peekTokenIs(token.LBRACKET) && p.peekAt(2).Type != token.RBRACKET
}

// parseArguments parses "(a, b)" with the current token on '('.
// On return the current token is ')'.
func (p *Parser) parseArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, true
	}
	for {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, false
		}
		return args, true
	}
}

// parseParenthesized handles lambdas with parenthesized parameters, casts
// and grouping.
func (p *Parser) parseParenthesized() ast.Expression {
	if p.isLambdaParams() {
		return p.parseLambda()
	}

	open := p.curToken
	save := p.pos
	p.nextToken()
	if t, ok := p.tryParseType(); ok && p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if p.startsCastOperand(t) {
			p.nextToken()
			operand := p.parseExpression(PREFIX)
			if operand == nil {
				return nil
			}
			return &ast.CastExpression{Token: open, Type: t, Expr: operand}
		}
	}
	p.setPos(save)

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// startsCastOperand decides whether "(T)" followed by the peek token is a
// cast. A parenthesized name followed by + or - is an operand, not a cast,
// unless the type is primitive.
func (p *Parser) startsCastOperand(t typesystem.Type) bool {
	switch p.peekToken.Type {
	case token.IDENT, token.INT, token.LONG, token.FLOAT, token.DOUBLE, token.CHAR, token.STRING,
		token.TRUE, token.FALSE, token.NULL, token.THIS, token.NEW, token.LPAREN, token.SUPER, token.BANG:
		return true
	case token.MINUS:
		return typesystem.IsPrimitive(t)
	}
	return false
}

// isLambdaParams reports whether the parenthesis at the current token is
// followed, after its matching ')', by '->'.
func (p *Parser) isLambdaParams() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].Type == token.ARROW
			}
		case token.EOF, token.SEMICOLON, token.LBRACE:
			return false
		}
	}
	return false
}

// parseLambda parses a lambda starting at its first token.
func (p *Parser) parseLambda() ast.Expression {
	start := p.curToken
	params, explicit, ok := p.parseLambdaParams()
	if !ok {
		return nil
	}
	lambda := &ast.Lambda{Token: p.curToken, Params: params, Explicit: explicit}
	p.nextToken()
	if p.curTokenIs(token.LBRACE) {
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		lambda.Body = body
	} else {
		body := p.parseExpression(LOWEST)
		if body == nil {
			return nil
		}
		lambda.Body = body
	}
	lambda.Text = p.text(start, p.curToken)
	return lambda
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseConditional(cond ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.curToken, Condition: cond}
	p.nextToken()
	expr.Then = p.parseExpression(LOWEST)
	if expr.Then == nil || !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	// Right-associative: a ? b : c ? d : e
	expr.Else = p.parseExpression(TERNARY - 1)
	if expr.Else == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseAssign(target ast.Expression) ast.Expression {
	expr := &ast.AssignExpression{Token: p.curToken, Target: target}
	switch target.(type) {
	case *ast.Identifier, *ast.FieldAccess:
	default:
		p.syntaxError(p.curToken, "the left-hand side of an assignment must be a variable")
		return nil
	}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGN - 1)
	if expr.Value == nil {
		return nil
	}
	return expr
}

// parseMemberAccess parses ".name", ".name(args)" and ".<T>name(args)".
func (p *Parser) parseMemberAccess(left ast.Expression) ast.Expression {
	var typeArgs []typesystem.Type
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		args, ok := p.parseTypeArgs()
		if !ok {
			return nil
		}
		typeArgs = args
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	nameTok := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		call := &ast.MethodCall{Token: nameTok, Receiver: left, TypeArgs: typeArgs, Name: nameTok.Lexeme}
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		call.Args = args
		return call
	}
	if typeArgs != nil {
		p.peekError(token.LPAREN)
		return nil
	}
	return &ast.FieldAccess{Token: nameTok, Receiver: left, Name: nameTok.Lexeme}
}

// parseMethodReference parses "::name" after an expression qualifier.
func (p *Parser) parseMethodReference(left ast.Expression) ast.Expression {
	ref := &ast.MethodReference{Token: p.curToken, Receiver: left}
	return p.finishMethodReference(ref, leftmostToken(left))
}

// leftmostToken returns the first source token of e.
func leftmostToken(e ast.Expression) token.Token {
	for {
		switch n := e.(type) {
		case *ast.FieldAccess:
			e = n.Receiver
		case *ast.MethodCall:
			if n.Receiver == nil {
				return n.Token
			}
			e = n.Receiver
		case *ast.InfixExpression:
			e = n.Left
		case *ast.ConditionalExpression:
			e = n.Condition
		case *ast.AssignExpression:
			e = n.Target
		default:
			return e.GetToken()
		}
	}
}

// finishMethodReference parses "[<T>] name | new" with the current token
// on '::'.
func (p *Parser) finishMethodReference(ref *ast.MethodReference, start token.Token) ast.Expression {
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		args, ok := p.parseTypeArgs()
		if !ok {
			return nil
		}
		ref.TypeArgs = args
	}
	switch p.peekToken.Type {
	case token.IDENT, token.NEW:
		p.nextToken()
		ref.Name = p.curToken.Lexeme
	default:
		p.peekError(token.IDENT)
		return nil
	}
	ref.Text = p.text(start, p.curToken)
	return ref
}
