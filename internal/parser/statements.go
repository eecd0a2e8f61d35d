package parser

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// parseBlock parses "{ statements }" with the current token on '{'.
// On return the current token is '}'.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.syntaxError(p.curToken, "}")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			if p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
				continue
			}
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	block.RBraceToken = p.curToken
	return block
}

// parseStatement parses one statement. On return the current token is the
// statement's last token. An empty statement yields nil with the current
// token on ';'.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return nil
	case token.LBRACE:
		if b := p.parseBlock(); b != nil {
			return b
		}
		return nil
	case token.RETURN:
		return p.parseReturnStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.FINAL:
		p.nextToken()
		return p.parseLocalVar()
	case token.PRIMITIVE, token.IDENT:
		if p.looksLikeLocalVar() {
			return p.parseLocalVar()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Then = p.parseStatement()
	if stmt.Then == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
		if stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	for p.peekTokenIs(token.CATCH) {
		p.nextToken()
		clause := &ast.CatchClause{Token: p.curToken}
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		p.nextToken()
		p.parseModifiers()
		for {
			t, ok := p.parseType()
			if !ok {
				return nil
			}
			clause.Types = append(clause.Types, t)
			if !p.peekTokenIs(token.PIPE) {
				break
			}
			p.nextToken()
			p.nextToken()
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		clause.Name = p.curToken.Lexeme
		if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
			return nil
		}
		if clause.Body = p.parseBlock(); clause.Body == nil {
			return nil
		}
		stmt.Catches = append(stmt.Catches, clause)
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		if stmt.Finally = p.parseBlock(); stmt.Finally == nil {
			return nil
		}
	}
	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		p.syntaxError(p.curToken, "insert \"Finally\" to complete TryStatement")
		return nil
	}
	return stmt
}

// looksLikeLocalVar reports whether the statement at the current token is a
// local variable declaration ("Type name =" or "Type name;").
func (p *Parser) looksLikeLocalVar() bool {
	save := p.pos
	defer p.setPos(save)
	if _, ok := p.tryParseType(); !ok {
		return false
	}
	if !p.peekTokenIs(token.IDENT) {
		return false
	}
	next := p.peekAt(2).Type
	return next == token.ASSIGN || next == token.SEMICOLON
}

func (p *Parser) parseLocalVar() ast.Statement {
	typ, ok := p.parseType()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt := &ast.LocalVarStatement{Token: p.curToken, Name: p.curToken.Lexeme, Type: typ}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Init = p.parseExpression(LOWEST)
		if stmt.Init == nil {
			return nil
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseLambdaParams parses the parameter part of a lambda with the current
// token on the first token of the lambda. On return the current token is '->'.
func (p *Parser) parseLambdaParams() ([]*ast.Param, bool, bool) {
	if p.curTokenIs(token.IDENT) {
		param := &ast.Param{Token: p.curToken, Name: p.curToken.Lexeme}
		if !p.expectPeek(token.ARROW) {
			return nil, false, false
		}
		return []*ast.Param{param}, false, true
	}

	// '(' params ')'
	var params []*ast.Param
	explicit := true
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true, p.expectPeek(token.ARROW)
	}
	for {
		p.nextToken()
		p.parseModifiers()
		param := &ast.Param{}
		if p.curTokenIs(token.IDENT) && (p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RPAREN)) {
			explicit = false
		} else {
			typ, ok := p.parseType()
			if !ok {
				return nil, false, false
			}
			if p.peekTokenIs(token.ELLIPSIS) {
				p.nextToken()
				typ = typesystem.TArray{Elem: typ}
			}
			param.Type = typ
			if !p.expectPeek(token.IDENT) {
				return nil, false, false
			}
		}
		param.Token = p.curToken
		param.Name = p.curToken.Lexeme
		params = append(params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, false, false
		}
		break
	}
	for _, prm := range params {
		if (prm.Type != nil) != explicit {
			p.syntaxError(prm.Token, "cannot mix implicitly and explicitly typed lambda parameters")
			return nil, false, false
		}
	}
	return params, explicit, p.expectPeek(token.ARROW)
}
