package parser

import (
	"fmt"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// parseModifiers consumes modifier keywords and annotations. On return the
// current token is the first token after them.
func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		switch {
		case token.IsModifier(p.curToken.Type):
			if m, ok := ast.ModifierByName(p.curToken.Lexeme); ok {
				mods |= m
			}
			p.nextToken()
		case p.curTokenIs(token.AT):
			// Annotations carry no meaning here: @Name or @Name(...).
			p.nextToken()
			p.parseQualifiedName()
			if p.peekTokenIs(token.LPAREN) {
				p.skipBalanced(token.LPAREN, token.RPAREN)
			}
			p.nextToken()
		default:
			return mods
		}
	}
}

// skipBalanced advances from the token before an opening delimiter to its
// matching closing delimiter.
func (p *Parser) skipBalanced(open, close token.TokenType) {
	depth := 0
	for {
		p.nextToken()
		switch p.curToken.Type {
		case open:
			depth++
		case close:
			depth--
		case token.EOF:
			return
		}
		if depth == 0 {
			return
		}
	}
}

// parseTypeDecl parses "[mods] class|interface Name<..> extends .. implements .. [{ members }]".
// The first returned declaration is the parsed type; member types follow.
func (p *Parser) parseTypeDecl(outer string) []*ast.TypeDecl {
	mods := p.parseModifiers()
	td := &ast.TypeDecl{Modifiers: mods, Outer: outer}
	switch p.curToken.Type {
	case token.CLASS:
		td.Kind = ast.ClassKind
	case token.INTERFACE:
		td.Kind = ast.InterfaceKind
	default:
		p.syntaxError(p.curToken, "class or interface expected")
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	td.Token = p.curToken
	td.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.LT) {
		p.nextToken()
		params, ok := p.parseTypeParams(td.Name)
		if !ok {
			return nil
		}
		td.TypeParams = params
	}
	p.PushScope(scopeOf(td.TypeParams))
	defer p.PopScope()

	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		supers, ok := p.parseTypeList()
		if !ok {
			return nil
		}
		if td.Kind == ast.InterfaceKind {
			td.Interfaces = append(td.Interfaces, supers...)
		} else {
			td.Super = supers[0]
			if len(supers) > 1 {
				p.syntaxError(p.curToken, "a class may extend only one class")
			}
		}
	}
	if p.peekTokenIs(token.IMPLEMENTS) {
		p.nextToken()
		ifaces, ok := p.parseTypeList()
		if !ok {
			return nil
		}
		td.Interfaces = append(td.Interfaces, ifaces...)
	}

	decls := []*ast.TypeDecl{td}
	if !p.peekTokenIs(token.LBRACE) {
		return decls
	}
	p.nextToken()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.syntaxError(p.curToken, "}")
			return decls
		}
		nested, ok := p.parseMember(td)
		if !ok {
			return decls
		}
		decls = append(decls, nested...)
		p.nextToken()
	}
	return decls
}

// parseTypeList parses "A, B<C>" after a keyword.
func (p *Parser) parseTypeList() ([]typesystem.Type, bool) {
	var out []typesystem.Type
	for {
		p.nextToken()
		t, ok := p.parseType()
		if !ok {
			return nil, false
		}
		out = append(out, t)
		if !p.peekTokenIs(token.COMMA) {
			return out, true
		}
		p.nextToken()
	}
}

// parseMember parses one field, method, constructor or member type
// declaration of td. On return the current token is the member's last token.
func (p *Parser) parseMember(td *ast.TypeDecl) ([]*ast.TypeDecl, bool) {
	if p.curTokenIs(token.SEMICOLON) {
		return nil, true
	}
	start := p.pos
	mods := p.parseModifiers()

	if p.curTokenIs(token.CLASS) || p.curTokenIs(token.INTERFACE) {
		p.setPos(start)
		decls := p.parseTypeDecl(td.Name)
		return decls, decls != nil
	}

	index := len(td.Methods)
	var typeParams []typesystem.TVar
	if p.curTokenIs(token.LT) {
		params, ok := p.parseTypeParams(fmt.Sprintf("%s.%d", td.Name, index))
		if !ok {
			return nil, false
		}
		typeParams = params
		p.nextToken()
	}
	p.PushScope(scopeOf(typeParams))
	defer p.PopScope()

	if p.curTokenIs(token.IDENT) && p.curToken.Lexeme == td.Name && p.peekTokenIs(token.LPAREN) {
		md := &ast.MethodDecl{
			Token:         p.curToken,
			Name:          td.Name,
			Modifiers:     mods,
			TypeParams:    typeParams,
			IsConstructor: true,
			Index:         index,
		}
		if !p.parseMethodRest(md) {
			return nil, false
		}
		td.Methods = append(td.Methods, md)
		return nil, true
	}

	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if !p.expectPeek(token.IDENT) {
		return nil, false
	}
	nameTok := p.curToken

	if p.peekTokenIs(token.LPAREN) {
		md := &ast.MethodDecl{
			Token:      nameTok,
			Name:       nameTok.Lexeme,
			Modifiers:  mods,
			TypeParams: typeParams,
			Return:     typ,
			Index:      index,
		}
		if !p.parseMethodRest(md) {
			return nil, false
		}
		td.Methods = append(td.Methods, md)
		return nil, true
	}

	if len(typeParams) > 0 {
		p.syntaxError(nameTok, "( expected")
		return nil, false
	}
	for {
		fd := &ast.FieldDecl{
			Token:     nameTok,
			Name:      nameTok.Lexeme,
			Type:      typ,
			Modifiers: mods,
			Index:     len(td.Fields),
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			fd.Init = p.parseExpression(LOWEST)
			if fd.Init == nil {
				return nil, false
			}
		}
		td.Fields = append(td.Fields, fd)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		nameTok = p.curToken
	}
	return nil, p.expectPeek(token.SEMICOLON)
}

// parseMethodRest parses "(params) [throws ..] (body | ;)" with the current
// token on the method name.
func (p *Parser) parseMethodRest(md *ast.MethodDecl) bool {
	if !p.expectPeek(token.LPAREN) {
		return false
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			p.parseModifiers()
			typ, ok := p.parseType()
			if !ok {
				return false
			}
			if p.peekTokenIs(token.ELLIPSIS) {
				p.nextToken()
				typ = typesystem.TArray{Elem: typ}
				md.Variadic = true
			}
			if !p.expectPeek(token.IDENT) {
				return false
			}
			md.Params = append(md.Params, &ast.Param{Token: p.curToken, Name: p.curToken.Lexeme, Type: typ})
			if p.peekTokenIs(token.COMMA) {
				if md.Variadic {
					p.syntaxError(p.peekToken, "the variable argument type must be the last parameter")
					return false
				}
				p.nextToken()
				continue
			}
			if !p.expectPeek(token.RPAREN) {
				return false
			}
			break
		}
	}

	if p.peekTokenIs(token.THROWS) {
		p.nextToken()
		throws, ok := p.parseTypeList()
		if !ok {
			return false
		}
		md.Throws = throws
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		md.Body = p.parseBlock()
		return md.Body != nil
	}
	return p.expectPeek(token.SEMICOLON)
}
