package parser

import (
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// parseType parses a type starting at the current token, including array
// dimensions. On return the current token is the last token of the type.
func (p *Parser) parseType() (typesystem.Type, bool) {
	t, ok := p.parseTypeNoDims()
	if !ok {
		return nil, false
	}
	return p.parseDims(t), true
}

func (p *Parser) parseDims(t typesystem.Type) typesystem.Type {
	for p.peekTokenIs(token.LBRACKET) && p.peekAt(2).Type == token.RBRACKET {
		p.nextToken()
		p.nextToken()
		t = typesystem.TArray{Elem: t}
	}
	return t
}

// parseTypeNoDims parses a primitive type, a type variable or a possibly
// parameterized class type.
func (p *Parser) parseTypeNoDims() (typesystem.Type, bool) {
	switch p.curToken.Type {
	case token.PRIMITIVE:
		prim, _ := typesystem.PrimitiveByName(p.curToken.Lexeme)
		return prim, true
	case token.IDENT:
		name := p.parseQualifiedName()
		if tv, ok := p.lookupTypeVar(name); ok {
			return tv, true
		}
		ctor := typesystem.TCon{Name: name}
		if !p.peekTokenIs(token.LT) {
			return ctor, true
		}
		p.nextToken()
		args, ok := p.parseTypeArgs()
		if !ok {
			return nil, false
		}
		if len(args) == 0 {
			// Diamond is only meaningful after "new".
			p.syntaxError(p.curToken, "Identifier expected")
			return nil, false
		}
		return typesystem.TApp{Constructor: ctor, Args: args}, true
	default:
		p.syntaxError(p.curToken, "Type expected")
		return nil, false
	}
}

// parseQualifiedName consumes "a.b.C" and returns the last segment. Packages
// are not modelled; simple names are unique.
func (p *Parser) parseQualifiedName() string {
	name := p.curToken.Lexeme
	for p.peekTokenIs(token.DOT) && p.peekAt(2).Type == token.IDENT && isLowerName(name) {
		p.nextToken()
		p.nextToken()
		name = p.curToken.Lexeme
	}
	return name
}

func isLowerName(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

// parseTypeArgs parses "<A, ? extends B>" with the current token on '<'.
// On return the current token is '>'. An empty list is a diamond.
func (p *Parser) parseTypeArgs() ([]typesystem.Type, bool) {
	args := []typesystem.Type{}
	if p.peekTokenIs(token.GT) {
		p.nextToken()
		return args, true
	}
	for {
		p.nextToken()
		arg, ok := p.parseTypeArg()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil, false
		}
		return args, true
	}
}

func (p *Parser) parseTypeArg() (typesystem.Type, bool) {
	if !p.curTokenIs(token.QUESTION) {
		return p.parseType()
	}
	switch p.peekToken.Type {
	case token.EXTENDS, token.SUPER:
		kind := typesystem.Extends
		if p.peekTokenIs(token.SUPER) {
			kind = typesystem.Super
		}
		p.nextToken()
		p.nextToken()
		bound, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return typesystem.TWildcard{Kind: kind, Bound: bound}, true
	default:
		return typesystem.TWildcard{Kind: typesystem.Unbounded}, true
	}
}

// parseTypeParams parses "<T extends A & B, U>" with the current token on
// '<'. Bounds may refer to any parameter of the list, including the one
// being declared.
func (p *Parser) parseTypeParams(owner string) ([]typesystem.TVar, bool) {
	// First pass: names, so bounds can refer to later parameters.
	shallow := Scope{}
	var names []string
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		tok := p.toks[i]
		switch tok.Type {
		case token.LT:
			depth++
			if depth == 1 && p.toks[i+1].Type == token.IDENT {
				names = append(names, p.toks[i+1].Lexeme)
			}
		case token.COMMA:
			if depth == 1 && p.toks[i+1].Type == token.IDENT {
				names = append(names, p.toks[i+1].Lexeme)
			}
		case token.GT:
			depth--
		case token.EOF:
			depth = 0
		}
		if depth == 0 {
			break
		}
	}
	for _, n := range names {
		shallow[n] = typesystem.TVar{Name: n, Owner: owner}
	}

	p.PushScope(shallow)
	defer p.PopScope()

	var params []typesystem.TVar
	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		tv := typesystem.TVar{Name: p.curToken.Lexeme, Owner: owner}
		if p.peekTokenIs(token.EXTENDS) {
			p.nextToken()
			for {
				p.nextToken()
				bound, ok := p.parseType()
				if !ok {
					return nil, false
				}
				tv.Bounds = append(tv.Bounds, bound)
				if !p.peekTokenIs(token.AMP) {
					break
				}
				p.nextToken()
			}
		}
		params = append(params, tv)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil, false
		}
		return params, true
	}
}

// tryParseType parses a type without reporting errors. The position is
// restored when it fails.
func (p *Parser) tryParseType() (typesystem.Type, bool) {
	save := p.pos
	p.speculating++
	t, ok := p.parseType()
	p.speculating--
	if !ok {
		p.setPos(save)
	}
	return t, ok
}
