package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/jresolve/internal/token"
)

// Lexer splits a source snippet into tokens. Positions are reported relative
// to an origin so that snippets embedded in a fixture file point back into it.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	file       string
	lineOffset int
	colOffset  int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// SetOrigin makes reported positions start at file:line:col instead of 1:1.
// The column offset only applies to the first line of the snippet.
func (l *Lexer) SetOrigin(file string, line, col int) {
	l.file = file
	if line > 0 {
		l.lineOffset = line - 1
	}
	if col > 0 {
		l.colOffset = col - 1
	}
}

// Input returns the source being scanned.
func (l *Lexer) Input() string {
	return l.input
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// Offset returns the byte offset of the current character.
func (l *Lexer) Offset() int {
	return l.position
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	start := l.position
	tok := l.nextToken()
	tok.Offset = start
	tok.End = l.position
	if tok.End > len(l.input) {
		tok.End = len(l.input)
	}
	if tok.Offset > tok.End {
		tok.Offset = tok.End
	}
	tok.File = l.file
	if tok.Line == 1 {
		tok.Column += l.colOffset
	}
	tok.Line += l.lineOffset
	return tok
}

func (l *Lexer) nextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = newToken(token.ASSIGN, l.ch, l.line, l.column)
		}
	case '+':
		tok = newToken(token.PLUS, l.ch, l.line, l.column)
	case '-':
		if l.peekChar() == '>' {
			tok = l.twoCharToken(token.ARROW)
		} else {
			tok = newToken(token.MINUS, l.ch, l.line, l.column)
		}
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.line, l.column)
	case '/':
		tok = newToken(token.SLASH, l.ch, l.line, l.column)
	case '%':
		tok = newToken(token.PERCENT, l.ch, l.line, l.column)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.NOT_EQ)
		} else {
			tok = newToken(token.BANG, l.ch, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LTE)
		} else {
			tok = newToken(token.LT, l.ch, l.line, l.column)
		}
	case '>':
		// ">>" is never produced: nested type arguments close one at a time.
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GTE)
		} else {
			tok = newToken(token.GT, l.ch, l.line, l.column)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(token.AND)
		} else {
			tok = newToken(token.AMP, l.ch, l.line, l.column)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(token.OR)
		} else {
			tok = newToken(token.PIPE, l.ch, l.line, l.column)
		}
	case '?':
		tok = newToken(token.QUESTION, l.ch, l.line, l.column)
	case ':':
		if l.peekChar() == ':' {
			tok = l.twoCharToken(token.DCOLON)
		} else {
			tok = newToken(token.COLON, l.ch, l.line, l.column)
		}
	case '.':
		if l.peekChar() == '.' && l.peekChar2() == '.' {
			line, col := l.line, l.column
			l.readChar()
			l.readChar()
			tok = token.Token{Type: token.ELLIPSIS, Lexeme: "...", Literal: "...", Line: line, Column: col}
		} else if isDigit(l.peekChar()) {
			return l.readNumber()
		} else {
			tok = newToken(token.DOT, l.ch, l.line, l.column)
		}
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case '{':
		tok = newToken(token.LBRACE, l.ch, l.line, l.column)
	case '}':
		tok = newToken(token.RBRACE, l.ch, l.line, l.column)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, l.line, l.column)
	case '@':
		tok = newToken(token.AT, l.ch, l.line, l.column)
	case '"':
		line, col := l.line, l.column
		str, err := l.readString()
		if err != nil {
			tok = token.Token{Type: token.ILLEGAL, Lexeme: "\"" + str, Literal: err.Error(), Line: line, Column: col}
		} else {
			tok = token.Token{Type: token.STRING, Lexeme: strconv.Quote(str), Literal: str, Line: line, Column: col}
		}
	case '\'':
		line, col := l.line, l.column
		start := l.position
		ch, err := l.readCharLiteral()
		if err != nil {
			tok = token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: err.Error(), Line: line, Column: col}
		} else {
			tok = token.Token{Type: token.CHAR, Lexeme: l.input[start : l.position+1], Literal: ch, Line: line, Column: col}
		}
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column}
	default:
		if isLetter(l.ch) {
			line, col := l.line, l.column
			ident := l.readIdentifier()
			tok = token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
			return tok
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	}

	l.readChar()
	return tok
}

func (l *Lexer) twoCharToken(t token.TokenType) token.Token {
	line, col := l.line, l.column
	first := l.ch
	l.readChar()
	literal := string(first) + string(l.ch)
	return token.Token{Type: t, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

// readString reads a double-quoted string literal. On return l.ch is the
// closing quote.
func (l *Lexer) readString() (string, error) {
	var sb strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case '"':
			return sb.String(), nil
		case 0, '\n':
			return sb.String(), fmt.Errorf("String literal is not properly closed by a double-quote")
		case '\\':
			l.readChar()
			sb.WriteRune(unescape(l.ch))
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func (l *Lexer) readCharLiteral() (rune, error) {
	l.readChar() // skip opening '
	if l.ch == '\'' {
		return 0, fmt.Errorf("Invalid character constant")
	}

	var char rune
	if l.ch == '\\' {
		l.readChar() // consume backslash
		char = unescape(l.ch)
	} else {
		char = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return 0, fmt.Errorf("Invalid character constant")
	}
	return char, nil
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	base := 10
	isFloat := false

	if l.ch == '0' {
		peek := l.peekChar()
		if peek == 'x' || peek == 'X' {
			l.readChar()
			l.readChar()
			base = 16
		} else if peek == 'b' || peek == 'B' {
			l.readChar()
			l.readChar()
			base = 2
		}
	}

	for {
		if base == 16 {
			if !isHexDigit(l.ch) && l.ch != '_' {
				break
			}
		} else if !isDigit(l.ch) && l.ch != '_' {
			break
		}
		l.readChar()
	}

	if base == 10 && l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if base == 10 && (l.ch == 'e' || l.ch == 'E') {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	digits := strings.ReplaceAll(l.input[position:l.position], "_", "")
	typ := token.INT
	switch l.ch {
	case 'l', 'L':
		typ = token.LONG
		l.readChar()
	case 'f', 'F':
		typ = token.FLOAT
		l.readChar()
	case 'd', 'D':
		typ = token.DOUBLE
		l.readChar()
	default:
		if isFloat {
			typ = token.DOUBLE
		}
	}
	lexeme := l.input[position:l.position]

	if typ == token.FLOAT || typ == token.DOUBLE {
		val, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: startLine, Column: startCol}
		}
		return token.Token{Type: typ, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
	}
	val, err := strconv.ParseInt(digits, 0, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "The literal " + lexeme + " is out of range", Line: startLine, Column: startCol}
	}
	return token.Token{Type: typ, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	pos2 := l.readPosition + w
	if pos2 >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos2:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' {
			if l.peekChar() == '/' {
				l.readChar() // consume first /
				l.readChar() // consume second /
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
				continue
			} else if l.peekChar() == '*' {
				l.readChar() // consume /
				l.readChar() // consume *
				for l.ch != 0 {
					if l.ch == '*' && l.peekChar() == '/' {
						l.readChar() // consume *
						l.readChar() // consume /
						break
					}
					l.readChar()
				}
				continue
			}
		}
		break
	}
}

// Tokenize scans the whole input. The final token is EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}
