package lexer

import (
	"testing"

	"github.com/funvibe/jresolve/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `List<? extends T>[] f = (x, y) -> x::foo; int... a 1L 2.5f 'c' "s\n" // c
	/* block */ a != b && c`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.IDENT, "List"},
		{token.LT, "<"},
		{token.QUESTION, "?"},
		{token.EXTENDS, "extends"},
		{token.IDENT, "T"},
		{token.GT, ">"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.IDENT, "f"},
		{token.ASSIGN, "="},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.IDENT, "x"},
		{token.DCOLON, "::"},
		{token.IDENT, "foo"},
		{token.SEMICOLON, ";"},
		{token.PRIMITIVE, "int"},
		{token.ELLIPSIS, "..."},
		{token.IDENT, "a"},
		{token.LONG, "1L"},
		{token.FLOAT, "2.5f"},
		{token.CHAR, "'c'"},
		{token.STRING, `"s\n"`},
		{token.IDENT, "a"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "b"},
		{token.AND, "&&"},
		{token.IDENT, "c"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestOrigin(t *testing.T) {
	l := New("foo\n  bar")
	l.SetOrigin("x.yaml", 10, 5)
	first := l.NextToken()
	if first.File != "x.yaml" || first.Line != 10 || first.Column != 5 {
		t.Errorf("first token at %s", first)
	}
	second := l.NextToken()
	if second.Line != 11 || second.Column != 3 {
		t.Errorf("second token at %s", second)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
		value interface{}
	}{
		{"42", token.INT, int64(42)},
		{"0x1F", token.INT, int64(31)},
		{"1_000", token.INT, int64(1000)},
		{"7l", token.LONG, int64(7)},
		{"1.5", token.DOUBLE, 1.5},
		{"2d", token.DOUBLE, 2.0},
		{"1e3", token.DOUBLE, 1000.0},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.value {
			t.Errorf("%s: got %s %v, want %s %v", tt.input, tok.Type, tok.Literal, tt.typ, tt.value)
		}
	}
}
