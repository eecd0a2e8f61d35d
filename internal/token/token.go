package token

import "fmt"

type TokenType string

// Token marks a source location. Nodes built by the parser carry the token
// they start with; diagnostics are reported at it.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	File    string
	Line    int
	Column  int

	// Offset and End delimit the token's text in the scanned input.
	Offset int
	End    int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"    // 1, 0x1F
	LONG   TokenType = "LONG"   // 1L
	FLOAT  TokenType = "FLOAT"  // 1.5f
	DOUBLE TokenType = "DOUBLE" // 1.5
	CHAR   TokenType = "CHAR"   // 'c'
	STRING TokenType = "STRING" // "s"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"
	LT       TokenType = "<"
	GT       TokenType = ">"
	LTE      TokenType = "<="
	GTE      TokenType = ">="
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	AND      TokenType = "&&"
	OR       TokenType = "||"
	AMP      TokenType = "&"
	PIPE     TokenType = "|"
	QUESTION TokenType = "?"
	COLON    TokenType = ":"
	DCOLON   TokenType = "::"
	ARROW    TokenType = "->"
	ELLIPSIS TokenType = "..."

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	AT        TokenType = "@"

	// Keywords
	CLASS      TokenType = "CLASS"
	INTERFACE  TokenType = "INTERFACE"
	EXTENDS    TokenType = "EXTENDS"
	IMPLEMENTS TokenType = "IMPLEMENTS"
	THROWS     TokenType = "THROWS"
	RETURN     TokenType = "RETURN"
	THROW      TokenType = "THROW"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	TRY        TokenType = "TRY"
	CATCH      TokenType = "CATCH"
	FINALLY    TokenType = "FINALLY"
	NEW        TokenType = "NEW"
	THIS       TokenType = "THIS"
	SUPER      TokenType = "SUPER"
	NULL       TokenType = "NULL"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	INSTANCEOF TokenType = "INSTANCEOF"

	// Modifiers
	PUBLIC    TokenType = "PUBLIC"
	PROTECTED TokenType = "PROTECTED"
	PRIVATE   TokenType = "PRIVATE"
	STATIC    TokenType = "STATIC"
	ABSTRACT  TokenType = "ABSTRACT"
	DEFAULT   TokenType = "DEFAULT"
	FINAL     TokenType = "FINAL"

	// Primitive type keywords
	PRIMITIVE TokenType = "PRIMITIVE"
)

var keywords = map[string]TokenType{
	"class":      CLASS,
	"interface":  INTERFACE,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"throws":     THROWS,
	"return":     RETURN,
	"throw":      THROW,
	"if":         IF,
	"else":       ELSE,
	"try":        TRY,
	"catch":      CATCH,
	"finally":    FINALLY,
	"new":        NEW,
	"this":       THIS,
	"super":      SUPER,
	"null":       NULL,
	"true":       TRUE,
	"false":      FALSE,
	"instanceof": INSTANCEOF,
	"public":     PUBLIC,
	"protected":  PROTECTED,
	"private":    PRIVATE,
	"static":     STATIC,
	"abstract":   ABSTRACT,
	"default":    DEFAULT,
	"final":      FINAL,
	"boolean":    PRIMITIVE,
	"byte":       PRIMITIVE,
	"short":      PRIMITIVE,
	"char":       PRIMITIVE,
	"int":        PRIMITIVE,
	"long":       PRIMITIVE,
	"float":      PRIMITIVE,
	"double":     PRIMITIVE,
	"void":       PRIMITIVE,
}

// LookupIdent returns the keyword type of ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsModifier reports whether t is a member modifier keyword.
func IsModifier(t TokenType) bool {
	switch t {
	case PUBLIC, PROTECTED, PRIVATE, STATIC, ABSTRACT, DEFAULT, FINAL:
		return true
	}
	return false
}

// IsValid reports whether the token carries a real position.
func (t Token) IsValid() bool {
	return t.Line > 0
}

func (t Token) String() string {
	if !t.IsValid() {
		return "-"
	}
	if t.File != "" {
		return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// Before orders tokens by line, then column.
func (t Token) Before(o Token) bool {
	if t.Line != o.Line {
		return t.Line < o.Line
	}
	return t.Column < o.Column
}
