package diagnostics

import (
	"testing"

	"github.com/funvibe/jresolve/internal/token"
)

func TestNewErrorKeepsMessage(t *testing.T) {
	tok := token.Token{File: "A.java", Line: 3, Column: 7}
	tests := []struct {
		name string
		err  *DiagnosticError
		want string
	}{
		{"verbatim percent", NewError(ErrC005, tok, "100% of %s cannot be resolved"), "A.java:3:7: ERROR [C005] 100% of %s cannot be resolved"},
		{"formatted", Errorf(ErrM003, tok, "The method %s%s is undefined for the type %s", "x", "()", "A"), "A.java:3:7: ERROR [M003] The method x() is undefined for the type A"},
		{"warning", NewError(ErrW001, token.Token{}, "Type safety"), "-: WARNING [W001] Type safety"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectorOrder(t *testing.T) {
	c := NewCollector()
	at := func(line, col int) token.Token { return token.Token{File: "A.java", Line: line, Column: col} }
	c.Add(NewError(ErrM002, at(4, 1), "second"))
	c.Add(NewError(ErrC001, at(2, 5), "first"))
	c.Add(NewError(ErrM002, at(4, 1), "second"))
	c.Add(nil)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	got := c.Messages()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("Messages() = %q, want [first second]", got)
	}
}
