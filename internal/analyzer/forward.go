package analyzer

import (
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
)

// checkForward reports a simple-name read of a field whose declaration
// does not precede the initializer being checked. Only fields of the same
// type and the same static-ness are restricted; lambda bodies inside the
// initializer count, method bodies do not.
func (c *checker) checkForward(f *symbols.FieldSymbol, pos token.Token) {
	cur := c.field
	if cur == nil || f.Owner != cur.Owner || f.IsStatic() != cur.IsStatic() {
		return
	}
	if f.Index >= cur.Index {
		c.report(newError(IllegalForwardReference, pos, "Cannot reference a field before it is defined"))
	}
}
