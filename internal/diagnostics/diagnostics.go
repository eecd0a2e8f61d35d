package diagnostics

import (
	"fmt"

	"github.com/funvibe/jresolve/internal/token"
)

// ErrorCode identifies a class of diagnostic.
//
// F-codes are fixture loading problems, P-codes come from the fixture
// snippet parser,
// C-codes are reported while the declaration catalog is built,
// M-codes by method resolution, L-codes by lambda and method reference
// checking, W-codes are warnings.
type ErrorCode string

const (
	// Fixtures
	ErrF001 ErrorCode = "F001" // Fixture cannot be read or decoded

	// Parser
	ErrP001 ErrorCode = "P001" // Syntax error

	// Catalog
	ErrC001 ErrorCode = "C001" // Duplicate method / same erasure in one type
	ErrC002 ErrorCode = "C002" // Name clash
	ErrC003 ErrorCode = "C003" // Incompatible return types
	ErrC004 ErrorCode = "C004" // Abstract method not implemented
	ErrC005 ErrorCode = "C005" // Hierarchy error (unknown or cyclic supertype)
	ErrC006 ErrorCode = "C006" // Illegal forward reference

	// Method resolution
	ErrM001 ErrorCode = "M001" // Not applicable
	ErrM002 ErrorCode = "M002" // Ambiguous
	ErrM003 ErrorCode = "M003" // Undefined method / constructor
	ErrM004 ErrorCode = "M004" // Not visible
	ErrM005 ErrorCode = "M005" // Unresolved name
	ErrM006 ErrorCode = "M006" // Type mismatch

	// Functional interfaces
	ErrL001 ErrorCode = "L001" // Not a functional interface
	ErrL002 ErrorCode = "L002" // Lambda shape mismatch
	ErrL003 ErrorCode = "L003" // Unhandled exception
	ErrL004 ErrorCode = "L004" // Invalid method reference

	// Warnings
	ErrW001 ErrorCode = "W001" // Unchecked conversion
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// Severity returns the default severity for a code.
func (c ErrorCode) Severity() Severity {
	if len(c) > 0 && c[0] == 'W' {
		return SeverityWarning
	}
	return SeverityError
}

// DiagnosticError is a single reported problem. Message is already rendered.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Message  string
	Severity Severity
}

// NewError creates a diagnostic with a rendered message.
func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Token:    tok,
		File:     tok.File,
		Message:  msg,
		Severity: code.Severity(),
	}
}

// Errorf creates a diagnostic whose message is formatted from format and args.
func Errorf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

func (e *DiagnosticError) Error() string {
	return e.Message
}

// Format renders the diagnostic the way the CLI prints it:
// file:line:col: SEVERITY [code] message
func (e *DiagnosticError) Format() string {
	loc := e.Token.String()
	if e.File != "" && e.Token.File == "" && e.Token.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Token.Line, e.Token.Column)
	}
	return fmt.Sprintf("%s: %s [%s] %s", loc, e.Severity, e.Code, e.Message)
}
