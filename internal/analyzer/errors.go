package analyzer

import (
	"fmt"

	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// ErrorKind classifies a ResolutionError.
type ErrorKind int

const (
	NotApplicable ErrorKind = iota
	Undefined
	Ambiguous
	NameClash
	DuplicateMethod
	IncompatibleReturnTypes
	NotFunctionalInterface
	LambdaShapeMismatch
	UnhandledException
	IllegalForwardReference
	VisibilityError
	InvalidMethodReference
	AbstractMethodNotImplemented
	UnresolvedName
	TypeMismatch
)

var kindNames = map[ErrorKind]string{
	NotApplicable:                "NotApplicable",
	Undefined:                    "Undefined",
	Ambiguous:                    "Ambiguous",
	NameClash:                    "NameClash",
	DuplicateMethod:              "DuplicateMethod",
	IncompatibleReturnTypes:      "IncompatibleReturnTypes",
	NotFunctionalInterface:       "NotFunctionalInterface",
	LambdaShapeMismatch:          "LambdaShapeMismatch",
	UnhandledException:           "UnhandledException",
	IllegalForwardReference:      "IllegalForwardReference",
	VisibilityError:              "VisibilityError",
	InvalidMethodReference:       "InvalidMethodReference",
	AbstractMethodNotImplemented: "AbstractMethodNotImplemented",
	UnresolvedName:               "UnresolvedName",
	TypeMismatch:                 "TypeMismatch",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Code returns the diagnostic code a kind is reported with.
func (k ErrorKind) Code() diagnostics.ErrorCode {
	switch k {
	case NotApplicable:
		return diagnostics.ErrM001
	case Ambiguous:
		return diagnostics.ErrM002
	case Undefined:
		return diagnostics.ErrM003
	case VisibilityError:
		return diagnostics.ErrM004
	case UnresolvedName:
		return diagnostics.ErrM005
	case TypeMismatch:
		return diagnostics.ErrM006
	case DuplicateMethod:
		return diagnostics.ErrC001
	case NameClash:
		return diagnostics.ErrC002
	case IncompatibleReturnTypes:
		return diagnostics.ErrC003
	case AbstractMethodNotImplemented:
		return diagnostics.ErrC004
	case IllegalForwardReference:
		return diagnostics.ErrC006
	case NotFunctionalInterface:
		return diagnostics.ErrL001
	case LambdaShapeMismatch:
		return diagnostics.ErrL002
	case UnhandledException:
		return diagnostics.ErrL003
	case InvalidMethodReference:
		return diagnostics.ErrL004
	}
	return diagnostics.ErrM006
}

// ResolutionError is the failed outcome of resolving a call site, checking
// a lambda or method reference, or validating a type's members.
type ResolutionError struct {
	Kind    ErrorKind
	Pos     token.Token
	Message string
	Methods []*symbols.MethodSignature // candidates or clashing methods
	Types   []typesystem.Type          // offending types

	// abstractSuper marks a super access that selected an abstract method.
	abstractSuper bool
}

func (e *ResolutionError) Error() string {
	return e.Message
}

// Diagnostic converts the error for the diagnostics sink.
func (e *ResolutionError) Diagnostic() *diagnostics.DiagnosticError {
	return diagnostics.NewError(e.Kind.Code(), e.Pos, e.Message)
}

func newError(kind ErrorKind, pos token.Token, format string, args ...interface{}) *ResolutionError {
	return &ResolutionError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *ResolutionError) withMethods(ms ...*symbols.MethodSignature) *ResolutionError {
	e.Methods = append(e.Methods, ms...)
	return e
}

func (e *ResolutionError) withTypes(ts ...typesystem.Type) *ResolutionError {
	e.Types = append(e.Types, ts...)
	return e
}

// warning is a non-fatal finding: an unchecked conversion.
type warning struct {
	pos     token.Token
	message string
}

func (w warning) diagnostic() *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrW001, w.pos, w.message)
}
