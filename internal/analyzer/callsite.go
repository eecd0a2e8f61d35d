package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Phase is an invocation applicability phase. Phases are tried in order and
// the first one with an applicable candidate decides for the whole call.
type Phase int

const (
	Strict Phase = iota + 1
	Loose
	Varargs
)

var phases = []Phase{Strict, Loose, Varargs}

func (p Phase) String() string {
	switch p {
	case Strict:
		return "strict"
	case Loose:
		return "loose"
	case Varargs:
		return "varargs"
	}
	return "none"
}

// Argument is one actual argument of a call site. Type is the standalone
// type of the expression; it is nil for poly expressions (lambdas, method
// references and conditionals with a poly branch), whose compatibility is
// decided per candidate.
type Argument struct {
	Expr ast.Expression
	Type typesystem.Type

	// open holds the bound set of inference variables still mentioned by
	// Type: a generic method call in argument position is typed without
	// committing its type arguments so the enclosing call can refine them.
	open *boundSet
}

// IsPoly reports whether the argument is typed against its target.
func (a Argument) IsPoly() bool { return a.Type == nil }

// CallSite is one method or constructor invocation to resolve.
type CallSite struct {
	// Receiver is the type searched for members. Nil means an unqualified
	// call, searched in From and its enclosing types.
	Receiver typesystem.Type
	Name     string
	Args     []Argument
	TypeArgs []typesystem.Type

	// Super marks "super.name(...)": the receiver is the superclass of From
	// and abstract targets are rejected.
	Super bool

	// StaticOnly is set when the receiver is a type name or the call appears
	// in a static context without a receiver.
	StaticOnly bool

	// Target is the type the result is assigned to, when the call appears in
	// an assignment or return context.
	Target typesystem.Type

	// From is the type the call appears in; nil means no access restrictions.
	From *symbols.TypeRecord
	Pos  token.Token

	// candidates replaces member lookup, for diamond constructors.
	candidates []*symbols.MethodSignature
}

// IsConstructor reports whether the site invokes a constructor.
func (s *CallSite) IsConstructor() bool { return s.Name == config.ConstructorName }

// ResolvedMethod is the outcome of a successful resolution: the selected
// member with its type arguments substituted.
type ResolvedMethod struct {
	Signature *symbols.MethodSignature
	Subst     typesystem.Subst // method type parameter key -> type argument
	Params    []typesystem.Type
	Return    typesystem.Type
	Throws    []typesystem.Type
	Phase     Phase
	Unchecked bool // an argument needed unchecked conversion
}

// finish applies s to a result computed with open inference variables.
func (rm *ResolvedMethod) finish(s typesystem.Subst) {
	if len(s) == 0 {
		return
	}
	for k, v := range rm.Subst {
		rm.Subst[k] = v.Apply(s)
	}
	rm.Params = typesystem.ApplyAll(rm.Params, s)
	rm.Return = rm.Return.Apply(s)
	rm.Throws = typesystem.ApplyAll(rm.Throws, s)
}
