package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system.
// Types are immutable values; use Equal to compare them.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// Primitive is one of the eight primitive types or void.
type Primitive struct {
	Name string
}

var (
	Boolean = Primitive{Name: "boolean"}
	Byte    = Primitive{Name: "byte"}
	Short   = Primitive{Name: "short"}
	Char    = Primitive{Name: "char"}
	Int     = Primitive{Name: "int"}
	Long    = Primitive{Name: "long"}
	Float   = Primitive{Name: "float"}
	Double  = Primitive{Name: "double"}
	Void    = Primitive{Name: "void"}
)

func (p Primitive) String() string            { return p.Name }
func (p Primitive) Apply(Subst) Type          { return p }
func (p Primitive) FreeTypeVariables() []TVar { return nil }

// IsVoid reports whether t is the void pseudo-type.
func IsVoid(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.Name == "void"
}

// IsPrimitive reports whether t is a primitive value type (void excluded).
func IsPrimitive(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.Name != "void"
}

// TCon is a reference to a class or interface without type arguments:
// either a non-generic type or the raw form of a generic one.
type TCon struct {
	Name string
}

func (t TCon) String() string            { return t.Name }
func (t TCon) Apply(Subst) Type          { return t }
func (t TCon) FreeTypeVariables() []TVar { return nil }

// TApp is a parameterized class or interface type (e.g. List<String>).
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.Name, strings.Join(args, ","))
}

func (t TApp) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TApp) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TArray is an array type.
type TArray struct {
	Elem Type
}

func (t TArray) String() string { return t.Elem.String() + "[]" }

func (t TArray) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TArray) FreeTypeVariables() []TVar { return t.Elem.FreeTypeVariables() }

// TVar is a type variable declared by a type or a method, or a capture
// variable created by capture conversion.
//
// Owner distinguishes variables of the same name declared in different
// places ("List" for List's E, "List.add" for a method variable). Bounds are
// the declared upper bounds in order; an empty list means Object. Lower is
// only set on captures of "? super X".
type TVar struct {
	Name   string
	Owner  string
	Bounds []Type
	Lower  Type
}

// Key identifies the variable inside a Subst.
func (t TVar) Key() string {
	if t.Owner == "" {
		return t.Name
	}
	return t.Owner + "#" + t.Name
}

// IsCapture reports whether t was produced by capture conversion.
func (t TVar) IsCapture() bool {
	return strings.HasPrefix(t.Name, "capture#")
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// WildcardKind tells how a wildcard is bounded.
type WildcardKind int

const (
	Unbounded WildcardKind = iota
	Extends
	Super
)

// TWildcard is a wildcard type argument (?, ? extends B, ? super B).
type TWildcard struct {
	Kind  WildcardKind
	Bound Type
}

func (t TWildcard) String() string {
	switch t.Kind {
	case Extends:
		return "? extends " + t.Bound.String()
	case Super:
		return "? super " + t.Bound.String()
	default:
		return "?"
	}
}

func (t TWildcard) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TWildcard) FreeTypeVariables() []TVar {
	if t.Bound == nil {
		return nil
	}
	return t.Bound.FreeTypeVariables()
}

// TIntersection is an intersection type (A & B), as found in type variable
// bounds and cast targets.
type TIntersection struct {
	Types []Type
}

func (t TIntersection) String() string {
	parts := make([]string, len(t.Types))
	for i, typ := range t.Types {
		parts[i] = typ.String()
	}
	return strings.Join(parts, " & ")
}

func (t TIntersection) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TIntersection) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, typ := range t.Types {
		vars = append(vars, typ.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TNull is the type of the null literal.
type TNull struct{}

func (TNull) String() string            { return "null" }
func (TNull) Apply(Subst) Type          { return TNull{} }
func (TNull) FreeTypeVariables() []TVar { return nil }

// TError is the poison type given to expressions that failed to resolve.
// It is compatible with everything so that one error does not cascade.
type TError struct{}

func (TError) String() string            { return "<error>" }
func (TError) Apply(Subst) Type          { return TError{} }
func (TError) FreeTypeVariables() []TVar { return nil }

// IsError reports whether t is (or contains at top level) the poison type.
func IsError(t Type) bool {
	_, ok := t.(TError)
	return ok
}

// IsReference reports whether values of t are references.
func IsReference(t Type) bool {
	switch t.(type) {
	case TCon, TApp, TArray, TVar, TIntersection, TNull:
		return true
	}
	return false
}

// ApplyWithCycleCheck applies substitution with cycle detection.
// This is the main entry point for substitution application.
//
// Type variables that are not substituted keep their identity but have the
// substitution applied to their bounds, so that a method variable bounded by
// a class variable is seen with the class variable replaced.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil || len(s) == 0 {
		return t
	}

	switch typ := t.(type) {
	case TVar:
		key := typ.Key()
		if visited[key] {
			return typ
		}
		if replacement, ok := s[key]; ok {
			if tv, ok := replacement.(TVar); ok && tv.Key() == key {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[key] = true
			return ApplyWithCycleCheck(replacement, s, newVisited)
		}
		if len(typ.Bounds) == 0 && typ.Lower == nil {
			return typ
		}
		newVisited := copyVisited(visited)
		newVisited[key] = true
		newBounds := make([]Type, len(typ.Bounds))
		for i, b := range typ.Bounds {
			newBounds[i] = ApplyWithCycleCheck(b, s, newVisited)
		}
		var lower Type
		if typ.Lower != nil {
			lower = ApplyWithCycleCheck(typ.Lower, s, newVisited)
		}
		return TVar{Name: typ.Name, Owner: typ.Owner, Bounds: newBounds, Lower: lower}

	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(arg, s, visited)
		}
		return TApp{Constructor: typ.Constructor, Args: newArgs}

	case TArray:
		return TArray{Elem: ApplyWithCycleCheck(typ.Elem, s, visited)}

	case TWildcard:
		if typ.Bound == nil {
			return typ
		}
		bound := ApplyWithCycleCheck(typ.Bound, s, visited)
		// A wildcard bounded by a substituted wildcard collapses to it:
		// ? extends T with T := ? extends Number becomes ? extends Number.
		if w, ok := bound.(TWildcard); ok {
			if w.Kind == typ.Kind || w.Kind == Unbounded {
				return w
			}
			return TWildcard{Kind: Unbounded}
		}
		return TWildcard{Kind: typ.Kind, Bound: bound}

	case TIntersection:
		newTypes := make([]Type, len(typ.Types))
		for i, it := range typ.Types {
			newTypes[i] = ApplyWithCycleCheck(it, s, visited)
		}
		return TIntersection{Types: newTypes}

	default:
		return t
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m)+1)
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// Subst is a mapping from type variable keys to types.
type Subst map[string]Type

// NewSubst pairs vars with args. Extra entries on either side are ignored.
func NewSubst(vars []TVar, args []Type) Subst {
	s := make(Subst, len(vars))
	for i, v := range vars {
		if i < len(args) {
			s[v.Key()] = args[i]
		}
	}
	return s
}

// Compose combines two substitutions: applying the result is the same as
// applying s2 and then s1.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v.Apply(s1)
	}
	for k, v := range s1 {
		if _, ok := subst[k]; !ok {
			subst[k] = v
		}
	}
	return subst
}

// ApplyAll applies s to every type of ts.
func ApplyAll(ts []Type, s Subst) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = t.Apply(s)
	}
	return out
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Key()] {
			seen[v.Key()] = true
			unique = append(unique, v)
		}
	}
	return unique
}
