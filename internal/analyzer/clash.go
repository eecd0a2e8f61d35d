package analyzer

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
)

// PairKind classifies two member methods of one type with the same erasure.
type PairKind int

const (
	PairOverride PairKind = iota
	PairDuplicate
	PairNameClash
	PairIncompatibleReturns
)

func (k PairKind) String() string {
	switch k {
	case PairOverride:
		return "override"
	case PairDuplicate:
		return "duplicate"
	case PairNameClash:
		return "name clash"
	case PairIncompatibleReturns:
		return "incompatible returns"
	}
	return "unknown"
}

// ClashDetector validates the complete member set of each declared type:
// duplicate declarations, erasure name clashes, incompatible return types
// and, when enabled, unimplemented abstract methods. It is installed on a
// catalog with SetClashDetector and runs during Freeze.
type ClashDetector struct{}

// CheckType implements symbols.ClashDetector.
func (ClashDetector) CheckType(cat *symbols.Catalog, id symbols.TypeID) []*diagnostics.DiagnosticError {
	errs := CheckMembers(cat, id)
	out := make([]*diagnostics.DiagnosticError, len(errs))
	for i, err := range errs {
		out[i] = err.Diagnostic()
	}
	return out
}

// ClassifyPair decides how m1 and m2, two members of t with the same name and
// erasure, relate.
func ClassifyPair(cat *symbols.Catalog, t *symbols.TypeRecord, m1, m2 *symbols.MethodSignature) PairKind {
	d1 := m1.Source == symbols.Declared && m1.Owner == t.ID
	d2 := m2.Source == symbols.Declared && m2.Owner == t.ID
	switch {
	case d1 && d2:
		return PairDuplicate
	case d1 || d2:
		d, o := m1, m2
		if d2 {
			d, o = m2, m1
		}
		if !symbols.IsSubsignature(d, o) {
			return PairNameClash
		}
		if cat.ReturnSubstitutable(d, o) {
			return PairOverride
		}
		return PairIncompatibleReturns
	}

	if m1.Decl == m2.Decl {
		return PairOverride
	}
	for _, d := range t.Methods {
		if symbols.IsSubsignature(d, m1) && symbols.IsSubsignature(d, m2) {
			return PairOverride
		}
	}
	if !symbols.OverrideEquivalent(m1, m2) {
		return PairNameClash
	}
	if cat.ReturnSubstitutable(m1, m2) || cat.ReturnSubstitutable(m2, m1) {
		return PairOverride
	}
	return PairIncompatibleReturns
}

// CheckMembers returns the member errors of the type id in declaration
// order.
func CheckMembers(cat *symbols.Catalog, id symbols.TypeID) []*ResolutionError {
	t := cat.Record(id)
	if t == nil {
		return nil
	}
	var errs []*ResolutionError
	seen := stringset.New()
	add := func(err *ResolutionError) {
		key := err.Pos.String() + "|" + err.Message
		if !seen.Contains(key) {
			seen.Add(key)
			errs = append(errs, err)
		}
	}

	all := cat.AllMethods(id)
	for i, m1 := range all {
		for _, m2 := range all[i+1:] {
			if m1.Name != m2.Name || m1.IsConstructor() != m2.IsConstructor() || !sameErasure(m1, m2) {
				continue
			}
			if err := pairError(cat, t, m1, m2); err != nil {
				add(err)
			}
		}
	}
	if cat.Options().ReportMissingImplementation && !t.IsAbstract() {
		for _, m := range cat.Members(t.SelfType()) {
			if m.IsAbstract() {
				add(newError(AbstractMethodNotImplemented, typePos(t),
					"The type %s must implement the inherited abstract method %s",
					t.Name, prettyprinter.Qualified(cat, m)).withMethods(m))
			}
		}
	}
	return errs
}

// sameErasure reports whether m1 and m2 erase to the same signature, either
// as seen from the type or as declared.
func sameErasure(m1, m2 *symbols.MethodSignature) bool {
	for _, k1 := range erasedKeys(m1) {
		for _, k2 := range erasedKeys(m2) {
			if k1 == k2 {
				return true
			}
		}
	}
	return false
}

func erasedKeys(m *symbols.MethodSignature) []string {
	keys := []string{m.ErasedKey()}
	if m.Decl != nil && m.Decl != m {
		keys = append(keys, m.Decl.ErasedKey())
	}
	return keys
}

func pairError(cat *symbols.Catalog, t *symbols.TypeRecord, m1, m2 *symbols.MethodSignature) *ResolutionError {
	kind := ClassifyPair(cat, t, m1, m2)
	if kind == PairOverride {
		return nil
	}
	d1 := m1.Source == symbols.Declared && m1.Owner == t.ID
	d2 := m2.Source == symbols.Declared && m2.Owner == t.ID

	if kind == PairDuplicate {
		if symbols.SameSignature(m1, m2) {
			return newError(DuplicateMethod, m2.Pos, "Duplicate method %s in type %s",
				prettyprinter.Method(cat, m2), t.Name).withMethods(m1, m2)
		}
		return newError(DuplicateMethod, m2.Pos, "Erasure of method %s is the same as another method in type %s",
			prettyprinter.Method(cat, m2), t.Name).withMethods(m1, m2)
	}

	if d1 || d2 {
		d, o := m1, m2
		if d2 {
			d, o = m2, m1
		}
		if kind == PairIncompatibleReturns {
			return newError(IncompatibleReturnTypes, d.Pos, "The return type is incompatible with %s",
				prettyprinter.Qualified(cat, o)).withMethods(d, o)
		}
		return newError(NameClash, d.Pos, "Name clash: The method %s has the same erasure as %s but does not override it",
			prettyprinter.Declared(cat, d), prettyprinter.Declared(cat, o)).withMethods(d, o)
	}

	if kind == PairIncompatibleReturns {
		return newError(IncompatibleReturnTypes, typePos(t), "The return types are incompatible for the inherited methods %s, %s",
			prettyprinter.Qualified(cat, m1), prettyprinter.Qualified(cat, m2)).withMethods(m1, m2)
	}
	return newError(NameClash, typePos(t), "Name clash: The method %s has the same erasure as %s but does not override it",
		prettyprinter.Declared(cat, m1), prettyprinter.Declared(cat, m2)).withMethods(m1, m2)
}

func typePos(t *symbols.TypeRecord) token.Token {
	if t.Decl != nil {
		return t.Decl.Token
	}
	return token.Token{}
}
