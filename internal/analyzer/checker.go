package analyzer

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// scope is a chain of local variable tables.
type scope struct {
	vars   map[string]typesystem.Type
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]typesystem.Type), parent: parent}
}

func (s *scope) lookup(name string) (typesystem.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) define(name string, t typesystem.Type) {
	s.vars[name] = t
}

// handler is one exception handling context: a try statement's catch
// clauses or the throws clause of a method or lambda body.
type handler struct {
	catches  []typesystem.Type
	boundary bool // method or lambda body: nothing propagates further
	thrown   []typesystem.Type
}

// body is the method or lambda whose statements are being checked.
type body struct {
	ret    typesystem.Type // declared or descriptor return type
	lambda bool
	// returns collects the types of returned expressions (lambdas only).
	returns     []typesystem.Type
	returnExprs []ast.Expression
	// shape is set when a return does not fit the lambda's function type.
	shape bool
}

// outcomeKey identifies a poly argument checked against one target type.
type outcomeKey struct {
	expr   ast.Expression
	target string
}

// shared is the state every speculative copy of a checker shares.
type shared struct {
	counter  int
	outcomes map[outcomeKey]*CheckOutcome
}

// checker types the expressions of one method body or field initializer
// and resolves the call sites it contains.
type checker struct {
	r      *Resolver
	cat    *symbols.Catalog
	self   *symbols.TypeRecord
	static bool
	field  *symbols.FieldSymbol // initializer being checked, for forward references

	scope    *scope
	body     *body
	handlers []*handler

	errs    []*ResolutionError
	warns   []warning
	results *Results
	pending []*ResolvedMethod // results still mentioning open inference variables

	speculative bool
	shared      *shared
}

func (r *Resolver) newChecker(self *symbols.TypeRecord, static bool) *checker {
	return &checker{
		r:       r,
		cat:     r.cat,
		self:    self,
		static:  static,
		scope:   newScope(nil),
		results: newResults(),
		shared:  &shared{outcomes: make(map[outcomeKey]*CheckOutcome)},
	}
}

// fork returns a speculative copy whose findings are kept apart from c's.
func (c *checker) fork() *checker {
	return &checker{
		r:           c.r,
		cat:         c.cat,
		self:        c.self,
		static:      c.static,
		field:       c.field,
		scope:       newScope(c.scope),
		body:        c.body,
		handlers:    append([]*handler(nil), c.handlers...),
		results:     newResults(),
		speculative: true,
		shared:      c.shared,
	}
}

func (c *checker) report(err *ResolutionError) {
	c.errs = append(c.errs, err)
}

func (c *checker) warn(pos token.Token, msg string) {
	if c.r.opts.ReportUnchecked {
		c.warns = append(c.warns, warning{pos: pos, message: msg})
	}
}

// selfType is the type of "this".
func (c *checker) selfType() typesystem.Type {
	if c.self == nil {
		return typesystem.ObjectType
	}
	return c.self.SelfType()
}

// enclosing returns c.self followed by its enclosing types.
func (c *checker) enclosing() []*symbols.TypeRecord {
	var out []*symbols.TypeRecord
	for r := c.self; r != nil && len(out) <= len(c.cat.Types())+1; {
		out = append(out, r)
		if r.Outer == "" {
			break
		}
		outer, ok := c.cat.Resolve(r.Outer)
		if !ok {
			break
		}
		r = outer
	}
	return out
}

func (c *checker) freshVars(params []typesystem.TVar) ([]typesystem.TVar, typesystem.Subst) {
	return freshen(params, &c.shared.counter)
}

// close instantiates the open inference variables of t with everything
// known about them and finishes the pending results that mention them.
func (c *checker) close(t typesystem.Type, open *boundSet, target typesystem.Type) typesystem.Type {
	if open == nil || len(open.order) == 0 {
		return t
	}
	in := newInference(c.cat, open.clone(), true)
	if target != nil && !typesystem.IsVoid(target) && in.mentions(t) {
		probe := newInference(c.cat, open.clone(), true)
		if probe.compatible(t, target) {
			if s, ok := probe.resolve(); ok {
				c.finishPending(s)
				return t.Apply(s)
			}
		}
	}
	s, _ := in.resolve()
	c.finishPending(s)
	return t.Apply(s)
}

func (c *checker) finishPending(s typesystem.Subst) {
	if len(s) == 0 {
		return
	}
	var rest []*ResolvedMethod
	for _, rm := range c.pending {
		rm.finish(s)
		if mentionsInferenceVar(rm.Return) || anyMentionsInferenceVar(rm.Params) {
			rest = append(rest, rm)
		}
	}
	c.pending = rest
}

func mentionsInferenceVar(t typesystem.Type) bool {
	if t == nil {
		return false
	}
	for _, v := range t.FreeTypeVariables() {
		if len(v.Owner) > len(inferOwnerPrefix) && v.Owner[:len(inferOwnerPrefix)] == inferOwnerPrefix {
			return true
		}
	}
	return false
}

func anyMentionsInferenceVar(ts []typesystem.Type) bool {
	for _, t := range ts {
		if mentionsInferenceVar(t) {
			return true
		}
	}
	return false
}

// throws records that an exception of type t may be thrown at pos. Checked
// exceptions must be caught or declared by the enclosing body.
func (c *checker) throws(t typesystem.Type, pos token.Token) {
	if typesystem.IsError(t) {
		return
	}
	for i := len(c.handlers) - 1; i >= 0; i-- {
		h := c.handlers[i]
		h.thrown = append(h.thrown, t)
		for _, ct := range h.catches {
			if c.cat.IsSubtype(t, ct) {
				return
			}
		}
		if h.boundary {
			break
		}
	}
	if !c.cat.IsChecked(t) {
		return
	}
	c.report(newError(UnhandledException, pos, "Unhandled exception type %s", t).withTypes(t))
}

// pushBoundary starts a method or lambda body that may throw declared.
func (c *checker) pushBoundary(declared []typesystem.Type) {
	c.handlers = append(c.handlers, &handler{catches: declared, boundary: true})
}

func (c *checker) popHandler() *handler {
	h := c.handlers[len(c.handlers)-1]
	c.handlers = c.handlers[:len(c.handlers)-1]
	return h
}

func (c *checker) resolveType(name string) (*symbols.TypeRecord, bool) {
	if name == config.ThisName || name == config.SuperName {
		return nil, false
	}
	return c.cat.Resolve(name)
}
