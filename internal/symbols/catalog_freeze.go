package symbols

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Freeze resolves the type hierarchy, builds every member table and runs
// the clash detector on each declared type. After Freeze the catalog is
// read-only and safe for concurrent readers.
func (c *Catalog) Freeze() error {
	if c.frozen {
		return ErrFrozen
	}
	c.checkHierarchy()
	order := c.topoOrder()
	for _, r := range order {
		c.buildMembers(r)
	}
	for _, r := range order {
		if r.Prelude {
			continue
		}
		c.checkSignatures(r)
		if c.clashes != nil {
			c.diags = append(c.diags, c.clashes.CheckType(c, r.ID)...)
		}
	}
	c.frozen = true
	return nil
}

func (r *TypeRecord) pos() token.Token {
	if r.Decl != nil {
		return r.Decl.Token
	}
	return token.Token{}
}

// checkHierarchy drops supertypes that do not exist or are of the wrong kind.
func (c *Catalog) checkHierarchy() {
	for _, r := range c.types {
		if r.ready {
			continue
		}
		if r.Super != nil {
			if sr, ok := c.checkSuper(r, r.Super); !ok {
				r.Super = nil
			} else if sr.IsInterface() {
				c.report(diagnostics.Errorf(diagnostics.ErrC005, r.pos(),
					"The type %s cannot be the superclass of %s; a superclass must be a class", sr.Name, r.Name))
				r.Super = nil
			} else if sr.Modifiers.Has(ast.ModFinal) {
				c.report(diagnostics.Errorf(diagnostics.ErrC005, r.pos(),
					"The type %s cannot subclass the final class %s", r.Name, sr.Name))
			}
		}
		var ifaces []typesystem.Type
		for _, it := range r.Interfaces {
			sr, ok := c.checkSuper(r, it)
			if !ok {
				continue
			}
			if !sr.IsInterface() {
				c.report(diagnostics.Errorf(diagnostics.ErrC005, r.pos(),
					"The type %s cannot be a superinterface of %s; a superinterface must be an interface", sr.Name, r.Name))
				continue
			}
			ifaces = append(ifaces, it)
		}
		r.Interfaces = ifaces
		if !r.IsInterface() && r.Super == nil && r.Name != config.ObjectTypeName {
			r.Super = objectType
		}
	}
}

func (c *Catalog) checkSuper(r *TypeRecord, t typesystem.Type) (*TypeRecord, bool) {
	if err := c.CheckTypeRef(t); err != nil {
		c.report(diagnostics.NewError(diagnostics.ErrC005, r.pos(), err.Error()))
		return nil, false
	}
	sr, ok := c.RecordOf(t)
	if !ok {
		c.report(diagnostics.Errorf(diagnostics.ErrC005, r.pos(),
			"%s cannot be resolved to a type", t))
		return nil, false
	}
	return sr, true
}

// topoOrder orders records so that every supertype precedes its subtypes.
// An edge closing a cycle is reported and removed.
func (c *Catalog) topoOrder() []*TypeRecord {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(c.types))
	var order []*TypeRecord

	var visit func(r *TypeRecord)
	visit = func(r *TypeRecord) {
		if r.ready {
			// Shared prelude records are never touched again.
			state[r.ID] = done
			return
		}
		state[r.ID] = visiting
		keep := func(t typesystem.Type) bool {
			sr, ok := c.RecordOf(t)
			if !ok {
				return false
			}
			switch state[sr.ID] {
			case visiting:
				c.report(diagnostics.Errorf(diagnostics.ErrC005, r.pos(),
					"Cycle detected: the type %s cannot extend/implement itself or one of its own member types", r.Name))
				return false
			case unvisited:
				visit(sr)
			}
			return true
		}
		if r.Super != nil && !keep(r.Super) {
			r.Super = objectType
			if r.Name == config.ObjectTypeName {
				r.Super = nil
			}
		}
		var ifaces []typesystem.Type
		for _, it := range r.Interfaces {
			if keep(it) {
				ifaces = append(ifaces, it)
			}
		}
		r.Interfaces = ifaces
		state[r.ID] = done
		order = append(order, r)
	}

	for _, r := range c.types {
		if state[r.ID] == unvisited {
			visit(r)
		}
	}
	return order
}

// directSuperEdges lists the supertypes a record inherits members from.
func (r *TypeRecord) directSuperEdges() []typesystem.Type {
	var supers []typesystem.Type
	if r.Super != nil {
		supers = append(supers, r.Super)
	}
	return append(supers, r.Interfaces...)
}

// buildMembers computes the clash set, the visible member table and the
// erasure index of r. Supertypes are built first.
func (c *Catalog) buildMembers(r *TypeRecord) {
	if r.ready {
		return
	}
	var inherited []*MethodSignature
	for _, st := range r.directSuperEdges() {
		sr, ok := c.RecordOf(st)
		if !ok {
			continue
		}
		c.buildMembers(sr)
		var s typesystem.Subst
		raw := false
		switch typ := st.(type) {
		case typesystem.TApp:
			s = typesystem.NewSubst(sr.TypeParams, typ.Args)
		case typesystem.TCon:
			raw = sr.IsGeneric()
		}
		for _, name := range sr.names {
			for _, m := range sr.visible[name] {
				if m.Modifiers.Has(ast.ModPrivate) {
					continue
				}
				if sr.IsInterface() && m.IsStatic() {
					continue
				}
				inherited = append(inherited, m.inheritedVia(sr.ID, s, raw))
			}
		}
	}

	r.all = make([]*MethodSignature, 0, len(r.Methods)+len(r.Constructors)+len(inherited))
	r.all = append(r.all, r.Methods...)
	r.all = append(r.all, r.Constructors...)
	r.all = append(r.all, inherited...)

	visible := append([]*MethodSignature(nil), r.Methods...)
	for _, v := range inherited {
		if c.hidden(r, v, inherited, visible) {
			continue
		}
		visible = append(visible, v)
	}

	r.visible = make(map[string][]*MethodSignature)
	r.names = nil
	for _, m := range visible {
		if _, ok := r.visible[m.Name]; !ok {
			r.names = append(r.names, m.Name)
		}
		r.visible[m.Name] = append(r.visible[m.Name], m)
	}

	r.erasure = make(map[string][]TypeID)
	for _, m := range r.all {
		key := m.ErasedKey()
		owners := r.erasure[key]
		found := false
		for _, o := range owners {
			if o == m.Owner {
				found = true
				break
			}
		}
		if !found {
			r.erasure[key] = append(owners, m.Owner)
		}
	}
	r.ready = true
}

// hidden reports whether the inherited view v is not a member of r: it is
// overridden or hidden by a declared method, already present through another
// path, implemented by a concrete superclass method, or overridden by a
// more specific inherited declaration.
func (c *Catalog) hidden(r *TypeRecord, v *MethodSignature, inherited, visible []*MethodSignature) bool {
	for _, d := range r.Methods {
		if d.Name == v.Name && IsSubsignature(d, v) {
			return true
		}
	}
	for _, w := range visible {
		if w.Source == Inherited && w.Decl == v.Decl && typesystem.EqualAll(w.Params, v.Params) {
			return true
		}
	}
	viaInterface := false
	if vr := c.Record(v.Via); vr != nil {
		viaInterface = vr.IsInterface()
	}
	for _, w := range inherited {
		if w == v || w.Decl == v.Decl || w.Name != v.Name {
			continue
		}
		wr := c.Record(w.Via)
		if wr == nil {
			continue
		}
		// Class wins: a concrete superclass method implements interface methods.
		if viaInterface && !wr.IsInterface() && !w.IsAbstract() && IsSubsignature(w, v) {
			return true
		}
		// A subinterface override hides the declaration it overrides.
		if w.Owner != v.Owner && c.ownerIsSubtype(w.Owner, v.Owner) && IsSubsignature(w, v) {
			return true
		}
	}
	return false
}

func (c *Catalog) ownerIsSubtype(sub, super TypeID) bool {
	sr, pr := c.Record(sub), c.Record(super)
	if sr == nil || pr == nil {
		return false
	}
	_, ok := c.SupertypeView(typesystem.TCon{Name: sr.Name}, pr.Name)
	return ok
}

// checkSignatures reports unknown types and wrong type-argument counts in
// the declared members of r.
func (c *Catalog) checkSignatures(r *TypeRecord) {
	check := func(t typesystem.Type, tok token.Token) {
		if t == nil {
			return
		}
		if err := c.CheckTypeRef(t); err != nil {
			c.report(diagnostics.NewError(diagnostics.ErrC005, tok, err.Error()))
		}
	}
	for _, tp := range r.TypeParams {
		for _, b := range tp.Bounds {
			check(b, r.pos())
		}
	}
	for _, f := range r.Fields {
		check(f.Type, f.Decl.Token)
	}
	methods := append(append([]*MethodSignature(nil), r.Methods...), r.Constructors...)
	for _, m := range methods {
		if r.IsInterface() && m.Modifiers.Has(ast.ModPrivate) && c.opts.Compliance < config.PrivateInterfaceMethodsLevel {
			c.report(diagnostics.Errorf(diagnostics.ErrC005, m.Pos,
				"Illegal modifier for the interface method %s; only public, abstract, default, static and strictfp are permitted",
				m.Signature(r.Name)))
		}
		for _, tp := range m.TypeParams {
			for _, b := range tp.Bounds {
				check(b, m.Pos)
			}
		}
		for _, p := range m.Params {
			check(p, m.Pos)
		}
		check(m.Return, m.Pos)
		for _, t := range m.Throws {
			check(t, m.Pos)
			if err := c.CheckTypeRef(t); err == nil && !c.IsSubtype(t, typesystem.TCon{Name: config.ThrowableTypeName}) {
				c.report(diagnostics.Errorf(diagnostics.ErrC005, m.Pos,
					"No exception of type %s can be thrown; an exception type must be a subclass of Throwable", t))
			}
		}
	}
}

// AllMethods returns the clash-detection set of a frozen type: its declared
// methods and constructors followed by every inherited view.
func (c *Catalog) AllMethods(id TypeID) []*MethodSignature {
	r := c.Record(id)
	if r == nil {
		return nil
	}
	return r.all
}

// ErasureIndex returns the (name, erased signature) -> declaring types
// multimap of a frozen type.
func (c *Catalog) ErasureIndex(id TypeID) map[string][]TypeID {
	r := c.Record(id)
	if r == nil {
		return nil
	}
	return r.erasure
}
