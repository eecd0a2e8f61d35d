package symbols

import (
	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// Lookup returns the member methods named name of a value of type t, with
// t's type arguments substituted. Raw types see erased members, wildcard
// parameterizations are captured first, type variables and intersections
// see the members of their bounds, and arrays see Object's members with a
// public clone returning the array type.
func (c *Catalog) Lookup(t typesystem.Type, name string) []*MethodSignature {
	return c.lookup(t, func(n string) bool { return n == name }, 0)
}

// Members returns every member method of a value of type t.
func (c *Catalog) Members(t typesystem.Type) []*MethodSignature {
	return c.lookup(t, func(string) bool { return true }, 0)
}

func (c *Catalog) lookup(t typesystem.Type, match func(string) bool, depth int) []*MethodSignature {
	if depth > maxSubtypeDepth {
		return nil
	}
	switch typ := t.(type) {
	case typesystem.TCon, typesystem.TApp:
		r, ok := c.RecordOf(t)
		if !ok {
			return nil
		}
		var s typesystem.Subst
		raw := false
		if app, ok := typ.(typesystem.TApp); ok {
			if typesystem.HasWildcard(app) {
				var capt typesystem.Capturer
				app = capt.Capture(app, r.TypeParams)
			}
			s = typesystem.NewSubst(r.TypeParams, app.Args)
		} else {
			raw = r.IsGeneric()
		}

		var out []*MethodSignature
		for _, name := range r.names {
			if !match(name) {
				continue
			}
			for _, m := range r.visible[name] {
				if raw {
					out = append(out, m.Erased())
				} else {
					out = append(out, m.Subst(s))
				}
			}
		}
		if r.IsInterface() {
			out = c.withObjectMembers(out, match)
		}
		return out

	case typesystem.TVar:
		bounds := typ.Bounds
		if len(bounds) == 0 {
			bounds = []typesystem.Type{objectType}
		}
		var out []*MethodSignature
		for _, b := range bounds {
			out = union(out, c.lookup(b, match, depth+1))
		}
		return out

	case typesystem.TIntersection:
		var out []*MethodSignature
		for _, it := range typ.Types {
			out = union(out, c.lookup(it, match, depth+1))
		}
		return out

	case typesystem.TArray:
		var out []*MethodSignature
		for _, m := range c.lookup(objectType, match, depth+1) {
			if m.Name == "clone" && len(m.Params) == 0 {
				v := *m
				v.Return = typ
				v.Throws = nil
				v.Modifiers = (m.Modifiers &^ ast.ModProtected) | ast.ModPublic
				out = append(out, &v)
				continue
			}
			out = append(out, m)
		}
		return out
	}
	return nil
}

// withObjectMembers adds the public methods of Object an interface does not
// override itself.
func (c *Catalog) withObjectMembers(out []*MethodSignature, match func(string) bool) []*MethodSignature {
	obj, ok := c.Resolve(config.ObjectTypeName)
	if !ok {
		return out
	}
	for _, name := range obj.names {
		if !match(name) {
			continue
		}
		for _, om := range obj.visible[name] {
			if !om.Modifiers.Has(ast.ModPublic) || om.IsStatic() {
				continue
			}
			overridden := false
			for _, m := range out {
				if IsSubsignature(m, om) {
					overridden = true
					break
				}
			}
			if !overridden {
				out = append(out, om)
			}
		}
	}
	return out
}

// union appends the methods of more that are not already in out.
func union(out, more []*MethodSignature) []*MethodSignature {
	for _, m := range more {
		dup := false
		for _, o := range out {
			if o.Decl == m.Decl && typesystem.EqualAll(o.Params, m.Params) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}

// Constructors returns the constructors of the class type t with t's type
// arguments substituted; a raw generic class yields erased constructors.
func (c *Catalog) Constructors(t typesystem.Type) []*MethodSignature {
	r, ok := c.RecordOf(t)
	if !ok {
		return nil
	}
	var out []*MethodSignature
	for _, m := range r.Constructors {
		switch typ := t.(type) {
		case typesystem.TApp:
			out = append(out, m.Subst(typesystem.NewSubst(r.TypeParams, typ.Args)))
		default:
			if r.IsGeneric() {
				out = append(out, m.Erased())
			} else {
				out = append(out, m)
			}
		}
	}
	return out
}

// DeclaredMethods returns the methods declared by id in declaration order.
func (c *Catalog) DeclaredMethods(id TypeID) []*MethodSignature {
	r := c.Record(id)
	if r == nil {
		return nil
	}
	return r.Methods
}

// HasMember reports whether a value of type t has any member method named
// name.
func (c *Catalog) HasMember(t typesystem.Type, name string) bool {
	return len(c.Lookup(t, name)) > 0
}

// LookupField finds the field name of type t, searching t's class first and
// then its supertypes breadth first. The field's type is seen through t.
func (c *Catalog) LookupField(t typesystem.Type, name string) (*FieldSymbol, bool) {
	for _, st := range c.Supertypes(t) {
		r, ok := c.RecordOf(st)
		if !ok {
			continue
		}
		for _, f := range r.Fields {
			if f.Name != name {
				continue
			}
			switch typ := st.(type) {
			case typesystem.TApp:
				return f.subst(typesystem.NewSubst(r.TypeParams, typ.Args), false), true
			default:
				return f.subst(nil, r.IsGeneric()), true
			}
		}
	}
	return nil, false
}
