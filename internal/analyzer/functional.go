package analyzer

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/funvibe/jresolve/internal/token"
	"github.com/funvibe/jresolve/internal/typesystem"
)

// FunctionalDescriptor is the function type of a functional interface: its
// single abstract method seen through the target type.
type FunctionalDescriptor struct {
	Interface  typesystem.Type
	Method     *symbols.MethodSignature
	TypeParams []typesystem.TVar
	Params     []typesystem.Type
	Return     typesystem.Type
	Throws     []typesystem.Type
}

// Name returns the method name of the descriptor.
func (d *FunctionalDescriptor) Name() string { return d.Method.Name }

// Signature renders "apply(String)" with the descriptor's parameter types.
func (d *FunctionalDescriptor) Signature() string {
	v := *d.Method
	v.Params = d.Params
	return v.Signature("")
}

var objectMethodNames = stringset.New(config.PublicObjectMethods...)

const notFunctionalMessage = "The target type of this expression must be a functional interface"

// Describe computes the functional descriptor of target.
func (r *Resolver) Describe(target typesystem.Type) (*FunctionalDescriptor, error) {
	d, err := r.describe(target, token.Token{})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Resolver) describe(target typesystem.Type, pos token.Token) (*FunctionalDescriptor, *ResolutionError) {
	fail := func() (*FunctionalDescriptor, *ResolutionError) {
		return nil, newError(NotFunctionalInterface, pos, notFunctionalMessage).withTypes(target)
	}
	if target == nil || typesystem.IsError(target) {
		return fail()
	}

	if it, ok := target.(typesystem.TIntersection); ok {
		var found *FunctionalDescriptor
		for _, part := range it.Types {
			rec, ok := r.cat.RecordOf(part)
			if !ok || !rec.IsInterface() {
				return fail()
			}
			abstract := r.abstractMethods(part)
			if len(abstract) == 0 {
				continue
			}
			if found != nil {
				return fail()
			}
			d, err := r.describe(part, pos)
			if err != nil {
				return nil, err
			}
			found = d
		}
		if found == nil {
			return fail()
		}
		found.Interface = target
		return found, nil
	}

	rec, ok := r.cat.RecordOf(target)
	if !ok || !rec.IsInterface() {
		return fail()
	}
	if app, ok := target.(typesystem.TApp); ok && typesystem.HasWildcard(app) {
		target = nonWildcardParameterization(app, rec.TypeParams)
	}

	abstract := r.abstractMethods(target)
	if len(abstract) == 0 {
		return fail()
	}
	var chosen *symbols.MethodSignature
	for _, m := range abstract {
		ok := true
		for _, other := range abstract {
			if other == m {
				continue
			}
			if !symbols.IsSubsignature(m, other) || !r.cat.ReturnSubstitutable(m, other) {
				ok = false
				break
			}
		}
		if ok {
			chosen = m
			break
		}
	}
	if chosen == nil {
		return fail()
	}

	d := &FunctionalDescriptor{
		Interface:  target,
		Method:     chosen,
		TypeParams: chosen.TypeParams,
		Params:     chosen.Params,
		Return:     chosen.Return,
	}
	for _, t := range chosen.Throws {
		everywhere := true
		for _, other := range abstract {
			if other == chosen {
				continue
			}
			covered := false
			for _, ot := range other.Throws {
				if r.cat.IsSubtype(t, ot) {
					covered = true
					break
				}
			}
			if !covered {
				everywhere = false
				break
			}
		}
		if everywhere {
			d.Throws = append(d.Throws, t)
		}
	}
	return d, nil
}

// abstractMethods returns the abstract members of an interface type that
// count towards its functional method: public Object methods redeclared
// abstractly are exempt.
func (r *Resolver) abstractMethods(t typesystem.Type) []*symbols.MethodSignature {
	var out []*symbols.MethodSignature
	for _, m := range r.cat.Members(t) {
		if !m.IsAbstract() || m.IsStatic() || m.IsDefault() {
			continue
		}
		if r.isObjectMethod(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *Resolver) isObjectMethod(m *symbols.MethodSignature) bool {
	if !objectMethodNames.Contains(m.Name) {
		return false
	}
	for _, om := range r.cat.Lookup(typesystem.ObjectType, m.Name) {
		if om.Modifiers.Has(publicModifier) && symbols.IsSubsignature(m, om) {
			return true
		}
	}
	return false
}

// nonWildcardParameterization replaces the wildcards of a functional
// interface parameterization: "?" by the parameter's bound, "? extends U" by
// U and "? super L" by L.
func nonWildcardParameterization(app typesystem.TApp, params []typesystem.TVar) typesystem.TApp {
	args := make([]typesystem.Type, len(app.Args))
	for i, arg := range app.Args {
		w, ok := arg.(typesystem.TWildcard)
		if !ok {
			args[i] = arg
			continue
		}
		switch w.Kind {
		case typesystem.Extends, typesystem.Super:
			args[i] = w.Bound
		default:
			args[i] = typesystem.ObjectType
			if i < len(params) && len(params[i].Bounds) > 0 {
				b := params[i].Bounds[0]
				if typesystem.Mentions(b, typesystem.KeySet(params)) {
					b = typesystem.Erase(b)
				}
				args[i] = b
			}
		}
	}
	return typesystem.TApp{Constructor: app.Constructor, Args: args}
}
