package typesystem

import "github.com/funvibe/jresolve/internal/config"

// primitiveSupertypes lists the direct supertypes of each primitive type.
var primitiveSupertypes = map[string][]string{
	"byte":  {"short"},
	"short": {"int"},
	"char":  {"int"},
	"int":   {"long"},
	"long":  {"float"},
	"float": {"double"},
}

var primitivesByName = map[string]Primitive{
	"boolean": Boolean,
	"byte":    Byte,
	"short":   Short,
	"char":    Char,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"void":    Void,
}

// PrimitiveByName returns the primitive type named name.
func PrimitiveByName(name string) (Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// PrimitiveWidens reports whether from is converted to to by identity or
// widening primitive conversion. This is also primitive subtyping.
func PrimitiveWidens(from, to Primitive) bool {
	if from.Name == to.Name {
		return true
	}
	for _, up := range primitiveSupertypes[from.Name] {
		if PrimitiveWidens(Primitive{Name: up}, to) {
			return true
		}
	}
	return false
}

// Box returns the wrapper class of p.
func Box(p Primitive) (TCon, bool) {
	name, ok := config.Boxing[p.Name]
	if !ok {
		return TCon{}, false
	}
	return TCon{Name: name}, true
}

// Unbox returns the primitive type wrapped by t, if t is a wrapper class.
func Unbox(t Type) (Primitive, bool) {
	c, ok := t.(TCon)
	if !ok {
		return Primitive{}, false
	}
	for prim, wrapper := range config.Boxing {
		if wrapper == c.Name {
			return primitivesByName[prim], true
		}
	}
	return Primitive{}, false
}

// BoxIfPrimitive boxes primitive types and returns other types unchanged.
func BoxIfPrimitive(t Type) Type {
	if p, ok := t.(Primitive); ok {
		if boxed, ok := Box(p); ok {
			return boxed
		}
	}
	return t
}
