package analyzer

import (
	"testing"

	"github.com/funvibe/jresolve/internal/symbols"
)

// pairOf returns the first two methods named name among the members of
// typeName that share an erasure.
func pairOf(t *testing.T, cat *symbols.Catalog, typeName, name string) (*symbols.TypeRecord, *symbols.MethodSignature, *symbols.MethodSignature) {
	t.Helper()
	r, ok := cat.Resolve(typeName)
	if !ok {
		t.Fatalf("type %s not declared", typeName)
	}
	all := cat.AllMethods(r.ID)
	for i, m1 := range all {
		for _, m2 := range all[i+1:] {
			if m1.Name == name && m2.Name == name && sameErasure(m1, m2) {
				return r, m1, m2
			}
		}
	}
	t.Fatalf("%s has no pair of %s methods with the same erasure", typeName, name)
	return nil, nil, nil
}

func TestClassifyPair(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		typeName string
		method   string
		want     PairKind
		msg      string
	}{
		{
			name:     "override",
			src:      `class A { void m(String s) {} } class B extends A { void m(String s) {} }`,
			typeName: "B",
			method:   "m",
			want:     PairOverride,
		},
		{
			name:     "duplicate",
			src:      `class A { void m(int a) {} void m(int b) {} }`,
			typeName: "A",
			method:   "m",
			want:     PairDuplicate,
			msg:      "Duplicate method m(int) in type A",
		},
		{
			name:     "duplicate erasure",
			src:      `class A { void m(List<String> a) {} void m(List<Integer> b) {} }`,
			typeName: "A",
			method:   "m",
			want:     PairDuplicate,
			msg:      "Erasure of method m(List<Integer>) is the same as another method in type A",
		},
		{
			name:     "incompatible return",
			src:      `class A { int m() { return 1; } } class B extends A { String m() { return null; } }`,
			typeName: "B",
			method:   "m",
			want:     PairIncompatibleReturns,
			msg:      "The return type is incompatible with A.m()",
		},
		{
			name:     "declared name clash",
			src:      `class A<T> { void m(T t) {} } class B extends A<String> { void m(Object o) {} }`,
			typeName: "B",
			method:   "m",
			want:     PairNameClash,
			msg:      "Name clash: The method m(Object) of type B has the same erasure as m(T) of type A<T> but does not override it",
		},
		{
			name:     "inherited returns",
			src:      `interface I { int m(); } interface J { String m(); } interface K extends I, J {}`,
			typeName: "K",
			method:   "m",
			want:     PairIncompatibleReturns,
			msg:      "The return types are incompatible for the inherited methods I.m(), J.m()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src)
			r, m1, m2 := pairOf(t, c.cat, tt.typeName, tt.method)
			if got := ClassifyPair(c.cat, r, m1, m2); got != tt.want {
				t.Errorf("ClassifyPair = %s, want %s", got, tt.want)
			}
			if tt.msg == "" {
				expectMessages(t, c)
				return
			}
			expectMessages(t, c, tt.msg)
		})
	}
}

func TestCheckMembersIsDeduplicated(t *testing.T) {
	c := check(t, `
interface I1<E> { void method(E e); }
interface I2<E> { void method(E e); }
interface I3<E3, E4> extends I1<E3>, I2<E4> {}
interface I4<E5, E6> extends I3<E5, E6> {}
`)
	for _, name := range []string{"I3", "I4"} {
		r, _ := c.cat.Resolve(name)
		if errs := CheckMembers(c.cat, r.ID); len(errs) != 1 || errs[0].Kind != NameClash {
			t.Errorf("CheckMembers(%s) = %v, want one name clash", name, errs)
		}
	}
}
