package symbols

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/parser"
	"github.com/funvibe/jresolve/internal/typesystem"
	"github.com/google/go-cmp/cmp"
)

func buildCatalog(t *testing.T, src string) *Catalog {
	t.Helper()
	return buildCatalogWith(t, config.DefaultOptions(), src)
}

func buildCatalogWith(t *testing.T, opts config.Options, src string) *Catalog {
	t.Helper()
	unit, errs := parser.ParseUnit(src, parser.Origin{File: "Test.java", Line: 1, Column: 1}, "p")
	for _, err := range errs {
		t.Fatalf("syntax error at %s: %s", err.Token, err.Message)
	}
	c := NewCatalog(opts)
	if err := c.DeclareUnit(unit); err != nil {
		t.Fatalf("DeclareUnit: %v", err)
	}
	if err := c.Freeze(); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return c
}

func expectNoDiagnostics(t *testing.T, c *Catalog) {
	t.Helper()
	for _, d := range c.Diagnostics() {
		t.Errorf("unexpected diagnostic at %s: %s", d.Token, d.Message)
	}
}

func messages(c *Catalog) []string {
	var out []string
	for _, d := range c.Diagnostics() {
		out = append(out, d.Message)
	}
	sort.Strings(out)
	return out
}

func signatures(c *Catalog, ms []*MethodSignature) []string {
	var out []string
	for _, m := range ms {
		out = append(out, c.Record(m.Owner).Name+"."+m.Signature(c.Record(m.Owner).Name)+":"+m.Return.String())
	}
	sort.Strings(out)
	return out
}

func TestPreludeConsistency(t *testing.T) {
	prelude := GetPrelude()
	if len(prelude.Diagnostics()) > 0 {
		for _, d := range prelude.Diagnostics() {
			t.Errorf("prelude diagnostic at %s: %s", d.Token, d.Message)
		}
	}
	if !prelude.Frozen() {
		t.Fatal("prelude is not frozen")
	}
	for _, r := range prelude.types {
		if !r.Prelude {
			t.Errorf("%s is not marked as prelude", r.Name)
		}
		for _, m := range append(append([]*MethodSignature(nil), r.Methods...), r.Constructors...) {
			types := append(append([]typesystem.Type{m.Return}, m.Params...), m.Throws...)
			for _, typ := range types {
				if err := prelude.CheckTypeRef(typ); err != nil {
					t.Errorf("%s.%s: %v", r.Name, m.Signature(r.Name), err)
				}
			}
		}
	}
	for _, name := range []string{
		config.RunnableTypeName, config.CallableTypeName, config.SupplierTypeName,
		config.ConsumerTypeName, config.FunctionTypeName, config.BiFunctionTypeName,
		config.PredicateTypeName, config.UnaryOperatorTypeName, config.IntSupplierTypeName,
		config.ComparatorTypeName,
	} {
		r, ok := prelude.Resolve(name)
		if !ok {
			t.Errorf("prelude lacks %s", name)
			continue
		}
		if !r.IsInterface() {
			t.Errorf("%s is not an interface", name)
		}
	}
}

func TestPreludeIsShared(t *testing.T) {
	c1 := buildCatalog(t, `class A implements Runnable { public void run() {} }`)
	c2 := buildCatalog(t, `class A { }`)
	r1, _ := c1.Resolve(config.ObjectTypeName)
	r2, _ := c2.Resolve(config.ObjectTypeName)
	if r1 != r2 {
		t.Error("catalogs do not share the prelude records")
	}
	if got := len(c2.Types()); got != 1 {
		t.Errorf("Types() = %d records, want 1", got)
	}
}

func TestFreezeDiscipline(t *testing.T) {
	c := buildCatalog(t, `class A {}`)
	if err := c.Freeze(); !errors.Is(err, ErrFrozen) {
		t.Errorf("second Freeze: got %v, want ErrFrozen", err)
	}
	td := &ast.TypeDecl{Name: "B"}
	if _, err := c.Declare(td, "p"); !errors.Is(err, ErrFrozen) {
		t.Errorf("Declare after Freeze: got %v, want ErrFrozen", err)
	}
	if err := c.SetClashDetector(nil); !errors.Is(err, ErrFrozen) {
		t.Errorf("SetClashDetector after Freeze: got %v, want ErrFrozen", err)
	}
}

func TestHierarchyErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "cycle",
			src:  `class A extends A {}`,
			want: []string{"Cycle detected: the type A cannot extend/implement itself or one of its own member types"},
		},
		{
			name: "unknown supertype",
			src:  `class B extends Missing {}`,
			want: []string{"Missing cannot be resolved to a type"},
		},
		{
			name: "class as superinterface",
			src:  `class C implements Number {}`,
			want: []string{"The type Number cannot be a superinterface of C; a superinterface must be an interface"},
		},
		{
			name: "interface as superclass",
			src:  `class C extends Runnable {}`,
			want: []string{"The type Runnable cannot be the superclass of C; a superclass must be a class"},
		},
		{
			name: "final superclass",
			src:  `class D extends String {}`,
			want: []string{"The type D cannot subclass the final class String"},
		},
		{
			name: "duplicate type",
			src:  `class X {} class X {}`,
			want: []string{"The type X is already defined"},
		},
		{
			name: "predefined type",
			src:  `class Object {}`,
			want: []string{"The type Object collides with a predefined type"},
		},
		{
			name: "wrong arity",
			src:  `class E implements Comparable<String, String> { }`,
			want: []string{"Incorrect number of arguments for type Comparable<T>; it cannot be parameterized with 2 arguments"},
		},
		{
			name: "bad throws",
			src:  `class F { void m() throws String {} }`,
			want: []string{"No exception of type String can be thrown; an exception type must be a subclass of Throwable"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildCatalog(t, tt.src)
			if diff := cmp.Diff(tt.want, messages(c)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupDiamondAndOverride(t *testing.T) {
	c := buildCatalog(t, `
interface I { void m(); Object n(); }
interface J extends I { String n(); }
interface K extends I {}
abstract class D implements J, K {}
class B { public void m() {} }
abstract class E extends B implements I {}
`)
	expectNoDiagnostics(t, c)

	d := typesystem.TCon{Name: "D"}
	if diff := cmp.Diff([]string{"I.m():void"}, signatures(c, c.Lookup(d, "m"))); diff != "" {
		t.Errorf("diamond lookup (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"J.n():String"}, signatures(c, c.Lookup(d, "n"))); diff != "" {
		t.Errorf("subinterface override (-want +got):\n%s", diff)
	}
	e := typesystem.TCon{Name: "E"}
	if diff := cmp.Diff([]string{"B.m():void"}, signatures(c, c.Lookup(e, "m"))); diff != "" {
		t.Errorf("class method wins (-want +got):\n%s", diff)
	}

	// The clash set keeps every inherited view.
	r, _ := c.Resolve("D")
	count := 0
	for _, m := range c.AllMethods(r.ID) {
		if m.Name == "m" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("AllMethods(D) has %d views of m, want 2", count)
	}
}

func TestLookupInterfaceSeesObjectMembers(t *testing.T) {
	c := buildCatalog(t, `interface I { void m(); }`)
	i := typesystem.TCon{Name: "I"}
	if got := signatures(c, c.Lookup(i, "toString")); len(got) != 1 || got[0] != "Object.toString():String" {
		t.Errorf("Lookup(I, toString) = %v", got)
	}
	if got := c.Lookup(i, "clone"); len(got) != 0 {
		t.Errorf("interfaces must not see protected Object.clone, got %v", signatures(c, got))
	}
}

func TestLookupSubstitution(t *testing.T) {
	c := buildCatalog(t, ``)
	str := typesystem.TCon{Name: "String"}
	list := func(arg typesystem.Type) typesystem.Type {
		return typesystem.TApp{Constructor: typesystem.TCon{Name: "List"}, Args: []typesystem.Type{arg}}
	}

	get := c.Lookup(list(str), "get")
	if len(get) != 1 || get[0].Return.String() != "String" {
		t.Fatalf("Lookup(List<String>, get) = %v", signatures(c, get))
	}

	raw := c.Lookup(typesystem.TCon{Name: "List"}, "get")
	if len(raw) != 1 || raw[0].Return.String() != "Object" || !raw[0].Raw {
		t.Errorf("raw lookup = %v", signatures(c, raw))
	}

	arrayList := typesystem.TApp{Constructor: typesystem.TCon{Name: "ArrayList"}, Args: []typesystem.Type{typesystem.TCon{Name: "Integer"}}}
	want := []string{"ArrayList.add(Integer):boolean", "ArrayList.add(int, Integer):void"}
	if diff := cmp.Diff(want, signatures(c, c.Lookup(arrayList, "add"))); diff != "" {
		t.Errorf("Lookup(ArrayList<Integer>, add) (-want +got):\n%s", diff)
	}

	wild := list(typesystem.TWildcard{Kind: typesystem.Extends, Bound: typesystem.TCon{Name: "Number"}})
	got := c.Lookup(wild, "get")
	if len(got) != 1 {
		t.Fatalf("Lookup(List<? extends Number>, get) = %v", signatures(c, got))
	}
	tv, ok := got[0].Return.(typesystem.TVar)
	if !ok || !tv.IsCapture() {
		t.Fatalf("return type %v is not a capture", got[0].Return)
	}
	if !c.IsSubtype(tv, typesystem.TCon{Name: "Number"}) {
		t.Errorf("capture %v is not a subtype of Number", tv)
	}
}

func TestLookupArrayClone(t *testing.T) {
	c := buildCatalog(t, ``)
	arr := typesystem.TArray{Elem: typesystem.Int}
	got := c.Lookup(arr, "clone")
	if len(got) != 1 {
		t.Fatalf("Lookup(int[], clone) = %v", signatures(c, got))
	}
	if got[0].Return.String() != "int[]" || !got[0].Modifiers.Has(ast.ModPublic) || len(got[0].Throws) != 0 {
		t.Errorf("array clone = %s %v throws %v", got[0].Return, got[0].Modifiers, got[0].Throws)
	}
}

func TestScenarioCatalogs(t *testing.T) {
	c := buildCatalog(t, `
class N {}
class M {}
class AA<T> { int test(T t, Number n) { return 1; } }
class BB extends AA<N> { int test(N t, Number n) { return 2; } }
class CC extends AA<M> { <U extends Number> int test(N t, U u) { return 3; } }
interface I1<E> { void method(E e); }
interface I2<E> { void method(E e); }
interface I3<E3, E4> extends I1<E3>, I2<E4> {}
class DD<T> { void foo() {} }
class EE extends DD<CC> { <U> void foo() {} }
`)
	expectNoDiagnostics(t, c)

	if diff := cmp.Diff([]string{"BB.test(N, Number):int"}, signatures(c, c.Lookup(typesystem.TCon{Name: "BB"}, "test"))); diff != "" {
		t.Errorf("BB.test (-want +got):\n%s", diff)
	}
	want := []string{"AA.test(M, Number):int", "CC.test(N, U):int"}
	if diff := cmp.Diff(want, signatures(c, c.Lookup(typesystem.TCon{Name: "CC"}, "test"))); diff != "" {
		t.Errorf("CC.test (-want +got):\n%s", diff)
	}

	i3, _ := c.Resolve("I3")
	owners := c.ErasureIndex(i3.ID)["method(Object)"]
	var names []string
	for _, id := range owners {
		names = append(names, c.Record(id).Name)
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"I1", "I2"}, names); diff != "" {
		t.Errorf("erasure index of I3 (-want +got):\n%s", diff)
	}

	if got := c.Lookup(typesystem.TCon{Name: "EE"}, "foo"); len(got) != 2 {
		t.Errorf("EE sees %d foo methods, want 2", len(got))
	}
}

func TestSubtyping(t *testing.T) {
	c := buildCatalog(t, `class Box<T extends Number> { T value; }`)
	con := func(name string) typesystem.Type { return typesystem.TCon{Name: name} }
	app := func(name string, args ...typesystem.Type) typesystem.Type {
		return typesystem.TApp{Constructor: typesystem.TCon{Name: name}, Args: args}
	}
	ext := func(b typesystem.Type) typesystem.Type {
		return typesystem.TWildcard{Kind: typesystem.Extends, Bound: b}
	}
	sup := func(b typesystem.Type) typesystem.Type {
		return typesystem.TWildcard{Kind: typesystem.Super, Bound: b}
	}
	box, _ := c.Resolve("Box")
	tvar := box.TypeParams[0]

	tests := []struct {
		s, t typesystem.Type
		want bool
	}{
		{app("ArrayList", con("String")), app("List", con("String")), true},
		{app("ArrayList", con("String")), app("List", con("Object")), false},
		{app("ArrayList", con("String")), app("List", ext(con("Object"))), true},
		{app("ArrayList", con("String")), app("Collection", sup(con("String"))), true},
		{app("List", con("Integer")), app("Iterable", ext(con("Number"))), true},
		{con("Integer"), con("Number"), true},
		{con("Integer"), app("Comparable", con("Integer")), true},
		{con("Number"), con("Integer"), false},
		{typesystem.Int, typesystem.Long, true},
		{typesystem.Long, typesystem.Int, false},
		{typesystem.Int, con("Integer"), false},
		{typesystem.TNull{}, con("String"), true},
		{typesystem.TNull{}, typesystem.Int, false},
		{typesystem.TArray{Elem: con("String")}, typesystem.TArray{Elem: con("Object")}, true},
		{typesystem.TArray{Elem: typesystem.Int}, con("Object"), true},
		{typesystem.TArray{Elem: typesystem.Int}, con("Cloneable"), true},
		{typesystem.TArray{Elem: typesystem.Int}, typesystem.TArray{Elem: con("Object")}, false},
		{con("List"), app("List", con("String")), false},
		{tvar, con("Number"), true},
		{tvar, con("Integer"), false},
		{con("Runnable"), con("Object"), true},
		{typesystem.TError{}, con("String"), true},
	}
	for _, tt := range tests {
		if got := c.IsSubtype(tt.s, tt.t); got != tt.want {
			t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.s, tt.t, got, tt.want)
		}
	}

	if !c.IsUncheckedSubtype(con("ArrayList"), app("List", con("String"))) {
		t.Error("raw ArrayList should convert to List<String> unchecked")
	}
	if c.IsUncheckedSubtype(app("ArrayList", con("String")), app("List", con("String"))) {
		t.Error("parameterized ArrayList needs no unchecked conversion")
	}
}

func TestCheckedExceptions(t *testing.T) {
	c := buildCatalog(t, `class MyEx extends Exception {} class MyRt extends IllegalStateException {}`)
	for name, want := range map[string]bool{
		"IOException":          true,
		"MyEx":                 true,
		"Exception":            true,
		"Throwable":            true,
		"MyRt":                 false,
		"Error":                false,
		"String":               false,
		"NullPointerException": false,
	} {
		if got := c.IsChecked(typesystem.TCon{Name: name}); got != want {
			t.Errorf("IsChecked(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestLeastUpperBound(t *testing.T) {
	c := buildCatalog(t, `class A {} class B extends A {} class C extends A {}`)
	con := func(name string) typesystem.Type { return typesystem.TCon{Name: name} }
	tests := []struct {
		in   []typesystem.Type
		want string
	}{
		{[]typesystem.Type{con("B"), con("C")}, "A"},
		{[]typesystem.Type{con("B"), con("A")}, "A"},
		{[]typesystem.Type{con("B"), typesystem.TNull{}}, "B"},
		{[]typesystem.Type{typesystem.Int, con("Integer")}, "Integer"},
		{[]typesystem.Type{con("Integer"), con("Double")}, "Number & Comparable<?>"},
	}
	for _, tt := range tests {
		if got := c.LeastUpperBound(tt.in).String(); got != tt.want {
			t.Errorf("lub(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSubsignature(t *testing.T) {
	c := buildCatalog(t, `
class A {
	<T> void generic(List<T> l) {}
	void raw(List l) {}
	void exact(List<String> l) {}
	<T extends Number> void bounded(T t) {}
	<U extends Number> void bounded2(U u) {}
}`)
	a, _ := c.Resolve("A")
	byName := map[string]*MethodSignature{}
	for _, m := range a.Methods {
		byName[m.Name] = m
	}
	rename := func(m *MethodSignature, name string) *MethodSignature {
		v := *m
		v.Name = name
		return &v
	}

	if !IsSubsignature(rename(byName["raw"], "x"), rename(byName["generic"], "x")) {
		t.Error("raw(List) should be a subsignature of <T> generic(List<T>)")
	}
	if IsSubsignature(rename(byName["generic"], "x"), rename(byName["raw"], "x")) {
		t.Error("<T> generic(List<T>) is not a subsignature of raw(List)")
	}
	if !OverrideEquivalent(rename(byName["generic"], "x"), rename(byName["raw"], "x")) {
		t.Error("generic and raw should be override-equivalent")
	}
	if IsSubsignature(rename(byName["exact"], "x"), rename(byName["generic"], "x")) {
		t.Error("exact(List<String>) is not a subsignature of <T> generic(List<T>)")
	}
	if !SameSignature(rename(byName["bounded"], "x"), rename(byName["bounded2"], "x")) {
		t.Error("signatures equal up to type parameter renaming should be the same")
	}
}

func TestConstructorsAndFields(t *testing.T) {
	c := buildCatalog(t, `
class A<T> { T value; static int count; }
class B extends A<String> {}
class P {}
`)
	f, ok := c.LookupField(typesystem.TCon{Name: "B"}, "value")
	if !ok || f.Type.String() != "String" {
		t.Errorf("B.value = %v, %v", f, ok)
	}
	if _, ok := c.LookupField(typesystem.TCon{Name: "B"}, "missing"); ok {
		t.Error("found a field that does not exist")
	}
	if f, ok := c.LookupField(typesystem.TCon{Name: "A"}, "value"); !ok || f.Type.String() != "Object" {
		t.Errorf("raw A.value = %v", f)
	}

	ctors := c.Constructors(typesystem.TCon{Name: "P"})
	if len(ctors) != 1 || ctors[0].Arity() != 0 || !ctors[0].IsConstructor() {
		t.Errorf("default constructor of P = %v", signatures(c, ctors))
	}

	list := typesystem.TApp{Constructor: typesystem.TCon{Name: "ArrayList"}, Args: []typesystem.Type{typesystem.TCon{Name: "String"}}}
	var params []string
	for _, m := range c.Constructors(list) {
		params = append(params, m.Signature("ArrayList"))
	}
	sort.Strings(params)
	want := []string{"ArrayList()", "ArrayList(Collection<? extends String>)", "ArrayList(int)"}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Errorf("constructors (-want +got):\n%s", diff)
	}
	for _, m := range c.Constructors(typesystem.TCon{Name: "ArrayList"}) {
		if strings.Contains(m.Signature("ArrayList"), "<") {
			t.Errorf("raw constructor %s is not erased", m.Signature("ArrayList"))
		}
	}
}

func TestCompliancePrivateInterfaceMethods(t *testing.T) {
	src := `interface I { private int helper() { return 1; } default int m() { return helper(); } }`
	tests := []struct {
		level int
		want  []string
	}{
		{8, []string{"Illegal modifier for the interface method helper(); only public, abstract, default, static and strictfp are permitted"}},
		{9, nil},
		{17, nil},
	}
	for _, tt := range tests {
		c := buildCatalogWith(t, config.DefaultOptions().WithCompliance(tt.level), src)
		if diff := cmp.Diff(tt.want, messages(c)); diff != "" {
			t.Errorf("compliance %d (-want +got):\n%s", tt.level, diff)
		}
	}
}
