package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/parser"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/funvibe/jresolve/internal/symbols"
	"github.com/google/go-cmp/cmp"
)

type checked struct {
	unit *ast.CompilationUnit
	cat  *symbols.Catalog
	res  *Results
	sink *diagnostics.Collector
}

func check(t *testing.T, src string) *checked {
	t.Helper()
	return checkWith(t, config.DefaultOptions(), src)
}

func checkWith(t *testing.T, opts config.Options, src string) *checked {
	t.Helper()
	unit, errs := parser.ParseUnit(src, parser.Origin{File: "Test.java", Line: 1, Column: 1}, "p")
	for _, err := range errs {
		t.Fatalf("syntax error at %s: %s", err.Token, err.Message)
	}
	cat, err := BuildCatalog(opts, unit)
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	sink := diagnostics.NewCollector()
	sink.AddAll(cat.Diagnostics())
	res := NewResolver(cat, nil).CheckUnit(unit, sink)
	return &checked{unit: unit, cat: cat, res: res, sink: sink}
}

// messages returns every diagnostic message, sorted.
func (c *checked) messages() []string {
	msgs := c.sink.Messages()
	sort.Strings(msgs)
	return msgs
}

// calls renders the resolved method of every method call in source order
// as "Owner.name(params)/phase".
func (c *checked) calls() []string {
	var out []string
	ast.Inspect(c.unit, func(n ast.Node) bool {
		mc, ok := n.(*ast.MethodCall)
		if !ok {
			return true
		}
		rm, found := c.res.Calls[mc]
		if !found {
			out = append(out, mc.Name+": unresolved")
			return true
		}
		out = append(out, fmt.Sprintf("%s/%s", prettyprinter.Qualified(c.cat, rm.Signature), rm.Phase))
		return true
	})
	return out
}

// callsNamed is calls restricted to the method calls named name.
func (c *checked) callsNamed(name string) []string {
	var out []string
	for _, call := range c.calls() {
		if strings.HasPrefix(call, name+": ") || strings.Contains(call, "."+name+"(") {
			out = append(out, call)
		}
	}
	return out
}

func expectMessages(t *testing.T, c *checked, want ...string) {
	t.Helper()
	sort.Strings(want)
	got := c.messages()
	if len(want) == 0 {
		want = nil
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func expectCalls(t *testing.T, c *checked, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, c.calls()); diff != "" {
		t.Errorf("resolved calls mismatch (-want +got):\n%s", diff)
	}
}

func TestExactMatchBeatsGenericFallback(t *testing.T) {
	c := check(t, `
class N {}
class M {}
class AA<T> { int test(T t, Number n) { return 1; } }
class BB extends AA<N> { int test(N t, Number n) { return 2; } }
class CC extends AA<M> { <U extends Number> int test(N t, U u) { return 3; } }
class X {
	void run() {
		BB b = new BB();
		CC c = new CC();
		b.test(new N(), new Integer(1));
		c.test(new N(), new Integer(1));
	}
}
`)
	expectMessages(t, c)
	expectCalls(t, c, "BB.test(N, Number)/strict", "CC.test(N, U)/strict")

	var generic *ResolvedMethod
	for e, rm := range c.res.Calls {
		if mc, ok := e.(*ast.MethodCall); ok && rm.Signature.IsGeneric() {
			if mc.Name != "test" {
				t.Errorf("unexpected generic call %s", mc.Name)
			}
			generic = rm
		}
	}
	if generic == nil {
		t.Fatal("no generic call recorded")
	}
	if got := generic.Params[1].String(); got != "Integer" {
		t.Errorf("inferred U = %s, want Integer", got)
	}
}

func TestInheritedNameClash(t *testing.T) {
	c := check(t, `
interface I1<E> { void method(E e); }
interface I2<E> { void method(E e); }
interface I3<E3, E4> extends I1<E3>, I2<E4> {}
`)
	expectMessages(t, c,
		"Name clash: The method method(E) of type I1<E> has the same erasure as method(E) of type I2<E> but does not override it")
}

func TestLambdaReturnMismatch(t *testing.T) {
	c := check(t, `
interface I { String foo(); }
class X {
	I i = () -> 42;
}
`)
	expectMessages(t, c, "Type mismatch: cannot convert from int to String")

	var kinds []ErrorKind
	for _, err := range c.res.Errors {
		kinds = append(kinds, err.Kind)
	}
	if diff := cmp.Diff([]ErrorKind{TypeMismatch}, kinds); diff != "" {
		t.Errorf("error kinds (-want +got):\n%s", diff)
	}
}

func TestAmbiguityWithClash(t *testing.T) {
	c := check(t, `
class CC {}
class DD<T> { void foo() {} }
class EE extends DD<CC> { <U> void foo() {} }
class X {
	void run() {
		EE e = new EE();
		e.foo();
	}
}
`)
	expectMessages(t, c,
		"Name clash: The method foo() of type EE has the same erasure as foo() of type DD<T> but does not override it",
		"The method foo() is ambiguous for the type EE")
	expectCalls(t, c, "foo: unresolved")

	var amb *ResolutionError
	for _, err := range c.res.Errors {
		if err.Kind == Ambiguous {
			amb = err
		}
	}
	if amb == nil {
		t.Fatal("no Ambiguous error")
	}
	if len(amb.Methods) != 2 {
		t.Errorf("ambiguity lists %d candidates, want 2", len(amb.Methods))
	}
}

func TestForwardReference(t *testing.T) {
	c := check(t, `
class F {
	int a = b;
	int b = 1;
	int c = this.b;
	int d = b + 1;
	static int s = t;
	static int t = 2;
	int u = t;
	int v() { return w; }
	int w = 3;
}
`)
	expectMessages(t, c,
		"Cannot reference a field before it is defined",
		"Cannot reference a field before it is defined")
}

func TestVisibility(t *testing.T) {
	c := check(t, `
class P {
	private int hidden;
	private void secret() {}
	private P(int x) {}
	P() {}
	void own() { secret(); int h = hidden; }
	static class Inner { void peek(P p) { p.secret(); } }
}
class Q {
	void run(P p) {
		p.secret();
		int x = p.hidden;
		new P(1);
	}
}
`)
	expectMessages(t, c,
		"The constructor P(int) is not visible",
		"The field P.hidden is not visible",
		"The method secret() from the type P is not visible")
}

func TestStaticContext(t *testing.T) {
	c := check(t, `
class S {
	int field;
	void inst() {}
	static void run() {
		inst();
		int x = field;
	}
}
`)
	expectMessages(t, c,
		"Cannot make a static reference to the non-static field field",
		"Cannot make a static reference to the non-static method inst() from the type S")
}

func TestUndefinedAndNotApplicable(t *testing.T) {
	c := check(t, `
class U {
	void one(String s) {}
	void two(int a) {}
	void two(String a) {}
	void run() {
		one(1);
		two(true);
		three();
	}
}
`)
	expectMessages(t, c,
		"The method one(String) in the type U is not applicable for the arguments (int)",
		"The method three() is undefined for the type U",
		"The method two(boolean) is undefined for the type U")
}

func TestMissingImplementation(t *testing.T) {
	src := `
interface I { void m(); }
class D implements I {}
abstract class E implements I {}
`
	expectMessages(t, check(t, src), "The type D must implement the inherited abstract method I.m()")

	opts := config.DefaultOptions()
	opts.ReportMissingImplementation = false
	expectMessages(t, checkWith(t, opts, src))
}

func TestMethodBodies(t *testing.T) {
	c := check(t, `
class B {
	int noReturn() {}
	void value() { return 1; }
	String wrong() { return 1; }
	int ok(boolean b) { if (b) { return 1; } else { return 2; } }
	void cast() { Object o = "s"; String s = (String) o; Integer i = (Integer) s; }
}
`)
	expectMessages(t, c,
		"Cannot cast from String to Integer",
		"This method must return a result of type int",
		"Type mismatch: cannot convert from int to String",
		"Void methods cannot return a value")
}
