package parser

import (
	"strings"
	"testing"

	"github.com/funvibe/jresolve/internal/ast"
	"github.com/funvibe/jresolve/internal/diagnostics"
	"github.com/funvibe/jresolve/internal/typesystem"
	"github.com/google/go-cmp/cmp"
)

func expectNoErrors(t *testing.T, errs []*diagnostics.DiagnosticError) {
	t.Helper()
	for _, err := range errs {
		t.Errorf("unexpected error at %s: %s", err.Token, err.Message)
	}
}

func parseUnit(t *testing.T, src string) *ast.CompilationUnit {
	t.Helper()
	unit, errs := ParseUnit(src, Origin{File: "Test.java", Line: 1, Column: 1}, "p")
	expectNoErrors(t, errs)
	return unit
}

func TestParseClassHeader(t *testing.T) {
	unit := parseUnit(t, `
abstract class AA<T extends Comparable<T>, U> extends Base<T> implements I<U>, J {
	T value;
	abstract <V extends T> V pick(T a, List<? super V> b, U... rest) throws IOException;
	AA(T v) { this.value = v; }
}`)
	if len(unit.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(unit.Types))
	}
	td := unit.Types[0]
	if td.Name != "AA" || td.Kind != ast.ClassKind || !td.Modifiers.Has(ast.ModAbstract) {
		t.Errorf("unexpected header %s %s %v", td.Kind, td.Name, td.Modifiers)
	}
	if got := td.TypeParams[0].Bounds[0].String(); got != "Comparable<T>" {
		t.Errorf("bound of T = %s", got)
	}
	if td.Super.String() != "Base<T>" {
		t.Errorf("super = %s", td.Super)
	}
	var ifaces []string
	for _, i := range td.Interfaces {
		ifaces = append(ifaces, i.String())
	}
	if diff := cmp.Diff([]string{"I<U>", "J"}, ifaces); diff != "" {
		t.Errorf("interfaces (-want +got):\n%s", diff)
	}

	if len(td.Fields) != 1 || td.Fields[0].Name != "value" {
		t.Fatalf("fields = %+v", td.Fields)
	}
	if tv, ok := td.Fields[0].Type.(typesystem.TVar); !ok || tv.Owner != "AA" {
		t.Errorf("field type %#v is not bound to AA's T", td.Fields[0].Type)
	}

	pick := td.Methods[0]
	if pick.Name != "pick" || !pick.Variadic || pick.Body != nil {
		t.Errorf("unexpected method %s variadic=%v", pick.Name, pick.Variadic)
	}
	if len(pick.TypeParams) != 1 || pick.TypeParams[0].Owner != "AA.0" {
		t.Fatalf("type params = %+v", pick.TypeParams)
	}
	var params []string
	for _, p := range pick.ParamTypes() {
		params = append(params, p.String())
	}
	if diff := cmp.Diff([]string{"T", "List<? super V>", "U[]"}, params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if len(pick.Throws) != 1 || pick.Throws[0].String() != "IOException" {
		t.Errorf("throws = %v", pick.Throws)
	}

	ctor := td.Methods[1]
	if !ctor.IsConstructor || ctor.Body == nil || len(ctor.Body.Statements) != 1 {
		t.Errorf("constructor not parsed: %+v", ctor)
	}
}

func TestRecursiveTypeParameterBound(t *testing.T) {
	unit := parseUnit(t, "class E<T extends E<T>> {}")
	tp := unit.Types[0].TypeParams[0]
	app, ok := tp.Bounds[0].(typesystem.TApp)
	if !ok {
		t.Fatalf("bound is %T", tp.Bounds[0])
	}
	inner, ok := app.Args[0].(typesystem.TVar)
	if !ok || inner.Key() != tp.Key() {
		t.Errorf("inner T = %#v, want a reference to %s", app.Args[0], tp.Key())
	}
}

func TestNestedTypes(t *testing.T) {
	unit := parseUnit(t, `
class Outer {
	interface Inner { void run(); }
	static class Impl implements Inner { public void run() {} }
}
interface Other {}`)
	var names []string
	for _, td := range unit.Types {
		names = append(names, td.Name+"/"+td.Outer)
	}
	if diff := cmp.Diff([]string{"Outer/", "Inner/Outer", "Impl/Outer", "Other/"}, names); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
}

func TestParseHeaderAndMembers(t *testing.T) {
	decls, errs := ParseHeader("class BB<N> extends AA<N>", Origin{File: "f.yaml", Line: 3, Column: 11})
	expectNoErrors(t, errs)
	td := decls[0]
	if td.Token.Line != 3 || td.Token.Column != 17 {
		t.Errorf("name token at %d:%d, want 3:17", td.Token.Line, td.Token.Column)
	}
	_, errs = ParseMembers("int test(N n, Number x) { return 2; }\nstatic int count;", Origin{File: "f.yaml", Line: 5, Column: 1}, td)
	expectNoErrors(t, errs)
	if len(td.Methods) != 1 || len(td.Fields) != 1 {
		t.Fatalf("got %d methods and %d fields", len(td.Methods), len(td.Fields))
	}
	if tv, ok := td.Methods[0].Params[0].Type.(typesystem.TVar); !ok || tv.Owner != "BB" {
		t.Errorf("parameter type %#v is not bound to BB's N", td.Methods[0].Params[0].Type)
	}
	if !td.Fields[0].Modifiers.Has(ast.ModStatic) {
		t.Errorf("field modifiers = %v", td.Fields[0].Modifiers)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int", "int"},
		{"String[][]", "String[][]"},
		{"Map<K, ? extends List<V>>[]", "Map<K,? extends List<V>>[]"},
		{"java.util.List<?>", "List<?>"},
		{"Comparable<? super T>", "Comparable<? super T>"},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.input, nil)
		if err != nil {
			t.Errorf("%q: %v", tt.input, err)
			continue
		}
		if got.String() != tt.expected {
			t.Errorf("%q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseTypeBindsScope(t *testing.T) {
	tv := typesystem.TVar{Name: "T", Owner: "Box"}
	got, err := ParseType("List<T>", Scope{"T": tv})
	if err != nil {
		t.Fatal(err)
	}
	arg := got.(typesystem.TApp).Args[0]
	if diff := cmp.Diff(typesystem.Type(tv), arg); diff != "" {
		t.Errorf("argument (-want +got):\n%s", diff)
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, e ast.Expression)
	}{
		{"() -> 42", func(t *testing.T, e ast.Expression) {
			l := e.(*ast.Lambda)
			if len(l.Params) != 0 || l.ExpressionBody() == nil || l.Text != "() -> 42" {
				t.Errorf("lambda = %+v", l)
			}
		}},
		{"x -> { return x; }", func(t *testing.T, e ast.Expression) {
			l := e.(*ast.Lambda)
			if l.Explicit || len(l.Params) != 1 || l.ExpressionBody() != nil {
				t.Errorf("lambda = %+v", l)
			}
		}},
		{"(String s, int n) -> s", func(t *testing.T, e ast.Expression) {
			l := e.(*ast.Lambda)
			if !l.Explicit || l.Params[1].Type.String() != "int" {
				t.Errorf("lambda = %+v", l)
			}
		}},
		{"String::valueOf", func(t *testing.T, e ast.Expression) {
			r := e.(*ast.MethodReference)
			if id, ok := r.Receiver.(*ast.Identifier); !ok || id.Value != "String" || r.Name != "valueOf" {
				t.Errorf("reference = %+v", r)
			}
		}},
		{"List<String>::size", func(t *testing.T, e ast.Expression) {
			r := e.(*ast.MethodReference)
			if r.Type == nil || r.Type.String() != "List<String>" || r.Text != "List<String>::size" {
				t.Errorf("reference = %+v", r)
			}
		}},
		{"int[]::new", func(t *testing.T, e ast.Expression) {
			r := e.(*ast.MethodReference)
			if !r.IsConstructor() || r.Type.String() != "int[]" {
				t.Errorf("reference = %+v", r)
			}
		}},
		{"super::foo", func(t *testing.T, e ast.Expression) {
			r := e.(*ast.MethodReference)
			if !r.Super || r.Name != "foo" {
				t.Errorf("reference = %+v", r)
			}
		}},
		{"this.<String>m(a, b)", func(t *testing.T, e ast.Expression) {
			c := e.(*ast.MethodCall)
			if c.Name != "m" || len(c.TypeArgs) != 1 || len(c.Args) != 2 {
				t.Errorf("call = %+v", c)
			}
		}},
		{"new ArrayList<>()", func(t *testing.T, e ast.Expression) {
			n := e.(*ast.NewExpression)
			if !n.Diamond || n.Type.String() != "ArrayList" {
				t.Errorf("new = %+v", n)
			}
		}},
		{"new String[3]", func(t *testing.T, e ast.Expression) {
			n := e.(*ast.NewArrayExpression)
			if n.Type.String() != "String[]" {
				t.Errorf("new array = %+v", n)
			}
		}},
		{"(Runnable) () -> {}", func(t *testing.T, e ast.Expression) {
			c := e.(*ast.CastExpression)
			if _, ok := c.Expr.(*ast.Lambda); !ok || c.Type.String() != "Runnable" {
				t.Errorf("cast = %+v", c)
			}
		}},
		{"(a) + b", func(t *testing.T, e ast.Expression) {
			if _, ok := e.(*ast.InfixExpression); !ok {
				t.Errorf("got %T, want infix", e)
			}
		}},
		{"c ? x -> x : null", func(t *testing.T, e ast.Expression) {
			c := e.(*ast.ConditionalExpression)
			if _, ok := c.Then.(*ast.Lambda); !ok {
				t.Errorf("then = %T", c.Then)
			}
		}},
		{"a < b", func(t *testing.T, e ast.Expression) {
			if in, ok := e.(*ast.InfixExpression); !ok || in.Operator != "<" {
				t.Errorf("got %#v", e)
			}
		}},
		{"foo(x -> x + 1, y)", func(t *testing.T, e ast.Expression) {
			c := e.(*ast.MethodCall)
			if len(c.Args) != 2 || c.Args[0].(*ast.Lambda).Text != "x -> x + 1" {
				t.Errorf("call = %+v", c)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := ParseExpression(tt.input, nil)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			tt.check(t, e)
		})
	}
}

func TestParseStatements(t *testing.T) {
	unit := parseUnit(t, `
class X {
	void m() throws Exception {
		int i = 0;
		List<String> l = null;
		final Runnable r = () -> {};
		if (i == 0) return; else { foo(); }
		try { bar(); } catch (IOException | RuntimeException e) { throw e; } finally { }
		x.y = 3;
	}
}`)
	body := unit.Types[0].Methods[0].Body
	var kinds []string
	for _, s := range body.Statements {
		kinds = append(kinds, strings.TrimPrefix(typeName(s), "*ast."))
	}
	want := []string{
		"LocalVarStatement", "LocalVarStatement", "LocalVarStatement",
		"IfStatement", "TryStatement", "ExpressionStatement",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("statements (-want +got):\n%s", diff)
	}
	try := body.Statements[4].(*ast.TryStatement)
	if len(try.Catches) != 1 || len(try.Catches[0].Types) != 2 || try.Finally == nil {
		t.Errorf("try = %+v", try)
	}
}

func typeName(s ast.Statement) string {
	switch s.(type) {
	case *ast.LocalVarStatement:
		return "*ast.LocalVarStatement"
	case *ast.IfStatement:
		return "*ast.IfStatement"
	case *ast.TryStatement:
		return "*ast.TryStatement"
	case *ast.ExpressionStatement:
		return "*ast.ExpressionStatement"
	case *ast.ReturnStatement:
		return "*ast.ReturnStatement"
	}
	return "?"
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"class A { void m() { foo( } }", `Syntax error on token "}", delete this token`},
		{"class A { int x }", `Syntax error on token "}", ; expected`},
		{"class A { void m() { try { } } }", `Syntax error on token "}", insert "Finally" to complete TryStatement`},
		{"class A { void m() { String s = \"abc; } }", "String literal is not properly closed by a double-quote"},
		{"class A {", `Syntax error, insert "}" to complete the snippet`},
	}
	for _, tt := range tests {
		_, errs := ParseUnit(tt.input, Origin{}, "")
		if len(errs) == 0 {
			t.Errorf("%q: expected error %q", tt.input, tt.expected)
			continue
		}
		if errs[0].Message != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, errs[0].Message, tt.expected)
		}
		if errs[0].Code != diagnostics.ErrP001 {
			t.Errorf("%q: code %s", tt.input, errs[0].Code)
		}
	}
}
