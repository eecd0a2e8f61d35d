package prettyprinter_test

import (
	"testing"

	"github.com/funvibe/jresolve/internal/parser"
	"github.com/funvibe/jresolve/internal/prettyprinter"
	"github.com/google/go-cmp/cmp"
)

func TestPrintExpression(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(a + b) * c", "(a + b) * c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a - b - c", "a - b - c"},
		{"a   &&  !b", "a && !b"},
		{"x = y = 1", "x = y = 1"},
		{"c ? a : b", "c ? a : b"},
		{"s -> s.length()", "s -> s.length()"},
		{"(a, b) -> a", "(a, b) -> a"},
		{"() -> {}", "() -> {}"},
		{"(String s, int i) -> { return; }", "(String s, int i) -> {\n    return;\n}"},
		{"String::length", "String::length"},
		{"String[]::new", "String[]::new"},
		{"this.<String>m(1, \"x\")", "this.<String>m(1, \"x\")"},
		{"new ArrayList<>()", "new ArrayList<>()"},
		{"new int[n + 1]", "new int[n + 1]"},
		{"(String) o.get()", "(String) o.get()"},
		{"((Object) s).toString()", "((Object) s).toString()"},
		{"super.m()", "super.m()"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := parser.ParseExpression(tt.src, nil)
			if err != nil {
				t.Fatalf("ParseExpression: %v", err)
			}
			if got := prettyprinter.Expression(e); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

const printerSource = `class A<T extends Number> extends B implements I, J {
  private int x = 1 + 2 * 3;
  static String s;
  <U> U m(T t, String... rest) throws IOException {
    if (t == null) return null; else { Runnable r = () -> {}; }
    return (U) t;
  }
}
interface I { void run(); }
`

const printerWant = `class A<T extends Number> extends B implements I, J {
    private int x = 1 + 2 * 3;
    static String s;
    <U> U m(T t, String... rest) throws IOException {
        if (t == null) {
            return null;
        } else {
            Runnable r = () -> {};
        }
        return (U) t;
    }
}

interface I {
    void run();
}
`

func TestPrintUnit(t *testing.T) {
	unit, errs := parser.ParseUnit(printerSource, parser.Origin{File: "A.java", Line: 1, Column: 1}, "p")
	if len(errs) > 0 {
		t.Fatalf("ParseUnit: %v", errs)
	}
	if diff := cmp.Diff(printerWant, prettyprinter.Unit(unit)); diff != "" {
		t.Errorf("Unit (-want +got):\n%s", diff)
	}
}

func TestPrintIsStable(t *testing.T) {
	src := `
class Outer {
  static class Inner { int v() { return 1; } }
  void go(List<? extends Number> xs) {
    try { call(() -> { throw new Exception(); }); }
    catch (IOException | RuntimeException e) { int y = -1; }
    finally { xs.size(); }
    Function<String, Integer> f = String::length;
    Object o = cond ? xs : null;
  }
}
`
	unit, errs := parser.ParseUnit(src, parser.Origin{File: "Outer.java", Line: 1, Column: 1}, "p")
	if len(errs) > 0 {
		t.Fatalf("ParseUnit: %v", errs)
	}
	first := prettyprinter.Unit(unit)
	again, errs := parser.ParseUnit(first, parser.Origin{File: "Outer.java", Line: 1, Column: 1}, "p")
	if len(errs) > 0 {
		t.Fatalf("reparsing printed source: %v\n%s", errs, first)
	}
	if diff := cmp.Diff(first, prettyprinter.Unit(again)); diff != "" {
		t.Errorf("printing is not stable (-first +second):\n%s", diff)
	}
}
