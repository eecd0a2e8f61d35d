package typesystem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTypes() []Type {
	e := TVar{Name: "E", Owner: "List"}
	bounded := TVar{Name: "T", Owner: "Box", Bounds: []Type{TCon{Name: "Number"}, TCon{Name: "Comparable"}}}
	recursive := TVar{Name: "U", Owner: "m", Bounds: []Type{TApp{Constructor: TCon{Name: "Comparable"}, Args: []Type{TVar{Name: "U", Owner: "m"}}}}}
	listOf := func(t Type) Type { return TApp{Constructor: TCon{Name: "List"}, Args: []Type{t}} }
	return []Type{
		Int, Void, Boolean,
		TCon{Name: "String"},
		listOf(TCon{Name: "String"}),
		listOf(e),
		listOf(TWildcard{Kind: Extends, Bound: TCon{Name: "Number"}}),
		listOf(TWildcard{Kind: Super, Bound: TCon{Name: "Integer"}}),
		listOf(TWildcard{Kind: Unbounded}),
		TArray{Elem: Int},
		TArray{Elem: TArray{Elem: listOf(bounded)}},
		e, bounded, recursive,
		TWildcard{Kind: Extends, Bound: bounded},
		TIntersection{Types: []Type{TCon{Name: "Runnable"}, TCon{Name: "Serializable"}}},
		TNull{}, TError{},
	}
}

func TestEraseIdempotent(t *testing.T) {
	for _, typ := range sampleTypes() {
		once := Erase(typ)
		twice := Erase(once)
		if !Equal(once, twice) {
			t.Errorf("Erase(Erase(%s)) = %s, want %s", typ, twice, once)
		}
	}
}

func TestErase(t *testing.T) {
	tests := []struct {
		in   Type
		want string
	}{
		{TApp{Constructor: TCon{Name: "List"}, Args: []Type{TCon{Name: "String"}}}, "List"},
		{TVar{Name: "E", Owner: "List"}, "Object"},
		{TVar{Name: "T", Owner: "Box", Bounds: []Type{TCon{Name: "Number"}, TCon{Name: "Comparable"}}}, "Number"},
		{TArray{Elem: TVar{Name: "T", Owner: "Box", Bounds: []Type{TCon{Name: "Number"}}}}, "Number[]"},
		{TIntersection{Types: []Type{TCon{Name: "Runnable"}, TCon{Name: "Serializable"}}}, "Runnable"},
		{Int, "int"},
	}
	for _, tt := range tests {
		if got := Erase(tt.in).String(); got != tt.want {
			t.Errorf("Erase(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestErasedKey(t *testing.T) {
	e1 := TVar{Name: "E", Owner: "I1"}
	e2 := TVar{Name: "E", Owner: "I2"}
	if ErasedKey("method", []Type{e1}) != ErasedKey("method", []Type{e2}) {
		t.Errorf("type variables of different owners should erase alike")
	}
	if got := ErasedKey("foo", []Type{TApp{Constructor: TCon{Name: "List"}, Args: []Type{e1}}, Int}); got != "foo(List,int)" {
		t.Errorf("ErasedKey = %q", got)
	}
}

func TestApplySubstitutesBounds(t *testing.T) {
	classVar := TVar{Name: "T", Owner: "AA"}
	methodVar := TVar{Name: "U", Owner: "AA.m", Bounds: []Type{classVar}}
	s := Subst{classVar.Key(): TCon{Name: "N"}}

	got := methodVar.Apply(s).(TVar)
	if got.Key() != methodVar.Key() {
		t.Fatalf("unsubstituted variable changed identity: %s", got.Key())
	}
	if diff := cmp.Diff("N", got.Bounds[0].String()); diff != "" {
		t.Errorf("bound mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyCycle(t *testing.T) {
	a := TVar{Name: "A", Owner: "x"}
	b := TVar{Name: "B", Owner: "x"}
	s := Subst{a.Key(): TApp{Constructor: TCon{Name: "List"}, Args: []Type{b}}, b.Key(): a}
	// Must terminate.
	got := a.Apply(s)
	if got == nil {
		t.Fatal("nil result")
	}
}

func TestWildcardCollapse(t *testing.T) {
	tv := TVar{Name: "T", Owner: "Box"}
	w := TWildcard{Kind: Extends, Bound: tv}
	got := w.Apply(Subst{tv.Key(): TWildcard{Kind: Extends, Bound: TCon{Name: "Number"}}})
	if got.String() != "? extends Number" {
		t.Errorf("got %s", got)
	}
}

func TestPrimitiveWidens(t *testing.T) {
	tests := []struct {
		from, to Primitive
		want     bool
	}{
		{Int, Long, true},
		{Byte, Double, true},
		{Char, Int, true},
		{Byte, Char, false},
		{Char, Short, false},
		{Long, Int, false},
		{Boolean, Int, false},
		{Float, Float, true},
	}
	for _, tt := range tests {
		if got := PrimitiveWidens(tt.from, tt.to); got != tt.want {
			t.Errorf("PrimitiveWidens(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBoxing(t *testing.T) {
	boxed, ok := Box(Int)
	if !ok || boxed.Name != "Integer" {
		t.Fatalf("Box(int) = %v, %v", boxed, ok)
	}
	prim, ok := Unbox(TCon{Name: "Character"})
	if !ok || prim != Char {
		t.Errorf("Unbox(Character) = %v, %v", prim, ok)
	}
	if _, ok := Unbox(TCon{Name: "String"}); ok {
		t.Errorf("String should not unbox")
	}
}

func TestCapture(t *testing.T) {
	param := TVar{Name: "E", Owner: "List", Bounds: []Type{TCon{Name: "Object"}}}
	var c Capturer
	in := TApp{Constructor: TCon{Name: "List"}, Args: []Type{TWildcard{Kind: Extends, Bound: TCon{Name: "Number"}}}}
	got := c.Capture(in, []TVar{param})

	cv, ok := got.Args[0].(TVar)
	if !ok {
		t.Fatalf("argument not captured: %s", got)
	}
	if !cv.IsCapture() || cv.Name != "capture#1-of ? extends Number" {
		t.Errorf("capture name = %q", cv.Name)
	}
	if diff := cmp.Diff([]string{"Number"}, typeStrings(cv.Bounds)); diff != "" {
		t.Errorf("capture bounds (-want +got):\n%s", diff)
	}

	super := TApp{Constructor: TCon{Name: "List"}, Args: []Type{TWildcard{Kind: Super, Bound: TCon{Name: "Integer"}}}}
	sv := c.Capture(super, []TVar{param}).Args[0].(TVar)
	if sv.Lower == nil || sv.Lower.String() != "Integer" || sv.Name != "capture#2-of ? super Integer" {
		t.Errorf("super capture = %+v", sv)
	}

	plain := TApp{Constructor: TCon{Name: "List"}, Args: []Type{TCon{Name: "String"}}}
	if !Equal(c.Capture(plain, []TVar{param}), plain) {
		t.Errorf("capture changed a type without wildcards")
	}
}

func TestReplaceTCon(t *testing.T) {
	tv := TVar{Name: "T", Owner: "Box"}
	in := TArray{Elem: TApp{Constructor: TCon{Name: "List"}, Args: []Type{TWildcard{Kind: Super, Bound: TCon{Name: "T"}}}}}
	got := ReplaceTCon(in, "T", tv)
	if !Mentions(got, KeySet([]TVar{tv})) {
		t.Errorf("%s does not mention %s", got, tv.Key())
	}
	if got.String() != "List<? super T>[]" {
		t.Errorf("got %s", got)
	}
}

func typeStrings(ts []Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}
