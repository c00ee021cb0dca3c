package lox

import (
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	cl := &Class{name: "Breakfast", methods: map[string]*Method{}}
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"nil", NewNil(), "Nil"},
		{"true", NewBool(true), "true"},
		{"false", NewBool(false), "false"},
		{"integral number", NewNumber(3), "3"},
		{"fraction", NewNumber(2.5), "2.5"},
		{"negative", NewNumber(-0.125), "-0.125"},
		{"large", NewNumber(1e21), "1000000000000000000000"},
		{"infinity", NewNumber(math.Inf(1)), "inf"},
		{"negative infinity", NewNumber(math.Inf(-1)), "-inf"},
		{"nan", NewNumber(math.NaN()), "NaN"},
		{"string", NewString("toast"), "toast"},
		{"class", NewClass(cl), "Breakfast"},
		{"instance", NewInstance(newInstance(cl)), "Breakfast instance"},
		{"function", NewFunction(&FunStmt{Name: "serve"}, nil), "fun serve"},
		{"builtin", NewBuiltin("clock", 0, nil), "fun clock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstanceStringUsesRuntimeClass(t *testing.T) {
	base := mustDeclare(t, "Breakfast", nil, constant("describe", NewString("base")))
	sub := mustDeclare(t, "Brunch", base)
	inst := newInstance(sub)

	bound, err := ResolveMethod(inst, "describe")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if bound.DefiningClass() != base {
		t.Fatalf("expected method from Breakfast")
	}
	if got := NewInstance(inst).String(); got != "Brunch instance" {
		t.Fatalf("unexpected instance text %q", got)
	}
}

func TestValueEqual(t *testing.T) {
	a := mustDeclare(t, "A", nil)
	b := mustDeclare(t, "A", nil)
	i1, i2 := newInstance(a), newInstance(a)

	if !NewNumber(1).Equal(NewNumber(1)) {
		t.Fatalf("equal numbers should compare equal")
	}
	if NewNumber(1).Equal(NewString("1")) {
		t.Fatalf("values of different kinds must not compare equal")
	}
	if !NewNil().Equal(NewNil()) {
		t.Fatalf("nil should equal nil")
	}
	if NewClass(a).Equal(NewClass(b)) {
		t.Fatalf("distinct classes with the same name must differ")
	}
	if !NewClass(a).Equal(NewClass(a)) {
		t.Fatalf("a class should equal itself")
	}
	if NewInstance(i1).Equal(NewInstance(i2)) {
		t.Fatalf("distinct instances must differ")
	}

	m := constant("m", NewNil())
	withM := mustDeclare(t, "W", nil, m)
	inst := newInstance(withM)
	first, _ := inst.Get("m")
	second, _ := inst.Get("m")
	if !first.Equal(second) {
		t.Fatalf("bound methods over the same receiver and declaration should be equal")
	}
}

func TestValueAccessorsOnKindMismatch(t *testing.T) {
	v := NewString("x")
	if v.Number() != 0 || v.Bool() || v.Class() != nil || v.Instance() != nil || v.BoundMethod() != nil {
		t.Fatalf("accessors should return zero values on kind mismatch")
	}
	if NewNumber(1).Str() != "" {
		t.Fatalf("Str on a number should be empty")
	}
}

func TestIsCallable(t *testing.T) {
	cl := mustDeclare(t, "A", nil)
	callable := []Value{
		NewClass(cl),
		NewFunction(&FunStmt{Name: "f"}, nil),
		NewBuiltin("b", 0, nil),
	}
	for _, v := range callable {
		if !v.IsCallable() {
			t.Fatalf("%s should be callable", v.Kind())
		}
	}
	for _, v := range []Value{NewNil(), NewBool(true), NewNumber(1), NewString("s"), NewInstance(newInstance(cl))} {
		if v.IsCallable() {
			t.Fatalf("%s should not be callable", v.Kind())
		}
	}
}
