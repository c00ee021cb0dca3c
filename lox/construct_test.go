package lox

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// fieldInit returns a native init that copies its arguments into the named
// fields.
func fieldInit(fields ...string) *Method {
	return nativeMethod("init", fields, func(call *MethodCall) (Value, error) {
		for i, name := range fields {
			call.This().Set(name, call.Arg(i))
		}
		return NewNil(), nil
	})
}

func TestConstructRunsInit(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "Breakfast", nil, fieldInit("meat", "bread"))

	inst, err := exec.Construct(cl, []Value{NewString("bacon"), NewString("toast")})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if inst.Class() != cl {
		t.Fatalf("instance should belong to Breakfast")
	}
	if got := inst.FieldNames(); len(got) != 2 {
		t.Fatalf("expected exactly the fields set by init, got %v", got)
	}
	meat, _ := inst.Field("meat")
	bread, _ := inst.Field("bread")
	if meat.Str() != "bacon" || bread.Str() != "toast" {
		t.Fatalf("unexpected fields meat=%#v bread=%#v", meat, bread)
	}
}

func TestConstructArityMismatch(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "Breakfast", nil, fieldInit("meat", "bread"))

	_, err := exec.Construct(cl, []Value{NewString("bacon")})
	var arity *ArityMismatchError
	if !errors.As(err, &arity) {
		t.Fatalf("expected ArityMismatchError, got %v", err)
	}
	if arity.Expected != 2 || arity.Given != 1 {
		t.Fatalf("unexpected arity error %+v", arity)
	}
}

func TestConstructWithoutInit(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	base := mustDeclare(t, "Base", nil)
	derived := mustDeclare(t, "Derived", base)

	inst, err := exec.Construct(derived, nil)
	if err != nil {
		t.Fatalf("construct without args: %v", err)
	}
	if len(inst.FieldNames()) != 0 {
		t.Fatalf("instance should start without fields")
	}

	_, err = exec.Construct(derived, []Value{NewNumber(1), NewNumber(2)})
	var arity *ArityMismatchError
	if !errors.As(err, &arity) {
		t.Fatalf("expected ArityMismatchError, got %v", err)
	}
	if arity.Expected != 0 || arity.Given != 2 {
		t.Fatalf("unexpected arity error %+v", arity)
	}
}

func TestConstructUsesInheritedInit(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	var definedOn *Class
	base := mustDeclare(t, "Base", nil, nativeMethod("init", params("x"), func(call *MethodCall) (Value, error) {
		definedOn = call.Method.DefiningClass()
		call.This().Set("x", call.Arg(0))
		return NewNil(), nil
	}))
	derived := mustDeclare(t, "Derived", base)

	inst, err := exec.Construct(derived, []Value{NewNumber(7)})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if inst.Class() != derived {
		t.Fatalf("instance class should be the constructed class")
	}
	if definedOn != base {
		t.Fatalf("init should be bound with Base as defining class")
	}
}

func TestConstructDiscardsInitResult(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "Odd", nil, nativeMethod("init", nil, func(*MethodCall) (Value, error) {
		return NewNumber(42), nil
	}))

	val, err := exec.Call(NewClass(cl), nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if val.Kind() != KindInstance || val.Instance().Class() != cl {
		t.Fatalf("construction should yield the instance, got %#v", val)
	}
}

func TestConstructPropagatesInitFailure(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	boom := errors.New("boom")
	cl := mustDeclare(t, "Broken", nil, nativeMethod("init", nil, func(*MethodCall) (Value, error) {
		return NewNil(), boom
	}))
	if _, err := exec.Construct(cl, nil); !errors.Is(err, boom) {
		t.Fatalf("expected init failure, got %v", err)
	}
}

func TestConstructAssignsDistinctIDs(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "A", nil)
	a, _ := exec.Construct(cl, nil)
	b, _ := exec.Construct(cl, nil)
	if a.ID() == uuid.Nil || a.ID() == b.ID() {
		t.Fatalf("instances should carry distinct ids")
	}
}

func TestCallRejectsNonCallable(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "A", nil)
	for _, v := range []Value{NewNil(), NewNumber(1), NewString("f"), NewBool(true), NewInstance(newInstance(cl))} {
		_, err := exec.Call(v, nil)
		var notCallable *NotCallableError
		if !errors.As(err, &notCallable) {
			t.Fatalf("%s: expected NotCallableError, got %v", v.Kind(), err)
		}
		if notCallable.Kind != v.Kind() {
			t.Fatalf("error kind = %s, want %s", notCallable.Kind, v.Kind())
		}
	}
}

func TestCallBoundMethodChecksArity(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "A", nil, nativeMethod("pair", params("a", "b"), func(call *MethodCall) (Value, error) {
		return call.Arg(1), nil
	}))
	inst, _ := exec.Construct(cl, nil)
	method, err := inst.Get("pair")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	val, err := exec.Call(method, []Value{NewNumber(1), NewNumber(2)})
	if err != nil || val.Number() != 2 {
		t.Fatalf("unexpected call result %#v, %v", val, err)
	}

	_, err = exec.Call(method, []Value{NewNumber(1)})
	var arity *ArityMismatchError
	if !errors.As(err, &arity) || arity.Expected != 2 || arity.Given != 1 {
		t.Fatalf("expected ArityMismatch(2, 1), got %v", err)
	}
	if arity.Callee != "A.pair" {
		t.Fatalf("unexpected callee %q", arity.Callee)
	}
}

func TestDirectInitCallReturnsReceiver(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	cl := mustDeclare(t, "A", nil, fieldInit("x"))
	inst, err := exec.Construct(cl, []Value{NewNumber(1)})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	init, _ := inst.Get("init")
	val, err := exec.Call(init, []Value{NewNumber(2)})
	if err != nil {
		t.Fatalf("call init: %v", err)
	}
	if val.Instance() != inst {
		t.Fatalf("init should return its receiver, got %#v", val)
	}
	if x, _ := inst.Field("x"); x.Number() != 2 {
		t.Fatalf("re-running init should update fields")
	}
}

func TestNativeMethodCallSuper(t *testing.T) {
	exec, _ := newTestExecution(t, Config{})
	base := mustDeclare(t, "Base", nil, nativeMethod("greet", params("who"), func(call *MethodCall) (Value, error) {
		return NewString("hello " + call.Arg(0).Str()), nil
	}))
	derived := mustDeclare(t, "Derived", base, nativeMethod("greet", params("who"), func(call *MethodCall) (Value, error) {
		inner, err := call.CallSuper("greet", call.Arg(0))
		if err != nil {
			return NewNil(), err
		}
		return NewString(inner.Str() + "!"), nil
	}))
	inst, _ := exec.Construct(derived, nil)
	greet, _ := inst.Get("greet")

	val, err := exec.Call(greet, []Value{NewString("reader")})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if val.Str() != "hello reader!" {
		t.Fatalf("unexpected greeting %q", val.Str())
	}
}
