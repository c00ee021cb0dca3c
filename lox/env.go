package lox

import "sort"

type binding struct {
	value       Value
	initialized bool
}

type Env struct {
	parent *Env
	values map[string]binding
	// method is set on the environment of a method invocation; closures
	// created inside the body find `this` and `super` through it.
	method *BoundMethod
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]binding)}
}

func newMethodEnv(parent *Env, method *BoundMethod) *Env {
	env := NewEnv(parent)
	env.method = method
	return env
}

func (e *Env) lookup(name string) (binding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// Get returns the value bound to name. Declared but uninitialized
// variables report false.
func (e *Env) Get(name string) (Value, bool) {
	b, ok := e.lookup(name)
	if !ok || !b.initialized {
		return NewNil(), false
	}
	return b.value, true
}

func (e *Env) Define(name string, val Value) {
	e.values[name] = binding{value: val, initialized: true}
}

// Declare introduces name without a value.
func (e *Env) Declare(name string) {
	e.values[name] = binding{value: NewNil()}
}

// Assign updates the nearest existing binding of name. Unlike Define it
// never creates one.
func (e *Env) Assign(name string, val Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = binding{value: val, initialized: true}
			return true
		}
	}
	return false
}

// Names lists the bindings defined directly in e.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Env) boundMethod() *BoundMethod {
	for env := e; env != nil; env = env.parent {
		if env.method != nil {
			return env.method
		}
	}
	return nil
}
