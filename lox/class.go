package lox

import "sort"

const initializerName = "init"

// NativeMethod implements a method body in Go.
type NativeMethod func(call *MethodCall) (Value, error)

// Method is a declaration owned by exactly one class. Body holds evaluator
// statements; Native, when set, replaces Body.
type Method struct {
	Name   string
	Params []string
	Body   []Statement
	Native NativeMethod
	Pos    Position

	closure *Env
}

func (m *Method) Arity() int { return len(m.Params) }

func (m *Method) IsInitializer() bool { return m.Name == initializerName }

// Class is immutable once declared, so it may be shared freely.
type Class struct {
	name       string
	superclass *Class
	methods    map[string]*Method
}

// DeclareClass builds a class from its name, optional superclass and
// method declarations.
func DeclareClass(name string, superclass *Class, methods []*Method) (*Class, error) {
	if name == "" {
		return nil, &DeclarationError{Message: "class name required"}
	}
	cl := &Class{
		name:       name,
		superclass: superclass,
		methods:    make(map[string]*Method, len(methods)),
	}
	seen := map[*Class]struct{}{cl: {}}
	for c := superclass; c != nil; c = c.superclass {
		if _, dup := seen[c]; dup {
			return nil, &DeclarationError{Class: name, Message: "inheritance chain contains a cycle"}
		}
		seen[c] = struct{}{}
	}
	for _, m := range methods {
		if m == nil || m.Name == "" {
			return nil, &DeclarationError{Class: name, Message: "method name required"}
		}
		if _, dup := cl.methods[m.Name]; dup {
			return nil, &DeclarationError{Class: name, Message: "duplicate method " + m.Name}
		}
		cl.methods[m.Name] = m
	}
	return cl, nil
}

func (c *Class) Name() string { return c.name }

func (c *Class) Superclass() *Class { return c.superclass }

// Method returns a method declared directly on c, ignoring ancestors.
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.methods[name]
	return m, ok
}

func (c *Class) MethodNames() []string {
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindMethod walks c and its ancestors and returns the first declaration of
// name together with the class that declares it.
func (c *Class) FindMethod(name string) (*Method, *Class) {
	for cl := c; cl != nil; cl = cl.superclass {
		if m, ok := cl.methods[name]; ok {
			return m, cl
		}
	}
	return nil, nil
}

// Chain lists c followed by each ancestor, nearest first.
func (c *Class) Chain() []*Class {
	var chain []*Class
	for cl := c; cl != nil; cl = cl.superclass {
		chain = append(chain, cl)
	}
	return chain
}

// IsSubclassOf reports whether other appears in c's chain, c included.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cl := c; cl != nil; cl = cl.superclass {
		if cl == other {
			return true
		}
	}
	return false
}

// Arity is the parameter count of the initializer construction would run.
func (c *Class) Arity() int {
	if m, _ := c.FindMethod(initializerName); m != nil {
		return m.Arity()
	}
	return 0
}

func (c *Class) String() string { return c.name }
