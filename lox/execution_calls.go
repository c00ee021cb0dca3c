package lox

func checkArity(callee string, expected, given int) error {
	if expected != given {
		return &ArityMismatchError{Callee: callee, Expected: expected, Given: given}
	}
	return nil
}

// Call invokes callee the way a call expression would: classes construct,
// functions, bound methods and builtins run, anything else is rejected.
func (exec *Execution) Call(callee Value, args []Value) (Value, error) {
	exec.resetStepsAtTopLevel()
	return exec.callValue(callee, args, Position{})
}

// Construct calls cl as a constructor and returns the new instance.
func (exec *Execution) Construct(cl *Class, args []Value) (*Instance, error) {
	exec.resetStepsAtTopLevel()
	return exec.construct(cl, args, Position{})
}

func (exec *Execution) resetStepsAtTopLevel() {
	if len(exec.callStack) == 0 {
		exec.steps = 0
	}
}

func (exec *Execution) callValue(callee Value, args []Value, pos Position) (Value, error) {
	switch callee.Kind() {
	case KindClass:
		inst, err := exec.construct(callee.Class(), args, pos)
		if err != nil {
			return NewNil(), err
		}
		return NewInstance(inst), nil
	case KindFunction:
		return exec.callFunction(callee.Function(), args, pos)
	case KindMethod:
		return exec.callMethod(callee.BoundMethod(), args, pos)
	case KindBuiltin:
		return exec.callBuiltin(callee.Builtin(), args, pos)
	default:
		return NewNil(), &NotCallableError{Kind: callee.Kind()}
	}
}

// construct allocates an instance of cl and runs the first init found along
// the chain. Whatever init returns is discarded.
func (exec *Execution) construct(cl *Class, args []Value, pos Position) (*Instance, error) {
	inst := newInstance(cl)
	init, err := ResolveMethod(inst, initializerName)
	if err != nil {
		if len(args) != 0 {
			return nil, &ArityMismatchError{Callee: cl.name, Expected: 0, Given: len(args)}
		}
		return inst, nil
	}
	if _, err := exec.callMethod(init, args, pos); err != nil {
		return nil, err
	}
	return inst, nil
}

func (exec *Execution) callFunction(fn *Function, args []Value, pos Position) (Value, error) {
	if err := checkArity(fn.Name(), fn.Arity(), len(args)); err != nil {
		return NewNil(), err
	}
	if err := exec.pushFrame(fn.Name(), pos); err != nil {
		return NewNil(), err
	}
	defer exec.popFrame()

	env := NewEnv(fn.Closure)
	for i, param := range fn.Decl.Params {
		env.Define(param, args[i])
	}
	val, returned, err := exec.execStatements(fn.Decl.Body, env)
	if err != nil {
		return NewNil(), err
	}
	if !returned {
		return NewNil(), nil
	}
	return val, nil
}

// callMethod runs a bound method. An initializer always yields its
// receiver, so `obj.init(...)` hands back obj.
func (exec *Execution) callMethod(bound *BoundMethod, args []Value, pos Position) (Value, error) {
	method := bound.method
	if err := checkArity(bound.qualifiedName(), method.Arity(), len(args)); err != nil {
		return NewNil(), err
	}
	if err := exec.pushFrame(bound.qualifiedName(), pos); err != nil {
		return NewNil(), err
	}
	defer exec.popFrame()

	var (
		val Value
		err error
	)
	if method.Native != nil {
		val, err = method.Native(&MethodCall{Exec: exec, Method: bound, Args: args})
	} else {
		closure := method.closure
		if closure == nil {
			closure = exec.globals
		}
		env := newMethodEnv(closure, bound)
		for i, param := range method.Params {
			env.Define(param, args[i])
		}
		val, _, err = exec.execStatements(method.Body, env)
	}
	if err != nil {
		return NewNil(), err
	}
	if method.IsInitializer() {
		return NewInstance(bound.receiver), nil
	}
	return val, nil
}

func (exec *Execution) callBuiltin(builtin *Builtin, args []Value, pos Position) (Value, error) {
	if builtin.Arity >= 0 {
		if err := checkArity(builtin.Name, builtin.Arity, len(args)); err != nil {
			return NewNil(), err
		}
	}
	if err := exec.pushFrame(builtin.Name, pos); err != nil {
		return NewNil(), err
	}
	defer exec.popFrame()
	return builtin.Fn(exec, args)
}

// MethodCall is handed to a NativeMethod. Method.Receiver() is `this`.
type MethodCall struct {
	Exec   *Execution
	Method *BoundMethod
	Args   []Value
}

func (c *MethodCall) This() *Instance { return c.Method.receiver }

// Arg returns the i-th argument, or nil when absent.
func (c *MethodCall) Arg(i int) Value {
	if i < 0 || i >= len(c.Args) {
		return NewNil()
	}
	return c.Args[i]
}

// Super resolves name starting above the class that defines the running
// method, bound to the same receiver.
func (c *MethodCall) Super(name string) (*BoundMethod, error) {
	return ResolveSuper(c.Method.definingClass, name, c.Method.receiver)
}

func (c *MethodCall) CallSuper(name string, args ...Value) (Value, error) {
	bound, err := c.Super(name)
	if err != nil {
		return NewNil(), err
	}
	return c.Exec.callMethod(bound, args, c.Method.method.Pos)
}
