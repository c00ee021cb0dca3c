package lox

import "fmt"

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return exec.evalExpression(e.Inner, env)
	case *VariableExpr:
		return exec.evalVariable(e.Name, env, e.Pos())
	case *AssignExpr:
		val, err := exec.evalExpression(e.Value, env)
		if err != nil {
			return NewNil(), err
		}
		if !env.Assign(e.Name, val) {
			return NewNil(), exec.wrapError(&UndefinedVariableError{Name: e.Name}, e.Pos())
		}
		return NewNil(), nil
	case *UnaryExpr:
		operand, err := exec.evalExpression(e.Operand, env)
		if err != nil {
			return NewNil(), err
		}
		val, err := evalUnary(e.Op, operand)
		if err != nil {
			return NewNil(), exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *BinaryExpr:
		left, err := exec.evalExpression(e.Left, env)
		if err != nil {
			return NewNil(), err
		}
		right, err := exec.evalExpression(e.Right, env)
		if err != nil {
			return NewNil(), err
		}
		val, err := evalBinary(e.Op, left, right)
		if err != nil {
			return NewNil(), exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *LogicalExpr:
		return exec.evalLogical(e, env)
	case *CallExpr:
		return exec.evalCall(e, env)
	case *GetExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNil(), err
		}
		inst := obj.Instance()
		if inst == nil {
			return NewNil(), exec.wrapError(typeErrorFor(obj, "Instance"), e.Object.Pos())
		}
		val, err := inst.Get(e.Name)
		if err != nil {
			return NewNil(), exec.wrapError(err, e.Pos())
		}
		return val, nil
	case *SetExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNil(), err
		}
		inst := obj.Instance()
		if inst == nil {
			return NewNil(), exec.wrapError(typeErrorFor(obj, "Instance"), e.Object.Pos())
		}
		val, err := exec.evalExpression(e.Value, env)
		if err != nil {
			return NewNil(), err
		}
		inst.Set(e.Name, val)
		return NewNil(), nil
	case *ThisExpr:
		method := env.boundMethod()
		if method == nil {
			return NewNil(), exec.wrapError(&UndefinedVariableError{Name: "this"}, e.Pos())
		}
		return NewInstance(method.receiver), nil
	case *SuperExpr:
		method := env.boundMethod()
		if method == nil {
			return NewNil(), exec.wrapError(&UndefinedVariableError{Name: "super"}, e.Pos())
		}
		bound, err := ResolveSuper(method.definingClass, e.Method, method.receiver)
		if err != nil {
			return NewNil(), exec.wrapError(err, e.Pos())
		}
		return NewBoundMethod(bound), nil
	case *SuperCallExpr:
		return exec.evalSuperCall(e, env)
	default:
		return NewNil(), exec.wrapError(fmt.Errorf("unsupported expression %T", expr), expr.Pos())
	}
}

func (exec *Execution) evalVariable(name string, env *Env, pos Position) (Value, error) {
	b, ok := env.lookup(name)
	if !ok {
		return NewNil(), exec.wrapError(&UndefinedVariableError{Name: name}, pos)
	}
	if !b.initialized {
		return NewNil(), exec.wrapError(&UninitializedVariableError{Name: name}, pos)
	}
	return b.value, nil
}

func (exec *Execution) evalLogical(e *LogicalExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(e.Left, env)
	if err != nil {
		return NewNil(), err
	}
	truth, err := asBoolean(left)
	if err != nil {
		return NewNil(), exec.wrapError(err, e.Left.Pos())
	}
	switch e.Op {
	case OpAnd:
		if !truth {
			return NewBool(false), nil
		}
	case OpOr:
		if truth {
			return NewBool(true), nil
		}
	}
	return exec.evalExpression(e.Right, env)
}

func (exec *Execution) evalArgs(args []Expression, env *Env) ([]Value, error) {
	if len(args) == 0 {
		return nil, nil
	}
	values := make([]Value, 0, len(args))
	for _, arg := range args {
		val, err := exec.evalExpression(arg, env)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

func (exec *Execution) evalCall(e *CallExpr, env *Env) (Value, error) {
	callee, err := exec.evalExpression(e.Callee, env)
	if err != nil {
		return NewNil(), err
	}
	args, err := exec.evalArgs(e.Args, env)
	if err != nil {
		return NewNil(), err
	}
	val, err := exec.callValue(callee, args, e.Pos())
	if err != nil {
		return NewNil(), exec.wrapError(err, e.Pos())
	}
	return val, nil
}

// evalSuperCall runs the superclass initializer on the current receiver.
// With no initializer anywhere above, it behaves like constructing a class
// without init: only an empty argument list is accepted.
func (exec *Execution) evalSuperCall(e *SuperCallExpr, env *Env) (Value, error) {
	method := env.boundMethod()
	if method == nil {
		return NewNil(), exec.wrapError(&UndefinedVariableError{Name: "super"}, e.Pos())
	}
	if !method.method.IsInitializer() {
		return NewNil(), exec.wrapError(&DeclarationError{
			Class:   method.definingClass.name,
			Message: "super(...) is only valid inside init",
		}, e.Pos())
	}
	args, err := exec.evalArgs(e.Args, env)
	if err != nil {
		return NewNil(), err
	}
	bound, err := ResolveSuper(method.definingClass, initializerName, method.receiver)
	if err != nil {
		if _, missing := err.(*UndefinedPropertyError); missing {
			if len(args) != 0 {
				return NewNil(), exec.wrapError(&ArityMismatchError{
					Callee:   method.definingClass.superclass.name,
					Expected: 0,
					Given:    len(args),
				}, e.Pos())
			}
			return NewNil(), nil
		}
		return NewNil(), exec.wrapError(err, e.Pos())
	}
	if _, err := exec.callMethod(bound, args, e.Pos()); err != nil {
		return NewNil(), exec.wrapError(err, e.Pos())
	}
	return NewNil(), nil
}
