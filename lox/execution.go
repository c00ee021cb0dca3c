package lox

import (
	"context"
	"fmt"
	"io"
)

// Execution evaluates programs against one global environment. Globals
// persist across Run calls, which is what a REPL needs.
type Execution struct {
	engine       *Engine
	globals      *Env
	stdout       io.Writer
	ctx          context.Context
	source       string
	quota        int
	recursionCap int
	steps        int
	callStack    []callFrame
}

func (exec *Execution) Globals() *Env { return exec.globals }

func (exec *Execution) Lookup(name string) (Value, bool) {
	return exec.globals.Get(name)
}

// Run executes prog's statements in order and returns the value of the
// last one: the expression's value for expression and print statements,
// nil otherwise. The step quota applies per top-level Run; a Run nested
// inside a call (from a builtin) shares the caller's steps and frames.
func (exec *Execution) Run(ctx context.Context, prog *Program) (Value, error) {
	if prog == nil {
		return NewNil(), fmt.Errorf("nil program")
	}
	outerCtx, outerSource := exec.ctx, exec.source
	exec.ctx = ctx
	exec.source = prog.Source
	exec.resetStepsAtTopLevel()
	defer func() {
		exec.ctx, exec.source = outerCtx, outerSource
	}()

	result := NewNil()
	for _, stmt := range prog.Statements {
		val, _, err := exec.execStatement(stmt, exec.globals)
		if err != nil {
			return NewNil(), err
		}
		result = val
	}
	return result, nil
}

func (exec *Execution) execStatements(stmts []Statement, env *Env) (Value, bool, error) {
	for _, stmt := range stmts {
		val, returned, err := exec.execStatement(stmt, env)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
	}
	return NewNil(), false, nil
}

func (exec *Execution) execStatement(stmt Statement, env *Env) (Value, bool, error) {
	if err := exec.step(); err != nil {
		return NewNil(), false, exec.wrapError(err, stmt.Pos())
	}
	switch s := stmt.(type) {
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, env)
		return val, false, err
	case *PrintStmt:
		val, err := exec.evalExpression(s.Expr, env)
		if err != nil {
			return NewNil(), false, err
		}
		if _, err := fmt.Fprintln(exec.stdout, val.String()); err != nil {
			return NewNil(), false, exec.wrapError(err, s.Pos())
		}
		return val, false, nil
	case *VarStmt:
		if s.Initializer == nil {
			env.Declare(s.Name)
			return NewNil(), false, nil
		}
		val, err := exec.evalExpression(s.Initializer, env)
		if err != nil {
			return NewNil(), false, err
		}
		env.Define(s.Name, val)
		return NewNil(), false, nil
	case *BlockStmt:
		return exec.execStatements(s.Statements, NewEnv(env))
	case *IfStmt:
		cond, err := exec.evalCondition(s.Condition, env)
		if err != nil {
			return NewNil(), false, err
		}
		if cond {
			return exec.execStatement(s.Then, env)
		}
		if s.Else != nil {
			return exec.execStatement(s.Else, env)
		}
		return NewNil(), false, nil
	case *WhileStmt:
		for {
			cond, err := exec.evalCondition(s.Condition, env)
			if err != nil {
				return NewNil(), false, err
			}
			if !cond {
				return NewNil(), false, nil
			}
			val, returned, err := exec.execStatement(s.Body, env)
			if err != nil || returned {
				return val, returned, err
			}
		}
	case *FunStmt:
		env.Define(s.Name, NewFunction(s, env))
		return NewNil(), false, nil
	case *ReturnStmt:
		if s.Value == nil {
			return NewNil(), true, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNil(), false, err
		}
		return val, true, nil
	case *ClassStmt:
		return NewNil(), false, exec.execClassStmt(s, env)
	default:
		return NewNil(), false, exec.wrapError(fmt.Errorf("unsupported statement %T", stmt), stmt.Pos())
	}
}

func (exec *Execution) evalCondition(expr Expression, env *Env) (bool, error) {
	val, err := exec.evalExpression(expr, env)
	if err != nil {
		return false, err
	}
	b, err := asBoolean(val)
	if err != nil {
		return false, exec.wrapError(err, expr.Pos())
	}
	return b, nil
}
