package lox

import (
	"bytes"
	"context"
	"testing"
)

func lit(v Value) Expression        { return &LiteralExpr{Value: v} }
func str(s string) Expression       { return lit(NewString(s)) }
func num(n float64) Expression      { return lit(NewNumber(n)) }
func ref(name string) *VariableExpr { return &VariableExpr{Name: name} }
func this() Expression              { return &ThisExpr{} }

func get(obj Expression, name string) Expression {
	return &GetExpr{Object: obj, Name: name}
}

func set(obj Expression, name string, val Expression) Statement {
	return &ExprStmt{Expr: &SetExpr{Object: obj, Name: name, Value: val}}
}

func call(callee Expression, args ...Expression) Expression {
	return &CallExpr{Callee: callee, Args: args}
}

func concat(parts ...Expression) Expression {
	expr := parts[0]
	for _, part := range parts[1:] {
		expr = &BinaryExpr{Op: OpAdd, Left: expr, Right: part}
	}
	return expr
}

func superMethod(name string) Expression { return &SuperExpr{Method: name} }

func superCall(args ...Expression) Expression { return &SuperCallExpr{Args: args} }

func printStmt(expr Expression) Statement { return &PrintStmt{Expr: expr} }

func exprStmt(expr Expression) Statement { return &ExprStmt{Expr: expr} }

func varStmt(name string, init Expression) Statement {
	return &VarStmt{Name: name, Initializer: init}
}

func ret(expr Expression) Statement { return &ReturnStmt{Value: expr} }

func fun(name string, params []string, body ...Statement) *FunStmt {
	return &FunStmt{Name: name, Params: params, Body: body}
}

func class(name, superclass string, methods ...*FunStmt) Statement {
	stmt := &ClassStmt{Name: name, Methods: methods}
	if superclass != "" {
		stmt.Superclass = ref(superclass)
	}
	return stmt
}

func params(names ...string) []string { return names }

// breakfastClass mirrors the sample script's Breakfast declaration.
func breakfastClass() Statement {
	return class("Breakfast", "",
		fun("init", params("meat", "bread"),
			set(this(), "meat", ref("meat")),
			set(this(), "bread", ref("bread")),
		),
		fun("serve", params("who"),
			printStmt(concat(
				str("Enjoy your "), get(this(), "meat"),
				str(" and "), get(this(), "bread"),
				str(", "), ref("who"), str("."),
			)),
		),
	)
}

func brunchClass(initCall Statement) Statement {
	return class("Brunch", "Breakfast",
		fun("init", params("meat", "bread", "drink"),
			initCall,
			set(this(), "drink", ref("drink")),
		),
	)
}

func newTestExecution(t *testing.T, cfg Config) (*Execution, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg.Stdout = &out
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine.NewExecution(), &out
}

func runProgram(t *testing.T, stmts ...Statement) (*Execution, string) {
	t.Helper()
	exec, out := newTestExecution(t, Config{})
	if _, err := exec.Run(context.Background(), &Program{Statements: stmts}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return exec, out.String()
}

func runProgramError(t *testing.T, stmts ...Statement) error {
	t.Helper()
	exec, _ := newTestExecution(t, Config{})
	_, err := exec.Run(context.Background(), &Program{Statements: stmts})
	if err == nil {
		t.Fatalf("expected run to fail")
	}
	return err
}

func mustDeclare(t *testing.T, name string, superclass *Class, methods ...*Method) *Class {
	t.Helper()
	cl, err := DeclareClass(name, superclass, methods)
	if err != nil {
		t.Fatalf("declare %s: %v", name, err)
	}
	return cl
}

func nativeMethod(name string, paramNames []string, fn NativeMethod) *Method {
	return &Method{Name: name, Params: paramNames, Native: fn}
}

func constant(name string, v Value) *Method {
	return nativeMethod(name, nil, func(*MethodCall) (Value, error) { return v, nil })
}
