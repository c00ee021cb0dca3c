package lox

func (exec *Execution) execClassStmt(stmt *ClassStmt, env *Env) error {
	var superclass *Class
	if stmt.Superclass != nil {
		if stmt.Superclass.Name == stmt.Name {
			return exec.wrapError(&DeclarationError{Class: stmt.Name, Message: "a class can't inherit from itself"}, stmt.Superclass.Pos())
		}
		val, err := exec.evalExpression(stmt.Superclass, env)
		if err != nil {
			return err
		}
		if val.Kind() != KindClass {
			return exec.wrapError(&DeclarationError{Class: stmt.Name, Message: "superclass must be a class, got " + val.Kind().String()}, stmt.Superclass.Pos())
		}
		superclass = val.Class()
	}

	for _, fn := range stmt.Methods {
		checker := classBodyChecker{
			class:       stmt.Name,
			hasSuper:    superclass != nil,
			initializer: fn.Name == initializerName,
		}
		if err := checker.statements(fn.Body); err != nil {
			return exec.wrapError(err.cause, err.pos)
		}
	}

	methods := make([]*Method, 0, len(stmt.Methods))
	for _, fn := range stmt.Methods {
		methods = append(methods, &Method{
			Name:    fn.Name,
			Params:  fn.Params,
			Body:    fn.Body,
			Pos:     fn.Position,
			closure: env,
		})
	}
	cl, err := DeclareClass(stmt.Name, superclass, methods)
	if err != nil {
		return exec.wrapError(err, stmt.Pos())
	}
	env.Define(stmt.Name, NewClass(cl))
	return nil
}

type declarationFailure struct {
	cause error
	pos   Position
}

// classBodyChecker rejects method bodies that could only fail at run time:
// `super` in a class without a superclass, a bare super(...) outside init,
// and `return value` inside init.
type classBodyChecker struct {
	class       string
	hasSuper    bool
	initializer bool
	// nested is true inside a function declared within the method; its
	// returns belong to that function.
	nested bool
}

func (c classBodyChecker) fail(pos Position, msg string) *declarationFailure {
	return &declarationFailure{cause: &DeclarationError{Class: c.class, Message: msg}, pos: pos}
}

func (c classBodyChecker) statements(stmts []Statement) *declarationFailure {
	for _, stmt := range stmts {
		if err := c.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c classBodyChecker) statement(stmt Statement) *declarationFailure {
	switch s := stmt.(type) {
	case *ExprStmt:
		return c.expression(s.Expr)
	case *PrintStmt:
		return c.expression(s.Expr)
	case *VarStmt:
		return c.expression(s.Initializer)
	case *BlockStmt:
		return c.statements(s.Statements)
	case *IfStmt:
		if err := c.expression(s.Condition); err != nil {
			return err
		}
		if err := c.statement(s.Then); err != nil {
			return err
		}
		return c.statement(s.Else)
	case *WhileStmt:
		if err := c.expression(s.Condition); err != nil {
			return err
		}
		return c.statement(s.Body)
	case *FunStmt:
		inner := c
		inner.nested = true
		return inner.statements(s.Body)
	case *ReturnStmt:
		if s.Value != nil && c.initializer && !c.nested {
			return c.fail(s.Pos(), "can't return a value from an initializer")
		}
		return c.expression(s.Value)
	default:
		// nested classes are checked when they are declared
		return nil
	}
}

func (c classBodyChecker) expression(expr Expression) *declarationFailure {
	switch e := expr.(type) {
	case nil:
		return nil
	case *GroupingExpr:
		return c.expression(e.Inner)
	case *AssignExpr:
		return c.expression(e.Value)
	case *UnaryExpr:
		return c.expression(e.Operand)
	case *BinaryExpr:
		return c.expressions(e.Left, e.Right)
	case *LogicalExpr:
		return c.expressions(e.Left, e.Right)
	case *CallExpr:
		if err := c.expression(e.Callee); err != nil {
			return err
		}
		return c.expressions(e.Args...)
	case *GetExpr:
		return c.expression(e.Object)
	case *SetExpr:
		return c.expressions(e.Object, e.Value)
	case *SuperExpr:
		if !c.hasSuper {
			return &declarationFailure{cause: &NoSuperclassError{Class: c.class}, pos: e.Pos()}
		}
		return nil
	case *SuperCallExpr:
		if !c.hasSuper {
			return &declarationFailure{cause: &NoSuperclassError{Class: c.class}, pos: e.Pos()}
		}
		if !c.initializer {
			return c.fail(e.Pos(), "super(...) is only valid inside init")
		}
		return c.expressions(e.Args...)
	default:
		return nil
	}
}

func (c classBodyChecker) expressions(exprs ...Expression) *declarationFailure {
	for _, expr := range exprs {
		if err := c.expression(expr); err != nil {
			return err
		}
	}
	return nil
}
