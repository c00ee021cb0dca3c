package progfile

import (
	"gopkg.in/yaml.v3"

	"github.com/mgomes/loxobj/lox"
)

func decodeStatements(node *yaml.Node) ([]lox.Statement, error) {
	if isNull(node) {
		return nil, nil
	}
	list, err := items(node, -1)
	if err != nil {
		return nil, err
	}
	stmts := make([]lox.Statement, 0, len(list))
	for _, item := range list {
		stmt, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// decodeBody accepts either a sequence, wrapped in a block, or a single
// statement mapping.
func decodeBody(node *yaml.Node) (lox.Statement, error) {
	if node.Kind == yaml.SequenceNode {
		stmts, err := decodeStatements(node)
		if err != nil {
			return nil, err
		}
		return &lox.BlockStmt{Statements: stmts, Position: position(node)}, nil
	}
	return decodeStatement(node)
}

func decodeStatement(node *yaml.Node) (lox.Statement, error) {
	key, val, err := single(node)
	if err != nil {
		return nil, err
	}
	pos := position(node)

	switch key {
	case "print":
		expr, err := decodeExpression(val)
		if err != nil {
			return nil, err
		}
		return &lox.PrintStmt{Expr: expr, Position: pos}, nil
	case "expr":
		expr, err := decodeExpression(val)
		if err != nil {
			return nil, err
		}
		return &lox.ExprStmt{Expr: expr, Position: pos}, nil
	case "var":
		return decodeVar(val, pos)
	case "block":
		stmts, err := decodeStatements(val)
		if err != nil {
			return nil, err
		}
		return &lox.BlockStmt{Statements: stmts, Position: pos}, nil
	case "if":
		return decodeIf(val, pos)
	case "while":
		return decodeWhile(val, pos)
	case "fun":
		return decodeFun(val)
	case "return":
		if isNull(val) {
			return &lox.ReturnStmt{Position: pos}, nil
		}
		expr, err := decodeExpression(val)
		if err != nil {
			return nil, err
		}
		return &lox.ReturnStmt{Value: expr, Position: pos}, nil
	case "class":
		return decodeClass(val, pos)
	default:
		return nil, failf(node, "unknown statement %q", key)
	}
}

func decodeVar(val *yaml.Node, pos lox.Position) (lox.Statement, error) {
	if val.Kind == yaml.ScalarNode {
		name, err := identifier(val, "variable name")
		if err != nil {
			return nil, err
		}
		return &lox.VarStmt{Name: name, Position: pos}, nil
	}
	parts, err := items(val, 2)
	if err != nil {
		return nil, err
	}
	name, err := identifier(parts[0], "variable name")
	if err != nil {
		return nil, err
	}
	init, err := decodeExpression(parts[1])
	if err != nil {
		return nil, err
	}
	return &lox.VarStmt{Name: name, Initializer: init, Position: pos}, nil
}

func decodeIf(val *yaml.Node, pos lox.Position) (lox.Statement, error) {
	f, err := fields(val, "cond", "then", "else")
	if err != nil {
		return nil, err
	}
	if f["cond"] == nil || f["then"] == nil {
		return nil, failf(val, "if needs cond and then")
	}
	cond, err := decodeExpression(f["cond"])
	if err != nil {
		return nil, err
	}
	then, err := decodeBody(f["then"])
	if err != nil {
		return nil, err
	}
	stmt := &lox.IfStmt{Condition: cond, Then: then, Position: pos}
	if f["else"] != nil {
		stmt.Else, err = decodeBody(f["else"])
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func decodeWhile(val *yaml.Node, pos lox.Position) (lox.Statement, error) {
	f, err := fields(val, "cond", "body")
	if err != nil {
		return nil, err
	}
	if f["cond"] == nil || f["body"] == nil {
		return nil, failf(val, "while needs cond and body")
	}
	cond, err := decodeExpression(f["cond"])
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(f["body"])
	if err != nil {
		return nil, err
	}
	return &lox.WhileStmt{Condition: cond, Body: body, Position: pos}, nil
}

func decodeFun(val *yaml.Node) (*lox.FunStmt, error) {
	f, err := fields(val, "name", "params", "body")
	if err != nil {
		return nil, err
	}
	if f["name"] == nil {
		return nil, failf(val, "function needs a name")
	}
	name, err := identifier(f["name"], "function name")
	if err != nil {
		return nil, err
	}
	params, err := identifiers(f["params"], "parameter")
	if err != nil {
		return nil, err
	}
	body, err := decodeStatements(f["body"])
	if err != nil {
		return nil, err
	}
	return &lox.FunStmt{Name: name, Params: params, Body: body, Position: position(val)}, nil
}

func decodeClass(val *yaml.Node, pos lox.Position) (lox.Statement, error) {
	f, err := fields(val, "name", "superclass", "methods")
	if err != nil {
		return nil, err
	}
	if f["name"] == nil {
		return nil, failf(val, "class needs a name")
	}
	name, err := identifier(f["name"], "class name")
	if err != nil {
		return nil, err
	}
	stmt := &lox.ClassStmt{Name: name, Position: pos}
	if sup := f["superclass"]; !isNull(sup) {
		supName, err := identifier(sup, "superclass name")
		if err != nil {
			return nil, err
		}
		stmt.Superclass = &lox.VariableExpr{Name: supName, Position: position(sup)}
	}
	if methods := f["methods"]; !isNull(methods) {
		list, err := items(methods, -1)
		if err != nil {
			return nil, err
		}
		for _, m := range list {
			fn, err := decodeFun(m)
			if err != nil {
				return nil, err
			}
			stmt.Methods = append(stmt.Methods, fn)
		}
	}
	return stmt, nil
}
