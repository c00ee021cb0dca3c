package progfile

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mgomes/loxobj/lox"
)

func decodeExpression(node *yaml.Node) (lox.Expression, error) {
	pos := position(node)
	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)
	case yaml.MappingNode:
	case yaml.AliasNode:
		return nil, failf(node, "aliases are not supported in programs")
	default:
		return nil, failf(node, "expected an expression")
	}

	key, val, err := single(node)
	if err != nil {
		return nil, err
	}

	if op, ok := binaryShorthands[key]; ok {
		return decodeBinary(op, val, pos)
	}

	switch key {
	case "add":
		return decodeAdd(val, pos)
	case "binary":
		parts, err := items(val, 3)
		if err != nil {
			return nil, err
		}
		op, ok := lox.ParseBinaryOp(parts[0].Value)
		if !ok {
			return nil, failf(parts[0], "unknown binary operator %q", parts[0].Value)
		}
		return decodeOperands(op, parts[1], parts[2], pos)
	case "unary":
		parts, err := items(val, 2)
		if err != nil {
			return nil, err
		}
		op, ok := lox.ParseUnaryOp(parts[0].Value)
		if !ok {
			return nil, failf(parts[0], "unknown unary operator %q", parts[0].Value)
		}
		return decodeUnary(op, parts[1], pos)
	case "not":
		return decodeUnary(lox.OpNot, val, pos)
	case "neg":
		return decodeUnary(lox.OpNegate, val, pos)
	case "and", "or":
		parts, err := items(val, 2)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpression(parts[0])
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(parts[1])
		if err != nil {
			return nil, err
		}
		op := lox.OpAnd
		if key == "or" {
			op = lox.OpOr
		}
		return &lox.LogicalExpr{Op: op, Left: left, Right: right, Position: pos}, nil
	case "group":
		inner, err := decodeExpression(val)
		if err != nil {
			return nil, err
		}
		return &lox.GroupingExpr{Inner: inner, Position: pos}, nil
	case "assign":
		parts, err := items(val, 2)
		if err != nil {
			return nil, err
		}
		name, err := identifier(parts[0], "variable name")
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(parts[1])
		if err != nil {
			return nil, err
		}
		return &lox.AssignExpr{Name: name, Value: value, Position: pos}, nil
	case "call":
		return decodeCall(val, pos)
	case "super_call":
		args, err := decodeArgs(val)
		if err != nil {
			return nil, err
		}
		return &lox.SuperCallExpr{Args: args, Position: pos}, nil
	case "get":
		parts, err := items(val, 2)
		if err != nil {
			return nil, err
		}
		obj, err := decodeExpression(parts[0])
		if err != nil {
			return nil, err
		}
		name, err := identifier(parts[1], "property name")
		if err != nil {
			return nil, err
		}
		return &lox.GetExpr{Object: obj, Name: name, Position: pos}, nil
	case "set":
		parts, err := items(val, 3)
		if err != nil {
			return nil, err
		}
		obj, err := decodeExpression(parts[0])
		if err != nil {
			return nil, err
		}
		name, err := identifier(parts[1], "property name")
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(parts[2])
		if err != nil {
			return nil, err
		}
		return &lox.SetExpr{Object: obj, Name: name, Value: value, Position: pos}, nil
	default:
		return nil, failf(node, "unknown expression %q", key)
	}
}

func decodeScalar(node *yaml.Node) (lox.Expression, error) {
	pos := position(node)
	switch node.Tag {
	case tagVar:
		name, err := identifierValue(node, "variable name")
		if err != nil {
			return nil, err
		}
		return &lox.VariableExpr{Name: name, Position: pos}, nil
	case tagThis:
		if node.Value != "" {
			return nil, failf(node, "!this takes no value")
		}
		return &lox.ThisExpr{Position: pos}, nil
	case tagSuper:
		name, err := identifierValue(node, "method name")
		if err != nil {
			return nil, err
		}
		return &lox.SuperExpr{Method: name, Position: pos}, nil
	case "!!null":
		return &lox.LiteralExpr{Value: lox.NewNil(), Position: pos}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, failf(node, "invalid boolean %q", node.Value)
		}
		return &lox.LiteralExpr{Value: lox.NewBool(b), Position: pos}, nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, failf(node, "invalid number %q", node.Value)
		}
		return &lox.LiteralExpr{Value: lox.NewNumber(f), Position: pos}, nil
	case "!!str":
		return &lox.LiteralExpr{Value: lox.NewString(node.Value), Position: pos}, nil
	default:
		return nil, failf(node, "unsupported tag %s", node.Tag)
	}
}

// identifierValue validates a tagged scalar, whose Tag is not !!str.
func identifierValue(node *yaml.Node, what string) (string, error) {
	if !ValidIdentifier(node.Value) {
		return "", failf(node, "invalid %s %q", what, node.Value)
	}
	return node.Value, nil
}

func decodeUnary(op lox.UnaryOp, val *yaml.Node, pos lox.Position) (lox.Expression, error) {
	operand, err := decodeExpression(val)
	if err != nil {
		return nil, err
	}
	return &lox.UnaryExpr{Op: op, Operand: operand, Position: pos}, nil
}

func decodeBinary(op lox.BinaryOp, val *yaml.Node, pos lox.Position) (lox.Expression, error) {
	parts, err := items(val, 2)
	if err != nil {
		return nil, err
	}
	return decodeOperands(op, parts[0], parts[1], pos)
}

func decodeOperands(op lox.BinaryOp, l, r *yaml.Node, pos lox.Position) (lox.Expression, error) {
	left, err := decodeExpression(l)
	if err != nil {
		return nil, err
	}
	right, err := decodeExpression(r)
	if err != nil {
		return nil, err
	}
	return &lox.BinaryExpr{Op: op, Left: left, Right: right, Position: pos}, nil
}

// decodeAdd folds two or more operands left to right.
func decodeAdd(val *yaml.Node, pos lox.Position) (lox.Expression, error) {
	parts, err := items(val, -1)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, failf(val, "add needs at least 2 operands, found %d", len(parts))
	}
	expr, err := decodeExpression(parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		right, err := decodeExpression(part)
		if err != nil {
			return nil, err
		}
		expr = &lox.BinaryExpr{Op: lox.OpAdd, Left: expr, Right: right, Position: pos}
	}
	return expr, nil
}

func decodeCall(val *yaml.Node, pos lox.Position) (lox.Expression, error) {
	parts, err := items(val, -1)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, failf(val, "call needs a callee")
	}
	callee, err := decodeExpression(parts[0])
	if err != nil {
		return nil, err
	}
	args := make([]lox.Expression, 0, len(parts)-1)
	for _, part := range parts[1:] {
		arg, err := decodeExpression(part)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &lox.CallExpr{Callee: callee, Args: args, Position: pos}, nil
}

func decodeArgs(val *yaml.Node) ([]lox.Expression, error) {
	if isNull(val) {
		return nil, nil
	}
	parts, err := items(val, -1)
	if err != nil {
		return nil, err
	}
	args := make([]lox.Expression, 0, len(parts))
	for _, part := range parts {
		arg, err := decodeExpression(part)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// ParseArguments decodes src as the body of a YAML flow sequence, so
// `"bacon", toast, !var b` yields three argument expressions.
func ParseArguments(src string) ([]lox.Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("["+src+"]"), &doc); err != nil {
		return nil, fmt.Errorf("parsing arguments: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return decodeArgs(doc.Content[0])
}
