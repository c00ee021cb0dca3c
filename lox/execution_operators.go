package lox

import (
	"fmt"
	"math"
	"strings"
)

// maxStringLength bounds strings built by repetition.
const maxStringLength = 1 << 24

// asBoolean accepts only bools and nil as conditions.
func asBoolean(v Value) (bool, error) {
	switch v.kind {
	case KindBool:
		return v.Bool(), nil
	case KindNil:
		return false, nil
	default:
		return false, typeErrorFor(v, "Boolean")
	}
}

func asNumber(v Value) (float64, error) {
	if v.kind != KindNumber {
		return 0, typeErrorFor(v, "Number")
	}
	return v.Number(), nil
}

func evalUnary(op UnaryOp, operand Value) (Value, error) {
	switch op {
	case OpNegate:
		n, err := asNumber(operand)
		if err != nil {
			return NewNil(), err
		}
		return NewNumber(-n), nil
	case OpNot:
		b, err := asBoolean(operand)
		if err != nil {
			return NewNil(), err
		}
		return NewBool(!b), nil
	default:
		return NewNil(), fmt.Errorf("unsupported unary operator %s", op)
	}
}

func evalBinary(op BinaryOp, left, right Value) (Value, error) {
	switch op {
	case OpAdd:
		return addValues(left, right)
	case OpSubtract, OpDivide:
		l, err := asNumber(left)
		if err != nil {
			return NewNil(), err
		}
		r, err := asNumber(right)
		if err != nil {
			return NewNil(), err
		}
		if op == OpSubtract {
			return NewNumber(l - r), nil
		}
		return NewNumber(l / r), nil
	case OpMultiply:
		return multiplyValues(left, right)
	case OpEqual:
		return NewBool(left.Equal(right)), nil
	case OpNotEqual:
		return NewBool(!left.Equal(right)), nil
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		cmp, ok := compareValues(left, right)
		if !ok {
			return NewBool(false), nil
		}
		switch op {
		case OpLess:
			return NewBool(cmp < 0), nil
		case OpLessEqual:
			return NewBool(cmp <= 0), nil
		case OpGreater:
			return NewBool(cmp > 0), nil
		default:
			return NewBool(cmp >= 0), nil
		}
	default:
		return NewNil(), fmt.Errorf("unsupported binary operator %s", op)
	}
}

func addValues(left, right Value) (Value, error) {
	switch left.kind {
	case KindNumber:
		r, err := asNumber(right)
		if err != nil {
			return NewNil(), err
		}
		return NewNumber(left.Number() + r), nil
	case KindString:
		if right.kind != KindString {
			return NewNil(), typeErrorFor(right, "String")
		}
		return NewString(left.Str() + right.Str()), nil
	default:
		return NewNil(), typeErrorFor(left, "Number")
	}
}

func multiplyValues(left, right Value) (Value, error) {
	switch left.kind {
	case KindNumber:
		r, err := asNumber(right)
		if err != nil {
			return NewNil(), err
		}
		return NewNumber(left.Number() * r), nil
	case KindString:
		r, err := asNumber(right)
		if err != nil {
			return NewNil(), err
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return NewNil(), typeErrorFor(right, "finite repeat count")
		}
		if r <= 0 {
			return NewString(""), nil
		}
		s := left.Str()
		if float64(len(s))*math.Trunc(r) > maxStringLength {
			return NewNil(), &StringLengthError{Length: float64(len(s)) * math.Trunc(r), Limit: maxStringLength}
		}
		return NewString(strings.Repeat(s, int(r))), nil
	default:
		return NewNil(), typeErrorFor(left, "Number or String")
	}
}

// compareValues orders numbers, bools and strings of the same kind. Any
// other pairing is unordered.
func compareValues(left, right Value) (int, bool) {
	if left.kind != right.kind {
		return 0, false
	}
	switch left.kind {
	case KindNumber:
		l, r := left.Number(), right.Number()
		switch {
		case l < r:
			return -1, true
		case l > r:
			return 1, true
		case l == r:
			return 0, true
		default:
			return 0, false
		}
	case KindBool:
		l, r := left.Bool(), right.Bool()
		switch {
		case l == r:
			return 0, true
		case !l:
			return -1, true
		default:
			return 1, true
		}
	case KindString:
		return strings.Compare(left.Str(), right.Str()), true
	default:
		return 0, false
	}
}
