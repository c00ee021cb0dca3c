package lox

import (
	"fmt"
	"math"
	"strconv"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindBuiltin:
		return "builtin"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "Nil"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.data.(float64))
	case KindString:
		return v.data.(string)
	case KindFunction:
		return "fun " + v.data.(*Function).Name()
	case KindMethod:
		return v.data.(*BoundMethod).String()
	case KindBuiltin:
		return "fun " + v.data.(*Builtin).Name
	case KindClass:
		return v.data.(*Class).Name()
	case KindInstance:
		return v.data.(*Instance).String()
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// GoString renders a value with its kind, which keeps %#v output in test
// failures readable.
func (v Value) GoString() string {
	switch v.kind {
	case KindNil:
		return "Nil"
	case KindString:
		return strconv.Quote(v.data.(string)) + ":string"
	default:
		return v.String() + ":" + v.kind.String()
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Equal compares values without coercion. Classes and instances compare by
// reference, functions by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.data.(float64) == other.data.(float64)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindMethod:
		a, b := v.data.(*BoundMethod), other.data.(*BoundMethod)
		return a.receiver == b.receiver && a.method == b.method
	default:
		return v.data == other.data
	}
}
