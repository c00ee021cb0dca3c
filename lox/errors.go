package lox

import "fmt"

// UndefinedPropertyError reports a property that is neither a field of the
// receiver nor a method anywhere along its class chain.
type UndefinedPropertyError struct {
	Name  string
	Class string
}

func (e *UndefinedPropertyError) Error() string {
	return fmt.Sprintf("undefined property '%s' on %s", e.Name, e.Class)
}

type ArityMismatchError struct {
	Callee   string
	Expected int
	Given    int
}

func (e *ArityMismatchError) Error() string {
	if e.Callee == "" {
		return fmt.Sprintf("expected %d arguments but got %d", e.Expected, e.Given)
	}
	return fmt.Sprintf("%s expected %d arguments but got %d", e.Callee, e.Expected, e.Given)
}

type NoSuperclassError struct {
	Class string
}

func (e *NoSuperclassError) Error() string {
	return fmt.Sprintf("class %s has no superclass", e.Class)
}

type NotCallableError struct {
	Kind ValueKind
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("can only call functions and classes, got %s", e.Kind)
}

// DeclarationError rejects a malformed class declaration before the class
// becomes visible to the program.
type DeclarationError struct {
	Class   string
	Message string
}

func (e *DeclarationError) Error() string {
	if e.Class == "" {
		return e.Message
	}
	return fmt.Sprintf("class %s: %s", e.Class, e.Message)
}

type TypeError struct {
	Found    string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("no implicit conversion of type %s into %s", e.Found, e.Expected)
}

// StringLengthError rejects a string repetition whose result would exceed
// Limit bytes.
type StringLengthError struct {
	Length float64
	Limit  int
}

func (e *StringLengthError) Error() string {
	return fmt.Sprintf("string of %.0f bytes exceeds the %d byte limit", e.Length, e.Limit)
}

type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

type UninitializedVariableError struct {
	Name string
}

func (e *UninitializedVariableError) Error() string {
	return fmt.Sprintf("variable '%s' is declared but not initialized", e.Name)
}

func typeErrorFor(found Value, expected string) error {
	return &TypeError{Found: found.GoString(), Expected: expected}
}

// errorKind names the failure class shown as RuntimeError.Type.
func errorKind(err error) string {
	switch err.(type) {
	case *UndefinedPropertyError:
		return "UndefinedProperty"
	case *ArityMismatchError:
		return "ArityMismatch"
	case *NoSuperclassError:
		return "NoSuperclass"
	case *NotCallableError:
		return "NotCallable"
	case *DeclarationError:
		return "DeclarationError"
	case *TypeError:
		return "TypeError"
	case *StringLengthError:
		return "StringLength"
	case *UndefinedVariableError:
		return "UndefinedVariable"
	case *UninitializedVariableError:
		return "UninitializedVariable"
	default:
		return runtimeErrorTypeBase
	}
}
