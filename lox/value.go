package lox

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindMethod
	KindBuiltin
	KindClass
	KindInstance
)

type Value struct {
	kind ValueKind
	data any
}

// Builtin is a host function exposed to programs as a global.
// Arity < 0 accepts any number of arguments.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunc
}

type BuiltinFunc func(exec *Execution, args []Value) (Value, error)

// Function is a closure created by a fun declaration.
type Function struct {
	Decl    *FunStmt
	Closure *Env
}

func (fn *Function) Name() string { return fn.Decl.Name }
func (fn *Function) Arity() int   { return len(fn.Decl.Params) }
