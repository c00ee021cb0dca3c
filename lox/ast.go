package lox

import "fmt"

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line <= 0 {
		return "?"
	}
	if p.Column <= 0 {
		return fmt.Sprintf("%d", p.Line)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is an already-parsed unit. Source, when set, is the text the
// nodes' positions refer to and is used to render code frames.
type Program struct {
	Statements []Statement
	Source     string
}

type ExprStmt struct {
	Expr     Expression
	Position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.Position }

type PrintStmt struct {
	Expr     Expression
	Position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.Position }

// VarStmt declares Name. A nil Initializer leaves the variable
// uninitialized; reading it fails until it is assigned.
type VarStmt struct {
	Name        string
	Initializer Expression
	Position    Position
}

func (s *VarStmt) stmtNode()     {}
func (s *VarStmt) Pos() Position { return s.Position }

type BlockStmt struct {
	Statements []Statement
	Position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.Position }

type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	Position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.Position }

type WhileStmt struct {
	Condition Expression
	Body      Statement
	Position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.Position }

// FunStmt declares a function, or a method when it appears in a ClassStmt.
type FunStmt struct {
	Name     string
	Params   []string
	Body     []Statement
	Position Position
}

func (s *FunStmt) stmtNode()     {}
func (s *FunStmt) Pos() Position { return s.Position }

type ReturnStmt struct {
	Value    Expression
	Position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.Position }

type ClassStmt struct {
	Name       string
	Superclass *VariableExpr
	Methods    []*FunStmt
	Position   Position
}

func (s *ClassStmt) stmtNode()     {}
func (s *ClassStmt) Pos() Position { return s.Position }

type LiteralExpr struct {
	Value    Value
	Position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.Position }

type VariableExpr struct {
	Name     string
	Position Position
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.Position }

type AssignExpr struct {
	Name     string
	Value    Expression
	Position Position
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.Position }

type UnaryExpr struct {
	Op       UnaryOp
	Operand  Expression
	Position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.Position }

type BinaryExpr struct {
	Op       BinaryOp
	Left     Expression
	Right    Expression
	Position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.Position }

type LogicalExpr struct {
	Op       LogicalOp
	Left     Expression
	Right    Expression
	Position Position
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) Pos() Position { return e.Position }

type GroupingExpr struct {
	Inner    Expression
	Position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.Position }

type CallExpr struct {
	Callee   Expression
	Args     []Expression
	Position Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.Position }

type GetExpr struct {
	Object   Expression
	Name     string
	Position Position
}

func (e *GetExpr) exprNode()     {}
func (e *GetExpr) Pos() Position { return e.Position }

type SetExpr struct {
	Object   Expression
	Name     string
	Value    Expression
	Position Position
}

func (e *SetExpr) exprNode()     {}
func (e *SetExpr) Pos() Position { return e.Position }

type ThisExpr struct {
	Position Position
}

func (e *ThisExpr) exprNode()     {}
func (e *ThisExpr) Pos() Position { return e.Position }

// SuperExpr is `super.Method`.
type SuperExpr struct {
	Method   string
	Position Position
}

func (e *SuperExpr) exprNode()     {}
func (e *SuperExpr) Pos() Position { return e.Position }

// SuperCallExpr is a bare `super(args...)`, only legal inside init.
type SuperCallExpr struct {
	Args     []Expression
	Position Position
}

func (e *SuperCallExpr) exprNode()     {}
func (e *SuperCallExpr) Pos() Position { return e.Position }

type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpNegate:
		return "-"
	case OpNot:
		return "!"
	default:
		return fmt.Sprintf("unary(%d)", int(op))
	}
}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd:          "+",
	OpSubtract:     "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
}

func (op BinaryOp) String() string {
	if sym, ok := binaryOpSymbols[op]; ok {
		return sym
	}
	return fmt.Sprintf("binary(%d)", int(op))
}

// ParseBinaryOp maps an operator symbol such as "<=" to its BinaryOp.
func ParseBinaryOp(symbol string) (BinaryOp, bool) {
	for op, sym := range binaryOpSymbols {
		if sym == symbol {
			return op, true
		}
	}
	return 0, false
}

func ParseUnaryOp(symbol string) (UnaryOp, bool) {
	switch symbol {
	case "-":
		return OpNegate, true
	case "!":
		return OpNot, true
	default:
		return 0, false
	}
}

type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	if op == OpOr {
		return "or"
	}
	return "and"
}
