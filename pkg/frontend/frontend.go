// Package frontend implements tokenizing, parsing and AST construction.
//
// Design: Minimal, focused on correctness. The parser never gives up on a
// file; it records diagnostics and always hands back a usable tree.
package frontend

import "github.com/GriffinCanCode/minic-compiler/pkg/types"

// AST node types. The set is closed: only this package can add variants.
type Node interface {
	Pos() int
	node()
}

type Stmt interface {
	Node
	stmt()
}

type Expr interface {
	Node
	expr()
}

// Program is the root of a source file
type Program struct {
	Statements []Stmt
}

func (*Program) node()    {}
func (p *Program) Pos() int { return 1 }

// Statements
type Block struct {
	Statements []Stmt
	Line       int
}

func (*Block) node()      {}
func (*Block) stmt()      {}
func (b *Block) Pos() int { return b.Line }

type VarDecl struct {
	Type types.Kind
	Name *Identifier
	Init Expr // nil without initializer
	Line int
}

func (*VarDecl) node()      {}
func (*VarDecl) stmt()      {}
func (d *VarDecl) Pos() int { return d.Line }

// Assign is both an expression (a = b = 1) and a statement (a = 1;)
type Assign struct {
	Name  *Identifier
	Value Expr
	Line  int
}

func (*Assign) node()      {}
func (*Assign) stmt()      {}
func (*Assign) expr()      {}
func (a *Assign) Pos() int { return a.Line }

type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil without else
	Line int
}

func (*If) node()      {}
func (*If) stmt()      {}
func (s *If) Pos() int { return s.Line }

// ExprStmt is an expression evaluated for effect (a + 1;)
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) node()      {}
func (*ExprStmt) stmt()      {}
func (s *ExprStmt) Pos() int { return s.X.Pos() }

// Expressions
type BinOp struct {
	Left  Expr
	Op    ArithOp
	Right Expr
	Line  int
}

func (*BinOp) node()      {}
func (*BinOp) expr()      {}
func (b *BinOp) Pos() int { return b.Line }

type RelOp struct {
	Left  Expr
	Op    RelOperator
	Right Expr
	Line  int
}

func (*RelOp) node()      {}
func (*RelOp) expr()      {}
func (r *RelOp) Pos() int { return r.Line }

// NumberLiteral keeps the source text; a '.' makes it a float
type NumberLiteral struct {
	Text string
	Line int
}

func (*NumberLiteral) node()      {}
func (*NumberLiteral) expr()      {}
func (n *NumberLiteral) Pos() int { return n.Line }

type Identifier struct {
	Name string
	Line int
}

func (*Identifier) node()      {}
func (*Identifier) expr()      {}
func (i *Identifier) Pos() int { return i.Line }

// ArithOp is one of + - * /
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return "?"
}

// RelOperator is one of == != < > <= >=
type RelOperator int

const (
	Eq RelOperator = iota
	Ne
	Lt
	Gt
	Le
	Ge
)

func (op RelOperator) String() string {
	switch op {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Le:
		return "<="
	case Ge:
		return ">="
	}
	return "?"
}

func arithOpFromText(text string) ArithOp {
	switch text {
	case "-":
		return Sub
	case "*":
		return Mul
	case "/":
		return Div
	default:
		return Add
	}
}

func relOpFromText(text string) RelOperator {
	switch text {
	case "!=":
		return Ne
	case "<":
		return Lt
	case ">":
		return Gt
	case "<=":
		return Le
	case ">=":
		return Ge
	default:
		return Eq
	}
}
