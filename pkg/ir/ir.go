// Package ir implements the intermediate representation.
//
// Design: Three-address code in one flat, ordered instruction list.
// Operands are typed values, never re-parsed from text.
package ir

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

// Program is the top-level IR container
type Program struct {
	Insts []Inst
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, inst := range p.Insts {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Lines renders one instruction per element, for reports
func (p *Program) Lines() []string {
	lines := make([]string, len(p.Insts))
	for i, inst := range p.Insts {
		lines[i] = inst.String()
	}
	return lines
}

// Inst is a three-address code instruction
type Inst interface {
	fmt.Stringer
	inst()
}

// Operand is either a variable (or temporary) name or a numeric literal
type Operand interface {
	fmt.Stringer
	operand()
}

type Var struct {
	Name string
}

func (Var) operand()         {}
func (v Var) String() string { return v.Name }

// Lit keeps the literal's decimal text; a '.' makes it a float
type Lit struct {
	Text string
}

func (Lit) operand()         {}
func (l Lit) String() string { return l.Text }

// Kind returns the literal's type
func (l Lit) Kind() types.Kind { return types.OfLiteral(l.Text) }

// Instructions
type Declare struct {
	Type types.Kind
	Name string
}

func (Declare) inst() {}
func (d Declare) String() string {
	return fmt.Sprintf("DECLARE %s %s", d.Type, d.Name)
}

type AssignLit struct {
	Dest  string
	Value Lit
}

func (AssignLit) inst() {}
func (a AssignLit) String() string {
	return fmt.Sprintf("ASSIGN %s, %s", a.Dest, a.Value)
}

type AssignVar struct {
	Dest string
	Src  Var
}

func (AssignVar) inst() {}
func (a AssignVar) String() string {
	return fmt.Sprintf("ASSIGN %s, %s", a.Dest, a.Src)
}

type BinArith struct {
	Type types.Kind
	Op   Op
	Dest string
	Src1 Operand
	Src2 Operand
}

func (BinArith) inst() {}
func (b BinArith) String() string {
	return fmt.Sprintf("%s %s %s, %s, %s", b.Op, b.Type, b.Dest, b.Src1, b.Src2)
}

// Compare sets the condition for the JumpIfFalse that follows it
type Compare struct {
	Type types.Kind
	Op   Op
	Src1 Operand
	Src2 Operand
}

func (Compare) inst() {}
func (c Compare) String() string {
	return fmt.Sprintf("COMPARE %s %s, %s, %s", c.Type, c.Src1, c.Op.Symbol(), c.Src2)
}

type Jump struct {
	Label string
}

func (Jump) inst() {}
func (j Jump) String() string { return "JUMP " + j.Label }

// JumpIfFalse branches when the preceding Compare is false. It carries the
// compare's type and operator so code generation does not depend on position.
type JumpIfFalse struct {
	Label string
	Type  types.Kind
	Op    Op
}

func (JumpIfFalse) inst() {}
func (j JumpIfFalse) String() string { return "JUMP_IF_FALSE " + j.Label }

type Label struct {
	Name string
}

func (Label) inst() {}
func (l Label) String() string { return "LABEL " + l.Name }

// Fault marks a construct that could not be lowered
type Fault struct {
	Message string
}

func (Fault) inst() {}
func (f Fault) String() string { return "; error: " + f.Message }

// Operations
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

var opNames = [...]string{
	OpAdd: "ADD",
	OpSub: "SUB",
	OpMul: "MUL",
	OpDiv: "DIV",
	OpEq:  "EQ",
	OpNe:  "NE",
	OpLt:  "LT",
	OpGt:  "GT",
	OpLe:  "LE",
	OpGe:  "GE",
}

var opSymbols = [...]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpEq:  "==",
	OpNe:  "!=",
	OpLt:  "<",
	OpGt:  ">",
	OpLe:  "<=",
	OpGe:  ">=",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// Symbol returns the source-level spelling of the operator
func (op Op) Symbol() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return "?"
	}
	return opSymbols[op]
}

// IsArith reports whether op is one of + - * /
func (op Op) IsArith() bool {
	return op >= OpAdd && op <= OpDiv
}

// IsRelational reports whether op is a comparison
func (op Op) IsRelational() bool {
	return op >= OpEq && op <= OpGe
}
