// Package ir - AST to IR conversion
// Design: Single pass, flat namespace, typed temporaries
package ir

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/minic-compiler/pkg/frontend"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

// binding is the IR name and kind a source name resolves to
type binding struct {
	name string
	kind types.Kind
}

// Builder lowers one program. Temporary and label numbering start at 1 for
// every Builder and are never reused.
type Builder struct {
	prog    *Program
	tempID  int
	labelID int

	scopes  []map[string]binding
	shadows map[string]int
	faults  []error
}

func NewBuilder() *Builder {
	return &Builder{
		prog:    &Program{},
		scopes:  []map[string]binding{{}},
		shadows: map[string]int{},
	}
}

// Build lowers a checked program. Constructs that cannot be lowered become
// Fault instructions; the returned error joins them and the program is
// still complete otherwise.
func Build(prog *frontend.Program) (*Program, error) {
	return NewBuilder().Build(prog)
}

func (b *Builder) Build(prog *frontend.Program) (*Program, error) {
	logger.Debug("Building IR from AST", "statements", len(prog.Statements))
	for _, stmt := range prog.Statements {
		b.buildStatement(stmt)
	}
	logger.LogIRGeneration(len(b.prog.Insts), len(b.faults))
	return b.prog, errors.Join(b.faults...)
}

func (b *Builder) buildStatement(stmt frontend.Stmt) {
	if err := b.lowerStatement(stmt); err != nil {
		err = fmt.Errorf("line %d: %w", stmt.Pos(), err)
		logger.Error("Failed to lower statement", "error", err)
		b.faults = append(b.faults, err)
		b.emit(Fault{Message: err.Error()})
	}
}

func (b *Builder) lowerStatement(stmt frontend.Stmt) error {
	switch s := stmt.(type) {
	case *frontend.VarDecl:
		name := b.declare(s.Name.Name, s.Type)
		b.emit(Declare{Type: s.Type, Name: name})
		if s.Init == nil {
			return nil
		}
		val, _, err := b.buildExpression(s.Init)
		if err != nil {
			return err
		}
		b.assign(name, val)
		return nil

	case *frontend.Assign:
		_, _, err := b.buildExpression(s)
		return err

	case *frontend.ExprStmt:
		_, _, err := b.buildExpression(s.X)
		return err

	case *frontend.Block:
		b.enterScope()
		defer b.exitScope()
		for _, inner := range s.Statements {
			b.buildStatement(inner)
		}
		return nil

	case *frontend.If:
		return b.buildIf(s)

	default:
		return fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

func (b *Builder) buildIf(s *frontend.If) error {
	cond, ok := s.Cond.(*frontend.RelOp)
	if !ok {
		return fmt.Errorf("if condition is not a comparison: %T", s.Cond)
	}
	cmp, err := b.buildCompare(cond)
	if err != nil {
		return err
	}

	if s.Else == nil {
		end := b.newLabel()
		b.emit(JumpIfFalse{Label: end, Type: cmp.Type, Op: cmp.Op})
		b.buildStatement(s.Then)
		b.emit(Label{Name: end})
		return nil
	}

	elseLabel := b.newLabel()
	end := b.newLabel()
	b.emit(JumpIfFalse{Label: elseLabel, Type: cmp.Type, Op: cmp.Op})
	b.buildStatement(s.Then)
	b.emit(Jump{Label: end})
	b.emit(Label{Name: elseLabel})
	b.buildStatement(s.Else)
	b.emit(Label{Name: end})
	return nil
}

// buildExpression lowers e and returns the operand holding its value. A
// comparison evaluated for effect yields a nil operand.
func (b *Builder) buildExpression(e frontend.Expr) (Operand, types.Kind, error) {
	switch e := e.(type) {
	case *frontend.NumberLiteral:
		lit := Lit{Text: e.Text}
		return lit, lit.Kind(), nil

	case *frontend.Identifier:
		bind, ok := b.lookup(e.Name)
		if !ok {
			return nil, types.Unknown, fmt.Errorf("undefined variable: %s", e.Name)
		}
		return Var{Name: bind.name}, bind.kind, nil

	case *frontend.Assign:
		bind, ok := b.lookup(e.Name.Name)
		if !ok {
			return nil, types.Unknown, fmt.Errorf("undefined variable: %s", e.Name.Name)
		}
		val, _, err := b.buildExpression(e.Value)
		if err != nil {
			return nil, types.Unknown, err
		}
		b.assign(bind.name, val)
		return Var{Name: bind.name}, bind.kind, nil

	case *frontend.BinOp:
		left, lk, err := b.buildExpression(e.Left)
		if err != nil {
			return nil, types.Unknown, err
		}
		right, rk, err := b.buildExpression(e.Right)
		if err != nil {
			return nil, types.Unknown, err
		}
		if left == nil || right == nil {
			return nil, types.Unknown, errors.New("comparison used as arithmetic operand")
		}
		kind := types.Promote(lk, rk)
		temp := b.newTemp()
		b.emit(BinArith{
			Type: kind,
			Op:   arithOp(e.Op),
			Dest: temp,
			Src1: left,
			Src2: right,
		})
		return Var{Name: temp}, kind, nil

	case *frontend.RelOp:
		_, err := b.buildCompare(e)
		return nil, types.Bool, err

	default:
		return nil, types.Unknown, fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (b *Builder) buildCompare(r *frontend.RelOp) (Compare, error) {
	left, lk, err := b.buildExpression(r.Left)
	if err != nil {
		return Compare{}, err
	}
	right, rk, err := b.buildExpression(r.Right)
	if err != nil {
		return Compare{}, err
	}
	if left == nil || right == nil {
		return Compare{}, errors.New("comparison used as comparison operand")
	}
	cmp := Compare{
		Type: types.Promote(lk, rk),
		Op:   relOp(r.Op),
		Src1: left,
		Src2: right,
	}
	b.emit(cmp)
	return cmp, nil
}

func (b *Builder) assign(dest string, val Operand) {
	switch v := val.(type) {
	case Lit:
		b.emit(AssignLit{Dest: dest, Value: v})
	case Var:
		b.emit(AssignVar{Dest: dest, Src: v})
	}
}

// Scopes

func (b *Builder) enterScope() {
	b.scopes = append(b.scopes, map[string]binding{})
}

func (b *Builder) exitScope() {
	if len(b.scopes) > 1 {
		b.scopes = b.scopes[:len(b.scopes)-1]
	}
}

// declare binds name in the innermost scope. A name that shadows a visible
// outer binding gets a fresh IR name (x.1, x.2, ...).
func (b *Builder) declare(name string, kind types.Kind) string {
	irName := name
	if _, visible := b.lookup(name); visible {
		b.shadows[name]++
		irName = fmt.Sprintf("%s.%d", name, b.shadows[name])
	}
	b.scopes[len(b.scopes)-1][name] = binding{name: irName, kind: kind}
	return irName
}

func (b *Builder) lookup(name string) (binding, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if bind, ok := b.scopes[i][name]; ok {
			return bind, true
		}
	}
	return binding{}, false
}

// Helpers

func (b *Builder) emit(inst Inst) {
	b.prog.Insts = append(b.prog.Insts, inst)
}

func (b *Builder) newTemp() string {
	b.tempID++
	return fmt.Sprintf("t%d", b.tempID)
}

func (b *Builder) newLabel() string {
	b.labelID++
	return fmt.Sprintf("L%d", b.labelID)
}

func arithOp(op frontend.ArithOp) Op {
	switch op {
	case frontend.Sub:
		return OpSub
	case frontend.Mul:
		return OpMul
	case frontend.Div:
		return OpDiv
	default:
		return OpAdd
	}
}

func relOp(op frontend.RelOperator) Op {
	switch op {
	case frontend.Ne:
		return OpNe
	case frontend.Lt:
		return OpLt
	case frontend.Gt:
		return OpGt
	case frontend.Le:
		return OpLe
	case frontend.Ge:
		return OpGe
	default:
		return OpEq
	}
}
