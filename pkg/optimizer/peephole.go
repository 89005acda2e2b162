// Package optimizer - Peephole optimization pass
// Recognizes algebraic identities and redundant moves in the IR
package optimizer

import (
	"github.com/GriffinCanCode/minic-compiler/pkg/ir"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

// PeepholeOptimize applies pattern-based peephole optimizations
func PeepholeOptimize(prog *ir.Program) *ir.Program {
	logger.Debug("Running peephole optimizer")

	insts, changes := optimizeInstSequence(prog.Insts)

	logger.LogOptimization("peephole", changes)
	return &ir.Program{Insts: insts}
}

// optimizeInstSequence optimizes a sequence of instructions
func optimizeInstSequence(insts []ir.Inst) ([]ir.Inst, int) {
	result := make([]ir.Inst, 0, len(insts))
	changes := 0
	i := 0

	for i < len(insts) {
		// Try two-instruction patterns first
		if i+1 < len(insts) && isJumpToNext(insts[i], insts[i+1]) {
			logger.Debug("Peephole: eliminated jump to next label")
			changes++
			i++
			continue
		}

		// Try single-instruction patterns
		optimized, keep := trySingleInstPattern(insts[i])
		if keep {
			result = append(result, optimized)
		}
		if !keep || optimized != insts[i] {
			changes++
		}
		i++
	}

	return result, changes
}

// trySingleInstPattern rewrites one instruction. keep is false when the
// instruction can be dropped.
func trySingleInstPattern(inst ir.Inst) (ir.Inst, bool) {
	switch in := inst.(type) {
	case ir.AssignVar:
		// Pattern: x = x  =>  (nothing)
		if in.Src.Name == in.Dest {
			logger.Debug("Peephole: eliminated self-assignment", "var", in.Dest)
			return nil, false
		}
		return inst, true

	case ir.BinArith:
		return tryIdentity(in), true
	}
	return inst, true
}

// tryIdentity folds x = a+0, a-0, a*1, a/1 (and 0+a, 1*a) into a move, and
// x = a*0 into a zero load. Only integer identity literals qualify: with an
// int literal the other operand has the instruction's own type, so the move
// never crosses int and float slots.
func tryIdentity(b ir.BinArith) ir.Inst {
	lv, lIsInt := intLiteral(b.Src1)
	rv, rIsInt := intLiteral(b.Src2)

	switch b.Op {
	case ir.OpAdd:
		if rIsInt && rv == 0 {
			return move(b.Dest, b.Src1)
		}
		if lIsInt && lv == 0 {
			return move(b.Dest, b.Src2)
		}
	case ir.OpSub:
		if rIsInt && rv == 0 {
			return move(b.Dest, b.Src1)
		}
	case ir.OpMul:
		if rIsInt && rv == 1 {
			return move(b.Dest, b.Src1)
		}
		if lIsInt && lv == 1 {
			return move(b.Dest, b.Src2)
		}
		if (rIsInt && rv == 0) || (lIsInt && lv == 0) {
			logger.Debug("Peephole: eliminated multiply-by-zero")
			return ir.AssignLit{Dest: b.Dest, Value: ir.Lit{Text: "0"}}
		}
	case ir.OpDiv:
		if rIsInt && rv == 1 {
			return move(b.Dest, b.Src1)
		}
	}
	return b
}

func move(dest string, src ir.Operand) ir.Inst {
	logger.Debug("Peephole: eliminated identity operation", "dest", dest)
	switch s := src.(type) {
	case ir.Var:
		return ir.AssignVar{Dest: dest, Src: s}
	case ir.Lit:
		return ir.AssignLit{Dest: dest, Value: s}
	}
	return nil
}

func intLiteral(op ir.Operand) (float64, bool) {
	lit, ok := op.(ir.Lit)
	if !ok || lit.Kind() != types.Int {
		return 0, false
	}
	return literalValue(lit)
}

func isJumpToNext(a, b ir.Inst) bool {
	j, ok := a.(ir.Jump)
	if !ok {
		return false
	}
	l, ok := b.(ir.Label)
	return ok && l.Name == j.Label
}
