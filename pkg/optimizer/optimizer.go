// Package optimizer - IR-level optimizations
// Design: Simple, linear passes; each returns a new program and leaves its
// input untouched so callers can show IR before and after
package optimizer

import (
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
	"github.com/GriffinCanCode/minic-compiler/pkg/ir"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
)

// Optimize applies the passes enabled at level. Level 0 returns prog as is.
func Optimize(prog *ir.Program, level int) (*ir.Program, []diag.Diagnostic) {
	logger.Debug("Running optimization passes", "level", level)

	if level <= 0 {
		return prog, nil
	}

	// Level 1: constant folding, one linear scan
	prog, warnings := ConstantFold(prog)

	if level >= 2 {
		// Level 2: algebraic identities, then fold what they exposed
		prog = PeepholeOptimize(prog)
		var more []diag.Diagnostic
		prog, more = ConstantFold(prog)
		warnings = append(warnings, more...)
	}

	logger.Debug("Optimization complete", "level", level, "instructions", len(prog.Insts))
	return prog, warnings
}

// ConstantFold replaces arithmetic on two literals with an assignment of the
// result. Folded values are not propagated into later instructions.
func ConstantFold(prog *ir.Program) (*ir.Program, []diag.Diagnostic) {
	logger.Debug("Running constant folding")

	var warnings []diag.Diagnostic
	out := &ir.Program{Insts: make([]ir.Inst, 0, len(prog.Insts))}
	folded := 0

	for _, inst := range prog.Insts {
		binop, ok := inst.(ir.BinArith)
		if !ok {
			out.Insts = append(out.Insts, inst)
			continue
		}
		l, lok := literalValue(binop.Src1)
		r, rok := literalValue(binop.Src2)
		if !lok || !rok {
			out.Insts = append(out.Insts, inst)
			continue
		}

		if binop.Op == ir.OpDiv && r == 0 {
			warnings = append(warnings, diag.Diagnostic{
				Phase:    diag.Optimization,
				Code:     diag.DivisionByZero,
				Severity: diag.SeverityWarning,
				Message:  fmt.Sprintf("Division by literal zero in '%s' folded to 0", binop.String()),
			})
			logger.Warn("Division by zero folded to 0", "inst", binop.String())
		}

		val := evalConstOp(binop.Op, l, r)
		out.Insts = append(out.Insts, ir.AssignLit{Dest: binop.Dest, Value: ir.Lit{Text: formatNumber(val)}})
		folded++
	}

	logger.LogOptimization("constant-fold", folded)
	return out, warnings
}

func evalConstOp(op ir.Op, l, r float64) float64 {
	switch op {
	case ir.OpAdd:
		return l + r
	case ir.OpSub:
		return l - r
	case ir.OpMul:
		return l * r
	case ir.OpDiv:
		if r != 0 {
			return l / r
		}
		return 0
	default:
		return 0
	}
}

func literalValue(op ir.Operand) (float64, bool) {
	lit, ok := op.(ir.Lit)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(lit.Text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatNumber renders integral values without a fraction (5, not 5.0)
func formatNumber(v float64) string {
	if v == 0 {
		// normalizes -0
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
