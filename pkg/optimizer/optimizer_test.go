package optimizer

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
	"github.com/GriffinCanCode/minic-compiler/pkg/ir"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

func lit(s string) ir.Lit { return ir.Lit{Text: s} }
func v(s string) ir.Var   { return ir.Var{Name: s} }

func arith(kind types.Kind, op ir.Op, dest string, a, b ir.Operand) ir.BinArith {
	return ir.BinArith{Type: kind, Op: op, Dest: dest, Src1: a, Src2: b}
}

func TestConstantFold(t *testing.T) {
	tests := []struct {
		name string
		inst ir.Inst
		want string
	}{
		{"integral add stays integral", arith(types.Int, ir.OpAdd, "t", lit("2"), lit("3")), "ASSIGN t, 5"},
		{"subtraction", arith(types.Int, ir.OpSub, "t", lit("2"), lit("7")), "ASSIGN t, -5"},
		{"multiplication", arith(types.Int, ir.OpMul, "t", lit("6"), lit("7")), "ASSIGN t, 42"},
		{"fractional division", arith(types.Int, ir.OpDiv, "t", lit("5"), lit("2")), "ASSIGN t, 2.5"},
		{"float operands with integral result", arith(types.Float, ir.OpMul, "t", lit("2.5"), lit("2")), "ASSIGN t, 5"},
		{"float result", arith(types.Float, ir.OpAdd, "t", lit("1.25"), lit("2")), "ASSIGN t, 3.25"},
		{"division by zero", arith(types.Int, ir.OpDiv, "t", lit("5"), lit("0")), "ASSIGN t, 0"},
		{"zero product", arith(types.Float, ir.OpMul, "t", lit("0"), lit("0")), "ASSIGN t, 0"},
		{"variable operand untouched", arith(types.Int, ir.OpAdd, "t", v("a"), lit("3")), "ADD int t, a, 3"},
		{"non-arithmetic untouched", ir.Compare{Type: types.Int, Op: ir.OpLt, Src1: lit("1"), Src2: lit("2")}, "COMPARE int 1, <, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := ConstantFold(&ir.Program{Insts: []ir.Inst{tt.inst}})
			if len(out.Insts) != 1 {
				t.Fatalf("got %d instructions", len(out.Insts))
			}
			if got := out.Insts[0].String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstantFoldDivisionByZeroWarns(t *testing.T) {
	_, warnings := ConstantFold(&ir.Program{Insts: []ir.Inst{
		arith(types.Int, ir.OpDiv, "t1", lit("5"), lit("0")),
		arith(types.Int, ir.OpDiv, "t2", lit("5"), lit("1")),
	}})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	w := warnings[0]
	if w.Code != diag.DivisionByZero || w.IsError() {
		t.Errorf("got %+v, want a DivisionByZero warning", w)
	}
	if !strings.Contains(w.Error(), "DIV int t1, 5, 0") {
		t.Errorf("warning should name the instruction: %s", w.Error())
	}
}

func TestConstantFoldIdempotent(t *testing.T) {
	prog := &ir.Program{Insts: []ir.Inst{
		ir.Declare{Type: types.Int, Name: "x"},
		arith(types.Int, ir.OpAdd, "x", lit("2"), lit("3")),
	}}
	once, _ := ConstantFold(prog)
	twice, _ := ConstantFold(once)
	if once.String() != twice.String() {
		t.Errorf("folding is not idempotent:\n%s\n---\n%s", once, twice)
	}
	if !strings.Contains(twice.String(), "ASSIGN x, 5") {
		t.Errorf("got:\n%s", twice)
	}
}

func TestConstantFoldSinglePass(t *testing.T) {
	prog := &ir.Program{Insts: []ir.Inst{
		arith(types.Int, ir.OpAdd, "t1", lit("1"), lit("2")),
		arith(types.Int, ir.OpMul, "t2", v("t1"), lit("3")),
	}}
	out, _ := ConstantFold(prog)
	if out.Insts[1].String() != "MUL int t2, t1, 3" {
		t.Errorf("folded values must not propagate: %s", out.Insts[1])
	}
}

func TestConstantFoldLeavesInputUntouched(t *testing.T) {
	prog := &ir.Program{Insts: []ir.Inst{arith(types.Int, ir.OpAdd, "t1", lit("1"), lit("2"))}}
	before := prog.String()
	ConstantFold(prog)
	if prog.String() != before {
		t.Errorf("input was modified: %s", prog)
	}
}

func TestOptimizeLevels(t *testing.T) {
	prog := &ir.Program{Insts: []ir.Inst{
		arith(types.Int, ir.OpAdd, "t1", lit("1"), lit("2")),
		arith(types.Int, ir.OpMul, "t2", v("a"), lit("1")),
		ir.AssignVar{Dest: "a", Src: v("a")},
	}}

	out, _ := Optimize(prog, 0)
	if out != prog {
		t.Error("level 0 should return the program unchanged")
	}

	out, _ = Optimize(prog, 1)
	want1 := "ASSIGN t1, 3\nMUL int t2, a, 1\nASSIGN a, a\n"
	if out.String() != want1 {
		t.Errorf("level 1 got:\n%s\nwant:\n%s", out, want1)
	}

	out, _ = Optimize(prog, 2)
	want2 := "ASSIGN t1, 3\nASSIGN t2, a\n"
	if out.String() != want2 {
		t.Errorf("level 2 got:\n%s\nwant:\n%s", out, want2)
	}
}

func TestPeepholeIdentities(t *testing.T) {
	tests := []struct {
		name string
		inst ir.Inst
		want string
	}{
		{"add zero right", arith(types.Int, ir.OpAdd, "t", v("a"), lit("0")), "ASSIGN t, a"},
		{"add zero left", arith(types.Int, ir.OpAdd, "t", lit("0"), v("a")), "ASSIGN t, a"},
		{"subtract zero", arith(types.Float, ir.OpSub, "t", v("f"), lit("0")), "ASSIGN t, f"},
		{"multiply one", arith(types.Int, ir.OpMul, "t", lit("1"), v("a")), "ASSIGN t, a"},
		{"multiply zero", arith(types.Int, ir.OpMul, "t", v("a"), lit("0")), "ASSIGN t, 0"},
		{"divide one", arith(types.Int, ir.OpDiv, "t", v("a"), lit("1")), "ASSIGN t, a"},
		{"zero minus is not identity", arith(types.Int, ir.OpSub, "t", lit("0"), v("a")), "SUB int t, 0, a"},
		{"float identity literal kept", arith(types.Float, ir.OpAdd, "t", v("a"), lit("0.0")), "ADD float t, a, 0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := PeepholeOptimize(&ir.Program{Insts: []ir.Inst{tt.inst}})
			if got := out.Insts[0].String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeepholeJumpToNextLabel(t *testing.T) {
	prog := &ir.Program{Insts: []ir.Inst{
		ir.Jump{Label: "L2"},
		ir.Label{Name: "L2"},
		ir.Jump{Label: "L3"},
		ir.Label{Name: "L4"},
	}}
	out := PeepholeOptimize(prog)
	want := "LABEL L2\nJUMP L3\nLABEL L4\n"
	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}
