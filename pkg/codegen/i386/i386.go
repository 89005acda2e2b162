// Package i386 implements 32-bit x86 code generation.
//
// Design: Direct NASM text from the IR, one frame slot per variable.
// Integers go through eax/ebx, floats through the x87 stack.
// A bad instruction becomes an inline error comment; generation goes on.
//
// The output is i386 with x87 except for two instructions: fcomip needs a
// P6 and fisttp (truncating float to int store) needs SSE3.
package i386

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/minic-compiler/pkg/ir"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

// Symbol is a variable's frame slot
type Symbol struct {
	Type   types.Kind
	Offset int // negative, relative to ebp
}

// Generator generates NASM i386 assembly
type Generator struct {
	w       io.Writer
	symbols map[string]*Symbol
	offset  int

	floats     map[string]string // literal text -> data label
	floatOrder []string

	scratch *Symbol // float to int conversions in loadInt

	prev     ir.Inst
	buf      *strings.Builder
	faults   int
	warnings []ValidationError
}

func NewGenerator(w io.Writer) *Generator {
	return &Generator{w: w}
}

func (g *Generator) reset() {
	g.symbols = make(map[string]*Symbol)
	g.offset = 0
	g.floats = make(map[string]string)
	g.floatOrder = nil
	g.scratch = nil
	g.prev = nil
	g.faults = 0
	g.warnings = nil
}

// Generate emits assembly for an IR program
func (g *Generator) Generate(prog *ir.Program) error {
	logger.Debug("Generating i386 assembly", "instructions", len(prog.Insts))
	g.reset()

	// The body comes first so the prologue can reserve the whole frame
	var body strings.Builder
	for _, inst := range prog.Insts {
		body.WriteString(g.generateInst(inst))
		g.prev = inst
	}

	var text strings.Builder
	text.WriteString("section .text\n")
	text.WriteString("global _start\n")
	text.WriteString("_start:\n")
	fmt.Fprintf(&text, "    push %s\n", Frame)
	fmt.Fprintf(&text, "    mov %s, %s\n", Frame, Stack)
	if size := -g.offset; size > 0 {
		fmt.Fprintf(&text, "    sub %s, %d ; Reserve frame for %d slots\n", Stack, size, size/SlotSize)
	}
	text.WriteString("    ; --- Begin user code ---\n")
	text.WriteString(body.String())
	text.WriteString("    ; --- End of user code ---\n")
	fmt.Fprintf(&text, "    mov %s, %s\n", Stack, Frame)
	fmt.Fprintf(&text, "    pop %s\n", Frame)
	text.WriteString("    mov eax, 1\n")
	text.WriteString("    xor ebx, ebx\n")
	text.WriteString("    int 0x80\n")

	if len(g.floatOrder) > 0 {
		text.WriteString("section .data\n")
		for _, lit := range g.floatOrder {
			fmt.Fprintf(&text, "    %s dd %s\n", g.floats[lit], lit)
		}
	}

	logger.LogCodeGen("i386", len(prog.Insts), g.faults)

	if _, err := io.WriteString(g.w, text.String()); err != nil {
		logger.Error("Failed to write assembly", "arch", "i386", "error", err)
		return fmt.Errorf("write assembly: %w", err)
	}
	return nil
}

// GenerateWithValidation generates and validates assembly
func (g *Generator) GenerateWithValidation(prog *ir.Program) (string, error) {
	// Generate to a buffer first
	var buf strings.Builder
	out := g.w
	g.w = &buf
	defer func() { g.w = out }()

	if err := g.Generate(prog); err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	assembly := buf.String()

	validator := NewValidator()
	err := validator.Validate(assembly)
	g.warnings = validator.Warnings()
	if err != nil {
		logger.Warn("Assembly validation failed", "error", err)
		return assembly, fmt.Errorf("validation failed: %w", err)
	}

	logger.Debug("Assembly generated and validated successfully")
	return assembly, nil
}

// Faults returns how many instructions degraded into error comments in the
// last Generate call
func (g *Generator) Faults() int {
	return g.faults
}

// Warnings returns the validator warnings of the last GenerateWithValidation call
func (g *Generator) Warnings() []ValidationError {
	return g.warnings
}

// generateInst renders one instruction. Any failure, including a panic,
// replaces the partial output with an error comment.
func (g *Generator) generateInst(inst ir.Inst) (out string) {
	var buf strings.Builder
	g.buf = &buf

	defer func() {
		if r := recover(); r != nil {
			out = g.fault(inst, fmt.Errorf("%v", r))
		}
	}()

	if err := g.lower(inst); err != nil {
		return g.fault(inst, err)
	}
	return buf.String()
}

func (g *Generator) fault(inst ir.Inst, err error) string {
	g.faults++
	logger.Warn("Code generation fault", "arch", "i386", "inst", inst.String(), "error", err)
	return fmt.Sprintf("\n    ; !!! ERROR GENERATING CODE FOR: '%s' -> %v !!!\n\n", inst, err)
}

func (g *Generator) lower(inst ir.Inst) error {
	switch in := inst.(type) {
	case ir.Declare:
		g.allocate(in.Name, in.Type)
		return nil

	case ir.AssignLit:
		return g.assignLit(in)

	case ir.AssignVar:
		return g.assignVar(in)

	case ir.BinArith:
		if !in.Op.IsArith() {
			return fmt.Errorf("unsupported arithmetic operator: %s", in.Op)
		}
		if in.Type == types.Float {
			return g.floatArith(in)
		}
		return g.intArith(in)

	case ir.Compare:
		if !in.Op.IsRelational() {
			return fmt.Errorf("not a comparison operator: %s", in.Op)
		}
		if in.Type == types.Float {
			g.loadFloat(in.Src2)
			g.loadFloat(in.Src1)
			g.emit("fcomip st0, st1")
			g.emit("fstp st0")
			return nil
		}
		g.loadInt(Acc, in.Src1)
		g.loadInt(Operand, in.Src2)
		g.emit("cmp eax, ebx")
		return nil

	case ir.Jump:
		g.emit("jmp %s", in.Label)
		return nil

	case ir.JumpIfFalse:
		if _, ok := g.prev.(ir.Compare); !ok {
			return fmt.Errorf("no COMPARE immediately before %s", in)
		}
		op, err := invertedJump(in.Type, in.Op)
		if err != nil {
			return err
		}
		g.emit("%s %s ; Jump if %s was false", op, in.Label, in.Op.Symbol())
		return nil

	case ir.Label:
		fmt.Fprintf(g.buf, "%s:\n", in.Name)
		return nil

	case ir.Fault:
		return fmt.Errorf("IR fault: %s", in.Message)

	default:
		return fmt.Errorf("unsupported instruction type: %T", inst)
	}
}

func (g *Generator) assignLit(in ir.AssignLit) error {
	sym := g.slot(in.Dest, in.Value.Kind())
	if sym.Type == types.Unknown {
		sym.Type = in.Value.Kind()
	}

	if sym.Type == types.Float {
		g.emit("fld dword [%s]", g.floatLabel(in.Value.Text))
		g.emit("fstp dword %s", mem(sym))
		return nil
	}

	if in.Value.Kind() == types.Float {
		v, err := strconv.ParseFloat(in.Value.Text, 64)
		if err != nil {
			return fmt.Errorf("bad literal %q: %w", in.Value.Text, err)
		}
		g.emit("mov dword %s, %d ; truncated from %s", mem(sym), int64(math.Trunc(v)), in.Value.Text)
		return nil
	}
	g.emit("mov dword %s, %s", mem(sym), in.Value.Text)
	return nil
}

func (g *Generator) assignVar(in ir.AssignVar) error {
	src := g.slot(in.Src.Name, types.Unknown)
	dest := g.slot(in.Dest, src.Type)

	switch {
	case dest.Type == types.Float && src.Type == types.Float:
		g.emit("fld dword %s", mem(src))
		g.emit("fstp dword %s", mem(dest))
	case dest.Type == types.Float:
		g.emit("fild dword %s", mem(src))
		g.emit("fstp dword %s", mem(dest))
	case src.Type == types.Float:
		g.emit("fld dword %s", mem(src))
		g.emit("fisttp dword %s", mem(dest))
	default:
		g.emit("mov eax, dword %s", mem(src))
		g.emit("mov dword %s, eax", mem(dest))
	}
	return nil
}

func (g *Generator) intArith(in ir.BinArith) error {
	g.loadInt(Acc, in.Src1)
	g.loadInt(Operand, in.Src2)

	switch in.Op {
	case ir.OpAdd:
		g.emit("add eax, ebx")
	case ir.OpSub:
		g.emit("sub eax, ebx")
	case ir.OpMul:
		g.emit("imul eax, ebx")
	case ir.OpDiv:
		g.emit("cdq")
		g.emit("idiv ebx")
	}

	dest := g.slot(in.Dest, types.Int)
	g.emit("mov dword %s, eax", mem(dest))
	return nil
}

func (g *Generator) floatArith(in ir.BinArith) error {
	op := fpuOps[in.Op]
	g.loadFloat(in.Src1)
	g.loadFloat(in.Src2)
	g.emit("%s st1, st0", op)

	dest := g.slot(in.Dest, types.Float)
	if dest.Type == types.Float {
		g.emit("fstp dword %s", mem(dest))
	} else {
		g.emit("fisttp dword %s", mem(dest))
	}
	return nil
}

var fpuOps = map[ir.Op]string{
	ir.OpAdd: "faddp",
	ir.OpSub: "fsubp",
	ir.OpMul: "fmulp",
	ir.OpDiv: "fdivp",
}

// loadInt moves an operand into reg. Fractional literals and float slots
// (such as a temporary holding a folded 5/2) are truncated.
func (g *Generator) loadInt(reg string, op ir.Operand) {
	switch o := op.(type) {
	case ir.Lit:
		if o.Kind() == types.Float {
			v, _ := strconv.ParseFloat(o.Text, 64)
			g.emit("mov %s, %d ; truncated from %s", reg, int64(math.Trunc(v)), o.Text)
			return
		}
		g.emit("mov %s, %s", reg, o.Text)
	case ir.Var:
		sym := g.slot(o.Name, types.Unknown)
		if sym.Type == types.Float {
			tmp := g.scratchSlot()
			g.emit("fld dword %s", mem(sym))
			g.emit("fisttp dword %s", mem(tmp))
			g.emit("mov %s, dword %s ; truncated from %s", reg, mem(tmp), o.Name)
			return
		}
		g.emit("mov %s, dword %s", reg, mem(sym))
	default:
		panic(fmt.Sprintf("unsupported operand %T", op))
	}
}

// loadFloat pushes an operand onto the x87 stack. Int slots load with fild.
func (g *Generator) loadFloat(op ir.Operand) {
	switch o := op.(type) {
	case ir.Lit:
		g.emit("fld dword [%s]", g.floatLabel(o.Text))
	case ir.Var:
		sym := g.slot(o.Name, types.Unknown)
		if sym.Type == types.Float {
			g.emit("fld dword %s", mem(sym))
		} else {
			g.emit("fild dword %s", mem(sym))
		}
	default:
		panic(fmt.Sprintf("unsupported operand %T", op))
	}
}

// allocate assigns a new frame slot. Redeclaring a name gets a fresh slot.
// The prologue reserves all slots at once.
func (g *Generator) allocate(name string, kind types.Kind) *Symbol {
	g.offset -= SlotSize
	sym := &Symbol{Type: kind, Offset: g.offset}
	g.symbols[name] = sym
	g.emit("; Allocate space for %s (type: %s) at %s", name, kind, mem(sym))
	return sym
}

// scratchSlot returns the int slot used to move a truncated float into a
// register. Its name cannot clash with an IR name.
func (g *Generator) scratchSlot() *Symbol {
	if g.scratch == nil {
		g.scratch = g.allocate(".cvt", types.Int)
	}
	return g.scratch
}

// slot returns name's frame slot, allocating one of the given kind when the
// name was never declared
func (g *Generator) slot(name string, kind types.Kind) *Symbol {
	if sym, ok := g.symbols[name]; ok {
		return sym
	}
	logger.Debug("Auto-allocating undeclared variable", "name", name, "type", kind.String())
	return g.allocate(name, kind)
}

// floatLabel returns the data label holding a literal, creating it on first use
func (g *Generator) floatLabel(text string) string {
	text = floatText(text)
	if label, ok := g.floats[text]; ok {
		return label
	}
	label := fmt.Sprintf("__float_%d", len(g.floatOrder))
	g.floats[text] = label
	g.floatOrder = append(g.floatOrder, text)
	return label
}

func (g *Generator) emit(format string, args ...any) {
	g.buf.WriteString("    ")
	fmt.Fprintf(g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func mem(sym *Symbol) string {
	return fmt.Sprintf("[%s%d]", Frame, sym.Offset)
}

// floatText gives integral literals a decimal point so NASM emits a float
func floatText(text string) string {
	if strings.Contains(text, ".") {
		return text
	}
	return text + ".0"
}

// invertedJump picks the branch taken when the comparison is false. Integer
// compares use signed flags; fcomip sets CF/ZF like an unsigned compare.
func invertedJump(kind types.Kind, op ir.Op) (string, error) {
	signed := map[ir.Op]string{
		ir.OpEq: "jne", ir.OpNe: "je",
		ir.OpGt: "jle", ir.OpGe: "jl",
		ir.OpLt: "jge", ir.OpLe: "jg",
	}
	unsigned := map[ir.Op]string{
		ir.OpEq: "jne", ir.OpNe: "je",
		ir.OpGt: "jbe", ir.OpGe: "jb",
		ir.OpLt: "jae", ir.OpLe: "ja",
	}

	if !op.IsRelational() {
		return "", fmt.Errorf("not a comparison operator: %s", op)
	}
	if kind == types.Float {
		return unsigned[op], nil
	}
	return signed[op], nil
}
