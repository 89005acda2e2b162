// Package i386 - Assembly validation and correctness verification
package i386

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
)

// ValidationError represents an assembly validation error
type ValidationError struct {
	Line    int
	Message string
	Code    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s\n  %s", e.Line, e.Message, e.Code)
}

// Validator validates generated NASM i386 assembly
type Validator struct {
	errors []ValidationError
	warns  []ValidationError
}

// NewValidator creates a new assembly validator
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
		warns:  make([]ValidationError, 0),
	}
}

// asmLine is one source line split into its parts, comments removed
type asmLine struct {
	num      int
	raw      string
	label    string   // "L1" for "L1:"
	mnemonic string   // "mov"
	operands []string // "dword [ebp-4]", "eax"
	data     bool     // "__float_0 dd 2.5"
}

var (
	labelPattern  = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	memPattern    = regexp.MustCompile(`^(?:dword\s+)?\[([^\]]+)\]$`)
	framePattern  = regexp.MustCompile(`^ebp\s*[-+]\s*\d+$`)
	numberPattern = regexp.MustCompile(`^-?(?:0x[0-9a-fA-F]+|\d+(?:\.\d+)?)$`)
)

var knownMnemonics = map[string]bool{
	"mov": true, "push": true, "pop": true, "add": true, "sub": true,
	"imul": true, "idiv": true, "cdq": true, "cmp": true, "xor": true, "int": true,
	"jmp": true, "je": true, "jne": true, "jl": true, "jle": true, "jg": true, "jge": true,
	"ja": true, "jae": true, "jb": true, "jbe": true,
	"fld": true, "fild": true, "fstp": true, "fistp": true, "fisttp": true,
	"faddp": true, "fsubp": true, "fmulp": true, "fdivp": true, "fcomip": true,
}

// fpuEffect is the x87 stack depth change per instruction
var fpuEffect = map[string]int{
	"fld": 1, "fild": 1,
	"fstp": -1, "fistp": -1, "fisttp": -1,
	"faddp": -1, "fsubp": -1, "fmulp": -1, "fdivp": -1,
	"fcomip": -1,
}

// Validate performs comprehensive validation on assembly code
func (v *Validator) Validate(assembly string) error {
	lines := parseLines(assembly)

	v.validateSyntax(lines)
	v.validateRegisters(lines)
	v.validateJumpTargets(lines)
	v.validateStackBalance(lines)
	v.validateFPUStack(lines)
	v.validateInstructionValidity(lines)

	if len(v.errors) > 0 {
		return v.formatErrors()
	}

	if len(v.warns) > 0 {
		v.logWarnings()
	}

	return nil
}

// Warnings returns the non-fatal findings of the last Validate call
func (v *Validator) Warnings() []ValidationError {
	return v.warns
}

func parseLines(assembly string) []asmLine {
	var out []asmLine
	for i, raw := range strings.Split(assembly, "\n") {
		line := raw
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		al := asmLine{num: i + 1, raw: strings.TrimSpace(raw)}
		if strings.HasSuffix(line, ":") {
			al.label = strings.TrimSuffix(line, ":")
			out = append(out, al)
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 3 && fields[1] == "dd" {
			al.label = fields[0]
			al.mnemonic = "dd"
			al.operands = []string{fields[2]}
			al.data = true
			out = append(out, al)
			continue
		}

		al.mnemonic = strings.ToLower(fields[0])
		if rest := strings.TrimSpace(line[len(fields[0]):]); rest != "" {
			for _, op := range strings.Split(rest, ",") {
				al.operands = append(al.operands, strings.TrimSpace(op))
			}
		}
		out = append(out, al)
	}
	return out
}

// validateSyntax checks for basic syntax errors
func (v *Validator) validateSyntax(lines []asmLine) {
	for _, l := range lines {
		switch {
		case l.label != "" && !labelPattern.MatchString(l.label):
			v.addError(l.num, "invalid label format", l.raw)
		case l.data:
			if !numberPattern.MatchString(l.operands[0]) {
				v.addError(l.num, "invalid data value", l.raw)
			} else if !strings.Contains(l.operands[0], ".") {
				v.addWarn(l.num, "float constant without decimal point assembles as an integer", l.raw)
			}
		case l.label != "":
		case l.mnemonic == "section" || l.mnemonic == "global":
			if len(l.operands) != 1 {
				v.addError(l.num, "directive expects one operand", l.raw)
			}
		case !knownMnemonics[l.mnemonic]:
			v.addError(l.num, fmt.Sprintf("unknown instruction: %s", l.mnemonic), l.raw)
		}
	}
}

// validateRegisters checks register and memory operand correctness
func (v *Validator) validateRegisters(lines []asmLine) {
	for _, l := range lines {
		if l.label != "" || isDirective(l.mnemonic) || isJump(l.mnemonic) {
			continue
		}
		for _, op := range l.operands {
			if m := memPattern.FindStringSubmatch(op); m != nil {
				addr := strings.TrimSpace(m[1])
				if !framePattern.MatchString(addr) && !labelPattern.MatchString(addr) {
					v.addError(l.num, fmt.Sprintf("invalid memory operand: %s", op), l.raw)
				}
				continue
			}
			if numberPattern.MatchString(op) || isRegister(op) {
				continue
			}
			v.addError(l.num, fmt.Sprintf("invalid register: %s", op), l.raw)
		}
	}
}

// validateJumpTargets checks that every branch lands on a defined label
func (v *Validator) validateJumpTargets(lines []asmLine) {
	defined := make(map[string]bool)
	for _, l := range lines {
		if l.label != "" && !l.data {
			if defined[l.label] {
				v.addError(l.num, fmt.Sprintf("duplicate label: %s", l.label), l.raw)
			}
			defined[l.label] = true
		}
	}
	for _, l := range lines {
		if !isJump(l.mnemonic) {
			continue
		}
		if len(l.operands) != 1 {
			v.addError(l.num, "jump expects one target", l.raw)
			continue
		}
		if !defined[l.operands[0]] {
			v.addError(l.num, fmt.Sprintf("undefined jump target: %s", l.operands[0]), l.raw)
		}
	}
}

// validateStackBalance checks push/pop balance over the program
func (v *Validator) validateStackBalance(lines []asmLine) {
	depth := 0
	last := 0
	for _, l := range lines {
		switch l.mnemonic {
		case "push":
			depth++
		case "pop":
			depth--
			if depth < 0 {
				v.addError(l.num, "stack underflow detected", l.raw)
				depth = 0
			}
		}
		if l.mnemonic != "" {
			last = l.num
		}
	}
	if depth != 0 {
		v.addError(last, fmt.Sprintf("stack imbalance at exit: depth=%d", depth), "")
	}
}

// validateFPUStack tracks x87 stack depth in program order. Every lowered
// IR instruction leaves the stack as it found it, so straight-line order
// is enough even across branches.
func (v *Validator) validateFPUStack(lines []asmLine) {
	depth := 0
	last := 0
	for _, l := range lines {
		delta, ok := fpuEffect[l.mnemonic]
		if !ok {
			continue
		}
		depth += delta
		last = l.num
		if depth < 0 {
			v.addError(l.num, "x87 stack underflow", l.raw)
			depth = 0
		}
		if depth > FPUDepth {
			v.addError(l.num, fmt.Sprintf("x87 stack overflow: depth=%d", depth), l.raw)
		}
	}
	if depth != 0 {
		v.addError(last, fmt.Sprintf("x87 stack not empty at exit: depth=%d", depth), "")
	}
}

// validateInstructionValidity checks for invalid instruction combinations
func (v *Validator) validateInstructionValidity(lines []asmLine) {
	for i, l := range lines {
		// Check for invalid immediate values as destinations
		if isInstructionWithDestination(l.mnemonic) && len(l.operands) == 2 {
			if numberPattern.MatchString(l.operands[0]) {
				v.addError(l.num, "immediate value cannot be destination", l.raw)
			}
		}

		// Check for invalid memory-to-memory moves
		if l.mnemonic == "mov" && len(l.operands) == 2 {
			if isMemoryOperand(l.operands[0]) && isMemoryOperand(l.operands[1]) {
				v.addError(l.num, "x86 doesn't support memory-to-memory moves", l.raw)
			}
		}

		// Check division without proper setup
		if l.mnemonic == "idiv" {
			if i == 0 || lines[i-1].mnemonic != "cdq" {
				v.addWarn(l.num, "division without cdq may cause incorrect results", l.raw)
			}
		}
	}
}

// Helper functions

func (v *Validator) addError(line int, msg, code string) {
	v.errors = append(v.errors, ValidationError{Line: line, Message: msg, Code: code})
}

func (v *Validator) addWarn(line int, msg, code string) {
	v.warns = append(v.warns, ValidationError{Line: line, Message: msg, Code: code})
}

func (v *Validator) formatErrors() error {
	var sb strings.Builder
	sb.WriteString("Assembly validation failed:\n")
	for _, err := range v.errors {
		sb.WriteString("  " + err.Error() + "\n")
	}
	return fmt.Errorf("%s", sb.String())
}

func (v *Validator) logWarnings() {
	for _, warn := range v.warns {
		logger.Warn("Assembly validation warning", "line", warn.Line, "msg", warn.Message)
	}
}

func isDirective(mnemonic string) bool {
	return mnemonic == "section" || mnemonic == "global" || mnemonic == "dd"
}

func isJump(mnemonic string) bool {
	return strings.HasPrefix(mnemonic, "j")
}

func isInstructionWithDestination(mnemonic string) bool {
	switch mnemonic {
	case "mov", "add", "sub", "imul", "xor", "cmp":
		return true
	}
	return false
}

func isMemoryOperand(operand string) bool {
	return strings.Contains(operand, "[") && strings.Contains(operand, "]")
}
