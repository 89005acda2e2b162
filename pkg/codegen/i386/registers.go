// Package i386 - Register conventions for generated code
package i386

// Integer operands are staged in two fixed registers. idiv also clobbers edx.
const (
	Acc     = "eax"
	Operand = "ebx"
	Frame   = "ebp"
	Stack   = "esp"
)

// SlotSize is the frame space reserved per variable, int or float
const SlotSize = 4

// FPUDepth is the number of x87 stack registers
const FPUDepth = 8

// GeneralRegs are the 32-bit general-purpose registers NASM accepts
var GeneralRegs = []string{"eax", "ebx", "ecx", "edx", "esi", "edi", "ebp", "esp"}

// FPURegs are the x87 stack registers in NASM spelling
var FPURegs = []string{"st0", "st1", "st2", "st3", "st4", "st5", "st6", "st7"}

func isRegister(name string) bool {
	for _, r := range GeneralRegs {
		if r == name {
			return true
		}
	}
	for _, r := range FPURegs {
		if r == name {
			return true
		}
	}
	return false
}
