// Package types holds the value kinds the language knows about.
package types

// Kind is the type of a variable, expression or IR operand.
type Kind int

const (
	Unknown Kind = iota
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// FromName maps a type keyword to its Kind.
func FromName(name string) Kind {
	switch name {
	case "int":
		return Int
	case "float":
		return Float
	case "bool":
		return Bool
	default:
		return Unknown
	}
}

// IsNumeric returns true for int and float
func (k Kind) IsNumeric() bool {
	return k == Int || k == Float
}

// Promote returns the result kind of arithmetic on a and b: float wins.
func Promote(a, b Kind) Kind {
	if a == Float || b == Float {
		return Float
	}
	return Int
}

// OfLiteral returns float when the literal text contains a decimal point, else int.
func OfLiteral(text string) Kind {
	for i := 0; i < len(text); i++ {
		if text[i] == '.' {
			return Float
		}
	}
	return Int
}
