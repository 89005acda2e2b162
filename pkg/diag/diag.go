// Package diag defines the diagnostic record shared by every compiler stage.
//
// Diagnostics are data. Stages accumulate them and hand them back to the
// caller, which decides whether the pipeline continues.
package diag

import (
	"fmt"
	"strings"
)

// Phase names the stage that produced a diagnostic
type Phase int

const (
	Lexical Phase = iota
	Syntax
	Semantic
	Optimization
	CodeGen
)

func (p Phase) String() string {
	switch p {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Optimization:
		return "optimization"
	case CodeGen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Severity separates fatal diagnostics from advisory ones
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Code identifies the kind of problem
type Code string

const (
	UnexpectedCharacter Code = "UnexpectedCharacter"

	MissingSemicolon  Code = "MissingSemicolon"
	MissingParen      Code = "MissingParen"
	EmptyIfBody       Code = "EmptyIfBody"
	UnexpectedToken   Code = "UnexpectedToken"
	InvalidExpression Code = "InvalidExpression"
	MissingBrace      Code = "MissingBrace"

	DuplicateDeclaration Code = "DuplicateDeclaration"
	UndeclaredVariable   Code = "UndeclaredVariable"
	TypeMismatch         Code = "TypeMismatch"
	NonBooleanCondition  Code = "NonBooleanCondition"
	InvalidOperandType   Code = "InvalidOperandType"

	DivisionByZero  Code = "DivisionByZero"
	AssemblyWarning Code = "AssemblyWarning"
)

// Diagnostic is one recorded problem with its source line
type Diagnostic struct {
	Phase      Phase
	Code       Code
	Severity   Severity
	Message    string
	Line       int
	Suggestion string
}

// Error renders the diagnostic in report form
func (d Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(d.title())
	if d.Line > 0 {
		fmt.Fprintf(&sb, " on line %d", d.Line)
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "\n   -> Suggestion: %s", d.Suggestion)
	}
	return sb.String()
}

func (d Diagnostic) title() string {
	switch {
	case d.Severity == SeverityWarning:
		return "Warning"
	case d.Phase == Lexical:
		return "Lexical Error"
	case d.Phase == Syntax:
		return "Syntax Error"
	case d.Phase == Semantic:
		return "Semantic Error"
	default:
		return "Error"
	}
}

func (d Diagnostic) String() string { return d.Error() }

// IsError reports whether the diagnostic blocks progression
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// HasErrors reports whether any diagnostic in the list is an error
func HasErrors(list []Diagnostic) bool {
	for _, d := range list {
		if d.IsError() {
			return true
		}
	}
	return false
}
