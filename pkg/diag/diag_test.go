package diag

import "testing"

func TestDiagnosticError(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "syntax with suggestion",
			d:    Diagnostic{Phase: Syntax, Code: MissingSemicolon, Line: 3, Message: "Expected ';' after declaration.", Suggestion: "Add a ';'."},
			want: "Syntax Error on line 3: Expected ';' after declaration.\n   -> Suggestion: Add a ';'.",
		},
		{
			name: "semantic",
			d:    Diagnostic{Phase: Semantic, Code: UndeclaredVariable, Line: 1, Message: "Variable 'x' not declared."},
			want: "Semantic Error on line 1: Variable 'x' not declared.",
		},
		{
			name: "lexical",
			d:    Diagnostic{Phase: Lexical, Code: UnexpectedCharacter, Line: 2, Message: "Unexpected character '$'"},
			want: "Lexical Error on line 2: Unexpected character '$'",
		},
		{
			name: "warning without line",
			d:    Diagnostic{Phase: Optimization, Code: DivisionByZero, Severity: SeverityWarning, Message: "folded to 0"},
			want: "Warning: folded to 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasErrors(t *testing.T) {
	list := []Diagnostic{
		{Code: DivisionByZero, Severity: SeverityWarning},
		{Code: DivisionByZero, Severity: SeverityWarning},
	}
	if HasErrors(list) {
		t.Error("warnings alone are not errors")
	}
	list = append(list, Diagnostic{Code: TypeMismatch})
	if !HasErrors(list) {
		t.Error("expected an error")
	}
}

func TestPhaseString(t *testing.T) {
	if Syntax.String() != "syntax" || Optimization.String() != "optimization" || CodeGen.String() != "codegen" || Phase(99).String() != "unknown" {
		t.Error("unexpected phase names")
	}
}
