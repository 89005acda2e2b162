// Package semantic performs scope-aware declaration and type checking.
//
// Analysis is fail-fast: the first error ends the walk, and the caller must
// not lower a tree that produced one.
package semantic

import (
	"fmt"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
	"github.com/GriffinCanCode/minic-compiler/pkg/frontend"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

type Analyzer struct {
	symbols *SymbolTable
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{symbols: NewSymbolTable()}
}

// Analyze checks prog and returns at most one diagnostic.
func Analyze(prog *frontend.Program) []diag.Diagnostic {
	return NewAnalyzer().Analyze(prog)
}

func (a *Analyzer) Analyze(prog *frontend.Program) []diag.Diagnostic {
	for _, s := range prog.Statements {
		if err := a.stmt(s); err != nil {
			logger.Debug("Semantic analysis stopped", "line", err.Line, "code", string(err.Code))
			return []diag.Diagnostic{*err}
		}
	}
	return nil
}

func (a *Analyzer) stmt(s frontend.Stmt) *diag.Diagnostic {
	switch s := s.(type) {
	case *frontend.VarDecl:
		return a.varDecl(s)
	case *frontend.Assign:
		_, err := a.assign(s)
		return err
	case *frontend.Block:
		a.symbols.EnterScope()
		defer a.symbols.ExitScope()
		logger.Debug("Entering block scope", "line", s.Line, "depth", a.symbols.Depth())
		for _, inner := range s.Statements {
			if err := a.stmt(inner); err != nil {
				return err
			}
		}
		return nil
	case *frontend.If:
		return a.ifStmt(s)
	case *frontend.ExprStmt:
		_, err := a.expr(s.X)
		return err
	}
	return nil
}

func (a *Analyzer) varDecl(d *frontend.VarDecl) *diag.Diagnostic {
	name := d.Name.Name
	if !a.symbols.Declare(name, d.Type) {
		return errorf(diag.DuplicateDeclaration, d.Name.Line,
			"Variable '%s' already declared in this scope.", name)
	}
	if d.Init == nil {
		return nil
	}
	valueType, err := a.expr(d.Init)
	if err != nil {
		return err
	}
	if valueType != d.Type {
		return mismatch(valueType, name, d.Type, d.Name.Line)
	}
	return nil
}

// assign checks the target and value, yielding the target's kind
func (a *Analyzer) assign(s *frontend.Assign) (types.Kind, *diag.Diagnostic) {
	name := s.Name.Name
	varType, ok := a.symbols.Lookup(name)
	if !ok {
		return types.Unknown, undeclared(name, s.Name.Line)
	}
	valueType, err := a.expr(s.Value)
	if err != nil {
		return types.Unknown, err
	}
	if valueType != varType {
		return types.Unknown, mismatch(valueType, name, varType, s.Name.Line)
	}
	return varType, nil
}

func (a *Analyzer) ifStmt(s *frontend.If) *diag.Diagnostic {
	condType, err := a.expr(s.Cond)
	if err != nil {
		return err
	}
	if condType != types.Bool {
		return errorf(diag.NonBooleanCondition, s.Cond.Pos(),
			"If condition must be a boolean expression (e.g., a > b), but got '%s'.", condType)
	}
	if err := a.stmt(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		return a.stmt(s.Else)
	}
	return nil
}

func (a *Analyzer) expr(e frontend.Expr) (types.Kind, *diag.Diagnostic) {
	switch e := e.(type) {
	case *frontend.NumberLiteral:
		return types.OfLiteral(e.Text), nil

	case *frontend.Identifier:
		kind, ok := a.symbols.Lookup(e.Name)
		if !ok {
			return types.Unknown, undeclared(e.Name, e.Line)
		}
		return kind, nil

	case *frontend.Assign:
		return a.assign(e)

	case *frontend.BinOp:
		left, right, err := a.operands(e.Left, e.Right)
		if err != nil {
			return types.Unknown, err
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			return types.Unknown, errorf(diag.InvalidOperandType, e.Line,
				"Arithmetic operation '%s' can only be used on numbers, not '%s' and '%s'.", e.Op, left, right)
		}
		return types.Promote(left, right), nil

	case *frontend.RelOp:
		left, right, err := a.operands(e.Left, e.Right)
		if err != nil {
			return types.Unknown, err
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			return types.Unknown, errorf(diag.InvalidOperandType, e.Line,
				"Relational operation '%s' can only be used on numbers, not '%s' and '%s'.", e.Op, left, right)
		}
		return types.Bool, nil
	}
	return types.Unknown, nil
}

func (a *Analyzer) operands(l, r frontend.Expr) (types.Kind, types.Kind, *diag.Diagnostic) {
	left, err := a.expr(l)
	if err != nil {
		return types.Unknown, types.Unknown, err
	}
	right, err := a.expr(r)
	if err != nil {
		return types.Unknown, types.Unknown, err
	}
	return left, right, nil
}

func errorf(code diag.Code, line int, format string, args ...any) *diag.Diagnostic {
	return &diag.Diagnostic{
		Phase:   diag.Semantic,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

func undeclared(name string, line int) *diag.Diagnostic {
	return errorf(diag.UndeclaredVariable, line, "Variable '%s' not declared.", name)
}

func mismatch(got types.Kind, name string, want types.Kind, line int) *diag.Diagnostic {
	return errorf(diag.TypeMismatch, line,
		"Cannot assign type '%s' to variable '%s' of type '%s'.", got, name, want)
}
