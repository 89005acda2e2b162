// Package compiler wires the stages into one pipeline.
//
// Stages run strictly forward. Lexical, syntax and semantic diagnostics are
// collected as data; IR generation only runs when all three lists are empty.
package compiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/minic-compiler/pkg/codegen/i386"
	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
	"github.com/GriffinCanCode/minic-compiler/pkg/frontend"
	"github.com/GriffinCanCode/minic-compiler/pkg/ir"
	"github.com/GriffinCanCode/minic-compiler/pkg/logger"
	"github.com/GriffinCanCode/minic-compiler/pkg/optimizer"
	"github.com/GriffinCanCode/minic-compiler/pkg/semantic"
)

// Options controls the back half of the pipeline
type Options struct {
	OptLevel int
	Validate bool
}

// DefaultOptions folds constants and validates the assembly
func DefaultOptions() Options {
	return Options{OptLevel: 1, Validate: true}
}

// Result holds the output of every stage that ran
type Result struct {
	Name string

	Tokens         []frontend.Token
	AST            *frontend.Program
	LexErrors      []diag.Diagnostic
	SyntaxErrors   []diag.Diagnostic
	SemanticErrors []diag.Diagnostic
	Warnings       []diag.Diagnostic

	IR        *ir.Program
	Optimized *ir.Program
	Assembly  string

	// ValidationErr is set when the generated assembly failed validation.
	// It does not affect Success.
	ValidationErr error
	// Faults counts IR instructions that degraded into error comments
	Faults int

	Success  bool
	Duration time.Duration
}

// Diagnostics returns every error in stage order
func (r *Result) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.LexErrors)+len(r.SyntaxErrors)+len(r.SemanticErrors))
	out = append(out, r.LexErrors...)
	out = append(out, r.SyntaxErrors...)
	out = append(out, r.SemanticErrors...)
	return out
}

// Compile runs the full pipeline on src. name only labels logs and reports.
func Compile(name, src string, opts Options) *Result {
	start := time.Now()
	res := &Result{Name: name}
	defer func() {
		res.Duration = time.Since(start)
		logger.LogCompilerComplete(name, res.Success, res.Duration.String())
	}()

	logger.LogPhase("lexing")
	res.Tokens, res.LexErrors = frontend.Tokenize(src)
	logger.LogLexing(name, len(res.Tokens), len(res.LexErrors))

	logger.LogPhase("parsing")
	res.AST, res.SyntaxErrors = frontend.Parse(res.Tokens)
	logger.LogParsing(name, len(res.AST.Statements), len(res.SyntaxErrors))

	logger.LogPhase("semantic")
	res.SemanticErrors = semantic.Analyze(res.AST)
	logger.LogSemantic(name, len(res.SemanticErrors))

	if diags := res.Diagnostics(); diag.HasErrors(diags) {
		for _, d := range diags {
			logger.LogDiagnostic(d.Phase.String(), name, d.Line, d.Message)
		}
		return res
	}

	logger.LogPhase("ir")
	prog, err := ir.Build(res.AST)
	if err != nil {
		// Faults are inline in prog; code generation turns them into comments
		logger.Warn("IR generation degraded", "file", name, "error", err)
	}
	res.IR = prog

	logger.LogPhase("optimize")
	res.Optimized, res.Warnings = optimizer.Optimize(prog, opts.OptLevel)

	logger.LogPhase("codegen")
	var asm strings.Builder
	gen := i386.NewGenerator(&asm)
	if opts.Validate {
		res.Assembly, res.ValidationErr = gen.GenerateWithValidation(res.Optimized)
		res.Warnings = append(res.Warnings, assemblyWarnings(gen.Warnings())...)
	} else {
		// strings.Builder writes never fail
		_ = gen.Generate(res.Optimized)
		res.Assembly = asm.String()
	}
	res.Faults = gen.Faults()
	logger.LogPhaseComplete("codegen")

	res.Success = true
	return res
}

func assemblyWarnings(ws []i386.ValidationError) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(ws))
	for _, w := range ws {
		out = append(out, diag.Diagnostic{
			Phase:    diag.CodeGen,
			Code:     diag.AssemblyWarning,
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("assembly line %d: %s", w.Line, w.Message),
		})
	}
	return out
}
