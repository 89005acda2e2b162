// Package compiler - Per-stage text report
package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
	"github.com/GriffinCanCode/minic-compiler/pkg/frontend"
)

const (
	successBanner = "********** COMPILATION SUCCESSFUL **********"
	failureTitle  = "COMPILATION FAILED"
	noOutput      = "  (No output for this stage)"
)

// WriteReport writes the banner, the accumulated errors and one section per
// stage. Sections for stages that did not run are marked empty.
func WriteReport(w io.Writer, res *Result) error {
	var sb strings.Builder

	if res.Success {
		sb.WriteString(successBanner + "\n\n")
	} else {
		writeErrors(&sb, failureTitle, res.Diagnostics())
	}

	var tokens []string
	for _, tok := range res.Tokens {
		tokens = append(tokens, tok.String())
	}
	writeSection(&sb, "1. Tokens", tokens)

	var ast []string
	if res.AST != nil {
		ast = lines(frontend.Print(res.AST))
	}
	writeSection(&sb, "2. Abstract Syntax Tree (AST)", ast)

	if len(res.SemanticErrors) > 0 {
		writeErrors(&sb, "Semantic Errors", res.SemanticErrors)
		sb.WriteString("\n")
	}

	var irLines, optLines []string
	if res.IR != nil {
		irLines = res.IR.Lines()
	}
	if res.Optimized != nil {
		optLines = res.Optimized.Lines()
	}
	writeSection(&sb, "3. Intermediate Representation (IR)", irLines)
	writeSection(&sb, "4. Optimized IR", optLines)
	writeSection(&sb, "5. Final Code", lines(res.Assembly))

	var warnings []string
	for _, d := range res.Warnings {
		warnings = append(warnings, d.Error())
	}
	if res.ValidationErr != nil {
		warnings = append(warnings, lines(res.ValidationErr.Error())...)
	}
	if len(warnings) > 0 {
		writeSection(&sb, "Warnings", warnings)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeSection(sb *strings.Builder, title string, items []string) {
	sb.WriteString(title + ":\n")
	if len(items) == 0 {
		sb.WriteString(noOutput + "\n\n")
		return
	}
	sb.WriteString(strings.Repeat("-", len(title)+1) + "\n")
	for _, item := range items {
		sb.WriteString("  " + item + "\n")
	}
	sb.WriteString("\n")
}

func writeErrors(sb *strings.Builder, title string, errs []diag.Diagnostic) {
	sb.WriteString("!!! " + title + " !!!\n")
	sb.WriteString(strings.Repeat("=", len(title)+4) + "\n")
	for _, e := range errs {
		sb.WriteString("  - " + e.Error() + "\n")
	}
	sb.WriteString("\n")
}

// lines splits text into lines, dropping the trailing empty one
func lines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
