// Package frontend - Recursive descent parser for minic
// Design: Predictive parsing, one token of lookahead for assignment,
// targeted recovery per construct with panic mode as the fallback
package frontend

import (
	"fmt"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

type Parser struct {
	tokens  []Token
	pos     int
	current Token
	errors  []diag.Diagnostic
}

func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Kind: EOF, Text: "EOF", Line: line})
	}
	return &Parser{
		tokens:  tokens,
		current: tokens[0],
	}
}

// Parse builds the AST for a token stream. It never fails: syntax errors are
// returned as diagnostics next to a best-effort tree.
func Parse(tokens []Token) (*Program, []diag.Diagnostic) {
	p := NewParser(tokens)
	prog := p.program()
	return prog, p.errors
}

func (p *Parser) program() *Program {
	prog := &Program{}
	for !p.check(EOF) {
		start := p.pos
		prog.Statements = append(prog.Statements, p.item()...)
		p.ensureProgress(start)
	}
	return prog
}

// item parses either a declaration or a statement
func (p *Parser) item() []Stmt {
	if p.isTypeKeyword() {
		return p.declaration()
	}
	if s := p.statement(); s != nil {
		return []Stmt{s}
	}
	return nil
}

func (p *Parser) declaration() []Stmt {
	var decls []Stmt
	typTok := p.advance()
	typ := types.FromName(typTok.Text)

	for p.check(ID) {
		name := p.identifier()
		decl := &VarDecl{Type: typ, Name: name, Line: typTok.Line}
		if p.check(OP_ASSIGN) {
			p.advance()
			decl.Init = p.expression()
		}
		decls = append(decls, decl)
		if !p.checkText(DELIM, ",") {
			break
		}
		p.advance()
	}

	p.terminator("declaration")
	return decls
}

func (p *Parser) statement() Stmt {
	switch {
	case p.checkText(KEYWORD, "if"):
		return p.ifStatement()
	case p.checkText(DELIM, "{"):
		return p.block()
	}

	x := p.expression()
	p.terminator("statement")
	if a, ok := x.(*Assign); ok {
		return a
	}
	return &ExprStmt{X: x}
}

// terminator handles the ';' closing a declaration or statement
func (p *Parser) terminator(what string) {
	if p.checkText(DELIM, ";") {
		p.advance()
		return
	}
	if p.startsStatement() {
		p.report(diag.MissingSemicolon,
			fmt.Sprintf("Missing ';' after %s. Encountered %s", what, describe(p.current)),
			fmt.Sprintf("Did you forget a ';' at the end of the %s?", what))
		return
	}
	if what == "statement" {
		what = "expression statement"
	}
	p.error(diag.UnexpectedToken, fmt.Sprintf("Expected ';' after %s", what))
}

func (p *Parser) ifStatement() Stmt {
	ifTok := p.advance()
	p.eat(DELIM, "(")
	cond := p.expression()

	switch {
	case p.checkText(DELIM, ")"):
		p.advance()
	case p.checkText(DELIM, "{"):
		p.report(diag.MissingParen,
			"Missing ')' after if-condition. Encountered '{'",
			"Did you forget a ')' before the '{'?")
	default:
		p.error(diag.UnexpectedToken, "Expected ')' after if-condition")
	}

	if p.checkText(DELIM, ";") {
		p.report(diag.EmptyIfBody,
			"Unexpected ';' after if-condition. This creates an empty 'if' statement.",
			"Did you mean to delete this ';'?")
		p.advance()
	}

	node := &If{Cond: cond, Line: ifTok.Line}
	node.Then = p.statement()
	if p.checkText(KEYWORD, "else") {
		p.advance()
		node.Else = p.statement()
	}
	return node
}

func (p *Parser) block() Stmt {
	open := p.advance()
	b := &Block{Line: open.Line}

	for !p.checkText(DELIM, "}") && !p.check(EOF) {
		start := p.pos
		b.Statements = append(b.Statements, p.item()...)
		p.ensureProgress(start)
	}

	if p.checkText(DELIM, "}") {
		p.advance()
	} else {
		p.report(diag.MissingBrace,
			fmt.Sprintf("Missing '}' to close block. Encountered %s", describe(p.current)), "")
	}
	return b
}

func (p *Parser) expression() Expr {
	if p.check(ID) && p.peek().Kind == OP_ASSIGN {
		name := p.identifier()
		p.advance()
		return &Assign{Name: name, Value: p.expression(), Line: name.Line}
	}
	return p.comparison()
}

func (p *Parser) comparison() Expr {
	left := p.term()
	for p.check(OP_REL) {
		op := p.advance()
		left = &RelOp{Left: left, Op: relOpFromText(op.Text), Right: p.term(), Line: op.Line}
	}
	return left
}

func (p *Parser) term() Expr {
	left := p.factor()
	for p.checkText(OP_ARITH, "+") || p.checkText(OP_ARITH, "-") {
		op := p.advance()
		left = &BinOp{Left: left, Op: arithOpFromText(op.Text), Right: p.factor(), Line: op.Line}
	}
	return left
}

func (p *Parser) factor() Expr {
	left := p.primary()
	for p.checkText(OP_ARITH, "*") || p.checkText(OP_ARITH, "/") {
		op := p.advance()
		left = &BinOp{Left: left, Op: arithOpFromText(op.Text), Right: p.primary(), Line: op.Line}
	}
	return left
}

func (p *Parser) primary() Expr {
	tok := p.current
	switch {
	case p.check(NUMBER):
		p.advance()
		return &NumberLiteral{Text: tok.Text, Line: tok.Line}
	case p.check(ID):
		return p.identifier()
	case p.checkText(DELIM, "("):
		p.advance()
		x := p.expression()
		p.eat(DELIM, ")")
		return x
	}

	p.report(diag.InvalidExpression,
		"Invalid syntax in expression. Expected number, variable, or '('.", "")
	return &NumberLiteral{Text: "0", Line: tok.Line}
}

func (p *Parser) identifier() *Identifier {
	tok := p.current
	p.eat(ID, "")
	return &Identifier{Name: tok.Text, Line: tok.Line}
}

// Helpers

func (p *Parser) check(kind TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) checkText(kind TokenKind, text string) bool {
	return p.current.Is(kind, text)
}

func (p *Parser) isTypeKeyword() bool {
	return p.checkText(KEYWORD, "int") || p.checkText(KEYWORD, "float")
}

// startsStatement reports whether the current token plausibly begins a new
// statement, in which case a missing ';' is assumed
func (p *Parser) startsStatement() bool {
	switch p.current.Kind {
	case KEYWORD, ID, EOF:
		return true
	}
	return p.checkText(DELIM, "{") || p.checkText(DELIM, "}")
}

func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// advance moves to the next token and returns the previous one. It stays on EOF.
func (p *Parser) advance() Token {
	prev := p.current
	if p.pos+1 < len(p.tokens) {
		p.pos++
		p.current = p.tokens[p.pos]
	}
	return prev
}

// eat consumes the expected token. On mismatch it records the error and skips
// the offending token once so the caller always makes progress.
func (p *Parser) eat(kind TokenKind, text string) {
	if p.check(kind) && (text == "" || p.current.Text == text) {
		p.advance()
		return
	}
	expected := kind.String()
	if text != "" {
		expected = "'" + text + "'"
	}
	p.report(diag.UnexpectedToken,
		fmt.Sprintf("Expected %s, but found %s", expected, describe(p.current)), "")
	p.advance()
}

func (p *Parser) ensureProgress(start int) {
	if p.pos == start && !p.check(EOF) {
		p.advance()
	}
}

func (p *Parser) report(code diag.Code, msg, suggestion string) {
	p.errors = append(p.errors, diag.Diagnostic{
		Phase:      diag.Syntax,
		Code:       code,
		Message:    msg,
		Line:       p.current.Line,
		Suggestion: suggestion,
	})
}

// error records msg and synchronizes on the next statement boundary
func (p *Parser) error(code diag.Code, msg string) {
	p.report(code, fmt.Sprintf("%s. Encountered %s", msg, describe(p.current)), "")
	p.synchronize()
}

func (p *Parser) synchronize() {
	for !p.check(EOF) &&
		!p.checkText(DELIM, ";") && !p.checkText(DELIM, "}") && !p.checkText(DELIM, ")") {
		p.advance()
	}
	if p.checkText(DELIM, ";") {
		p.advance()
	}
}

func describe(tok Token) string {
	return fmt.Sprintf("%s('%s')", tok.Kind, tok.Text)
}
