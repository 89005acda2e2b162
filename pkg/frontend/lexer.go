// Package frontend - Lexer for the minic language
// Design: Hand-written scanner, one pass, errors recorded and skipped
package frontend

import (
	"fmt"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
)

type TokenKind int

const (
	EOF TokenKind = iota
	NUMBER
	ID
	KEYWORD
	OP_REL
	OP_ASSIGN
	OP_ARITH
	DELIM
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case ID:
		return "ID"
	case KEYWORD:
		return "KEYWORD"
	case OP_REL:
		return "OP_REL"
	case OP_ASSIGN:
		return "OP_ASSIGN"
	case OP_ARITH:
		return "OP_ARITH"
	case DELIM:
		return "DELIM"
	}
	return "ILLEGAL"
}

var keywords = map[string]bool{
	"if":    true,
	"else":  true,
	"int":   true,
	"float": true,
}

type Token struct {
	Kind TokenKind
	Text string
	Line int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, '%s', L%d)", t.Kind, t.Text, t.Line)
}

// Is reports whether the token has the given kind and text
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

type Lexer struct {
	source []rune
	start  int
	pos    int
	line   int
	errors []diag.Diagnostic
}

func NewLexer(source string) *Lexer {
	return &Lexer{
		source: []rune(source),
		line:   1,
	}
}

// Tokenize scans the whole source. The token list always ends with one EOF.
func Tokenize(source string) ([]Token, []diag.Diagnostic) {
	l := NewLexer(source)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return tokens, l.Errors()
}

// Errors returns the lexical errors recorded so far
func (l *Lexer) Errors() []diag.Diagnostic {
	return l.errors
}

func (l *Lexer) Next() Token {
	for {
		l.skipWhitespace()

		if l.isAtEnd() {
			return Token{Kind: EOF, Text: "EOF", Line: l.line}
		}

		l.start = l.pos
		c := l.advance()

		switch c {
		case '\n':
			l.line++
			continue
		case '+', '-', '*', '/':
			return l.makeToken(OP_ARITH, string(c))
		case '(', ')', '{', '}', ';', ',':
			return l.makeToken(DELIM, string(c))
		case '=':
			if l.match('=') {
				return l.makeToken(OP_REL, "==")
			}
			return l.makeToken(OP_ASSIGN, "=")
		case '!':
			if l.match('=') {
				return l.makeToken(OP_REL, "!=")
			}
		case '<':
			if l.match('=') {
				return l.makeToken(OP_REL, "<=")
			}
			return l.makeToken(OP_REL, "<")
		case '>':
			if l.match('=') {
				return l.makeToken(OP_REL, ">=")
			}
			return l.makeToken(OP_REL, ">")
		}

		if isDigit(c) {
			return l.number()
		}

		if isIdentStart(c) {
			return l.identifier()
		}

		l.error(c)
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		case c == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) number() Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	// A fraction needs at least one digit after the point
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.makeToken(NUMBER, string(l.source[l.start:l.pos]))
}

func (l *Lexer) identifier() Token {
	for isIdentStart(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	text := string(l.source[l.start:l.pos])
	if keywords[text] {
		return l.makeToken(KEYWORD, text)
	}
	return l.makeToken(ID, text)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return '\x00'
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	c := l.source[l.pos]
	l.pos++
	return c
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.pos++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) makeToken(kind TokenKind, text string) Token {
	return Token{Kind: kind, Text: text, Line: l.line}
}

func (l *Lexer) error(c rune) {
	l.errors = append(l.errors, diag.Diagnostic{
		Phase:   diag.Lexical,
		Code:    diag.UnexpectedCharacter,
		Message: fmt.Sprintf("Unexpected character '%c'", c),
		Line:    l.line,
	})
}

// isIdentStart accepts [A-Za-z_]
func isIdentStart(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// ASCII only; strconv rejects other digits
func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
