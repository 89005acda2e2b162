package frontend

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/minic-compiler/pkg/diag"
)

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
		texts []string
	}{
		{
			name:  "declaration",
			input: "int a = 5;",
			want:  []TokenKind{KEYWORD, ID, OP_ASSIGN, NUMBER, DELIM, EOF},
			texts: []string{"int", "a", "=", "5", ";", "EOF"},
		},
		{
			name:  "float literal",
			input: "float f = 2.75;",
			want:  []TokenKind{KEYWORD, ID, OP_ASSIGN, NUMBER, DELIM, EOF},
			texts: []string{"float", "f", "=", "2.75", ";", "EOF"},
		},
		{
			name:  "relational operators",
			input: "a == b != c <= d >= e < f > g",
			want: []TokenKind{ID, OP_REL, ID, OP_REL, ID, OP_REL, ID, OP_REL, ID,
				OP_REL, ID, OP_REL, ID, EOF},
			texts: []string{"a", "==", "b", "!=", "c", "<=", "d", ">=", "e", "<", "f", ">", "g", "EOF"},
		},
		{
			name:  "arithmetic and delimiters",
			input: "(a+b)*c/d-e, {}",
			want: []TokenKind{DELIM, ID, OP_ARITH, ID, DELIM, OP_ARITH, ID, OP_ARITH, ID,
				OP_ARITH, ID, DELIM, DELIM, DELIM, EOF},
		},
		{
			name:  "keywords versus identifiers",
			input: "if else iffy int_x",
			want:  []TokenKind{KEYWORD, KEYWORD, ID, ID, EOF},
		},
		{
			name:  "comment skipped",
			input: "a = 1; // trailing words\nb",
			want:  []TokenKind{ID, OP_ASSIGN, NUMBER, DELIM, ID, EOF},
		},
		{
			name:  "trailing dot is not a fraction",
			input: "3.",
			want:  []TokenKind{NUMBER, EOF},
			texts: []string{"3", "EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _ := Tokenize(tt.input)
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(tt.want))
			}
			for i, tok := range toks {
				if tok.Kind != tt.want[i] {
					t.Errorf("token %d: kind %s, want %s", i, tok.Kind, tt.want[i])
				}
				if tt.texts != nil && tok.Text != tt.texts[i] {
					t.Errorf("token %d: text %q, want %q", i, tok.Text, tt.texts[i])
				}
			}
		})
	}
}

func TestTokenizeLines(t *testing.T) {
	toks, errs := Tokenize("int a;\n\nfloat b;\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Line != 1 {
		t.Errorf("int on line %d, want 1", toks[0].Line)
	}
	if toks[3].Text != "float" || toks[3].Line != 3 {
		t.Errorf("got %v, want float on line 3", toks[3])
	}
	last := toks[len(toks)-1]
	if last.Kind != EOF || last.Line != 4 {
		t.Errorf("got %v, want EOF on line 4", last)
	}
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	toks, errs := Tokenize("int a = 5 $ 3;\n@")
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "Lexical Error on line 1: Unexpected character '$'") {
		t.Errorf("unexpected message: %s", errs[0].Error())
	}
	if errs[1].Line != 2 || errs[1].Code != diag.UnexpectedCharacter {
		t.Errorf("second error: %+v", errs[1])
	}
	// Scanning continues past the bad character
	if toks[4].Text != "3" {
		t.Errorf("token after '$' = %v, want 3", toks[4])
	}
}

func TestTokenizeIdentifiersAreASCII(t *testing.T) {
	toks, errs := Tokenize("int é = 1; int _a9 = 2;")
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "'é'") {
		t.Fatalf("got %v, want one error for 'é'", errs)
	}
	for _, tok := range toks {
		if tok.Kind == ID && tok.Text != "_a9" {
			t.Errorf("unexpected identifier %v", tok)
		}
	}
	if toks[len(toks)-3].Kind != NUMBER || toks[len(toks)-5].Text != "_a9" {
		t.Errorf("_a9 should lex as one identifier: %v", toks)
	}
}

func TestTokenizeLoneBang(t *testing.T) {
	_, errs := Tokenize("a ! b")
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "'!'") {
		t.Fatalf("got %v, want one error for '!'", errs)
	}
}

func TestTokenizeAlwaysEndsWithEOF(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n", "a"} {
		toks, _ := Tokenize(src)
		if len(toks) == 0 || toks[len(toks)-1].Kind != EOF {
			t.Errorf("Tokenize(%q) = %v, want trailing EOF", src, toks)
		}
		eofs := 0
		for _, tok := range toks {
			if tok.Kind == EOF {
				eofs++
			}
		}
		if eofs != 1 {
			t.Errorf("Tokenize(%q) has %d EOF tokens", src, eofs)
		}
	}
}
