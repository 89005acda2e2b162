package ir

import (
	"strings"
	"testing"

	"github.com/GriffinCanCode/minic-compiler/pkg/frontend"
	"github.com/GriffinCanCode/minic-compiler/pkg/types"
)

func buildSource(t *testing.T, src string) *Program {
	t.Helper()
	toks, _ := frontend.Tokenize(src)
	ast, errs := frontend.Parse(toks)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	prog, err := Build(ast)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return prog
}

func TestBuildLines(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "declaration with literal",
			src:  "int x = 5;",
			want: []string{"DECLARE int x", "ASSIGN x, 5"},
		},
		{
			name: "declaration without initializer",
			src:  "float f;",
			want: []string{"DECLARE float f"},
		},
		{
			name: "assignment from variable",
			src:  "int a; int b; a = b;",
			want: []string{"DECLARE int a", "DECLARE int b", "ASSIGN a, b"},
		},
		{
			name: "arithmetic mints temporaries",
			src:  "int a; a = 1 + 2 * a;",
			want: []string{"DECLARE int a", "MUL int t1, 2, a", "ADD int t2, 1, t1", "ASSIGN a, t2"},
		},
		{
			name: "float promotion",
			src:  "int a; float f; f = a / 2.0;",
			want: []string{"DECLARE int a", "DECLARE float f", "DIV float t1, a, 2.0", "ASSIGN f, t1"},
		},
		{
			name: "chained assignment",
			src:  "int a; int b; a = b = 3;",
			want: []string{"DECLARE int a", "DECLARE int b", "ASSIGN b, 3", "ASSIGN a, b"},
		},
		{
			name: "if without else",
			src:  "int a; if (a > 1) a = 0;",
			want: []string{"DECLARE int a", "COMPARE int a, >, 1", "JUMP_IF_FALSE L1", "ASSIGN a, 0", "LABEL L1"},
		},
		{
			name: "expression statement",
			src:  "int a; a - 1;",
			want: []string{"DECLARE int a", "SUB int t1, a, 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSource(t, tt.src).Lines()
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestBuildIfElseShape(t *testing.T) {
	prog := buildSource(t, "int a; int b; if (a > b) a = 1; else a = 2;")
	insts := prog.Insts[2:]

	// COMPARE, JUMP_IF_FALSE, then, JUMP, LABEL, else, LABEL
	if len(insts) != 7 {
		t.Fatalf("got %d instructions:\n%s", len(insts), prog)
	}

	jif, ok := insts[1].(JumpIfFalse)
	if !ok {
		t.Fatalf("instruction 1 = %T, want JumpIfFalse", insts[1])
	}
	if jif.Op != OpGt || jif.Type != types.Int {
		t.Errorf("JumpIfFalse carries %s %s, want GT int", jif.Op, jif.Type)
	}
	jump := insts[3].(Jump)
	elseLabel := insts[4].(Label)
	endLabel := insts[6].(Label)

	if jif.Label != elseLabel.Name {
		t.Errorf("JumpIfFalse targets %s, else label is %s", jif.Label, elseLabel.Name)
	}
	if jump.Label != endLabel.Name {
		t.Errorf("Jump targets %s, end label is %s", jump.Label, endLabel.Name)
	}
	if elseLabel.Name == endLabel.Name {
		t.Errorf("labels must be distinct, both %s", elseLabel.Name)
	}
	if elseLabel.Name != "L1" || endLabel.Name != "L2" {
		t.Errorf("labels = %s, %s, want L1, L2", elseLabel.Name, endLabel.Name)
	}
}

func TestBuildCompareAdjacency(t *testing.T) {
	prog := buildSource(t, "float f; int a; if (f + 1 <= a * 2) { if (a != 0) a = 1; }")
	for i, inst := range prog.Insts {
		jif, ok := inst.(JumpIfFalse)
		if !ok {
			continue
		}
		cmp, ok := prog.Insts[i-1].(Compare)
		if !ok {
			t.Fatalf("instruction before %s is %s", jif, prog.Insts[i-1])
		}
		if cmp.Op != jif.Op || cmp.Type != jif.Type {
			t.Errorf("%s does not match %s", jif, cmp)
		}
	}
	if !strings.Contains(prog.String(), "COMPARE float t1, <=, t2") {
		t.Errorf("float compare missing:\n%s", prog)
	}
}

func TestBuildShadowing(t *testing.T) {
	prog := buildSource(t, "int x = 1; { float x = 2.5; x = 3.5; } x = 4;")
	got := prog.Lines()
	want := []string{
		"DECLARE int x",
		"ASSIGN x, 1",
		"DECLARE float x.1",
		"ASSIGN x.1, 2.5",
		"ASSIGN x.1, 3.5",
		"ASSIGN x, 4",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestBuildSiblingScopesKeepNames(t *testing.T) {
	src := "int a; a = 3; int b; b = a + 2; if (b > 4) { int c; c = 1; } else { int c; c = 0; }"
	out := buildSource(t, src).String()
	if strings.Count(out, "DECLARE int c\n") != 2 {
		t.Errorf("each branch should declare its own c:\n%s", out)
	}
	if strings.Count(out, "COMPARE") != 1 {
		t.Errorf("want exactly one comparison:\n%s", out)
	}
}

func TestBuildCountersPerBuilder(t *testing.T) {
	src := "int a; if (a > 1) a = a + 1;"
	first := buildSource(t, src).String()
	second := buildSource(t, src).String()
	if first != second {
		t.Errorf("independent builds differ:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(first, "t1") || !strings.Contains(first, "L1") {
		t.Errorf("numbering should restart at 1:\n%s", first)
	}
}

func TestBuildFault(t *testing.T) {
	// Unchecked tree: y is never declared
	toks, _ := frontend.Tokenize("int a; a = y; a = 2;")
	ast, _ := frontend.Parse(toks)

	prog, err := Build(ast)
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
	out := prog.String()
	if !strings.Contains(out, "; error: line 1: undefined variable: y") {
		t.Errorf("fault marker missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "ASSIGN a, 2\n") {
		t.Errorf("lowering should continue after a fault:\n%s", out)
	}
}

func TestInstString(t *testing.T) {
	tests := []struct {
		inst Inst
		want string
	}{
		{Declare{Type: types.Float, Name: "f"}, "DECLARE float f"},
		{AssignLit{Dest: "x", Value: Lit{Text: "2.5"}}, "ASSIGN x, 2.5"},
		{AssignVar{Dest: "x", Src: Var{Name: "y"}}, "ASSIGN x, y"},
		{BinArith{Type: types.Int, Op: OpSub, Dest: "t3", Src1: Var{Name: "a"}, Src2: Lit{Text: "1"}}, "SUB int t3, a, 1"},
		{Compare{Type: types.Float, Op: OpNe, Src1: Var{Name: "a"}, Src2: Lit{Text: "0.5"}}, "COMPARE float a, !=, 0.5"},
		{Jump{Label: "L4"}, "JUMP L4"},
		{JumpIfFalse{Label: "L3", Type: types.Int, Op: OpEq}, "JUMP_IF_FALSE L3"},
		{Label{Name: "L3"}, "LABEL L3"},
		{Fault{Message: "boom"}, "; error: boom"},
	}
	for _, tt := range tests {
		if got := tt.inst.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
