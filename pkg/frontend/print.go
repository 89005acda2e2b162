package frontend

import (
	"fmt"
	"strings"
)

// Print renders a node and its children as an indented tree, two spaces per level.
func Print(n Node) string {
	var sb strings.Builder
	printNode(&sb, n, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	line := func(format string, args ...any) {
		sb.WriteString(indent)
		fmt.Fprintf(sb, format, args...)
		sb.WriteByte('\n')
	}
	field := func(name string, child Node) {
		if child == nil {
			return
		}
		line("  .%s:", name)
		printNode(sb, child, depth+2)
	}
	list := func(stmts []Stmt) {
		line("  .statements (%d):", len(stmts))
		for i, s := range stmts {
			sb.WriteString(indent)
			fmt.Fprintf(sb, "    [%d]:\n", i)
			printNode(sb, s, depth+3)
		}
	}

	switch n := n.(type) {
	case *Program:
		line("Program")
		list(n.Statements)
	case *Block:
		line("Block")
		list(n.Statements)
	case *VarDecl:
		line("VarDecl [Type: %s] [Name: %s]", n.Type, n.Name.Name)
		field("init", n.Init)
	case *Assign:
		line("Assign [Name: %s]", n.Name.Name)
		field("value", n.Value)
	case *If:
		line("If")
		field("condition", n.Cond)
		field("then", n.Then)
		field("else", n.Else)
	case *ExprStmt:
		line("ExprStmt")
		field("expr", n.X)
	case *BinOp:
		line("BinOp [Op: %s]", n.Op)
		field("left", n.Left)
		field("right", n.Right)
	case *RelOp:
		line("RelOp [Op: %s]", n.Op)
		field("left", n.Left)
		field("right", n.Right)
	case *NumberLiteral:
		line("Number [Value: %s]", n.Text)
	case *Identifier:
		line("Variable [Name: %s]", n.Name)
	}
}
