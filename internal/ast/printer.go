package ast

import (
	"fmt"
	"strings"

	"github.com/zap-lang/zap/internal/lexer"
)

const indentUnit = "  "

// Print renders node as Zap source text. Binary operations, unary operands
// and ranges are fully parenthesized so the output reparses to the same tree.
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, depth int) {
	switch n := node.(type) {
	case nil:
	case *Program:
		for _, decl := range n.Decls {
			printNode(sb, decl, depth)
			sb.WriteString(";\n")
		}
	case *Ident:
		sb.WriteString(n.Name)
	case *Number:
		sb.WriteString(n.Value)
	case *String:
		sb.WriteString(lexer.Quote(n.Value))
	case *VariableDecl:
		printDecl(sb, n, depth)
	case *FunctionLiteral:
		sb.WriteString("fn(")
		for i, param := range n.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(param.Name.Name)
			if param.Type != nil {
				sb.WriteString(": ")
				printNode(sb, param.Type, depth)
			}
		}
		sb.WriteString(")")
		if n.ReturnType != nil {
			sb.WriteString(": ")
			printNode(sb, n.ReturnType, depth)
		}
		sb.WriteByte(' ')
		printBlock(sb, n.Body, depth)
	case *Struct:
		sb.WriteString("struct ")
		stmts := make([]Node, len(n.Fields))
		for i, field := range n.Fields {
			stmts[i] = field
		}
		printStatements(sb, stmts, depth)
	case *Enum:
		names := make([]string, len(n.Members))
		for i, member := range n.Members {
			names[i] = member.Name
		}
		if len(names) == 0 {
			sb.WriteString("enum {}")
			return
		}
		fmt.Fprintf(sb, "enum { %s }", strings.Join(names, ", "))
	case *Return:
		sb.WriteString("return")
		if n.Value != nil {
			sb.WriteByte(' ')
			printNode(sb, n.Value, depth)
		}
	case *ScopeReturn:
		printNode(sb, n.Value, depth)
	case *Block:
		printBlock(sb, n, depth)
	case *While:
		sb.WriteString("while ")
		printNode(sb, n.Cond, depth)
		sb.WriteByte(' ')
		printBlock(sb, n.Body, depth)
	case *Assignment:
		printNode(sb, n.Target, depth)
		fmt.Fprintf(sb, " %s ", n.Operator)
		printNode(sb, n.Value, depth)
	case *Condition:
		for link := range n.Links() {
			if link != n {
				sb.WriteByte(' ')
			}
			sb.WriteString(link.Kind.String())
			if !link.IsElse() {
				sb.WriteByte(' ')
				printNode(sb, link.Cond, depth)
			}
			sb.WriteByte(' ')
			printBlock(sb, link.Body, depth)
		}
	case *BinaryOp:
		sb.WriteByte('(')
		printNode(sb, n.Left, depth)
		fmt.Fprintf(sb, " %s ", n.Operator)
		printNode(sb, n.Right, depth)
		sb.WriteByte(')')
	case *UnaryOp:
		sb.WriteString(n.Operator)
		sb.WriteByte('(')
		printNode(sb, n.Operand, depth)
		sb.WriteByte(')')
	case *Call:
		printNode(sb, n.Callee, depth)
		if n.IsBuiltin {
			sb.WriteByte('!')
		}
		sb.WriteByte('(')
		printList(sb, n.Args, depth)
		sb.WriteByte(')')
	case *Member:
		printNode(sb, n.Base, depth)
		sb.WriteByte('.')
		sb.WriteString(n.Name.Name)
	case *Range:
		sb.WriteByte('(')
		printNode(sb, n.Lower, depth)
		sb.WriteString("..")
		printNode(sb, n.Upper, depth)
		sb.WriteByte(')')
	case *Array:
		sb.WriteByte('[')
		printList(sb, n.Elements, depth)
		sb.WriteByte(']')
	case *New:
		sb.WriteString("new ")
		if n.Type != nil {
			printNode(sb, n.Type, depth)
			sb.WriteByte(' ')
		}
		if len(n.Fields) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{ ")
		for i, field := range n.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(field.Name)
			sb.WriteString(": ")
			printNode(sb, field.Value, depth)
		}
		sb.WriteString(" }")
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", node))
	}
}

func printDecl(sb *strings.Builder, decl *VariableDecl, depth int) {
	if decl.IsPublic {
		sb.WriteString("pub ")
	}
	if decl.IsStatic {
		sb.WriteString("static ")
	}
	if decl.IsConst {
		sb.WriteString("const ")
	} else {
		sb.WriteString("let ")
		if decl.IsMutable {
			sb.WriteString("mut ")
		}
	}
	sb.WriteString(decl.Name.Name)
	if decl.Type != nil {
		sb.WriteString(": ")
		printNode(sb, decl.Type, depth)
	}
	if decl.Value != nil {
		sb.WriteString(" = ")
		printNode(sb, decl.Value, depth)
	}
}

func printBlock(sb *strings.Builder, block *Block, depth int) {
	printStatements(sb, block.Statements, depth)
}

// printStatements writes a braced statement list one level deeper than depth.
// Loops and scope returns carry no terminator, matching what the parser accepts.
func printStatements(sb *strings.Builder, stmts []Node, depth int) {
	if len(stmts) == 0 {
		sb.WriteString("{}")
		return
	}

	inner := strings.Repeat(indentUnit, depth+1)
	sb.WriteString("{\n")
	for _, stmt := range stmts {
		sb.WriteString(inner)
		printNode(sb, stmt, depth+1)
		switch stmt.(type) {
		case *While, *ScopeReturn:
		default:
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(indentUnit, depth))
	sb.WriteByte('}')
}

func printList(sb *strings.Builder, nodes []Node, depth int) {
	for i, node := range nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		printNode(sb, node, depth)
	}
}
