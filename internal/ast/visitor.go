package ast

import "fmt"

// Visitor is called by Walk for each node. If Visit returns a non-nil
// visitor w, Walk visits each child of node with w and then calls
// w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node in depth-first source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, decl := range n.Decls {
			Walk(v, decl)
		}
	case *Ident, *Number, *String, *Enum:
		// leaves
	case *VariableDecl:
		Walk(v, n.Name)
		walkOptional(v, n.Type)
		walkOptional(v, n.Value)
	case *FunctionLiteral:
		for _, param := range n.Params {
			Walk(v, param.Name)
			walkOptional(v, param.Type)
		}
		walkOptional(v, n.ReturnType)
		Walk(v, n.Body)
	case *Struct:
		for _, field := range n.Fields {
			Walk(v, field)
		}
	case *Return:
		walkOptional(v, n.Value)
	case *ScopeReturn:
		Walk(v, n.Value)
	case *Block:
		walkList(v, n.Statements)
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *Assignment:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Condition:
		walkOptional(v, n.Cond)
		Walk(v, n.Body)
		if n.Next != nil {
			Walk(v, n.Next)
		}
	case *BinaryOp:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *UnaryOp:
		Walk(v, n.Operand)
	case *Call:
		Walk(v, n.Callee)
		walkList(v, n.Args)
	case *Member:
		Walk(v, n.Base)
		Walk(v, n.Name)
	case *Range:
		Walk(v, n.Lower)
		Walk(v, n.Upper)
	case *Array:
		walkList(v, n.Elements)
	case *New:
		walkOptional(v, n.Type)
		for _, field := range n.Fields {
			Walk(v, field.Value)
		}
	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkOptional(v Visitor, node Node) {
	if node != nil {
		Walk(v, node)
	}
}

func walkList(v Visitor, nodes []Node) {
	for _, node := range nodes {
		Walk(v, node)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order, calling f for each node
// and then f(nil) after its children. If f returns false the children of
// that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
