// Package ast defines the Abstract Syntax Tree (AST) nodes for the Zap
// programming language.
//
// The node set is closed: only types in this package implement Node, so a
// type switch over Node in the parser or emitter can be checked for
// exhaustiveness by reading this file. Every node records the position of
// its leading token. Nodes are built once by the parser and never mutated
// afterward.
package ast

import (
	"iter"

	"github.com/zap-lang/zap/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// Pos returns the position of the node's leading token
	Pos() position.Position
	node() // Marker method closing the set of node types
}

// ===== Program Structure =====

// Program represents the root of the AST - a complete Zap source file
type Program struct {
	Position position.Position
	Decls    []*VariableDecl // Top-level declarations
}

// ===== Leaves =====

// Ident represents an identifier reference, also used for type names
type Ident struct {
	Position position.Position
	Name     string
}

// Number represents a numeric literal; Value is the source text
type Number struct {
	Position position.Position
	Value    string
}

// String represents a string literal; Value is the decoded text
type String struct {
	Position position.Position
	Value    string
}

// ===== Declarations =====

// VariableDecl represents a let/const binding. Value is nil for a
// declaration prototype, which has no initializer.
type VariableDecl struct {
	Position  position.Position
	Name      *Ident
	IsConst   bool
	Type      Node // Optional type annotation, parsed as an expression
	IsPublic  bool
	IsStatic  bool
	IsMutable bool
	Value     Node
}

// IsPrototype reports whether the declaration has no initializer.
func (v *VariableDecl) IsPrototype() bool { return v.Value == nil }

// Param is a function literal parameter
type Param struct {
	Name *Ident
	Type Node // Optional
}

// FunctionLiteral represents an anonymous function value
type FunctionLiteral struct {
	Position   position.Position
	Params     []Param
	ReturnType Node // Defaults to the identifier void
	Body       *Block
}

// Struct represents a struct literal. Const fields are associated
// constants of the blueprint; the others are instance fields.
type Struct struct {
	Position position.Position
	Fields   []*VariableDecl
}

// EnumMember is a single named member of an enum literal
type EnumMember struct {
	Name     string
	Position position.Position
}

// Enum represents an enum literal
type Enum struct {
	Position position.Position
	Members  []EnumMember
}

// ===== Statements =====

// Return represents an explicit early return. Value is nil for a bare
// "return;".
type Return struct {
	Position position.Position
	Value    Node
}

// ScopeReturn marks the trailing expression of a block as the value the
// block produces. Unlike Return it does not leave the enclosing function.
type ScopeReturn struct {
	Position position.Position
	Value    Node
}

// Block represents a braced statement list
type Block struct {
	Position   position.Position
	Statements []Node
}

// ContainsScopeReturn reports whether the block produces a value: one of its
// statements is a ScopeReturn, or a nested condition chain has an arm that
// contains one.
func (b *Block) ContainsScopeReturn() bool {
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ScopeReturn:
			return true
		case *Condition:
			for link := range s.Links() {
				if link.Body.ContainsScopeReturn() {
					return true
				}
			}
		}
	}
	return false
}

// While represents a pre-test loop
type While struct {
	Position position.Position
	Cond     Node
	Body     *Block
}

// Assignment is only produced for a full expression statement
type Assignment struct {
	Position position.Position
	Target   Node
	Operator string // one of = += -= *=
	Value    Node
}

// ConditionKind tags the links of a condition chain
type ConditionKind int

const (
	If ConditionKind = iota
	Elif
	Else
)

func (k ConditionKind) String() string {
	switch k {
	case If:
		return "if"
	case Elif:
		return "elif"
	default:
		return "else"
	}
}

// Condition is one link of an if/elif/else chain. The chain ends with an
// else link or a nil Next.
type Condition struct {
	Position position.Position
	Kind     ConditionKind
	Cond     Node // nil for else
	Body     *Block
	Next     *Condition
}

// IsElse reports whether this link is the terminal else arm.
func (c *Condition) IsElse() bool { return c.Cond == nil }

// Links iterates over the chain starting at c.
func (c *Condition) Links() iter.Seq[*Condition] {
	return func(yield func(*Condition) bool) {
		for link := c; link != nil; link = link.Next {
			if !yield(link) {
				return
			}
		}
	}
}

// HasElse reports whether the chain terminates in an else arm.
func (c *Condition) HasElse() bool {
	for link := range c.Links() {
		if link.IsElse() {
			return true
		}
	}
	return false
}

// ===== Expressions =====

// BinaryOp represents arithmetic and comparison
type BinaryOp struct {
	Position position.Position
	Left     Node
	Operator string
	Right    Node
}

// UnaryOp represents a prefix + - & * !
type UnaryOp struct {
	Position position.Position
	Operator string
	Operand  Node
}

// Call represents a call. Builtin calls are written name!(...) and are
// resolved by name rather than by value.
type Call struct {
	Position  position.Position
	Callee    Node
	IsBuiltin bool
	Args      []Node
}

// Member represents field access base.name
type Member struct {
	Position position.Position
	Base     Node
	Name     *Ident
}

// Range represents an inclusive lower..upper range
type Range struct {
	Position position.Position
	Lower    Node
	Upper    Node
}

// Array represents an array literal
type Array struct {
	Position position.Position
	Elements []Node
}

// FieldInit is one name: value pair of a new expression
type FieldInit struct {
	Name     string
	Value    Node
	Position position.Position
}

// New represents struct instantiation. Type is nil for an anonymous record.
type New struct {
	Position position.Position
	Type     Node
	Fields   []FieldInit
}

func (n *Program) Pos() position.Position         { return n.Position }
func (n *Ident) Pos() position.Position           { return n.Position }
func (n *Number) Pos() position.Position          { return n.Position }
func (n *String) Pos() position.Position          { return n.Position }
func (n *VariableDecl) Pos() position.Position    { return n.Position }
func (n *FunctionLiteral) Pos() position.Position { return n.Position }
func (n *Struct) Pos() position.Position          { return n.Position }
func (n *Enum) Pos() position.Position            { return n.Position }
func (n *Return) Pos() position.Position          { return n.Position }
func (n *ScopeReturn) Pos() position.Position     { return n.Position }
func (n *Block) Pos() position.Position           { return n.Position }
func (n *While) Pos() position.Position           { return n.Position }
func (n *Assignment) Pos() position.Position      { return n.Position }
func (n *Condition) Pos() position.Position       { return n.Position }
func (n *BinaryOp) Pos() position.Position        { return n.Position }
func (n *UnaryOp) Pos() position.Position         { return n.Position }
func (n *Call) Pos() position.Position            { return n.Position }
func (n *Member) Pos() position.Position          { return n.Position }
func (n *Range) Pos() position.Position           { return n.Position }
func (n *Array) Pos() position.Position           { return n.Position }
func (n *New) Pos() position.Position             { return n.Position }

func (*Program) node()         {}
func (*Ident) node()           {}
func (*Number) node()          {}
func (*String) node()          {}
func (*VariableDecl) node()    {}
func (*FunctionLiteral) node() {}
func (*Struct) node()          {}
func (*Enum) node()            {}
func (*Return) node()          {}
func (*ScopeReturn) node()     {}
func (*Block) node()           {}
func (*While) node()           {}
func (*Assignment) node()      {}
func (*Condition) node()       {}
func (*BinaryOp) node()        {}
func (*UnaryOp) node()         {}
func (*Call) node()            {}
func (*Member) node()          {}
func (*Range) node()           {}
func (*Array) node()           {}
func (*New) node()             {}
