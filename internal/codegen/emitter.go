// Package codegen lowers a Zap AST to JavaScript.
//
// Lowering is a pure, structural function of the tree: struct literals
// become classes, new expressions become constructor calls taking a single
// field bundle, ranges become $range iterators and builtin calls resolve to
// prelude intrinsics. Conditions are lowered to native if statements in
// statement position and to nested ternaries over arrow closures in
// expression position.
package codegen

import (
	"fmt"
	"strings"

	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/position"
)

// EntryPoint is the top-level function invoked at the end of every program.
const EntryPoint = "main"

// Option configures an Emitter
type Option func(*Emitter)

// WithIndent sets the indentation unit of the output. The default is two
// spaces.
func WithIndent(unit string) Option {
	return func(e *Emitter) { e.indent = unit }
}

// WithoutPrelude omits the runtime prelude, for embedding the output into a
// program that already defines it.
func WithoutPrelude() Option {
	return func(e *Emitter) { e.prelude = false }
}

// WithoutEntryCall omits the trailing main() call.
func WithoutEntryCall() Option {
	return func(e *Emitter) { e.entryCall = false }
}

// Emitter lowers AST nodes to JavaScript source text. It holds only
// configuration, so one Emitter may be reused across programs.
type Emitter struct {
	indent    string
	prelude   bool
	entryCall bool
}

// New creates an emitter
func New(opts ...Option) *Emitter {
	e := &Emitter{
		indent:    "  ",
		prelude:   true,
		entryCall: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// scopeMode says what a ScopeReturn lowers to inside a block.
type scopeMode int

const (
	// scopeReturn: the block is a function body, so its value is returned.
	scopeReturn scopeMode = iota
	// scopeValue: the block is a value-producing arm wrapped in a closure.
	// Like scopeReturn, but the block must produce a value.
	scopeValue
	// scopeDiscard: the block is a loop body or a statement-position arm
	// and its value is unused.
	scopeDiscard
)

// Emit lowers a whole program: the prelude, one binding per top-level
// declaration, then the call of main.
func (e *Emitter) Emit(prog *ast.Program) (string, error) {
	var sb strings.Builder

	if e.prelude {
		sb.WriteString(Prelude)
		sb.WriteByte('\n')
	}

	for _, decl := range prog.Decls {
		code, err := e.declaration(decl, 0)
		if err != nil {
			return "", err
		}
		sb.WriteString(code)
		sb.WriteString(";\n")
	}

	if e.entryCall {
		sb.WriteString("\n" + EntryPoint + "();\n")
	}

	return sb.String(), nil
}

// EmitNode lowers a single node. Programs are emitted whole; any other node
// is lowered as a statement at the outermost indentation.
func (e *Emitter) EmitNode(node ast.Node) (string, error) {
	if prog, ok := node.(*ast.Program); ok {
		return e.Emit(prog)
	}
	return e.statement(node, 0, scopeReturn)
}

func (e *Emitter) errorf(pos position.Position, format string, args ...interface{}) error {
	return diagnostic.New(diagnostic.StageCodegen, pos, fmt.Sprintf(format, args...))
}

func (e *Emitter) pad(depth int) string {
	return strings.Repeat(e.indent, depth)
}

// block lowers a braced statement list whose closing brace sits at depth.
// trailer, if set, is appended as a final statement.
func (e *Emitter) block(b *ast.Block, depth int, mode scopeMode, trailer string) (string, error) {
	var sb strings.Builder
	sb.WriteString("{\n")

	inner := e.pad(depth + 1)
	for i, stmt := range b.Statements {
		var code string
		var err error
		if chain, ok := stmt.(*ast.Condition); ok && i == len(b.Statements)-1 {
			code, err = e.trailingCondition(chain, depth+1, mode)
		} else {
			code, err = e.statement(stmt, depth+1, mode)
		}
		if err != nil {
			return "", err
		}
		sb.WriteString(inner)
		sb.WriteString(code)
		switch stmt.(type) {
		case *ast.While, *ast.Condition:
		default:
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}

	if trailer != "" {
		sb.WriteString(inner + trailer + ";\n")
	}

	sb.WriteString(e.pad(depth))
	sb.WriteByte('}')
	return sb.String(), nil
}

func (e *Emitter) statement(node ast.Node, depth int, mode scopeMode) (string, error) {
	switch n := node.(type) {
	case *ast.Return:
		if n.Value == nil {
			return "return $VOID", nil
		}
		value, err := e.expr(n.Value, depth)
		if err != nil {
			return "", err
		}
		return "return " + value, nil

	case *ast.ScopeReturn:
		value, err := e.expr(n.Value, depth)
		if err != nil {
			return "", err
		}
		if mode == scopeDiscard {
			return value, nil
		}
		return "return " + value, nil

	case *ast.VariableDecl:
		return e.declaration(n, depth)

	case *ast.Condition:
		return e.conditionStatement(n, depth, scopeDiscard)

	case *ast.While:
		cond, err := e.expr(n.Cond, depth)
		if err != nil {
			return "", err
		}
		body, err := e.block(n.Body, depth, scopeDiscard, "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("while (%s) %s", cond, body), nil

	default:
		return e.expr(node, depth)
	}
}

// declaration lowers a binding to const, or to let when it is mutable or has
// no initializer.
func (e *Emitter) declaration(decl *ast.VariableDecl, depth int) (string, error) {
	name := mangle(decl.Name.Name)

	if decl.Value == nil {
		return "let " + name, nil
	}

	value, err := e.expr(decl.Value, depth)
	if err != nil {
		return "", err
	}

	keyword := "const"
	if decl.IsMutable {
		keyword = "let"
	}
	return fmt.Sprintf("%s %s = %s", keyword, name, value), nil
}

func (e *Emitter) expr(node ast.Node, depth int) (string, error) {
	switch n := node.(type) {
	case nil:
		return "undefined", nil

	case *ast.Ident:
		return identifier(n.Name), nil

	case *ast.Number:
		return n.Value, nil

	case *ast.String:
		return quote(n.Value), nil

	case *ast.VariableDecl:
		// A declaration prototype used as a value has nothing to read yet.
		return "undefined", nil

	case *ast.FunctionLiteral:
		return e.function(n, depth)

	case *ast.BinaryOp:
		left, err := e.expr(n.Left, depth)
		if err != nil {
			return "", err
		}
		right, err := e.expr(n.Right, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, binaryOperator(n.Operator), right), nil

	case *ast.UnaryOp:
		operand, err := e.expr(n.Operand, depth)
		if err != nil {
			return "", err
		}
		switch n.Operator {
		case "&", "*":
			// References and dereferences have no runtime representation.
			return operand, nil
		default:
			return fmt.Sprintf("%s(%s)", n.Operator, operand), nil
		}

	case *ast.Call:
		return e.call(n, depth)

	case *ast.Assignment:
		// Only reachable as a statement or as a block's trailing value.
		target, err := e.expr(n.Target, depth)
		if err != nil {
			return "", err
		}
		value, err := e.expr(n.Value, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", target, n.Operator, value), nil

	case *ast.Condition:
		return e.conditionExpr(n, depth)

	case *ast.Struct:
		return e.structLiteral(n, depth)

	case *ast.New:
		return e.newExpr(n, depth)

	case *ast.Member:
		base, err := e.expr(n.Base, depth)
		if err != nil {
			return "", err
		}
		if _, ok := n.Base.(*ast.Number); ok {
			// JavaScript reads 1.x as a malformed number literal.
			base = "(" + base + ")"
		}
		return base + "." + n.Name.Name, nil

	case *ast.Array:
		elements, err := e.list(n.Elements, depth)
		if err != nil {
			return "", err
		}
		return "[" + elements + "]", nil

	case *ast.Range:
		lower, err := e.expr(n.Lower, depth)
		if err != nil {
			return "", err
		}
		upper, err := e.expr(n.Upper, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("new $range(%s, %s)", lower, upper), nil

	case *ast.Enum:
		members := make([]string, len(n.Members))
		for i, member := range n.Members {
			members[i] = fmt.Sprintf("%s: %d", member.Name, i)
		}
		return "Object.freeze({" + strings.Join(members, ", ") + "})", nil

	case *ast.Return, *ast.ScopeReturn, *ast.While, *ast.Block, *ast.Program:
		return "", e.errorf(node.Pos(), "unexpected %s in expression position", nodeName(node))

	default:
		panic(fmt.Sprintf("codegen: unexpected node %T", node))
	}
}

func (e *Emitter) list(nodes []ast.Node, depth int) (string, error) {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		code, err := e.expr(node, depth)
		if err != nil {
			return "", err
		}
		parts[i] = code
	}
	return strings.Join(parts, ", "), nil
}

// function lowers a function literal. A trailing "return $VOID" makes a
// body that falls through yield the void sentinel instead of undefined.
func (e *Emitter) function(fn *ast.FunctionLiteral, depth int) (string, error) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = mangle(param.Name.Name)
	}

	body, err := e.block(fn.Body, depth, scopeReturn, "return $VOID")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("function(%s) %s", strings.Join(params, ", "), body), nil
}

func (e *Emitter) call(call *ast.Call, depth int) (string, error) {
	var callee string

	if call.IsBuiltin {
		ident, ok := call.Callee.(*ast.Ident)
		if !ok {
			return "", e.errorf(call.Callee.Pos(), "invalid builtin function")
		}
		if callee, ok = builtins[ident.Name]; !ok {
			return "", e.errorf(call.Callee.Pos(), "invalid builtin function")
		}
	} else {
		var err error
		if callee, err = e.expr(call.Callee, depth); err != nil {
			return "", err
		}
	}

	args, err := e.list(call.Args, depth)
	if err != nil {
		return "", err
	}

	return callee + "(" + args + ")", nil
}

// trailingCondition lowers a chain that ends a block. When the block's value
// is used and the arms produce values, the arms return them: a value arm
// requires the chain to end in else, a function body without else falls
// through to its trailing return.
func (e *Emitter) trailingCondition(chain *ast.Condition, depth int, mode scopeMode) (string, error) {
	if mode == scopeDiscard || !producesValue(chain) {
		return e.conditionStatement(chain, depth, scopeDiscard)
	}
	if !chain.HasElse() {
		if mode == scopeValue {
			return "", e.errorf(chain.Pos(), "missing 'else' node")
		}
		return e.conditionStatement(chain, depth, scopeDiscard)
	}
	return e.conditionStatement(chain, depth, mode)
}

func producesValue(chain *ast.Condition) bool {
	for link := range chain.Links() {
		if link.Body.ContainsScopeReturn() {
			return true
		}
	}
	return false
}

// conditionStatement lowers a chain to if / else if / else, with arm bodies
// in the given mode.
func (e *Emitter) conditionStatement(chain *ast.Condition, depth int, mode scopeMode) (string, error) {
	var sb strings.Builder

	for link := range chain.Links() {
		if link != chain {
			sb.WriteString(" else ")
		}

		if !link.IsElse() {
			cond, err := e.expr(link.Cond, depth)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "if (%s) ", cond)
		}

		body, err := e.block(link.Body, depth, mode, "")
		if err != nil {
			return "", err
		}
		sb.WriteString(body)
	}

	return sb.String(), nil
}

// conditionExpr lowers a chain used as a value to
//
//	(c1 ? (() => {...})() : c2 ? (() => {...})() : (() => {...})())
//
// Arrow closures keep this bound to the enclosing method.
func (e *Emitter) conditionExpr(chain *ast.Condition, depth int) (string, error) {
	if !chain.HasElse() {
		return "", e.errorf(chain.Pos(), "missing 'else' node")
	}

	var sb strings.Builder
	sb.WriteByte('(')

	for link := range chain.Links() {
		body, err := e.block(link.Body, depth, scopeValue, "")
		if err != nil {
			return "", err
		}
		arm := "(() => " + body + ")()"

		if link.IsElse() {
			sb.WriteString(arm)
			break
		}

		cond, err := e.expr(link.Cond, depth)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s ? %s : ", cond, arm)
	}

	sb.WriteByte(')')
	return sb.String(), nil
}

// structLiteral lowers a struct to a class. Instance fields are copied from
// the constructor's single $param bundle; an initializer supplies the value
// when the bundle lacks the field. Const fields are evaluated once, when the
// class is defined: static ones become class members, the others prototype
// members shared by every instance.
func (e *Emitter) structLiteral(st *ast.Struct, depth int) (string, error) {
	var consts []*ast.VariableDecl
	var fields []*ast.VariableDecl
	for _, field := range st.Fields {
		if field.IsConst {
			consts = append(consts, field)
		} else {
			fields = append(fields, field)
		}
	}

	classDepth := depth
	if len(consts) > 0 {
		classDepth = depth + 1
	}

	class, err := e.class(fields, classDepth)
	if err != nil {
		return "", err
	}

	if len(consts) == 0 {
		return class, nil
	}

	inner := e.pad(depth + 1)

	var sb strings.Builder
	sb.WriteString("(() => {\n")
	sb.WriteString(inner + "const $blueprint = " + class + ";\n")

	for _, field := range consts {
		value, err := e.expr(field.Value, depth+1)
		if err != nil {
			return "", err
		}

		target := "$blueprint.prototype."
		if field.IsStatic {
			target = "$blueprint."
		}
		sb.WriteString(inner + target + field.Name.Name + " = " + value + ";\n")
	}

	sb.WriteString(inner + "return $blueprint;\n")
	sb.WriteString(e.pad(depth) + "})()")
	return sb.String(), nil
}

func (e *Emitter) class(fields []*ast.VariableDecl, depth int) (string, error) {
	if len(fields) == 0 {
		return "class {\n" + e.pad(depth+1) + "constructor($param = {}) {}\n" + e.pad(depth) + "}", nil
	}

	body := e.pad(depth + 2)

	var sb strings.Builder
	sb.WriteString("class {\n")
	sb.WriteString(e.pad(depth+1) + "constructor($param = {}) {\n")

	for _, field := range fields {
		name := field.Name.Name
		if field.Value == nil {
			fmt.Fprintf(&sb, "%sthis.%s = $param.%s;\n", body, name, name)
			continue
		}

		value, err := e.expr(field.Value, depth+2)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%sthis.%s = ($param.%s !== undefined) ? $param.%s : (%s);\n", body, name, name, name, value)
	}

	sb.WriteString(e.pad(depth+1) + "}\n")
	sb.WriteString(e.pad(depth) + "}")
	return sb.String(), nil
}

// newExpr lowers new T { a: x } to new T({a: x}). Anonymous records are
// instances of the prelude's $record.
func (e *Emitter) newExpr(n *ast.New, depth int) (string, error) {
	blueprint := "$record"
	if n.Type != nil {
		var err error
		if blueprint, err = e.expr(n.Type, depth); err != nil {
			return "", err
		}
	}

	seen := make(map[string]bool, len(n.Fields))
	fields := make([]string, len(n.Fields))
	for i, field := range n.Fields {
		if seen[field.Name] {
			return "", e.errorf(field.Position, "duplicate field '%s' in new expression", field.Name)
		}
		seen[field.Name] = true

		value, err := e.expr(field.Value, depth)
		if err != nil {
			return "", err
		}
		fields[i] = field.Name + ": " + value
	}

	return fmt.Sprintf("new %s({%s})", blueprint, strings.Join(fields, ", ")), nil
}

func binaryOperator(op string) string {
	switch op {
	case "==":
		return "==="
	case "!=":
		return "!=="
	default:
		return op
	}
}

func nodeName(node ast.Node) string {
	switch node.(type) {
	case *ast.Return:
		return "return"
	case *ast.ScopeReturn:
		return "scope return"
	case *ast.While:
		return "loop"
	case *ast.Block:
		return "block"
	default:
		return "program"
	}
}
