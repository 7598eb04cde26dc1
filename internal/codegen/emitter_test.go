package codegen

import (
	"strings"
	"testing"

	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/parser"
)

// emitBare lowers src without the prelude and the main() call.
func emitBare(t *testing.T, src string) (string, error) {
	t.Helper()

	prog, err := parser.ParseString("test.zap", src)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", src, err)
	}
	return New(WithoutPrelude(), WithoutEntryCall()).Emit(prog)
}

func TestEmitHelloWorld(t *testing.T) {
	prog, err := parser.ParseString("main.zap", `const main = fn() { println!("hi"); };`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	got, err := New().Emit(prog)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	expected := Prelude + "\n" +
		"const main = function() {\n" +
		"  $println('hi');\n" +
		"  return $VOID;\n" +
		"};\n" +
		"\n" +
		"main();\n"

	if got != expected {
		t.Errorf("wrong output.\nexpected=\n%s\ngot=\n%s", expected, got)
	}
}

func TestEmit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "conditional expression",
			input: "const v = if a { 1 } elif b { 2 } else { 3 };",
			expected: "const v = (a ? (() => {\n  return 1;\n})() : b ? (() => {\n  return 2;\n})() : (() => {\n" +
				"  return 3;\n})());\n",
		},
		{
			name:  "conditional statement",
			input: "const f = fn() { if a { g(); } elif b { h(); } else { 1; } };",
			expected: "const f = function() {\n" +
				"  if (a) {\n    g();\n  } else if (b) {\n    h();\n  } else {\n    1;\n  }\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:  "conditional as trailing value",
			input: "const abs = fn(x) { if x > 0 { x } else { -x } };",
			expected: "const abs = function(x) {\n" +
				"  return ((x > 0) ? (() => {\n    return x;\n  })() : (() => {\n    return -(x);\n  })());\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:  "explicit return keeps trailing void",
			input: "const add = fn(a, b): i32 { return a + b; };",
			expected: "const add = function(a, b) {\n" +
				"  return (a + b);\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:  "bare return",
			input: "const f = fn() { return; };",
			expected: "const f = function() {\n" +
				"  return $VOID;\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:  "loop body discards its trailing value",
			input: "const f = fn() { let mut i = 0; while i < 3 { i += 1 } };",
			expected: "const f = function() {\n" +
				"  let i = 0;\n" +
				"  while ((i < 3)) {\n    i += 1;\n  }\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:  "struct",
			input: "const Point = struct { let x: i32; let y: i32 = 0; };",
			expected: "const Point = class {\n" +
				"  constructor($param = {}) {\n" +
				"    this.x = $param.x;\n" +
				"    this.y = ($param.y !== undefined) ? $param.y : (0);\n" +
				"  }\n" +
				"};\n",
		},
		{
			name:     "empty struct",
			input:    "const Unit = struct {};",
			expected: "const Unit = class {\n  constructor($param = {}) {}\n};\n",
		},
		{
			name:  "struct with constants",
			input: "const P = struct { let x; static const ORIGIN = 0; const get = fn() { self.x }; };",
			expected: "const P = (() => {\n" +
				"  const $blueprint = class {\n" +
				"    constructor($param = {}) {\n" +
				"      this.x = $param.x;\n" +
				"    }\n" +
				"  };\n" +
				"  $blueprint.ORIGIN = 0;\n" +
				"  $blueprint.prototype.get = function() {\n" +
				"    return this.x;\n" +
				"    return $VOID;\n" +
				"  };\n" +
				"  return $blueprint;\n" +
				"})();\n",
		},
		{
			name:  "new",
			input: "const main = fn() { let p = new Point { x: 1, y: 2 }; let r = new { a: 'z' }; let e = new Point {}; };",
			expected: "const main = function() {\n" +
				"  const p = new Point({x: 1, y: 2});\n" +
				"  const r = new $record({a: 'z'});\n" +
				"  const e = new Point({});\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:     "enum",
			input:    "const Color = enum { Red, Green };",
			expected: "const Color = Object.freeze({Red: 0, Green: 1});\n",
		},
		{
			name:     "array elements are lowered",
			input:    "const a = [1 + 2, f(x), [y == z]];",
			expected: "const a = [(1 + 2), f(x), [(y === z)]];\n",
		},
		{
			name:     "range",
			input:    "const r = 0..n.len();",
			expected: "const r = new $range(0, n.len());\n",
		},
		{
			name:     "equality operators",
			input:    "const v = a == b != !c;",
			expected: "const v = ((a === b) !== !(c));\n",
		},
		{
			name:     "references are transparent",
			input:    "const v = *p + &q;",
			expected: "const v = (p + q);\n",
		},
		{
			name:  "reserved words and self",
			input: "const f = fn(class, self) { self.x + class + this };",
			expected: "const f = function($class, self) {\n" +
				"  return ((this.x + $class) + $this);\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:     "strings",
			input:    `const s = ['a\'b\n', "it's"];`,
			expected: `const s = ['a\'b\n', 'it\'s'];` + "\n",
		},
		{
			name:     "declaration prototypes",
			input:    "const x = let y: i32; const z; const f = fn() { let w; };",
			expected: "const x = undefined;\nlet z;\nconst f = function() {\n  let w;\n  return $VOID;\n};\n",
		},
		{
			name:     "postfix chain",
			input:    "const v = a.b(1).c.d();",
			expected: "const v = a.b(1).c.d();\n",
		},
		{
			name:     "member of a number literal",
			input:    "const s = 1.toString();",
			expected: "const s = (1).toString();\n",
		},
		{
			name:     "true and false",
			input:    "const false = 0; const t = true;",
			expected: "const $false = 0;\nconst t = true;\n",
		},
		{
			name:  "trailing statement chain passes its values",
			input: "const v = if a { if b { 1 } else { 2 }; } else { 3 };",
			expected: "const v = (a ? (() => {\n  if (b) {\n    return 1;\n  } else {\n    return 2;\n  }\n})() : (() => {\n" +
				"  return 3;\n})());\n",
		},
		{
			name:  "function ending in a value chain",
			input: "const f = fn() { if a { 1 } else { 2 }; };",
			expected: "const f = function() {\n" +
				"  if (a) {\n    return 1;\n  } else {\n    return 2;\n  }\n" +
				"  return $VOID;\n" +
				"};\n",
		},
		{
			name:  "function ending in a chain without else",
			input: "const f = fn() { if a { g() }; };",
			expected: "const f = function() {\n" +
				"  if (a) {\n    g();\n  }\n" +
				"  return $VOID;\n" +
				"};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := emitBare(t, tt.input)
			if err != nil {
				t.Fatalf("emit error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("wrong output.\nexpected=\n%s\ngot=\n%s", tt.expected, got)
			}
		})
	}
}

func TestEmitErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "conditional expression without else",
			input:    "const v = if a { 1 } elif b { 2 };",
			expected: "test.zap:1:11: missing 'else' node",
		},
		{
			name:     "unknown builtin",
			input:    "const main = fn() { print!(1); };",
			expected: "test.zap:1:21: invalid builtin function",
		},
		{
			name:     "builtin through member",
			input:    "const v = a.b!(1);",
			expected: "test.zap:1:11: invalid builtin function",
		},
		{
			name:     "duplicate new field",
			input:    "const v = new P { x: 1, x: 2 };",
			expected: "test.zap:1:25: duplicate field 'x' in new expression",
		},
		{
			name:     "trailing chain without else in a value arm",
			input:    "const v = if a { if b { 1 }; } else { 3 };",
			expected: "test.zap:1:18: missing 'else' node",
		},
		{
			name:     "error inside nested function",
			input:    "const main = fn() { let f = fn() { if a { 1 } }; };",
			expected: "test.zap:1:36: missing 'else' node",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := emitBare(t, tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			diag, ok := diagnostic.As(err)
			if !ok {
				t.Fatalf("expected *diagnostic.Error, got %T", err)
			}
			if diag.Stage != diagnostic.StageCodegen {
				t.Errorf("expected codegen stage, got %s", diag.Stage)
			}
			if err.Error() != tt.expected {
				t.Errorf("wrong error. expected=%q, got=%q", tt.expected, err.Error())
			}
		})
	}
}

func TestEmitOptions(t *testing.T) {
	prog, err := parser.ParseString("test.zap", "const main = fn() { 1 };")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	got, err := New(WithIndent("\t"), WithoutPrelude()).Emit(prog)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}

	expected := "const main = function() {\n\treturn 1;\n\treturn $VOID;\n};\n\nmain();\n"
	if got != expected {
		t.Errorf("wrong output. expected=%q, got=%q", expected, got)
	}
}

func TestEmitNode(t *testing.T) {
	tests := []struct {
		node     ast.Node
		expected string
	}{
		{&ast.Number{Value: "42"}, "42"},
		{&ast.Return{}, "return $VOID"},
		{&ast.ScopeReturn{Value: &ast.Ident{Name: "x"}}, "return x"},
		{&ast.Assignment{Target: &ast.Ident{Name: "x"}, Operator: "*=", Value: &ast.Number{Value: "2"}}, "x *= 2"},
		{&ast.Program{}, Prelude + "\n\nmain();\n"},
	}

	for i, tt := range tests {
		got, err := New().EmitNode(tt.node)
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if got != tt.expected {
			t.Errorf("tests[%d] - wrong output. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestPrelude(t *testing.T) {
	for _, name := range []string{"const $VOID", "const $range", "const $panic", "const $println", "const $record"} {
		if !strings.Contains(Prelude, name) {
			t.Errorf("prelude does not define %s", name)
		}
	}

	if strings.Index(Prelude, "const $VOID") > strings.Index(Prelude, "const $range") {
		t.Error("$VOID must be defined before $range uses it")
	}
}
