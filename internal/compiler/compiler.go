// Package compiler runs the Zap pipeline: source text is lexed, parsed and
// lowered to JavaScript in one pass. Each run is independent; nothing is
// shared between runs, so callers may compile files concurrently.
package compiler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/codegen"
	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/lexer"
	"github.com/zap-lang/zap/internal/parser"
	"github.com/zap-lang/zap/internal/position"
)

// SourceExtensions lists the file extensions accepted as Zap sources.
var SourceExtensions = []string{".zap", ".f"}

// Result is the output of one compilation run
type Result struct {
	Filename string
	Program  *ast.Program
	Output   string // emitted JavaScript
}

// Parse lexes and parses source.
func Parse(filename, source string) (*ast.Program, error) {
	file := position.NewSourceFile(filename, source)
	return parser.New(lexer.New(file)).Parse()
}

// Tokens lexes source into a token slice ending with EOF.
func Tokens(filename, source string) ([]lexer.Token, error) {
	return lexer.NewFromString(filename, source).Lex()
}

// Compile runs the whole pipeline over source. The first diagnostic aborts
// the run and no partial output is returned.
func Compile(filename, source string, opts ...codegen.Option) (*Result, error) {
	prog, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}

	output, err := codegen.New(opts...).Emit(prog)
	if err != nil {
		return nil, err
	}

	return &Result{Filename: filename, Program: prog, Output: output}, nil
}

// CompileFile reads and compiles the file at path.
func CompileFile(path string, opts ...codegen.Option) (*Result, error) {
	source, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Compile(path, source, opts...)
}

// ReadSource reads a source file. An unreadable file is reported as a lexer
// diagnostic without a position.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", diagnostic.Errorf(diagnostic.StageLexer, position.Position{}, "bad filename '%s'", path)
	}
	return string(data), nil
}

// IsSource reports whether path has a Zap source extension.
func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range SourceExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// OutputPath returns where the JavaScript for input is written: next to the
// input, or in outDir when it is set, with the extension replaced by .js.
func OutputPath(input, outDir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input)) + ".js"
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}
