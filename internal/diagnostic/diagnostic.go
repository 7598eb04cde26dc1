// Package diagnostic carries compiler-reported failures.
//
// The compiler is fail-fast: the first diagnostic aborts the pipeline, so a
// run produces at most one *Error. Renderers turn it into the
// "error[line,col]: filename" report with the offending source line and a
// caret marker.
package diagnostic

import (
	"errors"
	"fmt"
	"io"

	"github.com/zap-lang/zap/internal/position"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage int

const (
	StageLexer Stage = iota
	StageParser
	StageCodegen
)

func (s Stage) String() string {
	switch s {
	case StageLexer:
		return "lexer"
	case StageParser:
		return "parser"
	case StageCodegen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Error is the single error kind reported by the lexer, parser and emitter.
type Error struct {
	Stage   Stage
	Message string
	Pos     position.Position // zero value when the failure has no source location

	// Incomplete is set when the failure happened at end of input, so more
	// input could still make the source valid.
	Incomplete bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos.String(), e.Message)
	}
	return e.Message
}

// New creates a diagnostic at pos.
func New(stage Stage, pos position.Position, message string) *Error {
	return &Error{Stage: stage, Message: message, Pos: pos}
}

// Errorf creates a diagnostic at pos with a formatted message.
func Errorf(stage Stage, pos position.Position, format string, args ...interface{}) *Error {
	return New(stage, pos, fmt.Sprintf(format, args...))
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var diag *Error
	if errors.As(err, &diag) {
		return diag, true
	}
	return nil, false
}

// IsIncomplete reports whether err is a diagnostic raised at end of input.
func IsIncomplete(err error) bool {
	diag, ok := As(err)
	return ok && diag.Incomplete
}

const (
	colorRed   = "\033[1;31m"
	colorBlue  = "\033[1;34m"
	colorReset = "\033[0m"
)

// Render writes err to w. Diagnostics are rendered as
//
//	error[3,9]: path/to/main.zap
//	3 | const x = ;
//	            ^ expected expression
//
// Any other error is written as "Error: <message>".
func Render(w io.Writer, err error, color bool) {
	if err == nil {
		return
	}

	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	diag, ok := As(err)
	if !ok {
		fmt.Fprintf(w, "%s %v\n", paint(colorRed, "Error:"), err)
		return
	}

	if !diag.Pos.IsValid() {
		fmt.Fprintf(w, "%s %s\n", paint(colorRed, "error:"), diag.Message)
		return
	}

	line, column := diag.Pos.LineColumn()
	fmt.Fprintf(w, "%s %s\n", paint(colorRed, fmt.Sprintf("error[%d,%d]:", line, column)), paint(colorBlue, diag.Pos.Filename()))
	fmt.Fprintln(w, position.Highlight(diag.Pos, diag.Message))
}
