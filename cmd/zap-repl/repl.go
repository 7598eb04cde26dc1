package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/codegen"
	"github.com/zap-lang/zap/internal/compiler"
	"github.com/zap-lang/zap/internal/diagnostic"
)

const replFile = "<repl>"

// Mode selects what the REPL shows for an input.
type Mode string

const (
	ModeJS     Mode = "js"
	ModeAST    Mode = "ast"
	ModeTokens Mode = "tokens"
)

func parseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeJS, ModeAST, ModeTokens:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q, allowed: js, ast, tokens", s)
	}
}

// Prompter reads one line of input. *liner.State implements it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// REPL compiles each input and shows the tokens, the parsed program or the
// emitted JavaScript. Inputs are independent: nothing carries over from one
// to the next.
type REPL struct {
	Mode       Mode
	Out        io.Writer
	Err        io.Writer
	Color      bool
	MaxHistory int

	history []string
}

// NewREPL creates a REPL writing results to out and diagnostics to errOut.
func NewREPL(mode Mode, out, errOut io.Writer) *REPL {
	return &REPL{Mode: mode, Out: out, Err: errOut, MaxHistory: 1000}
}

// History returns the inputs evaluated so far, oldest first.
func (r *REPL) History() []string {
	return r.history
}

func (r *REPL) addHistory(input string) {
	r.history = append(r.history, input)
	if r.MaxHistory > 0 && len(r.history) > r.MaxHistory {
		r.history = r.history[len(r.history)-r.MaxHistory:]
	}
}

// NeedsMore reports whether src stops in the middle of a construct, so the
// next line should be appended to it.
func (r *REPL) NeedsMore(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}

	var err error
	if r.Mode == ModeTokens {
		_, err = compiler.Tokens(replFile, src)
	} else {
		_, err = compiler.Parse(replFile, src)
	}
	return diagnostic.IsIncomplete(err)
}

// Read collects one complete input from p, prompting with cont for
// continuation lines. ok is false at end of input.
func (r *REPL) Read(p Prompter, prompt, cont string) (input string, ok bool, err error) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}

		line, err := p.Prompt(current)
		if err == io.EOF {
			if b.Len() > 0 {
				return b.String(), true, nil
			}
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !r.NeedsMore(b.String()) {
			return b.String(), true, nil
		}
	}
}

// Eval handles one complete input: a :command or Zap source. It reports
// whether the REPL should exit.
func (r *REPL) Eval(input string) (quit bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	if strings.HasPrefix(input, ":") {
		return r.command(input)
	}

	r.addHistory(input)

	out, err := r.render(input)
	if err != nil {
		diagnostic.Render(r.Err, err, r.Color)
		return false
	}
	fmt.Fprint(r.Out, out)
	return false
}

// render produces the output of input in the current mode.
func (r *REPL) render(input string) (string, error) {
	if r.Mode == ModeTokens {
		toks, err := compiler.Tokens(replFile, input)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.Debug())
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	}

	prog, err := parseInput(input)
	if err != nil {
		return "", err
	}

	if r.Mode == ModeAST {
		return ast.Print(prog), nil
	}

	opts := []codegen.Option{codegen.WithoutPrelude()}
	if !declaresEntryPoint(prog) {
		opts = append(opts, codegen.WithoutEntryCall())
	}
	return codegen.New(opts...).Emit(prog)
}

// declaresEntryPoint reports whether a top-level declaration binds main.
// Nested declarations are not visited.
func declaresEntryPoint(prog *ast.Program) bool {
	found := false
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Program:
			return true
		case *ast.VariableDecl:
			if n.Name.Name == codegen.EntryPoint {
				found = true
			}
		}
		return false
	})
	return found
}

// parseInput parses input as a program. Input that is not a program but is
// a valid expression becomes the body of a main that prints it.
func parseInput(input string) (*ast.Program, error) {
	prog, err := compiler.Parse(replFile, input)
	if err == nil {
		return prog, nil
	}

	wrapped := "const main = fn() { println!(" + input + "); };"
	if prog, werr := compiler.Parse(replFile, wrapped); werr == nil {
		return prog, nil
	}
	return nil, err
}

func (r *REPL) command(input string) (quit bool) {
	parts := strings.Fields(input)

	switch parts[0] {
	case ":help", ":h":
		r.printHelp()
	case ":quit", ":q", ":exit":
		return true
	case ":mode":
		if len(parts) < 2 {
			fmt.Fprintf(r.Out, "mode: %s\n", r.Mode)
			break
		}
		mode, err := parseMode(parts[1])
		if err != nil {
			fmt.Fprintln(r.Err, err)
			break
		}
		r.Mode = mode
		fmt.Fprintf(r.Out, "mode: %s\n", r.Mode)
	case ":history":
		if len(r.history) == 0 {
			fmt.Fprintln(r.Out, "No history")
			break
		}
		for i, entry := range r.history {
			fmt.Fprintf(r.Out, "%3d: %s\n", i+1, strings.ReplaceAll(entry, "\n", " "))
		}
	default:
		fmt.Fprintf(r.Err, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.Err, "Type :help for available commands")
	}
	return false
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.Out, "REPL Commands:")
	fmt.Fprintln(r.Out, "  :help, :h              Show this help")
	fmt.Fprintln(r.Out, "  :quit, :q, :exit       Exit REPL")
	fmt.Fprintln(r.Out, "  :mode [js|ast|tokens]  Show or switch the output mode")
	fmt.Fprintln(r.Out, "  :history               Show input history")
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "Enter declarations, or a bare expression to see how it prints.")
}
