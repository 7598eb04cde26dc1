// Command zapc compiles Zap source files to JavaScript.
//
//	zapc [flags] FILE...
//
// Each input main.zap is written to main.js next to it, or under -out-dir.
// With -run the emitted programs are executed under a JavaScript runtime,
// and with -watch they are rebuilt whenever a source file changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zap-lang/zap/internal/cli"
	"github.com/zap-lang/zap/internal/compiler"
	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/term"
)

const usageLine = "zapc [flags] FILE..."

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, " ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	output      string
	outDir      string
	run         bool
	runtime     string
	runtimeArgs stringList
	watch       bool
	tokens      bool
	ast         bool
	stdout      bool
	config      string
	verbose     bool
	debug       bool
	color       string
	version     bool
	json        bool
}

// merge fills options the command line left unset from cfg.
func (o *options) merge(cfg *cli.Config, set map[string]bool) {
	o.verbose = o.verbose || cfg.Verbose
	o.debug = o.debug || cfg.Debug
	if !set["out-dir"] {
		o.outDir = cfg.OutDir
	}
	if !set["runtime"] {
		o.runtime = cfg.Runtime
	}
	if !set["runtime-arg"] {
		o.runtimeArgs = cfg.RuntimeArgs
	}
}

func (o *options) validate(files []string) error {
	switch {
	case o.output != "" && len(files) > 1:
		return errors.New("-o requires a single input file")
	case o.output != "" && o.outDir != "":
		return errors.New("-o and -out-dir are mutually exclusive")
	case o.tokens && o.ast:
		return errors.New("-tokens and -ast are mutually exclusive")
	case o.run && (o.stdout || o.tokens || o.ast):
		return errors.New("-run needs the emitted program on disk; drop -stdout, -tokens and -ast")
	}

	switch o.color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid -color %q, allowed: auto, always, never", o.color)
	}
	return nil
}

// app is one zapc invocation.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	newRunner func(runtime string, args []string) (Runner, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdout: os.Stdout, stderr: os.Stderr, newRunner: newExecRunner}
	os.Exit(a.run(ctx, os.Args[1:]))
}

func (a *app) flags(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("zapc", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	fs.StringVar(&opts.output, "o", "", "write the emitted program to `file` (single input only)")
	fs.StringVar(&opts.outDir, "out-dir", "", "write emitted programs into `dir`")
	fs.BoolVar(&opts.run, "run", false, "run the emitted programs after compiling")
	fs.StringVar(&opts.runtime, "runtime", cli.DefaultRuntime, "JavaScript `runtime` used by -run: node, bun or deno")
	fs.Var(&opts.runtimeArgs, "runtime-arg", "extra runtime `argument` (repeatable)")
	fs.BoolVar(&opts.watch, "watch", false, "recompile when an input changes")
	fs.BoolVar(&opts.tokens, "tokens", false, "print the token stream instead of compiling")
	fs.BoolVar(&opts.ast, "ast", false, "print the parsed program instead of compiling")
	fs.BoolVar(&opts.stdout, "stdout", false, "write emitted programs to stdout")
	fs.StringVar(&opts.config, "config", cli.DefaultConfigFile, "JSON configuration `file`")
	fs.BoolVar(&opts.verbose, "verbose", false, "log progress")
	fs.BoolVar(&opts.debug, "debug", false, "log debug details")
	fs.StringVar(&opts.color, "color", "auto", "color diagnostics: auto, always or never")
	fs.BoolVar(&opts.version, "version", false, "show version information")
	fs.BoolVar(&opts.json, "json", false, "print version information as JSON")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s\n\nFlags:\n", usageLine)
		fs.PrintDefaults()
	}
	return fs
}

func (a *app) run(ctx context.Context, args []string) int {
	var opts options
	fs := a.flags(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		cli.PrintVersion(a.stdout, "zapc", opts.json)
		return 0
	}

	cfg, err := cli.LoadConfig(opts.config)
	if err != nil {
		diagnostic.Render(a.stderr, err, false)
		return 1
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	opts.merge(cfg, set)

	files := fs.Args()
	if err := cli.ValidateArgs(files, 1, usageLine); err != nil {
		diagnostic.Render(a.stderr, err, false)
		return 2
	}
	if err := opts.validate(files); err != nil {
		diagnostic.Render(a.stderr, err, false)
		return 2
	}

	validator := NewSecurityValidator()
	for _, file := range files {
		if err := validator.ValidateInputFile(file); err != nil {
			diagnostic.Render(a.stderr, err, false)
			return 1
		}
	}

	logger := cli.NewLogger(opts.verbose, opts.debug)
	logger.Out = a.stderr
	logger.Debug("config %s: %+v", opts.config, *cfg)

	b := &builder{
		opts:      &opts,
		cache:     compiler.NewCache(4 * len(files)),
		validator: validator,
		logger:    logger,
		stdout:    a.stdout,
		stderr:    a.stderr,
		color:     a.colorEnabled(opts.color),
	}

	if opts.run {
		runner, err := a.newRunner(opts.runtime, opts.runtimeArgs)
		if err != nil {
			diagnostic.Render(a.stderr, err, false)
			return 1
		}
		b.runner = runner
	}

	code := b.buildAndRun(ctx, files)
	if !opts.watch {
		return code
	}

	if err := b.watch(ctx, files); err != nil {
		diagnostic.Render(a.stderr, err, false)
		return 1
	}
	return 0
}

func (a *app) colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := a.stderr.(*os.File)
	return ok && term.ColorEnabled(f)
}
