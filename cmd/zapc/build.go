package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zap-lang/zap/internal/ast"
	"github.com/zap-lang/zap/internal/cli"
	"github.com/zap-lang/zap/internal/compiler"
	"github.com/zap-lang/zap/internal/diagnostic"
	"github.com/zap-lang/zap/internal/watch"
)

// builder compiles, writes and runs a set of input files.
type builder struct {
	opts      *options
	cache     *compiler.Cache
	validator *SecurityValidator
	runner    Runner
	logger    *cli.Logger
	stdout    io.Writer
	stderr    io.Writer
	color     bool
}

// buildAndRun compiles files and, with -run, executes them in order. It
// returns the process exit code.
func (b *builder) buildAndRun(ctx context.Context, files []string) int {
	if err := b.buildAll(ctx, files); err != nil {
		diagnostic.Render(b.stderr, err, b.color)
		return 1
	}
	if b.runner == nil {
		return 0
	}

	for _, file := range files {
		script := b.outputPath(file)
		b.logger.Info("running %s", script)
		if err := b.runner.Run(ctx, script, b.stdout, b.stderr); err != nil {
			b.logger.Debug("run %s: %v", script, err)
			return exitCode(err)
		}
	}
	return 0
}

// buildAll compiles files concurrently. Output meant for stdout is written
// in input order once every file has been processed. The first failure
// cancels the files not yet started.
func (b *builder) buildAll(ctx context.Context, files []string) error {
	outputs := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := b.build(file)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	err := g.Wait()

	for _, out := range outputs {
		io.WriteString(b.stdout, out)
	}
	return err
}

// build processes one file and returns what it prints to stdout.
func (b *builder) build(file string) (string, error) {
	switch {
	case b.opts.tokens:
		source, err := compiler.ReadSource(file)
		if err != nil {
			return "", err
		}
		toks, err := compiler.Tokens(file, source)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.Debug())
			sb.WriteByte('\n')
		}
		return sb.String(), nil

	case b.opts.ast:
		source, err := compiler.ReadSource(file)
		if err != nil {
			return "", err
		}
		prog, err := compiler.Parse(file, source)
		if err != nil {
			return "", err
		}
		return ast.Print(prog), nil
	}

	res, hit, err := b.cache.CompileFile(file)
	if err != nil {
		return "", err
	}
	if hit {
		b.logger.Debug("%s unchanged, reusing output", file)
	}

	if b.opts.stdout {
		return res.Output, nil
	}

	path := b.outputPath(file)
	if err := b.validator.ValidateOutputPath(path); err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(res.Output), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	b.logger.Info("compiled %s -> %s", file, path)
	return "", nil
}

func (b *builder) outputPath(file string) string {
	if b.opts.output != "" {
		return b.opts.output
	}
	return compiler.OutputPath(file, b.opts.outDir)
}

// watch rebuilds changed files until ctx is done. Compile errors are
// reported and the loop keeps going.
func (b *builder) watch(ctx context.Context, files []string) error {
	w := watch.New(watch.DefaultPollInterval)
	defer w.Close()

	loop := &watch.Loop{
		Watcher: w,
		OnError: func(err error) { b.logger.Warn("watch: %v", err) },
	}

	b.logger.Info("watching %d file(s)", len(files))
	return loop.Run(ctx, files, func(changed []string) {
		b.logger.Info("change detected: %s", strings.Join(changed, ", "))
		b.buildAndRun(ctx, changed)
		stats := b.cache.Stats()
		b.logger.Debug("cache: %d hits, %d misses, %d entries", stats.Hits, stats.Misses, stats.Entries)
	})
}
