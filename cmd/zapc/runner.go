package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

//go:generate mockgen -destination=mock_runner_test.go -package=main . Runner

// Runner executes an emitted program.
type Runner interface {
	Run(ctx context.Context, script string, stdout, stderr io.Writer) error
}

// allowedRuntimes maps the JavaScript runtimes zapc may start to the
// arguments placed before the script.
var allowedRuntimes = map[string][]string{
	"node": nil,
	"bun":  {"run"},
	"deno": {"run"},
}

// execRunner starts a JavaScript runtime as a child process with a minimal
// environment.
type execRunner struct {
	path      string
	args      []string
	validator *SecurityValidator
}

// newExecRunner validates runtime and args and resolves the runtime in PATH.
func newExecRunner(runtime string, args []string) (Runner, error) {
	name := filepath.Base(filepath.Clean(runtime))
	name = strings.TrimSuffix(name, filepath.Ext(name))

	prefix, ok := allowedRuntimes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("invalid runtime: %s is not one of node, bun, deno", runtime)
	}

	for i, arg := range args {
		if err := validateArgument(arg); err != nil {
			return nil, fmt.Errorf("invalid argument %d '%s': %w", i, arg, err)
		}
	}

	path, err := exec.LookPath(runtime)
	if err != nil {
		return nil, fmt.Errorf("runtime %s not found: %w", runtime, err)
	}

	return &execRunner{
		path:      path,
		args:      append(append([]string{}, prefix...), args...),
		validator: NewSecurityValidator(),
	}, nil
}

func (r *execRunner) Run(ctx context.Context, script string, stdout, stderr io.Writer) error {
	if err := r.validator.ValidateOutputPath(script); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, r.path, append(r.args, script)...)
	cmd.Env = secureEnvironment()
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// validateArgument rejects runtime arguments that look like shell syntax.
func validateArgument(arg string) error {
	if len(arg) > 4096 {
		return errors.New("argument too long")
	}
	if strings.Contains(arg, "\x00") {
		return errors.New("null byte in argument")
	}

	for _, pattern := range []string{";", "&", "|", "`", "$(", "${", ">", "<"} {
		if strings.Contains(arg, pattern) {
			return fmt.Errorf("potential command injection pattern: %s", pattern)
		}
	}
	return nil
}

func secureEnvironment() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.Getenv("HOME"),
		"USER=" + os.Getenv("USER"),
		"TEMP=" + os.Getenv("TEMP"),
		"TMP=" + os.Getenv("TMP"),
	}
	if nodePath := os.Getenv("NODE_PATH"); nodePath != "" {
		env = append(env, "NODE_PATH="+nodePath)
	}
	return env
}

// exitCode maps a runner failure to the exit status of zapc.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
