// Command zap-repl is an interactive prompt showing how Zap input is lexed,
// parsed and lowered to JavaScript.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/zap-lang/zap/internal/cli"
	"github.com/zap-lang/zap/internal/term"
)

const (
	promptMain = "zap> "
	promptCont = "...  "
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zap_history"
	}
	return filepath.Join(home, ".zap_history")
}

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		modeFlag    = flag.String("mode", string(ModeJS), "output mode: js, ast or tokens")
		evalStr     = flag.String("eval", "", "show the output for `input` and exit")
		historyFile = flag.String("history", defaultHistoryPath(), "history file path")
		maxHistory  = flag.Int("max-history", 1000, "maximum history entries")
	)
	flag.Parse()

	if *showVersion {
		cli.PrintVersion(os.Stdout, "zap-repl", *jsonOutput)
		return
	}

	mode, err := parseMode(*modeFlag)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	repl := NewREPL(mode, os.Stdout, os.Stderr)
	repl.Color = term.ColorEnabled(os.Stderr)
	repl.MaxHistory = *maxHistory

	if *evalStr != "" {
		repl.Eval(*evalStr)
		return
	}

	os.Exit(runInteractive(repl, *historyFile))
}

func runInteractive(repl *REPL, historyPath string) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	saveHistory := func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	defer saveHistory()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		saveHistory()
		ln.Close()
		os.Exit(130)
	}()

	if term.IsTerminal(os.Stdin.Fd()) {
		fmt.Printf("Zap REPL v%s (mode %s)\n", cli.Version, repl.Mode)
		fmt.Println("Type :help for help, :quit to exit")
	}

	for {
		input, ok, err := repl.Read(ln, promptMain, promptCont)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !ok {
			fmt.Println()
			return 0
		}

		if input != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
		if repl.Eval(input) {
			return 0
		}
	}
}
