// Package term answers whether output goes to an interactive terminal, to
// decide if diagnostics are colored.
package term

import (
	"os"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return isTerminal(fd)
}

// ColorEnabled reports whether colored output should be written to f. The
// NO_COLOR convention and TERM=dumb disable it.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return f != nil && IsTerminal(f.Fd())
}
