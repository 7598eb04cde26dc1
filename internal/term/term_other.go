//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package term

func isTerminal(fd uintptr) bool {
	return false
}
