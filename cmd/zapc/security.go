package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zap-lang/zap/internal/compiler"
)

// SecurityValidator checks the paths zapc reads and writes.
type SecurityValidator struct {
	allowedExtensions []string
	maxPathLength     int
	blockedPatterns   []string
}

// NewSecurityValidator creates a new security validator with safe defaults
func NewSecurityValidator() *SecurityValidator {
	return &SecurityValidator{
		allowedExtensions: compiler.SourceExtensions,
		maxPathLength:     4096,
		blockedPatterns: []string{
			"/etc/", "/proc/", "/sys/", "/dev/", "/bin/", "/sbin/", // Unix system directories
			"c:\\windows\\", "c:\\program files\\", // Windows system directories
			"\\windows\\", "\\program files\\",
		},
	}
}

// checkPath applies the length, traversal and system directory rules shared
// by inputs and outputs.
func (sv *SecurityValidator) checkPath(kind, name string) error {
	if len(name) > sv.maxPathLength {
		return fmt.Errorf("%s too long: %d characters (max: %d)", kind, len(name), sv.maxPathLength)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("null byte in %s", kind)
	}
	if strings.HasPrefix(name, "~") {
		return fmt.Errorf("blocked pattern in %s '~': %s", kind, name)
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("blocked pattern in %s '..': %s", kind, name)
		}
	}

	absPath, err := filepath.Abs(filepath.Clean(name))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", kind, err)
	}

	lowerName := strings.ToLower(name)
	lowerAbs := strings.ToLower(absPath)
	for _, pattern := range sv.blockedPatterns {
		if strings.Contains(lowerName, pattern) || strings.Contains(lowerAbs, pattern) {
			return fmt.Errorf("blocked pattern in %s '%s': %s", kind, pattern, name)
		}
	}
	return nil
}

// ValidateInputFile validates a source file path
func (sv *SecurityValidator) ValidateInputFile(filename string) error {
	if err := sv.checkPath("path", filename); err != nil {
		return err
	}

	if !compiler.IsSource(filename) {
		return fmt.Errorf("invalid file extension '%s', allowed: %v", filepath.Ext(filename), sv.allowedExtensions)
	}
	return nil
}

// ValidateOutputPath validates where emitted JavaScript is written. An empty
// path means stdout.
func (sv *SecurityValidator) ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return nil
	}
	return sv.checkPath("output path", outputPath)
}
