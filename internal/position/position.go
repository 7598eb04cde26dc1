// Package position provides source code position tracking for the Zap
// compiler. A Position stores only a byte offset into its source file;
// line and column are computed on demand when a diagnostic is reported.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// SourceFile represents a source file with its content.
type SourceFile struct {
	Filename string // File path
	Content  string // Source code content, line endings normalized to "\n"
}

// NewSourceFile creates a new source file from content.
// Windows line endings are normalized so that offsets and columns agree.
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Content:  strings.ReplaceAll(content, "\r\n", "\n"),
	}
}

// Len returns the length of the content in bytes.
func (sf *SourceFile) Len() int {
	return len(sf.Content)
}

// Line returns the specified line (1-based) or empty string if invalid.
func (sf *SourceFile) Line(lineNum int) string {
	if lineNum < 1 {
		return ""
	}

	rest := sf.Content
	for i := 1; i < lineNum; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return ""
		}
		rest = rest[idx+1:]
	}

	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// At returns the position of the given byte offset in this file.
func (sf *SourceFile) At(offset int) Position {
	return Position{File: sf, Offset: offset}
}

// Position represents a single point in source code.
// It is an immutable value; the zero value is an invalid position.
type Position struct {
	File   *SourceFile // Source the offset points into
	Offset int         // 0-based byte offset in source
}

// IsValid returns true if the position points into a source file.
func (p Position) IsValid() bool {
	return p.File != nil && p.Offset >= 0 && p.Offset <= len(p.File.Content)
}

// Filename returns the name of the file the position points into.
func (p Position) Filename() string {
	if p.File == nil {
		return ""
	}
	return p.File.Filename
}

// LineColumn computes the 1-based line and column of the position by
// scanning the source up to the offset. Columns count runes, not bytes.
func (p Position) LineColumn() (line, column int) {
	line, column = 1, 1
	if p.File == nil {
		return line, column
	}

	end := min(p.Offset, len(p.File.Content))
	for i := 0; i < end; i++ {
		if c := p.File.Content[i]; c == '\n' {
			line++
			column = 1
		} else if utf8.RuneStart(c) {
			column++
		}
	}

	return line, column
}

// SourceLine returns the full source line the position lies on.
func (p Position) SourceLine() string {
	if p.File == nil {
		return ""
	}
	line, _ := p.LineColumn()
	return p.File.Line(line)
}

// String returns a string representation of the position.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	line, column := p.LineColumn()
	if name := p.Filename(); name != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(name), line, column)
	}
	return fmt.Sprintf("%d:%d", line, column)
}

