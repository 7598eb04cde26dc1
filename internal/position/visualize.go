// This file contains visualization helpers used when rendering diagnostics.

package position

import (
	"strconv"
	"strings"
)

// Highlight returns the source line of pos prefixed with its line number,
// followed by a caret line pointing at the column:
//
//	3 | let x = ;
//	            ^ message
//
// Tabs before the column are preserved in the caret line so the marker stays
// aligned in terminals.
func Highlight(pos Position, message string) string {
	if !pos.IsValid() {
		return message
	}

	line, column := pos.LineColumn()
	source := pos.File.Line(line)
	gutter := strconv.Itoa(line) + " | "

	var result strings.Builder

	result.WriteString(gutter)
	result.WriteString(source)
	result.WriteString("\n")
	result.WriteString(strings.Repeat(" ", len(gutter)))

	col := 1
	for _, r := range source {
		if col >= column {
			break
		}
		if r == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
		col++
	}
	for ; col < column; col++ {
		result.WriteByte(' ')
	}

	result.WriteByte('^')

	if message != "" {
		result.WriteByte(' ')
		result.WriteString(message)
	}

	return result.String()
}
