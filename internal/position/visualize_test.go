package position

import (
	"testing"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		offset   int
		message  string
		expected string
	}{
		{
			name:     "First column",
			source:   "let z = 1;",
			offset:   0,
			message:  "unexpected 'let' at top level",
			expected: "1 | let z = 1;\n    ^ unexpected 'let' at top level",
		},
		{
			name:     "Second line",
			source:   "const a = 1;\nconst b = ;",
			offset:   23,
			message:  "expected expression",
			expected: "2 | const b = ;\n              ^ expected expression",
		},
		{
			name:     "Tab preserved",
			source:   "\tx",
			offset:   1,
			message:  "",
			expected: "1 | \tx\n    \t^",
		},
		{
			name:     "Multibyte identifier",
			source:   "const \u00e9t\u00e9 = ;",
			offset:   14,
			message:  "expected expression",
			expected: "1 | const \u00e9t\u00e9 = ;\n" + "                ^ expected expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := NewSourceFile("test.zap", tt.source)
			got := Highlight(file.At(tt.offset), tt.message)
			if got != tt.expected {
				t.Errorf("Highlight() =\n%s\nexpected\n%s", got, tt.expected)
			}
		})
	}
}

func TestHighlightInvalidPosition(t *testing.T) {
	if got := Highlight(Position{}, "boom"); got != "boom" {
		t.Errorf("Highlight() = %q, expected bare message", got)
	}
}
