package codegen

import "strings"

// reserved holds JavaScript words that cannot name a binding. Zap
// identifiers cannot contain '$', so prefixing one never collides.
var reserved = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "eval": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true,
	"if": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "new": true,
	"null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true,
	"switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
}

// mangle returns a JavaScript binding name for a Zap identifier.
func mangle(name string) string {
	if reserved[name] {
		return "$" + name
	}
	return name
}

// identifier lowers an identifier read as a value; self is the receiver and
// true and false read as the host booleans.
func identifier(name string) string {
	switch name {
	case "self":
		return "this"
	case "true", "false":
		return name
	}
	return mangle(name)
}

var jsQuoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// quote renders s as a single-quoted JavaScript string literal.
func quote(s string) string {
	return "'" + jsQuoteReplacer.Replace(s) + "'"
}
