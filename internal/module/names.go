package module

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// scopeNames are bindings the CommonJS wrapper puts in scope. A synthesized
// local must never shadow them.
var scopeNames = []string{"exports", "module", "require", "__filename", "__dirname"}

// reservedWords cannot be used as binding identifiers.
var reservedWords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "arguments": true, "eval": true,
}

// namer hands out module-unique local names.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	n := &namer{used: make(map[string]bool)}
	for _, name := range scopeNames {
		n.reserve(name)
	}
	return n
}

// reserve marks a name as bound in the module.
func (n *namer) reserve(name string) {
	n.used[name] = true
}

func (n *namer) taken(name string) bool {
	return n.used[name]
}

// fresh returns base if it is free, otherwise base1, base2, ... and marks
// the result as used.
func (n *namer) fresh(base string) string {
	base = sanitizeIdent(base)
	name := base
	for i := 1; n.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}

// isIdentifier reports whether s can be used as a binding identifier.
func isIdentifier(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	for i, r := range s {
		if !isIdentPart(r) || (i == 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// sanitizeIdent maps an arbitrary export name (string-literal export names
// are legal) onto a binding identifier.
func sanitizeIdent(s string) string {
	if isIdentifier(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isIdentPart(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	first, _ := utf8.DecodeRuneInString(out)
	if out == "" || reservedWords[out] || unicode.IsDigit(first) {
		out = "_" + out
	}
	return out
}
