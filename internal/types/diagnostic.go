package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Severity levels for diagnostics. Lower values are more severe.
type Severity int

const (
	SeverityFatal   Severity = 0 // cannot lower the module
	SeveritySevere  Severity = 1 // output changed to continue, must correct
	SeverityError   Severity = 2 // able to continue, should correct
	SeverityMinor   Severity = 3 // minor issue, should correct
	SeverityStyle   Severity = 4 // style recommendation
	SeverityWarning Severity = 5 // might be correct under some circumstances
	SeverityInfo    Severity = 6 // informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// ParseSeverity maps a severity name back to its value.
func ParseSeverity(name string) (Severity, bool) {
	for s := SeverityFatal; s <= SeverityInfo; s++ {
		if s.String() == strings.ToLower(name) {
			return s, true
		}
	}
	return 0, false
}

// StrictnessLevel defines preset strictness configurations.
type StrictnessLevel int

const (
	StrictnessStrict     StrictnessLevel = 0 // report everything
	StrictnessNormal     StrictnessLevel = 3 // default, warn on issues
	StrictnessPermissive StrictnessLevel = 5 // accept most real-world modules
	StrictnessSilent     StrictnessLevel = 6 // accept everything, no output
)

func (l StrictnessLevel) String() string {
	switch l {
	case StrictnessStrict:
		return "strict"
	case StrictnessNormal:
		return "normal"
	case StrictnessPermissive:
		return "permissive"
	case StrictnessSilent:
		return "silent"
	default:
		return fmt.Sprintf("StrictnessLevel(%d)", l)
	}
}

// Diagnostic represents an issue found while decoding or lowering a module.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g., "duplicate-export", "reserved-export-name"
	Message  string
	Module   string // module name
	Line     int    // 1-based line number, 0 if not applicable
	Column   int    // 1-based column, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] module:line:col: message" with location parts omitted when zero.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteByte(']')
	b.WriteByte(' ')
	if d.Module != "" {
		b.WriteString(d.Module)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&b, ":%d", d.Column)
			}
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig struct {
	// Level sets the base strictness level.
	// Diagnostics with severity > Level are suppressed.
	Level StrictnessLevel

	// FailAt sets the severity threshold for failure.
	// If any reported diagnostic has severity <= FailAt, lowering fails.
	FailAt Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "export-*").
	Ignore []string
}

// DefaultConfig returns the default diagnostic configuration (Normal strictness).
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessNormal,
		FailAt: SeveritySevere,
	}
}

// StrictConfig returns a configuration that reports everything and fails on
// any error-level diagnostic.
func StrictConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessStrict,
		FailAt: SeverityError,
	}
}

// PermissiveConfig returns a permissive configuration. Duplicate export
// names are accepted silently, matching last-write-wins.
func PermissiveConfig() DiagnosticConfig {
	return DiagnosticConfig{
		Level:  StrictnessPermissive,
		FailAt: SeverityFatal,
		Ignore: []string{
			DiagDuplicateExport,
			DiagEmptyReexport,
		},
	}
}

// Effective returns the severity a diagnostic with the given code is
// reported at after applying overrides.
func (c DiagnosticConfig) Effective(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
//
// Lower severity numbers are more severe (Fatal=0, Info=6). A code whose
// override reaches FailAt is always reported, whatever Level and Ignore say.
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	if override, ok := c.Overrides[code]; ok && c.ShouldFail(override) {
		return true
	}

	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, code)
	}) {
		return false
	}

	sev = c.Effective(code, sev)

	if c.Level >= StrictnessSilent {
		return false
	}

	if c.Level == StrictnessStrict {
		return true
	}

	return int(sev) <= int(c.Level)
}

// ShouldFail returns true if a diagnostic with the given severity should
// cause lowering to fail.
func (c DiagnosticConfig) ShouldFail(sev Severity) bool {
	return sev <= c.FailAt
}

// MatchGlob matches a diagnostic code against a glob pattern.
// Malformed patterns never match.
func MatchGlob(pattern, s string) bool {
	ok, err := doublestar.Match(pattern, s)
	return err == nil && ok
}
