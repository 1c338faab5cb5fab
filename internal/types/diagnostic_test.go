package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		// Wildcard only
		{"*", "anything", true},
		{"*", "", true},

		// Trailing wildcard
		{"export-*", "export-assign-mixed", true},
		{"export-*", "export-", true},
		{"export-*", "duplicate-export", false},
		{"export-*", "export", false},

		// Leading wildcard
		{"*-export", "duplicate-export", true},
		{"*-EXPORT", "duplicate-export", false},

		// Exact match
		{"exact", "exact", true},
		{"exact", "other", false},

		// Malformed pattern never matches
		{"[", "[", false},

		// Edge cases
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			got := MatchGlob(tt.pattern, tt.s)
			if got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.s, got, tt.want)
			}
		})
	}
}

func TestShouldReport(t *testing.T) {
	tests := []struct {
		name string
		cfg  DiagnosticConfig
		code string
		sev  Severity
		want bool
	}{
		{"normal reports minor", DefaultConfig(), DiagDuplicateExport, SeverityMinor, true},
		{"normal hides info", DefaultConfig(), DiagEmptyReexport, SeverityInfo, false},
		{"strict reports info", StrictConfig(), DiagEmptyReexport, SeverityInfo, true},
		{"permissive ignores duplicates", PermissiveConfig(), DiagDuplicateExport, SeverityMinor, false},
		{"permissive reports errors", PermissiveConfig(), DiagReservedExportName, SeverityError, true},
		{"silent hides fatal", DiagnosticConfig{Level: StrictnessSilent}, DiagMalformedDeclaration, SeverityFatal, false},
		{
			"override promotes info",
			DiagnosticConfig{Level: StrictnessNormal, Overrides: map[string]Severity{DiagBackingRenamed: SeverityError}},
			DiagBackingRenamed, SeverityInfo, true,
		},
		{
			"failing override beats ignore",
			DiagnosticConfig{Level: StrictnessPermissive, FailAt: SeveritySevere, Ignore: []string{"duplicate-*"},
				Overrides: map[string]Severity{DiagDuplicateExport: SeveritySevere}},
			DiagDuplicateExport, SeverityMinor, true,
		},
		{
			"failing override beats silent",
			DiagnosticConfig{Level: StrictnessSilent, FailAt: SeveritySevere,
				Overrides: map[string]Severity{DiagDuplicateExport: SeveritySevere}},
			DiagDuplicateExport, SeverityMinor, true,
		},
		{
			"non-failing override still ignored",
			DiagnosticConfig{Level: StrictnessStrict, FailAt: SeveritySevere, Ignore: []string{"backing-*"},
				Overrides: map[string]Severity{DiagBackingRenamed: SeverityError}},
			DiagBackingRenamed, SeverityInfo, false,
		},
		{
			"ignore glob",
			DiagnosticConfig{Level: StrictnessStrict, Ignore: []string{"export-*"}},
			DiagExportAssignMixed, SeverityError, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ShouldReport(tt.code, tt.sev))
		})
	}
}

func TestShouldFail(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.ShouldFail(SeverityFatal))
	assert.True(t, cfg.ShouldFail(SeveritySevere))
	assert.False(t, cfg.ShouldFail(SeverityError))

	strict := StrictConfig()
	assert.True(t, strict.ShouldFail(SeverityError))
	assert.False(t, strict.ShouldFail(SeverityMinor))
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{Severity: SeverityMinor, Message: "dup"}, "[minor] dup"},
		{Diagnostic{Severity: SeverityError, Module: "./a.js", Message: "bad"}, "[error] ./a.js: bad"},
		{Diagnostic{Severity: SeverityInfo, Module: "./a.js", Line: 3, Message: "x"}, "[info] ./a.js:3: x"},
		{Diagnostic{Severity: SeverityWarning, Module: "./a.js", Line: 3, Column: 7, Message: "x"}, "[warning] ./a.js:3:7: x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}

func TestParseSeverity(t *testing.T) {
	sev, ok := ParseSeverity("Error")
	require.True(t, ok)
	assert.Equal(t, SeverityError, sev)

	_, ok = ParseSeverity("catastrophic")
	assert.False(t, ok)
}

func TestAllDiagnosticCodesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, info := range AllDiagnosticCodes() {
		require.False(t, seen[info.Code], "duplicate code %s", info.Code)
		seen[info.Code] = true
		require.NotEmpty(t, info.Phase)
	}
}
