package types

// Diagnostic codes emitted by manifest decoding and lowering.
// Centralizing these prevents silent breakage from typos in string literals.

// Manifest diagnostic codes.
const (
	DiagUnknownDeclarationKind = "unknown-declaration-kind"
	DiagMalformedDeclaration   = "malformed-declaration"
	DiagMalformedSpecifier     = "malformed-specifier"
)

// Lowering diagnostic codes.
const (
	DiagDuplicateExport    = "duplicate-export"
	DiagReservedExportName = "reserved-export-name"
	DiagEmptyReexport      = "empty-reexport"
	DiagExportAssignMixed  = "export-assign-mixed"
	DiagBackingRenamed     = "backing-renamed"
)

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code     string
	Phase    string
	Severity Severity
}

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase,
// with their default severity.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Manifest
		{Code: DiagUnknownDeclarationKind, Phase: "manifest", Severity: SeverityError},
		{Code: DiagMalformedDeclaration, Phase: "manifest", Severity: SeverityError},
		{Code: DiagMalformedSpecifier, Phase: "manifest", Severity: SeverityError},
		// Lowering
		{Code: DiagDuplicateExport, Phase: "lowering", Severity: SeverityMinor},
		{Code: DiagReservedExportName, Phase: "lowering", Severity: SeverityError},
		{Code: DiagEmptyReexport, Phase: "lowering", Severity: SeverityInfo},
		{Code: DiagExportAssignMixed, Phase: "lowering", Severity: SeverityError},
		{Code: DiagBackingRenamed, Phase: "lowering", Severity: SeverityInfo},
	}
}
