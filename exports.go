package reexport

import (
	"log/slog"

	"github.com/jsinterop/reexport/internal/ast"
	"github.com/jsinterop/reexport/internal/interop"
	"github.com/jsinterop/reexport/internal/manifest"
	"github.com/jsinterop/reexport/internal/module"
	"github.com/jsinterop/reexport/internal/types"
)

// Type aliases for the public API.

// SourceModule is one module's ordered declaration list.
type SourceModule = ast.Module

// Declaration is one import or export declaration.
type Declaration = ast.Declaration

// Module is a lowered module.
type Module = module.Module

// Statement is a lowered top-level statement.
type Statement = module.Statement

// ExportBinding is one name on a lowered module's export surface.
type ExportBinding = module.ExportBinding

// Diagnostic represents a manifest or lowering issue.
type Diagnostic = types.Diagnostic

// DiagnosticConfig controls strictness and diagnostic filtering.
type DiagnosticConfig = types.DiagnosticConfig

// Severity for diagnostics.
type Severity = types.Severity

// Format selects the lowered manifest encoding.
type Format = manifest.Format

// Lowered manifest formats.
const (
	FormatYAML = manifest.FormatYAML
	FormatJSON = manifest.FormatJSON
)

// Object is a runtime export object.
type Object = interop.Object

// Realm instantiates lowered modules against host namespaces.
type Realm = interop.Realm

// NewRealm returns an empty realm. Host namespaces are added with
// Realm.Provide and lowered modules with Realm.Register.
func NewRealm(logger *slog.Logger) *Realm {
	return interop.NewRealm(logger)
}

// FromMap returns an export object holding m's entries as enumerable data
// properties, in sorted key order.
func FromMap(m map[string]any) *Object {
	return interop.FromMap(m)
}

// Describe returns a one-line summary of a lowered statement.
func Describe(stmt Statement) string {
	return module.Describe(stmt)
}

// DefaultConfig returns the default diagnostic configuration.
func DefaultConfig() DiagnosticConfig { return types.DefaultConfig() }

// StrictConfig returns a diagnostic configuration that reports everything
// and fails on errors.
func StrictConfig() DiagnosticConfig { return types.StrictConfig() }

// PermissiveConfig returns a diagnostic configuration that only fails on
// fatal problems.
func PermissiveConfig() DiagnosticConfig { return types.PermissiveConfig() }
