// Package ast provides the declaration model handed over by the parsing
// collaborator: one module's ordered import and export declarations.
package ast

import (
	"github.com/jsinterop/reexport/internal/types"
)

// Ident is an identifier with source location.
type Ident struct {
	Name string
	Span types.Span
}

// NewIdent creates a new identifier.
func NewIdent(name string, span types.Span) Ident {
	return Ident{Name: name, Span: span}
}

// ModuleSpecifier is the quoted module request in an import or export
// declaration, e.g. "./someModule".
type ModuleSpecifier struct {
	Value string
	Span  types.Span
}

// NewModuleSpecifier creates a new module specifier.
func NewModuleSpecifier(value string, span types.Span) ModuleSpecifier {
	return ModuleSpecifier{Value: value, Span: span}
}

// ImportSpecifier is one entry of an import clause: `name as local`.
type ImportSpecifier struct {
	Name  Ident // name exported by the source module
	Local Ident // local binding
}

// ExportSpecifier is one entry of an export clause: `name as exported`.
// For re-exports Name refers to the source module's export; for local
// exports it refers to a binding in scope.
type ExportSpecifier struct {
	Name     Ident
	Exported Ident
}
