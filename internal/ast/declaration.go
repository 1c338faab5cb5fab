package ast

import (
	"github.com/jsinterop/reexport/internal/types"
)

// Declaration is a top-level import or export declaration of a module.
type Declaration interface {
	DeclarationSpan() types.Span
	// IsExport reports whether the declaration contributes to the module's
	// export surface.
	IsExport() bool
	declaration()
}

// DeclBase provides the Span field common to every Declaration type.
type DeclBase struct {
	Span types.Span
}

func (d *DeclBase) DeclarationSpan() types.Span { return d.Span }
func (*DeclBase) declaration()                  {}

// ImportAll is `import * as Alias from "Source"`.
type ImportAll struct {
	DeclBase
	Alias  Ident
	Source ModuleSpecifier
}

func (*ImportAll) IsExport() bool { return false }

// ImportNamed is `import { a, b as c } from "Source"`.
type ImportNamed struct {
	DeclBase
	Specifiers []ImportSpecifier
	Source     ModuleSpecifier
}

func (*ImportNamed) IsExport() bool { return false }

// ReExportNamed is `export { a, b as c } from "Source"`.
type ReExportNamed struct {
	DeclBase
	Specifiers []ExportSpecifier
	Source     ModuleSpecifier
}

func (*ReExportNamed) IsExport() bool { return true }

// ReExportAll is `export * from "Source"`.
type ReExportAll struct {
	DeclBase
	Source ModuleSpecifier
}

func (*ReExportAll) IsExport() bool { return true }

// ReExportNamespace is `export * as Exported from "Source"`.
type ReExportNamespace struct {
	DeclBase
	Exported Ident
	Source   ModuleSpecifier
}

func (*ReExportNamespace) IsExport() bool { return true }

// ExportLocal is `export { a, b as c }` over bindings already in scope.
type ExportLocal struct {
	DeclBase
	Specifiers []ExportSpecifier
}

func (*ExportLocal) IsExport() bool { return true }

// ExportAssign is the TypeScript `export = Local` form.
type ExportAssign struct {
	DeclBase
	Local Ident
}

func (*ExportAssign) IsExport() bool { return true }
