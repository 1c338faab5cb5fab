package module

import (
	"fmt"
	"strings"
)

// Statement is a lowered top-level statement.
type Statement interface {
	statement()
	// StatementKind returns the stable kind name used in manifests and logs.
	StatementKind() string
}

// InteropMarker marks the export object as produced from an ES module.
type InteropMarker struct{}

// NamespaceImport is `import * as Alias from "Source"`.
type NamespaceImport struct {
	Alias     string
	Source    string
	Synthetic bool
}

// ImportSpecifier is `Name as Local` inside a NamedImport.
type ImportSpecifier struct {
	Name  string
	Local string
}

// NamedImport is `import { Name as Local, ... } from "Source"`. With no
// specifiers it is a side-effect import.
type NamedImport struct {
	Specifiers []ImportSpecifier
	Source     string
	Synthetic  bool
}

// DefineAccessor installs a get/set pair for one exported name. The
// descriptor is always enumerable and configurable.
type DefineAccessor struct {
	Binding      ExportBinding
	Enumerable   bool
	Configurable bool
}

// CopyAll copies every own enumerable key of the Alias namespace onto the
// export object, skipping Reserved keys, keys the export object already
// holds with a strictly equal value, and keys held by the module's own
// accessors.
type CopyAll struct {
	Alias    string
	Source   string
	Reserved []string
}

// ExportAssignment keeps a TypeScript `export = Local`.
type ExportAssignment struct {
	Local string
}

func (*InteropMarker) statement()    {}
func (*NamespaceImport) statement()  {}
func (*NamedImport) statement()      {}
func (*DefineAccessor) statement()   {}
func (*CopyAll) statement()          {}
func (*ExportAssignment) statement() {}

func (*InteropMarker) StatementKind() string    { return "interop-marker" }
func (*NamespaceImport) StatementKind() string  { return "namespace-import" }
func (*NamedImport) StatementKind() string      { return "named-import" }
func (*DefineAccessor) StatementKind() string   { return "define-accessor" }
func (*CopyAll) StatementKind() string          { return "copy-all" }
func (*ExportAssignment) StatementKind() string { return "export-assignment" }

// Describe returns a one-line summary of a statement for logs and CLI
// listings. It is not source text.
func Describe(stmt Statement) string {
	switch s := stmt.(type) {
	case *InteropMarker:
		return "interop-marker"
	case *NamespaceImport:
		return fmt.Sprintf("namespace-import %s <- %q", s.Alias, s.Source)
	case *NamedImport:
		parts := make([]string, len(s.Specifiers))
		for i, spec := range s.Specifiers {
			parts[i] = spec.Name + " as " + spec.Local
		}
		return fmt.Sprintf("named-import {%s} <- %q", strings.Join(parts, ", "), s.Source)
	case *DefineAccessor:
		b := s.Binding
		if b.Kind == StrategyAliased {
			return fmt.Sprintf("define-accessor %s -> %s[%q]", b.Exported, b.Alias, b.Name)
		}
		return fmt.Sprintf("define-accessor %s -> %s", b.Exported, b.Backing)
	case *CopyAll:
		return fmt.Sprintf("copy-all %s skip %s", s.Alias, strings.Join(s.Reserved, ","))
	case *ExportAssignment:
		return "export-assignment " + s.Local
	default:
		return fmt.Sprintf("%T", stmt)
	}
}
