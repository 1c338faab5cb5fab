// Package module lowers a module's declaration list into statements for a
// non-native (CommonJS-style) export protocol.
//
// Lowering turns every explicitly named export into a live accessor on the
// export object and every wildcard re-export into a runtime copy-loop:
//
//   - One interop marker, first, when anything is exported
//   - Imports in declaration order, including synthesized ones
//   - One accessor per exported name, backed by a distinct local
//   - One copy-loop per `export *`, after every accessor
//
// Lowering only decides the shape of the output. What a copy-loop copies is
// decided at module initialization by whatever executes the statements.
package module

import (
	"iter"
	"slices"

	"github.com/jsinterop/reexport/internal/types"
)

// InteropMarkerName is the key placed on an export object to mark it as
// lowered from an ES module.
const InteropMarkerName = "__esModule"

// DefaultExportName is the reserved default export key.
const DefaultExportName = "default"

// ReservedNames are the keys a copy-loop never copies.
var ReservedNames = []string{DefaultExportName, InteropMarkerName}

// Module is a lowered module.
type Module struct {
	Name        string
	Statements  []Statement
	Exports     []ExportBinding
	Aliases     []Alias
	Diagnostics []types.Diagnostic
}

// NewModule returns a Module with the given name and no statements.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// HasErrors reports whether this module has any error-level diagnostics.
func (m *Module) HasErrors() bool {
	return slices.ContainsFunc(m.Diagnostics, func(d types.Diagnostic) bool {
		return d.Severity.AtLeast(types.SeverityError)
	})
}

// Export returns the binding for an exported name.
func (m *Module) Export(name string) (ExportBinding, bool) {
	for _, b := range m.Exports {
		if b.Exported == name {
			return b, true
		}
	}
	return ExportBinding{}, false
}

// ExportNames returns an iterator over exported names in emission order.
func (m *Module) ExportNames() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, b := range m.Exports {
			if !yield(b.Exported) {
				return
			}
		}
	}
}

// Dependencies returns the distinct module specifiers imported by the
// lowered statements, in first-use order.
func (m *Module) Dependencies() []string {
	var deps []string
	for _, stmt := range m.Statements {
		var src string
		switch s := stmt.(type) {
		case *NamespaceImport:
			src = s.Source
		case *NamedImport:
			src = s.Source
		default:
			continue
		}
		if !slices.Contains(deps, src) {
			deps = append(deps, src)
		}
	}
	return deps
}

// Alias is a local name bound to a foreign module's namespace object.
type Alias struct {
	Name      string
	Source    string
	Synthetic bool // introduced by lowering rather than an `import * as`
}

// StrategyKind distinguishes how an exported name reaches its value.
type StrategyKind int

const (
	// StrategyAccessor reads and writes a module-scoped backing variable.
	StrategyAccessor StrategyKind = iota
	// StrategyAliased reads and writes a property of a namespace alias.
	StrategyAliased
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyAccessor:
		return "accessor"
	case StrategyAliased:
		return "aliased"
	default:
		return "unknown"
	}
}

// ExportBinding is one name on the module's export surface.
type ExportBinding struct {
	Exported string
	Kind     StrategyKind

	// Backing is the local variable for StrategyAccessor.
	Backing string

	// Alias and Name locate the value for StrategyAliased.
	Alias string
	Name  string
}

// Accessor returns a binding backed by a local variable.
func Accessor(exported, backing string) ExportBinding {
	return ExportBinding{Exported: exported, Kind: StrategyAccessor, Backing: backing}
}

// Aliased returns a binding that forwards to alias[name].
func Aliased(exported, alias, name string) ExportBinding {
	return ExportBinding{Exported: exported, Kind: StrategyAliased, Alias: alias, Name: name}
}
