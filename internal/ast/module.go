package ast

import (
	"slices"

	"github.com/jsinterop/reexport/internal/types"
)

// Module is one module's ordered declaration list.
type Module struct {
	Name         string
	Declarations []Declaration
	Span         types.Span
	Diagnostics  []types.SpanDiagnostic

	// LineTable maps line numbers to byte offsets of line starts in the
	// original source. Entry i holds the offset where line i+1 begins.
	// Empty when the parsing collaborator did not supply it.
	LineTable []int
}

// NewModule creates a Module with no declarations.
func NewModule(name string, span types.Span) *Module {
	return &Module{
		Name: name,
		Span: span,
	}
}

// Add appends declarations in order.
func (m *Module) Add(decls ...Declaration) *Module {
	m.Declarations = append(m.Declarations, decls...)
	return m
}

// HasErrors reports whether any diagnostic has error severity or worse.
func (m *Module) HasErrors() bool {
	return slices.ContainsFunc(m.Diagnostics, func(d types.SpanDiagnostic) bool {
		return d.Severity.AtLeast(types.SeverityError)
	})
}

// LineCol converts a byte offset to a 1-based line and column using the
// module's line table. Returns (0, 0) when no table is present or the offset
// is out of range.
func (m *Module) LineCol(offset types.ByteOffset) (line, col int) {
	if len(m.LineTable) == 0 {
		return 0, 0
	}
	off := int(offset)
	// Entry i is the start of line i+1; find the last start <= off.
	i, found := slices.BinarySearch(m.LineTable, off)
	if !found {
		i--
	}
	if i < 0 {
		return 0, 0
	}
	return i + 1, off - m.LineTable[i] + 1
}
