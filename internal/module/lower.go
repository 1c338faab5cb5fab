package module

import (
	"fmt"
	"log/slog"

	"github.com/jsinterop/reexport/internal/ast"
	"github.com/jsinterop/reexport/internal/types"
)

// Config controls lowering.
type Config struct {
	// NamespaceAccessors makes a named re-export read through an earlier
	// `import * as` of the same source instead of synthesizing a named import.
	NamespaceAccessors bool

	// Diagnostics filters and re-grades lowering diagnostics.
	Diagnostics types.DiagnosticConfig
}

// DefaultConfig returns the lowering configuration matching the reference
// output shape.
func DefaultConfig() Config {
	return Config{Diagnostics: types.DefaultConfig()}
}

// LoweringContext tracks state during the lowering process.
type LoweringContext struct {
	// Diagnostics collected during lowering.
	Diagnostics []types.Diagnostic
	types.Logger

	config Config
	source *ast.Module
}

// newLoweringContext creates a new lowering context with an optional logger.
// If logger is nil, logging is disabled (zero overhead).
func newLoweringContext(source *ast.Module, logger *slog.Logger, cfg Config) *LoweringContext {
	return &LoweringContext{
		Logger: types.Logger{L: logger},
		config: cfg,
		source: source,
	}
}

// AddDiagnostic records a diagnostic at span if the configuration reports
// its code. The stored severity has overrides applied.
func (ctx *LoweringContext) AddDiagnostic(sev types.Severity, code string, span types.Span, msg string) {
	cfg := ctx.config.Diagnostics
	if !cfg.ShouldReport(code, sev) {
		return
	}
	d := types.Diagnostic{
		Severity: cfg.Effective(code, sev),
		Code:     code,
		Message:  msg,
		Module:   ctx.source.Name,
	}
	if !span.IsSynthetic() {
		d.Line, d.Column = ctx.source.LineCol(span.Start)
	}
	ctx.Diagnostics = append(ctx.Diagnostics, d)
}

// exportTable is the module's export surface in first-declaration order.
// A redeclared name replaces the earlier binding in place.
type exportTable struct {
	bindings []ExportBinding
	index    map[string]int
}

func newExportTable() *exportTable {
	return &exportTable{index: make(map[string]int)}
}

// set registers b and reports whether it replaced an earlier binding.
func (t *exportTable) set(b ExportBinding) (replaced bool) {
	if i, ok := t.index[b.Exported]; ok {
		t.bindings[i] = b
		return true
	}
	t.index[b.Exported] = len(t.bindings)
	t.bindings = append(t.bindings, b)
	return false
}

// importKey identifies one `name as local` binding from a source module.
type importKey struct {
	source string
	name   string
	local  string
}

// lowerer holds per-module state for one Lower call.
type lowerer struct {
	ctx   *LoweringContext
	names *namer
	table *exportTable

	// userImports are the named-import bindings the module declares itself.
	userImports map[importKey]bool
	// claimed are user locals already serving as some export's backing.
	claimed map[string]bool
	// namespaces maps a source to the first `import * as` alias for it.
	namespaces map[string]string
	// accessorsSuppressed is set when the module uses `export =`.
	accessorsSuppressed bool

	imports []Statement
	loops   []Statement
	assign  *ExportAssignment
	aliases []Alias
}

// Lower transforms a module's declaration list into lowered statements.
//
// This is the main entry point for lowering. It:
//  1. Reserves every local the module already binds
//  2. Lowers declarations in order, collecting imports, the export table,
//     and copy-loops
//  3. Assembles marker, imports, accessors, copy-loops, export assignment
//
// Named accessors are always emitted before any copy-loop so a wildcard copy
// can never clobber an explicitly exported name.
// If logger is nil, logging is disabled (zero overhead).
func Lower(source *ast.Module, logger *slog.Logger, cfg Config) *Module {
	ctx := newLoweringContext(source, logger, cfg)
	out := NewModule(source.Name)

	ctx.Log(slog.LevelDebug, "lowering module",
		slog.String("module", source.Name),
		slog.Int("declarations", len(source.Declarations)))

	for _, d := range source.Diagnostics {
		ctx.AddDiagnostic(d.Severity, d.Code, d.Span, d.Message)
	}

	l := &lowerer{
		ctx:         ctx,
		names:       newNamer(),
		table:       newExportTable(),
		userImports: make(map[importKey]bool),
		claimed:     make(map[string]bool),
		namespaces:  make(map[string]string),
	}
	l.reserveUserBindings(source.Declarations)

	var lowered, assign ast.Declaration
	for _, decl := range source.Declarations {
		if _, ok := decl.(*ast.ExportAssign); ok {
			assign = decl
		} else if decl.IsExport() && lowered == nil {
			lowered = decl
		}
	}
	if assign != nil {
		l.accessorsSuppressed = true
		if lowered != nil {
			ctx.AddDiagnostic(types.SeverityError, types.DiagExportAssignMixed, lowered.DeclarationSpan(),
				"module uses `export =` together with ES exports; named exports are dropped")
		}
	}

	for _, decl := range source.Declarations {
		l.lowerDeclaration(decl)
	}

	// Empty re-exports and rejected names leave nothing to mark.
	if !l.accessorsSuppressed && (len(l.table.bindings) > 0 || len(l.loops) > 0) {
		out.Statements = append(out.Statements, &InteropMarker{})
	}
	out.Statements = append(out.Statements, l.imports...)
	if !l.accessorsSuppressed {
		for _, b := range l.table.bindings {
			out.Statements = append(out.Statements, &DefineAccessor{
				Binding:      b,
				Enumerable:   true,
				Configurable: true,
			})
		}
		out.Exports = l.table.bindings
	}
	out.Statements = append(out.Statements, l.loops...)
	if l.assign != nil {
		out.Statements = append(out.Statements, l.assign)
	}
	out.Aliases = l.aliases
	out.Diagnostics = ctx.Diagnostics

	ctx.Log(slog.LevelDebug, "lowering complete",
		slog.String("module", out.Name),
		slog.Int("statements", len(out.Statements)),
		slog.Int("exports", len(out.Exports)),
		slog.Int("copyLoops", len(l.loops)))

	return out
}

// reserveUserBindings marks every local the module declares so synthesized
// names never collide with them, whatever the declaration order.
func (l *lowerer) reserveUserBindings(decls []ast.Declaration) {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.ImportAll:
			l.names.reserve(d.Alias.Name)
		case *ast.ImportNamed:
			for _, spec := range d.Specifiers {
				l.names.reserve(spec.Local.Name)
			}
		case *ast.ExportLocal:
			for _, spec := range d.Specifiers {
				l.names.reserve(spec.Name.Name)
			}
		case *ast.ExportAssign:
			l.names.reserve(d.Local.Name)
		}
	}
}

// lowerDeclaration lowers a single declaration into the lowerer's buffers.
func (l *lowerer) lowerDeclaration(decl ast.Declaration) {
	if l.ctx.TraceEnabled() {
		l.ctx.Trace("lowering declaration",
			slog.String("module", l.ctx.source.Name),
			slog.String("kind", fmt.Sprintf("%T", decl)))
	}

	switch d := decl.(type) {
	case *ast.ImportAll:
		l.lowerImportAll(d)
	case *ast.ImportNamed:
		l.lowerImportNamed(d)
	case *ast.ReExportNamed:
		l.lowerReExportNamed(d)
	case *ast.ReExportAll:
		l.lowerReExportAll(d)
	case *ast.ReExportNamespace:
		l.lowerReExportNamespace(d)
	case *ast.ExportLocal:
		l.lowerExportLocal(d)
	case *ast.ExportAssign:
		l.assign = &ExportAssignment{Local: d.Local.Name}
	default:
		l.ctx.Log(slog.LevelWarn, "unknown declaration type",
			slog.String("type", fmt.Sprintf("%T", decl)))
		l.ctx.AddDiagnostic(types.SeverityError, types.DiagUnknownDeclarationKind, decl.DeclarationSpan(),
			fmt.Sprintf("unsupported declaration %T", decl))
	}
}

func (l *lowerer) lowerImportAll(d *ast.ImportAll) {
	src := d.Source.Value
	l.imports = append(l.imports, &NamespaceImport{Alias: d.Alias.Name, Source: src})
	l.aliases = append(l.aliases, Alias{Name: d.Alias.Name, Source: src})
	if _, ok := l.namespaces[src]; !ok {
		l.namespaces[src] = d.Alias.Name
	}
}

func (l *lowerer) lowerImportNamed(d *ast.ImportNamed) {
	src := d.Source.Value
	stmt := &NamedImport{Source: src}
	for _, spec := range d.Specifiers {
		stmt.Specifiers = append(stmt.Specifiers, ImportSpecifier{Name: spec.Name.Name, Local: spec.Local.Name})
		l.userImports[importKey{source: src, name: spec.Name.Name, local: spec.Local.Name}] = true
	}
	l.imports = append(l.imports, stmt)
}

func (l *lowerer) lowerReExportNamed(d *ast.ReExportNamed) {
	src := d.Source.Value

	if len(d.Specifiers) == 0 {
		l.ctx.AddDiagnostic(types.SeverityInfo, types.DiagEmptyReexport, d.Span,
			fmt.Sprintf("empty re-export from %q kept as a side-effect import", src))
		l.imports = append(l.imports, &NamedImport{Source: src, Synthetic: true})
		return
	}
	if l.accessorsSuppressed {
		l.imports = append(l.imports, &NamedImport{Source: src, Synthetic: true})
		return
	}

	var specs []ImportSpecifier
	for _, spec := range d.Specifiers {
		exported := spec.Exported.Name
		if !l.checkExportName(exported, spec.Exported.Span) {
			continue
		}

		if alias, ok := l.namespaces[src]; ok && l.ctx.config.NamespaceAccessors {
			l.register(Aliased(exported, alias, spec.Name.Name), spec.Exported.Span)
			continue
		}

		backing, synthesize := l.backingFor(exported, spec.Name.Name, src, spec.Exported.Span)
		if synthesize {
			specs = append(specs, ImportSpecifier{Name: spec.Name.Name, Local: backing})
		}
		l.register(Accessor(exported, backing), spec.Exported.Span)
	}

	if len(specs) > 0 {
		l.imports = append(l.imports, &NamedImport{Specifiers: specs, Source: src, Synthetic: true})
	}
}

func (l *lowerer) lowerReExportAll(d *ast.ReExportAll) {
	src := d.Source.Value
	alias := l.names.fresh("mod")

	if l.ctx.TraceEnabled() {
		l.ctx.Trace("synthesized namespace alias",
			slog.String("alias", alias),
			slog.String("source", src))
	}

	l.imports = append(l.imports, &NamespaceImport{Alias: alias, Source: src, Synthetic: true})
	l.aliases = append(l.aliases, Alias{Name: alias, Source: src, Synthetic: true})
	l.loops = append(l.loops, &CopyAll{
		Alias:    alias,
		Source:   src,
		Reserved: append([]string(nil), ReservedNames...),
	})
}

func (l *lowerer) lowerReExportNamespace(d *ast.ReExportNamespace) {
	src := d.Source.Value
	exported := d.Exported.Name
	if l.accessorsSuppressed || !l.checkExportName(exported, d.Exported.Span) {
		l.imports = append(l.imports, &NamedImport{Source: src, Synthetic: true})
		return
	}

	alias := l.names.fresh(exported)
	l.imports = append(l.imports, &NamespaceImport{Alias: alias, Source: src, Synthetic: true})
	l.aliases = append(l.aliases, Alias{Name: alias, Source: src, Synthetic: true})
	l.register(Accessor(exported, alias), d.Exported.Span)
}

func (l *lowerer) lowerExportLocal(d *ast.ExportLocal) {
	if l.accessorsSuppressed {
		return
	}
	for _, spec := range d.Specifiers {
		if !l.checkExportName(spec.Exported.Name, spec.Exported.Span) {
			continue
		}
		l.register(Accessor(spec.Exported.Name, spec.Name.Name), spec.Exported.Span)
	}
}

// checkExportName rejects the interop marker key as an explicit export.
func (l *lowerer) checkExportName(exported string, span types.Span) bool {
	if exported == InteropMarkerName {
		l.ctx.AddDiagnostic(types.SeverityError, types.DiagReservedExportName, span,
			fmt.Sprintf("%q is reserved for the interop marker and cannot be exported", exported))
		return false
	}
	return true
}

// register adds a binding to the export table; the last declaration of a
// name wins.
func (l *lowerer) register(b ExportBinding, span types.Span) {
	if l.table.set(b) {
		l.ctx.AddDiagnostic(types.SeverityMinor, types.DiagDuplicateExport, span,
			fmt.Sprintf("export %q declared more than once; last declaration wins", b.Exported))
	}
	if l.ctx.TraceEnabled() {
		l.ctx.Trace("registered export",
			slog.String("exported", b.Exported),
			slog.String("strategy", b.Kind.String()))
	}
}

// backingFor picks the local that backs an exported name. It reuses a user
// import of the same binding when one already exists under the preferred
// name, and otherwise allocates a fresh local that a synthesized import
// will populate.
func (l *lowerer) backingFor(exported, name, src string, span types.Span) (local string, synthesize bool) {
	preferred := sanitizeIdent(exported)

	key := importKey{source: src, name: name, local: preferred}
	if l.userImports[key] && !l.claimed[preferred] {
		l.claimed[preferred] = true
		return preferred, false
	}

	local = l.names.fresh(preferred)
	if local != exported {
		l.ctx.AddDiagnostic(types.SeverityInfo, types.DiagBackingRenamed, span,
			fmt.Sprintf("export %q is backed by local %q", exported, local))
	}
	return local, true
}
