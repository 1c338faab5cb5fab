// Package manifest reads declaration manifests, the serialized form of the
// declaration list produced by the parsing collaborator, and writes lowered
// manifests for the code-generation collaborator.
//
// A declaration manifest looks like:
//
//	module: ./index.js
//	declarations:
//	  - import-all: {alias: mod, from: ./someModule}
//	  - export-all: {from: ./someModule}
//	  - export-named: {from: ./someModule, names: [foo, "bar as baz"]}
//
// JSON input is accepted as well.
package manifest

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsinterop/reexport/internal/ast"
	"github.com/jsinterop/reexport/internal/types"
)

// Declaration kind keys.
const (
	KindImportAll       = "import-all"
	KindImportNamed     = "import-named"
	KindExportNamed     = "export-named"
	KindExportAll       = "export-all"
	KindExportNamespace = "export-namespace"
	KindExportLocal     = "export-local"
	KindExportAssign    = "export-assign"
)

// Kinds lists every declaration kind key.
var Kinds = []string{
	KindImportAll,
	KindImportNamed,
	KindExportNamed,
	KindExportAll,
	KindExportNamespace,
	KindExportLocal,
	KindExportAssign,
}

type document struct {
	Module       string      `yaml:"module"`
	Lines        []int       `yaml:"lines"`
	Declarations []yaml.Node `yaml:"declarations"`
}

type declBody struct {
	Alias string      `yaml:"alias"`
	From  string      `yaml:"from"`
	As    string      `yaml:"as"`
	Local string      `yaml:"local"`
	Names []yaml.Node `yaml:"names"`
	Span  []uint32    `yaml:"span"`
}

// decoder converts one manifest into an ast.Module, collecting diagnostics
// for declarations it has to drop.
type decoder struct {
	mod *ast.Module
	types.Logger
}

// Decode parses a declaration manifest. name is used as the module name
// when the manifest does not set one. Malformed YAML is returned as an
// error; malformed declarations become diagnostics on the module.
func Decode(data []byte, name string, logger *slog.Logger) (*ast.Module, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", name, err)
	}
	if doc.Module != "" {
		name = doc.Module
	}

	d := &decoder{
		mod:    ast.NewModule(name, types.Synthetic),
		Logger: types.Logger{L: logger},
	}
	d.mod.LineTable = doc.Lines

	for i := range doc.Declarations {
		d.declaration(&doc.Declarations[i])
	}

	d.Log(slog.LevelDebug, "decoded manifest",
		slog.String("module", name),
		slog.Int("declarations", len(d.mod.Declarations)),
		slog.Int("diagnostics", len(d.mod.Diagnostics)))

	return d.mod, nil
}

func (d *decoder) diag(code string, node *yaml.Node, format string, args ...any) {
	d.mod.Diagnostics = append(d.mod.Diagnostics, types.SpanDiagnostic{
		Severity: types.SeverityError,
		Code:     code,
		Span:     types.Synthetic,
		Message:  fmt.Sprintf("manifest line %d: ", node.Line) + fmt.Sprintf(format, args...),
	})
}

func (d *decoder) declaration(node *yaml.Node) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		d.diag(types.DiagMalformedDeclaration, node, "declaration must be a mapping with a single kind key")
		return
	}
	kind := node.Content[0].Value
	bodyNode := node.Content[1]

	var body declBody
	if err := bodyNode.Decode(&body); err != nil {
		d.diag(types.DiagMalformedDeclaration, bodyNode, "%s: %v", kind, err)
		return
	}
	span := types.Synthetic
	if len(body.Span) == 2 {
		span = types.NewSpan(types.ByteOffset(body.Span[0]), types.ByteOffset(body.Span[1]))
	}
	base := ast.DeclBase{Span: span}

	if d.TraceEnabled() {
		d.Trace("decoding declaration", slog.String("kind", kind), slog.Int("line", node.Line))
	}

	needFrom := func() bool {
		if body.From == "" {
			d.diag(types.DiagMalformedDeclaration, bodyNode, "%s: missing \"from\"", kind)
			return false
		}
		return true
	}
	source := ast.NewModuleSpecifier(body.From, span)

	switch kind {
	case KindImportAll:
		if !needFrom() {
			return
		}
		if body.Alias == "" {
			d.diag(types.DiagMalformedDeclaration, bodyNode, "%s: missing \"alias\"", kind)
			return
		}
		d.add(&ast.ImportAll{DeclBase: base, Alias: ast.NewIdent(body.Alias, span), Source: source})

	case KindImportNamed:
		if !needFrom() {
			return
		}
		decl := &ast.ImportNamed{DeclBase: base, Source: source}
		for _, pair := range d.specifiers(body.Names) {
			decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{
				Name:  ast.NewIdent(pair[0], span),
				Local: ast.NewIdent(pair[1], span),
			})
		}
		d.add(decl)

	case KindExportNamed:
		if !needFrom() {
			return
		}
		decl := &ast.ReExportNamed{DeclBase: base, Source: source}
		decl.Specifiers = d.exportSpecifiers(body.Names, span)
		d.add(decl)

	case KindExportAll:
		if !needFrom() {
			return
		}
		d.add(&ast.ReExportAll{DeclBase: base, Source: source})

	case KindExportNamespace:
		if !needFrom() {
			return
		}
		if body.As == "" {
			d.diag(types.DiagMalformedDeclaration, bodyNode, "%s: missing \"as\"", kind)
			return
		}
		d.add(&ast.ReExportNamespace{DeclBase: base, Exported: ast.NewIdent(body.As, span), Source: source})

	case KindExportLocal:
		d.add(&ast.ExportLocal{DeclBase: base, Specifiers: d.exportSpecifiers(body.Names, span)})

	case KindExportAssign:
		if body.Local == "" {
			d.diag(types.DiagMalformedDeclaration, bodyNode, "%s: missing \"local\"", kind)
			return
		}
		d.add(&ast.ExportAssign{DeclBase: base, Local: ast.NewIdent(body.Local, span)})

	default:
		d.diag(types.DiagUnknownDeclarationKind, node, "unknown declaration kind %q", kind)
	}
}

func (d *decoder) add(decl ast.Declaration) {
	d.mod.Declarations = append(d.mod.Declarations, decl)
}

func (d *decoder) exportSpecifiers(nodes []yaml.Node, span types.Span) []ast.ExportSpecifier {
	var out []ast.ExportSpecifier
	for _, pair := range d.specifiers(nodes) {
		out = append(out, ast.ExportSpecifier{
			Name:     ast.NewIdent(pair[0], span),
			Exported: ast.NewIdent(pair[1], span),
		})
	}
	return out
}

// specifiers reads `name`, `name as other` or `{name: n, as: other}`
// entries into (name, other) pairs.
func (d *decoder) specifiers(nodes []yaml.Node) [][2]string {
	var out [][2]string
	for i := range nodes {
		n := &nodes[i]
		name, as, ok := parseSpecifier(n)
		if !ok {
			d.diag(types.DiagMalformedSpecifier, n, "cannot read specifier")
			continue
		}
		out = append(out, [2]string{name, as})
	}
	return out
}

func parseSpecifier(n *yaml.Node) (name, as string, ok bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		fields := strings.Fields(n.Value)
		switch {
		case len(fields) == 1:
			return fields[0], fields[0], true
		case len(fields) == 3 && fields[1] == "as":
			return fields[0], fields[2], true
		}
		return "", "", false
	case yaml.MappingNode:
		var m struct {
			Name string `yaml:"name"`
			As   string `yaml:"as"`
		}
		if err := n.Decode(&m); err != nil || m.Name == "" {
			return "", "", false
		}
		if m.As == "" {
			m.As = m.Name
		}
		return m.Name, m.As, true
	default:
		return "", "", false
	}
}
