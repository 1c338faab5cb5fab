package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jsinterop/reexport/internal/ast"
	"github.com/jsinterop/reexport/internal/module"
	"github.com/jsinterop/reexport/internal/types"
)

const fixture = `
module: ./index.js
declarations:
  - import-all: {alias: mod, from: ./someModule}
  - export-all: {from: ./someModule}
  - export-named: {from: ./someModule, names: [foo, "bar as baz"]}
`

func decode(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := Decode([]byte(src), "input.yaml", nil)
	require.NoError(t, err)
	return mod
}

func TestDecode_Fixture(t *testing.T) {
	mod := decode(t, fixture)

	assert.Equal(t, "./index.js", mod.Name)
	require.Len(t, mod.Declarations, 3)
	assert.Empty(t, mod.Diagnostics)

	all, ok := mod.Declarations[0].(*ast.ImportAll)
	require.True(t, ok)
	assert.Equal(t, "mod", all.Alias.Name)
	assert.Equal(t, "./someModule", all.Source.Value)

	_, ok = mod.Declarations[1].(*ast.ReExportAll)
	require.True(t, ok)

	named, ok := mod.Declarations[2].(*ast.ReExportNamed)
	require.True(t, ok)
	require.Len(t, named.Specifiers, 2)
	assert.Equal(t, "foo", named.Specifiers[0].Name.Name)
	assert.Equal(t, "foo", named.Specifiers[0].Exported.Name)
	assert.Equal(t, "bar", named.Specifiers[1].Name.Name)
	assert.Equal(t, "baz", named.Specifiers[1].Exported.Name)
}

func TestDecode_NameFallback(t *testing.T) {
	mod := decode(t, "declarations: []")
	assert.Equal(t, "input.yaml", mod.Name)
	assert.Empty(t, mod.Declarations)
}

func TestDecode_AllKinds(t *testing.T) {
	mod := decode(t, `
declarations:
  - import-named: {from: m, names: [a, "b as c", {name: d, as: e}]}
  - export-namespace: {as: utils, from: ./utils}
  - export-local: {names: [x, {name: y, as: z}]}
  - export-assign: {local: api}
`)
	require.Empty(t, mod.Diagnostics)
	require.Len(t, mod.Declarations, 4)

	imp := mod.Declarations[0].(*ast.ImportNamed)
	require.Len(t, imp.Specifiers, 3)
	assert.Equal(t, "c", imp.Specifiers[1].Local.Name)
	assert.Equal(t, "d", imp.Specifiers[2].Name.Name)
	assert.Equal(t, "e", imp.Specifiers[2].Local.Name)

	ns := mod.Declarations[1].(*ast.ReExportNamespace)
	assert.Equal(t, "utils", ns.Exported.Name)
	assert.Equal(t, "./utils", ns.Source.Value)

	local := mod.Declarations[2].(*ast.ExportLocal)
	require.Len(t, local.Specifiers, 2)
	assert.Equal(t, "z", local.Specifiers[1].Exported.Name)

	assign := mod.Declarations[3].(*ast.ExportAssign)
	assert.Equal(t, "api", assign.Local.Name)
}

func TestDecode_JSON(t *testing.T) {
	mod := decode(t, `{"module": "a.js", "declarations": [{"export-all": {"from": "./b"}}]}`)
	assert.Equal(t, "a.js", mod.Name)
	require.Len(t, mod.Declarations, 1)
	assert.IsType(t, &ast.ReExportAll{}, mod.Declarations[0])
}

func TestDecode_SpanAndLines(t *testing.T) {
	mod := decode(t, `
lines: [0, 30, 60]
declarations:
  - export-all: {from: ./b, span: [44, 70]}
`)
	require.Len(t, mod.Declarations, 1)
	span := mod.Declarations[0].DeclarationSpan()
	assert.Equal(t, types.NewSpan(44, 70), span)

	line, col := mod.LineCol(span.Start)
	assert.Equal(t, 2, line)
	assert.Equal(t, 15, col)
}

func TestDecode_Diagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unknown kind", "declarations: [{export-default: {local: x}}]", types.DiagUnknownDeclarationKind},
		{"missing from", "declarations: [{export-all: {}}]", types.DiagMalformedDeclaration},
		{"missing alias", "declarations: [{import-all: {from: m}}]", types.DiagMalformedDeclaration},
		{"two keys", "declarations: [{export-all: {from: m}, import-all: {from: m}}]", types.DiagMalformedDeclaration},
		{"scalar item", "declarations: [export-all]", types.DiagMalformedDeclaration},
		{"bad specifier", "declarations: [{export-named: {from: m, names: [[a]]}}]", types.DiagMalformedSpecifier},
		{"dangling as", "declarations: [{export-named: {from: m, names: [\"a as\"]}}]", types.DiagMalformedSpecifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := decode(t, tt.src)
			require.Len(t, mod.Diagnostics, 1)
			assert.Equal(t, tt.code, mod.Diagnostics[0].Code)
			assert.Contains(t, mod.Diagnostics[0].Message, "manifest line 1")
			assert.True(t, mod.HasErrors())
		})
	}
}

func TestDecode_MalformedYAML(t *testing.T) {
	_, err := Decode([]byte("declarations: [\n"), "broken.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func lowerFixture(t *testing.T) *module.Module {
	t.Helper()
	return module.Lower(decode(t, fixture), nil, module.DefaultConfig())
}

func TestEncode_YAML(t *testing.T) {
	data, err := Encode(lowerFixture(t), FormatYAML)
	require.NoError(t, err)

	var doc struct {
		Module     string                 `yaml:"module"`
		Statements []map[string]yaml.Node `yaml:"statements"`
		Exports    []map[string]string    `yaml:"exports"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "./index.js", doc.Module)
	var kinds []string
	for _, s := range doc.Statements {
		require.Len(t, s, 1)
		for k := range s {
			kinds = append(kinds, k)
		}
	}
	assert.Equal(t, []string{
		"interop-marker",
		"namespace-import",
		"namespace-import",
		"named-import",
		"define-accessor",
		"define-accessor",
		"copy-all",
	}, kinds)

	require.Len(t, doc.Exports, 2)
	assert.Equal(t, "foo", doc.Exports[0]["name"])
	assert.Equal(t, "accessor", doc.Exports[0]["strategy"])
	assert.Equal(t, "baz", doc.Exports[1]["backing"])

	assert.Contains(t, string(data), "skip: [default, __esModule]")
	assert.Contains(t, string(data), "names: [foo, bar as baz]")
}

func TestEncode_JSON(t *testing.T) {
	data, err := Encode(lowerFixture(t), FormatJSON)
	require.NoError(t, err)

	var doc Lowered
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "./index.js", doc.Module)
	assert.Len(t, doc.Statements, 7)

	copyLoop := doc.Statements[6]["copy-all"].(map[string]any)
	assert.Equal(t, "mod1", copyLoop["alias"])
	assert.Equal(t, []any{"default", "__esModule"}, copyLoop["skip"])
}

func TestEncode_Diagnostics(t *testing.T) {
	src := decode(t, `
declarations:
  - export-named: {from: a, names: [x]}
  - export-named: {from: b, names: [x]}
`)
	mod := module.Lower(src, nil, module.DefaultConfig())

	lowered := NewLowered(mod)
	require.Len(t, lowered.Diagnostics, 1)
	assert.Equal(t, types.DiagDuplicateExport, lowered.Diagnostics[0].Code)
	assert.Equal(t, "minor", lowered.Diagnostics[0].Severity)
}

func TestEncodeAll(t *testing.T) {
	a := lowerFixture(t)
	b := module.Lower(decode(t, "module: other.js\ndeclarations: [{export-all: {from: ./x}}]"), nil, module.DefaultConfig())

	data, err := EncodeAll([]*module.Module{a, b}, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n---\n")
	assert.Contains(t, string(data), "module: other.js")

	data, err = EncodeAll([]*module.Module{a, b}, FormatJSON)
	require.NoError(t, err)
	var docs []Lowered
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "other.js", docs[1].Module)
}
