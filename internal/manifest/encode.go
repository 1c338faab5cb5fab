package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jsinterop/reexport/internal/module"
)

// Format selects the lowered manifest encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// Lowered is the serialized form of a lowered module.
type Lowered struct {
	Module      string           `yaml:"module" json:"module"`
	Statements  []map[string]any `yaml:"statements" json:"statements"`
	Exports     []Export         `yaml:"exports,omitempty" json:"exports,omitempty"`
	Diagnostics []Diagnostic     `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// Export is one export table entry.
type Export struct {
	Name     string `yaml:"name" json:"name"`
	Strategy string `yaml:"strategy" json:"strategy"`
	Backing  string `yaml:"backing,omitempty" json:"backing,omitempty"`
	Alias    string `yaml:"alias,omitempty" json:"alias,omitempty"`
	Property string `yaml:"property,omitempty" json:"property,omitempty"`
}

// Diagnostic is a reported lowering or manifest problem.
type Diagnostic struct {
	Severity string `yaml:"severity" json:"severity"`
	Code     string `yaml:"code" json:"code"`
	Message  string `yaml:"message" json:"message"`
	Line     int    `yaml:"line,omitempty" json:"line,omitempty"`
	Column   int    `yaml:"column,omitempty" json:"column,omitempty"`
}

type namespaceImport struct {
	Alias     string `yaml:"alias" json:"alias"`
	From      string `yaml:"from" json:"from"`
	Synthetic bool   `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`
}

type namedImport struct {
	Names     []string `yaml:"names,flow" json:"names"`
	From      string   `yaml:"from" json:"from"`
	Synthetic bool     `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`
}

type defineAccessor struct {
	Name         string `yaml:"name" json:"name"`
	Backing      string `yaml:"backing,omitempty" json:"backing,omitempty"`
	Alias        string `yaml:"alias,omitempty" json:"alias,omitempty"`
	Property     string `yaml:"property,omitempty" json:"property,omitempty"`
	Enumerable   bool   `yaml:"enumerable" json:"enumerable"`
	Configurable bool   `yaml:"configurable" json:"configurable"`
}

type copyAll struct {
	Alias string   `yaml:"alias" json:"alias"`
	From  string   `yaml:"from" json:"from"`
	Skip  []string `yaml:"skip,flow" json:"skip"`
}

type exportAssignment struct {
	Local string `yaml:"local" json:"local"`
}

// NewLowered converts a lowered module into its serialized form.
func NewLowered(mod *module.Module) *Lowered {
	out := &Lowered{
		Module:     mod.Name,
		Statements: make([]map[string]any, 0, len(mod.Statements)),
	}
	for _, stmt := range mod.Statements {
		out.Statements = append(out.Statements, map[string]any{stmt.StatementKind(): statementBody(stmt)})
	}
	for _, b := range mod.Exports {
		out.Exports = append(out.Exports, Export{
			Name:     b.Exported,
			Strategy: b.Kind.String(),
			Backing:  b.Backing,
			Alias:    b.Alias,
			Property: b.Name,
		})
	}
	for _, d := range mod.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
		})
	}
	return out
}

func statementBody(stmt module.Statement) any {
	switch s := stmt.(type) {
	case *module.InteropMarker:
		return struct{}{}
	case *module.NamespaceImport:
		return namespaceImport{Alias: s.Alias, From: s.Source, Synthetic: s.Synthetic}
	case *module.NamedImport:
		names := make([]string, len(s.Specifiers))
		for i, spec := range s.Specifiers {
			if spec.Name == spec.Local {
				names[i] = spec.Name
			} else {
				names[i] = spec.Name + " as " + spec.Local
			}
		}
		return namedImport{Names: names, From: s.Source, Synthetic: s.Synthetic}
	case *module.DefineAccessor:
		return defineAccessor{
			Name:         s.Binding.Exported,
			Backing:      s.Binding.Backing,
			Alias:        s.Binding.Alias,
			Property:     s.Binding.Name,
			Enumerable:   s.Enumerable,
			Configurable: s.Configurable,
		}
	case *module.CopyAll:
		return copyAll{Alias: s.Alias, From: s.Source, Skip: s.Reserved}
	case *module.ExportAssignment:
		return exportAssignment{Local: s.Local}
	default:
		return module.Describe(stmt)
	}
}

// Encode writes a lowered module in the requested format.
func Encode(mod *module.Module, format Format) ([]byte, error) {
	doc := NewLowered(mod)
	if format == FormatJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", mod.Name, err)
		}
		return append(data, '\n'), nil
	}
	return encodeYAML(doc)
}

// EncodeAll writes several lowered modules: a YAML document stream, or a
// JSON array.
func EncodeAll(mods []*module.Module, format Format) ([]byte, error) {
	docs := make([]any, len(mods))
	for i, mod := range mods {
		docs[i] = NewLowered(mod)
	}
	if format == FormatJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding modules: %w", err)
		}
		return append(data, '\n'), nil
	}
	return encodeYAML(docs...)
}

func encodeYAML(docs ...any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}
