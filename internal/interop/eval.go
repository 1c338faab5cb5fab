package interop

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsinterop/reexport/internal/module"
	"github.com/jsinterop/reexport/internal/types"
)

var (
	// ErrNotFound is returned when an imported module cannot be resolved.
	ErrNotFound = errors.New("module not found")

	// ErrNotNamespace is returned when a copy-loop alias does not hold a
	// namespace object.
	ErrNotNamespace = errors.New("alias is not a namespace object")
)

// Resolver returns the namespace object of an imported module.
type Resolver func(source string) (*Object, error)

// Instance is an evaluated lowered module.
type Instance struct {
	Name    string
	Exports *Object
	Scope   *Scope

	// Assigned holds the value of `export =` when the module uses it.
	Assigned    Value
	HasAssigned bool

	// Copied lists, per copy-loop alias, the keys the loop copied.
	Copied map[string][]string
}

// EvalOption configures Evaluate.
type EvalOption func(*evalConfig)

type evalConfig struct {
	logger types.Logger
	locals map[string]Value
}

// WithLogger sets the logger for debug/trace output.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(c *evalConfig) { c.logger = types.Logger{L: logger} }
}

// WithLocals initializes module-local variables that back `export { x }`
// and `export = x`.
func WithLocals(locals map[string]Value) EvalOption {
	return func(c *evalConfig) { c.locals = locals }
}

// Evaluate runs a lowered module's statements once, in order, and returns
// the resulting instance.
func Evaluate(mod *module.Module, resolve Resolver, opts ...EvalOption) (*Instance, error) {
	var cfg evalConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	inst := &Instance{
		Name:    mod.Name,
		Exports: NewObject(),
		Scope:   NewScope(),
		Copied:  make(map[string][]string),
	}
	for name, v := range cfg.locals {
		inst.Scope.Bind(name, &Cell{V: v})
	}

	cfg.logger.Log(slog.LevelDebug, "evaluating module",
		slog.String("module", mod.Name),
		slog.Int("statements", len(mod.Statements)))

	for _, stmt := range mod.Statements {
		if err := inst.exec(stmt, resolve, &cfg); err != nil {
			return nil, fmt.Errorf("evaluate %s: %s: %w", mod.Name, stmt.StatementKind(), err)
		}
	}
	return inst, nil
}

func (inst *Instance) exec(stmt module.Statement, resolve Resolver, cfg *evalConfig) error {
	switch s := stmt.(type) {
	case *module.InteropMarker:
		return inst.Exports.DefineProperty(module.InteropMarkerName, Property{Value: true})

	case *module.NamespaceImport:
		ns, err := resolve(s.Source)
		if err != nil {
			return err
		}
		inst.Scope.Bind(s.Alias, &Cell{V: ns})

	case *module.NamedImport:
		ns, err := resolve(s.Source)
		if err != nil {
			return err
		}
		for _, spec := range s.Specifiers {
			inst.Scope.Bind(spec.Local, &importBinding{ns: ns, name: spec.Name})
		}

	case *module.DefineAccessor:
		return inst.defineAccessor(s)

	case *module.CopyAll:
		b, ok := inst.Scope.Lookup(s.Alias)
		if !ok {
			return fmt.Errorf("alias %q: %w", s.Alias, ErrNotNamespace)
		}
		src, ok := b.Load().(*Object)
		if !ok {
			return fmt.Errorf("alias %q: %w", s.Alias, ErrNotNamespace)
		}
		copied := CopyAll(inst.Exports, src, s.Reserved)
		inst.Copied[s.Alias] = append(inst.Copied[s.Alias], copied...)
		if cfg.logger.TraceEnabled() {
			cfg.logger.Trace("copy-loop finished",
				slog.String("module", inst.Name),
				slog.String("alias", s.Alias),
				slog.Int("copied", len(copied)))
		}

	case *module.ExportAssignment:
		inst.Assigned = inst.Scope.lookupOrDeclare(s.Local).Load()
		inst.HasAssigned = true

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
	return nil
}

func (inst *Instance) defineAccessor(s *module.DefineAccessor) error {
	p := Property{Enumerable: s.Enumerable, Configurable: s.Configurable}

	switch b := s.Binding; b.Kind {
	case module.StrategyAliased:
		alias := inst.Scope.lookupOrDeclare(b.Alias)
		name := b.Name
		p.Get = func() Value {
			ns, ok := alias.Load().(*Object)
			if !ok {
				return nil
			}
			v, _ := ns.Get(name)
			return v
		}
		p.Set = func(v Value) {
			if ns, ok := alias.Load().(*Object); ok {
				_ = ns.Set(name, v)
			}
		}
	default:
		backing := inst.Scope.lookupOrDeclare(b.Backing)
		p.Get = backing.Load
		p.Set = backing.Store
	}

	return inst.Exports.DefineProperty(s.Binding.Exported, p)
}

// CopyAll mirrors src onto dst the way a wildcard re-export does at module
// initialization and returns the keys it copied. Keys of src are enumerated
// once. A key is skipped when it is reserved, when dst already holds a
// strictly equal value for it, or when dst holds an accessor for it; only
// the module's own explicit exports install accessors on its export object,
// so those always win. Everything else is (re)defined as a plain data
// property.
func CopyAll(dst, src *Object, reserved []string) []string {
	var copied []string
	for _, key := range src.Keys() {
		if slices.Contains(reserved, key) {
			continue
		}
		v, _ := src.Get(key)
		if p, ok := dst.Own(key); ok {
			if p.IsAccessor() {
				continue
			}
			cur, _ := dst.Get(key)
			if StrictEqual(cur, v) {
				continue
			}
		}
		if err := dst.DefineProperty(key, DataProperty(v)); err != nil {
			continue
		}
		copied = append(copied, key)
	}
	return copied
}
