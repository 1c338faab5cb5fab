package interop

import (
	"maps"
	"slices"
)

// Binding is a module-scoped variable: a backing variable, an import, or a
// namespace alias.
type Binding interface {
	Load() Value
	Store(Value)
}

// Cell is a plain local variable.
type Cell struct {
	V Value
}

func (c *Cell) Load() Value { return c.V }

func (c *Cell) Store(v Value) { c.V = v }

// importBinding reads an export of another module live until the local is
// assigned, after which it holds the assigned value.
type importBinding struct {
	ns       *Object
	name     string
	assigned bool
	v        Value
}

func (b *importBinding) Load() Value {
	if b.assigned {
		return b.v
	}
	v, _ := b.ns.Get(b.name)
	return v
}

func (b *importBinding) Store(v Value) {
	b.assigned = true
	b.v = v
}

// Scope holds a module's top-level bindings.
type Scope struct {
	bindings map[string]Binding
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]Binding)}
}

// Bind installs a binding, replacing any earlier one of the same name.
func (s *Scope) Bind(name string, b Binding) {
	s.bindings[name] = b
}

// Lookup returns the binding for name.
func (s *Scope) Lookup(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// lookupOrDeclare returns the binding for name, declaring an undefined
// local when the module never initialized it.
func (s *Scope) lookupOrDeclare(name string) Binding {
	if b, ok := s.bindings[name]; ok {
		return b
	}
	c := &Cell{}
	s.bindings[name] = c
	return c
}

// Names returns bound names in sorted order.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.bindings))
}
