// Package interop models the runtime side of lowered modules: export
// objects with property descriptors, live import bindings, and the
// wildcard copy-loop.
package interop

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Value is any runtime value. nil stands for undefined.
type Value = any

var (
	// ErrNotConfigurable is returned when redefining a non-configurable
	// property.
	ErrNotConfigurable = errors.New("property is not configurable")

	// ErrReadOnly is returned when assigning to a property without a setter
	// or a non-writable data property.
	ErrReadOnly = errors.New("property is read-only")
)

// Property is an own property of an Object. A property with Get or Set is
// an accessor property; otherwise it is a data property holding Value.
type Property struct {
	Value        Value
	Get          func() Value
	Set          func(Value)
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// IsAccessor reports whether p is an accessor property.
func (p *Property) IsAccessor() bool {
	return p.Get != nil || p.Set != nil
}

// DataProperty returns a plain enumerable, configurable, writable property.
func DataProperty(v Value) Property {
	return Property{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// Object is an ordered set of own properties, standing in for an export
// object or a module namespace object.
type Object struct {
	keys  []string
	props map[string]*Property
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{props: make(map[string]*Property)}
}

// FromMap builds an object of data properties from m. Keys are added in
// sorted order.
func FromMap(m map[string]Value) *Object {
	o := NewObject()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		o.put(k, DataProperty(m[k]))
	}
	return o
}

func (o *Object) put(name string, p Property) {
	if _, ok := o.props[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.props[name] = &p
}

// DefineProperty installs or replaces an own property.
func (o *Object) DefineProperty(name string, p Property) error {
	if old, ok := o.props[name]; ok && !old.Configurable {
		return fmt.Errorf("define %q: %w", name, ErrNotConfigurable)
	}
	o.put(name, p)
	return nil
}

// Own returns a copy of the own property descriptor for name.
func (o *Object) Own(name string) (Property, bool) {
	p, ok := o.props[name]
	if !ok {
		return Property{}, false
	}
	return *p, true
}

// Has reports whether name is an own property (`name in obj`).
func (o *Object) Has(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Get reads a property, calling the getter of an accessor.
func (o *Object) Get(name string) (Value, bool) {
	p, ok := o.props[name]
	if !ok {
		return nil, false
	}
	if p.IsAccessor() {
		if p.Get == nil {
			return nil, true
		}
		return p.Get(), true
	}
	return p.Value, true
}

// Set assigns a property. Accessors route through their setter; missing
// properties are created as plain data properties.
func (o *Object) Set(name string, v Value) error {
	p, ok := o.props[name]
	if !ok {
		o.put(name, DataProperty(v))
		return nil
	}
	if p.IsAccessor() {
		if p.Set == nil {
			return fmt.Errorf("set %q: %w", name, ErrReadOnly)
		}
		p.Set(v)
		return nil
	}
	if !p.Writable {
		return fmt.Errorf("set %q: %w", name, ErrReadOnly)
	}
	p.Value = v
	return nil
}

// Keys returns own enumerable keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if o.props[k].Enumerable {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of own properties, enumerable or not.
func (o *Object) Len() int {
	return len(o.keys)
}

// Snapshot reads every own enumerable property into a map.
func (o *Object) Snapshot() map[string]Value {
	out := make(map[string]Value, len(o.keys))
	for _, k := range o.Keys() {
		out[k], _ = o.Get(k)
	}
	return out
}
