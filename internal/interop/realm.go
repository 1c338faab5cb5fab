package interop

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsinterop/reexport/internal/graph"
	"github.com/jsinterop/reexport/internal/module"
	"github.com/jsinterop/reexport/internal/types"
)

// ErrCycle is returned when lowered modules import each other in a cycle.
var ErrCycle = errors.New("module import cycle")

// Realm instantiates lowered modules against each other and against host
// namespaces. Module specifiers are used verbatim as keys; no path
// resolution takes place.
type Realm struct {
	hosts     map[string]*Object
	modules   map[string]*module.Module
	locals    map[string]map[string]Value
	instances map[string]*Instance
	logger    *slog.Logger
	log       types.Logger
}

// NewRealm returns an empty realm. If logger is nil, logging is disabled.
func NewRealm(logger *slog.Logger) *Realm {
	return &Realm{
		hosts:     make(map[string]*Object),
		modules:   make(map[string]*module.Module),
		locals:    make(map[string]map[string]Value),
		instances: make(map[string]*Instance),
		logger:    logger,
		log:       types.Logger{L: logger},
	}
}

// Provide registers a host namespace, e.g. a module that was not lowered.
func (r *Realm) Provide(specifier string, ns *Object) {
	r.hosts[specifier] = ns
}

// Register adds a lowered module under specifier. locals initializes the
// module's own variables.
func (r *Realm) Register(specifier string, mod *module.Module, locals map[string]Value) {
	r.modules[specifier] = mod
	if locals != nil {
		r.locals[specifier] = locals
	}
}

// Namespace returns the namespace object for specifier: a host namespace,
// or the export object of an instantiated module.
func (r *Realm) Namespace(specifier string) (*Object, error) {
	if ns, ok := r.hosts[specifier]; ok {
		return ns, nil
	}
	if inst, ok := r.instances[specifier]; ok {
		return inst.Exports, nil
	}
	return nil, fmt.Errorf("%q: %w", specifier, ErrNotFound)
}

// Instantiate evaluates specifier and every lowered module it depends on,
// dependencies first. Each module is evaluated at most once per realm.
func (r *Realm) Instantiate(specifier string) (*Instance, error) {
	if inst, ok := r.instances[specifier]; ok {
		return inst, nil
	}
	if _, ok := r.modules[specifier]; !ok {
		return nil, fmt.Errorf("%q: %w", specifier, ErrNotFound)
	}

	g := r.dependencyGraph(specifier)
	order, cycles := g.ResolutionOrder()
	if len(cycles) > 0 {
		var parts []string
		for _, c := range cycles {
			parts = append(parts, strings.Join(c, " -> "))
		}
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(parts, "; "))
	}

	for _, spec := range order {
		mod, ok := r.modules[spec]
		if !ok {
			continue
		}
		if _, done := r.instances[spec]; done {
			continue
		}

		r.log.Log(slog.LevelDebug, "instantiating module", slog.String("module", spec))

		inst, err := Evaluate(mod, r.Namespace, WithLogger(r.logger), WithLocals(r.locals[spec]))
		if err != nil {
			return nil, err
		}
		r.instances[spec] = inst
	}
	return r.instances[specifier], nil
}

// dependencyGraph collects the lowered modules reachable from root.
func (r *Realm) dependencyGraph(root string) *graph.Graph {
	g := graph.New()
	g.AddNode(root)

	queue := []string{root}
	seen := map[string]bool{root: true}
	for len(queue) > 0 {
		spec := queue[0]
		queue = queue[1:]

		mod, ok := r.modules[spec]
		if !ok {
			continue
		}
		for _, dep := range mod.Dependencies() {
			g.AddEdge(spec, dep)
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return g
}
