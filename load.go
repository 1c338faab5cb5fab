package reexport

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/jsinterop/reexport/internal/graph"
	"github.com/jsinterop/reexport/internal/interop"
	"github.com/jsinterop/reexport/internal/manifest"
	"github.com/jsinterop/reexport/internal/module"
)

// Program is a set of lowered modules loaded together.
type Program struct {
	// Modules sorted by name.
	Modules []*Module

	// Files maps module names to the manifest they were loaded from.
	Files map[string]string

	byName map[string]*Module
}

// Module returns the lowered module with the given name, or nil.
func (p *Program) Module(name string) *Module {
	return p.byName[name]
}

// Diagnostics returns every reported diagnostic, in module order.
func (p *Program) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, mod := range p.Modules {
		diags = append(diags, mod.Diagnostics...)
	}
	return diags
}

// Realm returns a realm with every module of the program registered under
// its name. Host namespaces are added with Realm.Provide.
func (p *Program) Realm(logger *slog.Logger) *Realm {
	r := interop.NewRealm(logger)
	for _, mod := range p.Modules {
		r.Register(mod.Name, mod, nil)
	}
	return r
}

// Load reads, decodes and lowers every manifest in source.
//
// Manifests that cannot be read or decoded abort loading. Diagnostics at
// or above the configured FailAt severity return the program together
// with an error wrapping ErrDiagnosticThreshold.
func Load(ctx context.Context, source Source, opts ...Option) (*Program, error) {
	if source == nil {
		return nil, ErrNoSources
	}
	cfg := newConfig(opts)
	logger := cfg.logger

	files, err := source.ListFiles()
	if err != nil {
		return nil, err
	}

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "loading manifests",
			slog.Int("files", len(files)))
	}

	type loadResult struct {
		path string
		mod  *module.Module
		err  error
	}
	results := make(chan loadResult, len(files))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	lc := cfg.lowerConfig()

	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			mod, err := loadFile(source, path, cfg, lc)
			results <- loadResult{path: path, mod: mod, err: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []loadResult
	for r := range results {
		collected = append(collected, r)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Deterministic first-file-wins for duplicate module names.
	slices.SortFunc(collected, func(a, b loadResult) int {
		return cmp.Compare(a.path, b.path)
	})

	prog := &Program{
		Files:  make(map[string]string),
		byName: make(map[string]*Module),
	}
	for _, r := range collected {
		if r.err != nil {
			return nil, r.err
		}
		if _, exists := prog.byName[r.mod.Name]; exists {
			if logEnabled(logger, slog.LevelWarn) {
				logger.LogAttrs(ctx, slog.LevelWarn, "duplicate module name",
					slog.String("module", r.mod.Name),
					slog.String("file", r.path),
					slog.String("kept", prog.Files[r.mod.Name]))
			}
			continue
		}
		prog.byName[r.mod.Name] = r.mod
		prog.Files[r.mod.Name] = r.path
	}

	if len(cfg.modules) > 0 {
		if err := prog.restrict(cfg.modules); err != nil {
			return nil, err
		}
	}

	for _, mod := range prog.byName {
		prog.Modules = append(prog.Modules, mod)
	}
	slices.SortFunc(prog.Modules, func(a, b *Module) int {
		return cmp.Compare(a.Name, b.Name)
	})

	if logEnabled(logger, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "loading complete",
			slog.Int("modules", len(prog.Modules)))
	}

	return prog, checkThreshold(lc.Diagnostics, prog.Diagnostics())
}

func loadFile(source Source, path string, cfg config, lc module.Config) (*module.Module, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	src, err := manifest.Decode(data, path, componentLogger(cfg.logger, "manifest"))
	if err != nil {
		return nil, err
	}
	return module.Lower(src, componentLogger(cfg.logger, "module"), lc), nil
}

// restrict drops every module not reachable from names. Dependencies are
// matched against module names literally.
func (p *Program) restrict(names []string) error {
	g := graph.New()
	for name, mod := range p.byName {
		g.AddNode(name)
		for _, dep := range mod.Dependencies() {
			g.AddEdge(name, dep)
		}
	}

	keep := make(map[string]bool)
	var visit func(string)
	visit = func(name string) {
		if keep[name] {
			return
		}
		keep[name] = true
		for _, dep := range g.Dependencies(name) {
			visit(dep)
		}
	}
	for _, name := range names {
		if _, ok := p.byName[name]; !ok {
			return fmt.Errorf("module %q: %w", name, ErrNotFound)
		}
		visit(name)
	}

	for name := range p.byName {
		if !keep[name] {
			delete(p.byName, name)
			delete(p.Files, name)
		}
	}
	return nil
}
