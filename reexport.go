// Package reexport lowers ES module re-exports into accessor and copy-loop
// statements for CommonJS-style export objects.
//
// A module's declaration list comes from a parser as Go values or as a
// declaration manifest. Lowering produces an ordered statement list:
//
//	mod, err := reexport.LowerManifest(data, "index.yaml",
//	    reexport.WithLogger(slog.Default()),
//	)
//
//	// Whole directories of manifests:
//	prog, err := reexport.Load(ctx,
//	    reexport.MustDirTree("./manifests"),
//	    reexport.WithStrictDuplicates(),
//	)
package reexport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/jsinterop/reexport/internal/interop"
	"github.com/jsinterop/reexport/internal/manifest"
	"github.com/jsinterop/reexport/internal/module"
	"github.com/jsinterop/reexport/internal/types"
)

// ErrNoSources is returned when Load is called with no sources.
var ErrNoSources = errors.New("no manifest sources provided")

// ErrDiagnosticThreshold is returned when a reported diagnostic reaches the
// configured FailAt severity. The lowered result is still returned.
var ErrDiagnosticThreshold = errors.New("diagnostic threshold reached")

// ErrNotFound is returned for a module name that was not loaded.
var ErrNotFound = interop.ErrNotFound

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-declaration and per-name logging.
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures Lower, LowerManifest and Load.
type Option func(*config)

type config struct {
	logger             *slog.Logger
	diagConfig         types.DiagnosticConfig
	strictDuplicates   bool
	namespaceAccessors bool
	modules            []string
}

func newConfig(opts []Option) config {
	cfg := config{
		diagConfig: types.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithDiagnosticConfig replaces the diagnostic configuration.
func WithDiagnosticConfig(dc DiagnosticConfig) Option {
	return func(c *config) { c.diagConfig = dc }
}

// WithStrictDuplicates makes a name exported more than once fail lowering
// instead of the last declaration silently winning.
func WithStrictDuplicates() Option {
	return func(c *config) { c.strictDuplicates = true }
}

// WithNamespaceAccessors makes a named re-export read through an earlier
// `import * as` of the same source where one exists.
func WithNamespaceAccessors() Option {
	return func(c *config) { c.namespaceAccessors = true }
}

// WithModules restricts Load to the named modules and the modules they
// depend on.
func WithModules(names ...string) Option {
	return func(c *config) { c.modules = append(c.modules, names...) }
}

func (c *config) lowerConfig() module.Config {
	dc := c.diagConfig
	if c.strictDuplicates {
		dc.Overrides = maps.Clone(dc.Overrides)
		if dc.Overrides == nil {
			dc.Overrides = make(map[string]types.Severity)
		}
		dc.Overrides[types.DiagDuplicateExport] = types.SeveritySevere
		if dc.FailAt < types.SeveritySevere {
			dc.FailAt = types.SeveritySevere
		}
		dc.Ignore = slices.DeleteFunc(slices.Clone(dc.Ignore), func(pattern string) bool {
			return types.MatchGlob(pattern, types.DiagDuplicateExport)
		})
	}
	return module.Config{
		NamespaceAccessors: c.namespaceAccessors,
		Diagnostics:        dc,
	}
}

// Lower lowers one declaration list.
func Lower(src *SourceModule, opts ...Option) (*Module, error) {
	cfg := newConfig(opts)
	lc := cfg.lowerConfig()
	mod := module.Lower(src, componentLogger(cfg.logger, "module"), lc)
	return mod, checkThreshold(lc.Diagnostics, mod.Diagnostics)
}

// LowerManifest decodes a declaration manifest and lowers it. name is used
// as the module name when the manifest does not set one.
func LowerManifest(data []byte, name string, opts ...Option) (*Module, error) {
	cfg := newConfig(opts)
	src, err := manifest.Decode(data, name, componentLogger(cfg.logger, "manifest"))
	if err != nil {
		return nil, err
	}
	lc := cfg.lowerConfig()
	mod := module.Lower(src, componentLogger(cfg.logger, "module"), lc)
	return mod, checkThreshold(lc.Diagnostics, mod.Diagnostics)
}

// Encode serializes a lowered module as a lowered manifest.
func Encode(mod *Module, format Format) ([]byte, error) {
	return manifest.Encode(mod, format)
}

// EncodeAll serializes several lowered modules as a YAML document stream or
// a JSON array.
func EncodeAll(mods []*Module, format Format) ([]byte, error) {
	return manifest.EncodeAll(mods, format)
}

func checkThreshold(dc types.DiagnosticConfig, diags []Diagnostic) error {
	for _, d := range diags {
		if dc.ShouldFail(d.Severity) {
			return fmt.Errorf("%w: %s", ErrDiagnosticThreshold, d)
		}
	}
	return nil
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// logEnabled returns true if logging is enabled at the given level.
func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
