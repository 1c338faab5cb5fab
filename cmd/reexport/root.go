package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsinterop/reexport"
	"github.com/jsinterop/reexport/cmd/internal/cliutil"
)

type cli struct {
	verbose    int
	trace      bool
	paths      []string
	configFile string

	cfg    *cliutil.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "reexport",
		Short: "Lower ES module re-exports for CommonJS export objects",
		Long: `reexport lowers declaration manifests into an ordered statement list:
an interop marker, imports, one accessor per exported name, and one
copy-loop per wildcard re-export.

Configuration is read from reexport.yaml in the working directory (or -c)
and REEXPORT_* environment variables. Flags take precedence.`,
		PersistentPreRunE: c.initialize,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringArrayVarP(&c.paths, "path", "p", nil, "add manifest search path (repeatable, env: REEXPORT_PATHS)")
	pf.CountVarP(&c.verbose, "verbose", "v", "enable debug logging (-vv for trace)")
	pf.BoolVar(&c.trace, "trace", false, "enable trace logging")
	pf.StringVarP(&c.configFile, "config", "c", "", "path to config file")

	cmd.AddCommand(
		c.newLowerCmd(),
		c.newEvalCmd(),
		c.newListCmd(),
		newCodesCmd(),
		newVersionCmd(),
	)
	return cmd
}

// initialize loads configuration and sets up logging.
func (c *cli) initialize(cmd *cobra.Command, _ []string) error {
	loader := cliutil.NewLoader()
	cfg, err := loader.Load(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if len(c.paths) == 0 {
		c.paths = cfg.Paths
	}

	verbose := c.verbose
	if c.trace {
		verbose = 2
	}
	c.logger = cliutil.NewLogger(cmd.ErrOrStderr(), verbose)
	c.logger.Debug("reexport started",
		slog.String("version", buildVersion()),
		slog.String("config", loader.ConfigFileUsed()),
		slog.Any("paths", c.paths))
	return nil
}

// loweringFlags are the per-command flags that override configuration.
type loweringFlags struct {
	namespaceAccessors bool
	strict             bool
}

func (f *loweringFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.namespaceAccessors, "namespace-accessors", false,
		"read named re-exports through an existing namespace import")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"fail when a name is exported more than once")
}

func (c *cli) options(f loweringFlags) ([]reexport.Option, error) {
	dc, err := c.cfg.DiagnosticConfig()
	if err != nil {
		return nil, err
	}
	opts := []reexport.Option{
		reexport.WithLogger(c.logger),
		reexport.WithDiagnosticConfig(dc),
	}
	if f.namespaceAccessors || c.cfg.NamespaceAccessors {
		opts = append(opts, reexport.WithNamespaceAccessors())
	}
	if f.strict || c.cfg.StrictDuplicates {
		opts = append(opts, reexport.WithStrictDuplicates())
	}
	return opts, nil
}

// source returns a Source over explicit files and globs when given, or the
// -p search paths otherwise.
func (c *cli) source(args []string) (reexport.Source, error) {
	if len(args) > 0 {
		return reexport.Files(args...)
	}
	var srcOpts []reexport.SourceOption
	if len(c.cfg.Extensions) > 0 {
		srcOpts = append(srcOpts, reexport.WithExtensions(c.cfg.Extensions...))
	}
	var sources []reexport.Source
	for _, p := range c.paths {
		src, err := reexport.DirTree(p, srcOpts...)
		if err != nil {
			c.logger.Warn("cannot access path", slog.String("path", p), slog.Any("err", err))
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, reexport.ErrNoSources
	}
	return reexport.Multi(sources...), nil
}
