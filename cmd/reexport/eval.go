package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jsinterop/reexport"
	"github.com/jsinterop/reexport/cmd/internal/cliutil"
)

func (c *cli) newEvalCmd() *cobra.Command {
	var (
		flags   loweringFlags
		sources []string
	)

	cmd := &cobra.Command{
		Use:   "eval MANIFEST",
		Short: "Lower a manifest and evaluate its export object",
		Long: `Lower a manifest and run the lowered statements against host
namespaces, then print the resulting export object in key order.

Each --source SPEC=FILE binds the module specifier SPEC to the top-level
mapping in the YAML file FILE. Manifests found under -p paths are lowered
too and resolve specifiers that name them.`,
		Example: `  reexport eval testdata/manifests/index.yaml -p testdata/manifests \
    --source ./host=testdata/hostvalues.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(flags)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			mod, err := reexport.LowerManifest(data, args[0], opts...)
			if mod != nil {
				for _, d := range mod.Diagnostics {
					fmt.Fprintln(cmd.ErrOrStderr(), d.String())
				}
			}
			if errors.Is(err, reexport.ErrDiagnosticThreshold) {
				return &cliutil.ExitError{Code: cliutil.ExitThreshold, Err: err}
			}
			if err != nil {
				return err
			}

			realm := reexport.NewRealm(c.logger)
			if len(c.paths) > 0 {
				src, err := c.source(nil)
				if err != nil {
					return err
				}
				prog, err := reexport.Load(cmd.Context(), src, opts...)
				if err != nil && !errors.Is(err, reexport.ErrDiagnosticThreshold) {
					return err
				}
				for _, other := range prog.Modules {
					if other.Name != mod.Name {
						realm.Register(other.Name, other, nil)
					}
				}
			}
			realm.Register(mod.Name, mod, nil)

			for _, s := range sources {
				spec, file, ok := strings.Cut(s, "=")
				if !ok || spec == "" || file == "" {
					return fmt.Errorf("--source %q: want SPEC=FILE", s)
				}
				values, err := readValues(file)
				if err != nil {
					return err
				}
				realm.Provide(spec, reexport.FromMap(values))
				c.logger.Debug("host namespace", slog.String("specifier", spec), slog.Int("keys", len(values)))
			}

			inst, err := realm.Instantiate(mod.Name)
			if err != nil {
				return &cliutil.ExitError{Code: cliutil.ExitFailure, Err: err}
			}
			return printExports(cmd, inst.Exports)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVar(&sources, "source", nil, "bind SPEC to the YAML mapping in FILE (SPEC=FILE, repeatable)")
	return cmd
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return values, nil
}

// printExports writes the export object as a YAML mapping in key order.
func printExports(cmd *cobra.Command, exports *reexport.Object) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range exports.Keys() {
		v, _ := exports.Get(key)
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &val)
	}
	if len(doc.Content) == 0 {
		doc.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
