package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsinterop/reexport"
	"github.com/jsinterop/reexport/cmd/internal/cliutil"
)

func (c *cli) newLowerCmd() *cobra.Command {
	var (
		flags   loweringFlags
		output  string
		jsonOut bool
		modules []string
	)

	cmd := &cobra.Command{
		Use:   "lower [files or globs...]",
		Short: "Lower declaration manifests",
		Long: `Lower declaration manifests and write the lowered manifests.

Manifests are read from the given files and doublestar globs, or from every
-p search path when none are given. Output is a YAML document stream, or a
JSON array with --json. Diagnostics go to stderr.`,
		Example: `  reexport lower testdata/manifests/index.yaml
  reexport lower 'manifests/**/*.yaml' --json -o lowered.json
  reexport lower -p manifests -m ./index --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.source(args)
			if err != nil {
				return err
			}
			opts, err := c.options(flags)
			if err != nil {
				return err
			}
			if len(modules) > 0 {
				opts = append(opts, reexport.WithModules(modules...))
			}

			prog, loadErr := reexport.Load(cmd.Context(), src, opts...)
			if loadErr != nil && !errors.Is(loadErr, reexport.ErrDiagnosticThreshold) {
				return loadErr
			}

			for _, d := range prog.Diagnostics() {
				fmt.Fprintln(cmd.ErrOrStderr(), d.String())
			}

			format := reexport.FormatYAML
			if jsonOut {
				format = reexport.FormatJSON
			}
			data, err := reexport.EncodeAll(prog.Modules, format)
			if err != nil {
				return err
			}

			w, done, err := cliutil.GetOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer done()
			if _, err := w.Write(data); err != nil {
				return err
			}

			if loadErr != nil {
				cliutil.PrintError(cmd.ErrOrStderr(), "%v", loadErr)
				return &cliutil.ExitError{Code: cliutil.ExitThreshold, Err: loadErr, Printed: true}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON instead of YAML")
	cmd.Flags().StringArrayVarP(&modules, "module", "m", nil, "only lower this module and its dependencies (repeatable)")
	return cmd
}
