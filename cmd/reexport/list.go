package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newListCmd() *cobra.Command {
	var (
		count   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list [files or globs...]",
		Short: "List manifest files without lowering them",
		Example: `  reexport list -p testdata/manifests
  reexport list -p testdata/manifests --count`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.source(args)
			if err != nil {
				return err
			}
			files, err := src.ListFiles()
			if err != nil {
				return fmt.Errorf("listing manifests: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case count:
				fmt.Fprintln(out, len(files))
			case jsonOut:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if files == nil {
					files = []string{}
				}
				return enc.Encode(files)
			default:
				for _, f := range files {
					fmt.Fprintln(out, f)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "print only the file count")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON array")
	return cmd
}
