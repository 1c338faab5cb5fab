package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsinterop/reexport/internal/types"
)

func newCodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List diagnostic codes with their phase and default severity",
		Long: `List every diagnostic code. Codes can be ignored or re-graded in
reexport.yaml:

  ignore: ["backing-*"]
  overrides:
    duplicate-export: severe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tPHASE\tSEVERITY")
			for _, info := range types.AllDiagnosticCodes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Code, info.Phase, info.Severity)
			}
			return w.Flush()
		},
	}
}
