// Command reexport lowers declaration manifests into accessor and copy-loop
// statements and evaluates the result against host namespaces.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsinterop/reexport/cmd/internal/cliutil"
)

func main() {
	root := newRootCmd()

	err := root.Execute()
	if err != nil {
		var exitErr *cliutil.ExitError
		if !errors.As(err, &exitErr) || !exitErr.Printed {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	os.Exit(cliutil.ExitCode(err))
}
