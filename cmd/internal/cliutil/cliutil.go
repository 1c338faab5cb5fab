// Package cliutil provides shared CLI utilities for the reexport command.
package cliutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/jsinterop/reexport/internal/types"
)

// Exit codes.
const (
	ExitOK        = 0 // success
	ExitFailure   = 1 // user error or processing failure
	ExitThreshold = 2 // a diagnostic reached the fail-at severity
)

// ExitError carries a process exit code through cobra's error return.
type ExitError struct {
	Code    int
	Err     error
	Printed bool // already reported to the user
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// NewLogger returns a slog logger backed by a charmbracelet handler.
// verbose 0 logs warnings, 1 debug, 2 and above trace.
func NewLogger(w io.Writer, verbose int) *slog.Logger {
	level := log.WarnLevel
	switch {
	case verbose >= 2:
		level = log.Level(types.LevelTrace)
	case verbose == 1:
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose > 0,
	})
	return slog.New(handler)
}

// GetOutput opens the output file or returns stdout.
func GetOutput(stdout io.Writer, outputFile string) (io.Writer, func(), error) {
	if outputFile == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
