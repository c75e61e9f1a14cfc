// Package diag renders internal/errors' CompileError and Warning values to
// a terminal with the same palette cmd/ailang/main.go used: green for
// success, red for errors, yellow for warnings, cyan for informational
// phase labels, bold for emphasis. Grounded directly on that file's
// `color.New(...).SprintFunc()` idiom. Library: github.com/fatih/color.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	wasmcerrors "github.com/wasmc/wasmc/internal/errors"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// PrintError writes err to w as "<red>Error</red> (<phase>): <pos>: <msg>",
// including Expected/Actual when a Mismatch-style error set them.
func PrintError(w io.Writer, err *wasmcerrors.CompileError) {
	fmt.Fprintf(w, "%s (%s): ", red("Error"), cyan(string(err.Phase)))
	if err.Pos != "" {
		fmt.Fprintf(w, "%s: ", err.Pos)
	}
	fmt.Fprintf(w, "%s [%s]\n", err.Message, bold(err.Code))
	if err.Expected != "" || err.Actual != "" {
		fmt.Fprintf(w, "  expected: %s\n  actual:   %s\n", green(err.Expected), red(err.Actual))
	}
}

// PrintWarning writes w to out as "<yellow>Warning</yellow>: <pos>: <msg>".
func PrintWarning(out io.Writer, w wasmcerrors.Warning) {
	fmt.Fprintf(out, "%s: %s: %s [%s]\n", yellow("Warning"), w.Pos, w.Message, w.Code)
}

// PrintSink writes every warning in sink, in order.
func PrintSink(out io.Writer, sink *wasmcerrors.Sink) {
	for _, w := range sink.Warnings {
		PrintWarning(out, w)
	}
}

// PrintSuccess writes msg in green, the same "all clear" signal
// cmd/ailang/main.go's checkFile/runFile paths print on success.
func PrintSuccess(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", green("OK"), fmt.Sprintf(format, args...))
}
