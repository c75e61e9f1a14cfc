// Command wasmc is the CLI entry point: compile a source file to the
// configured backend's output, dump any intermediate tier, or drop into a
// line-at-a-time REPL. Grounded on cmd/ailang/main.go's version/color
// conventions, restructured onto github.com/spf13/cobra (declared in the
// teacher's go.mod but never actually imported there).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/wasmc/wasmc/internal/config"
	"github.com/wasmc/wasmc/internal/diag"
	"github.com/wasmc/wasmc/internal/interp"
	"github.com/wasmc/wasmc/internal/pipeline"
	"github.com/wasmc/wasmc/internal/pretty"
)

// Version info, set by ldflags during build.
var (
	Version = "dev"
	Commit  = "unknown"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "wasmc",
		Short:         "Compile the middle-end's surface language to WebAssembly-bound IR",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a wasmc.yaml config file")

	loadConfig := func() (config.Config, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Load(configPath)
	}

	root.AddCommand(newCompileCmd(&configPath, loadConfig))
	root.AddCommand(newDumpIRCmd(&configPath, loadConfig))
	root.AddCommand(newReplCmd(&configPath, loadConfig))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", bold("wasmc"), Version, Commit)
			return nil
		},
	}
}

func newCompileCmd(_ *string, loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a source file and run it through the configured backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			backend := interp.New(nil)
			res, cerr := pipeline.Compile(string(src), args[0], cfg, backend)
			printSinkIfAny(cmd.ErrOrStderr(), res)
			if cerr != nil {
				diag.PrintError(cmd.ErrOrStderr(), cerr)
				return fmt.Errorf("compilation failed")
			}

			cmd.OutOrStdout().Write(res.Output)
			diag.PrintSuccess(cmd.ErrOrStderr(), "compiled %s", args[0])
			return nil
		},
	}
}

func newDumpIRCmd(_ *string, loadConfig func() (config.Config, error)) *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "dump-ir <file>",
		Short: "Print one intermediate tier of a compiled program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			backend := interp.New(nil)
			res, cerr := pipeline.Compile(string(src), args[0], cfg, backend)
			printSinkIfAny(cmd.ErrOrStderr(), res)
			if cerr != nil {
				diag.PrintError(cmd.ErrOrStderr(), cerr)
				return fmt.Errorf("compilation failed")
			}

			out := cmd.OutOrStdout()
			switch tier {
			case "ast":
				fmt.Fprint(out, pretty.PrintAST(res.Surface))
			case "hir":
				fmt.Fprint(out, pretty.PrintHIR(res.HIR))
			case "mir":
				fmt.Fprint(out, pretty.PrintMIR(res.MIR))
			case "lir":
				fmt.Fprint(out, pretty.PrintLIR(res.LIR))
			default:
				return fmt.Errorf("unknown tier %q: want one of ast, hir, mir, lir", tier)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "mir", "which tier to print: ast, hir, mir, lir")
	return cmd
}

func newReplCmd(_ *string, loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-compile-run loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			runRepl(cfg, cmd.OutOrStdout())
			return nil
		},
	}
}

// runRepl reads one int expression per line, wraps it in a js-ffi.print
// call bound to a top-level val, and compiles+runs that program through
// internal/interp, printing its output; a blank line or end of input ends
// the session. Grounded on internal/repl/repl.go's liner-based
// line-editing session.
func runRepl(cfg config.Config, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	fmt.Fprintf(out, "%s %s\n", bold("wasmc"), Version)
	fmt.Fprintln(out, "Type an expression; blank input exits.")

	for {
		input, err := line.Prompt("wasmc> ")
		if err != nil {
			fmt.Fprintln(out, green("\nGoodbye!"))
			return
		}
		if input == "" {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		line.AppendHistory(input)

		src := "val _repl_result = extern js-ffi.print(" + input + " : int) : ()"
		backend := interp.New(nil)
		res, cerr := pipeline.Compile(src, "<repl>", cfg, backend)
		printSinkIfAny(out, res)
		if cerr != nil {
			diag.PrintError(out, cerr)
			continue
		}
		out.Write(res.Output)
	}
}

func printSinkIfAny(w io.Writer, res *pipeline.Result) {
	if res == nil || res.Sink == nil {
		return
	}
	diag.PrintSink(w, res.Sink)
}
