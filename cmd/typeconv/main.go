package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"typeconv/internal/observ"
	"typeconv/internal/version"
)

// app carries per-invocation state shared by every subcommand.
type app struct {
	timer    *observ.Timer
	cleanups []func()
	failed   func(io.Writer)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{timer: observ.NewTimer()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && a.failed != nil {
		a.failed(stderr)
	}
	a.teardown()
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "typeconv",
		Short:         "Type compatibility tables and overload selection",
		Long:          `typeconv registers conversion rules between types and ranks overload candidates by the conversions a call needs.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress warnings and non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 64, "maximum number of diagnostics to collect")
	pf.String("fail-on", "error", "lowest table diagnostic severity that aborts the command (info|warning|error)")
	pf.String("config", "", "path to typeconv.toml (default: search upward from the working directory)")
	pf.String("table", "", "type table file (.toml or .yaml); overrides the manifest")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(
		newCheckCmd(a),
		newSelectCmd(a),
		newResolveCmd(a),
		newTableCmd(a),
		newStatsCmd(a),
		newStressCmd(a),
		newBenchCmd(a),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	if err := applyColorMode(mode, cmd.OutOrStdout()); err != nil {
		return err
	}

	cleanupTrace, err := setupTracing(cmd, a)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, cleanupTrace)

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, cleanupProf)

	if timings, _ := cmd.Flags().GetBool("timings"); timings {
		a.cleanups = append(a.cleanups, func() {
			fmt.Fprint(cmd.ErrOrStderr(), a.timer.Summary())
		})
	}
	return nil
}

// teardown runs cleanups in reverse order.
func (a *app) teardown() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func applyColorMode(mode string, out io.Writer) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "", "auto":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !isTerminal(f) || os.Getenv("NO_COLOR") != ""
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
