package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hidl/internal/trace"
	"hidl/internal/version"
)

// errFailed signals that diagnostics were already printed and the process
// should exit with status 1 without another message.
var errFailed = errors.New("resolution failed")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hidl",
		Short:         "HIDL module resolver",
		Long:          `hidl locates, parses and validates .hal modules and their imports`,
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.StringArrayP("root", "r", nil, "package root as prefix:path (repeatable, wins over hidl.toml)")
	pf.String("config", "", "path to hidl.toml (default: search upwards from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.BoolP("verbose", "v", false, "log every resolution step to stderr")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.Bool("disk-cache", false, "reuse parse results from the on-disk cache")
	pf.String("path-mode", "auto", "diagnostic path display (auto|absolute|relative|basename)")

	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level ("+strings.Join(trace.LevelNames(), "|")+")")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode=ring|both")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime execution trace to this file")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func main() {
	os.Exit(hidlMain())
}

// hidlMain builds the command tree, executes it and returns the exit code.
// Any error maps to 1; errFailed is silent.
func hidlMain() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			rootCmd.PrintErrln("hidl:", err)
		}
		return 1
	}
	return 0
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
