package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"symtab/internal/version"
)

// errSilent signals a failing exit status whose cause was already printed.
var errSilent = errors.New("silent failure")

var rootCmd = &cobra.Command{
	Use:   "symtab",
	Short: "Scoped symbol table explorer for Java sources",
	Long: `symtab builds a hierarchical symbol table for Java sources: one scope
per class, method and block, with shadowing-aware lookup and a tree dump.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConfig(cmd); err != nil {
			return err
		}
		if err := setupColor(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return startProfiling(cmd)
	},
}

// traceCleanup is set once tracing is initialized; it runs even when the
// command fails.
var traceCleanup = func() {}

// main initializes the CLI by registering subcommands and persistent flags,
// then executes the root command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to symtab.toml (default: search upward from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("jobs", 0, "files analyzed in parallel (0 = GOMAXPROCS)")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	flags.String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
	flags.String("ui", "auto", "progress UI when analyzing several files (auto|on|off)")
	flags.Bool("warn-shadow", false, "warn when a declaration hides an outer binding")
	flags.Bool("warn-redeclare", false, "warn when a name is declared twice in one scope")
	flags.Bool("no-prelude", false, "do not predeclare java.lang classes")
	flags.Bool("destroy-blocks", false, "destroy block scopes as soon as they are left")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("exec-trace", "", "write a runtime execution trace to this file")

	err := rootCmd.Execute()
	if stopErr := profiling.Stop(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "symtab: %v\n", stopErr)
	}
	traceCleanup()
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "symtab: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
