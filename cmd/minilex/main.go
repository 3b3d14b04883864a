package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"minilex/internal/version"
)

// errDiagnostics reports a failed run whose diagnostics are already printed.
var errDiagnostics = errors.New("errors reported")

// traceCleanup is set by setupTracing; main calls it once after Execute.
var traceCleanup = func(failed bool) {}

// newRootCmd builds the command tree with fresh flag sets.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minilex",
		Short: "Tokenizer for the minilex language",
		Long:  `minilex breaks .mlx sources into identifiers, the int keyword, integer literals and operators`,
		// Устанавливаем версию для автоматического флага --version
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cleanup, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			traceCleanup = cleanup
			return nil
		},
	}

	// Добавляем команды
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to minilex.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")

	return rootCmd
}

// main executes the root command and exits with status 1 on any error.
func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	traceCleanup(err != nil)
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
