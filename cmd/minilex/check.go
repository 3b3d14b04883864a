package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"minilex/internal/driver"
	"minilex/internal/lexer"
	"minilex/internal/observ"
	"minilex/internal/trace"
)

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [flags] <file.mlx|dir>",
		Short: "Report invalid characters without printing tokens",
		Long:  `Check tokenizes in strict mode and prints diagnostics only; it exits with status 1 if any file fails.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	checkCmd.Flags().Bool("no-cache", false, "disable the token cache")
	checkCmd.Flags().Bool("clear-cache", false, "remove cached token streams before the run")
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	return checkCmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	tracer := trace.FromContext(cmd.Context())
	span := trace.Begin(tracer, trace.ScopeDriver, "check", 0).WithExtra("target", target)
	ctx := trace.WithSpan(cmd.Context(), span.ID())

	timer := observ.NewTimer()
	opts := driver.Options{
		Mode:           lexer.ModeStrict,
		MaxDiagnostics: s.cfg.Lexer.MaxDiagnostics,
		Jobs:           jobs,
		Cache:          s.openCache(cmd),
		Timer:          timer,
	}

	res, err := collect(ctx, cmd, target, opts, false)
	if err != nil {
		span.End("error")
		return err
	}

	if format == "json" {
		if err := writeDiagnosticsJSON(cmd.OutOrStdout(), res); err != nil {
			span.End("error")
			return err
		}
	} else {
		for _, r := range res.results {
			printDiagnostics(cmd.ErrOrStderr(), r.Bag, res.fs, s.color)
		}
	}
	if !s.quiet && format == "pretty" {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s): %d error(s)\n", len(res.results), res.errorCount())
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.failed() {
		span.End("failed")
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	span.End("ok")
	return nil
}
