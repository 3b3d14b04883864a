package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"minilex/internal/driver"
	"minilex/internal/lexer"
	"minilex/internal/observ"
	"minilex/internal/trace"
)

func newTokenizeCmd() *cobra.Command {
	tokenizeCmd := &cobra.Command{
		Use:   "tokenize [flags] <file.mlx|dir|->",
		Short: "Tokenize minilex source files",
		Long: `Tokenize breaks a .mlx file, every .mlx file under a directory, or stdin ("-")
into tokens. In strict mode the first invalid character fails the file; in
lenient mode invalid characters are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runTokenize,
	}
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	tokenizeCmd.Flags().String("mode", "strict", "lexer mode (strict|lenient)")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	tokenizeCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	tokenizeCmd.Flags().Bool("no-cache", false, "disable the token cache")
	tokenizeCmd.Flags().Bool("clear-cache", false, "remove cached token streams before the run")
	return tokenizeCmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	tracer := trace.FromContext(cmd.Context())
	span := trace.Begin(tracer, trace.ScopeDriver, "tokenize", 0).
		WithExtra("target", target).
		WithExtra("mode", s.mode.String())
	ctx := trace.WithSpan(cmd.Context(), span.ID())

	timer := observ.NewTimer()
	opts := driver.Options{
		Mode:           s.mode,
		MaxDiagnostics: s.cfg.Lexer.MaxDiagnostics,
		Jobs:           jobs,
		Cache:          s.openCache(cmd),
		Timer:          timer,
	}

	useUI := !s.quiet && shouldUseTUI(mode)
	res, err := collect(ctx, cmd, target, opts, useUI)
	if err != nil {
		span.End("error")
		return err
	}

	stopRender := timer.Measure("render")
	for _, r := range res.results {
		printDiagnostics(cmd.ErrOrStderr(), r.Bag, res.fs, s.color)
	}
	if res.dir {
		err = writeDirTokens(cmd.OutOrStdout(), s.cfg.Output.Format, res.results, res.fs)
	} else {
		err = writeTokens(cmd.OutOrStdout(), s.cfg.Output.Format, res.results[0].Tokens, res.fs)
	}
	stopRender()
	if err != nil {
		span.End("error")
		return err
	}

	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.failed() && s.mode == lexer.ModeStrict {
		span.End("failed")
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	span.End("ok")
	return nil
}
