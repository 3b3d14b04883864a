package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"minilex/internal/config"
	"minilex/internal/driver"
	"minilex/internal/lexer"
)

// runSettings is minilex.toml with command-line flags applied on top.
type runSettings struct {
	cfg        config.Config
	configPath string
	mode       lexer.Mode
	color      bool
	quiet      bool
	timings    bool
}

// loadSettings reads the config file and overrides every value whose flag
// was set explicitly.
func loadSettings(cmd *cobra.Command) (*runSettings, error) {
	root := cmd.Root().PersistentFlags()

	configFlag, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, path, err := config.Discover(configFlag, "")
	if err != nil {
		return nil, err
	}

	if root.Changed("max-diagnostics") {
		if cfg.Lexer.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if root.Changed("color") {
		if cfg.Output.Color, err = root.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	flags := cmd.Flags()
	if flags.Lookup("mode") != nil && flags.Changed("mode") {
		if cfg.Lexer.Mode, err = flags.GetString("mode"); err != nil {
			return nil, fmt.Errorf("failed to get mode flag: %w", err)
		}
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		format, err := flags.GetString("format")
		if err != nil {
			return nil, fmt.Errorf("failed to get format flag: %w", err)
		}
		cfg.Output.Format = strings.ToLower(format)
	}
	if flags.Lookup("no-cache") != nil && flags.Changed("no-cache") {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
		}
		cfg.Cache.Enabled = !noCache
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := cfg.LexerMode()
	if err != nil {
		return nil, err
	}
	useColor, err := resolveColor(cfg.Output.Color, os.Stderr)
	if err != nil {
		return nil, err
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	return &runSettings{
		cfg:        cfg,
		configPath: path,
		mode:       mode,
		color:      useColor,
		quiet:      quiet,
		timings:    timings,
	}, nil
}

// openCache opens the token cache when enabled, emptying it first on
// --clear-cache. A cache that cannot be opened only disables caching.
func (s *runSettings) openCache(cmd *cobra.Command) *driver.TokenCache {
	if !s.cfg.Cache.Enabled {
		return nil
	}
	cache, err := driver.OpenTokenCache(s.cfg.Cache.Dir, "minilex")
	if err != nil {
		s.warn(cmd, "token cache disabled: %v", err)
		return nil
	}
	if drop, _ := cmd.Flags().GetBool("clear-cache"); drop {
		if err := cache.DropAll(); err != nil {
			s.warn(cmd, "failed to clear token cache: %v", err)
		}
	}
	return cache
}

func (s *runSettings) warn(cmd *cobra.Command, format string, args ...any) {
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
	}
}
