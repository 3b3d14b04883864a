// Package config loads minilex.toml: lexer mode, output format and the
// token cache location.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"minilex/internal/lexer"
)

// FileName is the name looked up by Find.
const FileName = "minilex.toml"

type Config struct {
	Lexer  LexerConfig  `toml:"lexer"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

type LexerConfig struct {
	Mode           string `toml:"mode"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Lexer:  LexerConfig{Mode: "strict", MaxDiagnostics: 100},
		Output: OutputConfig{Format: "pretty", Color: "auto"},
		Cache:  CacheConfig{Enabled: true},
	}
}

// LexerMode parses Lexer.Mode.
func (c Config) LexerMode() (lexer.Mode, error) {
	return lexer.ParseMode(c.Lexer.Mode)
}

// Find walks up from startDir looking for minilex.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults and validates the result.
// Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		// относительный путь считается от каталога файла
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Cache.Dir))
	}
	return cfg, nil
}

// Discover loads an explicit path, or the nearest minilex.toml above
// startDir, or the defaults. The returned path is "" for defaults.
func Discover(explicit, startDir string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks enumerated values and limits.
func (c Config) Validate() error {
	if _, err := c.LexerMode(); err != nil {
		return fmt.Errorf("[lexer].mode: %w", err)
	}
	if c.Lexer.MaxDiagnostics < 0 {
		return fmt.Errorf("[lexer].max_diagnostics must be >= 0, got %d", c.Lexer.MaxDiagnostics)
	}
	switch c.Output.Format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("[output].format: unknown format %q (expected: pretty|json|msgpack)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color: unknown value %q (expected: auto|on|off)", c.Output.Color)
	}
	return nil
}
