package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"minilex/internal/diag"
	"minilex/internal/driver"
	"minilex/internal/source"
)

// collectResult is the uniform view of a file, stdin or directory run.
type collectResult struct {
	fs      *source.FileSet
	results []driver.TokenizeDirResult
	dir     bool
}

func (r *collectResult) failed() bool {
	for _, res := range r.results {
		if res.Bag.HasErrors() {
			return true
		}
	}
	return false
}

func (r *collectResult) errorCount() int {
	n := 0
	for _, res := range r.results {
		n += res.Bag.Count(diag.SevError) + res.Bag.Dropped()
	}
	return n
}

// collect tokenizes target: "-" reads stdin, a directory is walked for .mlx
// files, anything else is a single file.
func collect(ctx context.Context, cmd *cobra.Command, target string, opts driver.Options, useUI bool) (*collectResult, error) {
	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		res := driver.TokenizeSource(ctx, "<stdin>", content, opts)
		return single(res), nil
	}

	st, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		res, err := driver.Tokenize(ctx, target, opts)
		if err != nil {
			return nil, fmt.Errorf("tokenization failed: %w", err)
		}
		return single(res), nil
	}

	var (
		fs      *source.FileSet
		results []driver.TokenizeDirResult
	)
	if useUI {
		fs, results, err = runTokenizeDirWithUI(ctx, "tokenize "+target, target, opts)
	} else {
		fs, results, err = driver.TokenizeDir(ctx, target, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}
	return &collectResult{fs: fs, results: results, dir: true}, nil
}

func single(res *driver.TokenizeResult) *collectResult {
	return &collectResult{
		fs: res.FileSet,
		results: []driver.TokenizeDirResult{{
			Path:   res.File.Path,
			FileID: res.File.ID,
			Loaded: true,
			Tokens: res.Tokens,
			Bag:    res.Bag,
			Cached: res.Cached,
		}},
	}
}
