package main

import (
	"fmt"
	"io"

	"minilex/internal/diag"
	"minilex/internal/diagfmt"
	"minilex/internal/driver"
	"minilex/internal/source"
	"minilex/internal/token"
)

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, color bool) {
	if bag == nil || (bag.Len() == 0 && bag.Dropped() == 0) {
		return
	}
	bag.Sort()
	bag.Dedup()
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: color, ShowNotes: true})
}

func writeTokens(w io.Writer, format string, tokens []token.Token, fs *source.FileSet) error {
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(w, tokens, fs)
	case "json":
		return diagfmt.FormatTokensJSON(w, tokens, fs)
	case "msgpack":
		return diagfmt.FormatTokensMsgpack(w, tokens, fs)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeDirTokens(w io.Writer, format string, results []driver.TokenizeDirResult, fs *source.FileSet) error {
	switch format {
	case "pretty":
		for _, r := range results {
			if !r.Loaded {
				continue
			}
			if _, err := fmt.Fprintf(w, "== %s ==\n", fs.DisplayPath(r.FileID)); err != nil {
				return err
			}
			if err := diagfmt.FormatTokensPretty(w, r.Tokens, fs); err != nil {
				return err
			}
		}
		return nil
	case "json", "msgpack":
		files := make([]diagfmt.FileTokensOutput, 0, len(results))
		for _, r := range results {
			if !r.Loaded {
				continue
			}
			files = append(files, diagfmt.FileTokensOutput{
				File:   fs.DisplayPath(r.FileID),
				Tokens: diagfmt.BuildTokensOutput(r.Tokens, fs),
			})
		}
		if format == "json" {
			return diagfmt.FormatFilesJSON(w, files)
		}
		return diagfmt.FormatFilesMsgpack(w, files)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeDiagnosticsJSON prints one entry per file, including files without
// diagnostics.
func writeDiagnosticsJSON(w io.Writer, res *collectResult) error {
	files := make([]diagfmt.DiagnosticsOutput, 0, len(res.results))
	for _, r := range res.results {
		r.Bag.Sort()
		r.Bag.Dedup()
		out := diagfmt.BuildDiagnosticsOutput(r.Bag, res.fs, diagfmt.JSONOpts{Positions: true, Notes: true})
		out.File = res.fs.DisplayPath(r.FileID)
		files = append(files, out)
	}
	return diagfmt.FilesDiagnosticsJSON(w, files)
}
