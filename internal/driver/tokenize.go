package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minilex/internal/diag"
	"minilex/internal/lexer"
	"minilex/internal/source"
	"minilex/internal/token"
	"minilex/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Cached  bool
}

// Failed reports whether the file produced error diagnostics.
func (r *TokenizeResult) Failed() bool {
	return r.Bag.HasErrors()
}

// Tokenize загружает файл с диска и токенизирует его.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()

	start := time.Now()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	opts.Timer.Add("load", time.Since(start))

	return tokenizeLoaded(ctx, fs, fileID, opts), nil
}

// TokenizeSource токенизирует содержимое из памяти (stdin, тесты).
func TokenizeSource(ctx context.Context, name string, content []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return tokenizeLoaded(ctx, fs, fileID, opts)
}

func tokenizeLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *TokenizeResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	toks, cached := tokenizeFile(ctx, file, bag, opts)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  toks,
		Bag:     bag,
		Cached:  cached,
	}
}

// tokenizeFile runs the lexer over one loaded file, consulting the cache.
// Ошибки лексера превращаются в диагностики в bag.
func tokenizeFile(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) ([]token.Token, bool) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file", trace.ParentFromContext(ctx)).
		WithExtra("path", file.Path)
	defer span.End("")

	if !file.Textual() {
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.LexInvalidInput, source.Span{File: file.ID},
			"file is not valid UTF-8 text").Emit()
		span.WithExtra("status", "invalid-input")
		return nil, false
	}

	key := opts.Cache.Key(file.Content, opts.Mode)
	if payload, ok := opts.Cache.lookup(key, bag); ok {
		if toks, ok := payload.restore(file, bag); ok {
			span.WithExtra("cache", "hit")
			return toks, true
		}
	}

	stopLex := opts.Timer.Measure("lex")
	reported := 0
	reporter := diag.NewDedupReporter(diag.ReporterFunc(func(d diag.Diagnostic) {
		reported++
		bag.Add(d)
	}))
	lx := lexer.New(file, lexer.Options{
		Mode:        opts.Mode,
		Reporter:    reporter,
		Tracer:      tracer,
		TraceParent: span.ID(),
	})
	toks, err := lx.Run()
	stopLex()

	if err != nil {
		var ice *lexer.InvalidCharacterError
		if !errors.As(err, &ice) {
			diag.ReportError(reporter, diag.LexInvalidInput, source.Span{File: file.ID}, err.Error()).Emit()
			return nil, false
		}
		diag.ReportError(reporter, diag.LexInvalidChar, ice.Span, "invalid character "+lexer.DescribeChar(ice.Char)).
			WithNote(ice.Span, fmt.Sprintf("at position %d", ice.Pos)).
			Emit()
		toks = nil
	}
	span.WithExtra("tokens", fmt.Sprint(len(toks))).
		WithExtra("diagnostics", fmt.Sprint(reported))

	opts.Cache.store(key, opts.Mode, toks, bag)
	return toks, false
}
