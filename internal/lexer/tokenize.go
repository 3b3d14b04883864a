package lexer

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"minilex/internal/diag"
	"minilex/internal/source"
	"minilex/internal/token"
)

// Result is the never-failing form of a tokenize call.
type Result struct {
	Tokens  []token.Token
	Success bool
	Err     error
}

// Message returns the error text or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Tokenize scans src in strict mode.
func Tokenize(src string) ([]token.Token, error) {
	return scanString(src, Options{Mode: ModeStrict}).result()
}

// TokenizeLenient scans src skipping invalid characters; each one is reported
// to r as diag.LexInvalidChar. A byte that is not valid UTF-8 counts as one
// invalid character. r may be nil.
func TokenizeLenient(src string, r diag.Reporter) []token.Token {
	toks, _ := scanString(src, Options{Mode: ModeLenient, Reporter: r}).result()
	return toks
}

// TokenizeSafe scans src in strict mode and reports failure in the result.
func TokenizeSafe(src string) Result {
	res := scanString(src, Options{Mode: ModeStrict})
	if res.failed() {
		return Result{Tokens: []token.Token{}, Err: res.err}
	}
	return Result{Tokens: res.tokens, Success: true}
}

// TokenizeInput accepts a string or UTF-8 encoded []byte and rejects anything
// else with ErrInvalidInput before scanning.
func TokenizeInput(v any) ([]token.Token, error) {
	switch in := v.(type) {
	case string:
		return Tokenize(in)
	case []byte:
		if !utf8.Valid(in) {
			return nil, &InvalidInputError{Type: "[]byte", Reason: "content is not valid UTF-8"}
		}
		return Tokenize(string(in))
	default:
		return nil, &InvalidInputError{Type: fmt.Sprintf("%T", v)}
	}
}

func (o outcome) result() ([]token.Token, error) {
	if o.failed() {
		return nil, o.err
	}
	return o.tokens, nil
}

func scanString(src string, opts Options) outcome {
	fs := source.NewFileSet()
	id := fs.AddVirtual("input", []byte(src))
	res := New(fs.Get(id), opts).scan()
	var iie *InvalidInputError
	if errors.As(res.err, &iie) && iie.Type == "" {
		iie.Type = "string"
	}
	return res
}
