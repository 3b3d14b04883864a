package diagfmt

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"minilex/internal/source"
	"minilex/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind" msgpack:"kind"`
	Text string      `json:"text" msgpack:"text"`
	Pos  int         `json:"pos" msgpack:"pos"`
	Line uint32      `json:"line" msgpack:"line"`
	Col  uint32      `json:"col" msgpack:"col"`
	Span source.Span `json:"span" msgpack:"span"`
}

// FileTokensOutput группирует токены одного файла.
type FileTokensOutput struct {
	File   string        `json:"file" msgpack:"file"`
	Tokens []TokenOutput `json:"tokens" msgpack:"tokens"`
}

// BuildTokensOutput переводит токены в сериализуемый вид.
func BuildTokensOutput(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, _ := fs.Resolve(tok.Span)
		out = append(out, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Pos:  tok.Pos,
			Line: start.Line,
			Col:  start.Col,
			Span: tok.Span,
		})
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-15s %q at %d:%d-%d:%d (pos %d)\n",
			i+1, tok.Kind.String(), tok.Text,
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col, tok.Pos); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return encodeIndented(w, BuildTokensOutput(tokens, fs))
}

// FormatTokensMsgpack пишет токены одним msgpack-массивом.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return msgpack.NewEncoder(w).Encode(BuildTokensOutput(tokens, fs))
}

// FormatFilesJSON выводит токены нескольких файлов (режим каталога).
func FormatFilesJSON(w io.Writer, files []FileTokensOutput) error {
	return encodeIndented(w, files)
}

// FormatFilesMsgpack выводит токены нескольких файлов в msgpack.
func FormatFilesMsgpack(w io.Writer, files []FileTokensOutput) error {
	return msgpack.NewEncoder(w).Encode(files)
}
