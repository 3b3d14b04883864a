package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"minilex/internal/source"
	"minilex/internal/token"
)

// CheckTokens runs the token stream invariants for a scanned file:
// 1) every token has a valid kind, non-empty text and a span in file bounds
// 2) token text equals the source slice under its span
// 3) the text only contains characters legal for the kind
// 4) spans are strictly ordered and do not overlap, positions grow
func CheckTokens(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	prevPos := -1
	for i, tok := range toks {
		if !tok.Kind.Valid() {
			return fmt.Errorf("token %d: invalid kind %v", i, tok.Kind)
		}
		if tok.Text == "" {
			return fmt.Errorf("token %d: empty text", i)
		}
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start || sp.End > lenContent {
			return fmt.Errorf("token %d: bad span %v (content %d bytes)", i, sp, lenContent)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %d: text %q does not match source %q", i, tok.Text, got)
		}
		if err := checkAlphabet(tok); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		// порядок
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("token %d: span %v overlaps previous end %d", i, sp, prevEnd)
		}
		if tok.Pos <= prevPos {
			return fmt.Errorf("token %d: position %d not after %d", i, tok.Pos, prevPos)
		}
		prevEnd = sp.End
		prevPos = tok.Pos
	}
	return nil
}

func checkAlphabet(tok token.Token) error {
	text := tok.Text
	switch tok.Kind {
	case token.Ident:
		if !isLetter(text[0]) {
			return fmt.Errorf("identifier %q starts with %q", text, text[0])
		}
		for i := 1; i < len(text); i++ {
			c := text[i]
			if !isLetter(c) && !isDigit(c) && c != '_' {
				return fmt.Errorf("identifier %q contains %q", text, c)
			}
		}
	case token.KwInt:
		if text != "int" {
			return fmt.Errorf("keyword token with text %q", text)
		}
	case token.IntLit:
		for i := 0; i < len(text); i++ {
			if !isDigit(text[i]) {
				return fmt.Errorf("integer literal %q contains %q", text, text[i])
			}
		}
	default:
		if !tok.IsOperator() {
			return fmt.Errorf("unexpected kind %s", tok.Kind)
		}
		if want := operatorText[tok.Kind]; text != want {
			return fmt.Errorf("%s token with text %q, want %q", tok.Kind, text, want)
		}
	}
	return nil
}

var operatorText = map[token.Kind]string{
	token.Gt:     ">",
	token.GtEq:   ">=",
	token.Assign: "=",
	token.EqEq:   "==",
	token.Plus:   "+",
	token.Minus:  "-",
	token.Star:   "*",
	token.Slash:  "/",
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
