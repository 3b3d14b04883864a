package lexer

import (
	"fmt"

	"minilex/internal/token"
	"minilex/internal/trace"
)

// start dispatches a character seen in the Initial position.
func (lx *Lexer) start(ch rune, at Mark) error {
	switch {
	case isWhitespace(ch):
		lx.state = StateInitial
	case ch == 'i':
		lx.begin(StateKwI, at)
	case isLetter(ch):
		lx.begin(StateIdent, at)
	case isDigit(ch):
		lx.begin(StateIntLit, at)
	case ch == '>':
		lx.begin(StateGt, at)
	case ch == '=':
		lx.begin(StateAssign, at)
	case ch == '+':
		lx.begin(StatePlus, at)
	case ch == '-':
		lx.begin(StateMinus, at)
	case ch == '*':
		lx.begin(StateStar, at)
	case ch == '/':
		lx.begin(StateSlash, at)
	default:
		return lx.invalid(ch, at)
	}
	return nil
}

func (lx *Lexer) begin(s State, at Mark) {
	lx.state = s
	lx.tok = pending{kind: provisionalKind[s], start: at}
}

// seal commits the in-progress token ending at end with its final kind.
// The state is left for the caller to set.
func (lx *Lexer) seal(kind token.Kind, end Mark) {
	switch {
	case kind == lx.tok.kind:
	case kind == token.Ident && lx.tok.kind == token.KwInt:
		// незавершённое/прерванное ключевое слово
	default:
		panic(fmt.Errorf("lexer: sealing %s token as %s in state %s", lx.tok.kind, kind, lx.state))
	}
	if end.Off <= lx.tok.start.Off {
		panic(fmt.Errorf("lexer: empty %s token at %d", kind, end.Off))
	}

	tok := token.Token{
		Kind: kind,
		Text: lx.cursor.Text(lx.tok.start, end),
		Span: lx.cursor.SpanBetween(lx.tok.start, end),
		Pos:  lx.tok.start.Pos,
	}
	lx.out = append(lx.out, tok)
	lx.tok = pending{}

	if lx.traceTokens {
		trace.Point(lx.opts.Tracer, trace.ScopeToken, lx.opts.TraceParent, "seal",
			fmt.Sprintf("%s %q @%d", tok.Kind, tok.Text, tok.Pos))
	}
}

// invalid handles a character that cannot start a token.
func (lx *Lexer) invalid(ch rune, at Mark) error {
	if lx.opts.Mode == ModeStrict {
		return &InvalidCharacterError{Char: ch, Pos: at.Pos, Span: lx.cursor.SpanFrom(at)}
	}
	lx.report(ch, at)
	if lx.traceTokens {
		trace.Point(lx.opts.Tracer, trace.ScopeToken, lx.opts.TraceParent, "skip",
			fmt.Sprintf("%s @%d", DescribeChar(ch), at.Pos))
	}
	lx.state = StateInitial
	return nil
}
