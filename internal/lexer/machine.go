package lexer

import (
	"fmt"

	"minilex/internal/token"
)

// step feeds one character to the automaton. at marks the character start,
// the cursor is already past it.
func (lx *Lexer) step(ch rune, at Mark) error {
	switch lx.state {
	case StateInitial:
		return lx.start(ch, at)

	case StateIdent:
		if isIdentContinue(ch) {
			return nil
		}
		lx.seal(token.Ident, at)
		return lx.start(ch, at)

	case StateKwI:
		return lx.keyword(ch, at, 'n', StateKwIn)

	case StateKwIn:
		return lx.keyword(ch, at, 't', StateKwInt)

	case StateKwInt:
		switch {
		case isIdentContinue(ch):
			lx.demote()
			return nil
		case isWhitespace(ch):
			lx.seal(token.KwInt, at)
			lx.state = StateInitial
			return nil
		default:
			// "int>" и т.п.: ключевое слово только перед пробелом
			lx.seal(token.Ident, at)
			return lx.start(ch, at)
		}

	case StateIntLit:
		if isDigit(ch) {
			return nil
		}
		lx.seal(token.IntLit, at)
		return lx.start(ch, at)

	case StateGt:
		if ch == '=' {
			lx.upgrade(StateGtEq)
			return nil
		}
		lx.seal(token.Gt, at)
		return lx.start(ch, at)

	case StateAssign:
		if ch == '=' {
			lx.upgrade(StateEqEq)
			return nil
		}
		lx.seal(token.Assign, at)
		return lx.start(ch, at)
	}

	if lx.state.terminal() {
		lx.seal(provisionalKind[lx.state], at)
		return lx.start(ch, at)
	}
	panic(fmt.Errorf("lexer: unreachable state %s on %q", lx.state, ch))
}

// keyword advances the int sub-automaton on the expected letter, demotes on any
// other continuation character and seals an identifier otherwise.
func (lx *Lexer) keyword(ch rune, at Mark, want rune, next State) error {
	switch {
	case ch == want:
		lx.expect()
		lx.state = next
		return nil
	case isIdentContinue(ch):
		lx.demote()
		return nil
	default:
		lx.seal(token.Ident, at)
		return lx.start(ch, at)
	}
}

// finish flushes the in-progress token at end of input.
func (lx *Lexer) finish(end Mark) {
	switch lx.state {
	case StateInitial:
		return
	case StateKwI, StateKwIn:
		lx.seal(token.Ident, end)
	default:
		lx.seal(provisionalKind[lx.state], end)
	}
	lx.state = StateInitial
}

// expect panics when the in-progress token disagrees with the current state.
func (lx *Lexer) expect() {
	if want := provisionalKind[lx.state]; lx.tok.kind != want {
		panic(fmt.Errorf("lexer: state %s holds %s token, want %s", lx.state, lx.tok.kind, want))
	}
}

func (lx *Lexer) demote() {
	lx.expect()
	lx.state = StateIdent
	lx.tok.kind = token.Ident
}

func (lx *Lexer) upgrade(next State) {
	lx.expect()
	lx.state = next
	lx.tok.kind = provisionalKind[next]
}
