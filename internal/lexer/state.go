package lexer

import (
	"fmt"

	"minilex/internal/token"
)

// State is a state of the tokenizer automaton.
type State uint8

const (
	StateInitial State = iota
	StateIdent         // identifier body
	StateKwI           // "i", может стать ключевым словом int
	StateKwIn          // "in"
	StateKwInt         // "int"; ключевое слово только перед пробелом или EOF
	StateIntLit        // digits
	StateGt            // >
	StateGtEq          // >=  (terminal)
	StateAssign        // =
	StateEqEq          // ==  (terminal)
	StatePlus          // +   (terminal)
	StateMinus         // -   (terminal)
	StateStar          // *   (terminal)
	StateSlash         // /   (terminal)
	stateCount
)

var stateNames = [...]string{
	StateInitial: "Initial",
	StateIdent:   "InIdentifier",
	StateKwI:     "InKeywordInt_i",
	StateKwIn:    "InKeywordInt_in",
	StateKwInt:   "InKeywordInt_int",
	StateIntLit:  "InIntegerLiteral",
	StateGt:      "InGreaterThan",
	StateGtEq:    "InGreaterOrEqual",
	StateAssign:  "InAssign",
	StateEqEq:    "InEqual",
	StatePlus:    "InPlus",
	StateMinus:   "InMinus",
	StateStar:    "InStar",
	StateSlash:   "InSlash",
}

func (s State) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// provisionalKind is the kind an in-progress token must carry in each state.
// Keyword states carry KwInt until the keyword is confirmed or demoted.
var provisionalKind = [stateCount]token.Kind{
	StateInitial: token.Invalid,
	StateIdent:   token.Ident,
	StateKwI:     token.KwInt,
	StateKwIn:    token.KwInt,
	StateKwInt:   token.KwInt,
	StateIntLit:  token.IntLit,
	StateGt:      token.Gt,
	StateGtEq:    token.GtEq,
	StateAssign:  token.Assign,
	StateEqEq:    token.EqEq,
	StatePlus:    token.Plus,
	StateMinus:   token.Minus,
	StateStar:    token.Star,
	StateSlash:   token.Slash,
}

// terminal reports whether the state always seals on the next character.
func (s State) terminal() bool {
	switch s {
	case StateGtEq, StateEqEq, StatePlus, StateMinus, StateStar, StateSlash:
		return true
	default:
		return false
	}
}
