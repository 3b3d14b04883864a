package token

import (
	"minilex/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
	Pos  int // индекс первого символа (в рунах, с нуля)
}

// IsOperator reports whether the token is a relational, assignment or arithmetic operator.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case Gt, GtEq, Assign, EqEq, Plus, Minus, Star, Slash:
		return true
	default:
		return false
	}
}
