package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/runenames"

	"minilex/internal/source"
)

var (
	// ErrInvalidInput is returned when the input is not text.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCharacter matches every *InvalidCharacterError.
	ErrInvalidCharacter = errors.New("invalid character")
)

// InvalidInputError describes input rejected before scanning.
type InvalidInputError struct {
	Type   string // Go type of the rejected value; empty for a loaded file
	Reason string
}

func (e *InvalidInputError) Error() string {
	switch {
	case e.Reason == "":
		return fmt.Sprintf("invalid input: expected text, got %s", e.Type)
	case e.Type == "":
		return "invalid input: " + e.Reason
	default:
		return fmt.Sprintf("invalid input: %s (%s)", e.Reason, e.Type)
	}
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidCharacterError is returned by strict scanning at the first
// character that cannot start a token.
type InvalidCharacterError struct {
	Char rune
	Pos  int // 0-based character index
	Span source.Span
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %s at position %d", DescribeChar(e.Char), e.Pos)
}

func (e *InvalidCharacterError) Is(target error) bool { return target == ErrInvalidCharacter }

// DescribeChar renders a rune as quoted text plus its Unicode name: '#' (NUMBER SIGN).
func DescribeChar(r rune) string {
	q := strconv.QuoteRune(r)
	name := runenames.Name(r)
	if name == "" || name == "<control>" {
		return fmt.Sprintf("%s (U+%04X)", q, r)
	}
	return fmt.Sprintf("%s (%s)", q, name)
}
