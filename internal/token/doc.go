// Package token defines lexical token kinds produced by the minilex lexer.
// Invariants:
//   - Token.Text is never empty and holds exactly the matched source characters.
//   - Token.Span matches Text exactly (Start..End, byte offsets).
//   - Token.Pos is the 0-based character index of the first character of Text.
//   - Invalid is a sentinel and never appears in a token stream.
//   - Whitespace is a separator only; there is no trivia.
package token
