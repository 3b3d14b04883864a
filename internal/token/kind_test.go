package token_test

import (
	"testing"

	"minilex/internal/source"
	"minilex/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.Ident:  "Identifier",
		token.KwInt:  "IntKeyword",
		token.IntLit: "IntegerLiteral",
		token.Gt:     "GreaterThan",
		token.GtEq:   "GreaterOrEqual",
		token.Assign: "Assign",
		token.EqEq:   "Equal",
		token.Plus:   "Plus",
		token.Minus:  "Minus",
		token.Star:   "Star",
		token.Slash:  "Slash",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
		back, ok := token.ParseKind(want)
		if !ok || back != k {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", want, back, ok, k)
		}
	}
	if got := token.Kind(200).String(); got != "Kind(200)" {
		t.Fatalf("unexpected out-of-range name %q", got)
	}
}

func TestParseKind_Rejects(t *testing.T) {
	for _, s := range []string{"", "Invalid", "identifier", "GE"} {
		if k, ok := token.ParseKind(s); ok {
			t.Fatalf("ParseKind(%q) = %v, want !ok", s, k)
		}
	}
}

func TestKindValid(t *testing.T) {
	if token.Invalid.Valid() {
		t.Fatalf("Invalid must not be valid")
	}
	for k := token.Ident; k <= token.Slash; k++ {
		if !k.Valid() {
			t.Fatalf("%v should be valid", k)
		}
	}
	if token.Kind(token.Slash + 1).Valid() {
		t.Fatalf("kind past Slash must not be valid")
	}
}

func TestIsOperator(t *testing.T) {
	ops := []token.Kind{
		token.Gt, token.GtEq, token.Assign, token.EqEq,
		token.Plus, token.Minus, token.Star, token.Slash,
	}
	for _, k := range ops {
		if !tok(k).IsOperator() {
			t.Fatalf("%v should be operator", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwInt, token.IntLit}
	for _, k := range non {
		if tok(k).IsOperator() {
			t.Fatalf("%v must NOT be operator", k)
		}
	}
}
