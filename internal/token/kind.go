package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; it is never emitted.
	Invalid Kind = iota

	// Ident represents an identifier token.
	Ident
	// KwInt represents the 'int' keyword.
	KwInt // int
	// IntLit represents an unsigned integer literal.
	IntLit

	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// Assign represents the assign operator token.
	Assign // =
	// EqEq represents the equality operator token.
	EqEq // ==
	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
)

var kindNames = [...]string{
	Invalid: "Invalid",
	Ident:   "Identifier",
	KwInt:   "IntKeyword",
	IntLit:  "IntegerLiteral",
	Gt:      "GreaterThan",
	GtEq:    "GreaterOrEqual",
	Assign:  "Assign",
	EqEq:    "Equal",
	Plus:    "Plus",
	Minus:   "Minus",
	Star:    "Star",
	Slash:   "Slash",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String. The token cache stores kinds by
// name and decodes them with it.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s && Kind(i) != Invalid {
			return Kind(i), true
		}
	}
	return Invalid, false
}

// Valid reports whether k is one of the emitted kinds.
func (k Kind) Valid() bool {
	return k > Invalid && k <= Slash
}
