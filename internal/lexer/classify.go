package lexer

// ===== Классификаторы =====
// Только ASCII: Unicode-буквы в алфавит языка не входят.

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isIdentContinue(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}
