package lexer

import (
	"fmt"
	"strings"

	"minilex/internal/diag"
	"minilex/internal/trace"
)

// Mode selects what happens on a character outside the alphabet.
type Mode uint8

const (
	// ModeStrict aborts on the first invalid character.
	ModeStrict Mode = iota
	// ModeLenient reports the character and skips it.
	ModeLenient
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLenient:
		return "lenient"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return ModeStrict, nil
	case "lenient":
		return ModeLenient, nil
	default:
		return ModeStrict, fmt.Errorf("invalid lexer mode: %q (expected: strict|lenient)", s)
	}
}

type Options struct {
	Mode     Mode
	Reporter diag.Reporter // может быть nil, тогда ошибки в lenient режиме просто пропускаем
	// Tracer получает события по каждому токену на уровне debug; nil: без трассировки.
	Tracer      trace.Tracer
	TraceParent uint64
}

func (lx *Lexer) report(ch rune, m Mark) {
	if lx.opts.Reporter == nil {
		return
	}
	sp := lx.cursor.SpanFrom(m)
	diag.ReportError(lx.opts.Reporter, diag.LexInvalidChar, sp, "invalid character "+DescribeChar(ch)).
		WithNote(sp, fmt.Sprintf("skipped at position %d", m.Pos)).
		Emit()
}
