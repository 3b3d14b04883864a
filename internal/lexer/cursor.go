package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"minilex/internal/source"
)

// Cursor представляет собой позицию в файле: байтовое смещение и номер символа.
type Cursor struct {
	File *source.File
	Off  uint32 // байты
	Pos  int    // символы (руны), с нуля
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek декодирует текущий символ, не сдвигая курсор.
// На EOF возвращает (utf8.RuneError, 0). Битый байт UTF-8 читается как RuneError размера 1.
func (c *Cursor) Peek() (rune, int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// Bump сдвигает курсор на один символ и возвращает его.
func (c *Cursor) Bump() rune {
	r, sz := c.Peek()
	if sz == 0 {
		return r
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bump overflow: %w", err))
	}
	c.Off += usz
	c.Pos++
	return r
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark struct {
	Off uint32
	Pos int
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off, Pos: c.Pos}
}

// SpanFrom получает Span от метки до текущей позиции
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: m.Off, End: c.Off}
}

// SpanBetween получает Span между двумя метками
func (c *Cursor) SpanBetween(from, to Mark) source.Span {
	return source.Span{File: c.File.ID, Start: from.Off, End: to.Off}
}

// Text возвращает исходный текст между двумя метками.
func (c *Cursor) Text(from, to Mark) string {
	return string(c.File.Content[from.Off:to.Off])
}
