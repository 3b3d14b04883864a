package source

import (
	"bytes"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type (
	// FileID indexes a File inside its FileSet.
	FileID uint32
	// FileFlags records how a file was obtained.
	FileFlags uint8
)

const (
	// FileVirtual: content came from memory (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM: a UTF-8 byte order mark was stripped on load.
	FileHadBOM
	// FileInvalidUTF8: content is not text; the lexer refuses it.
	FileInvalidUTF8
)

// File is one source text. Content is never modified after it is added.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags

	lineStarts []uint32 // байтовые смещения начала каждой строки; [0] == 0
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}

// Textual reports whether the content is valid UTF-8.
func (f *File) Textual() bool {
	return f.Flags&FileInvalidUTF8 == 0
}

// Size is len(Content) as an offset.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return n
}

// Lines returns the number of lines; a trailing newline opens an empty last line.
func (f *File) Lines() int {
	return len(f.lineStarts)
}

// Position maps a byte offset to its line and column. The newline byte
// belongs to the line it ends.
func (f *File) Position(off uint32) LineCol {
	i, exact := slices.BinarySearch(f.lineStarts, off)
	if !exact {
		i--
	}
	return LineCol{Line: uint32(i + 1), Col: off - f.lineStarts[i] + 1}
}

// Line returns line n (1-based) without its '\n', or "" when out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := f.Size()
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return string(f.Content[start:end])
}

func indexLines(content []byte) []uint32 {
	starts := make([]uint32, 1, bytes.Count(content, []byte{'\n'})+1)
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return starts
		}
		off += i + 1
		next, err := safecast.Conv[uint32](off)
		if err != nil {
			panic(fmt.Errorf("line offset overflow: %w", err))
		}
		starts = append(starts, next)
	}
}
