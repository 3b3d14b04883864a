package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileSet owns the files of one run. Spans refer to files by FileID.
// A FileSet is not safe for concurrent mutation; the driver loads files
// sequentially before lexing them in parallel.
type FileSet struct {
	files   []File
	baseDir string // для DisplayPath; пусто - пути как есть
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase makes DisplayPath report paths relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

// Add stores content under path and returns its new ID. Adding the same
// path twice yields two files.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if !utf8.Valid(content) {
		flags |= FileInvalidUTF8
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:         id,
		Path:       filepath.ToSlash(filepath.Clean(path)),
		Content:    content,
		Flags:      flags,
		lineStarts: indexLines(content),
	})
	return id
}

// AddVirtual adds in-memory content (stdin, tests) with FileVirtual set.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path and adds it with a leading BOM stripped.
// Line endings are kept: '\r' is whitespace to the lexer.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	return fs.Add(path, content, flags), nil
}

func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve returns the line/column of both ends of span.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return f.Position(span.Start), f.Position(span.End)
}

// DisplayPath is the path shown to users: relative to the base directory
// when the file lies below it, the stored path otherwise.
func (fs *FileSet) DisplayPath(id FileID) string {
	f := fs.Get(id)
	if f.Flags&FileVirtual != 0 || fs.baseDir == "" {
		return f.Path
	}
	if rel, ok := below(f.Path, fs.baseDir); ok {
		return rel
	}
	return f.Path
}

func below(path, base string) (string, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
