package diagfmt

import (
	"path/filepath"

	"minilex/internal/source"
)

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeRelative, PathModeAuto:
		return fs.DisplayPath(id)
	default:
		return f.Path
	}
}
