package diagfmt

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // relative to the FileSet base when below it
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
}

type JSONOpts struct {
	PathMode  PathMode
	Positions bool // line/col рядом с байтовыми смещениями
	Notes     bool
	Max       int // 0 - без ограничения
}
