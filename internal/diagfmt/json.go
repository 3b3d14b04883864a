package diagfmt

import (
	"encoding/json"
	"io"

	"minilex/internal/diag"
	"minilex/internal/source"
)

// PositionJSON is a 1-based line and byte column.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LocationJSON is a span: Bytes holds [start, end) offsets.
type LocationJSON struct {
	File  string        `json:"file"`
	Bytes [2]uint32     `json:"bytes"`
	Start *PositionJSON `json:"start,omitempty"`
	End   *PositionJSON `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the diagnostics of one bag. Dropped counts both the
// bag's overflow and entries cut by JSONOpts.Max.
type DiagnosticsOutput struct {
	File        string           `json:"file,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (l locator) location(sp source.Span) LocationJSON {
	loc := LocationJSON{
		File:  formatPath(l.fs, sp.File, l.opts.PathMode),
		Bytes: [2]uint32{sp.Start, sp.End},
	}
	if l.opts.Positions {
		start, end := l.fs.Resolve(sp)
		loc.Start = &PositionJSON{Line: start.Line, Col: start.Col}
		loc.End = &PositionJSON{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildDiagnosticsOutput converts bag without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	l := locator{fs: fs, opts: opts}

	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Dropped:     bag.Dropped() + bag.Len() - len(items),
	}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: l.location(d.Primary),
		}
		if opts.Notes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: l.location(n.Span)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the diagnostics of bag as one indented JSON object.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return encodeIndented(w, BuildDiagnosticsOutput(bag, fs, opts))
}

// FilesDiagnosticsJSON writes several per-file outputs as one JSON array.
func FilesDiagnosticsJSON(w io.Writer, files []DiagnosticsOutput) error {
	return encodeIndented(w, files)
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
