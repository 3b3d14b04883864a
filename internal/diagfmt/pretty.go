package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"minilex/internal/diag"
	"minilex/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	gutter *color.Color
	caret  *color.Color
	note   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	all := []*color.Color{p.code, p.gutter, p.caret, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	// явное включение/выключение, не зависим от color.NoColor
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		sev, ok := p.sev[d.Severity]
		if !ok {
			sev = p.code
		}
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col,
			sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)

		writeSnippet(w, fs, d.Primary, p)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
					formatPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
			}
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown (limit %d)\n", dropped, bag.Cap())
	}
}

func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, p palette) {
	if sp.Empty() {
		// диагностика на весь файл (I/O, не UTF-8)
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := strings.TrimRight(f.Line(int(start.Line)), "\r")

	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(line))
	}
	endCol = max(endCol, col)

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", p.gutter.Sprint(gutter), line)
	fmt.Fprintf(w, "%s%s%s\n",
		p.gutter.Sprint(strings.Repeat(" ", len(gutter)-2)+"| "),
		caretPadding(line[:col]),
		p.caret.Sprint(underline(line[col:endCol])))
}

// caretPadding повторяет ширину префикса строки; табы сохраняются как есть.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(text string) string {
	width := max(runewidth.StringWidth(text), 1)
	return "^" + strings.Repeat("~", width-1)
}
