package diag

import "minilex/internal/source"

// Reporter принимает диагностики от лексера и драйвера.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// BagReporter пишет в Bag; nil Bag отбрасывает всё.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// DedupReporter forwards each distinct diagnostic once. Two diagnostics are
// the same when code, severity, primary span and message match.
type DedupReporter struct {
	next Reporter
	seen map[identity]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[identity]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	id := d.identity()
	if _, dup := r.seen[id]; dup {
		return
	}
	r.seen[id] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}

// Builder collects notes for one diagnostic before it is reported.
//
//	diag.ReportError(r, diag.LexInvalidChar, sp, "invalid character '#'").
//		WithNote(sp, "skipped at position 3").
//		Emit()
type Builder struct {
	r    Reporter
	d    Diagnostic
	sent bool
}

func Build(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Builder {
	return &Builder{r: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Builder {
	return Build(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Builder {
	return Build(r, SevWarning, code, primary, msg)
}

func (b *Builder) WithNote(sp source.Span, msg string) *Builder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// Emit reports the diagnostic; later calls do nothing. It returns whether
// anything was sent.
func (b *Builder) Emit() bool {
	if b == nil || b.sent || b.r == nil {
		return false
	}
	b.sent = true
	b.r.Report(b.d)
	return true
}

// Diagnostic returns what Emit would report.
func (b *Builder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.d
}
