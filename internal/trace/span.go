package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number, shared by all tracers.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span ID; 0 is reserved for "no span".
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an operation with a begin and an end event: a CLI run, a file.
// A Span from a tracer that filters its scope records nothing but still
// measures time and passes its parent through ID.
type Span struct {
	t      Tracer // nil когда событие отфильтровано
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	extra  map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{parent: parent, scope: scope, name: name, start: time.Now()}
	if t == nil || !t.Level().ShouldEmit(KindSpanBegin, scope) {
		return s
	}
	s.t = t
	s.id = NextSpanID()
	t.Emit(s.event(KindSpanBegin, s.start, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 4)
	}
	s.extra[key] = value
	return s
}

// End emits the end event with detail and returns the elapsed time.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	if s.t != nil {
		s.t.Emit(s.event(KindSpanEnd, now, detail))
	}
	return now.Sub(s.start)
}

// ID is the span's own ID, or its parent's when the span is not recorded,
// so nested spans attach to the nearest recorded ancestor.
func (s *Span) ID() uint64 {
	switch {
	case s == nil:
		return 0
	case s.id == 0:
		return s.parent
	}
	return s.id
}
