package trace

import "time"

// Kind is the shape of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindError // passes LevelError
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindError:     "error",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command
	ScopeFile                    // one source file
	ScopeToken                   // sealed tokens, skipped characters
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeFile:   "file",
	ScopeToken:  "token",
}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores it
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "tokenize", "file", "seal", "skip", ...
	Detail   string
	Extra    map[string]string
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, parent uint64, name, detail string) {
	instant(t, KindPoint, scope, parent, name, detail)
}

// Error records an error event; it passes every level but off.
func Error(t Tracer, scope Scope, parent uint64, name, detail string) {
	instant(t, KindError, scope, parent, name, detail)
}

func instant(t Tracer, kind Kind, scope Scope, parent uint64, name, detail string) {
	if t == nil || !t.Level().ShouldEmit(kind, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
