package driver

import (
	"minilex/internal/lexer"
	"minilex/internal/observ"
)

// Options configure a tokenize run. Tracer берётся из context (trace.FromContext).
type Options struct {
	Mode           lexer.Mode
	MaxDiagnostics int
	Jobs           int         // режим каталога; <= 0 означает GOMAXPROCS
	Cache          *TokenCache // nil: без кэша
	Timer          *observ.Timer
	Progress       ProgressObserver
}

// ProgressStatus reports where a file is in the pipeline.
type ProgressStatus uint8

const (
	ProgressQueued ProgressStatus = iota
	ProgressWorking
	ProgressDone
	ProgressFailed
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressWorking:
		return "working"
	case ProgressDone:
		return "done"
	case ProgressFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProgressEvent describes a per-file status change.
type ProgressEvent struct {
	Path   string
	Status ProgressStatus
	Tokens int
	Cached bool
}

// ProgressObserver receives events from TokenizeDir workers; it must be safe
// for concurrent use.
type ProgressObserver func(ProgressEvent)

func (o Options) emit(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}
