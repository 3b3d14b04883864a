package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Tracer receives events. Emit must be safe for concurrent use: the driver
// tokenizes files in parallel against one tracer.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop drops every event.
var Nop Tracer = nopTracer{}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory, dumped on failure
	ModeBoth
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if m > 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts stream|ring|both; the empty string means stream.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeStream, nil
	}
	for m, name := range modeNames {
		if name != "" && name == s {
			return StorageMode(m), nil
		}
	}
	return 0, fmt.Errorf("invalid storage mode %q (expected stream|ring|both)", s)
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

// Config describes the tracer built by New.
type Config struct {
	Level    Level
	Mode     StorageMode
	Format   Format    // FormatAuto: NDJSON for .ndjson/.jsonl paths, text otherwise
	Path     string    // "" или "-" пишет в stderr
	Output   io.Writer // takes precedence over Path
	RingSize int
}

// New builds the tracer for cfg. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	if cfg.Mode > ModeBoth {
		return nil, fmt.Errorf("unknown storage mode %d", cfg.Mode)
	}

	var ring *RingTracer
	if cfg.Mode != ModeStream {
		ring = NewRingTracer(cfg.RingSize, cfg.Level)
		if cfg.Mode == ModeRing {
			return ring, nil
		}
	}

	w, err := openSink(cfg)
	if err != nil {
		return nil, err
	}
	stream := NewStreamTracer(w, cfg.Level, resolveFormat(cfg.Format, cfg.Path))
	if ring == nil {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, ring), nil
}

func resolveFormat(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	switch filepath.Ext(path) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

func openSink(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.Path == "" || cfg.Path == "-":
		return stderrSink{}, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return &fileSink{Writer: bufio.NewWriter(f), f: f}, nil
}

// stderrSink is never closed.
type stderrSink struct{}

func (stderrSink) Write(p []byte) (int, error) { return os.Stderr.Write(p) }

type fileSink struct {
	*bufio.Writer
	f *os.File
}

func (s *fileSink) Close() error {
	return errors.Join(s.Flush(), s.f.Close())
}

// StreamTracer writes every accepted event to w as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	buf    []byte
}

// NewStreamTracer writes to w. If w has Flush() error or Close() error they
// are called by the matching tracer methods.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	t.buf = AppendEvent(t.buf[:0], ev, t.format)
	// ошибки записи трассы не должны ронять токенизацию
	_, _ = t.w.Write(t.buf)
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// MultiTracer forwards each event to all of its tracers.
type MultiTracer struct {
	level   Level
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	if ev == nil {
		return
	}
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Close() error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the ring buffer among the tracers, or nil.
func (t *MultiTracer) Ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the in-memory buffer of t, if it keeps one.
func RingOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		return tr.Ring()
	}
	return nil
}
