package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. The CLI dumps it when
// a run fails so that a quiet trace still explains the failure.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	total  uint64 // событий записано за всё время
	level  Level
}

// NewRingTracer keeps up to size events; size <= 0 means DefaultRingSize.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingTracer{events: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	if stored.Seq == 0 {
		stored.Seq = NextSeq()
	}
	t.events[t.total%uint64(len(t.events))] = stored
	t.total++
}

// Len reports how many events are currently held.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(min(t.total, uint64(len(t.events))))
}

// Snapshot copies the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.events))
	first := uint64(0)
	if t.total > size {
		first = t.total - size
	}
	out := make([]Event, 0, t.total-first)
	for i := first; i < t.total; i++ {
		out = append(out, t.events[i%size])
	}
	return out
}

// Dump writes the held events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	var buf []byte
	for _, ev := range t.Snapshot() {
		buf = AppendEvent(buf, &ev, format)
	}
	_, err := w.Write(buf)
	return err
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
