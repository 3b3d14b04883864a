package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer accumulates wall time per named phase (load, lex, render).
// It is safe for concurrent use; a nil *Timer ignores everything.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*phase
}

type phase struct {
	dur   time.Duration
	count int // сколько раз фаза измерялась (файлы в режиме каталога)
}

func NewTimer() *Timer {
	return &Timer{phases: make(map[string]*phase, 4)}
}

// Measure starts timing name; calling the returned func records it.
//
//	defer timer.Measure("render")()
func (t *Timer) Measure(name string) (stop func()) {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() { t.Add(name, time.Since(start)) }
}

// Add records one measurement of d under name.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &phase{}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.dur += d
	p.count++
}

// PhaseReport is one phase in first-seen order.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var rep Report
	var total time.Duration
	for _, name := range t.order {
		p := t.phases[name]
		total += p.dur
		rep.Phases = append(rep.Phases, PhaseReport{Name: name, DurationMS: millis(p.dur), Count: p.count})
	}
	rep.TotalMS = millis(total)
	return rep
}

// Summary renders the report for --timings. Phases measured more than once
// show their count. Parallel phases are summed, so total may exceed wall time.
func (t *Timer) Summary() string {
	rep := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range rep.Phases {
		fmt.Fprintf(&sb, "  %-8s %9.3f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-8s %9.3f ms\n", "total", rep.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
