package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off": LevelOff, "ERROR": LevelError, "phase": LevelPhase,
		"detail": LevelDetail, " debug ": LevelDebug, "": LevelOff,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindError, ScopeDriver, false},
		{LevelError, KindError, ScopeToken, true},
		{LevelError, KindSpanBegin, ScopeDriver, false},
		{LevelPhase, KindSpanBegin, ScopeDriver, true},
		{LevelPhase, KindSpanBegin, ScopeFile, false},
		{LevelDetail, KindPoint, ScopeFile, true},
		{LevelDetail, KindPoint, ScopeToken, false},
		{LevelDebug, KindPoint, ScopeToken, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.kind, tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v, %v) = %v, want %v", tt.level, tt.kind, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeDriver, "tokenize", 0)
	Point(tr, ScopeFile, span.ID(), "file", "a.mlx")
	Point(tr, ScopeToken, span.ID(), "seal", "dropped at detail level")
	Error(tr, ScopeToken, span.ID(), "invalid-char", "'#' at 1")
	span.WithExtra("tokens", "3").End("ok")

	out := buf.String()
	for _, want := range []string{"→ tokenize", "• file (a.mlx)", "! invalid-char", "← tokenize (ok) {tokens=3}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "dropped at detail level") {
		t.Errorf("token-scope point must be filtered at detail level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeToken, 0, "seal", "Identifier")

	var decoded map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("invalid ndjson %q: %v", buf.String(), err)
	}
	if decoded["name"] != "seal" || decoded["scope"] != "token" || decoded["kind"] != "point" {
		t.Fatalf("unexpected event %v", decoded)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeToken, 0, name, "")
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	got := snap[0].Name + snap[1].Name + snap[2].Name
	if got != "cde" {
		t.Fatalf("expected chronological cde, got %q", got)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump should have 3 lines:\n%s", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Fatalf("LevelOff must give a disabled tracer")
	}

	var buf bytes.Buffer
	both, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(both, ScopeDriver, "run", 0).End("")
	multi, ok := both.(*MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("ModeBoth must produce a MultiTracer with a ring")
	}
	if len(multi.Ring().Snapshot()) != 2 || buf.Len() == 0 {
		t.Fatalf("events must reach both stream and ring")
	}
	if RingOf(both) != multi.Ring() {
		t.Fatalf("RingOf must find the ring inside a MultiTracer")
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if m, err := ParseMode(" Ring "); err != nil || m != ModeRing || m.String() != "ring" {
		t.Fatalf("ParseMode(ring) = %v, %v", m, err)
	}
}

func TestNewFileSinkNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeDriver, "tokenize", 0).End("ok")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), data)
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if ev["kind"] != "end" || ev["detail"] != "ok" {
		t.Fatalf("unexpected end event %v", ev)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "TEXT": FormatText, "json": FormatNDJSON} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("expected error for xml")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must resolve to Nop")
	}
	r := NewRingTracer(1, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer lost in context")
	}
	if ParentFromContext(ctx) != 0 {
		t.Fatalf("expected no parent span")
	}
	if got := ParentFromContext(WithSpan(ctx, 9)); got != 9 {
		t.Fatalf("expected parent 9, got %d", got)
	}
}

func TestDisabledSpanKeepsParent(t *testing.T) {
	s := Begin(Nop, ScopeFile, "x", 42)
	if s.ID() != 42 {
		t.Fatalf("disabled span must expose parent id, got %d", s.ID())
	}
	if s.End("") < 0 {
		t.Fatalf("negative duration")
	}
}
