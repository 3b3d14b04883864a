package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
)

// ParseFormat accepts auto|text|ndjson (json is an alias of ndjson).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (expected auto|text|ndjson)", s)
}

// AppendEvent appends one encoded line for ev to dst.
func AppendEvent(dst []byte, ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(dst, ev)
	}
	return appendText(dst, ev)
}

var kindGlyphs = [...]string{
	KindSpanBegin: "→",
	KindSpanEnd:   "←",
	KindPoint:     "•",
	KindError:     "!",
}

// appendText renders "[seq] <indent><glyph> name (detail) {k=v, ...}".
// Indentation follows the scope: driver events start at column 0.
func appendText(dst []byte, ev *Event) []byte {
	dst = append(dst, '[')
	seq := strconv.FormatUint(ev.Seq, 10)
	for i := len(seq); i < 6; i++ {
		dst = append(dst, ' ')
	}
	dst = append(dst, seq...)
	dst = append(dst, "] "...)
	for s := ScopeDriver; s < ev.Scope; s++ {
		dst = append(dst, "  "...)
	}
	if int(ev.Kind) < len(kindGlyphs) && kindGlyphs[ev.Kind] != "" {
		dst = append(dst, kindGlyphs[ev.Kind]...)
		dst = append(dst, ' ')
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if len(ev.Extra) > 0 {
		dst = append(dst, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.UTC().Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		data = fmt.Appendf(nil, `{"kind":"error","name":%q}`, err.Error())
	}
	dst = append(dst, data...)
	return append(dst, '\n')
}
