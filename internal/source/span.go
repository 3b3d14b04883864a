package source

import "fmt"

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File  FileID `json:"file" msgpack:"f"`
	Start uint32 `json:"start" msgpack:"s"`
	End   uint32 `json:"end" msgpack:"e"`
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
