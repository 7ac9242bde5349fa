// Package highlight merges highlight spans from independent sources
// (tree-sitter, LSP semantic tokens) into a single stream of stack
// snapshots: at every byte offset where the set of active highlights
// changes, the merger reports the keys that covered the preceding
// segment. Renderers paint segments straight off the stream.
package highlight

import "fmt"

// Span is one highlighted byte range. Start must be less than End.
type Span struct {
	Start int
	End   int
	Key   string
}

// Source yields spans ordered by start offset. Sources keep a stable
// index in the merger so equal-start spans order deterministically.
type Source interface {
	Next() (Span, bool)
}

// Stack reports the highlight keys active over the segment ending at
// Pos. Keys is sorted and repeats a key once per covering span.
type Stack struct {
	Pos  int
	Keys []string
}

type sliceSource struct {
	spans []Span
	i     int
}

// Spans wraps an ordered span slice as a Source.
func Spans(spans ...Span) Source {
	for _, s := range spans {
		if s.Start >= s.End {
			panic(fmt.Sprintf("highlight: empty span [%d, %d)", s.Start, s.End))
		}
	}
	return &sliceSource{spans: spans}
}

func (s *sliceSource) Next() (Span, bool) {
	if s.i >= len(s.spans) {
		return Span{}, false
	}
	sp := s.spans[s.i]
	s.i++
	return sp, true
}
