package search

import "github.com/quilledit/quill/internal/engine/rope"

// windowSize is the slice cached around the last access. Scans touch
// bytes in runs, so one rope descent serves many ByteAt calls.
const windowSize = 512

// RopeSource adapts a rope to the Source interface with a sliding
// cached window.
type RopeSource struct {
	rope  rope.Rope
	text  string
	base  int
	valid bool
}

// NewRopeSource wraps a rope snapshot for searching.
func NewRopeSource(r rope.Rope) *RopeSource {
	return &RopeSource{rope: r}
}

// Len returns the haystack length in bytes.
func (s *RopeSource) Len() int { return s.rope.Len() }

// ByteAt returns the byte at offset i.
func (s *RopeSource) ByteAt(i int) byte {
	if !s.valid || i < s.base || i >= s.base+len(s.text) {
		s.fill(i)
	}
	return s.text[i-s.base]
}

func (s *RopeSource) fill(i int) {
	start := i - windowSize/2
	if start < 0 {
		start = 0
	}
	end := start + windowSize
	if end > s.rope.Len() {
		end = s.rope.Len()
	}
	s.base = start
	s.text = s.rope.Slice(start, end)
	s.valid = true
}

// Bytes is a Source over a byte slice, used by tests and small
// haystacks.
type Bytes []byte

func (b Bytes) Len() int          { return len(b) }
func (b Bytes) ByteAt(i int) byte { return b[i] }
