package rope

import (
	"fmt"
	"strings"
)

// Rope is an immutable chunked text container. The zero value is usable
// and empty.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	var b Builder
	b.WriteString(s)
	return b.Build()
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Bytes
}

// IsEmpty reports whether the rope contains no text.
func (r Rope) IsEmpty() bool { return r.Len() == 0 }

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Newlines + 1
}

// String returns the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(r.Len())
	r.root.appendRange(&sb, 0, r.Len())
	return sb.String()
}

// Slice returns the text in the byte range [start, end), clamped to the
// rope bounds.
func (r Rope) Slice(start, end int) string {
	if r.root == nil || start >= end || start >= r.Len() {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset. It panics if offset is out of
// range; callers hold the offsets they pass.
func (r Rope) ByteAt(offset int) byte {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		panic(fmt.Sprintf("rope: byte offset %d out of range [0, %d)", offset, r.Len()))
	}
	return r.root.byteAt(offset)
}

// Split divides the rope at offset into two ropes.
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat joins two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concatNodes(r.root, other.root)}
}

// Insert returns a rope with text inserted at offset.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.Len() == 0 {
		return FromString(text)
	}
	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete returns a rope with [start, end) removed.
func (r Rope) Delete(start, end int) Rope {
	if r.root == nil || start >= end || start >= r.Len() {
		return r
	}
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace substitutes [start, end) with text. This is the single
// mutation entry point the document exposes.
func (r Rope) Replace(start, end int, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}
	return r.Delete(start, end).Insert(start, text)
}

// LineStart returns the byte offset at which line begins. Lines are
// 0-indexed; a line past the end maps to Len.
func (r Rope) LineStart(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line > r.root.summary.Newlines {
		return r.Len()
	}
	return seekLineStart(r.root, line)
}

// seekLineStart descends to the byte offset following the line-th newline.
func seekLineStart(n *node, line int) int {
	offset := 0
	for !n.isLeaf() {
		idx := 0
		for idx < len(n.children)-1 && line > n.sums[idx].Newlines {
			line -= n.sums[idx].Newlines
			offset += n.sums[idx].Bytes
			idx++
		}
		n = n.children[idx]
	}
	return offset + nthNewline(n.text, line)
}

// LineAt returns the line number containing the byte at offset.
// Offsets at or past the end map to the last line.
func (r Rope) LineAt(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset >= r.Len() {
		return r.root.summary.Newlines
	}
	line := 0
	n := r.root
	for !n.isLeaf() {
		idx := 0
		for idx < len(n.children)-1 && offset >= n.sums[idx].Bytes {
			offset -= n.sums[idx].Bytes
			line += n.sums[idx].Newlines
			idx++
		}
		n = n.children[idx]
	}
	for i := 0; i < offset; i++ {
		if n.text[i] == '\n' {
			line++
		}
	}
	return line
}

// LineEnd returns the byte offset of the end of line, excluding its
// terminator.
func (r Rope) LineEnd(line int) int {
	if r.root == nil {
		return 0
	}
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// LineText returns the text of line without its terminator.
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// RawLineText returns the text of line including its terminator, if any.
func (r Rope) RawLineText(line int) string {
	end := r.LineEnd(line)
	if end < r.Len() {
		end++
	}
	return r.Slice(r.LineStart(line), end)
}

// Equals reports whether two ropes hold the same text, independent of
// tree structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	a := r.Chunks()
	b := other.Chunks()
	var ta, tb string
	for {
		for ta == "" {
			if !a.Next() {
				return tb == "" && !b.Next()
			}
			ta = a.Text()
		}
		for tb == "" {
			if !b.Next() {
				return false
			}
			tb = b.Text()
		}
		n := min(len(ta), len(tb))
		if ta[:n] != tb[:n] {
			return false
		}
		ta, tb = ta[n:], tb[n:]
	}
}
