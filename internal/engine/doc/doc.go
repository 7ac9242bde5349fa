// Package doc wraps a rope with the document-level operations the
// editor needs: lossy UTF-8 ingest, buffered writing, and grapheme,
// column, and line arithmetic. Columns are counts of extended grapheme
// clusters (UAX #29); offsets are bytes.
package doc

import (
	"fmt"

	"github.com/quilledit/quill/internal/engine/rope"
)

// Document is a mutable text document backed by an immutable rope.
// All mutation goes through ReplaceRange.
type Document struct {
	rope     rope.Rope
	tabWidth int
}

// New creates an empty document.
func New() *Document {
	return &Document{rope: rope.New(), tabWidth: defaultTabWidth}
}

// FromString creates a document with initial content.
func FromString(s string) *Document {
	return &Document{rope: rope.FromString(s), tabWidth: defaultTabWidth}
}

const defaultTabWidth = 4

// Rope returns the current rope snapshot. Ropes are immutable, so the
// returned value stays valid across later edits.
func (d *Document) Rope() rope.Rope { return d.rope }

// Len returns the byte length of the document.
func (d *Document) Len() int { return d.rope.Len() }

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return d.rope.LineCount() }

// LineText returns line i without its terminator.
func (d *Document) LineText(i int) string { return d.rope.LineText(i) }

// LineWithTerminator returns line i including its terminator, if any.
func (d *Document) LineWithTerminator(i int) string { return d.rope.RawLineText(i) }

// LineStart returns the byte offset where line i begins.
func (d *Document) LineStart(i int) int { return d.rope.LineStart(i) }

// LineEnd returns the byte offset of line i's end, before the terminator.
func (d *Document) LineEnd(i int) int { return d.rope.LineEnd(i) }

// LineAt returns the line containing the byte at offset.
func (d *Document) LineAt(offset int) int { return d.rope.LineAt(offset) }

// Range returns the text in [start, end).
func (d *Document) Range(start, end int) string { return d.rope.Slice(start, end) }

// String returns the full document text.
func (d *Document) String() string { return d.rope.String() }

// TabWidth returns the visual width of a tab stop.
func (d *Document) TabWidth() int { return d.tabWidth }

// SetTabWidth sets the visual width of a tab stop.
func (d *Document) SetTabWidth(w int) {
	if w > 0 {
		d.tabWidth = w
	}
}

// ReplaceRange substitutes [start, end) with text. Both offsets must
// lie on code point boundaries; violating that is a bug in the caller.
func (d *Document) ReplaceRange(start, end int, text string) {
	d.checkBoundary(start)
	d.checkBoundary(end)
	if start > end || end > d.rope.Len() {
		panic(fmt.Sprintf("doc: invalid replace range [%d, %d) in %d bytes", start, end, d.rope.Len()))
	}
	d.rope = d.rope.Replace(start, end, text)
}

func (d *Document) checkBoundary(offset int) {
	if offset < 0 || offset > d.rope.Len() {
		panic(fmt.Sprintf("doc: offset %d out of range [0, %d]", offset, d.rope.Len()))
	}
	if offset < d.rope.Len() && offset > 0 {
		if b := d.rope.ByteAt(offset); b&0xC0 == 0x80 {
			panic(fmt.Sprintf("doc: offset %d splits a code point", offset))
		}
	}
}
