package doc

import (
	"github.com/rivo/uniseg"
)

// GraphemeCount returns the number of grapheme clusters on line i,
// excluding the terminator.
func (d *Document) GraphemeCount(line int) int {
	text := d.LineText(line)
	count := 0
	state := -1
	for len(text) > 0 {
		_, rest, _, s := uniseg.FirstGraphemeClusterInString(text, state)
		text, state = rest, s
		count++
	}
	return count
}

// CursorOffset returns the byte offset of grapheme column col on line.
// Columns past the last cluster clamp to the line end.
func (d *Document) CursorOffset(line, col int) int {
	start := d.LineStart(line)
	if col <= 0 {
		return start
	}
	text := d.LineText(line)
	state := -1
	offset := 0
	for i := 0; i < col && offset < len(text); i++ {
		cluster, _, _, s := uniseg.FirstGraphemeClusterInString(text[offset:], state)
		offset += len(cluster)
		state = s
	}
	return start + offset
}

// ColumnAt returns the grapheme column of the byte at offset, which
// must lie on a cluster boundary of its line.
func (d *Document) ColumnAt(offset int) int {
	line := d.LineAt(offset)
	start := d.LineStart(line)
	text := d.Range(start, offset)
	col := 0
	state := -1
	for len(text) > 0 {
		_, rest, _, s := uniseg.FirstGraphemeClusterInString(text, state)
		text, state = rest, s
		col++
	}
	return col
}

// GraphemeSlice returns the byte range covering count clusters starting
// at grapheme column col of line. The range is clipped at the line's
// terminator.
func (d *Document) GraphemeSlice(line, col, count int) (start, end int) {
	start = d.CursorOffset(line, col)
	end = start
	lineEnd := d.LineEnd(line)
	it := d.rope.GraphemesAt(start)
	for i := 0; i < count && end < lineEnd; i++ {
		if !it.Next() {
			break
		}
		end = it.Offset() + len(it.Cluster())
	}
	if end > lineEnd {
		end = lineEnd
	}
	return start, end
}

// OffsetByGraphemes walks delta grapheme clusters from offset, crossing
// line terminators, clamping at the document bounds.
func (d *Document) OffsetByGraphemes(offset, delta int) int {
	switch {
	case delta > 0:
		it := d.rope.GraphemesAt(offset)
		for delta > 0 && it.Next() {
			offset = it.Offset() + len(it.Cluster())
			delta--
		}
		return offset

	case delta < 0:
		for delta < 0 && offset > 0 {
			line := d.LineAt(offset)
			start := d.LineStart(line)
			if offset == start {
				start = d.LineStart(line - 1)
			}
			starts := d.clusterStarts(start, offset)
			if len(starts) >= -delta {
				return starts[len(starts)+delta]
			}
			delta += len(starts)
			offset = start
		}
		return offset
	}
	return offset
}

// clusterStarts collects the start offsets of the clusters in
// [start, end).
func (d *Document) clusterStarts(start, end int) []int {
	var starts []int
	it := d.rope.GraphemesAt(start)
	for it.Next() && it.Offset() < end {
		starts = append(starts, it.Offset())
	}
	return starts
}
