package rope

import "unicode/utf8"

// ChunkIterator walks the rope's chunks in order without materializing
// the text. The iterator is restartable via Reset.
type ChunkIterator struct {
	rope       Rope
	start, end int
	stack      []chunkFrame
	started    bool
	text       string
	offset     int
}

type chunkFrame struct {
	node   *node
	child  int
	offset int // absolute offset of this node's first byte
}

// Chunks iterates over every chunk in the rope.
func (r Rope) Chunks() *ChunkIterator {
	return r.ChunksInRange(0, r.Len())
}

// ChunksInRange iterates over the chunks overlapping [start, end),
// clipping the first and last to the range.
func (r Rope) ChunksInRange(start, end int) *ChunkIterator {
	if start < 0 {
		start = 0
	}
	if end > r.Len() {
		end = r.Len()
	}
	return &ChunkIterator{rope: r, start: start, end: end}
}

// Reset rewinds the iterator to the start of its range.
func (it *ChunkIterator) Reset() {
	it.stack = it.stack[:0]
	it.started = false
	it.text = ""
	it.offset = 0
}

// Next advances to the next chunk, returning false when done.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.root == nil || it.start >= it.end {
			return false
		}
		it.stack = append(it.stack, chunkFrame{node: it.rope.root})
	}
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		n := frame.node
		if n.isLeaf() {
			it.stack = it.stack[:len(it.stack)-1]
			if len(it.stack) > 0 {
				it.stack[len(it.stack)-1].child++
			}
			s, e := 0, len(n.text)
			if frame.offset < it.start {
				s = it.start - frame.offset
			}
			if frame.offset+e > it.end {
				e = it.end - frame.offset
			}
			if s >= e {
				continue
			}
			it.text = n.text[s:e]
			it.offset = frame.offset + s
			return true
		}
		if frame.child >= len(n.children) {
			it.stack = it.stack[:len(it.stack)-1]
			if len(it.stack) > 0 {
				it.stack[len(it.stack)-1].child++
			}
			continue
		}
		childOffset := frame.offset
		for i := 0; i < frame.child; i++ {
			childOffset += n.sums[i].Bytes
		}
		// Skip children wholly outside the range.
		if childOffset+n.sums[frame.child].Bytes <= it.start || childOffset >= it.end {
			frame.child++
			continue
		}
		it.stack = append(it.stack, chunkFrame{node: n.children[frame.child], offset: childOffset})
	}
	return false
}

// Text returns the current chunk text.
func (it *ChunkIterator) Text() string { return it.text }

// Offset returns the absolute byte offset of the current chunk.
func (it *ChunkIterator) Offset() int { return it.offset }

// LineIterator yields lines in order. With terminators included it
// reproduces the exact byte content of the rope.
type LineIterator struct {
	rope     Rope
	raw      bool
	line     int
	text     string
	start    int
	started  bool
	finished bool
}

// Lines iterates over lines without their terminators.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// RawLines iterates over lines including their terminators.
func (r Rope) RawLines() *LineIterator {
	return &LineIterator{rope: r, raw: true}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.finished {
		return false
	}
	if !it.started {
		it.started = true
	} else {
		it.line++
	}
	if it.line >= it.rope.LineCount() {
		it.finished = true
		return false
	}
	it.start = it.rope.LineStart(it.line)
	end := it.rope.LineEnd(it.line)
	if it.raw && end < it.rope.Len() {
		end++
	}
	it.text = it.rope.Slice(it.start, end)
	return true
}

// Text returns the current line.
func (it *LineIterator) Text() string { return it.text }

// Line returns the current 0-based line number.
func (it *LineIterator) Line() int { return it.line }

// StartOffset returns the byte offset of the current line's start.
func (it *LineIterator) StartOffset() int { return it.start }

// RuneIterator yields runes with their byte offsets. Chunks are always
// cut at code point boundaries, so no rune spans two chunks.
type RuneIterator struct {
	chunks *ChunkIterator
	text   string
	idx    int
	offset int
	r      rune
	size   int
}

// Runes iterates over the rope's runes in order.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{chunks: r.Chunks()}
}

// Next advances to the next rune.
func (it *RuneIterator) Next() bool {
	for it.idx >= len(it.text) {
		if !it.chunks.Next() {
			return false
		}
		it.text = it.chunks.Text()
		it.idx = 0
	}
	it.r, it.size = utf8.DecodeRuneInString(it.text[it.idx:])
	it.offset = it.chunks.Offset() + it.idx
	it.idx += it.size
	return true
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune { return it.r }

// Size returns the current rune's byte width.
func (it *RuneIterator) Size() int { return it.size }

// Offset returns the byte offset of the current rune.
func (it *RuneIterator) Offset() int { return it.offset }
