package rope

// Builder accumulates text and builds a balanced rope in one pass.
// Appending is amortized O(1); Build is O(n / chunk size).
type Builder struct {
	leaves  []*node
	pending []byte
}

// WriteString appends text to the builder.
func (b *Builder) WriteString(s string) {
	b.pending = append(b.pending, s...)
	b.flush(false)
}

// flush cuts full chunks off the pending buffer. When final is true the
// remainder is emitted as a short last chunk.
func (b *Builder) flush(final bool) {
	for len(b.pending) >= maxChunkBytes {
		cut := chunkBoundary(b.pending, targetChunkBytes)
		b.leaves = append(b.leaves, newLeaf(string(b.pending[:cut])))
		b.pending = b.pending[cut:]
	}
	if final && len(b.pending) > 0 {
		b.leaves = append(b.leaves, newLeaf(string(b.pending)))
		b.pending = nil
	}
}

// Build returns the accumulated rope and resets the builder.
func (b *Builder) Build() Rope {
	b.flush(true)
	leaves := b.leaves
	b.leaves = nil
	if len(leaves) == 0 {
		return New()
	}
	return Rope{root: fromNodes(leaves)}
}

// chunkBoundary picks a split point near target that does not break a
// UTF-8 sequence, preferring a position just after a newline.
func chunkBoundary(data []byte, target int) int {
	if target >= len(data) {
		return len(data)
	}
	lo := target - 32
	if lo < 1 {
		lo = 1
	}
	for i := target; i >= lo; i-- {
		if data[i-1] == '\n' {
			return i
		}
	}
	pos := target
	for pos > 0 && !isUTF8Start(data[pos]) {
		pos--
	}
	if pos == 0 {
		pos = target
		for pos < len(data) && !isUTF8Start(data[pos]) {
			pos++
		}
	}
	return pos
}
