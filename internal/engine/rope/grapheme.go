package rope

import "github.com/rivo/uniseg"

// graphemeLookahead is the window kept ahead of the segmentation point.
// Clusters can span chunk boundaries (an edit may butt a combining mark
// against a chunk edge), so the iterator refills from upcoming chunks
// before asking uniseg for the next boundary. The window comfortably
// exceeds the longest real-world cluster (ZWJ emoji sequences).
const graphemeLookahead = 128

// GraphemeIterator yields extended grapheme clusters (UAX #29) with
// their byte offsets.
type GraphemeIterator struct {
	chunks  *ChunkIterator
	window  string
	offset  int // absolute offset of window[0]
	state   int
	cluster string
	pos     int
}

// Graphemes iterates over the rope's grapheme clusters.
func (r Rope) Graphemes() *GraphemeIterator {
	return r.GraphemesAt(0)
}

// GraphemesAt iterates over grapheme clusters starting at the given
// byte offset, which must lie on a cluster boundary.
func (r Rope) GraphemesAt(offset int) *GraphemeIterator {
	return &GraphemeIterator{
		chunks: r.ChunksInRange(offset, r.Len()),
		offset: offset,
		state:  -1,
	}
}

// Next advances to the next cluster.
func (it *GraphemeIterator) Next() bool {
	it.fill()
	if len(it.window) == 0 {
		return false
	}
	cluster, rest, _, state := uniseg.FirstGraphemeClusterInString(it.window, it.state)
	it.pos = it.offset
	it.cluster = cluster
	it.state = state
	it.offset += len(cluster)
	it.window = rest
	return true
}

// fill tops up the lookahead window from the chunk stream.
func (it *GraphemeIterator) fill() {
	for len(it.window) < graphemeLookahead {
		if !it.chunks.Next() {
			return
		}
		it.window += it.chunks.Text()
	}
}

// Cluster returns the current grapheme cluster.
func (it *GraphemeIterator) Cluster() string { return it.cluster }

// Offset returns the byte offset of the current cluster.
func (it *GraphemeIterator) Offset() int { return it.pos }
