package highlight

import (
	"container/heap"
	"sort"
)

// startItem is a source's next unapplied span.
type startItem struct {
	span Span
	src  int
	from Source
}

// startHeap orders upcoming spans by start, then source index, then
// end, then key.
type startHeap []startItem

func (h startHeap) Len() int { return len(h) }
func (h startHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.span.Start != b.span.Start {
		return a.span.Start < b.span.Start
	}
	if a.src != b.src {
		return a.src < b.src
	}
	if a.span.End != b.span.End {
		return a.span.End < b.span.End
	}
	return a.span.Key < b.span.Key
}
func (h startHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *startHeap) Push(x any)   { *h = append(*h, x.(startItem)) }
func (h *startHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

type endItem struct {
	pos int
	key string
}

type endHeap []endItem

func (h endHeap) Len() int { return len(h) }
func (h endHeap) Less(i, j int) bool {
	if h[i].pos != h[j].pos {
		return h[i].pos < h[j].pos
	}
	return h[i].key < h[j].key
}
func (h endHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *endHeap) Push(x any)   { *h = append(*h, x.(endItem)) }
func (h *endHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Merger is the merged stack iterator over a fixed source set.
type Merger struct {
	starts startHeap
	ends   endHeap
	active map[string]int
	prev   int
	primed bool
}

// NewMerger builds a merger over the given sources. Source order is
// part of the result: equal-start spans resolve by source index.
func NewMerger(sources ...Source) *Merger {
	m := &Merger{active: make(map[string]int)}
	for i, src := range sources {
		if span, ok := src.Next(); ok {
			m.starts = append(m.starts, startItem{span: span, src: i, from: src})
		}
	}
	heap.Init(&m.starts)
	return m
}

// Next returns the stack covering the segment that ends at the next
// change point, or false when all spans are exhausted.
func (m *Merger) Next() (Stack, bool) {
	if !m.primed {
		if m.starts.Len() == 0 {
			return Stack{}, false
		}
		// The first segment begins where the earliest span starts.
		m.prev = m.starts[0].span.Start
		m.apply(m.prev)
		m.primed = true
	}

	pos, ok := m.nextEvent()
	if !ok {
		return Stack{}, false
	}
	st := Stack{Pos: pos, Keys: m.snapshot()}
	m.apply(pos)
	m.prev = pos
	return st, true
}

// nextEvent returns the smallest pending start or end position.
func (m *Merger) nextEvent() (int, bool) {
	pos := 0
	ok := false
	if m.ends.Len() > 0 {
		pos, ok = m.ends[0].pos, true
	}
	if m.starts.Len() > 0 && (!ok || m.starts[0].span.Start < pos) {
		pos, ok = m.starts[0].span.Start, true
	}
	return pos, ok
}

// apply consumes every event at pos, ends before starts, so a span
// ending at pos does not cover the segment that begins there.
func (m *Merger) apply(pos int) {
	for m.ends.Len() > 0 && m.ends[0].pos == pos {
		it := heap.Pop(&m.ends).(endItem)
		if m.active[it.key]--; m.active[it.key] == 0 {
			delete(m.active, it.key)
		}
	}
	for m.starts.Len() > 0 && m.starts[0].span.Start == pos {
		it := heap.Pop(&m.starts).(startItem)
		m.active[it.span.Key]++
		heap.Push(&m.ends, endItem{pos: it.span.End, key: it.span.Key})
		if next, ok := it.from.Next(); ok {
			heap.Push(&m.starts, startItem{span: next, src: it.src, from: it.from})
		}
	}
}

// snapshot lists the active keys sorted, one entry per covering span.
func (m *Merger) snapshot() []string {
	keys := make([]string, 0, len(m.active))
	for key, n := range m.active {
		for i := 0; i < n; i++ {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
