package rope

import "strings"

// Tree shape constants.
const (
	// maxChildren is the fan-out limit for internal nodes.
	maxChildren = 8

	// maxChunkBytes is the largest chunk stored in a leaf.
	maxChunkBytes = 256

	// targetChunkBytes is the preferred chunk size when building.
	targetChunkBytes = 192
)

// node is a rope tree node. Leaves (height 0) carry a text chunk;
// internal nodes carry children plus per-child summaries.
type node struct {
	height   uint8
	summary  Summary
	text     string // leaves only
	children []*node
	sums     []Summary
}

func newLeaf(text string) *node {
	return &node{text: text, summary: summarize(text)}
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf("")
	}
	n := &node{
		height:   children[0].height + 1,
		children: children,
		sums:     make([]Summary, len(children)),
	}
	for i, c := range children {
		n.sums[i] = c.summary
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

// byteAt returns the byte at offset within this subtree.
func (n *node) byteAt(offset int) byte {
	for !n.isLeaf() {
		idx := 0
		for idx < len(n.children)-1 && offset >= n.sums[idx].Bytes {
			offset -= n.sums[idx].Bytes
			idx++
		}
		n = n.children[idx]
	}
	return n.text[offset]
}

// appendRange writes the bytes in [start, end) of this subtree to sb.
func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		if end > len(n.text) {
			end = len(n.text)
		}
		sb.WriteString(n.text[start:end])
		return
	}
	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.sums[i].Bytes
		if childEnd > start && offset < end {
			cs := 0
			if start > offset {
				cs = start - offset
			}
			ce := n.sums[i].Bytes
			if end < childEnd {
				ce = end - offset
			}
			child.appendRange(sb, cs, ce)
		}
		if childEnd >= end {
			return
		}
		offset = childEnd
	}
}

// split divides the subtree at offset into two independent trees.
func (n *node) split(offset int) (*node, *node) {
	if offset <= 0 {
		return newLeaf(""), n
	}
	if offset >= n.summary.Bytes {
		return n, newLeaf("")
	}
	if n.isLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}

	var left, right []*node
	current := 0
	for i, child := range n.children {
		childEnd := current + n.sums[i].Bytes
		switch {
		case childEnd <= offset:
			left = append(left, child)
		case current >= offset:
			right = append(right, child)
		default:
			l, r := child.split(offset - current)
			if l.summary.Bytes > 0 {
				left = append(left, l)
			}
			if r.summary.Bytes > 0 {
				right = append(right, r)
			}
		}
		current = childEnd
	}
	return fromNodes(left), fromNodes(right)
}

// fromNodes builds a balanced tree over nodes of equal height.
func fromNodes(nodes []*node) *node {
	switch len(nodes) {
	case 0:
		return newLeaf("")
	case 1:
		return nodes[0]
	}
	for len(nodes) > maxChildren {
		var parents []*node
		for i := 0; i < len(nodes); i += maxChildren {
			end := min(i+maxChildren, len(nodes))
			parents = append(parents, newInternal(nodes[i:end:end]))
		}
		nodes = parents
	}
	return newInternal(nodes)
}

// concatNodes joins two subtrees, rebalancing by height.
func concatNodes(left, right *node) *node {
	if left == nil || left.summary.Bytes == 0 {
		return right
	}
	if right == nil || right.summary.Bytes == 0 {
		return left
	}

	// Merge small adjacent leaves so deletes do not shred the tree.
	if left.isLeaf() && right.isLeaf() && len(left.text)+len(right.text) <= maxChunkBytes {
		return newLeaf(left.text + right.text)
	}

	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}

	if left.isLeaf() {
		return newInternal([]*node{left, right})
	}
	merged := make([]*node, 0, len(left.children)+len(right.children))
	merged = append(merged, left.children...)
	merged = append(merged, right.children...)
	return fromNodes(merged)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
