package crdt

import "fmt"

// LocalInsert translates a byte-offset insert against the current
// materialization into tree operations, applies them locally, and
// returns them for broadcast.
func (s *Store) LocalInsert(offset int, text string) []Op {
	if text == "" {
		return nil
	}
	if offset < 0 || offset > s.Len() {
		panic(fmt.Sprintf("crdt: insert offset %d out of range [0, %d]", offset, s.Len()))
	}

	var ops []Op
	parent := RootID
	if offset > 0 {
		c, off := s.chunkAt(offset - 1)
		at := off + 1
		if at < len(c.text) {
			// The insertion point is mid-chunk; split so the new chunk
			// can hang off the left half.
			left, right := s.newID(), s.newID()
			split := Op{Kind: OpSplit, ID: c.id, At: at, Left: left, Right: right}
			s.Apply(split)
			ops = append(ops, split)
			parent = left
		} else {
			parent = c.id
		}
	}

	ins := Op{Kind: OpInsert, ID: s.newID(), Parent: parent, Text: text}
	s.Apply(ins)
	return append(ops, ins)
}

// LocalDelete removes the byte range [start, end) from the current
// materialization, splitting chunks so only whole chunks are
// tombstoned. The applied operations are returned for broadcast.
func (s *Store) LocalDelete(start, end int) []Op {
	if start < 0 || end > s.Len() || start > end {
		panic(fmt.Sprintf("crdt: delete range [%d, %d) out of range [0, %d]", start, end, s.Len()))
	}

	var ops []Op
	for start < end {
		c, off := s.chunkAt(start)
		if off > 0 {
			// Detach the prefix that survives.
			left, right := s.newID(), s.newID()
			split := Op{Kind: OpSplit, ID: c.id, At: off, Left: left, Right: right}
			s.Apply(split)
			ops = append(ops, split)
			continue
		}
		if remain := end - start; remain < len(c.text) {
			// Detach the suffix that survives.
			left, right := s.newID(), s.newID()
			split := Op{Kind: OpSplit, ID: c.id, At: remain, Left: left, Right: right}
			s.Apply(split)
			ops = append(ops, split)
			continue
		}
		del := Op{Kind: OpDelete, ID: c.id}
		s.Apply(del)
		ops = append(ops, del)
		end -= len(c.text)
	}
	return ops
}

// chunkAt returns the live chunk covering byte position pos of the
// materialization and pos's offset within it.
func (s *Store) chunkAt(pos int) (*chunk, int) {
	var (
		found *chunk
		off   int
		seen  int
	)
	s.walk(RootID, func(c *chunk) {
		if found == nil && pos < seen+len(c.text) {
			found = c
			off = pos - seen
		}
		seen += len(c.text)
	})
	if found == nil {
		panic(fmt.Sprintf("crdt: position %d out of range [0, %d)", pos, seen))
	}
	return found, off
}
