package crdt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// chunk is one node of the causal tree. Children are kept sorted by
// descending ChunkID so a newer insert at the same parent materializes
// earlier, matching insertion order for a single writer.
type chunk struct {
	id       ChunkID
	text     string
	children []ChunkID
	deleted  bool
}

// Store holds one replica's view of the tree.
type Store struct {
	sites   *siteMap
	self    ActorID
	seq     uint64
	chunks  map[ChunkID]*chunk
	alias   map[ChunkID]ChunkID
	pending map[ChunkID][]Op
}

// New creates a store whose local operations are stamped with the actor
// registered for site.
func New(site uuid.UUID) *Store {
	s := &Store{
		sites:   newSiteMap(),
		chunks:  make(map[ChunkID]*chunk),
		alias:   make(map[ChunkID]ChunkID),
		pending: make(map[ChunkID][]Op),
	}
	s.self = s.sites.register(site)
	s.chunks[RootID] = &chunk{id: RootID}
	return s
}

// Register maps a replica identity to a dense actor id, assigning the
// next id on first sight.
func (s *Store) Register(site uuid.UUID) ActorID {
	return s.sites.register(site)
}

// Actor returns the local actor id.
func (s *Store) Actor() ActorID { return s.self }

// Site returns the replica identity registered for actor.
func (s *Store) Site(actor ActorID) (uuid.UUID, bool) {
	return s.sites.site(actor)
}

// newID mints the next local chunk id.
func (s *Store) newID() ChunkID {
	s.seq++
	return ChunkID{Actor: s.self, Seq: s.seq}
}

// resolve follows the alias chain from a split target to its live
// replacement. An alias cycle is an invariant violation.
func (s *Store) resolve(id ChunkID) ChunkID {
	for steps := 0; ; steps++ {
		next, ok := s.alias[id]
		if !ok {
			return id
		}
		if steps > len(s.alias) {
			panic(fmt.Sprintf("crdt: alias cycle at %v", id))
		}
		id = next
	}
}

// Apply dispatches one replicated operation.
func (s *Store) Apply(op Op) {
	switch op.Kind {
	case OpInsert:
		s.Insert(op.ID, op.Parent, op.Text)
	case OpSplit:
		s.Split(op.ID, op.At, op.Left, op.Right)
	case OpDelete:
		s.Delete(op.ID)
	default:
		panic(fmt.Sprintf("crdt: unknown op kind %d", op.Kind))
	}
}

// Insert creates chunk id under after. If after is unknown the
// operation is deferred until the parent arrives. Redelivery of a known
// chunk is a no-op.
func (s *Store) Insert(id, after ChunkID, text string) {
	if _, ok := s.chunks[id]; ok {
		return
	}
	after = s.resolve(after)
	parent, ok := s.chunks[after]
	if !ok {
		s.pending[after] = append(s.pending[after], Op{Kind: OpInsert, ID: id, Parent: after, Text: text})
		return
	}
	s.chunks[id] = &chunk{id: id, text: text}
	parent.children = insertChild(parent.children, id)
	s.flush(id)
}

// Split tombstones target and replaces its text with left and right.
// Left takes target's tree position as its sole child, right hangs
// under left, and target's previous children move under right. Later
// operations addressing target redirect to right. Splitting an unknown
// chunk is a programmer error.
func (s *Store) Split(target ChunkID, at int, left, right ChunkID) {
	if _, ok := s.chunks[left]; ok {
		return
	}
	c, ok := s.chunks[s.resolve(target)]
	if !ok {
		panic(fmt.Sprintf("crdt: split of unknown chunk %v", target))
	}
	if at <= 0 || at >= len(c.text) {
		panic(fmt.Sprintf("crdt: split offset %d out of range for %d-byte chunk", at, len(c.text)))
	}

	l := &chunk{id: left, text: c.text[:at], children: []ChunkID{right}, deleted: c.deleted}
	r := &chunk{id: right, text: c.text[at:], children: c.children, deleted: c.deleted}
	s.chunks[left] = l
	s.chunks[right] = r

	c.children = []ChunkID{left}
	c.deleted = true
	c.text = ""
	s.alias[c.id] = right

	s.flush(target)
	s.flush(left)
	s.flush(right)
}

// Delete tombstones id. Children remain addressable, so later inserts
// below a deleted chunk still appear. Deleting an unknown chunk is
// deferred like an insert under an unknown parent.
func (s *Store) Delete(id ChunkID) {
	resolved := s.resolve(id)
	c, ok := s.chunks[resolved]
	if !ok {
		s.pending[resolved] = append(s.pending[resolved], Op{Kind: OpDelete, ID: resolved})
		return
	}
	c.deleted = true
}

// flush applies operations deferred on id, now that it exists.
func (s *Store) flush(id ChunkID) {
	ops := s.pending[id]
	if len(ops) == 0 {
		return
	}
	delete(s.pending, id)
	for _, op := range ops {
		s.Apply(op)
	}
}

// PendingCount reports how many operations await a missing parent.
func (s *Store) PendingCount() int {
	n := 0
	for _, ops := range s.pending {
		n += len(ops)
	}
	return n
}

// Materialize concatenates the live chunk texts in tree order.
func (s *Store) Materialize() string {
	var b strings.Builder
	s.walk(RootID, func(c *chunk) {
		b.WriteString(c.text)
	})
	return b.String()
}

// Len returns the materialized byte length.
func (s *Store) Len() int {
	n := 0
	s.walk(RootID, func(c *chunk) {
		n += len(c.text)
	})
	return n
}

// walk visits live chunks depth first in child order.
func (s *Store) walk(id ChunkID, visit func(*chunk)) {
	c := s.chunks[id]
	if !c.deleted && c.id != RootID {
		visit(c)
	}
	for _, child := range c.children {
		s.walk(child, visit)
	}
}

// insertChild adds id to a child list sorted by descending ChunkID.
func insertChild(children []ChunkID, id ChunkID) []ChunkID {
	i := sort.Search(len(children), func(i int) bool {
		return children[i].Less(id)
	})
	children = append(children, ChunkID{})
	copy(children[i+1:], children[i:])
	children[i] = id
	return children
}
