// Package crdt implements an operation-based text CRDT: a causal tree
// of text chunks supporting insert, split and delete. Operations are
// idempotent and may arrive in any order that respects causality;
// inserts under a not-yet-seen parent are deferred until the parent
// arrives. Materialization is a depth-first walk of the tree and is
// deterministic across replicas with the same operation set.
package crdt

import "github.com/google/uuid"

// ActorID identifies a participant. Dense ids are assigned through the
// store's site map, keyed by replica UUID.
type ActorID uint32

// ChunkID identifies a chunk of text, totally ordered by actor then
// sequence. Sequence numbers start at 1; the zero value is RootID.
type ChunkID struct {
	Actor ActorID
	Seq   uint64
}

// RootID is the sentinel parent preceding all real chunks.
var RootID = ChunkID{}

// Less orders chunk ids by actor, then sequence.
func (a ChunkID) Less(b ChunkID) bool {
	if a.Actor != b.Actor {
		return a.Actor < b.Actor
	}
	return a.Seq < b.Seq
}

// OpKind discriminates replicated operations.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpSplit
	OpDelete
)

// Op is one replicated operation. ID is the inserted chunk, the split
// target, or the deleted chunk depending on Kind.
type Op struct {
	Kind   OpKind
	ID     ChunkID
	Parent ChunkID // insert only
	Text   string  // insert only
	At     int     // split only
	Left   ChunkID // split only
	Right  ChunkID // split only
}

// siteMap assigns dense actor ids to replica identities in registration
// order.
type siteMap struct {
	ids   map[uuid.UUID]ActorID
	sites []uuid.UUID
}

func newSiteMap() *siteMap {
	return &siteMap{ids: make(map[uuid.UUID]ActorID)}
}

func (m *siteMap) register(site uuid.UUID) ActorID {
	if id, ok := m.ids[site]; ok {
		return id
	}
	id := ActorID(len(m.sites))
	m.ids[site] = id
	m.sites = append(m.sites, site)
	return id
}

func (m *siteMap) site(id ActorID) (uuid.UUID, bool) {
	if int(id) >= len(m.sites) {
		return uuid.UUID{}, false
	}
	return m.sites[id], true
}
