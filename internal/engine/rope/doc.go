// Package rope implements an immutable rope: UTF-8 text stored as a
// balanced tree of bounded chunks. Operations return new Rope values,
// so snapshots are free and safe to share across goroutines.
//
// All positions are byte offsets into valid UTF-8. Splice operations
// cost O(log n + k) for k bytes of replacement text; line/offset
// translation costs O(log n).
package rope
