// Package textdiff computes line-level diffs between two ropes for the
// change gutter. The line layer is a histogram diff over hashed line
// tokens; each mismatching hunk is then refined by a cost-weighted
// alignment that classifies lines as modified, added or removed.
package textdiff

import "github.com/quilledit/quill/internal/engine/rope"

// Kind classifies one change within a hunk. The order is significant:
// when alignment costs tie, the smaller kind wins.
type Kind uint8

const (
	Modify Kind = iota
	Add
	Remove
)

func (k Kind) String() string {
	switch k {
	case Modify:
		return "modify"
	case Add:
		return "add"
	case Remove:
		return "remove"
	}
	return "unknown"
}

// LineRange is a half-open range of line numbers.
type LineRange struct {
	Start int
	End   int
}

// Empty reports whether the range covers no lines.
func (r LineRange) Empty() bool { return r.Start >= r.End }

// Len returns the number of lines covered.
func (r LineRange) Len() int { return r.End - r.Start }

// Change is one classified run of lines within a hunk. Modify covers
// both sides, Add is empty on the before side, Remove empty on the
// after side.
type Change struct {
	Kind   Kind
	Before LineRange
	After  LineRange
}

// Hunk is a contiguous mismatch between the two line sequences.
type Hunk struct {
	Before  LineRange
	After   LineRange
	Changes []Change
}

// Diff compares two ropes line by line and returns the mismatching
// hunks in order, each refined into classified changes.
func Diff(before, after rope.Rope) []Hunk {
	a := lineTokens(before)
	b := lineTokens(after)

	var hunks []Hunk
	histogram(a, b, region{0, len(a)}, region{0, len(b)}, func(ra, rb region) {
		h := Hunk{
			Before: LineRange{ra.start, ra.end},
			After:  LineRange{rb.start, rb.end},
		}
		h.Changes = align(before, after, h.Before, h.After)
		hunks = append(hunks, h)
	})
	return hunks
}
