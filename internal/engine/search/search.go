// Package search implements two-way (Crochemore-Perrin) substring
// search over a chunked byte source. The haystack is never
// materialized: the scanner only needs random byte access, which the
// rope provides without copying. One scanner implementation serves both
// directions; the reverse search runs the same code over reversed views
// of the needle and haystack.
package search

// Source is a random-access byte sequence. Rope-backed sources answer
// ByteAt from a cached chunk, so sequential scans stay cheap.
type Source interface {
	Len() int
	ByteAt(i int) byte
}

// reversed adapts a Source to read from the tail.
type reversed struct {
	src Source
}

func (r reversed) Len() int         { return r.src.Len() }
func (r reversed) ByteAt(i int) byte { return r.src.ByteAt(r.src.Len() - 1 - i) }

// twoWay holds the tables precomputed from the needle alone. The tables
// are immutable; iteration state lives in Iterator, which makes
// iterators restartable by construction.
type twoWay struct {
	needle []byte
	crit   int  // critical factorization position: needle = u v, |u| = crit
	period int  // period of v (small case) or the large-case shift
	small  bool // period case; small keeps a match memory across shifts
}

// compile precomputes the two-way tables for a needle.
func compile(needle []byte) twoWay {
	critA, periodA := maximalSuffix(needle, false)
	critB, periodB := maximalSuffix(needle, true)

	// The critical factorization is whichever maximal suffix starts
	// later.
	crit, period := critA, periodA
	if critB >= critA {
		crit, period = critB, periodB
	}

	t := twoWay{needle: needle, crit: crit}
	if crit*2 < len(needle) && prefixMatchesAt(needle, period, crit) {
		t.period = period
		t.small = true
	} else {
		t.period = max(crit, len(needle)-crit)
		t.small = false
	}
	return t
}

// prefixMatchesAt reports whether needle[:n] == needle[at:at+n], i.e.
// whether u is a suffix of v's leading period.
func prefixMatchesAt(needle []byte, at, n int) bool {
	if at+n > len(needle) {
		return false
	}
	for i := 0; i < n; i++ {
		if needle[i] != needle[at+i] {
			return false
		}
	}
	return true
}

// maximalSuffix computes the maximal suffix of arr under the byte order
// (or its reverse when orderGreater), returning its start position and
// period.
func maximalSuffix(arr []byte, orderGreater bool) (pos, period int) {
	left := 0
	right := 1
	offset := 0
	period = 1

	for right+offset < len(arr) {
		a := arr[right+offset]
		b := arr[left+offset]
		switch {
		case a != b && (a < b) != orderGreater:
			// Suffix at right is smaller; skip past it.
			right += offset + 1
			offset = 0
			period = right - left
		case a == b:
			// Advance through the repetition.
			if offset+1 == period {
				right += period
				offset = 0
			} else {
				offset++
			}
		default:
			// Suffix at right is larger; it becomes the maximal one.
			left = right
			right++
			offset = 0
			period = 1
		}
	}
	return left, period
}

// Iterator yields non-overlapping match offsets. Forward iterators
// yield increasing offsets, reverse iterators decreasing ones.
type Iterator struct {
	tables  twoWay
	src     Source
	reverse bool
	pos     int // candidate start in scan coordinates
	mem     int // verified right-half prefix (small period case)
}

// Find returns an iterator over the start offsets of needle in src, in
// increasing order. An empty needle matches nowhere.
func Find(src Source, needle []byte) *Iterator {
	return &Iterator{tables: compile(needle), src: src}
}

// FindReverse returns an iterator over the start offsets of needle in
// src, in decreasing order.
func FindReverse(src Source, needle []byte) *Iterator {
	rev := make([]byte, len(needle))
	for i, b := range needle {
		rev[len(needle)-1-i] = b
	}
	return &Iterator{tables: compile(rev), src: reversed{src}, reverse: true}
}

// Reset rewinds the iterator to the start of the haystack.
func (it *Iterator) Reset() {
	it.pos = 0
	it.mem = 0
}

// Next returns the next match offset, or false when exhausted.
func (it *Iterator) Next() (int, bool) {
	n := it.tables.needle
	if len(n) == 0 {
		return 0, false
	}

	src := it.src
	crit := it.tables.crit
	period := it.tables.period

	for it.pos+len(n) <= src.Len() {
		// Scan the right half forward.
		i := crit
		if it.mem > i {
			i = it.mem
		}
		for i < len(n) && n[i] == src.ByteAt(it.pos+i) {
			i++
		}
		if i < len(n) {
			it.pos += i - crit + 1
			it.mem = 0
			continue
		}

		// Right half matched; verify the left half backward.
		j := crit - 1
		for j >= it.mem && n[j] == src.ByteAt(it.pos+j) {
			j--
		}
		if j < it.mem {
			match := it.pos
			it.pos += len(n)
			it.mem = 0
			if it.reverse {
				return src.Len() - match - len(n), true
			}
			return match, true
		}

		// Left half mismatched: shift by the period, remembering the
		// already-verified suffix in the small case.
		it.pos += period
		if it.tables.small {
			it.mem = len(n) - period
		} else {
			it.mem = 0
		}
	}
	return 0, false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
