package textdiff

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/quilledit/quill/internal/engine/rope"
)

const (
	costDelete = 1.0
	costInsert = 1.0

	// Substitutions below this similarity would pair unrelated lines;
	// a delete plus insert reads better.
	simThreshold = 0.30

	// Costs within epsilon are ties, resolved by Kind order.
	costEpsilon = 1e-6
)

// align classifies the lines of one hunk by a minimum-cost alignment.
// Deleting or inserting a line costs 1; substituting costs one minus
// the lines' similarity and is disallowed below simThreshold. Ties
// within costEpsilon resolve to the smaller Kind, which makes the
// change sequence deterministic.
func align(before, after rope.Rope, rb, ra LineRange) []Change {
	m, n := rb.Len(), ra.Len()
	bl := make([]string, m)
	for i := range bl {
		bl[i] = before.LineText(rb.Start + i)
	}
	al := make([]string, n)
	for j := range al {
		al[j] = after.LineText(ra.Start + j)
	}

	const noKind = Kind(255)
	dmp := diffmatchpatch.New()

	cost := make([][]float64, m+1)
	step := make([][]Kind, m+1)
	for i := range cost {
		cost[i] = make([]float64, n+1)
		step[i] = make([]Kind, n+1)
	}

	inf := float64(m + n + 1)
	for i := 0; i <= m; i++ {
		for j := 0; j <= n; j++ {
			if i == 0 && j == 0 {
				step[i][j] = noKind
				continue
			}
			best, kind := inf, noKind
			if i > 0 && j > 0 {
				if s := similarity(dmp, bl[i-1], al[j-1]); s >= simThreshold {
					best, kind = cost[i-1][j-1]+(1-s), Modify
				}
			}
			if j > 0 {
				if c := cost[i][j-1] + costInsert; c < best-costEpsilon {
					best, kind = c, Add
				}
			}
			if i > 0 {
				if c := cost[i-1][j] + costDelete; c < best-costEpsilon {
					best, kind = c, Remove
				}
			}
			cost[i][j] = best
			step[i][j] = kind
		}
	}

	// Traceback, then reverse and coalesce adjacent runs.
	var rev []Change
	for i, j := m, n; i > 0 || j > 0; {
		bi, aj := rb.Start+i, ra.Start+j
		switch step[i][j] {
		case Modify:
			rev = append(rev, Change{Modify, LineRange{bi - 1, bi}, LineRange{aj - 1, aj}})
			i--
			j--
		case Add:
			rev = append(rev, Change{Add, LineRange{bi, bi}, LineRange{aj - 1, aj}})
			j--
		case Remove:
			rev = append(rev, Change{Remove, LineRange{bi - 1, bi}, LineRange{aj, aj}})
			i--
		default:
			panic("textdiff: alignment traceback stuck")
		}
	}

	var changes []Change
	for k := len(rev) - 1; k >= 0; k-- {
		c := rev[k]
		if len(changes) > 0 && mergeable(changes[len(changes)-1], c) {
			last := &changes[len(changes)-1]
			last.Before.End = c.Before.End
			last.After.End = c.After.End
			continue
		}
		changes = append(changes, c)
	}
	return changes
}

// mergeable reports whether next extends prev into one multi-line
// change of the same kind.
func mergeable(prev, next Change) bool {
	if prev.Kind != next.Kind {
		return false
	}
	switch prev.Kind {
	case Modify:
		return prev.Before.End == next.Before.Start && prev.After.End == next.After.Start
	case Add:
		return prev.After.End == next.After.Start
	case Remove:
		return prev.Before.End == next.Before.Start
	}
	return false
}

// similarity is one minus the normalized Levenshtein distance between
// two lines, measured in runes.
func similarity(dmp *diffmatchpatch.DiffMatchPatch, a, b string) float64 {
	if a == b {
		return 1
	}
	maxChars := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxChars {
		maxChars = n
	}
	if maxChars == 0 {
		return 1
	}
	diffs := dmp.DiffMain(a, b, false)
	lev := dmp.DiffLevenshtein(diffs)
	return 1 - float64(lev)/float64(maxChars)
}
