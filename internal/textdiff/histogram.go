package textdiff

// region is a half-open token index range.
type region struct {
	start int
	end   int
}

func (r region) empty() bool { return r.start >= r.end }

// histogram recursively splits the two token regions around the best
// common anchor run and emits the mismatching regions in order. The
// anchor is the longest common token run whose leading token occurs
// least often on the before side, which keeps unique lines (function
// headers, closing braces) aligned instead of blank lines.
func histogram(a, b []uint64, ra, rb region, emit func(region, region)) {
	// Trim the common prefix and suffix first.
	for ra.start < ra.end && rb.start < rb.end && a[ra.start] == b[rb.start] {
		ra.start++
		rb.start++
	}
	for ra.start < ra.end && rb.start < rb.end && a[ra.end-1] == b[rb.end-1] {
		ra.end--
		rb.end--
	}

	if ra.empty() && rb.empty() {
		return
	}
	if ra.empty() || rb.empty() {
		emit(ra, rb)
		return
	}

	ai, bi, n := findAnchor(a, b, ra, rb)
	if n == 0 {
		emit(ra, rb)
		return
	}
	histogram(a, b, region{ra.start, ai}, region{rb.start, bi}, emit)
	histogram(a, b, region{ai + n, ra.end}, region{bi + n, rb.end}, emit)
}

// findAnchor locates the longest common run of tokens between the two
// regions. Ties prefer the run whose first token is rarest in the
// before region, then the earliest positions.
func findAnchor(a, b []uint64, ra, rb region) (ai, bi, n int) {
	counts := make(map[uint64]int, ra.end-ra.start)
	positions := make(map[uint64][]int, ra.end-ra.start)
	for i := ra.start; i < ra.end; i++ {
		counts[a[i]]++
		positions[a[i]] = append(positions[a[i]], i)
	}

	bestCount := int(^uint(0) >> 1)
	for j := rb.start; j < rb.end; j++ {
		ps, ok := positions[b[j]]
		if !ok {
			continue
		}
		for _, i := range ps {
			run := 0
			for i+run < ra.end && j+run < rb.end && a[i+run] == b[j+run] {
				run++
			}
			c := counts[a[i]]
			if run > n || (run == n && c < bestCount) {
				ai, bi, n = i, j, run
				bestCount = c
			}
		}
	}
	return ai, bi, n
}
