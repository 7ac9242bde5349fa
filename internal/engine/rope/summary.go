package rope

// Summary holds aggregated metrics for a text span. It forms a monoid
// under Add; every tree node stores the summary of its subtree so seeks
// can skip whole branches.
type Summary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Newlines is the number of '\n' bytes.
	Newlines int
}

// Add combines two summaries for adjacent spans.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Bytes:    s.Bytes + other.Bytes,
		Newlines: s.Newlines + other.Newlines,
	}
}

// summarize computes the metrics for a string.
func summarize(text string) Summary {
	sum := Summary{Bytes: len(text)}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			sum.Newlines++
		}
	}
	return sum
}

// isUTF8Start reports whether b begins a UTF-8 sequence.
// Continuation bytes match 10xxxxxx.
func isUTF8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// nthNewline returns the byte index just past the nth newline (1-based)
// in text, or -1 if text contains fewer than n newlines.
func nthNewline(text string, n int) int {
	if n <= 0 {
		return -1
	}
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			count++
			if count == n {
				return i + 1
			}
		}
	}
	return -1
}
