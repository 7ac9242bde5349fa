package doc

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/quilledit/quill/internal/engine/rope"
)

// readBufSize is the fixed decode buffer. Reads append into the tail;
// undecodable trailing bytes are shifted to the front between reads.
const readBufSize = 4096

// FromReader reads the full contents of r into a document, replacing
// invalid UTF-8 with U+FFFD. Resynchronization is exact even when a
// multi-byte sequence is split across read boundaries.
func FromReader(r io.Reader) (*Document, error) {
	var b rope.Builder
	buf := make([]byte, readBufSize)
	filled := 0

	for {
		n, err := r.Read(buf[filled:])
		filled += n
		atEOF := err == io.EOF
		if err != nil && !atEOF {
			return nil, err
		}

		consumed := decodeLossy(&b, buf[:filled], atEOF)
		copy(buf, buf[consumed:filled])
		filled -= consumed

		if atEOF {
			break
		}
	}

	return &Document{rope: b.Build(), tabWidth: defaultTabWidth}, nil
}

// decodeLossy writes the decodable prefix of w to b, substituting
// U+FFFD for invalid sequences, and returns how many bytes it consumed.
// An incomplete trailing sequence is left unconsumed unless atEOF.
func decodeLossy(b *rope.Builder, w []byte, atEOF bool) int {
	var sb strings.Builder
	runStart := 0
	i := 0
	for i < len(w) {
		r, size := utf8.DecodeRune(w[i:])
		if r != utf8.RuneError || size > 1 {
			i += size
			continue
		}
		needMore, errLen := invalidLen(w[i:])
		if needMore && !atEOF {
			break
		}
		if needMore {
			// Truncated sequence at end of input.
			errLen = len(w) - i
		}
		sb.Write(w[runStart:i])
		sb.WriteRune(utf8.RuneError)
		i += errLen
		runStart = i
	}
	sb.Write(w[runStart:i])
	b.WriteString(sb.String())
	return i
}

// invalidLen classifies the non-rune at the front of w: either more
// bytes are needed to decide, or errLen bytes form a maximal invalid
// subpart to replace with a single U+FFFD.
func invalidLen(w []byte) (needMore bool, errLen int) {
	b0 := w[0]

	var want int
	var lo, hi byte
	switch {
	case b0 >= 0xC2 && b0 <= 0xDF:
		want, lo, hi = 2, 0x80, 0xBF
	case b0 == 0xE0:
		want, lo, hi = 3, 0xA0, 0xBF
	case b0 >= 0xE1 && b0 <= 0xEC:
		want, lo, hi = 3, 0x80, 0xBF
	case b0 == 0xED:
		want, lo, hi = 3, 0x80, 0x9F
	case b0 >= 0xEE && b0 <= 0xEF:
		want, lo, hi = 3, 0x80, 0xBF
	case b0 == 0xF0:
		want, lo, hi = 4, 0x90, 0xBF
	case b0 >= 0xF1 && b0 <= 0xF3:
		want, lo, hi = 4, 0x80, 0xBF
	case b0 == 0xF4:
		want, lo, hi = 4, 0x80, 0x8F
	default:
		// Stray continuation byte or overlong/invalid lead.
		return false, 1
	}

	if len(w) < 2 {
		return true, 0
	}
	if w[1] < lo || w[1] > hi {
		return false, 1
	}
	for i := 2; i < want; i++ {
		if len(w) <= i {
			return true, 0
		}
		if w[i]&0xC0 != 0x80 {
			return false, i
		}
	}
	return false, 0 // unreachable for genuinely invalid input
}

// WriteTo writes the document chunk-by-chunk through a buffered writer.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	it := d.rope.Chunks()
	for it.Next() {
		n, err := bw.WriteString(it.Text())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}
