package textdiff

import (
	"encoding/binary"

	"github.com/dchest/siphash"

	"github.com/quilledit/quill/internal/engine/rope"
)

// The token key is arbitrary but fixed: tokens are only compared to
// tokens from the same run.
const (
	tokenKey0 = 0x7175696c6c646966 // "quilldif"
	tokenKey1 = 0x66746f6b656e7331 // "ftokens1"
)

// lineTokens hashes every raw line (terminator included) of r. Each
// line is streamed into the hash chunk fragment by chunk fragment, so
// two ropes holding the same text produce the same tokens no matter
// how their chunks fall.
func lineTokens(r rope.Rope) []uint64 {
	tokens := make([]uint64, 0, r.LineCount())
	for line := 0; line < r.LineCount(); line++ {
		start := r.LineStart(line)
		end := r.Len()
		if line+1 < r.LineCount() {
			end = r.LineStart(line + 1)
		}
		h := siphash.New(tokenKeyBytes())
		it := r.ChunksInRange(start, end)
		for it.Next() {
			h.Write([]byte(it.Text()))
		}
		tokens = append(tokens, h.Sum64())
	}
	return tokens
}

func tokenKeyBytes() []byte {
	key := make([]byte, 16)
	binary.LittleEndian.PutUint64(key[0:], tokenKey0)
	binary.LittleEndian.PutUint64(key[8:], tokenKey1)
	return key
}
