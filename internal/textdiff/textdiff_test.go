package textdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilledit/quill/internal/engine/rope"
)

func TestDiffEqual(t *testing.T) {
	r := rope.FromString("one\ntwo\nthree\n")
	require.Empty(t, Diff(r, r))
}

func TestDiffPureAdd(t *testing.T) {
	before := rope.FromString("a\nb\n")
	after := rope.FromString("a\nx\nb\n")

	hunks := Diff(before, after)
	require.Len(t, hunks, 1)
	h := hunks[0]
	assert.Equal(t, LineRange{1, 1}, h.Before)
	assert.Equal(t, LineRange{1, 2}, h.After)
	require.Len(t, h.Changes, 1)
	assert.Equal(t, Change{Add, LineRange{1, 1}, LineRange{1, 2}}, h.Changes[0])
}

func TestDiffPureRemove(t *testing.T) {
	before := rope.FromString("a\nx\ny\nb\n")
	after := rope.FromString("a\nb\n")

	hunks := Diff(before, after)
	require.Len(t, hunks, 1)
	require.Len(t, hunks[0].Changes, 1)
	assert.Equal(t, Change{Remove, LineRange{1, 3}, LineRange{1, 1}}, hunks[0].Changes[0])
}

func TestDiffAnchorsOnRareLine(t *testing.T) {
	before := rope.FromString("alpha one\nbravo two\ncharlie\ndelta four\n")
	after := rope.FromString("alpha one\nbravo six\ncharlie\ndelta five\n")

	hunks := Diff(before, after)
	require.Len(t, hunks, 2)

	require.Len(t, hunks[0].Changes, 1)
	assert.Equal(t, Change{Modify, LineRange{1, 2}, LineRange{1, 2}}, hunks[0].Changes[0])
	require.Len(t, hunks[1].Changes, 1)
	assert.Equal(t, Change{Modify, LineRange{3, 4}, LineRange{3, 4}}, hunks[1].Changes[0])
}

func TestDiffDissimilarLinesSplit(t *testing.T) {
	// Similarity 0 forbids pairing; the hunk becomes a remove plus an
	// add rather than a modify.
	before := rope.FromString("abc\n")
	after := rope.FromString("xyz\n")

	hunks := Diff(before, after)
	require.Len(t, hunks, 1)
	require.Len(t, hunks[0].Changes, 2)
	assert.Equal(t, Remove, hunks[0].Changes[0].Kind)
	assert.Equal(t, Add, hunks[0].Changes[1].Kind)
}

func TestDiffSimilarityTraceback(t *testing.T) {
	before := rope.FromString("  let aaa = 3;\n  let ccc = 3;\n  let ccc = 3;\n")
	after := rope.FromString("  let aba = 3;\n  let b = 3;\n  let cbc = 3;\n  let cbc = 3;\n")

	hunks := Diff(before, after)
	require.Len(t, hunks, 1)

	want := []Change{
		{Modify, LineRange{0, 1}, LineRange{0, 1}},
		{Add, LineRange{1, 1}, LineRange{1, 2}},
		{Modify, LineRange{1, 3}, LineRange{2, 4}},
	}
	assert.Equal(t, want, hunks[0].Changes)
}

func TestLineTokensIgnoreChunking(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 50)

	whole := rope.FromString(text)
	pieced := rope.New()
	for i := 0; i < len(text); i += 7 {
		end := i + 7
		if end > len(text) {
			end = len(text)
		}
		pieced = pieced.Insert(pieced.Len(), text[i:end])
	}

	require.Equal(t, lineTokens(whole), lineTokens(pieced))
	require.Empty(t, Diff(whole, pieced))
}

func TestDiffEmptySides(t *testing.T) {
	empty := rope.New()
	some := rope.FromString("content\n")

	hunks := Diff(empty, some)
	require.Len(t, hunks, 1)
	assert.Equal(t, Add, hunks[0].Changes[0].Kind)

	hunks = Diff(some, empty)
	require.Len(t, hunks, 1)
	assert.Equal(t, Remove, hunks[0].Changes[0].Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "modify", Modify.String())
	assert.Equal(t, "add", Add.String())
	assert.Equal(t, "remove", Remove.String())
}
