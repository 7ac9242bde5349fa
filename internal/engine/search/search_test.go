package search

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/quilledit/quill/internal/engine/rope"
)

func collect(it *Iterator) []int {
	var out []int
	for {
		off, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, off)
	}
}

// findRef computes non-overlapping forward matches with strings.Index.
func findRef(hay, needle string) []int {
	var out []int
	if needle == "" {
		return out
	}
	pos := 0
	for {
		i := strings.Index(hay[pos:], needle)
		if i < 0 {
			return out
		}
		out = append(out, pos+i)
		pos += i + len(needle)
	}
}

// rfindRef computes non-overlapping backward matches by scanning from
// the tail.
func rfindRef(hay, needle string) []int {
	var out []int
	if needle == "" {
		return out
	}
	end := len(hay)
	for {
		i := strings.LastIndex(hay[:end], needle)
		if i < 0 {
			return out
		}
		out = append(out, i)
		end = i
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		hay    string
		needle string
		want   []int
	}{
		{"overlap advances past match", "foo bar baz ooo quoox", "oo", []int{1, 12, 18}},
		{"single char", "abcabc", "b", []int{1, 4}},
		{"whole haystack", "abc", "abc", []int{0}},
		{"needle longer than haystack", "ab", "abc", nil},
		{"absent", "hello world", "xyz", nil},
		{"empty needle", "hello", "", nil},
		{"empty haystack", "", "a", nil},
		{"periodic needle", "aabaabaabaab", "aabaab", []int{0, 6}},
		{"repeated byte", "aaaaaa", "aa", []int{0, 2, 4}},
		{"at both ends", "xabcx", "x", []int{0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(Find(Bytes(tt.hay), []byte(tt.needle)))
			if !equalInts(got, tt.want) {
				t.Errorf("Find(%q, %q) = %v, want %v", tt.hay, tt.needle, got, tt.want)
			}
		})
	}
}

func TestFindReverse(t *testing.T) {
	tests := []struct {
		name   string
		hay    string
		needle string
		want   []int
	}{
		{"overlap advances past match", "foo bar baz ooo quoox", "oo", []int{18, 13, 1}},
		{"single char", "abcabc", "b", []int{4, 1}},
		{"whole haystack", "abc", "abc", []int{0}},
		{"absent", "hello world", "xyz", nil},
		{"empty needle", "hello", "", nil},
		{"repeated byte", "aaaaaa", "aa", []int{4, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(FindReverse(Bytes(tt.hay), []byte(tt.needle)))
			if !equalInts(got, tt.want) {
				t.Errorf("FindReverse(%q, %q) = %v, want %v", tt.hay, tt.needle, got, tt.want)
			}
		})
	}
}

func TestDirectionsDisagreeOnOverlaps(t *testing.T) {
	// Overlapping occurrences make the two directions pick different
	// non-overlapping subsets.
	hay := "ooo"
	fwd := collect(Find(Bytes(hay), []byte("oo")))
	rev := collect(FindReverse(Bytes(hay), []byte("oo")))
	if !equalInts(fwd, []int{0}) {
		t.Errorf("forward = %v, want [0]", fwd)
	}
	if !equalInts(rev, []int{1}) {
		t.Errorf("reverse = %v, want [1]", rev)
	}
}

func TestIteratorReset(t *testing.T) {
	it := Find(Bytes("abcabcabc"), []byte("abc"))
	first := collect(it)
	it.Reset()
	second := collect(it)
	if !equalInts(first, second) {
		t.Errorf("after Reset got %v, want %v", second, first)
	}
}

func TestFindRopeSource(t *testing.T) {
	// Haystack large enough to span many rope chunks and several cache
	// windows.
	var b strings.Builder
	for i := 0; i < 400; i++ {
		b.WriteString("some filler text line with needle words inside\n")
	}
	hay := b.String()

	r := rope.FromString(hay)
	src := NewRopeSource(r)

	want := findRef(hay, "needle")
	got := collect(Find(src, []byte("needle")))
	if !equalInts(got, want) {
		t.Fatalf("rope-backed Find found %d matches, want %d", len(got), len(want))
	}

	wantRev := rfindRef(hay, "needle")
	gotRev := collect(FindReverse(src, []byte("needle")))
	if !equalInts(gotRev, wantRev) {
		t.Fatalf("rope-backed FindReverse found %d matches, want %d", len(gotRev), len(wantRev))
	}
}

func TestFindRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte("abc")

	for iter := 0; iter < 300; iter++ {
		hay := make([]byte, rng.Intn(80))
		for i := range hay {
			hay[i] = alphabet[rng.Intn(len(alphabet))]
		}
		needle := make([]byte, 1+rng.Intn(5))
		for i := range needle {
			needle[i] = alphabet[rng.Intn(len(alphabet))]
		}

		want := findRef(string(hay), string(needle))
		got := collect(Find(Bytes(hay), needle))
		if !equalInts(got, want) {
			t.Fatalf("Find(%q, %q) = %v, want %v", hay, needle, got, want)
		}

		wantRev := rfindRef(string(hay), string(needle))
		gotRev := collect(FindReverse(Bytes(hay), needle))
		if !equalInts(gotRev, wantRev) {
			t.Fatalf("FindReverse(%q, %q) = %v, want %v", hay, needle, gotRev, wantRev)
		}
	}
}
