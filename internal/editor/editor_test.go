package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/quilledit/quill/internal/engine/doc"
	"github.com/quilledit/quill/internal/input"
)

func newEd(text string, opts ...Option) *Editor {
	return New(doc.FromString(text), opts...)
}

// keys feeds a normal-mode-style key string through the parser and
// applies every completed action, following mode changes.
func keys(t *testing.T, e *Editor, seq string) {
	t.Helper()
	var p input.Parser
	for _, r := range seq {
		k := input.RuneKey(r)
		switch r {
		case '\x1b':
			k = input.SpecialKey(input.Escape)
		case '\n':
			k = input.SpecialKey(input.Enter)
		case '\b':
			k = input.SpecialKey(input.Backspace)
		case '\x12':
			k = input.CtrlKey('r')
		}
		a, err := p.Feed(e.Mode(), k)
		if errors.Is(err, input.ErrIncomplete) {
			continue
		}
		if err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
		e.Apply(a)
	}
}

func TestInsertAndBackspace(t *testing.T) {
	e := newEd("")
	keys(t, e, "ihello\b\b")
	if got := e.Document().String(); got != "hel" {
		t.Errorf("got %q, want %q", got, "hel")
	}
	if e.Mode() != input.Insert {
		t.Errorf("mode = %v, want insert", e.Mode())
	}
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	e := newEd("abc")
	e.SetMode(input.Insert)
	e.Backspace()
	if got := e.Document().String(); got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}

func TestDeleteRightRefusesNewline(t *testing.T) {
	e := newEd("ab\ncd")
	e.MoveToColumn(1) // on 'b'
	e.DeleteMotion(input.Motion{Kind: input.MotionRight}, 1)
	if got := e.Document().String(); got != "a\ncd" {
		t.Errorf("got %q, want %q", got, "a\ncd")
	}
	// Now at end of line; Right must not cross into the next line.
	e.DeleteMotion(input.Motion{Kind: input.MotionRight}, 1)
	if got := e.Document().String(); got != "\ncd" {
		t.Errorf("second delete: got %q", got)
	}
	e.DeleteMotion(input.Motion{Kind: input.MotionRight}, 1)
	if got := e.Document().String(); got != "\ncd" {
		t.Errorf("delete at empty line: got %q, want unchanged", got)
	}
}

func TestDeleteLineOnlyLineEmptiesDocument(t *testing.T) {
	e := newEd("only line")
	e.DeleteLine(1)
	if got := e.Document().String(); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDeleteLineLastLineConsumesPrecedingTerminator(t *testing.T) {
	e := newEd("one\ntwo")
	e.MoveLines(1)
	e.DeleteLine(1)
	if got := e.Document().String(); got != "one" {
		t.Errorf("got %q, want %q", got, "one")
	}
}

func TestDeleteRestOfLine(t *testing.T) {
	e := newEd("hello world\nnext")
	e.MoveToColumn(5)
	e.DeleteRestOfLine()
	if got := e.Document().String(); got != "hello\nnext" {
		t.Errorf("got %q, want %q", got, "hello\nnext")
	}
}

func TestUndoRestoresOriginal(t *testing.T) {
	original := "alpha\nbravo\ncharlie\n"
	e := newEd(original)

	keys(t, e, "dd")
	keys(t, e, "x")
	keys(t, e, "iinserted text\x1b")
	keys(t, e, "dw")

	for e.Undo() {
	}
	if got := e.Document().String(); got != original {
		t.Errorf("after full undo: got %q, want %q", got, original)
	}
}

func TestRedoReplaysUndoneEdit(t *testing.T) {
	e := newEd("one\ntwo\n")
	keys(t, e, "dd")
	after := e.Document().String()

	if !e.Undo() {
		t.Fatal("undo failed")
	}
	if !e.Redo() {
		t.Fatal("redo failed")
	}
	if got := e.Document().String(); got != after {
		t.Errorf("got %q, want %q", got, after)
	}
	if e.Redo() {
		t.Error("redo past head should fail")
	}
}

func TestNewEditTruncatesRedoTail(t *testing.T) {
	e := newEd("abc")
	keys(t, e, "x") // "bc"
	keys(t, e, "x") // "c"
	e.Undo()        // back to "bc"
	keys(t, e, "x") // "c" again, redo tail gone
	if e.Redo() {
		t.Error("redo should be illegal after a fresh edit")
	}
}

func TestCursorPreservationAcrossChanges(t *testing.T) {
	tests := []struct {
		name    string
		o, a, b int
		text    string
		want    int
	}{
		{"before change", 2, 5, 7, "xy", 2},
		{"at range start", 5, 5, 7, "xy", 5},
		{"inside range", 6, 5, 7, "xy", 7},
		{"at range end", 7, 5, 7, "xy", 7},
		{"after change grows", 9, 5, 7, "wxyz", 11},
		{"after change shrinks", 9, 5, 7, "", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adjustOffset(tt.o, tt.a, tt.b, len(tt.text)); got != tt.want {
				t.Errorf("adjustOffset(%d, %d, %d, %d) = %d, want %d",
					tt.o, tt.a, tt.b, len(tt.text), got, tt.want)
			}
		})
	}
}

func TestTargetColumnThroughShortLines(t *testing.T) {
	e := newEd("long line here\nab\nanother long line")
	e.MoveToColumn(ColumnEnd)
	e.MoveLines(1)
	if e.Cursor().Column != 1 {
		t.Fatalf("short line column = %d, want 1", e.Cursor().Column)
	}
	e.MoveLines(1)
	if got, want := e.Cursor().Column, len("another long line")-1; got != want {
		t.Errorf("long line column = %d, want %d (line end)", got, want)
	}
}

func TestTargetColumnRemembersVisual(t *testing.T) {
	e := newEd("0123456789\nab\n0123456789")
	e.MoveToColumn(7)
	e.MoveLines(1) // clamps to 'b'
	e.MoveLines(1)
	if e.Cursor().Column != 7 {
		t.Errorf("column = %d, want 7", e.Cursor().Column)
	}
}

func TestNewlineTrimsTrailingWhitespace(t *testing.T) {
	e := newEd("")
	keys(t, e, "ifoo   \nbar")
	if got := e.Document().String(); got != "foo\nbar" {
		t.Errorf("got %q, want %q", got, "foo\nbar")
	}
}

func TestNewlineAutoIndents(t *testing.T) {
	e := newEd("")
	keys(t, e, "i    indented\nnext")
	if got := e.Document().String(); got != "    indented\n    next" {
		t.Errorf("got %q, want %q", got, "    indented\n    next")
	}
}

func TestNewlineIndentsAfterOpenBracket(t *testing.T) {
	e := New(doc.FromString(""), WithIndentWidth(2))
	keys(t, e, "iif x {\ny")
	if got := e.Document().String(); got != "if x {\n  y" {
		t.Errorf("got %q, want %q", got, "if x {\n  y")
	}
}

func TestClosingBracketReindents(t *testing.T) {
	e := New(doc.FromString(""), WithIndentWidth(2))
	keys(t, e, "iif x {\nbody\n}")
	if got := e.Document().String(); got != "if x {\n  body\n}" {
		t.Errorf("got %q, want %q", got, "if x {\n  body\n}")
	}
}

func TestReplaceRune(t *testing.T) {
	e := newEd("cat")
	keys(t, e, "rb")
	if got := e.Document().String(); got != "bat" {
		t.Errorf("got %q, want %q", got, "bat")
	}
}

func TestReplaceModeIsSingleShot(t *testing.T) {
	e := newEd("cat")
	keys(t, e, "Rb")
	if e.Mode() != input.Normal {
		t.Errorf("mode = %v, want normal", e.Mode())
	}
	if got := e.Document().String(); got != "bat" {
		t.Errorf("got %q, want %q", got, "bat")
	}
}

func TestSwitchCase(t *testing.T) {
	e := newEd("aB9")
	e.SwitchCase()
	e.SwitchCase()
	e.SwitchCase()
	if got := e.Document().String(); got != "Ab9" {
		t.Errorf("got %q, want %q", got, "Ab9")
	}
}

func TestDeleteWordAndPaste(t *testing.T) {
	e := newEd("one two three")
	keys(t, e, "dw")
	if got := e.Document().String(); got != "two three" {
		t.Errorf("after dw: got %q", got)
	}
	if got := e.Register(); got != "one " {
		t.Errorf("register = %q, want %q", got, "one ")
	}
	keys(t, e, "$p")
	if got := e.Document().String(); got != "two threeone " {
		t.Errorf("after paste: got %q", got)
	}
}

func TestDeleteEndWordInclusive(t *testing.T) {
	e := newEd("one two")
	keys(t, e, "de")
	if got := e.Document().String(); got != " two" {
		t.Errorf("got %q, want %q", got, " two")
	}
}

func TestLinewisePaste(t *testing.T) {
	e := newEd("one\ntwo\n")
	keys(t, e, "dd")
	if got := e.Register(); got != "one\n" {
		t.Fatalf("register = %q, want %q", got, "one\n")
	}
	keys(t, e, "p")
	if got := e.Document().String(); got != "two\none\n" {
		t.Errorf("paste after: got %q, want %q", got, "two\none\n")
	}
	keys(t, e, "ggP")
	if got := e.Document().String(); got != "one\ntwo\none\n" {
		t.Errorf("paste before: got %q, want %q", got, "one\ntwo\none\n")
	}
}

func TestCutLineClearsContent(t *testing.T) {
	e := newEd("one\ntwo\nthree")
	keys(t, e, "jcc")
	if e.Mode() != input.Insert {
		t.Fatalf("mode = %v, want insert", e.Mode())
	}
	if got := e.Document().String(); got != "one\n\nthree" {
		t.Errorf("got %q, want %q", got, "one\n\nthree")
	}
	keys(t, e, "replaced")
	if got := e.Document().String(); got != "one\nreplaced\nthree" {
		t.Errorf("after typing: got %q", got)
	}
}

func TestNormalModeClampsColumn(t *testing.T) {
	e := newEd("abc")
	e.SetMode(input.Insert)
	e.MoveToColumn(3)
	if e.Cursor().Column != 3 {
		t.Fatalf("insert-mode column = %d, want 3", e.Cursor().Column)
	}
	e.SetMode(input.Normal)
	if e.Cursor().Column != 2 {
		t.Errorf("normal-mode column = %d, want 2", e.Cursor().Column)
	}
}

func TestAppendAllowsLineEnd(t *testing.T) {
	e := newEd("hi")
	keys(t, e, "$a!")
	if got := e.Document().String(); got != "hi!" {
		t.Errorf("got %q, want %q", got, "hi!")
	}
}

func TestMatchBracketMotion(t *testing.T) {
	e := newEd("f(a, (b))")
	e.MoveToColumn(1)
	e.Move(input.Motion{Kind: input.MotionMatchBracket}, 1)
	if e.Cursor().Column != 8 {
		t.Errorf("column = %d, want 8", e.Cursor().Column)
	}
	e.Move(input.Motion{Kind: input.MotionMatchBracket}, 1)
	if e.Cursor().Column != 1 {
		t.Errorf("column back = %d, want 1", e.Cursor().Column)
	}
}

func TestFindCharMotion(t *testing.T) {
	e := newEd("say: hello; done")
	keys(t, e, "f;")
	if e.Cursor().Column != 10 {
		t.Errorf("f; column = %d, want 10", e.Cursor().Column)
	}
	keys(t, e, "F:")
	if e.Cursor().Column != 3 {
		t.Errorf("F: column = %d, want 3", e.Cursor().Column)
	}
}

func TestDamageTracking(t *testing.T) {
	e := newEd("one\ntwo\nthree")
	e.MoveLines(1)
	keys(t, e, "x")
	if e.TakeDamageAll() {
		t.Error("single-line edit should not damage all")
	}
	lines := e.TakeDamages()
	if len(lines) != 1 || lines[0] != 1 {
		t.Errorf("damaged lines = %v, want [1]", lines)
	}
	if got := e.TakeDamages(); got != nil {
		t.Errorf("second drain = %v, want nil", got)
	}

	keys(t, e, "dd")
	if !e.TakeDamageAll() {
		t.Error("line deletion should damage all")
	}
	if e.TakeDamageAll() {
		t.Error("damage-all flag should clear on take")
	}
}

func TestCommandLineSubmit(t *testing.T) {
	var gotName, gotArg string
	e := newEd("text", WithCommandHandler(func(name, arg string) (string, error) {
		gotName, gotArg = name, arg
		switch name {
		case "w":
			return "file.txt: written", nil
		case "e":
			return arg + ": opened", nil
		}
		return "", ErrUnknownCommand
	}))

	keys(t, e, ":w\n")
	if gotName != "w" || gotArg != "" {
		t.Errorf("parsed (%q, %q), want (\"w\", \"\")", gotName, gotArg)
	}
	if got := e.Status(); got != "file.txt: written" {
		t.Errorf("status = %q", got)
	}
	if e.Mode() != input.Normal {
		t.Errorf("mode = %v, want normal", e.Mode())
	}

	keys(t, e, ":e other.txt\n")
	if gotName != "e" || gotArg != "other.txt" {
		t.Errorf("parsed (%q, %q), want (\"e\", \"other.txt\")", gotName, gotArg)
	}

	keys(t, e, ":bogus\n")
	if got := e.Status(); got != "unknown command: bogus" {
		t.Errorf("status = %q", got)
	}
}

func TestCommandLineEditing(t *testing.T) {
	e := newEd("")
	keys(t, e, ":wq\b\n")
	if e.Mode() != input.Normal {
		t.Errorf("mode = %v, want normal", e.Mode())
	}
	if got := e.Status(); got != "unknown command: w" {
		t.Errorf("status = %q", got)
	}
}

func TestUndoRedoKeys(t *testing.T) {
	e := newEd("abc")
	keys(t, e, "x")
	keys(t, e, "u")
	if got := e.Document().String(); got != "abc" {
		t.Errorf("after undo: got %q", got)
	}
	keys(t, e, "\x12")
	if got := e.Document().String(); got != "bc" {
		t.Errorf("after redo: got %q", got)
	}
}

func TestGraphemeAwareEditing(t *testing.T) {
	e := newEd("a💖b")
	keys(t, e, "lx")
	if got := e.Document().String(); got != "ab" {
		t.Errorf("got %q, want %q", got, "ab")
	}

	e = newEd("e\u0301x") // combining acute: one cluster, two runes
	keys(t, e, "x")
	if got := e.Document().String(); got != "x" {
		t.Errorf("cluster delete: got %q, want %q", got, "x")
	}
}

func TestWordMotions(t *testing.T) {
	e := newEd("foo bar, baz")
	tests := []struct {
		seq  string
		col  int
	}{
		{"w", 4},  // bar
		{"w", 7},  // comma
		{"w", 9},  // baz
		{"b", 7},  // back to comma
		{"b", 4},  // bar
		{"gg", 0}, // file start
		{"e", 2},  // end of foo
	}
	for _, tt := range tests {
		keys(t, e, tt.seq)
		if e.Cursor().Column != tt.col {
			t.Fatalf("after %q: column = %d, want %d", tt.seq, e.Cursor().Column, tt.col)
		}
	}
}

func TestCountedMotion(t *testing.T) {
	e := newEd(strings.Repeat("line\n", 10))
	keys(t, e, "4j")
	if e.Cursor().Line != 4 {
		t.Errorf("line = %d, want 4", e.Cursor().Line)
	}
	keys(t, e, "2k")
	if e.Cursor().Line != 2 {
		t.Errorf("line = %d, want 2", e.Cursor().Line)
	}
}
