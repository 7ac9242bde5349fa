package editor

import (
	"sort"
	"strings"
)

// Change replaces the byte range [Start, End) with Text.
type Change struct {
	Start int
	End   int
	Text  string
}

// edit is one undoable history entry: the forward changes of a single
// operation and the inverses captured when they were applied.
type edit struct {
	forward  []Change
	backward []Change
}

// begin opens a history entry, truncating any redo tail.
func (e *Editor) begin() {
	if e.pending != nil {
		return
	}
	e.history = e.history[:len(e.history)-e.undone]
	e.undone = 0
	e.pending = &edit{}
}

// commit closes the open entry, dropping it if nothing changed.
func (e *Editor) commit() {
	if e.pending != nil && len(e.pending.forward) > 0 {
		e.history = append(e.history, *e.pending)
	}
	e.pending = nil
}

// change applies one forward change inside the open entry.
func (e *Editor) change(c Change) {
	inv := e.applyChange(c)
	e.pending.forward = append(e.pending.forward, c)
	e.pending.backward = append(e.pending.backward, inv)
}

// applyChange performs the replacement, marks damage from the
// pre-image, pre-adjusts the cursor by the preservation rule, and
// returns the inverse change.
func (e *Editor) applyChange(c Change) Change {
	old := e.doc.Range(c.Start, c.End)
	o := e.offset()

	first := e.doc.LineAt(c.Start)
	last := first
	if c.End > c.Start {
		last = e.doc.LineAt(c.End)
	}
	e.doc.ReplaceRange(c.Start, c.End, c.Text)

	for l := first; l <= last; l++ {
		e.damage.lines[l] = struct{}{}
	}
	if strings.ContainsRune(c.Text, '\n') || strings.ContainsRune(old, '\n') {
		e.damage.all = true
	}

	e.setCursorOffset(adjustOffset(o, c.Start, c.End, len(c.Text)))
	return Change{Start: c.Start, End: c.Start + len(c.Text), Text: old}
}

// adjustOffset maps a byte offset across a replacement of [a, b) by k
// bytes.
func adjustOffset(o, a, b, k int) int {
	switch {
	case o <= a:
		return o
	case o <= b:
		return a + k
	default:
		return o - (b - a) + k
	}
}

// Undo reverts the entry below the history position. It reports
// whether anything was undone.
func (e *Editor) Undo() bool {
	if e.undone >= len(e.history) {
		return false
	}
	ed := e.history[len(e.history)-1-e.undone]
	for i := len(ed.backward) - 1; i >= 0; i-- {
		e.applyChange(ed.backward[i])
	}
	e.undone++
	return true
}

// Redo replays the most recently undone entry. Redo is legal only
// while entries are undone.
func (e *Editor) Redo() bool {
	if e.undone == 0 {
		return false
	}
	ed := e.history[len(e.history)-e.undone]
	for _, c := range ed.forward {
		e.applyChange(c)
	}
	e.undone--
	return true
}

// damage accumulates changed lines between renderer frames.
type damage struct {
	lines map[int]struct{}
	all   bool
}

// TakeDamageAll returns and clears the whole-document damage flag.
func (e *Editor) TakeDamageAll() bool {
	all := e.damage.all
	e.damage.all = false
	return all
}

// TakeDamages drains the damaged line set in ascending order.
func (e *Editor) TakeDamages() []int {
	if len(e.damage.lines) == 0 {
		return nil
	}
	lines := make([]int, 0, len(e.damage.lines))
	for l := range e.damage.lines {
		lines = append(lines, l)
	}
	e.damage.lines = make(map[int]struct{})
	sort.Ints(lines)
	return lines
}
