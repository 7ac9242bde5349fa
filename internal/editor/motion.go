package editor

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/quilledit/quill/internal/input"
)

// MoveGraphemes walks the cursor delta grapheme clusters, crossing
// line terminators and clamping at the document bounds.
func (e *Editor) MoveGraphemes(delta int) {
	e.setCursorOffset(e.doc.OffsetByGraphemes(e.offset(), delta))
}

// MoveToColumn moves within the current line. Passing ColumnEnd pins
// the target column to the sentinel so vertical motion stays at line
// ends.
func (e *Editor) MoveToColumn(col int) {
	if col == ColumnEnd {
		e.cursor.Column = e.maxColumn(e.cursor.Line)
		e.cursor.Target = ColumnEnd
		return
	}
	if col < 0 {
		col = 0
	}
	if max := e.maxColumn(e.cursor.Line); col > max {
		col = max
	}
	e.cursor.Column = col
	e.cursor.Target = e.doc.VisualColumn(e.cursor.Line, col)
}

// MoveLines moves vertically, clamping the line and restoring the
// column from the target column.
func (e *Editor) MoveLines(delta int) {
	e.moveToLine(e.cursor.Line + delta)
}

func (e *Editor) moveToLine(line int) {
	if line < 0 {
		line = 0
	}
	if last := e.doc.LineCount() - 1; line > last {
		line = last
	}
	e.cursor.Line = line
	if e.cursor.Target == ColumnEnd {
		e.cursor.Column = e.maxColumn(line)
		return
	}
	col := e.doc.ColumnFromVisual(line, e.cursor.Target)
	if max := e.maxColumn(line); col > max {
		col = max
	}
	e.cursor.Column = col
}

// Move executes one parsed motion count times.
func (e *Editor) Move(m input.Motion, count int) {
	switch m.Kind {
	case input.MotionLeft:
		e.MoveGraphemes(-count)
	case input.MotionRight:
		e.MoveGraphemes(count)
	case input.MotionUp:
		e.MoveLines(-count)
	case input.MotionDown:
		e.MoveLines(count)
	case input.MotionLineStart:
		e.MoveToColumn(0)
	case input.MotionFirstNonBlank:
		e.MoveToColumn(e.firstNonBlank(e.cursor.Line))
	case input.MotionLineEnd:
		e.MoveToColumn(ColumnEnd)
	case input.MotionFileStart:
		e.moveToLine(0)
		e.MoveToColumn(e.firstNonBlank(e.cursor.Line))
	case input.MotionFileEnd:
		e.moveToLine(e.doc.LineCount() - 1)
		e.MoveToColumn(e.firstNonBlank(e.cursor.Line))
	case input.MotionWordForward:
		for i := 0; i < count; i++ {
			e.setCursorOffset(e.wordForward(e.offset()))
		}
	case input.MotionWordBack:
		for i := 0; i < count; i++ {
			e.setCursorOffset(e.wordBack(e.offset()))
		}
	case input.MotionWordEnd:
		for i := 0; i < count; i++ {
			e.setCursorOffset(e.wordEnd(e.offset()))
		}
	case input.MotionMatchBracket:
		if o, ok := e.matchBracket(e.offset()); ok {
			e.setCursorOffset(o)
		}
	case input.MotionFindChar:
		if col, ok := e.findChar(m.Char, true); ok {
			e.MoveToColumn(col)
		}
	case input.MotionFindCharBack:
		if col, ok := e.findChar(m.Char, false); ok {
			e.MoveToColumn(col)
		}
	}
}

// clusterAt returns the grapheme cluster starting at offset.
func (e *Editor) clusterAt(o int) (string, bool) {
	if o >= e.doc.Len() {
		return "", false
	}
	it := e.doc.Rope().GraphemesAt(o)
	if !it.Next() {
		return "", false
	}
	return it.Cluster(), true
}

// charClass buckets a cluster for word motions: 0 whitespace, 1 word
// characters, 2 other punctuation.
func charClass(cluster string) int {
	r := []rune(cluster)[0]
	switch {
	case unicode.IsSpace(r):
		return 0
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 1
	default:
		return 2
	}
}

// wordForward returns the offset of the next word start.
func (e *Editor) wordForward(o int) int {
	cl, ok := e.clusterAt(o)
	if !ok {
		return o
	}
	class := charClass(cl)
	// Leave the current run, then skip whitespace.
	for {
		cl, ok = e.clusterAt(o)
		if !ok || charClass(cl) != class || class == 0 {
			break
		}
		o += len(cl)
	}
	for {
		cl, ok = e.clusterAt(o)
		if !ok || charClass(cl) != 0 {
			break
		}
		o += len(cl)
	}
	return o
}

// wordBack returns the offset of the previous word start.
func (e *Editor) wordBack(o int) int {
	prev := func(o int) int { return e.doc.OffsetByGraphemes(o, -1) }
	for o > 0 {
		p := prev(o)
		cl, _ := e.clusterAt(p)
		if charClass(cl) != 0 {
			break
		}
		o = p
	}
	if o == 0 {
		return 0
	}
	p := prev(o)
	cl, _ := e.clusterAt(p)
	class := charClass(cl)
	for o > 0 {
		p = prev(o)
		cl, _ = e.clusterAt(p)
		if charClass(cl) != class {
			break
		}
		o = p
	}
	return o
}

// wordEnd returns the offset of the last cluster of the next word end.
func (e *Editor) wordEnd(o int) int {
	cl, ok := e.clusterAt(o)
	if !ok {
		return o
	}
	o += len(cl)
	for {
		cl, ok = e.clusterAt(o)
		if !ok || charClass(cl) != 0 {
			break
		}
		o += len(cl)
	}
	if !ok {
		return e.doc.OffsetByGraphemes(e.doc.Len(), -1)
	}
	class := charClass(cl)
	last := o
	for {
		next, ok := e.clusterAt(o)
		if !ok || charClass(next) != class {
			break
		}
		last = o
		o += len(next)
	}
	return last
}

// firstNonBlank returns the column of the first non-whitespace cluster
// on a line, or 0 on a blank line.
func (e *Editor) firstNonBlank(line int) int {
	text := e.doc.LineText(line)
	col := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			return col
		}
		col++
	}
	return 0
}

// findChar scans the current line for the f/F target and returns its
// grapheme column.
func (e *Editor) findChar(c rune, forward bool) (int, bool) {
	clusters := lineClusters(e.doc.LineText(e.cursor.Line))
	want := string(c)
	if forward {
		for i := e.cursor.Column + 1; i < len(clusters); i++ {
			if clusters[i] == want {
				return i, true
			}
		}
		return 0, false
	}
	for i := e.cursor.Column - 1; i >= 0 && i < len(clusters); i-- {
		if clusters[i] == want {
			return i, true
		}
	}
	return 0, false
}

// lineClusters splits a line into grapheme clusters.
func lineClusters(text string) []string {
	var clusters []string
	state := -1
	for len(text) > 0 {
		cl, rest, _, s := uniseg.FirstGraphemeClusterInString(text, state)
		clusters = append(clusters, cl)
		text, state = rest, s
	}
	return clusters
}

const openBrackets = "([{"
const closeBrackets = ")]}"

// matchBracket returns the offset of the bracket matching the one
// under the cursor.
func (e *Editor) matchBracket(o int) (int, bool) {
	cl, ok := e.clusterAt(o)
	if !ok || len(cl) != 1 {
		return 0, false
	}
	b := cl[0]
	if i := strings.IndexByte(openBrackets, b); i >= 0 {
		return e.scanBracket(o, b, closeBrackets[i], 1)
	}
	if i := strings.IndexByte(closeBrackets, b); i >= 0 {
		return e.scanBracket(o, b, openBrackets[i], -1)
	}
	return 0, false
}

func (e *Editor) scanBracket(o int, from, to byte, dir int) (int, bool) {
	depth := 0
	r := e.doc.Rope()
	for ; o >= 0 && o < r.Len(); o += dir {
		switch r.ByteAt(o) {
		case from:
			depth++
		case to:
			depth--
			if depth == 0 {
				return o, true
			}
		}
	}
	return 0, false
}
