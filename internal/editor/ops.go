package editor

import (
	"strings"

	"github.com/quilledit/quill/internal/input"
)

// InsertRune inserts the rune at the cursor and advances one grapheme.
// A newline additionally trims trailing whitespace from the line being
// left and auto-indents the new line; a closing bracket re-indents the
// current line.
func (e *Editor) InsertRune(r rune) {
	e.begin()
	defer e.commit()

	o := e.offset()
	e.change(Change{Start: o, End: o, Text: string(r)})

	switch {
	case r == '\n':
		e.afterNewline(o)
	case strings.ContainsRune(closeBrackets, r):
		e.setCursorOffset(o + len(string(r)))
		e.reindentLine(e.cursor.Line)
		return
	default:
		e.setCursorOffset(o + len(string(r)))
	}
}

// afterNewline trims the trailing whitespace left on the previous line
// and indents the new line from upward context.
func (e *Editor) afterNewline(at int) {
	prev := e.doc.LineAt(at)

	text := e.doc.LineText(prev)
	trimmed := strings.TrimRight(text, " \t")
	if n := len(text) - len(trimmed); n > 0 {
		start := e.doc.LineStart(prev) + len(trimmed)
		e.change(Change{Start: start, End: start + n})
	}

	line := prev + 1
	indent := e.indentFor(line)
	start := e.doc.LineStart(line)
	if indent != "" {
		e.change(Change{Start: start, End: start, Text: indent})
	}
	e.setCursorOffset(start + len(indent))
}

// indentFor derives the indent for a line from the first non-blank
// line above it, adding one level when that line ends in an opening
// bracket.
func (e *Editor) indentFor(line int) string {
	for l := line - 1; l >= 0; l-- {
		text := e.doc.LineText(l)
		trimmed := strings.TrimRight(text, " \t")
		if strings.TrimLeft(trimmed, " \t") == "" {
			continue
		}
		indent := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
		if strings.ContainsAny(trimmed[len(trimmed)-1:], openBrackets) {
			indent += strings.Repeat(" ", e.indentWidth)
		}
		return indent
	}
	return ""
}

// reindentLine aligns a line holding only a closing bracket with the
// line of its matching opening bracket.
func (e *Editor) reindentLine(line int) {
	text := e.doc.LineText(line)
	trimmed := strings.TrimLeft(text, " \t")
	if len(trimmed) != 1 || !strings.ContainsAny(trimmed, closeBrackets) {
		return
	}

	bracket := e.doc.LineStart(line) + len(text) - len(trimmed)
	open, ok := e.scanBracket(bracket, trimmed[0], openBrackets[strings.IndexByte(closeBrackets, trimmed[0])], -1)
	if !ok {
		return
	}
	openLine := e.doc.LineAt(open)
	openText := e.doc.LineText(openLine)
	indent := openText[:len(openText)-len(strings.TrimLeft(openText, " \t"))]

	old := len(text) - len(trimmed)
	if indent == text[:old] {
		return
	}
	start := e.doc.LineStart(line)
	e.change(Change{Start: start, End: start + old, Text: indent})
	e.setCursorOffset(start + len(indent) + len(trimmed))
}

// ReplaceRune overwrites the grapheme under the cursor. Invoked from
// Replace mode it drops back to Normal.
func (e *Editor) ReplaceRune(r rune) {
	start, end := e.doc.GraphemeSlice(e.cursor.Line, e.cursor.Column, 1)
	if start < end {
		e.begin()
		e.change(Change{Start: start, End: end, Text: string(r)})
		e.commit()
		e.setCursorOffset(start)
	}
	if e.mode == input.Replace {
		e.SetMode(input.Normal)
	}
}

// DeleteChar removes count graphemes under the cursor, stopping at the
// line end.
func (e *Editor) DeleteChar(count int) {
	start, end := e.doc.GraphemeSlice(e.cursor.Line, e.cursor.Column, count)
	if start >= end {
		return
	}
	e.register = e.doc.Range(start, end)
	e.begin()
	e.change(Change{Start: start, End: end})
	e.commit()
}

// DeleteMotion copies then deletes the range spanned by the motion.
// Right refuses to cross a newline; EndWord includes the end grapheme.
func (e *Editor) DeleteMotion(m input.Motion, count int) {
	start, end, ok := e.motionRange(m, count)
	if !ok || start >= end {
		return
	}
	e.register = e.doc.Range(start, end)
	e.begin()
	e.change(Change{Start: start, End: end})
	e.commit()
	e.setCursorOffset(start)
	e.clampCursor()
}

// CutMotion deletes by motion then enters Insert mode.
func (e *Editor) CutMotion(m input.Motion, count int) {
	e.SetMode(input.Insert)
	e.DeleteMotion(m, count)
}

// motionRange computes the byte range an operator motion spans.
func (e *Editor) motionRange(m input.Motion, count int) (int, int, bool) {
	o := e.offset()
	switch m.Kind {
	case input.MotionRight:
		end := o
		for i := 0; i < count; i++ {
			cl, ok := e.clusterAt(end)
			if !ok || cl == "\n" {
				break
			}
			end += len(cl)
		}
		return o, end, end > o
	case input.MotionLeft:
		return e.doc.OffsetByGraphemes(o, -count), o, true
	case input.MotionWordForward:
		end := o
		for i := 0; i < count; i++ {
			end = e.wordForward(end)
		}
		return o, end, true
	case input.MotionWordBack:
		start := o
		for i := 0; i < count; i++ {
			start = e.wordBack(start)
		}
		return start, o, true
	case input.MotionWordEnd:
		end := o
		for i := 0; i < count; i++ {
			end = e.wordEnd(end)
		}
		if cl, ok := e.clusterAt(end); ok {
			end += len(cl)
		}
		return o, end, true
	case input.MotionLineStart:
		return e.doc.LineStart(e.cursor.Line), o, true
	case input.MotionFirstNonBlank:
		start := e.doc.CursorOffset(e.cursor.Line, e.firstNonBlank(e.cursor.Line))
		if start > o {
			return o, start, true
		}
		return start, o, true
	case input.MotionLineEnd:
		return o, e.doc.LineEnd(e.cursor.Line), true
	case input.MotionUp:
		return e.lineSpan(e.cursor.Line-count, e.cursor.Line)
	case input.MotionDown:
		return e.lineSpan(e.cursor.Line, e.cursor.Line+count)
	case input.MotionFileStart:
		return e.lineSpan(0, e.cursor.Line)
	case input.MotionFileEnd:
		return e.lineSpan(e.cursor.Line, e.doc.LineCount()-1)
	case input.MotionMatchBracket:
		to, ok := e.matchBracket(o)
		if !ok {
			return 0, 0, false
		}
		if to < o {
			return to, o + 1, true
		}
		return o, to + 1, true
	case input.MotionFindChar:
		col, ok := e.findChar(m.Char, true)
		if !ok {
			return 0, 0, false
		}
		_, end := e.doc.GraphemeSlice(e.cursor.Line, col, 1)
		return o, end, true
	case input.MotionFindCharBack:
		col, ok := e.findChar(m.Char, false)
		if !ok {
			return 0, 0, false
		}
		start := e.doc.CursorOffset(e.cursor.Line, col)
		return start, o, true
	}
	return 0, 0, false
}

// lineSpan returns the byte range covering whole lines first..last
// with terminators, clamped to the document.
func (e *Editor) lineSpan(first, last int) (int, int, bool) {
	if first < 0 {
		first = 0
	}
	if max := e.doc.LineCount() - 1; last > max {
		last = max
	}
	if first > last {
		return 0, 0, false
	}
	start := e.doc.LineStart(first)
	end := e.doc.Len()
	if last+1 < e.doc.LineCount() {
		end = e.doc.LineStart(last + 1)
	} else if first > 0 {
		// Deleting through the final line consumes the preceding
		// terminator instead.
		start--
	}
	return start, end, true
}

// DeleteLine removes count lines with their terminators.
func (e *Editor) DeleteLine(count int) {
	start, end, ok := e.lineSpan(e.cursor.Line, e.cursor.Line+count-1)
	if !ok || start >= end {
		return
	}
	e.register = e.doc.Range(start, end)
	if !strings.HasSuffix(e.register, "\n") {
		e.register += "\n"
	}
	e.begin()
	e.change(Change{Start: start, End: end})
	e.commit()
	e.MoveToColumn(e.firstNonBlank(e.cursor.Line))
}

// CutLine clears count lines down to one empty line and enters Insert
// mode on it.
func (e *Editor) CutLine(count int) {
	last := e.cursor.Line + count - 1
	if max := e.doc.LineCount() - 1; last > max {
		last = max
	}
	start := e.doc.LineStart(e.cursor.Line)
	end := e.doc.LineEnd(last)

	e.SetMode(input.Insert)
	if start < end {
		e.register = e.doc.Range(start, end) + "\n"
		e.begin()
		e.change(Change{Start: start, End: end})
		e.commit()
	}
	e.setCursorOffset(start)
}

// DeleteRestOfLine removes from the cursor through the last grapheme
// of the line.
func (e *Editor) DeleteRestOfLine() {
	o := e.offset()
	end := e.doc.LineEnd(e.cursor.Line)
	if o >= end {
		return
	}
	e.register = e.doc.Range(o, end)
	e.begin()
	e.change(Change{Start: o, End: end})
	e.commit()
	e.clampCursor()
}

// Paste inserts the copy buffer. Linewise content (holding a newline)
// lands on the next or current line start; charwise content lands at
// the cursor, shifted one grapheme right when after.
func (e *Editor) Paste(after bool) {
	if e.register == "" {
		return
	}
	text := e.register
	if strings.Contains(text, "\n") {
		line := e.cursor.Line
		var at int
		switch {
		case !after:
			at = e.doc.LineStart(line)
		case line+1 < e.doc.LineCount():
			at = e.doc.LineStart(line + 1)
		default:
			// Pasting below the final line: move the terminator to the
			// front.
			at = e.doc.Len()
			text = "\n" + strings.TrimSuffix(text, "\n")
		}
		e.begin()
		e.change(Change{Start: at, End: at, Text: text})
		e.commit()
		pastedStart := at
		if strings.HasPrefix(text, "\n") {
			pastedStart++
		}
		e.setCursorOffset(pastedStart)
		e.MoveToColumn(e.firstNonBlank(e.cursor.Line))
		return
	}

	at := e.offset()
	if after {
		if cl, ok := e.clusterAt(at); ok && cl != "\n" {
			at += len(cl)
		}
	}
	e.begin()
	e.change(Change{Start: at, End: at, Text: text})
	e.commit()
	e.setCursorOffset(at + len(text))
	e.clampCursor()
}

// Backspace moves one grapheme left and deletes it. No-op at offset 0.
func (e *Editor) Backspace() {
	o := e.offset()
	if o == 0 {
		return
	}
	prev := e.doc.OffsetByGraphemes(o, -1)
	e.begin()
	e.change(Change{Start: prev, End: o})
	e.commit()
}

// SwitchCase toggles an ASCII letter under the cursor and advances.
func (e *Editor) SwitchCase() {
	start, end := e.doc.GraphemeSlice(e.cursor.Line, e.cursor.Column, 1)
	if end != start+1 {
		return
	}
	b := e.doc.Range(start, end)[0]
	if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
		return
	}
	e.begin()
	e.change(Change{Start: start, End: end, Text: string(b ^ 0x20)})
	e.commit()
	e.MoveGraphemes(1)
}

// Register returns the copy buffer.
func (e *Editor) Register() string { return e.register }
