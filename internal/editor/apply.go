package editor

import "github.com/quilledit/quill/internal/input"

// Apply executes one parsed action. In Command mode, text edits route
// to the command-line buffer instead of the document.
func (e *Editor) Apply(a input.Action) {
	if e.mode == input.Command && e.cmdline != nil {
		switch a.Kind {
		case input.ActInsertRune:
			e.cmdline.Insert(a.Rune)
			return
		case input.ActBackspace:
			e.cmdline.Backspace()
			return
		case input.ActSubmit:
			e.Submit()
			return
		case input.ActSetMode:
			e.SetMode(a.Mode)
			return
		}
		return
	}

	switch a.Kind {
	case input.ActMove:
		e.Move(a.Motion, a.Count)
	case input.ActInsertRune:
		for i := 0; i < a.Count; i++ {
			e.InsertRune(a.Rune)
		}
	case input.ActReplaceRune:
		e.ReplaceRune(a.Rune)
	case input.ActDeleteChar:
		e.DeleteChar(a.Count)
	case input.ActDelete:
		e.DeleteMotion(a.Motion, a.Count)
	case input.ActCut:
		e.CutMotion(a.Motion, a.Count)
	case input.ActDeleteLine:
		e.DeleteLine(a.Count)
	case input.ActCutLine:
		e.CutLine(a.Count)
	case input.ActPaste:
		for i := 0; i < a.Count; i++ {
			e.Paste(a.After)
		}
	case input.ActBackspace:
		e.Backspace()
	case input.ActUndo:
		for i := 0; i < a.Count; i++ {
			if !e.Undo() {
				break
			}
		}
	case input.ActRedo:
		for i := 0; i < a.Count; i++ {
			if !e.Redo() {
				break
			}
		}
	case input.ActSetMode:
		e.SetMode(a.Mode)
		if a.Mode == input.Insert && a.After {
			// Append: step past the cursor grapheme.
			e.MoveToColumn(e.cursor.Column + 1)
		}
	}
}
