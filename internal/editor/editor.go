// Package editor implements the edit engine: change application with
// undo/redo history, cursor arithmetic, modal edit operations, damage
// tracking for renderers, and the command line.
package editor

import (
	"github.com/rs/zerolog"

	"github.com/quilledit/quill/internal/engine/doc"
	"github.com/quilledit/quill/internal/input"
)

// ColumnEnd is the sentinel column meaning "end of line". Vertical
// motion through short lines keeps the cursor pinned to line ends when
// the target column holds this sentinel.
const ColumnEnd = int(^uint(0) >> 1)

// Cursor addresses a grapheme position. Line and Column are zero-based
// grapheme indices; Target remembers the visual column the user aimed
// at, or ColumnEnd.
type Cursor struct {
	Line   int
	Column int
	Target int
}

// CommandHandler runs a submitted command-line command and returns a
// status message. Returning ErrUnknownCommand surfaces the standard
// unknown-command status.
type CommandHandler func(name, arg string) (string, error)

// Editor owns one document's editing state.
type Editor struct {
	doc    *doc.Document
	cursor Cursor
	mode   input.Mode

	register string
	history  []edit
	undone   int // entries currently undone; 0 = at head
	pending  *edit

	damage  damage
	cmdline *CommandLine
	status  string

	indentWidth int
	handler     CommandHandler
	log         zerolog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Editor) { e.log = log }
}

// WithIndentWidth sets the spaces per indent level used by auto-indent.
func WithIndentWidth(w int) Option {
	return func(e *Editor) {
		if w > 0 {
			e.indentWidth = w
		}
	}
}

// WithCommandHandler wires the command-line dispatcher.
func WithCommandHandler(h CommandHandler) Option {
	return func(e *Editor) { e.handler = h }
}

// New creates an editor over a document.
func New(d *doc.Document, opts ...Option) *Editor {
	e := &Editor{
		doc:         d,
		mode:        input.Normal,
		indentWidth: 4,
		log:         zerolog.Nop(),
	}
	e.damage.lines = make(map[int]struct{})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document returns the edited document.
func (e *Editor) Document() *doc.Document { return e.doc }

// Cursor returns the current cursor.
func (e *Editor) Cursor() Cursor { return e.cursor }

// Mode returns the current mode.
func (e *Editor) Mode() input.Mode { return e.mode }

// Status returns and clears the status line message.
func (e *Editor) Status() string {
	s := e.status
	e.status = ""
	return s
}

// CommandLine returns the command-line state, nil outside Command mode.
func (e *Editor) CommandLine() *CommandLine { return e.cmdline }

// SetMode switches modes, clamping the cursor to the new mode's column
// bound and managing the command-line buffer.
func (e *Editor) SetMode(m input.Mode) {
	if m == input.Command && e.mode != input.Command {
		e.cmdline = &CommandLine{}
	}
	if m != input.Command {
		e.cmdline = nil
	}
	e.mode = m
	e.clampCursor()
}

// maxColumn is the mode-dependent upper bound for the cursor column on
// a line.
func (e *Editor) maxColumn(line int) int {
	n := e.doc.GraphemeCount(line)
	switch e.mode {
	case input.Insert, input.Replace:
		return n
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

func (e *Editor) clampCursor() {
	if e.cursor.Line >= e.doc.LineCount() {
		e.cursor.Line = e.doc.LineCount() - 1
	}
	if e.cursor.Line < 0 {
		e.cursor.Line = 0
	}
	if max := e.maxColumn(e.cursor.Line); e.cursor.Column > max {
		e.cursor.Column = max
	}
}

// offset returns the cursor's byte offset.
func (e *Editor) offset() int {
	return e.doc.CursorOffset(e.cursor.Line, e.cursor.Column)
}

// setCursorOffset places the cursor at a byte offset, clamps it, and
// refreshes the target column the way a horizontal motion would.
func (e *Editor) setCursorOffset(o int) {
	e.cursor.Line = e.doc.LineAt(o)
	e.cursor.Column = e.doc.ColumnAt(o)
	e.clampCursor()
	e.cursor.Target = e.doc.VisualColumn(e.cursor.Line, e.cursor.Column)
}
