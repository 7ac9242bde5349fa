// Package input turns keystrokes into editor actions. The parser is a
// small state machine over one keystroke at a time: it accumulates
// counts and pending operators in Normal mode and passes printable
// keys through in the text-entry modes.
package input

import "errors"

// Mode is the editor's modal state.
type Mode uint8

const (
	Normal Mode = iota
	Insert
	Visual
	Replace
	Command
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	case Visual:
		return "visual"
	case Replace:
		return "replace"
	case Command:
		return "command"
	}
	return "unknown"
}

// Special identifies non-printable keys the core cares about.
type Special uint8

const (
	None Special = iota
	Escape
	Enter
	Backspace
)

// Key is one keystroke. Rune is set for printable keys, Special
// otherwise; Ctrl marks a control chord.
type Key struct {
	Rune    rune
	Special Special
	Ctrl    bool
}

// RuneKey wraps a printable keystroke.
func RuneKey(r rune) Key { return Key{Rune: r} }

// CtrlKey wraps a control chord such as Ctrl-r.
func CtrlKey(r rune) Key { return Key{Rune: r, Ctrl: true} }

// SpecialKey wraps a non-printable keystroke.
func SpecialKey(s Special) Key { return Key{Special: s} }

var (
	// ErrIncomplete means the sequence needs more keys.
	ErrIncomplete = errors.New("input: incomplete sequence")
	// ErrUnrecognized means the sequence matches nothing; the parser
	// buffer has been discarded.
	ErrUnrecognized = errors.New("input: unrecognized sequence")
)
