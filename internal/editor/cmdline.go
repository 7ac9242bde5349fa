package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quilledit/quill/internal/input"
)

// ErrUnknownCommand is returned by command handlers for names they do
// not serve.
var ErrUnknownCommand = errors.New("editor: unknown command")

// CommandLine is the `:` prompt's private buffer with a byte-offset
// cursor.
type CommandLine struct {
	text   string
	cursor int
}

// Text returns the buffer contents.
func (c *CommandLine) Text() string { return c.text }

// Cursor returns the byte-offset cursor.
func (c *CommandLine) Cursor() int { return c.cursor }

// Insert places a rune at the cursor.
func (c *CommandLine) Insert(r rune) {
	c.text = c.text[:c.cursor] + string(r) + c.text[c.cursor:]
	c.cursor += len(string(r))
}

// Backspace removes the rune before the cursor.
func (c *CommandLine) Backspace() {
	if c.cursor == 0 {
		return
	}
	prev := c.cursor - 1
	for prev > 0 && c.text[prev]&0xC0 == 0x80 {
		prev--
	}
	c.text = c.text[:prev] + c.text[c.cursor:]
	c.cursor = prev
}

// Move shifts the cursor by whole runes, clamping at the ends.
func (c *CommandLine) Move(delta int) {
	for ; delta > 0 && c.cursor < len(c.text); delta-- {
		c.cursor++
		for c.cursor < len(c.text) && c.text[c.cursor]&0xC0 == 0x80 {
			c.cursor++
		}
	}
	for ; delta < 0 && c.cursor > 0; delta++ {
		c.cursor--
		for c.cursor > 0 && c.text[c.cursor]&0xC0 == 0x80 {
			c.cursor--
		}
	}
}

// Submit parses the `:` buffer, runs the command, surfaces the result
// on the status line, and returns to Normal mode.
func (e *Editor) Submit() {
	if e.cmdline == nil {
		return
	}
	line := strings.TrimSpace(e.cmdline.text)
	e.SetMode(input.Normal)
	if line == "" {
		return
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	if e.handler == nil {
		e.status = fmt.Sprintf("unknown command: %s", name)
		return
	}
	status, err := e.handler(name, arg)
	switch {
	case errors.Is(err, ErrUnknownCommand):
		e.status = fmt.Sprintf("unknown command: %s", name)
		e.log.Warn().Str("command", name).Msg("unknown command")
	case err != nil:
		e.status = err.Error()
		e.log.Error().Err(err).Str("command", name).Msg("command failed")
	default:
		e.status = status
		e.log.Debug().Str("command", name).Str("arg", arg).Msg("command ok")
	}
}
