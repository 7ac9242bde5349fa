// Package workspace tracks the set of open documents: per-document
// editors, baselines for the diff gutter, and on-disk state for
// conflict-safe saves.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/quilledit/quill/internal/editor"
	"github.com/quilledit/quill/internal/engine/doc"
	"github.com/quilledit/quill/internal/engine/rope"
	"github.com/quilledit/quill/internal/textdiff"
)

var (
	// ErrConflict reports that the file changed on disk after it was
	// opened; saving would overwrite someone else's work.
	ErrConflict = errors.New("workspace: file changed on disk since open")

	// ErrNoPath reports a save on a scratch document.
	ErrNoPath = errors.New("workspace: document has no file name")

	// ErrNotOpen reports an unknown document id.
	ErrNotOpen = errors.New("workspace: document not open")
)

// ID identifies an open document for the lifetime of the workspace.
type ID = xid.ID

// Document is one open file: its editor, the baseline captured at the
// last open or save, and the on-disk metadata needed for conflict
// detection.
type Document struct {
	id       ID
	path     string
	ed       *editor.Editor
	baseline rope.Rope
	mtime    time.Time
	external bool
}

// ID returns the document id.
func (d *Document) ID() ID { return d.id }

// Path returns the absolute file path, empty for scratch documents.
func (d *Document) Path() string { return d.path }

// Editor returns the document's editor.
func (d *Document) Editor() *editor.Editor { return d.ed }

// Workspace is the registry of open documents.
type Workspace struct {
	mu      sync.Mutex
	docs    map[ID]*Document
	order   []ID
	current ID

	watcher *watcher
	edOpts  []editor.Option
	log     zerolog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Workspace) { w.log = log }
}

// WithEditorOptions passes options to every editor the workspace
// creates.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(w *Workspace) { w.edOpts = opts }
}

// New creates an empty workspace. The file watcher starts lazily on the
// first Open; a watcher setup failure degrades to no external-change
// detection.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		docs: make(map[ID]*Document),
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open reads a file into a new document and makes it current. Invalid
// UTF-8 is replaced with U+FFFD. A path that does not exist yet opens
// as an empty document bound to that path.
func (w *Workspace) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var d *doc.Document
	var mtime time.Time
	f, err := os.Open(abs)
	switch {
	case err == nil:
		defer f.Close()
		info, statErr := f.Stat()
		if statErr != nil {
			return nil, statErr
		}
		mtime = info.ModTime()
		d, err = doc.FromReader(f)
		if err != nil {
			return nil, fmt.Errorf("workspace: open %s: %w", abs, err)
		}
	case os.IsNotExist(err):
		d = doc.FromString("")
	default:
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	h := w.register(abs, d)
	h.mtime = mtime
	if !mtime.IsZero() {
		w.watch(abs)
	}
	w.log.Info().Str("path", abs).Int("bytes", d.Len()).
		Stringer("id", h.id).Msg("opened")
	return h, nil
}

// OpenScratch creates an empty pathless document and makes it current.
func (w *Workspace) OpenScratch() *Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.register("", doc.FromString(""))
}

// register must be called with the lock held.
func (w *Workspace) register(path string, d *doc.Document) *Document {
	h := &Document{
		id:       xid.New(),
		path:     path,
		baseline: d.Rope(),
	}
	opts := make([]editor.Option, 0, len(w.edOpts)+1)
	opts = append(opts, w.edOpts...)
	opts = append(opts, editor.WithCommandHandler(w.command(h)))
	h.ed = editor.New(d, opts...)
	w.docs[h.id] = h
	w.order = append(w.order, h.id)
	w.current = h.id
	return h
}

// Save writes the document back to its file. The on-disk mtime must
// not be newer than the one captured at open or the previous save;
// a newer mtime returns ErrConflict and leaves the file untouched.
func (w *Workspace) Save(id ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	h, ok := w.docs[id]
	if !ok {
		return ErrNotOpen
	}
	if h.path == "" {
		return ErrNoPath
	}

	if info, err := os.Stat(h.path); err == nil {
		if info.ModTime().After(h.mtime) {
			w.log.Warn().Str("path", h.path).Msg("save conflict")
			return fmt.Errorf("%w: %s", ErrConflict, h.path)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	f, err := os.Create(h.path)
	if err != nil {
		return err
	}
	if _, err := h.ed.Document().WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	info, err := os.Stat(h.path)
	if err != nil {
		return err
	}
	h.mtime = info.ModTime()
	h.baseline = h.ed.Document().Rope()
	h.external = false
	w.watch(h.path)
	w.log.Info().Str("path", h.path).
		Int("bytes", h.ed.Document().Len()).Msg("saved")
	return nil
}

// BaselineDiff diffs the document against the baseline captured at the
// last open or save. Renderers turn the hunks into gutter marks.
func (w *Workspace) BaselineDiff(id ID) ([]textdiff.Hunk, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	h, ok := w.docs[id]
	if !ok {
		return nil, ErrNotOpen
	}
	return textdiff.Diff(h.baseline, h.ed.Document().Rope()), nil
}

// Current returns the current document, nil when nothing is open.
func (w *Workspace) Current() *Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs[w.current]
}

// SetCurrent selects the document subsequent commands act on.
func (w *Workspace) SetCurrent(id ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.docs[id]; !ok {
		return ErrNotOpen
	}
	w.current = id
	return nil
}

// Documents returns the open documents in opening order.
func (w *Workspace) Documents() []*Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Document, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.docs[id])
	}
	return out
}

// CloseDocument removes a document from the registry. Unsaved changes
// are discarded.
func (w *Workspace) CloseDocument(id ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	h, ok := w.docs[id]
	if !ok {
		return ErrNotOpen
	}
	delete(w.docs, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.current == id {
		w.current = ID{}
		if n := len(w.order); n > 0 {
			w.current = w.order[n-1]
		}
	}
	if h.path != "" {
		w.unwatch(h.path)
	}
	w.log.Info().Str("path", h.path).Stringer("id", id).Msg("closed")
	return nil
}

// Close shuts down the workspace and its file watcher.
func (w *Workspace) Close() error {
	w.mu.Lock()
	wt := w.watcher
	w.watcher = nil
	w.mu.Unlock()
	if wt == nil {
		return nil
	}
	return wt.close()
}

// command builds the handler backing the document's `:` prompt.
func (w *Workspace) command(h *Document) editor.CommandHandler {
	return func(name, arg string) (string, error) {
		switch name {
		case "w":
			if err := w.Save(h.id); err != nil {
				return "", err
			}
			return h.path + ": written", nil
		case "e":
			if arg == "" {
				return "", errors.New("e: missing file name")
			}
			opened, err := w.Open(arg)
			if err != nil {
				return "", err
			}
			return opened.path + ": opened", nil
		}
		return "", editor.ErrUnknownCommand
	}
}
