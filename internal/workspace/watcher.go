package workspace

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// watcher wraps fsnotify to flag open documents modified behind the
// editor's back. Watches are per containing directory because most
// tools replace files by rename, which drops a watch on the file
// itself.
type watcher struct {
	fsw *fsnotify.Watcher
	log zerolog.Logger

	mu   sync.Mutex
	dirs map[string]int // watched directory -> file refcount

	onChange func(path string)

	done chan struct{}
	wg   sync.WaitGroup
}

func newWatcher(log zerolog.Logger, onChange func(string)) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		fsw:      fsw,
		log:      log,
		dirs:     make(map[string]int),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *watcher) add(path string) error {
	dir := filepath.Dir(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	return nil
}

func (w *watcher) remove(path string) {
	dir := filepath.Dir(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if n := w.dirs[dir]; n > 1 {
		w.dirs[dir] = n - 1
		return
	}
	delete(w.dirs, dir)
	_ = w.fsw.Remove(dir)
}

func (w *watcher) close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.onChange(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("file watch error")
		}
	}
}

// watch registers a file path with the lazy watcher. Called with the
// workspace lock held.
func (w *Workspace) watch(path string) {
	if w.watcher == nil {
		wt, err := newWatcher(w.log, w.markExternal)
		if err != nil {
			w.log.Warn().Err(err).Msg("file watcher unavailable")
			return
		}
		w.watcher = wt
	}
	if err := w.watcher.add(path); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("watch failed")
	}
}

// unwatch drops a file path. Called with the workspace lock held.
func (w *Workspace) unwatch(path string) {
	if w.watcher != nil {
		w.watcher.remove(path)
	}
}

// markExternal flags every open document whose file the event names.
// Saves from this process also trip the watcher; those are filtered by
// comparing the on-disk mtime recorded at save time in Save.
func (w *Workspace) markExternal(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range w.docs {
		if h.path != path {
			continue
		}
		if info, err := os.Stat(h.path); err == nil && !info.ModTime().After(h.mtime) {
			continue
		}
		if !h.external {
			w.log.Info().Str("path", path).Msg("modified externally")
		}
		h.external = true
	}
}

// TakeExternallyModified drains and returns the ids of documents whose
// files changed on disk, the way renderers drain damage.
func (w *Workspace) TakeExternallyModified() []ID {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []ID
	for _, id := range w.order {
		if h := w.docs[id]; h.external {
			h.external = false
			out = append(out, id)
		}
	}
	return out
}
