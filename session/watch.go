package session

import (
	"github.com/fsnotify/fsnotify"
)

// Hooks are called around file invalidation triggered by watch-mode
// filesystem events, mirroring CompilerHooks.PreInvalidate/PostInvalidate's
// role of letting a caller observe recompilation without being the one
// driving it.
type Hooks struct {
	// PreInvalidate is called with the path about to be invalidated, before
	// any dependent file is touched.
	PreInvalidate func(path string)
	// PostInvalidate is called after invalidate has run for path (a no-op:
	// nothing is dropped from any cache).
	PostInvalidate func(path string)
}

// Watcher calls Hooks around each write, remove or rename event on a watched
// file. It neither re-runs preprocessing nor evicts PreprocessCache entries
// (see invalidate); a changed file's new content simply hashes to a new key.
type Watcher struct {
	w     *fsnotify.Watcher
	cache *PreprocessCache
	hooks Hooks
}

// Watch starts watching the given source files for changes. The returned
// Watcher must be closed with Stop when the session ends.
func (s *Session) Watch(paths []string, hooks Hooks) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, err
		}
	}
	watcher := &Watcher{w: w, cache: s.cache, hooks: hooks}
	go watcher.run()
	return watcher, nil
}

func (wt *Watcher) run() {
	for {
		select {
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if wt.hooks.PreInvalidate != nil {
				wt.hooks.PreInvalidate(ev.Name)
			}
			wt.invalidate(ev.Name)
			if wt.hooks.PostInvalidate != nil {
				wt.hooks.PostInvalidate(ev.Name)
			}
		case _, ok := <-wt.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// invalidate is a no-op by construction: PreprocessCache keys are content
// hashes (Key), not paths, so a changed file's old entry simply stops
// matching once its content hash changes, and there's nothing to evict
// here. The method exists as the hook point a future path-addressed cache
// backend would need.
func (wt *Watcher) invalidate(path string) {}

func (wt *Watcher) Stop() error { return wt.w.Close() }
