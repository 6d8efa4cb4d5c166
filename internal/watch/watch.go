// Package watch reruns a function when the files it depends on change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agentstation/flowcheck/pkg/constants"
	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/logging"
)

// Config configures a watch loop.
type Config struct {
	// Paths are directories (watched recursively) or single files.
	Paths []string

	// Debounce is how long to wait for more changes before rerunning.
	Debounce time.Duration
}

// RunFunc is called once at start and once per batch of changes.
type RunFunc func(ctx context.Context) error

// Run calls fn immediately and then after every debounced batch of file
// changes until ctx is done. Calls never overlap. Errors returned by fn are
// logged and do not stop the loop.
func Run(ctx context.Context, cfg Config, fn RunFunc) error {
	logger := logging.FromContext(ctx)

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = constants.WatchDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapIO("watch", "", err)
	}
	defer w.Close()

	paths := newPathSet()
	for _, p := range cfg.Paths {
		if err := paths.add(w, p); err != nil {
			return err
		}
	}

	logger.Info().
		Strs("paths", cfg.Paths).
		Dur("debounce", debounce).
		Msg("Watching for changes")

	call := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("Run failed")
		}
	}
	call()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !paths.relevant(event) {
				continue
			}
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := paths.add(w, event.Name); err != nil {
						logger.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
					}
				}
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("Watcher error")

		case <-timer.C:
			call()
		}
	}
}

// pathSet tracks watched directory trees and individually watched files.
type pathSet struct {
	dirs  map[string]struct{}
	files map[string]struct{}
}

func newPathSet() *pathSet {
	return &pathSet{
		dirs:  make(map[string]struct{}),
		files: make(map[string]struct{}),
	}
}

// add watches a directory tree, or the parent directory of a file.
func (s *pathSet) add(w *fsnotify.Watcher, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return errors.WrapIO("watch", p, err)
	}

	if !info.IsDir() {
		s.files[filepath.Clean(p)] = struct{}{}
		return errors.WrapIO("watch", p, w.Add(filepath.Dir(p)))
	}

	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapIO("watch", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != p && hidden(d.Name()) {
			return filepath.SkipDir
		}
		s.dirs[filepath.Clean(path)] = struct{}{}
		return errors.WrapIO("watch", path, w.Add(path))
	})
}

// relevant filters out attribute changes, hidden and editor temporary files,
// and siblings of individually watched files.
func (s *pathSet) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	base := filepath.Base(name)
	if hidden(base) || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	if _, ok := s.files[name]; ok {
		return true
	}
	_, ok := s.dirs[filepath.Dir(name)]
	return ok
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
