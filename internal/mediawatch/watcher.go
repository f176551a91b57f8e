// Package mediawatch follows a recording directory and reports media state
// transitions as sidecar files appear, change or disappear.
package mediawatch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"cutlist/internal/logging"
	"cutlist/internal/media"
	"cutlist/internal/sidecar"
)

// DefaultDebounce groups bursts of filesystem events into one rescan.
const DefaultDebounce = 500 * time.Millisecond

// Change is one media whose state differs from the previous scan.
type Change struct {
	Path     string      `json:"path"`
	Stem     string      `json:"stem"`
	Previous media.State `json:"previous,omitempty"`
	Current  media.State `json:"current,omitempty"`
	Removed  bool        `json:"removed,omitempty"`
}

// Options configures New.
type Options struct {
	Extension string
	Debounce  time.Duration
	Logger    *slog.Logger
}

// Watcher follows one directory. States are re-derived from a fresh
// directory snapshot after each burst of events.
type Watcher struct {
	dir      string
	ext      string
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher
	states   map[string]media.State
}

// New starts watching dir and records the current state of every media.
func New(dir string, opts Options) (*Watcher, error) {
	ext := opts.Extension
	if ext == "" {
		ext = ".ts"
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		dir:      dir,
		ext:      ext,
		debounce: debounce,
		logger:   logging.NewComponentLogger(opts.Logger, "mediawatch"),
		fs:       fw,
	}
	states, err := w.scan()
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	w.states = states
	return w, nil
}

// States returns the state of every media as of the last scan, keyed by
// media path.
func (w *Watcher) States() map[string]media.State {
	return maps.Clone(w.states)
}

// Run delivers changes to emit until ctx is done. It closes the watcher on
// return.
func (w *Watcher) Run(ctx context.Context, emit func(Change)) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(ctx, w.logger, "watch error; states may lag", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "changes are picked up on the next event"),
			)
		case <-timer.C:
			changes, err := w.rescan()
			if err != nil {
				logging.WarnWithContext(ctx, w.logger, "rescan failed", "watch_rescan_failed",
					logging.String("dir", w.dir),
					logging.Error(err),
					logging.String(logging.FieldImpact, "changes are picked up on the next event"),
				)
				continue
			}
			for _, change := range changes {
				emit(change)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}

func (w *Watcher) scan() (map[string]media.State, error) {
	snap, err := media.TakeSnapshot(w.dir)
	if err != nil {
		return nil, err
	}
	paths, err := media.List(w.dir, w.ext)
	if err != nil {
		return nil, err
	}
	states := make(map[string]media.State, len(paths))
	for _, path := range paths {
		states[path] = snap.State(filepath.Base(path))
	}
	return states, nil
}

// rescan diffs a fresh scan against the previous one. Changes are ordered
// by path.
func (w *Watcher) rescan() ([]Change, error) {
	next, err := w.scan()
	if err != nil {
		return nil, err
	}
	var changes []Change
	for path, current := range next {
		previous, known := w.states[path]
		if known && previous == current {
			continue
		}
		changes = append(changes, Change{
			Path:     path,
			Stem:     sidecar.Stem(path),
			Previous: previous,
			Current:  current,
		})
	}
	for path, previous := range w.states {
		if _, ok := next[path]; !ok {
			changes = append(changes, Change{Path: path, Stem: sidecar.Stem(path), Previous: previous, Removed: true})
		}
	}
	slices.SortFunc(changes, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
	w.states = next
	for _, change := range changes {
		w.logger.Debug("media state changed",
			logging.String("path", change.Path),
			logging.String("previous", string(change.Previous)),
			logging.String("current", string(change.Current)),
			logging.Bool("removed", change.Removed),
		)
	}
	return changes, nil
}
