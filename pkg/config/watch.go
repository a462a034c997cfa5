package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/i3-event-handler/pkg/rule"
)

// Watcher reloads a configuration file whenever it changes on disk and
// publishes each successfully loaded [rule.RuleSet].
//
// The parent directory is watched rather than the file itself, so that
// editors which replace the file via rename are handled.
type Watcher struct {
	watcher *fsnotify.Watcher
	rules   chan *rule.RuleSet
	path    string
	opts    []LoaderOpt
}

// NewWatcher creates a new [Watcher] for the file at path.
func NewWatcher(path string, opts ...LoaderOpt) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		watcher: watcher,
		rules:   make(chan *rule.RuleSet),
		path:    absPath,
		opts:    opts,
	}, nil
}

// Rules returns the channel on which reloaded rule sets are published.
func (w *Watcher) Rules() <-chan *rule.RuleSet {
	return w.rules
}

// Run handles filesystem events until ctx is done or the watcher is closed.
// A reload that fails is logged, and no rule set is published for it.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}

			slog.Debug("configuration changed", slog.String("event", evt.String()))

			rs, err := LoadFile(w.path, w.opts...)
			if err != nil {
				slog.Error("reload rules, keeping previous rules",
					slog.String("path", w.path),
					slog.Any("error", err),
				)

				continue
			}

			select {
			case w.rules <- rs:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			slog.Error("watch configuration", slog.Any("error", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
