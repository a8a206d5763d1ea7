// Package watch notifies callers when a SQLite database file changes on disk.
// Writes from other processes (another CLI invocation, a UI server) land in the
// database file or its -wal / -journal companions; bursts are coalesced into a
// single change signal.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher watches one database file.
type Watcher struct {
	dir      string
	names    map[string]struct{}
	logger   *zap.Logger
	debounce time.Duration
	changes  chan struct{}
}

// New creates a watcher for the database at dbPath.
func New(dbPath string, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("watch: database path is required")
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", dbPath, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := filepath.Base(abs)
	w := &Watcher{
		dir: filepath.Dir(abs),
		names: map[string]struct{}{
			base:              {},
			base + "-wal":     {},
			base + "-journal": {},
		},
		logger:   logger.Named("watch"),
		debounce: DefaultDebounce,
		changes:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changes delivers one value per settled burst of writes. The channel is
// closed when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching in a background goroutine that runs until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	// The directory is watched rather than the file so that companions created
	// later, and files replaced by rename, are still seen.
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch: add %s: %w", w.dir, err)
	}

	go w.loop(ctx, fsw)
	w.logger.Debug("database watcher started", zap.String("dir", w.dir))
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer fsw.Close()
	defer close(w.changes)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("database watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := w.names[filepath.Base(ev.Name)]
	return ok
}
