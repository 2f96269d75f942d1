package yamlfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor produces when it
// saves a file.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls onChange after the policy file is written, created or
// replaced. It watches the parent directory so that editors that save by
// rename are seen too.
type Watcher struct {
	path     string
	onChange func(ctx context.Context) error
	debounce time.Duration
	logger   *slog.Logger
	ready    chan struct{}
}

func NewWatcher(path string, onChange func(ctx context.Context) error, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// SetDebounce overrides DefaultDebounce. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Ready is closed once the watch is installed.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is done. onChange errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	close(w.ready)
	w.logger.Info("watching policy file", "path", w.path)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("policy file event", "op", ev.Op.String())
			fire = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("policy watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("policy file change not applied", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("policy file change applied", "path", w.path)
		}
	}
}
