package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/crimecard/intake/constants"
)

// Config controls the drop directory watcher.
type Config struct {
	Dir         string        // directory to watch (recursive)
	InitialScan bool          // if true, walk the dir and emit existing files
	Debounce    time.Duration // coalesce rapid create/write bursts
}

// StartWatcher watches cfg.Dir for report documents and emits their paths.
// Only files whose extension is on the upload allow-list are emitted. The
// channels close when ctx is cancelled.
func StartWatcher(ctx context.Context, cfg Config, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		return nil, nil, errors.New("watch dir is required")
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("watch.create_failed", "error", err)
		return nil, nil, err
	}

	err = filepath.WalkDir(cfg.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && constants.IsAllowedExt(filepath.Ext(path)) {
			select {
			case evCh <- path:
			default:
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("watch.add_dir_failed", "dir", cfg.Dir, "error", err)
		_ = w.Close()
		return nil, nil, err
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() { _ = w.Close() }()

		// pending and timer are owned by this goroutine. The timer callback
		// only signals flush, so the debounce fire never touches the map or
		// evCh from another goroutine.
		var timer *time.Timer
		pending := map[string]struct{}{}
		flush := make(chan struct{}, 1)

		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		sendPending := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flush:
				sendPending()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create == fsnotify.Create {
					// Subdirectories created after startup get watched too.
					// Add errors on plain files are expected and ignored.
					_ = w.Add(e.Name)
				}
				if constants.IsAllowedExt(filepath.Ext(e.Name)) &&
					e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer != nil {
							timer.Stop()
						}
						timer = time.AfterFunc(cfg.Debounce, func() {
							select {
							case flush <- struct{}{}:
							default:
							}
						})
					} else {
						sendPending()
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watch.error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	logger.Info("watch.started", "dir", cfg.Dir, "debounce_ms", cfg.Debounce.Milliseconds())
	return evCh, errCh, nil
}
