package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/pulse/pkg/timex"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// result to a callback. Editors often emit several filesystem events
// per save, so change events are debounced before reloading.
type Watcher struct {
	path    string
	dataDir string
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	log     zerolog.Logger
}

// Watch starts watching the config file. onChange is called with each
// successfully reloaded config; reload errors are logged and skipped so
// a half-saved file never tears down the watcher.
func Watch(path, dataDir string, onChange func(*Config), log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors that replace the file on save would
	// otherwise drop the watch on the old inode.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		dataDir: dataDir,
		fsw:     fsw,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
	}

	reload := timex.Debounce(watchDebounce, func(struct{}) {
		cfg, err := Load(w.path, w.dataDir)
		if err != nil {
			w.log.Warn().Err(err).Msg("config reload skipped")
			return
		}
		onChange(cfg)
	})

	go w.run(ctx, reload)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context, reload func(struct{})) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			reload(struct{}{})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watcher error")
		}
	}
}
