package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tmstorey/barkeep/internal/errors"
	"github.com/tmstorey/barkeep/internal/logger"
)

// watchDebounce coalesces the event bursts editors produce on save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the config file whenever it changes on disk and hands every
// successfully validated result to onChange. Reload failures are logged and
// skipped; the previous config stays in effect. Returns a stop function.
//
// The containing directory is watched rather than the file itself, so
// rename-over-save (vim, atomic writers) keeps working.
func Watch(path string, onChange func(*Config), log logger.Logger) (func(), error) {
	if log == nil {
		log = logger.Noop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot resolve config path: "+path, "")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create a file watcher for config reload",
			"Config hot reload is unavailable; restart barkeep after edits.")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't watch "+filepath.Dir(abs), "")
	}

	stop := make(chan struct{})
	go func() {
		var debounce *time.Timer
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != filepath.Base(abs) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, func() {
					cfg, err := Load(abs)
					if err != nil {
						log.Warn("config reload failed: %v", err)
						return
					}
					log.Info("config reloaded from %s", abs)
					onChange(cfg)
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher: %v", err)
			}
		}
	}()

	return func() {
		close(stop)
		w.Close()
	}, nil
}
