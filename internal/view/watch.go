// internal/view/watch.go
//
// Development hot reload.  Watch follows every directory under the theme
// root and, after a short quiet period, purges the parsed template sets,
// forgets asset fingerprints, and drops every cached page.
package view

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 200 * time.Millisecond

// Watch blocks until ctx is done.  It returns an error only when the
// watcher cannot be set up.
func (e *Engine) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("view watch: %w", err)
	}
	defer w.Close()

	err = filepath.WalkDir(e.theme.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("view watch %s: %w", e.theme.Root, err)
	}
	zap.L().Info("template watcher started", zap.String("root", e.theme.Root))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if isDir(ev.Name) {
					_ = w.Add(ev.Name)
				}
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			zap.L().Warn("template watcher", zap.Error(err))
		case <-timer.C:
			e.Reload()
		}
	}
}

// Reload forgets everything derived from theme files.
func (e *Engine) Reload() {
	e.sets.Purge()
	e.theme.ResetAssets()
	e.pages.Invalidate(TagRendered)
	zap.L().Info("templates reloaded")
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
