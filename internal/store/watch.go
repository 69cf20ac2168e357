// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package store

import (
	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/repovault/internal/logging"
)

// Watch starts a best-effort fsnotify watch on the store file, logging
// a warning on every write, remove or rename event for the file,
// including writes made through this Database. It never blocks the
// caller and never returns an error for a failed watch start — the
// connection-check limit in CheckConnection is the load-bearing
// safeguard; this is advisory only. The returned stop func tears the
// watch down; callers should defer it alongside Close.
func (d *Database) Watch() (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return func() {}, nil
	}
	if err := watcher.Add(d.path); err != nil {
		watcher.Close()
		return func() {}, nil
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					logging.Warn().Str("path", d.path).Str("op", ev.Op.String()).
						Msg("store file modified by another process")
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn().Err(werr).Str("path", d.path).Msg("store file watch error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
