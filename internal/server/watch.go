package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/pedigree/pkg/cache"
	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/httputil"
)

const (
	reloadAttempts = 4
	reloadDelay    = 50 * time.Millisecond
)

// watchFile reloads the session whenever the watched file settles after a
// change. The parent directory is watched so that editors which replace
// the file by rename are followed.
func (s *Server) watchFile(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "start watcher")
	}
	defer w.Close()

	target, err := filepath.Abs(s.watch)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "resolve %s", s.watch)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return perrors.Wrap(perrors.ErrCodeIO, err, "watch %s", filepath.Dir(target))
	}
	s.logger.Info("watching", "file", target)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			s.logger.Debug("file event", "op", ev.Op.String())
			timer.Reset(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "error", err)
		case <-timer.C:
			if err := s.reload(ctx, target); err != nil {
				s.logger.Warn("reload failed", "file", target, "error", err)
			}
		}
	}
}

// reload loads path into the session unless it already holds the same
// content, as it does right after its own save. Partially written files
// and a busy session are retried.
func (s *Server) reload(ctx context.Context, path string) error {
	return httputil.Retry(ctx, reloadAttempts, reloadDelay, func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return perrors.Wrap(perrors.ErrCodeIO, err, "read %s", path)
		}
		current, err := graph.Marshal(s.sess.Snapshot())
		if err == nil && cache.Hash(bytes.TrimSpace(current)) == cache.Hash(bytes.TrimSpace(data)) {
			return nil
		}
		err = s.sess.LoadFile(ctx, path)
		switch {
		case err == nil:
			s.logger.Info("reloaded", "file", path)
			return nil
		case perrors.Is(err, perrors.ErrCodeInvalidFormat),
			perrors.Is(err, perrors.ErrCodeInvalidStructure),
			perrors.Is(err, perrors.ErrCodeBusy):
			return &httputil.RetryableError{Err: err}
		default:
			return err
		}
	})
}
