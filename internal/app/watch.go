package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/corey/brkit/internal/ports"
)

// Watch runs req once, then again whenever a compiled artifact under
// req.Roots changes, until ctx is done. Each re-run supersedes the one in
// flight. report receives every outcome except superseded runs.
func (s *Session) Watch(ctx context.Context, req SearchRequest, w ports.Watcher, report func(*SearchOutcome, error)) error {
	if len(req.Roots) == 0 {
		return ports.ErrNoWorkspace
	}

	trigger := make(chan string, 1)
	onChange := func(path string) {
		tbl, err := s.Extensions()
		if err != nil || !tbl.IsCompiled(filepath.Ext(path)) {
			return
		}
		select {
		case trigger <- path:
		default: // a re-run is already queued
		}
	}
	if err := w.Watch(req.Roots, onChange); err != nil {
		return err
	}
	defer w.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	run := func() {
		defer wg.Done()
		out, err := s.Search(ctx, req)
		if err != nil && errors.Is(err, context.Canceled) {
			return
		}
		report(out, err)
	}

	wg.Add(1)
	go run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-trigger:
			s.log.Debug("compiled program changed", zap.String("path", path))
			wg.Add(1)
			go run()
		}
	}
}
