// Package app wires the domain packages and adapters into a Session: the
// object a front-end drives to search, decompile and navigate.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corey/brkit/internal/adapters/bbolt"
	"github.com/corey/brkit/internal/adapters/editor"
	"github.com/corey/brkit/internal/adapters/engine"
	"github.com/corey/brkit/internal/adapters/yamlconfig"
	"github.com/corey/brkit/internal/domain/extmap"
	"github.com/corey/brkit/internal/ports"
)

// Config holds the collaborators of a Session. Only WorkspaceRoot is required;
// everything else defaults to the production adapter.
type Config struct {
	WorkspaceRoot string
	WorkspaceID   string             // key in the result store (default: base name of the root)
	Logger        *zap.Logger        // default: no-op
	ConfigSource  ports.ConfigSource // default: brkit.yaml or .brkit/config.yaml under the root
	Engine        ports.Engine       // default: engine.Runner
	Results       ports.ResultStore  // default: bbolt at .brkit/brkit.db, opened per call
	Opener        ports.Opener       // default: editor command from config, re-read per call
	Stdout        io.Writer          // where the default opener prints locations (default: os.Stdout)
}

// Session owns the state of one workspace: its configuration source, the
// current result set and the in-flight search. A Session is safe for
// concurrent use. Starting a search cancels the one in flight.
type Session struct {
	Root  string
	Paths *Paths

	log      *zap.Logger
	src      ports.ConfigSource
	resolver *extmap.Resolver
	engine   ports.Engine
	results  ports.ResultStore
	opener   ports.Opener
	stdout   io.Writer
	newToken func() string

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	seq    uint64

	runMu sync.Mutex // held by the running search

	cleanMu  sync.Mutex
	pending  map[*time.Timer]func()
	cleanups sync.WaitGroup
	closed   bool
}

// New creates a Session with all dependencies wired.
func New(cfg Config) (*Session, error) {
	if cfg.WorkspaceRoot == "" {
		return nil, fmt.Errorf("workspace root required")
	}
	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if cfg.WorkspaceID == "" {
		cfg.WorkspaceID = filepath.Base(root)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	paths := NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}

	if cfg.ConfigSource == nil {
		cfg.ConfigSource = yamlconfig.ForWorkspace(root)
	}
	if cfg.Engine == nil {
		cfg.Engine = engine.New(cfg.ConfigSource, cfg.Logger.Named("engine")).WithSearchDirs(paths.BinDir)
	}

	s := &Session{
		Root:     root,
		Paths:    paths,
		log:      cfg.Logger,
		src:      cfg.ConfigSource,
		resolver: extmap.NewResolver(cfg.ConfigSource),
		engine:   cfg.Engine,
		results:  cfg.Results,
		opener:   cfg.Opener,
		stdout:   cfg.Stdout,
		newToken: uuid.NewString,
		pending:  make(map[*time.Timer]func()),
	}

	if s.results == nil {
		store, err := bbolt.OpenFile(paths.DB, cfg.WorkspaceID)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.results = store
	}
	return s, nil
}

// Close cancels the in-flight search and flushes pending temp-file cleanups.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.cleanMu.Lock()
	if s.closed {
		s.cleanMu.Unlock()
		return nil
	}
	s.closed = true
	for t, fn := range s.pending {
		if t.Stop() {
			delete(s.pending, t)
			fn()
			s.cleanups.Done()
		}
	}
	s.cleanMu.Unlock()
	s.cleanups.Wait()
	return nil
}

// Config loads the current configuration.
func (s *Session) Config() (*ports.Config, error) {
	cfg, err := s.src.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Extensions returns the extension table in effect right now.
func (s *Session) Extensions() (*extmap.Table, error) {
	return s.resolver.Snapshot()
}

// Results returns the stored result set, or ErrNoResults if there is none.
func (s *Session) Results() (*ports.ResultSet, error) {
	rs, err := s.results.Current()
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	if rs == nil {
		return nil, ports.ErrNoResults
	}
	return rs, nil
}

// ClearResults drops the stored result set.
func (s *Session) ClearResults() error {
	return s.results.Clear()
}

// State reports the phase of the current (or last) search.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// openerFor returns the configured opener or builds one from cfg.Editor.
func (s *Session) openerFor(cfg *ports.Config) ports.Opener {
	if s.opener != nil {
		return s.opener
	}
	return editor.New(cfg.Editor, s.stdout)
}

// begin supersedes any in-flight search and waits for it to release the
// engine. The returned func must be called when the search is over.
func (s *Session) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	s.runMu.Lock()
	return ctx, func() {
		s.runMu.Unlock()
		s.mu.Lock()
		if s.seq == seq {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}
}

// scheduleCleanup removes paths after delay. Removal errors are swallowed.
func (s *Session) scheduleCleanup(delay time.Duration, paths ...string) {
	fn := func() {
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				s.log.Debug("cleanup failed", zap.String("path", p), zap.Error(err))
			}
		}
	}

	s.cleanMu.Lock()
	defer s.cleanMu.Unlock()
	if s.closed || delay <= 0 {
		fn()
		return
	}
	s.cleanups.Add(1)
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.cleanMu.Lock()
		_, ok := s.pending[t]
		delete(s.pending, t)
		s.cleanMu.Unlock()
		if !ok {
			return
		}
		fn()
		s.cleanups.Done()
	})
	s.pending[t] = fn
}
