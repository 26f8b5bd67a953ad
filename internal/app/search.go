package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/corey/brkit/internal/domain/extmap"
	"github.com/corey/brkit/internal/domain/results"
	"github.com/corey/brkit/internal/domain/script"
	"github.com/corey/brkit/internal/ports"
)

// SearchRequest names what to search for and where.
type SearchRequest struct {
	Terms []string // searched independently; duplicates allowed
	Roots []string // directories scanned for compiled artifacts
	Files []string // explicit targets, searched in addition to Roots
}

// SearchOutcome is what a finished search reports.
type SearchOutcome struct {
	Results *ports.ResultSet
	Files   []ports.WorkspaceFile // every file handed to the engine
	NoFiles bool                  // nothing to search; informational
	Stale   int                   // result files of earlier runs that were removed
	Elapsed time.Duration
}

// Search runs one search and replaces the stored result set. The stored set
// is cleared first, so a failed or superseded search leaves no groups behind.
func (s *Session) Search(ctx context.Context, req SearchRequest) (*SearchOutcome, error) {
	ctx, done := s.begin(ctx)
	defer done()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	token := s.newToken()
	log := s.log.With(zap.String("search", token))
	s.setState(log, StateIdle)

	if len(req.Roots) == 0 && len(req.Files) == 0 {
		s.setState(log, StateFailed)
		return nil, ports.ErrNoWorkspace
	}
	if err := s.results.Clear(); err != nil {
		return nil, fmt.Errorf("clear results: %w", err)
	}

	terms := cleanTerms(req.Terms)
	if len(terms) == 0 {
		s.setState(log, StateFailed)
		return nil, ports.ErrEmptyQuery
	}

	cfg, err := s.Config()
	if err != nil {
		s.setState(log, StateFailed)
		return nil, err
	}
	tbl, err := extmap.TableFor(cfg)
	if err != nil {
		s.setState(log, StateFailed)
		return nil, err
	}

	// CollectingFiles
	s.setState(log, StateCollectingFiles)
	files, err := s.collect(req, tbl, cfg.Exclude)
	if err != nil {
		s.setState(log, StateFailed)
		return nil, err
	}
	rs := &ports.ResultSet{ID: token, Terms: terms, Roots: req.Roots, CreatedAt: time.Now()}
	out := &SearchOutcome{Results: rs, Files: files}
	if len(files) == 0 {
		log.Info("no files to search", zap.Strings("roots", req.Roots))
		out.NoFiles = true
		s.setState(log, StateDone)
		out.Elapsed = time.Since(start)
		return out, s.commit(ctx, rs)
	}

	// GeneratingScript
	s.setState(log, StateGeneratingScript)
	out.Stale = s.Paths.RemoveStaleResults()
	if out.Stale > 0 {
		log.Debug("removed stale result files", zap.Int("count", out.Stale))
	}
	scriptPath := s.Paths.ScriptPath(token)
	artifacts := []string{scriptPath}
	b := script.New()
	for i, f := range files {
		resultPath := s.Paths.ResultPath(token, i)
		artifacts = append(artifacts, resultPath)
		if f.Kind == ports.KindCompiled {
			b.Load(f.Path)
		}
		for j, term := range terms {
			if f.Kind == ports.KindCompiled {
				b.ListTerm(term, resultPath, j > 0)
			} else {
				b.ListSourceTerm(f.Path, term, resultPath, j > 0)
			}
		}
	}
	defer s.scheduleCleanup(cfg.Engine.CleanupDelay, artifacts...)
	if err := b.WriteFile(scriptPath); err != nil {
		s.setState(log, StateFailed)
		return nil, fmt.Errorf("write search script: %w", err)
	}

	// Running
	s.setState(log, StateRunning)
	if err := s.engine.Run(ctx, scriptPath); err != nil {
		s.setState(log, StateFailed)
		if ctx.Err() != nil {
			log.Debug("search superseded")
			return nil, ctx.Err()
		}
		log.Error("engine failed", zap.Error(err))
		return nil, fmt.Errorf("search: %w", err)
	}

	// ParsingResults
	s.setState(log, StateParsingResults)
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	rs.Files, rs.Total = results.Aggregate(paths, func(i int) string {
		return s.Paths.ResultPath(token, i)
	})

	if err := s.commit(ctx, rs); err != nil {
		s.setState(log, StateFailed)
		return nil, err
	}
	s.setState(log, StateDone)
	out.Elapsed = time.Since(start)
	log.Info("search finished",
		zap.Strings("terms", terms),
		zap.Int("files", len(files)),
		zap.Int("groups", len(rs.Files)),
		zap.Int("matches", rs.Total),
		zap.Duration("elapsed", out.Elapsed))
	return out, nil
}

func (s *Session) collect(req SearchRequest, tbl *extmap.Table, exclude []string) ([]ports.WorkspaceFile, error) {
	var files []ports.WorkspaceFile
	if len(req.Roots) > 0 {
		found, err := CollectFiles(req.Roots, tbl, exclude)
		if err != nil {
			return nil, err
		}
		files = found
	}
	if len(req.Files) > 0 {
		targets, err := TargetFiles(req.Files, tbl)
		if err != nil {
			return nil, err
		}
		// A source target is searched through its compiled twin when that is
		// in the list too.
		compiled := make(map[string]bool, len(files)+len(targets))
		seen := make(map[string]bool, len(files)+len(targets))
		for _, f := range files {
			compiled[twinKey(f.Path)] = true
			seen[twinKey(f.Path)] = true
		}
		for _, f := range targets {
			if f.Kind == ports.KindCompiled {
				compiled[twinKey(f.Path)] = true
			}
		}
		for _, f := range targets {
			if f.Kind == ports.KindSource {
				if c, ok := tbl.CompiledPathFor(f.Path); ok && compiled[twinKey(c)] {
					continue
				}
			}
			key := twinKey(f.Path)
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, f)
		}
	}
	return files, nil
}

// twinKey identifies a path with its extension case folded.
func twinKey(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + extmap.Normalize(ext)
}

// commit stores rs unless the search was superseded meanwhile.
func (s *Session) commit(ctx context.Context, rs *ports.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.results.Replace(rs); err != nil {
		return fmt.Errorf("store results: %w", err)
	}
	return nil
}

func (s *Session) setState(log *zap.Logger, next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()
	log.Debug("search state", zap.Stringer("from", prev), zap.Stringer("to", next))
}

// cleanTerms drops blank terms. Order and duplicates are kept.
func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
