package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/corey/brkit/internal/domain/extmap"
	"github.com/corey/brkit/internal/domain/locator"
	"github.com/corey/brkit/internal/ports"
)

// Location is where a navigation ended up.
type Location struct {
	Path       string // editable file that was opened
	Line       int    // 1-based physical line
	Found      bool   // false when the internal line was not found
	Decompiled bool   // Path was created by this navigation
}

// Warning returns ErrLineNotFound when navigation fell back to the first
// line, nil otherwise.
func (l Location) Warning() error {
	if l.Found {
		return nil
	}
	return ports.ErrLineNotFound
}

// Navigate opens path at the physical line carrying internal line number
// internal. A compiled program is first mapped to its source twin, which is
// decompiled when it does not exist yet. internal <= 0 opens the first line.
func (s *Session) Navigate(ctx context.Context, path string, internal int) (Location, error) {
	cfg, err := s.Config()
	if err != nil {
		return Location{}, err
	}
	tbl, err := extmap.TableFor(cfg)
	if err != nil {
		return Location{}, err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	loc := Location{Path: path, Line: 1, Found: true}
	if tbl.Classify(path) == ports.KindCompiled {
		src, _ := tbl.SourcePathFor(path)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			if src, err = s.decompile(ctx, cfg, tbl, path); err != nil {
				return Location{}, err
			}
			loc.Decompiled = true
		}
		loc.Path = src
	}

	if internal > 0 {
		f, err := os.Open(loc.Path)
		if err != nil {
			return Location{}, fmt.Errorf("open %s: %w", loc.Path, err)
		}
		idx, ok, err := locator.FindIn(f, internal)
		f.Close()
		if err != nil {
			return Location{}, fmt.Errorf("read %s: %w", loc.Path, err)
		}
		if ok {
			loc.Line = idx + 1
		} else {
			loc.Found = false
			s.log.Warn("internal line not found, opening first line",
				zap.String("path", loc.Path), zap.Int("line", internal))
		}
	}

	if err := s.openerFor(cfg).Open(ctx, loc.Path, loc.Line); err != nil {
		return loc, fmt.Errorf("open %s: %w", loc.Path, err)
	}
	return loc, nil
}

// OpenMatch navigates to the n-th match (0-based) of the stored result set.
func (s *Session) OpenMatch(ctx context.Context, n int) (Location, error) {
	rs, err := s.Results()
	if err != nil {
		return Location{}, err
	}
	m, ok := rs.MatchAt(n)
	if !ok {
		return Location{}, fmt.Errorf("%w: match %d out of range (have %d)", ports.ErrNoResults, n+1, rs.Total)
	}
	return s.Navigate(ctx, m.Path, m.Line)
}

// OpenLink navigates to a location encoded by locator.Link.
func (s *Session) OpenLink(ctx context.Context, link string) (Location, error) {
	l, err := locator.ParseLink(link)
	if err != nil {
		return Location{}, err
	}
	return s.Navigate(ctx, l.Path, l.Line)
}
