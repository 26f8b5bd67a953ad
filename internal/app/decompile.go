package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/corey/brkit/internal/domain/extmap"
	"github.com/corey/brkit/internal/domain/script"
	"github.com/corey/brkit/internal/ports"
)

// DecompileJob describes one decompile request.
type DecompileJob struct {
	Compiled string // absolute path of the compiled program
	Target   string // source twin to create
	Style    string // optional CONFIG STYLE argument
	Token    string // names the job's temp files
}

// Decompile produces the source twin of a compiled program and returns its
// path. An existing source file is never overwritten.
func (s *Session) Decompile(ctx context.Context, compiled string) (string, error) {
	cfg, err := s.Config()
	if err != nil {
		return "", err
	}
	tbl, err := extmap.TableFor(cfg)
	if err != nil {
		return "", err
	}
	return s.decompile(ctx, cfg, tbl, compiled)
}

func (s *Session) decompile(ctx context.Context, cfg *ports.Config, tbl *extmap.Table, compiled string) (string, error) {
	abs, err := filepath.Abs(compiled)
	if err != nil {
		return "", err
	}
	target, ok := tbl.SourcePathFor(abs)
	if !ok {
		return "", fmt.Errorf("decompile %s: extension %q is not a compiled extension", compiled, filepath.Ext(abs))
	}
	if _, err := os.Stat(abs); err != nil {
		return "", &ports.DecompileError{Compiled: abs, Reason: "compiled program not readable", Err: err}
	}
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("%w: %s", ports.ErrSourceExists, target)
	}

	job := DecompileJob{Compiled: abs, Target: target, Style: cfg.DecompileStyle, Token: s.newToken()}
	srcExt := filepath.Ext(target)
	scriptPath := s.Paths.DecompileScriptPath(job.Token)
	tmpOut := s.Paths.DecompileOutputPath(job.Token, srcExt)
	defer s.scheduleCleanup(cfg.Engine.CleanupDelay, scriptPath, tmpOut)

	log := s.log.With(zap.String("decompile", job.Token), zap.String("compiled", abs))
	b := script.New().Style(job.Style).Load(job.Compiled).List(tmpOut, false)
	if err := b.WriteFile(scriptPath); err != nil {
		return "", fmt.Errorf("write decompile script: %w", err)
	}

	if err := s.engine.Run(ctx, scriptPath); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Error("decompile failed", zap.Error(err))
		return "", &ports.DecompileError{Compiled: abs, Reason: "engine failed", Err: err}
	}
	if _, err := os.Stat(tmpOut); err != nil {
		log.Error("decompile produced no output")
		return "", &ports.DecompileError{Compiled: abs, Reason: "output not produced"}
	}

	if err := moveNoClobber(tmpOut, target); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ports.ErrSourceExists, target)
		}
		return "", &ports.DecompileError{Compiled: abs, Reason: "could not place source", Err: err}
	}
	log.Info("decompiled", zap.String("source", target))
	return target, nil
}

// moveNoClobber moves src to dst, failing with os.ErrExist if dst exists.
// A hard link is tried first; across volumes the content is copied.
func moveNoClobber(src, dst string) error {
	err := os.Link(src, dst)
	if err == nil {
		os.Remove(src)
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	in.Close()
	os.Remove(src)
	return nil
}
