// Package engine runs BR batch scripts with the external engine binary.
//
// The engine needs its front-end helper running before it will execute a
// script. The helper exposes no readiness signal, so Runner launches it
// detached, waits a configurable settle delay and retries the engine a bounded
// number of times. The delay is a heuristic, not a guarantee.
//
// Only one engine invocation runs at a time per Runner. Cancelling the context
// kills the engine's whole process group.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/corey/brkit/internal/ports"
)

// waitDelay bounds how long Run waits for output pipes after the engine exits
// or is killed (grandchildren may hold them open).
const waitDelay = 2 * time.Second

// Runner implements ports.Engine.
type Runner struct {
	src    ports.ConfigSource
	log    *zap.Logger
	sem    *semaphore.Weighted
	sleep  func(ctx context.Context, d time.Duration) error
	helper func(cfg ports.EngineConfig) error
	dirs   []string // extra directories searched for bare executable names
}

// New returns a Runner that reads engine settings from src on every Run.
func New(src ports.ConfigSource, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		src:    src,
		log:    log,
		sem:    semaphore.NewWeighted(1),
		sleep:  sleepCtx,
		helper: launchHelper,
	}
}

// WithSearchDirs adds directories searched for bare executable names after PATH.
func (r *Runner) WithSearchDirs(dirs ...string) *Runner {
	r.dirs = append(r.dirs, dirs...)
	return r
}

// Resolve locates an executable. Discovery order: the name as given when it
// contains a path separator → exec.LookPath → each of dirs. Returns name
// unchanged when nothing is found, so the spawn error names what was configured.
func Resolve(name string, dirs ...string) string {
	if name == "" || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return name
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	for _, d := range dirs {
		candidate := filepath.Join(d, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return name
}

// Args returns the engine command line for a script.
func Args(scriptPath string) []string {
	return []string{"proc", ":" + scriptPath}
}

// Run implements ports.Engine.
func (r *Runner) Run(ctx context.Context, scriptPath string) error {
	cfg, err := r.src.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ec := cfg.Engine
	if ec.Executable == "" {
		return &ports.EngineError{ExitCode: -1, Err: errors.New("engine.executable is not configured")}
	}

	ec.Executable = Resolve(ec.Executable, r.dirs...)
	if ec.Helper != "" {
		ec.Helper = Resolve(ec.Helper, r.dirs...)
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer r.sem.Release(1)

	if ec.Helper != "" {
		if err := r.helper(ec); err != nil {
			// The engine may still run if a helper is already up.
			r.log.Warn("helper launch failed", zap.String("helper", ec.Helper), zap.Error(err))
		} else {
			r.log.Debug("helper launched", zap.String("helper", ec.Helper))
		}
		if err := r.sleep(ctx, ec.SettleDelay); err != nil {
			return err
		}
	}

	attempts := ec.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		last = r.runOnce(ctx, ec, scriptPath)
		if last == nil {
			r.log.Debug("engine finished",
				zap.String("script", scriptPath),
				zap.Int("attempt", attempt),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Warn("engine attempt failed",
			zap.String("script", scriptPath),
			zap.Int("attempt", attempt),
			zap.Int("of", attempts),
			zap.Error(last))
		if attempt < attempts {
			if err := r.sleep(ctx, ec.SettleDelay); err != nil {
				return err
			}
		}
	}
	return last
}

func (r *Runner) runOnce(ctx context.Context, ec ports.EngineConfig, scriptPath string) error {
	cmd := exec.CommandContext(ctx, ec.Executable, Args(scriptPath)...)
	cmd.Dir = ec.WorkDir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)

	err := cmd.Run()
	if err == nil {
		return nil
	}
	ee := &ports.EngineError{
		Engine:      filepath.Base(ec.Executable),
		ExitCode:    -1,
		Diagnostics: strings.TrimSpace(out.String()),
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ee.ExitCode = exitErr.ExitCode()
	} else {
		ee.Err = err
	}
	return ee
}

// launchHelper starts the helper detached and does not wait for it.
func launchHelper(ec ports.EngineConfig) error {
	cmd := exec.Command(ec.Helper, ec.HelperArgs...)
	cmd.Dir = ec.WorkDir
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Available reports whether the configured engine binary can be found.
func Available(ec ports.EngineConfig, dirs ...string) bool {
	if ec.Executable == "" {
		return false
	}
	_, err := os.Stat(Resolve(ec.Executable, dirs...))
	return err == nil
}

var _ ports.Engine = (*Runner)(nil)
