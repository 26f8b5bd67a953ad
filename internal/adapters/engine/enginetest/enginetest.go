// Package enginetest provides an in-process stand-in for the BR engine.
//
// Engine interprets generated scripts the way the real engine treats
// plain-text programs: LOAD reads a file, LIST writes its lines (filtered by
// the term, case-insensitively) to the redirect target. Programs used with it
// are ordinary text files such as "00100 GOTO 300\n".
package enginetest

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/corey/brkit/internal/domain/script"
	"github.com/corey/brkit/internal/ports"
)

// Engine implements ports.Engine. Set the exported fields before first use.
type Engine struct {
	Fail       error                                    // returned instead of executing
	SkipOutput bool                                     // execute but write nothing
	Hook       func(ctx context.Context, run int) error // called before executing; run counts from 1

	mu      sync.Mutex
	runs    int
	scripts []string
}

// Run implements ports.Engine.
func (e *Engine) Run(ctx context.Context, scriptPath string) error {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return &ports.EngineError{Engine: "enginetest", ExitCode: -1, Err: err}
	}

	e.mu.Lock()
	e.runs++
	run := e.runs
	e.scripts = append(e.scripts, string(data))
	fail, skip, hook := e.Fail, e.SkipOutput, e.Hook
	e.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, run); err != nil {
			return err
		}
	}
	if fail != nil {
		return fail
	}

	directives, err := script.Parse(string(data))
	if err != nil {
		return &ports.EngineError{Engine: "enginetest", ExitCode: 4, Diagnostics: err.Error()}
	}
	var loaded []string
	for _, d := range directives {
		switch d.Op {
		case script.OpLoad:
			if loaded, err = readLines(d.Path); err != nil {
				return &ports.EngineError{Engine: "enginetest", ExitCode: 4, Diagnostics: "cannot load " + d.Path}
			}
		case script.OpList:
			if skip {
				continue
			}
			src := loaded
			if d.Input != "" {
				if src, err = readLines(d.Input); err != nil {
					return &ports.EngineError{Engine: "enginetest", ExitCode: 4, Diagnostics: "cannot read " + d.Input}
				}
			}
			if err := writeListing(d, src); err != nil {
				return err
			}
		}
	}
	return nil
}

// Runs returns how many times Run was called.
func (e *Engine) Runs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}

// Scripts returns the text of every script run so far.
func (e *Engine) Scripts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.scripts...)
}

// LastScript returns the most recent script, or "".
func (e *Engine) LastScript() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.scripts) == 0 {
		return ""
	}
	return e.scripts[len(e.scripts)-1]
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

func writeListing(d script.Directive, lines []string) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if d.Append {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	out, err := os.OpenFile(d.Path, flags, 0644)
	if err != nil {
		return err
	}
	defer out.Close()
	term := strings.ToLower(d.Term)
	for _, l := range lines {
		if term == "" || strings.Contains(strings.ToLower(l), term) {
			if _, err := out.WriteString(l + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ ports.Engine = (*Engine)(nil)
