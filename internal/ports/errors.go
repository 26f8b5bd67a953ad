package ports

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoWorkspace means there is no root to search. Raised before the
	// filesystem is touched.
	ErrNoWorkspace = errors.New("no workspace root to search")

	// ErrEmptyQuery rejects a search without a single non-blank term.
	ErrEmptyQuery = errors.New("no search terms")

	// ErrEngineInvocationFailed is matched by every *EngineError.
	ErrEngineInvocationFailed = errors.New("engine invocation failed")

	// ErrDecompileFailed is matched by every *DecompileError.
	ErrDecompileFailed = errors.New("decompile failed")

	// ErrLineNotFound is recoverable: navigation falls back to the first line.
	ErrLineNotFound = errors.New("internal line not found")

	// ErrInvalidMapping rejects extension tables that map an extension to
	// itself or map one compiled extension twice.
	ErrInvalidMapping = errors.New("invalid extension mapping")

	// ErrSourceExists guards decompilation: an existing source twin is never
	// overwritten.
	ErrSourceExists = errors.New("source file already exists")

	// ErrNoResults is returned when a result set is required but none is stored.
	ErrNoResults = errors.New("no search results")
)

// EngineError reports a failed engine run. Diagnostics holds the captured
// stdout/stderr, trimmed.
type EngineError struct {
	Engine      string // executable that was run
	ExitCode    int    // -1 when the process never started
	Diagnostics string
	Err         error
}

func (e *EngineError) Error() string {
	var sb strings.Builder
	sb.WriteString("engine ")
	if e.Engine != "" {
		sb.WriteString(e.Engine)
		sb.WriteString(" ")
	}
	if e.ExitCode < 0 {
		sb.WriteString("could not start")
	} else {
		fmt.Fprintf(&sb, "exited with status %d", e.ExitCode)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if e.Diagnostics != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Diagnostics)
	}
	return sb.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

func (e *EngineError) Is(target error) bool { return target == ErrEngineInvocationFailed }

// DecompileError reports why a compiled program could not be turned into source.
type DecompileError struct {
	Compiled string
	Reason   string
	Err      error // underlying *EngineError, if any
}

func (e *DecompileError) Error() string {
	msg := fmt.Sprintf("decompile %s: %s", e.Compiled, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecompileError) Unwrap() error { return e.Err }

func (e *DecompileError) Is(target error) bool { return target == ErrDecompileFailed }
