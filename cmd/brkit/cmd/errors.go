package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/corey/brkit/internal/ports"
)

// Report prints err as a readable message to w and returns the exit status.
// Exit-code-only errors print nothing.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	if err == nil {
		return code
	}
	var ec exitCode
	if errors.As(err, &ec) {
		return code
	}
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", red("error:"), describe(err))
	return code
}

// warn prints a non-fatal problem.
func warn(w io.Writer, format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", yellow("warning:"), fmt.Sprintf(format, args...))
}

// describe turns err into a message with actionable guidance.
func describe(err error) string {
	var ee *ports.EngineError
	var de *ports.DecompileError
	switch {
	case isDBLockError(err):
		return diagnoseDBLock()
	case errors.Is(err, ports.ErrNoWorkspace):
		return err.Error() + "\n" +
			"  → run brkit inside a workspace, or pass --root / --dir"
	case errors.Is(err, ports.ErrEmptyQuery):
		return "nothing to search for\n" +
			"  → usage: brkit search <term> [term ...]"
	case errors.As(err, &de):
		msg := fmt.Sprintf("could not decompile %s: %s", de.Compiled, de.Reason)
		if errors.As(err, &ee) {
			msg += "\n" + engineDetail(ee)
		}
		return msg
	case errors.As(err, &ee):
		return "the BR engine failed\n" + engineDetail(ee)
	case errors.Is(err, ports.ErrSourceExists):
		return err.Error() + "\n" +
			"  → open the existing source instead; brkit never overwrites it"
	case errors.Is(err, ports.ErrInvalidMapping):
		return err.Error() + "\n" +
			"  → fix the extensions section of brkit.yaml (brkit config shows which file is used)"
	case errors.Is(err, ports.ErrNoResults):
		return err.Error() + "\n" +
			"  → run brkit search first"
	default:
		return err.Error()
	}
}

func engineDetail(ee *ports.EngineError) string {
	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(ee.Error())
	sb.WriteString("\n")
	if ee.ExitCode < 0 {
		sb.WriteString("  → check engine.executable and engine.workdir in brkit.yaml (brkit config)")
	} else {
		sb.WriteString("  → fix the problem reported above and re-run the command")
	}
	return sb.String()
}

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bbolt open") && strings.Contains(msg, "timeout")
}

func diagnoseDBLock() string {
	return "the result store is locked by another process\n" +
		"  → brkit holds it only while writing; retry in a moment\n" +
		"  → if it persists, find the holder:  fuser .brkit/brkit.db"
}
