package cmd

import "fmt"

// exitCode is returned by commands to signal a specific exit status without
// printing anything. 0=ok, 1=no matches, 2=error.
type exitCode struct{ code int }

func (e exitCode) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "no match"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

var errNoMatch = exitCode{1}

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(exitCode); ok {
		return ec.code
	}
	return 2
}
