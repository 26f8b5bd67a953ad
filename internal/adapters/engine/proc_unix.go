//go:build !windows

package engine

import (
	"os/exec"
	"syscall"
)

// killGroupOnCancel puts the engine in its own process group and makes
// context cancellation kill the whole group.
func killGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

// detach keeps the helper out of our process group so terminal signals sent
// to brkit do not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
