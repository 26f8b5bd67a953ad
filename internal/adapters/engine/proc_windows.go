//go:build windows

package engine

import (
	"os/exec"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// killGroupOnCancel relies on exec.CommandContext's default Process.Kill.
func killGroupOnCancel(cmd *exec.Cmd) {}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
