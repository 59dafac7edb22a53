//go:build unix

package rom

import (
	"os/exec"
	"syscall"
)

// Emulators may spawn helper processes, signal the whole group.
func processGroupEnable(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func processGroupKill(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}
