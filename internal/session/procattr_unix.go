//go:build !windows

package session

import (
	"fmt"
	"os/exec"
	"syscall"
)

// setProcAttr runs the child in its own process group so killProcessTree
// can terminate the whole group with one signal, matching the teacher's
// runner.setProcGroup.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree sends SIGTERM to the child's process group. If the
// process is not a group leader (unexpected here, since setProcAttr always
// sets Setpgid) it falls back to signaling the process directly.
func killProcessTree(cmd *exec.Cmd) error {
	pid := cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		if werr := cmd.Process.Kill(); werr != nil {
			return fmt.Errorf("killing process group %d: %w", pid, werr)
		}
	}
	return nil
}
