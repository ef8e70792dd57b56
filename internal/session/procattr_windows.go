//go:build windows

package session

import "os/exec"

// setProcAttr is a no-op on Windows; process groups are managed differently.
func setProcAttr(_ *exec.Cmd) {}

// killProcessTree kills the child process directly. Windows has no POSIX
// process-group signaling, so this does not reach grandchildren.
func killProcessTree(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
