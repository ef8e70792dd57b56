//go:build windows

package instancelock

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/windows"
)

// tryLock has no portable advisory-flock equivalent on Windows, so it
// falls back to a PID file: read the PID a prior instance recorded and
// probe it with OpenProcess rather than signaling it, since Signal on
// this platform can only ask to terminate the target.
func tryLock(path string) (release func(), held bool, err error) {
	if data, readErr := os.ReadFile(path); readErr == nil {
		if pid, convErr := strconv.Atoi(strings.TrimSpace(string(data))); convErr == nil && pid > 0 {
			if processAlive(uint32(pid)) {
				return nil, true, nil
			}
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return nil, false, err
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		return nil, false, err
	}
	f.Close()

	return func() {
		_ = os.Remove(path)
	}, false, nil
}

func processAlive(pid uint32) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == uint32(windows.STILL_ACTIVE)
}
