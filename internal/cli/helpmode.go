// helpmode.go implements spec section 6's Help mode procedure: append
// --no-exit-pause so the installer doesn't block waiting for a keypress
// on Linux, and on every other platform repeatedly feed newlines on
// stdin for up to 2s to advance the installer's own paged output, since
// --no-exit-pause alone isn't always honored outside Linux.
package cli

import (
	"runtime"
	"time"

	"github.com/fission-ai/witgo/internal/session"
)

const helpPageAdvanceWindow = 2000 * time.Millisecond
const helpPageAdvanceInterval = 100 * time.Millisecond

// prepareHelpArgv appends --no-exit-pause to a Help-mode argv, unless the
// caller already supplied it.
func prepareHelpArgv(argv []string) []string {
	for _, a := range argv {
		if a == "--no-exit-pause" {
			return argv
		}
	}
	return append(append([]string{}, argv...), "--no-exit-pause")
}

// pumpHelpPages feeds newlines to sess until done fires or the advance
// window elapses. It is a no-op on Linux, where --no-exit-pause suffices.
func pumpHelpPages(sess *session.Session, done <-chan struct{}) {
	if runtime.GOOS == "linux" {
		return
	}
	deadline := time.After(helpPageAdvanceWindow)
	ticker := time.NewTicker(helpPageAdvanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-deadline:
			return
		case <-ticker.C:
			sess.SendInput([]byte("\n"))
		}
	}
}
