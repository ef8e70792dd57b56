// Package instancelock is a courtesy single-instance guard that
// complements the IPC hand-off (spec sections 4.8/4.9): if the loopback
// port range is exhausted or firewalled, a second invocation can still
// detect a live instance via this lock file before starting its own
// Process Session. Grounded on the teacher's internal/engine/lock.go
// (exclusive file lock, IsLockHeld sentinel) and internal/state/state.go
// (PID-liveness fallback for platforms without an advisory file lock).
package instancelock

import (
	"fmt"

	"github.com/fission-ai/witgo/internal/fileutil"
	"github.com/fission-ai/witgo/internal/witerr"
)

// Acquire takes the single-instance lock under dataDir. On success it
// returns a release function; the caller should defer it. If another
// process already holds the lock, it returns witerr.ErrAlreadyStarted.
func Acquire(dataDir string) (release func(), err error) {
	if err := fileutil.EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("instancelock: creating data dir: %w", err)
	}
	release, held, err := tryLock(fileutil.LockPath(dataDir))
	if err != nil {
		return nil, fmt.Errorf("instancelock: %w", err)
	}
	if held {
		return nil, fmt.Errorf("%w: another witgo instance holds the lock", witerr.ErrAlreadyStarted)
	}
	return release, nil
}
