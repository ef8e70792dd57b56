package gate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"time"

	"github.com/fission-ai/witgo/internal/witerr"
)

var versionPattern = regexp.MustCompile(`\bWeiDU version [0-9]+`)

const versionProbeTimeout = 8 * time.Second

// SearchCandidates builds the ordered search list of spec section 4.6:
// a configured override, app-data relative paths keyed by platform/arch and
// platform alone, and finally entries on PATH.
func SearchCandidates(override, appDataDir, binName string) []string {
	var candidates []string
	if override != "" {
		candidates = append(candidates, override)
	}
	if appDataDir != "" {
		candidates = append(candidates,
			filepath.Join(appDataDir, runtime.GOOS, runtime.GOARCH, binName),
			filepath.Join(appDataDir, runtime.GOOS, binName),
			filepath.Join(appDataDir, binName),
		)
	}
	if p, err := exec.LookPath(binName); err == nil {
		candidates = append(candidates, p)
	}
	return candidates
}

// hasOwnerExecute reports whether the owner-execute bit is set. It is a
// no-op returning true on Windows, which has no equivalent permission bit.
func hasOwnerExecute(path string) (bool, error) {
	if runtime.GOOS == "windows" {
		return true, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().Perm()&0o100 != 0, nil
}

// Validated describes a candidate installer binary that passed every
// startup validation step of spec section 4.6.
type Validated struct {
	Path        string
	Fingerprint Fingerprint
	Entry       Entry
	Allowed     bool
}

// Validate walks candidates in order, stopping at the first path that
// exists, has owner-execute permission (on unix-like platforms), and
// answers --version with a recognizable WeiDU banner. It does not itself
// reject binaries absent from the allow-list; Allowed is advisory and the
// caller decides whether to honor it with witerr.ErrBinaryNotAllowed.
func Validate(ctx context.Context, candidates []string, al *AllowList) (*Validated, error) {
	var lastErr error
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			lastErr = err
			continue
		}
		if ok, err := hasOwnerExecute(path); err != nil || !ok {
			lastErr = fmt.Errorf("%s: missing owner-execute permission", path)
			continue
		}
		fp, err := HashFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		entry, allowed := al.Lookup(fp)
		if err := probeVersion(ctx, path); err != nil {
			lastErr = err
			continue
		}
		return &Validated{Path: path, Fingerprint: fp, Entry: entry, Allowed: allowed}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidates supplied")
	}
	return nil, fmt.Errorf("%w: %v", witerr.ErrBinaryNotFound, lastErr)
}

func probeVersion(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s --version: %w", path, err)
	}
	if !versionPattern.Match(out.Bytes()) {
		return fmt.Errorf("%s: --version output did not match WeiDU banner", path)
	}
	return nil
}

// RequireAllowed turns an advisory non-match into a hard error, for callers
// that opt into strict allow-list enforcement.
func RequireAllowed(v *Validated) error {
	if !v.Allowed {
		return fmt.Errorf("%w: %s (%s)", witerr.ErrBinaryNotAllowed, v.Path, v.Fingerprint)
	}
	return nil
}
