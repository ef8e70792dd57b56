// argvmode.go classifies a raw argv the way the IPC server does when it
// receives REQ_EXEC's content (spec section 6): Help, Guided, or Custom
// mode, plus the single-instance hand-off sequence a second invocation
// runs before falling back to starting its own instance.
package cli

import (
	"fmt"
	"strings"

	"github.com/fission-ai/witgo/internal/ipc"
)

// Mode is one of the three high-level operating modes derived from argv.
type Mode int

const (
	ModeHelp Mode = iota
	ModeGuided
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeHelp:
		return "Help"
	case ModeGuided:
		return "Guided"
	default:
		return "Custom"
	}
}

// ClassifyArgv applies spec section 6's rules. Callers must handle the
// empty-argv case (invoke a file chooser) before calling this.
func ClassifyArgv(argv []string) Mode {
	for _, a := range argv {
		if a == "--help" || a == "-help" {
			return ModeHelp
		}
	}
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "--") && strings.HasSuffix(strings.ToLower(argv[0]), ".tp2") {
		return ModeGuided
	}
	return ModeCustom
}

// HandOff tries each port in the IPC fallback range and, on the first
// server that answers, sends REQ_EXEC with argv. It reports whether any
// server was found; per spec section 6 and scenario S6, the caller exits
// with code 0 whenever a server was found, regardless of whether that
// server's Process Session accepted the request.
func HandOff(basePort int, argv []string) (found, accepted bool, err error) {
	for i := 0; i < ipc.FallbackAttempts; i++ {
		c := ipc.NewClient(basePort + i)
		present, acc, err := c.Execute(argv)
		if err != nil {
			return true, false, fmt.Errorf("ipc: hand-off to port %d: %w", basePort+i, err)
		}
		if present {
			return true, acc, nil
		}
	}
	return false, false, nil
}
