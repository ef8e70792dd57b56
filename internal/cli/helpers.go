package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fission-ai/witgo/internal/config"
	"github.com/fission-ai/witgo/internal/logging"
)

// loadAndValidateConfig loads a config file and validates it, printing
// errors to stderr. An empty path means "no config file supplied" and
// returns a zero Config with defaults applied, since witgo.yaml is
// optional (unlike the teacher's required line.yaml).
func loadAndValidateConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		logging.Warnf("%s", err)
		return nil, err
	}

	errs := config.Validate(cfg)
	if len(errs) > 0 {
		for _, e := range errs {
			logging.Warnf("%s", e)
		}
		return nil, fmt.Errorf("%d validation error(s)", len(errs))
	}

	return cfg, nil
}

// setupSignalHandler creates a signal channel and registers handlers for
// SIGINT and SIGTERM.
func setupSignalHandler() chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
