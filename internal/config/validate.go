package config

import "fmt"

// Validate checks a loaded Config for semantic errors beyond what Load
// catches. Returns a list of human/agent-readable error strings, one per
// issue.
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.IPC.BasePort < 0 || cfg.IPC.BasePort > 65535 {
		errs = append(errs, fmt.Sprintf("ipc.base_port: %d is not a valid port", cfg.IPC.BasePort))
	}
	if cfg.Probe.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Sprintf("probe.timeout_seconds: %d must be >= 0", cfg.Probe.TimeoutSeconds))
	}
	if cfg.Probe.DefaultLanguageIndex < 0 {
		errs = append(errs, fmt.Sprintf("probe.default_language_index: %d must be >= 0", cfg.Probe.DefaultLanguageIndex))
	}

	return errs
}
