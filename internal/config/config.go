// Package config loads witgo's own settings file (distinct from a mod's
// auxiliary INI file in internal/modini): installer search overrides,
// allow-list strictness, and IPC/probe defaults. Grounded on the teacher's
// internal/config package (yaml.v3 unmarshal into tagged structs, Load
// wraps os.ReadFile errors).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fission-ai/witgo/internal/fileutil"
	"github.com/fission-ai/witgo/internal/gate"
	"github.com/fission-ai/witgo/internal/ipc"
	"github.com/fission-ai/witgo/internal/probe"
)

// AllowListSettings controls Binary Identity Gate enforcement.
type AllowListSettings struct {
	Path   string `yaml:"path,omitempty"`
	Strict bool   `yaml:"strict"`
}

// IPCSettings controls the single-instance IPC server started by
// `witgo serve`. The hand-off client in cmd/witgo does not read it and
// always starts at ipc.DefaultBasePort.
type IPCSettings struct {
	BasePort int `yaml:"base_port,omitempty"`
}

// ProbeSettings controls the Installer Metadata Probe's defaults.
type ProbeSettings struct {
	DefaultLanguageIndex int `yaml:"default_language_index"`
	TimeoutSeconds       int `yaml:"timeout_seconds,omitempty"`
}

// Config is witgo's top-level settings document.
type Config struct {
	InstallerPath string            `yaml:"installer_path,omitempty"`
	AppDataDir    string            `yaml:"app_data_dir,omitempty"`
	AllowList     AllowListSettings `yaml:"allow_list"`
	IPC           IPCSettings       `yaml:"ipc"`
	Probe         ProbeSettings     `yaml:"probe"`
}

// Default returns a zero-valued Config with defaults applied, for callers
// that have no witgo.yaml to load.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses path, then applies defaults for any zero-valued
// field that has a documented default (spec sections 4.5, 4.6, 4.8).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.IPC.BasePort == 0 {
		cfg.IPC.BasePort = ipc.DefaultBasePort
	}
	if cfg.Probe.TimeoutSeconds == 0 {
		cfg.Probe.TimeoutSeconds = int(probe.DefaultTimeout.Seconds())
	}
	if cfg.AllowList.Path == "" {
		if dir, err := fileutil.DataDir(cfg.AppDataDir); err == nil {
			cfg.AllowList.Path = fileutil.AllowListPath(dir)
		}
	}
}

// DataDir resolves this config's app-data directory, applying the same
// fallback fileutil.DataDir uses when AppDataDir is unset.
func (c *Config) DataDir() (string, error) {
	return fileutil.DataDir(c.AppDataDir)
}

// SearchCandidates builds the gate.SearchCandidates list for this config's
// configured override and app-data directory.
func (c *Config) SearchCandidates(binName string) []string {
	return gate.SearchCandidates(c.InstallerPath, c.AppDataDir, binName)
}
