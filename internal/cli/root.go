// Package cli wires witgo's cobra command surface. Grounded on the
// teacher's internal/cli/root.go (a persistent config-path flag, a
// package-level rootCmd, Execute as the sole exported entry point).
package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	binPath    string
	Version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "witgo",
	Short: "Drive an external mod installer: process session, metadata probe, single-instance IPC",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to witgo.yaml (optional)")
	rootCmd.PersistentFlags().StringVar(&binPath, "bin", "", "path to the installer binary (overrides search order)")
}

// Execute runs the root command; cmd/witgo/main.go calls it when argv
// starts with a recognized subcommand.
func Execute() error {
	return rootCmd.Execute()
}
