package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fission-ai/witgo/internal/config"
	"github.com/fission-ai/witgo/internal/gate"
	"github.com/spf13/cobra"
)

var gateStrict bool

var gateCmd = &cobra.Command{
	Use:   "gate <path-to-binary>",
	Short: "Validate a candidate installer binary against the allow-list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadAndValidateConfig(configPath)
		if err != nil {
			return err
		}

		var al *gate.AllowList
		if cfg.AllowList.Path != "" {
			if _, statErr := os.Stat(cfg.AllowList.Path); statErr == nil {
				al, err = gate.LoadAllowList(cfg.AllowList.Path)
				if err != nil {
					return err
				}
			}
		}
		if al == nil {
			al, err = gate.ParseAllowList([]byte(`[]`))
			if err != nil {
				return err
			}
		}

		v, err := gate.Validate(context.Background(), []string{args[0]}, al)
		if err != nil {
			return err
		}

		fmt.Printf("path: %s\n", v.Path)
		fmt.Printf("sha256: %s\n", v.Fingerprint)
		fmt.Printf("allow-listed: %t\n", v.Allowed)
		if v.Allowed {
			fmt.Printf("version: %d  os: %s  arch: %s  variant: %d\n", v.Entry.Version, v.Entry.OS, v.Entry.Arch, v.Entry.Variant)
		}

		if gateStrict || cfg.AllowList.Strict {
			return gate.RequireAllowed(v)
		}
		return nil
	},
}

func init() {
	gateCmd.Flags().BoolVar(&gateStrict, "strict", false, "fail if the binary is not on the allow-list")
	rootCmd.AddCommand(gateCmd)
}
