// probe.go exposes the Installer Metadata Probe as a standalone CLI verb
// for scripting and debugging, beyond what spec.md's Non-goals exclude
// (the UI layer is excluded; a CLI probe verb is not).
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fission-ai/witgo/internal/charset"
	"github.com/fission-ai/witgo/internal/probe"
	"github.com/spf13/cobra"
)

var probeLanguageIndex int

var probeCmd = &cobra.Command{
	Use:   "probe <tp2-path>",
	Short: "Query the installer for a mod's languages and component tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadAndValidateConfig(configPath)
		if err != nil {
			return err
		}
		bin, err := resolveInstallerPath(cfg)
		if err != nil {
			return err
		}

		tp2 := args[0]
		ctx := context.Background()

		languages, err := probe.ListLanguages(ctx, bin, tp2)
		if err != nil {
			return err
		}
		fmt.Println("languages:")
		for i, l := range languages {
			fmt.Printf("  %d: %s\n", i, l)
		}

		idx := probeLanguageIndex
		if !cmd.Flags().Changed("language") {
			idx = cfg.Probe.DefaultLanguageIndex
		}
		if idx < 0 || idx >= len(languages) {
			idx = 0
		}
		candidates := charset.CandidatesForLanguage(languages[idx])

		tree, err := probe.ListComponentsWithFallback(ctx, bin, tp2, idx, candidates)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	probeCmd.Flags().IntVar(&probeLanguageIndex, "language", 0, "language index to list components for (default: probe.default_language_index from the config)")
	rootCmd.AddCommand(probeCmd)
}
