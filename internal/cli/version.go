package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of witgo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("witgo %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
