// serve.go runs the IPC server standalone, without a Process Session
// controller, for integration testing of the single-instance hand-off
// protocol (spec sections 4.8/4.9) — useful in isolation because the GUI
// controller that would normally own it is out of scope.
package cli

import (
	"fmt"

	"github.com/fission-ai/witgo/internal/instancelock"
	"github.com/fission-ai/witgo/internal/ipc"
	"github.com/fission-ai/witgo/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the single-instance IPC server standalone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadAndValidateConfig(configPath)
		if err != nil {
			return err
		}
		basePort := cfg.IPC.BasePort
		if basePort == 0 {
			basePort = ipc.DefaultBasePort
		}

		dataDir, err := cfg.DataDir()
		if err != nil {
			return err
		}
		releaseLock, err := instancelock.Acquire(dataDir)
		if err != nil {
			return err
		}
		defer releaseLock()

		handlers := ipc.Handlers{
			OnPing: func(bringToFront bool) {
				logging.Infof("REQ_PING bringToFront=%t", bringToFront)
			},
			IsRunning: func() bool { return false },
			OnExec: func(argv []string) {
				logging.Infof("REQ_EXEC accepted argv=%v", argv)
			},
			OnTerm: func() {
				logging.Infof("REQ_TERM received, shutting down")
			},
		}

		srv, err := ipc.Listen(basePort, handlers)
		if err != nil {
			return err
		}
		if srv == nil {
			return fmt.Errorf("ipc: exhausted fallback range starting at %d", basePort)
		}
		defer srv.Close()

		fmt.Printf("listening on 127.0.0.1:%d\n", srv.Port())
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
