// run.go wires the Process Session (internal/session) into a CLI verb:
// validate a candidate installer binary through the Binary Identity Gate,
// spawn it with the supplied argv, stream decoded output to stdout, relay
// stdin to the child, and exit with the child's exit code. Grounded on the
// teacher's internal/cli/run.go shape (signal-driven cancellation via
// setupSignalHandler feeding a context).
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fission-ai/witgo/internal/charset"
	"github.com/fission-ai/witgo/internal/config"
	"github.com/fission-ai/witgo/internal/gate"
	"github.com/fission-ai/witgo/internal/instancelock"
	"github.com/fission-ai/witgo/internal/session"
	"github.com/spf13/cobra"
)

var (
	runIncludeStderr bool
	runCharsetName   string
)

var runCmd = &cobra.Command{
	Use:   "run -- <tp2-or-args>...",
	Short: "Spawn the installer binary and stream its decoded output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadAndValidateConfig(configPath)
		if err != nil {
			return err
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

		resolvedBin, err := resolveInstallerPath(cfg)
		if err != nil {
			return err
		}

		cmdArgv := args
		if ClassifyArgv(args) == ModeHelp {
			cmdArgv = prepareHelpArgv(args)
		}
		argv := append([]string{resolvedBin}, cmdArgv...)
		sess, err := session.New("", argv, runIncludeStderr)
		if err != nil {
			return err
		}

		dec := charset.New(charset.Name(runCharsetName), charset.Replace)
		sess.OnOutput(func(b []byte) {
			text, err := dec.Decode(b)
			if err == nil {
				fmt.Print(text)
			}
		})
		done := make(chan struct{})
		sess.OnTerminated(func() { close(done) })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sigCh := setupSignalHandler()
		go func() {
			select {
			case <-sigCh:
				_ = sess.Kill()
			case <-done:
			}
		}()

		exitCh, err := sess.Start(ctx)
		if err != nil {
			return err
		}

		if ClassifyArgv(args) == ModeHelp {
			go pumpHelpPages(sess, done)
		} else {
			go relayStdin(sess)
		}

		res := <-exitCh
		if res.Err != nil {
			return res.Err
		}
		os.Exit(res.Code)
		return nil
	},
}

func relayStdin(sess *session.Session) {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			sess.SendInput(line)
		}
		if err != nil {
			if err != io.EOF {
				return
			}
			return
		}
	}
}

// resolveInstallerPath honors the --bin override, then falls through the
// Binary Identity Gate's search order and startup validation.
func resolveInstallerPath(cfg *config.Config) (string, error) {
	if binPath != "" {
		return binPath, nil
	}

	var al *gate.AllowList
	var err error
	if cfg.AllowList.Path != "" {
		if _, statErr := os.Stat(cfg.AllowList.Path); statErr == nil {
			al, err = gate.LoadAllowList(cfg.AllowList.Path)
			if err != nil {
				return "", err
			}
		}
	}
	if al == nil {
		al, _ = gate.ParseAllowList([]byte(`[]`))
	}

	candidates := cfg.SearchCandidates(installerBinaryName)
	v, err := gate.Validate(context.Background(), candidates, al)
	if err != nil {
		return "", err
	}
	if cfg.AllowList.Strict {
		if err := gate.RequireAllowed(v); err != nil {
			return "", err
		}
	}
	return v.Path, nil
}

// installerBinaryName is the executable name searched for on PATH and
// under app-data-relative paths; the installer binary is conventionally
// named "weidu" (see the GLOSSARY entry for "Installer binary").
const installerBinaryName = "weidu"

func init() {
	runCmd.Flags().BoolVar(&runIncludeStderr, "include-stderr", false, "merge the installer's stderr into the Output stream")
	runCmd.Flags().StringVar(&runCharsetName, "charset", string(charset.UTF8), "charset to decode installer output with")
	rootCmd.AddCommand(runCmd)
}
