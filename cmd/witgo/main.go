// Command witgo drives an external mod installer. With a recognized
// subcommand (run, probe, serve, gate, validate, schema, version) it
// behaves as an ordinary cobra CLI. Otherwise its argv is treated as the
// installer-facing surface of spec section 6: classified into Help,
// Guided, or Custom mode and, if a running instance answers on the
// loopback IPC range, handed off to it instead of starting a new one.
package main

import (
	"fmt"
	"os"

	"github.com/fission-ai/witgo/internal/cli"
	"github.com/fission-ai/witgo/internal/ipc"
)

var subcommands = map[string]bool{
	"run": true, "probe": true, "serve": true, "gate": true,
	"validate": true, "schema": true, "version": true, "help": true,
	"completion": true,
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 && (subcommands[args[0]] || args[0] == "-h" || args[0] == "--help") {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "witgo: no arguments; a GUI collaborator would open a file chooser here")
		os.Exit(0)
	}

	mode := cli.ClassifyArgv(args)
	found, accepted, err := cli.HandOff(ipc.DefaultBasePort, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "witgo: hand-off failed: %v\n", err)
	}
	if found {
		if accepted {
			fmt.Fprintf(os.Stderr, "witgo: handed off to a running instance; mode=%s argv=%v\n", mode, args)
		} else {
			fmt.Fprintln(os.Stderr, "witgo: another instance is currently running an installation; argv was not accepted")
		}
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "witgo: no running instance found; mode=%s argv=%v\n", mode, args)
	fmt.Fprintln(os.Stderr, "witgo: run 'witgo run -- <args>' to start a Process Session directly")
	os.Exit(0)
}
