// Package main is the muxkeys command: it checks binding files, lists
// the effective key tables and traces live key dispatch in a terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	luaFiles   []string
	logLevel   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "muxkeys",
		Short: "Modal key dispatcher for terminal multiplexers",
		Long: `muxkeys resolves key presses against prefix, search, copy-mode and
custom binding tables the way a terminal multiplexer client does.

Examples:
  muxkeys check keys.toml              # Validate a binding file
  muxkeys list-keys -c keys.yaml       # Show every binding in evaluation order
  muxkeys list-keys --export toml      # Print the effective configuration
  muxkeys trace -c keys.toml --lua x.lua  # Watch keys resolve live`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Binding file (.toml, .yaml, .yml)")
	root.PersistentFlags().StringArrayVar(&flags.luaFiles, "lua", nil, "Lua script defining commands, can be repeated")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the file")

	root.AddCommand(
		newCheckCmd(&flags),
		newListKeysCmd(&flags),
		newTraceCmd(&flags),
	)
	return root
}
