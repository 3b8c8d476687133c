package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/muxkeys/internal/clipboard"
	"github.com/dshills/muxkeys/internal/config"
	"github.com/dshills/muxkeys/internal/input/filter"
)

func newListKeysCmd(flags *globalFlags) *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "list-keys",
		Short: "Print the merged bindings in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListKeys(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, export)
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "Print the effective configuration as toml or yaml instead")
	return cmd
}

func runListKeys(out, errOut io.Writer, flags *globalFlags, export string) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	s, err := newSession(flags, cfg, errOut, clipboard.NewMemory())
	if s == nil {
		return err
	}
	defer s.Close()
	if err != nil {
		reportProblems(errOut, flags.configPath, err)
	}

	if export != "" {
		format, err := config.ParseFormat(export)
		if err != nil {
			return err
		}
		data, err := config.Marshal(s.effective(), format)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tKEYS\tBINDING\tWHEN")
	for _, b := range s.d.Bindings() {
		when := filter.And(b.Gate, b.Predicate)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Layer, b.Sequence, bindingLabel(b.Name, b.Description), when)
	}
	return tw.Flush()
}

func bindingLabel(name, description string) string {
	if description == "" || description == name {
		return name
	}
	return name + " (" + description + ")"
}
