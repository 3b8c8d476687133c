package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/muxkeys/internal/clipboard"
	"github.com/dshills/muxkeys/internal/config"
)

var errCheckFailed = errors.New("check failed")

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <config>",
		Short: "Validate a binding file against a fresh dispatcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), flags, args[0])
		},
	}
}

func runCheck(out io.Writer, flags *globalFlags, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		reportProblems(out, path, err)
		return errCheckFailed
	}

	s, err := newSession(flags, cfg, io.Discard, clipboard.NewMemory())
	if s != nil {
		defer s.Close()
	}
	if err != nil {
		reportProblems(out, path, err)
		return errCheckFailed
	}

	fmt.Fprintf(out, "%s: ok (prefix %s, %d bindings)\n", path, s.d.Prefix(), len(s.d.CustomBindings()))
	return nil
}

// reportProblems prints one line per validation or apply failure.
func reportProblems(out io.Writer, path string, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			reportProblems(out, path, e)
		}
		return
	}
	var pe *config.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintln(out, pe)
		return
	}
	fmt.Fprintf(out, "%s: %v\n", path, err)
}
