package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/brkit/internal/ports"
)

var decompileCmd = &cobra.Command{
	Use:   "decompile <program> [program ...]",
	Short: "Create the source twin of compiled programs",
	Long:  "Decompiles each program next to itself. Existing source files are skipped, never overwritten.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecompile,
}

func runDecompile(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var failed error
	for _, p := range args {
		src, err := s.Decompile(cmd.Context(), p)
		switch {
		case errors.Is(err, ports.ErrSourceExists):
			warn(cmd.ErrOrStderr(), "%v (skipped)", err)
		case err != nil:
			Report(cmd.ErrOrStderr(), err)
			failed = exitCode{2}
		default:
			fmt.Fprintln(cmd.OutOrStdout(), displayPath(src, s.Root))
		}
	}
	return failed
}
