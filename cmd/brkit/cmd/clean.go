package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/brkit/internal/app"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove leftover scripts and result files",
	Long:  "Empties .brkit/tmp. Stored results are kept; use \"brkit results --clear\" for those.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		app.NewPaths(root).CleanTmp()
		fmt.Fprintln(cmd.OutOrStdout(), "cleaned")
		return nil
	},
}
