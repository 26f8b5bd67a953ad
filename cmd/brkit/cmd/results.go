package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resultsLinks   bool
	resultsClear   bool
	resultsColor   string
	resultsNoColor bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show the results of the last search",
	Long:  "Prints the stored result set with the numbers \"brkit open <n>\" accepts.",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

func init() {
	f := resultsCmd.Flags()
	f.BoolVar(&resultsLinks, "links", false, "Print a navigation link under each match")
	f.BoolVar(&resultsClear, "clear", false, "Drop the stored results")
	f.StringVar(&resultsColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&resultsNoColor, "no-color", false, "Suppress color output")
}

func runResults(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if resultsClear {
		return s.ClearResults()
	}
	rs, err := s.Results()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatResults(rs, 0, listOptions{
		color: resolveColor(resultsColor, resultsNoColor),
		links: resultsLinks,
		root:  s.Root,
	}))
	return nil
}
