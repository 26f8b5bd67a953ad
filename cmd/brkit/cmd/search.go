package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	fsw "github.com/corey/brkit/internal/adapters/fsnotify"
	"github.com/corey/brkit/internal/app"
)

var (
	searchDirs    []string
	searchFiles   []string
	searchWatch   bool
	searchCount   bool
	searchLinks   bool
	searchColor   string
	searchNoColor bool
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <term> [term ...]",
	Short: "Search compiled programs for lines containing any term",
	Long: `Lists every line of every compiled program under the search roots that
contains one of the terms (case-insensitive). Each term is searched
independently. Exit status: 0 matches found, 1 no matches, 2 error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringArrayVarP(&searchDirs, "dir", "d", nil, "Search root (repeatable; default: workspace root)")
	f.StringArrayVarP(&searchFiles, "file", "f", nil, "Search this file only (repeatable; compiled or source)")
	f.BoolVarP(&searchWatch, "watch", "w", false, "Re-run when a compiled program changes (Ctrl-C stops)")
	f.BoolVarP(&searchCount, "count", "c", false, "Print the summary line only")
	f.BoolVar(&searchLinks, "links", false, "Print a navigation link under each match")
	f.StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&searchNoColor, "no-color", false, "Suppress color output")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	req := app.SearchRequest{Terms: args, Roots: searchDirs, Files: searchFiles}
	if len(req.Roots) == 0 && len(req.Files) == 0 {
		req.Roots = []string{s.Root}
	}
	opts := listOptions{
		color:     resolveColor(searchColor, searchNoColor),
		links:     searchLinks,
		countOnly: searchCount,
		root:      s.Root,
	}
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if searchWatch {
		w, err := fsw.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		fmt.Fprintf(out, "watching %d root(s), Ctrl-C to stop\n", len(req.Roots))
		return s.Watch(ctx, req, w, func(res *app.SearchOutcome, err error) {
			if err != nil {
				Report(cmd.ErrOrStderr(), err)
				return
			}
			printOutcome(cmd, res, opts)
		})
	}

	res, err := s.Search(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitCode{130}
		}
		return err
	}
	printOutcome(cmd, res, opts)
	if res.Results.Total == 0 {
		return errNoMatch
	}
	return nil
}

func printOutcome(cmd *cobra.Command, res *app.SearchOutcome, opts listOptions) {
	if res.NoFiles {
		fmt.Fprintln(cmd.OutOrStdout(), "no compiled programs to search")
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), formatResults(res.Results, res.Elapsed, opts))
}
