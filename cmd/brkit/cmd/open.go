package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/corey/brkit/internal/app"
	"github.com/corey/brkit/internal/domain/locator"
)

var openCmd = &cobra.Command{
	Use:   "open <n> | <link> | <file> [line]",
	Short: "Open a match in its source file",
	Long: `Opens a location in the configured editor (or prints path:line when no
editor is configured).

  brkit open 3                     third match of the last search
  brkit open 'brkit:open?...'      a link printed by --links
  brkit open ar/invoice.br 250     internal line 250 of a program

A compiled program opens in its source twin, decompiled first if needed.
When the internal line cannot be found the file opens at its first line.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runOpen,
}

// openTarget is a parsed "brkit open" argument list.
type openTarget struct {
	match int // 1-based result number; 0 when unused
	link  string
	path  string
	line  int
}

func parseOpenArgs(args []string) (openTarget, error) {
	if len(args) == 2 {
		line, err := strconv.Atoi(args[1])
		if err != nil || line < 0 {
			return openTarget{}, fmt.Errorf("invalid line %q", args[1])
		}
		return openTarget{path: args[0], line: line}, nil
	}
	arg := args[0]
	if locator.IsLink(arg) {
		return openTarget{link: arg}, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 {
			return openTarget{}, fmt.Errorf("match numbers start at 1")
		}
		return openTarget{match: n}, nil
	}
	return openTarget{path: arg}, nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	target, err := parseOpenArgs(args)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var loc app.Location
	switch {
	case target.match > 0:
		loc, err = s.OpenMatch(cmd.Context(), target.match-1)
	case target.link != "":
		loc, err = s.OpenLink(cmd.Context(), target.link)
	default:
		loc, err = s.Navigate(cmd.Context(), target.path, target.line)
	}
	if err != nil {
		return err
	}
	if loc.Decompiled {
		fmt.Fprintf(cmd.ErrOrStderr(), "decompiled %s\n", displayPath(loc.Path, s.Root))
	}
	if w := loc.Warning(); w != nil {
		warn(cmd.ErrOrStderr(), "%v in %s, opened at line 1", w, displayPath(loc.Path, s.Root))
	}
	return nil
}
