package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/corey/brkit/internal/adapters/ahocorasick"
	"github.com/corey/brkit/internal/domain/locator"
	"github.com/corey/brkit/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// listOptions controls formatResults.
type listOptions struct {
	color     bool
	links     bool   // print a navigation link after each match
	countOnly bool
	root      string // paths are shown relative to root when inside it
}

// palette returns the escape codes in use, or empty strings without color.
func palette(on bool) (reset, bold, cyan, magenta, gray string) {
	if !on {
		return
	}
	return colorReset, colorBold, colorCyan, colorMagenta, colorGray
}

// formatResults renders a result set with 1-based match numbers, which
// "brkit open <n>" accepts.
//
//	⚡ 3 matches │ 2 files │ 12ms
//	  ar/invoice.br
//	     1  00100 GOTO 300
//	     2  00300 GOTO 100
func formatResults(rs *ports.ResultSet, elapsed time.Duration, opts listOptions) string {
	reset, bold, cyan, magenta, gray := palette(opts.color)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d %s%s │ %d %s", bold, rs.Total, plural(rs.Total, "match", "matches"), reset,
		len(rs.Files), plural(len(rs.Files), "file", "files")))
	if elapsed > 0 {
		sb.WriteString(fmt.Sprintf(" │ %s", elapsed.Round(time.Millisecond)))
	}
	sb.WriteString("\n")
	if opts.countOnly {
		return sb.String()
	}

	var hl *ahocorasick.Matcher
	if opts.color && len(rs.Terms) > 0 {
		hl = ahocorasick.NewMatcher(rs.Terms)
	}

	n := 0
	for _, f := range rs.Files {
		sb.WriteString(fmt.Sprintf("  %s%s%s\n", cyan, displayPath(f.Path, opts.root), reset))
		for _, m := range f.Matches {
			n++
			content := m.Content
			if hl != nil {
				content = ahocorasick.Highlight(content, hl.Spans(content), magenta+bold, reset)
			}
			sb.WriteString(fmt.Sprintf("    %s%4d%s  %s\n", gray, n, reset, content))
			if opts.links {
				sb.WriteString(fmt.Sprintf("          %s%s%s\n", gray, locator.Link{Path: m.Path, Line: m.Line}, reset))
			}
		}
	}
	return sb.String()
}

func displayPath(path, root string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
