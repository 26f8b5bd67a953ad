// Package results turns engine listing files into grouped matches.
//
// The engine writes one result file per searched program. Each accepted line
// starts with the program's internal line number, whitespace, then the line
// text. Anything else (blank lines, banners, error chatter) is noise.
package results

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/corey/brkit/internal/ports"
)

var matchLine = regexp.MustCompile(`^(\d+)\s+(.*)$`)

// ParseLine parses one result line. The returned Content is the whole trimmed
// line, digits included.
func ParseLine(path, line string) (ports.Match, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ports.Match{}, false
	}
	m := matchLine.FindStringSubmatch(trimmed)
	if m == nil {
		return ports.Match{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// More digits than an int holds: not a line number.
		return ports.Match{}, false
	}
	return ports.Match{Path: path, Line: n, Content: trimmed}, true
}

// ParseText parses every line of a result file's content, in order.
func ParseText(path, text string) []ports.Match {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []ports.Match
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if m, ok := ParseLine(path, sc.Text()); ok {
			out = append(out, m)
		}
	}
	return out
}

// Aggregate reads the result file of every searched file, by index, and groups
// the accepted matches per file. Missing, empty and all-noise result files
// produce no group. Returns the groups in input order and the total match count.
func Aggregate(files []string, resultPath func(i int) string) ([]ports.FileResult, int) {
	var all []ports.Match
	for i, path := range files {
		data, err := os.ReadFile(resultPath(i))
		if err != nil {
			continue
		}
		all = append(all, ParseText(path, string(data))...)
	}
	return Group(all), len(all)
}

// Group buckets loose matches by path equality, keeping first-seen file order
// and encounter order within each file.
func Group(matches []ports.Match) []ports.FileResult {
	pos := make(map[string]int)
	var groups []ports.FileResult
	for _, m := range matches {
		i, ok := pos[m.Path]
		if !ok {
			i = len(groups)
			pos[m.Path] = i
			groups = append(groups, ports.FileResult{Path: m.Path})
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	return groups
}
