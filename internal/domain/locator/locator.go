// Package locator finds a program's internal line number in source text.
//
// BR source lines carry their own line labels ("00250 PRINT A"). The physical
// line index of a label is not derivable from the number, so Find scans the
// document top to bottom and stops at the first line whose left-trimmed text
// starts with the label in one of three forms:
//
//	00250 ...   zero-padded to five digits
//	250 ...     plain decimal followed by whitespace
//	0250 ...    any leading zeros, then the number, then whitespace
//
// The scan is anchored to the start of each line. A number that happens to
// appear later in a line (inside a string literal, a GOTO target) never matches.
package locator

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Find returns the 0-based index of the first line labelled n.
func Find(lines []string, n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	padded := fmt.Sprintf("%05d", n)
	plain := strconv.Itoa(n)
	loose := regexp.MustCompile(`^0*` + plain + `\s`)

	for i, line := range lines {
		text := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(text, padded) ||
			hasPlainPrefix(text, plain) ||
			loose.MatchString(text) {
			return i, true
		}
	}
	return 0, false
}

// hasPlainPrefix reports whether text is plain followed by whitespace.
func hasPlainPrefix(text, plain string) bool {
	if !strings.HasPrefix(text, plain) || len(text) == len(plain) {
		return false
	}
	switch text[len(plain)] {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// FindIn reads all lines from r and runs Find over them.
func FindIn(r io.Reader, n int) (int, bool, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return 0, false, err
	}
	idx, ok := Find(lines, n)
	return idx, ok, nil
}
