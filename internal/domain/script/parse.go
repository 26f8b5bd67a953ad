package script

import (
	"bufio"
	"fmt"
	"strings"
)

// Op is a parsed directive kind.
type Op int

const (
	OpOther Op = iota
	OpLoad
	OpList
	OpSystem
)

// Directive is one parsed script line. Used by tooling that inspects scripts
// (dry runs, tests) rather than by the engine itself.
type Directive struct {
	Op     Op
	Term   string // LIST search term; empty for a full listing
	Input  string // LIST input redirection source
	Path   string // LOAD target or LIST output
	Append bool   // LIST used >>
	Raw    string
}

// Parse reads a script produced by Builder back into directives.
func Parse(text string) ([]Directive, error) {
	var out []Directive
	sc := bufio.NewScanner(strings.NewReader(text))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		d := Directive{Raw: line}
		keyword, rest, _ := strings.Cut(line, " ")
		switch strings.ToUpper(keyword) {
		case "LOAD":
			p, _, err := unquotePath(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			d.Op, d.Path = OpLoad, p
		case "LIST":
			if err := parseList(&d, rest); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
		case "SYSTEM":
			d.Op = OpSystem
		}
		out = append(out, d)
	}
	return out, sc.Err()
}

func parseList(d *Directive, rest string) error {
	d.Op = OpList
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "<") {
		p, tail, err := unquotePath(rest[1:])
		if err != nil {
			return err
		}
		d.Input, rest = p, strings.TrimSpace(tail)
	}
	if strings.HasPrefix(rest, "'") {
		term, tail, err := unquoteTerm(rest)
		if err != nil {
			return err
		}
		d.Term, rest = term, strings.TrimSpace(tail)
	}
	switch {
	case strings.HasPrefix(rest, ">>"):
		d.Append, rest = true, rest[2:]
	case strings.HasPrefix(rest, ">"):
		rest = rest[1:]
	default:
		return fmt.Errorf("LIST without output redirection: %q", d.Raw)
	}
	p, _, err := unquotePath(rest)
	if err != nil {
		return err
	}
	d.Path = p
	return nil
}

// unquotePath reads a `":path"` token and returns the path and what follows it.
func unquotePath(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, `":`) {
		return "", "", fmt.Errorf("expected quoted native path in %q", s)
	}
	var sb strings.Builder
	for i := 2; i < len(s); i++ {
		if s[i] != '"' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			sb.WriteByte('"')
			i++
			continue
		}
		return sb.String(), s[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated path in %q", s)
}

func unquoteTerm(s string) (string, string, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			sb.WriteByte('\'')
			i++
			continue
		}
		return sb.String(), s[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated term in %q", s)
}
