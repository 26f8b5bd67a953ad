// Package ahocorasick highlights search terms in result lines using an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick library:
// one pass over a line finds every term, however many were searched for.
package ahocorasick

import (
	"strings"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/brkit/internal/ports"
)

// Matcher implements ports.TermMatcher. Matching is ASCII case-insensitive and
// prefers the longest term at each position, so "GO" and "GOTO" together
// highlight "GOTO" whole.
type Matcher struct {
	automaton aho.AhoCorasick
	terms     []string
}

// NewMatcher compiles an automaton for terms. Blank terms are dropped.
func NewMatcher(terms []string) *Matcher {
	kept := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			kept = append(kept, t)
		}
	}
	m := &Matcher{terms: kept}
	if len(kept) == 0 {
		return m
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		AsciiCaseInsensitive: true,
		MatchKind:            aho.LeftMostLongestMatch,
		DFA:                  true,
	})
	m.automaton = builder.Build(kept)
	return m
}

// Spans returns the non-overlapping term occurrences in content.
func (m *Matcher) Spans(content string) []ports.Span {
	if len(m.terms) == 0 || content == "" {
		return nil
	}
	matches := m.automaton.FindAll(content)
	if len(matches) == 0 {
		return nil
	}
	spans := make([]ports.Span, len(matches))
	for i := range matches {
		spans[i] = ports.Span{Start: matches[i].Start(), End: matches[i].End()}
	}
	return spans
}

// Terms returns the terms the automaton was built from.
func (m *Matcher) Terms() []string {
	return m.terms
}

// Highlight wraps every span of content with open and close markers.
func Highlight(content string, spans []ports.Span, open, close string) string {
	if len(spans) == 0 {
		return content
	}
	var sb strings.Builder
	sb.Grow(len(content) + len(spans)*(len(open)+len(close)))
	prev := 0
	for _, s := range spans {
		if s.Start < prev || s.End > len(content) || s.Start >= s.End {
			continue
		}
		sb.WriteString(content[prev:s.Start])
		sb.WriteString(open)
		sb.WriteString(content[s.Start:s.End])
		sb.WriteString(close)
		prev = s.End
	}
	sb.WriteString(content[prev:])
	return sb.String()
}

var _ ports.TermMatcher = (*Matcher)(nil)
