package ahocorasick

import (
	"testing"

	"github.com/corey/brkit/internal/ports"
	"github.com/stretchr/testify/assert"
)

func TestMatcher_SingleTerm(t *testing.T) {
	m := NewMatcher([]string{"GOTO"})
	assert.Equal(t, []ports.Span{{Start: 6, End: 10}}, m.Spans("00100 GOTO 300"))
}

func TestMatcher_MultipleTerms(t *testing.T) {
	m := NewMatcher([]string{"print", "total"})
	spans := m.Spans(`00250 PRINT "TOTAL"`)
	assert.Equal(t, []ports.Span{{Start: 6, End: 11}, {Start: 13, End: 18}}, spans)
}

func TestMatcher_CaseInsensitive(t *testing.T) {
	m := NewMatcher([]string{"Goto"})
	assert.Len(t, m.Spans("00100 goto 10"), 1)
	assert.Len(t, m.Spans("00100 GOTO 10"), 1)
}

func TestMatcher_LongestWins(t *testing.T) {
	m := NewMatcher([]string{"GO", "GOTO"})
	assert.Equal(t, []ports.Span{{Start: 6, End: 10}}, m.Spans("00100 GOTO 10"))
}

func TestMatcher_NoMatch(t *testing.T) {
	m := NewMatcher([]string{"LET"})
	assert.Nil(t, m.Spans("00100 PRINT A"))
}

func TestMatcher_BlankTerms(t *testing.T) {
	m := NewMatcher([]string{"", "  "})
	assert.Empty(t, m.Terms())
	assert.Nil(t, m.Spans("anything"))
}

func TestHighlight(t *testing.T) {
	m := NewMatcher([]string{"print", "a"})
	content := "00250 PRINT A"
	got := Highlight(content, m.Spans(content), "[", "]")
	assert.Equal(t, "00250 [PRINT] [A]", got)

	assert.Equal(t, content, Highlight(content, nil, "[", "]"))
}

func TestHighlight_SkipsBadSpans(t *testing.T) {
	got := Highlight("abc", []ports.Span{{Start: 1, End: 9}, {Start: 0, End: 1}}, "<", ">")
	assert.Equal(t, "<a>bc", got)
}
