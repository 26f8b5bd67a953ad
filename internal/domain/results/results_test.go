package results

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/brkit/internal/ports"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want ports.Match
		ok   bool
	}{
		{"00100 LET X=42", ports.Match{Path: "p", Line: 100, Content: "00100 LET X=42"}, true},
		{"   250\tPRINT A   ", ports.Match{Path: "p", Line: 250, Content: "250\tPRINT A"}, true},
		{"not a match", ports.Match{}, false},
		{"", ports.Match{}, false},
		{"   ", ports.Match{}, false},
		{"00100", ports.Match{}, false},
		{"100LET", ports.Match{}, false},
		{"99999999999999999999999 X", ports.Match{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine("p", tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseText_DropsNoise(t *testing.T) {
	text := "Business Rules! 4.3\r\n\r\n00010 PRINT \"HI\"\r\nLoaded.\r\n00020 GOTO 10\r\n"
	got := ParseText("/w/a.br", text)
	want := []ports.Match{
		{Path: "/w/a.br", Line: 10, Content: `00010 PRINT "HI"`},
		{Path: "/w/a.br", Line: 20, Content: "00020 GOTO 10"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseText mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_OnlyMatchingFilesProduceGroups(t *testing.T) {
	dir := t.TempDir()
	files := []string{"/w/a.br", "/w/b.br", "/w/c.br"}
	resultPath := func(i int) string { return filepath.Join(dir, fmt.Sprintf("searchResult_%d.txt", i)) }

	// a: no result file at all; b: two GOTO lines; c: whitespace only.
	require.NoError(t, os.WriteFile(resultPath(1), []byte("00100 GOTO 300\n00200 IF X THEN GOTO 100\n"), 0644))
	require.NoError(t, os.WriteFile(resultPath(2), []byte("  \n\n"), 0644))

	groups, total := Aggregate(files, resultPath)
	require.Len(t, groups, 1)
	assert.Equal(t, "/w/b.br", groups[0].Path)
	assert.Len(t, groups[0].Matches, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, 200, groups[0].Matches[1].Line)
}

func TestAggregate_NoiseOnlyFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r0.txt")
	require.NoError(t, os.WriteFile(path, []byte("Error 4152 on line 0\n"), 0644))

	groups, total := Aggregate([]string{"/w/a.br"}, func(int) string { return path })
	assert.Empty(t, groups)
	assert.Zero(t, total)
}

func TestAggregate_SamePathSharesOneGroup(t *testing.T) {
	dir := t.TempDir()
	files := []string{"/w/a.br", "/w/b.br", "/w/a.br"}
	resultPath := func(i int) string { return filepath.Join(dir, fmt.Sprintf("r%d.txt", i)) }
	require.NoError(t, os.WriteFile(resultPath(0), []byte("00010 GOTO 20\n"), 0644))
	require.NoError(t, os.WriteFile(resultPath(1), []byte("00050 GOTO 10\n"), 0644))
	require.NoError(t, os.WriteFile(resultPath(2), []byte("00030 GOTO 10\n"), 0644))

	groups, total := Aggregate(files, resultPath)
	assert.Equal(t, 3, total)
	require.Len(t, groups, 2)
	assert.Equal(t, "/w/a.br", groups[0].Path)
	assert.Equal(t, []int{10, 30}, []int{groups[0].Matches[0].Line, groups[0].Matches[1].Line})
	assert.Equal(t, "/w/b.br", groups[1].Path)
}

func TestGroup_PreservesOrder(t *testing.T) {
	in := []ports.Match{
		{Path: "b", Line: 1}, {Path: "a", Line: 5}, {Path: "b", Line: 3},
	}
	got := Group(in)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Path)
	assert.Equal(t, []int{1, 3}, []int{got[0].Matches[0].Line, got[0].Matches[1].Line})
	assert.Equal(t, "a", got[1].Path)
}
