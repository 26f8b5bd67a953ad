//go:build !windows

package editor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEditor writes a script that echoes a line of stdin and its arguments.
func fakeEditor(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ed")
	script := "#!/bin/sh\nread typed\necho \"$typed $1 $2\"\necho opened >&2\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestOpener_ForegroundInheritsStreams(t *testing.T) {
	var out, errw bytes.Buffer
	o := New(fakeEditor(t)+" +{line} {path}", nil).
		Foreground(strings.NewReader(":wq\n"), &out, &errw)

	require.NoError(t, o.Open(context.Background(), "/w/a.brs", 12))
	// Run waited: the output is complete when Open returns.
	assert.Equal(t, ":wq +12 /w/a.brs\n", out.String())
	assert.Equal(t, "opened\n", errw.String())
}

func TestOpener_ForegroundReportsEditorFailure(t *testing.T) {
	var out bytes.Buffer
	o := New("false {path}", nil).Foreground(strings.NewReader(""), &out, &out)
	err := o.Open(context.Background(), "/w/a.brs", 1)
	assert.Error(t, err)
}
