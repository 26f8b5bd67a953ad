package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/brkit/internal/domain/extmap"
	"github.com/corey/brkit/internal/ports"
)

func defaultTable(t *testing.T) *extmap.Table {
	t.Helper()
	tbl, err := extmap.NewTable(extmap.DefaultPairs)
	require.NoError(t, err)
	return tbl
}

func pathsOf(files []ports.WorkspaceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "ar/a.br", "")
	upper := writeFile(t, root, "ar/B.BR", "")
	wb := writeFile(t, root, "gl/c.wb", "")
	writeFile(t, root, "ar/a.brs", "")
	writeFile(t, root, "readme.txt", "")
	writeFile(t, root, ".brkit/tmp/decompile_x.br", "")
	writeFile(t, root, ".git/objects/y.br", "")
	writeFile(t, root, "node_modules/z.br", "")

	files, err := CollectFiles([]string{root}, defaultTable(t), nil)
	require.NoError(t, err)

	want := []string{upper, a, wb}
	assert.ElementsMatch(t, want, pathsOf(files))
	assert.IsIncreasing(t, pathsOf(files))
	for _, f := range files {
		assert.Equal(t, ports.KindCompiled, f.Kind)
	}
	assert.Equal(t, ".br", files[0].Ext, "extension is normalized")
}

func TestCollectFiles_Excludes(t *testing.T) {
	root := t.TempDir()
	keep := writeFile(t, root, "ar/a.br", "")
	writeFile(t, root, "ar/backup/a.br", "")
	writeFile(t, root, "old/x.wb", "")

	files, err := CollectFiles([]string{root}, defaultTable(t), []string{"**/backup/**", "old/*.wb"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, pathsOf(files))

	_, err = CollectFiles([]string{root}, defaultTable(t), []string{"[unclosed"})
	assert.Error(t, err)
}

func TestCollectFiles_OverlappingRootsDeduplicated(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "ar/a.br", "")
	b := writeFile(t, root, "b.br", "")

	files, err := CollectFiles([]string{filepath.Join(root, "ar"), root}, defaultTable(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, pathsOf(files))
}

func TestCollectFiles_NoWorkspace(t *testing.T) {
	_, err := CollectFiles(nil, defaultTable(t), nil)
	assert.ErrorIs(t, err, ports.ErrNoWorkspace)

	file := writeFile(t, t.TempDir(), "a.br", "")
	_, err = CollectFiles([]string{file}, defaultTable(t), nil)
	assert.ErrorIs(t, err, ports.ErrNoWorkspace)
}

func TestTargetFiles(t *testing.T) {
	root := t.TempDir()
	c := writeFile(t, root, "a.br", "")
	s := writeFile(t, root, "a.brs", "")
	txt := writeFile(t, root, "a.txt", "")

	files, err := TargetFiles([]string{c, s, c}, defaultTable(t))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, ports.KindCompiled, files[0].Kind)
	assert.Equal(t, ports.KindSource, files[1].Kind)

	_, err = TargetFiles([]string{txt}, defaultTable(t))
	assert.Error(t, err)
	_, err = TargetFiles([]string{filepath.Join(root, "missing.br")}, defaultTable(t))
	assert.Error(t, err)
	_, err = TargetFiles([]string{root}, defaultTable(t))
	assert.Error(t, err)
}
