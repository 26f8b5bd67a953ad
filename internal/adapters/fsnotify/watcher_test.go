package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, roots ...string) (*Watcher, <-chan string) {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 16)
	require.NoError(t, w.Watch(roots, func(path string) {
		changed <- path
	}))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsRecompiledProgram(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "invoice.br")
	require.NoError(t, os.WriteFile(prog, []byte("v1"), 0644))

	_, changed := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(prog, []byte("v2"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for rewritten program")
	assert.Equal(t, prog, path)
}

func TestWatcher_DetectsNewFileInNewDirectory(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	sub := filepath.Join(dir, "gl")
	require.NoError(t, os.MkdirAll(sub, 0755))
	time.Sleep(100 * time.Millisecond)

	prog := filepath.Join(sub, "post.wb")
	require.NoError(t, os.WriteFile(prog, []byte("x"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file in a directory created after Watch")
	assert.Equal(t, prog, path)
}

func TestWatcher_MultipleRoots(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	_, changed := startWatcher(t, a, b)

	prog := filepath.Join(b, "menu.br")
	require.NoError(t, os.WriteFile(prog, []byte("x"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok)
	assert.Equal(t, prog, path)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "old.br")
	require.NoError(t, os.WriteFile(prog, []byte("x"), 0644))

	_, changed := startWatcher(t, dir)
	require.NoError(t, os.Remove(prog))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, prog, path)
}

func TestWatcher_IgnoresPrivateAndScratchFiles(t *testing.T) {
	dir := t.TempDir()
	private := filepath.Join(dir, ".brkit", "tmp")
	require.NoError(t, os.MkdirAll(private, 0755))
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	_, changed := startWatcher(t, dir)

	os.WriteFile(filepath.Join(private, "searchResult_x_0.txt"), []byte("00010 A"), 0644)
	os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644)
	os.WriteFile(filepath.Join(dir, "menu.brs.swp"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "menu.brs~"), []byte("x"), 0644)

	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for ignored files")

	prog := filepath.Join(dir, "menu.br")
	require.NoError(t, os.WriteFile(prog, []byte("x"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for program file")
	assert.Equal(t, prog, path)
}

func TestWatcher_MissingRoot(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch([]string{filepath.Join(t.TempDir(), "nope")}, func(string) {})
	assert.Error(t, err)
}

func TestWatcher_StopCleanup(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch([]string{dir}, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	// Write file after stop: should NOT trigger callback
	os.WriteFile(filepath.Join(dir, "after_stop.br"), []byte("x"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}
