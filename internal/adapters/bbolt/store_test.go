package bbolt

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/brkit/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestResults creates a realistic result set: two programs, three matches.
func makeTestResults() *ports.ResultSet {
	return &ports.ResultSet{
		ID:    "3f1c",
		Terms: []string{"GOTO", "PRINT"},
		Roots: []string{"/acct"},
		Files: []ports.FileResult{
			{Path: "/acct/ar/invoice.br", Matches: []ports.Match{
				{Path: "/acct/ar/invoice.br", Line: 100, Content: "00100 GOTO 300"},
				{Path: "/acct/ar/invoice.br", Line: 250, Content: `00250 PRINT "TOTAL"`},
			}},
			{Path: "/acct/gl/post.wb", Matches: []ports.Match{
				{Path: "/acct/gl/post.wb", Line: 10, Content: "00010 PRINT #255: X"},
			}},
		},
		Total:     3,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestStore_SaveLoadResults_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	orig := makeTestResults()
	require.NoError(t, store.SaveResults("ws", orig))

	got, err := store.LoadResults("ws")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, orig.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = orig.CreatedAt
	assert.Equal(t, orig, got)
}

func TestStore_LoadResults_Empty(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.LoadResults("fresh")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveResults_Nil(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveResults("ws", nil))
}

func TestStore_ReplaceIsWholesale(t *testing.T) {
	store, _ := newTestStore(t)
	r := store.Results("ws")

	require.NoError(t, r.Replace(makeTestResults()))
	next := &ports.ResultSet{
		ID:    "9a0b",
		Terms: []string{"LET"},
		Files: []ports.FileResult{{Path: "/acct/x.br", Matches: []ports.Match{{Path: "/acct/x.br", Line: 5, Content: "5 LET A=1"}}}},
		Total: 1,
	}
	require.NoError(t, r.Replace(next))

	got, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, "9a0b", got.ID)
	assert.Len(t, got.Files, 1, "previous groups must not be merged in")
	assert.Equal(t, 1, got.Total)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	r := store.Results("ws")

	require.NoError(t, r.Clear(), "clearing a fresh workspace")
	require.NoError(t, r.Replace(makeTestResults()))
	require.NoError(t, r.Clear())
	require.NoError(t, r.Clear())

	got, err := r.Current()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_WorkspaceScoped(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveResults("ws-a", makeTestResults()))

	got, err := store.LoadResults("ws-b")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.ClearResults("ws-b"))
	got, err = store.LoadResults("ws-a")
	require.NoError(t, err)
	assert.NotNil(t, got, "clearing one workspace leaves the other alone")
}

func TestStore_StateSurvivesRestart(t *testing.T) {
	// Save, close, reopen: the committed result set is intact.
	dir := t.TempDir()
	path := filepath.Join(dir, "restart.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveResults("ws", makeTestResults()))
	require.NoError(t, store1.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.LoadResults("ws")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, "/acct/gl/post.wb", got.Files[1].Path)
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveResults("ws", makeTestResults()))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, err := store.LoadResults("ws")
			if err == nil && (rs == nil || rs.Total != 3) {
				err = fmt.Errorf("unexpected result set %+v", rs)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

// =============================================================================
// Lock contention: a second CLI invocation must not hang on the DB lock
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	// First store holds the exclusive lock.
	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveResults("ws", makeTestResults()))
	store1.Close()

	store2, err := NewStore(path)
	require.NoError(t, err, "open after close should succeed")
	defer store2.Close()

	rs, err := store2.LoadResults("ws")
	require.NoError(t, err)
	assert.Len(t, rs.Files, 2)
}

// =============================================================================
// File: the lock is held per call, so other processes are never shut out
// =============================================================================

func TestFile_DoesNotHoldLockBetweenCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	f, err := OpenFile(path, "ws")
	require.NoError(t, err)
	require.NoError(t, f.Replace(makeTestResults()))

	// Another handle, standing in for a second process, opens and writes freely.
	other, err := NewStore(path)
	require.NoError(t, err)
	rs, err := other.LoadResults("ws")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Total)
	require.NoError(t, other.Close())

	require.NoError(t, f.Clear())
	got, err := f.Current()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFile_ReadersShareTheLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	f, err := OpenFile(path, "ws")
	require.NoError(t, err)
	require.NoError(t, f.Replace(makeTestResults()))

	reader, err := NewReadOnlyStore(path)
	require.NoError(t, err)
	defer reader.Close()

	rs, err := f.Current()
	require.NoError(t, err)
	assert.Equal(t, "3f1c", rs.ID)
}

func TestFile_WriteTimesOutWhileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")
	f, err := OpenFile(path, "ws")
	require.NoError(t, err)

	held, err := NewStore(path)
	require.NoError(t, err)
	defer held.Close()

	err = f.Replace(makeTestResults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestFile_MissingDatabaseReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.db")
	f, err := OpenFile(path, "ws")
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	got, err := f.Current()
	require.NoError(t, err)
	assert.Nil(t, got)
}
