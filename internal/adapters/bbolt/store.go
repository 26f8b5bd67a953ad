// Package bbolt implements the ports.ResultStore interface using bbolt (embedded B+ tree).
// Each workspace gets its own top-level bucket. Within that bucket, the "results"
// sub-bucket holds the JSON-serialized current result set. Writes are
// transactional; a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/corey/brkit/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketResults = []byte("results")
	keyCurrent    = []byte("current")
)

// Store wraps the bbolt database file.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	return open(path, false)
}

// NewReadOnlyStore opens an existing database under a shared lock. Any number
// of read-only stores may be open at once; a writer blocks them all.
func NewReadOnlyStore(path string) (*Store, error) {
	return open(path, true)
}

func open(path string, readOnly bool) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResults replaces the current result set of a workspace.
func (s *Store) SaveResults(workspaceID string, rs *ports.ResultSet) error {
	if rs == nil {
		return fmt.Errorf("nil result set")
	}

	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		ws, err := tx.CreateBucketIfNotExists([]byte(workspaceID))
		if err != nil {
			return err
		}
		rb, err := ws.CreateBucketIfNotExists(bucketResults)
		if err != nil {
			return err
		}
		return rb.Put(keyCurrent, data)
	})
}

// LoadResults retrieves the current result set of a workspace.
// Returns nil, nil if none is stored.
func (s *Store) LoadResults(workspaceID string) (*ports.ResultSet, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		ws := tx.Bucket([]byte(workspaceID))
		if ws == nil {
			return nil
		}
		rb := ws.Bucket(bucketResults)
		if rb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := rb.Get(keyCurrent); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var rs ports.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return &rs, nil
}

// ClearResults drops the current result set of a workspace.
// Idempotent: clearing an empty workspace is not an error.
func (s *Store) ClearResults(workspaceID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		ws := tx.Bucket([]byte(workspaceID))
		if ws == nil {
			return nil
		}
		if err := ws.DeleteBucket(bucketResults); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Results is a ports.ResultStore bound to one workspace.
type Results struct {
	store       *Store
	workspaceID string
}

// Results binds the store to a workspace.
func (s *Store) Results(workspaceID string) *Results {
	return &Results{store: s, workspaceID: workspaceID}
}

// Replace implements ports.ResultStore.
func (r *Results) Replace(rs *ports.ResultSet) error {
	return r.store.SaveResults(r.workspaceID, rs)
}

// Current implements ports.ResultStore.
func (r *Results) Current() (*ports.ResultSet, error) {
	return r.store.LoadResults(r.workspaceID)
}

// Clear implements ports.ResultStore.
func (r *Results) Clear() error {
	return r.store.ClearResults(r.workspaceID)
}

var _ ports.ResultStore = (*Results)(nil)

// File is a ports.ResultStore bound to one workspace that opens the database
// only for the duration of each call. The file lock is held for one
// transaction, never for the lifetime of the caller.
type File struct {
	mu          sync.Mutex // bbolt's flock also excludes handles within one process
	path        string
	workspaceID string
}

// OpenFile creates the database at path if needed and binds it to a workspace.
func OpenFile(path, workspaceID string) (*File, error) {
	s, err := NewStore(path)
	if err != nil {
		return nil, err
	}
	if err := s.Close(); err != nil {
		return nil, err
	}
	return &File{path: path, workspaceID: workspaceID}, nil
}

func (f *File) update(fn func(*Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := NewStore(f.path)
	if err != nil {
		return err
	}
	err = fn(s)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

// Replace implements ports.ResultStore.
func (f *File) Replace(rs *ports.ResultSet) error {
	return f.update(func(s *Store) error { return s.SaveResults(f.workspaceID, rs) })
}

// Clear implements ports.ResultStore.
func (f *File) Clear() error {
	return f.update(func(s *Store) error { return s.ClearResults(f.workspaceID) })
}

// Current implements ports.ResultStore. A missing database file reads as empty.
func (f *File) Current() (*ports.ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := NewReadOnlyStore(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.LoadResults(f.workspaceID)
}

var _ ports.ResultStore = (*File)(nil)
