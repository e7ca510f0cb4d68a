package store

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// Key layout inside the pebble keyspace.
const (
	recordPrefix = 'r'
	headKey      = "h"
)

// PebbleBackend stores records in a Pebble database: record blobs under
// an 'r'-prefixed hash key, the head cell under a dedicated key. Pebble
// handles concurrent readers and writers; the backend's own mutex makes
// the check-and-insert of PutIfAbsent atomic.
type PebbleBackend struct {
	db *pebble.DB
	mu sync.Mutex
}

// OpenPebble opens (or creates) the backing database at dir.
func OpenPebble(dir string) (*PebbleBackend, error) {
	return openPebble(dir, &pebble.Options{})
}

// OpenPebbleMem opens an in-memory backing database, used by tests.
func OpenPebbleMem() (*PebbleBackend, error) {
	return openPebble("", &pebble.Options{FS: vfs.NewMem()})
}

func openPebble(dir string, opts *pebble.Options) (*PebbleBackend, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return &PebbleBackend{db: db}, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (b *PebbleBackend) Close() error {
	return b.db.Close()
}

// PutIfAbsent inserts value under key unless a row with that key
// already exists. The mutex closes the check-then-insert race: of two
// concurrent writers of the same key, at most one physically inserts,
// and both observe success.
func (b *PebbleBackend) PutIfAbsent(key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rk := recordKey(key)
	_, closer, err := b.db.Get(rk)
	if err == nil {
		closer.Close()
		return nil
	}
	if err != pebble.ErrNotFound {
		return fmt.Errorf("store: put: %w", err)
	}
	if err := b.db.Set(rk, value, pebble.Sync); err != nil {
		return fmt.Errorf("store: put: %w", err)
	}
	return nil
}

// Get returns the record stored under key, or ErrNotFound.
func (b *PebbleBackend) Get(key []byte) ([]byte, error) {
	val, closer, err := b.db.Get(recordKey(key))
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get: %w", err)
	}
	// val is only valid until closer.Close(), so we copy it.
	out := make([]byte, len(val))
	copy(out, val)
	closer.Close()
	return out, nil
}

// GetHead returns the head cell, "" when it was never written.
func (b *PebbleBackend) GetHead() (string, error) {
	val, closer, err := b.db.Get([]byte(headKey))
	if err == pebble.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: head: %w", err)
	}
	head := string(val)
	closer.Close()
	return head, nil
}

// SetHead overwrites the head cell.
func (b *PebbleBackend) SetHead(id string) error {
	if err := b.db.Set([]byte(headKey), []byte(id), pebble.Sync); err != nil {
		return fmt.Errorf("store: head: %w", err)
	}
	return nil
}

// recordCount reports the number of physically stored records.
func (b *PebbleBackend) recordCount() (int, error) {
	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{recordPrefix},
		UpperBound: []byte{recordPrefix + 1},
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

func recordKey(key []byte) []byte {
	rk := make([]byte, 0, len(key)+1)
	rk = append(rk, recordPrefix)
	return append(rk, key...)
}
