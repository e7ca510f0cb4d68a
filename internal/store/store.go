package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Store errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

// Backend is the byte-blob table the store persists through.
// Implementations must keep PutIfAbsent atomic with respect to
// concurrent writers of the same key.
type Backend interface {
	// PutIfAbsent inserts value under key unless the key already exists.
	// Inserting an existing key is a silent no-op.
	PutIfAbsent(key, value []byte) error

	// Get returns the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// GetHead returns the head cell, "" when unset.
	GetHead() (string, error)

	// SetHead overwrites the head cell.
	SetHead(id string) error

	Close() error
}

// Store is a content-addressable record store. Record ids are the
// hex-encoded SHA-256 of the record bytes, so identical content is
// stored exactly once and addressed deterministically.
type Store struct {
	backend Backend
}

// New wraps a backend in a store.
func New(b Backend) *Store {
	return &Store{backend: b}
}

// Close releases the backing engine.
func (s *Store) Close() error {
	return s.backend.Close()
}

// WriteRecord persists bytes under the hash of their content and
// returns the record id, whether or not the record was already present.
func (s *Store) WriteRecord(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	if err := s.backend.PutIfAbsent(sum[:], data); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// ReadRecord returns the bytes stored under id.
// Returns ErrNotFound if no record with that id exists.
func (s *Store) ReadRecord(id string) ([]byte, error) {
	key, err := hex.DecodeString(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return s.backend.Get(key)
}

// ReadHead returns the id of the current revision, "" on a fresh store.
func (s *Store) ReadHead() (string, error) {
	return s.backend.GetHead()
}

// WriteHead advances the head pointer. The head cell is the only
// in-place mutation the store performs; callers must have written every
// record the new revision references first.
func (s *Store) WriteHead(id string) error {
	return s.backend.SetHead(id)
}
