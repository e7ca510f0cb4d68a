package store

import (
	"github.com/bkaradag/revtree/internal/model"
)

// Typed helpers: thin serialize/hash/store and fetch/decode wrappers
// around WriteRecord and ReadRecord, one pair per record kind.

// WriteNode persists a node record and returns its id.
func (s *Store) WriteNode(n *model.Node) (string, error) {
	return s.WriteRecord(model.SerializeNode(n))
}

// ReadNode fetches and decodes the node record stored under id.
func (s *Store) ReadNode(id string) (*model.Node, error) {
	data, err := s.ReadRecord(id)
	if err != nil {
		return nil, err
	}
	return model.DeserializeNode(data)
}

// WriteCommit persists a commit record and returns its id.
func (s *Store) WriteCommit(c *model.Commit) (string, error) {
	return s.WriteRecord(model.SerializeCommit(c))
}

// ReadCommit fetches and decodes the commit record stored under id.
func (s *Store) ReadCommit(id string) (*model.Commit, error) {
	data, err := s.ReadRecord(id)
	if err != nil {
		return nil, err
	}
	return model.DeserializeCommit(data)
}

// WriteChildMap persists a child map record and returns its id.
func (s *Store) WriteChildMap(m *model.ChildMap) (string, error) {
	return s.WriteRecord(model.SerializeChildMap(m))
}

// ReadChildMap fetches and decodes the child map record stored under id.
func (s *Store) ReadChildMap(id string) (*model.ChildMap, error) {
	data, err := s.ReadRecord(id)
	if err != nil {
		return nil, err
	}
	return model.DeserializeChildMap(data)
}
