package model

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Record kind tags.
const (
	kindNode     = 'N'
	kindCommit   = 'C'
	kindChildMap = 'M'

	codecVersion = 1
)

// ErrCorruptRecord reports a record that does not decode under its
// codec: wrong kind tag, unknown version, or truncated data.
var ErrCorruptRecord = errors.New("corrupt record")

// SerializeNode encodes a node record.
func SerializeNode(n *Node) []byte {
	buf := []byte{kindNode, codecVersion}
	buf = appendUint32(buf, uint32(len(n.Properties)))
	for _, p := range n.Properties {
		buf = appendString(buf, p.Name)
		buf = appendStrings(buf, p.Values)
	}
	return buf
}

// DeserializeNode decodes a node record.
func DeserializeNode(data []byte) (*Node, error) {
	r, err := newReader(data, kindNode)
	if err != nil {
		return nil, err
	}
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	n := &Node{}
	for i := uint32(0); i < count; i++ {
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		values, err := r.strings()
		if err != nil {
			return nil, err
		}
		n.Properties = append(n.Properties, Property{Name: name, Values: values})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return n, nil
}

// SerializeCommit encodes a commit record.
func SerializeCommit(c *Commit) []byte {
	buf := []byte{kindCommit, codecVersion}
	buf = appendString(buf, c.Parent)
	buf = appendString(buf, c.Root)
	buf = appendString(buf, c.Message)
	buf = appendString(buf, c.Diff)
	buf = binary.BigEndian.AppendUint64(buf, uint64(c.Time))
	return buf
}

// DeserializeCommit decodes a commit record.
func DeserializeCommit(data []byte) (*Commit, error) {
	r, err := newReader(data, kindCommit)
	if err != nil {
		return nil, err
	}
	c := &Commit{}
	if c.Parent, err = r.string(); err != nil {
		return nil, err
	}
	if c.Root, err = r.string(); err != nil {
		return nil, err
	}
	if c.Message, err = r.string(); err != nil {
		return nil, err
	}
	if c.Diff, err = r.string(); err != nil {
		return nil, err
	}
	t, err := r.uint64()
	if err != nil {
		return nil, err
	}
	c.Time = int64(t)
	if err := r.done(); err != nil {
		return nil, err
	}
	return c, nil
}

// SerializeChildMap encodes a child map record.
func SerializeChildMap(m *ChildMap) []byte {
	buf := []byte{kindChildMap, codecVersion}
	buf = appendUint32(buf, uint32(len(m.Entries)))
	for _, e := range m.Entries {
		buf = appendString(buf, e.Name)
		buf = appendString(buf, e.ID)
	}
	return buf
}

// DeserializeChildMap decodes a child map record.
func DeserializeChildMap(data []byte) (*ChildMap, error) {
	r, err := newReader(data, kindChildMap)
	if err != nil {
		return nil, err
	}
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	m := &ChildMap{}
	for i := uint32(0); i < count; i++ {
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		id, err := r.string()
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, ChildEntry{Name: name, ID: id})
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return m, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, v)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendStrings(buf []byte, a []string) []byte {
	buf = appendUint32(buf, uint32(len(a)))
	for _, s := range a {
		buf = appendString(buf, s)
	}
	return buf
}

// reader decodes length-prefixed fields with bounds checking.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte, kind byte) (*reader, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d byte header", ErrCorruptRecord, len(data))
	}
	if data[0] != kind {
		return nil, fmt.Errorf("%w: kind %q, want %q", ErrCorruptRecord, data[0], kind)
	}
	if data[1] != codecVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptRecord, data[1])
	}
	return &reader{data: data, off: 2}, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, fmt.Errorf("%w: truncated", ErrCorruptRecord)
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if r.off+8 > len(r.data) {
		return 0, fmt.Errorf("%w: truncated", ErrCorruptRecord)
	}
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) string() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	if r.off+int(n) > len(r.data) {
		return "", fmt.Errorf("%w: truncated string", ErrCorruptRecord)
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *reader) strings() ([]string, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	var a []string
	for i := uint32(0); i < n; i++ {
		s, err := r.string()
		if err != nil {
			return nil, err
		}
		a = append(a, s)
	}
	return a, nil
}

func (r *reader) done() error {
	if r.off != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorruptRecord, len(r.data)-r.off)
	}
	return nil
}
