// Package store provides the content-addressable record store of
// revtree.
//
// # Overview
//
// Records are opaque byte blobs keyed by the hex-encoded SHA-256 of
// their own bytes. Identical payloads collapse to a single stored copy:
// the write path is an atomic insert-if-absent, so two concurrent
// writers of the same content both succeed while at most one physically
// inserts. Records are immutable once written and never deleted.
//
// The only mutable cell is the head pointer, which names the record id
// of the current revision. Callers must persist every record a revision
// references before advancing head; the store does not guard against
// dangling references.
//
// # Backend
//
// The store reads and writes through the Backend contract: a keyed
// byte-blob table with insert-if-absent and a single-row head cell. The
// production backend is Pebble, CockroachDB's LSM storage engine.
package store
