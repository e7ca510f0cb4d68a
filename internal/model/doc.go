// Package model defines the typed records persisted by the revtree
// content-addressable store and their binary codecs.
//
// # Record Kinds
//
// Three record kinds exist, each with its own codec:
//
//   - Node: a document node with named multi-valued properties
//   - Commit: one revision, pointing at its parent commit and root child map
//   - ChildMap: the name-to-record-id map of one revision
//
// # Encoding
//
// Records serialize to a compact binary form: a one-byte kind tag, a
// format version byte, then big-endian length-prefixed fields. Every
// codec round-trips exactly: Deserialize(Serialize(x)) == x. A record
// decodes only under the codec that encoded it; a kind mismatch or a
// truncated buffer surfaces ErrCorruptRecord.
package model
