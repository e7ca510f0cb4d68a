// Package engine wires the B-tree index and the content-addressable
// store into a revision-tracked document store.
//
// # Commit Path
//
// Every logical index operation flushes its journal batch into the
// engine, which turns the batch into one revision:
//
//  1. apply the batch to the current page set
//  2. write every changed page as a deduplicated node record
//  3. write the revision's child map record
//  4. write the commit record carrying the encoded diff
//  5. advance the head pointer
//
// Records are written strictly before head moves, so a reader following
// head never dereferences a missing record. Reopening an engine rebuilds
// the live tree from the head revision.
package engine
