// Package index implements the B-tree secondary index of the revtree
// document store.
//
// # Overview
//
// Index pages are not stored in a dedicated page file. Each page is a node
// of the hierarchical document tree, addressed by the concatenation of the
// index name and the page's ancestor names. Every structural mutation is
// buffered as a journal operation and flushed as one atomic batch per
// logical tree operation:
//
//   - O(log n) lookup, insertion, and deletion
//   - page splits and borrow/merge rebalancing on underflow
//   - an append-only operation log (create, rewrite, remove) handed to a
//     Committer as a single diff
//
// # Page Structure
//
// A page holds a strictly sorted key array and a parallel value array:
//
//   - Leaf pages: values[i] is the value stored under keys[i]
//   - Interior pages: values are child page names, one more than the
//     number of separator keys
//
// # Usage
//
// Create and use a tree:
//
//	tree, err := index.New("idx", 4, committer)
//
//	// Insert key-value pair
//	err = tree.Insert("uid=alice", "n1")
//
//	// Search for key
//	value, err := tree.Search("uid=alice")
//
//	// Range scan
//	it := tree.Ascend("uid=a", "uid=z")
//	for {
//	    key, value, ok := it.Next()
//	    if !ok {
//	        break
//	    }
//	}
//
// The tree serializes structural mutations internally; concurrent readers
// are safe against a non-mutating tree.
package index
