package index

import (
	"sort"
)

// page holds the state shared by leaf and interior index pages.
// A page is identified by its name, a single path segment; joining the
// names of its ancestors yields the page's path in the document tree.
type page struct {
	tree   *Tree
	parent *node
	name   string

	// keys is strictly increasing with no duplicates within a page.
	keys []string

	// values parallels keys. For a leaf, values[i] belongs to keys[i].
	// For an interior page, values are the child page names and are
	// refreshed from the live children at serialization time.
	values []string
}

// path returns the page's path relative to the tree root.
func (p *page) path() string {
	if p.parent == nil {
		return p.name
	}
	return concatPath(p.parent.path(), p.name)
}

// absPath returns the page's absolute path in the document tree.
func (p *page) absPath() string {
	return concatPath(p.tree.name, p.path())
}

// find returns the index where key should live and whether it is present.
func (p *page) find(key string) (int, bool) {
	i := sort.SearchStrings(p.keys, key)
	return i, i < len(p.keys) && p.keys[i] == key
}

// leaf is a terminal page holding key/value pairs directly.
type leaf struct {
	page
}

func (l *leaf) base() *page { return &l.page }

// firstLeaf on a leaf is trivially the leaf itself.
func (l *leaf) firstLeaf() *leaf { return l }

// nextLeaf returns the leaf following this one in key order, or nil when
// this is the last leaf of the tree.
func (l *leaf) nextLeaf() *leaf {
	if l.parent == nil {
		return nil
	}
	return l.parent.next(l)
}

// insert places key/value at position pos. The caller guarantees pos is
// the sorted insertion index and key is not already present. The change
// stays in memory until the owning tree flushes.
func (l *leaf) insert(pos int, key, value string) {
	l.tree.modified(l)
	l.keys = arrayInsert(l.keys, pos, key)
	l.values = arrayInsert(l.values, pos, value)
}

// update replaces the value at pos in place.
func (l *leaf) update(pos int, value string) {
	l.tree.modified(l)
	l.values[pos] = value
}

// delete removes the entry at pos. The caller guarantees pos is valid.
func (l *leaf) delete(pos int) {
	l.tree.modified(l)
	l.keys = arrayRemove(l.keys, pos)
	l.values = arrayRemove(l.values, pos)
}

// split divides the leaf at index pos. The original leaf keeps [0, pos)
// and moves under newParent as newName; a new sibling leaf named
// siblingName takes [pos, len). Both journal entries, the rewrite of the
// shrunk original and the create of the sibling, land in the same flush.
func (l *leaf) split(newParent *node, newName string, pos int, siblingName string) *leaf {
	l.tree.reparent(l, newParent, newName)
	sib := &leaf{page{
		tree:   l.tree,
		parent: newParent,
		name:   siblingName,
		keys:   append([]string(nil), l.keys[pos:]...),
		values: append([]string(nil), l.values[pos:]...),
	}}
	l.keys = l.keys[:pos:pos]
	l.values = l.values[:pos:pos]
	l.tree.modified(l)
	l.tree.created(sib)
	return sib
}

// writeData buffers a set-properties entry rewriting the leaf's arrays
// at its current path.
func (l *leaf) writeData() {
	l.tree.bufferSetArray(l.absPath(), "keys", l.keys)
	l.tree.bufferSetArray(l.absPath(), "values", l.values)
}

// writeCreate buffers a create-node entry carrying the leaf's full
// arrays. Used only when the leaf did not previously exist.
func (l *leaf) writeCreate() {
	l.tree.buffer(Op{
		Kind:   OpCreate,
		Path:   l.absPath(),
		Keys:   append([]string(nil), l.keys...),
		Values: append([]string(nil), l.values...),
	})
}

// node is an interior page routing lookups to its children.
// keys[i] is the smallest key reachable under children[i+1], so a node
// always has one more child than it has separator keys.
type node struct {
	page
	children []treePage
}

func (n *node) base() *page { return &n.page }

func (n *node) firstLeaf() *leaf {
	return n.children[0].firstLeaf()
}

// childIndex returns the index of the child that should contain key.
func (n *node) childIndex(key string) int {
	i := sort.SearchStrings(n.keys, key)
	if i < len(n.keys) && n.keys[i] == key {
		return i + 1
	}
	return i
}

// indexOf returns the position of child among the node's children, or -1.
func (n *node) indexOf(child treePage) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// next returns the leaf immediately following child in key order,
// ascending to the node's own parent when child is its last one.
func (n *node) next(child treePage) *leaf {
	idx := n.indexOf(child)
	if idx >= 0 && idx < len(n.children)-1 {
		return n.children[idx+1].firstLeaf()
	}
	if n.parent == nil {
		return nil
	}
	return n.parent.next(n)
}

// insertChildAt wires child in at position ci with sep as the separator
// between it and its left neighbor.
func (n *node) insertChildAt(ci int, sep string, child treePage) {
	n.tree.modified(n)
	n.keys = arrayInsert(n.keys, ci-1, sep)
	n.children = append(n.children, nil)
	copy(n.children[ci+1:], n.children[ci:])
	n.children[ci] = child
}

// removeChildAt drops the child at position ci together with the
// separator to its left.
func (n *node) removeChildAt(ci int) {
	n.tree.modified(n)
	n.keys = arrayRemove(n.keys, ci-1)
	n.children = append(n.children[:ci], n.children[ci+1:]...)
}

// split divides the interior page at separator index pos. The separator
// itself moves up to the parent; the original keeps [0, pos) and the new
// sibling takes (pos, len) with the matching children.
func (n *node) split(newParent *node, newName string, pos int, siblingName string) *node {
	n.tree.reparent(n, newParent, newName)
	sib := &node{
		page: page{
			tree:   n.tree,
			parent: newParent,
			name:   siblingName,
			keys:   append([]string(nil), n.keys[pos+1:]...),
		},
		children: append([]treePage(nil), n.children[pos+1:]...),
	}
	n.keys = n.keys[:pos:pos]
	n.children = n.children[:pos+1:pos+1]
	n.tree.modified(n)
	n.tree.created(sib)
	for _, c := range sib.children {
		n.tree.reparent(c, sib, c.base().name)
	}
	return sib
}

// refreshValues rebuilds the node's value array from its live children.
func (n *node) refreshValues() {
	n.values = n.values[:0]
	for _, c := range n.children {
		n.values = append(n.values, c.base().name)
	}
}

func (n *node) writeData() {
	n.refreshValues()
	n.tree.bufferSetArray(n.absPath(), "keys", n.keys)
	n.tree.bufferSetArray(n.absPath(), "values", n.values)
}

func (n *node) writeCreate() {
	n.refreshValues()
	n.tree.buffer(Op{
		Kind:   OpCreate,
		Path:   n.absPath(),
		Keys:   append([]string(nil), n.keys...),
		Values: append([]string(nil), n.values...),
	})
}

// treePage is either a leaf or an interior node.
type treePage interface {
	base() *page
	firstLeaf() *leaf
	writeData()
	writeCreate()
}

// concatPath joins two path fragments, tolerating empty fragments.
func concatPath(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "/" + b
}

// arrayInsert returns a with s inserted at pos.
func arrayInsert(a []string, pos int, s string) []string {
	a = append(a, "")
	copy(a[pos+1:], a[pos:])
	a[pos] = s
	return a
}

// arrayRemove returns a with the element at pos removed.
func arrayRemove(a []string, pos int) []string {
	return append(a[:pos], a[pos+1:]...)
}
