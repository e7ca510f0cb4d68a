package index

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Tree errors.
var (
	ErrEmptyKey     = errors.New("key cannot be empty")
	ErrKeyNotFound  = errors.New("key not found")
	ErrKeyExists    = errors.New("key already exists")
	ErrNilCommitter = errors.New("nil committer")
	ErrCorrupted    = errors.New("corrupted index page")
)

// Tree is a B-tree whose pages live as nodes of the document tree under
// the tree's name. All structural mutations are buffered as journal
// operations and flushed through the Committer as one atomic batch per
// logical operation.
//
// Structural mutations are serialized by an internal lock; read-only
// searches may run concurrently against a non-mutating tree.
type Tree struct {
	name      string
	root      treePage
	order     int
	committer Committer

	// Per-transaction journal state. Cleared on every flush, whether it
	// succeeds or fails; a failed flush discards the whole batch.
	pending     Log
	dirtyList   []treePage
	dirtySet    map[*page]bool
	createdList []treePage
	createdSet  map[*page]bool
	origins     map[*page]string
	originList  []*page
	dead        map[*page]bool

	nameSeq int
	mu      sync.RWMutex
}

// DefaultOrder is the maximum number of keys per page when the caller
// passes no explicit order.
const DefaultOrder = 128

// New creates an empty tree rooted at name and commits its bootstrap
// page through the committer.
func New(name string, order int, c Committer) (*Tree, error) {
	if c == nil {
		return nil, ErrNilCommitter
	}
	if order <= 0 {
		order = DefaultOrder
	}

	t := newTree(name, order, c)
	root := &leaf{page{tree: t, name: ""}}
	t.root = root
	t.created(root)
	if err := t.flushLocked(); err != nil {
		return nil, err
	}
	return t, nil
}

// PageData is the persisted payload of one page, as stored in the
// document tree.
type PageData struct {
	Keys   []string
	Values []string
}

// Load rebuilds a tree from persisted pages keyed by path relative to
// the tree root. A page whose value array holds exactly one more entry
// than its key array is an interior page; its values name its children.
func Load(name string, order int, c Committer, pages map[string]PageData) (*Tree, error) {
	if c == nil {
		return nil, ErrNilCommitter
	}
	if order <= 0 {
		order = DefaultOrder
	}

	t := newTree(name, order, c)
	root, err := t.loadPage(pages, nil, "", "")
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func newTree(name string, order int, c Committer) *Tree {
	return &Tree{
		name:       name,
		order:      order,
		committer:  c,
		dirtySet:   make(map[*page]bool),
		createdSet: make(map[*page]bool),
		origins:    make(map[*page]string),
		dead:       make(map[*page]bool),
	}
}

// loadPage materializes the page at relPath and, recursively, everything
// below it.
func (t *Tree) loadPage(pages map[string]PageData, parent *node, relPath, name string) (treePage, error) {
	data, ok := pages[relPath]
	if !ok {
		return nil, fmt.Errorf("%w: missing page %q", ErrCorrupted, relPath)
	}
	if !sort.StringsAreSorted(data.Keys) {
		return nil, fmt.Errorf("%w: keys out of order at %q", ErrCorrupted, relPath)
	}
	for i := 1; i < len(data.Keys); i++ {
		if data.Keys[i] == data.Keys[i-1] {
			return nil, fmt.Errorf("%w: duplicate key %q at %q", ErrCorrupted, data.Keys[i], relPath)
		}
	}

	if n, err := strconv.Atoi(name); err == nil && n > t.nameSeq {
		t.nameSeq = n
	}

	base := page{
		tree:   t,
		parent: parent,
		name:   name,
		keys:   append([]string(nil), data.Keys...),
		values: append([]string(nil), data.Values...),
	}

	if len(data.Values) == len(data.Keys)+1 {
		nd := &node{page: base}
		for _, childName := range data.Values {
			child, err := t.loadPage(pages, nd, concatPath(relPath, childName), childName)
			if err != nil {
				return nil, err
			}
			nd.children = append(nd.children, child)
		}
		return nd, nil
	}

	if len(data.Values) != len(data.Keys) {
		return nil, fmt.Errorf("%w: %d keys but %d values at %q",
			ErrCorrupted, len(data.Keys), len(data.Values), relPath)
	}
	return &leaf{base}, nil
}

// Name returns the tree's root path in the document tree.
func (t *Tree) Name() string { return t.name }

// Order returns the maximum number of keys per page.
func (t *Tree) Order() int { return t.order }

// nextName hands out a fresh page name.
func (t *Tree) nextName() string {
	t.nameSeq++
	return strconv.Itoa(t.nameSeq)
}

// modified registers pg for inclusion in the next journal flush.
// Marking an already-dirty page again has no extra effect.
func (t *Tree) modified(pg treePage) {
	b := pg.base()
	if t.dirtySet[b] {
		return
	}
	t.dirtySet[b] = true
	t.dirtyList = append(t.dirtyList, pg)
}

// created registers pg as new in this transaction; its flush entry is a
// create, never a rewrite.
func (t *Tree) created(pg treePage) {
	b := pg.base()
	if t.createdSet[b] {
		return
	}
	t.createdSet[b] = true
	t.createdList = append(t.createdList, pg)
}

// reparent moves pg under newParent as newName, remembering the path the
// page and its descendants vacate so the flush can retire stale paths.
func (t *Tree) reparent(pg treePage, newParent *node, newName string) {
	b := pg.base()
	if b.parent == newParent && b.name == newName {
		return
	}
	t.noteOrigin(pg)
	b.parent = newParent
	b.name = newName
	t.touchSubtree(pg)
}

// noteOrigin records the pre-transaction path of pg and every page below
// it. Pages created in this same transaction never had a stored path.
func (t *Tree) noteOrigin(pg treePage) {
	b := pg.base()
	if !t.createdSet[b] {
		if _, ok := t.origins[b]; !ok {
			t.origins[b] = b.absPath()
			t.originList = append(t.originList, b)
		}
	}
	if n, ok := pg.(*node); ok {
		for _, c := range n.children {
			t.noteOrigin(c)
		}
	}
}

// touchSubtree marks pg and every page below it dirty; their paths all
// changed with the move.
func (t *Tree) touchSubtree(pg treePage) {
	t.modified(pg)
	if n, ok := pg.(*node); ok {
		for _, c := range n.children {
			t.touchSubtree(c)
		}
	}
}

// removePage retires a page merged or collapsed away. Its presence in
// the journal history is permanent; only the live tree forgets it.
func (t *Tree) removePage(pg treePage) {
	t.noteOrigin(pg)
	t.dead[pg.base()] = true
}

// buffer appends one raw operation to the pending journal.
func (t *Tree) buffer(op Op) {
	t.pending.Append(op)
}

// bufferSetArray appends a journal entry rewriting one array property.
func (t *Tree) bufferSetArray(path, property string, array []string) {
	t.buffer(Op{
		Kind:   OpSetArray,
		Path:   path,
		Name:   property,
		Values: append([]string(nil), array...),
	})
}

// Flush submits any pending journal entries as one atomic batch.
// Mutating operations flush themselves; Flush exists for callers that
// need an explicit commit boundary and is a no-op on a clean tree.
func (t *Tree) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

// flushLocked serializes the transaction's page changes into the journal
// and hands the batch to the committer. The batch is cleared whether the
// commit succeeds or fails; on failure the caller must retry the whole
// logical operation.
func (t *Tree) flushLocked() error {
	if len(t.createdList) == 0 && len(t.dirtyList) == 0 && len(t.originList) == 0 {
		return nil
	}

	for _, pg := range t.createdList {
		if !t.dead[pg.base()] {
			pg.writeCreate()
		}
	}
	for _, pg := range t.dirtyList {
		b := pg.base()
		if !t.dead[b] && !t.createdSet[b] {
			pg.writeData()
		}
	}

	live := make(map[string]bool)
	t.collectLivePaths(t.root, live)
	for _, b := range t.originList {
		path := t.origins[b]
		if !live[path] {
			t.buffer(Op{Kind: OpRemove, Path: path})
		}
	}

	ops := t.pending.Ops
	t.resetPending()
	return t.committer.Commit(ops)
}

func (t *Tree) collectLivePaths(pg treePage, live map[string]bool) {
	live[pg.base().absPath()] = true
	if n, ok := pg.(*node); ok {
		for _, c := range n.children {
			t.collectLivePaths(c, live)
		}
	}
}

func (t *Tree) resetPending() {
	t.pending = Log{}
	t.dirtyList = nil
	t.dirtySet = make(map[*page]bool)
	t.createdList = nil
	t.createdSet = make(map[*page]bool)
	t.origins = make(map[*page]string)
	t.originList = nil
	t.dead = make(map[*page]bool)
}

// Stats holds statistics about the tree.
type Stats struct {
	Height        int
	LeafPages     int
	InteriorPages int
	Keys          int
}

// TreeStats reports the tree's height and page population.
func (t *Tree) TreeStats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Stats{Height: 1}
	for pg := t.root; ; {
		n, ok := pg.(*node)
		if !ok {
			break
		}
		s.Height++
		pg = n.children[0]
	}
	t.countPages(t.root, &s)
	return s
}

func (t *Tree) countPages(pg treePage, s *Stats) {
	if n, ok := pg.(*node); ok {
		s.InteriorPages++
		for _, c := range n.children {
			t.countPages(c, s)
		}
		return
	}
	s.LeafPages++
	s.Keys += len(pg.base().keys)
}
