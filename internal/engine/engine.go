package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bkaradag/revtree/internal/index"
	"github.com/bkaradag/revtree/internal/logging"
	"github.com/bkaradag/revtree/internal/model"
	"github.com/bkaradag/revtree/internal/store"
)

// Engine errors.
var (
	ErrClosed = errors.New("engine is closed")
)

// Options configures an engine.
type Options struct {
	// TreeName is the index root path in the document tree.
	TreeName string

	// Order is the maximum number of keys per index page.
	Order int

	// InMemory backs the store with an in-memory engine instead of dir.
	InMemory bool

	// Logger receives engine events. Defaults to a no-op logger.
	Logger logging.Logger
}

// Engine is a revision-tracked document store: a B-tree index whose
// every flush becomes one content-addressed revision.
type Engine struct {
	store *store.Store
	tree  *index.Tree
	log   logging.Logger

	// pages mirrors the committed document tree, absolute path to page
	// payload. Replaced wholesale on every successful commit.
	pages map[string]index.PageData
	head  string

	treeName string
	closed   bool
	mu       sync.Mutex
}

// Open opens or creates a document store at dir.
func Open(dir string, opts Options) (*Engine, error) {
	if opts.TreeName == "" {
		opts.TreeName = "index"
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	var backend store.Backend
	var err error
	if opts.InMemory {
		backend, err = store.OpenPebbleMem()
	} else {
		backend, err = store.OpenPebble(dir)
	}
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:    store.New(backend),
		log:      opts.Logger,
		pages:    make(map[string]index.PageData),
		treeName: opts.TreeName,
	}

	head, err := e.store.ReadHead()
	if err != nil {
		e.store.Close()
		return nil, err
	}

	if head == "" {
		// Fresh store: bootstrapping the tree writes the first revision.
		e.tree, err = index.New(opts.TreeName, opts.Order, (*committer)(e))
		if err != nil {
			e.store.Close()
			return nil, err
		}
		e.log.Info("store initialized", "head", e.head)
		return e, nil
	}

	e.head = head
	if err := e.loadRevision(head); err != nil {
		e.store.Close()
		return nil, err
	}
	e.tree, err = index.Load(opts.TreeName, opts.Order, (*committer)(e), e.relPages())
	if err != nil {
		e.store.Close()
		return nil, err
	}
	e.log.Info("store opened", "head", head, "pages", len(e.pages))
	return e, nil
}

// loadRevision rebuilds the page set of the given commit.
func (e *Engine) loadRevision(commitID string) error {
	c, err := e.store.ReadCommit(commitID)
	if err != nil {
		return fmt.Errorf("load head %s: %w", commitID, err)
	}
	cm, err := e.store.ReadChildMap(c.Root)
	if err != nil {
		return fmt.Errorf("load child map %s: %w", c.Root, err)
	}
	for _, entry := range cm.Entries {
		n, err := e.store.ReadNode(entry.ID)
		if err != nil {
			return fmt.Errorf("load page %q: %w", entry.Name, err)
		}
		e.pages[entry.Name] = index.PageData{
			Keys:   n.Get("keys"),
			Values: n.Get("values"),
		}
	}
	return nil
}

// relPages returns the page set keyed by path relative to the tree root.
func (e *Engine) relPages() map[string]index.PageData {
	rel := make(map[string]index.PageData, len(e.pages))
	for path, pd := range e.pages {
		rel[e.relPath(path)] = pd
	}
	return rel
}

func (e *Engine) relPath(abs string) string {
	if abs == e.treeName {
		return ""
	}
	return strings.TrimPrefix(abs, e.treeName+"/")
}

// committer receives flushed journal batches from the tree. It runs
// under the engine's lock by construction: every tree mutation enters
// through an engine method that already holds it.
type committer Engine

// Commit turns one journal batch into one revision: records first, head
// last. A failure leaves the previous revision fully intact.
func (c *committer) Commit(ops []index.Op) error {
	e := (*Engine)(c)

	next := make(map[string]index.PageData, len(e.pages))
	for path, pd := range e.pages {
		next[path] = pd
	}
	for _, op := range ops {
		switch op.Kind {
		case index.OpCreate:
			next[op.Path] = index.PageData{Keys: op.Keys, Values: op.Values}
		case index.OpSetArray:
			pd := next[op.Path]
			switch op.Name {
			case "keys":
				pd.Keys = op.Values
			case "values":
				pd.Values = op.Values
			}
			next[op.Path] = pd
		case index.OpRemove:
			delete(next, op.Path)
		}
	}

	paths := make([]string, 0, len(next))
	for path := range next {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	cm := &model.ChildMap{}
	for _, path := range paths {
		pd := next[path]
		n := &model.Node{}
		n.Set("keys", pd.Keys)
		n.Set("values", pd.Values)
		id, err := e.store.WriteNode(n)
		if err != nil {
			return err
		}
		cm.Entries = append(cm.Entries, model.ChildEntry{Name: path, ID: id})
	}

	rootID, err := e.store.WriteChildMap(cm)
	if err != nil {
		return err
	}

	commitID, err := e.store.WriteCommit(&model.Commit{
		Parent:  e.head,
		Root:    rootID,
		Message: fmt.Sprintf("journal flush: %d ops", len(ops)),
		Diff:    index.EncodeOps(ops),
		Time:    time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	if err := e.store.WriteHead(commitID); err != nil {
		return err
	}

	e.pages = next
	e.head = commitID
	e.log.Debug("revision committed", "id", commitID, "ops", len(ops))
	return nil
}

// Insert adds a key. Inserting an existing key fails with
// index.ErrKeyExists.
func (e *Engine) Insert(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.tree.Insert(key, value)
}

// Update replaces the value of an existing key.
func (e *Engine) Update(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.tree.Update(key, value)
}

// Put inserts key or, when it already exists, updates it in place.
func (e *Engine) Put(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	err := e.tree.Insert(key, value)
	if errors.Is(err, index.ErrKeyExists) {
		return e.tree.Update(key, value)
	}
	return err
}

// Get returns the value stored under key.
func (e *Engine) Get(key string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrClosed
	}
	return e.tree.Search(key)
}

// Delete removes key from the index.
func (e *Engine) Delete(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.tree.Delete(key)
}

// Scan returns all entries with start <= key <= end in key order.
// Empty bounds are open.
func (e *Engine) Scan(start, end string) ([][2]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	var out [][2]string
	it := e.tree.Ascend(start, end)
	for {
		k, v, ok := it.Next()
		if !ok {
			return out, nil
		}
		out = append(out, [2]string{k, v})
	}
}

// Head returns the id of the current revision.
func (e *Engine) Head() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.head
}

// Revision is one entry of the commit history.
type Revision struct {
	ID      string
	Parent  string
	Message string
	Time    time.Time
}

// History walks the commit chain from head, newest first, returning at
// most limit revisions (all of them when limit <= 0).
func (e *Engine) History(limit int) ([]Revision, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	var out []Revision
	for id := e.head; id != ""; {
		c, err := e.store.ReadCommit(id)
		if err != nil {
			return nil, err
		}
		out = append(out, Revision{
			ID:      id,
			Parent:  c.Parent,
			Message: c.Message,
			Time:    time.UnixMilli(c.Time),
		})
		if limit > 0 && len(out) >= limit {
			return out, nil
		}
		id = c.Parent
	}
	return out, nil
}

// Stats reports the live index shape.
func (e *Engine) Stats() index.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.TreeStats()
}

// Close releases the backing store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.store.Close()
}
