package index

// Search returns the value stored under key.
// Returns ErrKeyNotFound if the key is absent.
func (t *Tree) Search(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	lf := t.findLeaf(key)
	pos, found := lf.find(key)
	if !found {
		return "", ErrKeyNotFound
	}
	return lf.values[pos], nil
}

// Contains reports whether key is present.
func (t *Tree) Contains(key string) bool {
	_, err := t.Search(key)
	return err == nil
}

// findLeaf descends from the root to the leaf that should contain key.
func (t *Tree) findLeaf(key string) *leaf {
	pg := t.root
	for {
		n, ok := pg.(*node)
		if !ok {
			return pg.(*leaf)
		}
		pg = n.children[n.childIndex(key)]
	}
}

// Ascend returns an iterator over all entries with start <= key <= end
// in key order. An empty start begins at the first key; an empty end
// runs to the last.
func (t *Tree) Ascend(start, end string) *Iterator {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var lf *leaf
	pos := 0
	if start == "" {
		lf = t.root.firstLeaf()
	} else {
		lf = t.findLeaf(start)
		pos, _ = lf.find(start)
	}
	return &Iterator{cur: lf, pos: pos, end: end, bounded: end != ""}
}
