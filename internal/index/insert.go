package index

// Insert adds a key-value pair and commits it as one journal batch.
// Inserting a key that is already present fails with ErrKeyExists;
// replacing an existing value is an explicit Update, never an implicit
// overwrite.
//
// Algorithm:
//  1. Descend to the leaf that should contain the key
//  2. Insert the pair at its sorted position
//  3. If the leaf holds more than order keys, split it
//  4. Propagate the split upward, growing a new root if needed
//  5. Flush the buffered journal as one batch
func (t *Tree) Insert(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	lf := t.findLeaf(key)
	pos, found := lf.find(key)
	if found {
		return ErrKeyExists
	}

	lf.insert(pos, key, value)
	t.splitIfNeeded(lf)
	return t.flushLocked()
}

// Update replaces the value stored under an existing key.
// Returns ErrKeyNotFound if the key is absent.
func (t *Tree) Update(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	lf := t.findLeaf(key)
	pos, found := lf.find(key)
	if !found {
		return ErrKeyNotFound
	}

	lf.update(pos, value)
	return t.flushLocked()
}

// splitIfNeeded splits pg while it overflows, walking the split upward.
// Tree height grows only at the root.
func (t *Tree) splitIfNeeded(pg treePage) {
	for len(pg.base().keys) > t.order {
		parent := pg.base().parent
		newName := pg.base().name
		if parent == nil {
			parent = t.growRoot(pg)
			newName = t.nextName()
		}

		pos := len(pg.base().keys) / 2
		var sep string
		var sib treePage
		switch v := pg.(type) {
		case *leaf:
			sep = v.keys[pos]
			sib = v.split(parent, newName, pos, t.nextName())
		case *node:
			sep = v.keys[pos]
			sib = v.split(parent, newName, pos, t.nextName())
		}

		parent.insertChildAt(parent.indexOf(pg)+1, sep, sib)
		pg = parent
	}
}

// growRoot replaces the root with a fresh interior page at the root path
// and hangs the old root beneath it. The caller renames the old root.
func (t *Tree) growRoot(old treePage) *node {
	nr := &node{
		page:     page{tree: t, name: old.base().name},
		children: []treePage{old},
	}
	if t.createdSet[old.base()] {
		t.created(nr)
	} else {
		t.modified(nr)
	}
	t.root = nr
	return nr
}
