package index

// Delete removes a key and commits the change as one journal batch.
// Returns ErrKeyNotFound if the key is absent.
//
// Algorithm:
//  1. Descend to the leaf containing the key
//  2. Remove the entry
//  3. If the leaf drops below the minimum fill, borrow from a sibling
//     or merge with one, walking the underflow upward
//  4. Collapse the root when it is left with a single child
//  5. Flush the buffered journal as one batch
func (t *Tree) Delete(key string) error {
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

	lf.delete(pos)
	t.rebalance(lf)
	return t.flushLocked()
}

// minKeys is the minimum fill of any non-root page.
func (t *Tree) minKeys() int {
	return t.order / 2
}

// rebalance restores the fill invariant starting at pg, propagating
// merges upward. Tree height shrinks only by collapsing the root.
func (t *Tree) rebalance(pg treePage) {
	for {
		b := pg.base()
		if b.parent == nil {
			t.collapseRoot()
			return
		}
		if len(b.keys) >= t.minKeys() {
			return
		}

		parent := b.parent
		ci := parent.indexOf(pg)

		if ci > 0 && t.canBorrow(parent.children[ci-1]) {
			t.borrowFromLeft(parent, ci)
			return
		}
		if ci < len(parent.children)-1 && t.canBorrow(parent.children[ci+1]) {
			t.borrowFromRight(parent, ci)
			return
		}

		if ci > 0 {
			t.merge(parent, ci-1)
		} else {
			t.merge(parent, ci)
		}
		pg = parent
	}
}

func (t *Tree) canBorrow(pg treePage) bool {
	return len(pg.base().keys) > t.minKeys()
}

// borrowFromLeft shifts one entry from the left sibling into
// parent.children[ci].
func (t *Tree) borrowFromLeft(parent *node, ci int) {
	switch cur := parent.children[ci].(type) {
	case *leaf:
		left := parent.children[ci-1].(*leaf)
		last := len(left.keys) - 1
		cur.insert(0, left.keys[last], left.values[last])
		left.delete(last)
		parent.keys[ci-1] = cur.keys[0]
	case *node:
		left := parent.children[ci-1].(*node)
		lastKey := len(left.keys) - 1
		lastChild := len(left.children) - 1
		moved := left.children[lastChild]

		cur.keys = arrayInsert(cur.keys, 0, parent.keys[ci-1])
		cur.children = append(cur.children, nil)
		copy(cur.children[1:], cur.children)
		cur.children[0] = moved
		t.reparent(moved, cur, moved.base().name)

		parent.keys[ci-1] = left.keys[lastKey]
		left.keys = left.keys[:lastKey]
		left.children = left.children[:lastChild]
		t.modified(left)
		t.modified(cur)
	}
	t.modified(parent)
}

// borrowFromRight shifts one entry from the right sibling into
// parent.children[ci].
func (t *Tree) borrowFromRight(parent *node, ci int) {
	switch cur := parent.children[ci].(type) {
	case *leaf:
		right := parent.children[ci+1].(*leaf)
		cur.insert(len(cur.keys), right.keys[0], right.values[0])
		right.delete(0)
		parent.keys[ci] = right.keys[0]
	case *node:
		right := parent.children[ci+1].(*node)
		moved := right.children[0]

		cur.keys = append(cur.keys, parent.keys[ci])
		cur.children = append(cur.children, moved)
		t.reparent(moved, cur, moved.base().name)

		parent.keys[ci] = right.keys[0]
		right.keys = right.keys[1:]
		right.children = right.children[1:]
		t.modified(right)
		t.modified(cur)
	}
	t.modified(parent)
}

// merge folds parent.children[li+1] into parent.children[li] and drops
// the separator between them. The merged-away page stays in the journal
// history; only the live tree forgets it.
func (t *Tree) merge(parent *node, li int) {
	switch left := parent.children[li].(type) {
	case *leaf:
		right := parent.children[li+1].(*leaf)
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)
	case *node:
		right := parent.children[li+1].(*node)
		left.keys = append(left.keys, parent.keys[li])
		left.keys = append(left.keys, right.keys...)
		for _, c := range right.children {
			left.children = append(left.children, c)
			t.reparent(c, left, c.base().name)
		}
	}

	t.modified(parent.children[li])
	t.removePage(parent.children[li+1])
	parent.removeChildAt(li + 1)
}

// collapseRoot replaces an interior root left with a single child by
// that child, keeping the root path stable.
func (t *Tree) collapseRoot() {
	root, ok := t.root.(*node)
	if !ok || len(root.keys) > 0 || len(root.children) != 1 {
		return
	}
	child := root.children[0]
	t.removePage(root)
	t.reparent(child, nil, root.name)
	t.root = child
}
