package index

// Iterator walks leaf entries in key order, following the in-order leaf
// chain. It reads live pages and must not run concurrently with
// structural mutations of the same tree.
type Iterator struct {
	cur     *leaf
	pos     int
	end     string
	bounded bool
}

// Next returns the next entry, or ok=false when the iterator is
// exhausted or the end bound is passed.
func (it *Iterator) Next() (key, value string, ok bool) {
	for it.cur != nil {
		if it.pos < len(it.cur.keys) {
			k := it.cur.keys[it.pos]
			if it.bounded && k > it.end {
				it.cur = nil
				return "", "", false
			}
			v := it.cur.values[it.pos]
			it.pos++
			return k, v, true
		}
		it.cur = it.cur.nextLeaf()
		it.pos = 0
	}
	return "", "", false
}

// Keys drains the iterator and returns the remaining keys.
func (it *Iterator) Keys() []string {
	var keys []string
	for {
		k, _, ok := it.Next()
		if !ok {
			return keys
		}
		keys = append(keys, k)
	}
}
