package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkaradag/revtree/internal/index"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := Open("", Options{Order: 4, InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestOpenBootstrapsFirstRevision(t *testing.T) {
	e := newTestEngine(t)

	// Creating the empty index already commits a revision.
	head := e.Head()
	assert.NotEmpty(t, head)

	revs, err := e.History(0)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, head, revs[0].ID)
	assert.Empty(t, revs[0].Parent)
}

func TestInsertAndGet(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Insert("user:1", "alice"))
	require.NoError(t, e.Insert("user:2", "bob"))

	v, err := e.Get("user:1")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	_, err = e.Get("user:3")
	assert.ErrorIs(t, err, index.ErrKeyNotFound)
}

func TestInsertExistingKey(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Insert("k", "v1"))
	assert.ErrorIs(t, e.Insert("k", "v2"), index.ErrKeyExists)
}

func TestUpdateMissingKey(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.Update("missing", "v"), index.ErrKeyNotFound)
}

func TestPutUpserts(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Put("k", "v1"))
	require.NoError(t, e.Put("k", "v2"))

	v, err := e.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestDelete(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Insert("k", "v"))
	require.NoError(t, e.Delete("k"))

	_, err := e.Get("k")
	assert.ErrorIs(t, err, index.ErrKeyNotFound)
	assert.ErrorIs(t, e.Delete("k"), index.ErrKeyNotFound)
}

func TestScan(t *testing.T) {
	e := newTestEngine(t)

	for i := 9; i >= 0; i-- {
		require.NoError(t, e.Insert(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i)))
	}

	all, err := e.Scan("", "")
	require.NoError(t, err)
	require.Len(t, all, 10)
	for i, kv := range all {
		assert.Equal(t, fmt.Sprintf("k%d", i), kv[0])
		assert.Equal(t, fmt.Sprintf("v%d", i), kv[1])
	}

	part, err := e.Scan("k3", "k6")
	require.NoError(t, err)
	require.Len(t, part, 4)
	assert.Equal(t, "k3", part[0][0])
	assert.Equal(t, "k6", part[3][0])
}

func TestEveryMutationAdvancesHead(t *testing.T) {
	e := newTestEngine(t)

	h0 := e.Head()
	require.NoError(t, e.Insert("a", "1"))
	h1 := e.Head()
	require.NoError(t, e.Update("a", "2"))
	h2 := e.Head()
	require.NoError(t, e.Delete("a"))
	h3 := e.Head()

	assert.NotEqual(t, h0, h1)
	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h2, h3)

	// Failed mutations leave the head alone.
	assert.Error(t, e.Delete("a"))
	assert.Equal(t, h3, e.Head())
}

func TestHistoryChain(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, e.Insert(fmt.Sprintf("k%d", i), "v"))
	}

	revs, err := e.History(0)
	require.NoError(t, err)
	require.Len(t, revs, 6) // bootstrap + 5 inserts

	// Newest first, each entry's parent is the next entry.
	assert.Equal(t, e.Head(), revs[0].ID)
	for i := 0; i < len(revs)-1; i++ {
		assert.Equal(t, revs[i+1].ID, revs[i].Parent)
	}
	assert.Empty(t, revs[len(revs)-1].Parent)

	limited, err := e.History(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, revs[0].ID, limited[0].ID)
}

func TestReopenFromHead(t *testing.T) {
	dir := t.TempDir()
	opts := Options{Order: 4}

	e, err := Open(dir, opts)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, e.Insert(fmt.Sprintf("key-%02d", i), fmt.Sprintf("val-%02d", i)))
	}
	head := e.Head()
	require.NoError(t, e.Close())

	e, err = Open(dir, opts)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, head, e.Head())
	for i := 0; i < 20; i++ {
		v, err := e.Get(fmt.Sprintf("key-%02d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("val-%02d", i), v)
	}

	// The reopened index keeps working across page splits.
	require.NoError(t, e.Insert("key-99", "val-99"))
	v, err := e.Get("key-99")
	require.NoError(t, err)
	assert.Equal(t, "val-99", v)
}

func TestFailedMutationKeepsRevisionReadable(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.Insert("k", "v"))
	assert.ErrorIs(t, e.Insert("k", "w"), index.ErrKeyExists)

	v, err := e.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestStats(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < 30; i++ {
		require.NoError(t, e.Insert(fmt.Sprintf("k%02d", i), "v"))
	}

	s := e.Stats()
	assert.Equal(t, 30, s.Keys)
	assert.Greater(t, s.Height, 1)
	assert.Greater(t, s.LeafPages, 1)
}

func TestClosedEngine(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Close())

	assert.ErrorIs(t, e.Insert("k", "v"), ErrClosed)
	_, err := e.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, e.Delete("k"), ErrClosed)
	_, err = e.Scan("", "")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = e.History(0)
	assert.ErrorIs(t, err, ErrClosed)

	// Closing twice is fine.
	require.NoError(t, e.Close())
}
