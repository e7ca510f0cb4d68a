package index

import (
	"fmt"
	"testing"
)

func benchTree(b *testing.B, n int) *Tree {
	b.Helper()

	tree, err := New("idx", DefaultOrder, &memCommitter{})
	if err != nil {
		b.Fatalf("failed to create tree: %v", err)
	}
	for i := 0; i < n; i++ {
		if err := tree.Insert(fmt.Sprintf("key-%06d", i), "value"); err != nil {
			b.Fatalf("failed to insert: %v", err)
		}
	}
	return tree
}

func BenchmarkTreeSearch(b *testing.B) {
	tree := benchTree(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tree.Search(fmt.Sprintf("key-%06d", i%10000)); err != nil {
			b.Fatalf("failed to search: %v", err)
		}
	}
}

func BenchmarkTreeInsert(b *testing.B) {
	tree := benchTree(b, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := tree.Insert(fmt.Sprintf("key-%09d", i), "value"); err != nil {
			b.Fatalf("failed to insert: %v", err)
		}
	}
}

func BenchmarkTreeScan(b *testing.B) {
	tree := benchTree(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i += 10000 {
		it := tree.Ascend("", "")
		for {
			if _, _, ok := it.Next(); !ok {
				break
			}
		}
	}
}

func BenchmarkTreeDelete(b *testing.B) {
	tree := benchTree(b, b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := tree.Delete(fmt.Sprintf("key-%06d", i)); err != nil {
			b.Fatalf("failed to delete: %v", err)
		}
	}
}
