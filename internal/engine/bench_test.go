package engine

import (
	"fmt"
	"testing"
)

func BenchmarkEngineCommit(b *testing.B) {
	e, err := Open("", Options{Order: 128, InMemory: true})
	if err != nil {
		b.Fatalf("failed to open engine: %v", err)
	}
	defer e.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Insert(fmt.Sprintf("key-%09d", i), "value"); err != nil {
			b.Fatalf("failed to insert: %v", err)
		}
	}
}

func BenchmarkEngineGet(b *testing.B) {
	e, err := Open("", Options{Order: 128, InMemory: true})
	if err != nil {
		b.Fatalf("failed to open engine: %v", err)
	}
	defer e.Close()

	const n = 10000
	for i := 0; i < n; i++ {
		if err := e.Insert(fmt.Sprintf("key-%06d", i), "value"); err != nil {
			b.Fatalf("failed to insert: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Get(fmt.Sprintf("key-%06d", i%n)); err != nil {
			b.Fatalf("failed to get: %v", err)
		}
	}
}
