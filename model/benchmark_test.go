package model

import (
	"fmt"
	"testing"
)

func BenchmarkNextGeneration(b *testing.B) {
	for _, size := range []int{64, 256, 512} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			grid, err := NewGrid(size, size)
			if err != nil {
				b.Fatalf("NewGrid failed: %v", err)
			}
			grid.Randomize(0.3)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				grid = grid.NextGeneration()
			}
		})
	}
}

func BenchmarkNextGenerationPooled(b *testing.B) {
	for _, size := range []int{64, 256, 512} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			grid, err := NewGrid(size, size)
			if err != nil {
				b.Fatalf("NewGrid failed: %v", err)
			}
			grid.Randomize(0.3)
			pool := NewGridPool()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				next := grid.NextGenerationPooled(pool)
				pool.Put(grid)
				grid = next
			}
		})
	}
}
