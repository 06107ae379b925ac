package track

import (
	"fmt"
	"testing"
)

// The interesting comparison is a cached tracker against a registry lookup
// per operation: the former is two atomic adds, the latter additionally takes
// the registry mutex.

func BenchmarkTracker_Track_Cached(b *testing.B) {
	reg := NewRegistry[testCategory]()
	tracker := reg.Category(catThings)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracker.Track().Release()
	}
}

func BenchmarkTracker_Track_Uncached(b *testing.B) {
	reg := NewRegistry[testCategory]()
	_ = reg.Category(catThings)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Category(catThings).Track().Release()
	}
}

func BenchmarkTracker_Track_Parallel(b *testing.B) {
	reg := NewRegistry[testCategory]()
	tracker := reg.Category(catThings)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tracker.Track().Release()
		}
	})
}

func BenchmarkSize_Add(b *testing.B) {
	reg := NewRegistry[testCategory]()
	tracked := reg.Category(catThings).TrackSized(0)
	defer tracked.Release()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracked.Add(1)
	}
}

func BenchmarkRegistry_ReadCounts(b *testing.B) {
	for _, size := range []int{1, 10, 100, 1000} {
		reg := NewRegistry[int]()
		for j := 0; j < size; j++ {
			reg.Category(j).TrackSized(int64(j))
		}
		b.Run(fmt.Sprintf("categories=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = reg.ReadCounts()
			}
		})
	}
}
