package cache

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/samber/mo"
)

func Benchmark_GetHit(b *testing.B) {
	c := New[int, int](time.Hour)
	loader := func(_ context.Context, key int) (mo.Option[int], error) {
		return mo.Some(key), nil
	}
	_, _ = c.Get(context.Background(), 1, loader)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_, _ = c.Get(context.Background(), 1, loader)
	}
}

func Benchmark_GetConcurrently(b *testing.B) {
	value := strings.Repeat("a", 256)
	c := New[int, string](time.Hour)
	loader := func(context.Context, int) (mo.Option[string], error) {
		return mo.Some(value), nil
	}
	for i := 0; i < 10000; i++ {
		_, _ = c.Get(context.Background(), i, loader)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			key := rand.Intn(10000)
			val, err := c.Get(context.Background(), key, loader)
			if err != nil || val.OrEmpty() != value {
				b.Errorf("key: %v; value: %v; err: %v", key, val, err)
			}
		}
	})
}
