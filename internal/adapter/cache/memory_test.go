package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	vec, err := c.Get(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if vec != nil {
		t.Error("expected nil for a miss")
	}

	if err := c.Put(ctx, "k1", []float32{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	vec, err = c.Get(ctx, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("unexpected cached vector: %v", vec)
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Millisecond)

	if err := c.Put(ctx, "k1", []float32{1}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	vec, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatal(err)
	}
	if vec != nil {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Minute)

	c.Put(ctx, "a", []float32{1})
	c.Put(ctx, "b", []float32{2})

	// Touch a so b becomes the eviction candidate.
	c.Get(ctx, "a")
	c.Put(ctx, "c", []float32{3})

	if vec, _ := c.Get(ctx, "b"); vec != nil {
		t.Error("expected b to be evicted")
	}
	if vec, _ := c.Get(ctx, "a"); vec == nil {
		t.Error("expected a to survive eviction")
	}
	if vec, _ := c.Get(ctx, "c"); vec == nil {
		t.Error("expected c to be present")
	}
}
