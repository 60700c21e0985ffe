package cache

import (
	"testing"
)

func TestVectorCacheRoundTrip(t *testing.T) {
	c := NewVectorCache(t.TempDir())

	if _, ok := c.Get("lexical", "groceries"); ok {
		t.Fatal("empty cache reported a hit")
	}

	vector := []float32{0.1, 0.2, 0.3}
	if err := c.Set("lexical", "groceries", vector); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get("lexical", "groceries")
	if !ok {
		t.Fatal("Get missed after Set")
	}
	if len(got) != 3 || got[0] != 0.1 || got[2] != 0.3 {
		t.Fatalf("got %v, want %v", got, vector)
	}
}

func TestVectorCacheKeysByBackend(t *testing.T) {
	c := NewVectorCache(t.TempDir())

	if err := c.Set("lexical", "groceries", []float32{1}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok := c.Get("genai:text-embedding-004", "groceries"); ok {
		t.Fatal("cache hit across backends")
	}
}

func TestVectorCacheClear(t *testing.T) {
	c := NewVectorCache(t.TempDir())

	if err := c.Set("lexical", "rent", []float32{1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := c.Get("lexical", "rent"); ok {
		t.Fatal("cache hit after Clear")
	}
}
