package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRU_Basic(t *testing.T) {
	cache := NewLRU[int](2)

	cache.Put("a", 1)
	cache.Put("b", 2)

	// Get "a" - should exist
	if val, ok := cache.Get("a"); !ok || val != 1 {
		t.Errorf("Expected a=1, got %v", val)
	}

	// Cache is full, add "c" -> should evict "b" (LRU)
	cache.Put("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Error("Expected 'b' to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("Expected 'a' to exist")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("Expected 'c' to exist")
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	cache := NewLRU[int](2)

	cache.Put("a", 1)
	cache.Put("a", 10)

	if val, ok := cache.Get("a"); !ok || val != 10 {
		t.Errorf("Expected a=10, got %v", val)
	}
	if cache.Len() != 1 {
		t.Errorf("Expected len 1, got %d", cache.Len())
	}
}

func TestLRU_Concurrency(t *testing.T) {
	cache := NewLRU[int](100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key_%d_%d", id, j)
				cache.Put(key, j)
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 100 {
		t.Errorf("Expected len 100, got %d", cache.Len())
	}
}

func TestLRU_DefaultCapacity(t *testing.T) {
	cache := NewLRU[int](0)

	for i := 0; i < DefaultCapacity+10; i++ {
		cache.Put(fmt.Sprintf("k%d", i), i)
	}
	if cache.Len() != DefaultCapacity {
		t.Errorf("Expected len %d, got %d", DefaultCapacity, cache.Len())
	}
	if _, ok := cache.Get("k0"); ok {
		t.Error("Expected oldest key to be evicted")
	}
}
