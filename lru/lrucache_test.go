package lru

import (
	"fmt"
	"testing"

	"wrapvault/common/ahash"
)

func makeKey(s string) (out [32]byte) {
	copy(out[:], ahash.SHA256([]byte(s)))
	return
}
func TestCache_Get(t *testing.T) {
	size := 1000
	cache := NewCache(size)
	setCache := func(num int) {
		for i := 0; i < num; i++ {
			key := makeKey(fmt.Sprintf("key%d", i))
			cache.Put(key, []byte(fmt.Sprintf("val%d", i)))
		}
	}
	setCache(size)
	for i := 0; i < size; i++ {
		keystr := fmt.Sprintf("key%d", i)
		key := makeKey(keystr)
		val, exists := cache.Get(key)
		if !exists || val == nil {
			t.Fatalf("not found key: %s", keystr)
		}
	}
	key := makeKey(fmt.Sprintf("key%d", size+1))
	val, exists := cache.Get(key)
	if exists || val != nil {
		t.Fatalf("Invalid query")
	}
}

func TestCache_Evict(t *testing.T) {
	cache := NewCache(2)
	cache.Put(makeKey("a"), []byte("1"))
	cache.Put(makeKey("b"), []byte("2"))
	if _, exists := cache.Get(makeKey("a")); !exists {
		t.Fatal("not found key: a")
	}
	// b is now the oldest entry and must be evicted first
	cache.Put(makeKey("c"), []byte("3"))
	if _, exists := cache.Get(makeKey("b")); exists {
		t.Fatal("key b should be evicted")
	}
	if _, exists := cache.Get(makeKey("c")); !exists {
		t.Fatal("not found key: c")
	}
}

func TestCache_Remove(t *testing.T) {
	cache := NewCache(2)
	cache.Put(makeKey("x"), []byte("1"))
	cache.Remove(makeKey("x"))
	if _, exists := cache.Get(makeKey("x")); exists {
		t.Fatal("key x should be removed")
	}
}
