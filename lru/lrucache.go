// Copyright 2021 The wrapvault Authors
// This file is part of the wrapvault library.
//
// The wrapvault library is free software: you can redistribute it and/or modify
// it under the terms of the MIT Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The wrapvault library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// MIT Lesser General Public License for more details.
//
// You should have received a copy of the MIT Lesser General Public License
// along with the wrapvault library. If not, see <https://mit-license.org/>.

package lru

import (
	"container/list"
	"sync"
)

const cacheKeySize = 32

type Cache struct {
	mu     sync.Mutex
	size   int
	items  map[[cacheKeySize]byte]*list.Element
	access *list.List
}

type cacheData struct {
	key [cacheKeySize]byte
	val []byte
}

func NewCache(size int) *Cache {
	return &Cache{
		size:   size,
		items:  make(map[[cacheKeySize]byte]*list.Element, size),
		access: list.New(),
	}
}

func (c *Cache) Get(key [cacheKeySize]byte) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	c.access.MoveToFront(elem)

	return elem.Value.(*cacheData).val, ok
}

func (c *Cache) Put(key [cacheKeySize]byte, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if ok {
		elem.Value.(*cacheData).val = val
		c.access.MoveToFront(elem)
		return
	}
	c.items[key] = c.access.PushFront(&cacheData{
		key: key,
		val: val,
	})
	c.evict()
}

// evict drops least recently used entries until the cache fits its size.
// Callers must hold the lock.
func (c *Cache) evict() {
	for len(c.items) > c.size {
		back := c.access.Back()
		info := back.Value.(*cacheData)
		delete(c.items, info.key)
		c.access.Remove(back)
	}
}

func (c *Cache) Remove(key [cacheKeySize]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if ok {
		delete(c.items, key)
		c.access.Remove(elem)
	}
}
