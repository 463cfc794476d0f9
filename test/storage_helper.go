package test

import (
	"sort"
	"strings"

	"wrapvault/storage/badger"
)

// MemStorage is an in-memory badger.IStorage used by tests. Iteration
// order is sorted by key so tests are deterministic.
type MemStorage struct {
	db map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		db: make(map[string][]byte),
	}
}

func (st *MemStorage) sortedKeys() []string {
	keys := make([]string, 0, len(st.db))
	for k := range st.db {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (st *MemStorage) Set(key string, val []byte) error {
	return st.SetData([]byte(key), val)
}

func (st *MemStorage) SetData(key []byte, val []byte) error {
	cp := append([]byte(nil), val...)
	st.db[string(key)] = cp
	return nil
}

func (st *MemStorage) NewWriteBatch() *badger.StorageWriteBatch {
	return &badger.StorageWriteBatch{}
}

func (st *MemStorage) CommitWriteBatch(batch *badger.StorageWriteBatch) error {
	if batch == nil {
		return nil
	}
	return batch.Replay(st.SetData, st.DelData)
}

func (st *MemStorage) Get(key string) ([]byte, error) {
	return st.GetData([]byte(key))
}

func (st *MemStorage) GetData(key []byte) ([]byte, error) {
	val, ok := st.db[string(key)]
	if !ok {
		return nil, badger.ErrNotFound
	}
	return val, nil
}

func (st *MemStorage) Del(key string) error {
	delete(st.db, key)
	return nil
}

func (st *MemStorage) DelData(key []byte) error {
	delete(st.db, string(key))
	return nil
}

func (st *MemStorage) Close() error { return nil }

func (st *MemStorage) Foreach(fn func(k string, v []byte) error) error {
	return st.ForeachData(func(k []byte, v []byte) error {
		return fn(string(k), v)
	})
}

func (st *MemStorage) ForeachData(fn func(k []byte, v []byte) error) error {
	for _, key := range st.sortedKeys() {
		if err := fn([]byte(key), st.db[key]); err != nil {
			return err
		}
	}
	return nil
}

func (st *MemStorage) PrefixForeach(prefix string, fn func(k string, v []byte) error) error {
	return st.PrefixForeachData([]byte(prefix), func(k []byte, v []byte) error {
		return fn(string(k), v)
	})
}

func (st *MemStorage) PrefixForeachData(prefix []byte, fn func(k []byte, v []byte) error) error {
	for _, key := range st.sortedKeys() {
		if !strings.HasPrefix(key, string(prefix)) {
			continue
		}
		if err := fn([]byte(key), st.db[key]); err != nil {
			return err
		}
	}
	return nil
}

type memIterator struct {
	st   *MemStorage
	keys []string
	pos  int
}

func (st *MemStorage) NewIterator() badger.Iterator {
	return &memIterator{st: st, keys: st.sortedKeys(), pos: -1}
}

func (it *memIterator) Next() bool {
	it.pos += 1
	return it.pos < len(it.keys)
}

func (it *memIterator) Key() []byte {
	return []byte(it.keys[it.pos])
}

func (it *memIterator) Value() ([]byte, error) {
	return it.st.db[it.keys[it.pos]], nil
}

func (it *memIterator) Close() {}
