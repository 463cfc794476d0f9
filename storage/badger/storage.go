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

package badger

import (
	"errors"

	badgerdb "github.com/dgraph-io/badger/v3"
)

var ErrNotFound = errors.New("not found")

// Iterator walks storage keys in lexicographic order. Close must be
// called once the caller is done.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Close()
}

// IStorage is the flat key/value surface every persistent component of
// the node runs on. Keys are namespaced by caller-side prefixes.
type IStorage interface {
	Set(key string, val []byte) error
	SetData(key []byte, val []byte) error
	NewWriteBatch() *StorageWriteBatch
	CommitWriteBatch(batch *StorageWriteBatch) error
	Get(key string) ([]byte, error)
	GetData(key []byte) ([]byte, error)
	Del(key string) error
	DelData(key []byte) error
	Close() error
	Foreach(fn func(k string, v []byte) error) error
	ForeachData(fn func(k []byte, v []byte) error) error
	PrefixForeach(prefix string, fn func(k string, v []byte) error) error
	PrefixForeachData(prefix []byte, fn func(k []byte, v []byte) error) error
	NewIterator() Iterator
}

type batchOp struct {
	key []byte
	val []byte
	del bool
}

// StorageWriteBatch buffers writes so they can be flushed in one shot
// by CommitWriteBatch. The buffer itself is backend neutral.
type StorageWriteBatch struct {
	ops []batchOp
}

func (b *StorageWriteBatch) Put(key, value []byte) error {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	b.ops = append(b.ops, batchOp{key: k, val: v})
	return nil
}

func (b *StorageWriteBatch) Delete(key []byte) error {
	k := append([]byte(nil), key...)
	b.ops = append(b.ops, batchOp{key: k, del: true})
	return nil
}

// Replay feeds the buffered operations to the given callbacks in
// insertion order. Used by alternative IStorage backends.
func (b *StorageWriteBatch) Replay(set func(k, v []byte) error, del func(k []byte) error) error {
	for _, op := range b.ops {
		var err error
		if op.del {
			err = del(op.key)
		} else {
			err = set(op.key, op.val)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Storage is the BadgerDB implementation of IStorage.
type Storage struct {
	db *badgerdb.DB
}

func New(pathname string) (*Storage, error) {
	opts := badgerdb.DefaultOptions(pathname)
	opts.Logger = nil
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Set(key string, val []byte) error {
	return s.SetData([]byte(key), val)
}

func (s *Storage) SetData(key []byte, val []byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, val)
	})
}

func (s *Storage) Get(key string) ([]byte, error) {
	return s.GetData([]byte(key))
}

func (s *Storage) GetData(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badgerdb.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Storage) Del(key string) error {
	return s.DelData([]byte(key))
}

func (s *Storage) DelData(key []byte) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

func (s *Storage) NewWriteBatch() *StorageWriteBatch {
	return &StorageWriteBatch{}
}

func (s *Storage) CommitWriteBatch(batch *StorageWriteBatch) error {
	if batch == nil || len(batch.ops) == 0 {
		return nil
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, op := range batch.ops {
		var err error
		if op.del {
			err = wb.Delete(op.key)
		} else {
			err = wb.Set(op.key, op.val)
		}
		if err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Foreach(fn func(k string, v []byte) error) error {
	return s.ForeachData(func(k []byte, v []byte) error {
		return fn(string(k), v)
	})
}

func (s *Storage) ForeachData(fn func(k []byte, v []byte) error) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err = fn(item.KeyCopy(nil), val); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) PrefixForeach(prefix string, fn func(k string, v []byte) error) error {
	return s.PrefixForeachData([]byte(prefix), func(k []byte, v []byte) error {
		return fn(string(k), v)
	})
}

func (s *Storage) PrefixForeachData(prefix []byte, fn func(k []byte, v []byte) error) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err = fn(item.KeyCopy(nil), val); err != nil {
				return err
			}
		}
		return nil
	})
}

type storageIterator struct {
	txn   *badgerdb.Txn
	iter  *badgerdb.Iterator
	first bool
}

func (s *Storage) NewIterator() Iterator {
	txn := s.db.NewTransaction(false)
	it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
	it.Rewind()
	return &storageIterator{txn: txn, iter: it, first: true}
}

func (it *storageIterator) Next() bool {
	if it.first {
		it.first = false
	} else {
		it.iter.Next()
	}
	return it.iter.Valid()
}

func (it *storageIterator) Key() []byte {
	return it.iter.Item().KeyCopy(nil)
}

func (it *storageIterator) Value() ([]byte, error) {
	return it.iter.Item().ValueCopy(nil)
}

func (it *storageIterator) Close() {
	it.iter.Close()
	it.txn.Discard()
}
