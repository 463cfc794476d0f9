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

package avlmerkle

import (
	"sync"

	"wrapvault/common/rawencode"
	"wrapvault/storage/badger"
)

const treeKeyPrefix = "tree:"

// treeDb stores tree nodes in the underlying storage.
type treeDb struct {
	storage   badger.IStorage
	writeLock sync.Mutex
}

func newTreeDb(db badger.IStorage) *treeDb {
	return &treeDb{
		storage: db,
	}
}

func (db *treeDb) newWriteBatch() *badger.StorageWriteBatch {
	return db.storage.NewWriteBatch()
}

func (db *treeDb) commitBatch(batch *badger.StorageWriteBatch) error {
	db.writeLock.Lock()
	defer db.writeLock.Unlock()
	return db.storage.CommitWriteBatch(batch)
}

func (db *treeDb) getTreeNodeByKey(key []byte) (*TreeNode, error) {
	val, err := db.storage.GetData(key)
	if err != nil {
		return nil, err
	}
	node := &TreeNode{}
	if err = rawencode.Decode(val, node); err != nil {
		return nil, err
	}
	return node, nil
}
