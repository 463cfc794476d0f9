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
	"bytes"
	"encoding/hex"

	"wrapvault/common"
	"wrapvault/common/rawencode"
	"wrapvault/lru"
	"wrapvault/storage/badger"

	"github.com/sirupsen/logrus"
)

// Tree is a persistent AVL tree whose node ids are content hashes, so
// the root checksum commits to the whole key/value set. Nodes are
// copy-on-write: mutating operations return new nodes and the old root
// stays readable until the caller commits.
//
// The ledger uses it insert/update only. There is no removal path:
// domain values are overwritten (balances go to zero), never deleted.
type Tree struct {
	db    *treeDb
	root  *TreeNode
	cache *lru.Cache
}

// NewTree opens a tree over db at the given root checksum. A nil or
// zero root yields an empty tree. The root node, if any, must be
// loadable or NewTree panics; use NewTreeN when the root may be absent.
func NewTree(db badger.IStorage, root []byte) *Tree {
	t := &Tree{
		db: newTreeDb(db),
	}
	t.cache = lru.NewCache(2048)
	var zero [32]byte
	if root != nil && len(root) == 32 && bytes.Compare(root, zero[:]) > common.Zero {
		t.root = t.mustLoadNode(root)
	}
	return t
}

func NewTreeN(db badger.IStorage, root []byte) (*Tree, error) {
	var err error
	t := &Tree{
		db: newTreeDb(db),
	}
	t.cache = lru.NewCache(2048)
	var zero [32]byte
	if root != nil && len(root) == 32 && bytes.Compare(root, zero[:]) > common.Zero {
		t.root, err = t.loadNode(root)
		if err != nil {
			logrus.Errorf("Failed load tree: root=%x", root[len(root)-4:])
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) Put(k, v []byte) {
	if t.root == nil {
		t.root = newLeafNode(k, v)
		return
	}
	t.root = t.root.insert(t, k, v)
}

func (t *Tree) Hash() common.Hash {
	if t.root == nil {
		return common.Hash{}
	}
	return t.root.Hash()
}

// Checksum returns the id of the root node, nil for an empty tree.
func (t *Tree) Checksum() []byte {
	if t.root == nil {
		return nil
	}
	return t.root.id
}

func (t *Tree) ChecksumHex() string {
	bs := t.Checksum()
	if bs == nil {
		return ""
	}
	return hex.EncodeToString(bs)
}

func (t *Tree) mustLoadLeft(node *TreeNode) *TreeNode {
	if node.leftNode != nil {
		return node.leftNode
	}
	ret := t.mustLoadNode(node.left)
	node.leftNode = ret
	return ret
}

func (t *Tree) mustLoadRight(node *TreeNode) *TreeNode {
	if node.rightNode != nil {
		return node.rightNode
	}
	ret := t.mustLoadNode(node.right)
	node.rightNode = ret
	return ret
}

func (t *Tree) mustLoadNode(id []byte) *TreeNode {
	n, err := t.loadNode(id)
	if err != nil {
		panic(err)
	}
	return n
}

func (t *Tree) loadLeft(n *TreeNode) (*TreeNode, error) {
	if n.leftNode != nil {
		return n.leftNode, nil
	}
	ret, err := t.loadNode(n.left)
	if err != nil {
		return nil, err
	}
	n.leftNode = ret
	return ret, nil
}

func (t *Tree) loadRight(n *TreeNode) (*TreeNode, error) {
	if n.rightNode != nil {
		return n.rightNode, nil
	}
	ret, err := t.loadNode(n.right)
	if err != nil {
		return nil, err
	}
	n.rightNode = ret
	return ret, nil
}

func (t *Tree) loadNode(id []byte) (*TreeNode, error) {
	var zero [32]byte
	if bytes.Compare(zero[:], id) == common.Zero {
		return nil, nil
	}
	var mId [32]byte
	copy(mId[:], id)
	if data, has := t.cache.Get(mId); has {
		tn := &TreeNode{}
		if err := rawencode.Decode(data, tn); err != nil {
			return nil, err
		}
		return tn, nil
	}
	tn, err := t.db.getTreeNodeByKey(append([]byte(treeKeyPrefix), id...))
	if err != nil {
		return nil, err
	}
	buf, err := rawencode.Encode(tn)
	if err != nil {
		return nil, err
	}
	t.cache.Put(mId, buf)
	return tn, nil
}

// Get returns the value for key stored in the tree.
// The value bytes must not be modified by the caller.
func (t *Tree) Get(k []byte) ([]byte, bool) {
	if t.root == nil {
		return nil, false
	}
	return t.root.lookup(t, k)
}

func (t *Tree) Foreach(fn func(key []byte, value []byte)) {
	if t.root == nil {
		return
	}
	t.foreach(t.root, fn)
}

func (t *Tree) foreach(n *TreeNode, fn func(key []byte, value []byte)) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		fn(n.key, n.value)
		return
	}
	t.foreach(t.mustLoadLeft(n), fn)
	t.foreach(t.mustLoadRight(n), fn)
}

// Commit writes every reachable node out in one batch. Committing the
// same tree twice is harmless, node ids are content addressed.
func (t *Tree) Commit() error {
	if t.root == nil {
		return nil
	}
	batch := t.db.newWriteBatch()
	err := t.root.dfsCall(t, func(node *TreeNode) error {
		bs, err := rawencode.Encode(node)
		if err != nil {
			return err
		}
		return batch.Put(append([]byte(treeKeyPrefix), node.id...), bs)
	})
	if err != nil {
		return err
	}
	return t.db.commitBatch(batch)
}
