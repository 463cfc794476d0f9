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

package wrapvault

import (
	"encoding/hex"
	"math/big"

	"wrapvault/avlmerkle"
	"wrapvault/common"
	"wrapvault/common/ahash"
	"wrapvault/common/rawencode"
	"wrapvault/storage/badger"
)

// StateObj represents an account that is being modified: a token ledger,
// a vault, the registry, or a plain key holder. Each account owns a nonce
// and a private storage tree addressed by stateRoot. The flow of usage is
// as follows: obtain a StateObj from a StateTree, read and write its
// storage slots, then call Update to fold the changes back into the
// account index.
type StateObj struct {
	merkleTree   *avlmerkle.Tree
	address      common.Address
	nonce        uint64
	stateRoot    common.Hash
	cacheStorage map[[32]byte][]byte
	storageTree  *avlmerkle.Tree
	db           badger.IStorage
}

func (so *StateObj) Decode(data []byte) error {
	r := common.StringDecodeMap(string(data))
	if r == nil {
		return nil
	}
	if address, ok := r["address"]; ok {
		so.address = common.StrB58ToAddress(address)
	}
	if nonce, ok := r["nonce"]; ok {
		if num, ok := new(big.Int).
			SetString(nonce, 10); ok {
			so.nonce = num.Uint64()
		}
	}
	if stateRoot, ok := r["state_root"]; ok {
		if bs, err := hex.DecodeString(stateRoot); err == nil {
			so.stateRoot = common.Bytes2Hash(bs)
		}
	}
	return nil
}

func (so *StateObj) Encode() ([]byte, error) {
	objmap := map[string]string{
		"address":    so.address.String(),
		"nonce":      new(big.Int).SetUint64(so.nonce).Text(10),
		"state_root": hex.EncodeToString(so.stateRoot[:]),
	}
	enc := common.SortAndEncodeMap(objmap)
	return []byte(enc), nil
}

func NewStateObj(address common.Address, tree *avlmerkle.Tree, db badger.IStorage) *StateObj {
	obj := &StateObj{
		address:      address,
		merkleTree:   tree,
		db:           db,
		cacheStorage: make(map[[32]byte][]byte),
	}
	return obj
}

func (so *StateObj) GetAddress() common.Address {
	return so.address
}

func (so *StateObj) SetNonce(nonce uint64) {
	so.nonce = nonce
}

func (so *StateObj) AddNonce(nonce uint64) {
	so.nonce += nonce
}

func (so *StateObj) GetNonce() uint64 {
	return so.nonce
}

func (so *StateObj) GetStateRoot() common.Hash {
	return so.stateRoot
}

func (so *StateObj) SetState(key [32]byte, value []byte) {
	so.cacheStorage[key] = value
}

// makeStateKey namespaces slot keys by account so that storage trees of
// different accounts never collide in the shared node store.
func (so *StateObj) makeStateKey(key [32]byte) []byte {
	return ahash.SHA256(append(so.address[:], key[:]...))
}

func (so *StateObj) getStateTree() *avlmerkle.Tree {
	if so.storageTree == nil {
		so.storageTree = avlmerkle.NewTree(so.db, so.stateRoot[:])
	}
	return so.storageTree
}

func (so *StateObj) GetStateValue(key [32]byte) []byte {
	if val, exists := so.cacheStorage[key]; exists {
		return val
	}
	if val, ok := so.getStateTree().Get(so.makeStateKey(key)); ok {
		return val
	}
	return nil
}

// Update flushes cached slot writes into the storage tree, commits the
// tree nodes and records the account under its new state root in the
// account index.
func (so *StateObj) Update() {
	tree := so.getStateTree()
	for k, v := range so.cacheStorage {
		tree.Put(so.makeStateKey(k), v)
	}
	if err := tree.Commit(); err != nil {
		return
	}
	so.stateRoot = common.Bytes2Hash(tree.Checksum())
	objRaw, _ := rawencode.Encode(so)
	hash := ahash.SHA256(so.address[:])
	so.merkleTree.Put(hash, objRaw)
}

// StateTree indexes every account by the hash of its address. The root
// checksum commits to the full ledger state, vault books included.
type StateTree struct {
	root       []byte
	treeDB     badger.IStorage
	merkleTree *avlmerkle.Tree
	objs       map[common.Address]*StateObj
}

func NewStateTree(db badger.IStorage, root []byte) *StateTree {
	st := &StateTree{
		root:   root,
		treeDB: db,
		objs:   make(map[common.Address]*StateObj),
	}
	st.merkleTree = avlmerkle.NewTree(st.treeDB, root)
	return st
}

func NewStateTreeN(db badger.IStorage, root []byte) (*StateTree, error) {
	var err error
	st := &StateTree{
		root:   root,
		treeDB: db,
		objs:   make(map[common.Address]*StateObj),
	}
	st.merkleTree, err = avlmerkle.NewTreeN(st.treeDB, root)
	return st, err
}

func (st *StateTree) GetNonce(addr common.Address) uint64 {
	obj := st.GetStateObj(addr)
	if obj != nil {
		return obj.nonce
	}
	return 0
}

func (st *StateTree) AddNonce(addr common.Address, val uint64) {
	obj := st.GetOrNewStateObj(addr)
	if obj != nil {
		obj.AddNonce(val)
	}
}

func (st *StateTree) GetStateObj(addr common.Address) *StateObj {
	if st.objs[addr] != nil {
		return st.objs[addr]
	}
	hash := ahash.SHA256(addr.Bytes())
	if val, has := st.merkleTree.Get(hash); has {
		obj := &StateObj{}
		if err := rawencode.Decode(val, obj); err != nil {
			return nil
		}
		obj.merkleTree = st.merkleTree
		obj.db = st.treeDB
		obj.cacheStorage = make(map[[32]byte][]byte)
		st.objs[addr] = obj
		return obj
	}
	return nil
}

func (st *StateTree) newStateObj(address common.Address) *StateObj {
	obj := NewStateObj(address, st.merkleTree, st.treeDB)
	st.objs[obj.address] = obj
	return obj
}

func (st *StateTree) CreateAccount(addr common.Address) *StateObj {
	old := st.GetStateObj(addr)
	add := st.newStateObj(addr)
	if old != nil {
		add.nonce = old.nonce
		add.stateRoot = old.stateRoot
	}
	return add
}

func (st *StateTree) GetOrNewStateObj(addr common.Address) *StateObj {
	stateObj := st.GetStateObj(addr)
	if stateObj == nil {
		stateObj = st.CreateAccount(addr)
	}
	return stateObj
}

// SetState writes a storage slot of the given account.
func (st *StateTree) SetState(addr common.Address, key [32]byte, value []byte) {
	obj := st.GetOrNewStateObj(addr)
	if obj != nil {
		obj.SetState(key, value)
	}
}

// GetStateValue reads a storage slot of the given account, nil if the
// account or the slot does not exist.
func (st *StateTree) GetStateValue(addr common.Address, key [32]byte) []byte {
	obj := st.GetStateObj(addr)
	if obj != nil {
		return obj.GetStateValue(key)
	}
	return nil
}

func (st *StateTree) Root() []byte {
	return st.merkleTree.Checksum()
}

func (st *StateTree) RootHex() string {
	return st.merkleTree.ChecksumHex()
}

func (st *StateTree) UpdateAll() {
	for _, v := range st.objs {
		v.Update()
	}
}

func (st *StateTree) Commit() error {
	return st.merkleTree.Commit()
}
