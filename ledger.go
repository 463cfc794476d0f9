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
	"errors"
	"math/big"
	"sync"
	"time"

	"wrapvault/common"
	"wrapvault/storage/badger"

	"github.com/sirupsen/logrus"
)

var (
	ErrReentrantCall      = errors.New("reentrant call rejected")
	ErrInvariantViolation = errors.New("reserve invariant violated")
)

var stateRootKey = []byte("StateRoot")

// Ledger owns the state tree and applies every mutation as one atomic
// step: the operation works on in-memory tree nodes, and only a fully
// successful operation commits nodes and advances the persisted root.
// Any failure reloads the tree at the last committed root, so a half
// applied operation can never be observed.
type Ledger struct {
	stateDB       badger.IStorage
	records       *recordDB
	eventBus      *EventBus
	policy        FeePolicy
	mu            sync.RWMutex
	st            *StateTree
	committedRoot []byte
	busyMu        sync.Mutex
	busyVaults    map[common.Address]bool
	now           func() int64
}

func NewLedger(stateDB, recordStorage badger.IStorage, eventBus *EventBus) (*Ledger, error) {
	l := &Ledger{
		stateDB:    stateDB,
		records:    newRecordDB(recordStorage),
		eventBus:   eventBus,
		policy:     registryFeePolicy{},
		busyVaults: make(map[common.Address]bool),
		now: func() int64 {
			return time.Now().Unix()
		},
	}
	root, err := stateDB.GetData(stateRootKey)
	if err != nil && err != badger.ErrNotFound {
		return nil, err
	}
	l.committedRoot = root
	l.st, err = NewStateTreeN(stateDB, root)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// lockVault takes the per vault guard without blocking. A false return
// means the vault is already executing an operation, which is exactly
// the reentrancy case the guard exists for.
func (l *Ledger) lockVault(addr common.Address) bool {
	l.busyMu.Lock()
	defer l.busyMu.Unlock()
	if l.busyVaults[addr] {
		return false
	}
	l.busyVaults[addr] = true
	return true
}

func (l *Ledger) unlockVault(addr common.Address) {
	l.busyMu.Lock()
	defer l.busyMu.Unlock()
	delete(l.busyVaults, addr)
}

// reload drops every uncommitted change and reopens the tree at the
// last committed root.
func (l *Ledger) reload() {
	l.st = NewStateTree(l.stateDB, l.committedRoot)
}

// commitState folds dirty accounts into the tree, persists the nodes
// and advances the durable root pointer.
func (l *Ledger) commitState() error {
	l.st.UpdateAll()
	if err := l.st.Commit(); err != nil {
		l.reload()
		return err
	}
	root := l.st.Root()
	if err := l.stateDB.SetData(stateRootKey, root); err != nil {
		l.reload()
		return err
	}
	l.committedRoot = root
	return nil
}

func (l *Ledger) Root() common.Hash {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return common.Bytes2Hash(l.st.Root())
}

func (l *Ledger) RootHex() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.RootHex()
}

func (l *Ledger) AccountNonce(addr common.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.GetNonce(addr)
}

// CreateToken registers a standalone token ledger. Tokens created here
// serve as vault underlyings or as free assets for transfers.
func (l *Ledger) CreateToken(creator common.Address, name, symbol string, decimals uint8, taxBps uint16) (common.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tok, err := CreateToken(l.st, creator, name, symbol, decimals, taxBps)
	if err != nil {
		l.reload()
		return common.Address{}, err
	}
	if err := l.commitState(); err != nil {
		return common.Address{}, err
	}
	tokAddr := tok.Address()
	logrus.Infof("Created token %s symbol: %s decimals: %d", tokAddr.B58String(), symbol, decimals)
	l.eventBus.Publish(TokenRegisteredEvent{Token: tokAddr})
	return tokAddr, nil
}

// MintToken credits freshly minted units to a holder. Restricted to the
// token minter.
func (l *Ledger) MintToken(caller, token, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return err
	}
	if err := t.Mint(caller, to, amount); err != nil {
		l.reload()
		return err
	}
	return l.commitState()
}

// TokenTransfer moves holder funds directly.
func (l *Ledger) TokenTransfer(token, from, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return err
	}
	if err := t.Transfer(from, to, amount); err != nil {
		l.reload()
		return err
	}
	return l.commitState()
}

// TokenApprove grants spender rights over holder funds.
func (l *Ledger) TokenApprove(token, owner, spender common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return err
	}
	if err := t.Approve(owner, spender, amount); err != nil {
		l.reload()
		return err
	}
	return l.commitState()
}

func (l *Ledger) TokenBalance(token, holder common.Address) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return nil, err
	}
	return t.BalanceOf(holder), nil
}

func (l *Ledger) TokenAllowance(token, owner, spender common.Address) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return nil, err
	}
	return t.Allowance(owner, spender), nil
}

func (l *Ledger) TokenAuthNonce(token, holder common.Address) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return 0, err
	}
	return t.AuthNonce(holder), nil
}

// TokenMeta is the static face of a token ledger.
type TokenMeta struct {
	Address     common.Address
	Name        string
	Symbol      string
	Decimals    uint8
	Minter      common.Address
	TaxBps      uint16
	TotalSupply *big.Int
}

func (l *Ledger) TokenInfo(token common.Address) (*TokenMeta, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, err := OpenToken(l.st, token)
	if err != nil {
		return nil, err
	}
	return &TokenMeta{
		Address:     t.Address(),
		Name:        t.Name(),
		Symbol:      t.Symbol(),
		Decimals:    t.Decimals(),
		Minter:      t.Minter(),
		TaxBps:      t.TaxBps(),
		TotalSupply: t.TotalSupply(),
	}, nil
}
