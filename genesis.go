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
	"encoding/json"
	"errors"
	"io"
	"math/big"

	"wrapvault/common"
	"wrapvault/storage/badger"

	"github.com/sirupsen/logrus"
)

var ErrBadGenesis = errors.New("bad genesis")

type GenesisConfig struct {
	StateDB badger.IStorage
	Debug   bool
}

type GenesisToken struct {
	Name     string            `json:"name"`
	Symbol   string            `json:"symbol"`
	Decimals uint8             `json:"decimals"`
	TaxBps   uint16            `json:"tax_bps"`
	Minter   string            `json:"minter"`
	Balances map[string]string `json:"balances"`
}

// Genesis specifies the initial ledger state: the registry owner, the
// starting fee parameters and any pre-seeded token ledgers.
type Genesis struct {
	Version       uint32         `json:"version"`
	Timestamp     string         `json:"timestamp"`
	RegistryOwner string         `json:"registry_owner"`
	FeeRateBps    uint16         `json:"fee_rate_bps"`
	FeeRecipient  string         `json:"fee_recipient"`
	Tokens        []GenesisToken `json:"tokens"`
	GenesisConfig
}

func NewGenesis(config *GenesisConfig, owner string, feeRateBps uint16) *Genesis {
	return &Genesis{
		GenesisConfig: *config,
		RegistryOwner: owner,
		FeeRateBps:    feeRateBps,
	}
}

// WriteGenesisN seeds an empty state database and returns the resulting
// state root. On a database that already carries state it changes
// nothing and returns the existing root.
func (g *Genesis) WriteGenesisN() (common.Hash, error) {
	if old, err := g.StateDB.GetData(stateRootKey); err == nil {
		root := common.Bytes2Hash(old)
		logrus.WithField("root", root.Hex()).Infof("Genesis state")
		return root, nil
	}
	if g.RegistryOwner == "" {
		return common.ZeroHash, ErrBadGenesis
	}
	owner := common.StrB58ToAddress(g.RegistryOwner)
	stateTree := NewStateTree(g.StateDB, nil)
	if err := initRegistry(stateTree, owner, g.FeeRateBps); err != nil {
		return common.ZeroHash, err
	}
	if g.FeeRecipient != "" {
		writeRegistryFeeRecipient(stateTree, common.StrB58ToAddress(g.FeeRecipient))
	}
	for _, gt := range g.Tokens {
		minter := owner
		if gt.Minter != "" {
			minter = common.StrB58ToAddress(gt.Minter)
		}
		tok, err := CreateToken(stateTree, minter, gt.Name, gt.Symbol, gt.Decimals, gt.TaxBps)
		if err != nil {
			return common.ZeroHash, err
		}
		for addr, bal := range gt.Balances {
			amount, ok := new(big.Int).SetString(bal, 10)
			if !ok {
				return common.ZeroHash, ErrBadGenesis
			}
			if err := tok.Mint(minter, common.StrB58ToAddress(addr), amount); err != nil {
				return common.ZeroHash, err
			}
		}
		tokAddr := tok.Address()
		logrus.Debugf("Seeded genesis token: %s (%s)", gt.Name, tokAddr.B58String())
	}
	stateTree.UpdateAll()
	if err := stateTree.Commit(); err != nil {
		return common.ZeroHash, err
	}
	root := stateTree.Root()
	if err := g.StateDB.SetData(stateRootKey, root); err != nil {
		return common.ZeroHash, err
	}
	rootHash := common.Bytes2Hash(root)
	logrus.WithField("root", rootHash.Hex()).Infof("Write genesis state")
	return rootHash, nil
}

// WriteMainNetGenesisN seeds the main network defaults: no fee, no
// pre-seeded tokens.
func (g *Genesis) WriteMainNetGenesisN() (common.Hash, error) {
	g.RegistryOwner = "haF8HrbHByusg6VcCqdjZqMrKasKNv7KN"
	g.FeeRateBps = 0
	g.Tokens = nil
	return g.WriteGenesisN()
}

// WriteTestNetGenesisN seeds the test network defaults: a one percent
// fee and a premined test token to wrap.
func (g *Genesis) WriteTestNetGenesisN() (common.Hash, error) {
	g.RegistryOwner = "bQfi7kVUf2VAUsBk1R9FEzHXdtNtD98bs"
	g.FeeRateBps = 100
	g.Tokens = []GenesisToken{
		{
			Name:     "Test Gold",
			Symbol:   "TGLD",
			Decimals: 9,
			TaxBps:   0,
			Balances: map[string]string{
				"bQfi7kVUf2VAUsBk1R9FEzHXdtNtD98bs": "600000000000000000000000000",
			},
		},
	}
	return g.WriteGenesisN()
}

// WriteGenesisStateN writes the genesis state described by the JSON
// document read from r.
func WriteGenesisStateN(stateDB badger.IStorage, r io.Reader, debug bool) (common.Hash, error) {
	g := new(Genesis)
	if err := json.NewDecoder(r).Decode(g); err != nil {
		return common.ZeroHash, ErrBadGenesis
	}
	g.StateDB = stateDB
	g.Debug = debug
	return g.WriteGenesisN()
}
