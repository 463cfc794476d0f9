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

package api

import (
	"bytes"
	"encoding/hex"

	"wrapvault"
	"wrapvault/common"
	"wrapvault/storage/badger"
)

type StateAPIHandler struct {
	StateDb badger.IStorage
	Ledger  *wrapvault.Ledger
}

type GetAccountArgs struct {
	RootHash string `json:"root_hash"`
	Address  string `json:"address"`
}

type GetStateValueArgs struct {
	RootHash string `json:"root_hash"`
	Address  string `json:"address"`
	Key      string `json:"key"`
}

func coverState2Resp(state *wrapvault.StateObj, dst **StateObjResp) error {
	if state == nil {
		return nil
	}
	result := new(StateObjResp)
	address := state.GetAddress()
	result.Address = address.B58String()
	result.Nonce = state.GetNonce()
	stateRoot := state.GetStateRoot()
	if !bytes.Equal(stateRoot[:], common.HashZ[:]) {
		result.StateRoot = &stateRoot
	}
	*dst = result
	return nil
}

// rootOrCurrent resolves the optional root_hash argument. An empty
// argument reads through the ledger's committed root so callers see the
// latest state, a hex root pins the query to a historical snapshot.
func (state *StateAPIHandler) rootOrCurrent(rootHash string) ([]byte, error) {
	if rootHash == "" {
		root := state.Ledger.Root()
		return root[:], nil
	}
	if err := common.HashCalibrator(rootHash); err != nil {
		return nil, wrapvault.NewRPCErrorCause(-32001, err)
	}
	return common.Hex2bytes(rootHash), nil
}

func (state *StateAPIHandler) GetAccount(args GetAccountArgs, resp **StateObjResp) error {
	statehash, err := state.rootOrCurrent(args.RootHash)
	if err != nil {
		return err
	}
	if args.Address == "" {
		return wrapvault.NewRPCError(-32601, "Address not found")
	}
	if err = common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}

	stateTree := wrapvault.NewStateTree(state.StateDb, statehash)

	address := common.B58ToAddress([]byte(args.Address))

	data := stateTree.GetStateObj(address)
	return coverState2Resp(data, resp)
}

func (state *StateAPIHandler) GetNonce(args GetAccountArgs, resp *uint64) error {
	statehash, err := state.rootOrCurrent(args.RootHash)
	if err != nil {
		return err
	}
	if args.Address == "" {
		return wrapvault.NewRPCError(-32601, "Address not found")
	}
	if err = common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}

	stateTree := wrapvault.NewStateTree(state.StateDb, statehash)

	address := common.B58ToAddress([]byte(args.Address))

	*resp = stateTree.GetNonce(address)
	return nil
}

func (state *StateAPIHandler) GetStateValue(args GetStateValueArgs, resp *string) error {
	statehash, err := state.rootOrCurrent(args.RootHash)
	if err != nil {
		return err
	}
	if args.Address == "" {
		return wrapvault.NewRPCError(-32601, "Address not found")
	}
	if err = common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if args.Key == "" {
		return wrapvault.NewRPCError(-1006, "key not be empty")
	}
	if err = common.HashCalibrator(args.Key); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}

	stateTree := wrapvault.NewStateTree(state.StateDb, statehash)

	address := common.B58ToAddress([]byte(args.Address))
	key := common.Hex2Hash(args.Key)

	value := stateTree.GetStateValue(address, key)
	if value == nil {
		*resp = ""
		return nil
	}
	*resp = "0x" + hex.EncodeToString(value)
	return nil
}

func (state *StateAPIHandler) GetRoot(_ EmptyArgs, resp *string) error {
	*resp = state.Ledger.RootHex()
	return nil
}
