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
	"math/big"

	"wrapvault/common"
)

const recordVersion0 = uint32(0)

// VaultCreationRecord pins the birth certificate of a vault: the wrapper
// address, the wrapped asset and the fee rate stamped at creation time.
type VaultCreationRecord struct {
	Version    uint32         `json:"version"`
	Wrapper    common.Address `json:"wrapper"`
	Underlying common.Address `json:"underlying"`
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	FeeRateBps uint16         `json:"fee_rate_bps"`
	Creator    common.Address `json:"creator"`
	Time       int64          `json:"time"`
}

func (r *VaultCreationRecord) Encode() ([]byte, error) {
	return json.Marshal(r)
}

func (r *VaultCreationRecord) Decode(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r *VaultCreationRecord) Hash() common.Hash {
	_, hs, err := common.ObjSHA256(r)
	if err != nil {
		return common.ZeroHash
	}
	return common.Bytes2Hash(hs)
}

// DepositRecord keeps both the requested amount and the amount the vault
// actually received, so fee-on-transfer deposits stay auditable. The
// FeeRetained flag marks fees the vault kept for itself because no
// usable fee recipient was configured at execution time.
type DepositRecord struct {
	Version      uint32         `json:"version"`
	Wrapper      common.Address `json:"wrapper"`
	From         common.Address `json:"from"`
	Amount       *big.Int       `json:"amount"`
	Received     *big.Int       `json:"received"`
	Fee          *big.Int       `json:"fee"`
	Minted       *big.Int       `json:"minted"`
	FeeRecipient common.Address `json:"fee_recipient"`
	FeeRetained  bool           `json:"fee_retained"`
	Time         int64          `json:"time"`
}

func (r *DepositRecord) Encode() ([]byte, error) {
	return json.Marshal(r)
}

func (r *DepositRecord) Decode(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r *DepositRecord) Hash() common.Hash {
	_, hs, err := common.ObjSHA256(r)
	if err != nil {
		return common.ZeroHash
	}
	return common.Bytes2Hash(hs)
}

// WithdrawRecord notes a par redemption of wrapped for underlying.
type WithdrawRecord struct {
	Version uint32         `json:"version"`
	Wrapper common.Address `json:"wrapper"`
	From    common.Address `json:"from"`
	Amount  *big.Int       `json:"amount"`
	Time    int64          `json:"time"`
}

func (r *WithdrawRecord) Encode() ([]byte, error) {
	return json.Marshal(r)
}

func (r *WithdrawRecord) Decode(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r *WithdrawRecord) Hash() common.Hash {
	_, hs, err := common.ObjSHA256(r)
	if err != nil {
		return common.ZeroHash
	}
	return common.Bytes2Hash(hs)
}
