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

package common

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Ledger amounts live in the unsigned 256-bit range. Values are carried
// as *big.Int in memory and as fixed 32-byte big-endian words on the
// record wire format.

var ErrAmountRange = errors.New("amount out of the uint256 range")

// ValidAmount reports whether x is a usable ledger amount: non-nil,
// non-negative and within 256 bits.
func ValidAmount(x *big.Int) bool {
	if x == nil || x.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(x)
	return !overflow
}

// Amount2Bytes32 packs an amount into a 32-byte big-endian word.
func Amount2Bytes32(x *big.Int) ([32]byte, error) {
	var out [32]byte
	if x == nil || x.Sign() < 0 {
		return out, ErrAmountRange
	}
	z, overflow := uint256.FromBig(x)
	if overflow {
		return out, ErrAmountRange
	}
	out = z.Bytes32()
	return out, nil
}

// Bytes32ToAmount unpacks a 32-byte big-endian word back to *big.Int.
func Bytes32ToAmount(b [32]byte) *big.Int {
	z := new(uint256.Int).SetBytes32(b[:])
	return z.ToBig()
}
