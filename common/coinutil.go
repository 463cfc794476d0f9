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

	"github.com/shopspring/decimal"
)

// Display-unit conversion for token amounts. Ledger arithmetic always
// runs on base units; only the CLI and RPC edges convert.

var (
	ErrBadAmountString = errors.New("unparsable amount string")
	ErrAmountPrecision = errors.New("amount has more fraction digits than the token allows")
)

// ParseAmount converts a display-unit decimal string into base units
// for a token with the given decimals. "1.5" with decimals 2 is 150.
func ParseAmount(s string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrBadAmountString
	}
	if d.Sign() < 0 {
		return nil, ErrBadAmountString
	}
	if int32(decimals) < -d.Exponent() {
		return nil, ErrAmountPrecision
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, ErrAmountPrecision
	}
	return scaled.BigInt(), nil
}

// FormatAmount renders base units as a display-unit decimal string.
func FormatAmount(x *big.Int, decimals uint8) string {
	if x == nil {
		return "0"
	}
	d := decimal.NewFromBigInt(x, -int32(decimals))
	return d.String()
}
