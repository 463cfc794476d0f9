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
	"bytes"
	"math/big"
)

var b58Alphabet = []byte("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz")

// B58Encode encodes a byte slice to the base58 alphabet,
// leading zero bytes map to the first alphabet symbol.
func B58Encode(input []byte) []byte {
	var result []byte
	x := new(big.Int).SetBytes(input)
	base := big.NewInt(int64(len(b58Alphabet)))
	zero := big.NewInt(0)
	mod := new(big.Int)
	for x.Cmp(zero) != 0 {
		x.DivMod(x, base, mod)
		result = append(result, b58Alphabet[mod.Int64()])
	}
	for _, b := range input {
		if b != 0x00 {
			break
		}
		result = append(result, b58Alphabet[0])
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// B58Decode decodes base58 data, returns nil if an
// out-of-alphabet symbol occurs.
func B58Decode(input []byte) []byte {
	result := big.NewInt(0)
	zeros := 0
	for _, b := range input {
		if b != b58Alphabet[0] {
			break
		}
		zeros += 1
	}
	for _, b := range input {
		index := bytes.IndexByte(b58Alphabet, b)
		if index < 0 {
			return nil
		}
		result.Mul(result, big.NewInt(int64(len(b58Alphabet))))
		result.Add(result, big.NewInt(int64(index)))
	}
	decoded := result.Bytes()
	if zeros > 0 {
		tmp := make([]byte, zeros)
		decoded = append(tmp, decoded...)
	}
	return decoded
}
