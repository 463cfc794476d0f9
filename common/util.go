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
	"encoding/json"

	"wrapvault/common/ahash"
	"wrapvault/common/rawencode"
)

// MarshalIndent renders val for terminal output.
func MarshalIndent(val interface{}) ([]byte, error) {
	return json.MarshalIndent(val, "", "    ")
}

func ObjSHA256(obj rawencode.RawEncoder) ([]byte, []byte, error) {
	data, err := rawencode.Encode(obj)
	if err != nil {
		return nil, nil, err
	}
	hash := ahash.SHA256(data)
	return data, hash, nil
}

func Objcopy(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}
	var err error
	bs, err := json.Marshal(src)
	if err != nil {
		return err
	}
	err = json.Unmarshal(bs, dst)
	return err
}
