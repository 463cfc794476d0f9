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
	"wrapvault/common"
)

// FeePolicy answers the two fee questions a vault asks: which rate to
// stamp into a vault being created and where to send collected fees
// right now. Rates bind at creation time and never change for a vault,
// the recipient is looked up again on every deposit. A failed or zero
// recipient lookup is never fatal, the vault retains the fee instead.
type FeePolicy interface {
	FeeRateBps(st *StateTree) uint16
	FeeRecipient(st *StateTree) (common.Address, error)
}

// registryFeePolicy reads both answers from the registry account.
type registryFeePolicy struct{}

func (registryFeePolicy) FeeRateBps(st *StateTree) uint16 {
	return readRegistryFeeRate(st)
}

func (registryFeePolicy) FeeRecipient(st *StateTree) (common.Address, error) {
	return readRegistryFeeRecipient(st), nil
}
