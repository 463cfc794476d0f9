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
	"math/big"

	"wrapvault/common"
)

type TokenRegisteredEvent struct {
	Token common.Address
}

type VaultCreatedEvent struct {
	Record *VaultCreationRecord
}

type DepositEvent struct {
	Record *DepositRecord
}

type WithdrawEvent struct {
	Record *WithdrawRecord
}

type FeeRateChangedEvent struct {
	OldBps uint16
	NewBps uint16
}

type FeeRecipientChangedEvent struct {
	Old common.Address
	New common.Address
}

// InvariantBrokenEvent fires when a reserve check observes backing below
// the outstanding receipt supply. The mutation that caused it is rolled
// back before the event is published.
type InvariantBrokenEvent struct {
	Wrapper  common.Address
	Reserves *big.Int
	Supply   *big.Int
}
