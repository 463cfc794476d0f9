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
	"strconv"

	"wrapvault/common"
	"wrapvault/crypto"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidUnderlying   = errors.New("invalid underlying token")
	ErrWrapperExists       = errors.New("wrapper already exists for underlying")
	ErrVaultNotFound       = errors.New("vault not found")
	ErrFeeRateOutOfBounds  = errors.New("fee rate out of bounds")
	ErrNotRegistryOwner    = errors.New("caller is not the registry owner")
	ErrRegistryUninitiated = errors.New("registry not initialized")
)

// maxFeeRateBps caps the global entry fee at ten percent.
const maxFeeRateBps = 1000

const (
	slotRegOwner        = "registry:owner"
	slotRegFeeRate      = "registry:feerate"
	slotRegFeeRecipient = "registry:feerecipient"
	slotRegCount        = "registry:count"
	slotRegWrapperIdx   = "registry:wrapper:"
	slotRegByUnder      = "registry:byunderlying:"
)

// registryAddress is the reserved account holding registry state. The
// zero address never creates accounts through the normal path, so the
// derived address cannot collide with a token or vault.
var registryAddress = crypto.CreateAddress(common.ZeroAddr, 0)

func RegistryAddress() common.Address {
	return registryAddress
}

func readRegistryFeeRate(st *StateTree) uint16 {
	val := st.GetStateValue(registryAddress, slotKey(slotRegFeeRate))
	if val == nil {
		return 0
	}
	num, err := strconv.ParseUint(string(val), 10, 16)
	if err != nil {
		return 0
	}
	return uint16(num)
}

func readRegistryFeeRecipient(st *StateTree) common.Address {
	val := st.GetStateValue(registryAddress, slotKey(slotRegFeeRecipient))
	if val == nil {
		return common.Address{}
	}
	return common.Bytes2Address(val)
}

func readRegistryOwner(st *StateTree) common.Address {
	val := st.GetStateValue(registryAddress, slotKey(slotRegOwner))
	if val == nil {
		return common.Address{}
	}
	return common.Bytes2Address(val)
}

func readRegistryVaultCount(st *StateTree) uint64 {
	val := st.GetStateValue(registryAddress, slotKey(slotRegCount))
	if val == nil {
		return 0
	}
	num, err := strconv.ParseUint(string(val), 10, 64)
	if err != nil {
		return 0
	}
	return num
}

func writeRegistryFeeRate(st *StateTree, bps uint16) {
	st.SetState(registryAddress, slotKey(slotRegFeeRate), []byte(strconv.FormatUint(uint64(bps), 10)))
}

func writeRegistryFeeRecipient(st *StateTree, addr common.Address) {
	st.SetState(registryAddress, slotKey(slotRegFeeRecipient), addr.Bytes())
}

// initRegistry seeds the registry account. It runs once from the
// genesis write path.
func initRegistry(st *StateTree, owner common.Address, feeRateBps uint16) error {
	if feeRateBps > maxFeeRateBps {
		return ErrFeeRateOutOfBounds
	}
	st.SetState(registryAddress, slotKey(slotRegOwner), owner.Bytes())
	writeRegistryFeeRate(st, feeRateBps)
	return nil
}

func (l *Ledger) registryInitialized() bool {
	return l.st.GetStateValue(registryAddress, slotKey(slotRegOwner)) != nil
}

func (l *Ledger) RegistryOwner() common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return readRegistryOwner(l.st)
}

// FeeRateBps reports the current global rate stamped into future
// vaults. Existing vaults keep the rate they were born with.
func (l *Ledger) FeeRateBps() uint16 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return readRegistryFeeRate(l.st)
}

// FeeRecipient reports the current destination of collected fees. A
// zero address means vaults retain fees in their own reserves.
func (l *Ledger) FeeRecipient() common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return readRegistryFeeRecipient(l.st)
}

// SetFeeRate replaces the global fee rate for vaults created from now
// on. Restricted to the registry owner.
func (l *Ledger) SetFeeRate(caller common.Address, bps uint16) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.registryInitialized() {
		return ErrRegistryUninitiated
	}
	if !caller.Equals(readRegistryOwner(l.st)) {
		return ErrNotRegistryOwner
	}
	if bps > maxFeeRateBps {
		return ErrFeeRateOutOfBounds
	}
	oldBps := readRegistryFeeRate(l.st)
	writeRegistryFeeRate(l.st, bps)
	if err := l.commitState(); err != nil {
		return err
	}
	logrus.Infof("Changed registry fee rate: %d -> %d bps", oldBps, bps)
	l.eventBus.Publish(FeeRateChangedEvent{OldBps: oldBps, NewBps: bps})
	return nil
}

// SetFeeRecipient repoints where future deposits forward their fee.
// The zero address is legal and switches vaults to retain mode.
// Restricted to the registry owner.
func (l *Ledger) SetFeeRecipient(caller, recipient common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.registryInitialized() {
		return ErrRegistryUninitiated
	}
	if !caller.Equals(readRegistryOwner(l.st)) {
		return ErrNotRegistryOwner
	}
	old := readRegistryFeeRecipient(l.st)
	writeRegistryFeeRecipient(l.st, recipient)
	if err := l.commitState(); err != nil {
		return err
	}
	logrus.Infof("Changed registry fee recipient: %s -> %s", old.B58String(), recipient.B58String())
	l.eventBus.Publish(FeeRecipientChangedEvent{Old: old, New: recipient})
	return nil
}

// CreateVault deploys a wrapper vault over the given underlying token.
// The wrapper account doubles as the receipt token ledger with the
// vault itself as minter, and the fee rate is stamped from the current
// registry rate, immutable afterwards. One underlying gets at most one
// wrapper.
func (l *Ledger) CreateVault(creator, underlying common.Address, name, symbol string) (common.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if creator.IsZero() {
		return common.Address{}, ErrZeroAddress
	}
	if underlying.IsZero() {
		return common.Address{}, ErrInvalidUnderlying
	}
	underlyingToken, err := OpenToken(l.st, underlying)
	if err != nil {
		return common.Address{}, ErrInvalidUnderlying
	}
	if name == "" || symbol == "" {
		return common.Address{}, ErrBadTokenMeta
	}
	if existing := l.vaultByUnderlying(underlying); !existing.IsZero() {
		return common.Address{}, ErrWrapperExists
	}
	rate := l.policy.FeeRateBps(l.st)
	if rate > maxFeeRateBps {
		return common.Address{}, ErrFeeRateOutOfBounds
	}
	nonce := l.st.GetNonce(creator)
	wrapper := crypto.CreateAddress(creator, nonce)
	if tokenAccountExists(l.st, wrapper) {
		return common.Address{}, ErrWrapperExists
	}
	l.st.AddNonce(creator, 1)
	initTokenAccount(l.st, wrapper, name, symbol, underlyingToken.Decimals(), wrapper, 0)
	writeVaultAccount(l.st, wrapper, underlying, rate)

	idx := readRegistryVaultCount(l.st)
	st := l.st
	st.SetState(registryAddress, slotKey(slotRegWrapperIdx+strconv.FormatUint(idx, 10)), wrapper.Bytes())
	st.SetState(registryAddress, slotKey(slotRegByUnder, underlying), wrapper.Bytes())
	st.SetState(registryAddress, slotKey(slotRegCount), []byte(strconv.FormatUint(idx+1, 10)))

	if err := l.commitState(); err != nil {
		return common.Address{}, err
	}
	record := &VaultCreationRecord{
		Version:    recordVersion0,
		Wrapper:    wrapper,
		Underlying: underlying,
		Name:       name,
		Symbol:     symbol,
		FeeRateBps: rate,
		Creator:    creator,
		Time:       l.now(),
	}
	if err := l.records.WriteVaultCreationRecord(record); err != nil {
		logrus.Warnf("Vault created but record write failed: %s", err)
	}
	logrus.Infof("Created vault %s wrapping %s fee rate: %d bps",
		wrapper.B58String(), underlying.B58String(), rate)
	l.eventBus.Publish(VaultCreatedEvent{Record: record})
	return wrapper, nil
}

func (l *Ledger) vaultByUnderlying(underlying common.Address) common.Address {
	val := l.st.GetStateValue(registryAddress, slotKey(slotRegByUnder, underlying))
	if val == nil {
		return common.Address{}
	}
	return common.Bytes2Address(val)
}

// VaultByUnderlying resolves the wrapper registered for an underlying.
func (l *Ledger) VaultByUnderlying(underlying common.Address) (common.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	wrapper := l.vaultByUnderlying(underlying)
	if wrapper.IsZero() {
		return common.Address{}, ErrVaultNotFound
	}
	return wrapper, nil
}

// Vaults lists every wrapper in creation order. The registry is append
// only, so indexes stay stable for the life of the ledger.
func (l *Ledger) Vaults() []common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := readRegistryVaultCount(l.st)
	out := make([]common.Address, 0, count)
	for i := uint64(0); i < count; i++ {
		val := l.st.GetStateValue(registryAddress, slotKey(slotRegWrapperIdx+strconv.FormatUint(i, 10)))
		if val == nil {
			continue
		}
		out = append(out, common.Bytes2Address(val))
	}
	return out
}

func (l *Ledger) VaultCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return readRegistryVaultCount(l.st)
}

// VaultCreation returns the stored creation record of a wrapper.
func (l *Ledger) VaultCreation(wrapper common.Address) *VaultCreationRecord {
	return l.records.GetVaultCreationRecord(wrapper)
}
