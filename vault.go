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
	"fmt"
	"math/big"
	"strconv"

	"wrapvault/common"

	"github.com/sirupsen/logrus"
)

var (
	ErrTransferFailed       = errors.New("underlying transfer failed")
	ErrInsufficientReserves = errors.New("insufficient reserves")
)

const (
	slotVaultUnderlying = "vault:underlying"
	slotVaultFeeRate    = "vault:feerate"
)

func writeVaultAccount(st *StateTree, wrapper, underlying common.Address, feeRateBps uint16) {
	st.SetState(wrapper, slotKey(slotVaultUnderlying), underlying.Bytes())
	st.SetState(wrapper, slotKey(slotVaultFeeRate), []byte(strconv.FormatUint(uint64(feeRateBps), 10)))
}

// vaultView binds the two token ledgers a vault operates on: the
// receipt ledger living in the wrapper account itself and the wrapped
// underlying ledger. The fee rate is the one stamped at creation.
type vaultView struct {
	wrapper    common.Address
	receipt    *Token
	underlying *Token
	feeRateBps uint16
}

func openVault(st *StateTree, wrapper common.Address) (*vaultView, error) {
	receipt, err := OpenToken(st, wrapper)
	if err != nil {
		return nil, ErrVaultNotFound
	}
	rawUnderlying := st.GetStateValue(wrapper, slotKey(slotVaultUnderlying))
	if rawUnderlying == nil {
		return nil, ErrVaultNotFound
	}
	underlying, err := OpenToken(st, common.Bytes2Address(rawUnderlying))
	if err != nil {
		return nil, ErrVaultNotFound
	}
	var rate uint16
	if raw := st.GetStateValue(wrapper, slotKey(slotVaultFeeRate)); raw != nil {
		if num, err := strconv.ParseUint(string(raw), 10, 16); err == nil {
			rate = uint16(num)
		}
	}
	return &vaultView{
		wrapper:    wrapper,
		receipt:    receipt,
		underlying: underlying,
		feeRateBps: rate,
	}, nil
}

// computeFee rounds the entry fee down, so the depositor keeps the
// remainder of any division.
func computeFee(amount *big.Int, rateBps uint16) *big.Int {
	if rateBps == 0 {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(rateBps)))
	return fee.Div(fee, new(big.Int).SetUint64(bpsDenominator))
}

// assertBacking verifies reserves still cover every receipt in
// circulation. Deposit and withdraw run it on entry and again after
// mutating.
func (l *Ledger) assertBacking(v *vaultView) error {
	reserves := v.underlying.BalanceOf(v.wrapper)
	supply := v.receipt.TotalSupply()
	if reserves.Cmp(supply) < 0 {
		l.eventBus.Publish(InvariantBrokenEvent{Wrapper: v.wrapper, Reserves: reserves, Supply: supply})
		return ErrInvariantViolation
	}
	return nil
}

// depositInto runs the mutation steps of a deposit on the open state
// tree. The caller owns locking, rollback on error and the commit.
//
// Order matters here. The fee splits off the requested amount first,
// then the pull is measured by reserve delta so fee-on-transfer
// underlyings recompute both parts from what actually arrived. Receipts
// mint before the fee moves. An unconfigured fee recipient leaves the
// fee in the vault; a configured one that cannot take delivery fails
// the whole deposit.
func (l *Ledger) depositInto(v *vaultView, from common.Address, amount *big.Int) (*DepositRecord, error) {
	if err := l.assertBacking(v); err != nil {
		return nil, err
	}
	if from.IsZero() {
		return nil, ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if !common.ValidAmount(amount) {
		return nil, common.ErrAmountRange
	}
	fee := computeFee(amount, v.feeRateBps)
	minted := new(big.Int).Sub(amount, fee)

	reserveBefore := v.underlying.BalanceOf(v.wrapper)
	if err := v.underlying.TransferFrom(v.wrapper, from, v.wrapper, amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	received := new(big.Int).Sub(v.underlying.BalanceOf(v.wrapper), reserveBefore)
	if received.Cmp(amount) < 0 {
		fee = computeFee(received, v.feeRateBps)
		minted = new(big.Int).Sub(received, fee)
	}
	if minted.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if err := v.receipt.Mint(v.wrapper, from, minted); err != nil {
		return nil, err
	}

	var recipient common.Address
	feeRetained := false
	if fee.Sign() > 0 {
		rcpt, perr := l.policy.FeeRecipient(l.st)
		if perr != nil || rcpt.IsZero() {
			if perr != nil {
				logrus.Warnf("Fee recipient lookup failed, retaining fee: %s", perr)
			}
			feeRetained = true
		} else if err := v.underlying.Transfer(v.wrapper, rcpt, fee); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		} else {
			recipient = rcpt
		}
	}

	if err := l.assertBacking(v); err != nil {
		return nil, err
	}
	return &DepositRecord{
		Version:      recordVersion0,
		Wrapper:      v.wrapper,
		From:         from,
		Amount:       amount,
		Received:     received,
		Fee:          fee,
		Minted:       minted,
		FeeRecipient: recipient,
		FeeRetained:  feeRetained,
		Time:         l.now(),
	}, nil
}

// Deposit pulls approved underlying from the depositor and mints
// receipts for the amount net of the entry fee.
func (l *Ledger) Deposit(wrapper, from common.Address, amount *big.Int) (*DepositRecord, error) {
	if !l.lockVault(wrapper) {
		return nil, ErrReentrantCall
	}
	defer l.unlockVault(wrapper)
	l.mu.Lock()
	defer l.mu.Unlock()
	v, err := openVault(l.st, wrapper)
	if err != nil {
		return nil, err
	}
	record, err := l.depositInto(v, from, amount)
	if err != nil {
		l.reload()
		return nil, err
	}
	if err := l.commitState(); err != nil {
		return nil, err
	}
	if err := l.records.WriteDepositRecord(record); err != nil {
		logrus.Warnf("Deposit applied but record write failed: %s", err)
	}
	logrus.Infof("Deposit %s into vault %s minted: %s fee: %s",
		record.Amount.Text(10), wrapper.B58String(), record.Minted.Text(10), record.Fee.Text(10))
	l.eventBus.Publish(DepositEvent{Record: record})
	return record, nil
}

// DepositWithAuthorization executes a deposit consented through an
// offline signature instead of a prior approve call. The authorization
// nonce is consumed inside the same atomic step as the deposit, so a
// replayed authorization cannot pass again even when the deposit after
// it fails.
func (l *Ledger) DepositWithAuthorization(auth *DepositAuthorization) (*DepositRecord, error) {
	if auth == nil {
		return nil, ErrInvalidSignature
	}
	wrapper := auth.Spender
	if !l.lockVault(wrapper) {
		return nil, ErrReentrantCall
	}
	defer l.unlockVault(wrapper)
	l.mu.Lock()
	defer l.mu.Unlock()
	v, err := openVault(l.st, wrapper)
	if err != nil {
		return nil, err
	}
	underlyingAddr := v.underlying.Address()
	if !underlyingAddr.Equals(auth.Token) {
		return nil, ErrInvalidUnderlying
	}
	if auth.Amount == nil || auth.Amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if err := auth.Apply(v.underlying, l.now()); err != nil {
		l.reload()
		return nil, err
	}
	record, err := l.depositInto(v, auth.Holder, auth.Amount)
	if err != nil {
		l.reload()
		return nil, err
	}
	if err := l.commitState(); err != nil {
		return nil, err
	}
	if err := l.records.WriteDepositRecord(record); err != nil {
		logrus.Warnf("Deposit applied but record write failed: %s", err)
	}
	logrus.Infof("Authorized deposit %s into vault %s minted: %s fee: %s",
		record.Amount.Text(10), wrapper.B58String(), record.Minted.Text(10), record.Fee.Text(10))
	l.eventBus.Publish(DepositEvent{Record: record})
	return record, nil
}

// Withdraw burns receipts and hands back the same amount of underlying
// at par. The holder balance check runs before the reserve check, so an
// over-asking holder sees the balance error even when reserves are
// short too.
func (l *Ledger) Withdraw(wrapper, from common.Address, amount *big.Int) (*WithdrawRecord, error) {
	if !l.lockVault(wrapper) {
		return nil, ErrReentrantCall
	}
	defer l.unlockVault(wrapper)
	l.mu.Lock()
	defer l.mu.Unlock()
	v, err := openVault(l.st, wrapper)
	if err != nil {
		return nil, err
	}
	if err := l.assertBacking(v); err != nil {
		return nil, err
	}
	if from.IsZero() {
		return nil, ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if v.receipt.BalanceOf(from).Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}
	if v.underlying.BalanceOf(v.wrapper).Cmp(amount) < 0 {
		return nil, ErrInsufficientReserves
	}
	if err := v.receipt.Burn(v.wrapper, from, amount); err != nil {
		l.reload()
		return nil, err
	}
	if err := v.underlying.Transfer(v.wrapper, from, amount); err != nil {
		l.reload()
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := l.assertBacking(v); err != nil {
		l.reload()
		return nil, err
	}
	record := &WithdrawRecord{
		Version: recordVersion0,
		Wrapper: wrapper,
		From:    from,
		Amount:  amount,
		Time:    l.now(),
	}
	if err := l.commitState(); err != nil {
		return nil, err
	}
	if err := l.records.WriteWithdrawRecord(record); err != nil {
		logrus.Warnf("Withdraw applied but record write failed: %s", err)
	}
	logrus.Infof("Withdraw %s from vault %s", amount.Text(10), wrapper.B58String())
	l.eventBus.Publish(WithdrawEvent{Record: record})
	return record, nil
}

// PreviewDeposit quotes the nominal fee split for a deposit of amount,
// assuming the underlying transfers in full. A zero amount quotes a
// zero split.
func (l *Ledger) PreviewDeposit(wrapper common.Address, amount *big.Int) (fee, minted *big.Int, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, err := openVault(l.st, wrapper)
	if err != nil {
		return nil, nil, err
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, nil, ErrZeroAmount
	}
	fee = computeFee(amount, v.feeRateBps)
	minted = new(big.Int).Sub(amount, fee)
	return fee, minted, nil
}

// PreviewWithdraw quotes the underlying released for burning amount of
// receipts. Redemption is par, so the quote echoes the amount.
func (l *Ledger) PreviewWithdraw(wrapper common.Address, amount *big.Int) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, err := openVault(l.st, wrapper); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrZeroAmount
	}
	return new(big.Int).Set(amount), nil
}

// InvariantReport is a point-in-time solvency statement of one vault.
type InvariantReport struct {
	Wrapper  common.Address
	Healthy  bool
	Reserves *big.Int
	Supply   *big.Int
}

// CheckInvariant reads reserves and receipt supply without mutating
// anything and reports whether backing still covers every receipt.
func (l *Ledger) CheckInvariant(wrapper common.Address) (*InvariantReport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, err := openVault(l.st, wrapper)
	if err != nil {
		return nil, err
	}
	reserves := v.underlying.BalanceOf(v.wrapper)
	supply := v.receipt.TotalSupply()
	return &InvariantReport{
		Wrapper:  wrapper,
		Healthy:  reserves.Cmp(supply) >= 0,
		Reserves: reserves,
		Supply:   supply,
	}, nil
}

// VaultState is the full queryable face of one vault.
type VaultState struct {
	Wrapper       common.Address
	Underlying    common.Address
	Name          string
	Symbol        string
	Decimals      uint8
	FeeRateBps    uint16
	Reserves      *big.Int
	ReceiptSupply *big.Int
}

func (l *Ledger) VaultInfo(wrapper common.Address) (*VaultState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, err := openVault(l.st, wrapper)
	if err != nil {
		return nil, err
	}
	return &VaultState{
		Wrapper:       wrapper,
		Underlying:    v.underlying.Address(),
		Name:          v.receipt.Name(),
		Symbol:        v.receipt.Symbol(),
		Decimals:      v.receipt.Decimals(),
		FeeRateBps:    v.feeRateBps,
		Reserves:      v.underlying.BalanceOf(v.wrapper),
		ReceiptSupply: v.receipt.TotalSupply(),
	}, nil
}

// DepositRecords lists the audit log of deposits into a wrapper in
// execution order.
func (l *Ledger) DepositRecords(wrapper common.Address) []*DepositRecord {
	return l.records.GetDepositRecords(wrapper)
}

// WithdrawRecords lists the audit log of withdrawals from a wrapper in
// execution order.
func (l *Ledger) WithdrawRecords(wrapper common.Address) []*WithdrawRecord {
	return l.records.GetWithdrawRecords(wrapper)
}
