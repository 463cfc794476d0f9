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
	"math/big"
	"strconv"

	"wrapvault/common"
	"wrapvault/common/ahash"
	"wrapvault/crypto"
)

var (
	ErrTokenNotFound         = errors.New("token not found")
	ErrTokenExists           = errors.New("token already exists")
	ErrBadTokenMeta          = errors.New("bad token metadata")
	ErrNotMinter             = errors.New("caller is not the token minter")
	ErrZeroAmount            = errors.New("zero amount")
	ErrZeroAddress           = errors.New("zero address")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrTaxOutOfBounds        = errors.New("transfer tax out of bounds")
)

const (
	// bpsDenominator converts basis points to a fraction.
	bpsDenominator   = 10000
	maxTokenDecimals = 18
)

const (
	slotTokenName     = "token:name"
	slotTokenSymbol   = "token:symbol"
	slotTokenDecimals = "token:decimals"
	slotTokenMinter   = "token:minter"
	slotTokenSupply   = "token:supply"
	slotTokenTaxBps   = "token:taxbps"
	slotPrefixBalance = "token:bal:"
	slotPrefixAllow   = "token:alw:"
	slotPrefixANonce  = "token:anonce:"
)

// slotKey derives a fixed storage slot from a label and optional address
// payloads. Labels keep slots of one account apart, the account address
// mixed in by StateObj keeps equal labels of different accounts apart.
func slotKey(label string, addrs ...common.Address) [32]byte {
	buf := []byte(label)
	for _, a := range addrs {
		buf = append(buf, a[:]...)
	}
	var k [32]byte
	copy(k[:], ahash.SHA256(buf))
	return k
}

// Token is a view over one token ledger account. Balances, allowances
// and metadata live in the account's storage slots; the view only binds
// the state tree to the token address.
type Token struct {
	st      *StateTree
	address common.Address
}

// CreateToken registers a new token ledger owned by creator. The token
// address derives from the creator address and its account nonce, so
// repeated creations by one account yield distinct tokens. A taxBps
// above zero makes every transfer burn that fraction from the credited
// side, which models fee-on-transfer assets.
func CreateToken(st *StateTree, creator common.Address, name, symbol string, decimals uint8, taxBps uint16) (*Token, error) {
	if creator.IsZero() {
		return nil, ErrZeroAddress
	}
	if name == "" || symbol == "" {
		return nil, ErrBadTokenMeta
	}
	if decimals > maxTokenDecimals {
		return nil, ErrBadTokenMeta
	}
	if taxBps > bpsDenominator {
		return nil, ErrTaxOutOfBounds
	}
	nonce := st.GetNonce(creator)
	addr := crypto.CreateAddress(creator, nonce)
	if tokenAccountExists(st, addr) {
		return nil, ErrTokenExists
	}
	st.AddNonce(creator, 1)
	initTokenAccount(st, addr, name, symbol, decimals, creator, taxBps)
	return &Token{st: st, address: addr}, nil
}

// initTokenAccount writes the metadata slots of a fresh token ledger.
// Callers are responsible for address uniqueness.
func initTokenAccount(st *StateTree, addr common.Address, name, symbol string, decimals uint8, minter common.Address, taxBps uint16) {
	obj := st.GetOrNewStateObj(addr)
	obj.SetState(slotKey(slotTokenName), []byte(name))
	obj.SetState(slotKey(slotTokenSymbol), []byte(symbol))
	obj.SetState(slotKey(slotTokenDecimals), []byte{decimals})
	obj.SetState(slotKey(slotTokenMinter), minter.Bytes())
	obj.SetState(slotKey(slotTokenTaxBps), []byte(strconv.FormatUint(uint64(taxBps), 10)))
}

func tokenAccountExists(st *StateTree, addr common.Address) bool {
	obj := st.GetStateObj(addr)
	if obj == nil {
		return false
	}
	return obj.GetStateValue(slotKey(slotTokenSymbol)) != nil
}

// OpenToken binds a view to an existing token ledger.
func OpenToken(st *StateTree, addr common.Address) (*Token, error) {
	if !tokenAccountExists(st, addr) {
		return nil, ErrTokenNotFound
	}
	return &Token{st: st, address: addr}, nil
}

func (t *Token) Address() common.Address {
	return t.address
}

func (t *Token) Name() string {
	return string(t.st.GetStateValue(t.address, slotKey(slotTokenName)))
}

func (t *Token) Symbol() string {
	return string(t.st.GetStateValue(t.address, slotKey(slotTokenSymbol)))
}

func (t *Token) Decimals() uint8 {
	val := t.st.GetStateValue(t.address, slotKey(slotTokenDecimals))
	if len(val) != 1 {
		return 0
	}
	return val[0]
}

func (t *Token) Minter() common.Address {
	val := t.st.GetStateValue(t.address, slotKey(slotTokenMinter))
	if val == nil {
		return common.Address{}
	}
	return common.Bytes2Address(val)
}

func (t *Token) TaxBps() uint16 {
	val := t.st.GetStateValue(t.address, slotKey(slotTokenTaxBps))
	if val == nil {
		return 0
	}
	num, err := strconv.ParseUint(string(val), 10, 16)
	if err != nil {
		return 0
	}
	return uint16(num)
}

func (t *Token) readAmount(key [32]byte) *big.Int {
	val := t.st.GetStateValue(t.address, key)
	if len(val) != 32 {
		return new(big.Int)
	}
	var b [32]byte
	copy(b[:], val)
	return common.Bytes32ToAmount(b)
}

func (t *Token) writeAmount(key [32]byte, val *big.Int) error {
	enc, err := common.Amount2Bytes32(val)
	if err != nil {
		return err
	}
	t.st.SetState(t.address, key, enc[:])
	return nil
}

func (t *Token) TotalSupply() *big.Int {
	return t.readAmount(slotKey(slotTokenSupply))
}

func (t *Token) BalanceOf(holder common.Address) *big.Int {
	return t.readAmount(slotKey(slotPrefixBalance, holder))
}

func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	return t.readAmount(slotKey(slotPrefixAllow, owner, spender))
}

// AuthNonce reports the next unused authorization nonce of holder.
func (t *Token) AuthNonce(holder common.Address) uint64 {
	val := t.st.GetStateValue(t.address, slotKey(slotPrefixANonce, holder))
	if val == nil {
		return 0
	}
	num, err := strconv.ParseUint(string(val), 10, 64)
	if err != nil {
		return 0
	}
	return num
}

func (t *Token) bumpAuthNonce(holder common.Address) {
	next := t.AuthNonce(holder) + 1
	t.st.SetState(t.address, slotKey(slotPrefixANonce, holder), []byte(strconv.FormatUint(next, 10)))
}

// Mint credits amount to the given holder and grows the total supply.
// Only the registered minter may call it.
func (t *Token) Mint(caller, to common.Address, amount *big.Int) error {
	if !caller.Equals(t.Minter()) {
		return ErrNotMinter
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	newSupply := new(big.Int).Add(t.TotalSupply(), amount)
	if !common.ValidAmount(newSupply) {
		return common.ErrAmountRange
	}
	if err := t.writeAmount(slotKey(slotTokenSupply), newSupply); err != nil {
		return err
	}
	balKey := slotKey(slotPrefixBalance, to)
	return t.writeAmount(balKey, new(big.Int).Add(t.readAmount(balKey), amount))
}

// Burn removes amount from the given holder and shrinks the total
// supply. Only the registered minter may call it.
func (t *Token) Burn(caller, from common.Address, amount *big.Int) error {
	if !caller.Equals(t.Minter()) {
		return ErrNotMinter
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	balKey := slotKey(slotPrefixBalance, from)
	balance := t.readAmount(balKey)
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.writeAmount(balKey, new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	return t.writeAmount(slotKey(slotTokenSupply), new(big.Int).Sub(t.TotalSupply(), amount))
}

// Transfer moves amount from one holder to another. With a nonzero
// transfer tax the receiver is credited amount minus the taxed part and
// the taxed part leaves the supply, so the received amount has to be
// measured, never assumed.
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	fromKey := slotKey(slotPrefixBalance, from)
	fromBal := t.readAmount(fromKey)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	credited, taxed := applyTax(amount, t.TaxBps())
	if err := t.writeAmount(fromKey, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toKey := slotKey(slotPrefixBalance, to)
	if err := t.writeAmount(toKey, new(big.Int).Add(t.readAmount(toKey), credited)); err != nil {
		return err
	}
	if taxed.Sign() > 0 {
		return t.writeAmount(slotKey(slotTokenSupply), new(big.Int).Sub(t.TotalSupply(), taxed))
	}
	return nil
}

// TransferFrom moves amount from a holder on behalf of spender,
// consuming allowance. The tax rules of Transfer apply unchanged.
func (t *Token) TransferFrom(spender, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	allowKey := slotKey(slotPrefixAllow, from, spender)
	allowed := t.readAmount(allowKey)
	if allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.writeAmount(allowKey, new(big.Int).Sub(allowed, amount))
}

// Approve lets spender move up to amount of owner's balance.
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) error {
	if spender.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrZeroAmount
	}
	return t.writeAmount(slotKey(slotPrefixAllow, owner, spender), amount)
}

// applyTax splits amount into the credited part and the taxed part by
// basis points, rounding the tax down.
func applyTax(amount *big.Int, taxBps uint16) (credited, taxed *big.Int) {
	if taxBps == 0 {
		return amount, new(big.Int)
	}
	taxed = new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(taxBps)))
	taxed.Div(taxed, new(big.Int).SetUint64(bpsDenominator))
	credited = new(big.Int).Sub(amount, taxed)
	return credited, taxed
}
