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

package api

import (
	"wrapvault"
	"wrapvault/common"
)

type EmptyArgs = interface{}

type TokenResp struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	Minter      string `json:"minter"`
	TaxBps      uint16 `json:"tax_bps"`
	TotalSupply string `json:"total_supply"`
}

type VaultResp struct {
	Wrapper       string `json:"wrapper"`
	Underlying    string `json:"underlying"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Decimals      uint8  `json:"decimals"`
	FeeRateBps    uint16 `json:"fee_rate_bps"`
	Reserves      string `json:"reserves"`
	ReceiptSupply string `json:"receipt_supply"`
}

type InvariantResp struct {
	Wrapper  string `json:"wrapper"`
	Healthy  bool   `json:"healthy"`
	Reserves string `json:"reserves"`
	Supply   string `json:"supply"`
}

type DepositRecordResp struct {
	Hash         common.Hash `json:"hash"`
	Wrapper      string      `json:"wrapper"`
	From         string      `json:"from"`
	Amount       string      `json:"amount"`
	Received     string      `json:"received"`
	Fee          string      `json:"fee"`
	Minted       string      `json:"minted"`
	FeeRecipient string      `json:"fee_recipient"`
	FeeRetained  bool        `json:"fee_retained"`
	Time         int64       `json:"time"`
}

type WithdrawRecordResp struct {
	Hash    common.Hash `json:"hash"`
	Wrapper string      `json:"wrapper"`
	From    string      `json:"from"`
	Amount  string      `json:"amount"`
	Time    int64       `json:"time"`
}

type VaultCreationResp struct {
	Hash       common.Hash `json:"hash"`
	Wrapper    string      `json:"wrapper"`
	Underlying string      `json:"underlying"`
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	FeeRateBps uint16      `json:"fee_rate_bps"`
	Creator    string      `json:"creator"`
	Time       int64       `json:"time"`
}

type StateObjResp struct {
	Address   string       `json:"address"`
	Nonce     uint64       `json:"nonce"`
	StateRoot *common.Hash `json:"state_root"`
}

type AuditStatusResp struct {
	Status        bool             `json:"status"`
	LastStartTime string           `json:"last_start_time"`
	SweepInterval uint32           `json:"sweep_interval"`
	Reports       []*InvariantResp `json:"reports"`
}

type Wallet struct {
	addr    common.Address
	newTime int64
}

type Wallets []*Wallet

func (a Wallets) Len() int {
	return len(a)
}

func (a Wallets) Less(i, j int) bool {
	return a[i].newTime > a[j].newTime
}

func (a Wallets) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

func coverToken2Resp(meta *wrapvault.TokenMeta, dst **TokenResp) error {
	if meta == nil {
		return nil
	}
	result := &TokenResp{
		Address:     meta.Address.B58String(),
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		Decimals:    meta.Decimals,
		Minter:      meta.Minter.B58String(),
		TaxBps:      meta.TaxBps,
		TotalSupply: meta.TotalSupply.Text(10),
	}
	*dst = result
	return nil
}

func coverVault2Resp(state *wrapvault.VaultState, dst **VaultResp) error {
	if state == nil {
		return nil
	}
	result := &VaultResp{
		Wrapper:       state.Wrapper.B58String(),
		Underlying:    state.Underlying.B58String(),
		Name:          state.Name,
		Symbol:        state.Symbol,
		Decimals:      state.Decimals,
		FeeRateBps:    state.FeeRateBps,
		Reserves:      state.Reserves.Text(10),
		ReceiptSupply: state.ReceiptSupply.Text(10),
	}
	*dst = result
	return nil
}

func coverInvariant2Resp(report *wrapvault.InvariantReport, dst **InvariantResp) error {
	if report == nil {
		return nil
	}
	result := &InvariantResp{
		Wrapper:  report.Wrapper.B58String(),
		Healthy:  report.Healthy,
		Reserves: report.Reserves.Text(10),
		Supply:   report.Supply.Text(10),
	}
	*dst = result
	return nil
}

func coverDepositRecord2Resp(rec *wrapvault.DepositRecord, dst **DepositRecordResp) error {
	if rec == nil {
		return nil
	}
	result := &DepositRecordResp{
		Hash:        rec.Hash(),
		Wrapper:     rec.Wrapper.B58String(),
		From:        rec.From.B58String(),
		Amount:      rec.Amount.Text(10),
		Received:    rec.Received.Text(10),
		Fee:         rec.Fee.Text(10),
		Minted:      rec.Minted.Text(10),
		FeeRetained: rec.FeeRetained,
		Time:        rec.Time,
	}
	if !rec.FeeRecipient.IsZero() {
		result.FeeRecipient = rec.FeeRecipient.B58String()
	}
	*dst = result
	return nil
}

func coverWithdrawRecord2Resp(rec *wrapvault.WithdrawRecord, dst **WithdrawRecordResp) error {
	if rec == nil {
		return nil
	}
	result := &WithdrawRecordResp{
		Hash:    rec.Hash(),
		Wrapper: rec.Wrapper.B58String(),
		From:    rec.From.B58String(),
		Amount:  rec.Amount.Text(10),
		Time:    rec.Time,
	}
	*dst = result
	return nil
}

func coverCreation2Resp(rec *wrapvault.VaultCreationRecord, dst **VaultCreationResp) error {
	if rec == nil {
		return nil
	}
	result := new(VaultCreationResp)
	if err := common.Objcopy(rec, result); err != nil {
		return err
	}
	result.Hash = rec.Hash()
	*dst = result
	return nil
}
