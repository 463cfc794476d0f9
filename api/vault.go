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
	"encoding/hex"
	"strconv"

	"wrapvault"
	"wrapvault/common"
)

type VaultAPIHandler struct {
	Ledger *wrapvault.Ledger
	Wallet *wrapvault.Wallet
}

type VaultGetArgs struct {
	Wrapper string `json:"wrapper"`
}

type DepositArgs struct {
	Wrapper string `json:"wrapper"`
	From    string `json:"from"`
	Amount  string `json:"amount"`
}

type WithdrawArgs struct {
	Wrapper string `json:"wrapper"`
	From    string `json:"from"`
	Amount  string `json:"amount"`
}

type PreviewArgs struct {
	Wrapper string `json:"wrapper"`
	Amount  string `json:"amount"`
}

type DepositPreviewResp struct {
	Fee    string `json:"fee"`
	Minted string `json:"minted"`
}

// DepositAuthorizationArgs carries a deposit authorization over the
// wire. Numeric fields travel as decimal strings and the signature as
// 0x-prefixed hex, so a signed authorization returned by
// Wallet.SignAuthorization can be fed back here verbatim.
type DepositAuthorizationArgs struct {
	Token     string `json:"token"`
	Holder    string `json:"holder"`
	Spender   string `json:"spender"`
	Amount    string `json:"amount"`
	Deadline  string `json:"deadline"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

func parseAuthorizationArgs(args DepositAuthorizationArgs) (*wrapvault.DepositAuthorization, error) {
	if args.Token == "" || args.Holder == "" || args.Spender == "" {
		return nil, wrapvault.NewRPCError(-1006, "token, holder and spender not be empty")
	}
	if err := common.AddrCalibrator(args.Token); err != nil {
		return nil, wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err := common.AddrCalibrator(args.Holder); err != nil {
		return nil, wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err := common.AddrCalibrator(args.Spender); err != nil {
		return nil, wrapvault.NewRPCErrorCause(-32001, err)
	}
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return nil, err
	}
	var deadline int64
	if args.Deadline != "" {
		if deadline, err = strconv.ParseInt(args.Deadline, 10, 64); err != nil {
			return nil, wrapvault.NewRPCError(-1006, "deadline parse error")
		}
	}
	var nonce uint64
	if args.Nonce != "" {
		if nonce, err = strconv.ParseUint(args.Nonce, 10, 64); err != nil {
			return nil, wrapvault.NewRPCError(-1006, "nonce parse error")
		}
	}
	auth := &wrapvault.DepositAuthorization{
		Token:    common.StrB58ToAddress(args.Token),
		Holder:   common.StrB58ToAddress(args.Holder),
		Spender:  common.StrB58ToAddress(args.Spender),
		Amount:   amount,
		Deadline: deadline,
		Nonce:    nonce,
	}
	if args.Signature != "" {
		sigEnc := args.Signature
		if len(sigEnc) > 2 && sigEnc[0] == '0' && sigEnc[1] == 'x' {
			sigEnc = sigEnc[2:]
		}
		sig, err := hex.DecodeString(sigEnc)
		if err != nil {
			return nil, wrapvault.NewRPCErrorCause(-1006, err)
		}
		auth.Signature = sig
	}
	return auth, nil
}

func (handler *VaultAPIHandler) Deposit(args DepositArgs, resp **DepositRecordResp) error {
	var fromAddress common.Address
	if args.From == "" {
		fromAddress = handler.Wallet.GetDefault()
	} else {
		if err := common.AddrCalibrator(args.From); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		fromAddress = common.StrB58ToAddress(args.From)
	}
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	rec, err := handler.Ledger.Deposit(wrapper, fromAddress, amount)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	return coverDepositRecord2Resp(rec, resp)
}

func (handler *VaultAPIHandler) DepositWithAuthorization(args DepositAuthorizationArgs, resp **DepositRecordResp) error {
	if args.Signature == "" {
		return wrapvault.NewRPCError(-1006, "signature not be empty")
	}
	auth, err := parseAuthorizationArgs(args)
	if err != nil {
		return err
	}
	rec, err := handler.Ledger.DepositWithAuthorization(auth)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	return coverDepositRecord2Resp(rec, resp)
}

func (handler *VaultAPIHandler) Withdraw(args WithdrawArgs, resp **WithdrawRecordResp) error {
	var fromAddress common.Address
	if args.From == "" {
		fromAddress = handler.Wallet.GetDefault()
	} else {
		if err := common.AddrCalibrator(args.From); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		fromAddress = common.StrB58ToAddress(args.From)
	}
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	rec, err := handler.Ledger.Withdraw(wrapper, fromAddress, amount)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	return coverWithdrawRecord2Resp(rec, resp)
}

func (handler *VaultAPIHandler) PreviewDeposit(args PreviewArgs, resp **DepositPreviewResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	fee, minted, err := handler.Ledger.PreviewDeposit(wrapper, amount)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = &DepositPreviewResp{
		Fee:    fee.Text(10),
		Minted: minted.Text(10),
	}
	return nil
}

func (handler *VaultAPIHandler) PreviewWithdraw(args PreviewArgs, resp *string) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	out, err := handler.Ledger.PreviewWithdraw(wrapper, amount)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = out.Text(10)
	return nil
}

func (handler *VaultAPIHandler) CheckInvariant(args VaultGetArgs, resp **InvariantResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	report, err := handler.Ledger.CheckInvariant(wrapper)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	return coverInvariant2Resp(report, resp)
}

func (handler *VaultAPIHandler) GetInfo(args VaultGetArgs, resp **VaultResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	state, err := handler.Ledger.VaultInfo(wrapper)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	return coverVault2Resp(state, resp)
}

func (handler *VaultAPIHandler) GetDeposits(args VaultGetArgs, resp *[]*DepositRecordResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	records := handler.Ledger.DepositRecords(wrapper)
	result := make([]*DepositRecordResp, 0, len(records))
	for _, rec := range records {
		var item *DepositRecordResp
		if err := coverDepositRecord2Resp(rec, &item); err != nil {
			return errorcase(err)
		}
		result = append(result, item)
	}
	*resp = result
	return nil
}

func (handler *VaultAPIHandler) GetWithdraws(args VaultGetArgs, resp *[]*WithdrawRecordResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	records := handler.Ledger.WithdrawRecords(wrapper)
	result := make([]*WithdrawRecordResp, 0, len(records))
	for _, rec := range records {
		var item *WithdrawRecordResp
		if err := coverWithdrawRecord2Resp(rec, &item); err != nil {
			return errorcase(err)
		}
		result = append(result, item)
	}
	*resp = result
	return nil
}
