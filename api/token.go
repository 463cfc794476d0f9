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
	"strconv"

	"wrapvault"
	"wrapvault/common"
)

type TokenApiHandler struct {
	Ledger *wrapvault.Ledger
	Wallet *wrapvault.Wallet
}

type TokenCreateArgs struct {
	From     string `json:"from"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals string `json:"decimals"`
	TaxBps   string `json:"tax_bps"`
}

type TokenGetArgs struct {
	Address string `json:"address"`
}

type TokenMintArgs struct {
	From   string `json:"from"`
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TokenTransferArgs struct {
	From   string `json:"from"`
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type TokenApproveArgs struct {
	From    string `json:"from"`
	Token   string `json:"token"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type TokenBalanceArgs struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type TokenAllowanceArgs struct {
	Token   string `json:"token"`
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

type TokenAuthNonceArgs struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

func (handler *TokenApiHandler) resolveFrom(from string) (common.Address, error) {
	if from == "" {
		return handler.Wallet.GetDefault(), nil
	}
	if err := common.AddrCalibrator(from); err != nil {
		return common.Address{}, wrapvault.NewRPCErrorCause(-32001, err)
	}
	return common.StrB58ToAddress(from), nil
}

func (handler *TokenApiHandler) Create(args TokenCreateArgs, resp *string) error {
	fromAddress, err := handler.resolveFrom(args.From)
	if err != nil {
		return err
	}
	var decimals uint64
	if args.Decimals != "" {
		if decimals, err = strconv.ParseUint(args.Decimals, 10, 8); err != nil {
			return wrapvault.NewRPCError(-1006, "decimals parse error")
		}
	}
	var taxBps uint64
	if args.TaxBps != "" {
		if taxBps, err = strconv.ParseUint(args.TaxBps, 10, 16); err != nil {
			return wrapvault.NewRPCError(-1006, "tax_bps parse error")
		}
	}
	token, err := handler.Ledger.CreateToken(fromAddress, args.Name, args.Symbol, uint8(decimals), uint16(taxBps))
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = token.B58String()
	return nil
}

func (handler *TokenApiHandler) Mint(args TokenMintArgs, resp *string) error {
	fromAddress, err := handler.resolveFrom(args.From)
	if err != nil {
		return err
	}
	if args.Token == "" || args.To == "" {
		return wrapvault.NewRPCError(-1006, "token and to not be empty")
	}
	if err = common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err = common.AddrCalibrator(args.To); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	token := common.StrB58ToAddress(args.Token)
	to := common.StrB58ToAddress(args.To)
	if err = handler.Ledger.MintToken(fromAddress, token, to, amount); err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = ""
	return nil
}

func (handler *TokenApiHandler) Transfer(args TokenTransferArgs, resp *string) error {
	fromAddress, err := handler.resolveFrom(args.From)
	if err != nil {
		return err
	}
	if args.Token == "" || args.To == "" {
		return wrapvault.NewRPCError(-1006, "token and to not be empty")
	}
	if err = common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err = common.AddrCalibrator(args.To); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	token := common.StrB58ToAddress(args.Token)
	to := common.StrB58ToAddress(args.To)
	if err = handler.Ledger.TokenTransfer(token, fromAddress, to, amount); err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = ""
	return nil
}

func (handler *TokenApiHandler) Approve(args TokenApproveArgs, resp *string) error {
	fromAddress, err := handler.resolveFrom(args.From)
	if err != nil {
		return err
	}
	if args.Token == "" || args.Spender == "" {
		return wrapvault.NewRPCError(-1006, "token and spender not be empty")
	}
	if err = common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err = common.AddrCalibrator(args.Spender); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	token := common.StrB58ToAddress(args.Token)
	spender := common.StrB58ToAddress(args.Spender)
	if err = handler.Ledger.TokenApprove(token, fromAddress, spender, amount); err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = ""
	return nil
}

func (handler *TokenApiHandler) GetBalance(args TokenBalanceArgs, resp *string) error {
	if args.Token == "" || args.Address == "" {
		return wrapvault.NewRPCError(-1006, "token and address not be empty")
	}
	if err := common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err := common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	token := common.StrB58ToAddress(args.Token)
	holder := common.StrB58ToAddress(args.Address)
	balance, err := handler.Ledger.TokenBalance(token, holder)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = balance.Text(10)
	return nil
}

func (handler *TokenApiHandler) GetAllowance(args TokenAllowanceArgs, resp *string) error {
	if args.Token == "" || args.Owner == "" || args.Spender == "" {
		return wrapvault.NewRPCError(-1006, "token, owner and spender not be empty")
	}
	if err := common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err := common.AddrCalibrator(args.Owner); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err := common.AddrCalibrator(args.Spender); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	token := common.StrB58ToAddress(args.Token)
	owner := common.StrB58ToAddress(args.Owner)
	spender := common.StrB58ToAddress(args.Spender)
	allowance, err := handler.Ledger.TokenAllowance(token, owner, spender)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = allowance.Text(10)
	return nil
}

func (handler *TokenApiHandler) GetAuthNonce(args TokenAuthNonceArgs, resp *uint64) error {
	if args.Token == "" || args.Address == "" {
		return wrapvault.NewRPCError(-1006, "token and address not be empty")
	}
	if err := common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	if err := common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	token := common.StrB58ToAddress(args.Token)
	holder := common.StrB58ToAddress(args.Address)
	nonce, err := handler.Ledger.TokenAuthNonce(token, holder)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = nonce
	return nil
}

func (handler *TokenApiHandler) GetInfo(args TokenGetArgs, resp **TokenResp) error {
	if args.Address == "" {
		return wrapvault.NewRPCError(-1006, "address not be empty")
	}
	if err := common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	token := common.StrB58ToAddress(args.Address)
	meta, err := handler.Ledger.TokenInfo(token)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	return coverToken2Resp(meta, resp)
}
