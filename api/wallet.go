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
	"sort"
	"strconv"

	"wrapvault"
	"wrapvault/common"
)

type WalletHandler struct {
	Wallet *wrapvault.Wallet
	Ledger *wrapvault.Ledger
}

type WalletByAddressArgs struct {
	Address string `json:"address"`
}

type WalletImportArgs struct {
	Key string `json:"key"`
}

type SetDefaultAddrArgs struct {
	Address string `json:"address"`
}

type SignAuthorizationArgs struct {
	Token    string `json:"token"`
	Holder   string `json:"holder"`
	Spender  string `json:"spender"`
	Amount   string `json:"amount"`
	Deadline string `json:"deadline"`
	Nonce    string `json:"nonce"`
}

func (handler *WalletHandler) Create(_ EmptyArgs, resp *string) error {
	addr, err := handler.Wallet.AddByRandom()
	if err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	*resp = addr.B58String()
	return nil
}

func (handler *WalletHandler) Del(args WalletByAddressArgs, resp *interface{}) error {
	if args.Address == "" {
		return wrapvault.NewRPCError(-1006, "del wallet address not null")
	}
	if err := common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	addr := common.StrB58ToAddress(args.Address)
	err := handler.Wallet.Remove(addr)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	return nil
}

func (handler *WalletHandler) List(_ EmptyArgs, resp *[]common.Address) error {
	data := handler.Wallet.All()
	var out Wallets
	for addr := range data {
		r, err := handler.Wallet.GetWalletNewTime(addr)
		if err != nil {
			return err
		}
		newTime, _ := strconv.ParseInt(string(r), 10, 64)
		req := &Wallet{
			addr:    addr,
			newTime: newTime,
		}
		out = append(out, req)
	}

	sort.Sort(out)
	result := make([]common.Address, 0)
	for i := 0; i < len(out); i++ {
		result = append(result, out[i].addr)
	}

	*resp = result
	return nil
}

func (handler *WalletHandler) GetDefaultAddress(_ EmptyArgs, resp *string) error {
	address := handler.Wallet.GetDefault()
	if address.IsZero() {
		return nil
	}
	*resp = address.B58String()
	return nil
}

func (handler *WalletHandler) SetDefaultAddress(args SetDefaultAddrArgs, _ **string) error {
	if args.Address == "" {
		return wrapvault.NewRPCError(-1006, "parameter cannot be empty")
	}
	if err := common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	addr := common.StrB58ToAddress(args.Address)
	if err := handler.Wallet.SetDefault(addr); err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	return nil
}

func (handler *WalletHandler) ExportByAddress(args WalletByAddressArgs, resp *string) error {
	if args.Address == "" {
		return wrapvault.NewRPCError(-1006, "parameter cannot be empty")
	}
	if err := common.AddrCalibrator(args.Address); err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	addr := common.StrB58ToAddress(args.Address)
	pk, err := handler.Wallet.Export(addr)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	*resp = "0x" + hex.EncodeToString(pk)
	return nil
}

func (handler *WalletHandler) ImportByPrivateKey(args WalletImportArgs, resp *string) error {
	if args.Key == "" {
		return wrapvault.NewRPCError(-1006, "parameter cannot be empty")
	}
	if len([]byte(args.Key)) < 70 {
		return wrapvault.NewRPCError(-1006, "Key address rule error")
	}
	keyEnc := args.Key

	if keyEnc[0] == '0' && keyEnc[1] == 'x' {
		keyEnc = keyEnc[2:]
	} else {
		return wrapvault.NewRPCError(-1006, "Binary forward backward error")
	}
	keyDer, err := hex.DecodeString(keyEnc)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	addr, err := handler.Wallet.Import(keyDer)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	*resp = addr.B58String()
	return nil
}

// SignAuthorization builds and signs a deposit authorization with a key
// held by this wallet. An empty holder falls back to the default
// address, an empty spender resolves to the vault registered for the
// token and an empty nonce picks up the holder's next unused one, so a
// caller normally only supplies token and amount. The returned args can
// be submitted to Vault.DepositWithAuthorization as they are.
func (handler *WalletHandler) SignAuthorization(args SignAuthorizationArgs, resp **DepositAuthorizationArgs) error {
	if args.Token == "" {
		return wrapvault.NewRPCError(-1006, "token not be empty")
	}
	if err := common.AddrCalibrator(args.Token); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	token := common.StrB58ToAddress(args.Token)
	var holder common.Address
	if args.Holder == "" {
		holder = handler.Wallet.GetDefault()
	} else {
		if err := common.AddrCalibrator(args.Holder); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		holder = common.StrB58ToAddress(args.Holder)
	}
	var spender common.Address
	if args.Spender == "" {
		wrapper, err := handler.Ledger.VaultByUnderlying(token)
		if err != nil {
			return wrapvault.NewRPCErrorCause(-32603, err)
		}
		spender = wrapper
	} else {
		if err := common.AddrCalibrator(args.Spender); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		spender = common.StrB58ToAddress(args.Spender)
	}
	amount, err := parseAmountArg(args.Amount)
	if err != nil {
		return err
	}
	var deadline int64
	if args.Deadline != "" {
		if deadline, err = strconv.ParseInt(args.Deadline, 10, 64); err != nil {
			return wrapvault.NewRPCError(-1006, "deadline parse error")
		}
	}
	var nonce uint64
	if args.Nonce == "" {
		if nonce, err = handler.Ledger.TokenAuthNonce(token, holder); err != nil {
			return wrapvault.NewRPCErrorCause(-32603, err)
		}
	} else {
		if nonce, err = strconv.ParseUint(args.Nonce, 10, 64); err != nil {
			return wrapvault.NewRPCError(-1006, "nonce parse error")
		}
	}
	auth := &wrapvault.DepositAuthorization{
		Token:    token,
		Holder:   holder,
		Spender:  spender,
		Amount:   amount,
		Deadline: deadline,
		Nonce:    nonce,
	}
	if err = handler.Wallet.SignAuthorization(auth); err != nil {
		return wrapvault.NewRPCErrorCause(-6001, err)
	}
	result := &DepositAuthorizationArgs{
		Token:     auth.Token.B58String(),
		Holder:    auth.Holder.B58String(),
		Spender:   auth.Spender.B58String(),
		Amount:    auth.Amount.Text(10),
		Deadline:  strconv.FormatInt(auth.Deadline, 10),
		Nonce:     strconv.FormatUint(auth.Nonce, 10),
		Signature: "0x" + hex.EncodeToString(auth.Signature),
	}
	*resp = result
	return nil
}
