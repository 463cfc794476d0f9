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

type RegistryAPIHandler struct {
	Ledger *wrapvault.Ledger
	Wallet *wrapvault.Wallet
}

type CreateVaultArgs struct {
	From       string `json:"from"`
	Underlying string `json:"underlying"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
}

type GetVaultByUnderlyingArgs struct {
	Underlying string `json:"underlying"`
}

type GetCreationArgs struct {
	Wrapper string `json:"wrapper"`
}

type SetFeeRateArgs struct {
	From    string `json:"from"`
	RateBps string `json:"rate_bps"`
}

type SetFeeRecipientArgs struct {
	From      string `json:"from"`
	Recipient string `json:"recipient"`
}

func (handler *RegistryAPIHandler) CreateVault(args CreateVaultArgs, resp *string) error {
	var fromAddress common.Address
	if args.From == "" {
		fromAddress = handler.Wallet.GetDefault()
	} else {
		if err := common.AddrCalibrator(args.From); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		fromAddress = common.StrB58ToAddress(args.From)
	}
	if args.Underlying == "" {
		return wrapvault.NewRPCError(-1006, "underlying not be empty")
	}
	if err := common.AddrCalibrator(args.Underlying); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	underlying := common.StrB58ToAddress(args.Underlying)
	wrapper, err := handler.Ledger.CreateVault(fromAddress, underlying, args.Name, args.Symbol)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = wrapper.B58String()
	return nil
}

func (handler *RegistryAPIHandler) GetVaults(_ EmptyArgs, resp *[]*VaultResp) error {
	wrappers := handler.Ledger.Vaults()
	result := make([]*VaultResp, 0)
	for _, wrapper := range wrappers {
		state, err := handler.Ledger.VaultInfo(wrapper)
		if err != nil {
			return errorcase(err)
		}
		var item *VaultResp
		if err = coverVault2Resp(state, &item); err != nil {
			return errorcase(err)
		}
		result = append(result, item)
	}
	*resp = result
	return nil
}

func (handler *RegistryAPIHandler) GetVaultByUnderlying(args GetVaultByUnderlyingArgs, resp *string) error {
	if args.Underlying == "" {
		return wrapvault.NewRPCError(-1006, "underlying not be empty")
	}
	if err := common.AddrCalibrator(args.Underlying); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	underlying := common.StrB58ToAddress(args.Underlying)
	wrapper, err := handler.Ledger.VaultByUnderlying(underlying)
	if err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = wrapper.B58String()
	return nil
}

func (handler *RegistryAPIHandler) GetVaultCount(_ EmptyArgs, resp *string) error {
	*resp = strconv.FormatUint(handler.Ledger.VaultCount(), 10)
	return nil
}

func (handler *RegistryAPIHandler) GetCreation(args GetCreationArgs, resp **VaultCreationResp) error {
	if args.Wrapper == "" {
		return wrapvault.NewRPCError(-1006, "wrapper not be empty")
	}
	if err := common.AddrCalibrator(args.Wrapper); err != nil {
		return wrapvault.NewRPCErrorCause(-32001, err)
	}
	wrapper := common.StrB58ToAddress(args.Wrapper)
	rec := handler.Ledger.VaultCreation(wrapper)
	if rec == nil {
		return wrapvault.NewRPCError(-1006, "not found vault")
	}
	return coverCreation2Resp(rec, resp)
}

func (handler *RegistryAPIHandler) GetFeeRate(_ EmptyArgs, resp *uint16) error {
	*resp = handler.Ledger.FeeRateBps()
	return nil
}

func (handler *RegistryAPIHandler) SetFeeRate(args SetFeeRateArgs, resp *string) error {
	var fromAddress common.Address
	if args.From == "" {
		fromAddress = handler.Wallet.GetDefault()
	} else {
		if err := common.AddrCalibrator(args.From); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		fromAddress = common.StrB58ToAddress(args.From)
	}
	if args.RateBps == "" {
		return wrapvault.NewRPCError(-1006, "rate_bps not be empty")
	}
	rate, err := strconv.ParseUint(args.RateBps, 10, 16)
	if err != nil {
		return wrapvault.NewRPCError(-1006, "rate_bps parse error")
	}
	if err = handler.Ledger.SetFeeRate(fromAddress, uint16(rate)); err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = ""
	return nil
}

func (handler *RegistryAPIHandler) GetFeeRecipient(_ EmptyArgs, resp *string) error {
	recipient := handler.Ledger.FeeRecipient()
	if recipient.IsZero() {
		return nil
	}
	*resp = recipient.B58String()
	return nil
}

func (handler *RegistryAPIHandler) SetFeeRecipient(args SetFeeRecipientArgs, resp *string) error {
	var fromAddress common.Address
	if args.From == "" {
		fromAddress = handler.Wallet.GetDefault()
	} else {
		if err := common.AddrCalibrator(args.From); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		fromAddress = common.StrB58ToAddress(args.From)
	}
	// An empty recipient clears the forwarding target and the registry
	// starts retaining fees in the vaults again.
	var recipient common.Address
	if args.Recipient != "" {
		if err := common.AddrCalibrator(args.Recipient); err != nil {
			return wrapvault.NewRPCErrorCause(-32001, err)
		}
		recipient = common.StrB58ToAddress(args.Recipient)
	}
	if err := handler.Ledger.SetFeeRecipient(fromAddress, recipient); err != nil {
		return wrapvault.NewRPCErrorCause(-32603, err)
	}
	*resp = ""
	return nil
}

func (handler *RegistryAPIHandler) GetOwner(_ EmptyArgs, resp *string) error {
	owner := handler.Ledger.RegistryOwner()
	if owner.IsZero() {
		return nil
	}
	*resp = owner.B58String()
	return nil
}
