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

package sub

type getAccountArgs struct {
	RootHash string `json:"root_hash"`
	Address  string `json:"address"`
}

type getStateValueArgs struct {
	RootHash string `json:"root_hash"`
	Address  string `json:"address"`
	Key      string `json:"key"`
}

type getWalletByAddressArgs struct {
	Address string `json:"address"`
}

type walletImportArgs struct {
	Key string `json:"key"`
}

type setWalletAddrDefArgs struct {
	Address string `json:"address"`
}

type createVaultArgs struct {
	From       string `json:"from"`
	Underlying string `json:"underlying"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
}

type vaultGetArgs struct {
	Wrapper string `json:"wrapper"`
}

type getVaultByUnderlyingArgs struct {
	Underlying string `json:"underlying"`
}

type getCreationArgs struct {
	Wrapper string `json:"wrapper"`
}

type depositArgs struct {
	Wrapper string `json:"wrapper"`
	From    string `json:"from"`
	Amount  string `json:"amount"`
}

type withdrawArgs struct {
	Wrapper string `json:"wrapper"`
	From    string `json:"from"`
	Amount  string `json:"amount"`
}

type previewArgs struct {
	Wrapper string `json:"wrapper"`
	Amount  string `json:"amount"`
}

type setFeeRateArgs struct {
	From    string `json:"from"`
	RateBps string `json:"rate_bps"`
}

type setFeeRecipientArgs struct {
	From      string `json:"from"`
	Recipient string `json:"recipient"`
}

type tokenCreateArgs struct {
	From     string `json:"from"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals string `json:"decimals"`
	TaxBps   string `json:"tax_bps"`
}

type tokenGetArgs struct {
	Address string `json:"address"`
}

type tokenMintArgs struct {
	From   string `json:"from"`
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type tokenTransferArgs struct {
	From   string `json:"from"`
	Token  string `json:"token"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type tokenApproveArgs struct {
	From    string `json:"from"`
	Token   string `json:"token"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type tokenBalanceArgs struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type tokenAllowanceArgs struct {
	Token   string `json:"token"`
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

type tokenAuthNonceArgs struct {
	Token   string `json:"token"`
	Address string `json:"address"`
}

type signAuthorizationArgs struct {
	Token    string `json:"token"`
	Holder   string `json:"holder"`
	Spender  string `json:"spender"`
	Amount   string `json:"amount"`
	Deadline string `json:"deadline"`
	Nonce    string `json:"nonce"`
}

type depositAuthorizationArgs struct {
	Token     string `json:"token"`
	Holder    string `json:"holder"`
	Spender   string `json:"spender"`
	Amount    string `json:"amount"`
	Deadline  string `json:"deadline"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

type auditorReportArgs struct {
	Wrapper string `json:"wrapper"`
}
