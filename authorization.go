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
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"math/big"
	"strconv"

	"wrapvault/common"
	"wrapvault/crypto"

	"github.com/sirupsen/logrus"
)

var (
	ErrAuthorizationExpired  = errors.New("authorization expired")
	ErrBadAuthorizationNonce = errors.New("bad authorization nonce")
	ErrInvalidSignature      = errors.New("invalid signature")
)

// DepositAuthorization is an off-chain signed consent that lets a vault
// pull tokens from the holder without a prior approve call. The nonce
// binds it to one use, the deadline bounds how long it stays valid and
// the signature covers every field, so a relayed authorization cannot
// be altered in flight.
type DepositAuthorization struct {
	Token     common.Address `json:"token"`
	Holder    common.Address `json:"holder"`
	Spender   common.Address `json:"spender"`
	Amount    *big.Int       `json:"amount"`
	Deadline  int64          `json:"deadline"`
	Nonce     uint64         `json:"nonce"`
	Signature []byte         `json:"signature"`
}

func (a *DepositAuthorization) Encode() ([]byte, error) {
	return json.Marshal(a)
}

func (a *DepositAuthorization) Decode(data []byte) error {
	return json.Unmarshal(data, a)
}

// SignHash digests every field except the signature itself.
func (a *DepositAuthorization) SignHash() common.Hash {
	amount := ""
	if a.Amount != nil {
		amount = a.Amount.Text(10)
	}
	tmp := map[string]string{
		"token":    a.Token.String(),
		"holder":   a.Holder.String(),
		"spender":  a.Spender.String(),
		"amount":   amount,
		"deadline": strconv.FormatInt(a.Deadline, 10),
		"nonce":    strconv.FormatUint(a.Nonce, 10),
	}
	enc := common.SortAndEncodeMap(tmp)
	if enc == "" {
		return common.Hash{}
	}
	return crypto.ByteHash256([]byte(enc))
}

func (a *DepositAuthorization) SignWithPrivateKey(key *ecdsa.PrivateKey) error {
	hash := a.SignHash()
	sig, err := crypto.ECDSASign(hash.Bytes(), key)
	if err != nil {
		return err
	}
	a.Signature = sig
	return nil
}

func (a *DepositAuthorization) publicKey() (*ecdsa.PublicKey, error) {
	if len(a.Signature) != crypto.SignatureLength {
		return nil, ErrInvalidSignature
	}
	r := new(big.Int).SetBytes(a.Signature[:32])
	s := new(big.Int).SetBytes(a.Signature[32:64])
	if !crypto.ValidateSignatureValues(a.Signature[64], r, s, true) {
		return nil, ErrInvalidSignature
	}
	hash := a.SignHash()
	return crypto.SigToPub(hash[:], a.Signature)
}

// Signer recovers the address that produced the signature.
func (a *DepositAuthorization) Signer() (common.Address, error) {
	pub, err := a.publicKey()
	if err != nil {
		logrus.Warnf("Failed parse signer addr by signature: %s", err)
		return common.Address{}, err
	}
	addr := crypto.DefaultPubKey2Addr(*pub)
	return addr, nil
}

// Validate checks deadline, signature and replay nonce against the
// token ledger. It does not consume the nonce.
func (a *DepositAuthorization) Validate(t *Token, now int64) error {
	if a.Deadline <= 0 || now > a.Deadline {
		return ErrAuthorizationExpired
	}
	signer, err := a.Signer()
	if err != nil {
		return ErrInvalidSignature
	}
	if !signer.Equals(a.Holder) {
		return ErrInvalidSignature
	}
	if a.Nonce != t.AuthNonce(a.Holder) {
		return ErrBadAuthorizationNonce
	}
	return nil
}

// Apply validates the authorization, consumes its nonce and sets the
// spender's allowance to the authorized amount, replacing any earlier
// grant.
func (a *DepositAuthorization) Apply(t *Token, now int64) error {
	if err := a.Validate(t, now); err != nil {
		return err
	}
	t.bumpAuthNonce(a.Holder)
	return t.Approve(a.Holder, a.Spender, a.Amount)
}

func (a *DepositAuthorization) String() string {
	jsondata, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	return string(jsondata)
}
