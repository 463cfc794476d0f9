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

package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math/big"

	"wrapvault/common"
	"wrapvault/common/ahash"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const defaultKeyPackType = uint8(1)
const DefaultKeyPackVersion = uint8(1)
const DigestLength = 32

//SignatureLength indicates the byte length required to carry a signature with recovery id.
const SignatureLength = 64 + 1 // 64 bytes ECDSA signature + 1 byte recovery id

var (
	secp256k1N, _  = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	secp256k1halfN = new(big.Int).Div(secp256k1N, big.NewInt(2))
)

// S256 returns the secp256k1 curve.
func S256() elliptic.Curve {
	return ethcrypto.S256()
}

func GenPrvKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(S256(), rand.Reader)
}

func MustGenPrvKey() *ecdsa.PrivateKey {
	key, err := GenPrvKey()
	if err != nil {
		panic(err)
	}
	return key
}

func PubKeyEncode(p ecdsa.PublicKey) []byte {
	if p.Curve == nil || p.X == nil || p.Y == nil {
		return nil
	}
	xbs := p.X.Bytes()
	ybs := p.Y.Bytes()
	buf := make([]byte, len(xbs)+len(ybs))
	copy(buf, append(xbs, ybs...))
	return buf
}

func Checksum(payload []byte) []byte {
	first := ahash.SHA256(payload)
	second := ahash.SHA256(first)
	return second[:common.AddrCheckSumLen]
}

func VerifyAddress(addr common.Address) bool {
	want := Checksum(addr.Payload())
	got := addr.Checksum()
	return bytes.Equal(want, got)
}

func DefaultPubKey2Addr(p ecdsa.PublicKey) common.Address {
	return PubKey2Addr(common.DefaultAddressVersion, p)
}

func PubKey2Addr(version uint8, p ecdsa.PublicKey) common.Address {
	pubEnc := PubKeyEncode(p)
	pubHash256 := ahash.SHA256(pubEnc)
	pubHash := ahash.Ripemd160(pubHash256)
	payload := append([]byte{version}, pubHash...)
	cs := Checksum(payload)
	full := append(payload, cs...)
	return common.Bytes2Address(full)
}

// CreateAddress derives the address of an account created by `creator`
// at sequence `nonce`. The result goes through the same
// hash/ripemd160/checksum pipeline as key-derived addresses, so
// VerifyAddress holds for it.
func CreateAddress(creator common.Address, nonce uint64) common.Address {
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], nonce)
	seed := append(creator.Bytes(), seq[:]...)
	seedHash := ahash.SHA256(seed)
	pubHash := ahash.Ripemd160(seedHash)
	payload := append([]byte{common.DefaultAddressVersion}, pubHash...)
	cs := Checksum(payload)
	full := append(payload, cs...)
	return common.Bytes2Address(full)
}

func EncodePrivateKey(version uint8, key *ecdsa.PrivateKey) []byte {
	dbytes := key.D.Bytes()

	curve := S256()
	curveOrder := curve.Params().N
	privateKey := make([]byte, (curveOrder.BitLen()+7)/8)
	for len(dbytes) > len(privateKey) {
		if dbytes[0] != 0 {
			return nil
		}
		dbytes = dbytes[1:]
	}
	copy(privateKey[len(privateKey)-len(dbytes):], dbytes)

	buf := append([]byte{version, defaultKeyPackType}, privateKey...)
	return buf
}

func DefaultEncodePrivateKey(key *ecdsa.PrivateKey) []byte {
	return EncodePrivateKey(DefaultKeyPackVersion, key)
}

func DecodePrivateKey(bs []byte) (uint8, *ecdsa.PrivateKey, error) {
	if len(bs) <= 2 {
		return 0, nil, errors.New("unknown private key version")
	}
	version := bs[0]
	keytype := bs[1]
	payload := bs[2:]
	priv := new(ecdsa.PrivateKey)
	if keytype == 1 {
		k := new(big.Int).SetBytes(payload)
		curve := S256()
		curveOrder := curve.Params().N
		if k.Cmp(curveOrder) >= 0 {
			return 0, nil, errors.New("invalid elliptic curve private key value")
		}
		priv.Curve = curve
		priv.D = k
		privateKey := make([]byte, (curveOrder.BitLen()+7)/8)
		for len(payload) > len(privateKey) {
			if payload[0] != 0 {
				return 0, nil, errors.New("invalid private key length")
			}
			payload = payload[1:]
		}

		// Some private keys remove all leading zeros, this is also invalid
		// according to [SEC1] but since OpenSSL used to do this, we ignore
		// this too.
		copy(privateKey[len(privateKey)-len(payload):], payload)
		priv.X, priv.Y = curve.ScalarBaseMult(privateKey)
	} else {
		return 0, nil, errors.New("unknown private key encrypt type")
	}

	return version, priv, nil
}

func ByteHash256(raw []byte) common.Hash {
	h := ahash.SHA256(raw)
	return common.Bytes2Hash(h)
}

// ValidateSignatureValues verifies whether the signature values are
// valid. The v value is assumed to be either 0 or 1.
func ValidateSignatureValues(v byte, r, s *big.Int, strict bool) bool {
	if r.Cmp(common.Big1) < 0 || s.Cmp(common.Big1) < 0 {
		return false
	}
	// reject upper range of s values (ECDSA malleability)
	if strict && s.Cmp(secp256k1halfN) > 0 {
		return false
	}
	return r.Cmp(secp256k1N) < 0 && s.Cmp(secp256k1N) < 0 && (v == 0 || v == 1)
}
