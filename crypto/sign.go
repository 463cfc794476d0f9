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
	"crypto/ecdsa"
	"errors"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ECDSASign signs a 32-byte digest and returns a 65-byte signature in
// [R || S || V] form, V being the recovery id (0 or 1).
func ECDSASign(digestHash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(digestHash) != DigestLength {
		return nil, errors.New("digest must be 32 bytes")
	}
	return ethcrypto.Sign(digestHash, prv)
}

// SigToPub recovers the public key that produced the given signature.
func SigToPub(digestHash, sig []byte) (*ecdsa.PublicKey, error) {
	if len(sig) != SignatureLength {
		return nil, errors.New("signature must be 65 bytes")
	}
	return ethcrypto.SigToPub(digestHash, sig)
}

// ECDSAVerifySignature checks a signature (with or without the trailing
// recovery id) against the given public key and digest.
func ECDSAVerifySignature(pub ecdsa.PublicKey, digestHash, sig []byte) bool {
	if len(sig) == SignatureLength {
		sig = sig[:SignatureLength-1]
	}
	if len(sig) != SignatureLength-1 {
		return false
	}
	pubBytes := ethcrypto.FromECDSAPub(&pub)
	return ethcrypto.VerifySignature(pubBytes, digestHash, sig)
}
