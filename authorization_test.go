package wrapvault

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"wrapvault/common"
	"wrapvault/crypto"
	"wrapvault/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthToken(t *testing.T) (*Token, *ecdsa.PrivateKey, common.Address, common.Address) {
	t.Helper()
	st := NewStateTree(test.NewMemStorage(), nil)
	key := crypto.MustGenPrvKey()
	holder := crypto.DefaultPubKey2Addr(key.PublicKey)
	tok, err := CreateToken(st, holder, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	require.NoError(t, tok.Mint(holder, holder, big.NewInt(100000)))
	spender := crypto.CreateAddress(holder, 77)
	return tok, key, holder, spender
}

func signedAuth(t *testing.T, key *ecdsa.PrivateKey, tok *Token, holder, spender common.Address) *DepositAuthorization {
	t.Helper()
	auth := &DepositAuthorization{
		Token:    tok.Address(),
		Holder:   holder,
		Spender:  spender,
		Amount:   big.NewInt(500),
		Deadline: testNowUnix + 300,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(key))
	return auth
}

func TestAuthorization_SignerRoundtrip(t *testing.T) {
	tok, key, holder, spender := setupAuthToken(t)
	auth := signedAuth(t, key, tok, holder, spender)
	signer, err := auth.Signer()
	require.NoError(t, err)
	assert.True(t, signer.Equals(holder))
	assert.NoError(t, auth.Validate(tok, testNowUnix))
}

func TestAuthorization_Expired(t *testing.T) {
	tok, key, holder, spender := setupAuthToken(t)
	auth := signedAuth(t, key, tok, holder, spender)
	auth.Deadline = testNowUnix - 1
	require.NoError(t, auth.SignWithPrivateKey(key))
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrAuthorizationExpired)

	// an unset deadline never validates
	auth.Deadline = 0
	require.NoError(t, auth.SignWithPrivateKey(key))
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrAuthorizationExpired)
}

func TestAuthorization_WrongSigner(t *testing.T) {
	tok, _, holder, spender := setupAuthToken(t)
	otherKey := crypto.MustGenPrvKey()
	auth := signedAuth(t, otherKey, tok, holder, spender)
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrInvalidSignature)
}

func TestAuthorization_TamperedField(t *testing.T) {
	tok, key, holder, spender := setupAuthToken(t)
	auth := signedAuth(t, key, tok, holder, spender)
	auth.Amount = big.NewInt(501)
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrInvalidSignature)
}

func TestAuthorization_MalformedSignature(t *testing.T) {
	tok, key, holder, spender := setupAuthToken(t)

	auth := signedAuth(t, key, tok, holder, spender)
	auth.Signature = []byte{1, 2, 3}
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrInvalidSignature)

	// recovery id outside {0,1}
	auth = signedAuth(t, key, tok, holder, spender)
	auth.Signature[crypto.SignatureLength-1] = 29
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrInvalidSignature)

	// zero r is rejected before recovery
	auth = signedAuth(t, key, tok, holder, spender)
	for i := 0; i < 32; i++ {
		auth.Signature[i] = 0
	}
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrInvalidSignature)
}

func TestAuthorization_NonceMismatch(t *testing.T) {
	tok, key, holder, spender := setupAuthToken(t)
	auth := signedAuth(t, key, tok, holder, spender)
	auth.Nonce = 5
	require.NoError(t, auth.SignWithPrivateKey(key))
	assert.ErrorIs(t, auth.Validate(tok, testNowUnix), ErrBadAuthorizationNonce)
}

func TestAuthorization_ApplyConsumesNonce(t *testing.T) {
	tok, key, holder, spender := setupAuthToken(t)
	auth := signedAuth(t, key, tok, holder, spender)

	require.NoError(t, auth.Apply(tok, testNowUnix))
	assert.Equal(t, "500", tok.Allowance(holder, spender).String())
	assert.Equal(t, uint64(1), tok.AuthNonce(holder))

	// validate alone never consumes, apply does exactly once
	assert.ErrorIs(t, auth.Apply(tok, testNowUnix), ErrBadAuthorizationNonce)

	// a later grant replaces the standing allowance
	next := signedAuth(t, key, tok, holder, spender)
	next.Amount = big.NewInt(200)
	next.Nonce = 1
	require.NoError(t, next.SignWithPrivateKey(key))
	require.NoError(t, next.Apply(tok, testNowUnix))
	assert.Equal(t, "200", tok.Allowance(holder, spender).String())
}
