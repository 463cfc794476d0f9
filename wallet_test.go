package wrapvault

import (
	"math/big"
	"strconv"
	"testing"

	"wrapvault/assert"
	"wrapvault/crypto"
	"wrapvault/test"
)

func TestWallet_AddByRandom(t *testing.T) {
	w := NewWallet(test.NewMemStorage())
	addr, err := w.AddByRandom()
	assert.Error(t, err)
	assert.VerifyAddress(t, addr)
	// the first key becomes the default
	assert.AddressEq(t, w.GetDefault(), addr)
	raw, err := w.GetWalletNewTime(addr)
	assert.Error(t, err)
	if _, err = strconv.ParseInt(string(raw), 10, 64); err != nil {
		t.Fatal(err)
	}
	all := w.All()
	assert.Equal(t, len(all), 1)
	listed, has := all[addr]
	assert.True(t, has, "address missing from listing")
	key, err := w.GetKeyByAddress(addr)
	assert.Error(t, err)
	assert.PrivateKeyEqual(t, listed, key)
}

func TestWallet_ExportImport(t *testing.T) {
	w := NewWallet(test.NewMemStorage())
	addr, err := w.AddByRandom()
	assert.Error(t, err)
	der, err := w.Export(addr)
	assert.Error(t, err)

	other := NewWallet(test.NewMemStorage())
	got, err := other.Import(der)
	assert.Error(t, err)
	assert.AddressEq(t, got, addr)
	wantKey, err := w.GetKeyByAddress(addr)
	assert.Error(t, err)
	gotKey, err := other.GetKeyByAddress(got)
	assert.Error(t, err)
	assert.PrivateKeyEqual(t, gotKey, wantKey)
}

func TestWallet_SetDefault(t *testing.T) {
	w := NewWallet(test.NewMemStorage())
	first, err := w.AddByRandom()
	assert.Error(t, err)
	second, err := w.AddByRandom()
	assert.Error(t, err)
	assert.AddressEq(t, w.GetDefault(), first)
	assert.Error(t, w.SetDefault(second))
	assert.AddressEq(t, w.GetDefault(), second)
	if err = w.SetDefault(randomAddress()); err == nil {
		t.Fatal("expected error setting an unknown address as default")
	}

	// the default survives a reopen over the same storage
	reopened := NewWallet(w.db.storage)
	assert.AddressEq(t, reopened.GetDefault(), second)
}

func TestWallet_Remove(t *testing.T) {
	w := NewWallet(test.NewMemStorage())
	first, err := w.AddByRandom()
	assert.Error(t, err)
	second, err := w.AddByRandom()
	assert.Error(t, err)
	if err = w.Remove(first); err == nil {
		t.Fatal("expected error removing the default address")
	}
	assert.Error(t, w.Remove(second))
	if _, err = w.GetKeyByAddress(second); err == nil {
		t.Fatal("expected error reading a removed key")
	}
	assert.Equal(t, len(w.All()), 1)
}

func TestWallet_SignAuthorization(t *testing.T) {
	w := NewWallet(test.NewMemStorage())
	holder, err := w.AddByRandom()
	assert.Error(t, err)
	auth := &DepositAuthorization{
		Token:    randomAddress(),
		Holder:   holder,
		Spender:  randomAddress(),
		Amount:   big.NewInt(5000),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	assert.Error(t, w.SignAuthorization(auth))
	assert.Equal(t, len(auth.Signature), crypto.SignatureLength)
	signer, err := auth.Signer()
	assert.Error(t, err)
	assert.AddressEq(t, signer, holder)

	outsider := &DepositAuthorization{
		Token:    auth.Token,
		Holder:   randomAddress(),
		Spender:  auth.Spender,
		Amount:   big.NewInt(5000),
		Deadline: auth.Deadline,
	}
	if err = w.SignAuthorization(outsider); err == nil {
		t.Fatal("expected error signing for a key outside the wallet")
	}
}
