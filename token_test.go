package wrapvault

import (
	"math/big"
	"testing"

	"wrapvault/common"
	"wrapvault/crypto"
	"wrapvault/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateToken_DerivedAddress(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	creator := randomAddress()
	want := crypto.CreateAddress(creator, 0)

	tok, err := CreateToken(st, creator, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	tokAddr := tok.Address()
	assert.True(t, tokAddr.Equals(want))
	assert.Equal(t, "Gold Coin", tok.Name())
	assert.Equal(t, "GLD", tok.Symbol())
	assert.Equal(t, uint8(6), tok.Decimals())
	minter := tok.Minter()
	assert.True(t, minter.Equals(creator))
	assert.Equal(t, uint16(0), tok.TaxBps())
	assert.Equal(t, "0", tok.TotalSupply().String())

	// a second creation consumes the next nonce and lands elsewhere
	tok2, err := CreateToken(st, creator, "Silver Coin", "SLV", 2, 0)
	require.NoError(t, err)
	tok2Addr := tok2.Address()
	assert.False(t, tok2Addr.Equals(tok.Address()))
	assert.True(t, tok2Addr.Equals(crypto.CreateAddress(creator, 1)))
}

func TestCreateToken_Validation(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	creator := randomAddress()

	_, err := CreateToken(st, common.Address{}, "Gold Coin", "GLD", 6, 0)
	assert.ErrorIs(t, err, ErrZeroAddress)
	_, err = CreateToken(st, creator, "", "GLD", 6, 0)
	assert.ErrorIs(t, err, ErrBadTokenMeta)
	_, err = CreateToken(st, creator, "Gold Coin", "", 6, 0)
	assert.ErrorIs(t, err, ErrBadTokenMeta)
	_, err = CreateToken(st, creator, "Gold Coin", "GLD", maxTokenDecimals+1, 0)
	assert.ErrorIs(t, err, ErrBadTokenMeta)
	_, err = CreateToken(st, creator, "Gold Coin", "GLD", 6, bpsDenominator+1)
	assert.ErrorIs(t, err, ErrTaxOutOfBounds)
}

func TestOpenToken_Unknown(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	_, err := OpenToken(st, randomAddress())
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestToken_MintBurn(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	minter := randomAddress()
	holder := randomAddress()
	outsider := randomAddress()
	tok, err := CreateToken(st, minter, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)

	require.NoError(t, tok.Mint(minter, holder, big.NewInt(1000)))
	assert.Equal(t, "1000", tok.TotalSupply().String())
	assert.Equal(t, "1000", tok.BalanceOf(holder).String())

	assert.ErrorIs(t, tok.Mint(outsider, holder, big.NewInt(1)), ErrNotMinter)
	assert.ErrorIs(t, tok.Mint(minter, common.Address{}, big.NewInt(1)), ErrZeroAddress)
	assert.ErrorIs(t, tok.Mint(minter, holder, big.NewInt(0)), ErrZeroAmount)
	assert.ErrorIs(t, tok.Mint(minter, holder, nil), ErrZeroAmount)

	require.NoError(t, tok.Burn(minter, holder, big.NewInt(400)))
	assert.Equal(t, "600", tok.TotalSupply().String())
	assert.Equal(t, "600", tok.BalanceOf(holder).String())

	assert.ErrorIs(t, tok.Burn(minter, holder, big.NewInt(700)), ErrInsufficientBalance)
	assert.ErrorIs(t, tok.Burn(outsider, holder, big.NewInt(1)), ErrNotMinter)
}

func TestToken_Transfer(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	minter := randomAddress()
	a := randomAddress()
	b := randomAddress()
	tok, err := CreateToken(st, minter, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	require.NoError(t, tok.Mint(minter, a, big.NewInt(1000)))

	require.NoError(t, tok.Transfer(a, b, big.NewInt(250)))
	assert.Equal(t, "750", tok.BalanceOf(a).String())
	assert.Equal(t, "250", tok.BalanceOf(b).String())
	assert.Equal(t, "1000", tok.TotalSupply().String())

	assert.ErrorIs(t, tok.Transfer(a, b, big.NewInt(800)), ErrInsufficientBalance)
	assert.ErrorIs(t, tok.Transfer(a, common.Address{}, big.NewInt(1)), ErrZeroAddress)
	assert.ErrorIs(t, tok.Transfer(a, b, big.NewInt(0)), ErrZeroAmount)
}

func TestToken_TransferTaxBurns(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	minter := randomAddress()
	a := randomAddress()
	b := randomAddress()
	tok, err := CreateToken(st, minter, "Deflat Coin", "DFL", 6, 250)
	require.NoError(t, err)
	require.NoError(t, tok.Mint(minter, a, big.NewInt(1000)))

	// 2.5% of the moved amount burns in flight
	require.NoError(t, tok.Transfer(a, b, big.NewInt(1000)))
	assert.Equal(t, "0", tok.BalanceOf(a).String())
	assert.Equal(t, "975", tok.BalanceOf(b).String())
	assert.Equal(t, "975", tok.TotalSupply().String())
}

func TestToken_TransferFrom(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	minter := randomAddress()
	owner := randomAddress()
	spender := randomAddress()
	dst := randomAddress()
	tok, err := CreateToken(st, minter, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	require.NoError(t, tok.Mint(minter, owner, big.NewInt(1000)))

	require.NoError(t, tok.Approve(owner, spender, big.NewInt(500)))
	assert.Equal(t, "500", tok.Allowance(owner, spender).String())

	require.NoError(t, tok.TransferFrom(spender, owner, dst, big.NewInt(300)))
	assert.Equal(t, "300", tok.BalanceOf(dst).String())
	assert.Equal(t, "200", tok.Allowance(owner, spender).String())

	assert.ErrorIs(t, tok.TransferFrom(spender, owner, dst, big.NewInt(300)), ErrInsufficientAllowance)

	assert.ErrorIs(t, tok.Approve(owner, common.Address{}, big.NewInt(1)), ErrZeroAddress)
	assert.ErrorIs(t, tok.Approve(owner, spender, big.NewInt(-1)), ErrZeroAmount)
	// approving zero clears the grant
	require.NoError(t, tok.Approve(owner, spender, big.NewInt(0)))
	assert.Equal(t, "0", tok.Allowance(owner, spender).String())
}
