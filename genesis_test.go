package wrapvault

import (
	"testing"

	"wrapvault/common"
	"wrapvault/crypto"
	"wrapvault/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGenesis(t *testing.T) {
	stateDB := test.NewMemStorage()
	owner := randomAddress()
	g := NewGenesis(&GenesisConfig{StateDB: stateDB}, owner.B58String(), 250)
	root, err := g.WriteGenesisN()
	require.NoError(t, err)
	assert.NotEqual(t, common.ZeroHash, root)

	ledger, err := NewLedger(stateDB, test.NewMemStorage(), NewEventBus())
	require.NoError(t, err)
	gotOwner := ledger.RegistryOwner()
	assert.True(t, gotOwner.Equals(owner))
	assert.Equal(t, uint16(250), ledger.FeeRateBps())
	feeRecipient := ledger.FeeRecipient()
	assert.True(t, feeRecipient.IsZero())
	assert.Equal(t, uint64(0), ledger.VaultCount())
}

func TestWriteGenesis_Idempotent(t *testing.T) {
	stateDB := test.NewMemStorage()
	owner := randomAddress()
	g := NewGenesis(&GenesisConfig{StateDB: stateDB}, owner.B58String(), 100)
	root1, err := g.WriteGenesisN()
	require.NoError(t, err)

	// a second write with different parameters must not disturb state
	other := randomAddress()
	g2 := NewGenesis(&GenesisConfig{StateDB: stateDB}, other.B58String(), 900)
	root2, err := g2.WriteGenesisN()
	require.NoError(t, err)
	assert.Equal(t, root1, root2)

	ledger, err := NewLedger(stateDB, test.NewMemStorage(), NewEventBus())
	require.NoError(t, err)
	gotOwner := ledger.RegistryOwner()
	assert.True(t, gotOwner.Equals(owner))
	assert.Equal(t, uint16(100), ledger.FeeRateBps())
}

func TestWriteGenesis_SeedTokens(t *testing.T) {
	stateDB := test.NewMemStorage()
	owner := randomAddress()
	holder := randomAddress()
	g := NewGenesis(&GenesisConfig{StateDB: stateDB}, owner.B58String(), 0)
	g.FeeRecipient = owner.B58String()
	g.Tokens = []GenesisToken{
		{
			Name:     "Seed Gold",
			Symbol:   "SGLD",
			Decimals: 4,
			Balances: map[string]string{holder.B58String(): "1000000"},
		},
	}
	_, err := g.WriteGenesisN()
	require.NoError(t, err)

	ledger, err := NewLedger(stateDB, test.NewMemStorage(), NewEventBus())
	require.NoError(t, err)
	feeRecipient := ledger.FeeRecipient()
	assert.True(t, feeRecipient.Equals(owner))

	// the minter defaults to the registry owner, so the token address
	// derives from the owner's first nonce
	tokAddr := crypto.CreateAddress(owner, 0)
	meta, err := ledger.TokenInfo(tokAddr)
	require.NoError(t, err)
	assert.Equal(t, "SGLD", meta.Symbol)
	assert.Equal(t, uint8(4), meta.Decimals)
	assert.Equal(t, "1000000", meta.TotalSupply.String())
	bal, err := ledger.TokenBalance(tokAddr, holder)
	require.NoError(t, err)
	assert.Equal(t, "1000000", bal.String())
}

func TestWriteGenesis_Rejections(t *testing.T) {
	g := NewGenesis(&GenesisConfig{StateDB: test.NewMemStorage()}, "", 0)
	_, err := g.WriteGenesisN()
	assert.ErrorIs(t, err, ErrBadGenesis)

	owner := randomAddress()
	g = NewGenesis(&GenesisConfig{StateDB: test.NewMemStorage()}, owner.B58String(), 0)
	g.Tokens = []GenesisToken{
		{
			Name:     "Bad Coin",
			Symbol:   "BAD",
			Balances: map[string]string{owner.B58String(): "not-a-number"},
		},
	}
	_, err = g.WriteGenesisN()
	assert.ErrorIs(t, err, ErrBadGenesis)

	g = NewGenesis(&GenesisConfig{StateDB: test.NewMemStorage()}, owner.B58String(), maxFeeRateBps+1)
	_, err = g.WriteGenesisN()
	assert.ErrorIs(t, err, ErrFeeRateOutOfBounds)
}

func TestWriteMainNetGenesis(t *testing.T) {
	stateDB := test.NewMemStorage()
	g := &Genesis{GenesisConfig: GenesisConfig{StateDB: stateDB}}
	_, err := g.WriteMainNetGenesisN()
	require.NoError(t, err)

	ledger, err := NewLedger(stateDB, test.NewMemStorage(), NewEventBus())
	require.NoError(t, err)
	owner := common.StrB58ToAddress("haF8HrbHByusg6VcCqdjZqMrKasKNv7KN")
	gotOwner := ledger.RegistryOwner()
	assert.True(t, gotOwner.Equals(owner))
	assert.Equal(t, uint16(0), ledger.FeeRateBps())
}

func TestWriteTestNetGenesis(t *testing.T) {
	stateDB := test.NewMemStorage()
	g := &Genesis{GenesisConfig: GenesisConfig{StateDB: stateDB}}
	_, err := g.WriteTestNetGenesisN()
	require.NoError(t, err)

	ledger, err := NewLedger(stateDB, test.NewMemStorage(), NewEventBus())
	require.NoError(t, err)
	owner := common.StrB58ToAddress("bQfi7kVUf2VAUsBk1R9FEzHXdtNtD98bs")
	gotOwner := ledger.RegistryOwner()
	assert.True(t, gotOwner.Equals(owner))
	assert.Equal(t, uint16(100), ledger.FeeRateBps())

	// the premined test token is ready to wrap
	tokAddr := crypto.CreateAddress(owner, 0)
	meta, err := ledger.TokenInfo(tokAddr)
	require.NoError(t, err)
	assert.Equal(t, "TGLD", meta.Symbol)
	assert.Equal(t, uint8(9), meta.Decimals)
	bal, err := ledger.TokenBalance(tokAddr, owner)
	require.NoError(t, err)
	assert.Equal(t, "600000000000000000000000000", bal.String())
}
