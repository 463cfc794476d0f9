package wrapvault

import (
	"math/big"
	"testing"

	"wrapvault/common"
	"wrapvault/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVault(t *testing.T) {
	tl := setupLedger(t, 100)
	tokSub := tl.bus.Subscript(TokenRegisteredEvent{})
	underlying, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	tokEv := waitEvent(t, tokSub).(TokenRegisteredEvent)
	assert.True(t, tokEv.Token.Equals(underlying))
	sub := tl.bus.Subscript(VaultCreatedEvent{})

	wrapper, err := tl.CreateVault(tl.owner, underlying, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	assert.False(t, wrapper.IsZero())

	got, err := tl.VaultByUnderlying(underlying)
	require.NoError(t, err)
	assert.True(t, got.Equals(wrapper))
	assert.Equal(t, uint64(1), tl.VaultCount())
	// token creation and vault creation each consumed a creator nonce
	assert.Equal(t, uint64(2), tl.AccountNonce(tl.owner))

	// the wrapper account doubles as the receipt token with itself as
	// minter, decimals copied from the underlying
	meta, err := tl.TokenInfo(wrapper)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped Gold", meta.Name)
	assert.Equal(t, "wGLD", meta.Symbol)
	assert.Equal(t, uint8(6), meta.Decimals)
	assert.True(t, meta.Minter.Equals(wrapper))
	assert.Equal(t, uint16(0), meta.TaxBps)

	creation := tl.VaultCreation(wrapper)
	require.NotNil(t, creation)
	assert.Equal(t, uint16(100), creation.FeeRateBps)
	assert.True(t, creation.Creator.Equals(tl.owner))
	assert.True(t, creation.Underlying.Equals(underlying))
	assert.Equal(t, testNowUnix, creation.Time)

	ev := waitEvent(t, sub).(VaultCreatedEvent)
	assert.True(t, ev.Record.Wrapper.Equals(wrapper))
}

func TestCreateVault_Rejections(t *testing.T) {
	tl := setupLedger(t, 100)
	underlying, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)

	_, err = tl.CreateVault(common.Address{}, underlying, "Wrapped Gold", "wGLD")
	assert.ErrorIs(t, err, ErrZeroAddress)
	_, err = tl.CreateVault(tl.owner, common.Address{}, "Wrapped Gold", "wGLD")
	assert.ErrorIs(t, err, ErrInvalidUnderlying)
	_, err = tl.CreateVault(tl.owner, tl.owner, "Wrapped Gold", "wGLD")
	assert.ErrorIs(t, err, ErrInvalidUnderlying)
	_, err = tl.CreateVault(tl.owner, underlying, "", "wGLD")
	assert.ErrorIs(t, err, ErrBadTokenMeta)
	_, err = tl.CreateVault(tl.owner, underlying, "Wrapped Gold", "")
	assert.ErrorIs(t, err, ErrBadTokenMeta)
}

func TestCreateVault_OnePerUnderlying(t *testing.T) {
	tl := setupLedger(t, 100)
	underlying, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	wrapper, err := tl.CreateVault(tl.owner, underlying, "Wrapped Gold", "wGLD")
	require.NoError(t, err)

	// anyone may create vaults, but one underlying gets exactly one
	_, err = tl.CreateVault(tl.holder, underlying, "Wrapped Gold 2", "wGLD2")
	assert.ErrorIs(t, err, ErrWrapperExists)

	got, err := tl.VaultByUnderlying(underlying)
	require.NoError(t, err)
	assert.True(t, got.Equals(wrapper))
	assert.Equal(t, uint64(1), tl.VaultCount())
}

func TestCreateVault_StampsCurrentRate(t *testing.T) {
	tl := setupLedger(t, 100)
	u1, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	u2, err := tl.CreateToken(tl.owner, "Silver Coin", "SLV", 2, 0)
	require.NoError(t, err)

	v1, err := tl.CreateVault(tl.owner, u1, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	require.NoError(t, tl.SetFeeRate(tl.owner, 300))
	v2, err := tl.CreateVault(tl.owner, u2, "Wrapped Silver", "wSLV")
	require.NoError(t, err)

	i1, err := tl.VaultInfo(v1)
	require.NoError(t, err)
	i2, err := tl.VaultInfo(v2)
	require.NoError(t, err)
	assert.Equal(t, uint16(100), i1.FeeRateBps)
	assert.Equal(t, uint16(300), i2.FeeRateBps)
	assert.Equal(t, uint16(300), tl.FeeRateBps())
}

func TestFeeRecipient_LookedUpPerDeposit(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, underlying := tl.newFundedVault(t, 0, 20000)

	r1, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	assert.True(t, r1.FeeRetained)

	// the vault predates the recipient change, the new destination
	// applies to its deposits anyway
	treasury := randomAddress()
	require.NoError(t, tl.SetFeeRecipient(tl.owner, treasury))
	r2, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	assert.False(t, r2.FeeRetained)
	assert.True(t, r2.FeeRecipient.Equals(treasury))

	treasuryBal, err := tl.TokenBalance(underlying, treasury)
	require.NoError(t, err)
	assert.Equal(t, "100", treasuryBal.String())
}

func TestSetFeeRate(t *testing.T) {
	tl := setupLedger(t, 100)
	assert.ErrorIs(t, tl.SetFeeRate(tl.holder, 50), ErrNotRegistryOwner)
	assert.ErrorIs(t, tl.SetFeeRate(tl.owner, maxFeeRateBps+1), ErrFeeRateOutOfBounds)

	sub := tl.bus.Subscript(FeeRateChangedEvent{})
	require.NoError(t, tl.SetFeeRate(tl.owner, maxFeeRateBps))
	assert.Equal(t, uint16(maxFeeRateBps), tl.FeeRateBps())
	ev := waitEvent(t, sub).(FeeRateChangedEvent)
	assert.Equal(t, uint16(100), ev.OldBps)
	assert.Equal(t, uint16(maxFeeRateBps), ev.NewBps)
}

func TestSetFeeRecipient(t *testing.T) {
	tl := setupLedger(t, 100)
	treasury := randomAddress()
	sub := tl.bus.Subscript(FeeRecipientChangedEvent{})
	assert.ErrorIs(t, tl.SetFeeRecipient(tl.holder, treasury), ErrNotRegistryOwner)

	require.NoError(t, tl.SetFeeRecipient(tl.owner, treasury))
	feeRecipient := tl.FeeRecipient()
	assert.True(t, feeRecipient.Equals(treasury))
	ev := waitEvent(t, sub).(FeeRecipientChangedEvent)
	assert.True(t, ev.Old.IsZero())
	assert.True(t, ev.New.Equals(treasury))

	// the zero address is legal and switches vaults back to retain mode
	require.NoError(t, tl.SetFeeRecipient(tl.owner, common.Address{}))
	feeRecipient = tl.FeeRecipient()
	assert.True(t, feeRecipient.IsZero())
	ev = waitEvent(t, sub).(FeeRecipientChangedEvent)
	assert.True(t, ev.Old.Equals(treasury))
	assert.True(t, ev.New.IsZero())
}

func TestRegistry_Uninitialized(t *testing.T) {
	ledger, err := NewLedger(test.NewMemStorage(), test.NewMemStorage(), NewEventBus())
	require.NoError(t, err)
	someone := randomAddress()
	assert.ErrorIs(t, ledger.SetFeeRate(someone, 10), ErrRegistryUninitiated)
	assert.ErrorIs(t, ledger.SetFeeRecipient(someone, someone), ErrRegistryUninitiated)
}

func TestVaults_CreationOrder(t *testing.T) {
	tl := setupLedger(t, 100)
	symbols := []string{"GLD", "SLV", "CPR"}
	names := []string{"Gold Coin", "Silver Coin", "Copper Coin"}
	wrappers := make([]common.Address, 0, 3)
	for i := range symbols {
		u, err := tl.CreateToken(tl.owner, names[i], symbols[i], 6, 0)
		require.NoError(t, err)
		w, err := tl.CreateVault(tl.owner, u, "Wrapped "+names[i], "w"+symbols[i])
		require.NoError(t, err)
		wrappers = append(wrappers, w)
	}
	got := tl.Vaults()
	require.Len(t, got, 3)
	for i := range wrappers {
		assert.True(t, got[i].Equals(wrappers[i]), "index %d", i)
	}
	assert.Equal(t, uint64(3), tl.VaultCount())
}

func TestRegistry_ReopenKeepsIndex(t *testing.T) {
	tl := setupLedger(t, 100)
	u1, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	u2, err := tl.CreateToken(tl.owner, "Silver Coin", "SLV", 2, 0)
	require.NoError(t, err)
	v1, err := tl.CreateVault(tl.owner, u1, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	v2, err := tl.CreateVault(tl.owner, u2, "Wrapped Silver", "wSLV")
	require.NoError(t, err)

	reopened, err := NewLedger(tl.stateDB, tl.recordsDB, NewEventBus())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), reopened.VaultCount())
	got1, err := reopened.VaultByUnderlying(u1)
	require.NoError(t, err)
	assert.True(t, got1.Equals(v1))
	got2, err := reopened.VaultByUnderlying(u2)
	require.NoError(t, err)
	assert.True(t, got2.Equals(v2))
	require.NotNil(t, reopened.VaultCreation(v1))

	_, err = reopened.VaultByUnderlying(randomAddress())
	assert.ErrorIs(t, err, ErrVaultNotFound)
}
