package wrapvault

import (
	"errors"
	"math/big"
	"testing"

	"wrapvault/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeposit_SplitsFee(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, underlying := tl.newFundedVault(t, 0, 10000)
	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	assert.Equal(t, "100", record.Fee.String())
	assert.Equal(t, "9900", record.Minted.String())
	assert.Equal(t, "10000", record.Received.String())
	assert.True(t, record.FeeRetained)
	assert.True(t, record.FeeRecipient.IsZero())
	assert.Equal(t, testNowUnix, record.Time)

	receipts, err := tl.TokenBalance(wrapper, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "9900", receipts.String())
	reserves, err := tl.TokenBalance(underlying, wrapper)
	require.NoError(t, err)
	assert.Equal(t, "10000", reserves.String())
	left, err := tl.TokenBalance(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "0", left.String())

	report, err := tl.CheckInvariant(wrapper)
	require.NoError(t, err)
	assert.True(t, report.Healthy)
}

func TestDeposit_ZeroFeeRate(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, _ := tl.newFundedVault(t, 0, 5000)
	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(5000))
	require.NoError(t, err)
	assert.Equal(t, "0", record.Fee.String())
	assert.Equal(t, "5000", record.Minted.String())

	info, err := tl.VaultInfo(wrapper)
	require.NoError(t, err)
	assert.Zero(t, info.Reserves.Cmp(info.ReceiptSupply))
}

func TestDeposit_TinyAmountFeeRoundsToZero(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 50)
	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, "0", record.Fee.String())
	assert.Equal(t, "50", record.Minted.String())
}

func TestDeposit_ForwardsFee(t *testing.T) {
	tl := setupLedger(t, 100)
	treasury := randomAddress()
	require.NoError(t, tl.SetFeeRecipient(tl.owner, treasury))
	wrapper, underlying := tl.newFundedVault(t, 0, 10000)
	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	assert.False(t, record.FeeRetained)
	assert.True(t, record.FeeRecipient.Equals(treasury))

	treasuryBal, err := tl.TokenBalance(underlying, treasury)
	require.NoError(t, err)
	assert.Equal(t, "100", treasuryBal.String())
	info, err := tl.VaultInfo(wrapper)
	require.NoError(t, err)
	assert.Equal(t, "9900", info.Reserves.String())
	assert.Equal(t, "9900", info.ReceiptSupply.String())
}

func TestDeposit_FeeOnTransferUnderlying(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, underlying := tl.newFundedVault(t, 500, 10000)
	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	// the 5% transfer tax burns 500 in flight, fee and receipts
	// recompute from the 9500 that arrived
	assert.Equal(t, "9500", record.Received.String())
	assert.Equal(t, "95", record.Fee.String())
	assert.Equal(t, "9405", record.Minted.String())

	reserves, err := tl.TokenBalance(underlying, wrapper)
	require.NoError(t, err)
	assert.Equal(t, "9500", reserves.String())
	report, err := tl.CheckInvariant(wrapper)
	require.NoError(t, err)
	assert.True(t, report.Healthy)
}

func TestDeposit_FullTaxYieldsNothing(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, underlying := tl.newFundedVault(t, bpsDenominator, 1000)
	rootBefore := tl.RootHex()
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(1000))
	assert.ErrorIs(t, err, ErrZeroAmount)
	assert.Equal(t, rootBefore, tl.RootHex())

	bal, err := tl.TokenBalance(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "1000", bal.String())
	assert.Empty(t, tl.DepositRecords(wrapper))
}

func TestDeposit_NoAllowance(t *testing.T) {
	tl := setupLedger(t, 100)
	underlying, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	wrapper, err := tl.CreateVault(tl.owner, underlying, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	require.NoError(t, tl.MintToken(tl.owner, underlying, tl.holder, big.NewInt(1000)))

	_, err = tl.Deposit(wrapper, tl.holder, big.NewInt(1000))
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.Contains(t, err.Error(), ErrInsufficientAllowance.Error())

	bal, err := tl.TokenBalance(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "1000", bal.String())
}

func TestDeposit_ArgumentChecks(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 100)

	_, err := tl.Deposit(wrapper, tl.holder, nil)
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, err = tl.Deposit(wrapper, tl.holder, big.NewInt(0))
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, err = tl.Deposit(wrapper, tl.holder, big.NewInt(-5))
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, err = tl.Deposit(wrapper, common.Address{}, big.NewInt(1))
	assert.ErrorIs(t, err, ErrZeroAddress)
	_, err = tl.Deposit(tl.owner, tl.holder, big.NewInt(1))
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestWithdraw_Par(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, underlying := tl.newFundedVault(t, 0, 10000)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)

	record, err := tl.Withdraw(wrapper, tl.holder, big.NewInt(9900))
	require.NoError(t, err)
	assert.Equal(t, "9900", record.Amount.String())
	assert.Equal(t, testNowUnix, record.Time)

	receipts, err := tl.TokenBalance(wrapper, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "0", receipts.String())
	back, err := tl.TokenBalance(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "9900", back.String())

	// the retained entry fee stays behind as excess reserves
	info, err := tl.VaultInfo(wrapper)
	require.NoError(t, err)
	assert.Equal(t, "100", info.Reserves.String())
	assert.Equal(t, "0", info.ReceiptSupply.String())
}

func TestWithdraw_RoundTripLossless(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 7777)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(7777))
	require.NoError(t, err)
	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(7777))
	require.NoError(t, err)

	bal, err := tl.TokenBalance(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "7777", bal.String())
	info, err := tl.VaultInfo(wrapper)
	require.NoError(t, err)
	assert.Equal(t, "0", info.Reserves.String())
	assert.Equal(t, "0", info.ReceiptSupply.String())
}

func TestWithdraw_InsufficientBalance(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 10000)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)

	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(9901))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	// over-asking beyond reserves too still reports the balance first
	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(20000))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestWithdraw_InsufficientReserves(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 10000)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)

	// shrink reserves and receipt supply behind the ledger's back, so
	// backing still holds but cannot cover the holder's old balance
	und, err := OpenToken(tl.st, underlying)
	require.NoError(t, err)
	require.NoError(t, und.writeAmount(slotKey(slotPrefixBalance, wrapper), big.NewInt(50)))
	rec, err := OpenToken(tl.st, wrapper)
	require.NoError(t, err)
	require.NoError(t, rec.writeAmount(slotKey(slotTokenSupply), big.NewInt(40)))
	require.NoError(t, tl.commitState())

	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(60))
	assert.ErrorIs(t, err, ErrInsufficientReserves)
}

func TestWithdraw_ArgumentChecks(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 100)

	_, err := tl.Withdraw(wrapper, tl.holder, nil)
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(0))
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, err = tl.Withdraw(wrapper, common.Address{}, big.NewInt(1))
	assert.ErrorIs(t, err, ErrZeroAddress)
	_, err = tl.Withdraw(tl.owner, tl.holder, big.NewInt(1))
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestVaultOps_RefuseWhenBackingBroken(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, _ := tl.newFundedVault(t, 0, 1000)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(500))
	require.NoError(t, err)

	// the wrapper mints its own receipts, so minting through the token
	// API fabricates unbacked supply
	require.NoError(t, tl.MintToken(wrapper, wrapper, tl.holder, big.NewInt(1)))
	report, err := tl.CheckInvariant(wrapper)
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.Equal(t, "500", report.Reserves.String())
	assert.Equal(t, "501", report.Supply.String())

	_, err = tl.Deposit(wrapper, tl.holder, big.NewInt(100))
	assert.ErrorIs(t, err, ErrInvariantViolation)
	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(100))
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

// reentrantFeePolicy re-enters the ledger from inside the fee recipient
// lookup, standing in for a policy implementation that calls back into
// vault operations mid-deposit.
type reentrantFeePolicy struct {
	ledger  *Ledger
	wrapper common.Address
	from    common.Address
	depErr  error
	wdErr   error
}

func (p *reentrantFeePolicy) FeeRateBps(st *StateTree) uint16 {
	return registryFeePolicy{}.FeeRateBps(st)
}

func (p *reentrantFeePolicy) FeeRecipient(st *StateTree) (common.Address, error) {
	_, p.depErr = p.ledger.Deposit(p.wrapper, p.from, big.NewInt(1))
	_, p.wdErr = p.ledger.Withdraw(p.wrapper, p.from, big.NewInt(1))
	return common.Address{}, nil
}

func TestDeposit_ReentrantPolicyRejected(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 10000)
	hostile := &reentrantFeePolicy{ledger: tl.Ledger, wrapper: wrapper, from: tl.holder}
	tl.policy = hostile

	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	assert.ErrorIs(t, hostile.depErr, ErrReentrantCall)
	assert.ErrorIs(t, hostile.wdErr, ErrReentrantCall)
	assert.True(t, record.FeeRetained)

	report, err := tl.CheckInvariant(wrapper)
	require.NoError(t, err)
	assert.True(t, report.Healthy)
}

// failingFeePolicy stands in for a provider that cannot answer at all.
type failingFeePolicy struct{}

func (failingFeePolicy) FeeRateBps(st *StateTree) uint16 {
	return registryFeePolicy{}.FeeRateBps(st)
}

func (failingFeePolicy) FeeRecipient(st *StateTree) (common.Address, error) {
	return common.Address{}, errors.New("policy unavailable")
}

func TestDeposit_PolicyFailureRetainsFee(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 10000)
	tl.policy = failingFeePolicy{}

	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	assert.True(t, record.FeeRetained)
	assert.True(t, record.FeeRecipient.IsZero())
	assert.Equal(t, "100", record.Fee.String())

	info, err := tl.VaultInfo(wrapper)
	require.NoError(t, err)
	assert.Equal(t, "10000", info.Reserves.String())
	assert.Equal(t, "9900", info.ReceiptSupply.String())
}

func TestPreviewDeposit_MatchesExecution(t *testing.T) {
	tl := setupLedger(t, 250)
	wrapper, _ := tl.newFundedVault(t, 0, 100000)
	fee, minted, err := tl.PreviewDeposit(wrapper, big.NewInt(33333))
	require.NoError(t, err)
	assert.Equal(t, "833", fee.String())
	assert.Equal(t, "32500", minted.String())

	record, err := tl.Deposit(wrapper, tl.holder, big.NewInt(33333))
	require.NoError(t, err)
	assert.Equal(t, fee.String(), record.Fee.String())
	assert.Equal(t, minted.String(), record.Minted.String())
}

func TestPreviewDeposit_ZeroAmount(t *testing.T) {
	tl := setupLedger(t, 250)
	wrapper, _ := tl.newFundedVault(t, 0, 100)
	fee, minted, err := tl.PreviewDeposit(wrapper, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "0", fee.String())
	assert.Equal(t, "0", minted.String())

	_, _, err = tl.PreviewDeposit(wrapper, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, _, err = tl.PreviewDeposit(wrapper, nil)
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestPreviewWithdraw_Par(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 100)
	out, err := tl.PreviewWithdraw(wrapper, big.NewInt(77))
	require.NoError(t, err)
	assert.Equal(t, "77", out.String())
	out, err = tl.PreviewWithdraw(wrapper, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "0", out.String())

	_, err = tl.PreviewWithdraw(tl.owner, big.NewInt(1))
	assert.ErrorIs(t, err, ErrVaultNotFound)
	_, err = tl.PreviewWithdraw(wrapper, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestVaultInfo(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, underlying := tl.newFundedVault(t, 0, 500)
	info, err := tl.VaultInfo(wrapper)
	require.NoError(t, err)
	assert.True(t, info.Wrapper.Equals(wrapper))
	assert.True(t, info.Underlying.Equals(underlying))
	assert.Equal(t, "Wrapped Gold", info.Name)
	assert.Equal(t, "wGLD", info.Symbol)
	assert.Equal(t, uint8(6), info.Decimals)
	assert.Equal(t, uint16(100), info.FeeRateBps)
	assert.Equal(t, "0", info.Reserves.String())
	assert.Equal(t, "0", info.ReceiptSupply.String())

	_, err = tl.VaultInfo(randomAddress())
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestVaultRecords_ExecutionOrder(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, _ := tl.newFundedVault(t, 0, 10000)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(1000))
	require.NoError(t, err)
	_, err = tl.Deposit(wrapper, tl.holder, big.NewInt(2000))
	require.NoError(t, err)
	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(500))
	require.NoError(t, err)

	deps := tl.DepositRecords(wrapper)
	require.Len(t, deps, 2)
	assert.Equal(t, "1000", deps[0].Amount.String())
	assert.Equal(t, "2000", deps[1].Amount.String())
	wds := tl.WithdrawRecords(wrapper)
	require.Len(t, wds, 1)
	assert.Equal(t, "500", wds[0].Amount.String())
}

func TestVault_EmitsEvents(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 10000)
	depSub := tl.bus.Subscript(DepositEvent{})
	wdSub := tl.bus.Subscript(WithdrawEvent{})

	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(1000))
	require.NoError(t, err)
	dep := waitEvent(t, depSub).(DepositEvent)
	assert.True(t, dep.Record.Wrapper.Equals(wrapper))
	assert.Equal(t, "990", dep.Record.Minted.String())

	_, err = tl.Withdraw(wrapper, tl.holder, big.NewInt(990))
	require.NoError(t, err)
	wd := waitEvent(t, wdSub).(WithdrawEvent)
	assert.True(t, wd.Record.Wrapper.Equals(wrapper))
	assert.Equal(t, "990", wd.Record.Amount.String())
}

func TestLedger_ReopenKeepsState(t *testing.T) {
	tl := setupLedger(t, 100)
	wrapper, _ := tl.newFundedVault(t, 0, 10000)
	_, err := tl.Deposit(wrapper, tl.holder, big.NewInt(10000))
	require.NoError(t, err)
	rootBefore := tl.RootHex()

	reopened, err := NewLedger(tl.stateDB, tl.recordsDB, NewEventBus())
	require.NoError(t, err)
	assert.Equal(t, rootBefore, reopened.RootHex())
	bal, err := reopened.TokenBalance(wrapper, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "9900", bal.String())
	require.Len(t, reopened.DepositRecords(wrapper), 1)

	_, err = reopened.Withdraw(wrapper, tl.holder, big.NewInt(9900))
	require.NoError(t, err)
}

func TestDepositWithAuthorization(t *testing.T) {
	tl := setupLedger(t, 100)
	underlying, err := tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	wrapper, err := tl.CreateVault(tl.owner, underlying, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	require.NoError(t, tl.MintToken(tl.owner, underlying, tl.holder, big.NewInt(10000)))

	// no approve call anywhere: consent travels with the signature
	auth := &DepositAuthorization{
		Token:    underlying,
		Holder:   tl.holder,
		Spender:  wrapper,
		Amount:   big.NewInt(10000),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	record, err := tl.DepositWithAuthorization(auth)
	require.NoError(t, err)
	assert.Equal(t, "100", record.Fee.String())
	assert.Equal(t, "9900", record.Minted.String())

	nonce, err := tl.TokenAuthNonce(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)
	allow, err := tl.TokenAllowance(underlying, tl.holder, wrapper)
	require.NoError(t, err)
	assert.Equal(t, "0", allow.String())
}

func TestDepositWithAuthorization_Replay(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 10000)
	auth := &DepositAuthorization{
		Token:    underlying,
		Holder:   tl.holder,
		Spender:  wrapper,
		Amount:   big.NewInt(1000),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	_, err := tl.DepositWithAuthorization(auth)
	require.NoError(t, err)

	_, err = tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrBadAuthorizationNonce)
	bal, err := tl.TokenBalance(wrapper, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, "1000", bal.String())
}

func TestDepositWithAuthorization_Expired(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 1000)
	auth := &DepositAuthorization{
		Token:    underlying,
		Holder:   tl.holder,
		Spender:  wrapper,
		Amount:   big.NewInt(1000),
		Deadline: testNowUnix - 1,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	_, err := tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrAuthorizationExpired)

	nonce, err := tl.TokenAuthNonce(underlying, tl.holder)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), nonce)
}

func TestDepositWithAuthorization_WrongSigner(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 1000)
	auth := &DepositAuthorization{
		Token:    underlying,
		Holder:   tl.holder,
		Spender:  wrapper,
		Amount:   big.NewInt(1000),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.ownerKey))
	_, err := tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDepositWithAuthorization_TamperedAmount(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 1000)
	auth := &DepositAuthorization{
		Token:    underlying,
		Holder:   tl.holder,
		Spender:  wrapper,
		Amount:   big.NewInt(100),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	auth.Amount = big.NewInt(1000)
	_, err := tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDepositWithAuthorization_WrongToken(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, _ := tl.newFundedVault(t, 0, 1000)
	other, err := tl.CreateToken(tl.owner, "Silver Coin", "SLV", 2, 0)
	require.NoError(t, err)
	auth := &DepositAuthorization{
		Token:    other,
		Holder:   tl.holder,
		Spender:  wrapper,
		Amount:   big.NewInt(100),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	_, err = tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrInvalidUnderlying)
}

func TestDepositWithAuthorization_BadArgs(t *testing.T) {
	tl := setupLedger(t, 0)
	wrapper, underlying := tl.newFundedVault(t, 0, 1000)

	_, err := tl.DepositWithAuthorization(nil)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	auth := &DepositAuthorization{
		Token:    underlying,
		Holder:   tl.holder,
		Spender:  tl.owner,
		Amount:   big.NewInt(100),
		Deadline: testNowUnix + 600,
		Nonce:    0,
	}
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	_, err = tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrVaultNotFound)

	auth.Spender = wrapper
	auth.Amount = big.NewInt(0)
	require.NoError(t, auth.SignWithPrivateKey(tl.holderKey))
	_, err = tl.DepositWithAuthorization(auth)
	assert.ErrorIs(t, err, ErrZeroAmount)
}
