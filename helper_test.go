package wrapvault

import (
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"wrapvault/common"
	"wrapvault/crypto"
	"wrapvault/test"

	"github.com/stretchr/testify/require"
)

const testNowUnix = int64(1700000000)

// testLedger bundles a ledger over in-memory storage with the key
// material of the registry owner and one funded depositor.
type testLedger struct {
	*Ledger
	stateDB   *test.MemStorage
	recordsDB *test.MemStorage
	bus       *EventBus
	ownerKey  *ecdsa.PrivateKey
	owner     common.Address
	holderKey *ecdsa.PrivateKey
	holder    common.Address
}

// setupLedger writes a genesis carrying the given global fee rate and
// opens a ledger over fresh in-memory storage. The clock is pinned so
// record timestamps and authorization deadlines are deterministic.
func setupLedger(t *testing.T, feeRateBps uint16) *testLedger {
	t.Helper()
	ownerKey := crypto.MustGenPrvKey()
	owner := crypto.DefaultPubKey2Addr(ownerKey.PublicKey)
	holderKey := crypto.MustGenPrvKey()
	holder := crypto.DefaultPubKey2Addr(holderKey.PublicKey)
	stateDB := test.NewMemStorage()
	recordsDB := test.NewMemStorage()
	genesis := NewGenesis(&GenesisConfig{StateDB: stateDB}, owner.B58String(), feeRateBps)
	_, err := genesis.WriteGenesisN()
	require.NoError(t, err)
	bus := NewEventBus()
	ledger, err := NewLedger(stateDB, recordsDB, bus)
	require.NoError(t, err)
	ledger.now = func() int64 { return testNowUnix }
	return &testLedger{
		Ledger:    ledger,
		stateDB:   stateDB,
		recordsDB: recordsDB,
		bus:       bus,
		ownerKey:  ownerKey,
		owner:     owner,
		holderKey: holderKey,
		holder:    holder,
	}
}

// newFundedVault creates an underlying token with the given transfer
// tax, a vault wrapping it, and leaves the holder with balance approved
// in full toward the wrapper.
func (tl *testLedger) newFundedVault(t *testing.T, taxBps uint16, balance int64) (wrapper, underlying common.Address) {
	t.Helper()
	var err error
	underlying, err = tl.CreateToken(tl.owner, "Gold Coin", "GLD", 6, taxBps)
	require.NoError(t, err)
	wrapper, err = tl.CreateVault(tl.owner, underlying, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	require.NoError(t, tl.MintToken(tl.owner, underlying, tl.holder, big.NewInt(balance)))
	require.NoError(t, tl.TokenApprove(underlying, tl.holder, wrapper, big.NewInt(balance)))
	return wrapper, underlying
}

func waitEvent(t *testing.T, sub *Subscription) interface{} {
	t.Helper()
	select {
	case e := <-sub.Chan():
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func randomAddress() common.Address {
	return crypto.DefaultPubKey2Addr(crypto.MustGenPrvKey().PublicKey)
}
