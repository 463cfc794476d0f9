package auditor

import (
	"math/big"
	"testing"
	"time"

	"wrapvault"
	"wrapvault/common"
	"wrapvault/crypto"
	"wrapvault/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditedLedger struct {
	ledger  *wrapvault.Ledger
	bus     *wrapvault.EventBus
	owner   common.Address
	wrapper common.Address
	token   common.Address
}

// setupAuditedLedger opens an in-memory ledger with one vault holding a
// funded position, so sweeps and targeted audits have something to check.
func setupAuditedLedger(t *testing.T) *auditedLedger {
	t.Helper()
	ownerKey := crypto.MustGenPrvKey()
	owner := crypto.DefaultPubKey2Addr(ownerKey.PublicKey)
	stateDB := test.NewMemStorage()
	genesis := wrapvault.NewGenesis(&wrapvault.GenesisConfig{StateDB: stateDB}, owner.B58String(), 0)
	_, err := genesis.WriteGenesisN()
	require.NoError(t, err)
	bus := wrapvault.NewEventBus()
	ledger, err := wrapvault.NewLedger(stateDB, test.NewMemStorage(), bus)
	require.NoError(t, err)
	token, err := ledger.CreateToken(owner, "Gold Coin", "GLD", 6, 0)
	require.NoError(t, err)
	wrapper, err := ledger.CreateVault(owner, token, "Wrapped Gold", "wGLD")
	require.NoError(t, err)
	require.NoError(t, ledger.MintToken(owner, token, owner, big.NewInt(100000)))
	require.NoError(t, ledger.TokenApprove(token, owner, wrapper, big.NewInt(100000)))
	_, err = ledger.Deposit(wrapper, owner, big.NewInt(60000))
	require.NoError(t, err)
	return &auditedLedger{
		ledger:  ledger,
		bus:     bus,
		owner:   owner,
		wrapper: wrapper,
		token:   token,
	}
}

func TestAuditor_StartStop(t *testing.T) {
	al := setupAuditedLedger(t)
	a := NewAuditor(&Config{}, al.ledger, al.bus)
	assert.Equal(t, uint32(defaultSweepIntervalSec), a.SweepIntervalSec)
	assert.False(t, a.GetAuditStatus())

	a.Start()
	assert.True(t, a.GetAuditStatus())
	assert.False(t, a.LastStartTime.IsZero())
	// starting twice is a no-op
	a.Start()
	assert.True(t, a.GetAuditStatus())

	a.Stop()
	assert.False(t, a.GetAuditStatus())
	a.Stop()
	assert.False(t, a.GetAuditStatus())
}

func TestAuditor_AuditsAfterDeposit(t *testing.T) {
	al := setupAuditedLedger(t)
	a := NewAuditor(&Config{}, al.ledger, al.bus)
	a.Start()
	defer a.Stop()

	_, err := al.ledger.Deposit(al.wrapper, al.owner, big.NewInt(10000))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return a.LastReport(al.wrapper) != nil
	}, 2*time.Second, 10*time.Millisecond)
	report := a.LastReport(al.wrapper)
	assert.True(t, report.Healthy)
	assert.Equal(t, "70000", report.Reserves.Text(10))
	assert.Equal(t, "70000", report.Supply.Text(10))
	assert.Len(t, a.Reports(), 1)
}

func TestAuditor_ReportsBrokenVault(t *testing.T) {
	al := setupAuditedLedger(t)
	a := NewAuditor(&Config{}, al.ledger, al.bus)
	brokenSub := al.bus.Subscript(wrapvault.InvariantBrokenEvent{})
	defer brokenSub.Unsubscribe()
	a.Start()
	defer a.Stop()

	// drain reserves out from under the receipt supply, simulating the
	// storage corruption the auditor exists to catch
	leak := crypto.DefaultPubKey2Addr(crypto.MustGenPrvKey().PublicKey)
	require.NoError(t, al.ledger.TokenTransfer(al.token, al.wrapper, leak, big.NewInt(30000)))
	al.bus.Publish(wrapvault.DepositEvent{Record: &wrapvault.DepositRecord{Wrapper: al.wrapper}})

	select {
	case e := <-brokenSub.Chan():
		ev, ok := e.(wrapvault.InvariantBrokenEvent)
		require.True(t, ok)
		assert.True(t, ev.Wrapper.Equals(al.wrapper))
		assert.Equal(t, "30000", ev.Reserves.Text(10))
		assert.Equal(t, "60000", ev.Supply.Text(10))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the broken invariant event")
	}
	report := a.LastReport(al.wrapper)
	require.NotNil(t, report)
	assert.False(t, report.Healthy)
}

func TestAuditor_SweepOnTimer(t *testing.T) {
	al := setupAuditedLedger(t)
	a := NewAuditor(&Config{SweepIntervalSec: 1}, al.ledger, al.bus)
	a.Start()
	defer a.Stop()

	require.Eventually(t, func() bool {
		return a.LastReport(al.wrapper) != nil
	}, 3*time.Second, 50*time.Millisecond)
	assert.True(t, a.LastReport(al.wrapper).Healthy)
}
