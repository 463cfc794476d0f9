package wrapvault

import (
	"testing"

	"wrapvault/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTree_NonceAndStorage(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	addr := randomAddress()
	assert.Equal(t, uint64(0), st.GetNonce(addr))
	st.AddNonce(addr, 1)
	st.AddNonce(addr, 2)
	assert.Equal(t, uint64(3), st.GetNonce(addr))

	key := slotKey("acct:slot")
	assert.Nil(t, st.GetStateValue(addr, key))
	st.SetState(addr, key, []byte("value"))
	assert.Equal(t, []byte("value"), st.GetStateValue(addr, key))
}

func TestStateTree_CommitReopen(t *testing.T) {
	db := test.NewMemStorage()
	st := NewStateTree(db, nil)
	addr := randomAddress()
	st.AddNonce(addr, 7)
	st.SetState(addr, slotKey("k"), []byte("v"))
	st.UpdateAll()
	require.NoError(t, st.Commit())
	root := st.Root()
	require.NotEmpty(t, root)

	reopened, err := NewStateTreeN(db, root)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), reopened.GetNonce(addr))
	assert.Equal(t, []byte("v"), reopened.GetStateValue(addr, slotKey("k")))
}

func TestStateTree_SlotsIsolatedPerAccount(t *testing.T) {
	st := NewStateTree(test.NewMemStorage(), nil)
	a := randomAddress()
	b := randomAddress()
	key := slotKey("shared:label")
	st.SetState(a, key, []byte("of-a"))
	st.SetState(b, key, []byte("of-b"))
	assert.Equal(t, []byte("of-a"), st.GetStateValue(a, key))
	assert.Equal(t, []byte("of-b"), st.GetStateValue(b, key))
}

func TestStateTree_DeterministicRoot(t *testing.T) {
	addr := randomAddress()
	build := func() *StateTree {
		st := NewStateTree(test.NewMemStorage(), nil)
		st.AddNonce(addr, 1)
		st.SetState(addr, slotKey("k"), []byte("v"))
		st.UpdateAll()
		return st
	}
	a := build()
	b := build()
	assert.Equal(t, a.RootHex(), b.RootHex())

	b.SetState(addr, slotKey("k2"), []byte("v2"))
	b.UpdateAll()
	assert.NotEqual(t, a.RootHex(), b.RootHex())
}
