package storage

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compound-finance/comet-governance/types"
)

func newMemory(t *testing.T) *LevelDB {
	t.Helper()

	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestLevelDB_GetPut(t *testing.T) {
	t.Parallel()

	db := newMemory(t)

	var got map[string]int
	err := db.Get("missing", &got)
	require.ErrorIs(t, err, ErrNotFound)

	ok, err := db.Has("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Put("k", map[string]int{"a": 1}))
	ok, err = db.Has("k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.Get("k", &got))
	assert.Equal(t, map[string]int{"a": 1}, got)

	require.NoError(t, db.Put("k", map[string]int{"b": 2}))
	got = nil
	require.NoError(t, db.Get("k", &got))
	assert.Equal(t, map[string]int{"b": 2}, got)

	require.NoError(t, db.Delete("k"))
	require.ErrorIs(t, db.Get("k", &got), ErrNotFound)
	require.NoError(t, db.Delete("k"))

	require.Error(t, db.Write())
	require.ErrorContains(t, db.Put("bad", make(chan int)), "failed to encode bad")
}

func TestLevelDB_Session(t *testing.T) {
	t.Parallel()

	admin := common.HexToAddress("0xA000000000000000000000000000000000000001")
	target := common.HexToAddress("0xc3d688B66703497DAA19211EEdff47f25384cdc3")
	now := time.Unix(1_700_000_000, 0).UTC()

	sess := Session{
		Clock: now,
		Timelock: types.TimelockState{
			Address: common.HexToAddress("0x6d903f6003cca6255D85CcA4D3B5E5146dC33925"),
			Admin:   admin,
			Config:  types.DefaultTimelockConfig(),
			Queued: []types.QueuedTransaction{
				{Hash: common.Hash{0x01}, Action: types.NewAction(target, big.NewInt(7), []byte{0xca}), Eta: 100},
			},
		},
		Governor: types.GovernorState{
			Address:       common.HexToAddress("0x309a862bbC1A00e45506cB8A802D1ff10004c8C0"),
			Initialized:   true,
			Config:        types.GovernanceConfig{Admins: []common.Address{admin}, Threshold: 1},
			ProposalCount: 1,
			Proposals: []types.Proposal{
				{
					ID:        1,
					Proposer:  admin,
					Actions:   []types.Action{types.NewAction(target, big.NewInt(7), []byte{0xca})},
					Eta:       100,
					Approvals: 1,
					Receipts:  map[common.Address]types.Receipt{admin: {HasVoted: true, Support: 1}},
				},
			},
		},
		Events: []types.Event{
			{CallID: "call", Time: now, Emitter: admin, Name: types.EventVoteCast, Fields: map[string]any{"support": float64(1)}},
		},
	}

	db, err := Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.LoadSession()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveSession(sess))
	loaded, err := db.LoadSession()
	require.NoError(t, err)

	diff := cmp.Diff(sess, loaded, cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 }))
	assert.Empty(t, diff)
}
