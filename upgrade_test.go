package governance

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compound-finance/comet-governance/types"
)

var implV2Addr = common.HexToAddress("0x2222222222222222222222222222222222222222")

// governorV2 behaves like GovernorV1 but refuses proposals without a description.
type governorV2 struct {
	GovernorV1
}

func (governorV2) Version() string { return "2" }

func (g governorV2) Propose(
	ctx context.Context, h *Host, caller common.Address,
	targets []common.Address, values []*big.Int, payloads [][]byte, description string,
) (uint64, error) {
	if description == "" {
		return 0, types.ErrInvalidConfiguration
	}

	return g.GovernorV1.Propose(ctx, h, caller, targets, values, payloads, description)
}

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Cmp(b) == 0
})

func TestGovernor_Upgrade_PreservesState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.governor.DeployImplementation(ctx, implV2Addr, governorV2{}))

	// history: one executed, one canceled, one pending proposal
	_, err := e.executeProposal(t, callTarget(0x01))
	require.NoError(t, err)
	canceled, err := e.governor.ProposeActions(ctx, adminB, []types.Action{callTarget(0x02)}, "canceled")
	require.NoError(t, err)
	require.NoError(t, e.governor.Cancel(ctx, adminB, canceled))
	pending, err := e.governor.ProposeActions(ctx, adminC, []types.Action{callTarget(0x03)}, "pending")
	require.NoError(t, err)
	require.NoError(t, e.governor.CastVote(ctx, adminC, pending, 1))

	upgrade, err := e.governor.ProposeUpgrade(ctx, adminA, implV2Addr, "upgrade to v2")
	require.NoError(t, err)
	require.NoError(t, e.governor.CastVote(ctx, adminA, upgrade, 1))
	require.NoError(t, e.governor.CastVote(ctx, adminB, upgrade, 1))
	require.NoError(t, e.governor.Queue(ctx, adminA, upgrade))
	e.clock.Add(2 * day)

	before := e.governor.ExportState(ctx)
	require.NoError(t, e.governor.Execute(ctx, adminA, upgrade))
	after := e.governor.ExportState(ctx)

	assert.Equal(t, implV2Addr, after.Implementation)
	assert.Equal(t, "2", e.governor.Version(ctx))

	// the upgrade proposal itself is the only record that changes, and only by being executed
	diff := cmp.Diff(before, after,
		bigIntComparer,
		cmpopts.IgnoreFields(types.GovernorState{}, "Implementation"),
		cmpopts.IgnoreFields(types.Proposal{}, "Executed"),
	)
	assert.Empty(t, diff)
	assert.False(t, before.Proposals[upgrade-1].Executed)
	assert.True(t, after.Proposals[upgrade-1].Executed)

	assert.Equal(t, before.ProposalCount, e.governor.ProposalCount(ctx))
	assert.Equal(t, uint8(2), e.governor.MultisigThreshold(ctx))
	for _, admin := range []common.Address{adminA, adminB, adminC} {
		assert.True(t, e.governor.IsAdmin(ctx, admin))
	}

	// the new behavior is live and the old proposals keep working under it
	_, err = e.governor.ProposeActions(ctx, adminA, []types.Action{callTarget(0x04)}, "")
	require.ErrorIs(t, err, types.ErrInvalidConfiguration)

	require.NoError(t, e.governor.CastVote(ctx, adminA, pending, 1))
	ok, err := e.governor.HasEnoughApprovals(ctx, pending)
	require.NoError(t, err)
	assert.True(t, ok)

	var upgraded bool
	for _, ev := range e.engine.Events() {
		if ev.Name == types.EventUpgraded {
			upgraded = true
			assert.Equal(t, implV2Addr, ev.Fields["implementation"])
		}
	}
	assert.True(t, upgraded)
}

func TestGovernor_UpgradeToAndCall(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.governor.DeployImplementation(ctx, implV2Addr, governorV2{}))

	init, err := EncodeSetGovernanceConfig([]common.Address{adminA, adminB}, 2)
	require.NoError(t, err)

	id, err := e.governor.ProposeUpgradeAndCall(ctx, adminA, implV2Addr, init, "upgrade and shrink")
	require.NoError(t, err)
	require.NoError(t, e.governor.CastVote(ctx, adminA, id, 1))
	require.NoError(t, e.governor.CastVote(ctx, adminB, id, 1))
	require.NoError(t, e.governor.Queue(ctx, adminA, id))
	e.clock.Add(2 * day)
	require.NoError(t, e.governor.Execute(ctx, adminA, id))

	assert.Equal(t, implV2Addr, e.governor.Implementation(ctx))
	assert.Equal(t, []common.Address{adminA, adminB}, e.governor.Admins(ctx))
	assert.False(t, e.governor.IsAdmin(ctx, adminC))
}

func TestGovernor_Upgrade_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("direct call from an admin", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t)
		require.NoError(t, e.governor.DeployImplementation(ctx, implV2Addr, governorV2{}))
		v1 := e.governor.Implementation(ctx)

		require.ErrorIs(t, e.governor.UpgradeTo(ctx, adminA, implV2Addr), types.ErrUnauthorized)
		require.ErrorIs(t, e.governor.UpgradeToAndCall(ctx, adminA, implV2Addr, nil), types.ErrUnauthorized)
		assert.Equal(t, v1, e.governor.Implementation(ctx))
	})

	t.Run("unknown implementation reverts the proposal", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t)
		v1 := e.governor.Implementation(ctx)

		data, err := EncodeUpgradeTo(implV2Addr)
		require.NoError(t, err)
		id, err := e.executeProposal(t, types.NewAction(governorAddr, nil, data))
		require.ErrorIs(t, err, types.ErrUnknownImplementation)

		assert.Equal(t, v1, e.governor.Implementation(ctx))
		state, err := e.governor.State(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, types.ProposalStateQueued, state)
	})

	t.Run("failing init call reverts the swap", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t)
		require.NoError(t, e.governor.DeployImplementation(ctx, implV2Addr, governorV2{}))
		v1 := e.governor.Implementation(ctx)

		init, err := EncodeSetGovernanceConfig([]common.Address{adminA}, 5)
		require.NoError(t, err)
		data, err := EncodeUpgradeToAndCall(implV2Addr, init)
		require.NoError(t, err)

		_, err = e.executeProposal(t, types.NewAction(governorAddr, nil, data))
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)
		assert.Equal(t, v1, e.governor.Implementation(ctx))
		assert.Equal(t, "1", e.governor.Version(ctx))
	})

	t.Run("deploy twice at one address", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t)
		require.NoError(t, e.governor.DeployImplementation(ctx, implV2Addr, governorV2{}))
		err := e.governor.DeployImplementation(ctx, implV2Addr, GovernorV1{})
		require.ErrorIs(t, err, types.ErrInvalidConfiguration)
	})

	t.Run("unknown selector", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t)
		_, err := e.governor.Call(ctx, timelockAddr, nil, []byte{0xff, 0xff, 0xff, 0xff})
		require.ErrorIs(t, err, types.ErrUnknownSelector)
	})
}
