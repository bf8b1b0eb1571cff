package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalState_Text(t *testing.T) {
	t.Parallel()

	for state, name := range proposalStateNames {
		text, err := state.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))

		var parsed ProposalState
		require.NoError(t, parsed.UnmarshalText([]byte(name)))
		assert.Equal(t, state, parsed)
	}

	var parsed ProposalState
	require.NoError(t, parsed.UnmarshalText([]byte("Queued")))
	assert.Equal(t, ProposalStateQueued, parsed)

	require.ErrorContains(t, parsed.UnmarshalText([]byte("pending")), "invalid proposal state")

	_, err := ProposalState(0).MarshalText()
	require.Error(t, err)
	assert.Equal(t, "ProposalState(0)", ProposalState(0).String())
}

func TestProposal_Copy(t *testing.T) {
	t.Parallel()

	voter := common.HexToAddress("0x1")
	p := Proposal{
		ID:       1,
		Actions:  []Action{NewAction(common.HexToAddress("0x2"), big.NewInt(1), []byte{0x01})},
		Receipts: map[common.Address]Receipt{voter: {HasVoted: true, Support: 1}},
	}

	cp := p.Copy()
	cp.Actions[0].Value.SetInt64(5)
	cp.Actions[0].Data[0] = 0xff
	cp.Receipts[common.HexToAddress("0x3")] = Receipt{HasVoted: true}

	assert.Equal(t, int64(1), p.Actions[0].Value.Int64())
	assert.Equal(t, byte(0x01), p.Actions[0].Data[0])
	assert.Len(t, p.Receipts, 1)

	assert.NotNil(t, Proposal{}.Copy().Receipts)
}

func TestProposal_Voters(t *testing.T) {
	t.Parallel()

	p := Proposal{Receipts: map[common.Address]Receipt{
		common.HexToAddress("0x3"): {HasVoted: true},
		common.HexToAddress("0x1"): {HasVoted: true},
		common.HexToAddress("0x2"): {},
	}}

	assert.Equal(t, []common.Address{common.HexToAddress("0x1"), common.HexToAddress("0x3")}, p.Voters())
}

func TestAction_JSON(t *testing.T) {
	t.Parallel()

	var a Action
	err := json.Unmarshal([]byte(`{"target":"0xc3d688B66703497DAA19211EEdff47f25384cdc3","value":7,"data":"0xcafe"}`), &a)
	require.NoError(t, err)

	want := NewAction(common.HexToAddress("0xc3d688B66703497DAA19211EEdff47f25384cdc3"), big.NewInt(7), []byte{0xca, 0xfe})
	assert.True(t, want.Equal(a))
	assert.False(t, want.Equal(NewAction(want.Target, nil, want.Data)))
	assert.True(t, NewAction(want.Target, nil, nil).Equal(Action{Target: want.Target}))
}

func TestSplitActions(t *testing.T) {
	t.Parallel()

	actions := []Action{
		NewAction(common.HexToAddress("0x1"), big.NewInt(1), []byte{0x01}),
		{Target: common.HexToAddress("0x2")},
	}

	targets, values, payloads := SplitActions(actions)
	assert.Equal(t, []common.Address{common.HexToAddress("0x1"), common.HexToAddress("0x2")}, targets)
	assert.Equal(t, int64(0), values[1].Int64())
	assert.Equal(t, []byte{0x01}, payloads[0])

	back := ActionsFromArrays(targets, values, payloads)
	require.Len(t, back, 2)
	for i := range actions {
		assert.True(t, actions[i].Equal(back[i]))
	}
}

func TestAction_CheckValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   *big.Int
		wantErr bool
	}{
		{name: "nil is zero", value: nil},
		{name: "zero", value: big.NewInt(0)},
		{name: "max uint256", value: new(big.Int).Set(math.MaxBig256)},
		{name: "negative", value: big.NewInt(-1), wantErr: true},
		{name: "2^256", value: new(big.Int).Lsh(big.NewInt(1), 256), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Action{Target: common.Address{0x01}, Value: tt.value}.CheckValue()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValueOutOfRange)
				return
			}
			require.NoError(t, err)
		})
	}
}
