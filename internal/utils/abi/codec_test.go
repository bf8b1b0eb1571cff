package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compound-finance/comet-governance/types"
)

const testABI = `[
	{"type":"function","name":"setDelay","inputs":[{"name":"delay","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setPendingAdmin","inputs":[{"name":"pendingAdmin","type":"address"}],"outputs":[]},
	{"type":"function","name":"acceptAdmin","inputs":[],"outputs":[]}
]`

func TestCodec_PackUnpack(t *testing.T) {
	t.Parallel()

	c := MustNewCodec(testABI)
	admin := common.HexToAddress("0x5b38da6a701c568545dcfcb03fcb875f56beddc4")

	data, err := c.Pack("setDelay", big.NewInt(172800))
	require.NoError(t, err)
	// keccak256("setDelay(uint256)")[:4]
	assert.Equal(t, []byte{0xe1, 0x77, 0x24, 0x6e}, data[:4])

	name, args, err := c.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, "setDelay", name)
	require.Len(t, args, 1)
	assert.Equal(t, 0, big.NewInt(172800).Cmp(args[0].(*big.Int)))

	data, err = c.Pack("setPendingAdmin", admin)
	require.NoError(t, err)
	name, args, err = c.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, "setPendingAdmin", name)
	assert.Equal(t, admin, args[0])

	data, err = c.Pack("acceptAdmin")
	require.NoError(t, err)
	assert.Len(t, data, 4)
	name, args, err = c.Unpack(data)
	require.NoError(t, err)
	assert.Equal(t, "acceptAdmin", name)
	assert.Empty(t, args)

	selector, ok := c.Selector("acceptAdmin")
	require.True(t, ok)
	assert.Equal(t, data, selector)
	_, ok = c.Selector("missing")
	assert.False(t, ok)
}

func TestCodec_Unpack_Failures(t *testing.T) {
	t.Parallel()

	c := MustNewCodec(testABI)
	setDelay, ok := c.Selector("setDelay")
	require.True(t, ok)

	tests := []struct {
		name    string
		give    []byte
		wantErr error
	}{
		{name: "empty calldata", give: nil, wantErr: types.ErrUnknownSelector},
		{name: "short calldata", give: []byte{0x01, 0x02}, wantErr: types.ErrUnknownSelector},
		{name: "unknown selector", give: []byte{0xff, 0xff, 0xff, 0xff}, wantErr: types.ErrUnknownSelector},
		{name: "truncated arguments", give: append(append([]byte{}, setDelay...), 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := c.Unpack(tt.give)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewCodec_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(`not json`)
	require.Error(t, err)
	assert.Panics(t, func() { MustNewCodec(`[`) })
}
