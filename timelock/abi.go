package timelock

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/compound-finance/comet-governance/internal/utils/abi"
	"github.com/compound-finance/comet-governance/internal/utils/safecast"
	"github.com/compound-finance/comet-governance/types"
)

const timelockABI = `[
	{"type":"function","name":"setDelay","inputs":[{"name":"delay","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setPendingAdmin","inputs":[{"name":"pendingAdmin","type":"address"}],"outputs":[]},
	{"type":"function","name":"acceptAdmin","inputs":[],"outputs":[]}
]`

// txHashArgs is the pre-image layout of a transaction hash:
// keccak256(abi.encode(target, value, data, eta)).
const txHashArgs = `[
	{"type":"address"},
	{"type":"uint256"},
	{"type":"bytes"},
	{"type":"uint256"}
]`

var codec = abi.MustNewCodec(timelockABI)

// HashTransaction returns the key a transaction is queued under. Values outside the uint256
// range are rejected since the pre-image could not tell them apart from in-range values.
func HashTransaction(action types.Action, eta uint64) (common.Hash, error) {
	if err := action.CheckValue(); err != nil {
		return common.Hash{}, err
	}

	encoded, err := abi.Encode(txHashArgs,
		action.Target,
		action.ValueOrZero(),
		[]byte(action.Data),
		new(big.Int).SetUint64(eta),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode transaction: %w", err)
	}

	return crypto.Keccak256Hash(encoded), nil
}

// EncodeSetDelay returns the calldata of setDelay(uint256). The delay is truncated to seconds.
func EncodeSetDelay(delay time.Duration) ([]byte, error) {
	secs, err := safecast.Int64ToUint64(int64(delay / time.Second))
	if err != nil {
		return nil, err
	}

	return codec.Pack("setDelay", new(big.Int).SetUint64(secs))
}

// EncodeSetPendingAdmin returns the calldata of setPendingAdmin(address).
func EncodeSetPendingAdmin(pendingAdmin common.Address) ([]byte, error) {
	return codec.Pack("setPendingAdmin", pendingAdmin)
}

// EncodeAcceptAdmin returns the calldata of acceptAdmin().
func EncodeAcceptAdmin() ([]byte, error) {
	return codec.Pack("acceptAdmin")
}

// Call decodes data and invokes the matching entry point. It lets queued transactions target
// the timelock itself.
func (t *Timelock) Call(ctx context.Context, caller common.Address, _ *big.Int, data []byte) ([]byte, error) {
	name, args, err := codec.Unpack(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case "setDelay":
		secs, ok := args[0].(*big.Int)
		if !ok || !secs.IsInt64() {
			return nil, fmt.Errorf("%w: delay out of range", types.ErrInvalidConfiguration)
		}
		d, err := types.NewDurationFromSeconds(secs.Uint64())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidConfiguration, err)
		}

		return nil, t.SetDelay(ctx, caller, d.Duration)
	case "setPendingAdmin":
		pending, ok := args[0].(common.Address)
		if !ok {
			return nil, fmt.Errorf("setPendingAdmin: unexpected argument %T", args[0])
		}

		return nil, t.SetPendingAdmin(ctx, caller, pending)
	case "acceptAdmin":
		return nil, t.AcceptAdmin(ctx, caller)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownSelector, name)
	}
}
