package governance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/internal/utils/abi"
	"github.com/compound-finance/comet-governance/types"
)

const governorABI = `[
	{"type":"function","name":"setGovernanceConfig","inputs":[{"name":"admins","type":"address[]"},{"name":"threshold","type":"uint8"}],"outputs":[]},
	{"type":"function","name":"upgradeTo","inputs":[{"name":"newImplementation","type":"address"}],"outputs":[]},
	{"type":"function","name":"upgradeToAndCall","inputs":[{"name":"newImplementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[]}
]`

var codec = abi.MustNewCodec(governorABI)

// EncodeSetGovernanceConfig returns the calldata of setGovernanceConfig(address[],uint8).
func EncodeSetGovernanceConfig(admins []common.Address, threshold uint8) ([]byte, error) {
	if admins == nil {
		admins = []common.Address{}
	}

	return codec.Pack("setGovernanceConfig", admins, threshold)
}

// EncodeUpgradeTo returns the calldata of upgradeTo(address).
func EncodeUpgradeTo(impl common.Address) ([]byte, error) {
	return codec.Pack("upgradeTo", impl)
}

// EncodeUpgradeToAndCall returns the calldata of upgradeToAndCall(address,bytes).
func EncodeUpgradeToAndCall(impl common.Address, data []byte) ([]byte, error) {
	if data == nil {
		data = []byte{}
	}

	return codec.Pack("upgradeToAndCall", impl, data)
}

// Call decodes data and invokes the matching timelock-gated entry point, so proposals can
// target the governor itself.
func (g *Governor) Call(ctx context.Context, caller common.Address, _ *big.Int, data []byte) ([]byte, error) {
	name, args, err := codec.Unpack(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case "setGovernanceConfig":
		admins, ok := args[0].([]common.Address)
		if !ok {
			return nil, fmt.Errorf("setGovernanceConfig: unexpected admins argument %T", args[0])
		}
		threshold, ok := args[1].(uint8)
		if !ok {
			return nil, fmt.Errorf("setGovernanceConfig: unexpected threshold argument %T", args[1])
		}

		return nil, g.SetGovernanceConfig(ctx, caller, admins, threshold)
	case "upgradeTo":
		impl, ok := args[0].(common.Address)
		if !ok {
			return nil, fmt.Errorf("upgradeTo: unexpected argument %T", args[0])
		}

		return nil, g.UpgradeTo(ctx, caller, impl)
	case "upgradeToAndCall":
		impl, ok := args[0].(common.Address)
		if !ok {
			return nil, fmt.Errorf("upgradeToAndCall: unexpected implementation argument %T", args[0])
		}
		init, ok := args[1].([]byte)
		if !ok {
			return nil, fmt.Errorf("upgradeToAndCall: unexpected data argument %T", args[1])
		}

		return nil, g.UpgradeToAndCall(ctx, caller, impl, init)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownSelector, name)
	}
}
