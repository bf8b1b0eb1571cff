package governance

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// DeployImplementation makes impl reachable by upgradeTo at addr. Deploying does not change the
// governor's behavior; only an executed upgrade proposal does.
func (g *Governor) DeployImplementation(ctx context.Context, addr common.Address, impl Implementation) error {
	return g.rt.Atomic(ctx, func(context.Context) error {
		if addr == (common.Address{}) || impl == nil {
			return fmt.Errorf("%w: implementation address and behavior are required", types.ErrInvalidConfiguration)
		}
		if _, ok := g.implementations[addr]; ok {
			return fmt.Errorf("%w: implementation already deployed at %s", types.ErrInvalidConfiguration, addr.Hex())
		}
		g.implementations[addr] = impl

		g.lggr.Infow("Implementation deployed", "address", addr.Hex(), "version", impl.Version())

		return nil
	})
}

// Implementation returns the address of the current implementation.
func (g *Governor) Implementation(ctx context.Context) common.Address {
	var addr common.Address
	_ = g.rt.View(ctx, func(context.Context) error {
		addr = g.implAddr
		return nil
	})

	return addr
}

// Version returns the version of the current implementation.
func (g *Governor) Version(ctx context.Context) string {
	var v string
	_ = g.rt.View(ctx, func(context.Context) error {
		v = g.impl.Version()
		return nil
	})

	return v
}

// ProposeUpgrade creates a one-action proposal calling upgradeTo(impl) on the governor.
func (g *Governor) ProposeUpgrade(
	ctx context.Context, caller common.Address, impl common.Address, description string,
) (uint64, error) {
	data, err := EncodeUpgradeTo(impl)
	if err != nil {
		return 0, err
	}

	return g.ProposeActions(ctx, caller, []types.Action{types.NewAction(g.address, nil, data)}, description)
}

// ProposeUpgradeAndCall creates a one-action proposal calling upgradeToAndCall(impl, init) on
// the governor.
func (g *Governor) ProposeUpgradeAndCall(
	ctx context.Context, caller common.Address, impl common.Address, init []byte, description string,
) (uint64, error) {
	data, err := EncodeUpgradeToAndCall(impl, init)
	if err != nil {
		return 0, err
	}

	return g.ProposeActions(ctx, caller, []types.Action{types.NewAction(g.address, nil, data)}, description)
}

// UpgradeTo switches the governor to the implementation deployed at impl. Only the timelock
// may call it. The store is untouched.
func (g *Governor) UpgradeTo(ctx context.Context, caller common.Address, impl common.Address) error {
	return g.UpgradeToAndCall(ctx, caller, impl, nil)
}

// UpgradeToAndCall switches implementation and then, if init is not empty, runs init against
// the governor with the same caller. Both happen in one call.
func (g *Governor) UpgradeToAndCall(ctx context.Context, caller common.Address, impl common.Address, init []byte) error {
	return g.exec(ctx, func(ctx context.Context, h *Host) error {
		if err := h.RequireTimelock(caller); err != nil {
			return err
		}
		next, ok := g.implementations[impl]
		if !ok {
			return fmt.Errorf("%w: %s", types.ErrUnknownImplementation, impl.Hex())
		}

		prev := g.implAddr
		g.impl = next
		g.implAddr = impl

		g.rt.Emit(ctx, g.address, types.EventUpgraded, map[string]any{
			"implementation": impl,
			"previous":       prev,
			"version":        next.Version(),
		})
		g.lggr.Infow("Governor upgraded",
			"governor", g.address.Hex(), "implementation", impl.Hex(), "version", next.Version())

		if len(init) == 0 {
			return nil
		}
		if _, err := g.Call(ctx, caller, nil, init); err != nil {
			return fmt.Errorf("upgrade initialization call failed: %w", err)
		}

		return nil
	})
}
