package engine

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// Dispatch routes action to the contract registered at its target, or to the fallback
// dispatcher. The call runs in its own frame so a failing target leaves no trace.
func (e *Engine) Dispatch(ctx context.Context, caller common.Address, action types.Action) ([]byte, error) {
	e.regMu.RLock()
	contract, ok := e.contracts[action.Target]
	e.regMu.RUnlock()

	if !ok && e.fallback == nil {
		return nil, &types.UnknownTargetError{Target: action.Target}
	}

	var out []byte
	err := e.Atomic(ctx, func(ctx context.Context) error {
		var err error
		if ok {
			out, err = contract.Call(ctx, caller, action.ValueOrZero(), action.Data)
		} else {
			out, err = e.fallback.Dispatch(ctx, caller, action)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	e.lggr.Debugw("Dispatched call",
		"caller", caller.Hex(),
		"target", action.Target.Hex(),
		"value", action.ValueOrZero().String(),
		"dataLen", len(action.Data),
	)

	return out, nil
}

// HasContract reports whether a contract is registered at addr.
func (e *Engine) HasContract(addr common.Address) bool {
	e.regMu.RLock()
	defer e.regMu.RUnlock()

	_, ok := e.contracts[addr]

	return ok
}
