package commands

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/compound-finance/comet-governance/sdk"
	"github.com/compound-finance/comet-governance/types"
)

// EventExternalCall is journaled for every call the sink receives.
const EventExternalCall = "ExternalCall"

var _ sdk.Dispatcher = (*sink)(nil)

// sink receives calls to targets that are not deployed in the session. It records them and
// returns no data.
type sink struct {
	rt   sdk.Runtime
	lggr sdk.Logger
}

func (s *sink) Dispatch(ctx context.Context, caller common.Address, action types.Action) ([]byte, error) {
	s.lggr.Infow("Recorded external call",
		"caller", caller.Hex(),
		"target", action.Target.Hex(),
		"value", action.ValueOrZero().String(),
		"data", hexutil.Encode(action.Data),
	)
	if s.rt != nil {
		s.rt.Emit(ctx, action.Target, EventExternalCall, map[string]any{
			"caller": caller,
			"value":  action.ValueOrZero().String(),
			"data":   hexutil.Encode(action.Data),
		})
	}

	return nil, nil
}
