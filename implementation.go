package governance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/internal/utils/safecast"
	"github.com/compound-finance/comet-governance/sdk"
	"github.com/compound-finance/comet-governance/types"
)

// MaxActions is the maximum number of actions a proposal may carry.
const MaxActions = 10

// Implementation is the behavior a Governor delegates to. It keeps no state of its own: every
// method reads and writes the Host's store, so swapping implementations leaves proposals,
// votes and the admin set untouched.
type Implementation interface {
	Version() string

	Propose(
		ctx context.Context, h *Host, caller common.Address,
		targets []common.Address, values []*big.Int, payloads [][]byte, description string,
	) (uint64, error)
	CastVote(ctx context.Context, h *Host, caller common.Address, id uint64, support uint8) error
	Queue(ctx context.Context, h *Host, caller common.Address, id uint64) error
	Execute(ctx context.Context, h *Host, caller common.Address, id uint64) error
	Cancel(ctx context.Context, h *Host, caller common.Address, id uint64) error
	State(ctx context.Context, h *Host, id uint64) (types.ProposalState, error)
	SetGovernanceConfig(ctx context.Context, h *Host, caller common.Address, cfg types.GovernanceConfig) error
}

// Host is the view an Implementation gets of the proxy it runs behind.
type Host struct {
	Address  common.Address
	Store    *Store
	Timelock sdk.TimelockExecutor
	Runtime  sdk.Runtime
	Logger   sdk.Logger
}

// RequireAdmin returns an UnauthorizedError unless caller is in the admin set.
func (h *Host) RequireAdmin(caller common.Address) error {
	if !h.Store.Config.IsAdmin(caller) {
		return types.NewUnauthorizedError(caller, "admin")
	}

	return nil
}

// RequireTimelock returns an UnauthorizedError unless caller is the timelock.
func (h *Host) RequireTimelock(caller common.Address) error {
	if caller != h.Store.Timelock {
		return types.NewUnauthorizedError(caller, "timelock")
	}

	return nil
}

// Now returns the current call time in unix seconds.
func (h *Host) Now(ctx context.Context) (uint64, error) {
	return safecast.Int64ToUint64(h.Runtime.Now(ctx).Unix())
}

// Emit records an event emitted by the governor.
func (h *Host) Emit(ctx context.Context, name string, fields map[string]any) {
	h.Runtime.Emit(ctx, h.Address, name, fields)
}
