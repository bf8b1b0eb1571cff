package sdk

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// TimelockExecutor is the interface the governor drives: queue, cancel and execute delayed
// transactions. Every call is admin-only.
type TimelockExecutor interface {
	TimelockInspector
	QueueTransaction(ctx context.Context, caller common.Address, action types.Action, eta uint64) (common.Hash, error)
	CancelTransaction(ctx context.Context, caller common.Address, action types.Action, eta uint64) (common.Hash, error)
	ExecuteTransaction(ctx context.Context, caller common.Address, action types.Action, eta uint64) ([]byte, error)
}
