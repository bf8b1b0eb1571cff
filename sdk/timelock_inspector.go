package sdk

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// TimelockInspector is the read-only view of a timelock.
type TimelockInspector interface {
	Address() common.Address
	Admin(ctx context.Context) common.Address
	PendingAdmin(ctx context.Context) common.Address
	Delay(ctx context.Context) time.Duration
	GracePeriod(ctx context.Context) time.Duration
	IsQueued(ctx context.Context, txHash common.Hash) bool
	TransactionStatus(ctx context.Context, txHash common.Hash) types.TransactionStatus
}
