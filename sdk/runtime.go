package sdk

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/types"
)

// Dispatcher invokes an action on its target on behalf of caller. The payload is opaque to the
// dispatcher's users.
type Dispatcher interface {
	Dispatch(ctx context.Context, caller common.Address, action types.Action) ([]byte, error)
}

// Contract is an addressable component that accepts dispatched calls.
type Contract interface {
	Address() common.Address
	Call(ctx context.Context, caller common.Address, value *big.Int, data []byte) ([]byte, error)
}

// Stateful is implemented by components whose state must be restored when a call fails.
// Snapshot returns a deep copy that Restore accepts back.
type Stateful interface {
	Snapshot() any
	Restore(snapshot any)
}

// Runtime is the execution environment components run in. It serializes calls, samples the
// clock once per call and reverts every tracked component when a call fails.
type Runtime interface {
	Dispatcher

	// Atomic runs fn as one call. When ctx is already inside a call, fn runs as a nested frame
	// sharing the outer lock and timestamp; the nested frame snapshots on entry and a failure
	// reverts only its own effects unless the error reaches the outermost frame.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error

	// View runs fn with the runtime locked, without snapshotting.
	View(ctx context.Context, fn func(ctx context.Context) error) error

	// Now returns the timestamp of the current call, or the clock's time outside a call.
	Now(ctx context.Context) time.Time

	// Emit appends an audit event to the journal of the current call.
	Emit(ctx context.Context, emitter common.Address, name string, fields map[string]any)
}
