// Package timelock implements a delayed-execution queue: calls queued by the admin become
// executable once their eta is reached and stay executable for a grace period.
package timelock

import (
	"context"
	"fmt"
	"maps"
	"math/big"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/compound-finance/comet-governance/internal/utils/safecast"
	"github.com/compound-finance/comet-governance/sdk"
	"github.com/compound-finance/comet-governance/types"
)

var (
	_ sdk.TimelockExecutor = (*Timelock)(nil)
	_ sdk.Contract         = (*Timelock)(nil)
	_ sdk.Stateful         = (*Timelock)(nil)
)

type state struct {
	admin        common.Address
	pendingAdmin common.Address
	config       types.TimelockConfig
	queued       map[common.Hash]types.QueuedTransaction
}

func (s state) copy() state {
	cp := s
	cp.queued = make(map[common.Hash]types.QueuedTransaction, len(s.queued))
	for h, tx := range s.queued {
		tx.Action = tx.Action.Copy()
		cp.queued[h] = tx
	}

	return cp
}

// Timelock holds queued transactions keyed by their hash. Every mutating method runs as one
// call of the runtime it was created with.
type Timelock struct {
	address common.Address
	rt      sdk.Runtime
	lggr    sdk.Logger

	st state
}

// Option configures a Timelock.
type Option func(*Timelock)

// WithLogger sets the timelock logger.
func WithLogger(lggr sdk.Logger) Option {
	return func(t *Timelock) {
		t.lggr = lggr
	}
}

// New creates a timelock at address administered by admin.
func New(
	rt sdk.Runtime, address, admin common.Address, cfg types.TimelockConfig, opts ...Option,
) (*Timelock, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("%w: timelock address cannot be the zero address", types.ErrInvalidConfiguration)
	}
	if admin == (common.Address{}) {
		return nil, fmt.Errorf("%w: timelock admin cannot be the zero address", types.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Timelock{
		address: address,
		rt:      rt,
		lggr:    sdk.NopLogger(),
		st: state{
			admin:  admin,
			config: cfg,
			queued: make(map[common.Hash]types.QueuedTransaction),
		},
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Address returns the address the timelock is registered at.
func (t *Timelock) Address() common.Address {
	return t.address
}

// SetDelay changes the delay. Only the timelock itself may call it, so a new delay must go
// through the queue like any other call.
func (t *Timelock) SetDelay(ctx context.Context, caller common.Address, delay time.Duration) error {
	return t.rt.Atomic(ctx, func(ctx context.Context) error {
		if caller != t.address {
			return types.NewUnauthorizedError(caller, "timelock")
		}

		d := types.NewDuration(delay.Truncate(time.Second))
		if err := t.st.config.CheckDelay(d); err != nil {
			return err
		}
		t.st.config.Delay = d

		t.rt.Emit(ctx, t.address, types.EventNewDelay, map[string]any{"delay": d.Secs()})
		t.lggr.Infow("Timelock delay updated", "timelock", t.address.Hex(), "delay", d.String())

		return nil
	})
}

// SetPendingAdmin nominates the next admin. Only the timelock itself may call it.
func (t *Timelock) SetPendingAdmin(ctx context.Context, caller, pendingAdmin common.Address) error {
	return t.rt.Atomic(ctx, func(ctx context.Context) error {
		if caller != t.address {
			return types.NewUnauthorizedError(caller, "timelock")
		}
		t.st.pendingAdmin = pendingAdmin

		t.rt.Emit(ctx, t.address, types.EventNewPendingAdmin, map[string]any{"pendingAdmin": pendingAdmin})
		t.lggr.Infow("Timelock pending admin set", "timelock", t.address.Hex(), "pendingAdmin", pendingAdmin.Hex())

		return nil
	})
}

// AcceptAdmin makes the pending admin the admin. Only the pending admin may call it.
func (t *Timelock) AcceptAdmin(ctx context.Context, caller common.Address) error {
	return t.rt.Atomic(ctx, func(ctx context.Context) error {
		if t.st.pendingAdmin == (common.Address{}) || caller != t.st.pendingAdmin {
			return types.NewUnauthorizedError(caller, "pending admin")
		}
		t.st.admin = caller
		t.st.pendingAdmin = common.Address{}

		t.rt.Emit(ctx, t.address, types.EventNewAdmin, map[string]any{"admin": caller})
		t.lggr.Infow("Timelock admin accepted", "timelock", t.address.Hex(), "admin", caller.Hex())

		return nil
	})
}

// QueueTransaction records action for execution at eta. The eta must be at least the current
// delay away from now.
func (t *Timelock) QueueTransaction(
	ctx context.Context, caller common.Address, action types.Action, eta uint64,
) (common.Hash, error) {
	var txHash common.Hash
	err := t.rt.Atomic(ctx, func(ctx context.Context) error {
		if caller != t.st.admin {
			return types.NewUnauthorizedError(caller, "timelock admin")
		}

		now, err := t.now(ctx)
		if err != nil {
			return err
		}
		earliest, err := safecast.AddUint64(now, t.st.config.Delay.Secs())
		if err != nil {
			return err
		}
		if eta < earliest {
			return &types.InvalidEtaError{Eta: eta, Earliest: earliest}
		}

		txHash, err = HashTransaction(action, eta)
		if err != nil {
			return err
		}
		t.st.queued[txHash] = types.QueuedTransaction{Hash: txHash, Action: action.Copy(), Eta: eta}

		t.rt.Emit(ctx, t.address, types.EventQueueTransaction, txFields(txHash, action, eta))
		t.lggr.Infow("Queued transaction",
			"txHash", txHash.Hex(), "target", action.Target.Hex(), "eta", eta)

		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}

	return txHash, nil
}

// CancelTransaction removes a queued transaction. Canceling a hash that is not queued is a
// no-op.
func (t *Timelock) CancelTransaction(
	ctx context.Context, caller common.Address, action types.Action, eta uint64,
) (common.Hash, error) {
	var txHash common.Hash
	err := t.rt.Atomic(ctx, func(ctx context.Context) error {
		if caller != t.st.admin {
			return types.NewUnauthorizedError(caller, "timelock admin")
		}

		var err error
		txHash, err = HashTransaction(action, eta)
		if err != nil {
			return err
		}
		if _, ok := t.st.queued[txHash]; !ok {
			t.lggr.Debugw("Cancel of unqueued transaction ignored", "txHash", txHash.Hex())
			return nil
		}
		delete(t.st.queued, txHash)

		t.rt.Emit(ctx, t.address, types.EventCancelTransaction, txFields(txHash, action, eta))
		t.lggr.Infow("Canceled transaction", "txHash", txHash.Hex(), "target", action.Target.Hex())

		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}

	return txHash, nil
}

// ExecuteTransaction dispatches a queued transaction with the timelock as caller. The
// transaction must be queued and now must fall in [eta, eta+gracePeriod).
func (t *Timelock) ExecuteTransaction(
	ctx context.Context, caller common.Address, action types.Action, eta uint64,
) ([]byte, error) {
	var result []byte
	err := t.rt.Atomic(ctx, func(ctx context.Context) error {
		if caller != t.st.admin {
			return types.NewUnauthorizedError(caller, "timelock admin")
		}

		txHash, err := HashTransaction(action, eta)
		if err != nil {
			return err
		}
		if _, ok := t.st.queued[txHash]; !ok {
			return types.NewTransactionNotQueuedError(txHash)
		}

		now, err := t.now(ctx)
		if err != nil {
			return err
		}
		if now < eta {
			return &types.TransactionNotReadyError{Hash: txHash, Eta: eta, Now: now}
		}
		staleAt, err := safecast.AddUint64(eta, t.st.config.GracePeriod.Secs())
		if err != nil {
			return err
		}
		if now >= staleAt {
			return &types.TransactionExpiredError{
				Hash: txHash, Eta: eta, GracePeriod: t.st.config.GracePeriod, Now: now,
			}
		}

		// removed before the call so a reentrant execute of the same hash fails
		delete(t.st.queued, txHash)

		result, err = t.rt.Dispatch(ctx, t.address, action)
		if err != nil {
			return fmt.Errorf("transaction %s execution reverted: %w", txHash.Hex(), err)
		}

		t.rt.Emit(ctx, t.address, types.EventExecuteTransaction, txFields(txHash, action, eta))
		t.lggr.Infow("Executed transaction", "txHash", txHash.Hex(), "target", action.Target.Hex())

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Admin returns the current admin.
func (t *Timelock) Admin(ctx context.Context) common.Address {
	var admin common.Address
	_ = t.rt.View(ctx, func(context.Context) error {
		admin = t.st.admin
		return nil
	})

	return admin
}

// PendingAdmin returns the nominated admin, or the zero address.
func (t *Timelock) PendingAdmin(ctx context.Context) common.Address {
	var pending common.Address
	_ = t.rt.View(ctx, func(context.Context) error {
		pending = t.st.pendingAdmin
		return nil
	})

	return pending
}

// Config returns the delay parameters.
func (t *Timelock) Config(ctx context.Context) types.TimelockConfig {
	var cfg types.TimelockConfig
	_ = t.rt.View(ctx, func(context.Context) error {
		cfg = t.st.config
		return nil
	})

	return cfg
}

// Delay returns the current delay.
func (t *Timelock) Delay(ctx context.Context) time.Duration {
	return t.Config(ctx).Delay.Duration
}

// GracePeriod returns how long a transaction stays executable after its eta.
func (t *Timelock) GracePeriod(ctx context.Context) time.Duration {
	return t.Config(ctx).GracePeriod.Duration
}

// MinimumDelay returns the lower bound of the delay.
func (t *Timelock) MinimumDelay(ctx context.Context) time.Duration {
	return t.Config(ctx).MinimumDelay.Duration
}

// MaximumDelay returns the upper bound of the delay.
func (t *Timelock) MaximumDelay(ctx context.Context) time.Duration {
	return t.Config(ctx).MaximumDelay.Duration
}

// IsQueued reports whether txHash is in the queue, expired or not.
func (t *Timelock) IsQueued(ctx context.Context, txHash common.Hash) bool {
	var ok bool
	_ = t.rt.View(ctx, func(context.Context) error {
		_, ok = t.st.queued[txHash]
		return nil
	})

	return ok
}

// TransactionStatus returns the status of txHash at the current time.
func (t *Timelock) TransactionStatus(ctx context.Context, txHash common.Hash) types.TransactionStatus {
	status := types.TransactionUnqueued
	_ = t.rt.View(ctx, func(ctx context.Context) error {
		tx, ok := t.st.queued[txHash]
		if !ok {
			return nil
		}

		now, err := t.now(ctx)
		if err != nil {
			return err
		}
		staleAt, err := safecast.AddUint64(tx.Eta, t.st.config.GracePeriod.Secs())
		if err != nil {
			return err
		}

		switch {
		case now < tx.Eta:
			status = types.TransactionPending
		case now >= staleAt:
			status = types.TransactionExpired
		default:
			status = types.TransactionReady
		}

		return nil
	})

	return status
}

// QueuedTransactions returns every queued transaction ordered by eta, then hash.
func (t *Timelock) QueuedTransactions(ctx context.Context) []types.QueuedTransaction {
	var txs []types.QueuedTransaction
	_ = t.rt.View(ctx, func(context.Context) error {
		txs = sortedQueue(t.st.queued)
		return nil
	})

	return txs
}

// ExportState returns a copy of the timelock state.
func (t *Timelock) ExportState(ctx context.Context) types.TimelockState {
	var s types.TimelockState
	_ = t.rt.View(ctx, func(context.Context) error {
		s = types.TimelockState{
			Address:      t.address,
			Admin:        t.st.admin,
			PendingAdmin: t.st.pendingAdmin,
			Config:       t.st.config,
			Queued:       sortedQueue(t.st.queued),
		}

		return nil
	})

	return s
}

// ImportState replaces the timelock state with s. Every queued entry is checked against its
// hash.
func (t *Timelock) ImportState(ctx context.Context, s types.TimelockState) error {
	return t.rt.Atomic(ctx, func(context.Context) error {
		if s.Address != t.address {
			return fmt.Errorf("state belongs to timelock %s, not %s", s.Address.Hex(), t.address.Hex())
		}
		if err := s.Config.Validate(); err != nil {
			return err
		}

		queued := make(map[common.Hash]types.QueuedTransaction, len(s.Queued))
		for _, tx := range s.Queued {
			txHash, err := HashTransaction(tx.Action, tx.Eta)
			if err != nil {
				return err
			}
			if txHash != tx.Hash {
				return fmt.Errorf("queued transaction hash mismatch: stored %s, computed %s", tx.Hash.Hex(), txHash.Hex())
			}
			tx.Action = tx.Action.Copy()
			queued[txHash] = tx
		}

		t.st = state{
			admin:        s.Admin,
			pendingAdmin: s.PendingAdmin,
			config:       s.Config,
			queued:       queued,
		}

		return nil
	})
}

// Snapshot implements sdk.Stateful.
func (t *Timelock) Snapshot() any {
	return t.st.copy()
}

// Restore implements sdk.Stateful.
func (t *Timelock) Restore(snapshot any) {
	t.st = snapshot.(state).copy()
}

func (t *Timelock) now(ctx context.Context) (uint64, error) {
	return safecast.Int64ToUint64(t.rt.Now(ctx).Unix())
}

func sortedQueue(queued map[common.Hash]types.QueuedTransaction) []types.QueuedTransaction {
	txs := make([]types.QueuedTransaction, 0, len(queued))
	for _, h := range slices.SortedFunc(maps.Keys(queued), func(a, b common.Hash) int { return a.Cmp(b) }) {
		tx := queued[h]
		tx.Action = tx.Action.Copy()
		txs = append(txs, tx)
	}
	slices.SortStableFunc(txs, func(a, b types.QueuedTransaction) int {
		switch {
		case a.Eta < b.Eta:
			return -1
		case a.Eta > b.Eta:
			return 1
		default:
			return 0
		}
	})

	return txs
}

func txFields(txHash common.Hash, action types.Action, eta uint64) map[string]any {
	return map[string]any{
		"txHash": txHash,
		"target": action.Target,
		"value":  new(big.Int).Set(action.ValueOrZero()),
		"data":   action.Data.String(),
		"eta":    eta,
	}
}
